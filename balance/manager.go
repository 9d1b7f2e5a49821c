// Package balance arbitrates the shared, strictly-conserved pool of
// available balance across concurrent strategy-initiated order
// reservations. BalanceManager is the sole mutator of a Balances
// aggregate; every exported method serializes behind a single internal
// lock so the conservation invariants in ServiceValueTree never observe a
// torn update.
package balance

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/exchange/order"
	"github.com/axiomlane/tradecore/log"
)

// PositionKey identifies a signed position ledger entry: one account, one
// currency pair.
type PositionKey struct {
	AccountId exchange.AccountId
	Pair      currency.Pair
}

type limitKey struct {
	AccountId exchange.AccountId
	Pair      currency.Pair
	Currency  currency.Code
}

// Balances is the aggregate snapshot BalanceManager owns. Version
// increments on every successful mutation; InitTime is fixed at
// construction.
type Balances struct {
	Version      int
	InitTime     time.Time
	ExchangeFree map[exchange.AccountId]map[currency.Code]decimal.Decimal
	VirtualDiff  *ServiceValueTree
	Reserved     *ServiceValueTree
	Positions    map[PositionKey]decimal.Decimal
	AmountLimits *ServiceValueTree
	Reservations map[ReservationId]*Reservation
	LastFills    map[exchange.MarketAccountId]order.Fill

	limitsSet map[limitKey]bool
}

// ReserveRequest is the input to TryReserve.
type ReserveRequest struct {
	AccountId exchange.AccountId
	Pair      currency.Pair
	Currency  currency.Code
	Side      order.Side
	Price     decimal.Decimal
	Amount    decimal.Decimal
}

// BalanceManager enforces the reservation protocol and conservation
// invariants described by ServiceValueTree. All reads and writes are
// mediated by mu; no method suspends while holding it.
type BalanceManager struct {
	mu        sync.Mutex
	balances  Balances
	allocator ReservationIdAllocator
}

// NewBalanceManager constructs a BalanceManager seeded with the
// authoritative free balances reported by each exchange account at boot.
func NewBalanceManager(initialFree map[exchange.AccountId]map[currency.Code]decimal.Decimal) *BalanceManager {
	if initialFree == nil {
		initialFree = make(map[exchange.AccountId]map[currency.Code]decimal.Decimal)
	}
	return &BalanceManager{
		balances: Balances{
			Version:      0,
			InitTime:     time.Now(),
			ExchangeFree: initialFree,
			VirtualDiff:  NewServiceValueTree(),
			Reserved:     NewServiceValueTree(),
			Positions:    make(map[PositionKey]decimal.Decimal),
			AmountLimits: NewServiceValueTree(),
			Reservations: make(map[ReservationId]*Reservation),
			LastFills:    make(map[exchange.MarketAccountId]order.Fill),
			limitsSet:    make(map[limitKey]bool),
		},
	}
}

// Version returns the current mutation version. Stable across reads; only
// changes as a side effect of a successful mutating call.
func (m *BalanceManager) Version() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances.Version
}

// effectiveFree computes virtual_free (exchange free + virtual diff -
// reserved, the last two summed over every pair), clamped against any
// per-(account, pair, currency) limit. Must be called with mu held.
func (m *BalanceManager) effectiveFree(accountID exchange.AccountId, pair currency.Pair, code currency.Code) decimal.Decimal {
	exchangeFree := m.balances.ExchangeFree[accountID][code]
	virtualFree := exchangeFree.
		Add(m.balances.VirtualDiff.SumByAccountCurrency(accountID, code)).
		Sub(m.balances.Reserved.SumByAccountCurrency(accountID, code))

	key := limitKey{AccountId: accountID, Pair: pair, Currency: code}
	if !m.balances.limitsSet[key] {
		return virtualFree
	}
	limitRemaining := m.balances.AmountLimits.Get(accountID, pair, code).Sub(m.balances.Reserved.Get(accountID, pair, code))
	if limitRemaining.LessThan(virtualFree) {
		return limitRemaining
	}
	return virtualFree
}

// TryReserve attempts to reserve req.Amount of req.Currency against
// req.AccountId. On success it returns a fresh ReservationId; on failure it
// returns *InsufficientFundsError and applies no mutation.
func (m *BalanceManager) TryReserve(req ReserveRequest) (ReservationId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	available := m.effectiveFree(req.AccountId, req.Pair, req.Currency)
	if req.Amount.GreaterThan(available) {
		return 0, &InsufficientFundsError{Available: available, Requested: req.Amount}
	}

	id := m.allocator.Next()
	m.balances.Reservations[id] = &Reservation{
		Id:              id,
		AccountId:       req.AccountId,
		Pair:            req.Pair,
		Currency:        req.Currency,
		Side:            req.Side,
		Price:           req.Price,
		AmountRequested: req.Amount,
		CreatedAt:       time.Now(),
	}
	m.balances.Reserved.AddAssign(req.AccountId, req.Pair, req.Currency, req.Amount)
	m.bumpVersion()
	return id, nil
}

// Unreserve releases amount of reservationID's still-reserved balance
// without a fill: a strategy cancelling or reducing an order before it is
// acknowledged. A reservation that reaches zero still-reserved with no
// fill ever recorded is removed from the ledger; one that has seen a fill
// is retained in its terminal state for audit.
func (m *BalanceManager) Unreserve(id ReservationId, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.balances.Reservations[id]
	if !ok {
		return errUnknownReservation
	}
	stillReserved := r.AmountStillReserved()
	if amount.GreaterThan(stillReserved) {
		return fmt.Errorf("%w: remaining %s, requested %s", errOverUnreserve, stillReserved, amount)
	}

	m.balances.Reserved.SubAssign(r.AccountId, r.Pair, r.Currency, amount)
	m.assertNonNegativeReserve(r.AccountId, r.Pair, r.Currency)
	r.AmountUnreservedOrCancelled = r.AmountUnreservedOrCancelled.Add(amount)
	m.bumpVersion()

	if r.AmountStillReserved().IsZero() && r.AmountFilled.IsZero() {
		delete(m.balances.Reservations, id)
	}
	return nil
}

// CancelReservation unreserves the whole remaining still-reserved amount
// of a reservation — shorthand for Unreserve(id, stillReserved).
func (m *BalanceManager) CancelReservation(id ReservationId) error {
	m.mu.Lock()
	r, ok := m.balances.Reservations[id]
	if !ok {
		m.mu.Unlock()
		return errUnknownReservation
	}
	remaining := r.AmountStillReserved()
	m.mu.Unlock()
	return m.Unreserve(id, remaining)
}

// ApplyFill records fill against reservationID. The reservation's currency
// determines how fill.FilledAmount (always denominated in the pair's base
// currency) is translated into reservation units: a Buy reserves quote
// currency, so the reservation-unit amount is FilledAmount * fill.Price; a
// Sell reserves base currency directly, so it is FilledAmount unchanged.
func (m *BalanceManager) ApplyFill(id ReservationId, fill order.Fill) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.balances.Reservations[id]
	if !ok {
		return errUnknownReservation
	}

	filledInReservationUnits := fill.FilledAmount
	if r.Side == order.Buy {
		filledInReservationUnits = fill.FilledAmount.Mul(fill.Price)
	}

	stillReserved := r.AmountStillReserved()
	if filledInReservationUnits.GreaterThan(stillReserved) {
		return fmt.Errorf("%w: remaining %s, requested %s", errOverFill, stillReserved, filledInReservationUnits)
	}

	r.AmountFilled = r.AmountFilled.Add(filledInReservationUnits)
	m.balances.Reserved.SubAssign(r.AccountId, r.Pair, r.Currency, filledInReservationUnits)
	m.assertNonNegativeReserve(r.AccountId, r.Pair, r.Currency)

	posKey := PositionKey{AccountId: r.AccountId, Pair: r.Pair}
	signedFill := fill.FilledAmount
	if r.Side == order.Sell {
		signedFill = signedFill.Neg()
	}
	m.balances.Positions[posKey] = m.balances.Positions[posKey].Add(signedFill)

	base, quote := r.Pair.Base, r.Pair.Quote
	if r.Side == order.Buy {
		m.balances.VirtualDiff.AddAssign(r.AccountId, r.Pair, base, fill.FilledAmount)
		m.balances.VirtualDiff.SubAssign(r.AccountId, r.Pair, quote, filledInReservationUnits)
	} else {
		m.balances.VirtualDiff.AddAssign(r.AccountId, r.Pair, quote, filledInReservationUnits)
		m.balances.VirtualDiff.SubAssign(r.AccountId, r.Pair, base, fill.FilledAmount)
	}
	if !fill.CommissionAmount.IsZero() {
		m.balances.VirtualDiff.SubAssign(r.AccountId, r.Pair, fill.CommissionCurrency, fill.CommissionAmount)
	}

	m.balances.LastFills[exchange.NewMarketAccountId(r.AccountId, r.Pair)] = fill
	m.bumpVersion()
	return nil
}

// SetExchangeBalances replaces the authoritative free-balance view for an
// account. It does not touch reservations or fills. Per-currency entries
// in the new snapshot zero the corresponding virtual_diff leaves across
// every pair for that account — the conservative policy that the fresh
// exchange balance already reflects whatever the engine had been tracking
// provisionally.
func (m *BalanceManager) SetExchangeBalances(accountID exchange.AccountId, free map[currency.Code]decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances.ExchangeFree[accountID] = free
	for code := range free {
		m.balances.VirtualDiff.ZeroAccountCurrency(accountID, code)
	}
	m.bumpVersion()
}

// SetAmountLimit sets a cap on the reserved amount of code for
// (accountID, pair), gating future TryReserve calls.
func (m *BalanceManager) SetAmountLimit(accountID exchange.AccountId, pair currency.Pair, code currency.Code, limit decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances.AmountLimits.Set(accountID, pair, code, limit)
	m.balances.limitsSet[limitKey{AccountId: accountID, Pair: pair, Currency: code}] = true
	m.bumpVersion()
}

// Reservation returns a copy of the reservation state for id, for
// inspection by tests and reconciliation logic.
func (m *BalanceManager) Reservation(id ReservationId) (Reservation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.balances.Reservations[id]
	if !ok {
		return Reservation{}, false
	}
	return *r, true
}

// ReservedTotal returns the sum, across every pair, of reserved amount for
// (accountID, code) — the left-hand side of conservation invariant 1.
func (m *BalanceManager) ReservedTotal(accountID exchange.AccountId, code currency.Code) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances.Reserved.SumByAccountCurrency(accountID, code)
}

func (m *BalanceManager) bumpVersion() {
	m.balances.Version++
}

// assertNonNegativeReserve panics if a reserved-amount leaf has gone
// negative — that indicates a logic bug in this package, not adversarial
// input, and per policy the process must abort rather than silently
// corrupt the ledger.
func (m *BalanceManager) assertNonNegativeReserve(accountID exchange.AccountId, pair currency.Pair, code currency.Code) {
	v := m.balances.Reserved.Get(accountID, pair, code)
	if v.IsNegative() {
		log.Errorln(log.Balance, fmt.Errorf("reserved amount for %s/%s/%s went negative: %s", accountID, pair, code, v))
		panic(fmt.Sprintf("balance: reserved amount invariant violated for %s/%s/%s: %s", accountID, pair, code, v))
	}
}
