package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange"
)

// Spec is the request body of a create_order call.
type Spec struct {
	AccountId exchange.AccountId
	Pair      currency.Pair
	Side      Side
	Type      Type
	Price     decimal.Decimal
	Amount    decimal.Decimal
}

// Cancellation is the request body of a cancel_order call.
type Cancellation struct {
	AccountId exchange.AccountId
	Pair      currency.Pair
	OrderRef  string
}

// CreateResult is the response of a create_order call: either a new order
// reference or an opaque exchange.Error.
type CreateResult struct {
	OrderRef string
	Err      *exchange.Error
}

// CancelResult is the response of a cancel_order call.
type CancelResult struct {
	Err *exchange.Error
}

// Status is the lifecycle state of an order as reported by the exchange.
type Status int

const (
	StatusUnknown Status = iota
	StatusOpen
	StatusPartiallyFilled
	StatusFilled
	StatusCancelled
	StatusRejected
)

// IsTerminal reports whether s is a terminal status — no further fills or
// cancellations will change the order's outcome.
func (s Status) IsTerminal() bool {
	return s == StatusFilled || s == StatusCancelled || s == StatusRejected
}

// Info is the response of a get_order_info call.
type Info struct {
	OrderRef     string
	Pair         currency.Pair
	Status       Status
	FilledAmount decimal.Decimal
	Price        decimal.Decimal
	UpdatedAt    time.Time
}

// BalancesAndPositions is the response of a get_balance call.
type BalancesAndPositions struct {
	Free      map[currency.Code]decimal.Decimal
	Positions map[currency.Pair]decimal.Decimal
}
