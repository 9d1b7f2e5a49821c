package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/axiomlane/tradecore/balance"
	"github.com/axiomlane/tradecore/exchange/order"
	"github.com/axiomlane/tradecore/exchangeapi"
	"github.com/axiomlane/tradecore/exchangerest"
	"github.com/axiomlane/tradecore/log"
	"github.com/axiomlane/tradecore/reconcile"
)

// errUnknownOrderRef is returned when a Fill arrives for an OrderRef
// OrderManager never tracked — either it belongs to another process or its
// reservation was already settled and forgotten.
var errUnknownOrderRef = errors.New("engine: fill for untracked order reference")

// OrderManager is the core's order-lifecycle glue: it submits and cancels
// orders against an exchangeapi.Client, maps exchange order references back
// to the balance.Reservation they were created against, and applies
// incoming Fills to the right reservation. A create_order whose outcome is
// unknown (context timeout) never has its reservation released by
// OrderManager; the reservation stays held and a warning is logged. No
// reconcile.Reconciler watch is started for it, because no OrderRef exists
// to poll by; the reconciler is used only after a cancel_order that failed
// on context expiry.
type OrderManager struct {
	balances   *balance.BalanceManager
	reconciler *reconcile.Reconciler

	mu               sync.Mutex
	refToReservation map[string]balance.ReservationId
}

// NewOrderManager wires an OrderManager around balances and reconciler.
func NewOrderManager(balances *balance.BalanceManager, reconciler *reconcile.Reconciler) *OrderManager {
	return &OrderManager{
		balances:         balances,
		reconciler:       reconciler,
		refToReservation: make(map[string]balance.ReservationId),
	}
}

// SubmitOrder creates spec against client against an already-held
// reservationID. On an outright rejection (result.Err != nil) the
// reservation is released immediately. On a context timeout — outcome
// unknown — the reservation is left held and watchUnknownOutcome logs it;
// no polling of the order's status is started.
func (m *OrderManager) SubmitOrder(ctx context.Context, client exchangeapi.Client, spec order.Spec, reservationID balance.ReservationId) (order.CreateResult, error) {
	result, err := client.CreateOrder(ctx, spec)
	if err != nil {
		if ctx.Err() != nil {
			log.Warnf(log.Engine, "create_order outcome unknown for reservation %d, starting reconciliation watch: %v", reservationID, err)
			go m.watchUnknownOutcome(reservationID, spec)
			return result, err
		}
		if cancelErr := m.balances.CancelReservation(reservationID); cancelErr != nil {
			log.Errorln(log.Engine, fmt.Errorf("releasing reservation %d after create_order error: %w", reservationID, cancelErr))
		}
		return result, err
	}

	if result.Err != nil {
		if cancelErr := m.balances.CancelReservation(reservationID); cancelErr != nil {
			log.Errorln(log.Engine, fmt.Errorf("releasing reservation %d after order rejection: %w", reservationID, cancelErr))
		}
		return result, nil
	}

	m.mu.Lock()
	m.refToReservation[result.OrderRef] = reservationID
	m.mu.Unlock()
	return result, nil
}

// watchUnknownOutcome runs when SubmitOrder's own call timed out before a
// reference was ever assigned. It only logs a warning: there is no OrderRef
// to poll GetOrderInfo by, so nothing is polled, and since the OrderRef was
// never tracked, a later Fill for that order is not matched to the
// reservation by HandleFill. The reservation stays held until a caller
// releases it through the BalanceManager or CancelOrder.
func (m *OrderManager) watchUnknownOutcome(reservationID balance.ReservationId, spec order.Spec) {
	log.Warnf(log.Engine, "reservation %d for %s %s held pending manual or out-of-band reconciliation", reservationID, spec.Side, spec.Pair)
}

// CancelOrder cancels cancellation against client, retrying on timeout per
// exchangerest.DefaultCancelRetryPolicy (spec.md §5: cancel_order, unlike
// create_order, is safe to retry blindly since it is idempotent). On
// success the reservation's still-held amount is released.
func (m *OrderManager) CancelOrder(ctx context.Context, client exchangeapi.Client, cancellation order.Cancellation, reservationID balance.ReservationId) error {
	err := exchangerest.WithRetry(ctx, exchangerest.DefaultCancelRetryPolicy, func(ctx context.Context) error {
		res, err := client.CancelOrder(ctx, cancellation)
		if err != nil {
			return err
		}
		if res.Err != nil {
			return res.Err
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil && m.reconciler != nil {
			go func() {
				if watchErr := m.reconciler.Watch(context.Background(), reservationID, cancellation.OrderRef); watchErr != nil {
					log.Errorln(log.Engine, fmt.Errorf("reconciliation watch for %s failed: %w", cancellation.OrderRef, watchErr))
				}
			}()
		}
		return err
	}

	m.mu.Lock()
	delete(m.refToReservation, cancellation.OrderRef)
	m.mu.Unlock()
	return m.balances.CancelReservation(reservationID)
}

// HandleFill applies fill to the reservation OrderManager tracked for its
// OrderRef, forgetting the mapping once the reservation is terminal.
func (m *OrderManager) HandleFill(fill order.Fill) error {
	m.mu.Lock()
	reservationID, ok := m.refToReservation[fill.OrderRef]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownOrderRef, fill.OrderRef)
	}

	if err := m.balances.ApplyFill(reservationID, fill); err != nil {
		return err
	}

	reservation, ok := m.balances.Reservation(reservationID)
	if ok && reservation.IsTerminal() {
		m.mu.Lock()
		delete(m.refToReservation, fill.OrderRef)
		m.mu.Unlock()
	}
	return nil
}

// TrackedReservations reports how many order references are currently
// awaiting a fill or cancellation.
func (m *OrderManager) TrackedReservations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.refToReservation)
}
