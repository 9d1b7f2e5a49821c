// Package reconcile implements the pessimistic-reservation recovery
// policy spec §5 assigns to a timed-out create_order call: when the
// outcome of an order creation is unknown, its reservation is not
// released, and a background reconciler polls ExchangeClient.GetOrderInfo
// until a terminal status is observed.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/axiomlane/tradecore/balance"
	"github.com/axiomlane/tradecore/exchange/order"
	"github.com/axiomlane/tradecore/exchangeapi"
	"github.com/axiomlane/tradecore/log"
)

// Reconciler polls a Client for an order's terminal outcome and settles
// the corresponding reservation in a BalanceManager accordingly.
type Reconciler struct {
	client       exchangeapi.Client
	balances     *balance.BalanceManager
	pollInterval time.Duration
}

// New returns a Reconciler that polls client every pollInterval.
func New(client exchangeapi.Client, balances *balance.BalanceManager, pollInterval time.Duration) *Reconciler {
	return &Reconciler{client: client, balances: balances, pollInterval: pollInterval}
}

// Watch polls GetOrderInfo(orderRef) until it reports a terminal Status or
// ctx is cancelled. On a terminal Filled status it applies the
// corresponding fill to reservationID; on Cancelled or Rejected it cancels
// the reservation outright. The caller is responsible for not releasing
// reservationID by any other path while Watch is in flight — pessimistic
// reservations are held until this resolves.
func (r *Reconciler) Watch(ctx context.Context, reservationID balance.ReservationId, orderRef string) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		info, err := r.client.GetOrderInfo(ctx, orderRef)
		if err != nil {
			log.Warnf(log.ExchangeSys, "reconcile: GetOrderInfo(%s) failed, retrying: %v", orderRef, err)
		} else if info.Status.IsTerminal() {
			return r.settle(reservationID, info)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("reconcile: watch on %s abandoned: %w", orderRef, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (r *Reconciler) settle(reservationID balance.ReservationId, info order.Info) error {
	switch info.Status {
	case order.StatusFilled, order.StatusPartiallyFilled:
		if info.FilledAmount.IsZero() {
			return nil
		}
		return r.balances.ApplyFill(reservationID, order.Fill{
			OrderRef:     info.OrderRef,
			Price:        info.Price,
			FilledAmount: info.FilledAmount,
			Time:         info.UpdatedAt,
		})
	case order.StatusCancelled, order.StatusRejected:
		return r.balances.CancelReservation(reservationID)
	default:
		return nil
	}
}
