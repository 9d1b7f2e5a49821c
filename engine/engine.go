package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/axiomlane/tradecore/balance"
	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/exchange/order"
	"github.com/axiomlane/tradecore/exchangeapi"
	"github.com/axiomlane/tradecore/httpstatus"
	"github.com/axiomlane/tradecore/log"
	"github.com/axiomlane/tradecore/orderbook"
	"github.com/axiomlane/tradecore/reconcile"
)

// Engine is the top-level process assembly: one BalanceManager, one
// SnapshotStore/EventRouter pair, an ExchangeManager registry of client
// connections, and the OrderManager/Reconciler pair that settles
// reservations against fills and timeouts. Everything a strategy or the
// httpstatus surface reads flows through one of these fields.
type Engine struct {
	Balances  *balance.BalanceManager
	Exchanges *ExchangeManager
	Orders    *OrderManager
	Router    *orderbook.EventRouter
	Snapshots *orderbook.SnapshotStore
	Status    *httpstatus.Server
}

// New assembles an Engine. initialFree seeds BalanceManager's exchange-free
// balances; reconcilePollInterval governs how aggressively the background
// reconciler polls GetOrderInfo on timed-out creates.
func New(initialFree map[exchange.AccountId]map[currency.Code]decimal.Decimal, client exchangeapi.Client, reconcilePollInterval time.Duration) *Engine {
	balances := balance.NewBalanceManager(initialFree)
	reconciler := reconcile.New(client, balances, reconcilePollInterval)
	orders := NewOrderManager(balances, reconciler)
	snapshots := orderbook.NewSnapshotStore()
	router := orderbook.NewEventRouter(snapshots)

	return &Engine{
		Balances:  balances,
		Exchanges: NewExchangeManager(),
		Orders:    orders,
		Router:    router,
		Snapshots: snapshots,
		Status:    httpstatus.NewServer(snapshots),
	}
}

// RunFeed drains feed into the engine's EventRouter and OrderManager until
// ctx is cancelled or the feed fails. Order-book events and fills are
// handled as they arrive; a fill for an order reference OrderManager never
// tracked is logged and dropped rather than treated as fatal, since it may
// belong to a position opened before this process started.
func (e *Engine) RunFeed(ctx context.Context, feed exchangeapi.Feed) error {
	events := make(chan orderbook.Event, 256)
	fills := make(chan order.Fill, 256)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				e.Router.Route(ev)
			case fill, ok := <-fills:
				if !ok {
					return
				}
				if err := e.Orders.HandleFill(fill); err != nil {
					log.Warnf(log.Engine, "dropping fill for %s: %v", fill.OrderRef, err)
				}
			}
		}
	}()

	err := feed.Run(ctx, events, fills)
	<-done
	return err
}
