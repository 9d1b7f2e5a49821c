package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/exchange/order"
)

// NoopClient is a zero-value exchangeapi.Client that answers every call
// with exchange.ErrNetwork. It lets an Engine start up and serve its
// read-only status surface before any concrete exchange adapter has been
// registered via ExchangeManager.Add — concrete adapters are out of scope
// for this module (spec.md's Non-goals), so NoopClient is what reconcile.New
// is handed until one is wired in.
type NoopClient struct{}

func (NoopClient) CreateOrder(context.Context, order.Spec) (order.CreateResult, error) {
	return order.CreateResult{}, notWired()
}

func (NoopClient) CancelOrder(context.Context, order.Cancellation) (order.CancelResult, error) {
	return order.CancelResult{}, notWired()
}

func (NoopClient) CancelAllOrders(context.Context, currency.Pair) error { return notWired() }

func (NoopClient) GetOpenOrders(context.Context) ([]order.Info, error) { return nil, notWired() }

func (NoopClient) GetOpenOrdersByCurrencyPair(context.Context, currency.Pair) ([]order.Info, error) {
	return nil, notWired()
}

func (NoopClient) GetOrderInfo(context.Context, string) (order.Info, error) {
	return order.Info{}, notWired()
}

func (NoopClient) GetBalance(context.Context, bool) (order.BalancesAndPositions, error) {
	return order.BalancesAndPositions{}, notWired()
}

func (NoopClient) GetMyTrades(context.Context, currency.Pair, time.Time) ([]order.Fill, error) {
	return nil, notWired()
}

func (NoopClient) GetActivePositions(context.Context) (map[currency.Pair]decimal.Decimal, error) {
	return nil, notWired()
}

func (NoopClient) ClosePosition(context.Context, currency.Pair, *decimal.Decimal) error {
	return notWired()
}

func (NoopClient) BuildAllSymbols(context.Context) ([]currency.Pair, error) { return nil, notWired() }

func notWired() error {
	return &exchange.Error{Kind: exchange.ErrNetwork, Message: "no exchange adapter registered for this account"}
}
