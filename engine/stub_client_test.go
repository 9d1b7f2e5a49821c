package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange/order"
)

// stubClientBase implements every exchangeapi.Client method a given engine
// test does not exercise, so a narrower stub only needs to override the one
// method under test.
type stubClientBase struct{}

func (stubClientBase) CreateOrder(context.Context, order.Spec) (order.CreateResult, error) {
	return order.CreateResult{}, nil
}

func (stubClientBase) CancelOrder(context.Context, order.Cancellation) (order.CancelResult, error) {
	return order.CancelResult{}, nil
}

func (stubClientBase) CancelAllOrders(context.Context, currency.Pair) error { return nil }

func (stubClientBase) GetOpenOrders(context.Context) ([]order.Info, error) { return nil, nil }

func (stubClientBase) GetOpenOrdersByCurrencyPair(context.Context, currency.Pair) ([]order.Info, error) {
	return nil, nil
}

func (stubClientBase) GetOrderInfo(context.Context, string) (order.Info, error) {
	return order.Info{}, nil
}

func (stubClientBase) GetBalance(context.Context, bool) (order.BalancesAndPositions, error) {
	return order.BalancesAndPositions{}, nil
}

func (stubClientBase) GetMyTrades(context.Context, currency.Pair, time.Time) ([]order.Fill, error) {
	return nil, nil
}

func (stubClientBase) GetActivePositions(context.Context) (map[currency.Pair]decimal.Decimal, error) {
	return nil, nil
}

func (stubClientBase) ClosePosition(context.Context, currency.Pair, *decimal.Decimal) error {
	return nil
}

func (stubClientBase) BuildAllSymbols(context.Context) ([]currency.Pair, error) { return nil, nil }
