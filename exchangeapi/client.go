// Package exchangeapi names the abstract operation surfaces the core calls
// (Client) and consumes (Feed). Concrete exchange adapters implement Client;
// concrete feed adapters implement Feed. Neither this package nor the core
// ever performs exchange-specific request signing or wire parsing — that is
// entirely the concrete adapter's concern.
package exchangeapi

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/exchange/order"
)

// Client is the outbound operation surface ExchangeClient exposes to the
// core, per spec §6. Every operation is asynchronous (context-bound) and
// returns a typed result; none of them may be called from inside a
// BalanceManager or SnapshotStore critical section.
type Client interface {
	CreateOrder(ctx context.Context, spec order.Spec) (order.CreateResult, error)
	CancelOrder(ctx context.Context, cancellation order.Cancellation) (order.CancelResult, error)
	CancelAllOrders(ctx context.Context, pair currency.Pair) error
	GetOpenOrders(ctx context.Context) ([]order.Info, error)
	GetOpenOrdersByCurrencyPair(ctx context.Context, pair currency.Pair) ([]order.Info, error)
	GetOrderInfo(ctx context.Context, orderRef string) (order.Info, error)
	GetBalance(ctx context.Context, isSpot bool) (order.BalancesAndPositions, error)
	GetMyTrades(ctx context.Context, pair currency.Pair, since time.Time) ([]order.Fill, error)
	GetActivePositions(ctx context.Context) (map[currency.Pair]decimal.Decimal, error)
	ClosePosition(ctx context.Context, pair currency.Pair, price *decimal.Decimal) error
	BuildAllSymbols(ctx context.Context) ([]currency.Pair, error)
}

// ExchangeAccount identifies which account a Client implementation is
// authenticated against.
type ExchangeAccount interface {
	AccountId() exchange.AccountId
}
