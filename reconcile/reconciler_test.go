package reconcile

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomlane/tradecore/balance"
	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/exchange/order"
)

type stubClient struct {
	stubClientBase
	calls     int32
	responses []order.Info
}

func (s *stubClient) GetOrderInfo(ctx context.Context, orderRef string) (order.Info, error) {
	i := atomic.AddInt32(&s.calls, 1) - 1
	if int(i) >= len(s.responses) {
		i = int32(len(s.responses) - 1)
	}
	return s.responses[i], nil
}

func TestWatchSettlesOnFilledTerminalStatus(t *testing.T) {
	t.Parallel()
	account := exchange.NewAccountId("binance", 0)
	pair := currency.NewPair(currency.BTC, currency.USDT)
	mgr := balance.NewBalanceManager(map[exchange.AccountId]map[currency.Code]decimal.Decimal{
		account: {currency.USDT: decimal.NewFromInt(20000)},
	})
	id, err := mgr.TryReserve(balance.ReserveRequest{
		AccountId: account, Pair: pair, Currency: currency.USDT, Side: order.Buy,
		Price: decimal.NewFromInt(20000), Amount: decimal.NewFromInt(20000),
	})
	require.NoError(t, err)

	client := &stubClient{responses: []order.Info{
		{OrderRef: "ref-1", Status: order.StatusOpen},
		{OrderRef: "ref-1", Status: order.StatusFilled, FilledAmount: decimal.NewFromInt(1), Price: decimal.NewFromInt(20000)},
	}}

	r := New(client, mgr, time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, r.Watch(ctx, id, "ref-1"))

	res, ok := mgr.Reservation(id)
	require.True(t, ok)
	assert.True(t, res.IsTerminal())
}

func TestWatchCancelsReservationOnRejected(t *testing.T) {
	t.Parallel()
	account := exchange.NewAccountId("binance", 0)
	pair := currency.NewPair(currency.BTC, currency.USDT)
	mgr := balance.NewBalanceManager(map[exchange.AccountId]map[currency.Code]decimal.Decimal{
		account: {currency.USDT: decimal.NewFromInt(1000)},
	})
	id, err := mgr.TryReserve(balance.ReserveRequest{AccountId: account, Pair: pair, Currency: currency.USDT, Side: order.Buy, Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	client := &stubClient{responses: []order.Info{{OrderRef: "ref-1", Status: order.StatusRejected}}}
	r := New(client, mgr, time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, r.Watch(ctx, id, "ref-1"))

	_, ok := mgr.Reservation(id)
	assert.False(t, ok, "a rejected order's reservation is fully released")
}

func TestWatchAbandonsOnContextCancellation(t *testing.T) {
	t.Parallel()
	mgr := balance.NewBalanceManager(nil)
	client := &stubClient{responses: []order.Info{{OrderRef: "ref-1", Status: order.StatusOpen}}}
	r := New(client, mgr, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := r.Watch(ctx, balance.ReservationId(1), "ref-1")
	require.Error(t, err)
}
