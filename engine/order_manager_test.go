package engine

import (
	"context"
	"errors"
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

var (
	testAccount = exchange.NewAccountId("binance", 0)
	testPair    = currency.NewPair(currency.BTC, currency.USDT)
)

type createOrderFunc func(ctx context.Context, spec order.Spec) (order.CreateResult, error)

type fakeCreateClient struct {
	stubClientBase
	create createOrderFunc
}

func (f fakeCreateClient) CreateOrder(ctx context.Context, spec order.Spec) (order.CreateResult, error) {
	return f.create(ctx, spec)
}

func newTestBalances() *balance.BalanceManager {
	return balance.NewBalanceManager(map[exchange.AccountId]map[currency.Code]decimal.Decimal{
		testAccount: {currency.USDT: decimal.NewFromInt(20000)},
	})
}

func reserve(t *testing.T, balances *balance.BalanceManager, amount decimal.Decimal) balance.ReservationId {
	t.Helper()
	id, err := balances.TryReserve(balance.ReserveRequest{
		AccountId: testAccount,
		Pair:      testPair,
		Currency:  currency.USDT,
		Side:      order.Buy,
		Price:     decimal.NewFromInt(20000),
		Amount:    amount,
	})
	require.NoError(t, err)
	return id
}

func TestSubmitOrderTracksReservationOnSuccess(t *testing.T) {
	t.Parallel()
	balances := newTestBalances()
	reservationID := reserve(t, balances, decimal.NewFromInt(20000))
	orders := NewOrderManager(balances, nil)

	client := fakeCreateClient{create: func(context.Context, order.Spec) (order.CreateResult, error) {
		return order.CreateResult{OrderRef: "ref-1"}, nil
	}}

	result, err := orders.SubmitOrder(context.Background(), client, order.Spec{AccountId: testAccount, Pair: testPair, Side: order.Buy}, reservationID)
	require.NoError(t, err)
	assert.Equal(t, "ref-1", result.OrderRef)
	assert.Equal(t, 1, orders.TrackedReservations())
}

func TestSubmitOrderReleasesReservationOnRejection(t *testing.T) {
	t.Parallel()
	balances := newTestBalances()
	reservationID := reserve(t, balances, decimal.NewFromInt(20000))
	orders := NewOrderManager(balances, nil)

	client := fakeCreateClient{create: func(context.Context, order.Spec) (order.CreateResult, error) {
		return order.CreateResult{Err: &exchange.Error{Kind: exchange.ErrInvalidOrder}}, nil
	}}

	_, err := orders.SubmitOrder(context.Background(), client, order.Spec{AccountId: testAccount, Pair: testPair, Side: order.Buy}, reservationID)
	require.NoError(t, err)
	assert.Equal(t, 0, orders.TrackedReservations())

	_, ok := balances.Reservation(reservationID)
	assert.False(t, ok, "reservation must be fully released after rejection")
}

// TestSubmitOrderHoldsReservationOnTimeout exercises spec.md §5: an unknown
// create_order outcome must never release its reservation through the
// normal unreserve path.
func TestSubmitOrderHoldsReservationOnTimeout(t *testing.T) {
	t.Parallel()
	balances := newTestBalances()
	reservationID := reserve(t, balances, decimal.NewFromInt(20000))
	orders := NewOrderManager(balances, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	client := fakeCreateClient{create: func(ctx context.Context, _ order.Spec) (order.CreateResult, error) {
		<-ctx.Done()
		return order.CreateResult{}, ctx.Err()
	}}

	_, err := orders.SubmitOrder(ctx, client, order.Spec{AccountId: testAccount, Pair: testPair, Side: order.Buy}, reservationID)
	assert.Error(t, err)

	r, ok := balances.Reservation(reservationID)
	require.True(t, ok, "reservation must still exist, held pending reconciliation")
	assert.False(t, r.IsTerminal())
}

func TestHandleFillAppliesToTrackedReservationAndForgetsWhenTerminal(t *testing.T) {
	t.Parallel()
	balances := newTestBalances()
	reservationID := reserve(t, balances, decimal.NewFromInt(20000))
	orders := NewOrderManager(balances, nil)

	client := fakeCreateClient{create: func(context.Context, order.Spec) (order.CreateResult, error) {
		return order.CreateResult{OrderRef: "ref-2"}, nil
	}}
	_, err := orders.SubmitOrder(context.Background(), client, order.Spec{AccountId: testAccount, Pair: testPair, Side: order.Buy}, reservationID)
	require.NoError(t, err)

	err = orders.HandleFill(order.Fill{OrderRef: "ref-2", Price: decimal.NewFromInt(20000), FilledAmount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, 0, orders.TrackedReservations())
}

func TestHandleFillRejectsUnknownOrderRef(t *testing.T) {
	t.Parallel()
	orders := NewOrderManager(newTestBalances(), nil)
	err := orders.HandleFill(order.Fill{OrderRef: "never-submitted"})
	assert.True(t, errors.Is(err, errUnknownOrderRef))
}
