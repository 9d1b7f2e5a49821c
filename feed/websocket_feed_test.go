package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/exchange/order"
	"github.com/axiomlane/tradecore/orderbook"
)

func decimalFromString(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

type wireMessage struct {
	Kind   string `json:"kind"`
	Price  string `json:"price,omitempty"`
	Amount string `json:"amount,omitempty"`
}

func decodeEvent(raw []byte) (orderbook.Event, bool, error) {
	var msg wireMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return orderbook.Event{}, false, err
	}
	if msg.Kind != "snapshot" {
		return orderbook.Event{}, false, nil
	}
	maid := exchange.NewMarketAccountId(exchange.NewAccountId("binance", 0), currency.NewPair(currency.BTC, currency.USDT))
	price, _ := decimalFromString(msg.Price)
	amount, _ := decimalFromString(msg.Amount)
	return orderbook.Event{
		MarketAccountId: maid,
		ID:              NewEventId(),
		Type:            orderbook.EventSnapshot,
		Data:            orderbook.Data{Bids: []orderbook.Level{{Price: price, Amount: amount}}},
	}, true, nil
}

func decodeFill(raw []byte) (order.Fill, bool, error) {
	var msg wireMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return order.Fill{}, false, err
	}
	if msg.Kind != "fill" {
		return order.Fill{}, false, nil
	}
	return order.Fill{OrderRef: "ref-1"}, true, nil
}

func TestWebsocketFeedDispatchesDecodedFrames(t *testing.T) {
	t.Parallel()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		require.NoError(t, conn.WriteJSON(wireMessage{Kind: "snapshot", Price: "1.0", Amount: "2.0"}))
		require.NoError(t, conn.WriteJSON(wireMessage{Kind: "fill"}))
		time.Sleep(50 * time.Millisecond)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	f := &WebsocketFeed{URL: wsURL, DecodeEvent: decodeEvent, DecodeFill: decodeFill}

	events := make(chan orderbook.Event, 1)
	fills := make(chan order.Fill, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go f.Run(ctx, events, fills)

	select {
	case ev := <-events:
		assert.Equal(t, orderbook.EventSnapshot, ev.Type)
		require.Len(t, ev.Data.Bids, 1)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case fl := <-fills:
		assert.Equal(t, "ref-1", fl.OrderRef)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for fill")
	}
}
