package exchangeapi

import (
	"context"

	"github.com/axiomlane/tradecore/exchange/order"
	"github.com/axiomlane/tradecore/orderbook"
)

// Feed is the inbound event surface MarketDataFeed pushes into the core.
// A concrete Feed must deliver OrderBookEvents and Fills in causal order
// per market — the core relies on this for EventRouter's FIFO guarantee.
type Feed interface {
	// Run blocks, pushing events onto the supplied channels until ctx is
	// cancelled or the underlying transport fails.
	Run(ctx context.Context, events chan<- orderbook.Event, fills chan<- order.Fill) error
}
