package orderbook

import (
	"time"

	"github.com/axiomlane/tradecore/exchange"
)

// EventType distinguishes a wholesale replacement from an incremental delta.
type EventType int

const (
	// EventSnapshot replaces a market's ladders wholesale.
	EventSnapshot EventType = iota
	// EventUpdate applies a delta with zero-as-delete semantics.
	EventUpdate
)

func (t EventType) String() string {
	if t == EventUpdate {
		return "UPDATE"
	}
	return "SNAPSHOT"
}

// Data carries the raw (price, amount) levels for both sides of an event.
type Data struct {
	Bids []Level
	Asks []Level
}

// Event is a single order-book event pushed by a MarketDataFeed.
type Event struct {
	CreationTime    time.Time
	MarketAccountId exchange.MarketAccountId
	ID              string
	Type            EventType
	Data            Data
}
