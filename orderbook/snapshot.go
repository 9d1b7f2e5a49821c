package orderbook

import (
	"time"

	"github.com/axiomlane/tradecore/exchange"
)

// Snapshot is the authoritative local view of one market's depth. Every
// Snapshot event for a market replaces it with a freshly built one; Update
// events mutate the current one in place.
type Snapshot struct {
	MarketAccountId exchange.MarketAccountId
	Bids            *PriceLadder
	Asks            *PriceLadder
	LastUpdateTime  time.Time
}

func newSnapshot(marketAccountID exchange.MarketAccountId) *Snapshot {
	return &Snapshot{
		MarketAccountId: marketAccountID,
		Bids:            NewPriceLadder(Bid),
		Asks:            NewPriceLadder(Ask),
	}
}

// BestBid returns the best bid level, if any.
func (s *Snapshot) BestBid() (Level, bool) {
	return s.Bids.Best()
}

// BestAsk returns the best ask level, if any.
func (s *Snapshot) BestAsk() (Level, bool) {
	return s.Asks.Best()
}

// Capture is an immutable point-in-time copy of a Snapshot, safe to read
// after the lock that produced it has been released. SnapshotStore.Get
// builds one of these while holding its read lock rather than handing out
// the live, mutable *Snapshot — readers never race a concurrent Update.
type Capture struct {
	MarketAccountId exchange.MarketAccountId
	Bids            []Level
	Asks            []Level
	LastUpdateTime  time.Time
}

// BestBid returns the best bid level, if any, from the capture.
func (c Capture) BestBid() (Level, bool) {
	if len(c.Bids) == 0 {
		return Level{}, false
	}
	return c.Bids[0], true
}

// BestAsk returns the best ask level, if any, from the capture.
func (c Capture) BestAsk() (Level, bool) {
	if len(c.Asks) == 0 {
		return Level{}, false
	}
	return c.Asks[0], true
}

// capture builds an immutable Capture of s. Callers must hold at least a
// read lock on the owning SnapshotStore while calling this.
func (s *Snapshot) capture() Capture {
	return Capture{
		MarketAccountId: s.MarketAccountId,
		Bids:            s.Bids.IterFromBest(),
		Asks:            s.Asks.IterFromBest(),
		LastUpdateTime:  s.LastUpdateTime,
	}
}
