package orderbook

import (
	"sync"

	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/log"
)

// SnapshotStore holds the authoritative LocalOrderBookSnapshot for every
// market. It is single-writer: Update serializes behind an internal mutex,
// and readers obtain a consistent snapshot reference for the duration of a
// read. Events for distinct markets are independent; events for the same
// market must arrive in order (EventRouter's job, not this type's).
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[exchange.MarketId]*Snapshot
}

// NewSnapshotStore returns an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[exchange.MarketId]*Snapshot)}
}

// Update applies event to the store.
//
// A Snapshot event always succeeds: it replaces the ladder for the event's
// market with a fresh one built from event.Data and returns the market
// account id.
//
// An Update event for a market with no prior Snapshot is silently dropped
// — this is the explicit recovery policy against stream reconnects that
// will shortly deliver a fresh Snapshot — and returns ok=false.
func (s *SnapshotStore) Update(event Event) (exchange.MarketAccountId, bool) {
	marketID := event.MarketAccountId.MarketId()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Type {
	case EventSnapshot:
		snap := newSnapshot(event.MarketAccountId)
		snap.Bids.ApplyLevels(event.Data.Bids)
		snap.Asks.ApplyLevels(event.Data.Asks)
		snap.LastUpdateTime = event.CreationTime
		s.snapshots[marketID] = snap
		return event.MarketAccountId, true
	case EventUpdate:
		snap, ok := s.snapshots[marketID]
		if !ok {
			log.Warnln(log.OrderBook, "dropping update for market with no prior snapshot:", marketID)
			return exchange.MarketAccountId{}, false
		}
		snap.Bids.ApplyLevels(event.Data.Bids)
		snap.Asks.ApplyLevels(event.Data.Asks)
		snap.LastUpdateTime = event.CreationTime
		return event.MarketAccountId, true
	default:
		return exchange.MarketAccountId{}, false
	}
}

// Get returns an immutable, point-in-time capture of the current snapshot
// for marketID. The capture is taken under the store's lock and is safe to
// read after this call returns, even while concurrent Update calls mutate
// the live snapshot.
func (s *SnapshotStore) Get(marketID exchange.MarketId) (Capture, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[marketID]
	if !ok {
		return Capture{}, false
	}
	return snap.capture(), true
}
