package orderbook

import (
	"sync"

	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/log"
)

// Observer is notified after SnapshotStore has applied an event. Observer
// notification is fire-and-forget from EventRouter's perspective — a slow
// observer must not block the dispatcher for other markets.
type Observer interface {
	OnMarketUpdate(marketAccountID exchange.MarketAccountId, event Event)
}

// defaultQueueCapacity bounds each per-market queue. On overflow an incoming
// Update displaces the oldest queued Update, and an incoming Snapshot
// displaces the oldest queued event of either type, so a queued Snapshot is
// only ever displaced by a newer one. Overflow is logged but nothing is
// signalled to the feed: no resync is requested, and queued updates after a
// dropped one are still applied.
const defaultQueueCapacity = 256

// marketQueue is a single-market FIFO dispatcher: one goroutine drains it in
// arrival order, guaranteeing EventRouter's per-MarketId FIFO contract.
type marketQueue struct {
	mu      sync.Mutex
	pending []Event
	cond    *sync.Cond
	closed  bool
}

func newMarketQueue() *marketQueue {
	q := &marketQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues event, dropping the oldest pending Update if the queue is
// at capacity. A Snapshot event is never dropped — if the queue is full, it
// displaces the single oldest pending event regardless of type, since a
// resync is about to make that history moot anyway.
func (q *marketQueue) push(event Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	if len(q.pending) >= defaultQueueCapacity {
		if event.Type == EventSnapshot {
			q.pending = q.pending[1:]
		} else {
			log.Warnln(log.OrderBook, "per-market queue overflow, dropping oldest update for", event.MarketAccountId)
			oldest := -1
			for i, p := range q.pending {
				if p.Type == EventUpdate {
					oldest = i
					break
				}
			}
			if oldest < 0 {
				// Only Snapshots are queued, so the incoming Update is the
				// oldest Update there is.
				return
			}
			q.pending = append(q.pending[:oldest], q.pending[oldest+1:]...)
		}
	}
	q.pending = append(q.pending, event)
	q.cond.Signal()
}

func (q *marketQueue) pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.pending) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.pending) == 0 {
		return Event{}, false
	}
	ev := q.pending[0]
	q.pending = q.pending[1:]
	return ev, true
}

func (q *marketQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pending = nil
	q.cond.Broadcast()
}

// EventRouter demultiplexes OrderBookEvents into a SnapshotStore and any
// subscribed Observers. It guarantees exactly-one delivery to the store per
// event, observer notification only after the store update, and FIFO
// delivery per MarketId via one serial dispatcher goroutine per market.
type EventRouter struct {
	store *SnapshotStore

	mu        sync.Mutex
	queues    map[exchange.MarketId]*marketQueue
	observers []Observer
}

// NewEventRouter returns a router that applies events to store.
func NewEventRouter(store *SnapshotStore) *EventRouter {
	return &EventRouter{
		store:  store,
		queues: make(map[exchange.MarketId]*marketQueue),
	}
}

// Subscribe registers an observer to receive post-update notifications.
// It takes the router's lock, so it may be called concurrently with Route;
// the new observer sees only events dispatched after it was added.
func (r *EventRouter) Subscribe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Route enqueues event for dispatch onto its market's serial queue,
// starting that market's dispatcher goroutine on first use.
func (r *EventRouter) Route(event Event) {
	marketID := event.MarketAccountId.MarketId()

	r.mu.Lock()
	q, ok := r.queues[marketID]
	if !ok {
		q = newMarketQueue()
		r.queues[marketID] = q
		go r.dispatch(q)
	}
	r.mu.Unlock()

	q.push(event)
}

// dispatch drains one market's queue in FIFO order, applying each event to
// the store exactly once before notifying observers.
func (r *EventRouter) dispatch(q *marketQueue) {
	for {
		event, ok := q.pop()
		if !ok {
			return
		}
		marketAccountID, applied := r.store.Update(event)
		if !applied {
			continue
		}
		r.mu.Lock()
		observers := append([]Observer(nil), r.observers...)
		r.mu.Unlock()
		for _, o := range observers {
			o.OnMarketUpdate(marketAccountID, event)
		}
	}
}

// Close stops every market's dispatcher goroutine. Pending events are
// discarded.
func (r *EventRouter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.queues {
		q.close()
	}
}
