// Package orderbook maintains the live, per-market local view of exchange
// depth: PriceLadder holds one side of one market; SnapshotStore holds
// every market's LocalOrderBookSnapshot; EventRouter demultiplexes inbound
// OrderBookEvents into the store and any subscribed observers.
package orderbook

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Side tags which side of the book a PriceLadder represents.
type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Ask {
		return "ASK"
	}
	return "BID"
}

// Level is a single (price, amount) pair.
type Level struct {
	Price  decimal.Decimal
	Amount decimal.Decimal
}

// PriceLadder is a sorted price->amount mapping for one side of one market.
// Levels are kept sorted ascending by price; Best and IterFromBest account
// for side when deciding which end of the slice is "best".
//
// PriceLadder is not safe for concurrent use — callers serialize access
// through SnapshotStore.
type PriceLadder struct {
	side   Side
	levels []Level
}

// NewPriceLadder returns an empty ladder for the given side.
func NewPriceLadder(side Side) *PriceLadder {
	return &PriceLadder{side: side}
}

// Side reports which side of the book this ladder represents.
func (l *PriceLadder) Side() Side {
	return l.side
}

// search returns the index of price in l.levels, and whether it was found.
// l.levels is always kept sorted ascending by price.
func (l *PriceLadder) search(price decimal.Decimal) (int, bool) {
	i := sort.Search(len(l.levels), func(i int) bool {
		return !l.levels[i].Price.LessThan(price)
	})
	if i < len(l.levels) && l.levels[i].Price.Equal(price) {
		return i, true
	}
	return i, false
}

// ApplyLevels applies a batch of (price, amount) updates. An amount of
// exactly zero removes that price level; any other amount inserts or
// overwrites it. Duplicate prices within a single call take the last value,
// because each level is applied in order and later writes overwrite earlier
// ones at the same price.
func (l *PriceLadder) ApplyLevels(levels []Level) {
	for _, lv := range levels {
		i, found := l.search(lv.Price)
		switch {
		case lv.Amount.IsZero():
			if found {
				l.levels = append(l.levels[:i], l.levels[i+1:]...)
			}
		case found:
			l.levels[i].Amount = lv.Amount
		default:
			l.levels = append(l.levels, Level{})
			copy(l.levels[i+1:], l.levels[i:])
			l.levels[i] = lv
		}
	}
}

// Best returns the best level for this side: the maximum price with
// positive amount for Bid, the minimum price with positive amount for Ask.
// ApplyLevels removes zero-amount levels, so any present level qualifies;
// it does not reject negative amounts.
func (l *PriceLadder) Best() (Level, bool) {
	if len(l.levels) == 0 {
		return Level{}, false
	}
	if l.side == Bid {
		return l.levels[len(l.levels)-1], true
	}
	return l.levels[0], true
}

// IterFromBest returns every level in decreasing quality order: highest
// price first for Bid, lowest price first for Ask. The returned slice is a
// copy; mutating it does not affect the ladder.
func (l *PriceLadder) IterFromBest() []Level {
	out := make([]Level, len(l.levels))
	if l.side == Bid {
		for i, lv := range l.levels {
			out[len(l.levels)-1-i] = lv
		}
		return out
	}
	copy(out, l.levels)
	return out
}

// Len reports the number of levels currently held.
func (l *PriceLadder) Len() int {
	return len(l.levels)
}
