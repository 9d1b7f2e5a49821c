// Package marketdata computes simple descriptive indicators over a
// market's current top-of-book and depth, supplementing SnapshotStore with
// the per-market pressure metrics a strategy typically wants alongside the
// raw ladder.
package marketdata

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Indicators is a computed analytics snapshot for one market at one
// instant. Unlike PriceLadder and Snapshot, it is not retained state —
// callers recompute it on demand from a Capture.
type Indicators struct {
	// Spread is the percentage gap between top ask and top bid, relative
	// to the ask: (topAsk - topBid) / topAsk * 100.
	Spread decimal.Decimal
	// TotalVolume is totalBid + totalAsk.
	TotalVolume decimal.Decimal
	// BidPct and AskPct are totalBid/desired and totalAsk/desired, each as
	// a percentage — how much of the desired order size the visible bid
	// (or ask) side alone could satisfy.
	BidPct decimal.Decimal
	AskPct decimal.Decimal
	// VolumePct is TotalVolume relative to a caller-supplied desired
	// order size, as a percentage — how much of the desired size the
	// currently visible depth could satisfy.
	VolumePct decimal.Decimal
}

// Compute derives Indicators from the market's current top bid/ask prices
// and the total bid/ask volume visible (typically summed over some fixed
// number of levels by the caller), relative to a desired order size.
//
// Per spec.md §8 Scenario D: topBid=1, topAsk=2, totalBid=0.0008,
// totalAsk=0.0002, desired=0.001 yields Spread=50, TotalVolume=0.001,
// BidPct=80, AskPct=20, VolumePct=100.
func Compute(topBid, topAsk, totalBid, totalAsk, desired decimal.Decimal) Indicators {
	var ind Indicators

	if !topAsk.IsZero() {
		ind.Spread = topAsk.Sub(topBid).Div(topAsk).Mul(hundred)
	}

	ind.TotalVolume = totalBid.Add(totalAsk)
	if !desired.IsZero() {
		ind.BidPct = totalBid.Div(desired).Mul(hundred)
		ind.AskPct = totalAsk.Div(desired).Mul(hundred)
		ind.VolumePct = ind.TotalVolume.Div(desired).Mul(hundred)
	}
	return ind
}
