package marketdata

import (
	"github.com/shopspring/decimal"

	"github.com/axiomlane/tradecore/orderbook"
)

// ComputeFromCapture derives Indicators from an orderbook.Capture, summing
// up to levels entries per side (mirroring a fixed top-N depth window)
// before handing the totals to Compute.
func ComputeFromCapture(capture orderbook.Capture, levels int, desired decimal.Decimal) Indicators {
	var topBid, topAsk decimal.Decimal
	if b, ok := capture.BestBid(); ok {
		topBid = b.Price
	}
	if a, ok := capture.BestAsk(); ok {
		topAsk = a.Price
	}

	totalBid := sumLevels(capture.Bids, levels)
	totalAsk := sumLevels(capture.Asks, levels)

	return Compute(topBid, topAsk, totalBid, totalAsk, desired)
}

func sumLevels(levels []orderbook.Level, n int) decimal.Decimal {
	sum := decimal.Zero
	if n > len(levels) {
		n = len(levels)
	}
	for _, lv := range levels[:n] {
		sum = sum.Add(lv.Amount)
	}
	return sum
}
