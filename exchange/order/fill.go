package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/axiomlane/tradecore/currency"
)

// Fill is a single execution report returned by ExchangeClient against a
// previously created order. They arrive from MarketDataFeed, or are built
// by the reconciler from a get_order_info poll.
type Fill struct {
	OrderRef          string
	Price             decimal.Decimal
	FilledAmount      decimal.Decimal
	CommissionCurrency currency.Code
	CommissionAmount  decimal.Decimal
	TradeSide         Side
	Time              time.Time
}
