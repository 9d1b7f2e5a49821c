package balance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/exchange/order"
)

// Reservation records an intent to spend a quantity of a currency at an
// exchange account, gating subsequent order creation. Its amount fields
// always satisfy:
//
//	AmountRequested == AmountFilled + AmountUnreservedOrCancelled + AmountStillReserved()
type Reservation struct {
	Id                          ReservationId
	AccountId                   exchange.AccountId
	Pair                        currency.Pair
	Currency                    currency.Code
	Side                        order.Side
	Price                       decimal.Decimal
	AmountRequested             decimal.Decimal
	AmountFilled                decimal.Decimal
	AmountUnreservedOrCancelled decimal.Decimal
	CreatedAt                   time.Time
}

// AmountStillReserved is the portion of AmountRequested not yet accounted
// for by a fill or an unreserve/cancel. It is always >= 0.
func (r *Reservation) AmountStillReserved() decimal.Decimal {
	return r.AmountRequested.Sub(r.AmountFilled).Sub(r.AmountUnreservedOrCancelled)
}

// IsTerminal reports whether the reservation has reached Filled or
// Cancelled: AmountStillReserved has reached zero.
func (r *Reservation) IsTerminal() bool {
	return r.AmountStillReserved().IsZero()
}
