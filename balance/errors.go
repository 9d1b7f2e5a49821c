package balance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	errUnknownReservation = errors.New("balance: unknown reservation id")
	errOverUnreserve      = errors.New("balance: unreserve amount exceeds amount still reserved")
	errOverFill           = errors.New("balance: fill amount exceeds amount still reserved")
)

// InsufficientFundsError reports that TryReserve was rejected because the
// requested amount exceeds the account's effective free balance. It is
// recoverable by the caller — a strategy typically unreserves elsewhere and
// retries.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("balance: insufficient funds: available %s, requested %s", e.Available, e.Requested)
}
