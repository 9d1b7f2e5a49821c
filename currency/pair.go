package currency

import "errors"

// ErrPairNotSet is returned when an operation is given the empty Pair.
var ErrPairNotSet = errors.New("currency pair is not set")

// Pair is a pure logical (base, quote) label. It carries no exchange-specific
// symbol formatting; that translation happens at the adapter boundary.
type Pair struct {
	Base  Code
	Quote Code
}

// EMPTYPAIR is the zero value of Pair, exported for comparisons.
var EMPTYPAIR = Pair{}

// NewPair constructs a Pair from two currency codes.
func NewPair(base, quote Code) Pair {
	return Pair{Base: base, Quote: quote}
}

// IsEmpty reports whether p is the zero-value pair.
func (p Pair) IsEmpty() bool {
	return p == EMPTYPAIR
}

// String renders the pair as "BASE-QUOTE", matching the teacher's display
// convention for logical pairs (as opposed to exchange wire symbols).
func (p Pair) String() string {
	return p.Base.String() + "-" + p.Quote.String()
}

// Equal reports whether two pairs name the same base and quote currency.
func (p Pair) Equal(o Pair) bool {
	return p.Base == o.Base && p.Quote == o.Quote
}
