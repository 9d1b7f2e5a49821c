// Package exchange defines the identifiers and the exchange error taxonomy
// the core consumes; the abstract collaborator surfaces (ExchangeClient,
// MarketDataFeed) live in package exchangeapi. It carries no
// exchange-specific request signing or wire parsing — that is delegated to
// concrete adapters living outside this package.
package exchange

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/axiomlane/tradecore/currency"
)

// AccountIndex distinguishes multiple sub-accounts on the same exchange.
type AccountIndex int

// AccountId names a single trading surface: one exchange, one sub-account.
type AccountId struct {
	Name  string
	Index AccountIndex
}

// NewAccountId constructs an AccountId.
func NewAccountId(name string, index AccountIndex) AccountId {
	return AccountId{Name: name, Index: index}
}

// String renders the account id for logging.
func (a AccountId) String() string {
	return a.Name + "#" + strconv.Itoa(int(a.Index))
}

// ParseAccountId parses the "name#index" form produced by AccountId.String,
// and also accepts a bare exchange name as shorthand for index 0 — the
// form used by ExchangeConfig.ExchangeAccountId in the common single-account
// case.
func ParseAccountId(s string) (AccountId, error) {
	name, indexPart, found := strings.Cut(s, "#")
	if !found {
		return NewAccountId(s, 0), nil
	}
	index, err := strconv.Atoi(indexPart)
	if err != nil {
		return AccountId{}, fmt.Errorf("exchange: invalid account id %q: %w", s, err)
	}
	return NewAccountId(name, AccountIndex(index)), nil
}

// MarketId identifies a tradable market: one exchange, one currency pair.
// It is intentionally not scoped to a sub-account — many accounts on the
// same exchange observe the same order book.
type MarketId struct {
	Exchange string
	Pair     currency.Pair
}

// NewMarketId constructs a MarketId.
func NewMarketId(exchangeName string, pair currency.Pair) MarketId {
	return MarketId{Exchange: exchangeName, Pair: pair}
}

// MarketAccountId identifies the 3-tuple (exchange, sub-account, currency
// pair) — a specific trading surface, as opposed to MarketId which is
// shared across every sub-account on that exchange.
type MarketAccountId struct {
	AccountId AccountId
	Pair      currency.Pair
}

// NewMarketAccountId constructs a MarketAccountId.
func NewMarketAccountId(accountID AccountId, pair currency.Pair) MarketAccountId {
	return MarketAccountId{AccountId: accountID, Pair: pair}
}

// MarketId projects a MarketAccountId down to its MarketId, discarding the
// sub-account index.
func (m MarketAccountId) MarketId() MarketId {
	return NewMarketId(m.AccountId.Name, m.Pair)
}
