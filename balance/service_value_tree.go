package balance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/axiomlane/tradecore/currency"
	"github.com/axiomlane/tradecore/exchange"
)

// Leaf is one (account, pair, currency) -> value entry yielded by
// ServiceValueTree.Leaves. Per-leaf values may be negative (virtual diffs
// in particular run either sign), so ServiceValueTree itself asserts
// nothing about sign; composite non-negativity is the BalanceManager's
// concern.
type Leaf struct {
	AccountId exchange.AccountId
	Pair      currency.Pair
	Currency  currency.Code
	Value     decimal.Decimal
}

// ServiceValueTree is a three-level hierarchical decimal accumulator keyed
// by (ExchangeAccountId, CurrencyPair, CurrencyCode). Missing intermediate
// entries are treated as zero on read and are autovivified on write. It is
// not safe for concurrent use on its own; BalanceManager serializes all
// access behind its own lock.
type ServiceValueTree struct {
	byAccount map[exchange.AccountId]map[currency.Pair]map[currency.Code]decimal.Decimal
}

// NewServiceValueTree returns an empty tree.
func NewServiceValueTree() *ServiceValueTree {
	return &ServiceValueTree{
		byAccount: make(map[exchange.AccountId]map[currency.Pair]map[currency.Code]decimal.Decimal),
	}
}

// Get returns the leaf value, or zero if any level of the path is absent.
func (t *ServiceValueTree) Get(accountID exchange.AccountId, pair currency.Pair, code currency.Code) decimal.Decimal {
	byPair, ok := t.byAccount[accountID]
	if !ok {
		return decimal.Zero
	}
	byCurrency, ok := byPair[pair]
	if !ok {
		return decimal.Zero
	}
	return byCurrency[code]
}

// Set overwrites the leaf value, autovivifying intermediate levels as
// needed.
func (t *ServiceValueTree) Set(accountID exchange.AccountId, pair currency.Pair, code currency.Code, value decimal.Decimal) {
	t.leaf(accountID, pair)[code] = value
}

// AddAssign adds delta to the leaf value, autovivifying as needed.
func (t *ServiceValueTree) AddAssign(accountID exchange.AccountId, pair currency.Pair, code currency.Code, delta decimal.Decimal) {
	leaf := t.leaf(accountID, pair)
	leaf[code] = leaf[code].Add(delta)
}

// SubAssign subtracts delta from the leaf value, autovivifying as needed.
func (t *ServiceValueTree) SubAssign(accountID exchange.AccountId, pair currency.Pair, code currency.Code, delta decimal.Decimal) {
	leaf := t.leaf(accountID, pair)
	leaf[code] = leaf[code].Sub(delta)
}

func (t *ServiceValueTree) leaf(accountID exchange.AccountId, pair currency.Pair) map[currency.Code]decimal.Decimal {
	byPair, ok := t.byAccount[accountID]
	if !ok {
		byPair = make(map[currency.Pair]map[currency.Code]decimal.Decimal)
		t.byAccount[accountID] = byPair
	}
	byCurrency, ok := byPair[pair]
	if !ok {
		byCurrency = make(map[currency.Code]decimal.Decimal)
		byPair[pair] = byCurrency
	}
	return byCurrency
}

// SumByAccountCurrency sums the leaf value for code across every pair
// under accountID — the "summed over pairs" aggregation used by the
// conservation invariant and by virtual-free calculation.
func (t *ServiceValueTree) SumByAccountCurrency(accountID exchange.AccountId, code currency.Code) decimal.Decimal {
	sum := decimal.Zero
	byPair, ok := t.byAccount[accountID]
	if !ok {
		return sum
	}
	for _, byCurrency := range byPair {
		sum = sum.Add(byCurrency[code])
	}
	return sum
}

// ZeroAccountCurrency sets every existing (accountID, *, code) leaf to zero
// across all pairs. Used to clear engine-side virtual diffs for a currency
// once an authoritative exchange balance refresh confirms them; it never
// creates new leaves for pairs that had none.
func (t *ServiceValueTree) ZeroAccountCurrency(accountID exchange.AccountId, code currency.Code) {
	byPair, ok := t.byAccount[accountID]
	if !ok {
		return
	}
	for _, byCurrency := range byPair {
		if _, exists := byCurrency[code]; exists {
			byCurrency[code] = decimal.Zero
		}
	}
}

// Leaves returns every (account, pair, currency) leaf in a stable order:
// lexicographic by account name then index, then pair string, then
// currency code. Iteration order is implementation-defined by the spec but
// must be stable across calls absent intervening mutation; sorting on
// every call trades a little CPU for that guarantee without needing to
// track insertion order separately.
func (t *ServiceValueTree) Leaves() []Leaf {
	var leaves []Leaf
	for accountID, byPair := range t.byAccount {
		for pair, byCurrency := range byPair {
			for code, value := range byCurrency {
				leaves = append(leaves, Leaf{AccountId: accountID, Pair: pair, Currency: code, Value: value})
			}
		}
	}
	sort.Slice(leaves, func(i, j int) bool {
		a, b := leaves[i], leaves[j]
		if a.AccountId.Name != b.AccountId.Name {
			return a.AccountId.Name < b.AccountId.Name
		}
		if a.AccountId.Index != b.AccountId.Index {
			return a.AccountId.Index < b.AccountId.Index
		}
		if a.Pair.String() != b.Pair.String() {
			return a.Pair.String() < b.Pair.String()
		}
		return a.Currency.String() < b.Currency.String()
	})
	return leaves
}

// SumLeaves returns the sum of every leaf value in the tree.
func (t *ServiceValueTree) SumLeaves() decimal.Decimal {
	sum := decimal.Zero
	for _, leaf := range t.Leaves() {
		sum = sum.Add(leaf.Value)
	}
	return sum
}
