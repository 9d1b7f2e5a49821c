package orderbook

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func lvl(price, amount string) Level {
	return Level{Price: dec(price), Amount: dec(amount)}
}

func TestPriceLadderApplyLevelsInsertsAndDeletes(t *testing.T) {
	t.Parallel()
	l := NewPriceLadder(Ask)
	l.ApplyLevels([]Level{lvl("1.0", "2.1"), lvl("3.0", "4.2")})
	require.Equal(t, 2, l.Len())

	l.ApplyLevels([]Level{lvl("1.0", "2.1")})
	require.Equal(t, 2, l.Len(), "no deletion should occur for a nonzero amount")

	l.ApplyLevels([]Level{lvl("3.0", "0")})
	require.Equal(t, 1, l.Len(), "a zero amount must remove the level")
	best, ok := l.Best()
	require.True(t, ok)
	assert.True(t, best.Price.Equal(dec("1.0")))
}

func TestPriceLadderDuplicatesTakeLastValue(t *testing.T) {
	t.Parallel()
	l := NewPriceLadder(Bid)
	l.ApplyLevels([]Level{lvl("1.0", "1"), lvl("1.0", "5")})
	require.Equal(t, 1, l.Len())
	best, ok := l.Best()
	require.True(t, ok)
	assert.True(t, best.Amount.Equal(dec("5")))
}

func TestPriceLadderBest(t *testing.T) {
	t.Parallel()

	bids := NewPriceLadder(Bid)
	_, ok := bids.Best()
	assert.False(t, ok, "empty ladder has no best")

	bids.ApplyLevels([]Level{lvl("2.9", "7.8"), lvl("3.4", "1.2")})
	best, ok := bids.Best()
	require.True(t, ok)
	assert.True(t, best.Price.Equal(dec("3.4")), "best bid is the maximum price")

	asks := NewPriceLadder(Ask)
	asks.ApplyLevels([]Level{lvl("1.0", "2.1"), lvl("3.0", "4.2")})
	best, ok = asks.Best()
	require.True(t, ok)
	assert.True(t, best.Price.Equal(dec("1.0")), "best ask is the minimum price")
}

func TestPriceLadderIterFromBest(t *testing.T) {
	t.Parallel()

	bids := NewPriceLadder(Bid)
	bids.ApplyLevels([]Level{lvl("1.0", "1"), lvl("3.0", "1"), lvl("2.0", "1")})
	levels := bids.IterFromBest()
	require.Len(t, levels, 3)
	assert.True(t, levels[0].Price.Equal(dec("3.0")))
	assert.True(t, levels[1].Price.Equal(dec("2.0")))
	assert.True(t, levels[2].Price.Equal(dec("1.0")))

	asks := NewPriceLadder(Ask)
	asks.ApplyLevels([]Level{lvl("3.0", "1"), lvl("1.0", "1"), lvl("2.0", "1")})
	levels = asks.IterFromBest()
	require.Len(t, levels, 3)
	assert.True(t, levels[0].Price.Equal(dec("1.0")))
	assert.True(t, levels[1].Price.Equal(dec("2.0")))
	assert.True(t, levels[2].Price.Equal(dec("3.0")))
}
