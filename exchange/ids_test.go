package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountIdRoundTripsString(t *testing.T) {
	t.Parallel()
	id := NewAccountId("binance", 2)
	parsed, err := ParseAccountId(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseAccountIdDefaultsIndexForBareName(t *testing.T) {
	t.Parallel()
	parsed, err := ParseAccountId("binance")
	require.NoError(t, err)
	assert.Equal(t, NewAccountId("binance", 0), parsed)
}

func TestParseAccountIdRejectsNonNumericIndex(t *testing.T) {
	t.Parallel()
	_, err := ParseAccountId("binance#abc")
	assert.Error(t, err)
}
