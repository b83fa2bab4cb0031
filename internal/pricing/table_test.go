package pricing_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainflip/backoffice/internal/pricing"
)

func TestLoadTable(t *testing.T) {
	table, err := pricing.LoadTable(filepath.Join("testdata", "prices.json"))
	require.NoError(t, err)

	// The empty-TLD entry is dropped.
	assert.Equal(t, 2, table.Len())

	price, ok := table.Lookup("com")
	assert.True(t, ok)
	assert.InDelta(t, 10.28, price, 0.001)

	// TLDs are normalized to lower case in both directions.
	price, ok = table.Lookup("xyz")
	assert.True(t, ok)
	assert.InDelta(t, 2.18, price, 0.001)

	_, ok = table.Lookup("nosuchtld")
	assert.False(t, ok)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := pricing.LoadTable(filepath.Join("testdata", "does-not-exist.json"))
	assert.Error(t, err)
}
