package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/domainflip/backoffice/internal/logger"
	"github.com/domainflip/backoffice/internal/pricing"
)

func newTestEngine() *pricing.Engine {
	table := pricing.NewTable(map[string]float64{
		"com": 10.28,
		"net": 11.98,
		"org": 10.44,
		"xyz": 2.18,
		"io":  32.98,
		"ai":  4.00,
	})
	return pricing.NewEngine(table, logger.NewNopLogger())
}

func TestCalculatePrice(t *testing.T) {
	engine := newTestEngine()

	testCases := []struct {
		name     string
		tld      string
		daysLeft int
		expected float64
	}{
		// Domains too close to expiry are worth nothing regardless of TLD.
		{name: "zero days left", tld: "com", daysLeft: 0, expected: 0},
		{name: "15 days is below the sellable floor", tld: "com", daysLeft: 15, expected: 0},
		{name: "negative days left", tld: "xyz", daysLeft: -5, expected: 0},

		// Premium TLDs get the full bracket price.
		{name: "premium short bracket lower edge", tld: "com", daysLeft: 16, expected: 1.50},
		{name: "premium short bracket upper edge", tld: "net", daysLeft: 30, expected: 1.50},
		{name: "premium mid bracket lower edge", tld: "org", daysLeft: 31, expected: 3.00},
		{name: "premium mid bracket upper edge", tld: "com", daysLeft: 90, expected: 3.00},
		{name: "premium long bracket", tld: "com", daysLeft: 91, expected: 3.50},
		{name: "premium long bracket far out", tld: "net", daysLeft: 3650, expected: 3.50},

		// Non-premium TLDs are capped at half the bracket price and half
		// the registration cost, whichever is lower.
		{name: "non-premium capped by registration price", tld: "xyz", daysLeft: 91, expected: 1.09},
		{name: "non-premium capped by half bracket", tld: "io", daysLeft: 91, expected: 1.75},
		{name: "non-premium mid bracket", tld: "io", daysLeft: 45, expected: 1.50},
		{name: "non-premium short bracket", tld: "io", daysLeft: 20, expected: 0.75},
		{name: "non-premium cheap registration mid bracket", tld: "ai", daysLeft: 45, expected: 1.50},

		// A TLD missing from the table has a 0.0 registration price, which
		// drags the capped quote to zero.
		{name: "unknown TLD quotes at zero", tld: "zz", daysLeft: 365, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.CalculatePrice(tc.tld, tc.daysLeft)
			assert.InDelta(t, tc.expected, got, 0.001)
		})
	}
}

func TestRegistrationPrice(t *testing.T) {
	engine := newTestEngine()

	assert.InDelta(t, 10.28, engine.RegistrationPrice("com"), 0.001)
	assert.InDelta(t, 10.28, engine.RegistrationPrice("COM"), 0.001, "lookup is case-insensitive")
	assert.Zero(t, engine.RegistrationPrice("nosuchtld"), "unknown TLD defaults to 0.0")
}

func TestRound2(t *testing.T) {
	testCases := []struct {
		in       float64
		expected float64
	}{
		{1.005, 1.0}, // float64 representation of 1.005 is just below it
		{1.234, 1.23},
		{1.236, 1.24},
		{3.50, 3.50},
		{0, 0},
	}

	for _, tc := range testCases {
		assert.InDelta(t, tc.expected, pricing.Round2(tc.in), 1e-9, "Round2(%v)", tc.in)
	}
}
