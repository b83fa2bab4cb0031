// Package pricing computes resale quotes from a domain's TLD and days to
// expiry. Prices are pure functions of their inputs; the only state is the
// static registration price table loaded at startup.
package pricing

import (
	"math"

	"github.com/domainflip/backoffice/internal/logger"
)

// Days-left brackets and their base prices. A domain 15 days or less from
// expiry cannot be transferred safely and is priced at zero.
const (
	minSellableDays = 16

	shortBracketMax = 30
	midBracketMax   = 90

	shortBracketPrice = 1.50
	midBracketPrice   = 3.00
	longBracketPrice  = 3.50

	nonPremiumDiscount = 0.5
)

// premiumTLDs are quoted at the full base price, with no discount cap.
var premiumTLDs = map[string]bool{
	"com": true,
	"net": true,
	"org": true,
}

// Engine maps (TLD, days-left) to quoted prices.
type Engine struct {
	table  *Table
	logger logger.Logger
}

// NewEngine creates a pricing engine over the given registration price
// table.
func NewEngine(table *Table, log logger.Logger) *Engine {
	return &Engine{table: table, logger: log}
}

// CalculatePrice returns the resale quote for a domain with the given TLD
// and days until expiry. Comparisons use full-precision values; rounding to
// two decimals happens only at presentation and aggregation boundaries.
func (e *Engine) CalculatePrice(tld string, daysLeft int) float64 {
	if daysLeft < minSellableDays {
		return 0
	}

	base := basePrice(daysLeft)
	if premiumTLDs[tld] {
		return base
	}

	// Non-premium TLDs are capped at half the base tier price and half the
	// TLD's registration cost, whichever is lower.
	reg := e.RegistrationPrice(tld)
	capped := math.Min(base*nonPremiumDiscount, reg*nonPremiumDiscount)
	return math.Min(base, capped)
}

// RegistrationPrice returns the new-registration reference price for tld.
// An unknown TLD yields 0.0 and a logged miss, never an error.
func (e *Engine) RegistrationPrice(tld string) float64 {
	price, ok := e.table.Lookup(tld)
	if !ok {
		e.logger.Warn("no registration price for TLD", logger.String("tld", tld))
		return 0
	}
	return price
}

func basePrice(daysLeft int) float64 {
	switch {
	case daysLeft <= shortBracketMax:
		return shortBracketPrice
	case daysLeft <= midBracketMax:
		return midBracketPrice
	default:
		return longBracketPrice
	}
}

// Round2 rounds a price to two decimal places. Applied only where prices
// leave the pipeline: row presentation and total aggregation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
