package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// tableEntry matches one element of the registration price asset, which
// follows the registrar's price export shape:
//
//	[{"Tld": "com", "Register": {"Price": 9.58}}, ...]
type tableEntry struct {
	Tld      string `json:"Tld"`
	Register struct {
		Price float64 `json:"Price"`
	} `json:"Register"`
}

// Table is the static TLD → registration price mapping. It is loaded once
// at startup and read-only for the lifetime of the process.
type Table struct {
	prices map[string]float64
}

// LoadTable reads the registration price asset at path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price table: %w", err)
	}

	var entries []tableEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse price table: %w", err)
	}

	prices := make(map[string]float64, len(entries))
	for _, e := range entries {
		tld := strings.ToLower(strings.TrimSpace(e.Tld))
		if tld == "" {
			continue
		}
		prices[tld] = e.Register.Price
	}

	return &Table{prices: prices}, nil
}

// NewTable builds a table from an in-memory mapping. Used by tests.
func NewTable(prices map[string]float64) *Table {
	cp := make(map[string]float64, len(prices))
	for tld, price := range prices {
		cp[strings.ToLower(tld)] = price
	}
	return &Table{prices: cp}
}

// Lookup returns the registration price for tld. ok is false when the table
// has no entry, so callers can distinguish "explicitly zero" from
// "unknown".
func (t *Table) Lookup(tld string) (price float64, ok bool) {
	price, ok = t.prices[strings.ToLower(tld)]
	return price, ok
}

// Len returns the number of TLD entries.
func (t *Table) Len() int {
	return len(t.prices)
}
