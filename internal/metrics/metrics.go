// Package metrics exposes Prometheus counters for the quoting pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcome label values.
const (
	OutcomeResolved  = "resolved"
	OutcomeNoRecord  = "no_record"
	OutcomeConnError = "connection_error"
)

// Metrics holds the pipeline counters. A single instance is created at
// startup and shared by the quote service.
type Metrics struct {
	WhoisLookups *prometheus.CounterVec
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	Batches      prometheus.Counter
	QuotedRows   prometheus.Counter
	ErrorRows    prometheus.Counter
}

// New registers the pipeline counters on reg and returns them. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		WhoisLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_whois_lookups_total",
			Help: "WHOIS lookups by outcome.",
		}, []string{"outcome"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_whois_cache_hits_total",
			Help: "WHOIS cache hits.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_whois_cache_misses_total",
			Help: "WHOIS cache misses.",
		}),
		Batches: factory.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_quote_batches_total",
			Help: "Quote batches processed.",
		}),
		QuotedRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_quote_rows_total",
			Help: "Successfully priced quote rows.",
		}),
		ErrorRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_quote_error_rows_total",
			Help: "Quote rows that ended in a per-domain error.",
		}),
	}
}

// NewNop returns metrics registered on a throwaway registry. Useful in
// tests that do not assert on counters.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
