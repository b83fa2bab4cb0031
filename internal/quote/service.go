// Package quote drives the WHOIS quoting pipeline: normalize and dedupe a
// submitted batch of domain names, resolve each through cache and WHOIS,
// price it, and persist the batch under a shareable UUID.
package quote

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/domainflip/backoffice/internal/logger"
	"github.com/domainflip/backoffice/internal/metrics"
	"github.com/domainflip/backoffice/internal/models"
	"github.com/domainflip/backoffice/internal/pricing"
)

const (
	errInvalidDomain  = "Invalid domain format."
	errLookupFailed   = "Unable to retrieve WHOIS data."
	errBatchCancelled = "Batch cancelled before lookup."
	dateLayout        = "2006-01-02"
)

// Resolver performs one WHOIS lookup.
type Resolver interface {
	Resolve(ctx context.Context, domain string) models.WhoisResult
}

// Cache is consulted before every resolution and populated after every
// cacheable one.
type Cache interface {
	Get(ctx context.Context, domain string) (models.WhoisResult, bool)
	Put(ctx context.Context, result models.WhoisResult)
}

// Store is the durable quote batch store.
type Store interface {
	Append(ctx context.Context, row *models.QuoteRow) error
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]models.QuoteRow, error)
}

// Inventory answers whether a domain is already in the registrar inventory.
type Inventory interface {
	Exists(ctx context.Context, domain string) (bool, error)
}

// Pricer maps (TLD, days-left) to quote and registration reference prices.
type Pricer interface {
	CalculatePrice(tld string, daysLeft int) float64
	RegistrationPrice(tld string) float64
}

// Row is one entry of a quote response: either a priced domain or a
// per-domain error. Prices are formatted to two decimals at this boundary.
type Row struct {
	Domain         string `json:"domain"`
	Error          string `json:"error,omitempty"`
	Registrar      string `json:"registrar,omitempty"`
	ExpirationDate string `json:"expiration_date,omitempty"`
	DaysLeft       *int   `json:"days_left,omitempty"`
	Price          string `json:"price,omitempty"`
	NewReg         string `json:"newReg,omitempty"`
	PushStatus     bool   `json:"push_status"`
}

// BatchResult is the outcome of processing or replaying one batch.
type BatchResult struct {
	BatchID    uuid.UUID
	Rows       []Row
	TotalPrice float64
	Link       string
	CreatedAt  time.Time
}

// Config tunes batch processing.
type Config struct {
	// BaseURL builds the shareable replay link.
	BaseURL string
	// LookupDelayMin/Max bound the randomized pause between consecutive
	// WHOIS lookups, to avoid bursty traffic that trips proxy or registry
	// throttling. Zero values disable the pause.
	LookupDelayMin time.Duration
	LookupDelayMax time.Duration
}

// Service is the quote orchestrator.
type Service struct {
	resolver  Resolver
	cache     Cache
	store     Store
	inventory Inventory
	pricer    Pricer
	metrics   *metrics.Metrics
	logger    logger.Logger
	cfg       Config

	mu       sync.Mutex
	inflight map[string]*inflightEntry
}

type inflightEntry struct {
	mu   sync.Mutex
	refs int
}

// NewService wires the orchestrator.
func NewService(
	resolver Resolver,
	cache Cache,
	store Store,
	inventory Inventory,
	pricer Pricer,
	m *metrics.Metrics,
	log logger.Logger,
	cfg Config,
) *Service {
	return &Service{
		resolver:  resolver,
		cache:     cache,
		store:     store,
		inventory: inventory,
		pricer:    pricer,
		metrics:   m,
		logger:    log,
		cfg:       cfg,
		inflight:  make(map[string]*inflightEntry),
	}
}

// ProcessBatch normalizes and dedupes the submitted raw text, resolves and
// prices each valid domain sequentially, persists the priced rows under a
// fresh batch UUID, and returns the full mixed result set in submitted
// order, error rows in the position of the lines that produced them. One
// domain's failure never aborts the batch. Cancelling ctx stops issuing new
// lookups; the in-flight one completes or times out normally.
func (s *Service) ProcessBatch(ctx context.Context, rawDomains string, userID *int64) (*BatchResult, error) {
	lines := models.SplitDomainList(rawDomains)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no domain names submitted", models.ErrInvalidDomain)
	}

	// Entries keep the submitted order so error rows land in the response
	// at the position of the line that produced them.
	type entry struct {
		domain  string
		invalid bool
	}
	var (
		entries []entry
		seen    = make(map[string]bool)
		valid   int
	)
	for _, line := range lines {
		domain, err := models.NormalizeDomain(line)
		if err != nil {
			entries = append(entries, entry{domain: line, invalid: true})
			continue
		}
		if seen[domain] {
			continue
		}
		seen[domain] = true
		entries = append(entries, entry{domain: domain})
		valid++
	}

	batchID := uuid.New()
	s.metrics.Batches.Inc()
	log := s.logger.With(logger.String("batch_id", batchID.String()))
	log.Info("processing quote batch",
		logger.Int("domains", valid),
		logger.Int("invalid", len(entries)-valid),
		logger.Bool("authenticated", userID != nil))

	var (
		rows      []Row
		total     float64
		cancelled bool
		looked    int
	)
	for _, e := range entries {
		if e.invalid {
			rows = append(rows, Row{Domain: e.domain, Error: errInvalidDomain})
			s.metrics.ErrorRows.Inc()
			continue
		}

		// Lookups stay sequential and spaced out; the proxy pool and
		// registry rate limits punish bursty fan-out.
		if looked > 0 && !cancelled {
			if err := s.lookupPause(ctx); err != nil {
				cancelled = true
			}
		}
		if cancelled || ctx.Err() != nil {
			cancelled = true
			rows = append(rows, Row{Domain: e.domain, Error: errBatchCancelled})
			s.metrics.ErrorRows.Inc()
			continue
		}
		looked++

		row := s.processDomain(ctx, log, batchID, e.domain, userID)
		if row.Error == "" {
			price, _ := strconv.ParseFloat(row.Price, 64)
			total += price
		}
		rows = append(rows, row)
	}

	result := &BatchResult{
		BatchID:    batchID,
		Rows:       rows,
		TotalPrice: pricing.Round2(total),
		Link:       fmt.Sprintf("%s/quote/%s", s.cfg.BaseURL, batchID),
		CreatedAt:  time.Now(),
	}
	log.Info("quote batch complete",
		logger.Int("rows", len(rows)),
		logger.Float64("total_price", result.TotalPrice))
	return result, nil
}

// processDomain runs the cache → resolver → pricing → store pipeline for a
// single domain and returns its response row.
func (s *Service) processDomain(ctx context.Context, log logger.Logger, batchID uuid.UUID, domain string, userID *int64) Row {
	result := s.lookup(ctx, domain)
	if result.Failed() {
		s.metrics.ErrorRows.Inc()
		return Row{Domain: domain, Error: result.Err, PushStatus: s.pushStatus(ctx, domain)}
	}

	daysLeft, ok := result.DaysLeft(time.Now())
	if !ok {
		s.metrics.ErrorRows.Inc()
		return Row{Domain: domain, Error: errLookupFailed, PushStatus: s.pushStatus(ctx, domain)}
	}

	tld := models.TLD(domain)
	price := s.pricer.CalculatePrice(tld, daysLeft)
	regPrice := s.pricer.RegistrationPrice(tld)

	row := &models.QuoteRow{
		BatchID:        batchID,
		Domain:         domain,
		UserID:         userID,
		Registrar:      result.Registrar,
		ExpirationDate: *result.ExpirationDate,
		DaysLeft:       daysLeft,
		Price:          pricing.Round2(price),
		NewRegPrice:    pricing.Round2(regPrice),
	}
	if err := s.store.Append(ctx, row); err != nil {
		// The row stays in the immediate response but is missing from the
		// stored batch, so a later replay will disagree with this result.
		log.Error("quote row not persisted, replay will be incomplete",
			logger.String("domain", domain),
			logger.Error(err))
	}

	s.metrics.QuotedRows.Inc()
	days := daysLeft
	return Row{
		Domain:         domain,
		Registrar:      result.Registrar,
		ExpirationDate: result.ExpirationDate.Format(dateLayout),
		DaysLeft:       &days,
		Price:          formatPrice(price),
		NewReg:         formatPrice(regPrice),
		PushStatus:     s.pushStatus(ctx, domain),
	}
}

// lookup consults the cache and falls back to the resolver. A per-domain
// lock guarantees a single in-flight lookup per domain across concurrent
// batches, so two callers never spend proxy attempts on the same name.
func (s *Service) lookup(ctx context.Context, domain string) models.WhoisResult {
	release := s.acquire(domain)
	defer release()

	if cached, ok := s.cache.Get(ctx, domain); ok {
		s.metrics.CacheHits.Inc()
		return cached
	}
	s.metrics.CacheMisses.Inc()

	result := s.resolver.Resolve(ctx, domain)
	switch {
	case !result.Failed():
		s.metrics.WhoisLookups.WithLabelValues(metrics.OutcomeResolved).Inc()
	case result.Err == models.ErrNoWhoisRecord.Error():
		s.metrics.WhoisLookups.WithLabelValues(metrics.OutcomeNoRecord).Inc()
	default:
		s.metrics.WhoisLookups.WithLabelValues(metrics.OutcomeConnError).Inc()
	}

	s.cache.Put(ctx, result)
	return result
}

func (s *Service) acquire(domain string) (release func()) {
	s.mu.Lock()
	entry, ok := s.inflight[domain]
	if !ok {
		entry = &inflightEntry{}
		s.inflight[domain] = entry
	}
	entry.refs++
	s.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		s.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(s.inflight, domain)
		}
		s.mu.Unlock()
	}
}

func (s *Service) pushStatus(ctx context.Context, domain string) bool {
	exists, err := s.inventory.Exists(ctx, domain)
	if err != nil {
		s.logger.Warn("inventory check failed",
			logger.String("domain", domain),
			logger.Error(err))
		return false
	}
	return exists
}

// lookupPause sleeps for a randomized interval between consecutive lookups.
// Returns ctx.Err() when the caller cancels during the pause.
func (s *Service) lookupPause(ctx context.Context) error {
	if s.cfg.LookupDelayMax <= 0 {
		return ctx.Err()
	}
	delay := s.cfg.LookupDelayMin
	if spread := s.cfg.LookupDelayMax - s.cfg.LookupDelayMin; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread) + 1))
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// GetBatch replays a stored batch: rows ordered by days_left ascending,
// registration prices and the total recomputed live from the current TLD
// table. The earliest row's created_at is the batch display timestamp.
func (s *Service) GetBatch(ctx context.Context, id string) (*BatchResult, error) {
	batchID, err := uuid.Parse(id)
	if err != nil {
		return nil, models.ErrInvalidUUID
	}

	stored, err := s.store.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		BatchID: batchID,
		Link:    fmt.Sprintf("%s/quote/%s", s.cfg.BaseURL, batchID),
	}

	var total float64
	for i := range stored {
		row := &stored[i]
		if result.CreatedAt.IsZero() || row.CreatedAt.Before(result.CreatedAt) {
			result.CreatedAt = row.CreatedAt
		}

		days := row.DaysLeft
		total += row.Price
		result.Rows = append(result.Rows, Row{
			Domain:         row.Domain,
			Registrar:      row.Registrar,
			ExpirationDate: row.ExpirationDate.Format(dateLayout),
			DaysLeft:       &days,
			Price:          formatPrice(row.Price),
			NewReg:         formatPrice(s.pricer.RegistrationPrice(models.TLD(row.Domain))),
			PushStatus:     s.pushStatus(ctx, row.Domain),
		})
	}
	result.TotalPrice = pricing.Round2(total)

	return result, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(pricing.Round2(v), 'f', 2, 64)
}
