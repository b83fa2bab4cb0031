// Package inventory synchronizes the registrar domain inventory. Each
// configured registrar client is asked for its active domains and the
// results are upserted into the domains table, keyed by domain name.
package inventory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/domainflip/backoffice/internal/config"
	"github.com/domainflip/backoffice/internal/logger"
	"github.com/domainflip/backoffice/internal/models"
	"github.com/domainflip/backoffice/internal/registrar"
)

// Store is the persistence surface the sync loop needs.
type Store interface {
	Upsert(ctx context.Context, d *models.Domain) (created bool, err error)
	Exists(ctx context.Context, domain string) (bool, error)
	List(ctx context.Context) ([]models.Domain, error)
	CountByRegistrar(ctx context.Context) (map[string]int, error)
}

// SyncStats summarizes one registrar sync run.
type SyncStats struct {
	Registrar string
	Total     int
	New       int
	Updated   int
	Skipped   int
}

// Service drives registrar downloads and inventory exports.
type Service struct {
	store   Store
	clients map[string]registrar.Client
	logger  logger.Logger
}

// NewService builds a Service with one client per registrar that has
// credentials configured. Registrars without credentials are skipped, not
// treated as errors, so a partially configured deployment still syncs what
// it can.
func NewService(store Store, creds config.RegistrarsConfig, log logger.Logger) *Service {
	s := &Service{
		store:   store,
		clients: make(map[string]registrar.Client),
		logger:  log,
	}

	if c, err := registrar.NewGoDaddy(creds.GoDaddyKey); err == nil {
		s.clients[c.Name()] = c
	}
	if c, err := registrar.NewPorkbun(creds.PorkbunKey, creds.PorkbunSecret); err == nil {
		s.clients[c.Name()] = c
	}
	if c, err := registrar.NewDynadot(creds.DynadotKey); err == nil {
		s.clients[c.Name()] = c
	}
	if c, err := registrar.NewNamecheap(creds.NamecheapUser, creds.NamecheapKey, creds.NamecheapIP); err == nil {
		s.clients[c.Name()] = c
	}
	if c, err := registrar.NewNameCom(creds.NamecomUser, creds.NamecomToken); err == nil {
		s.clients[c.Name()] = c
	}
	if c, err := registrar.NewSpaceship(creds.SpaceshipKey, creds.SpaceshipSecret); err == nil {
		s.clients[c.Name()] = c
	}
	if c, err := registrar.NewSav(creds.SavKey); err == nil {
		s.clients[c.Name()] = c
	}

	return s
}

// Registrars returns the names of all configured registrar clients, sorted.
func (s *Service) Registrars() []string {
	names := make([]string, 0, len(s.clients))
	for name := range s.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sync downloads the domain list from a single registrar and upserts it
// into the inventory. With dryRun set, nothing is written and every fetched
// domain counts as skipped.
func (s *Service) Sync(ctx context.Context, name string, dryRun bool) (*SyncStats, error) {
	client, ok := s.clients[name]
	if !ok {
		return nil, fmt.Errorf("registrar %q is not configured", name)
	}

	s.logger.Info("downloading registrar inventory",
		logger.String("registrar", name),
		logger.Bool("dry_run", dryRun))

	records, err := client.ListDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s domains: %w", name, err)
	}

	stats := &SyncStats{Registrar: name, Total: len(records)}
	for _, rec := range records {
		if dryRun {
			stats.Skipped++
			continue
		}

		created, err := s.store.Upsert(ctx, &models.Domain{
			Name:      strings.ToLower(rec.Name),
			ExpDate:   rec.Expiration.Unix(),
			Registrar: name,
		})
		if err != nil {
			s.logger.Error("inventory upsert failed",
				logger.String("registrar", name),
				logger.String("domain", rec.Name),
				logger.Error(err))
			stats.Skipped++
			continue
		}
		if created {
			stats.New++
		} else {
			stats.Updated++
		}
	}

	s.logger.Info("registrar inventory synced",
		logger.String("registrar", name),
		logger.Int("total", stats.Total),
		logger.Int("new", stats.New),
		logger.Int("updated", stats.Updated),
		logger.Int("skipped", stats.Skipped))

	return stats, nil
}

// SyncAll runs Sync for every configured registrar. A failing registrar does
// not abort the others; the first error is returned after all runs complete.
func (s *Service) SyncAll(ctx context.Context, dryRun bool) ([]SyncStats, error) {
	var (
		all      []SyncStats
		firstErr error
	)
	for _, name := range s.Registrars() {
		stats, err := s.Sync(ctx, name, dryRun)
		if err != nil {
			s.logger.Error("registrar sync failed",
				logger.String("registrar", name),
				logger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		all = append(all, *stats)
	}
	return all, firstErr
}

// Stats returns inventory row counts grouped by registrar.
func (s *Service) Stats(ctx context.Context) (map[string]int, error) {
	return s.store.CountByRegistrar(ctx)
}

// ExportCSV writes the whole inventory as CSV ordered by expiration date.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	domains, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list inventory: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Domain", "Expiration Date", "Registrar"}); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, d := range domains {
		row := []string{
			d.Name,
			time.Unix(d.ExpDate, 0).UTC().Format("2006-01-02"),
			d.Registrar,
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(domains), nil
}
