package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/domainflip/backoffice/internal/models"
)

// InventoryRepository stores the registrar domain inventory that the
// per-registrar downloaders maintain and the quote flow's already-in-system
// indicator reads.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository creates an inventory repository over db.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Upsert inserts or refreshes one inventory row, keyed by domain name.
// created reports whether the row was new.
func (r *InventoryRepository) Upsert(ctx context.Context, d *models.Domain) (created bool, err error) {
	now := time.Now()
	query := `
		INSERT INTO domains (domain, exp_date, registrar, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (domain) DO UPDATE
			SET exp_date = EXCLUDED.exp_date,
			    registrar = EXCLUDED.registrar,
			    updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0) AS inserted
	`

	status := d.Status
	if status == "" {
		status = "active"
	}

	var inserted bool
	err = r.db.QueryRowxContext(ctx, query, d.Name, d.ExpDate, d.Registrar, status, now).
		Scan(&d.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert domain: %w", err)
	}

	return inserted, nil
}

// Exists reports whether a domain is already in the inventory.
func (r *InventoryRepository) Exists(ctx context.Context, domain string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM domains WHERE domain = $1)`

	if err := r.db.GetContext(ctx, &exists, query, domain); err != nil {
		return false, fmt.Errorf("failed to check domain existence: %w", err)
	}

	return exists, nil
}

// List returns the whole inventory ordered by expiration date ascending.
func (r *InventoryRepository) List(ctx context.Context) ([]models.Domain, error) {
	domains := []models.Domain{}
	query := `
		SELECT id, domain, exp_date, registrar, status, created_at, updated_at
		FROM domains
		ORDER BY exp_date ASC
	`

	if err := r.db.SelectContext(ctx, &domains, query); err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}

	return domains, nil
}

// CountByRegistrar returns inventory row counts grouped by registrar.
func (r *InventoryRepository) CountByRegistrar(ctx context.Context) (map[string]int, error) {
	rows := []struct {
		Registrar string `db:"registrar"`
		Count     int    `db:"count"`
	}{}
	query := `SELECT registrar, COUNT(*) AS count FROM domains GROUP BY registrar`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count domains by registrar: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Registrar] = row.Count
	}
	return counts, nil
}
