package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/domainflip/backoffice/internal/models"
)

// QuoteRepository is the durable quote store. Batches are write-once,
// read-many: rows are appended during batch processing and never updated or
// deleted.
type QuoteRepository struct {
	db *sqlx.DB
}

// NewQuoteRepository creates a quote repository over db.
func NewQuoteRepository(db *sqlx.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Append persists one quote row. Each insert is a single statement, so a
// row is either fully written or not written at all.
func (r *QuoteRepository) Append(ctx context.Context, row *models.QuoteRow) error {
	now := time.Now()
	row.CreatedAt = now
	row.UpdatedAt = now

	query := `
		INSERT INTO quote_results
			(uuid, domain, user_id, registrar, expiration_date, days_left, price, new_reg_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx, query,
		row.BatchID, row.Domain, row.UserID, row.Registrar, row.ExpirationDate,
		row.DaysLeft, row.Price, row.NewRegPrice, row.CreatedAt, row.UpdatedAt,
	).Scan(&row.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return models.ErrAlreadyExists
		}
		return fmt.Errorf("failed to append quote row: %w", err)
	}

	return nil
}

// ListByBatch returns all rows of a batch ordered by days_left ascending.
// An unknown batch yields models.ErrNotFound.
func (r *QuoteRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]models.QuoteRow, error) {
	rows := []models.QuoteRow{}
	query := `
		SELECT id, uuid, domain, user_id, registrar, expiration_date, days_left, price, new_reg_price, created_at, updated_at
		FROM quote_results
		WHERE uuid = $1
		ORDER BY days_left ASC
	`

	if err := r.db.SelectContext(ctx, &rows, query, batchID); err != nil {
		return nil, fmt.Errorf("failed to list quote batch: %w", err)
	}
	if len(rows) == 0 {
		return nil, models.ErrNotFound
	}

	return rows, nil
}

// ListByUser returns a user's quote rows, newest batches first.
func (r *QuoteRepository) ListByUser(ctx context.Context, userID int64) ([]models.QuoteRow, error) {
	rows := []models.QuoteRow{}
	query := `
		SELECT id, uuid, domain, user_id, registrar, expiration_date, days_left, price, new_reg_price, created_at, updated_at
		FROM quote_results
		WHERE user_id = $1
		ORDER BY created_at DESC, days_left ASC
	`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user quotes: %w", err)
	}

	return rows, nil
}

// Ping verifies database connectivity.
func (r *QuoteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
