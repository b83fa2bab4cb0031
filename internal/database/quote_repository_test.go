package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/domainflip/backoffice/internal/database"
	"github.com/domainflip/backoffice/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func sampleRow(batchID uuid.UUID) *models.QuoteRow {
	return &models.QuoteRow{
		BatchID:        batchID,
		Domain:         "example.com",
		Registrar:      "GoDaddy.com, LLC",
		ExpirationDate: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		DaysLeft:       120,
		Price:          3.50,
		NewRegPrice:    10.28,
	}
}

func TestQuoteRepository_Append(t *testing.T) {
	batchID := uuid.New()

	testCases := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "successful insert assigns id",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO quote_results").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
			},
		},
		{
			name: "duplicate row maps to ErrAlreadyExists",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO quote_results").
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: models.ErrAlreadyExists,
		},
		{
			name: "other database errors pass through wrapped",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("INSERT INTO quote_results").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := database.NewQuoteRepository(db)
			tc.setupMock(mock)

			row := sampleRow(batchID)
			err := repo.Append(context.Background(), row)

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("Append() error = %v, want %v", err, tc.wantErr)
				}
			} else {
				if err != nil {
					t.Errorf("Append() unexpected error: %v", err)
				}
				if row.ID != 7 {
					t.Errorf("Append() id = %d, want 7", row.ID)
				}
				if row.CreatedAt.IsZero() || row.UpdatedAt.IsZero() {
					t.Error("Append() should stamp created_at and updated_at")
				}
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func quoteColumns() []string {
	return []string{
		"id", "uuid", "domain", "user_id", "registrar",
		"expiration_date", "days_left", "price", "new_reg_price",
		"created_at", "updated_at",
	}
}

func TestQuoteRepository_ListByBatch(t *testing.T) {
	batchID := uuid.New()
	now := time.Now()

	t.Run("returns rows ordered by days left", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := database.NewQuoteRepository(db)

		rows := sqlmock.NewRows(quoteColumns()).
			AddRow(int64(1), batchID.String(), "soon.com", nil, "Registrar A",
				now.AddDate(0, 0, 20), 20, 0.75, 8.00, now, now).
			AddRow(int64(2), batchID.String(), "later.com", nil, "Registrar B",
				now.AddDate(0, 0, 200), 200, 3.50, 10.28, now, now)
		mock.ExpectQuery("SELECT (.+) FROM quote_results").
			WithArgs(batchID).
			WillReturnRows(rows)

		got, err := repo.ListByBatch(context.Background(), batchID)
		if err != nil {
			t.Fatalf("ListByBatch() unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("ListByBatch() returned %d rows, want 2", len(got))
		}
		if got[0].Domain != "soon.com" || got[1].Domain != "later.com" {
			t.Errorf("ListByBatch() order = [%s, %s]", got[0].Domain, got[1].Domain)
		}

		if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
			t.Errorf("unfulfilled expectations: %v", expectErr)
		}
	})

	t.Run("unknown batch yields ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := database.NewQuoteRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM quote_results").
			WithArgs(batchID).
			WillReturnRows(sqlmock.NewRows(quoteColumns()))

		_, err := repo.ListByBatch(context.Background(), batchID)
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("ListByBatch() error = %v, want ErrNotFound", err)
		}
	})
}

func TestQuoteRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewQuoteRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(quoteColumns()).
		AddRow(int64(3), uuid.NewString(), "example.com", int64(42), "Registrar A",
			now.AddDate(0, 0, 90), 90, 3.00, 10.28, now, now)
	mock.ExpectQuery("SELECT (.+) FROM quote_results").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListByUser() unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListByUser() returned %d rows, want 1", len(got))
	}
	if got[0].UserID == nil || *got[0].UserID != 42 {
		t.Errorf("ListByUser() user_id = %v, want 42", got[0].UserID)
	}
}
