package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/domainflip/backoffice/internal/database"
	"github.com/domainflip/backoffice/internal/models"
)

func TestInventoryRepository_Upsert(t *testing.T) {
	testCases := []struct {
		name        string
		inserted    bool
		wantCreated bool
	}{
		{name: "new domain reports created", inserted: true, wantCreated: true},
		{name: "existing domain reports refresh", inserted: false, wantCreated: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := database.NewInventoryRepository(db)

			mock.ExpectQuery("INSERT INTO domains").
				WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).
					AddRow(int64(5), tc.inserted))

			d := &models.Domain{
				Name:      "example.com",
				ExpDate:   time.Now().AddDate(1, 0, 0).Unix(),
				Registrar: "godaddy",
			}
			created, err := repo.Upsert(context.Background(), d)
			if err != nil {
				t.Fatalf("Upsert() unexpected error: %v", err)
			}
			if created != tc.wantCreated {
				t.Errorf("Upsert() created = %v, want %v", created, tc.wantCreated)
			}
			if d.ID != 5 {
				t.Errorf("Upsert() id = %d, want 5", d.ID)
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func TestInventoryRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewInventoryRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Exists() unexpected error: %v", err)
	}
	if !exists {
		t.Error("Exists() = false, want true")
	}
}

func TestInventoryRepository_CountByRegistrar(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewInventoryRepository(db)

	mock.ExpectQuery("SELECT registrar, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"registrar", "count"}).
			AddRow("godaddy", 12).
			AddRow("porkbun", 3))

	counts, err := repo.CountByRegistrar(context.Background())
	if err != nil {
		t.Fatalf("CountByRegistrar() unexpected error: %v", err)
	}
	if counts["godaddy"] != 12 || counts["porkbun"] != 3 {
		t.Errorf("CountByRegistrar() = %v", counts)
	}
}
