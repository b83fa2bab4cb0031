package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteRow is one persisted row of a quote batch. Rows are written once per
// (batch UUID, domain) pair and never mutated; batches are immutable history.
type QuoteRow struct {
	ID             int64     `db:"id"              json:"-"`
	BatchID        uuid.UUID `db:"uuid"            json:"-"`
	Domain         string    `db:"domain"          json:"domain"`
	UserID         *int64    `db:"user_id"         json:"-"`
	Registrar      string    `db:"registrar"       json:"registrar"`
	ExpirationDate time.Time `db:"expiration_date" json:"-"`
	DaysLeft       int       `db:"days_left"       json:"days_left"`
	Price          float64   `db:"price"           json:"-"`
	NewRegPrice    float64   `db:"new_reg_price"   json:"-"`
	CreatedAt      time.Time `db:"created_at"      json:"-"`
	UpdatedAt      time.Time `db:"updated_at"      json:"-"`
}

// Domain is one row of the registrar inventory. Inventory rows are written
// by the per-registrar downloaders and read by the quote flow's
// already-in-system indicator.
type Domain struct {
	ID        int64     `db:"id"         json:"id"`
	Name      string    `db:"domain"     json:"domain"`
	ExpDate   int64     `db:"exp_date"   json:"exp_date"` // unix seconds
	Registrar string    `db:"registrar"  json:"registrar"`
	Status    string    `db:"status"     json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// QuoteRequest is the payload for POST /api/v1/quote.
type QuoteRequest struct {
	Domains string `binding:"required" json:"domains"`
}
