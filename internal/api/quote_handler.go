package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/domainflip/backoffice/internal/models"
)

// createQuote processes a submitted batch of domain names.
// POST /api/v1/quote
//
// The response always covers every input domain, priced rows and
// error-tagged rows side by side, and stays HTTP 200 even when every
// lookup failed. Only a malformed request body is a client error.
func (r *Router) createQuote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Please enter at least one domain name.",
		})
		return
	}

	result, err := r.quotes.ProcessBatch(c.Request.Context(), req.Domains, userIDFromHeader(c))
	if err != nil {
		if errors.Is(err, models.ErrInvalidDomain) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Please enter at least one domain name.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to process quote batch",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"data":        result.Rows,
		"uuid":        result.BatchID.String(),
		"total_price": formatTotal(result.TotalPrice),
		"link":        result.Link,
	})
}

// getQuote replays a stored batch.
// GET /quote/:uuid and GET /api/v1/quote/:uuid
func (r *Router) getQuote(c *gin.Context) {
	result, err := r.quotes.GetBatch(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidUUID):
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid quote ID format",
			})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Quote not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to load quote",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"data":        result.Rows,
		"uuid":        result.BatchID.String(),
		"total_price": formatTotal(result.TotalPrice),
		"created_at":  result.CreatedAt,
		"link":        result.Link,
	})
}

// userQuoteRow is one row of a user's quote history.
type userQuoteRow struct {
	UUID           string    `json:"uuid"`
	Domain         string    `json:"domain"`
	Registrar      string    `json:"registrar"`
	ExpirationDate string    `json:"expiration_date"`
	DaysLeft       int       `json:"days_left"`
	Price          string    `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
	Link           string    `json:"link"`
}

// listUserQuotes returns the requesting user's quote history, newest
// batches first. Rows carry the batch UUID so the front end can group
// them and link back to the replay page.
// GET /api/v1/quotes
func (r *Router) listUserQuotes(c *gin.Context) {
	userID := userIDFromHeader(c)
	if userID == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Missing or invalid X-User-ID header",
		})
		return
	}

	stored, err := r.quoteRepo.ListByUser(c.Request.Context(), *userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load quote history",
		})
		return
	}

	rows := make([]userQuoteRow, 0, len(stored))
	for _, row := range stored {
		rows = append(rows, userQuoteRow{
			UUID:           row.BatchID.String(),
			Domain:         row.Domain,
			Registrar:      row.Registrar,
			ExpirationDate: row.ExpirationDate.Format("2006-01-02"),
			DaysLeft:       row.DaysLeft,
			Price:          formatTotal(row.Price),
			CreatedAt:      row.CreatedAt,
			Link:           fmt.Sprintf("%s/quote/%s", r.cfg.BaseURL, row.BatchID),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// userIDFromHeader reads the optional X-User-ID header set by the
// authenticating front end. Absent or malformed values mean a guest quote.
func userIDFromHeader(c *gin.Context) *int64 {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func formatTotal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
