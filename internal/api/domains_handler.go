package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listDomains returns the registrar inventory ordered by expiration date.
// GET /api/v1/domains
func (r *Router) listDomains(c *gin.Context) {
	ctx := c.Request.Context()

	domains, err := r.inventory.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list domains",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"domains": domains,
		"count":   len(domains),
	})
}

// domainStats returns inventory counts grouped by registrar.
// GET /api/v1/domains/stats
func (r *Router) domainStats(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := r.inventory.CountByRegistrar(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to count domains",
		})
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	c.JSON(http.StatusOK, gin.H{
		"by_registrar": counts,
		"total":        total,
	})
}
