// Package api exposes the quoting pipeline over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/domainflip/backoffice/internal/config"
	"github.com/domainflip/backoffice/internal/database"
	"github.com/domainflip/backoffice/internal/quote"
	"github.com/redis/go-redis/v9"
)

const (
	healthStatusHealthy  = "healthy"
	healthStatusDegraded = "degraded"
	healthCheckTimeout   = 2 * time.Second
	serviceVersion       = "1.0.0"
)

// Router holds the API dependencies.
type Router struct {
	quotes      *quote.Service
	quoteRepo   *database.QuoteRepository
	inventory   *database.InventoryRepository
	redisClient *redis.Client
	cfg         *config.Config
}

// NewRouter creates a new API router.
func NewRouter(
	quotes *quote.Service,
	quoteRepo *database.QuoteRepository,
	inventory *database.InventoryRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *Router {
	return &Router{
		quotes:      quotes,
		quoteRepo:   quoteRepo,
		inventory:   inventory,
		redisClient: redisClient,
		cfg:         cfg,
	}
}

// SetupRoutes builds the gin engine with all routes registered.
func (r *Router) SetupRoutes() *gin.Engine {
	if !r.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Public, no auth
	router.GET("/health", r.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Shareable replay link target
	router.GET("/quote/:uuid", r.getQuote)

	v1 := router.Group("/api/v1")
	v1.POST("/quote", r.createQuote)
	v1.GET("/quote/:uuid", r.getQuote)
	v1.GET("/quotes", r.listUserQuotes)
	v1.GET("/domains", r.listDomains)
	v1.GET("/domains/stats", r.domainStats)

	return router
}

// healthCheck reports the service health status.
func (r *Router) healthCheck(c *gin.Context) {
	health := gin.H{
		"status":  healthStatusHealthy,
		"service": "backoffice",
		"version": serviceVersion,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	dbConnected := true
	if err := r.quoteRepo.Ping(ctx); err != nil {
		dbConnected = false
		health["status"] = healthStatusDegraded
	}
	health["database"] = gin.H{"connected": dbConnected}

	redisConnected := r.redisClient != nil
	if r.redisClient != nil {
		if err := r.redisClient.Ping(ctx).Err(); err != nil {
			redisConnected = false
		}
	}
	if !redisConnected {
		health["status"] = healthStatusDegraded
	}
	health["redis"] = gin.H{"connected": redisConnected}

	c.JSON(http.StatusOK, health)
}
