package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/domainflip/backoffice/internal/api"
	"github.com/domainflip/backoffice/internal/config"
	"github.com/domainflip/backoffice/internal/database"
	"github.com/domainflip/backoffice/internal/logger"
	"github.com/domainflip/backoffice/internal/metrics"
	"github.com/domainflip/backoffice/internal/pricing"
	"github.com/domainflip/backoffice/internal/proxy"
	"github.com/domainflip/backoffice/internal/quote"
	"github.com/domainflip/backoffice/internal/whois"
	"github.com/domainflip/backoffice/internal/whoiscache"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Connecting to database...")
	db, err := database.NewPostgresConnection(cfg.Postgres)
	if err != nil {
		appLogger.Error("Failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer database.Close(db)
	appLogger.Info("Database connection established")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	table, err := pricing.LoadTable(cfg.Pricing.TablePath)
	if err != nil {
		appLogger.Error("Failed to load pricing table", logger.Error(err))
		os.Exit(1)
	}
	appLogger.Info("Pricing table loaded", logger.Int("tlds", table.Len()))

	transport, err := proxy.New(cfg.Proxy, cfg.Whois, appLogger)
	if err != nil {
		appLogger.Error("Failed to configure proxy transport", logger.Error(err))
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	resolver := whois.NewResolver(transport, appLogger)
	cache := whoiscache.New(redisClient, cfg.Whois.CacheTTL, cfg.Whois.CacheNegative, appLogger)
	quoteRepo := database.NewQuoteRepository(db)
	inventoryRepo := database.NewInventoryRepository(db)
	pricer := pricing.NewEngine(table, appLogger)

	quotes := quote.NewService(resolver, cache, quoteRepo, inventoryRepo, pricer, m, appLogger, quote.Config{
		BaseURL:        cfg.BaseURL,
		LookupDelayMin: cfg.Whois.LookupDelayMin,
		LookupDelayMax: cfg.Whois.LookupDelayMax,
	})

	router := api.NewRouter(quotes, quoteRepo, inventoryRepo, redisClient, cfg)
	ginEngine := router.SetupRoutes()

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      ginEngine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info("Starting back office API server", logger.String("addr", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Error(err))
	}

	appLogger.Info("Server exited")
}
