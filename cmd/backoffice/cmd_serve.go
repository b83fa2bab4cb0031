package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/domainflip/backoffice/internal/api"
	"github.com/domainflip/backoffice/internal/database"
	"github.com/domainflip/backoffice/internal/logger"
	"github.com/domainflip/backoffice/internal/metrics"
	"github.com/domainflip/backoffice/internal/pricing"
	"github.com/domainflip/backoffice/internal/proxy"
	"github.com/domainflip/backoffice/internal/quote"
	"github.com/domainflip/backoffice/internal/whois"
	"github.com/domainflip/backoffice/internal/whoiscache"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the back office HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(cmd.Context(), a)
		},
	}
}

// serve wires the quoting pipeline and runs the HTTP server until ctx is
// cancelled. Same wiring as cmd/api, exposed here so one binary covers both
// the API and the inventory jobs.
func serve(ctx context.Context, a *app) error {
	cfg := a.cfg

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	table, err := pricing.LoadTable(cfg.Pricing.TablePath)
	if err != nil {
		return err
	}

	transport, err := proxy.New(cfg.Proxy, cfg.Whois, a.logger)
	if err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	resolver := whois.NewResolver(transport, a.logger)
	cache := whoiscache.New(redisClient, cfg.Whois.CacheTTL, cfg.Whois.CacheNegative, a.logger)
	quoteRepo := database.NewQuoteRepository(a.db)
	inventoryRepo := database.NewInventoryRepository(a.db)
	pricer := pricing.NewEngine(table, a.logger)

	quotes := quote.NewService(resolver, cache, quoteRepo, inventoryRepo, pricer, m, a.logger, quote.Config{
		BaseURL:        cfg.BaseURL,
		LookupDelayMin: cfg.Whois.LookupDelayMin,
		LookupDelayMax: cfg.Whois.LookupDelayMax,
	})

	router := api.NewRouter(quotes, quoteRepo, inventoryRepo, redisClient, cfg)
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting back office API server", logger.String("addr", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
