// Command backoffice is the operator CLI: it serves the HTTP API and runs
// the registrar inventory jobs that production schedules via cron.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/domainflip/backoffice/internal/config"
	"github.com/domainflip/backoffice/internal/database"
	"github.com/domainflip/backoffice/internal/inventory"
	"github.com/domainflip/backoffice/internal/logger"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "Domain portfolio back office",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "Path to the YAML config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newDomainsCmd(&configPath))

	return root
}

// app bundles the dependencies a subcommand needs. Close releases them.
type app struct {
	cfg    *config.Config
	logger logger.Logger
	db     *sqlx.DB
}

func newApp(configPath string) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.Postgres)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &app{cfg: cfg, logger: log, db: db}, nil
}

func (a *app) inventoryService() *inventory.Service {
	repo := database.NewInventoryRepository(a.db)
	return inventory.NewService(repo, a.cfg.Registrars, a.logger)
}

func (a *app) Close() {
	database.Close(a.db)
	_ = a.logger.Sync()
}
