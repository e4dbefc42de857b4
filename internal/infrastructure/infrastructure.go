// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies (logging, lifecycle, database, metrics) that the API requires.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/crudify/internal/config"
	"github.com/JaimeStill/crudify/pkg/database"
	"github.com/JaimeStill/crudify/pkg/lifecycle"
	"github.com/JaimeStill/crudify/pkg/logging"
	"github.com/JaimeStill/crudify/pkg/middleware"
	"github.com/JaimeStill/crudify/pkg/store/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Infrastructure holds the core systems required by the API.
// Database is nil unless the postgres store driver is configured.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Metrics   *middleware.Metrics
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Metrics:   middleware.NewMetrics(registry),
	}

	if cfg.Store.Driver == config.DriverPostgres {
		db, err := database.New(&cfg.Store.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	}

	return infra, nil
}

// Start connects the database, when configured, and applies the document store migrations.
func (i *Infrastructure) Start() error {
	if i.Database == nil {
		return nil
	}

	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := postgres.Migrate(i.Lifecycle.Context(), i.Database.Connection()); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	i.Logger.Info("document store migrations applied")
	return nil
}
