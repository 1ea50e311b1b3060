// Package db selects the repository implementation for the configured driver.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/engine-checkup/internal/config"
	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	"github.com/bryanwahyu/engine-checkup/internal/domain/reports"
	"github.com/bryanwahyu/engine-checkup/internal/domain/vehicles"
	"github.com/bryanwahyu/engine-checkup/internal/infra/db/memory"
	"github.com/bryanwahyu/engine-checkup/internal/infra/db/migrations"
	mysqlp "github.com/bryanwahyu/engine-checkup/internal/infra/db/mysql"
	"github.com/bryanwahyu/engine-checkup/internal/infra/db/postgres"
)

// Stores bundles the repositories. DB is nil for the memory driver.
type Stores struct {
	DB       *sql.DB
	Vehicles vehicles.Repository
	Analyses analysis.Repository
	Reports  reports.Repository
}

// Close releases the database handle, if any.
func (s *Stores) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Connect opens the SQL database for cfg without building repositories.
func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		return mysqlp.Connect(ctx, cfg.MySQLDSN(), cfg.Database.Pool)
	case "postgres":
		return postgres.Connect(ctx, cfg.PostgresDSN(), cfg.Database.Pool)
	}
	return nil, fmt.Errorf("driver %q has no SQL database", cfg.Database.Driver)
}

// Open builds the repositories for cfg.Database.Driver and, when enabled,
// applies pending migrations first.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Stores, error) {
	driver := cfg.Database.Driver
	if driver == "memory" {
		log.Warn("using in-memory store, data is lost on restart")
		return &Stores{
			Vehicles: memory.NewVehicleRepository(),
			Analyses: memory.NewAnalysisRepository(),
			Reports:  memory.NewReportRepository(),
		}, nil
	}

	sqlDB, err := Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s connect: %w", driver, err)
	}
	if cfg.Database.Migrate {
		if err := migrations.Up(ctx, sqlDB, driver); err != nil {
			sqlDB.Close()
			return nil, err
		}
		log.Info("migrations applied", zap.String("driver", driver))
	}

	s := &Stores{DB: sqlDB}
	switch driver {
	case "mysql":
		s.Vehicles = mysqlp.NewVehicleRepository(sqlDB)
		s.Analyses = mysqlp.NewAnalysisRepository(sqlDB)
		s.Reports = mysqlp.NewReportRepository(sqlDB)
	case "postgres":
		s.Vehicles = postgres.NewVehicleRepository(sqlDB)
		s.Analyses = postgres.NewAnalysisRepository(sqlDB)
		s.Reports = postgres.NewReportRepository(sqlDB)
	}
	return s, nil
}
