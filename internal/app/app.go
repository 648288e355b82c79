// Package app wires storage backends and services from configuration.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/config"
	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/infra/memory"
	"github.com/aliskhannn/learning-progress-tracker/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/learning-progress-tracker/internal/infra/postgres/repository"
	"github.com/aliskhannn/learning-progress-tracker/internal/infra/sqlite"
	"github.com/aliskhannn/learning-progress-tracker/internal/service"
)

// Store is one configured storage backend.
type Store struct {
	Progress   service.ProgressRepository
	Sessions   service.SessionLister
	Transactor service.Transactor
	Activity   service.ActivityRepository

	Ping    func(ctx context.Context) error
	Migrate func(ctx context.Context) error
	Close   func()
}

// Services bundles the operations exposed to the delivery layers.
type Services struct {
	Calendar     *entities.Calendar
	Stats        *service.StatsService
	Progress     *service.ProgressService
	Achievements *service.AchievementService
	Reports      *service.ReportService
	Activity     *service.ActivityService
	Reset        *service.ResetService
	Reconcile    *service.ReconcileService
}

// OpenStore connects the backend selected by cfg.DB.Driver.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		progress := pgrepo.NewProgressRepository(pool)
		return &Store{
			Progress:   progress,
			Sessions:   progress,
			Transactor: pgrepo.NewSessionTransactor(postgres.NewTransactor(pool)),
			Activity:   pgrepo.NewActivityRepository(pool),
			Ping:       pool.Ping,
			Migrate:    func(ctx context.Context) error { return postgres.Migrate(ctx, pool) },
			Close:      pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DB.SQLitePath)
		if err != nil {
			return nil, err
		}

		progress := sqlite.NewProgressRepository(db)
		return &Store{
			Progress:   progress,
			Sessions:   progress,
			Transactor: sqlite.NewTransactor(db),
			Activity:   sqlite.NewActivityRepository(db),
			Ping:       db.PingContext,
			Migrate:    func(ctx context.Context) error { return sqlite.Migrate(ctx, db) },
			Close:      func() { _ = db.Close() },
		}, nil

	case config.DriverMemory:
		store := memory.NewStore()
		return &Store{
			Progress:   store,
			Sessions:   store,
			Transactor: store,
			Activity:   memory.NewActivityLog(),
			Ping:       func(context.Context) error { return nil },
			Migrate:    func(context.Context) error { return nil },
			Close:      func() {},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.DB.Driver)
	}
}

// NewServices builds the services on top of store.
func NewServices(cfg *config.Config, store *Store, logger *zap.Logger) *Services {
	calendar := entities.NewCalendar(cfg.Location, nil)
	stats := service.NewStatsService(store.Progress, calendar, logger)
	activity := service.NewActivityService(store.Activity, logger)

	return &Services{
		Calendar:     calendar,
		Stats:        stats,
		Progress:     service.NewProgressService(store.Transactor, stats, activity, calendar, logger),
		Achievements: service.NewAchievementService(store.Transactor, stats),
		Reports:      service.NewReportService(store.Progress),
		Activity:     activity,
		Reset:        service.NewResetService(store.Transactor, activity, logger),
		Reconcile: service.NewReconcileService(
			store.Sessions,
			store.Transactor,
			stats,
			cfg.Reconcile.Schedule,
			cfg.Reconcile.Lookback,
			logger,
		),
	}
}
