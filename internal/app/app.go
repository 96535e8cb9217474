// Package app assembles repositories and services from configuration. Both the
// HTTP server and the placementctl CLI build on it.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/repository"
	"github.com/noah-isme/placement-cell-api/internal/service"
	"github.com/noah-isme/placement-cell-api/pkg/cache"
	"github.com/noah-isme/placement-cell-api/pkg/config"
	"github.com/noah-isme/placement-cell-api/pkg/database"
	"github.com/noah-isme/placement-cell-api/pkg/storage"
)

// App holds the wired services.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *service.MetricsService
	Cache      *service.CacheService
	Roster     *service.RosterService
	Ledger     *service.LedgerService
	Dashboard  *service.DashboardService
	Companies  *service.CompanyService
	Statistics *service.StatisticsService
	Exports    *service.ExportService
	Auth       *service.AuthService

	db    *sqlx.DB
	redis *redis.Client
}

// New builds every service. Postgres and Redis are only dialled when
// configured; a Redis failure disables the statistics cache instead of
// aborting startup.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: service.NewMetricsService()}
	validate := validator.New()

	var cacheRepo service.CacheRepository
	if cfg.Stats.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		switch {
		case err != nil:
			logger.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
		case client == nil:
			logger.Info("no redis host configured, statistics cache disabled")
		default:
			a.redis = client
			cacheRepo = repository.NewCacheRepository(client, logger)
		}
	}
	a.Cache = service.NewCacheService(cacheRepo, a.Metrics, cfg.Stats.CacheTTL, logger, cacheRepo != nil)

	ledgerStore, err := a.ledgerStore(ctx)
	if err != nil {
		return nil, err
	}

	rosterRepo := repository.NewRosterRepository(cfg.Data.RosterFile, a.Metrics)
	a.Roster = service.NewRosterService(rosterRepo, nil, logger)
	a.Ledger = service.NewLedgerService(ledgerStore, a.Roster, a.Cache, a.Metrics, validate, logger)
	a.Dashboard = service.NewDashboardService(a.Roster, ledgerStore, a.Cache, logger)
	a.Companies = service.NewCompanyService(a.Roster, ledgerStore, a.Cache)

	params := service.StatisticsServiceParams{
		Roster:   a.Roster,
		Ledger:   ledgerStore,
		Matrices: repository.NewMatrixRepository(cfg.Data.AnalysisDir, a.Metrics, logger),
		Cache:    a.Cache,
		Logger:   logger,
	}
	if cfg.Data.AnalysisFile != "" {
		params.Sheet = repository.NewAnalysisSheetRepository(cfg.Data.AnalysisFile, a.Metrics)
	}
	a.Statistics = service.NewStatisticsService(params)

	exportParams := service.ExportServiceParams{
		Companies: a.Companies,
		Students:  a.Dashboard,
		Stats:     a.Statistics,
		Validator: validate,
		Logger:    logger,
		Config: service.ExportConfig{
			Enabled:   cfg.Exports.Enabled,
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		},
	}
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init export storage: %w", err)
		}
		exportParams.Storage = files
		exportParams.Signer = storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	}
	a.Exports = service.NewExportService(exportParams)

	users := repository.DefaultUsers()
	if cfg.Auth.UsersFile != "" {
		if users, err = repository.LoadUsersFile(cfg.Auth.UsersFile); err != nil {
			a.Close()
			return nil, fmt.Errorf("load users file: %w", err)
		}
	}
	userRepo, err := repository.NewUserRepository(users)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Auth = service.NewAuthService(userRepo, validate, logger, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
	})

	return a, nil
}

func (a *App) ledgerStore(ctx context.Context) (service.LedgerStore, error) {
	switch a.Config.Data.LedgerBackend {
	case "", config.LedgerBackendCSV:
		return repository.NewLedgerRepository(a.Config.Data.LedgerFile, a.Metrics, a.Logger), nil
	case config.LedgerBackendPostgres:
		db, err := database.NewPostgres(a.Config.Database)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.db = db
		if err := database.EnsureLedgerSchema(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
		return repository.NewLedgerSQLRepository(db, a.Metrics), nil
	default:
		a.Close()
		return nil, fmt.Errorf("unknown ledger backend %q", a.Config.Data.LedgerBackend)
	}
}

// Close releases database and cache connections.
func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
		a.redis = nil
	}
	return errors.Join(errs...)
}
