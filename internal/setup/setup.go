package setup

import (
	"context"
	"fmt"
	"log"

	"github.com/robalyx/assigner/internal/assign"
	"github.com/robalyx/assigner/internal/database"
	"github.com/robalyx/assigner/internal/database/migrations"
	"github.com/robalyx/assigner/internal/redis"
	"github.com/robalyx/assigner/internal/rotation"
	"github.com/robalyx/assigner/internal/setup/config"
	"github.com/robalyx/assigner/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config     // Application configuration
	Logger       *zap.Logger        // Main application logger
	DBLogger     *zap.Logger        // Database-specific logger
	DB           database.Client    // Database connection pool
	RedisManager *redis.Manager     // Redis connection manager
	LogManager   *telemetry.Manager // Log and tracing management
	pprofServer  *HTTPServer        // Debug HTTP server for pprof
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
// Workers pass their ID so their log sessions can be told apart.
func InitializeApp(
	ctx context.Context, serviceType telemetry.ServiceType, logDir string, workerID string,
) (*App, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug, &cfg.Common.Telemetry, workerID)

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	db, err := checkAndRunMigrations(ctx, &cfg.Common.PostgreSQL, dbLogger)
	if err != nil {
		redisManager.Close()
		return nil, err
	}

	var pprofSrv *HTTPServer

	if cfg.Common.Debug.EnablePprof {
		srv, err := startPprofServer(cfg.Common.Debug.PprofPort, logger)
		if err != nil {
			logger.Error("Failed to start pprof server", zap.Error(err))
		} else {
			pprofSrv = srv

			logger.Warn("pprof debugging endpoint enabled - this should not be used in production!")
		}
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger.Named("database"),
		DB:           db,
		RedisManager: redisManager,
		LogManager:   logManager,
		pprofServer:  pprofSrv,
	}, nil
}

// NewEngine builds the assignment engine on the application's database
// services and the given rotation store and dispatcher.
func (s *App) NewEngine(store rotation.Store, dispatcher assign.Dispatcher) *assign.Engine {
	services := s.DB.Service()

	return assign.NewEngine(
		services.Target(),
		services.Candidate(),
		services.Assignment(),
		store,
		dispatcher,
		assign.Config{
			SampleSize:        s.Config.Assigner.SampleSize,
			DefaultStaleDays:  s.Config.Assigner.DefaultStaleDays,
			GlobalRotationKey: s.Config.Assigner.GlobalRotationKey,
		},
		s.Logger,
	)
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	if s.pprofServer != nil {
		if err := s.pprofServer.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to shutdown pprof server", zap.Error(err))
		}
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}

	// Flush pending traces
	if err := s.LogManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown telemetry: %v", err)
	}

	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()
}

// checkAndRunMigrations runs database migrations if needed.
func checkAndRunMigrations(ctx context.Context, cfg *config.PostgreSQL, dbLogger *zap.Logger) (database.Client, error) {
	tempDB, err := database.NewConnection(ctx, cfg, dbLogger, false)
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(tempDB.DB(), migrations.Migrations)

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		tempDB.Close()
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	unapplied := ms.Unapplied()
	if len(unapplied) == 0 {
		return tempDB, nil
	}

	log.Printf("%d database migrations are pending. Would you like to run them now? (y/N)", len(unapplied))

	var response string

	_, _ = fmt.Scanln(&response)

	if response != "y" && response != "Y" {
		tempDB.Close()
		log.Fatalf("Closing program due to incomplete migrations")
	}

	tempDB.Close()

	return database.NewConnection(ctx, cfg, dbLogger, true)
}
