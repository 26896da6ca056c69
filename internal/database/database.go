package database

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/assigner/internal/database/dbretry"
	"github.com/robalyx/assigner/internal/database/migrations"
	"github.com/robalyx/assigner/internal/setup/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bunjson"
	"github.com/uptrace/bun/extra/bunotel"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// Fallbacks for unset connection settings.
const (
	defaultMaxOpenConns       = 10
	defaultDialTimeout        = 5 * time.Second
	defaultQueryTimeout       = 10 * time.Second
	defaultSlowQueryThreshold = 500 * time.Millisecond
)

// sonicProvider plugs sonic into bun's JSON columns.
type sonicProvider struct{}

func (sonicProvider) Marshal(v any) ([]byte, error)      { return sonic.Marshal(v) }
func (sonicProvider) Unmarshal(data []byte, v any) error { return sonic.Unmarshal(data, v) }

func (sonicProvider) NewEncoder(w io.Writer) bunjson.Encoder {
	return sonic.ConfigDefault.NewEncoder(w)
}

func (sonicProvider) NewDecoder(r io.Reader) bunjson.Decoder {
	return sonic.ConfigDefault.NewDecoder(r)
}

// Client gives access to the assigner's tables.
type Client interface {
	// Model returns the table-level operations.
	Model() *Repository
	// Service returns the operations consumed by the assignment engine.
	Service() *Service
	Close() error
	DB() *bun.DB
}

type clientImpl struct {
	db      *bun.DB
	logger  *zap.Logger
	repo    *Repository
	service *Service
}

// PoolSettings are the connection pool limits applied to the driver.
type PoolSettings struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// poolSettings resolves the pool limits from configuration. Every request
// holds at most one connection at a time, so idle connections never need
// to exceed the open limit.
func poolSettings(cfg *config.PostgreSQL) PoolSettings {
	settings := PoolSettings{
		MaxOpen:     cfg.MaxOpenConns,
		MaxIdle:     cfg.MaxIdleConns,
		MaxLifetime: time.Duration(cfg.MaxLifetime) * time.Minute,
		MaxIdleTime: time.Duration(cfg.MaxIdleTime) * time.Minute,
	}

	if settings.MaxOpen <= 0 {
		settings.MaxOpen = defaultMaxOpenConns
	}

	if settings.MaxIdle <= 0 || settings.MaxIdle > settings.MaxOpen {
		settings.MaxIdle = settings.MaxOpen
	}

	return settings
}

// connectorOptions builds the pgdriver options for cfg.
func connectorOptions(cfg *config.PostgreSQL) []pgdriver.Option {
	dialTimeout := secondsOr(cfg.DialTimeout, defaultDialTimeout)
	queryTimeout := secondsOr(cfg.QueryTimeout, defaultQueryTimeout)

	opts := []pgdriver.Option{
		pgdriver.WithAddr(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.DBName),
		pgdriver.WithApplicationName("assigner"),
		pgdriver.WithDialTimeout(dialTimeout),
		pgdriver.WithReadTimeout(queryTimeout),
		pgdriver.WithWriteTimeout(queryTimeout),
	}

	if cfg.SSL {
		opts = append(opts, pgdriver.WithTLSConfig(&tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		}))
	} else {
		opts = append(opts, pgdriver.WithInsecure(true))
	}

	return opts
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// NewConnection opens the assigner database, waits until it answers and
// optionally applies pending migrations.
func NewConnection(
	ctx context.Context, cfg *config.PostgreSQL, logger *zap.Logger, autoMigrate bool,
) (Client, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(connectorOptions(cfg)...))

	pool := poolSettings(cfg)
	sqldb.SetMaxOpenConns(pool.MaxOpen)
	sqldb.SetMaxIdleConns(pool.MaxIdle)
	sqldb.SetConnMaxLifetime(pool.MaxLifetime)
	sqldb.SetConnMaxIdleTime(pool.MaxIdleTime)

	bunjson.SetProvider(sonicProvider{})

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(NewHook(logger, time.Duration(cfg.SlowQueryThreshold)*time.Millisecond))
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(cfg.DBName)))

	if err := dbretry.NoResult(ctx, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database %s on %s:%d: %w", cfg.DBName, cfg.Host, cfg.Port, err)
	}

	if autoMigrate {
		if err := migrateUp(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	repo := NewRepository(db, logger)

	logger.Info("Database connection established",
		zap.String("database", cfg.DBName),
		zap.Int("maxOpenConns", pool.MaxOpen),
		zap.Int("maxIdleConns", pool.MaxIdle),
		zap.Bool("ssl", cfg.SSL))

	return &clientImpl{
		db:      db,
		logger:  logger,
		repo:    repo,
		service: NewService(repo, logger),
	}, nil
}

// migrateUp applies every pending migration and logs what ran.
func migrateUp(ctx context.Context, db *bun.DB, logger *zap.Logger) error {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if group.IsZero() {
		return nil
	}

	names := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		names = append(names, m.Name)
	}

	logger.Info("Applied migrations",
		zap.String("group", group.String()),
		zap.Strings("migrations", names))

	return nil
}

// Close shuts down the connection pool.
func (c *clientImpl) Close() error {
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close database connection", zap.Error(err))
		return err
	}

	c.logger.Info("Database connection closed")

	return nil
}

func (c *clientImpl) Model() *Repository { return c.repo }
func (c *clientImpl) Service() *Service  { return c.service }
func (c *clientImpl) DB() *bun.DB        { return c.db }
