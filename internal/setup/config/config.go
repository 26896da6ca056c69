package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrInvalidConfig         = errors.New("invalid config value")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.1.0"

// EnvPrefix prefixes environment overrides. Nested keys are separated by a
// double underscore, e.g. ASSIGNER_COMMON__POSTGRESQL__HOST.
const EnvPrefix = "ASSIGNER_"

// Current version of the config file.
const (
	CurrentCommonVersion   = 1
	CurrentAssignerVersion = 1
	CurrentWorkerVersion   = 1
)

// Rotation store backends.
const (
	RotationBackendPostgres = "postgres"
	RotationBackendSQLite   = "sqlite"
)

// Rotation cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
	CacheBackendNone   = "none"
)

// Config represents the entire application configuration.
type Config struct {
	Common   CommonConfig   `koanf:"common"`
	Assigner AssignerConfig `koanf:"assigner"`
	Worker   WorkerConfig   `koanf:"worker"`
}

// CommonConfig contains configuration shared between the CLI and workers.
type CommonConfig struct {
	// Version of the common config.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	Telemetry  Telemetry  `koanf:"telemetry"`
}

// AssignerConfig contains moderator assignment configuration.
type AssignerConfig struct {
	// Version of the assigner config.
	Version int `koanf:"version"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
	// Days a pending assignment may stay unanswered before it is reassigned.
	DefaultStaleDays int `koanf:"default_stale_days"`
	// Maximum candidates considered per request.
	SampleSize int `koanf:"sample_size"`
	// Rotation key of the public moderator pool.
	GlobalRotationKey string   `koanf:"global_rotation_key"`
	Rotation          Rotation `koanf:"rotation"`
}

// Rotation contains rotation state storage configuration.
type Rotation struct {
	// Durable store backend (postgres, sqlite).
	Backend string `koanf:"backend"`
	// SQLite database path when using the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`
	// Cache backend (redis, memory, none).
	CacheBackend string `koanf:"cache_backend"`
	// Cache entry lifetime in seconds.
	CacheTTL int `koanf:"cache_ttl"`
	// Maximum entries of the memory cache.
	CacheSize int `koanf:"cache_size"`
}

// WorkerConfig contains notification worker configuration.
type WorkerConfig struct {
	// Version of the worker config.
	Version int `koanf:"version"`
	// Startup delay in milliseconds.
	StartupDelay int `koanf:"startup_delay"`
	// Alerts taken from the queue per batch.
	BatchSize int `koanf:"batch_size"`
	// Delay between empty queue polls in milliseconds.
	PollInterval int `koanf:"poll_interval"`
	// Maximum concurrent deliveries.
	DeliveryConcurrency int `koanf:"delivery_concurrency"`
	// Maximum delivery attempts per alert.
	MaxDeliveryAttempts uint64 `koanf:"max_delivery_attempts"`
	// Address serving Prometheus metrics, empty to disable.
	MetricsAddr string `koanf:"metrics_addr"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log files to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
	// Enable pprof debugging.
	EnablePprof bool `koanf:"enable_pprof"`
	// pprof server port.
	PprofPort int `koanf:"pprof_port"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	DBName       string `koanf:"db_name"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle connection lifetime in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
	// Require TLS to the server.
	SSL bool `koanf:"ssl"`
	// Dial timeout in seconds.
	DialTimeout int `koanf:"dial_timeout"`
	// Read and write timeout in seconds.
	QueryTimeout int `koanf:"query_timeout"`
	// Queries slower than this many milliseconds are logged as warnings.
	SlowQueryThreshold int `koanf:"slow_query_threshold"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	// Disable client side caching for servers without RESP3 tracking.
	DisableClientCache bool `koanf:"disable_client_cache"`
}

// Telemetry contains tracing configuration.
type Telemetry struct {
	// Uptrace DSN, empty to disable tracing.
	UptraceDSN string `koanf:"uptrace_dsn"`
	// Deployment environment reported with traces.
	Environment string `koanf:"environment"`
}

// LoadConfig loads the configuration files from the first config path that
// contains them and applies environment overrides. It returns the config and
// the directory the files were read from.
func LoadConfig() (*Config, string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadConfigFrom([]string{
		".assigner",
		homeDir + "/.assigner/config",
		"/etc/assigner/config",
		"/app/config",
		"config",
		".",
	})
}

// LoadConfigFrom loads the configuration searching the given paths in order.
func LoadConfigFrom(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	var usedConfigPath string

	configFiles := []string{"common", "assigner", "worker"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, "", fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var config Config
	if err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("assigner", config.Assigner.Version, CurrentAssignerVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("worker", config.Worker.Version, CurrentWorkerVersion); err != nil {
		return nil, "", err
	}

	if err := config.validate(); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// validate checks values that cannot be defaulted.
func (c *Config) validate() error {
	switch c.Assigner.Rotation.Backend {
	case RotationBackendPostgres, "":
	case RotationBackendSQLite:
		if c.Assigner.Rotation.SQLitePath == "" {
			return fmt.Errorf("%w: rotation.sqlite_path is required for the sqlite backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown rotation backend %q", ErrInvalidConfig, c.Assigner.Rotation.Backend)
	}

	switch c.Assigner.Rotation.CacheBackend {
	case CacheBackendRedis, CacheBackendMemory, CacheBackendNone, "":
	default:
		return fmt.Errorf("%w: unknown rotation cache backend %q", ErrInvalidConfig, c.Assigner.Rotation.CacheBackend)
	}

	if c.Assigner.SampleSize < 0 {
		return fmt.Errorf("%w: sample_size must not be negative", ErrInvalidConfig)
	}

	return nil
}

func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/assigner/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
