// Package config loads the dashboard settings from configs/config.yml with
// COR_-prefixed environment overrides (COR_SERVER_PORT, COR_DB_PATH, ...).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Event store drivers.
const (
	StoreSQLite   = "sqlite"
	StoreDynamoDB = "dynamodb"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Events    EventsConfig    `mapstructure:"events"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
}

type ServerConfig struct {
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// EventsConfig selects where raw module events live. Systems and reference
// data always stay in SQLite.
type EventsConfig struct {
	Store     string `mapstructure:"store"`
	Table     string `mapstructure:"dynamodb_table"`
	AWSRegion string `mapstructure:"aws_region"`
}

type SimulatorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Tick    time.Duration `mapstructure:"tick"`
	// Seed inserts the demo fleet and reference data into an empty store.
	Seed bool `mapstructure:"seed"`
	// RandomSeed fixes the generated telemetry; zero seeds from the clock.
	RandomSeed int64 `mapstructure:"random_seed"`
}

var (
	errEmptyPort       = errors.New("server.port must not be empty")
	errUnknownStore    = errors.New("events.store must be sqlite or dynamodb")
	errMissingTable    = errors.New("events.dynamodb_table is required for the dynamodb store")
	errInvalidSimTick  = errors.New("simulator.tick must be positive when the simulator is enabled")
	errInvalidShutdown = errors.New("server.shutdown_timeout must be positive")
)

// Load reads config.yml from the given directories (first match wins). A
// missing file is not an error: defaults and environment still apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("COR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "cor.db")
	v.SetDefault("events.store", StoreSQLite)
	v.SetDefault("events.dynamodb_table", "")
	v.SetDefault("events.aws_region", "us-east-1")
	v.SetDefault("simulator.enabled", false)
	v.SetDefault("simulator.tick", 10*time.Minute)
	v.SetDefault("simulator.seed", true)
	v.SetDefault("simulator.random_seed", 0)
}

func (c *Config) validate() error {
	c.Server.Port = strings.TrimSpace(c.Server.Port)
	if c.Server.Port == "" {
		return errEmptyPort
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errInvalidShutdown
	}

	c.Events.Store = strings.ToLower(strings.TrimSpace(c.Events.Store))
	switch c.Events.Store {
	case StoreSQLite:
	case StoreDynamoDB:
		if c.Events.Table == "" {
			return errMissingTable
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownStore, c.Events.Store)
	}

	if c.Simulator.Enabled && c.Simulator.Tick <= 0 {
		return errInvalidSimTick
	}
	return nil
}
