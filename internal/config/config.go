package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig  `yaml:"server"`
	Transport string        `yaml:"transport"`
	Storage   StorageConfig `yaml:"storage"`
	Seed      SeedConfig    `yaml:"seed"`
	Log       LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects where the board snapshot lives.
type StorageConfig struct {
	Driver    string `yaml:"driver"`
	DBPath    string `yaml:"db_path"`
	Dir       string `yaml:"dir"`
	Namespace string `yaml:"namespace"`
}

// SeedConfig controls the first-run movie list. An empty Path uses the bundled fixture.
type SeedConfig struct {
	Path  string        `yaml:"path"`
	Delay time.Duration `yaml:"delay"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportStdio,
		Storage: StorageConfig{
			Driver:    DriverSQLite,
			DBPath:    "reelboard.db",
			Dir:       "reelboard-data",
			Namespace: "root",
		},
		Seed: SeedConfig{
			Delay: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	return LoadFile(os.Getenv("REELBOARD_CONFIG_PATH"))
}

// LoadFile is Load with an explicit config file path; an empty path skips the file.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("REELBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("REELBOARD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid REELBOARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if transport := os.Getenv("REELBOARD_TRANSPORT"); transport != "" {
		cfg.Transport = strings.ToLower(transport)
	}
	if driver := os.Getenv("REELBOARD_STORAGE_DRIVER"); driver != "" {
		cfg.Storage.Driver = strings.ToLower(driver)
	}
	if dbPath := os.Getenv("REELBOARD_DB_PATH"); dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if dir := os.Getenv("REELBOARD_STORAGE_DIR"); dir != "" {
		cfg.Storage.Dir = dir
	}
	if ns := os.Getenv("REELBOARD_NAMESPACE"); ns != "" {
		cfg.Storage.Namespace = ns
	}
	if seedPath := os.Getenv("REELBOARD_SEED_PATH"); seedPath != "" {
		cfg.Seed.Path = seedPath
	}
	if delayStr := os.Getenv("REELBOARD_SEED_DELAY"); delayStr != "" {
		delay, err := time.ParseDuration(delayStr)
		if err != nil {
			return fmt.Errorf("invalid REELBOARD_SEED_DELAY: %w", err)
		}
		cfg.Seed.Delay = delay
	}
	if level := os.Getenv("REELBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("REELBOARD_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport %q (want %s or %s)", c.Transport, TransportStdio, TransportHTTP)
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path is required for the %s driver", DriverSQLite)
		}
	case DriverFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the %s driver", DriverFile)
		}
	default:
		return fmt.Errorf("invalid storage driver %q (want %s or %s)", c.Storage.Driver, DriverSQLite, DriverFile)
	}
	if c.Storage.Namespace == "" {
		return fmt.Errorf("storage.namespace is required")
	}
	if c.Seed.Delay < 0 {
		return fmt.Errorf("seed delay must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
