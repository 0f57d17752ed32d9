// config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port               string        `yaml:"port"`
	ShutdownTimeoutStr string        `yaml:"shutdown_timeout"`
	ShutdownTimeout    time.Duration `yaml:"-"` // Parsed duration
}

type DatabaseConfig struct {
	Driver             string        `yaml:"driver"` // "mysql" or "memory"
	Host               string        `yaml:"host"`
	Port               string        `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	DBName             string        `yaml:"dbname"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	ConnMaxLifetimeStr string        `yaml:"conn_max_lifetime"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	AutoMigrate        bool          `yaml:"auto_migrate"`
}

type AviationConfig struct {
	BaseURL    string        `yaml:"base_url"`
	AccessKey  string        `yaml:"access_key"`
	TimeoutStr string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
}

type TrackingConfig struct {
	MaxTracked      int           `yaml:"max_tracked"`
	PollIntervalStr string        `yaml:"poll_interval"` // "0" disables polling
	PollInterval    time.Duration `yaml:"-"`
}

// CacheConfig enables the Redis lookup cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTLStr        string        `yaml:"ttl"`
	TTL           time.Duration `yaml:"-"`
}

type AirportsConfig struct {
	ExtraCSV string `yaml:"extra_csv"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Aviation AviationConfig `yaml:"aviation"`
	Tracking TrackingConfig `yaml:"tracking"`
	Cache    CacheConfig    `yaml:"cache"`
	Airports AirportsConfig `yaml:"airports"`
}

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"

	DefaultMaxTracked = 3
)

var searchPaths = []string{
	"config.yaml",
	"config/config.yaml",
}

// LoadConfig reads configPath (or the first file found in the usual
// locations when it is empty), then applies .env and environment overrides.
// Without any config file the defaults plus environment are used.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if configPath == "" {
		for _, p := range searchPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	cfg := defaults()
	if configPath != "" {
		log.Printf("Config: Loading configuration from %s", configPath)
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	} else {
		log.Println("Config: No config file found, using defaults and environment.")
	}

	applyEnv(cfg)

	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               "5000",
			ShutdownTimeoutStr: "10s",
		},
		Database: DatabaseConfig{
			Driver:             DriverMySQL,
			Host:               "localhost",
			Port:               "3306",
			User:               "flighttracker",
			DBName:             "flighttracker",
			MaxOpenConns:       10,
			ConnMaxLifetimeStr: "5m",
			AutoMigrate:        true,
		},
		Aviation: AviationConfig{
			BaseURL:    "http://api.aviationstack.com/v1",
			TimeoutStr: "10s",
		},
		Tracking: TrackingConfig{
			MaxTracked:      DefaultMaxTracked,
			PollIntervalStr: "0",
		},
		Cache: CacheConfig{
			TTLStr: "2m",
		},
	}
}

func applyEnv(cfg *Config) {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	override(&cfg.Aviation.AccessKey, "AVIATION_API_KEY")
	override(&cfg.Database.Password, "DB_PASSWORD")
	override(&cfg.Database.Driver, "DB_DRIVER")
	override(&cfg.Cache.RedisAddr, "REDIS_ADDR")
	override(&cfg.Server.Port, "FLIGHTTRACKER_PORT")
}

func (c *Config) parseDurations() error {
	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.shutdown_timeout", c.Server.ShutdownTimeoutStr, &c.Server.ShutdownTimeout},
		{"database.conn_max_lifetime", c.Database.ConnMaxLifetimeStr, &c.Database.ConnMaxLifetime},
		{"aviation.timeout", c.Aviation.TimeoutStr, &c.Aviation.Timeout},
		{"tracking.poll_interval", c.Tracking.PollIntervalStr, &c.Tracking.PollInterval},
		{"cache.ttl", c.Cache.TTLStr, &c.Cache.TTL},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", d.name, err)
		}
		if parsed < 0 {
			return fmt.Errorf("%s must not be negative", d.name)
		}
		*d.dst = parsed
	}
	return nil
}

// Validate reports the first setting the application cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Aviation.AccessKey) == "" {
		return errors.New("aviation access key is required (aviation.access_key or AVIATION_API_KEY)")
	}
	if c.Tracking.MaxTracked < 1 {
		return fmt.Errorf("tracking.max_tracked must be at least 1, got %d", c.Tracking.MaxTracked)
	}
	switch c.Database.Driver {
	case DriverMemory:
	case DriverMySQL:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("database.host and database.dbname are required for the mysql driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	return nil
}
