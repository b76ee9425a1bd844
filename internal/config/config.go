// Package config loads relgraph's YAML configuration file.
//
// Usage:
//
//	cfg, err := config.Load("relgraph.yaml")
//	if err != nil { ... }
//	cfg.ApplyEnv()
//	if err := cfg.Validate(); err != nil { ... }
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/koustreak/relgraph/internal/database"
	"github.com/koustreak/relgraph/internal/errs"
	"github.com/koustreak/relgraph/internal/filestore"
	"github.com/koustreak/relgraph/internal/logger"
	"go.yaml.in/yaml/v3"
)

// Environment variables that override file settings.
const (
	EnvDSN      = "RELGRAPH_DSN"
	EnvDriver   = "RELGRAPH_DRIVER"
	EnvLogLevel = "RELGRAPH_LOG_LEVEL"
)

// Config is the root of the configuration file.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
	Filestore FilestoreConfig `yaml:"filestore"`
}

// DatabaseConfig selects the backend and tunes its pool.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // postgres, pq or mysql
	DSN             string        `yaml:"dsn"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`

	// Snapshot runs both catalog scans in one read-only transaction.
	Snapshot bool `yaml:"snapshot"`
}

// LogConfig mirrors logger.Config minus the output stream.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // json or console; empty picks by terminal
	TimeFormat string `yaml:"time_format"`
}

// ServerConfig configures `relgraph serve`.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// FilestoreConfig configures where `relgraph export` publishes snapshots.
type FilestoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	db := database.DefaultConfig("")
	return &Config{
		Database: DatabaseConfig{
			Driver:          string(db.Driver),
			MaxConns:        db.MaxConns,
			MinConns:        db.MinConns,
			MaxConnLifetime: db.MaxConnLifetime,
			MaxConnIdleTime: db.MaxConnIdleTime,
			ConnectTimeout:  db.ConnectTimeout,
			QueryTimeout:    db.QueryTimeout,
		},
		Log: LogConfig{
			Level:      "info",
			TimeFormat: "rfc3339",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Filestore: FilestoreConfig{
			Prefix: "schemas",
		},
	}
}

// Load reads path on top of Default. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindNotFound, fmt.Sprintf("reading config %s", path), err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "parsing config", err)
	}
	return cfg, nil
}

// ApplyEnv overrides file settings with RELGRAPH_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDSN); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(EnvDriver); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch database.Driver(strings.ToLower(c.Database.Driver)) {
	case database.DriverPostgres, database.DriverPQ, database.DriverMySQL:
	default:
		return errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		return errs.New(errs.ErrKindInvalidInput, "database dsn is required")
	}
	if c.Database.MinConns > c.Database.MaxConns && c.Database.MaxConns > 0 {
		return errs.New(errs.ErrKindInvalidInput, "database min_conns exceeds max_conns")
	}
	return nil
}

// ValidateFilestore checks the settings `export` needs.
func (c *Config) ValidateFilestore() error {
	if c.Filestore.Endpoint == "" || c.Filestore.Bucket == "" {
		return errs.New(errs.ErrKindInvalidInput, "filestore endpoint and bucket are required")
	}
	return nil
}

// DatabaseConfig converts the section into a database.Config.
func (c *Config) DatabaseConfig() *database.Config {
	d := c.Database
	return &database.Config{
		Driver:          database.Driver(strings.ToLower(d.Driver)),
		DSN:             d.DSN,
		MaxConns:        d.MaxConns,
		MinConns:        d.MinConns,
		MaxConnLifetime: d.MaxConnLifetime,
		MaxConnIdleTime: d.MaxConnIdleTime,
		ConnectTimeout:  d.ConnectTimeout,
		QueryTimeout:    d.QueryTimeout,
	}
}

// LoggerConfig converts the section into a logger.Config. format is used
// when the file leaves it empty.
func (c *Config) LoggerConfig(format string) *logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.Log.Level
	lc.TimeFormat = c.Log.TimeFormat
	lc.Format = c.Log.Format
	if lc.Format == "" {
		lc.Format = format
	}
	return lc
}

// FilestoreConfig converts the section into a filestore.Config.
func (c *Config) FilestoreConfig() *filestore.Config {
	f := c.Filestore
	fc := filestore.DefaultConfig(f.Endpoint, f.AccessKey, f.SecretKey)
	fc.UseSSL = f.UseSSL
	fc.Region = f.Region
	fc.DefaultBucket = f.Bucket
	return fc
}
