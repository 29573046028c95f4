// Package config loads service configuration with layered precedence:
// defaults, then an optional YAML file, then KAMERARCHIEF_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked for in the working directory when no explicit path
// is given.
const DefaultFile = "kamerarchief.yaml"

// ArchiveConfig configures dataset snapshots to S3-compatible storage.
// Archiving stays disabled unless bucket and credentials are set.
type ArchiveConfig struct {
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Hour          int    `yaml:"hour"`
	RetentionDays int    `yaml:"retention_days"`
}

// Config holds the full service configuration.
type Config struct {
	Addr      string        `yaml:"addr"`
	DataDir   string        `yaml:"data_dir"`
	DBPath    string        `yaml:"db_path"`
	LogLevel  string        `yaml:"log_level"`
	Watch     bool          `yaml:"watch"`
	RateLimit int           `yaml:"rate_limit_per_minute"`
	Archive   ArchiveConfig `yaml:"archive"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:      ":8080",
		DataDir:   "data",
		DBPath:    "kamerarchief.db",
		LogLevel:  "info",
		Watch:     true,
		RateLimit: 10,
		Archive: ArchiveConfig{
			Region:        "auto",
			Prefix:        "snapshots",
			Hour:          3,
			RetentionDays: 90,
		},
	}
}

// Load builds the configuration. path may be empty, in which case the
// default file is used when present and silently skipped otherwise; an
// explicit path that cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults plus env apply.
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.DataDir == "" {
		return Config{}, fmt.Errorf("data_dir must not be empty")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "KAMERARCHIEF_ADDR")
	setString(&c.DataDir, "KAMERARCHIEF_DATA_DIR")
	setString(&c.DBPath, "KAMERARCHIEF_DB_PATH")
	setString(&c.LogLevel, "KAMERARCHIEF_LOG_LEVEL")
	setBool(&c.Watch, "KAMERARCHIEF_WATCH")
	setInt(&c.RateLimit, "KAMERARCHIEF_RATE_LIMIT")

	setString(&c.Archive.Endpoint, "KAMERARCHIEF_S3_ENDPOINT")
	setString(&c.Archive.Region, "KAMERARCHIEF_S3_REGION")
	setString(&c.Archive.Bucket, "KAMERARCHIEF_S3_BUCKET")
	setString(&c.Archive.Prefix, "KAMERARCHIEF_S3_PREFIX")
	setString(&c.Archive.AccessKey, "KAMERARCHIEF_S3_ACCESS_KEY")
	setString(&c.Archive.SecretKey, "KAMERARCHIEF_S3_SECRET_KEY")
	setInt(&c.Archive.Hour, "KAMERARCHIEF_ARCHIVE_HOUR")
	setInt(&c.Archive.RetentionDays, "KAMERARCHIEF_ARCHIVE_RETENTION_DAYS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
