// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config loads application configuration. Values come from, in
// increasing precedence: built-in defaults, an optional YAML file, the
// environment, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host          string `koanf:"host" validate:"required"`
	Port          string `koanf:"port" validate:"required,numeric"`
	Env           string `koanf:"env" validate:"oneof=development production testing"`
	LogLevel      string `koanf:"log_level" validate:"oneof=debug info warn error"`
	SecureCookies bool   `koanf:"secure_cookies"`

	// Document store backend: "postgres", "mongo" or "memory"
	DocstoreBackend string `koanf:"docstore_backend" validate:"oneof=postgres mongo memory"`

	// PostgreSQL connection
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBSSLMode  string `koanf:"db_sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`

	// MongoDB connection
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	// Valkey (Redis-compatible) for sessions, activity log and tree cache
	ValkeyHost     string `koanf:"valkey_host" validate:"required"`
	ValkeyPort     string `koanf:"valkey_port" validate:"required,numeric"`
	ValkeyPassword string `koanf:"valkey_password"`
	ValkeyDB       int    `koanf:"valkey_db" validate:"min=0,max=15"`

	// S3-compatible upload archive; archiving is off unless all are set
	S3Endpoint  string `koanf:"s3_endpoint" validate:"omitempty,url"`
	S3Region    string `koanf:"s3_region"`
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key"`
	S3Bucket    string `koanf:"s3_bucket"`

	// Workspace behaviour
	MemoSaveDelay      time.Duration `koanf:"memo_save_delay" validate:"gt=0"`
	MaxUploadMB        int           `koanf:"import_max_upload_mb" validate:"min=1,max=100"`
	ActivityMaxEntries int           `koanf:"activity_max_entries" validate:"min=1"`

	// Import uploads allowed per client per minute; 0 disables the limit
	ImportRateLimit int `koanf:"import_rate_limit" validate:"min=0"`
}

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	"APP_HOST":             "host",
	"APP_PORT":             "port",
	"APP_ENV":              "env",
	"APP_LOG_LEVEL":        "log_level",
	"APP_SECURE_COOKIES":   "secure_cookies",
	"DOCSTORE_BACKEND":     "docstore_backend",
	"POSTGRES_HOST":        "db_host",
	"POSTGRES_PORT":        "db_port",
	"POSTGRES_USER":        "db_user",
	"POSTGRES_PASSWORD":    "db_password",
	"POSTGRES_DB":          "db_name",
	"POSTGRES_SSLMODE":     "db_sslmode",
	"MONGO_URI":            "mongo_uri",
	"MONGO_DATABASE":       "mongo_database",
	"VALKEY_HOST":          "valkey_host",
	"VALKEY_PORT":          "valkey_port",
	"VALKEY_PASSWORD":      "valkey_password",
	"VALKEY_DB":            "valkey_db",
	"S3_ENDPOINT":          "s3_endpoint",
	"S3_REGION":            "s3_region",
	"S3_ACCESS_KEY":        "s3_access_key",
	"S3_SECRET_KEY":        "s3_secret_key",
	"S3_BUCKET":            "s3_bucket",
	"MEMO_SAVE_DELAY":      "memo_save_delay",
	"IMPORT_MAX_UPLOAD_MB": "import_max_upload_mb",
	"ACTIVITY_MAX_ENTRIES": "activity_max_entries",
	"IMPORT_RATE_LIMIT":    "import_rate_limit",
}

// Defaults returns the development defaults.
func Defaults() Config {
	return Config{
		Host:     "0.0.0.0",
		Port:     "8080",
		Env:      "development",
		LogLevel: "info",

		DocstoreBackend: "postgres",

		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "quizdeck",
		DBPassword: "changeme",
		DBName:     "quizdeck",
		DBSSLMode:  "disable",

		MongoURI:      "mongodb://localhost:27017/?replicaSet=rs0",
		MongoDatabase: "quizdeck",

		ValkeyHost: "localhost",
		ValkeyPort: "6379",

		S3Region: "us-east-1",

		MemoSaveDelay:      1500 * time.Millisecond,
		MaxUploadMB:        10,
		ActivityMaxEntries: 500,
		ImportRateLimit:    30,
	}
}

// RegisterFlags adds the flags that override configuration to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file (or CONFIG_FILE)")
	fs.String("host", "", "listen host")
	fs.String("port", "", "listen port")
	fs.String("env", "", "environment: development, production or testing")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.String("docstore-backend", "", "document store: postgres, mongo or memory")
	fs.Duration("memo-save-delay", 0, "delay before a memo edit is saved")
}

// Load builds the configuration. fs may be nil; only flags the user
// actually set override other sources.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path := os.Getenv("CONFIG_FILE")
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed {
			path = f.Value.String()
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		name, ok := envKeys[key]
		if !ok || value == "" {
			return "", nil
		}
		return name, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load config env: %w", err)
	}

	if fs != nil {
		flagProvider := posflag.ProviderWithFlag(fs, ".", nil, func(f *pflag.Flag) (string, interface{}) {
			if f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
		})
		if err := k.Load(flagProvider, nil); err != nil {
			return nil, fmt.Errorf("load config flags: %w", err)
		}
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Env == "production" && c.DocstoreBackend == "postgres" && c.DBPassword == "changeme" {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	if c.Env == "production" && c.DocstoreBackend == "memory" {
		return fmt.Errorf("the memory document store is not allowed in production")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ArchiveEnabled reports whether uploads are archived to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != "" && c.S3Bucket != ""
}

// MaxUploadBytes is the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
