// Package config centralizes process configuration. Every tunable is a
// flag whose default is seeded from an environment variable, and an
// optional YAML file fills in whatever neither a flag nor the environment
// provided.
//
// Typical usage:
//
//	cfg, err := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg, err := config.LoadFromArgs(fs, getenv, []string{"-batch_size=50"})
package config

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"snakebite-dashboard/internal/store"
)

// Config holds all process configuration derived from flags, environment
// variables and the optional config file.
type Config struct {
	// Server
	Addr string // HTTP listen address.
	Env  string // "production" hides stack traces in error payloads.

	// DB describes the case database. DSN, when set, wins over the parts.
	DBDriver   string // "mysql", "postgres" or "sqlite3".
	DSN        string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string // Database name, or file path for sqlite3.
	DBPort     int    // 0 means the driver's default port.
	Table      string
	Procedure  string // MySQL stored procedure for monthly aggregates.
	Migrate    bool   // Create the case table once the database is reachable.

	// Import / export
	BatchSize   int    // Rows per INSERT statement.
	MaxUploadMB int    // Largest accepted upload.
	ExportDir   string // Where the CLI writes exports.

	ConfigFile string
}

// flagEnv maps each flag to the environment variable seeding it.
var flagEnv = map[string]string{
	"addr":          "ADDR",
	"env":           "APP_ENV",
	"db_driver":     "DB_DRIVER",
	"dsn":           "DB_DSN",
	"db_host":       "DB_HOST",
	"db_user":       "DB_USER",
	"db_password":   "DB_PASSWORD",
	"db_name":       "DB_NAME",
	"db_port":       "DB_PORT",
	"table":         "DB_TABLE",
	"procedure":     "DB_PROCEDURE",
	"auto_migrate":  "AUTO_MIGRATE",
	"batch_size":    "BATCH_SIZE",
	"max_upload_mb": "MAX_UPLOAD_MB",
	"export_dir":    "EXPORT_DIR",
	"config":        "SNAKEBITE_CONFIG",
}

// Bind defines every flag on fs with its environment-seeded default and
// returns the Config the flags write into. Call Finalize after parsing.
func Bind(fs *flag.FlagSet, getenv func(string) string) *Config {
	cfg := &Config{}

	envOrDefault := func(name, d string) string {
		if v := getenv(flagEnv[name]); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefault := func(name string, d int) int {
		if v := getenv(flagEnv[name]); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOrDefault := func(name string, d bool) bool {
		switch strings.ToLower(getenv(flagEnv[name])) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
		return d
	}

	fs.StringVar(&cfg.Addr, "addr", envOrDefault("addr", ":8080"), "HTTP listen address")
	fs.StringVar(&cfg.Env, "env", envOrDefault("env", "development"), "Environment name; 'production' hides stack traces")

	fs.StringVar(&cfg.DBDriver, "db_driver", envOrDefault("db_driver", "mysql"), "Database driver: 'mysql', 'postgres' or 'sqlite3'")
	fs.StringVar(&cfg.DSN, "dsn", envOrDefault("dsn", ""), "Full DSN; overrides the discrete connection settings")
	fs.StringVar(&cfg.DBHost, "db_host", envOrDefault("db_host", "localhost"), "DB host")
	fs.StringVar(&cfg.DBUser, "db_user", envOrDefault("db_user", "root"), "DB user")
	fs.StringVar(&cfg.DBPassword, "db_password", envOrDefault("db_password", ""), "DB password")
	fs.StringVar(&cfg.DBName, "db_name", envOrDefault("db_name", "myapp"), "DB name (file path for sqlite3)")
	fs.IntVar(&cfg.DBPort, "db_port", intEnvOrDefault("db_port", 0), "DB port (0 picks the driver default: 3306 mysql, 5432 postgres)")
	fs.StringVar(&cfg.Table, "table", envOrDefault("table", store.DefaultTable), "Case table name")
	fs.StringVar(&cfg.Procedure, "procedure", envOrDefault("procedure", store.DefaultProcedure), "MySQL procedure for monthly aggregates; empty uses a window query")
	fs.BoolVar(&cfg.Migrate, "auto_migrate", boolEnvOrDefault("auto_migrate", false), "Create the case table if missing")

	fs.IntVar(&cfg.BatchSize, "batch_size", intEnvOrDefault("batch_size", 100), "Rows per INSERT batch")
	fs.IntVar(&cfg.MaxUploadMB, "max_upload_mb", intEnvOrDefault("max_upload_mb", 32), "Maximum upload size in MiB")
	fs.StringVar(&cfg.ExportDir, "export_dir", envOrDefault("export_dir", "./exports"), "Directory for CLI exports")

	fs.StringVar(&cfg.ConfigFile, "config", envOrDefault("config", ""), "Optional YAML config file")
	return cfg
}

// Finalize overlays the YAML config file, if any, and validates. A file
// value only applies to flags that were neither set explicitly (as
// reported by explicit) nor seeded from the environment.
func Finalize(fs *flag.FlagSet, cfg *Config, getenv func(string) string, explicit func(name string) bool) error {
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := applyYAML(fs, data, getenv, explicit); err != nil {
			return fmt.Errorf("config file %s: %w", cfg.ConfigFile, err)
		}
	}
	return cfg.Validate()
}

func applyYAML(fs *flag.FlagSet, data []byte, getenv func(string) string, explicit func(string) bool) error {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		env, known := flagEnv[name]
		if !known || name == "config" {
			return fmt.Errorf("unknown key %q", name)
		}
		if explicit(name) || getenv(env) != "" {
			continue
		}
		v := values[name]
		if v == nil {
			v = ""
		}
		if err := fs.Set(name, fmt.Sprint(v)); err != nil {
			return fmt.Errorf("key %q: %w", name, err)
		}
	}
	return nil
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := store.DialectFor(c.DBDriver); err != nil {
		return err
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.DBPort < 0 || c.DBPort > 65535 {
		return fmt.Errorf("db_port out of range: %d", c.DBPort)
	}
	return nil
}

// LoadFromArgs binds flags on fs, parses args and applies the config file.
// Precedence, lowest first: built-in default, config file, environment,
// explicit flag.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := Bind(fs, getenv)
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := Finalize(fs, cfg, getenv, func(name string) bool { return set[name] }); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is the production entry point: process arguments and environment.
func Load() (*Config, error) {
	return LoadFromArgs(flag.NewFlagSet(os.Args[0], flag.ExitOnError), os.Getenv, os.Args[1:])
}

// IsProduction reports whether error payloads must omit stack traces.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// MaxUploadBytes is MaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// StoreConfig derives the storage settings.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Driver:      c.DBDriver,
		DSN:         c.DSN,
		Host:        c.DBHost,
		User:        c.DBUser,
		Password:    c.DBPassword,
		Name:        c.DBName,
		Port:        c.DBPort,
		Table:       c.Table,
		Procedure:   c.Procedure,
		AutoMigrate: c.Migrate,
	}
}
