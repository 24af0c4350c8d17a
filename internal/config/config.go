// Package config loads service settings from defaults, an optional YAML file, the
// environment (including a .env file) and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Port int `yaml:"port"`
}

type Database struct {
	Path string `yaml:"path"`
}

type Planning struct {
	DefaultLeadDays    int  `yaml:"default_lead_days"`
	AllowNegativeStock bool `yaml:"allow_negative_stock"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Config is the full service configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Planning Planning `yaml:"planning"`
	Log      Log      `yaml:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server:   Server{Port: 9000},
		Database: Database{Path: "pcbinv.db"},
		Planning: Planning{DefaultLeadDays: 7},
		Log:      Log{Level: "info"},
	}
}

// Load builds the configuration for a process started with args (without the program name).
// The YAML file is taken from -config or PCBINV_CONFIG.
func Load(args []string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Default()

	fs := flag.NewFlagSet("pcbinv", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("PCBINV_CONFIG"), "Path to YAML config file")
	port := fs.Int("port", 0, "HTTP port")
	dbPath := fs.String("db", "", "SQLite database path")
	leadDays := fs.Int("default-lead-days", 0, "Lead time in days for components without history")
	allowNegative := fs.Bool("allow-negative-stock", false, "Execute orders even when stock would go negative")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configPath != "" {
		if err := cfg.loadFile(*configPath); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["port"] {
		cfg.Server.Port = *port
	}
	if set["db"] {
		cfg.Database.Path = *dbPath
	}
	if set["default-lead-days"] {
		cfg.Planning.DefaultLeadDays = *leadDays
	}
	if set["allow-negative-stock"] {
		cfg.Planning.AllowNegativeStock = *allowNegative
	}
	if set["log-level"] {
		cfg.Log.Level = *logLevel
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PCBINV_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PCBINV_PORT: %w", err)
		}
		c.Server.Port = n
	}
	if v, ok := lookup("PCBINV_DB"); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup("PCBINV_DEFAULT_LEAD_DAYS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PCBINV_DEFAULT_LEAD_DAYS: %w", err)
		}
		c.Planning.DefaultLeadDays = n
	}
	if v, ok := lookup("PCBINV_ALLOW_NEGATIVE_STOCK"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PCBINV_ALLOW_NEGATIVE_STOCK: %w", err)
		}
		c.Planning.AllowNegativeStock = b
	}
	if v, ok := lookup("PCBINV_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("PCBINV_LOG_DEVELOPMENT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PCBINV_LOG_DEVELOPMENT: %w", err)
		}
		c.Log.Development = b
	}
	return nil
}

// Validate reports every setting that is out of range.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Planning.DefaultLeadDays <= 0 {
		errs = append(errs, fmt.Errorf("planning.default_lead_days must be positive, got %d", c.Planning.DefaultLeadDays))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}
