package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"svw.info/changemaker/internal/solver"
	"svw.info/changemaker/internal/validator"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Limits struct {
		MaxDenominations int `yaml:"max_denominations"`
		MaxAmount        int `yaml:"max_amount"`
	} `yaml:"limits"`

	Debug struct {
		PreviewRows    int `yaml:"preview_rows"`
		TraceLines     int `yaml:"trace_lines"`
		NaiveMaxAmount int `yaml:"naive_max_amount"`
		NaiveMaxCalls  int `yaml:"naive_max_calls"`
	} `yaml:"debug"`

	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`

	Machine struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"machine"`
}

func Default() *Config {
	var c Config
	c.Server.Addr = ":8080"
	c.Log.Level = "info"
	c.Limits.MaxDenominations = validator.DefaultMaxDenominations
	c.Limits.MaxAmount = validator.DefaultMaxAmount
	d := solver.DefaultLimits()
	c.Debug.PreviewRows = d.PreviewRows
	c.Debug.TraceLines = d.TraceLines
	c.Debug.NaiveMaxAmount = d.NaiveMaxAmount
	c.Debug.NaiveMaxCalls = d.NaiveMaxCalls
	c.Cache.Size = 256
	return &c
}

// Load builds the configuration from defaults, an optional YAML file, the
// environment (.env included) and finally command-line flags.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("changemaker-web", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("CHANGEMAKER_CONFIG"), "YAML config file")
	addr := fs.String("addr", "", "listen address")
	level := fs.String("log-level", "", "debug|info|warn|error")
	stateFile := fs.String("state-file", "", "machine state file to seed from")
	cacheSize := fs.Int("cache-size", -1, "result cache entries, 0 disables")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default()
	if *configPath != "" {
		if err := cfg.readFile(*configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.overrideWithEnv(); err != nil {
		return nil, err
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *level != "" {
		cfg.Log.Level = *level
	}
	if *stateFile != "" {
		cfg.Machine.StateFile = *stateFile
	}
	if *cacheSize >= 0 {
		cfg.Cache.Size = *cacheSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) overrideWithEnv() error {
	if v := firstNonEmpty(os.Getenv("CHANGEMAKER_ADDR"), os.Getenv("PORT")); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("CHANGEMAKER_STATE_FILE")); v != "" {
		c.Machine.StateFile = v
	}
	if v := strings.TrimSpace(os.Getenv("CHANGEMAKER_CACHE_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHANGEMAKER_CACHE_SIZE: %w", err)
		}
		c.Cache.Size = n
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server address is required")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Limits.MaxDenominations <= 0 || c.Limits.MaxAmount <= 0 {
		return errors.New("limits must be positive")
	}
	if c.Cache.Size < 0 {
		return errors.New("cache size must not be negative")
	}
	return nil
}

// SolverLimits maps the debug section onto solver limits.
func (c *Config) SolverLimits() solver.Limits {
	return solver.Limits{
		PreviewRows:    c.Debug.PreviewRows,
		TraceLines:     c.Debug.TraceLines,
		NaiveMaxAmount: c.Debug.NaiveMaxAmount,
		NaiveMaxCalls:  c.Debug.NaiveMaxCalls,
	}
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
