package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Anchor modes for the projected trajectory.
const (
	AnchorSelected = "selected"
	AnchorFixed    = "fixed"
)

const anchorLayout = "2006-01-02 15:04:05"

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		SlowThreshold   time.Duration `yaml:"slow_threshold"`
		CORS            bool          `yaml:"cors"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Model struct {
		Dir  string `yaml:"dir"`
		File string `yaml:"file"`
		// Timeout bounds remote inference calls when the artifact does not set one.
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"model"`
	Projection struct {
		Horizon    int           `yaml:"horizon"`
		Step       time.Duration `yaml:"step"`
		Anchor     string        `yaml:"anchor"`
		AnchorDate string        `yaml:"anchor_date"`
		BasePrice  float64       `yaml:"base_price"`
	} `yaml:"projection"`
	Cache struct {
		Enabled    bool          `yaml:"enabled"`
		TTL        time.Duration `yaml:"ttl"`
		MemorySize int           `yaml:"memory_size"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	RateLimit struct {
		Enabled bool    `yaml:"enabled"`
		RPS     float64 `yaml:"rps"`
		Burst   int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.Server.CORS = true
	c.applyDefaults()
	return c
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (when present), then the YAML file, and applies
// environment overrides before validating. A missing YAML file falls back to
// defaults so the service can start from environment alone.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := parse(path)
	if errors.Is(err, os.ErrNotExist) {
		c = Default()
	} else if err != nil {
		return nil, err
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := &Config{}
	c.Server.CORS = true
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("MODEL_DIR"); v != "" {
		c.Model.Dir = v
	}
	if v := os.Getenv("MODEL_FILE"); v != "" {
		c.Model.File = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, err := splitHostPort(v)
		if err != nil {
			return fmt.Errorf("REDIS_ADDR: %w", err)
		}
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = host
		c.Cache.Redis.Port = port
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Model.Dir == "" {
		c.Model.Dir = "model"
	}
	if c.Model.File == "" {
		c.Model.File = "stock_model.yaml"
	}
	if c.Model.Timeout == 0 {
		c.Model.Timeout = 3 * time.Second
	}
	if c.Projection.Horizon == 0 {
		c.Projection.Horizon = 10
	}
	if c.Projection.Step == 0 {
		c.Projection.Step = 24 * time.Hour
	}
	if c.Projection.Anchor == "" {
		c.Projection.Anchor = AnchorSelected
	}
	if c.Projection.BasePrice == 0 {
		c.Projection.BasePrice = 100
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Cache.MemorySize == 0 {
		c.Cache.MemorySize = 1000
	}
	if c.Cache.Redis.Host == "" {
		c.Cache.Redis.Host = "localhost"
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "stockpredict"
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Model.Dir == "" {
		return fmt.Errorf("model.dir is required")
	}
	if c.Model.File == "" {
		return fmt.Errorf("model.file is required")
	}
	if c.Projection.Horizon < 1 {
		return fmt.Errorf("projection.horizon must be >= 1, got %d", c.Projection.Horizon)
	}
	if c.Projection.Step <= 0 {
		return fmt.Errorf("projection.step must be positive")
	}
	if c.Projection.BasePrice <= 0 {
		return fmt.Errorf("projection.base_price must be > 0")
	}
	switch c.Projection.Anchor {
	case AnchorSelected:
	case AnchorFixed:
		if _, err := c.AnchorTime(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("projection.anchor must be '%s' or '%s', got '%s'", AnchorSelected, AnchorFixed, c.Projection.Anchor)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("rate_limit.rps and rate_limit.burst must be positive")
	}
	return nil
}

// ModelPath is the full path of the serialized model artifact.
func (c *Config) ModelPath() string {
	return filepath.Join(c.Model.Dir, c.Model.File)
}

// AnchorTime parses projection.anchor_date. Accepts RFC3339, "2006-01-02 15:04:05"
// and "2006-01-02"; times without a zone are UTC.
func (c *Config) AnchorTime() (time.Time, error) {
	s := c.Projection.AnchorDate
	if s == "" {
		return time.Time{}, fmt.Errorf("projection.anchor_date is required when anchor is '%s'", AnchorFixed)
	}
	for _, layout := range []string{time.RFC3339, anchorLayout, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("projection.anchor_date %q: unsupported format", s)
}

func splitHostPort(addr string) (string, int, error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port: %w", err)
	}
	return host, port, nil
}
