// Package config loads server settings from defaults, an optional YAML file
// and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	LogLevel       string   `yaml:"log_level"`
	Timezone       string   `yaml:"timezone"`

	MenuFile         string        `yaml:"menu_file"`
	Seed             bool          `yaml:"seed"`
	RandSeed         uint64        `yaml:"rand_seed"` // 0 seeds from the clock
	FirstOrderNumber int           `yaml:"first_order_number"`
	GenerateMinDelay time.Duration `yaml:"generate_min_delay"`
	GenerateMaxDelay time.Duration `yaml:"generate_max_delay"`
	TickInterval     time.Duration `yaml:"tick_interval"`

	JWTSecret string `yaml:"jwt_secret"`
	PINHash   string `yaml:"pin_hash"` // empty disables station auth

	AMQPURL      string `yaml:"amqp_url"` // empty disables publishing
	AMQPExchange string `yaml:"amqp_exchange"`
}

func Default() *Config {
	return &Config{
		Port:             "8081",
		AllowedOrigins:   []string{"http://localhost:5173"},
		LogLevel:         "info",
		Timezone:         "Local",
		Seed:             true,
		FirstOrderNumber: 1067,
		GenerateMinDelay: 5 * time.Second,
		GenerateMaxDelay: 10 * time.Second,
		TickInterval:     time.Minute,
		AMQPExchange:     "kds.events",
	}
}

// Load builds a Config from defaults, then path (skipped when empty), then
// environment variables. Flags are layered on top by the caller.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.LogLevel = getEnv("KDS_LOG_LEVEL", c.LogLevel)
	c.Timezone = getEnv("KDS_TIMEZONE", c.Timezone)
	c.MenuFile = getEnv("KDS_MENU_FILE", c.MenuFile)
	c.PINHash = getEnv("KDS_PIN_HASH", c.PINHash)
	c.AMQPURL = getEnv("KDS_AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("KDS_AMQP_EXCHANGE", c.AMQPExchange)

	if v := os.Getenv("KDS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}

	var errs []error
	if v := os.Getenv("KDS_SEED"); v != "" {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("KDS_SEED", err))
		c.Seed = b
	}
	if v := os.Getenv("KDS_RAND_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		errs = append(errs, envErr("KDS_RAND_SEED", err))
		c.RandSeed = n
	}
	if v := os.Getenv("KDS_FIRST_ORDER_NUMBER"); v != "" {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("KDS_FIRST_ORDER_NUMBER", err))
		c.FirstOrderNumber = n
	}
	for key, dst := range map[string]*time.Duration{
		"KDS_GENERATE_MIN_DELAY": &c.GenerateMinDelay,
		"KDS_GENERATE_MAX_DELAY": &c.GenerateMaxDelay,
		"KDS_TICK_INTERVAL":      &c.TickInterval,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			errs = append(errs, envErr(key, err))
			if err == nil {
				*dst = d
			}
		}
	}
	return errors.Join(errs...)
}

// Validate checks settings that would otherwise fail at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.GenerateMinDelay <= 0 || c.GenerateMaxDelay <= 0 {
		errs = append(errs, errors.New("generation delays must be > 0"))
	}
	if c.GenerateMinDelay > c.GenerateMaxDelay {
		errs = append(errs, fmt.Errorf("generate_min_delay %s exceeds generate_max_delay %s", c.GenerateMinDelay, c.GenerateMaxDelay))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick_interval must be > 0"))
	}
	if c.FirstOrderNumber <= 0 {
		errs = append(errs, errors.New("first_order_number must be > 0"))
	}
	if c.PINHash != "" && c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required when pin_hash is set"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// AuthEnabled reports whether mutations require a station token.
func (c *Config) AuthEnabled() bool { return c.PINHash != "" }

// Location resolves Timezone for history exports.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envErr(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", key, err)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
