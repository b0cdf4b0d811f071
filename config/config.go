package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port            string
	DatabaseURL     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// SetDefaults registers defaults and env bindings on v. Each key reads
// the upper-cased env var of the same name, e.g. database_url from DATABASE_URL.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("shutdown_timeout", 10*time.Second)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Port:            strings.TrimSpace(v.GetString("port")),
		DatabaseURL:     strings.TrimSpace(v.GetString("database_url")),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port is required", ErrInvalidConfig)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}

	return nil
}
