// Package config loads process configuration from the environment,
// with optional .env file support for development.
package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds the process-lifetime settings for a digwebs app.
type Config struct {
	DocumentRoot string `env:"DOCUMENT_ROOT" envDefault:"."`
	Host         string `env:"HTTP_HOST" envDefault:"127.0.0.1"`
	Port         int    `env:"HTTP_PORT" envDefault:"9999"`
	Debug        bool   `env:"DEBUG" envDefault:"false"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; a missing file is
// not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port the server should listen on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewLogger builds a zap logger matching the configured level: a
// development logger when Debug is set, a production logger otherwise.
func (c Config) NewLogger() (*zap.Logger, error) {
	var zcfg zap.Config
	if c.Debug {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
	}
	zcfg.Level = level
	return zcfg.Build()
}
