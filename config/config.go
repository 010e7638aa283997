package config

import (
	"time"

	"github.com/ONSdigital/go-ns/log"
	"github.com/kbeame/ihme-ui/zoom"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the service configuration, populated from the environment.
type Config struct {
	BindAddr           string        `envconfig:"BIND_ADDR"`
	CORSAllowedOrigins string        `envconfig:"CORS_ALLOWED_ORIGINS"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT"`
	DefaultWidth       float64       `envconfig:"DEFAULT_WIDTH"`
	ZoomStep           float64       `envconfig:"ZOOM_STEP"`
}

var cfg *Config

// Get returns the configuration, reading the environment on first use.
func Get() (*Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	cfg = &Config{
		BindAddr:           ":24300",
		CORSAllowedOrigins: "*",
		ShutdownTimeout:    5 * time.Second,
		DefaultWidth:       400,
		ZoomStep:           zoom.DefaultStep,
	}

	return cfg, envconfig.Process("", cfg)
}

// Log records the resolved configuration at startup.
func (c *Config) Log() {
	log.Info("service configuration", log.Data{"config": c})
}
