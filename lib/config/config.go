// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the
// dashboard. Configuration comes from a single file passed via
// --config; without one, built-in defaults target the real onboard
// portal. There is no automatic file discovery and no environment
// overrides — deterministic behavior matters more than convenience
// for a tool people run mid-journey.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bordmonitor/bordmonitor/lib/iceportal"
	"github.com/bordmonitor/bordmonitor/lib/journey"
)

// Config is the full dashboard configuration.
type Config struct {
	// BaseURL is the portal origin, e.g. "https://iceportal.de".
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds a single portal request. Must stay below
	// StatusInterval so attempts never pile up.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// StatusInterval and TripInterval are the nominal poll cadences
	// for the two feeds.
	StatusInterval time.Duration `yaml:"status_interval"`
	TripInterval   time.Duration `yaml:"trip_interval"`

	// MaxBackoff caps the retry backoff after transient failures.
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        iceportal.DefaultBaseURL,
		RequestTimeout: iceportal.DefaultTimeout,
		StatusInterval: journey.DefaultStatusInterval,
		TripInterval:   journey.DefaultTripInterval,
		MaxBackoff:     journey.DefaultMaxBackoff,
	}
}

// Load reads a YAML config file and merges it over the defaults.
// Unknown keys are rejected — a typoed interval silently falling
// back to its default would be miserable to debug on a train.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks the cross-field constraints.
func (config Config) Validate() error {
	if config.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if config.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if config.StatusInterval <= 0 || config.TripInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	if config.RequestTimeout >= config.StatusInterval {
		return fmt.Errorf("request_timeout (%v) must be shorter than status_interval (%v)",
			config.RequestTimeout, config.StatusInterval)
	}
	if config.MaxBackoff < config.StatusInterval {
		return fmt.Errorf("max_backoff (%v) must not undercut status_interval (%v)",
			config.MaxBackoff, config.StatusInterval)
	}
	return nil
}

// PollerConfig converts to the poller's view of the configuration.
func (config Config) PollerConfig() journey.PollerConfig {
	return journey.PollerConfig{
		StatusInterval: config.StatusInterval,
		TripInterval:   config.TripInterval,
		MaxBackoff:     config.MaxBackoff,
	}
}
