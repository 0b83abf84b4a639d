// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bordmonitor.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
base_url: http://localhost:8080
request_timeout: 500ms
status_interval: 1s
`)
	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.BaseURL != "http://localhost:8080" {
		t.Errorf("base_url = %q", config.BaseURL)
	}
	if config.StatusInterval != time.Second {
		t.Errorf("status_interval = %v, want 1s", config.StatusInterval)
	}
	// Unset fields keep defaults.
	if config.TripInterval != Default().TripInterval {
		t.Errorf("trip_interval = %v, want default", config.TripInterval)
	}
}

// A file overriding a single field merges cleanly over the defaults:
// the built-in values must satisfy validation on their own, so a
// partial file never needs to restate them.
func TestLoadMinimalFile(t *testing.T) {
	path := writeConfig(t, "base_url: http://localhost:8080\n")
	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load with only base_url set: %v", err)
	}
	if config.BaseURL != "http://localhost:8080" {
		t.Errorf("base_url = %q", config.BaseURL)
	}
	if config.RequestTimeout != Default().RequestTimeout {
		t.Errorf("request_timeout = %v, want default", config.RequestTimeout)
	}
	if config.StatusInterval != Default().StatusInterval {
		t.Errorf("status_interval = %v, want default", config.StatusInterval)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "statuss_interval: 1s\n")
	if _, err := Load(path); err == nil {
		t.Fatal("typoed key should be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestValidateConstraints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "empty base url",
			mutate: func(config *Config) { config.BaseURL = "" },
			want:   "base_url",
		},
		{
			name:   "timeout exceeds interval",
			mutate: func(config *Config) { config.RequestTimeout = 10 * time.Second },
			want:   "request_timeout",
		},
		{
			name:   "zero interval",
			mutate: func(config *Config) { config.TripInterval = 0 },
			want:   "intervals",
		},
		{
			name:   "backoff below interval",
			mutate: func(config *Config) { config.MaxBackoff = time.Second },
			want:   "max_backoff",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := Default()
			test.mutate(&config)
			err := config.Validate()
			if err == nil {
				t.Fatal("want validation error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q should mention %q", err, test.want)
			}
		})
	}
}
