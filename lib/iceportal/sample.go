// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package iceportal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Sample payload loading for offline development: a directory holding
// status.json and trip.json captured from a real journey. Files may
// carry comments and trailing commas (they tend to get annotated by
// hand), so they are run through a JSONC pass before decoding.

const (
	// SampleStatusFile and SampleTripFile are the expected file names
	// inside a sample directory.
	SampleStatusFile = "status.json"
	SampleTripFile   = "trip.json"
)

// LoadSampleStatus reads and decodes a captured status payload.
func LoadSampleStatus(path string) (*Status, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sample status: %w", err)
	}

	var status Status
	if err := json.Unmarshal(jsonc.ToJSON(data), &status); err != nil {
		return nil, fmt.Errorf("decoding sample status %s: %w", path, err)
	}
	return &status, nil
}

// LoadSampleTrip reads and decodes a captured trip payload.
func LoadSampleTrip(path string) (*Trip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sample trip: %w", err)
	}

	var envelope tripEnvelope
	if err := json.Unmarshal(jsonc.ToJSON(data), &envelope); err != nil {
		return nil, fmt.Errorf("decoding sample trip %s: %w", path, err)
	}
	if len(envelope.Trip.Stops) == 0 {
		return nil, fmt.Errorf("sample trip %s has no stops", path)
	}

	trip := envelope.Trip
	trip.Connection = envelope.Connection
	return &trip, nil
}

// LoadSampleDir loads both payloads from a sample directory.
func LoadSampleDir(dir string) (*Status, *Trip, error) {
	status, err := LoadSampleStatus(filepath.Join(dir, SampleStatusFile))
	if err != nil {
		return nil, nil, err
	}
	trip, err := LoadSampleTrip(filepath.Join(dir, SampleTripFile))
	if err != nil {
		return nil, nil, err
	}
	return status, trip, nil
}
