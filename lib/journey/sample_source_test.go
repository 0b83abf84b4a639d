// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package journey

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	status := `{"tzn": "ICE0304", "gpsStatus": "VALID", "internet": "HIGH",
		"speed": 187.0, "serverTime": 1724500000000, "trainType": "ICE"}`
	trip := `{"trip": {"vzn": "881", "trainType": "ICE", "totalDistance": 746000,
		"stopInfo": {"scheduledNext": "8000261"},
		"stops": [{"station": {"evaNr": "8000105", "name": "Frankfurt (Main) Hbf"}},
		          {"station": {"evaNr": "8000261", "name": "München Hbf"}}]}}`

	if err := os.WriteFile(filepath.Join(dir, "status.json"), []byte(status), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "trip.json"), []byte(trip), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestSampleSource(t *testing.T) {
	source, err := NewSampleSource(writeSampleDir(t), discardLogger())
	if err != nil {
		t.Fatalf("NewSampleSource: %v", err)
	}
	defer source.Close()

	// Data is available immediately, before the first tick.
	model := source.Latest()
	if model.Status == nil || model.Trip == nil {
		t.Fatal("sample source should publish on construction")
	}
	if model.StatusState.Freshness != FreshnessFresh || model.TripState.Freshness != FreshnessFresh {
		t.Errorf("both feeds should be fresh: %v / %v",
			model.StatusState.Freshness, model.TripState.Freshness)
	}
	if model.Trip.VZN != "881" {
		t.Errorf("vzn = %q, want 881", model.Trip.VZN)
	}
	if model.Status.Speed < 0 {
		t.Errorf("jittered speed must not go negative, got %v", model.Status.Speed)
	}

	select {
	case _, ok := <-source.Subscribe():
		if !ok {
			t.Fatal("update channel closed while source is running")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no replay tick arrived")
	}
}

func TestSampleSourceMissingDir(t *testing.T) {
	if _, err := NewSampleSource(filepath.Join(t.TempDir(), "nope"), discardLogger()); err == nil {
		t.Fatal("missing sample dir should fail")
	}
}
