// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package journey

import (
	"reflect"
	"testing"
	"time"

	"github.com/bordmonitor/bordmonitor/lib/iceportal"
)

var baseTime = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func statusRecord(speed float64) *iceportal.Status {
	return &iceportal.Status{
		Speed:      speed,
		TZN:        "ICE0304",
		Internet:   "HIGH",
		ServerTime: baseTime.UnixMilli(),
	}
}

func tripRecord(vzn string) *iceportal.Trip {
	return &iceportal.Trip{
		VZN:           vzn,
		TotalDistance: 746000,
		Stops: []iceportal.Stop{
			{Station: iceportal.Station{EvaNr: "8000105", Name: "Frankfurt (Main) Hbf"}},
			{Station: iceportal.Station{EvaNr: "8000261", Name: "München Hbf"}},
		},
	}
}

func success(endpoint Endpoint, speed float64) Outcome {
	if endpoint == EndpointStatus {
		return Outcome{Endpoint: endpoint, Status: statusRecord(speed)}
	}
	return Outcome{Endpoint: endpoint, Trip: tripRecord("881")}
}

func transient(endpoint Endpoint) Outcome {
	return Outcome{Endpoint: endpoint, Err: iceportal.Transient("connection reset")}
}

func permanent(endpoint Endpoint) Outcome {
	return Outcome{Endpoint: endpoint, Err: iceportal.Permanent("portal returned 404")}
}

func TestMergeSuccess(t *testing.T) {
	model := Merge(ViewModel{}, success(EndpointStatus, 120), baseTime)

	if model.Status == nil || model.Status.Speed != 120 {
		t.Fatalf("status record not stored: %+v", model.Status)
	}
	if model.StatusState.Freshness != FreshnessFresh {
		t.Errorf("freshness = %v, want fresh", model.StatusState.Freshness)
	}
	if !model.StatusState.LastUpdate.Equal(baseTime) {
		t.Errorf("LastUpdate = %v, want %v", model.StatusState.LastUpdate, baseTime)
	}
	if model.TripState.Freshness != FreshnessUnknown {
		t.Errorf("trip feed should stay unknown, got %v", model.TripState.Freshness)
	}
	if model.Trip != nil {
		t.Error("trip record should stay nil until its feed succeeds")
	}
}

// A newer success always replaces an older one per source.
func TestMergeMonotonicFreshness(t *testing.T) {
	model := Merge(ViewModel{}, success(EndpointStatus, 120), baseTime)
	model = Merge(model, success(EndpointStatus, 160), baseTime.Add(2*time.Second))

	if model.Status.Speed != 160 {
		t.Errorf("speed = %v, want the newer 160", model.Status.Speed)
	}
	if got := model.StatusState.LastUpdate; !got.Equal(baseTime.Add(2 * time.Second)) {
		t.Errorf("LastUpdate = %v, want the newer stamp", got)
	}
}

// A single transient failure never clears previously known data.
func TestMergeTransientKeepsData(t *testing.T) {
	model := Merge(ViewModel{}, success(EndpointStatus, 120), baseTime)
	before := model.Status

	model = Merge(model, transient(EndpointStatus), baseTime.Add(2*time.Second))

	if model.Status != before {
		t.Error("transient failure must not touch the record")
	}
	if model.StatusState.Freshness != FreshnessFresh {
		t.Errorf("one miss should not go stale, got %v", model.StatusState.Freshness)
	}
	if model.StatusState.Failures != 1 {
		t.Errorf("failures = %d, want 1", model.StatusState.Failures)
	}
	if model.StatusState.LastError == "" {
		t.Error("LastError should describe the failure")
	}
}

func TestMergeStaleAfterThreshold(t *testing.T) {
	model := Merge(ViewModel{}, success(EndpointStatus, 120), baseTime)

	now := baseTime
	for miss := 1; miss <= StaleThreshold-1; miss++ {
		now = now.Add(2 * time.Second)
		model = Merge(model, transient(EndpointStatus), now)
		if model.StatusState.Freshness != FreshnessFresh {
			t.Fatalf("after %d misses freshness = %v, want fresh", miss, model.StatusState.Freshness)
		}
	}

	model = Merge(model, transient(EndpointStatus), now.Add(2*time.Second))
	if model.StatusState.Freshness != FreshnessStale {
		t.Fatalf("after %d misses freshness = %v, want stale", StaleThreshold, model.StatusState.Freshness)
	}
	if model.Status == nil || model.Status.Speed != 120 {
		t.Error("stale feed must keep its last record")
	}

	// Stale is sticky across further misses, and recovers on success.
	model = Merge(model, transient(EndpointStatus), now.Add(4*time.Second))
	if model.StatusState.Freshness != FreshnessStale {
		t.Errorf("freshness = %v, want stale to persist", model.StatusState.Freshness)
	}
	model = Merge(model, success(EndpointStatus, 130), now.Add(6*time.Second))
	if model.StatusState.Freshness != FreshnessFresh {
		t.Errorf("freshness after recovery = %v, want fresh", model.StatusState.Freshness)
	}
	if model.StatusState.Failures != 0 {
		t.Errorf("failures after recovery = %d, want 0", model.StatusState.Failures)
	}
}

// A feed that never succeeded has nothing to go stale — it stays
// unknown through any number of transient failures.
func TestMergeTransientBeforeFirstSuccess(t *testing.T) {
	model := ViewModel{}
	for miss := 0; miss < StaleThreshold+2; miss++ {
		model = Merge(model, transient(EndpointTrip), baseTime.Add(time.Duration(miss)*time.Second))
	}
	if model.TripState.Freshness != FreshnessUnknown {
		t.Errorf("freshness = %v, want unknown", model.TripState.Freshness)
	}
	if model.Trip != nil {
		t.Error("no record should appear without a success")
	}
}

func TestMergePermanent(t *testing.T) {
	model := Merge(ViewModel{}, success(EndpointTrip, 0), baseTime)
	model = Merge(model, permanent(EndpointTrip), baseTime.Add(2*time.Second))

	if model.TripState.Freshness != FreshnessUnreachable {
		t.Fatalf("freshness = %v, want unreachable", model.TripState.Freshness)
	}
	if model.Trip == nil {
		t.Error("record should be retained for the degraded display")
	}

	// Transient noise does not un-stick unreachable.
	model = Merge(model, transient(EndpointTrip), baseTime.Add(4*time.Second))
	if model.TripState.Freshness != FreshnessUnreachable {
		t.Errorf("freshness = %v, unreachable should be sticky", model.TripState.Freshness)
	}

	// A later success resets the feed (sample/mock sources recover).
	model = Merge(model, success(EndpointTrip, 0), baseTime.Add(6*time.Second))
	if model.TripState.Freshness != FreshnessFresh {
		t.Errorf("freshness = %v, want fresh after success", model.TripState.Freshness)
	}
}

// The two feeds never affect each other's state.
func TestMergeFeedIndependence(t *testing.T) {
	model := Merge(ViewModel{}, success(EndpointStatus, 120), baseTime)
	model = Merge(model, success(EndpointTrip, 0), baseTime)

	model = Merge(model, permanent(EndpointTrip), baseTime.Add(time.Second))
	if model.StatusState.Freshness != FreshnessFresh {
		t.Errorf("status freshness = %v, must be untouched by trip failure", model.StatusState.Freshness)
	}

	for miss := 0; miss < StaleThreshold; miss++ {
		model = Merge(model, transient(EndpointStatus), baseTime.Add(time.Duration(2+miss)*time.Second))
	}
	if model.StatusState.Freshness != FreshnessStale {
		t.Errorf("status freshness = %v, want stale", model.StatusState.Freshness)
	}
	if model.TripState.Freshness != FreshnessUnreachable {
		t.Errorf("trip freshness = %v, must be untouched by status failures", model.TripState.Freshness)
	}
}

// Merging the same success twice yields identical models except for
// the timestamp.
func TestMergeIdempotence(t *testing.T) {
	record := statusRecord(120)
	outcome := Outcome{Endpoint: EndpointStatus, Status: record}

	first := Merge(ViewModel{}, outcome, baseTime)
	second := Merge(first, outcome, baseTime.Add(time.Second))

	normalized := second
	normalized.StatusState.LastUpdate = first.StatusState.LastUpdate
	if !reflect.DeepEqual(first, normalized) {
		t.Errorf("duplicate merge diverged beyond the timestamp:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// The scenario from the design review: status delivers three times
// while trip times out every attempt. Speed and delay stay shown,
// trip goes stale after the threshold, never blank.
func TestMergeStatusLiveTripFlaky(t *testing.T) {
	trip := tripRecord("881")
	model := Merge(ViewModel{}, Outcome{Endpoint: EndpointTrip, Trip: trip}, baseTime)

	now := baseTime
	for round := 0; round < 3; round++ {
		now = now.Add(time.Second)
		model = Merge(model, success(EndpointStatus, 120), now)
		model = Merge(model, transient(EndpointTrip), now)
	}

	if model.Status == nil || model.Status.Speed != 120 {
		t.Fatal("status data must be shown")
	}
	if model.Trip == nil {
		t.Fatal("trip data must never go blank")
	}
	if model.TripState.Freshness != FreshnessStale {
		t.Errorf("trip freshness = %v, want stale after 3 misses", model.TripState.Freshness)
	}
	if model.StatusState.Freshness != FreshnessFresh {
		t.Errorf("status freshness = %v, want fresh", model.StatusState.Freshness)
	}
}

// Merge never mutates its input model.
func TestMergeValueSemantics(t *testing.T) {
	original := Merge(ViewModel{}, success(EndpointStatus, 120), baseTime)
	snapshot := original

	_ = Merge(original, success(EndpointStatus, 200), baseTime.Add(time.Second))
	_ = Merge(original, permanent(EndpointStatus), baseTime.Add(time.Second))

	if !reflect.DeepEqual(original, snapshot) {
		t.Error("Merge mutated its input")
	}
}

func TestFreshnessLabels(t *testing.T) {
	labels := map[Freshness]string{
		FreshnessUnknown:     "unknown",
		FreshnessFresh:       "fresh",
		FreshnessStale:       "stale",
		FreshnessUnreachable: "unreachable",
	}
	for freshness, want := range labels {
		if got := freshness.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", freshness, got, want)
		}
	}
}
