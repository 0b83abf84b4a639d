// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package journey

import (
	"errors"
	"time"

	"github.com/bordmonitor/bordmonitor/lib/iceportal"
)

// Endpoint identifies one of the two portal feeds.
type Endpoint int

const (
	// EndpointStatus is the live telemetry feed (/api1/rs/status).
	EndpointStatus Endpoint = iota
	// EndpointTrip is the journey feed (/api1/rs/tripInfo/trip).
	EndpointTrip
)

// String returns the endpoint name for logging.
func (endpoint Endpoint) String() string {
	switch endpoint {
	case EndpointStatus:
		return "status"
	case EndpointTrip:
		return "trip"
	default:
		return "unknown"
	}
}

// Freshness classifies how trustworthy a feed's data currently is.
type Freshness int

const (
	// FreshnessUnknown means the feed has never produced a successful
	// fetch. Its fields render as unknown, never as zero values.
	FreshnessUnknown Freshness = iota
	// FreshnessFresh means the last fetch succeeded recently.
	FreshnessFresh
	// FreshnessStale means fetches have been failing transiently for
	// longer than the staleness threshold; the data shown is old.
	FreshnessStale
	// FreshnessUnreachable means the feed failed permanently and is
	// disabled for the session.
	FreshnessUnreachable
)

// String returns the freshness label used in the status bar.
func (freshness Freshness) String() string {
	switch freshness {
	case FreshnessFresh:
		return "fresh"
	case FreshnessStale:
		return "stale"
	case FreshnessUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// StaleThreshold is how many consecutive transient failures a feed
// tolerates before its data is labeled stale.
const StaleThreshold = 3

// FeedState tracks one feed's health alongside its record.
type FeedState struct {
	Freshness Freshness

	// LastUpdate is when the feed last produced a successful fetch.
	// Zero until the first success.
	LastUpdate time.Time

	// Failures counts consecutive transient failures since the last
	// success.
	Failures int

	// LastError describes the most recent failure, for the status
	// bar. Empty after a success.
	LastError string
}

// ViewModel is the merged, display-ready view of both feeds. It is a
// value type: Merge returns a new ViewModel and never mutates its
// input, so a ViewModel handed to the renderer is a stable snapshot.
// The record pointers stay nil until their feed succeeds once.
type ViewModel struct {
	Status *iceportal.Status
	Trip   *iceportal.Trip

	StatusState FeedState
	TripState   FeedState
}

// State returns the feed state for an endpoint.
func (model ViewModel) State(endpoint Endpoint) FeedState {
	if endpoint == EndpointStatus {
		return model.StatusState
	}
	return model.TripState
}

// Outcome is the result of one poll attempt, consumed by Merge. On
// success exactly one of Status/Trip is set (matching Endpoint) and
// Err is nil; otherwise Err is an *iceportal.TransientError or
// *iceportal.PermanentError.
type Outcome struct {
	Endpoint Endpoint
	Status   *iceportal.Status
	Trip     *iceportal.Trip
	Err      error
}

// Merge folds one poll outcome into the view model and returns the
// updated model. Pure function of its inputs: callers pass the clock
// so tests control time.
//
//   - Success replaces the record, marks the feed fresh and resets
//     its failure count. A later success always wins; merging the
//     same success twice changes only the timestamp.
//   - A transient failure never discards a known record. The failure
//     count grows and freshness downgrades to stale once it crosses
//     StaleThreshold; a feed that never succeeded stays unknown.
//   - A permanent failure marks the feed unreachable. The record is
//     retained (the renderer dims it behind a warning) and a later
//     success resets the feed to fresh — reachable in practice only
//     from sample or mock sources, since the live poller stops
//     polling a permanently failed endpoint.
func Merge(previous ViewModel, outcome Outcome, now time.Time) ViewModel {
	next := previous
	state := previous.State(outcome.Endpoint)

	switch {
	case outcome.Err == nil:
		state.Freshness = FreshnessFresh
		state.LastUpdate = now
		state.Failures = 0
		state.LastError = ""
		if outcome.Endpoint == EndpointStatus {
			next.Status = outcome.Status
		} else {
			next.Trip = outcome.Trip
		}

	case isPermanent(outcome.Err):
		state.Freshness = FreshnessUnreachable
		state.LastError = outcome.Err.Error()

	default:
		state.Failures++
		state.LastError = outcome.Err.Error()
		// Unreachable is sticky across transient noise, and a feed
		// with no data yet has nothing to go stale.
		if state.Freshness == FreshnessFresh && state.Failures >= StaleThreshold {
			state.Freshness = FreshnessStale
		}
	}

	if outcome.Endpoint == EndpointStatus {
		next.StatusState = state
	} else {
		next.TripState = state
	}
	return next
}

func isPermanent(err error) bool {
	var permanent *iceportal.PermanentError
	return errors.As(err, &permanent)
}
