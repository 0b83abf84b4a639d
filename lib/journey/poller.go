// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package journey

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bordmonitor/bordmonitor/lib/iceportal"
)

// Fetcher is the slice of the portal client the poller needs.
// Satisfied by *iceportal.Client; tests substitute scripted fakes.
type Fetcher interface {
	FetchStatus(ctx context.Context) (*iceportal.Status, error)
	FetchTrip(ctx context.Context) (*iceportal.Trip, error)
}

// PollerConfig sets the polling cadence. Zero fields take defaults.
type PollerConfig struct {
	// StatusInterval is the nominal delay between status polls. The
	// telemetry changes constantly, so this runs tight.
	StatusInterval time.Duration

	// TripInterval is the nominal delay between trip polls. The stop
	// sequence changes rarely; polling it gently keeps load off the
	// onboard backend.
	TripInterval time.Duration

	// MaxBackoff caps the exponential backoff after transient
	// failures. One success resets the delay to the nominal interval.
	MaxBackoff time.Duration
}

// Default cadence. The request timeout (iceportal.DefaultTimeout)
// must stay below the shortest interval so attempts never overlap;
// lib/config validates that relation for loaded configurations.
const (
	DefaultStatusInterval = 5 * time.Second
	DefaultTripInterval   = 15 * time.Second
	DefaultMaxBackoff     = 60 * time.Second
)

func (config PollerConfig) withDefaults() PollerConfig {
	if config.StatusInterval <= 0 {
		config.StatusInterval = DefaultStatusInterval
	}
	if config.TripInterval <= 0 {
		config.TripInterval = DefaultTripInterval
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	return config
}

// Poller drives the two portal feeds on independent timers and merges
// their outcomes into a shared snapshot slot.
//
// Concurrency discipline: each endpoint has its own poll goroutine;
// neither ever blocks the other. Both send outcomes to a single merge
// goroutine that owns the view model, applies [Merge], and publishes
// the result through an atomic pointer — so a reader either sees the
// model from before a merge or from after it, never a half-applied
// one. Readers never take a lock.
//
// Per-endpoint lifecycle: a transient failure extends that endpoint's
// next delay (capped exponential, reset on success); a permanent
// failure stops that endpoint's polling for good while the other one
// continues.
type Poller struct {
	fetcher Fetcher
	config  PollerConfig
	logger  *slog.Logger

	latest  atomic.Pointer[ViewModel]
	updates chan struct{}

	outcomes  chan Outcome
	cancel    context.CancelFunc
	pollers   sync.WaitGroup
	mergeDone chan struct{}
	closeOnce sync.Once
}

// NewPoller creates a poller and starts its background goroutines
// immediately. Call [Poller.Close] to shut it down.
func NewPoller(fetcher Fetcher, config PollerConfig, logger *slog.Logger) *Poller {
	ctx, cancel := context.WithCancel(context.Background())

	poller := &Poller{
		fetcher:   fetcher,
		config:    config.withDefaults(),
		logger:    logger,
		updates:   make(chan struct{}, 1),
		outcomes:  make(chan Outcome),
		cancel:    cancel,
		mergeDone: make(chan struct{}),
	}
	poller.latest.Store(&ViewModel{})

	poller.pollers.Add(2)
	go poller.pollLoop(ctx, EndpointStatus, poller.config.StatusInterval)
	go poller.pollLoop(ctx, EndpointTrip, poller.config.TripInterval)

	// Close the outcome channel once both poll loops are done so the
	// merge loop drains cleanly and closes the update channel.
	go func() {
		poller.pollers.Wait()
		close(poller.outcomes)
	}()
	go poller.mergeLoop()

	return poller
}

// Latest implements [Source].
func (poller *Poller) Latest() ViewModel {
	return *poller.latest.Load()
}

// Subscribe implements [Source].
func (poller *Poller) Subscribe() <-chan struct{} {
	return poller.updates
}

// Close implements [Source]. Cancels in-flight requests (bounded by
// the per-request timeout) and waits for all goroutines to exit.
func (poller *Poller) Close() {
	poller.closeOnce.Do(func() {
		poller.cancel()
		<-poller.mergeDone
	})
}

// pollLoop is the per-endpoint state machine: fetch, report, wait.
// The first fetch happens immediately so the dashboard has data as
// soon as the network allows.
func (poller *Poller) pollLoop(ctx context.Context, endpoint Endpoint, interval time.Duration) {
	defer poller.pollers.Done()

	delay := interval
	for {
		outcome := poller.fetch(ctx, endpoint)
		if ctx.Err() != nil {
			return
		}

		select {
		case poller.outcomes <- outcome:
		case <-ctx.Done():
			return
		}

		switch {
		case outcome.Err == nil:
			delay = interval

		case isPermanent(outcome.Err):
			// Terminal for this endpoint. The other endpoint's loop
			// is unaffected.
			poller.logger.Error("endpoint disabled for this session",
				"endpoint", endpoint,
				"error", outcome.Err,
			)
			return

		default:
			delay = min(delay*2, poller.config.MaxBackoff)
			poller.logger.Warn("poll failed",
				"endpoint", endpoint,
				"error", outcome.Err,
				"next_attempt", delay,
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (poller *Poller) fetch(ctx context.Context, endpoint Endpoint) Outcome {
	outcome := Outcome{Endpoint: endpoint}
	switch endpoint {
	case EndpointStatus:
		outcome.Status, outcome.Err = poller.fetcher.FetchStatus(ctx)
	case EndpointTrip:
		outcome.Trip, outcome.Err = poller.fetcher.FetchTrip(ctx)
	}
	return outcome
}

// mergeLoop is the single writer of the snapshot slot. It exits when
// the outcome channel closes (both poll loops gone) and then closes
// the update channel so subscribers unblock.
func (poller *Poller) mergeLoop() {
	defer close(poller.mergeDone)
	defer close(poller.updates)

	for outcome := range poller.outcomes {
		merged := Merge(*poller.latest.Load(), outcome, time.Now())
		poller.latest.Store(&merged)
		poller.notify()
	}
}

// notify signals subscribers without blocking. A full buffer means a
// signal is already pending; the subscriber will read the latest
// snapshot anyway.
func (poller *Poller) notify() {
	select {
	case poller.updates <- struct{}{}:
	default:
	}
}
