// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package journey

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bordmonitor/bordmonitor/lib/iceportal"
)

// SampleSource implements [Source] from captured payload files, for
// developing the dashboard away from a train. It republishes the
// status record once a second with a jittered speed so time-based UI
// (speed graph, "updated Ns ago") stays alive.
type SampleSource struct {
	status iceportal.Status
	trip   iceportal.Trip
	logger *slog.Logger

	latest  atomic.Pointer[ViewModel]
	updates chan struct{}

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

const sampleTickInterval = time.Second

// NewSampleSource loads status.json and trip.json from dir and starts
// the replay goroutine.
func NewSampleSource(dir string, logger *slog.Logger) (*SampleSource, error) {
	status, trip, err := iceportal.LoadSampleDir(dir)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	source := &SampleSource{
		status:  *status,
		trip:    *trip,
		logger:  logger,
		updates: make(chan struct{}, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	source.latest.Store(&ViewModel{})
	source.publish(time.Now())

	go source.replayLoop(ctx)
	return source, nil
}

// Latest implements [Source].
func (source *SampleSource) Latest() ViewModel {
	return *source.latest.Load()
}

// Subscribe implements [Source].
func (source *SampleSource) Subscribe() <-chan struct{} {
	return source.updates
}

// Close implements [Source].
func (source *SampleSource) Close() {
	source.closeOnce.Do(func() {
		source.cancel()
		<-source.done
	})
}

func (source *SampleSource) replayLoop(ctx context.Context) {
	defer close(source.done)
	defer close(source.updates)

	ticker := time.NewTicker(sampleTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			source.publish(now)
		}
	}
}

// publish merges fresh copies of both records, jittering the sample
// speed so the graph moves.
func (source *SampleSource) publish(now time.Time) {
	status := source.status
	status.Speed = max(0, status.Speed+rand.Float64()*40-20)
	status.ServerTime = now.UnixMilli()
	trip := source.trip

	model := Merge(*source.latest.Load(), Outcome{Endpoint: EndpointStatus, Status: &status}, now)
	model = Merge(model, Outcome{Endpoint: EndpointTrip, Trip: &trip}, now)
	source.latest.Store(&model)

	select {
	case source.updates <- struct{}{}:
	default:
	}
}
