// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package journey

// Source abstracts where the dashboard's data comes from. The live
// implementation is [Poller]; [SampleSource] replays captured
// payloads for offline development. The TUI code is identical
// regardless of backend.
type Source interface {
	// Latest returns the most recent view-model snapshot. The
	// returned value is an immutable copy; it never changes under
	// the caller and the call never blocks on a fetch or merge in
	// progress.
	Latest() ViewModel

	// Subscribe returns a channel that signals when a new snapshot
	// is available. Signals are coalesced: a reader that falls
	// behind gets one pending signal, then reads the latest
	// snapshot. The channel is closed when the source shuts down.
	Subscribe() <-chan struct{}

	// Close stops background work. In-flight requests are cancelled
	// promptly; Close returns once all background goroutines have
	// exited. Safe to call multiple times.
	Close()
}
