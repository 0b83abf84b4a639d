// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

// Package journey keeps the two independently-refreshing portal feeds
// coherent. A poller goroutine per endpoint fetches on its own timer
// and sends outcomes to a single merge loop that owns the view model;
// the dashboard reads immutable snapshots from an atomic slot and is
// never blocked by a fetch or a merge in progress.
//
// Transient failures keep previously known data (downgraded to stale
// after enough misses), permanent failures disable the endpoint for
// the session without affecting the other one. Partial data beats no
// data.
package journey
