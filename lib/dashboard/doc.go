// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboard renders the journey view model as a full-screen
// terminal UI: train overview, live status, a speed history graph,
// and the route with per-stop times and platforms.
//
// The display redraws on a fixed frame tick independent of data
// arrival, so time-derived fields ("updated 12s ago") stay live while
// the train crawls through a dead zone. Data freshness is always
// visible: stale feeds dim, unreachable feeds carry a persistent
// warning, and fields whose feed never succeeded render as unknown
// rather than as plausible-looking zeros.
package dashboard
