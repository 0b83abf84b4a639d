// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

// Package iceportal talks to the ICE onboard portal's read-only REST
// API. It decodes the two vendor payloads (status and trip info) into
// typed records and classifies every fetch attempt as a success, a
// transient failure worth retrying, or a permanent failure that should
// disable the endpoint for the rest of the session.
//
// The package issues single requests only. Retry and backoff policy
// belongs to the caller (lib/journey's poller).
package iceportal
