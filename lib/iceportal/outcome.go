// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package iceportal

import "fmt"

// Fetch errors are categorized so the poller can pick a recovery
// strategy without parsing message text: transient failures are
// retried with backoff, permanent failures disable the endpoint for
// the rest of the session. Use errors.As to detect the category.

// TransientError is a failure that may succeed on retry: timeout,
// connection refused or reset, a 5xx from the portal, or a garbled
// body from a half-dropped WiFi connection.
type TransientError struct {
	Err error
}

// Error returns the underlying error message.
func (e *TransientError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError is a failure that retrying will not fix: a persistent
// 4xx, or a payload that decodes cleanly but doesn't match the schema
// this client understands. The endpoint should be disabled.
type PermanentError struct {
	Err error
}

// Error returns the underlying error message.
func (e *PermanentError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *PermanentError) Unwrap() error { return e.Err }

// Transient wraps a formatted error as retryable.
func Transient(format string, args ...any) *TransientError {
	return &TransientError{Err: fmt.Errorf(format, args...)}
}

// Permanent wraps a formatted error as non-retryable.
func Permanent(format string, args ...any) *PermanentError {
	return &PermanentError{Err: fmt.Errorf(format, args...)}
}
