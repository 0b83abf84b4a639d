// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package iceportal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the portal hostname as seen from the onboard
	// network. It resolves only while connected to the train WiFi.
	DefaultBaseURL = "https://iceportal.de"

	statusPath = "/api1/rs/status"
	tripPath   = "/api1/rs/tripInfo/trip"

	// userAgent mimics a desktop browser. The portal serves an error
	// page to clients it doesn't recognize.
	userAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	// maxBodySize caps response reads. The trip payload for a long
	// route is tens of kilobytes; anything near this limit is not a
	// payload this client understands.
	maxBodySize = 4 << 20

	// DefaultTimeout bounds one request. Must stay shorter than the
	// poll interval so attempts never pile up.
	DefaultTimeout = 3 * time.Second
)

// Client fetches the portal's status and trip documents. Each call
// issues exactly one request; the caller owns retry policy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// NewClient creates a portal client for the given base URL (empty
// means DefaultBaseURL). A timeout of zero means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    timeout,
		logger:     logger,
	}
}

// FetchStatus retrieves and decodes the live telemetry document.
// The returned error, when non-nil, is a *TransientError or a
// *PermanentError.
func (client *Client) FetchStatus(ctx context.Context) (*Status, error) {
	body, err := client.get(ctx, statusPath)
	if err != nil {
		return nil, err
	}

	var status Status
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, Transient("decoding status payload: %w", err)
	}

	// A document that unmarshals but carries none of the
	// always-present fields is not a status payload at all — the
	// portal schema has changed out from under us.
	if status.ServerTime == 0 && status.TZN == "" && status.GPSStatus == "" {
		return nil, Permanent("status payload has unrecognized schema")
	}
	if status.ServerTime == 0 {
		return nil, Transient("status payload missing serverTime")
	}

	return &status, nil
}

// FetchTrip retrieves and decodes the trip document. The returned
// error, when non-nil, is a *TransientError or a *PermanentError.
func (client *Client) FetchTrip(ctx context.Context) (*Trip, error) {
	body, err := client.get(ctx, tripPath)
	if err != nil {
		return nil, err
	}

	var envelope tripEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, Transient("decoding trip payload: %w", err)
	}

	trip := envelope.Trip
	if trip.VZN == "" && len(trip.Stops) == 0 {
		return nil, Permanent("trip payload has unrecognized schema")
	}
	if len(trip.Stops) == 0 {
		return nil, Transient("trip payload has no stops")
	}

	trip.Connection = envelope.Connection
	return &trip, nil
}

// get performs one GET against the portal and returns the body of a
// 2xx response. Non-2xx statuses and network failures are classified:
// 5xx and 429 are transient (the portal backend hiccups regularly on
// a moving train), any other 4xx is permanent.
func (client *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	requestURL := client.baseURL + path
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, Permanent("building request for %s: %w", requestURL, err)
	}
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "application/json")

	started := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, Transient("requesting %s: %w", path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize))
	if err != nil {
		return nil, Transient("reading response from %s: %w", path, err)
	}

	client.logger.Debug("portal request",
		"path", path,
		"status", response.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(started),
	)

	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		return body, nil
	case response.StatusCode == http.StatusTooManyRequests:
		return nil, Transient("portal rate-limited %s", path)
	case response.StatusCode >= 500:
		return nil, Transient("portal returned %d for %s", response.StatusCode, path)
	default:
		return nil, Permanent("portal returned %d for %s", response.StatusCode, path)
	}
}

// String implements fmt.Stringer for logging.
func (client *Client) String() string {
	return fmt.Sprintf("iceportal.Client(%s)", client.baseURL)
}
