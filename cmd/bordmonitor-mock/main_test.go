// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestPortal(t *testing.T, failRate float64, permanentAfter int) *mockPortal {
	t.Helper()
	portal, err := newMockPortal(failRate, 0, permanentAfter)
	if err != nil {
		t.Fatalf("newMockPortal: %v", err)
	}
	return portal
}

func TestStatusPayloadIsLive(t *testing.T) {
	portal := newTestPortal(t, 0, 0)

	recorder := httptest.NewRecorder()
	portal.handleStatus(recorder, httptest.NewRequest(http.MethodGet, "/api1/rs/status", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	var document map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &document); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}

	serverTime, ok := document["serverTime"].(float64)
	if !ok {
		t.Fatal("serverTime missing")
	}
	age := time.Since(time.UnixMilli(int64(serverTime)))
	if age < 0 || age > time.Minute {
		t.Errorf("serverTime not refreshed, age %v", age)
	}
	if speed, ok := document["speed"].(float64); !ok || speed < 0 {
		t.Errorf("speed = %v", document["speed"])
	}
	if document["tzn"] != "Tz9051" {
		t.Errorf("tzn = %v", document["tzn"])
	}
}

func TestTripPayloadServed(t *testing.T) {
	portal := newTestPortal(t, 0, 0)

	recorder := httptest.NewRecorder()
	portal.handleTrip(recorder, httptest.NewRequest(http.MethodGet, "/api1/rs/tripInfo/trip", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	var document struct {
		Trip struct {
			VZN   string `json:"vzn"`
			Stops []any  `json:"stops"`
		} `json:"trip"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &document); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if document.Trip.VZN != "881" {
		t.Errorf("vzn = %q", document.Trip.VZN)
	}
	if len(document.Trip.Stops) == 0 {
		t.Error("trip has no stops")
	}
}

func TestFailRateAlwaysFails(t *testing.T) {
	portal := newTestPortal(t, 1, 0)

	recorder := httptest.NewRecorder()
	portal.handleStatus(recorder, httptest.NewRequest(http.MethodGet, "/api1/rs/status", nil))
	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", recorder.Code)
	}
}

func TestPermanentAfterKillsTrip(t *testing.T) {
	portal := newTestPortal(t, 0, 2)

	codes := make([]int, 0, 4)
	for range 4 {
		recorder := httptest.NewRecorder()
		portal.handleTrip(recorder, httptest.NewRequest(http.MethodGet, "/api1/rs/tripInfo/trip", nil))
		codes = append(codes, recorder.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusNotFound, http.StatusNotFound}
	for i, code := range codes {
		if code != want[i] {
			t.Errorf("request %d: status = %d, want %d", i+1, code, want[i])
		}
	}
}
