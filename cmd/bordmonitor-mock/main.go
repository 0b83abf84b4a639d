// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

// bordmonitor-mock is a stand-in for the ICE onboard portal, for
// developing the dashboard off the train. It serves the portal's two
// JSON endpoints from embedded captures, refreshes serverTime and
// jitters the speed on every response, and can inject the failure
// modes the real portal exhibits: random 5xx errors, added latency,
// and an endpoint that dies mid-session.
package main

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/pflag"
	"github.com/unrolled/logger"

	"github.com/bordmonitor/bordmonitor/lib/version"
)

//go:embed payloads/*.json
var payloads embed.FS

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var port int
	var failRate float64
	var latency time.Duration
	var permanentAfter int

	flagSet := pflag.NewFlagSet("bordmonitor-mock", pflag.ContinueOnError)
	flagSet.IntVar(&port, "port", 8080, "port to listen on")
	flagSet.Float64Var(&failRate, "fail-rate", 0, "probability (0..1) that a request fails with 503")
	flagSet.DurationVar(&latency, "latency", 0, "added delay per request")
	flagSet.IntVar(&permanentAfter, "permanent-after", 0, "after this many trip requests, trip returns 404 forever (0 = never)")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("bordmonitor-mock")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if failRate < 0 || failRate > 1 {
		return fmt.Errorf("--fail-rate must be between 0 and 1")
	}

	shutdownCtx, shutdown := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer shutdown()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	portal, err := newMockPortal(failRate, latency, permanentAfter)
	if err != nil {
		return err
	}

	router := mux.NewRouter()
	router.Use(logger.New().Handler)
	router.HandleFunc("/api1/rs/status", portal.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/api1/rs/tripInfo/trip", portal.handleTrip).Methods(http.MethodGet)

	return serve(shutdownCtx, router, port, log)
}

func serve(ctx context.Context, handler http.Handler, port int, log *slog.Logger) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}

	errs := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()
	log.Info("mock portal listening",
		"status", fmt.Sprintf("http://localhost:%d/api1/rs/status", port),
		"trip", fmt.Sprintf("http://localhost:%d/api1/rs/tripInfo/trip", port))

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// mockPortal holds the captured payloads and the failure-injection
// settings. The status payload is kept as a decoded document so speed
// and serverTime can be rewritten per request.
type mockPortal struct {
	status map[string]any
	trip   []byte

	failRate       float64
	latency        time.Duration
	permanentAfter int

	tripRequests atomic.Int64
}

func newMockPortal(failRate float64, latency time.Duration, permanentAfter int) (*mockPortal, error) {
	statusData, err := payloads.ReadFile("payloads/status.json")
	if err != nil {
		return nil, err
	}
	tripData, err := payloads.ReadFile("payloads/trip.json")
	if err != nil {
		return nil, err
	}

	var status map[string]any
	if err := json.Unmarshal(statusData, &status); err != nil {
		return nil, fmt.Errorf("embedded status payload: %w", err)
	}

	return &mockPortal{
		status:         status,
		trip:           tripData,
		failRate:       failRate,
		latency:        latency,
		permanentAfter: permanentAfter,
	}, nil
}

// misbehave applies the injected latency and random failures. It
// reports whether the request was already answered.
func (portal *mockPortal) misbehave(writer http.ResponseWriter) bool {
	if portal.latency > 0 {
		time.Sleep(portal.latency)
	}
	if portal.failRate > 0 && rand.Float64() < portal.failRate {
		http.Error(writer, "gateway timeout on board", http.StatusServiceUnavailable)
		return true
	}
	return false
}

func (portal *mockPortal) handleStatus(writer http.ResponseWriter, request *http.Request) {
	if portal.misbehave(writer) {
		return
	}

	// Serve a live-looking document: current serverTime, speed
	// wandering around the captured value.
	document := make(map[string]any, len(portal.status))
	for key, value := range portal.status {
		document[key] = value
	}
	document["serverTime"] = time.Now().UnixMilli()
	if speed, ok := document["speed"].(float64); ok {
		document["speed"] = max(0, speed+rand.Float64()*40-20)
	}

	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(document)
}

func (portal *mockPortal) handleTrip(writer http.ResponseWriter, request *http.Request) {
	if portal.misbehave(writer) {
		return
	}

	if count := portal.tripRequests.Add(1); portal.permanentAfter > 0 && count > int64(portal.permanentAfter) {
		http.NotFound(writer, request)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.Write(portal.trip)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `bordmonitor-mock — fake ICE onboard portal for dashboard development.

Serves /api1/rs/status and /api1/rs/tripInfo/trip from embedded
captures, with serverTime refreshed and speed jittered per request.

Examples:
  # Well-behaved portal on :8080
  bordmonitor-mock

  # Train WiFi simulation: slow, flaky, trip endpoint dies after 5 polls
  bordmonitor-mock --latency 800ms --fail-rate 0.3 --permanent-after 5

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
