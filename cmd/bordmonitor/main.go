// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

// bordmonitor is a terminal dashboard for the ICE onboard portal. It
// polls the portal's status and trip endpoints over the train WiFi,
// merges the two feeds, and renders speed, position, delay and the
// route as a live full-screen display.
//
// The onboard network drops constantly; the dashboard is built around
// that. Failed polls back off and retry, known data stays on screen
// (labeled stale once it ages), and a permanently broken endpoint
// turns into a persistent warning instead of a blank screen.
//
// Two modes of operation:
//
// Live mode (default): polls the portal at iceportal.de. Only works on
// board; use --base-url to point at a mock portal during development.
//
// Sample mode (--sample-dir): replays captured status.json/trip.json
// payloads with jittered speed. No network required.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bordmonitor/bordmonitor/lib/config"
	"github.com/bordmonitor/bordmonitor/lib/dashboard"
	"github.com/bordmonitor/bordmonitor/lib/iceportal"
	"github.com/bordmonitor/bordmonitor/lib/journey"
	"github.com/bordmonitor/bordmonitor/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var sampleDir string
	var baseURL string
	var logOutput string

	flagSet := pflag.NewFlagSet("bordmonitor", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file")
	flagSet.StringVar(&sampleDir, "sample-dir", "", "replay captured payloads from this directory instead of polling")
	flagSet.StringVar(&baseURL, "base-url", "", "portal origin (default: the real onboard portal)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing so it works regardless of
	// other arguments.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("bordmonitor")
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
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	// The dashboard owns the terminal; refusing to start beats
	// spraying escape sequences into a pipe.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal")
	}

	settings := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		settings = loaded
	}
	if baseURL != "" {
		settings.BaseURL = baseURL
	}

	logger, cleanup, err := newLogger(logOutput)
	if err != nil {
		return err
	}
	defer cleanup()

	source, err := newSource(settings, sampleDir, logger)
	if err != nil {
		return err
	}
	defer source.Close()

	// Pin the color profile: the theme is designed for 256 colors
	// and portal sessions often run through tmux over SSH.
	lipgloss.DefaultRenderer().SetColorProfile(termenv.ANSI256)

	program := tea.NewProgram(dashboard.NewModel(source), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// newSource builds the data backend: a live poller against the portal,
// or a sample replay when --sample-dir is given.
func newSource(settings config.Config, sampleDir string, logger *slog.Logger) (journey.Source, error) {
	if sampleDir != "" {
		source, err := journey.NewSampleSource(sampleDir, logger)
		if err != nil {
			return nil, fmt.Errorf("loading sample payloads: %w", err)
		}
		return source, nil
	}

	client := iceportal.NewClient(settings.BaseURL, settings.RequestTimeout, logger)
	return journey.NewPoller(client, settings.PollerConfig(), logger), nil
}

// newLogger routes background log records to a JSONL file when
// --log-output is set, and discards them otherwise: stderr would
// corrupt the alt-screen display.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		handler := slog.NewTextHandler(io.Discard, nil)
		return slog.New(handler), func() {}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), func() { file.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `bordmonitor — live terminal dashboard for the ICE onboard portal.

Polls the portal's status and trip endpoints over the train WiFi and
renders speed, position, delay and the route. Data survives network
dropouts: stale feeds are labeled, dead endpoints become warnings.

Usage:
  bordmonitor [flags]

Examples:
  # On board, with defaults
  bordmonitor

  # Against a local mock portal
  bordmonitor --base-url http://localhost:8080

  # Offline, replaying captured payloads
  bordmonitor --sample-dir testdata/ice881

Keys:
  Tab / Shift-Tab   select panel
  j/k or arrows     move stop selection (route panel)
  Enter             expand stop details (route panel)
  q                 quit

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
