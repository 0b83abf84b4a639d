// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bordmonitor/bordmonitor/lib/journey"
)

// Panel identifies one of the four dashboard panels.
type Panel int

const (
	// PanelOverview shows the train's identity and route endpoints.
	PanelOverview Panel = iota
	// PanelStatus shows live telemetry and journey progress.
	PanelStatus
	// PanelSpeed shows the speed history graph.
	PanelSpeed
	// PanelRoute shows the stop sequence with times and platforms.
	PanelRoute
)

const panelCount = 4

func (panel Panel) next() Panel {
	return (panel + 1) % panelCount
}

func (panel Panel) prev() Panel {
	return (panel + panelCount - 1) % panelCount
}

// frameTickMsg drives the fixed-cadence redraw. The embedded time
// becomes the model's notion of "now" so every derived field in one
// frame agrees on the clock.
type frameTickMsg time.Time

// snapshotMsg signals that the source has a newer view-model snapshot.
type snapshotMsg struct{}

const (
	// frameInterval is the redraw cadence. Independent of the data
	// refresh rate: frames repaint stale-age counters even when no
	// data arrives.
	frameInterval = 250 * time.Millisecond

	// speedHistoryLimit bounds the speed graph's ring of samples.
	speedHistoryLimit = 180
)

// speedSample is one point of the speed graph.
type speedSample struct {
	at    time.Time
	speed float64
}

// Model is the top-level bubbletea model for the dashboard.
type Model struct {
	source journey.Source
	theme  Theme
	keys   KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// The latest immutable snapshot pulled from the source, and the
	// frame clock it is rendered against.
	snapshot journey.ViewModel
	now      time.Time

	// Speed history, appended once per distinct status update.
	history []speedSample

	selection Panel

	// Route panel state.
	selectedStop int
	stopDetail   bool

	updates <-chan struct{}
}

// NewModel creates the dashboard model reading from source.
func NewModel(source journey.Source) Model {
	model := Model{
		source:   source,
		theme:    DefaultTheme,
		keys:     DefaultKeyMap,
		snapshot: source.Latest(),
		updates:  source.Subscribe(),
		now:      time.Now(),
	}
	model.recordSpeed()
	return model
}

// Init implements tea.Model: starts the frame ticker and the snapshot
// listener.
func (model Model) Init() tea.Cmd {
	return tea.Batch(frameTick(), listenForUpdate(model.updates))
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(now time.Time) tea.Msg {
		return frameTickMsg(now)
	})
}

// listenForUpdate blocks until the source signals a new snapshot,
// then delivers a snapshotMsg. Returns nil when the channel closes
// (source shut down) so the listener stops re-arming.
func listenForUpdate(updates <-chan struct{}) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return nil
		}
		return snapshotMsg{}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.NextPanel):
			model.selection = model.selection.next()

		case key.Matches(message, model.keys.PrevPanel):
			model.selection = model.selection.prev()

		case key.Matches(message, model.keys.Down):
			if model.selection == PanelRoute {
				model.selectedStop++
				model.clampSelectedStop()
			}

		case key.Matches(message, model.keys.Up):
			if model.selection == PanelRoute {
				model.selectedStop--
				model.clampSelectedStop()
			}

		case key.Matches(message, model.keys.ToggleDetail):
			if model.selection == PanelRoute {
				model.stopDetail = !model.stopDetail
			}
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true

	case frameTickMsg:
		model.now = time.Time(message)
		return model, frameTick()

	case snapshotMsg:
		model.snapshot = model.source.Latest()
		model.recordSpeed()
		model.clampSelectedStop()
		return model, listenForUpdate(model.updates)
	}
	return model, nil
}

// recordSpeed appends a speed sample when the status feed has a newer
// measurement than the last recorded one.
func (model *Model) recordSpeed() {
	status := model.snapshot.Status
	if status == nil {
		return
	}
	updatedAt := model.snapshot.StatusState.LastUpdate
	if len(model.history) > 0 && !model.history[len(model.history)-1].at.Before(updatedAt) {
		return
	}
	model.history = append(model.history, speedSample{at: updatedAt, speed: status.Speed})
	if len(model.history) > speedHistoryLimit {
		model.history = model.history[len(model.history)-speedHistoryLimit:]
	}
}

// averageSpeed is the rolling mean over the recorded history.
func (model Model) averageSpeed() float64 {
	if len(model.history) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range model.history {
		sum += sample.speed
	}
	return sum / float64(len(model.history))
}

func (model *Model) clampSelectedStop() {
	limit := 0
	if model.snapshot.Trip != nil {
		limit = len(model.snapshot.Trip.Stops) - 1
	}
	if model.selectedStop > limit {
		model.selectedStop = limit
	}
	if model.selectedStop < 0 {
		model.selectedStop = 0
	}
}
