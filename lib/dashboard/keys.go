// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard's key bindings.
type KeyMap struct {
	// Panel selection cycles through the four panels.
	NextPanel key.Binding
	PrevPanel key.Binding

	// Stop navigation, active when the route panel is selected.
	Up   key.Binding
	Down key.Binding

	// ToggleDetail expands the selected stop (platform changes,
	// distance, coordinates).
	ToggleDetail key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style j/k
// alongside arrow keys.
var DefaultKeyMap = KeyMap{
	NextPanel: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next panel"),
	),
	PrevPanel: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "prev panel"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	ToggleDetail: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "stop details"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
