// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bordmonitor/bordmonitor/lib/journey"
)

// Theme defines the dashboard's color palette. All colors use ANSI
// 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	LabelText  lipgloss.Color

	// Borders: the selected panel gets the accent.
	BorderColor       lipgloss.Color
	BorderAccentColor lipgloss.Color

	// Freshness badges in the status bar and panel titles.
	FreshColor       lipgloss.Color
	StaleColor       lipgloss.Color
	UnreachableColor lipgloss.Color
	UnknownColor     lipgloss.Color

	// Speed graph: rising and falling segments.
	SpeedUpColor   lipgloss.Color
	SpeedDownColor lipgloss.Color

	// Route markers.
	PassedStopColor lipgloss.Color
	NextStopColor   lipgloss.Color
	DelayColor      lipgloss.Color
	OnTimeColor     lipgloss.Color

	HelpText lipgloss.Color
}

// FreshnessColor maps a feed's freshness to its badge color.
func (theme Theme) FreshnessColor(freshness journey.Freshness) lipgloss.Color {
	switch freshness {
	case journey.FreshnessFresh:
		return theme.FreshColor
	case journey.FreshnessStale:
		return theme.StaleColor
	case journey.FreshnessUnreachable:
		return theme.UnreachableColor
	default:
		return theme.UnknownColor
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	LabelText:  lipgloss.Color("248"),

	BorderColor:       lipgloss.Color("240"),
	BorderAccentColor: lipgloss.Color("170"), // magenta

	FreshColor:       lipgloss.Color("114"), // green
	StaleColor:       lipgloss.Color("220"), // amber
	UnreachableColor: lipgloss.Color("196"), // red
	UnknownColor:     lipgloss.Color("245"), // gray

	SpeedUpColor:   lipgloss.Color("114"),
	SpeedDownColor: lipgloss.Color("196"),

	PassedStopColor: lipgloss.Color("245"),
	NextStopColor:   lipgloss.Color("114"),
	DelayColor:      lipgloss.Color("208"), // orange
	OnTimeColor:     lipgloss.Color("114"),

	HelpText: lipgloss.Color("241"),
}
