// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bordmonitor/bordmonitor/lib/iceportal"
	"github.com/bordmonitor/bordmonitor/lib/journey"
)

// Fixed rows: overview and middle band heights, status bar, help line.
const (
	overviewHeight = 6
	middleHeight   = 12
	chromeHeight   = 2
)

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	routeHeight := model.height - overviewHeight - middleHeight - chromeHeight
	if routeHeight < 4 {
		routeHeight = 4
	}

	statusWidth := model.width / 2
	if statusWidth > 56 {
		statusWidth = 56
	}
	speedWidth := model.width - statusWidth

	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		model.renderStatusPanel(statusWidth, middleHeight),
		model.renderSpeedPanel(speedWidth, middleHeight),
	)

	sections := []string{
		model.renderOverviewPanel(model.width, overviewHeight),
		middle,
		model.renderRoutePanel(model.width, routeHeight),
		model.renderStatusBar(),
		model.renderHelp(),
	}
	return strings.Join(sections, "\n")
}

// renderPanel draws a bordered panel: a title row with a freshness
// badge, then content lines clipped and padded to the panel size.
func (model Model) renderPanel(panel Panel, title string, badge string, lines []string, width, height int) string {
	innerWidth := width - 2
	innerHeight := height - 2
	if innerWidth < 1 || innerHeight < 1 {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.NormalText)
	titleLine := titleStyle.Render(title)
	if badge != "" {
		titleLine += " " + badge
	}

	content := append([]string{titleLine}, lines...)
	if len(content) > innerHeight {
		content = content[:innerHeight]
	}
	for index := range content {
		content[index] = ansi.Truncate(content[index], innerWidth, "…")
	}
	for len(content) < innerHeight {
		content = append(content, "")
	}

	borderColor := model.theme.BorderColor
	if model.selection == panel {
		borderColor = model.theme.BorderAccentColor
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Width(innerWidth).
		Render(strings.Join(content, "\n"))
}

// freshnessBadge renders the per-feed health indicator shown in panel
// titles, e.g. "[stale 45s ago]". Fresh feeds stay quiet.
func (model Model) freshnessBadge(endpoint journey.Endpoint) string {
	state := model.snapshot.State(endpoint)
	if state.Freshness == journey.FreshnessFresh {
		return ""
	}

	label := state.Freshness.String()
	if state.Freshness == journey.FreshnessStale {
		label += " " + formatAgo(state.LastUpdate, model.now)
	}
	return lipgloss.NewStyle().
		Foreground(model.theme.FreshnessColor(state.Freshness)).
		Render("[" + label + "]")
}

// label renders a fixed-width field label.
func (model Model) label(text string) string {
	return lipgloss.NewStyle().
		Foreground(model.theme.LabelText).
		Render(fmt.Sprintf("%-16s", text))
}

func (model Model) renderOverviewPanel(width, height int) string {
	status := model.snapshot.Status
	trip := model.snapshot.Trip

	train := unknownValue
	stock := unknownValue
	route := unknownValue
	date := unknownValue

	if trip != nil {
		train = fmt.Sprintf("%s %s", trip.TrainType, trip.VZN)
		if trip.TripDate != "" {
			date = trip.TripDate
		}
		if origin, destination := trip.Origin(), trip.Destination(); origin != nil && destination != nil {
			route = fmt.Sprintf("%s → %s", origin.Station.Name, destination.Station.Name)
		}
	}
	if status != nil {
		if trip == nil {
			train = status.TrainType
		}
		if status.TZN != "" {
			train += fmt.Sprintf(" (%s)", status.TZN)
		}
		stock = fmt.Sprintf("series %s · wagon class %s", status.Series, status.WagonClass)
	}

	lines := []string{
		model.label("Train") + train,
		model.label("Rolling stock") + stock,
		model.label("Route") + route,
		model.label("Date") + date,
	}
	return model.renderPanel(PanelOverview, "Journey", model.tripBadgeOrStatus(), lines, width, height)
}

// tripBadgeOrStatus prefers the trip feed's badge for panels fed by
// both feeds, falling back to the status feed's.
func (model Model) tripBadgeOrStatus() string {
	if badge := model.freshnessBadge(journey.EndpointTrip); badge != "" {
		return badge
	}
	return model.freshnessBadge(journey.EndpointStatus)
}

func (model Model) renderStatusPanel(width, height int) string {
	status := model.snapshot.Status
	trip := model.snapshot.Trip

	speed := unknownValue
	wifi := unknownValue
	position := unknownValue
	if status != nil {
		speed = formatSpeed(status.Speed)
		if average := model.averageSpeed(); average > 0 {
			speed += fmt.Sprintf(" (avg %.0f)", average)
		}
		wifi = status.Internet
		if next := status.Connectivity.NextState; next != nil && *next != "" {
			wifi += fmt.Sprintf(" → %s", *next)
			if seconds := status.Connectivity.RemainingTimeSeconds; seconds != nil {
				wifi += fmt.Sprintf(" in %dm", *seconds/60)
			}
		}
		position = fmt.Sprintf("%.3f, %.3f", status.Latitude, status.Longitude)
	}

	length := unknownValue
	traveled := unknownValue
	remaining := unknownValue
	nextStop := unknownValue
	if trip != nil && trip.TotalDistance > 0 {
		length = formatDistance(trip.TotalDistance)
		traveled = fmt.Sprintf("%s (%s)",
			formatDistance(trip.ActualPosition),
			formatPercent(trip.ActualPosition, trip.TotalDistance))
		remaining = fmt.Sprintf("%s (%s)",
			formatDistance(trip.TotalDistance-trip.ActualPosition),
			formatPercent(trip.TotalDistance-trip.ActualPosition, trip.TotalDistance))
		if stop := trip.NextStop(); stop != nil {
			distance := stop.Info.DistanceFromStart - trip.ActualPosition
			if distance < 0 {
				distance = 0
			}
			nextStop = fmt.Sprintf("%s in %s", stop.Station.Name, formatDistance(distance))
		}
	}

	lines := []string{
		model.label("Speed") + speed,
		model.label("WiFi") + wifi,
		model.label("Route length") + length,
		model.label("Traveled") + traveled,
		model.label("Remaining") + remaining,
		model.label("Next stop") + nextStop,
		model.label("Position") + position,
	}
	return model.renderPanel(PanelStatus, "Status", model.freshnessBadge(journey.EndpointStatus), lines, width, height)
}

// renderSpeedPanel draws the speed history as a column graph. Columns
// are colored by trend against the previous sample.
func (model Model) renderSpeedPanel(width, height int) string {
	graphWidth := width - 2
	graphHeight := height - 3 // border rows and the title line
	badge := model.freshnessBadge(journey.EndpointStatus)

	if len(model.history) < 2 || graphWidth < 2 || graphHeight < 2 {
		return model.renderPanel(PanelSpeed, "Speed history", badge,
			[]string{lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("collecting samples…")},
			width, height)
	}

	samples := model.history
	if len(samples) > graphWidth {
		samples = samples[len(samples)-graphWidth:]
	}

	// Scale to at least 300 km/h so a full-speed ICE doesn't clip
	// and slow running doesn't look dramatic.
	scale := 300.0
	for _, sample := range samples {
		if sample.speed > scale {
			scale = sample.speed
		}
	}

	upStyle := lipgloss.NewStyle().Foreground(model.theme.SpeedUpColor)
	downStyle := lipgloss.NewStyle().Foreground(model.theme.SpeedDownColor)

	// cells[column] is how many eighth-blocks tall the column is.
	cells := make([]int, len(samples))
	rising := make([]bool, len(samples))
	for index, sample := range samples {
		cells[index] = int(sample.speed / scale * float64(graphHeight) * 8)
		rising[index] = index == 0 || sample.speed >= samples[index-1].speed
	}

	partials := []rune("▁▂▃▄▅▆▇█")
	rows := make([]string, graphHeight)
	for row := 0; row < graphHeight; row++ {
		var builder strings.Builder
		// row 0 is the top of the graph.
		floor := (graphHeight - 1 - row) * 8
		for column := range cells {
			var cell string
			switch {
			case cells[column] >= floor+8:
				cell = "█"
			case cells[column] > floor:
				cell = string(partials[cells[column]-floor-1])
			default:
				builder.WriteString(" ")
				continue
			}
			if rising[column] {
				builder.WriteString(upStyle.Render(cell))
			} else {
				builder.WriteString(downStyle.Render(cell))
			}
		}
		rows[row] = builder.String()
	}

	return model.renderPanel(PanelSpeed, "Speed history", badge, rows, width, height)
}

func (model Model) renderRoutePanel(width, height int) string {
	badge := model.freshnessBadge(journey.EndpointTrip)
	trip := model.snapshot.Trip

	if trip == nil {
		message := "waiting for trip data…"
		if model.snapshot.TripState.Freshness == journey.FreshnessUnreachable {
			message = "trip feed unavailable for this session"
		}
		return model.renderPanel(PanelRoute, "Route", badge,
			[]string{lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(message)},
			width, height)
	}

	visible := height - 3 // borders and title
	if model.stopDetail {
		visible-- // detail line for the selected stop
	}
	if visible < 1 {
		visible = 1
	}

	// Window the stop list around the selection.
	start := 0
	if len(trip.Stops) > visible {
		start = model.selectedStop - visible/2
		if start < 0 {
			start = 0
		}
		if start > len(trip.Stops)-visible {
			start = len(trip.Stops) - visible
		}
	}

	var lines []string
	for index := start; index < len(trip.Stops) && index < start+visible; index++ {
		lines = append(lines, model.renderStopLine(trip, index))
		if model.stopDetail && index == model.selectedStop {
			lines = append(lines, model.renderStopDetail(&trip.Stops[index]))
		}
	}
	return model.renderPanel(PanelRoute, "Route", badge, lines, width, height)
}

// renderStopLine renders one row of the route list: a cursor when
// the route panel is selected, a progress marker, the station name,
// the arrival time with delay, and the platform.
func (model Model) renderStopLine(trip *iceportal.Trip, index int) string {
	stop := &trip.Stops[index]

	cursor := "  "
	if model.selection == PanelRoute && index == model.selectedStop {
		cursor = lipgloss.NewStyle().Foreground(model.theme.BorderAccentColor).Render("› ")
	}

	marker := "  "
	nameStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	switch {
	case stop.Info.Passed:
		marker = lipgloss.NewStyle().Foreground(model.theme.PassedStopColor).Render("· ")
		nameStyle = nameStyle.Foreground(model.theme.PassedStopColor)
	case stop.Station.EvaNr == trip.StopInfo.ScheduledNext:
		marker = lipgloss.NewStyle().Foreground(model.theme.NextStopColor).Render("▶ ")
		nameStyle = nameStyle.Bold(true)
	}

	name := nameStyle.Render(fmt.Sprintf("%-30s", ansi.Truncate(stop.Station.Name, 30, "…")))

	clock := unknownValue
	if arrival := stop.Timetable.ScheduledArrivalTime; arrival != nil {
		clock = formatClock(*arrival)
	} else if departure := stop.Timetable.ScheduledDepartureTime; departure != nil {
		clock = formatClock(*departure)
	}

	delay := formatDelay(stop.Timetable.ArrivalDelayMinutes())
	if delay != "" {
		delay = lipgloss.NewStyle().Foreground(model.theme.DelayColor).Render(delay)
	}

	track := ""
	if stop.Track.Actual != "" {
		track = "platform " + stop.Track.Actual
		if stop.Track.Scheduled != "" && stop.Track.Scheduled != stop.Track.Actual {
			track += lipgloss.NewStyle().
				Foreground(model.theme.DelayColor).
				Render(fmt.Sprintf(" (was %s)", stop.Track.Scheduled))
		}
	}

	return fmt.Sprintf("%s%s%s %s %-4s %s", cursor, marker, name, clock, delay, track)
}

// renderStopDetail renders the expanded line under the selected stop.
func (model Model) renderStopDetail(stop *iceportal.Stop) string {
	parts := []string{fmt.Sprintf("%s from start", formatDistance(stop.Info.DistanceFromStart))}
	if stop.Info.PositionStatus != "" {
		parts = append(parts, stop.Info.PositionStatus)
	}
	if coordinates := stop.Station.GeoCoordinates; coordinates != nil {
		parts = append(parts, fmt.Sprintf("%.3f, %.3f", coordinates.Latitude, coordinates.Longitude))
	}
	return lipgloss.NewStyle().
		Foreground(model.theme.FaintText).
		Render("      " + strings.Join(parts, " · "))
}

// renderStatusBar renders the per-feed health line. Unreachable feeds
// get a persistent warning rather than silently vanishing data.
func (model Model) renderStatusBar() string {
	var parts []string
	for _, endpoint := range []journey.Endpoint{journey.EndpointStatus, journey.EndpointTrip} {
		state := model.snapshot.State(endpoint)
		badge := lipgloss.NewStyle().
			Foreground(model.theme.FreshnessColor(state.Freshness)).
			Render("● " + state.Freshness.String())
		parts = append(parts, fmt.Sprintf("%s: %s %s",
			endpoint, badge, formatAgo(state.LastUpdate, model.now)))
	}

	bar := strings.Join(parts, "  │  ")

	for _, endpoint := range []journey.Endpoint{journey.EndpointStatus, journey.EndpointTrip} {
		state := model.snapshot.State(endpoint)
		if state.Freshness == journey.FreshnessUnreachable {
			text := fmt.Sprintf("  %s FEED UNAVAILABLE", strings.ToUpper(endpoint.String()))
			if state.LastError != "" {
				text += fmt.Sprintf(" (%s)", state.LastError)
			}
			bar += lipgloss.NewStyle().
				Foreground(model.theme.UnreachableColor).
				Bold(true).
				Render(text)
		}
	}

	return ansi.Truncate(bar, model.width, "…")
}

func (model Model) renderHelp() string {
	entries := []string{
		model.keys.NextPanel.Help().Key + " " + model.keys.NextPanel.Help().Desc,
		model.keys.Down.Help().Key + " " + model.keys.Down.Help().Desc,
		model.keys.ToggleDetail.Help().Key + " " + model.keys.ToggleDetail.Help().Desc,
		model.keys.Quit.Help().Key + " " + model.keys.Quit.Help().Desc,
	}
	help := lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		Render(strings.Join(entries, " · "))
	return ansi.Truncate(help, model.width, "…")
}
