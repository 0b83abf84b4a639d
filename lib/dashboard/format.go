// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"fmt"
	"time"
)

// unknownValue stands in for any field whose feed has never delivered
// data. Never render a zero that could pass for a measurement.
const unknownValue = "--"

// formatDistance renders a distance in meters as kilometers, keeping
// one decimal below 10 km where the resolution still means something.
func formatDistance(meters int64) string {
	if meters < 0 {
		return unknownValue
	}
	kilometers := float64(meters) / 1000
	if kilometers < 10 {
		return fmt.Sprintf("%.1f km", kilometers)
	}
	return fmt.Sprintf("%.0f km", kilometers)
}

// formatSpeed renders km/h without decimals.
func formatSpeed(speed float64) string {
	return fmt.Sprintf("%.0f km/h", speed)
}

// formatClock renders a portal timestamp (milliseconds since epoch)
// as local wall-clock time. Zero renders as unknown.
func formatClock(millis int64) string {
	if millis == 0 {
		return unknownValue
	}
	return time.UnixMilli(millis).Local().Format("15:04")
}

// formatDelay renders a delay in minutes as "+3" / "-1"; on time
// renders empty so the route list stays quiet when nothing is wrong.
func formatDelay(minutes int64) string {
	if minutes == 0 {
		return ""
	}
	return fmt.Sprintf("%+d", minutes)
}

// formatAgo renders the age of a timestamp relative to now, coarsely:
// seconds below a minute, minutes beyond. Ages below a second render
// as "now".
func formatAgo(timestamp time.Time, now time.Time) string {
	if timestamp.IsZero() {
		return "never"
	}
	age := now.Sub(timestamp)
	switch {
	case age < time.Second:
		return "now"
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	default:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
}

// formatPercent renders a fraction of total as a percentage.
func formatPercent(part, total int64) string {
	if total <= 0 {
		return unknownValue
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}
