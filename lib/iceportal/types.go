// Copyright 2026 The Bordmonitor Authors
// SPDX-License-Identifier: Apache-2.0

package iceportal

import "time"

// Status is the payload of GET /api1/rs/status: the train's live
// telemetry. A Status is immutable once decoded — a fresh fetch
// produces a new value and never mutates a prior one.
type Status struct {
	// Connection reports whether the onboard backend currently has
	// an uplink to the outside world.
	Connection   bool   `json:"connection"`
	ServiceLevel string `json:"serviceLevel"`
	GPSStatus    string `json:"gpsStatus"`

	// Internet is the vendor's connectivity grade for the passenger
	// WiFi, typically HIGH, MIDDLE, LOW or UNSTABLE.
	Internet string `json:"internet"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TileX     int64   `json:"tileX"`
	TileY     int64   `json:"tileY"`

	// Series identifies the rolling-stock series.
	Series string `json:"series"`

	// ServerTime is the portal's clock in milliseconds since epoch.
	// It dates the measurement; the client's own receive time is
	// tracked separately by the merger.
	ServerTime int64 `json:"serverTime"`

	// Speed is the current speed in km/h.
	Speed float64 `json:"speed"`

	TrainType string `json:"trainType"`

	// TZN is the vehicle number ("Triebzugnummer"), e.g. "ICE 0304".
	TZN string `json:"tzn"`

	WagonClass string `json:"wagonClass"`

	Connectivity Connectivity `json:"connectivity"`

	BAPInstalled bool `json:"bapInstalled"`
}

// Connectivity describes the expected WiFi quality ahead: the current
// state and, when the portal knows about an upcoming dead zone, the
// next state and the seconds until it begins.
type Connectivity struct {
	CurrentState         string  `json:"currentState"`
	NextState            *string `json:"nextState"`
	RemainingTimeSeconds *int64  `json:"remainingTimeSeconds"`
}

// MeasuredAt converts ServerTime to a time.Time.
func (status *Status) MeasuredAt() time.Time {
	return time.UnixMilli(status.ServerTime)
}

// tripEnvelope is the top-level payload of GET /api1/rs/tripInfo/trip.
// Only the trip itself and the connecting-train block are interesting;
// the envelope is not exposed to callers.
type tripEnvelope struct {
	Trip       Trip        `json:"trip"`
	Connection *Connection `json:"connection"`
	Active     *bool       `json:"active"`
}

// Trip is the journey description: identity, progress along the
// route, and the full stop sequence. Immutable once decoded.
type Trip struct {
	TripDate  string `json:"tripDate"`
	TrainType string `json:"trainType"`

	// VZN is the advertised train number ("Verkehrliche Zugnummer"),
	// e.g. "881" for ICE 881.
	VZN string `json:"vzn"`

	// ActualPosition is the distance traveled from the first stop,
	// in meters.
	ActualPosition int64 `json:"actualPosition"`

	// DistanceFromLastStop is meters since the previous stop.
	DistanceFromLastStop int64 `json:"distanceFromLastStop"`

	// TotalDistance is the full route length in meters.
	TotalDistance int64 `json:"totalDistance"`

	StopInfo StopInfo `json:"stopInfo"`
	Stops    []Stop   `json:"stops"`

	// Connection carries the connecting-train details published for
	// the next stop, when the portal provides them.
	Connection *Connection `json:"-"`
}

// StopInfo names the waypoints that frame the train's current
// position: the next scheduled stop, the last one served, and the
// final destination. Stops are referenced by their EVA number.
type StopInfo struct {
	ScheduledNext     string `json:"scheduledNext"`
	ActualNext        string `json:"actualNext"`
	ActualLast        string `json:"actualLast"`
	ActualLastStarted string `json:"actualLastStarted"`
	FinalStationName  string `json:"finalStationName"`
	FinalStationEvaNr string `json:"finalStationEvaNr"`
}

// Station identifies a stop on the route.
type Station struct {
	EvaNr          string          `json:"evaNr"`
	Name           string          `json:"name"`
	Code           *string         `json:"code"`
	GeoCoordinates *GeoCoordinates `json:"geocoordinates"`
}

// GeoCoordinates is a WGS84 position.
type GeoCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Timetable holds the scheduled and actual times for one stop. All
// timestamps are milliseconds since epoch. Arrival fields are nil at
// the first station of the route and departure fields at the last,
// so every field is optional.
type Timetable struct {
	ScheduledArrivalTime    *int64 `json:"scheduledArrivalTime"`
	ActualArrivalTime       *int64 `json:"actualArrivalTime"`
	ShowActualArrivalTime   *bool  `json:"showActualArrivalTime"`
	ArrivalDelay            string `json:"arrivalDelay"`
	ScheduledDepartureTime  *int64 `json:"scheduledDepartureTime"`
	ActualDepartureTime     *int64 `json:"actualDepartureTime"`
	ShowActualDepartureTime *bool  `json:"showActualDepartureTime"`
	DepartureDelay          string `json:"departureDelay"`
}

// ArrivalDelayMinutes computes the arrival delay from the scheduled
// and actual timestamps. Returns 0 when either side is unknown.
func (timetable *Timetable) ArrivalDelayMinutes() int64 {
	if timetable.ScheduledArrivalTime == nil || timetable.ActualArrivalTime == nil {
		return 0
	}
	return (*timetable.ActualArrivalTime - *timetable.ScheduledArrivalTime) / 1000 / 60
}

// Track is the platform assignment for a stop. Actual differs from
// Scheduled when the stop was re-platformed.
type Track struct {
	Scheduled string `json:"scheduled"`
	Actual    string `json:"actual"`
}

// StopStatus is the vendor's per-stop progress block.
type StopStatus struct {
	Status         int64  `json:"status"`
	Passed         bool   `json:"passed"`
	PositionStatus string `json:"positionStatus"`

	// Distance is meters between this stop and its predecessor;
	// DistanceFromStart is cumulative meters from the first stop.
	Distance          int64 `json:"distance"`
	DistanceFromStart int64 `json:"distanceFromStart"`
}

// Stop is one entry of the route's stop sequence.
type Stop struct {
	Station   Station    `json:"station"`
	Timetable Timetable  `json:"timetable"`
	Track     Track      `json:"track"`
	Info      StopStatus `json:"info"`
}

// Connection describes a connecting train reachable at the next stop.
// The portal omits most fields when no connection data is available,
// so everything beyond the conflict status is optional.
type Connection struct {
	TrainType   *string    `json:"trainType"`
	VZN         *string    `json:"vzn"`
	TrainNumber *string    `json:"trainNumber"`
	Station     *Station   `json:"station"`
	Timetable   *Timetable `json:"timetable"`
	Track       *Track     `json:"track"`

	// Conflict is the portal's reachability verdict for the
	// connection, e.g. "NO_CONFLICT", "CONFLICT" or "UNKNOWN".
	Conflict string `json:"conflict"`
}

// NextStop resolves the stop the train is currently heading for, by
// the EVA number in StopInfo. Returns nil when the reference does not
// resolve (end of journey, or inconsistent vendor data).
func (trip *Trip) NextStop() *Stop {
	for index := range trip.Stops {
		if trip.Stops[index].Station.EvaNr == trip.StopInfo.ScheduledNext {
			return &trip.Stops[index]
		}
	}
	return nil
}

// Origin returns the first stop of the route, or nil for an empty
// stop sequence.
func (trip *Trip) Origin() *Stop {
	if len(trip.Stops) == 0 {
		return nil
	}
	return &trip.Stops[0]
}

// Destination returns the last stop of the route, or nil for an empty
// stop sequence.
func (trip *Trip) Destination() *Stop {
	if len(trip.Stops) == 0 {
		return nil
	}
	return &trip.Stops[len(trip.Stops)-1]
}
