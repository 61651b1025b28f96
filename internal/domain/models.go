// Package domain contains the SpaceX record types shared by the client,
// the data service and the route handlers.
package domain

import (
	"strings"
	"time"
)

// Rocket is a record from /v4/rockets
type Rocket struct {
	ID             string    `json:"id" msgpack:"id"`
	Name           string    `json:"name" msgpack:"name"`
	Active         bool      `json:"active" msgpack:"active"`
	Height         Dimension `json:"height" msgpack:"height"`
	Mass           Mass      `json:"mass" msgpack:"mass"`
	CostPerLaunch  int64     `json:"cost_per_launch" msgpack:"cost_per_launch"`
	SuccessRatePct float64   `json:"success_rate_pct" msgpack:"success_rate_pct"`
	FirstFlight    string    `json:"first_flight" msgpack:"first_flight"`
}

// Dimension is a length reported in both unit systems
type Dimension struct {
	Meters *float64 `json:"meters" msgpack:"meters"`
	Feet   *float64 `json:"feet" msgpack:"feet"`
}

// Mass is a weight reported in both unit systems
type Mass struct {
	Kg *float64 `json:"kg" msgpack:"kg"`
	Lb *float64 `json:"lb" msgpack:"lb"`
}

// Launch is a record from /v4/launches
type Launch struct {
	ID           string  `json:"id" msgpack:"id"`
	Name         string  `json:"name" msgpack:"name"`
	FlightNumber int     `json:"flight_number" msgpack:"flight_number"`
	Rocket       string  `json:"rocket" msgpack:"rocket"`
	Details      *string `json:"details" msgpack:"details"`
	DateUTC      string  `json:"date_utc" msgpack:"date_utc"`
	Success      *bool   `json:"success" msgpack:"success"` // nil until the launch outcome is known
	Upcoming     bool    `json:"upcoming" msgpack:"upcoming"`
}

// Year extracts the calendar year from DateUTC.
// Falls back to the leading four digits for timestamps that are not strict RFC 3339.
func (l Launch) Year() (int, bool) {
	if l.DateUTC == "" {
		return 0, false
	}
	if t, err := time.Parse(time.RFC3339, l.DateUTC); err == nil {
		return t.UTC().Year(), true
	}
	if len(l.DateUTC) < 4 {
		return 0, false
	}
	year := 0
	for _, r := range l.DateUTC[:4] {
		if r < '0' || r > '9' {
			return 0, false
		}
		year = year*10 + int(r-'0')
	}
	return year, true
}

// Succeeded reports whether the launch is known to have succeeded.
func (l Launch) Succeeded() bool {
	return l.Success != nil && *l.Success
}

// Failed reports whether the launch is known to have failed.
func (l Launch) Failed() bool {
	return l.Success != nil && !*l.Success
}

// StarlinkSatellite is a record from /v4/starlink
type StarlinkSatellite struct {
	ID          string      `json:"id" msgpack:"id"`
	SpaceTrack  *SpaceTrack `json:"spaceTrack" msgpack:"spaceTrack"`
	Version     string      `json:"version" msgpack:"version"`
	Launch      string      `json:"launch" msgpack:"launch"`
	Longitude   *float64    `json:"longitude" msgpack:"longitude"`
	Latitude    *float64    `json:"latitude" msgpack:"latitude"`
	HeightKm    *float64    `json:"height_km" msgpack:"height_km"`
	VelocityKms *float64    `json:"velocity_kms" msgpack:"velocity_kms"`

	// Some payloads carry the inclination at the top level instead of under spaceTrack
	Inclination    *float64 `json:"inclination" msgpack:"inclination"`
	InclinationDeg *float64 `json:"inclination_deg" msgpack:"inclination_deg"`
}

// SpaceTrack holds the Space-Track.org orbital data attached to a satellite
type SpaceTrack struct {
	ObjectID    string   `json:"OBJECT_ID" msgpack:"OBJECT_ID"`
	ObjectName  string   `json:"OBJECT_NAME" msgpack:"OBJECT_NAME"`
	LaunchDate  *string  `json:"LAUNCH_DATE" msgpack:"LAUNCH_DATE"`
	Inclination *float64 `json:"INCLINATION" msgpack:"INCLINATION"`
	DecayDate   *string  `json:"DECAY_DATE" msgpack:"DECAY_DATE"`
}

// DecayDate returns the decay date, or nil when the satellite has not decayed.
func (s StarlinkSatellite) DecayDate() *string {
	if s.SpaceTrack == nil || s.SpaceTrack.DecayDate == nil {
		return nil
	}
	if strings.TrimSpace(*s.SpaceTrack.DecayDate) == "" {
		return nil
	}
	return s.SpaceTrack.DecayDate
}

// Decayed reports whether a decay date is present.
func (s StarlinkSatellite) Decayed() bool {
	return s.DecayDate() != nil
}

// InclinationDegrees resolves the inclination regardless of which field carried it.
// spaceTrack.INCLINATION wins over the top-level variants.
func (s StarlinkSatellite) InclinationDegrees() *float64 {
	if s.SpaceTrack != nil && s.SpaceTrack.Inclination != nil {
		return s.SpaceTrack.Inclination
	}
	if s.InclinationDeg != nil {
		return s.InclinationDeg
	}
	return s.Inclination
}
