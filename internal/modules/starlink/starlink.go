// Package starlink normalizes satellite records and derives constellation statistics.
package starlink

import (
	"math"

	"github.com/aristath/spacedash/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// Satellite is the public, normalized shape of a Starlink satellite
type Satellite struct {
	ID             string   `json:"id" msgpack:"id"`
	ObjectID       string   `json:"object_id" msgpack:"object_id"`
	Name           string   `json:"name" msgpack:"name"`
	Version        string   `json:"version" msgpack:"version"`
	Launch         string   `json:"launch" msgpack:"launch"`
	LaunchDate     *string  `json:"launch_date" msgpack:"launch_date"`
	Longitude      *float64 `json:"longitude" msgpack:"longitude"`
	Latitude       *float64 `json:"latitude" msgpack:"latitude"`
	HeightKm       *float64 `json:"height_km" msgpack:"height_km"`
	VelocityKms    *float64 `json:"velocity_kms" msgpack:"velocity_kms"`
	InclinationDeg *float64 `json:"inclination_deg" msgpack:"inclination_deg"`
	Decayed        bool     `json:"decayed" msgpack:"decayed"`
	DecayDate      *string  `json:"decay_date" msgpack:"decay_date"`
}

// Filter selects satellites; nil fields are ignored.
// A satellite missing the filtered value never matches.
type Filter struct {
	AltitudeMin    *float64
	InclinationMin *float64
}

// Stats summarises a set of satellites
type Stats struct {
	Total          int     `json:"total" msgpack:"total"`
	Decayed        int     `json:"decayed" msgpack:"decayed"`
	Deployed       int     `json:"deployed" msgpack:"deployed"`
	AvgAltitudeKm  float64 `json:"avg_altitude_km" msgpack:"avg_altitude_km"`
	AvgVelocityKms float64 `json:"avg_velocity_kms" msgpack:"avg_velocity_kms"`
}

// Normalize builds a new Satellite from a raw record, resolving the inclination
// from whichever field carried it and deriving the decay state.
func Normalize(s domain.StarlinkSatellite) Satellite {
	out := Satellite{
		ID:             s.ID,
		Version:        s.Version,
		Launch:         s.Launch,
		Longitude:      s.Longitude,
		Latitude:       s.Latitude,
		HeightKm:       s.HeightKm,
		VelocityKms:    s.VelocityKms,
		InclinationDeg: s.InclinationDegrees(),
		Decayed:        s.Decayed(),
		DecayDate:      s.DecayDate(),
	}
	if s.SpaceTrack != nil {
		out.ObjectID = s.SpaceTrack.ObjectID
		out.Name = s.SpaceTrack.ObjectName
		out.LaunchDate = s.SpaceTrack.LaunchDate
	}
	return out
}

// NormalizeAll normalizes every record
func NormalizeAll(sats []domain.StarlinkSatellite) []Satellite {
	out := make([]Satellite, 0, len(sats))
	for _, s := range sats {
		out = append(out, Normalize(s))
	}
	return out
}

// Apply returns the satellites matching every active criterion, in input order
func Apply(sats []Satellite, f Filter) []Satellite {
	out := make([]Satellite, 0, len(sats))
	for _, s := range sats {
		if !atLeast(s.HeightKm, f.AltitudeMin) {
			continue
		}
		if !atLeast(s.InclinationDeg, f.InclinationMin) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func atLeast(value, min *float64) bool {
	if min == nil {
		return true
	}
	return value != nil && *value >= *min
}

// ComputeStats counts decayed and deployed satellites and averages the known altitudes and velocities
func ComputeStats(sats []Satellite) Stats {
	s := Stats{Total: len(sats)}

	var altitudes, velocities []float64
	for _, sat := range sats {
		if sat.Decayed {
			s.Decayed++
		} else {
			s.Deployed++
		}
		if sat.HeightKm != nil {
			altitudes = append(altitudes, *sat.HeightKm)
		}
		if sat.VelocityKms != nil {
			velocities = append(velocities, *sat.VelocityKms)
		}
	}

	if len(altitudes) > 0 {
		s.AvgAltitudeKm = round2(stat.Mean(altitudes, nil))
	}
	if len(velocities) > 0 {
		s.AvgVelocityKms = round2(stat.Mean(velocities, nil))
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
