// Package rockets projects rocket records and derives fleet statistics.
package rockets

import (
	"math"

	"github.com/aristath/spacedash/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// Summary is the public shape of a rocket
type Summary struct {
	ID             string   `json:"id" msgpack:"id"`
	Name           string   `json:"name" msgpack:"name"`
	Active         bool     `json:"active" msgpack:"active"`
	HeightMeters   *float64 `json:"height" msgpack:"height"`
	MassKg         *float64 `json:"mass" msgpack:"mass"`
	CostPerLaunch  int64    `json:"cost_per_launch" msgpack:"cost_per_launch"`
	SuccessRatePct float64  `json:"success_rate_pct" msgpack:"success_rate_pct"`
	FirstFlight    string   `json:"first_flight" msgpack:"first_flight"`
}

// Stats summarises a set of rockets
type Stats struct {
	Total             int     `json:"total" msgpack:"total"`
	Active            int     `json:"active" msgpack:"active"`
	AvgSuccessRatePct float64 `json:"avg_success_rate_pct" msgpack:"avg_success_rate_pct"`
	AvgCostPerLaunch  float64 `json:"avg_cost_per_launch" msgpack:"avg_cost_per_launch"`
}

// FilterActive keeps rockets whose active flag equals *active; nil keeps everything
func FilterActive(rockets []domain.Rocket, active *bool) []domain.Rocket {
	out := make([]domain.Rocket, 0, len(rockets))
	for _, r := range rockets {
		if active != nil && r.Active != *active {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Project maps a rocket to its public shape
func Project(r domain.Rocket) Summary {
	return Summary{
		ID:             r.ID,
		Name:           r.Name,
		Active:         r.Active,
		HeightMeters:   r.Height.Meters,
		MassKg:         r.Mass.Kg,
		CostPerLaunch:  r.CostPerLaunch,
		SuccessRatePct: r.SuccessRatePct,
		FirstFlight:    r.FirstFlight,
	}
}

// ProjectAll maps every rocket to its public shape
func ProjectAll(rockets []domain.Rocket) []Summary {
	out := make([]Summary, 0, len(rockets))
	for _, r := range rockets {
		out = append(out, Project(r))
	}
	return out
}

// ComputeStats counts rockets and averages success rate and cost. Averages are 0 for an empty set.
func ComputeStats(rockets []domain.Rocket) Stats {
	s := Stats{Total: len(rockets)}
	if len(rockets) == 0 {
		return s
	}

	rates := make([]float64, 0, len(rockets))
	costs := make([]float64, 0, len(rockets))
	for _, r := range rockets {
		if r.Active {
			s.Active++
		}
		rates = append(rates, r.SuccessRatePct)
		costs = append(costs, float64(r.CostPerLaunch))
	}

	s.AvgSuccessRatePct = round2(stat.Mean(rates, nil))
	s.AvgCostPerLaunch = round2(stat.Mean(costs, nil))
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
