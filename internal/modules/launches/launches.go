// Package launches filters launch records and derives outcome statistics.
package launches

import (
	"math"

	"github.com/aristath/spacedash/internal/domain"
)

// Filter selects launches; nil fields are ignored
type Filter struct {
	Year    *int
	Success *bool // Launches without a known outcome never match
}

// Stats summarises a set of launches
type Stats struct {
	Total       int     `json:"total" msgpack:"total"`
	Successful  int     `json:"successful" msgpack:"successful"`
	Failed      int     `json:"failed" msgpack:"failed"`
	Upcoming    int     `json:"upcoming" msgpack:"upcoming"`
	SuccessRate float64 `json:"success_rate" msgpack:"success_rate"` // Percent, 2 decimals
}

// Apply returns the launches matching every active criterion, in input order
func Apply(launches []domain.Launch, f Filter) []domain.Launch {
	out := make([]domain.Launch, 0, len(launches))
	for _, l := range launches {
		if f.Year != nil {
			year, ok := l.Year()
			if !ok || year != *f.Year {
				continue
			}
		}
		if f.Success != nil {
			if l.Success == nil || *l.Success != *f.Success {
				continue
			}
		}
		out = append(out, l)
	}
	return out
}

// ComputeStats counts outcomes. The success rate is successful/total as a percentage, 0 for no launches.
func ComputeStats(launches []domain.Launch) Stats {
	s := Stats{Total: len(launches)}
	for _, l := range launches {
		switch {
		case l.Succeeded():
			s.Successful++
		case l.Failed():
			s.Failed++
		}
		if l.Upcoming {
			s.Upcoming++
		}
	}
	if s.Total > 0 {
		s.SuccessRate = math.Round(float64(s.Successful)/float64(s.Total)*100*100) / 100
	}
	return s
}
