// Package dashboard aggregates headline counts across rockets, launches and Starlink.
package dashboard

import "github.com/aristath/spacedash/internal/domain"

// Summary is the dashboard payload
type Summary struct {
	Rockets  RocketCounts   `json:"rockets" msgpack:"rockets"`
	Launches LaunchCounts   `json:"launches" msgpack:"launches"`
	Starlink StarlinkCounts `json:"starlink" msgpack:"starlink"`
}

// RocketCounts counts rockets
type RocketCounts struct {
	Total  int `json:"total" msgpack:"total"`
	Active int `json:"active" msgpack:"active"`
}

// LaunchCounts counts launches
type LaunchCounts struct {
	Total      int `json:"total" msgpack:"total"`
	Successful int `json:"successful" msgpack:"successful"`
	Upcoming   int `json:"upcoming" msgpack:"upcoming"`
}

// StarlinkCounts counts satellites; deployed means no decay date
type StarlinkCounts struct {
	Total    int `json:"total" msgpack:"total"`
	Deployed int `json:"deployed" msgpack:"deployed"`
}

// Summarize computes the dashboard counts
func Summarize(rockets []domain.Rocket, launches []domain.Launch, sats []domain.StarlinkSatellite) Summary {
	s := Summary{
		Rockets:  RocketCounts{Total: len(rockets)},
		Launches: LaunchCounts{Total: len(launches)},
		Starlink: StarlinkCounts{Total: len(sats)},
	}

	for _, r := range rockets {
		if r.Active {
			s.Rockets.Active++
		}
	}
	for _, l := range launches {
		if l.Succeeded() {
			s.Launches.Successful++
		}
		if l.Upcoming {
			s.Launches.Upcoming++
		}
	}
	for _, sat := range sats {
		if !sat.Decayed() {
			s.Starlink.Deployed++
		}
	}

	return s
}
