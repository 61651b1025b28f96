package testing

import "github.com/aristath/spacedash/internal/domain"

func ptr[T any](v T) *T {
	return &v
}

// NewRocketFixtures returns four rockets, two of them active
func NewRocketFixtures() []domain.Rocket {
	return []domain.Rocket{
		{
			ID: "5e9d0d95eda69955f709d1eb", Name: "Falcon 1", Active: false,
			Height:        domain.Dimension{Meters: ptr(22.25), Feet: ptr(73.0)},
			Mass:          domain.Mass{Kg: ptr(30146.0), Lb: ptr(66460.0)},
			CostPerLaunch: 6700000, SuccessRatePct: 40, FirstFlight: "2006-03-24",
		},
		{
			ID: "5e9d0d95eda69973a809d1ec", Name: "Falcon 9", Active: true,
			Height:        domain.Dimension{Meters: ptr(70.0), Feet: ptr(229.6)},
			Mass:          domain.Mass{Kg: ptr(549054.0), Lb: ptr(1207920.0)},
			CostPerLaunch: 50000000, SuccessRatePct: 98, FirstFlight: "2010-06-04",
		},
		{
			ID: "5e9d0d95eda69974db09d1ed", Name: "Falcon Heavy", Active: true,
			Height:        domain.Dimension{Meters: ptr(70.0), Feet: ptr(229.6)},
			Mass:          domain.Mass{Kg: ptr(1420788.0), Lb: ptr(3125735.0)},
			CostPerLaunch: 90000000, SuccessRatePct: 100, FirstFlight: "2018-02-06",
		},
		{
			ID: "5e9d0d96eda699382d09d1ee", Name: "Starship", Active: false,
			Height:        domain.Dimension{Meters: ptr(118.0), Feet: ptr(387.0)},
			Mass:          domain.Mass{Kg: ptr(1335000.0), Lb: ptr(2943000.0)},
			CostPerLaunch: 7000000, SuccessRatePct: 0, FirstFlight: "2021-12-01",
		},
	}
}

// NewLaunchFixtures returns five launches: two successes in 2020, one failure in 2006,
// one success in 2021 and one upcoming launch without an outcome.
func NewLaunchFixtures() []domain.Launch {
	return []domain.Launch{
		{ID: "l1", Name: "FalconSat", FlightNumber: 1, Rocket: "5e9d0d95eda69955f709d1eb", DateUTC: "2006-03-24T22:30:00.000Z", Success: ptr(false)},
		{ID: "l2", Name: "CRS-20", FlightNumber: 91, Rocket: "5e9d0d95eda69973a809d1ec", DateUTC: "2020-03-07T04:50:31.000Z", Success: ptr(true), Details: ptr("Last flight of Dragon 1")},
		{ID: "l3", Name: "Demo-2", FlightNumber: 94, Rocket: "5e9d0d95eda69973a809d1ec", DateUTC: "2020-05-30T19:22:00.000Z", Success: ptr(true)},
		{ID: "l4", Name: "Crew-2", FlightNumber: 123, Rocket: "5e9d0d95eda69973a809d1ec", DateUTC: "2021-04-23T09:49:00.000Z", Success: ptr(true)},
		{ID: "l5", Name: "USSF-44", FlightNumber: 187, Rocket: "5e9d0d95eda69974db09d1ed", DateUTC: "2022-11-01T13:41:00.000Z", Upcoming: true},
	}
}

// NewStarlinkFixtures returns four satellites: one decayed and one without orbital data
func NewStarlinkFixtures() []domain.StarlinkSatellite {
	return []domain.StarlinkSatellite{
		{
			ID: "s1", Version: "v1.0", Launch: "l3",
			SpaceTrack:  &domain.SpaceTrack{ObjectID: "2019-074A", ObjectName: "STARLINK-1007", LaunchDate: ptr("2019-11-11"), Inclination: ptr(53.0)},
			Longitude:   ptr(10.0), Latitude: ptr(20.0), HeightKm: ptr(550.0), VelocityKms: ptr(7.6),
		},
		{
			ID: "s2", Version: "v1.0", Launch: "l3",
			SpaceTrack:  &domain.SpaceTrack{ObjectID: "2019-074B", ObjectName: "STARLINK-1008", LaunchDate: ptr("2019-11-11"), Inclination: ptr(53.2), DecayDate: ptr("2021-06-01")},
			HeightKm:    ptr(350.0), VelocityKms: ptr(7.8),
		},
		{
			ID: "s3", Version: "v1.5", Launch: "l4",
			SpaceTrack:     &domain.SpaceTrack{ObjectID: "2021-036A", ObjectName: "STARLINK-2501"},
			InclinationDeg: ptr(97.6), HeightKm: ptr(560.0), VelocityKms: ptr(7.5),
		},
		{ID: "s4", Version: "prototype", Launch: "l4"},
	}
}
