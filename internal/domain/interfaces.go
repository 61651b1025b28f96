package domain

import "context"

// SpaceXDataProvider is what the route handlers need from the data service.
// Each call returns a fresh copy of the records, so callers may modify them freely.
type SpaceXDataProvider interface {
	GetRockets(ctx context.Context) ([]Rocket, error)
	GetLaunches(ctx context.Context) ([]Launch, error)
	GetStarlink(ctx context.Context) ([]StarlinkSatellite, error)
}
