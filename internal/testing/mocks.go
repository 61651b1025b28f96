package testing

import (
	"context"
	"sync"

	"github.com/aristath/spacedash/internal/domain"
)

// MockSpaceXDataProvider is a mock implementation of domain.SpaceXDataProvider for testing
type MockSpaceXDataProvider struct {
	mu       sync.RWMutex
	rockets  []domain.Rocket
	launches []domain.Launch
	starlink []domain.StarlinkSatellite
	errs     map[string]error
	calls    map[string]int
}

// NewMockSpaceXDataProvider creates a new mock data provider
func NewMockSpaceXDataProvider() *MockSpaceXDataProvider {
	return &MockSpaceXDataProvider{
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

// SetRockets sets the rockets to return
func (m *MockSpaceXDataProvider) SetRockets(rockets []domain.Rocket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rockets = rockets
}

// SetLaunches sets the launches to return
func (m *MockSpaceXDataProvider) SetLaunches(launches []domain.Launch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.launches = launches
}

// SetStarlink sets the satellites to return
func (m *MockSpaceXDataProvider) SetStarlink(sats []domain.StarlinkSatellite) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starlink = sats
}

// SetError makes calls for the given resource ("rockets", "launches", "starlink") fail
func (m *MockSpaceXDataProvider) SetError(resource string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[resource] = err
}

// Calls returns how many times the given resource was requested
func (m *MockSpaceXDataProvider) Calls(resource string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[resource]
}

func (m *MockSpaceXDataProvider) record(resource string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[resource]++
	return m.errs[resource]
}

// GetRockets returns a copy of the configured rockets
func (m *MockSpaceXDataProvider) GetRockets(ctx context.Context) ([]domain.Rocket, error) {
	if err := m.record("rockets"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Rocket(nil), m.rockets...), nil
}

// GetLaunches returns a copy of the configured launches
func (m *MockSpaceXDataProvider) GetLaunches(ctx context.Context) ([]domain.Launch, error) {
	if err := m.record("launches"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Launch(nil), m.launches...), nil
}

// GetStarlink returns a copy of the configured satellites
func (m *MockSpaceXDataProvider) GetStarlink(ctx context.Context) ([]domain.StarlinkSatellite, error) {
	if err := m.record("starlink"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.StarlinkSatellite(nil), m.starlink...), nil
}
