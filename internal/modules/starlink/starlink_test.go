package starlink

import (
	"testing"

	"github.com/aristath/spacedash/internal/domain"
	testhelpers "github.com/aristath/spacedash/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func satIDs(sats []Satellite) []string {
	out := make([]string, 0, len(sats))
	for _, s := range sats {
		out = append(out, s.ID)
	}
	return out
}

func TestNormalize(t *testing.T) {
	sats := NormalizeAll(testhelpers.NewStarlinkFixtures())
	require.Len(t, sats, 4)

	first := sats[0]
	assert.Equal(t, "2019-074A", first.ObjectID)
	assert.Equal(t, "STARLINK-1007", first.Name)
	require.NotNil(t, first.LaunchDate)
	assert.Equal(t, "2019-11-11", *first.LaunchDate)
	require.NotNil(t, first.InclinationDeg)
	assert.Equal(t, 53.0, *first.InclinationDeg)
	assert.False(t, first.Decayed)
	assert.Nil(t, first.DecayDate)

	assert.True(t, sats[1].Decayed)
	require.NotNil(t, sats[1].DecayDate)
	assert.Equal(t, "2021-06-01", *sats[1].DecayDate)

	// Top-level inclination_deg is picked up when spaceTrack has none
	require.NotNil(t, sats[2].InclinationDeg)
	assert.Equal(t, 97.6, *sats[2].InclinationDeg)

	// No spaceTrack at all
	assert.Empty(t, sats[3].Name)
	assert.Nil(t, sats[3].InclinationDeg)
	assert.False(t, sats[3].Decayed)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := testhelpers.NewStarlinkFixtures()
	before := *raw[0].SpaceTrack.Inclination

	sats := NormalizeAll(raw)
	v := 1.0
	sats[0].InclinationDeg = &v

	assert.Equal(t, before, *raw[0].SpaceTrack.Inclination)
}

func TestApply(t *testing.T) {
	sats := NormalizeAll(testhelpers.NewStarlinkFixtures())

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"s1", "s2", "s3", "s4"}},
		{"altitude", Filter{AltitudeMin: floatPtr(500)}, []string{"s1", "s3"}},
		{"altitude boundary is inclusive", Filter{AltitudeMin: floatPtr(560)}, []string{"s3"}},
		{"inclination", Filter{InclinationMin: floatPtr(53.1)}, []string{"s2", "s3"}},
		{"both", Filter{AltitudeMin: floatPtr(500), InclinationMin: floatPtr(60)}, []string{"s3"}},
		{"nothing matches", Filter{AltitudeMin: floatPtr(10000)}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, satIDs(Apply(sats, tt.filter)))
		})
	}
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(NormalizeAll(testhelpers.NewStarlinkFixtures()))

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Decayed)
	assert.Equal(t, 3, stats.Deployed)
	assert.Equal(t, 486.67, stats.AvgAltitudeKm)
	assert.Equal(t, 7.63, stats.AvgVelocityKms)
}

func TestComputeStats_DeployedMatchesNullDecayDates(t *testing.T) {
	empty := ""
	date := "2022-01-01"
	raw := []domain.StarlinkSatellite{
		{ID: "a", SpaceTrack: &domain.SpaceTrack{}},
		{ID: "b", SpaceTrack: &domain.SpaceTrack{DecayDate: &date}},
		{ID: "c"},
		{ID: "d", SpaceTrack: &domain.SpaceTrack{DecayDate: &empty}},
	}

	stats := ComputeStats(NormalizeAll(raw))
	assert.Equal(t, 3, stats.Deployed)
	assert.Equal(t, 1, stats.Decayed)
	assert.Equal(t, 0.0, stats.AvgAltitudeKm)
}
