package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// stopsFixture returns three stops covering every optional column.
func stopsFixture() []domain.Stop {
	active := domain.StatusActive
	return []domain.Stop{
		{
			ID:              "1",
			LocationName:    "Arboretum at CSUF",
			LocationRef:     "ChIJOaBMicnV3IARAL72MNhOh80",
			PlannedStart:    domain.IntPtr(540),
			DurationMinutes: 120,
			Note:            "Great for nature photography.",
			OrderIndex:      0,
			Coordinates:     &domain.Coordinates{Lat: 33.8864, Lon: -117.8853},
			Status:          &active,
			ActualArrival:   domain.IntPtr(545),
		},
		{ID: "2", LocationName: "Downtown Plaza", DurationMinutes: 150, OrderIndex: 1},
		{ID: "3", LocationName: "Library", PlannedStart: domain.IntPtr(900), OrderIndex: 2},
	}
}

func TestStopRepo_ReplaceAll_RoundTrip(t *testing.T) {
	tripRepo, stopRepo := newTestRepos(t)
	ctx := context.Background()
	parent := mustCreateTrip(t, tripRepo)

	require.NoError(t, stopRepo.ReplaceAll(ctx, parent.ID, stopsFixture()))

	got, err := stopRepo.ListByTripID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, stopsFixture(), got)
}

func TestStopRepo_ReplaceAll_Overwrites(t *testing.T) {
	tripRepo, stopRepo := newTestRepos(t)
	ctx := context.Background()
	parent := mustCreateTrip(t, tripRepo)
	require.NoError(t, stopRepo.ReplaceAll(ctx, parent.ID, stopsFixture()))

	// Compacted snapshot after deleting the first stop.
	next := stopsFixture()[1:]
	for i := range next {
		next[i].OrderIndex = i
	}
	require.NoError(t, stopRepo.ReplaceAll(ctx, parent.ID, next))

	got, err := stopRepo.ListByTripID(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, 0, got[0].OrderIndex)
	assert.Equal(t, "3", got[1].ID)
}

func TestStopRepo_ReplaceAll_RejectsOutOfRangeStart(t *testing.T) {
	tripRepo, stopRepo := newTestRepos(t)
	ctx := context.Background()
	parent := mustCreateTrip(t, tripRepo)
	require.NoError(t, stopRepo.ReplaceAll(ctx, parent.ID, stopsFixture()))

	bad := []domain.Stop{{ID: "x", PlannedStart: domain.IntPtr(2000), OrderIndex: 0}}
	err := stopRepo.ReplaceAll(ctx, parent.ID, bad)

	require.Error(t, err)
	got, err := stopRepo.ListByTripID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Len(t, got, 3, "failed replace must roll back")
}

func TestStopRepo_ListByTripID_Empty(t *testing.T) {
	tripRepo, stopRepo := newTestRepos(t)
	parent := mustCreateTrip(t, tripRepo)

	got, err := stopRepo.ListByTripID(context.Background(), parent.ID)

	require.NoError(t, err)
	assert.NotNil(t, got, "should return empty slice, not nil")
	assert.Len(t, got, 0)
}

func TestStopRepo_DeleteTripCascades(t *testing.T) {
	tripRepo, stopRepo := newTestRepos(t)
	ctx := context.Background()
	parent := mustCreateTrip(t, tripRepo)
	require.NoError(t, stopRepo.ReplaceAll(ctx, parent.ID, stopsFixture()))

	require.NoError(t, tripRepo.Delete(ctx, parent.ID))

	got, err := stopRepo.ListByTripID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
