package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
	"github.com/pkordes/wetravel-itinerary/internal/seed"
	"github.com/pkordes/wetravel-itinerary/internal/service"
)

func TestExportService_Export(t *testing.T) {
	itineraries, tripID, _ := newSeededService(t)
	trips := service.NewTripService(tripExists(tripID), itineraries)
	svc := service.NewExportService(trips, itineraries)

	rows, err := svc.Export(context.Background(), tripID)

	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Fullerton Day", rows[0].TripName)
	assert.Equal(t, "1", rows[0].StopID)
	assert.Equal(t, 540, rows[0].Start)
	assert.Equal(t, 660, rows[0].End)
	assert.Equal(t, 5, rows[5].Position)
}

func TestExportService_Export_TripNotFound(t *testing.T) {
	itineraries, tripID, _ := newSeededService(t)
	svc := service.NewExportService(service.NewTripService(tripExists(tripID), itineraries), itineraries)

	_, err := svc.Export(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSeedDemo(t *testing.T) {
	tripID := uuid.New()
	repo := newMemStopRepo()
	tripRepo := tripExists(tripID)
	tripRepo.create = func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
		trip.ID = tripID
		return trip, nil
	}
	itineraries := service.NewItineraryService(tripRepo, repo, nil, nil)
	trips := service.NewTripService(tripRepo, itineraries)
	demo, err := seed.Demo()
	require.NoError(t, err)

	trip, err := service.SeedDemo(context.Background(), trips, itineraries, "Fullerton Day", demo)

	require.NoError(t, err)
	assert.Equal(t, tripID, trip.ID)
	assert.Len(t, repo.byTrip[tripID], 6)
}
