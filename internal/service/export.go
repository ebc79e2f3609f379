package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
	"github.com/pkordes/wetravel-itinerary/internal/schedule"
)

// ExportRow is one stop of a trip, flattened for CSV and JSON download, with
// its computed schedule slot alongside the stored fields.
type ExportRow struct {
	TripID       uuid.UUID
	TripName     string
	Position     int
	StopID       string
	LocationName string
	LocationRef  string
	PlannedStart *int
	Start        int
	End          int
	Duration     int
	Note         string
	Status       string
}

// ExportService assembles a flat export of one trip's itinerary.
type ExportService struct {
	trips       *TripService
	itineraries *ItineraryService
}

// NewExportService constructs an ExportService.
func NewExportService(trips *TripService, itineraries *ItineraryService) *ExportService {
	return &ExportService{trips: trips, itineraries: itineraries}
}

// Export returns one ExportRow per stop in itinerary order.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ExportService) Export(ctx context.Context, tripID uuid.UUID) ([]ExportRow, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	stops, err := s.itineraries.ListStops(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	slots := schedule.Compute(stops)
	rows := make([]ExportRow, 0, len(stops))
	for i, st := range stops {
		row := ExportRow{
			TripID:       trip.ID,
			TripName:     trip.Name,
			Position:     st.OrderIndex,
			StopID:       st.ID,
			LocationName: st.LocationName,
			LocationRef:  st.LocationRef,
			PlannedStart: st.PlannedStart,
			Start:        slots[i].Start,
			End:          slots[i].End,
			Duration:     st.DurationMinutes,
			Note:         st.Note,
		}
		if st.Status != nil {
			row.Status = string(*st.Status)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SeedDemo creates a trip holding the given stops. It is used at startup to
// give local runs something to look at.
func SeedDemo(ctx context.Context, trips *TripService, itineraries *ItineraryService, name string, stops []domain.Stop) (domain.Trip, error) {
	trip, err := trips.Create(ctx, domain.Trip{Name: name})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.SeedDemo: %w", err)
	}
	if _, err := itineraries.ImportStops(ctx, trip.ID, stops); err != nil {
		return domain.Trip{}, fmt.Errorf("service.SeedDemo: %w", err)
	}
	return trip, nil
}
