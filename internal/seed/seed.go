// Package seed converts itineraries in the mobile client's legacy shape
// ("09:00 AM" start labels, fractional duration_hours) into domain stops.
// It also embeds the Fullerton demo day used for local runs.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/pkordes/wetravel-itinerary/internal/clock"
	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

//go:embed fullerton.json
var fullerton []byte

// LegacyStop is one row of the legacy trip table / mock data.
type LegacyStop struct {
	ID            string   `json:"id"`
	LocationName  string   `json:"location_name"`
	PlannedTime   *string  `json:"planned_time"`
	DurationHours *float64 `json:"duration_hours"`
	Note          string   `json:"note"`
	PlaceID       string   `json:"location_place_id"`
	OrderIndex    *int     `json:"order_index"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Status        *string  `json:"status,omitempty"`
	ActualArrival *string  `json:"actual_arrival_time,omitempty"`
}

// Demo returns the six-stop Fullerton day.
func Demo() ([]domain.Stop, error) {
	return Decode(fullerton)
}

// Decode parses a JSON array of legacy stops.
func Decode(raw []byte) ([]domain.Stop, error) {
	var rows []LegacyStop
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("seed.Decode: %w", err)
	}
	out := make([]domain.Stop, 0, len(rows))
	for i, row := range rows {
		st, err := row.ToStop()
		if err != nil {
			return nil, fmt.Errorf("seed.Decode: row %d: %w", i, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// ToStop converts one legacy row. A missing order_index becomes -1 so the
// itinerary import re-derives it from list position.
func (l LegacyStop) ToStop() (domain.Stop, error) {
	st := domain.Stop{
		ID:           l.ID,
		LocationName: l.LocationName,
		LocationRef:  l.PlaceID,
		Note:         l.Note,
		OrderIndex:   -1,
	}
	if l.OrderIndex != nil {
		st.OrderIndex = *l.OrderIndex
	}

	if l.PlannedTime != nil {
		start, err := clock.ParseLabel(*l.PlannedTime)
		if err != nil {
			return domain.Stop{}, err
		}
		st.PlannedStart = start
	}
	if l.DurationHours != nil {
		d, err := clock.DurationFromHours(*l.DurationHours)
		if err != nil {
			return domain.Stop{}, err
		}
		st.DurationMinutes = d
	}
	if l.ActualArrival != nil {
		arrival, err := clock.ParseLabel(*l.ActualArrival)
		if err != nil {
			return domain.Stop{}, err
		}
		st.ActualArrival = arrival
	}
	if l.Latitude != nil && l.Longitude != nil {
		st.Coordinates = &domain.Coordinates{Lat: *l.Latitude, Lon: *l.Longitude}
	}
	if l.Status != nil {
		status, err := domain.ParseStatus(*l.Status)
		if err != nil {
			return domain.Stop{}, err
		}
		st.Status = &status
	}
	return st, nil
}
