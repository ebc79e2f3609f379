package domain

import (
	"fmt"
	"strings"
)

// MinutesPerDay bounds every wall-clock value: valid values are 0..MinutesPerDay-1.
const MinutesPerDay = 1440

// Status tracks a stop's progress during the trip. It is carried through but
// never validated against the schedule.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus accepts any casing of a known status.
func ParseStatus(raw string) (Status, error) {
	for _, s := range []Status{StatusPending, StatusActive, StatusCompleted} {
		if strings.EqualFold(raw, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, raw)
}

// Coordinates is a WGS84 position in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Stop is one planned destination in a trip.
//
// PlannedStart and ActualArrival are minutes since midnight, nil when absent.
// DurationMinutes of 0 means "duration not set".
// OrderIndex is owned by the itinerary store and is always contiguous from 0.
type Stop struct {
	ID              string       `json:"id"`
	LocationName    string       `json:"location_name"`
	LocationRef     string       `json:"location_reference,omitempty"`
	PlannedStart    *int         `json:"planned_start,omitempty"`
	DurationMinutes int          `json:"duration_minutes"`
	Note            string       `json:"note"`
	OrderIndex      int          `json:"order_index"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	Status          *Status      `json:"status,omitempty"`
	ActualArrival   *int         `json:"actual_arrival,omitempty"`
}

// ScheduleFields are the three fields an edit session replaces atomically.
type ScheduleFields struct {
	PlannedStart    *int
	DurationMinutes int
	Note            string
}

// Scheduled reports whether the stop has an explicit start time.
func (s Stop) Scheduled() bool { return s.PlannedStart != nil }

// Clone returns a deep copy so callers can never alias store-owned pointers.
func (s Stop) Clone() Stop {
	out := s
	if s.PlannedStart != nil {
		v := *s.PlannedStart
		out.PlannedStart = &v
	}
	if s.ActualArrival != nil {
		v := *s.ActualArrival
		out.ActualArrival = &v
	}
	if s.Coordinates != nil {
		c := *s.Coordinates
		out.Coordinates = &c
	}
	if s.Status != nil {
		st := *s.Status
		out.Status = &st
	}
	return out
}

// Validate checks the per-field constraints that must hold for every stored stop:
// start and arrival within a day and a non-negative duration.
func (s Stop) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: stop id is required", ErrValidation)
	}
	if s.PlannedStart != nil && !ValidMinuteOfDay(*s.PlannedStart) {
		return fmt.Errorf("%w: planned_start %d out of range", ErrInvalidTime, *s.PlannedStart)
	}
	if s.ActualArrival != nil && !ValidMinuteOfDay(*s.ActualArrival) {
		return fmt.Errorf("%w: actual_arrival %d out of range", ErrInvalidTime, *s.ActualArrival)
	}
	if s.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration_minutes %d is negative", ErrInvalidDuration, s.DurationMinutes)
	}
	if s.Status != nil && !s.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, *s.Status)
	}
	return nil
}

// ValidMinuteOfDay reports whether m is a wall-clock minute in 0..1439.
func ValidMinuteOfDay(m int) bool {
	return m >= 0 && m < MinutesPerDay
}

// IntPtr is a small helper for building optional minute fields.
func IntPtr(v int) *int { return &v }
