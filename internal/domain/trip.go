// Package domain contains the core data types for the trip itinerary service.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (itinerary, schedule, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the owner of exactly one itinerary.
// Stops are not embedded here; they live in the itinerary store for the trip.
type Trip struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
