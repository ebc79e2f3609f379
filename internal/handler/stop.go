package handler

import (
	"fmt"
	"net/http"

	"github.com/pkordes/wetravel-itinerary/internal/clock"
	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// CoordinatesRequest is an optional WGS84 position on a stop.
type CoordinatesRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// StopRequest is one stop as sent by a client. The start may be given either
// as minutes since midnight or as a "09:00 AM" label, not both.
type StopRequest struct {
	ID              string              `json:"id" validate:"omitempty,max=64"`
	LocationName    string              `json:"location_name" validate:"max=200"`
	LocationRef     string              `json:"location_reference" validate:"max=200"`
	PlannedStart    *int                `json:"planned_start" validate:"omitempty,min=0,max=1439"`
	StartTime       string              `json:"start_time" validate:"excluded_with=PlannedStart"`
	DurationMinutes int                 `json:"duration_minutes" validate:"min=0"`
	Note            string              `json:"note"`
	OrderIndex      *int                `json:"order_index"`
	Coordinates     *CoordinatesRequest `json:"coordinates"`
	Status          string              `json:"status"`
	ActualArrival   *int                `json:"actual_arrival" validate:"omitempty,min=0,max=1439"`
}

// ImportStopsRequest is the body of PUT /trips/{tripId}/stops.
type ImportStopsRequest struct {
	Stops []StopRequest `json:"stops" validate:"dive"`
}

// ReorderRequest is the body of PUT /trips/{tripId}/order: every stop id in
// the new order.
type ReorderRequest struct {
	StopIDs []string `json:"stop_ids" validate:"required"`
}

// MoveRequest is the body of POST /trips/{tripId}/stops/{stopId}/move.
type MoveRequest struct {
	To *int `json:"to" validate:"required,min=0"`
}

// StopList wraps a trip's stops in order_index order.
type StopList struct {
	Data []domain.Stop `json:"data"`
}

// ListStops handles GET /trips/{tripId}/stops.
func (s *Server) ListStops(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	stops, err := s.itineraries.ListStops(r.Context(), tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, StopList{Data: stops})
}

// CreateStop handles POST /trips/{tripId}/stops. The stop is appended at the end.
func (s *Server) CreateStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	var body StopRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	stop, err := requestToStop(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.itineraries.AddStop(r.Context(), tripID, stop)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, created)
}

// ImportStops handles PUT /trips/{tripId}/stops, replacing the whole itinerary.
// Missing or non-contiguous order_index values are re-derived from list position.
func (s *Server) ImportStops(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	var body ImportStopsRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	stops := make([]domain.Stop, 0, len(body.Stops))
	for i, sr := range body.Stops {
		stop, err := requestToStop(sr)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("stops[%d]: %w", i, err))
			return
		}
		stops = append(stops, stop)
	}

	imported, err := s.itineraries.ImportStops(r.Context(), tripID, stops)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, StopList{Data: imported})
}

// DeleteStop handles DELETE /trips/{tripId}/stops/{stopId}.
func (s *Server) DeleteStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	if err := s.itineraries.DeleteStop(r.Context(), tripID, stopIDParam(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderStops handles PUT /trips/{tripId}/order.
// The body must name every stop exactly once; otherwise nothing changes and 409 is returned.
func (s *Server) ReorderStops(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	var body ReorderRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	stops, err := s.itineraries.Reorder(r.Context(), tripID, body.StopIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, StopList{Data: stops})
}

// MoveStop handles POST /trips/{tripId}/stops/{stopId}/move.
// Targets past the end are clamped to the last position.
func (s *Server) MoveStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	var body MoveRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	stops, err := s.itineraries.MoveStop(r.Context(), tripID, stopIDParam(r), *body.To)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, StopList{Data: stops})
}

// GetSchedule handles GET /trips/{tripId}/schedule.
func (s *Server) GetSchedule(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	report, err := s.itineraries.Schedule(r.Context(), tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, report)
}

// --- mapping helpers --------------------------------------------------------

// requestToStop converts a StopRequest into a domain.Stop.
// An absent order_index becomes -1 so the store derives it from position.
func requestToStop(req StopRequest) (domain.Stop, error) {
	stop := domain.Stop{
		ID:              req.ID,
		LocationName:    req.LocationName,
		LocationRef:     req.LocationRef,
		PlannedStart:    req.PlannedStart,
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
		OrderIndex:      -1,
		ActualArrival:   req.ActualArrival,
	}
	if req.StartTime != "" {
		start, err := clock.ParseLabel(req.StartTime)
		if err != nil {
			return domain.Stop{}, err
		}
		stop.PlannedStart = start
	}
	if req.OrderIndex != nil {
		stop.OrderIndex = *req.OrderIndex
	}
	if req.Coordinates != nil {
		stop.Coordinates = &domain.Coordinates{Lat: req.Coordinates.Lat, Lon: req.Coordinates.Lon}
	}
	if req.Status != "" {
		st, err := domain.ParseStatus(req.Status)
		if err != nil {
			return domain.Stop{}, err
		}
		stop.Status = &st
	}
	return stop, nil
}
