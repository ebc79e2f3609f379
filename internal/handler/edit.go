package handler

import (
	"net/http"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
	"github.com/pkordes/wetravel-itinerary/internal/schedule"
	"github.com/pkordes/wetravel-itinerary/internal/service"
)

// ClockRequest is a 12-hour start time as picked in the editor.
// Ranges are checked on commit so an out-of-range value keeps the draft open.
type ClockRequest struct {
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Meridiem string `json:"meridiem" validate:"required"`
}

// DurationRequest is a duration as picked in the editor.
type DurationRequest struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// DraftPatchRequest is the body of PATCH /trips/{tripId}/stops/{stopId}/edit.
// Omitted fields leave the draft as it is.
type DraftPatchRequest struct {
	Clock      *ClockRequest    `json:"clock" validate:"excluded_with=Unschedule"`
	Unschedule bool             `json:"unschedule"`
	Duration   *DurationRequest `json:"duration"`
	Note       *string          `json:"note"`
}

// CommitResponse is the committed stop plus any schedule warnings.
type CommitResponse struct {
	Stop       domain.Stop          `json:"stop"`
	Advisories []schedule.Advisory `json:"advisories"`
}

// OpenEdit handles POST /trips/{tripId}/stops/{stopId}/edit.
// Opening a stop that already has a draft starts over from the stored values.
func (s *Server) OpenEdit(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	d, err := s.itineraries.OpenEdit(r.Context(), tripID, stopIDParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, d)
}

// UpdateDraft handles PATCH /trips/{tripId}/stops/{stopId}/edit.
func (s *Server) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	var body DraftPatchRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	d, err := s.itineraries.UpdateDraft(r.Context(), tripID, stopIDParam(r), requestToPatch(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, d)
}

// CommitEdit handles POST /trips/{tripId}/stops/{stopId}/edit/commit.
// A rejected draft (bad time or duration) stays open so the client can fix it.
func (s *Server) CommitEdit(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	stop, advisories, err := s.itineraries.CommitEdit(r.Context(), tripID, stopIDParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if advisories == nil {
		advisories = []schedule.Advisory{}
	}
	s.writeJSON(w, r, http.StatusOK, CommitResponse{Stop: stop, Advisories: advisories})
}

// CancelEdit handles DELETE /trips/{tripId}/stops/{stopId}/edit.
func (s *Server) CancelEdit(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	if err := s.itineraries.CancelEdit(r.Context(), tripID, stopIDParam(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requestToPatch(req DraftPatchRequest) service.DraftPatch {
	p := service.DraftPatch{Unschedule: req.Unschedule, Note: req.Note}
	if req.Clock != nil {
		p.Clock = &service.ClockInput{Hour: req.Clock.Hour, Minute: req.Clock.Minute, Meridiem: req.Clock.Meridiem}
	}
	if req.Duration != nil {
		p.Duration = &service.DurationInput{Hours: req.Duration.Hours, Minutes: req.Duration.Minutes}
	}
	return p
}
