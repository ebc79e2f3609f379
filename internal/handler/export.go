package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/wetravel-itinerary/internal/clock"
	"github.com/pkordes/wetravel-itinerary/internal/domain"
	"github.com/pkordes/wetravel-itinerary/internal/service"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "position", "stop_id",
	"location_name", "location_reference", "planned_start",
	"start", "end", "duration_minutes", "note", "status",
}

// ExportRow is one stop in the JSON export. Start and End are computed slot
// times; PlannedStart is only set when the stop has an explicit start.
type ExportRow struct {
	TripID            string  `json:"trip_id"`
	TripName          string  `json:"trip_name"`
	Position          int     `json:"position"`
	StopID            string  `json:"stop_id"`
	LocationName      string  `json:"location_name"`
	LocationReference *string `json:"location_reference,omitempty"`
	PlannedStart      *string `json:"planned_start,omitempty"`
	Start             string  `json:"start"`
	End               string  `json:"end"`
	DurationMinutes   int     `json:"duration_minutes"`
	Note              *string `json:"note,omitempty"`
	Status            *string `json:"status,omitempty"`
}

// GetExport handles GET /trips/{tripId}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripIDParam(w, r)
	if !ok {
		return
	}
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		s.writeErrorBody(w, r, http.StatusBadRequest, "bad_request", "invalid format")
		return
	}
	if format != nil && *format != "csv" && *format != "json" {
		s.writeErrorBody(w, r, http.StatusBadRequest, "bad_request", "format must be csv or json")
		return
	}

	rows, err := s.export.Export(r.Context(), tripID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if format != nil && *format == "csv" {
		s.writeCSV(w, r, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, serviceRowToResponse(row))
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

// writeCSV encodes the rows into a buffer first so a write error never
// leaves a half-written 200 response.
func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, rows []service.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer writes never fail.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(serviceRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.ErrorContext(r.Context(), "write csv export", "error", err)
	}
}

// serviceRowToResponse maps a service.ExportRow to the JSON row.
// Empty strings become nil pointers (omitempty in JSON).
func serviceRowToResponse(r service.ExportRow) ExportRow {
	row := ExportRow{
		TripID:          r.TripID.String(),
		TripName:        r.TripName,
		Position:        r.Position,
		StopID:          r.StopID,
		LocationName:    r.LocationName,
		Start:           formatSlotTime(r.Start),
		End:             formatSlotTime(r.End),
		DurationMinutes: r.Duration,
	}
	if r.LocationRef != "" {
		row.LocationReference = &r.LocationRef
	}
	if r.PlannedStart != nil {
		v := formatSlotTime(*r.PlannedStart)
		row.PlannedStart = &v
	}
	if r.Note != "" {
		row.Note = &r.Note
	}
	if r.Status != "" {
		row.Status = &r.Status
	}
	return row
}

// serviceRowToCSVRecord encodes a service.ExportRow as a flat string slice.
// An absent planned start is encoded as an empty string.
func serviceRowToCSVRecord(r service.ExportRow) []string {
	planned := ""
	if r.PlannedStart != nil {
		planned = formatSlotTime(*r.PlannedStart)
	}
	return []string{
		r.TripID.String(),
		r.TripName,
		strconv.Itoa(r.Position),
		r.StopID,
		r.LocationName,
		r.LocationRef,
		planned,
		formatSlotTime(r.Start),
		formatSlotTime(r.End),
		strconv.Itoa(r.Duration),
		r.Note,
		r.Status,
	}
}

// formatSlotTime renders slot minutes as "hh:mm AM". Slots are not wrapped at
// midnight, so later days get a "+Nd" suffix: 1500 → "01:00 AM +1d".
func formatSlotTime(minutes int) string {
	days, rem := minutes/domain.MinutesPerDay, minutes%domain.MinutesPerDay
	label, err := clock.FormatLabel(rem)
	if err != nil {
		return strconv.Itoa(minutes)
	}
	if days > 0 {
		return fmt.Sprintf("%s +%dd", label, days)
	}
	return label
}
