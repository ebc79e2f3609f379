package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
	"github.com/pkordes/wetravel-itinerary/internal/handler"
	"github.com/pkordes/wetravel-itinerary/internal/itinerary"
	"github.com/pkordes/wetravel-itinerary/internal/schedule"
	"github.com/pkordes/wetravel-itinerary/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// mockItineraryServicer is a test double for handler.ItineraryServicer.
type mockItineraryServicer struct {
	listStops   func(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
	schedule    func(ctx context.Context, tripID uuid.UUID) (schedule.Report, error)
	addStop     func(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error)
	importStops func(ctx context.Context, tripID uuid.UUID, stops []domain.Stop) ([]domain.Stop, error)
	deleteStop  func(ctx context.Context, tripID uuid.UUID, stopID string) error
	reorder     func(ctx context.Context, tripID uuid.UUID, ids []string) ([]domain.Stop, error)
	moveStop    func(ctx context.Context, tripID uuid.UUID, stopID string, to int) ([]domain.Stop, error)
	openEdit    func(ctx context.Context, tripID uuid.UUID, stopID string) (itinerary.Draft, error)
	updateDraft func(ctx context.Context, tripID uuid.UUID, stopID string, patch service.DraftPatch) (itinerary.Draft, error)
	commitEdit  func(ctx context.Context, tripID uuid.UUID, stopID string) (domain.Stop, []schedule.Advisory, error)
	cancelEdit  func(ctx context.Context, tripID uuid.UUID, stopID string) error
}

func (m *mockItineraryServicer) ListStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	return m.listStops(ctx, tripID)
}
func (m *mockItineraryServicer) Schedule(ctx context.Context, tripID uuid.UUID) (schedule.Report, error) {
	return m.schedule(ctx, tripID)
}
func (m *mockItineraryServicer) AddStop(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	return m.addStop(ctx, tripID, stop)
}
func (m *mockItineraryServicer) ImportStops(ctx context.Context, tripID uuid.UUID, stops []domain.Stop) ([]domain.Stop, error) {
	return m.importStops(ctx, tripID, stops)
}
func (m *mockItineraryServicer) DeleteStop(ctx context.Context, tripID uuid.UUID, stopID string) error {
	return m.deleteStop(ctx, tripID, stopID)
}
func (m *mockItineraryServicer) Reorder(ctx context.Context, tripID uuid.UUID, ids []string) ([]domain.Stop, error) {
	return m.reorder(ctx, tripID, ids)
}
func (m *mockItineraryServicer) MoveStop(ctx context.Context, tripID uuid.UUID, stopID string, to int) ([]domain.Stop, error) {
	return m.moveStop(ctx, tripID, stopID, to)
}
func (m *mockItineraryServicer) OpenEdit(ctx context.Context, tripID uuid.UUID, stopID string) (itinerary.Draft, error) {
	return m.openEdit(ctx, tripID, stopID)
}
func (m *mockItineraryServicer) UpdateDraft(ctx context.Context, tripID uuid.UUID, stopID string, patch service.DraftPatch) (itinerary.Draft, error) {
	return m.updateDraft(ctx, tripID, stopID, patch)
}
func (m *mockItineraryServicer) CommitEdit(ctx context.Context, tripID uuid.UUID, stopID string) (domain.Stop, []schedule.Advisory, error) {
	return m.commitEdit(ctx, tripID, stopID)
}
func (m *mockItineraryServicer) CancelEdit(ctx context.Context, tripID uuid.UUID, stopID string) error {
	return m.cancelEdit(ctx, tripID, stopID)
}

var _ handler.ItineraryServicer = (*mockItineraryServicer)(nil)

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	export func(ctx context.Context, tripID uuid.UUID) ([]service.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, tripID uuid.UUID) ([]service.ExportRow, error) {
	return m.export(ctx, tripID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into a chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(trips handler.TripServicer, its handler.ItineraryServicer, exp handler.ExportServicer) http.Handler {
	return handler.NewServer(trips, its, exp, nil).Handler()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends one request through h and returns the recorder.
func do(h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func jsonBodyRaw(s string) *bytes.Buffer {
	return bytes.NewBufferString(s)
}
