// Package handler implements the HTTP handlers for the itinerary API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, stop.go, edit.go, export.go) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
	"github.com/pkordes/wetravel-itinerary/internal/itinerary"
	"github.com/pkordes/wetravel-itinerary/internal/schedule"
	"github.com/pkordes/wetravel-itinerary/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItineraryServicer defines the itinerary operations the stop, schedule and
// edit handlers depend on.
type ItineraryServicer interface {
	ListStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error)
	Schedule(ctx context.Context, tripID uuid.UUID) (schedule.Report, error)
	AddStop(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error)
	ImportStops(ctx context.Context, tripID uuid.UUID, stops []domain.Stop) ([]domain.Stop, error)
	DeleteStop(ctx context.Context, tripID uuid.UUID, stopID string) error
	Reorder(ctx context.Context, tripID uuid.UUID, ids []string) ([]domain.Stop, error)
	MoveStop(ctx context.Context, tripID uuid.UUID, stopID string, to int) ([]domain.Stop, error)
	OpenEdit(ctx context.Context, tripID uuid.UUID, stopID string) (itinerary.Draft, error)
	UpdateDraft(ctx context.Context, tripID uuid.UUID, stopID string, patch service.DraftPatch) (itinerary.Draft, error)
	CommitEdit(ctx context.Context, tripID uuid.UUID, stopID string) (domain.Stop, []schedule.Advisory, error)
	CancelEdit(ctx context.Context, tripID uuid.UUID, stopID string) error
}

// ExportServicer produces the flat itinerary export.
type ExportServicer interface {
	Export(ctx context.Context, tripID uuid.UUID) ([]service.ExportRow, error)
}

// Server holds the handler dependencies.
type Server struct {
	trips       TripServicer
	itineraries ItineraryServicer
	export      ExportServicer
	log         *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// Any servicer may be nil in tests that do not exercise its routes.
func NewServer(trips TripServicer, itineraries ItineraryServicer, export ExportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, itineraries: itineraries, export: export, log: log}
}

// Register mounts every API route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)

		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Delete("/", s.DeleteTrip)

			r.Get("/stops", s.ListStops)
			r.Post("/stops", s.CreateStop)
			r.Put("/stops", s.ImportStops)
			r.Delete("/stops/{stopId}", s.DeleteStop)
			r.Post("/stops/{stopId}/move", s.MoveStop)

			r.Put("/order", s.ReorderStops)
			r.Get("/schedule", s.GetSchedule)
			r.Get("/export", s.GetExport)

			r.Route("/stops/{stopId}/edit", func(r chi.Router) {
				r.Post("/", s.OpenEdit)
				r.Patch("/", s.UpdateDraft)
				r.Delete("/", s.CancelEdit)
				r.Post("/commit", s.CommitEdit)
			})
		})
	})
}

// Handler returns a standalone router with every API route registered.
func (s *Server) Handler() chi.Router {
	r := chi.NewRouter()
	s.Register(r)
	return r
}
