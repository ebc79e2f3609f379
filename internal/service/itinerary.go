package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/wetravel-itinerary/internal/clock"
	"github.com/pkordes/wetravel-itinerary/internal/domain"
	"github.com/pkordes/wetravel-itinerary/internal/itinerary"
	"github.com/pkordes/wetravel-itinerary/internal/repo"
	"github.com/pkordes/wetravel-itinerary/internal/schedule"
)

// Recorder receives mutation and advisory events. *metrics.Collector
// satisfies it; tests pass nil.
type Recorder interface {
	Mutation(op string, err error)
	Advisory(kind string)
}

// ItineraryService exposes one itinerary per trip to concurrent HTTP callers.
//
// Each trip's Store is loaded once from the repo and then kept for the life of
// the process. Mutations on a trip are serialized by that trip's lock and
// persisted as a full snapshot; if persisting fails the store is restored so
// the caller never observes a change that was not saved.
type ItineraryService struct {
	trips   repo.TripRepo
	stops   repo.StopRepo
	log     *slog.Logger
	metrics Recorder

	mu    sync.Mutex
	loads map[uuid.UUID]*tripItinerary
}

type tripItinerary struct {
	mu       sync.Mutex
	store    *itinerary.Store
	reorder  *itinerary.Reorderer
	sessions map[string]*itinerary.EditSession
}

// NewItineraryService constructs an ItineraryService. rec may be nil.
func NewItineraryService(trips repo.TripRepo, stops repo.StopRepo, log *slog.Logger, rec Recorder) *ItineraryService {
	if log == nil {
		log = slog.Default()
	}
	return &ItineraryService{
		trips:   trips,
		stops:   stops,
		log:     log,
		metrics: rec,
		loads:   make(map[uuid.UUID]*tripItinerary),
	}
}

// DraftPatch carries the editor controls a client changed. Nil fields are left
// as they are on the open draft.
type DraftPatch struct {
	Clock      *ClockInput
	Unschedule bool
	Duration   *DurationInput
	Note       *string
}

// ClockInput is a 12-hour start time as entered.
type ClockInput struct {
	Hour     int
	Minute   int
	Meridiem string
}

// DurationInput is a half-hour-step duration as entered.
type DurationInput struct {
	Hours   int
	Minutes int
}

// Forget drops the cached itinerary for a trip, e.g. after the trip is deleted.
func (s *ItineraryService) Forget(tripID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loads, tripID)
}

// ListStops returns the trip's stops in order.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ItineraryService) ListStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	ti, err := s.load(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListStops: %w", err)
	}
	return ti.store.List(), nil
}

// Schedule computes the day plan and advisories for a snapshot of the trip.
// No trip lock is held; the store hands back a copy.
func (s *ItineraryService) Schedule(ctx context.Context, tripID uuid.UUID) (schedule.Report, error) {
	ti, err := s.load(ctx, tripID)
	if err != nil {
		return schedule.Report{}, fmt.Errorf("service.ItineraryService.Schedule: %w", err)
	}
	return schedule.Analyze(ti.store.List()), nil
}

// AddStop appends a new stop to the end of the itinerary.
// Returns domain.ErrValidation if the location name is empty.
func (s *ItineraryService) AddStop(ctx context.Context, tripID uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	if strings.TrimSpace(stop.LocationName) == "" {
		return domain.Stop{}, fmt.Errorf("%w: location_name is required", domain.ErrValidation)
	}
	var created domain.Stop
	err := s.mutate(ctx, tripID, "add", func(ti *tripItinerary) error {
		var err error
		created, err = ti.store.Append(stop)
		return err
	})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.ItineraryService.AddStop: %w", err)
	}
	return created, nil
}

// ImportStops replaces the whole itinerary. Open drafts are discarded.
func (s *ItineraryService) ImportStops(ctx context.Context, tripID uuid.UUID, stops []domain.Stop) ([]domain.Stop, error) {
	var out []domain.Stop
	err := s.mutate(ctx, tripID, "import", func(ti *tripItinerary) error {
		if err := ti.store.Import(stops); err != nil {
			return err
		}
		ti.sessions = make(map[string]*itinerary.EditSession)
		out = ti.store.List()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ImportStops: %w", err)
	}
	return out, nil
}

// DeleteStop removes a stop and compacts the order.
// Returns domain.ErrNotFound if the trip or stop does not exist.
func (s *ItineraryService) DeleteStop(ctx context.Context, tripID uuid.UUID, stopID string) error {
	err := s.mutate(ctx, tripID, "delete", func(ti *tripItinerary) error {
		if err := ti.reorder.OnDelete(stopID); err != nil {
			return err
		}
		delete(ti.sessions, stopID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.ItineraryService.DeleteStop: %w", err)
	}
	return nil
}

// Reorder applies a full drag-end ordering and returns the new order.
// Returns domain.ErrInvalidPermutation if ids is not the current id set.
func (s *ItineraryService) Reorder(ctx context.Context, tripID uuid.UUID, ids []string) ([]domain.Stop, error) {
	var out []domain.Stop
	err := s.mutate(ctx, tripID, "reorder", func(ti *tripItinerary) error {
		if err := ti.reorder.OnDragEnd(ids); err != nil {
			return err
		}
		out = ti.store.List()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Reorder: %w", err)
	}
	return out, nil
}

// MoveStop moves one stop to a new position and returns the new order.
func (s *ItineraryService) MoveStop(ctx context.Context, tripID uuid.UUID, stopID string, to int) ([]domain.Stop, error) {
	var out []domain.Stop
	err := s.mutate(ctx, tripID, "move", func(ti *tripItinerary) error {
		if err := ti.reorder.Move(stopID, to); err != nil {
			return err
		}
		out = ti.store.List()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.MoveStop: %w", err)
	}
	return out, nil
}

// OpenEdit opens (or reopens, discarding the previous draft) an edit draft
// for one stop.
func (s *ItineraryService) OpenEdit(ctx context.Context, tripID uuid.UUID, stopID string) (itinerary.Draft, error) {
	ti, err := s.load(ctx, tripID)
	if err != nil {
		return itinerary.Draft{}, fmt.Errorf("service.ItineraryService.OpenEdit: %w", err)
	}
	ti.mu.Lock()
	defer ti.mu.Unlock()

	sess, ok := ti.sessions[stopID]
	if !ok {
		sess = itinerary.NewEditSession(ti.store)
	}
	d, err := sess.Open(stopID)
	if err != nil {
		return itinerary.Draft{}, fmt.Errorf("service.ItineraryService.OpenEdit: %w", err)
	}
	ti.sessions[stopID] = sess
	return d, nil
}

// UpdateDraft applies a patch to the open draft and returns it. Values are
// validated on commit, not here.
// Returns domain.ErrNoOpenDraft if no draft is open for the stop.
func (s *ItineraryService) UpdateDraft(ctx context.Context, tripID uuid.UUID, stopID string, patch DraftPatch) (itinerary.Draft, error) {
	sess, err := s.session(ctx, tripID, stopID)
	if err != nil {
		return itinerary.Draft{}, fmt.Errorf("service.ItineraryService.UpdateDraft: %w", err)
	}

	if patch.Unschedule {
		err = sess.ClearClock()
	} else if patch.Clock != nil {
		var m clock.Meridiem
		m, err = clock.ParseMeridiem(patch.Clock.Meridiem)
		if err == nil {
			err = sess.SetClock(patch.Clock.Hour, patch.Clock.Minute, m)
		}
	}
	if err == nil && patch.Duration != nil {
		err = sess.SetDuration(patch.Duration.Hours, patch.Duration.Minutes)
	}
	if err == nil && patch.Note != nil {
		err = sess.SetNote(*patch.Note)
	}
	if err != nil {
		return itinerary.Draft{}, fmt.Errorf("service.ItineraryService.UpdateDraft: %w", err)
	}

	d, ok := sess.Current()
	if !ok {
		return itinerary.Draft{}, fmt.Errorf("service.ItineraryService.UpdateDraft: %w", domain.ErrNoOpenDraft)
	}
	return d, nil
}

// CommitEdit validates and applies the open draft. The returned advisories
// are warnings about the resulting schedule; they never block the commit.
func (s *ItineraryService) CommitEdit(ctx context.Context, tripID uuid.UUID, stopID string) (domain.Stop, []schedule.Advisory, error) {
	var (
		advisories []schedule.Advisory
		updated    domain.Stop
	)
	err := s.mutate(ctx, tripID, "edit", func(ti *tripItinerary) error {
		sess, ok := ti.sessions[stopID]
		if !ok {
			return domain.ErrNoOpenDraft
		}
		var err error
		if advisories, err = sess.Commit(); err != nil {
			return err
		}
		delete(ti.sessions, stopID)
		updated, err = ti.store.Get(stopID)
		return err
	})
	if err != nil {
		return domain.Stop{}, nil, fmt.Errorf("service.ItineraryService.CommitEdit: %w", err)
	}

	for _, a := range advisories {
		if s.metrics != nil {
			s.metrics.Advisory(string(a.Kind))
		}
		s.log.InfoContext(ctx, "schedule advisory on commit",
			"trip_id", tripID, "stop_id", a.StopID, "kind", a.Kind, "prev_stop_id", a.PrevStopID)
	}
	if advisories == nil {
		advisories = []schedule.Advisory{}
	}
	return updated, advisories, nil
}

// CancelEdit discards the open draft for a stop.
// Returns domain.ErrNoOpenDraft if none is open.
func (s *ItineraryService) CancelEdit(ctx context.Context, tripID uuid.UUID, stopID string) error {
	ti, err := s.load(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.ItineraryService.CancelEdit: %w", err)
	}
	ti.mu.Lock()
	defer ti.mu.Unlock()

	sess, ok := ti.sessions[stopID]
	if !ok {
		return fmt.Errorf("service.ItineraryService.CancelEdit: %w", domain.ErrNoOpenDraft)
	}
	sess.Cancel()
	delete(ti.sessions, stopID)
	return nil
}

// session returns the open edit session for a stop.
func (s *ItineraryService) session(ctx context.Context, tripID uuid.UUID, stopID string) (*itinerary.EditSession, error) {
	ti, err := s.load(ctx, tripID)
	if err != nil {
		return nil, err
	}
	ti.mu.Lock()
	defer ti.mu.Unlock()
	sess, ok := ti.sessions[stopID]
	if !ok {
		return nil, domain.ErrNoOpenDraft
	}
	return sess, nil
}

// mutate runs fn under the trip lock and persists the result. On any error,
// including a failed save, the store and the open drafts are restored to
// their previous snapshot.
func (s *ItineraryService) mutate(ctx context.Context, tripID uuid.UUID, op string, fn func(ti *tripItinerary) error) (err error) {
	defer func() {
		if s.metrics != nil {
			s.metrics.Mutation(op, err)
		}
	}()

	ti, err := s.load(ctx, tripID)
	if err != nil {
		return err
	}
	ti.mu.Lock()
	defer ti.mu.Unlock()

	before := ti.store.Export()
	drafts := ti.snapshotSessions()
	if err := fn(ti); err != nil {
		return err
	}

	after := ti.store.Export()
	if err := s.stops.ReplaceAll(ctx, tripID, after); err != nil {
		if rerr := ti.store.Import(before); rerr != nil {
			s.log.ErrorContext(ctx, "restore itinerary after failed save", "trip_id", tripID, "error", rerr)
		}
		ti.restoreSessions(drafts)
		return err
	}
	if err := s.trips.Touch(ctx, tripID); err != nil {
		s.log.WarnContext(ctx, "touch trip", "trip_id", tripID, "error", err)
	}

	s.log.DebugContext(ctx, "itinerary mutated", "trip_id", tripID, "op", op, "stops", len(after))
	return nil
}

// load returns the cached itinerary for a trip, reading it from the repo on
// first use. s.mu is not held during the reads; when two cold loads race,
// the first one cached wins.
func (s *ItineraryService) load(ctx context.Context, tripID uuid.UUID) (*tripItinerary, error) {
	s.mu.Lock()
	ti, ok := s.loads[tripID]
	s.mu.Unlock()
	if ok {
		return ti, nil
	}

	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}
	stops, err := s.stops.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	store := itinerary.NewStore()
	if err := store.Import(stops); err != nil {
		return nil, fmt.Errorf("load trip %s: %w", tripID, err)
	}
	if err := store.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("load trip %s: %w", tripID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.loads[tripID]; ok {
		return cached, nil
	}
	ti = &tripItinerary{
		store:    store,
		reorder:  itinerary.NewReorderer(store),
		sessions: make(map[string]*itinerary.EditSession),
	}
	s.loads[tripID] = ti
	s.log.DebugContext(ctx, "itinerary loaded", "trip_id", tripID, "stops", len(stops))
	return ti, nil
}

// sessionSnapshot records which sessions were registered and the draft each
// one held.
type sessionSnapshot struct {
	sessions map[string]*itinerary.EditSession
	drafts   map[string]itinerary.Draft
}

// snapshotSessions must be called with ti.mu held.
func (ti *tripItinerary) snapshotSessions() sessionSnapshot {
	snap := sessionSnapshot{
		sessions: make(map[string]*itinerary.EditSession, len(ti.sessions)),
		drafts:   make(map[string]itinerary.Draft, len(ti.sessions)),
	}
	for id, sess := range ti.sessions {
		snap.sessions[id] = sess
		if d, ok := sess.Current(); ok {
			snap.drafts[id] = d
		}
	}
	return snap
}

// restoreSessions must be called with ti.mu held.
func (ti *tripItinerary) restoreSessions(snap sessionSnapshot) {
	for id, sess := range snap.sessions {
		if d, ok := snap.drafts[id]; ok {
			sess.Restore(d)
		}
	}
	ti.sessions = snap.sessions
}
