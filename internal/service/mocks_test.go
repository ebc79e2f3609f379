package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
	"github.com/pkordes/wetravel-itinerary/internal/repo"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	touch     func(ctx context.Context, id uuid.UUID) error
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripRepo) Touch(ctx context.Context, id uuid.UUID) error {
	if m.touch == nil {
		return nil
	}
	return m.touch(ctx, id)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// tripExists returns a mockTripRepo whose GetByID finds only the given ID.
func tripExists(id uuid.UUID) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, got uuid.UUID) (domain.Trip, error) {
			if got != id {
				return domain.Trip{}, domain.ErrNotFound
			}
			return domain.Trip{ID: id, Name: "Fullerton Day"}, nil
		},
	}
}

// memStopRepo is an in-memory repo.StopRepo that records every saved snapshot.
// Set failSave to make ReplaceAll fail.
type memStopRepo struct {
	mu       sync.Mutex
	byTrip   map[uuid.UUID][]domain.Stop
	saves    int
	failSave error
}

func newMemStopRepo() *memStopRepo {
	return &memStopRepo{byTrip: make(map[uuid.UUID][]domain.Stop)}
}

func (m *memStopRepo) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Stop, len(m.byTrip[tripID]))
	copy(out, m.byTrip[tripID])
	return out, nil
}

func (m *memStopRepo) ReplaceAll(_ context.Context, tripID uuid.UUID, stops []domain.Stop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	m.saves++
	m.byTrip[tripID] = stops
	return nil
}

var _ repo.StopRepo = (*memStopRepo)(nil)
