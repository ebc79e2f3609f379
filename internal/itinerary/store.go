// Package itinerary owns the ordered stops of one trip.
//
// Store is the source of truth: an id-keyed map plus a separate order vector,
// so the contiguous order_index invariant can be asserted directly.
// Reorderer and EditSession are the only mutation paths the service layer uses.
package itinerary

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// Store holds one itinerary. All mutations are serialized by mu and either
// fully apply or leave the store unchanged.
type Store struct {
	mu    sync.RWMutex
	stops map[string]domain.Stop
	order []string
}

// NewStore returns an empty itinerary.
func NewStore() *Store {
	return &Store{stops: make(map[string]domain.Stop)}
}

// Len returns the number of stops.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// List returns copies of all stops sorted by OrderIndex ascending.
// Always returns a non-nil slice so callers can safely range over it.
func (s *Store) List() []domain.Stop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Get returns a copy of one stop.
// Returns domain.ErrNotFound if id is not in the itinerary.
func (s *Store) Get(id string) (domain.Stop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stops[id]
	if !ok {
		return domain.Stop{}, fmt.Errorf("itinerary.Store.Get: stop %q: %w", id, domain.ErrNotFound)
	}
	return st.Clone(), nil
}

// Append adds a stop at the end of the itinerary. An empty ID is replaced by a
// generated UUID. Any OrderIndex on the input is ignored.
func (s *Store) Append(stop domain.Stop) (domain.Stop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stop.ID == "" {
		stop.ID = uuid.NewString()
	}
	if _, exists := s.stops[stop.ID]; exists {
		return domain.Stop{}, fmt.Errorf("itinerary.Store.Append: stop %q: %w", stop.ID, domain.ErrDuplicateID)
	}
	if err := stop.Validate(); err != nil {
		return domain.Stop{}, fmt.Errorf("itinerary.Store.Append: %w", err)
	}

	stop = stop.Clone()
	stop.OrderIndex = len(s.order)
	s.stops[stop.ID] = stop
	s.order = append(s.order, stop.ID)
	return stop.Clone(), nil
}

// Delete removes a stop and compacts the remaining indices to 0..n-2,
// preserving relative order. This is the only place indices shrink.
// Returns domain.ErrNotFound if id is not in the itinerary.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stops[id]; !ok {
		return fmt.Errorf("itinerary.Store.Delete: stop %q: %w", id, domain.ErrNotFound)
	}

	order := make([]string, 0, len(s.order)-1)
	for _, other := range s.order {
		if other != id {
			order = append(order, other)
		}
	}
	delete(s.stops, id)
	s.setOrder(order)
	return nil
}

// Reorder sets each stop's OrderIndex to its position in ids. ids must be a
// permutation of the current id set; otherwise domain.ErrInvalidPermutation is
// returned and nothing changes.
func (s *Store) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPermutation(ids); err != nil {
		return fmt.Errorf("itinerary.Store.Reorder: %w", err)
	}
	order := make([]string, len(ids))
	copy(order, ids)
	s.setOrder(order)
	return nil
}

// ApplyEdit replaces PlannedStart, DurationMinutes and Note on one stop in a
// single step. OrderIndex is never touched.
// Returns domain.ErrNotFound, domain.ErrInvalidTime or domain.ErrInvalidDuration.
func (s *Store) ApplyEdit(id string, fields domain.ScheduleFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stops[id]
	if !ok {
		return fmt.Errorf("itinerary.Store.ApplyEdit: stop %q: %w", id, domain.ErrNotFound)
	}

	next := st.Clone()
	next.PlannedStart = nil
	if fields.PlannedStart != nil {
		v := *fields.PlannedStart
		next.PlannedStart = &v
	}
	next.DurationMinutes = fields.DurationMinutes
	next.Note = fields.Note
	if err := next.Validate(); err != nil {
		return fmt.Errorf("itinerary.Store.ApplyEdit: %w", err)
	}

	s.stops[id] = next
	return nil
}

// Export returns an ordered snapshot for the persistence collaborator.
// The store performs no I/O itself.
func (s *Store) Export() []domain.Stop {
	return s.List()
}

// Import replaces the whole collection. Ids must be unique and every stop
// must pass field validation. When the supplied OrderIndex values are not
// exactly 0..n-1 (negative marks "absent"), indices are re-derived from list
// position instead of rejecting the import.
func (s *Store) Import(stops []domain.Stop) error {
	stops, err := normalizeImport(stops)
	if err != nil {
		return fmt.Errorf("itinerary.Store.Import: %w", err)
	}

	next := make(map[string]domain.Stop, len(stops))
	order := make([]string, len(stops))
	for _, st := range stops {
		next[st.ID] = st
		order[st.OrderIndex] = st.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = next
	s.order = order
	return nil
}

// CheckInvariants asserts the order and field invariants. It is used by tests
// and by the service after loading a persisted itinerary.
func (s *Store) CheckInvariants() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) != len(s.stops) {
		return fmt.Errorf("itinerary: order has %d ids, map has %d stops", len(s.order), len(s.stops))
	}
	for i, id := range s.order {
		st, ok := s.stops[id]
		if !ok {
			return fmt.Errorf("itinerary: order references unknown stop %q", id)
		}
		if st.OrderIndex != i {
			return fmt.Errorf("itinerary: stop %q has order_index %d at position %d", id, st.OrderIndex, i)
		}
		if st.ID != id {
			return fmt.Errorf("itinerary: stop keyed %q carries id %q", id, st.ID)
		}
		if err := st.Validate(); err != nil {
			return fmt.Errorf("itinerary: stop %q: %w", id, err)
		}
	}
	return nil
}

// setOrder installs a new order vector and rewrites every OrderIndex from it.
// Callers must hold the write lock.
func (s *Store) setOrder(order []string) {
	for i, id := range order {
		st := s.stops[id]
		st.OrderIndex = i
		s.stops[id] = st
	}
	s.order = order
}

// checkPermutation reports whether ids contains exactly the stored id set.
// Callers must hold a lock.
func (s *Store) checkPermutation(ids []string) error {
	if len(ids) != len(s.order) {
		return fmt.Errorf("%w: got %d ids, itinerary has %d", domain.ErrInvalidPermutation, len(ids), len(s.order))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.stops[id]; !ok {
			return fmt.Errorf("%w: unknown stop %q", domain.ErrInvalidPermutation, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate stop %q", domain.ErrInvalidPermutation, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// snapshot copies the stops in order. Callers must hold a lock.
func (s *Store) snapshot() []domain.Stop {
	out := make([]domain.Stop, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.stops[id].Clone())
	}
	return out
}
