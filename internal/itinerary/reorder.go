package itinerary

import (
	"fmt"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// Reorderer turns drag and delete gestures into store operations.
type Reorderer struct {
	store *Store
}

// NewReorderer returns a Reorderer bound to store.
func NewReorderer(store *Store) *Reorderer {
	return &Reorderer{store: store}
}

// OnDragEnd applies the full post-drag ordering. Calling it again with the
// same sequence is a no-op that returns nil.
func (r *Reorderer) OnDragEnd(ids []string) error {
	if err := r.store.Reorder(ids); err != nil {
		return fmt.Errorf("itinerary.Reorderer.OnDragEnd: %w", err)
	}
	return nil
}

// OnDelete removes a stop; the store compacts the remaining indices.
func (r *Reorderer) OnDelete(id string) error {
	if err := r.store.Delete(id); err != nil {
		return fmt.Errorf("itinerary.Reorderer.OnDelete: %w", err)
	}
	return nil
}

// Move relocates one stop to position to (clamped to the list bounds) and
// applies the resulting ordering through OnDragEnd.
func (r *Reorderer) Move(id string, to int) error {
	current := r.store.List()
	from := -1
	ids := make([]string, 0, len(current))
	for i, st := range current {
		if st.ID == id {
			from = i
			continue
		}
		ids = append(ids, st.ID)
	}
	if from < 0 {
		return fmt.Errorf("itinerary.Reorderer.Move: stop %q: %w", id, domain.ErrNotFound)
	}

	to = min(max(to, 0), len(ids))
	ids = append(ids[:to], append([]string{id}, ids[to:]...)...)
	return r.OnDragEnd(ids)
}
