package itinerary

import (
	"fmt"
	"sort"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// normalizeImport validates an imported list and returns clones whose
// OrderIndex values are exactly 0..n-1.
//
// If the supplied indices already form that set they are honoured, so a
// snapshot exported in any slice order round-trips. Otherwise the list
// position wins.
func normalizeImport(stops []domain.Stop) ([]domain.Stop, error) {
	out := make([]domain.Stop, len(stops))
	ids := make(map[string]struct{}, len(stops))
	for i, st := range stops {
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("stop at position %d: %w", i, err)
		}
		if _, dup := ids[st.ID]; dup {
			return nil, fmt.Errorf("stop %q: %w", st.ID, domain.ErrDuplicateID)
		}
		ids[st.ID] = struct{}{}
		out[i] = st.Clone()
	}

	if !contiguous(out) {
		for i := range out {
			out[i].OrderIndex = i
		}
		return out, nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

// contiguous reports whether the OrderIndex values are exactly {0..n-1}.
func contiguous(stops []domain.Stop) bool {
	seen := make([]bool, len(stops))
	for _, st := range stops {
		if st.OrderIndex < 0 || st.OrderIndex >= len(stops) || seen[st.OrderIndex] {
			return false
		}
		seen[st.OrderIndex] = true
	}
	return true
}
