// Package schedule derives a linear day-plan from an ordered list of stops and
// reports advisories about it. Every function here is pure: it reads the
// stops it is given and never mutates an itinerary.
package schedule

import (
	"sort"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// Slot is the computed time window for one stop.
// Start and End are minutes from midnight of the first day and are not
// wrapped at 1440, so a plan that runs past midnight keeps its order.
type Slot struct {
	StopID   string `json:"stop_id"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Explicit bool   `json:"explicit"`
	Duration int    `json:"duration_minutes"`
}

// AdvisoryKind classifies a schedule advisory. Advisories never block a
// mutation; the caller decides what to do with them.
type AdvisoryKind string

const (
	// Overlap: an explicit start falls before the previous stop's end.
	Overlap AdvisoryKind = "overlap"
	// Underspecified: the stop has no usable duration.
	Underspecified AdvisoryKind = "underspecified"
)

// Advisory is one non-fatal finding about a schedule.
// For Overlap, PrevStopID names the earlier stop and Minutes the overlap length.
type Advisory struct {
	Kind       AdvisoryKind `json:"kind"`
	StopID     string       `json:"stop_id"`
	PrevStopID string       `json:"prev_stop_id,omitempty"`
	Minutes    int          `json:"minutes,omitempty"`
}

// Compute walks the stops in OrderIndex order. A stop without a planned start
// begins when the previous stop ends (0 for the first stop).
func Compute(stops []domain.Stop) []Slot {
	ordered := sortedCopy(stops)
	slots := make([]Slot, 0, len(ordered))

	prevEnd := 0
	for _, s := range ordered {
		slot := Slot{StopID: s.ID, Start: prevEnd, Duration: s.DurationMinutes}
		if s.PlannedStart != nil {
			slot.Start = *s.PlannedStart
			slot.Explicit = true
		}
		slot.End = slot.Start + max(s.DurationMinutes, 0)
		slots = append(slots, slot)
		prevEnd = slot.End
	}
	return slots
}

// DetectConflicts checks adjacent pairs only: position already totally orders
// the stops, so this is a single linear plan rather than an interval graph.
// A pair is checked only when the later stop has an explicit start. A stop
// with no duration is reported as Underspecified and never causes an Overlap
// with the stop after it.
func DetectConflicts(slots []Slot) []Advisory {
	var out []Advisory
	for i, cur := range slots {
		if cur.Duration <= 0 {
			out = append(out, Advisory{Kind: Underspecified, StopID: cur.StopID})
		}
		if i == 0 || !cur.Explicit {
			continue
		}
		prev := slots[i-1]
		if prev.Duration <= 0 {
			continue
		}
		if prev.End > cur.Start {
			out = append(out, Advisory{
				Kind:       Overlap,
				StopID:     cur.StopID,
				PrevStopID: prev.StopID,
				Minutes:    prev.End - cur.Start,
			})
		}
	}
	return out
}

// Overlaps filters advisories down to the Overlap kind.
func Overlaps(advisories []Advisory) []Advisory {
	var out []Advisory
	for _, a := range advisories {
		if a.Kind == Overlap {
			out = append(out, a)
		}
	}
	return out
}

func sortedCopy(stops []domain.Stop) []domain.Stop {
	out := make([]domain.Stop, len(stops))
	copy(out, stops)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}
