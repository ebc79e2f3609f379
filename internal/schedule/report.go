package schedule

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// EarthRadiusMeters is the mean Earth radius used to turn s2 angles into metres.
const EarthRadiusMeters = 6371008.8

// Leg is the straight-line distance between two consecutive stops that both
// carry coordinates.
type Leg struct {
	FromStopID string  `json:"from_stop_id"`
	ToStopID   string  `json:"to_stop_id"`
	Meters     float64 `json:"meters"`
}

// Report bundles everything derived from one snapshot of an itinerary.
type Report struct {
	Slots      []Slot     `json:"slots"`
	Advisories []Advisory `json:"advisories"`
	Legs       []Leg      `json:"legs"`
	// Span is the time from the first slot's start to the last slot's end.
	Span int `json:"span_minutes"`
}

// Analyze computes the schedule, advisories, and legs for stops.
func Analyze(stops []domain.Stop) Report {
	slots := Compute(stops)
	r := Report{
		Slots:      slots,
		Advisories: DetectConflicts(slots),
		Legs:       Legs(stops),
	}
	if r.Advisories == nil {
		r.Advisories = []Advisory{}
	}
	if len(slots) > 0 {
		r.Span = slots[len(slots)-1].End - slots[0].Start
	}
	return r
}

// Legs measures great-circle distance between consecutive stops. A stop
// without coordinates breaks the chain; no leg is reported across it.
func Legs(stops []domain.Stop) []Leg {
	ordered := sortedCopy(stops)
	legs := []Leg{}
	for i := 1; i < len(ordered); i++ {
		a, b := ordered[i-1], ordered[i]
		if a.Coordinates == nil || b.Coordinates == nil {
			continue
		}
		legs = append(legs, Leg{
			FromStopID: a.ID,
			ToStopID:   b.ID,
			Meters:     distance(*a.Coordinates, *b.Coordinates),
		})
	}
	return legs
}

func distance(a, b domain.Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	var angle s1.Angle = p1.Distance(p2)
	return angle.Radians() * EarthRadiusMeters
}
