package itinerary

import (
	"fmt"
	"sync"

	"github.com/pkordes/wetravel-itinerary/internal/clock"
	"github.com/pkordes/wetravel-itinerary/internal/domain"
	"github.com/pkordes/wetravel-itinerary/internal/schedule"
)

// Draft is a detached copy of one stop's schedule fields, expressed as the
// editor controls a person manipulates. It is never visible to readers of
// the store until Commit succeeds.
type Draft struct {
	StopID string `json:"stop_id"`

	// Scheduled is false when the stop has no planned start; the clock
	// fields are then ignored on commit.
	Scheduled bool           `json:"scheduled"`
	Hour      int            `json:"hour"`
	Minute    int            `json:"minute"`
	Meridiem  clock.Meridiem `json:"meridiem"`

	DurationHours   int `json:"duration_hours"`
	DurationMinutes int `json:"duration_minutes"`

	Note string `json:"note"`

	// stored is the committed duration at Open. It is written back unchanged
	// unless SetDuration was called, so opening and committing a 155 minute
	// stop does not truncate it to 150.
	stored          int
	durationTouched bool
}

// EditSession manages at most one open draft for a store.
// Open on a new or the same stop discards any earlier draft.
type EditSession struct {
	mu    sync.Mutex
	store *Store
	draft *Draft
}

// NewEditSession returns a session with no open draft.
func NewEditSession(store *Store) *EditSession {
	return &EditSession{store: store}
}

// Open snapshots the stop's schedule fields into a fresh draft.
// Returns domain.ErrNotFound if the stop does not exist.
func (e *EditSession) Open(stopID string) (Draft, error) {
	st, err := e.store.Get(stopID)
	if err != nil {
		return Draft{}, fmt.Errorf("itinerary.EditSession.Open: %w", err)
	}

	d := Draft{StopID: st.ID, Note: st.Note, Meridiem: clock.AM, Hour: 12, stored: st.DurationMinutes}
	if st.PlannedStart != nil {
		h, m, mer, err := clock.FormatClock(*st.PlannedStart)
		if err != nil {
			return Draft{}, fmt.Errorf("itinerary.EditSession.Open: %w", err)
		}
		d.Scheduled, d.Hour, d.Minute, d.Meridiem = true, h, m, mer
	}
	d.DurationHours, d.DurationMinutes = clock.ToHalfHourParts(st.DurationMinutes)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = &d
	return d, nil
}

// Current returns the open draft, if any.
func (e *EditSession) Current() (Draft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return Draft{}, false
	}
	return *e.draft, true
}

// Restore reinstates a draft previously returned by Current, replacing any
// open draft.
func (e *EditSession) Restore(d Draft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = &d
}

// SetClock records a start time on the draft. Validation happens on Commit
// so an out-of-range entry can be corrected without reopening.
func (e *EditSession) SetClock(hour, minute int, m clock.Meridiem) error {
	return e.update(func(d *Draft) {
		d.Scheduled, d.Hour, d.Minute, d.Meridiem = true, hour, minute, m
	})
}

// ClearClock marks the draft as unscheduled.
func (e *EditSession) ClearClock() error {
	return e.update(func(d *Draft) { d.Scheduled = false })
}

// SetDuration records editor duration controls on the draft.
func (e *EditSession) SetDuration(hours, minutes int) error {
	return e.update(func(d *Draft) {
		d.DurationHours, d.DurationMinutes, d.durationTouched = hours, minutes, true
	})
}

// SetNote replaces the draft note.
func (e *EditSession) SetNote(note string) error {
	return e.update(func(d *Draft) { d.Note = note })
}

// Commit validates the draft, computes advisories against the itinerary as it
// would look after the edit, then applies all three fields at once.
//
// Advisories are warnings only and never block the commit. On a validation
// or store error the draft stays open for correction.
func (e *EditSession) Commit() ([]schedule.Advisory, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return nil, fmt.Errorf("itinerary.EditSession.Commit: %w", domain.ErrNoOpenDraft)
	}
	fields, err := e.draft.fields()
	if err != nil {
		return nil, fmt.Errorf("itinerary.EditSession.Commit: %w", err)
	}

	advisories := hypotheticalAdvisories(e.store.List(), e.draft.StopID, fields)

	if err := e.store.ApplyEdit(e.draft.StopID, fields); err != nil {
		return nil, fmt.Errorf("itinerary.EditSession.Commit: %w", err)
	}
	e.draft = nil
	return advisories, nil
}

// Cancel discards the open draft, if any. The store is untouched.
func (e *EditSession) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = nil
}

func (e *EditSession) update(fn func(d *Draft)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return domain.ErrNoOpenDraft
	}
	fn(e.draft)
	return nil
}

// fields runs the editor controls through the clock codec.
func (d *Draft) fields() (domain.ScheduleFields, error) {
	out := domain.ScheduleFields{Note: d.Note}
	if d.Scheduled {
		start, err := clock.ParseClock(d.Hour, d.Minute, d.Meridiem)
		if err != nil {
			return domain.ScheduleFields{}, err
		}
		out.PlannedStart = &start
	}

	duration, err := clock.ParseDuration(d.DurationHours, d.DurationMinutes)
	if err != nil {
		return domain.ScheduleFields{}, err
	}
	if !d.durationTouched {
		duration = d.stored
	}
	out.DurationMinutes = duration
	return out, nil
}

// hypotheticalAdvisories returns the advisories for the whole itinerary as it
// would look once fields are applied to stopID. A changed duration can shift
// chained stops further down, so every pair is re-checked.
func hypotheticalAdvisories(stops []domain.Stop, stopID string, fields domain.ScheduleFields) []schedule.Advisory {
	for i := range stops {
		if stops[i].ID == stopID {
			stops[i].PlannedStart = fields.PlannedStart
			stops[i].DurationMinutes = fields.DurationMinutes
		}
	}
	return schedule.DetectConflicts(schedule.Compute(stops))
}
