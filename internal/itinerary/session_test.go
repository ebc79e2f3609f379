package itinerary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wetravel-itinerary/internal/clock"
	"github.com/pkordes/wetravel-itinerary/internal/domain"
	"github.com/pkordes/wetravel-itinerary/internal/itinerary"
	"github.com/pkordes/wetravel-itinerary/internal/schedule"
)

func TestEditSession_Open_FloorsDurationParts(t *testing.T) {
	s := seededStore(t, 2)
	require.NoError(t, s.ApplyEdit("1", domain.ScheduleFields{PlannedStart: domain.IntPtr(780), DurationMinutes: 155, Note: "n"}))
	e := itinerary.NewEditSession(s)

	d, err := e.Open("1")

	require.NoError(t, err)
	assert.True(t, d.Scheduled)
	assert.Equal(t, 1, d.Hour)
	assert.Equal(t, 0, d.Minute)
	assert.Equal(t, clock.PM, d.Meridiem)
	assert.Equal(t, 2, d.DurationHours)
	assert.Equal(t, 30, d.DurationMinutes, "155 minutes shows as 2h30, never 3h00")
	assert.Equal(t, "n", d.Note)
}

func TestEditSession_Commit_StoresParsedDuration(t *testing.T) {
	s := seededStore(t, 2)
	e := itinerary.NewEditSession(s)
	_, err := e.Open("1")
	require.NoError(t, err)

	require.NoError(t, e.SetDuration(2, 30))
	_, err = e.Commit()

	require.NoError(t, err)
	got, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, 150, got.DurationMinutes)
	_, open := e.Current()
	assert.False(t, open, "commit closes the draft")
}

func TestEditSession_Commit_UntouchedDurationIsPreserved(t *testing.T) {
	s := seededStore(t, 1)
	require.NoError(t, s.ApplyEdit("1", domain.ScheduleFields{DurationMinutes: 155}))
	e := itinerary.NewEditSession(s)
	_, err := e.Open("1")
	require.NoError(t, err)

	require.NoError(t, e.SetNote("renamed"))
	_, err = e.Commit()

	require.NoError(t, err)
	got, _ := s.Get("1")
	assert.Equal(t, 155, got.DurationMinutes)
	assert.Equal(t, "renamed", got.Note)
}

func TestEditSession_DraftInvisibleUntilCommit(t *testing.T) {
	s := seededStore(t, 2)
	before := s.List()
	e := itinerary.NewEditSession(s)
	_, err := e.Open("2")
	require.NoError(t, err)

	require.NoError(t, e.SetClock(7, 15, clock.PM))
	require.NoError(t, e.SetNote("draft only"))

	assert.Equal(t, before, s.List())

	e.Cancel()
	assert.Equal(t, before, s.List())
	_, open := e.Current()
	assert.False(t, open)
}

func TestEditSession_Commit_InvalidTimeKeepsDraftOpen(t *testing.T) {
	s := seededStore(t, 2)
	before := s.List()
	e := itinerary.NewEditSession(s)
	_, err := e.Open("1")
	require.NoError(t, err)
	require.NoError(t, e.SetClock(13, 0, clock.PM))

	_, err = e.Commit()

	assert.ErrorIs(t, err, domain.ErrInvalidTime)
	assert.Equal(t, before, s.List())
	_, open := e.Current()
	require.True(t, open, "draft stays open for correction")

	require.NoError(t, e.SetClock(1, 0, clock.PM))
	_, err = e.Commit()
	require.NoError(t, err)
	got, _ := s.Get("1")
	assert.Equal(t, 780, *got.PlannedStart)
}

func TestEditSession_Commit_InvalidDuration(t *testing.T) {
	s := seededStore(t, 1)
	e := itinerary.NewEditSession(s)
	_, err := e.Open("1")
	require.NoError(t, err)
	require.NoError(t, e.SetDuration(1, 15))

	_, err = e.Commit()

	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestEditSession_Commit_OverlapIsWarningOnly(t *testing.T) {
	// Stop 1 at 09:00 for 60, stop 2 at 11:00.
	s := seededStore(t, 2)
	e := itinerary.NewEditSession(s)
	_, err := e.Open("1")
	require.NoError(t, err)
	require.NoError(t, e.SetDuration(3, 0))

	advisories, err := e.Commit()

	require.NoError(t, err)
	require.Len(t, advisories, 1)
	assert.Equal(t, schedule.Overlap, advisories[0].Kind)
	assert.Equal(t, "2", advisories[0].StopID)
	got, _ := s.Get("1")
	assert.Equal(t, 180, got.DurationMinutes, "commit is not blocked by advisories")
}

func TestEditSession_ClearClock(t *testing.T) {
	s := seededStore(t, 1)
	e := itinerary.NewEditSession(s)
	_, err := e.Open("1")
	require.NoError(t, err)

	require.NoError(t, e.ClearClock())
	_, err = e.Commit()

	require.NoError(t, err)
	got, _ := s.Get("1")
	assert.Nil(t, got.PlannedStart)
}

func TestEditSession_LastOpenWins(t *testing.T) {
	s := seededStore(t, 1)
	e := itinerary.NewEditSession(s)
	_, err := e.Open("1")
	require.NoError(t, err)
	require.NoError(t, e.SetNote("first draft"))

	d, err := e.Open("1")
	require.NoError(t, err)
	assert.Empty(t, d.Note, "reopen snapshots the store, not the old draft")

	_, err = e.Commit()
	require.NoError(t, err)
	got, _ := s.Get("1")
	assert.Empty(t, got.Note)
}

func TestEditSession_NoDraft(t *testing.T) {
	e := itinerary.NewEditSession(seededStore(t, 1))

	_, err := e.Commit()
	assert.ErrorIs(t, err, domain.ErrNoOpenDraft)
	assert.ErrorIs(t, e.SetNote("x"), domain.ErrNoOpenDraft)

	_, err = e.Open("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditSession_Commit_StopDeletedMeanwhile(t *testing.T) {
	s := seededStore(t, 2)
	e := itinerary.NewEditSession(s)
	_, err := e.Open("1")
	require.NoError(t, err)
	require.NoError(t, s.Delete("1"))

	_, err = e.Commit()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditSession_RestoreReopensCommittedDraft(t *testing.T) {
	s := seededStore(t, 2)
	e := itinerary.NewEditSession(s)
	_, err := e.Open("1")
	require.NoError(t, err)
	require.NoError(t, e.SetDuration(2, 0))
	d, ok := e.Current()
	require.True(t, ok)

	_, err = e.Commit()
	require.NoError(t, err)
	_, ok = e.Current()
	require.False(t, ok)

	e.Restore(d)
	got, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, d, got)
	require.NoError(t, e.SetNote("again"))
	_, err = e.Commit()
	require.NoError(t, err)
	st, _ := s.Get("1")
	assert.Equal(t, 120, st.DurationMinutes, "restored draft keeps its touched duration")
	assert.Equal(t, "again", st.Note)
}
