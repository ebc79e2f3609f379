package domain

import "errors"

// ErrNotFound is returned when an operation references a trip or stop id that
// the itinerary does not hold.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing trip name, empty location name).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidPermutation is returned by Reorder when the supplied id sequence is
// not exactly the current id set (missing, duplicate, or foreign ids).
// Handlers should map this to HTTP 409 Conflict.
var ErrInvalidPermutation = errors.New("invalid permutation")

// ErrInvalidTime is returned for clock input outside 1..12 / 0..59, or a
// minutes-since-midnight value outside 0..1439.
var ErrInvalidTime = errors.New("invalid time")

// ErrInvalidDuration is returned for negative durations, or structured editor
// input whose minute part is not 0 or 30.
var ErrInvalidDuration = errors.New("invalid duration")

// ErrDuplicateID is returned by Import and Append when a stop id is already
// present in the itinerary.
var ErrDuplicateID = errors.New("duplicate stop id")

// ErrNoOpenDraft is returned by Commit and the draft setters when no edit
// session is open.
var ErrNoOpenDraft = errors.New("no open edit draft")
