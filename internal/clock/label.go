package clock

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// ParseLabel reads the "hh:mm AM" strings used by the mobile client's seed data.
// An empty label means "not scheduled" and yields nil.
func ParseLabel(label string) (*int, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, nil
	}
	clockPart, meridiemPart, ok := strings.Cut(label, " ")
	if !ok {
		return nil, fmt.Errorf("clock.ParseLabel: %w: %q has no meridiem", domain.ErrInvalidTime, label)
	}
	hh, mm, ok := strings.Cut(clockPart, ":")
	if !ok {
		return nil, fmt.Errorf("clock.ParseLabel: %w: %q is not hh:mm", domain.ErrInvalidTime, label)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return nil, fmt.Errorf("clock.ParseLabel: %w: hour %q", domain.ErrInvalidTime, hh)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return nil, fmt.Errorf("clock.ParseLabel: %w: minute %q", domain.ErrInvalidTime, mm)
	}
	m, err := ParseMeridiem(meridiemPart)
	if err != nil {
		return nil, err
	}
	total, err := ParseClock(hour, minute, m)
	if err != nil {
		return nil, err
	}
	return &total, nil
}

// FormatLabel renders minutes since midnight as "hh:mm AM".
func FormatLabel(minutes int) (string, error) {
	h, m, mer, err := FormatClock(minutes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d %s", h, m, mer), nil
}

// DurationFromHours converts a fractional hour count (2.5) to whole minutes,
// rounding to the nearest minute. NaN and negative values are rejected.
func DurationFromHours(hours float64) (int, error) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0, fmt.Errorf("clock.DurationFromHours: %w: %v", domain.ErrInvalidDuration, hours)
	}
	return int(math.Round(hours * 60)), nil
}
