// Package clock converts between the 12-hour clock and half-hour duration
// fields a person edits and the minute counts the itinerary stores.
// All values are local wall-clock; there is no timezone handling.
package clock

import (
	"fmt"
	"strings"

	"github.com/pkordes/wetravel-itinerary/internal/domain"
)

// Meridiem is the AM/PM half of a 12-hour clock reading.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// ParseMeridiem accepts "am"/"pm" in any casing.
func ParseMeridiem(raw string) (Meridiem, error) {
	switch Meridiem(strings.ToUpper(strings.TrimSpace(raw))) {
	case AM:
		return AM, nil
	case PM:
		return PM, nil
	}
	return "", fmt.Errorf("clock.ParseMeridiem: %w: meridiem %q", domain.ErrInvalidTime, raw)
}

// ParseClock converts a 12-hour reading into minutes since midnight.
// 12:00 AM is 0 and 12:00 PM is 720.
func ParseClock(hour, minute int, m Meridiem) (int, error) {
	if hour < 1 || hour > 12 {
		return 0, fmt.Errorf("clock.ParseClock: %w: hour %d not in 1..12", domain.ErrInvalidTime, hour)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock.ParseClock: %w: minute %d not in 0..59", domain.ErrInvalidTime, minute)
	}
	if m != AM && m != PM {
		return 0, fmt.Errorf("clock.ParseClock: %w: meridiem %q", domain.ErrInvalidTime, m)
	}
	total := (hour%12)*60 + minute
	if m == PM {
		total += 720
	}
	return total, nil
}

// FormatClock is the exact inverse of ParseClock.
func FormatClock(minutes int) (hour, minute int, m Meridiem, err error) {
	if !domain.ValidMinuteOfDay(minutes) {
		return 0, 0, "", fmt.Errorf("clock.FormatClock: %w: %d not in 0..1439", domain.ErrInvalidTime, minutes)
	}
	m = AM
	if minutes >= 720 {
		m = PM
	}
	hour = (minutes / 60) % 12
	if hour == 0 {
		hour = 12
	}
	return hour, minutes % 60, m, nil
}

// ParseDuration converts structured editor input into a minute count.
// The editor only offers whole and half hours, so minutes must be 0 or 30.
func ParseDuration(hours, minutes int) (int, error) {
	if hours < 0 {
		return 0, fmt.Errorf("clock.ParseDuration: %w: hours %d is negative", domain.ErrInvalidDuration, hours)
	}
	if minutes != 0 && minutes != 30 {
		return 0, fmt.Errorf("clock.ParseDuration: %w: minutes %d not in {0,30}", domain.ErrInvalidDuration, minutes)
	}
	return hours*60 + minutes, nil
}

// ToHalfHourParts splits a stored duration into editor controls, flooring to
// the 30-minute step below. 155 minutes shows as 2h30, never 3h00.
func ToHalfHourParts(durationMinutes int) (hours, minutes int) {
	if durationMinutes <= 0 {
		return 0, 0
	}
	hours = durationMinutes / 60
	if durationMinutes%60 >= 30 {
		minutes = 30
	}
	return hours, minutes
}
