// Package schedule implements the interval math behind calendar-mode
// workout plans: "HH:MM" wall-clock slots on recurring weekdays, duration
// with midnight wraparound, and the 7x24 grid used to render a weekly
// calendar.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRange is returned when a slot's end is not strictly after its
// start in the same-day interpretation. Slot creation rejects such ranges;
// scheduling math applies wraparound instead (see Duration).
var ErrInvalidRange = errors.New("invalid time range")

const minutesPerDay = 24 * 60

// Clock is a time of day parsed from a 24-hour "HH:MM" string.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return Clock{}, fmt.Errorf("parsing clock %q: missing colon", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return Clock{}, fmt.Errorf("parsing clock %q: %w", s, err)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return Clock{}, fmt.Errorf("parsing clock %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("parsing clock %q: out of range", s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// Minutes returns the clock as minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Duration returns the elapsed minutes between two clock times. An end
// earlier than the start is treated as crossing midnight, so
// Duration("23:30", "00:30") is 60, never negative.
func Duration(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	d := e.Minutes() - s.Minutes()
	if d < 0 {
		d = minutesPerDay - s.Minutes() + e.Minutes()
	}
	return d, nil
}

// ValidateRange checks that a new slot is well-formed: both times parse
// and end is strictly later than start within the same day. Wraparound
// slots are not accepted at creation time.
func ValidateRange(start, end string) error {
	s, err := ParseClock(start)
	if err != nil {
		return err
	}
	e, err := ParseClock(end)
	if err != nil {
		return err
	}
	if e.Minutes() <= s.Minutes() {
		return fmt.Errorf("%w: %s is not after %s", ErrInvalidRange, end, start)
	}
	return nil
}

// SlotElapsed reports whether a slot ending at the given clock time has
// fully passed by now, using now's local hour and minute.
func SlotElapsed(end string, now time.Time) (bool, error) {
	e, err := ParseClock(end)
	if err != nil {
		return false, err
	}
	return now.Hour() > e.Hour || (now.Hour() == e.Hour && now.Minute() > e.Minute), nil
}
