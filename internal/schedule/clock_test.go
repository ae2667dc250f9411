package schedule

import (
	"errors"
	"testing"
	"time"
)

// TestParseClock verifies parsing of well-formed 24-hour strings.
func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want Clock
	}{
		{"00:00", Clock{0, 0}},
		{"07:30", Clock{7, 30}},
		{"23:59", Clock{23, 59}},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if err != nil {
			t.Errorf("ParseClock(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

// TestParseClockRejectsMalformed verifies that out-of-range and malformed
// strings fail instead of silently producing a bogus time.
func TestParseClockRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "0730", "24:00", "12:60", "-1:00", "ab:cd", "12"} {
		if _, err := ParseClock(in); err == nil {
			t.Errorf("ParseClock(%q) = nil error, want failure", in)
		}
	}
}

// TestDurationSameDay verifies the plain case where end follows start
// within one day.
func TestDurationSameDay(t *testing.T) {
	got, err := Duration("08:00", "09:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 60 {
		t.Errorf("Duration(08:00, 09:00) = %d, want 60", got)
	}
}

// TestDurationWrapsMidnight verifies that an end earlier than the start is
// read as crossing midnight rather than returning a negative duration.
func TestDurationWrapsMidnight(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"23:30", "00:30", 60},
		{"09:00", "08:00", 23 * 60},
		{"22:00", "06:00", 8 * 60},
	}
	for _, tc := range cases {
		got, err := Duration(tc.start, tc.end)
		if err != nil {
			t.Errorf("Duration(%s, %s) error: %v", tc.start, tc.end, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Duration(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

// TestDurationZeroWhenEqual verifies that identical start and end yield
// zero, not a full day. ValidateRange rejects such slots at creation;
// Duration just stays consistent if one slips through.
func TestDurationZeroWhenEqual(t *testing.T) {
	got, err := Duration("10:00", "10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("Duration(10:00, 10:00) = %d, want 0", got)
	}
}

// TestValidateRange verifies that slot creation accepts only ranges where
// end is strictly after start.
func TestValidateRange(t *testing.T) {
	if err := ValidateRange("07:00", "07:45"); err != nil {
		t.Errorf("ValidateRange(07:00, 07:45) = %v, want nil", err)
	}
	for _, tc := range [][2]string{{"07:45", "07:00"}, {"07:00", "07:00"}, {"23:30", "00:30"}} {
		err := ValidateRange(tc[0], tc[1])
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("ValidateRange(%s, %s) = %v, want ErrInvalidRange", tc[0], tc[1], err)
		}
	}
}

// TestValidateRangeParseError verifies that a malformed time surfaces as a
// parse error, not ErrInvalidRange.
func TestValidateRangeParseError(t *testing.T) {
	err := ValidateRange("7am", "08:00")
	if err == nil {
		t.Fatal("expected error for malformed start time")
	}
	if errors.Is(err, ErrInvalidRange) {
		t.Errorf("got ErrInvalidRange for malformed input, want parse error")
	}
}

// TestSlotElapsed verifies the strictly-after comparison: a slot is
// elapsed only once the current minute is past the end minute, so a scan
// running exactly at the end time does not yet complete the slot.
func TestSlotElapsed(t *testing.T) {
	cases := []struct {
		end  string
		now  time.Time
		want bool
	}{
		{"07:45", time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), true},
		{"07:45", time.Date(2024, 3, 4, 7, 46, 0, 0, time.UTC), true},
		{"07:45", time.Date(2024, 3, 4, 7, 45, 0, 0, time.UTC), false},
		{"07:45", time.Date(2024, 3, 4, 7, 30, 0, 0, time.UTC), false},
		{"07:45", time.Date(2024, 3, 4, 6, 59, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		got, err := SlotElapsed(tc.end, tc.now)
		if err != nil {
			t.Errorf("SlotElapsed(%s, %v) error: %v", tc.end, tc.now, err)
			continue
		}
		if got != tc.want {
			t.Errorf("SlotElapsed(%s, %02d:%02d) = %v, want %v", tc.end, tc.now.Hour(), tc.now.Minute(), got, tc.want)
		}
	}
}
