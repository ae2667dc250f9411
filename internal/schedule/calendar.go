package schedule

import (
	"time"

	"github.com/meltforce/stridelog/internal/models"
)

// Weekdays lists the calendar day names in display order. Calendar-mode
// plan days must use these names.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayName returns the plan day name for a timestamp.
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}

// IsWeekday reports whether name is one of the seven weekday names.
func IsWeekday(name string) bool {
	for _, d := range Weekdays {
		if d == name {
			return true
		}
	}
	return false
}

// HourRow holds the slots relevant to one (weekday, hour) cell of the
// calendar grid: those starting within the hour and those merely covering
// it. A covering slot started in an earlier row and runs through this one,
// so the UI paints the block once at its start and skips covered cells.
type HourRow struct {
	Starting []models.Exercise `json:"starting,omitempty"`
	Covering []models.Exercise `json:"covering,omitempty"`
}

// Grid is a rendered weekly calendar: 24 hour rows per weekday.
type Grid map[string]*[24]HourRow

// SlotsStartingAt returns the day's exercises whose start time falls
// within the given hour row. Exercises without both times set never
// appear on the grid.
func SlotsStartingAt(day models.Day, hour int) []models.Exercise {
	var out []models.Exercise
	for _, ex := range day.Exercises {
		if ex.StartTime == "" || ex.EndTime == "" {
			continue
		}
		c, err := ParseClock(ex.StartTime)
		if err != nil {
			continue
		}
		if c.Hour == hour {
			out = append(out, ex)
		}
	}
	return out
}

// SlotsCovering returns the day's exercises whose interval strictly
// contains the hour row's start instant without starting there. Used to
// suppress double-processing of multi-hour blocks.
func SlotsCovering(day models.Day, hour int) []models.Exercise {
	rowStart := hour * 60
	var out []models.Exercise
	for _, ex := range day.Exercises {
		if ex.StartTime == "" || ex.EndTime == "" {
			continue
		}
		s, err := ParseClock(ex.StartTime)
		if err != nil {
			continue
		}
		e, err := ParseClock(ex.EndTime)
		if err != nil {
			continue
		}
		if rowStart > s.Minutes() && rowStart < e.Minutes() {
			out = append(out, ex)
		}
	}
	return out
}

// BuildGrid renders a calendar-mode plan's first week onto the weekly
// grid. Days whose names are not weekdays are ignored.
func BuildGrid(p models.Plan) Grid {
	grid := make(Grid, len(Weekdays))
	for _, name := range Weekdays {
		grid[name] = &[24]HourRow{}
	}
	if len(p.Weeks) == 0 {
		return grid
	}
	for _, day := range p.Weeks[0].Days {
		rows, ok := grid[day.Name]
		if !ok {
			continue
		}
		for hour := 0; hour < 24; hour++ {
			rows[hour] = HourRow{
				Starting: SlotsStartingAt(day, hour),
				Covering: SlotsCovering(day, hour),
			}
		}
	}
	return grid
}

// UpcomingSlot returns the first exercise on today's plan day that starts
// within the next hour after now, or nil if none does. Shown as a
// reminder on the schedule page.
func UpcomingSlot(p models.Plan, now time.Time) *models.Exercise {
	day, _ := p.FirstWeekDay(WeekdayName(now))
	if day == nil {
		return nil
	}
	for _, ex := range day.Exercises {
		if ex.StartTime == "" || ex.EndTime == "" {
			continue
		}
		c, err := ParseClock(ex.StartTime)
		if err != nil {
			continue
		}
		if c.Hour > now.Hour() && c.Hour <= now.Hour()+1 {
			found := ex
			return &found
		}
	}
	return nil
}
