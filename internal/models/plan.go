package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a workout plan owned by a user. A plan flagged CalendarMode is a
// recurring weekly template: only the first week's days are matched against
// the real-world weekday, and exercise start/end are wall-clock times.
//
// Plans are treated as immutable values once loaded; edits go through Clone.
type Plan struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      int       `json:"owner_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Weeks        []Week    `json:"weeks"`
	Difficulty   string    `json:"difficulty,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Public       bool      `json:"public"`
	CalendarMode bool      `json:"calendar_mode"`
	CopiedFrom   *PlanRef  `json:"copied_from,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlanRef records where a copied plan came from.
type PlanRef struct {
	PlanID   uuid.UUID `json:"plan_id"`
	OwnerID  int       `json:"owner_id"`
	CopiedAt time.Time `json:"copied_at"`
}

// Week is a named ordered list of days.
type Week struct {
	Name string `json:"name"`
	Days []Day  `json:"days"`
}

// Day is a named ordered list of exercises. For calendar-mode plans the
// name is a weekday ("Monday".."Sunday"); otherwise it is a free label.
type Day struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise is a single slot within a day. Sets, reps and weight are
// free-form ("3", "10-12", "60kg"). StartTime/EndTime are 24-hour "HH:MM"
// wall-clock strings, set only on calendar-mode plans.
type Exercise struct {
	Name      string `json:"name"`
	Sets      string `json:"sets,omitempty"`
	Reps      string `json:"reps,omitempty"`
	Weight    string `json:"weight,omitempty"`
	Notes     string `json:"notes,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// Clone returns a deep copy of the plan so callers can edit without
// mutating the loaded value.
func (p Plan) Clone() Plan {
	out := p
	out.Weeks = make([]Week, len(p.Weeks))
	for i, w := range p.Weeks {
		days := make([]Day, len(w.Days))
		for j, d := range w.Days {
			exercises := make([]Exercise, len(d.Exercises))
			copy(exercises, d.Exercises)
			days[j] = Day{Name: d.Name, Exercises: exercises}
		}
		out.Weeks[i] = Week{Name: w.Name, Days: days}
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	if p.CopiedFrom != nil {
		ref := *p.CopiedFrom
		out.CopiedFrom = &ref
	}
	return out
}

// FirstWeekDay returns the day in the plan's first week with the given
// name, or nil if the plan has no weeks or no matching day.
func (p Plan) FirstWeekDay(name string) (*Day, int) {
	if len(p.Weeks) == 0 {
		return nil, -1
	}
	for i, d := range p.Weeks[0].Days {
		if d.Name == name {
			day := d
			return &day, i
		}
	}
	return nil, -1
}
