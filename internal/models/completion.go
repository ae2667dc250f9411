package models

import (
	"time"

	"github.com/google/uuid"
)

// Completion is evidence that a plan workout happened. ExerciseName is set
// for slot-level auto-completions and empty for manual day-level
// completions. CompletedOn is the calendar date of CompletedAt; together
// with user, plan and exercise name it forms the auto-completion dedupe
// key enforced by the database.
//
// Completions are never updated or deleted.
type Completion struct {
	ID              uuid.UUID `json:"id"`
	UserID          int       `json:"user_id"`
	PlanID          uuid.UUID `json:"plan_id"`
	WeekIndex       int       `json:"week_index"`
	DayIndex        int       `json:"day_index"`
	WeekName        string    `json:"week_name"`
	DayName         string    `json:"day_name"`
	ExerciseName    string    `json:"exercise_name,omitempty"`
	CompletedAt     time.Time `json:"completed_at"`
	CompletedOn     time.Time `json:"completed_on"`
	Intensity       string    `json:"intensity"`
	CaloriesBurned  int       `json:"calories_burned"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes,omitempty"`
	AutoCompleted   bool      `json:"auto_completed"`
}

// UserAchievement records that a user earned an achievement. At most one
// row exists per (user, achievement id); once earned it is never revoked.
type UserAchievement struct {
	UserID        int       `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}
