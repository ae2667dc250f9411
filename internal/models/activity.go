package models

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseEntry is one logged exercise session. Entries are append-only;
// the scanner synthesizes them too, flagged with AutoCompleted.
type ExerciseEntry struct {
	ID              uuid.UUID `json:"id"`
	UserID          int       `json:"user_id"`
	Date            time.Time `json:"date"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	Distance        *float64  `json:"distance,omitempty"`
	CaloriesBurned  int       `json:"calories_burned"`
	Intensity       int       `json:"intensity"`
	Notes           string    `json:"notes,omitempty"`
	AutoCompleted   bool      `json:"auto_completed"`
	CreatedAt       time.Time `json:"created_at"`
}

// FoodEntry is one logged meal or snack. Append-only.
type FoodEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"user_id"`
	Date      time.Time `json:"date"`
	Name      string    `json:"name"`
	Calories  int       `json:"calories"`
	MealType  string    `json:"meal_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WeightEntry is one weight measurement. The most recent entry is the
// user's current weight for goal checks.
type WeightEntry struct {
	UserID    int       `json:"user_id"`
	Date      time.Time `json:"date"`
	Kilograms float64   `json:"kilograms"`
}

// User is an account row. InitialWeight and WeightGoal feed the
// weight-related achievement predicates; either may be unset.
type User struct {
	ID            int       `json:"id"`
	Login         string    `json:"login"`
	DisplayName   string    `json:"display_name"`
	InitialWeight *float64  `json:"initial_weight,omitempty"`
	WeightGoal    *float64  `json:"weight_goal,omitempty"`
	LastSeen      time.Time `json:"last_seen"`
}
