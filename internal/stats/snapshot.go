// Package stats derives a point-in-time statistics snapshot from a user's
// raw activity logs. Aggregation is pure and side-effect free, so it is
// safe to recompute on every request; achievement predicates evaluate
// against the snapshot rather than the raw logs.
package stats

import (
	"time"

	"github.com/meltforce/stridelog/internal/models"
)

// Snapshot is the ephemeral aggregate consumed by achievement predicates
// and the dashboard. It is recomputed per evaluation and never persisted.
type Snapshot struct {
	ExerciseCount          int     `json:"exercise_count"`
	ExerciseTypes          int     `json:"exercise_types"`
	LongestStreak          int     `json:"longest_streak"`
	TotalWorkoutMinutes    int     `json:"total_workout_minutes"`
	TotalCaloriesBurned    int     `json:"total_calories_burned"`
	FoodLogDays            int     `json:"food_log_days"`
	ConsecutiveFoodLogDays int     `json:"consecutive_food_log_days"`
	LoggedFoodToday        bool    `json:"logged_food_today"`
	ReachedWeightGoal      bool    `json:"reached_weight_goal"`
	WeightLossFromStart    float64 `json:"weight_loss_from_start"`
	WorkoutCompletions     int     `json:"workout_completions"`
	CompletedFullWeek      bool    `json:"completed_full_week"`
}

// Input carries everything Aggregate needs, already fetched. Now anchors
// the "ending today" streaks.
type Input struct {
	User         models.User
	Exercises    []models.ExerciseEntry
	Foods        []models.FoodEntry
	LatestWeight *models.WeightEntry
	Completions  []models.Completion
	Plans        []models.Plan
	Now          time.Time
}

// Aggregate folds the raw logs into one snapshot.
func Aggregate(in Input) Snapshot {
	snap := Snapshot{
		ExerciseCount:      len(in.Exercises),
		WorkoutCompletions: len(in.Completions),
	}

	types := make(map[string]struct{})
	exerciseDates := make([]time.Time, 0, len(in.Exercises))
	for _, e := range in.Exercises {
		types[e.Type] = struct{}{}
		exerciseDates = append(exerciseDates, e.Date)
		snap.TotalWorkoutMinutes += e.DurationMinutes
		snap.TotalCaloriesBurned += e.CaloriesBurned
	}
	snap.ExerciseTypes = len(types)
	snap.LongestStreak = LongestStreak(exerciseDates)

	foodDates := make([]time.Time, 0, len(in.Foods))
	for _, f := range in.Foods {
		foodDates = append(foodDates, f.Date)
	}
	snap.FoodLogDays = len(distinctDays(foodDates))
	snap.ConsecutiveFoodLogDays = ConsecutiveDaysEndingToday(foodDates, in.Now)
	snap.LoggedFoodToday = snap.ConsecutiveFoodLogDays > 0

	if in.LatestWeight != nil {
		if in.User.WeightGoal != nil && in.LatestWeight.Kilograms <= *in.User.WeightGoal {
			snap.ReachedWeightGoal = true
		}
		if in.User.InitialWeight != nil {
			snap.WeightLossFromStart = *in.User.InitialWeight - in.LatestWeight.Kilograms
		}
	}

	snap.CompletedFullWeek = hasCompletedFullWeek(in.Plans, in.Completions)
	return snap
}

// hasCompletedFullWeek reports whether any plan week has a completion for
// every one of its days. Day indexes are counted distinctly, so completing
// the same day twice does not finish a week.
func hasCompletedFullWeek(plans []models.Plan, completions []models.Completion) bool {
	for _, plan := range plans {
		for weekIdx, week := range plan.Weeks {
			if len(week.Days) == 0 {
				continue
			}
			days := make(map[int]struct{})
			for _, c := range completions {
				if c.PlanID == plan.ID && c.WeekIndex == weekIdx {
					days[c.DayIndex] = struct{}{}
				}
			}
			if len(days) == len(week.Days) {
				return true
			}
		}
	}
	return false
}
