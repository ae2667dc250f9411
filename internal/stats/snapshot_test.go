package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/stridelog/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

// TestAggregateExerciseTotals verifies the count, distinct-type, minute
// and calorie sums over the exercise log.
func TestAggregateExerciseTotals(t *testing.T) {
	in := Input{
		Exercises: []models.ExerciseEntry{
			{Type: "running", Date: day(2024, 1, 1), DurationMinutes: 30, CaloriesBurned: 300},
			{Type: "cycling", Date: day(2024, 1, 2), DurationMinutes: 45, CaloriesBurned: 400},
			{Type: "running", Date: day(2024, 1, 3), DurationMinutes: 25, CaloriesBurned: 250},
		},
		Now: day(2024, 1, 3),
	}
	snap := Aggregate(in)

	if snap.ExerciseCount != 3 {
		t.Errorf("ExerciseCount = %d, want 3", snap.ExerciseCount)
	}
	if snap.ExerciseTypes != 2 {
		t.Errorf("ExerciseTypes = %d, want 2", snap.ExerciseTypes)
	}
	if snap.TotalWorkoutMinutes != 100 {
		t.Errorf("TotalWorkoutMinutes = %d, want 100", snap.TotalWorkoutMinutes)
	}
	if snap.TotalCaloriesBurned != 950 {
		t.Errorf("TotalCaloriesBurned = %d, want 950", snap.TotalCaloriesBurned)
	}
	if snap.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", snap.LongestStreak)
	}
}

// TestAggregateFoodStreaks verifies food-day counting and the
// logged-today flag driven by the consecutive streak.
func TestAggregateFoodStreaks(t *testing.T) {
	now := time.Date(2024, 1, 3, 20, 0, 0, 0, time.UTC)
	in := Input{
		Foods: []models.FoodEntry{
			{Date: day(2024, 1, 2)},
			{Date: day(2024, 1, 3)},
			{Date: time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)},
		},
		Now: now,
	}
	snap := Aggregate(in)

	if snap.FoodLogDays != 2 {
		t.Errorf("FoodLogDays = %d, want 2", snap.FoodLogDays)
	}
	if snap.ConsecutiveFoodLogDays != 2 {
		t.Errorf("ConsecutiveFoodLogDays = %d, want 2", snap.ConsecutiveFoodLogDays)
	}
	if !snap.LoggedFoodToday {
		t.Error("LoggedFoodToday = false, want true")
	}
}

// TestAggregateWeightGoal verifies the goal check against the latest
// weigh-in and the loss-from-start delta.
func TestAggregateWeightGoal(t *testing.T) {
	in := Input{
		User:         models.User{InitialWeight: floatPtr(80), WeightGoal: floatPtr(75)},
		LatestWeight: &models.WeightEntry{Kilograms: 74.5, Date: day(2024, 1, 1)},
		Now:          day(2024, 1, 1),
	}
	snap := Aggregate(in)

	if !snap.ReachedWeightGoal {
		t.Error("ReachedWeightGoal = false, want true at 74.5 vs goal 75")
	}
	if snap.WeightLossFromStart != 5.5 {
		t.Errorf("WeightLossFromStart = %v, want 5.5", snap.WeightLossFromStart)
	}
}

// TestAggregateWeightGoalNotReached verifies no goal flag above target and
// no weigh-ins at all.
func TestAggregateWeightGoalNotReached(t *testing.T) {
	in := Input{
		User:         models.User{WeightGoal: floatPtr(70)},
		LatestWeight: &models.WeightEntry{Kilograms: 72},
		Now:          day(2024, 1, 1),
	}
	if snap := Aggregate(in); snap.ReachedWeightGoal {
		t.Error("ReachedWeightGoal = true at 72 vs goal 70, want false")
	}
	in.LatestWeight = nil
	if snap := Aggregate(in); snap.ReachedWeightGoal || snap.WeightLossFromStart != 0 {
		t.Error("weight fields should be zero without a weigh-in")
	}
}

// TestCompletedFullWeekDistinctDays verifies that a week finishes only
// when every one of its day indexes has a completion, counted distinctly.
// Completing the same day twice must not finish a two-day week.
func TestCompletedFullWeekDistinctDays(t *testing.T) {
	planID := uuid.New()
	plan := models.Plan{
		ID: planID,
		Weeks: []models.Week{
			{Name: "Week 1", Days: []models.Day{{Name: "Monday"}, {Name: "Thursday"}}},
		},
	}

	same := []models.Completion{
		{PlanID: planID, WeekIndex: 0, DayIndex: 0},
		{PlanID: planID, WeekIndex: 0, DayIndex: 0},
	}
	snap := Aggregate(Input{Plans: []models.Plan{plan}, Completions: same, Now: day(2024, 1, 1)})
	if snap.CompletedFullWeek {
		t.Error("CompletedFullWeek = true with the same day completed twice, want false")
	}

	both := []models.Completion{
		{PlanID: planID, WeekIndex: 0, DayIndex: 0},
		{PlanID: planID, WeekIndex: 0, DayIndex: 1},
	}
	snap = Aggregate(Input{Plans: []models.Plan{plan}, Completions: both, Now: day(2024, 1, 1)})
	if !snap.CompletedFullWeek {
		t.Error("CompletedFullWeek = false with every day completed, want true")
	}
	if snap.WorkoutCompletions != 2 {
		t.Errorf("WorkoutCompletions = %d, want 2", snap.WorkoutCompletions)
	}
}

// TestCompletedFullWeekEmptyWeek verifies that a week with no days can
// never count as completed.
func TestCompletedFullWeekEmptyWeek(t *testing.T) {
	plan := models.Plan{ID: uuid.New(), Weeks: []models.Week{{Name: "Week 1"}}}
	snap := Aggregate(Input{Plans: []models.Plan{plan}, Now: day(2024, 1, 1)})
	if snap.CompletedFullWeek {
		t.Error("CompletedFullWeek = true for an empty week, want false")
	}
}

// TestCompletedFullWeekWrongWeekIndex verifies that completions from a
// different week do not finish this one.
func TestCompletedFullWeekWrongWeekIndex(t *testing.T) {
	planID := uuid.New()
	plan := models.Plan{
		ID: planID,
		Weeks: []models.Week{
			{Name: "Week 1", Days: []models.Day{{Name: "Monday"}}},
			{Name: "Week 2", Days: []models.Day{{Name: "Monday"}, {Name: "Friday"}}},
		},
	}
	comps := []models.Completion{{PlanID: planID, WeekIndex: 1, DayIndex: 0}}
	snap := Aggregate(Input{Plans: []models.Plan{plan}, Completions: comps, Now: day(2024, 1, 1)})
	if snap.CompletedFullWeek {
		t.Error("CompletedFullWeek = true from another week's completion, want false")
	}
}
