// Package achievements evaluates a static rule catalog against a user's
// stats snapshot and records first-time awards. Awards are sticky: once
// earned, losing the qualifying condition never revokes them.
package achievements

import "github.com/meltforce/stridelog/internal/stats"

// Definition is one entry in the shipped achievement catalog. Definitions
// are not persisted; only the user's earned records are.
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`

	// Satisfied reports whether the snapshot qualifies for this award.
	Satisfied func(stats.Snapshot) bool `json:"-"`
}

// Catalog is the fixed set of achievements shipped with the system.
var Catalog = []Definition{
	{
		ID: "first_workout", Name: "First Workout",
		Description: "Complete your first workout",
		Icon:        "award", Points: 10,
		Satisfied: func(s stats.Snapshot) bool { return s.ExerciseCount >= 1 },
	},
	{
		ID: "workout_streak_7", Name: "7-Day Streak",
		Description: "Complete workouts for 7 consecutive days",
		Icon:        "flame", Points: 50,
		Satisfied: func(s stats.Snapshot) bool { return s.LongestStreak >= 7 },
	},
	{
		ID: "workout_variety", Name: "Exercise Variety",
		Description: "Try 5 different types of exercises",
		Icon:        "layers", Points: 30,
		Satisfied: func(s stats.Snapshot) bool { return s.ExerciseTypes >= 5 },
	},
	{
		ID: "nutrition_tracking", Name: "Nutrition Master",
		Description: "Log your meals for 10 days",
		Icon:        "utensils", Points: 40,
		Satisfied: func(s stats.Snapshot) bool { return s.FoodLogDays >= 10 },
	},
	{
		ID: "weight_goal", Name: "Goal Achiever",
		Description: "Reach your weight goal",
		Icon:        "target", Points: 100,
		Satisfied: func(s stats.Snapshot) bool { return s.ReachedWeightGoal },
	},
	{
		ID: "calorie_burn_1000", Name: "Calorie Burner",
		Description: "Burn a total of 1000 calories through exercise",
		Icon:        "flame", Points: 30,
		Satisfied: func(s stats.Snapshot) bool { return s.TotalCaloriesBurned >= 1000 },
	},
	{
		ID: "exercise_time_300", Name: "Dedicated Athlete",
		Description: "Complete 300 minutes of exercise",
		Icon:        "timer", Points: 40,
		Satisfied: func(s stats.Snapshot) bool { return s.TotalWorkoutMinutes >= 300 },
	},
	{
		ID: "weight_loss_5", Name: "Progress Maker",
		Description: "Lose 5kg from your starting weight",
		Icon:        "trending-down", Points: 50,
		Satisfied: func(s stats.Snapshot) bool { return s.WeightLossFromStart >= 5 },
	},
	{
		ID: "food_logging_streak_3", Name: "Nutrition Tracker",
		Description: "Log your food for 3 consecutive days",
		Icon:        "calendar", Points: 20,
		Satisfied: func(s stats.Snapshot) bool { return s.ConsecutiveFoodLogDays >= 3 },
	},
	{
		ID: "first_plan_workout", Name: "Plan Follower",
		Description: "Complete your first workout from a workout plan",
		Icon:        "check-square", Points: 15,
		Satisfied: func(s stats.Snapshot) bool { return s.WorkoutCompletions >= 1 },
	},
	{
		ID: "five_plan_workouts", Name: "Committed",
		Description: "Complete 5 workouts from workout plans",
		Icon:        "calendar-check", Points: 30,
		Satisfied: func(s stats.Snapshot) bool { return s.WorkoutCompletions >= 5 },
	},
	{
		ID: "twenty_plan_workouts", Name: "Dedicated",
		Description: "Complete 20 workouts from workout plans",
		Icon:        "award", Points: 50,
		Satisfied: func(s stats.Snapshot) bool { return s.WorkoutCompletions >= 20 },
	},
	{
		ID: "complete_week", Name: "Week Crusher",
		Description: "Complete all workouts in a week of a workout plan",
		Icon:        "check-circle", Points: 40,
		Satisfied: func(s stats.Snapshot) bool { return s.CompletedFullWeek },
	},
}
