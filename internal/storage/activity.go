package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/stridelog/internal/models"
)

// InsertExerciseEntry appends an exercise log entry.
func (db *DB) InsertExerciseEntry(ctx context.Context, e models.ExerciseEntry) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO exercise_entries
			(id, user_id, date, type, duration_minutes, distance, calories_burned,
			 intensity, notes, auto_completed, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, e.ID, e.UserID, e.Date, e.Type, e.DurationMinutes, e.Distance,
		e.CaloriesBurned, e.Intensity, e.Notes, e.AutoCompleted, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting exercise entry: %w", err)
	}
	return nil
}

// ExerciseEntries retrieves all exercise entries for a user, oldest first.
func (db *DB) ExerciseEntries(ctx context.Context, userID int) ([]models.ExerciseEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, date, type, duration_minutes, distance, calories_burned,
		       intensity, notes, auto_completed, created_at
		FROM exercise_entries
		WHERE user_id = $1
		ORDER BY date ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise entries: %w", err)
	}
	defer rows.Close()

	return scanExerciseRows(rows)
}

func scanExerciseRows(rows pgx.Rows) ([]models.ExerciseEntry, error) {
	var out []models.ExerciseEntry
	for rows.Next() {
		var e models.ExerciseEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Type, &e.DurationMinutes,
			&e.Distance, &e.CaloriesBurned, &e.Intensity, &e.Notes,
			&e.AutoCompleted, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertFoodEntry appends a food log entry.
func (db *DB) InsertFoodEntry(ctx context.Context, f models.FoodEntry) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO food_entries (id, user_id, date, name, calories, meal_type, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, f.ID, f.UserID, f.Date, f.Name, f.Calories, f.MealType, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting food entry: %w", err)
	}
	return nil
}

// FoodEntries retrieves all food entries for a user, oldest first.
func (db *DB) FoodEntries(ctx context.Context, userID int) ([]models.FoodEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, date, name, calories, meal_type, created_at
		FROM food_entries
		WHERE user_id = $1
		ORDER BY date ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying food entries: %w", err)
	}
	defer rows.Close()

	var out []models.FoodEntry
	for rows.Next() {
		var f models.FoodEntry
		if err := rows.Scan(&f.ID, &f.UserID, &f.Date, &f.Name, &f.Calories,
			&f.MealType, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning food entry: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// InsertWeightEntry appends a weight measurement.
func (db *DB) InsertWeightEntry(ctx context.Context, w models.WeightEntry) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO weight_entries (user_id, date, kilograms)
		VALUES ($1,$2,$3)
	`, w.UserID, w.Date, w.Kilograms)
	if err != nil {
		return fmt.Errorf("inserting weight entry: %w", err)
	}
	return nil
}

// LatestWeight returns the user's most recent weight entry, or nil when
// no weight has been logged.
func (db *DB) LatestWeight(ctx context.Context, userID int) (*models.WeightEntry, error) {
	var w models.WeightEntry
	err := db.Pool.QueryRow(ctx, `
		SELECT user_id, date, kilograms
		FROM weight_entries
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT 1
	`, userID).Scan(&w.UserID, &w.Date, &w.Kilograms)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying latest weight: %w", err)
	}
	return &w, nil
}
