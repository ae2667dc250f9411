package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/stridelog/internal/models"
)

const completionColumns = `
	id, user_id, plan_id, week_index, day_index, week_name, day_name,
	exercise_name, completed_at, completed_on, intensity, calories_burned,
	duration_minutes, notes, auto_completed`

// InsertCompletion appends a completion record. Returns false when the
// auto-completion dedupe key (user, plan, exercise, calendar date)
// already has a row; the partial unique index makes this safe under
// concurrent scans.
func (db *DB) InsertCompletion(ctx context.Context, c models.Completion) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO completions (`+completionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT DO NOTHING
	`, c.ID, c.UserID, c.PlanID, c.WeekIndex, c.DayIndex, c.WeekName, c.DayName,
		nullIfEmpty(c.ExerciseName), c.CompletedAt, c.CompletedOn, c.Intensity,
		c.CaloriesBurned, c.DurationMinutes, c.Notes, c.AutoCompleted)
	if err != nil {
		return false, fmt.Errorf("inserting completion: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CreateAutoCompletion inserts a slot completion and its synthesized
// exercise entry in one transaction. When the completion already exists
// the transaction rolls back and neither row is written.
func (db *DB) CreateAutoCompletion(ctx context.Context, c models.Completion, e models.ExerciseEntry) (bool, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO completions (`+completionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT DO NOTHING
	`, c.ID, c.UserID, c.PlanID, c.WeekIndex, c.DayIndex, c.WeekName, c.DayName,
		nullIfEmpty(c.ExerciseName), c.CompletedAt, c.CompletedOn, c.Intensity,
		c.CaloriesBurned, c.DurationMinutes, c.Notes, c.AutoCompleted)
	if err != nil {
		return false, fmt.Errorf("inserting completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO exercise_entries
			(id, user_id, date, type, duration_minutes, distance, calories_burned,
			 intensity, notes, auto_completed, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, e.ID, e.UserID, e.Date, e.Type, e.DurationMinutes, e.Distance,
		e.CaloriesBurned, e.Intensity, e.Notes, e.AutoCompleted, e.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("inserting synthesized exercise entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing auto-completion: %w", err)
	}
	return true, nil
}

// HasCompletionOn reports whether a completion exists for the slot on the
// given calendar date.
func (db *DB) HasCompletionOn(ctx context.Context, userID int, planID uuid.UUID, exerciseName string, day time.Time) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM completions
		WHERE user_id = $1 AND plan_id = $2 AND exercise_name = $3 AND completed_on = $4
	`, userID, planID, exerciseName, dateOf(day)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking completion existence: %w", err)
	}
	return count > 0, nil
}

// Completions retrieves all completion records for a user, newest first.
func (db *DB) Completions(ctx context.Context, userID int) ([]models.Completion, error) {
	return db.queryCompletions(ctx, `
		SELECT `+completionColumns+`
		FROM completions WHERE user_id = $1
		ORDER BY completed_at DESC
	`, userID)
}

// PlanCompletions retrieves a user's completions for one plan, newest
// first.
func (db *DB) PlanCompletions(ctx context.Context, userID int, planID uuid.UUID) ([]models.Completion, error) {
	return db.queryCompletions(ctx, `
		SELECT `+completionColumns+`
		FROM completions WHERE user_id = $1 AND plan_id = $2
		ORDER BY completed_at DESC
	`, userID, planID)
}

func (db *DB) queryCompletions(ctx context.Context, sql string, args ...any) ([]models.Completion, error) {
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying completions: %w", err)
	}
	defer rows.Close()

	var out []models.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCompletion(row pgx.Row) (models.Completion, error) {
	var c models.Completion
	var exerciseName *string
	err := row.Scan(&c.ID, &c.UserID, &c.PlanID, &c.WeekIndex, &c.DayIndex,
		&c.WeekName, &c.DayName, &exerciseName, &c.CompletedAt, &c.CompletedOn,
		&c.Intensity, &c.CaloriesBurned, &c.DurationMinutes, &c.Notes,
		&c.AutoCompleted)
	if err != nil {
		return models.Completion{}, err
	}
	if exerciseName != nil {
		c.ExerciseName = *exerciseName
	}
	return c, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
