package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/stridelog/internal/models"
)

// InsertPlan stores a new workout plan. Weeks are stored as a JSONB
// document; the plan value itself is never mutated after insert except
// through UpdatePlan.
func (db *DB) InsertPlan(ctx context.Context, p models.Plan) error {
	weeks, err := json.Marshal(p.Weeks)
	if err != nil {
		return fmt.Errorf("encoding plan weeks: %w", err)
	}
	var copiedFrom []byte
	if p.CopiedFrom != nil {
		copiedFrom, err = json.Marshal(p.CopiedFrom)
		if err != nil {
			return fmt.Errorf("encoding plan provenance: %w", err)
		}
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO plans
			(id, owner_id, name, description, weeks, difficulty, tags,
			 is_public, is_calendar, copied_from, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, p.ID, p.OwnerID, p.Name, p.Description, weeks, p.Difficulty, p.Tags,
		p.Public, p.CalendarMode, copiedFrom, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

// UpdatePlan replaces an owned plan's content. The owner check is part of
// the statement, so non-owners get ErrNotFound rather than a hint that
// the plan exists.
func (db *DB) UpdatePlan(ctx context.Context, p models.Plan) error {
	weeks, err := json.Marshal(p.Weeks)
	if err != nil {
		return fmt.Errorf("encoding plan weeks: %w", err)
	}
	tag, err := db.Pool.Exec(ctx, `
		UPDATE plans
		SET name = $3, description = $4, weeks = $5, difficulty = $6,
		    tags = $7, is_public = $8, is_calendar = $9, updated_at = $10
		WHERE id = $1 AND owner_id = $2
	`, p.ID, p.OwnerID, p.Name, p.Description, weeks, p.Difficulty,
		p.Tags, p.Public, p.CalendarMode, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating plan %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// DeletePlan removes an owned plan. Completion records referencing it are
// kept; they are append-only evidence.
func (db *DB) DeletePlan(ctx context.Context, planID uuid.UUID, ownerID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM plans WHERE id = $1 AND owner_id = $2`, planID, ownerID)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting plan %s: %w", planID, ErrNotFound)
	}
	return nil
}

// GetPlan retrieves a plan by ID. Returns ErrNotFound for unknown plans.
func (db *DB) GetPlan(ctx context.Context, planID uuid.UUID) (models.Plan, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, name, description, weeks, difficulty, tags,
		       is_public, is_calendar, copied_from, created_at, updated_at
		FROM plans WHERE id = $1
	`, planID)
	p, err := scanPlan(row)
	if err != nil {
		return models.Plan{}, fmt.Errorf("querying plan %s: %w", planID, notFound(err))
	}
	return p, nil
}

// PlansForUser retrieves all plans owned by a user, newest first.
func (db *DB) PlansForUser(ctx context.Context, userID int) ([]models.Plan, error) {
	return db.queryPlans(ctx, `
		SELECT id, owner_id, name, description, weeks, difficulty, tags,
		       is_public, is_calendar, copied_from, created_at, updated_at
		FROM plans WHERE owner_id = $1
		ORDER BY created_at DESC
	`, userID)
}

// CalendarPlans retrieves the user's calendar-mode plans, the ones the
// auto-completion scanner walks.
func (db *DB) CalendarPlans(ctx context.Context, userID int) ([]models.Plan, error) {
	return db.queryPlans(ctx, `
		SELECT id, owner_id, name, description, weeks, difficulty, tags,
		       is_public, is_calendar, copied_from, created_at, updated_at
		FROM plans WHERE owner_id = $1 AND is_calendar
		ORDER BY created_at DESC
	`, userID)
}

// PublicPlans retrieves plans shared for copying, newest first.
func (db *DB) PublicPlans(ctx context.Context) ([]models.Plan, error) {
	return db.queryPlans(ctx, `
		SELECT id, owner_id, name, description, weeks, difficulty, tags,
		       is_public, is_calendar, copied_from, created_at, updated_at
		FROM plans WHERE is_public
		ORDER BY created_at DESC
	`)
}

// WeeklySchedule returns the user's calendar-mode weekly schedule, or
// ErrNotFound when none exists. Each user has at most one.
func (db *DB) WeeklySchedule(ctx context.Context, userID int) (models.Plan, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, name, description, weeks, difficulty, tags,
		       is_public, is_calendar, copied_from, created_at, updated_at
		FROM plans WHERE owner_id = $1 AND is_calendar
		ORDER BY created_at ASC
		LIMIT 1
	`, userID)
	p, err := scanPlan(row)
	if err != nil {
		return models.Plan{}, fmt.Errorf("querying weekly schedule: %w", notFound(err))
	}
	return p, nil
}

func (db *DB) queryPlans(ctx context.Context, sql string, args ...any) ([]models.Plan, error) {
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var out []models.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlan(row pgx.Row) (models.Plan, error) {
	var p models.Plan
	var weeks []byte
	var copiedFrom []byte
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &weeks,
		&p.Difficulty, &p.Tags, &p.Public, &p.CalendarMode, &copiedFrom,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Plan{}, err
	}
	if err := json.Unmarshal(weeks, &p.Weeks); err != nil {
		return models.Plan{}, fmt.Errorf("decoding plan weeks: %w", err)
	}
	if len(copiedFrom) > 0 {
		if err := json.Unmarshal(copiedFrom, &p.CopiedFrom); err != nil {
			return models.Plan{}, fmt.Errorf("decoding plan provenance: %w", err)
		}
	}
	return p, nil
}
