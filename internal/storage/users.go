package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/stridelog/internal/models"
)

// GetOrCreateUser finds or creates a user by login name. Returns the user
// ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	return id, err
}

// GetUser retrieves a user by ID. Returns ErrNotFound for unknown users.
func (db *DB) GetUser(ctx context.Context, userID int) (models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx, `
		SELECT id, login, display_name, initial_weight, weight_goal, last_seen
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.Login, &u.DisplayName, &u.InitialWeight, &u.WeightGoal, &u.LastSeen)
	if err != nil {
		return models.User{}, fmt.Errorf("querying user %d: %w", userID, notFound(err))
	}
	return u, nil
}

// SetWeightGoal updates a user's weight goal and, when unset, the initial
// weight baseline used for loss tracking.
func (db *DB) SetWeightGoal(ctx context.Context, userID int, goal, initial *float64) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE users
		SET weight_goal = $2,
		    initial_weight = COALESCE(users.initial_weight, $3)
		WHERE id = $1
	`, userID, goal, initial)
	if err != nil {
		return fmt.Errorf("updating weight goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating weight goal for user %d: %w", userID, ErrNotFound)
	}
	return nil
}
