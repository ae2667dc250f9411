package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/stridelog/internal/models"
)

// UserAchievements retrieves every achievement the user has earned.
func (db *DB) UserAchievements(ctx context.Context, userID int) ([]models.UserAchievement, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT user_id, achievement_id, earned_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY earned_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying user achievements: %w", err)
	}
	defer rows.Close()

	var out []models.UserAchievement
	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(&ua.UserID, &ua.AchievementID, &ua.EarnedAt); err != nil {
			return nil, fmt.Errorf("scanning user achievement: %w", err)
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

// InsertUserAchievement records a first-time award. Returns false when
// the (user, achievement) pair already exists; the unique constraint
// keeps awards at-most-once even when evaluations race.
func (db *DB) InsertUserAchievement(ctx context.Context, ua models.UserAchievement) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id, earned_at)
		VALUES ($1,$2,$3)
		ON CONFLICT DO NOTHING
	`, ua.UserID, ua.AchievementID, ua.EarnedAt)
	if err != nil {
		return false, fmt.Errorf("inserting user achievement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
