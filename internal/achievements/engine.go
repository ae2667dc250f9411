package achievements

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meltforce/stridelog/internal/models"
	"github.com/meltforce/stridelog/internal/stats"
)

// Store is the slice of the activity store the engine needs: the raw logs
// that feed the snapshot, plus read/append access to earned awards.
type Store interface {
	GetUser(ctx context.Context, userID int) (models.User, error)
	ExerciseEntries(ctx context.Context, userID int) ([]models.ExerciseEntry, error)
	FoodEntries(ctx context.Context, userID int) ([]models.FoodEntry, error)
	LatestWeight(ctx context.Context, userID int) (*models.WeightEntry, error)
	Completions(ctx context.Context, userID int) ([]models.Completion, error)
	PlansForUser(ctx context.Context, userID int) ([]models.Plan, error)
	UserAchievements(ctx context.Context, userID int) ([]models.UserAchievement, error)

	// InsertUserAchievement appends an award. It returns false without
	// error when the (user, achievement) row already exists; the unique
	// index makes the insert safe under concurrent evaluations.
	InsertUserAchievement(ctx context.Context, ua models.UserAchievement) (bool, error)
}

// Earned is a newly awarded achievement returned to the caller.
type Earned struct {
	Definition
	EarnedAt time.Time `json:"earned_at"`
}

// Status is one catalog entry merged with the user's earned state.
type Status struct {
	Definition
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// Engine evaluates the catalog for a user. It holds no per-user state;
// every call recomputes the snapshot from the store.
type Engine struct {
	store Store
	log   *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(store Store, log *slog.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Snapshot recomputes the user's stats snapshot from the store.
func (e *Engine) Snapshot(ctx context.Context, userID int, now time.Time) (stats.Snapshot, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("loading user %d: %w", userID, err)
	}
	exercises, err := e.store.ExerciseEntries(ctx, userID)
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("loading exercise entries: %w", err)
	}
	foods, err := e.store.FoodEntries(ctx, userID)
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("loading food entries: %w", err)
	}
	weight, err := e.store.LatestWeight(ctx, userID)
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("loading latest weight: %w", err)
	}
	completions, err := e.store.Completions(ctx, userID)
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("loading completions: %w", err)
	}
	plans, err := e.store.PlansForUser(ctx, userID)
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("loading plans: %w", err)
	}
	return stats.Aggregate(stats.Input{
		User:         user,
		Exercises:    exercises,
		Foods:        foods,
		LatestWeight: weight,
		Completions:  completions,
		Plans:        plans,
		Now:          now,
	}), nil
}

// Evaluate recomputes the snapshot and awards every catalog entry that is
// newly satisfied. Re-running with an unchanged store awards nothing: the
// earned set is consulted first and the storage unique index backstops
// concurrent runs. A failure persisting one award is logged and skipped so
// the remaining definitions still get evaluated.
func (e *Engine) Evaluate(ctx context.Context, userID int, now time.Time) ([]Earned, error) {
	snap, err := e.Snapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	existing, err := e.store.UserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading earned achievements: %w", err)
	}
	earned := make(map[string]struct{}, len(existing))
	for _, ua := range existing {
		earned[ua.AchievementID] = struct{}{}
	}

	var newlyEarned []Earned
	for _, def := range Catalog {
		if _, ok := earned[def.ID]; ok {
			continue
		}
		if !def.Satisfied(snap) {
			continue
		}
		ua := models.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			EarnedAt:      now,
		}
		inserted, err := e.store.InsertUserAchievement(ctx, ua)
		if err != nil {
			e.log.Warn("awarding achievement failed",
				"user", userID, "achievement", def.ID, "error", err)
			continue
		}
		if !inserted {
			// Lost a race with a concurrent evaluation.
			continue
		}
		newlyEarned = append(newlyEarned, Earned{Definition: def, EarnedAt: now})
	}
	return newlyEarned, nil
}

// List returns the full catalog merged with the user's earned status.
func (e *Engine) List(ctx context.Context, userID int) ([]Status, error) {
	existing, err := e.store.UserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading earned achievements: %w", err)
	}
	earnedAt := make(map[string]time.Time, len(existing))
	for _, ua := range existing {
		earnedAt[ua.AchievementID] = ua.EarnedAt
	}

	out := make([]Status, 0, len(Catalog))
	for _, def := range Catalog {
		st := Status{Definition: def}
		if at, ok := earnedAt[def.ID]; ok {
			st.Earned = true
			t := at
			st.EarnedAt = &t
		}
		out = append(out, st)
	}
	return out, nil
}
