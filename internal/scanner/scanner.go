// Package scanner auto-completes calendar-mode workout slots whose
// scheduled window has elapsed. Each run is a single bounded pass over
// the user's calendar plans; creating the completion record and its
// synthesized exercise entry happens atomically in the store, at most
// once per slot per calendar day.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/stridelog/internal/models"
	"github.com/meltforce/stridelog/internal/schedule"
)

// Store is the slice of the activity store the scanner needs.
type Store interface {
	CalendarPlans(ctx context.Context, userID int) ([]models.Plan, error)

	// HasCompletionOn reports whether a completion for the slot already
	// exists on the given calendar date. This read is an optimization;
	// the unique index behind CreateAutoCompletion is the correctness
	// mechanism under concurrent scans.
	HasCompletionOn(ctx context.Context, userID int, planID uuid.UUID, exerciseName string, day time.Time) (bool, error)

	// CreateAutoCompletion atomically inserts the completion and its
	// synthesized exercise entry. It returns false without error when the
	// completion already exists (dedupe key conflict); the entry is not
	// inserted in that case.
	CreateAutoCompletion(ctx context.Context, c models.Completion, e models.ExerciseEntry) (bool, error)
}

// Config holds the scoring defaults applied to auto-completed slots.
type Config struct {
	CaloriesPerMinute      int
	DefaultDurationMinutes int
	DefaultIntensity       int
}

// CompletedSlot describes one slot newly completed by a scan.
type CompletedSlot struct {
	PlanName        string `json:"plan_name"`
	ExerciseName    string `json:"exercise_name"`
	DurationMinutes int    `json:"duration_minutes"`
	CaloriesBurned  int    `json:"calories_burned"`
}

// Scanner scans a user's calendar plans for elapsed, unrecorded slots.
type Scanner struct {
	store Store
	cfg   Config
	log   *slog.Logger
}

// New creates a Scanner.
func New(store Store, cfg Config, log *slog.Logger) *Scanner {
	return &Scanner{store: store, cfg: cfg, log: log}
}

// Run processes every calendar-mode plan the user owns against "now" and
// returns the slots completed by this invocation. An empty result is not
// an error. A failure on one slot is logged and skipped; the remaining
// slots and plans are still processed.
func (s *Scanner) Run(ctx context.Context, userID int, now time.Time) ([]CompletedSlot, error) {
	plans, err := s.store.CalendarPlans(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading calendar plans: %w", err)
	}

	weekday := schedule.WeekdayName(now)
	completed := []CompletedSlot{}

	for _, plan := range plans {
		day, dayIdx := plan.FirstWeekDay(weekday)
		if day == nil {
			continue
		}
		weekName := plan.Weeks[0].Name
		if weekName == "" {
			weekName = "Week 1"
		}

		for _, ex := range day.Exercises {
			if ex.StartTime == "" || ex.EndTime == "" {
				continue
			}
			slot, err := s.processSlot(ctx, userID, plan, ex, dayIdx, weekName, weekday, now)
			if err != nil {
				s.log.Warn("skipping slot",
					"plan", plan.Name, "exercise", ex.Name, "error", err)
				continue
			}
			if slot != nil {
				completed = append(completed, *slot)
			}
		}
	}
	return completed, nil
}

// processSlot completes one slot if its window has elapsed today and no
// record exists yet. Returns nil when there is nothing to do.
func (s *Scanner) processSlot(ctx context.Context, userID int, plan models.Plan, ex models.Exercise, dayIdx int, weekName, weekday string, now time.Time) (*CompletedSlot, error) {
	elapsed, err := schedule.SlotElapsed(ex.EndTime, now)
	if err != nil {
		return nil, err
	}
	if !elapsed {
		return nil, nil
	}

	exists, err := s.store.HasCompletionOn(ctx, userID, plan.ID, ex.Name, now)
	if err != nil {
		return nil, fmt.Errorf("checking existing completion: %w", err)
	}
	if exists {
		return nil, nil
	}

	duration, err := schedule.Duration(ex.StartTime, ex.EndTime)
	if err != nil {
		return nil, err
	}
	calories := duration * s.cfg.CaloriesPerMinute

	completion := models.Completion{
		ID:              uuid.New(),
		UserID:          userID,
		PlanID:          plan.ID,
		WeekIndex:       0,
		DayIndex:        dayIdx,
		WeekName:        weekName,
		DayName:         weekday,
		ExerciseName:    ex.Name,
		CompletedAt:     now,
		CompletedOn:     time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Intensity:       "moderate",
		CaloriesBurned:  calories,
		DurationMinutes: duration,
		Notes:           "Auto-completed from calendar schedule",
		AutoCompleted:   true,
	}
	entry := models.ExerciseEntry{
		ID:              uuid.New(),
		UserID:          userID,
		Date:            now,
		Type:            "workout",
		DurationMinutes: duration,
		CaloriesBurned:  calories,
		Intensity:       s.cfg.DefaultIntensity,
		Notes:           fmt.Sprintf("Auto-completed %s from %q calendar schedule", ex.Name, plan.Name),
		AutoCompleted:   true,
		CreatedAt:       now,
	}

	inserted, err := s.store.CreateAutoCompletion(ctx, completion, entry)
	if err != nil {
		return nil, fmt.Errorf("recording completion: %w", err)
	}
	if !inserted {
		// Another scan got there first.
		return nil, nil
	}
	return &CompletedSlot{
		PlanName:        plan.Name,
		ExerciseName:    ex.Name,
		DurationMinutes: duration,
		CaloriesBurned:  calories,
	}, nil
}
