package scanner

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/stridelog/internal/models"
)

// fakeStore records auto-completions in memory, deduping on
// (plan, exercise, calendar date) like the database unique index.
type fakeStore struct {
	plans       []models.Plan
	completions []models.Completion
	entries     []models.ExerciseEntry
}

func (f *fakeStore) CalendarPlans(ctx context.Context, userID int) ([]models.Plan, error) {
	return f.plans, nil
}

func (f *fakeStore) HasCompletionOn(ctx context.Context, userID int, planID uuid.UUID, exerciseName string, day time.Time) (bool, error) {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	for _, c := range f.completions {
		if c.UserID == userID && c.PlanID == planID && c.ExerciseName == exerciseName && c.CompletedOn.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateAutoCompletion(ctx context.Context, c models.Completion, e models.ExerciseEntry) (bool, error) {
	for _, existing := range f.completions {
		if existing.UserID == c.UserID && existing.PlanID == c.PlanID &&
			existing.ExerciseName == c.ExerciseName && existing.CompletedOn.Equal(c.CompletedOn) {
			return false, nil
		}
	}
	f.completions = append(f.completions, c)
	f.entries = append(f.entries, e)
	return true, nil
}

func testConfig() Config {
	return Config{CaloriesPerMinute: 7, DefaultDurationMinutes: 30, DefaultIntensity: 3}
}

func testScanner(store *fakeStore) *Scanner {
	return New(store, testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mondayRunPlan() models.Plan {
	return models.Plan{
		ID:           uuid.New(),
		OwnerID:      1,
		Name:         "Morning Routine",
		CalendarMode: true,
		Weeks: []models.Week{
			{Name: "Week 1", Days: []models.Day{
				{Name: "Monday", Exercises: []models.Exercise{
					{Name: "Run", StartTime: "07:00", EndTime: "07:45"},
				}},
			}},
		},
	}
}

// monday 2024-03-04 at the given clock time.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2024, 3, 4, hour, minute, 0, 0, time.UTC)
}

// TestRunCompletesElapsedSlot verifies that an elapsed slot produces a
// completion and exercise entry with schedule-derived duration and the
// configured calorie rate.
func TestRunCompletesElapsedSlot(t *testing.T) {
	store := &fakeStore{plans: []models.Plan{mondayRunPlan()}}
	sc := testScanner(store)

	completed, err := sc.Run(context.Background(), 1, mondayAt(8, 0))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("completed %d slots, want 1", len(completed))
	}
	got := completed[0]
	if got.ExerciseName != "Run" || got.PlanName != "Morning Routine" {
		t.Errorf("slot = %+v", got)
	}
	if got.DurationMinutes != 45 {
		t.Errorf("duration = %d, want 45", got.DurationMinutes)
	}
	if got.CaloriesBurned != 45*7 {
		t.Errorf("calories = %d, want %d", got.CaloriesBurned, 45*7)
	}

	if len(store.completions) != 1 || len(store.entries) != 1 {
		t.Fatalf("store has %d completions and %d entries, want 1 each", len(store.completions), len(store.entries))
	}
	c := store.completions[0]
	if !c.AutoCompleted || c.Intensity != "moderate" || c.WeekIndex != 0 || c.DayName != "Monday" {
		t.Errorf("completion = %+v", c)
	}
	e := store.entries[0]
	if !e.AutoCompleted || e.Type != "workout" || e.Intensity != 3 {
		t.Errorf("entry = %+v", e)
	}
	if !strings.Contains(e.Notes, "Run") || !strings.Contains(e.Notes, "Morning Routine") {
		t.Errorf("entry notes %q should reference the slot and plan", e.Notes)
	}
}

// TestRunSecondScanIsNoop verifies the idempotence guard: re-running for
// the same day creates nothing new.
func TestRunSecondScanIsNoop(t *testing.T) {
	store := &fakeStore{plans: []models.Plan{mondayRunPlan()}}
	sc := testScanner(store)
	ctx := context.Background()

	first, err := sc.Run(ctx, 1, mondayAt(8, 0))
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first run completed %d, want 1", len(first))
	}

	second, err := sc.Run(ctx, 1, mondayAt(9, 30))
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second run completed %d, want 0", len(second))
	}
	if len(store.completions) != 1 || len(store.entries) != 1 {
		t.Errorf("store grew to %d completions and %d entries", len(store.completions), len(store.entries))
	}
}

// TestRunSlotNotYetElapsed verifies that a slot still in progress, or
// exactly at its end minute, is left alone.
func TestRunSlotNotYetElapsed(t *testing.T) {
	store := &fakeStore{plans: []models.Plan{mondayRunPlan()}}
	sc := testScanner(store)

	for _, now := range []time.Time{mondayAt(7, 20), mondayAt(7, 45), mondayAt(6, 0)} {
		completed, err := sc.Run(context.Background(), 1, now)
		if err != nil {
			t.Fatalf("Run at %v: %v", now, err)
		}
		if len(completed) != 0 {
			t.Errorf("Run at %02d:%02d completed %d slots, want 0", now.Hour(), now.Minute(), len(completed))
		}
	}
}

// TestRunWrongWeekday verifies that only today's plan day is scanned.
func TestRunWrongWeekday(t *testing.T) {
	store := &fakeStore{plans: []models.Plan{mondayRunPlan()}}
	sc := testScanner(store)

	// 2024-03-05 is a Tuesday.
	completed, err := sc.Run(context.Background(), 1, time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(completed) != 0 {
		t.Errorf("completed %d slots on the wrong weekday, want 0", len(completed))
	}
}

// TestRunMalformedTimeSkipped verifies that a slot with a bad time string
// is skipped without aborting the rest of the scan.
func TestRunMalformedTimeSkipped(t *testing.T) {
	plan := mondayRunPlan()
	plan.Weeks[0].Days[0].Exercises = append([]models.Exercise{
		{Name: "Broken", StartTime: "7am", EndTime: "8am"},
	}, plan.Weeks[0].Days[0].Exercises...)
	store := &fakeStore{plans: []models.Plan{plan}}
	sc := testScanner(store)

	completed, err := sc.Run(context.Background(), 1, mondayAt(8, 0))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(completed) != 1 || completed[0].ExerciseName != "Run" {
		t.Errorf("completed = %+v, want just Run", completed)
	}
}

// TestRunUntimedSlotIgnored verifies that exercises without both times
// never auto-complete.
func TestRunUntimedSlotIgnored(t *testing.T) {
	plan := mondayRunPlan()
	plan.Weeks[0].Days[0].Exercises = append(plan.Weeks[0].Days[0].Exercises,
		models.Exercise{Name: "Freeform"},
		models.Exercise{Name: "HalfTimed", StartTime: "06:00"},
	)
	store := &fakeStore{plans: []models.Plan{plan}}
	sc := testScanner(store)

	completed, err := sc.Run(context.Background(), 1, mondayAt(8, 0))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(completed) != 1 || completed[0].ExerciseName != "Run" {
		t.Errorf("completed = %+v, want just Run", completed)
	}
}

// TestRunWraparoundSlot verifies that an overnight slot gets the
// wraparound duration rather than a negative one.
func TestRunWraparoundSlot(t *testing.T) {
	plan := mondayRunPlan()
	plan.Weeks[0].Days[0].Exercises = []models.Exercise{
		{Name: "Night Walk", StartTime: "23:30", EndTime: "00:30"},
	}
	store := &fakeStore{plans: []models.Plan{plan}}
	sc := testScanner(store)

	completed, err := sc.Run(context.Background(), 1, mondayAt(1, 0))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("completed %d slots, want 1", len(completed))
	}
	if completed[0].DurationMinutes != 60 {
		t.Errorf("duration = %d, want 60", completed[0].DurationMinutes)
	}
	if completed[0].CaloriesBurned != 60*7 {
		t.Errorf("calories = %d, want %d", completed[0].CaloriesBurned, 60*7)
	}
}

// TestRunNoCalendarPlans verifies the empty result is not an error.
func TestRunNoCalendarPlans(t *testing.T) {
	sc := testScanner(&fakeStore{})
	completed, err := sc.Run(context.Background(), 1, mondayAt(8, 0))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if completed == nil || len(completed) != 0 {
		t.Errorf("completed = %v, want empty non-nil slice", completed)
	}
}
