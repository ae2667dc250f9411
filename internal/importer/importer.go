// Package importer loads activity-log export files into the store. Export
// files are JSON documents carrying a user login plus exercise, food and
// weight entries; a local SQLite state database remembers which files
// have been processed so the importer can be re-run over a sync folder.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/stridelog/internal/models"
	"github.com/meltforce/stridelog/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	ExerciseInserted int
	FoodInserted     int
	WeightInserted   int
}

// exportFile is the on-disk export document format.
type exportFile struct {
	Login       string   `json:"login"`
	DisplayName string   `json:"display_name"`
	WeightGoal  *float64 `json:"weight_goal,omitempty"`

	Exercises []exportExercise `json:"exercises"`
	Foods     []exportFood     `json:"foods"`
	Weights   []exportWeight   `json:"weights"`
}

type exportExercise struct {
	Date            time.Time `json:"date"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	Distance        *float64  `json:"distance,omitempty"`
	CaloriesBurned  int       `json:"calories_burned"`
	Intensity       int       `json:"intensity"`
	Notes           string    `json:"notes"`
}

type exportFood struct {
	Date     time.Time `json:"date"`
	Name     string    `json:"name"`
	Calories int       `json:"calories"`
	MealType string    `json:"meal_type"`
}

type exportWeight struct {
	Date      time.Time `json:"date"`
	Kilograms float64   `json:"kilograms"`
}

// Importer reads .json export files from a directory and inserts their
// entries into the store.
type Importer struct {
	db     *storage.DB
	state  *StateDB
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. state may be nil to disable file-level
// dedupe (every file is processed).
func New(db *storage.DB, state *StateDB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, log: log, dryRun: dryRun}
}

// Import processes all .json files under dir, oldest name first.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &imp.stats, fmt.Errorf("reading export dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := imp.importFile(ctx, path, name); err != nil {
			imp.stats.FilesErrored++
			imp.log.Warn("skipping export file", "file", name, "error", err)
			continue
		}
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	var hash string
	if imp.state != nil {
		hash, err = HashFile(path)
		if err != nil {
			return fmt.Errorf("hashing: %w", err)
		}
		done, err := imp.state.IsImported(name, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking import state: %w", err)
		}
		if done {
			imp.stats.FilesSkipped++
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}
	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	if export.Login == "" {
		return fmt.Errorf("parsing: missing login")
	}

	if imp.dryRun {
		imp.log.Info("dry run: would import",
			"file", name, "login", export.Login,
			"exercises", len(export.Exercises),
			"foods", len(export.Foods),
			"weights", len(export.Weights))
		imp.stats.FilesProcessed++
		return nil
	}

	userID, err := imp.db.GetOrCreateUser(ctx, export.Login, export.DisplayName)
	if err != nil {
		return fmt.Errorf("resolving user: %w", err)
	}

	if err := imp.insertEntries(ctx, userID, &export); err != nil {
		return err
	}

	if export.WeightGoal != nil {
		var initial *float64
		if len(export.Weights) > 0 {
			first := export.Weights[0].Kilograms
			initial = &first
		}
		if err := imp.db.SetWeightGoal(ctx, userID, export.WeightGoal, initial); err != nil {
			return fmt.Errorf("setting weight goal: %w", err)
		}
	}

	if imp.state != nil {
		if err := imp.state.MarkImported(name, info.Size(), hash); err != nil {
			return fmt.Errorf("recording import state: %w", err)
		}
	}
	imp.stats.FilesProcessed++
	return nil
}

func (imp *Importer) insertEntries(ctx context.Context, userID int, export *exportFile) error {
	now := time.Now()
	for _, e := range export.Exercises {
		entry := models.ExerciseEntry{
			ID:              uuid.New(),
			UserID:          userID,
			Date:            e.Date,
			Type:            e.Type,
			DurationMinutes: e.DurationMinutes,
			Distance:        e.Distance,
			CaloriesBurned:  e.CaloriesBurned,
			Intensity:       e.Intensity,
			Notes:           e.Notes,
			CreatedAt:       now,
		}
		if err := imp.db.InsertExerciseEntry(ctx, entry); err != nil {
			return fmt.Errorf("inserting exercise entry: %w", err)
		}
		imp.stats.ExerciseInserted++
	}
	for _, f := range export.Foods {
		entry := models.FoodEntry{
			ID:        uuid.New(),
			UserID:    userID,
			Date:      f.Date,
			Name:      f.Name,
			Calories:  f.Calories,
			MealType:  f.MealType,
			CreatedAt: now,
		}
		if err := imp.db.InsertFoodEntry(ctx, entry); err != nil {
			return fmt.Errorf("inserting food entry: %w", err)
		}
		imp.stats.FoodInserted++
	}
	for _, wt := range export.Weights {
		entry := models.WeightEntry{UserID: userID, Date: wt.Date, Kilograms: wt.Kilograms}
		if err := imp.db.InsertWeightEntry(ctx, entry); err != nil {
			return fmt.Errorf("inserting weight entry: %w", err)
		}
		imp.stats.WeightInserted++
	}
	return nil
}
