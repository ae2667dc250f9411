package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeExport(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func dryRunImporter(state *StateDB) *Importer {
	return New(nil, state, slog.New(slog.NewTextHandler(io.Discard, nil)), true)
}

const validExport = `{
	"login": "runner",
	"display_name": "Runner",
	"exercises": [{"date": "2024-01-01T07:00:00Z", "type": "running", "duration_minutes": 30}]
}`

// TestImportDryRun verifies that a dry run counts files without needing a
// database connection.
func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "a.json", validExport)
	writeExport(t, dir, "notes.txt", "ignored")

	stats, err := dryRunImporter(nil).Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d, want 1", stats.FilesProcessed)
	}
	if stats.FilesErrored != 0 || stats.FilesSkipped != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

// TestImportSkipsMalformedFile verifies one bad file does not abort the
// run: it is counted as errored and the rest are processed.
func TestImportSkipsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "a.json", "{not json")
	writeExport(t, dir, "b.json", `{"display_name": "no login"}`)
	writeExport(t, dir, "c.json", validExport)

	stats, err := dryRunImporter(nil).Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.FilesErrored != 2 {
		t.Errorf("FilesErrored = %d, want 2", stats.FilesErrored)
	}
	if stats.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d, want 1", stats.FilesProcessed)
	}
}

// TestImportMissingDir verifies a nonexistent directory is an error.
func TestImportMissingDir(t *testing.T) {
	_, err := dryRunImporter(nil).Import(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// TestStateDBSkipsImportedFile verifies that a file recorded in the state
// database is skipped on the next run, and that a changed file is not.
func TestStateDBSkipsImportedFile(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "a.json", validExport)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	path := filepath.Join(dir, "a.json")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	hash, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if err := state.MarkImported("a.json", info.Size(), hash); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}

	stats, err := dryRunImporter(state).Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.FilesSkipped != 1 || stats.FilesProcessed != 0 {
		t.Errorf("stats = %+v, want 1 skipped and 0 processed", stats)
	}

	// Rewrite the file: size/hash change means it must be processed again.
	writeExport(t, dir, "a.json", validExport+"\n")
	stats, err = dryRunImporter(state).Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("Import after change: %v", err)
	}
	if stats.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d after file change, want 1", stats.FilesProcessed)
	}
}

// TestStateDBRoundTrip verifies IsImported reflects MarkImported and
// distinguishes hash mismatches.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	done, err := state.IsImported("x.json", 10, "abc")
	if err != nil || done {
		t.Fatalf("IsImported before mark = %v, %v", done, err)
	}
	if err := state.MarkImported("x.json", 10, "abc"); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}
	done, err = state.IsImported("x.json", 10, "abc")
	if err != nil || !done {
		t.Errorf("IsImported after mark = %v, %v, want true", done, err)
	}
	done, err = state.IsImported("x.json", 10, "different")
	if err != nil || done {
		t.Errorf("IsImported with other hash = %v, %v, want false", done, err)
	}
}
