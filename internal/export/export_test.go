package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vaais251/focusflow/internal/store"
)

func i64(v int64) *int64 { return &v }

func fixtures() ([]store.HistoryEntry, map[int64]*store.Task, map[int64]*store.Project) {
	ended := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	entries := []store.HistoryEntry{
		{ID: 1, TaskID: i64(10), DurationMinutes: 25, EndedAt: ended},
		{ID: 2, TaskID: i64(99), DurationMinutes: 50, EndedAt: ended}, // orphaned
		{ID: 3, TaskID: nil, DurationMinutes: 15, EndedAt: ended},
	}
	tasks := map[int64]*store.Task{
		10: {ID: 10, Text: "write intro", Tags: "writing", ProjectID: i64(1)},
	}
	projects := map[int64]*store.Project{
		1: {ID: 1, Name: "Book"},
	}
	return entries, tasks, projects
}

func TestToCSV(t *testing.T) {
	entries, tasks, projects := fixtures()
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := ToCSV(entries, tasks, projects, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 { // header + 3 entries
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}
	if rows[1][1] != "write intro" || rows[1][2] != "Book" || rows[1][3] != "writing" {
		t.Errorf("resolved row = %v", rows[1])
	}
	// Orphaned and unattributed entries export with blank task columns but
	// keep their minutes.
	if rows[2][1] != "" || rows[2][4] != "50" {
		t.Errorf("orphaned row = %v", rows[2])
	}
	if rows[3][1] != "" || rows[3][4] != "15" {
		t.Errorf("unattributed row = %v", rows[3])
	}
}

func TestToJSON(t *testing.T) {
	entries, tasks, projects := fixtures()
	path := filepath.Join(t.TempDir(), "out.json")

	if err := ToJSON(entries, tasks, projects, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got jsonExport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	if got.Count != 3 || len(got.Entries) != 3 {
		t.Fatalf("count = %d, entries = %d, want 3/3", got.Count, len(got.Entries))
	}
	if got.Entries[0].Task != "write intro" || got.Entries[0].Project != "Book" {
		t.Errorf("entry 0 = %+v", got.Entries[0])
	}
	if got.Entries[1].Task != "" || got.Entries[1].Minutes != 50 {
		t.Errorf("orphaned entry = %+v", got.Entries[1])
	}
}
