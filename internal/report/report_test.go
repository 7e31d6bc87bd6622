package report

import (
	"strings"
	"testing"
	"time"

	"github.com/vaais251/focusflow/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBuildWeekly(t *testing.T) {
	s := newTestStore(t)

	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // a Monday
	now := weekStart.AddDate(0, 0, 6)

	p, _ := s.CreateProject(&store.Project{Name: "Portfolio site", CriteriaType: store.CriteriaDuration, CriteriaValue: 300})
	task, _ := s.CreateTask(&store.Task{Text: "build pages", TotalPoms: 8, ProjectID: &p.ID, Tags: "web"})
	doneTask, _ := s.CreateTask(&store.Task{Text: "tiny chore", TotalPoms: 1})
	s.IncrementTaskPoms(doneTask.ID)

	s.AppendHistory(&task.ID, 50, weekStart.Add(10*time.Hour))
	s.AppendHistory(&task.ID, 25, weekStart.AddDate(0, 0, 1).Add(9*time.Hour))
	s.AppendHistory(&task.ID, 25, weekStart.AddDate(0, 0, -3)) // previous week, excluded from totals

	s.CreateTarget(&store.Target{Text: "Web time", Mode: store.ModeFocusMinutes, Tags: "web", TargetMinutes: 60})
	s.CreateCommitment("no late-night coding", nil)

	w, err := BuildWeekly(s, weekStart, now)
	if err != nil {
		t.Fatal(err)
	}

	if w.TotalMinutes != 75 || w.Sessions != 2 {
		t.Errorf("totals = %d min / %d sessions, want 75 / 2", w.TotalMinutes, w.Sessions)
	}
	if len(w.Days) != 2 {
		t.Errorf("len(Days) = %d, want 2", len(w.Days))
	}
	if w.TasksDone != 1 {
		t.Errorf("tasks done = %d, want 1", w.TasksDone)
	}

	if len(w.Projects) != 1 || w.Projects[0].Progress != 100 || w.Projects[0].Status != "active" {
		t.Errorf("projects = %+v", w.Projects)
	}
	// Target progress spans all history, so the 100 tagged minutes complete
	// the 60-minute target.
	if len(w.Targets) != 1 || w.Targets[0].Minutes != 100 || w.Targets[0].Status != "completed" {
		t.Errorf("targets = %+v", w.Targets)
	}
	if len(w.Commitments) != 1 || w.Commitments[0].Status != "active" {
		t.Errorf("commitments = %+v", w.Commitments)
	}
}

func TestRender(t *testing.T) {
	w := &Weekly{
		WeekStart:    time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		WeekEnd:      time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		TotalMinutes: 420,
		Sessions:     17,
		TasksDone:    5,
		Days:         []store.DailyFocus{{Date: "2026-08-24", Minutes: 120, Sessions: 5}},
		Projects:     []ProjectLine{{Name: "Portfolio site", Status: "active", Progress: 140, Goal: 300}},
		Targets:      []TargetLine{{Text: "Web time", Status: "completed", Minutes: 100, Goal: 60}},
		Commitments:  []CommitmentLine{{Text: "no late-night coding", Status: "active"}},
		Insight:      "Strong start to the week.",
	}

	html, err := w.Render()
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"420 focus minutes",
		"17 sessions",
		"Aug 24",
		"Aug 30, 2026", // last day of the week, not the exclusive bound
		"Portfolio site",
		"(140/300)",
		"(100/60 min)",
		"no late-night coding",
		"Strong start to the week.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	w := &Weekly{
		WeekStart: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	html, err := w.Render()
	if err != nil {
		t.Fatal(err)
	}
	for _, absent := range []string{"<h2>Projects</h2>", "<h2>Targets</h2>", "<h2>Commitments</h2>", "Coach's notes"} {
		if strings.Contains(html, absent) {
			t.Errorf("empty report should omit %q", absent)
		}
	}
}
