package automation

import (
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

func TestSyncDaySpawnsInstances(t *testing.T) {
	s := newTestStore(t)
	g := New(s)

	monday := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	tpl, _ := s.CreateTask(&store.Task{
		Text:          "morning review",
		TotalPoms:     2,
		Tags:          "routine",
		IsTemplate:    true,
		IsActive:      true,
		RecurringDays: "1", // Mondays
	})

	n, err := g.SyncDay(monday)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("spawned = %d, want 1", n)
	}

	tasks, _ := s.ListTasks()
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	inst := tasks[0]
	if inst.Text != "morning review" || inst.Tags != "routine" || inst.TotalPoms != 2 {
		t.Errorf("instance did not inherit template settings: %+v", inst)
	}
	if inst.TemplateID == nil || *inst.TemplateID != tpl.ID {
		t.Errorf("template_id = %v, want %d", inst.TemplateID, tpl.ID)
	}
	if inst.DueDate == nil || inst.DueDate.Format("2006-01-02") != "2026-03-02" {
		t.Errorf("due date = %v, want the sync day", inst.DueDate)
	}
	if inst.IsTemplate {
		t.Error("instance must not itself be a template")
	}
}

func TestSyncDayIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	g := New(s)
	day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	s.CreateTask(&store.Task{Text: "daily", TotalPoms: 1, IsTemplate: true, IsActive: true})

	if n, _ := g.SyncDay(day); n != 1 {
		t.Fatalf("first sync spawned %d, want 1", n)
	}
	if n, _ := g.SyncDay(day); n != 0 {
		t.Fatalf("second sync spawned %d, want 0", n)
	}
	// Later in the same day, still nothing.
	if n, _ := g.SyncDay(day.Add(10 * time.Hour)); n != 0 {
		t.Fatal("re-sync within the day spawned again")
	}

	tasks, _ := s.ListTasks()
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want exactly 1", len(tasks))
	}
}

func TestSyncDaySkipsNonMatchingDay(t *testing.T) {
	s := newTestStore(t)
	g := New(s)

	s.CreateTask(&store.Task{Text: "weekly", TotalPoms: 1, IsTemplate: true, IsActive: true, RecurringDays: "5"})

	tuesday := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	if n, _ := g.SyncDay(tuesday); n != 0 {
		t.Fatal("template spawned on an unlisted weekday")
	}
}

func TestSyncDayStopsOnCompletedProject(t *testing.T) {
	s := newTestStore(t)
	g := New(s)
	day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	p, _ := s.CreateProject(&store.Project{Name: "p", CriteriaType: store.CriteriaManual})
	s.CreateTask(&store.Task{
		Text:                    "project chore",
		TotalPoms:               1,
		ProjectID:               &p.ID,
		IsTemplate:              true,
		IsActive:                true,
		StopOnProjectCompletion: true,
	})

	if n, _ := g.SyncDay(day); n != 1 {
		t.Fatal("want spawn while project is open")
	}

	s.SetProjectCompleted(p.ID, true, day)
	if n, _ := g.SyncDay(day.AddDate(0, 0, 1)); n != 0 {
		t.Fatal("template must stop once the project completes")
	}
}

func TestSyncDayHonorsDerivedProjectCompletion(t *testing.T) {
	s := newTestStore(t)
	g := New(s)
	day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	// Project completes by criteria, without any manual stamp.
	p, _ := s.CreateProject(&store.Project{Name: "p", CriteriaType: store.CriteriaTaskCount, CriteriaValue: 1})
	done, _ := s.CreateTask(&store.Task{Text: "only task", TotalPoms: 1, ProjectID: &p.ID})
	s.IncrementTaskPoms(done.ID)

	s.CreateTask(&store.Task{
		Text:                    "chore",
		TotalPoms:               1,
		ProjectID:               &p.ID,
		IsTemplate:              true,
		IsActive:                true,
		StopOnProjectCompletion: true,
	})

	if n, _ := g.SyncDay(day); n != 0 {
		t.Fatal("criteria-completed project must stop its templates")
	}
}
