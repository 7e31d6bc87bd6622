package tui

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

// ============================================================
// Focus session model
// ============================================================

func TestFocusStartCountdown(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(&store.Task{Text: "t", TotalPoms: 2})

	f := newFocusModel(s)
	if f.running() {
		t.Fatal("focus model should start idle")
	}

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f, _ = f.start(*task, now)
	if f.phase != focusWork {
		t.Fatalf("phase = %v, want focusWork", f.phase)
	}
	if f.remaining != 25*time.Minute {
		t.Errorf("remaining = %v, want default 25m", f.remaining)
	}

	// Partway through the interval the remaining time tracks the clock.
	f, _ = f.tick(now.Add(10 * time.Minute))
	if f.remaining != 15*time.Minute {
		t.Errorf("after 10m: remaining = %v, want 15m", f.remaining)
	}
}

func TestFocusTaskDurationOverride(t *testing.T) {
	s := newTestStore(t)
	focus := 50
	task, _ := s.CreateTask(&store.Task{Text: "t", TotalPoms: 2, FocusMinutes: &focus})

	f := newFocusModel(s)
	f, _ = f.start(*task, time.Now())
	if f.focusDur != 50*time.Minute {
		t.Errorf("focusDur = %v, want the task's 50m override", f.focusDur)
	}
}

func TestFocusFinishedIntervalLogsHistory(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(&store.Task{Text: "t", TotalPoms: 2})

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f := newFocusModel(s)
	f, _ = f.start(*task, now)

	// Run the interval out.
	f, _ = f.tick(now.Add(25 * time.Minute))
	if f.phase != focusBreak {
		t.Fatalf("phase = %v, want focusBreak after a finished interval", f.phase)
	}

	entries, _ := s.ListHistory(store.HistoryFilter{})
	if len(entries) != 1 || entries[0].DurationMinutes != 25 {
		t.Fatalf("history = %+v, want one 25-minute entry", entries)
	}
	got, _ := s.GetTask(task.ID)
	if got.CompletedPoms != 1 {
		t.Errorf("completed_poms = %d, want 1", got.CompletedPoms)
	}
}

func TestFocusGoesIdleWhenTaskDone(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(&store.Task{Text: "t", TotalPoms: 1})

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f := newFocusModel(s)
	f, _ = f.start(*task, now)
	f, _ = f.tick(now.Add(25 * time.Minute))

	if f.phase != focusIdle {
		t.Fatalf("phase = %v, want idle once the task's last pom is logged", f.phase)
	}
}

func TestFocusCancelledIntervalLogsNothing(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(&store.Task{Text: "t", TotalPoms: 2})

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f := newFocusModel(s)
	f, _ = f.start(*task, now)
	f, _ = f.tick(now.Add(20 * time.Minute))
	f, _ = f.stop(now.Add(20 * time.Minute))

	if f.running() {
		t.Fatal("stop should return to idle")
	}
	entries, _ := s.ListHistory(store.HistoryFilter{})
	if len(entries) != 0 {
		t.Fatalf("cancelled countdown logged %d entries, want 0", len(entries))
	}
	got, _ := s.GetTask(task.ID)
	if got.CompletedPoms != 0 {
		t.Error("cancelled countdown must not bump completed_poms")
	}
}

func TestStopwatchLogsElapsedOnStop(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(&store.Task{Text: "open", TotalPoms: -1})

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f := newFocusModel(s)
	f, _ = f.start(*task, now)
	if f.phase != focusStopwatch {
		t.Fatalf("phase = %v, want focusStopwatch for negative total_poms", f.phase)
	}

	f, _ = f.tick(now.Add(42 * time.Minute))
	f, _ = f.stop(now.Add(42 * time.Minute))

	entries, _ := s.ListHistory(store.HistoryFilter{})
	if len(entries) != 1 || entries[0].DurationMinutes != 42 {
		t.Fatalf("history = %+v, want one 42-minute entry", entries)
	}
}

func TestSkipBreak(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(&store.Task{Text: "t", TotalPoms: 3})

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f := newFocusModel(s)
	f, _ = f.start(*task, now)
	f, _ = f.tick(now.Add(25 * time.Minute))
	if f.phase != focusBreak {
		t.Fatalf("phase = %v, want break", f.phase)
	}

	f, _ = f.skipBreak(now.Add(26 * time.Minute))
	if f.phase != focusWork {
		t.Errorf("phase = %v, want back to work", f.phase)
	}
	if f.remaining != 25*time.Minute {
		t.Errorf("remaining = %v, want a fresh interval", f.remaining)
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatMinutes(t *testing.T) {
	cases := map[int64]string{
		0:   "0m",
		45:  "45m",
		60:  "1h 00m",
		125: "2h 05m",
	}
	for in, want := range cases {
		if got := formatMinutes(in); got != want {
			t.Errorf("formatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[time.Duration]string{
		0:                              "00:00",
		-3 * time.Second:               "00:00",
		90 * time.Second:               "01:30",
		25 * time.Minute:               "25:00",
		61*time.Minute + 5*time.Second: "61:05",
	}
	for in, want := range cases {
		if got := formatClock(in); got != want {
			t.Errorf("formatClock(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParseOptionalDate(t *testing.T) {
	if got := parseOptionalDate(""); got != nil {
		t.Errorf("empty input = %v, want nil", got)
	}
	got := parseOptionalDate("2026-03-02")
	if got == nil || got.Format("2006-01-02") != "2026-03-02" {
		t.Errorf("got %v", got)
	}
}
