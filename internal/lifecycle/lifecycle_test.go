package lifecycle

import (
	"testing"
	"time"

	"github.com/vaais251/focusflow/internal/store"
)

func timePtr(t time.Time) *time.Time { return &t }

// ============================================================
// Commitment evaluation
// ============================================================

func TestCommitmentGraceTimeline(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := store.Commitment{ID: 1, Text: "ship the thing", CreatedAt: created}

	// One hour in: still in grace. Editable, deletable, not resolvable.
	eval := EvalCommitment(c, created.Add(time.Hour))
	if !eval.CanEdit || !eval.CanDelete {
		t.Errorf("in grace: want edit/delete allowed, got %+v", eval)
	}
	if eval.CanComplete || eval.CanBreak {
		t.Errorf("in grace: want complete/break denied, got %+v", eval)
	}
	if eval.Status != StatusActive {
		t.Errorf("in grace: status = %s, want active", eval.Status)
	}

	// Three hours in: grace over. Break opens up, edit/delete close, and
	// completion stays locked until the 30-day gate.
	eval = EvalCommitment(c, created.Add(3*time.Hour))
	if eval.CanEdit || eval.CanDelete {
		t.Errorf("after grace: want edit/delete denied, got %+v", eval)
	}
	if !eval.CanBreak {
		t.Errorf("after grace: want break allowed, got %+v", eval)
	}
	if eval.CanComplete {
		t.Errorf("after grace: completion should stay locked for 30 days, got %+v", eval)
	}

	// Thirty-one days in: completion unlocks (no due date).
	eval = EvalCommitment(c, created.Add(31*24*time.Hour))
	if !eval.CanComplete {
		t.Errorf("after unlock: want complete allowed, got %+v", eval)
	}
	if !eval.CanBreak {
		t.Errorf("after unlock: want break still allowed, got %+v", eval)
	}
}

func TestCommitmentGraceBoundary(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := store.Commitment{CreatedAt: created}

	// Exactly at the grace boundary the commitment is still in grace.
	eval := EvalCommitment(c, created.Add(Grace))
	if !eval.CanEdit {
		t.Error("at grace boundary: want edit allowed")
	}
	if eval.CanBreak {
		t.Error("at grace boundary: want break denied")
	}

	// One second past, the window is closed.
	eval = EvalCommitment(c, created.Add(Grace+time.Second))
	if eval.CanEdit {
		t.Error("past grace boundary: want edit denied")
	}
	if !eval.CanBreak {
		t.Error("past grace boundary: want break allowed")
	}
}

func TestCommitmentWithDueDateNeverCompletable(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	due := created.AddDate(0, 0, 14)
	c := store.Commitment{CreatedAt: created, DueDate: &due}

	// Even long past both the due date and the unlock window, a due-dated
	// commitment can only be broken, never manually completed.
	for _, age := range []time.Duration{3 * time.Hour, 15 * 24 * time.Hour, 90 * 24 * time.Hour} {
		eval := EvalCommitment(c, created.Add(age))
		if eval.CanComplete {
			t.Errorf("age %v: due-dated commitment must not be completable", age)
		}
		if !eval.CanBreak {
			t.Errorf("age %v: want break allowed", age)
		}
	}
}

func TestCommitmentTerminalStates(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(60 * 24 * time.Hour)

	done := store.Commitment{CreatedAt: created, CompletedAt: timePtr(created.Add(40 * 24 * time.Hour))}
	eval := EvalCommitment(done, now)
	if eval.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", eval.Status)
	}
	if eval.CanEdit || eval.CanDelete || eval.CanComplete || eval.CanBreak {
		t.Errorf("completed commitment: all actions must be denied, got %+v", eval)
	}

	broken := store.Commitment{CreatedAt: created, BrokenAt: timePtr(created.Add(5 * time.Hour))}
	eval = EvalCommitment(broken, now)
	if eval.Status != StatusBroken {
		t.Errorf("status = %s, want broken", eval.Status)
	}
	if eval.CanEdit || eval.CanDelete || eval.CanComplete || eval.CanBreak {
		t.Errorf("broken commitment: all actions must be denied, got %+v", eval)
	}
}

// ============================================================
// Two-day edit lock
// ============================================================

func TestLockedForEditsByAge(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		createdAt time.Time
		want      bool
	}{
		{"created today", now.Add(-2 * time.Hour), false},
		{"created yesterday", now.AddDate(0, 0, -1), false},
		{"created two days ago", now.AddDate(0, 0, -2), true},
		{"created a week ago", now.AddDate(0, 0, -7), true},
		// Age is measured in calendar days, not elapsed hours: created just
		// before midnight two nights ago is already two days old even though
		// barely 36 hours have passed.
		{"late night two calendar days back", time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		if got := LockedForEdits(tc.createdAt, nil, now); got != tc.want {
			t.Errorf("%s: locked = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLockedForEditsWhenCompleted(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	created := now.Add(-1 * time.Hour)
	completed := now.Add(-30 * time.Minute)

	// A completed entity is locked no matter how fresh it is.
	if !LockedForEdits(created, &completed, now) {
		t.Error("completed entity must be locked for edits")
	}
}

func TestLockMonotonicOverTime(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	locked := false
	for d := 0; d < 10; d++ {
		now := created.AddDate(0, 0, d)
		got := LockedForEdits(created, nil, now)
		if locked && !got {
			t.Fatalf("day %d: lock reverted to unlocked", d)
		}
		locked = got
	}
	if !locked {
		t.Error("entity never locked after 10 days")
	}
}

// ============================================================
// Derived statuses
// ============================================================

func TestProjectStatusDerivation(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 7)

	cases := []struct {
		name     string
		project  store.Project
		progress int
		want     Status
	}{
		{"active, no deadline", store.Project{CriteriaType: store.CriteriaTaskCount, CriteriaValue: 5}, 2, StatusActive},
		{"criteria reached", store.Project{CriteriaType: store.CriteriaTaskCount, CriteriaValue: 5}, 5, StatusCompleted},
		{"criteria exceeded", store.Project{CriteriaType: store.CriteriaDuration, CriteriaValue: 100}, 140, StatusCompleted},
		{"manual never auto-completes", store.Project{CriteriaType: store.CriteriaManual}, 999, StatusActive},
		{"deadline passed", store.Project{CriteriaType: store.CriteriaTaskCount, CriteriaValue: 5, Deadline: &past}, 2, StatusDue},
		{"deadline ahead", store.Project{CriteriaType: store.CriteriaTaskCount, CriteriaValue: 5, Deadline: &future}, 2, StatusActive},
		// Sticky: the stamp wins even when recomputed progress is below the
		// bar and the deadline has passed.
		{"sticky completion", store.Project{CriteriaType: store.CriteriaTaskCount, CriteriaValue: 5, Deadline: &past, CompletedAt: &past}, 1, StatusCompleted},
	}
	for _, tc := range cases {
		if got := ProjectStatus(tc.project, tc.progress, now); got != tc.want {
			t.Errorf("%s: status = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestTargetStatusDerivation(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)

	cases := []struct {
		name    string
		target  store.Target
		minutes int
		want    Status
	}{
		{"manual active", store.Target{Mode: store.ModeManual}, 500, StatusActive},
		{"manual completed via stamp", store.Target{Mode: store.ModeManual, CompletedAt: &past}, 0, StatusCompleted},
		{"minutes short of target", store.Target{Mode: store.ModeFocusMinutes, TargetMinutes: 120}, 100, StatusActive},
		{"minutes reach target", store.Target{Mode: store.ModeFocusMinutes, TargetMinutes: 120}, 125, StatusCompleted},
		{"deadline passed", store.Target{Mode: store.ModeFocusMinutes, TargetMinutes: 120, Deadline: &past}, 50, StatusDue},
	}
	for _, tc := range cases {
		if got := TargetStatus(tc.target, tc.minutes, now); got != tc.want {
			t.Errorf("%s: status = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestGoalStatus(t *testing.T) {
	if got := GoalStatus(store.Goal{}); got != StatusActive {
		t.Errorf("fresh goal: status = %s, want active", got)
	}
	done := time.Now()
	if got := GoalStatus(store.Goal{CompletedAt: &done}); got != StatusCompleted {
		t.Errorf("completed goal: status = %s, want completed", got)
	}
}
