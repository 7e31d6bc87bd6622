// Package lifecycle derives entity statuses and permitted actions as pure
// functions of an entity snapshot and an injected clock. Nothing here reads
// the wall clock or mutates state, so every rule can be re-derived on each
// render tick and tested deterministically.
package lifecycle

import (
	"math"
	"time"

	"github.com/vaais251/focusflow/internal/store"
)

// Status is the displayed state of a project, target, goal, or commitment.
type Status string

const (
	StatusActive    Status = "active"
	StatusDue       Status = "due"
	StatusCompleted Status = "completed"
	StatusBroken    Status = "broken"
)

// Commitment timing constants. Grace is the window right after creation in
// which a commitment may still be edited or deleted but not resolved.
// Unlock gates manual completion of commitments that carry no due date.
const (
	Grace  = 2 * time.Hour
	Unlock = 30 * 24 * time.Hour
)

// ProjectStatus derives the current status of a project given its
// aggregated progress. Completion is sticky: once completed_at is stamped
// the project stays completed even if progress is later recomputed lower or
// the deadline passes.
func ProjectStatus(p store.Project, progress int, now time.Time) Status {
	if p.CompletedAt != nil {
		return StatusCompleted
	}
	if p.CriteriaType != store.CriteriaManual && p.CriteriaValue > 0 && progress >= p.CriteriaValue {
		return StatusCompleted
	}
	if p.Deadline != nil && now.After(*p.Deadline) {
		return StatusDue
	}
	return StatusActive
}

// TargetStatus mirrors ProjectStatus for targets: manual targets complete
// only via completed_at, focus-minute targets complete when accrued minutes
// reach the target.
func TargetStatus(t store.Target, progressMinutes int, now time.Time) Status {
	if t.CompletedAt != nil {
		return StatusCompleted
	}
	if t.Mode == store.ModeFocusMinutes && t.TargetMinutes > 0 && progressMinutes >= t.TargetMinutes {
		return StatusCompleted
	}
	if t.Deadline != nil && now.After(*t.Deadline) {
		return StatusDue
	}
	return StatusActive
}

// GoalStatus: goals have no deadline and no automatic completion.
func GoalStatus(g store.Goal) Status {
	if g.CompletedAt != nil {
		return StatusCompleted
	}
	return StatusActive
}

// midnight truncates t to its calendar day in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysOld returns the whole calendar days between the creation day and
// today, both truncated to midnight in now's location.
func DaysOld(createdAt, now time.Time) int {
	diff := midnight(now, now.Location()).Sub(midnight(createdAt, now.Location()))
	return int(math.Round(diff.Hours() / 24))
}

// LockedForEdits reports whether a goal, target, or project may no longer
// be edited: two or more calendar days old, or already completed. Locked
// entities may still be deleted and may still be checked off.
func LockedForEdits(createdAt time.Time, completedAt *time.Time, now time.Time) bool {
	if completedAt != nil {
		return true
	}
	return DaysOld(createdAt, now) >= 2
}

// CommitmentEval is the full derived state of one commitment at one instant.
type CommitmentEval struct {
	Status      Status
	CanEdit     bool
	CanDelete   bool
	CanComplete bool
	CanBreak    bool
}

// EvalCommitment applies the dual-gate commitment rules:
//
//   - grace period (age <= 2h): editable and deletable, not resolvable
//   - after grace: break is always available; complete only for commitments
//     with no due date that are more than 30 days old
//   - completed and broken are terminal
//
// A due date is advisory only: it permanently disables manual completion
// after grace but is never compared against the clock.
func EvalCommitment(c store.Commitment, now time.Time) CommitmentEval {
	eval := CommitmentEval{Status: StatusActive}

	terminal := false
	switch {
	case c.CompletedAt != nil:
		eval.Status = StatusCompleted
		terminal = true
	case c.BrokenAt != nil:
		eval.Status = StatusBroken
		terminal = true
	}

	age := now.Sub(c.CreatedAt)
	inGrace := age <= Grace

	eval.CanEdit = inGrace && !terminal
	eval.CanDelete = inGrace && !terminal
	eval.CanBreak = !terminal && !inGrace
	eval.CanComplete = !terminal && !inGrace && c.DueDate == nil && age > Unlock
	return eval
}
