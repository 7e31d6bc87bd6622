// Package progress reduces the append-only pomodoro history plus task
// snapshots into accrued progress for projects and targets. The functions
// are side-effect-free over their inputs: progress is never stored
// authoritatively and can be recomputed at any time.
package progress

import (
	"github.com/vaais251/focusflow/internal/lifecycle"
	"github.com/vaais251/focusflow/internal/store"
)

// anyTagMatch reports whether any of the task's normalized tags is in want.
func anyTagMatch(taskTags string, want map[string]bool) bool {
	for _, tag := range lifecycle.ParseTags(taskTags) {
		if want[tag] {
			return true
		}
	}
	return false
}

// taskIndex maps task ids for resolving weak history references. Orphaned
// entries (deleted tasks) simply fail to resolve and are excluded.
func taskIndex(tasks []store.Task) map[int64]*store.Task {
	idx := make(map[int64]*store.Task, len(tasks))
	for i := range tasks {
		idx[tasks[i].ID] = &tasks[i]
	}
	return idx
}

func clampMinutes(m int) int {
	if m < 0 {
		return 0
	}
	return m
}

// ForProject derives a project's progress value. For task_count criteria it
// counts each completed linked task exactly once (no contributing entries
// reported); for duration_minutes it sums history entries whose task
// resolves to the project and reports which entries contributed. Manual
// projects always report zero.
func ForProject(p store.Project, tasks []store.Task, history []store.HistoryEntry) (int, []int64) {
	switch p.CriteriaType {
	case store.CriteriaTaskCount:
		count := 0
		for _, t := range tasks {
			if t.ProjectID != nil && *t.ProjectID == p.ID && t.Done() {
				count++
			}
		}
		return count, nil

	case store.CriteriaDuration:
		idx := taskIndex(tasks)
		total := 0
		var contributing []int64
		for _, e := range history {
			if e.TaskID == nil {
				continue
			}
			t, ok := idx[*e.TaskID]
			if !ok || t.ProjectID == nil || *t.ProjectID != p.ID {
				continue
			}
			total += clampMinutes(e.DurationMinutes)
			contributing = append(contributing, e.ID)
		}
		return total, contributing
	}
	return 0, nil
}

// ForTarget derives a focus-minutes target's accrued minutes: the sum over
// history entries whose resolved task shares at least one tag with the
// target. An entry is counted exactly once no matter how many tags match.
// Manual targets always report zero.
func ForTarget(tgt store.Target, tasks []store.Task, history []store.HistoryEntry) (int, []int64) {
	if tgt.Mode != store.ModeFocusMinutes {
		return 0, nil
	}
	want := lifecycle.TagSet(tgt.Tags)
	if len(want) == 0 {
		return 0, nil
	}

	idx := taskIndex(tasks)
	total := 0
	var contributing []int64
	for _, e := range history {
		if e.TaskID == nil {
			continue
		}
		t, ok := idx[*e.TaskID]
		if !ok {
			continue
		}
		if !anyTagMatch(t.Tags, want) {
			continue
		}
		total += clampMinutes(e.DurationMinutes)
		contributing = append(contributing, e.ID)
	}
	return total, contributing
}

// TagBreakdown is the display-only per-tag rollup of focus minutes. Unlike
// target progress, an entry whose task carries several tags contributes its
// minutes to every one of those buckets.
func TagBreakdown(tasks []store.Task, history []store.HistoryEntry) map[string]int {
	idx := taskIndex(tasks)
	breakdown := make(map[string]int)
	for _, e := range history {
		if e.TaskID == nil {
			continue
		}
		t, ok := idx[*e.TaskID]
		if !ok {
			continue
		}
		for _, tag := range lifecycle.ParseTags(t.Tags) {
			breakdown[tag] += clampMinutes(e.DurationMinutes)
		}
	}
	return breakdown
}
