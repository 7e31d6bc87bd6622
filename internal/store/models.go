package store

import "time"

// Completion criteria for projects.
const (
	CriteriaManual    = "manual"
	CriteriaTaskCount = "task_count"
	CriteriaDuration  = "duration_minutes"
)

// Completion modes for targets.
const (
	ModeManual       = "manual"
	ModeFocusMinutes = "focus_minutes"
)

type Project struct {
	ID            int64
	Name          string
	Description   string
	StartDate     *time.Time
	Deadline      *time.Time
	ActiveDays    string // comma-separated weekday indices 0-6, "" = every day
	CriteriaType  string
	CriteriaValue int
	Priority      int
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// Task is both a concrete to-do item and, when IsTemplate is set, a
// recurring template that the automation generator instantiates.
type Task struct {
	ID                      int64
	Text                    string
	TotalPoms               int // negative = stopwatch (open-ended) mode
	CompletedPoms           int
	Completed               bool // explicit completion flag, used by stopwatch tasks
	ProjectID               *int64
	Tags                    string // comma-separated
	Priority                int    // 1-4, 0 = unset
	FocusMinutes            *int   // per-task duration overrides
	BreakMinutes            *int
	DueDate                 *time.Time
	IsTemplate              bool
	RecurringDays           string // comma-separated weekday indices, "" = every day
	RecurringEnd            *time.Time
	IsActive                bool
	StopOnProjectCompletion bool
	TemplateID              *int64 // set on instances spawned from a template
	CreatedAt               time.Time
}

// Stopwatch reports whether the task runs in open-ended mode.
func (t Task) Stopwatch() bool {
	return t.TotalPoms < 0
}

// Done reports whether the task counts as completed: the explicit flag for
// stopwatch tasks, otherwise all pomodoros logged.
func (t Task) Done() bool {
	if t.Stopwatch() {
		return t.Completed
	}
	return t.Completed || t.CompletedPoms >= t.TotalPoms
}

type Target struct {
	ID            int64
	Text          string
	StartDate     *time.Time
	Deadline      *time.Time
	Priority      int
	Mode          string
	Tags          string // comma-separated, matched case-insensitively
	TargetMinutes int
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

type Goal struct {
	ID          int64
	Text        string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type Commitment struct {
	ID          int64
	Text        string
	DueDate     *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
	BrokenAt    *time.Time
}

// HistoryEntry is one completed focus interval. The history table is
// append-only: entries are never updated or deleted by application logic.
type HistoryEntry struct {
	ID              int64
	TaskID          *int64
	DurationMinutes int
	EndedAt         time.Time
}

type ProjectUpdate struct {
	ID        int64
	ProjectID int64
	TaskID    *int64
	Text      string
	Date      time.Time
	CreatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// HistoryFilter narrows history queries.
type HistoryFilter struct {
	TaskIDs []int64
	From    *time.Time
	To      *time.Time
	Limit   int
}

// DailyFocus is aggregated focus time for one calendar day.
type DailyFocus struct {
	Date     string // YYYY-MM-DD
	Minutes  int64
	Sessions int
}
