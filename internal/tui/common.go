package tui

import (
	"fmt"
	"time"

	"github.com/vaais251/focusflow/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTasks
	viewProjects
	viewGoals
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Tasks", "Projects", "Goals", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// focusTaskMsg asks the dashboard to start a focus session on a task.
type focusTaskMsg struct {
	task store.Task
}

// pomodoroLoggedMsg is emitted after a finished focus interval was written
// to the history log.
type pomodoroLoggedMsg struct {
	entry *store.HistoryEntry
}

type insightMsg struct {
	text string
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatMinutes(m int64) string {
	h := m / 60
	r := m % 60
	if h == 0 {
		return fmt.Sprintf("%dm", r)
	}
	return fmt.Sprintf("%dh %02dm", h, r)
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("Jan 02")
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
