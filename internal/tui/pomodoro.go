package tui

import (
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaais251/focusflow/internal/store"
)

type focusPhase int

const (
	focusIdle focusPhase = iota
	focusWork
	focusBreak
	focusLongBreak
	focusStopwatch
)

var phaseNames = map[focusPhase]string{
	focusIdle:      "IDLE",
	focusWork:      "FOCUS",
	focusBreak:     "BREAK",
	focusLongBreak: "LONG BREAK",
	focusStopwatch: "STOPWATCH",
}

// focusModel drives one focus session on one task. A finished work interval
// appends a history row and bumps the task's completed pomodoros; cancelled
// intervals log nothing, keeping the history append-only and truthful.
type focusModel struct {
	store *store.Store

	phase     focusPhase
	task      *store.Task
	remaining time.Duration
	phaseEnd  time.Time
	startedAt time.Time // stopwatch mode start

	focusDur         time.Duration
	breakDur         time.Duration
	longBreakDur     time.Duration
	pomsPerLongBreak int
	sessionPoms      int // work intervals finished in this sitting
}

func newFocusModel(s *store.Store) focusModel {
	return focusModel{store: s, phase: focusIdle, pomsPerLongBreak: 4}
}

func (f *focusModel) settingMinutes(key string, fallback time.Duration) time.Duration {
	if v, err := f.store.GetSetting(key); err == nil {
		if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
			return time.Duration(mins) * time.Minute
		}
	}
	return fallback
}

// loadDurations reads settings and applies the task's own overrides.
func (f *focusModel) loadDurations(task *store.Task) {
	f.focusDur = f.settingMinutes("focus_minutes", 25*time.Minute)
	f.breakDur = f.settingMinutes("break_minutes", 5*time.Minute)
	f.longBreakDur = f.settingMinutes("long_break_minutes", 15*time.Minute)

	if v, err := f.store.GetSetting("poms_per_long_break"); err == nil {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.pomsPerLongBreak = n
		}
	}

	if task.FocusMinutes != nil && *task.FocusMinutes > 0 {
		f.focusDur = time.Duration(*task.FocusMinutes) * time.Minute
	}
	if task.BreakMinutes != nil && *task.BreakMinutes > 0 {
		f.breakDur = time.Duration(*task.BreakMinutes) * time.Minute
	}
}

func (f focusModel) running() bool {
	return f.phase != focusIdle
}

func (f focusModel) start(task store.Task, now time.Time) (focusModel, tea.Cmd) {
	f.task = &task
	f.loadDurations(&task)
	f.sessionPoms = 0

	if task.Stopwatch() {
		f.phase = focusStopwatch
		f.startedAt = now
		return f, nil
	}

	f.phase = focusWork
	f.remaining = f.focusDur
	f.phaseEnd = now.Add(f.focusDur)
	return f, nil
}

func (f focusModel) tick(now time.Time) (focusModel, tea.Cmd) {
	switch f.phase {
	case focusWork, focusBreak, focusLongBreak:
		f.remaining = f.phaseEnd.Sub(now)
		if f.remaining <= 0 {
			return f.advancePhase(now)
		}
	case focusStopwatch:
		f.remaining = now.Sub(f.startedAt)
	}
	return f, nil
}

func (f focusModel) advancePhase(now time.Time) (focusModel, tea.Cmd) {
	switch f.phase {
	case focusWork:
		return f.finishWork(now)
	case focusBreak, focusLongBreak:
		f.phase = focusWork
		f.remaining = f.focusDur
		f.phaseEnd = now.Add(f.focusDur)
		return f, status("Back to focus")
	}
	return f, nil
}

// finishWork logs the completed interval and moves to a break, or back to
// idle when the task's pomodoro budget is exhausted.
func (f focusModel) finishWork(now time.Time) (focusModel, tea.Cmd) {
	minutes := int(f.focusDur.Minutes())
	entry, err := f.store.AppendHistory(&f.task.ID, minutes, now)
	if err != nil {
		return f, status(fmt.Sprintf("Log error: %v", err))
	}
	if err := f.store.IncrementTaskPoms(f.task.ID); err != nil {
		return f, status(fmt.Sprintf("Task update error: %v", err))
	}
	f.task.CompletedPoms++
	f.sessionPoms++

	logged := func() tea.Msg { return pomodoroLoggedMsg{entry: entry} }

	if f.task.Done() {
		f.phase = focusIdle
		return f, tea.Batch(logged, status("Task complete! \a"))
	}

	if f.sessionPoms%f.pomsPerLongBreak == 0 {
		f.phase = focusLongBreak
		f.remaining = f.longBreakDur
		f.phaseEnd = now.Add(f.longBreakDur)
	} else {
		f.phase = focusBreak
		f.remaining = f.breakDur
		f.phaseEnd = now.Add(f.breakDur)
	}
	return f, tea.Batch(logged, status("Break time \a"))
}

// skipBreak cuts a break short.
func (f focusModel) skipBreak(now time.Time) (focusModel, tea.Cmd) {
	if f.phase != focusBreak && f.phase != focusLongBreak {
		return f, nil
	}
	f.phase = focusWork
	f.remaining = f.focusDur
	f.phaseEnd = now.Add(f.focusDur)
	return f, nil
}

// stop ends the session. A stopwatch run logs its whole elapsed time; a
// countdown interrupted mid-interval logs nothing.
func (f focusModel) stop(now time.Time) (focusModel, tea.Cmd) {
	if f.phase == focusStopwatch {
		minutes := int(now.Sub(f.startedAt).Minutes())
		if minutes > 0 {
			entry, err := f.store.AppendHistory(&f.task.ID, minutes, now)
			if err != nil {
				f.phase = focusIdle
				return f, status(fmt.Sprintf("Log error: %v", err))
			}
			f.phase = focusIdle
			return f, tea.Batch(
				func() tea.Msg { return pomodoroLoggedMsg{entry: entry} },
				status(fmt.Sprintf("Logged %d min", minutes)),
			)
		}
	}
	f.phase = focusIdle
	f.remaining = 0
	return f, status("Focus session stopped")
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
