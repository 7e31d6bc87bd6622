package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vaais251/focusflow/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	focus  focusModel
	width  int
	height int

	todayMinutes int64
	dailyGoal    int64
	recent       []store.HistoryEntry
	tasks        []store.Task
	taskNames    map[int64]string

	picking      bool
	pickerCursor int
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{
		store:     s,
		focus:     newFocusModel(s),
		taskNames: make(map[int64]string),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.focus.running() }
func (d dashboardModel) phaseLabel() string {
	return phaseNames[d.focus.phase]
}

type dashboardDataMsg struct {
	todayMinutes int64
	dailyGoal    int64
	recent       []store.HistoryEntry
	tasks        []store.Task
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		total, _ := d.store.GetTodayFocus(time.Now())
		recent, _ := d.store.ListHistory(store.HistoryFilter{Limit: 5})
		tasks, _ := d.store.ListTasks()

		goal := int64(120)
		if v, err := d.store.GetSetting("daily_goal_minutes"); err == nil {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				goal = n
			}
		}

		return dashboardDataMsg{
			todayMinutes: total,
			dailyGoal:    goal,
			recent:       recent,
			tasks:        tasks,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.todayMinutes = msg.todayMinutes
		d.dailyGoal = msg.dailyGoal
		d.recent = msg.recent
		d.tasks = msg.tasks
		d.taskNames = make(map[int64]string, len(msg.tasks))
		for _, t := range msg.tasks {
			d.taskNames[t.ID] = t.Text
		}
		return d, nil

	case tickMsg:
		var cmd tea.Cmd
		d.focus, cmd = d.focus.tick(time.Time(msg))
		return d, cmd

	case focusTaskMsg:
		var cmd tea.Cmd
		d.focus, cmd = d.focus.start(msg.task, time.Now())
		return d, cmd

	case pomodoroLoggedMsg:
		return d, d.loadData()

	case tea.KeyMsg:
		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if d.focus.phase == focusBreak || d.focus.phase == focusLongBreak {
				var cmd tea.Cmd
				d.focus, cmd = d.focus.skipBreak(time.Now())
				return d, cmd
			}
			if d.focus.running() {
				return d, nil
			}
			open := d.openTasks()
			if len(open) == 0 {
				return d, status("No open tasks. Press 2 to go to Tasks and create one.")
			}
			d.picking = true
			d.pickerCursor = 0
			return d, nil

		case key.Matches(msg, keys.Stop):
			if d.focus.running() {
				var cmd tea.Cmd
				d.focus, cmd = d.focus.stop(time.Now())
				return d, tea.Batch(cmd, d.loadData())
			}
		}
	}
	return d, nil
}

// openTasks filters out finished tasks for the picker.
func (d dashboardModel) openTasks() []store.Task {
	var open []store.Task
	for _, t := range d.tasks {
		if !t.Done() {
			open = append(open, t)
		}
	}
	return open
}

func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	open := d.openTasks()
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < len(open)-1 {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		if d.pickerCursor < len(open) {
			task := open[d.pickerCursor]
			d.picking = false
			var cmd tea.Cmd
			d.focus, cmd = d.focus.start(task, time.Now())
			return d, cmd
		}
	case key.Matches(msg, keys.Back):
		d.picking = false
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)
	todayPanel := d.renderTodayPanel(contentWidth)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderTaskPicker(contentWidth)
	} else {
		bottomPanel = d.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, todayPanel, bottomPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if !d.focus.running() {
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerStyle.Width(w-6).Render("25:00"),
			mutedStyle.Render("■  IDLE"),
			mutedStyle.Render("Press s to start a focus session"),
		)
		return panelStyle.Width(w).Render(content)
	}

	label := phaseNames[d.focus.phase]
	var display, indicator string
	switch d.focus.phase {
	case focusWork:
		display = timerStyle.Width(w - 6).Render(formatClock(d.focus.remaining))
		indicator = errorStyle.Bold(true).Render("●  " + label)
	case focusBreak, focusLongBreak:
		display = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatClock(d.focus.remaining))
		indicator = successStyle.Render("●  " + label)
	case focusStopwatch:
		display = highlightStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatClock(d.focus.remaining))
		indicator = highlightStyle.Render("●  " + label)
	}

	taskLine := ""
	if d.focus.task != nil {
		taskLine = highlightStyle.Render(d.focus.task.Text)
		if !d.focus.task.Stopwatch() {
			taskLine += mutedStyle.Render(fmt.Sprintf("  %d/%d poms", d.focus.task.CompletedPoms, d.focus.task.TotalPoms))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center, display, indicator, taskLine)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today")
	total := highlightStyle.Render(formatMinutes(d.todayMinutes))
	goal := mutedStyle.Render(fmt.Sprintf(" / %s goal", formatMinutes(d.dailyGoal)))

	bar := renderGoalBar(d.todayMinutes, d.dailyGoal, min(w-8, 40))

	content := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s  %s%s", title, total, goal),
		bar,
	)
	return panelStyle.Width(w).Render(content)
}

func renderGoalBar(done, goal int64, width int) string {
	if width < 4 || goal <= 0 {
		return ""
	}
	filled := int(done * int64(width) / goal)
	if filled > width {
		filled = width
	}
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return bar
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(d.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No focus sessions yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, e := range d.recent {
		name := mutedStyle.Render("(deleted task)")
		if e.TaskID != nil {
			if n, ok := d.taskNames[*e.TaskID]; ok {
				name = n
			}
		}
		row := fmt.Sprintf("  %s  %-30s %d min",
			e.EndedAt.Local().Format("15:04"), name, e.DurationMinutes)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderTaskPicker(w int) string {
	title := titleStyle.Render("Select Task")
	open := d.openTasks()

	var rows []string
	rows = append(rows, title)
	for i, t := range open {
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mode := fmt.Sprintf("%d/%d", t.CompletedPoms, t.TotalPoms)
		if t.Stopwatch() {
			mode = "stopwatch"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-32s", cursor, t.Text))+mutedStyle.Render(" "+mode))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: start  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
