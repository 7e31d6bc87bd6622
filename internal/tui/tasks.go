package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vaais251/focusflow/internal/lifecycle"
	"github.com/vaais251/focusflow/internal/store"
)

type tasksModel struct {
	store  *store.Store
	width  int
	height int

	tasks    []store.Task
	projects []store.Project
	cursor   int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "delete"
	editingID  int64

	// Form field pointers (survive value copies)
	fText     *string
	fPoms     *string
	fTags     *string
	fProject  *int64
	fPriority *int
	fDue      *string
	fRecDays  *string
	fRecEnd   *string
	fTemplate *bool
	fStopDone *bool
	fConfirm  *bool
}

func newTasksModel(s *store.Store) tasksModel {
	text, poms, tags, due, recDays, recEnd := "", "", "", "", "", ""
	var project int64
	priority := 0
	template, stopDone, confirm := false, false, false
	return tasksModel{
		store:     s,
		fText:     &text,
		fPoms:     &poms,
		fTags:     &tags,
		fProject:  &project,
		fPriority: &priority,
		fDue:      &due,
		fRecDays:  &recDays,
		fRecEnd:   &recEnd,
		fTemplate: &template,
		fStopDone: &stopDone,
		fConfirm:  &confirm,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type tasksDataMsg struct {
	tasks    []store.Task
	projects []store.Project
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, _ := m.store.ListTasks()
		templates, _ := m.store.ListTemplates()
		projects, _ := m.store.ListProjects()
		return tasksDataMsg{tasks: append(tasks, templates...), projects: projects}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		m.projects = msg.projects
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if t := m.selected(); t != nil {
				return m.showForm(t)
			}
		case key.Matches(msg, keys.Complete):
			if t := m.selected(); t != nil && !t.IsTemplate {
				if err := m.store.SetTaskCompleted(t.ID, !t.Done()); err != nil {
					return m, status(fmt.Sprintf("Error: %v", err))
				}
				return m, m.refresh()
			}
		case key.Matches(msg, keys.Postpone):
			if t := m.selected(); t != nil && !t.IsTemplate {
				if err := m.store.PostponeTask(t.ID, time.Now()); err != nil {
					return m, status(fmt.Sprintf("Error: %v", err))
				}
				return m, tea.Batch(m.refresh(), status("Postponed to tomorrow"))
			}
		case key.Matches(msg, keys.Dup):
			if t := m.selected(); t != nil && !t.IsTemplate {
				if _, err := m.store.DuplicateTask(t.ID); err != nil {
					return m, status(fmt.Sprintf("Error: %v", err))
				}
				return m, m.refresh()
			}
		case key.Matches(msg, keys.Delete):
			if t := m.selected(); t != nil {
				return m.showDeleteConfirm(t)
			}
		case key.Matches(msg, keys.Start):
			if t := m.selected(); t != nil && !t.IsTemplate && !t.Done() {
				task := *t
				return m, func() tea.Msg { return focusTaskMsg{task: task} }
			}
		}
	}
	return m, nil
}

func (m tasksModel) selected() *store.Task {
	if m.cursor >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.cursor]
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// validatePoms accepts any non-zero integer; negative means stopwatch mode.
func validatePoms(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n == 0 {
		return fmt.Errorf("must not be zero")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func parseOptionalDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func (m tasksModel) projectOptions() []huh.Option[int64] {
	options := []huh.Option[int64]{huh.NewOption("(none)", int64(0))}
	for _, p := range m.projects {
		options = append(options, huh.NewOption(p.Name, p.ID))
	}
	return options
}

func (m tasksModel) showForm(t *store.Task) (tasksModel, tea.Cmd) {
	if t == nil {
		m.formType = "new"
		*m.fText, *m.fPoms, *m.fTags = "", "1", ""
		*m.fProject, *m.fPriority = 0, 0
		*m.fDue, *m.fRecDays, *m.fRecEnd = "", "", ""
		*m.fTemplate, *m.fStopDone = false, false
	} else {
		m.formType = "edit"
		m.editingID = t.ID
		*m.fText = t.Text
		*m.fPoms = strconv.Itoa(t.TotalPoms)
		*m.fTags = t.Tags
		*m.fProject = 0
		if t.ProjectID != nil {
			*m.fProject = *t.ProjectID
		}
		*m.fPriority = t.Priority
		*m.fDue = ""
		if t.DueDate != nil {
			*m.fDue = t.DueDate.Format("2006-01-02")
		}
		*m.fRecDays = t.RecurringDays
		*m.fRecEnd = ""
		if t.RecurringEnd != nil {
			*m.fRecEnd = t.RecurringEnd.Format("2006-01-02")
		}
		*m.fTemplate = t.IsTemplate
		*m.fStopDone = t.StopOnProjectCompletion
	}

	priorityOptions := []huh.Option[int]{
		huh.NewOption("(none)", 0),
		huh.NewOption("P1", 1),
		huh.NewOption("P2", 2),
		huh.NewOption("P3", 3),
		huh.NewOption("P4", 4),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(m.fText).Validate(validateRequired),
			huh.NewInput().Title("Pomodoros (-1 = stopwatch)").Value(m.fPoms).Validate(validatePoms),
			huh.NewSelect[int64]().Title("Project").Options(m.projectOptions()...).Value(m.fProject),
			huh.NewInput().Title("Tags (comma-separated)").Value(m.fTags),
			huh.NewSelect[int]().Title("Priority").Options(priorityOptions...).Value(m.fPriority),
			huh.NewInput().Title("Due date (YYYY-MM-DD)").Value(m.fDue).Validate(validateOptionalDate),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Recurring template?").Value(m.fTemplate),
			huh.NewInput().Title("Repeat days 0-6, Sun=0 (empty = daily)").Value(m.fRecDays),
			huh.NewInput().Title("Repeat until (YYYY-MM-DD)").Value(m.fRecEnd).Validate(validateOptionalDate),
			huh.NewConfirm().Title("Stop when project completes?").Value(m.fStopDone),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showDeleteConfirm(t *store.Task) (tasksModel, tea.Cmd) {
	m.formType = "delete"
	m.editingID = t.ID
	*m.fConfirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", t.Text)).
				Description("Its focus history is kept but no longer counts toward progress.").
				Value(m.fConfirm),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "new", "edit":
			return m.submitTaskForm()
		case "delete":
			if *m.fConfirm {
				if err := m.store.DeleteTask(m.editingID); err != nil {
					return m, status(fmt.Sprintf("Error: %v", err))
				}
			}
			return m, m.refresh()
		}
	}

	return m, cmd
}

func (m tasksModel) submitTaskForm() (tasksModel, tea.Cmd) {
	poms, _ := strconv.Atoi(strings.TrimSpace(*m.fPoms))

	t := store.Task{
		Text:                    strings.TrimSpace(*m.fText),
		TotalPoms:               poms,
		Tags:                    *m.fTags,
		Priority:                *m.fPriority,
		DueDate:                 parseOptionalDate(*m.fDue),
		IsTemplate:              *m.fTemplate,
		RecurringDays:           strings.TrimSpace(*m.fRecDays),
		RecurringEnd:            parseOptionalDate(*m.fRecEnd),
		IsActive:                true,
		StopOnProjectCompletion: *m.fStopDone,
	}
	if *m.fProject != 0 {
		pid := *m.fProject
		t.ProjectID = &pid
	}

	if m.formType == "edit" {
		existing, err := m.store.GetTask(m.editingID)
		if err != nil {
			return m, status(fmt.Sprintf("Error: %v", err))
		}
		t.ID = existing.ID
		t.CompletedPoms = existing.CompletedPoms
		t.Completed = existing.Completed
		t.FocusMinutes = existing.FocusMinutes
		t.BreakMinutes = existing.BreakMinutes
		if err := m.store.UpdateTask(&t); err != nil {
			return m, status(fmt.Sprintf("Error: %v", err))
		}
	} else {
		if _, err := m.store.CreateTask(&t); err != nil {
			return m, status(fmt.Sprintf("Error: %v", err))
		}
	}
	return m, m.refresh()
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		switch m.formType {
		case "edit":
			title = titleStyle.Render("Edit Task")
		case "delete":
			title = titleStyle.Render("Delete Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Tasks")
	if len(m.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	projectNames := make(map[int64]string, len(m.projects))
	for _, p := range m.projects {
		projectNames[p.ID] = p.Name
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-32s %-8s %-14s %-8s", "", "Task", "Poms", "Project", "Due")))

	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		poms := fmt.Sprintf("%d/%d", t.CompletedPoms, t.TotalPoms)
		if t.Stopwatch() {
			poms = "sw"
		}
		if t.IsTemplate {
			poms = "rec"
		}

		project := "-"
		if t.ProjectID != nil {
			if name, ok := projectNames[*t.ProjectID]; ok {
				project = name
			}
		}

		mark := checkbox(t.Done())
		if t.IsTemplate {
			mark = " ⟳ "
		}

		text := t.Text
		if len(t.Tags) > 0 {
			text += " " + mutedStyle.Render("["+strings.Join(lifecycle.ParseTags(t.Tags), ",")+"]")
		}

		row := style.Render(fmt.Sprintf("%s%s %-32s %-8s %-14s %-8s",
			cursor, mark, text, poms, project, formatDate(t.DueDate)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  c: toggle done  s: focus  o: postpone  y: duplicate  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
