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
	"github.com/vaais251/focusflow/internal/progress"
	"github.com/vaais251/focusflow/internal/store"
)

// projectRow pairs a project with its derived progress and status, computed
// fresh on every data load.
type projectRow struct {
	project  store.Project
	progress int
	status   lifecycle.Status
}

type projectsModel struct {
	store  *store.Store
	width  int
	height int

	rows          []projectRow
	cursor        int
	viewingLog    bool // activity log of the selected project
	updates       []store.ProjectUpdate
	updatesCursor int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "delete", "update"
	editingID  int64

	fName     *string
	fDesc     *string
	fStart    *string
	fDeadline *string
	fDays     *string
	fCriteria *string
	fValue    *string
	fPriority *int
	fUpdate   *string
	fConfirm  *bool
}

func newProjectsModel(s *store.Store) projectsModel {
	name, desc, start, deadline, days, criteria, value, update := "", "", "", "", "", store.CriteriaManual, "", ""
	priority := 0
	confirm := false
	return projectsModel{
		store:     s,
		fName:     &name,
		fDesc:     &desc,
		fStart:    &start,
		fDeadline: &deadline,
		fDays:     &days,
		fCriteria: &criteria,
		fValue:    &value,
		fPriority: &priority,
		fUpdate:   &update,
		fConfirm:  &confirm,
	}
}

func (m *projectsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type projectsDataMsg struct {
	rows []projectRow
}

type projectUpdatesMsg struct {
	updates []store.ProjectUpdate
}

func (m projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		projects, _ := m.store.ListProjects()
		tasks, _ := m.store.ListTasks()
		history, _ := m.store.ListHistory(store.HistoryFilter{})
		now := time.Now()

		rows := make([]projectRow, 0, len(projects))
		for _, p := range projects {
			value, _ := progress.ForProject(p, tasks, history)
			rows = append(rows, projectRow{
				project:  p,
				progress: value,
				status:   lifecycle.ProjectStatus(p, value, now),
			})
		}
		return projectsDataMsg{rows: rows}
	}
}

func (m projectsModel) refreshUpdates() tea.Cmd {
	if m.cursor >= len(m.rows) {
		return nil
	}
	pid := m.rows[m.cursor].project.ID
	return func() tea.Msg {
		updates, _ := m.store.ListProjectUpdates(pid)
		return projectUpdatesMsg{updates: updates}
	}
}

func (m projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		m.rows = msg.rows
		if m.cursor >= len(m.rows) {
			m.cursor = max(0, len(m.rows)-1)
		}
		return m, nil

	case projectUpdatesMsg:
		m.updates = msg.updates
		if m.updatesCursor >= len(m.updates) {
			m.updatesCursor = max(0, len(m.updates)-1)
		}
		return m, nil

	case tea.KeyMsg:
		if m.viewingLog {
			return m.updateLogView(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m projectsModel) updateList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.rows) > 0 {
			m.viewingLog = true
			m.updatesCursor = 0
			return m, m.refreshUpdates()
		}
	case key.Matches(msg, keys.New):
		return m.showForm(nil)
	case key.Matches(msg, keys.Edit):
		if r := m.selected(); r != nil {
			p := r.project
			if lifecycle.LockedForEdits(p.CreatedAt, p.CompletedAt, time.Now()) {
				return m, status("Project is locked for edits (older than two days or completed)")
			}
			return m.showForm(&p)
		}
	case key.Matches(msg, keys.Complete):
		if r := m.selected(); r != nil {
			p := r.project
			if p.CriteriaType != store.CriteriaManual {
				return m, status("Completion is automatic for this project")
			}
			done := p.CompletedAt == nil
			if err := m.store.SetProjectCompleted(p.ID, done, time.Now()); err != nil {
				return m, status(fmt.Sprintf("Error: %v", err))
			}
			return m, m.refresh()
		}
	case key.Matches(msg, keys.Delete):
		if r := m.selected(); r != nil {
			return m.showDeleteConfirm(&r.project)
		}
	}
	return m, nil
}

func (m projectsModel) updateLogView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingLog = false
		return m, nil
	case key.Matches(msg, keys.Up):
		if m.updatesCursor > 0 {
			m.updatesCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.updatesCursor < len(m.updates)-1 {
			m.updatesCursor++
		}
	case key.Matches(msg, keys.New):
		return m.showUpdateForm()
	case key.Matches(msg, keys.Delete):
		if len(m.updates) > 0 {
			u := m.updates[m.updatesCursor]
			if err := m.store.DeleteProjectUpdate(u.ID); err != nil {
				return m, status(fmt.Sprintf("Error: %v", err))
			}
			return m, m.refreshUpdates()
		}
	}
	return m, nil
}

func (m projectsModel) selected() *projectRow {
	if m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

// validateCriteriaValue rejects zero/empty goals for non-manual criteria at
// form time, so the aggregator never sees a misconfigured project.
func (m projectsModel) validateCriteriaValue(s string) error {
	if *m.fCriteria == store.CriteriaManual {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number for this criteria type")
	}
	return nil
}

func (m projectsModel) showForm(p *store.Project) (projectsModel, tea.Cmd) {
	if p == nil {
		m.formType = "new"
		*m.fName, *m.fDesc, *m.fStart, *m.fDeadline, *m.fDays = "", "", "", "", ""
		*m.fCriteria, *m.fValue = store.CriteriaManual, ""
		*m.fPriority = 0
	} else {
		m.formType = "edit"
		m.editingID = p.ID
		*m.fName, *m.fDesc = p.Name, p.Description
		*m.fStart, *m.fDeadline = "", ""
		if p.StartDate != nil {
			*m.fStart = p.StartDate.Format("2006-01-02")
		}
		if p.Deadline != nil {
			*m.fDeadline = p.Deadline.Format("2006-01-02")
		}
		*m.fDays = p.ActiveDays
		*m.fCriteria = p.CriteriaType
		*m.fValue = strconv.Itoa(p.CriteriaValue)
		*m.fPriority = p.Priority
	}

	criteriaOptions := []huh.Option[string]{
		huh.NewOption("Manual checkbox", store.CriteriaManual),
		huh.NewOption("Completed task count", store.CriteriaTaskCount),
		huh.NewOption("Focus minutes", store.CriteriaDuration),
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
			huh.NewInput().Title("Name").Value(m.fName).Validate(validateRequired),
			huh.NewInput().Title("Description").Value(m.fDesc),
			huh.NewInput().Title("Start date (YYYY-MM-DD)").Value(m.fStart).Validate(validateOptionalDate),
			huh.NewInput().Title("Deadline (YYYY-MM-DD)").Value(m.fDeadline).Validate(validateOptionalDate),
			huh.NewInput().Title("Active days 0-6, Sun=0 (empty = daily)").Value(m.fDays),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Completion criteria").Options(criteriaOptions...).Value(m.fCriteria),
			huh.NewInput().Title("Goal (count or minutes)").Value(m.fValue).Validate(m.validateCriteriaValue),
			huh.NewSelect[int]().Title("Priority").Options(priorityOptions...).Value(m.fPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m projectsModel) showDeleteConfirm(p *store.Project) (projectsModel, tea.Cmd) {
	m.formType = "delete"
	m.editingID = p.ID
	*m.fConfirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete project %q?", p.Name)).
				Description("Its tasks are kept and unlinked, not deleted.").
				Value(m.fConfirm),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m projectsModel) showUpdateForm() (projectsModel, tea.Cmd) {
	m.formType = "update"
	*m.fUpdate = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("What happened?").Value(m.fUpdate).Validate(validateRequired),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
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
			return m.submitProjectForm()
		case "delete":
			if *m.fConfirm {
				if err := m.store.DeleteProject(m.editingID); err != nil {
					return m, status(fmt.Sprintf("Error: %v", err))
				}
			}
			return m, m.refresh()
		case "update":
			if r := m.selected(); r != nil {
				if _, err := m.store.CreateProjectUpdate(r.project.ID, nil, *m.fUpdate, time.Now()); err != nil {
					return m, status(fmt.Sprintf("Error: %v", err))
				}
			}
			return m, m.refreshUpdates()
		}
	}

	return m, cmd
}

func (m projectsModel) submitProjectForm() (projectsModel, tea.Cmd) {
	value, _ := strconv.Atoi(strings.TrimSpace(*m.fValue))
	p := store.Project{
		Name:          strings.TrimSpace(*m.fName),
		Description:   *m.fDesc,
		StartDate:     parseOptionalDate(*m.fStart),
		Deadline:      parseOptionalDate(*m.fDeadline),
		ActiveDays:    strings.TrimSpace(*m.fDays),
		CriteriaType:  *m.fCriteria,
		CriteriaValue: value,
		Priority:      *m.fPriority,
	}

	if m.formType == "edit" {
		p.ID = m.editingID
		if err := m.store.UpdateProject(&p); err != nil {
			return m, status(fmt.Sprintf("Error: %v", err))
		}
	} else {
		if _, err := m.store.CreateProject(&p); err != nil {
			return m, status(fmt.Sprintf("Error: %v", err))
		}
	}
	return m, m.refresh()
}

func (m projectsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Project")
		switch m.formType {
		case "edit":
			title = titleStyle.Render("Edit Project")
		case "delete":
			title = titleStyle.Render("Delete Project")
		case "update":
			title = titleStyle.Render("Log Activity")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if m.viewingLog {
		return m.renderLogView(w)
	}
	return m.renderList(w)
}

func (m projectsModel) renderList(w int) string {
	title := titleStyle.Render("Projects")

	if len(m.rows) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-12s %-14s %-10s", "", "Name", "Status", "Progress", "Deadline")))

	for i, r := range m.rows {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		prog := "-"
		switch r.project.CriteriaType {
		case store.CriteriaTaskCount:
			prog = fmt.Sprintf("%d/%d tasks", r.progress, r.project.CriteriaValue)
		case store.CriteriaDuration:
			prog = fmt.Sprintf("%d/%d min", r.progress, r.project.CriteriaValue)
		case store.CriteriaManual:
			prog = checkbox(r.project.CompletedAt != nil)
		}

		statusLabel := statusStyle(r.status).Render(fmt.Sprintf("%-12s", string(r.status)))
		row := style.Render(fmt.Sprintf("%s%-24s ", cursor, r.project.Name)) +
			statusLabel +
			fmt.Sprintf(" %-14s %-10s", prog, formatDate(r.project.Deadline))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  c: toggle done  d: delete  enter: activity log"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m projectsModel) renderLogView(w int) string {
	r := m.selected()
	if r == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No project selected"))
	}
	title := titleStyle.Render(fmt.Sprintf("%s — Activity", r.project.Name))

	if len(m.updates) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No activity yet. Press n to log something."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, u := range m.updates {
		cursor := "  "
		style := normalItemStyle
		if i == m.updatesCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s  %s", cursor, u.Date.Local().Format("Jan 02"), u.Text)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: add entry  d: delete entry  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
