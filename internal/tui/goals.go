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

type goalsSection int

const (
	sectionGoals goalsSection = iota
	sectionTargets
	sectionCommitments
)

var sectionNames = []string{"Goals", "Targets", "Commitments"}

// targetRow carries a target with its data-derived minutes; the displayed
// status is re-derived from the clock on every render.
type targetRow struct {
	target  store.Target
	minutes int
}

// goalsModel hosts the three long-horizon entity lists. All action keys are
// gated through the lifecycle evaluator at the moment of the keypress.
type goalsModel struct {
	store  *store.Store
	width  int
	height int

	section     goalsSection
	goals       []store.Goal
	targets     []targetRow
	commitments []store.Commitment
	cursors     [3]int

	formActive bool
	form       *huh.Form
	formType   string // "goal", "target", "commitment", "delete"
	editingID  int64

	fText     *string
	fDue      *string
	fStart    *string
	fDeadline *string
	fTags     *string
	fMinutes  *string
	fMode     *string
	fPriority *int
	fConfirm  *bool
}

func newGoalsModel(s *store.Store) goalsModel {
	text, due, start, deadline, tags, minutes := "", "", "", "", "", ""
	mode := store.ModeManual
	priority := 0
	confirm := false
	return goalsModel{
		store:     s,
		fText:     &text,
		fDue:      &due,
		fStart:    &start,
		fDeadline: &deadline,
		fTags:     &tags,
		fMinutes:  &minutes,
		fMode:     &mode,
		fPriority: &priority,
		fConfirm:  &confirm,
	}
}

func (m *goalsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type goalsDataMsg struct {
	goals       []store.Goal
	targets     []targetRow
	commitments []store.Commitment
}

func (m goalsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		goals, _ := m.store.ListGoals()
		targets, _ := m.store.ListTargets()
		commitments, _ := m.store.ListCommitments()
		tasks, _ := m.store.ListTasks()
		history, _ := m.store.ListHistory(store.HistoryFilter{})

		rows := make([]targetRow, 0, len(targets))
		for _, t := range targets {
			minutes, _ := progress.ForTarget(t, tasks, history)
			rows = append(rows, targetRow{target: t, minutes: minutes})
		}

		return goalsDataMsg{goals: goals, targets: rows, commitments: commitments}
	}
}

func (m goalsModel) update(msg tea.Msg) (goalsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case goalsDataMsg:
		m.goals = msg.goals
		m.targets = msg.targets
		m.commitments = msg.commitments
		for i, n := range []int{len(m.goals), len(m.targets), len(m.commitments)} {
			if m.cursors[i] >= n {
				m.cursors[i] = max(0, n-1)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if m.section > 0 {
				m.section--
			}
			return m, nil
		case key.Matches(msg, keys.Right):
			if m.section < sectionCommitments {
				m.section++
			}
			return m, nil
		case key.Matches(msg, keys.Up):
			if m.cursors[m.section] > 0 {
				m.cursors[m.section]--
			}
			return m, nil
		case key.Matches(msg, keys.Down):
			if m.cursors[m.section] < m.sectionLen()-1 {
				m.cursors[m.section]++
			}
			return m, nil
		case key.Matches(msg, keys.New):
			return m.showNewForm()
		case key.Matches(msg, keys.Edit):
			return m.handleEdit()
		case key.Matches(msg, keys.Complete):
			return m.handleComplete()
		case key.Matches(msg, keys.Break):
			return m.handleBreak()
		case key.Matches(msg, keys.Delete):
			return m.handleDelete()
		}
	}
	return m, nil
}

func (m goalsModel) sectionLen() int {
	switch m.section {
	case sectionGoals:
		return len(m.goals)
	case sectionTargets:
		return len(m.targets)
	default:
		return len(m.commitments)
	}
}

func (m goalsModel) selectedGoal() *store.Goal {
	if c := m.cursors[sectionGoals]; c < len(m.goals) {
		return &m.goals[c]
	}
	return nil
}

func (m goalsModel) selectedTarget() *targetRow {
	if c := m.cursors[sectionTargets]; c < len(m.targets) {
		return &m.targets[c]
	}
	return nil
}

func (m goalsModel) selectedCommitment() *store.Commitment {
	if c := m.cursors[sectionCommitments]; c < len(m.commitments) {
		return &m.commitments[c]
	}
	return nil
}

// --- action handlers, permission-gated through lifecycle ---

func (m goalsModel) handleEdit() (goalsModel, tea.Cmd) {
	now := time.Now()
	switch m.section {
	case sectionGoals:
		if g := m.selectedGoal(); g != nil {
			if lifecycle.LockedForEdits(g.CreatedAt, g.CompletedAt, now) {
				return m, status("Goal is locked for edits (older than two days or completed)")
			}
			return m.showGoalForm(g)
		}
	case sectionTargets:
		if r := m.selectedTarget(); r != nil {
			t := r.target
			if lifecycle.LockedForEdits(t.CreatedAt, t.CompletedAt, now) {
				return m, status("Target is locked for edits (older than two days or completed)")
			}
			return m.showTargetForm(&t)
		}
	case sectionCommitments:
		if c := m.selectedCommitment(); c != nil {
			if !lifecycle.EvalCommitment(*c, now).CanEdit {
				return m, status("Commitments can only be edited within two hours of creation")
			}
			return m.showCommitmentForm(c)
		}
	}
	return m, nil
}

func (m goalsModel) handleComplete() (goalsModel, tea.Cmd) {
	now := time.Now()
	switch m.section {
	case sectionGoals:
		if g := m.selectedGoal(); g != nil {
			if err := m.store.SetGoalCompleted(g.ID, g.CompletedAt == nil, now); err != nil {
				return m, status(fmt.Sprintf("Error: %v", err))
			}
			return m, m.refresh()
		}
	case sectionTargets:
		if r := m.selectedTarget(); r != nil {
			t := r.target
			if t.Mode != store.ModeManual {
				return m, status("Completion is automatic for this target")
			}
			if err := m.store.SetTargetCompleted(t.ID, t.CompletedAt == nil, now); err != nil {
				return m, status(fmt.Sprintf("Error: %v", err))
			}
			return m, m.refresh()
		}
	case sectionCommitments:
		if c := m.selectedCommitment(); c != nil {
			eval := lifecycle.EvalCommitment(*c, now)
			if !eval.CanComplete {
				return m, status("This commitment cannot be completed yet")
			}
			if err := m.store.CompleteCommitment(c.ID, now); err != nil {
				return m, status(fmt.Sprintf("Error: %v", err))
			}
			return m, tea.Batch(m.refresh(), status("Commitment honored"))
		}
	}
	return m, nil
}

func (m goalsModel) handleBreak() (goalsModel, tea.Cmd) {
	if m.section != sectionCommitments {
		return m, nil
	}
	c := m.selectedCommitment()
	if c == nil {
		return m, nil
	}
	now := time.Now()
	if !lifecycle.EvalCommitment(*c, now).CanBreak {
		return m, status("This commitment cannot be marked broken yet")
	}
	if err := m.store.BreakCommitment(c.ID, now); err != nil {
		return m, status(fmt.Sprintf("Error: %v", err))
	}
	return m, tea.Batch(m.refresh(), status("Commitment marked broken"))
}

func (m goalsModel) handleDelete() (goalsModel, tea.Cmd) {
	switch m.section {
	case sectionGoals:
		if g := m.selectedGoal(); g != nil {
			return m.showDeleteConfirm(g.ID, g.Text)
		}
	case sectionTargets:
		if r := m.selectedTarget(); r != nil {
			return m.showDeleteConfirm(r.target.ID, r.target.Text)
		}
	case sectionCommitments:
		if c := m.selectedCommitment(); c != nil {
			if !lifecycle.EvalCommitment(*c, time.Now()).CanDelete {
				return m, status("Commitments can only be deleted within two hours of creation")
			}
			return m.showDeleteConfirm(c.ID, c.Text)
		}
	}
	return m, nil
}

// --- forms ---

func (m goalsModel) showNewForm() (goalsModel, tea.Cmd) {
	switch m.section {
	case sectionGoals:
		return m.showGoalForm(nil)
	case sectionTargets:
		return m.showTargetForm(nil)
	default:
		return m.showCommitmentForm(nil)
	}
}

func (m goalsModel) showGoalForm(g *store.Goal) (goalsModel, tea.Cmd) {
	m.formType = "goal"
	m.editingID = 0
	*m.fText = ""
	if g != nil {
		m.editingID = g.ID
		*m.fText = g.Text
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Goal").Value(m.fText).Validate(validateRequired),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

// validateTargetMinutes requires a positive number when the target tracks
// focus minutes.
func (m goalsModel) validateTargetMinutes(s string) error {
	if *m.fMode != store.ModeFocusMinutes {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number of minutes")
	}
	return nil
}

func (m goalsModel) validateTargetTags(s string) error {
	if *m.fMode != store.ModeFocusMinutes {
		return nil
	}
	if len(lifecycle.ParseTags(s)) == 0 {
		return fmt.Errorf("at least one tag is required")
	}
	return nil
}

func (m goalsModel) showTargetForm(t *store.Target) (goalsModel, tea.Cmd) {
	m.formType = "target"
	m.editingID = 0
	*m.fText, *m.fStart, *m.fDeadline, *m.fTags, *m.fMinutes = "", "", "", "", ""
	*m.fMode = store.ModeManual
	*m.fPriority = 0
	if t != nil {
		m.editingID = t.ID
		*m.fText = t.Text
		if t.StartDate != nil {
			*m.fStart = t.StartDate.Format("2006-01-02")
		}
		if t.Deadline != nil {
			*m.fDeadline = t.Deadline.Format("2006-01-02")
		}
		*m.fTags = t.Tags
		*m.fMinutes = strconv.Itoa(t.TargetMinutes)
		*m.fMode = t.Mode
		*m.fPriority = t.Priority
	}

	modeOptions := []huh.Option[string]{
		huh.NewOption("Manual checkbox", store.ModeManual),
		huh.NewOption("Tagged focus minutes", store.ModeFocusMinutes),
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
			huh.NewInput().Title("Target").Value(m.fText).Validate(validateRequired),
			huh.NewInput().Title("Start date (YYYY-MM-DD)").Value(m.fStart).Validate(validateOptionalDate),
			huh.NewInput().Title("Deadline (YYYY-MM-DD)").Value(m.fDeadline).Validate(validateOptionalDate),
			huh.NewSelect[string]().Title("Completion mode").Options(modeOptions...).Value(m.fMode),
			huh.NewInput().Title("Tags to count (comma-separated)").Value(m.fTags).Validate(m.validateTargetTags),
			huh.NewInput().Title("Target minutes").Value(m.fMinutes).Validate(m.validateTargetMinutes),
			huh.NewSelect[int]().Title("Priority").Options(priorityOptions...).Value(m.fPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m goalsModel) showCommitmentForm(c *store.Commitment) (goalsModel, tea.Cmd) {
	m.formType = "commitment"
	m.editingID = 0
	*m.fText, *m.fDue = "", ""
	if c != nil {
		m.editingID = c.ID
		*m.fText = c.Text
		if c.DueDate != nil {
			*m.fDue = c.DueDate.Format("2006-01-02")
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Commitment").Value(m.fText).Validate(validateRequired),
			huh.NewInput().Title("Due date (YYYY-MM-DD, optional)").Value(m.fDue).Validate(validateOptionalDate),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m goalsModel) showDeleteConfirm(id int64, text string) (goalsModel, tea.Cmd) {
	m.formType = "delete"
	m.editingID = id
	*m.fConfirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", text)).
				Value(m.fConfirm),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m goalsModel) updateForm(msg tea.Msg) (goalsModel, tea.Cmd) {
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
		return m.submitForm()
	}

	return m, cmd
}

func (m goalsModel) submitForm() (goalsModel, tea.Cmd) {
	var err error
	switch m.formType {
	case "goal":
		if m.editingID != 0 {
			err = m.store.UpdateGoalText(m.editingID, strings.TrimSpace(*m.fText))
		} else {
			_, err = m.store.CreateGoal(strings.TrimSpace(*m.fText))
		}

	case "target":
		minutes, _ := strconv.Atoi(strings.TrimSpace(*m.fMinutes))
		t := store.Target{
			ID:            m.editingID,
			Text:          strings.TrimSpace(*m.fText),
			StartDate:     parseOptionalDate(*m.fStart),
			Deadline:      parseOptionalDate(*m.fDeadline),
			Mode:          *m.fMode,
			Tags:          *m.fTags,
			TargetMinutes: minutes,
			Priority:      *m.fPriority,
		}
		if m.editingID != 0 {
			err = m.store.UpdateTarget(&t)
		} else {
			_, err = m.store.CreateTarget(&t)
		}

	case "commitment":
		due := parseOptionalDate(*m.fDue)
		if m.editingID != 0 {
			err = m.store.UpdateCommitment(m.editingID, strings.TrimSpace(*m.fText), due)
		} else {
			_, err = m.store.CreateCommitment(strings.TrimSpace(*m.fText), due)
		}

	case "delete":
		if *m.fConfirm {
			switch m.section {
			case sectionGoals:
				err = m.store.DeleteGoal(m.editingID)
			case sectionTargets:
				err = m.store.DeleteTarget(m.editingID)
			case sectionCommitments:
				err = m.store.DeleteCommitment(m.editingID)
			}
		}
	}

	if err != nil {
		return m, status(fmt.Sprintf("Error: %v", err))
	}
	return m, m.refresh()
}

// --- rendering ---

func (m goalsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		titles := map[string]string{
			"goal":       "Goal",
			"target":     "Target",
			"commitment": "Commitment",
			"delete":     "Delete",
		}
		title := titleStyle.Render(titles[m.formType])
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	var tabs []string
	for i, name := range sectionNames {
		if goalsSection(i) == m.section {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	var body string
	switch m.section {
	case sectionGoals:
		body = m.renderGoals()
	case sectionTargets:
		body = m.renderTargets()
	case sectionCommitments:
		body = m.renderCommitments()
	}

	nav := mutedStyle.Render("  ←/→: section  n: new  e: edit  c: complete  b: break  d: delete")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", nav),
	)
}

func (m goalsModel) renderGoals() string {
	if len(m.goals) == 0 {
		return mutedStyle.Render("No goals yet. Press n to add one.")
	}
	var rows []string
	for i, g := range m.goals {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursors[sectionGoals] {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, checkbox(g.CompletedAt != nil), g.Text)))
	}
	return strings.Join(rows, "\n")
}

func (m goalsModel) renderTargets() string {
	if len(m.targets) == 0 {
		return mutedStyle.Render("No targets yet. Press n to add one.")
	}
	now := time.Now()
	var rows []string
	for i, r := range m.targets {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursors[sectionTargets] {
			cursor = "> "
			style = selectedItemStyle
		}
		st := lifecycle.TargetStatus(r.target, r.minutes, now)
		prog := ""
		if r.target.Mode == store.ModeFocusMinutes {
			prog = mutedStyle.Render(fmt.Sprintf("  %d/%d min", r.minutes, r.target.TargetMinutes))
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-36s ", cursor, r.target.Text))+
			statusStyle(st).Render(string(st))+prog)
	}
	return strings.Join(rows, "\n")
}

func (m goalsModel) renderCommitments() string {
	if len(m.commitments) == 0 {
		return mutedStyle.Render("No commitments yet. Press n to add one.")
	}
	now := time.Now()
	var rows []string
	for i, c := range m.commitments {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursors[sectionCommitments] {
			cursor = "> "
			style = selectedItemStyle
		}
		eval := lifecycle.EvalCommitment(c, now)

		var hints []string
		if eval.CanEdit {
			hints = append(hints, "editable")
		}
		if eval.CanComplete {
			hints = append(hints, "completable")
		}
		if eval.CanBreak {
			hints = append(hints, "breakable")
		}
		hint := ""
		if len(hints) > 0 {
			hint = mutedStyle.Render("  (" + strings.Join(hints, ", ") + ")")
		}

		due := ""
		if c.DueDate != nil {
			due = mutedStyle.Render("  due " + c.DueDate.Local().Format("Jan 02"))
		}

		rows = append(rows, style.Render(fmt.Sprintf("%s%-36s ", cursor, c.Text))+
			statusStyle(eval.Status).Render(string(eval.Status))+due+hint)
	}
	return strings.Join(rows, "\n")
}
