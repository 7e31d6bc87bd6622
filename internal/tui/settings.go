package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vaais251/focusflow/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	focusMinutes     *string
	breakMinutes     *string
	longBreakMinutes *string
	pomsPerLongBreak *string
	dailyGoal        *string
	weekStart        *string
	insightURL       *string
	insightKey       *string
	reportRecipient  *string
}

func newSettingsModel(s *store.Store) settingsModel {
	fm, bm, lbm, pc := "", "", "", ""
	dg, ws, iu, ik, rr := "", "", "", "", ""
	return settingsModel{
		store:            s,
		focusMinutes:     &fm,
		breakMinutes:     &bm,
		longBreakMinutes: &lbm,
		pomsPerLongBreak: &pc,
		dailyGoal:        &dg,
		weekStart:        &ws,
		insightURL:       &iu,
		insightKey:       &ik,
		reportRecipient:  &rr,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func validatePositiveInt(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.focusMinutes = s.getVal("focus_minutes", "25")
	*s.breakMinutes = s.getVal("break_minutes", "5")
	*s.longBreakMinutes = s.getVal("long_break_minutes", "15")
	*s.pomsPerLongBreak = s.getVal("poms_per_long_break", "4")
	*s.dailyGoal = s.getVal("daily_goal_minutes", "120")
	*s.weekStart = s.getVal("week_start", "monday")
	*s.insightURL = s.getVal("insight_url", "")
	*s.insightKey = s.getVal("insight_key", "")
	*s.reportRecipient = s.getVal("report_recipient", "")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus length (min)").Value(s.focusMinutes).Validate(validatePositiveInt),
			huh.NewInput().Title("Break length (min)").Value(s.breakMinutes).Validate(validatePositiveInt),
			huh.NewInput().Title("Long break length (min)").Value(s.longBreakMinutes).Validate(validatePositiveInt),
			huh.NewInput().Title("Pomodoros before long break").Value(s.pomsPerLongBreak).Validate(validatePositiveInt),
		).Title("Pomodoro"),
		huh.NewGroup(
			huh.NewInput().Title("Daily goal (min)").Value(s.dailyGoal).Validate(validatePositiveInt),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
		).Title("General"),
		huh.NewGroup(
			huh.NewInput().Title("Insight endpoint URL").Value(s.insightURL),
			huh.NewInput().Title("Insight API key").Value(s.insightKey).EchoMode(huh.EchoModePassword),
			huh.NewInput().Title("Weekly report recipient").Value(s.reportRecipient),
		).Title("Coaching & Reports"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting("focus_minutes", *s.focusMinutes)
	s.store.SetSetting("break_minutes", *s.breakMinutes)
	s.store.SetSetting("long_break_minutes", *s.longBreakMinutes)
	s.store.SetSetting("poms_per_long_break", *s.pomsPerLongBreak)
	s.store.SetSetting("daily_goal_minutes", *s.dailyGoal)
	s.store.SetSetting("week_start", *s.weekStart)
	s.store.SetSetting("insight_url", *s.insightURL)
	s.store.SetSetting("insight_key", *s.insightKey)
	s.store.SetSetting("report_recipient", *s.reportRecipient)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "focus_minutes", "break_minutes", "long_break_minutes", "daily_goal_minutes":
		if mins, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", mins)
		}
	case "insight_key":
		if v != "" {
			return "••••••••"
		}
		return "(not set)"
	case "insight_url", "report_recipient":
		if v == "" {
			return "(not set)"
		}
	}
	return v
}
