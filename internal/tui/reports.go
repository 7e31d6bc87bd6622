package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vaais251/focusflow/internal/insight"
	"github.com/vaais251/focusflow/internal/lifecycle"
	"github.com/vaais251/focusflow/internal/progress"
	"github.com/vaais251/focusflow/internal/store"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	mode   reportMode
	offset int // weeks or 7-day blocks back from today (0 = current)

	daily   []store.DailyFocus
	tags    map[string]int
	targets []targetRow

	insightText    string
	insightLoading bool

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	daily   []store.DailyFocus
	tags    map[string]int
	targets []targetRow
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		daily, _ := r.store.GetDailyFocus(from, to)
		tasks, _ := r.store.ListTasks()
		history, _ := r.store.ListHistory(store.HistoryFilter{From: &from, To: &to})
		targets, _ := r.store.ListTargets()

		rows := make([]targetRow, 0, len(targets))
		allHistory, _ := r.store.ListHistory(store.HistoryFilter{})
		for _, t := range targets {
			minutes, _ := progress.ForTarget(t, tasks, allHistory)
			rows = append(rows, targetRow{target: t, minutes: minutes})
		}

		return reportsDataMsg{
			daily:   daily,
			tags:    progress.TagBreakdown(tasks, history),
			targets: rows,
		}
	}
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch r.mode {
	case reportWeekly:
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		startOfWeek := today.AddDate(0, 0, -int(weekday-time.Monday))
		startOfWeek = startOfWeek.AddDate(0, 0, -7*r.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	default:
		end := today.AddDate(0, 0, 1-7*r.offset)
		start := end.AddDate(0, 0, -7)
		return start, end
	}
}

// fetchInsight ships the period's aggregates to the coaching endpoint.
// Failures degrade to a canned apology rather than an error state.
func (r reportsModel) fetchInsight() tea.Cmd {
	from, to := r.dateRange()
	daily := r.daily
	tags := r.tags
	s := r.store

	return func() tea.Msg {
		url, _ := s.GetSetting("insight_url")
		apiKey, _ := s.GetSetting("insight_key")
		client := insight.New(url, apiKey)

		var minutes int64
		sessions := 0
		for _, d := range daily {
			minutes += int64(d.Minutes)
			sessions += d.Sessions
		}

		tasksDone := 0
		if tasks, err := s.ListTasks(); err == nil {
			for _, t := range tasks {
				if t.Done() {
					tasksDone++
				}
			}
		}

		req := insight.SummaryRequest{
			Period:       fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.AddDate(0, 0, -1).Format("2006-01-02")),
			FocusMinutes: minutes,
			Sessions:     sessions,
			TasksDone:    tasksDone,
			TagMinutes:   tags,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return insightMsg{text: client.SummarizeOrApology(ctx, req)}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.daily = msg.daily
		r.tags = msg.tags
		r.targets = msg.targets
		r.buildChart()
		return r, nil

	case insightMsg:
		r.insightText = msg.text
		r.insightLoading = false
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			r.insightText = ""
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			r.insightText = ""
			return r, r.refresh()
		case key.Matches(msg, keys.Tab):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			r.insightText = ""
			return r, r.refresh()
		case key.Matches(msg, keys.Insight):
			if r.insightLoading {
				return r, nil
			}
			r.insightLoading = true
			return r, r.fetchInsight()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 34 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()
	byDate := make(map[string]store.DailyFocus, len(r.daily))
	for _, d := range r.daily {
		byDate[d.Date] = d
	}

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	emptyStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		label := d.Format("Mon 02")
		value := barchart.BarValue{Name: "", Value: 0, Style: emptyStyle}
		if df, ok := byDate[d.Format("2006-01-02")]; ok {
			value = barchart.BarValue{
				Name:  "focus",
				Value: float64(df.Minutes),
				Style: barStyle,
			}
		}
		bars = append(bars, barchart.BarData{Label: label, Values: []barchart.BarValue{value}})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	sections := []string{header, "", r.chart.View(), "", r.renderTagTable(w)}

	if targets := r.renderTargetProgress(); targets != "" {
		sections = append(sections, "", targets)
	}
	if insightPanel := r.renderInsight(w); insightPanel != "" {
		sections = append(sections, "", insightPanel)
	}

	sections = append(sections, "",
		mutedStyle.Render("  ←/→: navigate  tab: switch mode  i: coaching insight"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (r reportsModel) renderTagTable(w int) string {
	if len(r.tags) == 0 {
		return mutedStyle.Render("  No tagged focus time for this period")
	}

	type tagLine struct {
		tag     string
		minutes int
	}
	lines := make([]tagLine, 0, len(r.tags))
	for tag, mins := range r.tags {
		lines = append(lines, tagLine{tag, mins})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].minutes != lines[j].minutes {
			return lines[i].minutes > lines[j].minutes
		}
		return lines[i].tag < lines[j].tag
	})

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-20s %10s", "Tag", "Minutes")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 32))))
	for _, l := range lines {
		rows = append(rows, fmt.Sprintf("  %-20s %10s", l.tag, formatMinutes(int64(l.minutes))))
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderTargetProgress() string {
	now := time.Now()
	var rows []string
	for _, row := range r.targets {
		t := row.target
		if t.Mode != store.ModeFocusMinutes {
			continue
		}
		st := lifecycle.TargetStatus(t, row.minutes, now)
		rows = append(rows, fmt.Sprintf("  %-28s %s %s",
			t.Text,
			statusStyle(st).Render(string(st)),
			mutedStyle.Render(fmt.Sprintf("%d/%d min", row.minutes, t.TargetMinutes)),
		))
	}
	if len(rows) == 0 {
		return ""
	}
	return titleStyle.Render("  Targets") + "\n" + strings.Join(rows, "\n")
}

func (r reportsModel) renderInsight(w int) string {
	if r.insightLoading {
		return highlightStyle.Render("  Fetching coaching insight…")
	}
	if r.insightText == "" {
		return ""
	}
	body := lipgloss.NewStyle().Width(min(w-8, 72)).Render(r.insightText)
	return titleStyle.Render("  Coach") + "\n" + mutedStyle.Render(body)
}
