// Package report builds the weekly summary email. It is pure read plus
// template: all statuses come from the same lifecycle and progress
// evaluators the UI uses, so the report never invents rules of its own.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/vaais251/focusflow/internal/lifecycle"
	"github.com/vaais251/focusflow/internal/progress"
	"github.com/vaais251/focusflow/internal/store"
)

type ProjectLine struct {
	Name     string
	Status   string
	Progress int
	Goal     int
}

type TargetLine struct {
	Text    string
	Status  string
	Minutes int
	Goal    int
}

type CommitmentLine struct {
	Text   string
	Status string
}

// Weekly is everything the email template needs.
type Weekly struct {
	WeekStart    time.Time
	WeekEnd      time.Time
	Days         []store.DailyFocus
	TotalMinutes int64
	Sessions     int
	TasksDone    int
	Projects     []ProjectLine
	Targets      []TargetLine
	Commitments  []CommitmentLine
	Insight      string // optional AI coaching text
}

// BuildWeekly aggregates one week starting at weekStart (inclusive).
func BuildWeekly(s *store.Store, weekStart, now time.Time) (*Weekly, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)

	days, err := s.GetDailyFocus(weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("weekly focus: %w", err)
	}

	w := &Weekly{WeekStart: weekStart, WeekEnd: weekEnd, Days: days}
	for _, d := range days {
		w.TotalMinutes += d.Minutes
		w.Sessions += d.Sessions
	}

	tasks, err := s.ListTasks()
	if err != nil {
		return nil, fmt.Errorf("weekly tasks: %w", err)
	}
	for _, t := range tasks {
		if t.Done() {
			w.TasksDone++
		}
	}

	history, err := s.ListHistory(store.HistoryFilter{})
	if err != nil {
		return nil, fmt.Errorf("weekly history: %w", err)
	}

	projects, err := s.ListProjects()
	if err != nil {
		return nil, fmt.Errorf("weekly projects: %w", err)
	}
	for _, p := range projects {
		value, _ := progress.ForProject(p, tasks, history)
		w.Projects = append(w.Projects, ProjectLine{
			Name:     p.Name,
			Status:   string(lifecycle.ProjectStatus(p, value, now)),
			Progress: value,
			Goal:     p.CriteriaValue,
		})
	}

	targets, err := s.ListTargets()
	if err != nil {
		return nil, fmt.Errorf("weekly targets: %w", err)
	}
	for _, t := range targets {
		minutes, _ := progress.ForTarget(t, tasks, history)
		w.Targets = append(w.Targets, TargetLine{
			Text:    t.Text,
			Status:  string(lifecycle.TargetStatus(t, minutes, now)),
			Minutes: minutes,
			Goal:    t.TargetMinutes,
		})
	}

	commitments, err := s.ListCommitments()
	if err != nil {
		return nil, fmt.Errorf("weekly commitments: %w", err)
	}
	for _, c := range commitments {
		eval := lifecycle.EvalCommitment(c, now)
		w.Commitments = append(w.Commitments, CommitmentLine{
			Text:   c.Text,
			Status: string(eval.Status),
		})
	}

	return w, nil
}

var emailTmpl = template.Must(template.New("weekly").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:sans-serif">
<h1>Your FocusFlow week</h1>
<p>{{.WeekStart.Format "Jan 2"}} &ndash; {{.WeekEndDisplay}}</p>
<p><strong>{{.TotalMinutes}} focus minutes</strong> across {{.Sessions}} sessions; {{.TasksDone}} tasks completed.</p>

{{if .Days}}<h2>Daily focus</h2>
<table cellpadding="4">
{{range .Days}}<tr><td>{{.Date}}</td><td>{{.Minutes}} min</td><td>{{.Sessions}} sessions</td></tr>
{{end}}</table>{{end}}

{{if .Projects}}<h2>Projects</h2>
<ul>
{{range .Projects}}<li>{{.Name}} &mdash; {{.Status}}{{if .Goal}} ({{.Progress}}/{{.Goal}}){{end}}</li>
{{end}}</ul>{{end}}

{{if .Targets}}<h2>Targets</h2>
<ul>
{{range .Targets}}<li>{{.Text}} &mdash; {{.Status}}{{if .Goal}} ({{.Minutes}}/{{.Goal}} min){{end}}</li>
{{end}}</ul>{{end}}

{{if .Commitments}}<h2>Commitments</h2>
<ul>
{{range .Commitments}}<li>{{.Text}} &mdash; {{.Status}}</li>
{{end}}</ul>{{end}}

{{if .Insight}}<h2>Coach's notes</h2>
<p>{{.Insight}}</p>{{end}}
</body>
</html>
`))

// WeekEndDisplay is the last day of the week, for the template header.
func (w *Weekly) WeekEndDisplay() string {
	return w.WeekEnd.AddDate(0, 0, -1).Format("Jan 2, 2006")
}

// Render produces the HTML email body.
func (w *Weekly) Render() (string, error) {
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, w); err != nil {
		return "", fmt.Errorf("render weekly report: %w", err)
	}
	return buf.String(), nil
}

// Send delivers the rendered report over SMTP. addr is host:port; auth may
// be nil for unauthenticated relays.
func Send(addr string, auth smtp.Auth, from, to, htmlBody string) error {
	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: Your FocusFlow weekly report\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(htmlBody)

	if err := smtp.SendMail(addr, auth, from, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("send weekly report: %w", err)
	}
	return nil
}
