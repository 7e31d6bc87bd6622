package main

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vaais251/focusflow/internal/automation"
	"github.com/vaais251/focusflow/internal/insight"
	"github.com/vaais251/focusflow/internal/report"
	"github.com/vaais251/focusflow/internal/store"
	"github.com/vaais251/focusflow/internal/tui"
)

func main() {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if len(os.Args) > 1 && os.Args[1] == "report" {
		if err := weeklyReport(s); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Materialize today's recurring task instances before the UI comes up.
	if _, err := automation.New(s).SyncDay(time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recurring task sync failed: %v\n", err)
	}

	app := tui.NewApp(s)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// weeklyReport builds last week's summary and emails it when SMTP is
// configured, otherwise prints the HTML to stdout. Meant to be run from cron.
func weeklyReport(s *store.Store) error {
	now := time.Now()
	weekStart := lastWeekStart(s, now)

	w, err := report.BuildWeekly(s, weekStart, now)
	if err != nil {
		return err
	}

	if url, err := s.GetSetting("insight_url"); err == nil && url != "" {
		apiKey, _ := s.GetSetting("insight_key")
		client := insight.New(url, apiKey)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		w.Insight = client.SummarizeOrApology(ctx, insight.SummaryRequest{
			Period:       fmt.Sprintf("week of %s", weekStart.Format("2006-01-02")),
			FocusMinutes: w.TotalMinutes,
			Sessions:     w.Sessions,
			TasksDone:    w.TasksDone,
		})
	}

	html, err := w.Render()
	if err != nil {
		return err
	}

	to, _ := s.GetSetting("report_recipient")
	addr := os.Getenv("FOCUSFLOW_SMTP_ADDR")
	from := os.Getenv("FOCUSFLOW_SMTP_FROM")
	if to == "" || addr == "" || from == "" {
		fmt.Println(html)
		return nil
	}

	var auth smtp.Auth
	if user := os.Getenv("FOCUSFLOW_SMTP_USER"); user != "" {
		host := addr
		for i := range addr {
			if addr[i] == ':' {
				host = addr[:i]
				break
			}
		}
		auth = smtp.PlainAuth("", user, os.Getenv("FOCUSFLOW_SMTP_PASS"), host)
	}
	return report.Send(addr, auth, from, to, html)
}

// lastWeekStart finds the start of the most recently completed week,
// honoring the week_start setting.
func lastWeekStart(s *store.Store, now time.Time) time.Time {
	startDay := time.Monday
	if v, err := s.GetSetting("week_start"); err == nil && v == "sunday" {
		startDay = time.Sunday
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	back := int(today.Weekday()-startDay+7) % 7
	thisWeek := today.AddDate(0, 0, -back)
	return thisWeek.AddDate(0, 0, -7)
}
