// Package automation instantiates concrete tasks from recurring templates.
// The eligibility rules live in the lifecycle package; this package only
// applies them against the store for a given calendar day.
package automation

import (
	"fmt"
	"time"

	"github.com/vaais251/focusflow/internal/lifecycle"
	"github.com/vaais251/focusflow/internal/progress"
	"github.com/vaais251/focusflow/internal/store"
)

type Generator struct {
	store *store.Store
}

func New(s *store.Store) *Generator {
	return &Generator{store: s}
}

// SyncDay spawns one task instance per qualifying template for the given
// day. It is idempotent: a template that already has an instance due that
// day is skipped, so re-running for the same day changes nothing.
func (g *Generator) SyncDay(day time.Time) (int, error) {
	templates, err := g.store.ListTemplates()
	if err != nil {
		return 0, fmt.Errorf("load templates: %w", err)
	}
	if len(templates) == 0 {
		return 0, nil
	}

	tasks, err := g.store.ListTasks()
	if err != nil {
		return 0, fmt.Errorf("load tasks: %w", err)
	}
	history, err := g.store.ListHistory(store.HistoryFilter{})
	if err != nil {
		return 0, fmt.Errorf("load history: %w", err)
	}
	projects, err := g.store.ListProjects()
	if err != nil {
		return 0, fmt.Errorf("load projects: %w", err)
	}
	projectsByID := make(map[int64]store.Project, len(projects))
	for _, p := range projects {
		projectsByID[p.ID] = p
	}

	spawned := 0
	for _, tpl := range templates {
		projectCompleted := false
		if tpl.ProjectID != nil {
			if p, ok := projectsByID[*tpl.ProjectID]; ok {
				value, _ := progress.ForProject(p, tasks, history)
				projectCompleted = lifecycle.ProjectStatus(p, value, day) == lifecycle.StatusCompleted
			}
		}

		if !lifecycle.ShouldSpawn(tpl, day, projectCompleted) {
			continue
		}

		exists, err := g.store.HasInstanceOn(tpl.ID, day)
		if err != nil {
			return spawned, err
		}
		if exists {
			continue
		}

		due := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		instance := store.Task{
			Text:         tpl.Text,
			TotalPoms:    tpl.TotalPoms,
			ProjectID:    tpl.ProjectID,
			Tags:         tpl.Tags,
			Priority:     tpl.Priority,
			FocusMinutes: tpl.FocusMinutes,
			BreakMinutes: tpl.BreakMinutes,
			DueDate:      &due,
			IsActive:     true,
			TemplateID:   &tpl.ID,
		}
		if _, err := g.store.CreateTask(&instance); err != nil {
			return spawned, fmt.Errorf("spawn instance of template %d: %w", tpl.ID, err)
		}
		spawned++
	}
	return spawned, nil
}
