package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/vaais251/focusflow/internal/store"
)

// ToCSV writes the pomodoro history with resolved task and project names.
// Orphaned entries (deleted tasks) are exported with a blank task column —
// the log keeps them even though aggregation ignores them.
func ToCSV(entries []store.HistoryEntry, tasks map[int64]*store.Task, projects map[int64]*store.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Task", "Project", "Tags", "Minutes", "Ended At"}); err != nil {
		return err
	}

	for _, e := range entries {
		taskName, projectName, tags := resolve(e, tasks, projects)
		row := []string{
			fmt.Sprintf("%d", e.ID),
			taskName,
			projectName,
			tags,
			fmt.Sprintf("%d", e.DurationMinutes),
			e.EndedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func resolve(e store.HistoryEntry, tasks map[int64]*store.Task, projects map[int64]*store.Project) (taskName, projectName, tags string) {
	if e.TaskID == nil {
		return "", "", ""
	}
	t, ok := tasks[*e.TaskID]
	if !ok {
		return "", "", ""
	}
	taskName = t.Text
	tags = t.Tags
	if t.ProjectID != nil {
		if p, ok := projects[*t.ProjectID]; ok {
			projectName = p.Name
		}
	}
	return taskName, projectName, tags
}
