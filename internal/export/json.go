package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vaais251/focusflow/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID      int64  `json:"id"`
	Task    string `json:"task,omitempty"`
	Project string `json:"project,omitempty"`
	Tags    string `json:"tags,omitempty"`
	Minutes int    `json:"minutes"`
	EndedAt string `json:"ended_at"`
}

// ToJSON writes the pomodoro history as a JSON document.
func ToJSON(entries []store.HistoryEntry, tasks map[int64]*store.Task, projects map[int64]*store.Project, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		taskName, projectName, tags := resolve(e, tasks, projects)
		export.Entries = append(export.Entries, jsonEntry{
			ID:      e.ID,
			Task:    taskName,
			Project: projectName,
			Tags:    tags,
			Minutes: e.DurationMinutes,
			EndedAt: e.EndedAt.Local().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
