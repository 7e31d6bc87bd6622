package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) CreateProjectUpdate(projectID int64, taskID *int64, text string, date time.Time) (*ProjectUpdate, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO project_updates (project_id, task_id, text, date, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		projectID, int64PtrArg(taskID), text, fmtTime(date), fmtTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project update: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetProjectUpdate(id)
}

func scanProjectUpdate(row interface{ Scan(...any) error }) (*ProjectUpdate, error) {
	u := &ProjectUpdate{}
	var taskID sql.NullInt64
	var date, createdAt string
	if err := row.Scan(&u.ID, &u.ProjectID, &taskID, &u.Text, &date, &createdAt); err != nil {
		return nil, err
	}
	u.TaskID = nullInt64Ptr(taskID)
	u.Date = parseTime(date)
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

func (s *Store) GetProjectUpdate(id int64) (*ProjectUpdate, error) {
	row := s.db.QueryRow(
		`SELECT id, project_id, task_id, text, date, created_at FROM project_updates WHERE id = ?`, id,
	)
	u, err := scanProjectUpdate(row)
	if err != nil {
		return nil, fmt.Errorf("get project update %d: %w", id, err)
	}
	return u, nil
}

func (s *Store) ListProjectUpdates(projectID int64) ([]ProjectUpdate, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, task_id, text, date, created_at
		 FROM project_updates WHERE project_id = ? ORDER BY date DESC, id DESC`, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list project updates: %w", err)
	}
	defer rows.Close()

	var updates []ProjectUpdate
	for rows.Next() {
		u, err := scanProjectUpdate(rows)
		if err != nil {
			return nil, err
		}
		updates = append(updates, *u)
	}
	return updates, rows.Err()
}

func (s *Store) DeleteProjectUpdate(id int64) error {
	_, err := s.db.Exec(`DELETE FROM project_updates WHERE id = ?`, id)
	return err
}
