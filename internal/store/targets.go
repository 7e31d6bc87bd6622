package store

import (
	"database/sql"
	"fmt"
	"time"
)

const targetCols = `id, text, start_date, deadline, priority, mode, tags,
	target_minutes, created_at, completed_at`

func (s *Store) CreateTarget(t *Target) (*Target, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO targets (text, start_date, deadline, priority, mode, tags,
		 target_minutes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Text, fmtTimePtr(t.StartDate), fmtTimePtr(t.Deadline), t.Priority,
		t.Mode, t.Tags, t.TargetMinutes, fmtTime(t.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert target: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTarget(id)
}

func scanTarget(row interface{ Scan(...any) error }) (*Target, error) {
	t := &Target{}
	var startDate, deadline, completedAt sql.NullString
	var createdAt string
	err := row.Scan(&t.ID, &t.Text, &startDate, &deadline, &t.Priority, &t.Mode,
		&t.Tags, &t.TargetMinutes, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}
	t.StartDate = parseNullTime(startDate)
	t.Deadline = parseNullTime(deadline)
	t.CreatedAt = parseTime(createdAt)
	t.CompletedAt = parseNullTime(completedAt)
	return t, nil
}

func (s *Store) GetTarget(id int64) (*Target, error) {
	row := s.db.QueryRow(`SELECT `+targetCols+` FROM targets WHERE id = ?`, id)
	t, err := scanTarget(row)
	if err != nil {
		return nil, fmt.Errorf("get target %d: %w", id, err)
	}
	return t, nil
}

func (s *Store) ListTargets() ([]Target, error) {
	rows, err := s.db.Query(`SELECT ` + targetCols + ` FROM targets ORDER BY priority DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []Target
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, *t)
	}
	return targets, rows.Err()
}

func (s *Store) UpdateTarget(t *Target) error {
	_, err := s.db.Exec(
		`UPDATE targets SET text = ?, start_date = ?, deadline = ?, priority = ?,
		 mode = ?, tags = ?, target_minutes = ? WHERE id = ?`,
		t.Text, fmtTimePtr(t.StartDate), fmtTimePtr(t.Deadline), t.Priority,
		t.Mode, t.Tags, t.TargetMinutes, t.ID,
	)
	return err
}

// SetTargetCompleted stamps completed_at once (sticky) or clears it.
func (s *Store) SetTargetCompleted(id int64, done bool, now time.Time) error {
	if done {
		_, err := s.db.Exec(
			`UPDATE targets SET completed_at = ? WHERE id = ? AND completed_at IS NULL`,
			fmtTime(now), id,
		)
		return err
	}
	_, err := s.db.Exec(`UPDATE targets SET completed_at = NULL WHERE id = ?`, id)
	return err
}

func (s *Store) DeleteTarget(id int64) error {
	_, err := s.db.Exec(`DELETE FROM targets WHERE id = ?`, id)
	return err
}
