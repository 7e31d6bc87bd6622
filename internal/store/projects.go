package store

import (
	"database/sql"
	"fmt"
	"time"
)

const projectCols = `id, name, description, start_date, deadline, active_days,
	criteria_type, criteria_value, priority, created_at, completed_at`

func (s *Store) CreateProject(p *Project) (*Project, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO projects (name, description, start_date, deadline, active_days,
		 criteria_type, criteria_value, priority, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, fmtTimePtr(p.StartDate), fmtTimePtr(p.Deadline),
		p.ActiveDays, p.CriteriaType, p.CriteriaValue, p.Priority, fmtTime(p.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetProject(id)
}

func scanProject(row interface{ Scan(...any) error }) (*Project, error) {
	p := &Project{}
	var startDate, deadline, completedAt sql.NullString
	var createdAt string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &startDate, &deadline,
		&p.ActiveDays, &p.CriteriaType, &p.CriteriaValue, &p.Priority,
		&createdAt, &completedAt)
	if err != nil {
		return nil, err
	}
	p.StartDate = parseNullTime(startDate)
	p.Deadline = parseNullTime(deadline)
	p.CreatedAt = parseTime(createdAt)
	p.CompletedAt = parseNullTime(completedAt)
	return p, nil
}

func (s *Store) GetProject(id int64) (*Project, error) {
	row := s.db.QueryRow(`SELECT `+projectCols+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectCols + ` FROM projects ORDER BY priority DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (s *Store) UpdateProject(p *Project) error {
	_, err := s.db.Exec(
		`UPDATE projects SET name = ?, description = ?, start_date = ?, deadline = ?,
		 active_days = ?, criteria_type = ?, criteria_value = ?, priority = ?
		 WHERE id = ?`,
		p.Name, p.Description, fmtTimePtr(p.StartDate), fmtTimePtr(p.Deadline),
		p.ActiveDays, p.CriteriaType, p.CriteriaValue, p.Priority, p.ID,
	)
	return err
}

// SetProjectCompleted stamps completed_at once; clearing un-completes a
// manually tracked project. The stamp is written only if not already set so
// completion stays sticky under recomputation.
func (s *Store) SetProjectCompleted(id int64, done bool, now time.Time) error {
	if done {
		_, err := s.db.Exec(
			`UPDATE projects SET completed_at = ? WHERE id = ? AND completed_at IS NULL`,
			fmtTime(now), id,
		)
		return err
	}
	_, err := s.db.Exec(`UPDATE projects SET completed_at = NULL WHERE id = ?`, id)
	return err
}

// DeleteProject removes the project. Tasks keep existing with a nulled
// project reference (weak link), handled by ON DELETE SET NULL.
func (s *Store) DeleteProject(id int64) error {
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	return err
}
