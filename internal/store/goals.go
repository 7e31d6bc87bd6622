package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) CreateGoal(text string) (*Goal, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO goals (text, created_at) VALUES (?, ?)`,
		text, fmtTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetGoal(id)
}

func scanGoal(row interface{ Scan(...any) error }) (*Goal, error) {
	g := &Goal{}
	var createdAt string
	var completedAt sql.NullString
	if err := row.Scan(&g.ID, &g.Text, &createdAt, &completedAt); err != nil {
		return nil, err
	}
	g.CreatedAt = parseTime(createdAt)
	g.CompletedAt = parseNullTime(completedAt)
	return g, nil
}

func (s *Store) GetGoal(id int64) (*Goal, error) {
	row := s.db.QueryRow(`SELECT id, text, created_at, completed_at FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err != nil {
		return nil, fmt.Errorf("get goal %d: %w", id, err)
	}
	return g, nil
}

func (s *Store) ListGoals() ([]Goal, error) {
	rows, err := s.db.Query(`SELECT id, text, created_at, completed_at FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *Store) UpdateGoalText(id int64, text string) error {
	_, err := s.db.Exec(`UPDATE goals SET text = ? WHERE id = ?`, text, id)
	return err
}

// SetGoalCompleted toggles the manual completion stamp. Goals have no
// automatic completion path.
func (s *Store) SetGoalCompleted(id int64, done bool, now time.Time) error {
	if done {
		_, err := s.db.Exec(
			`UPDATE goals SET completed_at = ? WHERE id = ? AND completed_at IS NULL`,
			fmtTime(now), id,
		)
		return err
	}
	_, err := s.db.Exec(`UPDATE goals SET completed_at = NULL WHERE id = ?`, id)
	return err
}

func (s *Store) DeleteGoal(id int64) error {
	_, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	return err
}
