package store

import (
	"database/sql"
	"fmt"
	"time"
)

const commitmentCols = `id, text, due_date, created_at, completed_at, broken_at`

func (s *Store) CreateCommitment(text string, dueDate *time.Time) (*Commitment, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO commitments (text, due_date, created_at) VALUES (?, ?, ?)`,
		text, fmtTimePtr(dueDate), fmtTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert commitment: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetCommitment(id)
}

func scanCommitment(row interface{ Scan(...any) error }) (*Commitment, error) {
	c := &Commitment{}
	var dueDate, completedAt, brokenAt sql.NullString
	var createdAt string
	if err := row.Scan(&c.ID, &c.Text, &dueDate, &createdAt, &completedAt, &brokenAt); err != nil {
		return nil, err
	}
	c.DueDate = parseNullTime(dueDate)
	c.CreatedAt = parseTime(createdAt)
	c.CompletedAt = parseNullTime(completedAt)
	c.BrokenAt = parseNullTime(brokenAt)
	return c, nil
}

func (s *Store) GetCommitment(id int64) (*Commitment, error) {
	row := s.db.QueryRow(`SELECT `+commitmentCols+` FROM commitments WHERE id = ?`, id)
	c, err := scanCommitment(row)
	if err != nil {
		return nil, fmt.Errorf("get commitment %d: %w", id, err)
	}
	return c, nil
}

func (s *Store) ListCommitments() ([]Commitment, error) {
	rows, err := s.db.Query(`SELECT ` + commitmentCols + ` FROM commitments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list commitments: %w", err)
	}
	defer rows.Close()

	var commitments []Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		commitments = append(commitments, *c)
	}
	return commitments, rows.Err()
}

// UpdateCommitment rewrites text and due date. The caller is expected to
// have checked the grace-period edit permission first.
func (s *Store) UpdateCommitment(id int64, text string, dueDate *time.Time) error {
	_, err := s.db.Exec(
		`UPDATE commitments SET text = ?, due_date = ? WHERE id = ?`,
		text, fmtTimePtr(dueDate), id,
	)
	return err
}

// CompleteCommitment stamps the terminal completed state. No-op if the
// commitment already resolved either way.
func (s *Store) CompleteCommitment(id int64, now time.Time) error {
	_, err := s.db.Exec(
		`UPDATE commitments SET completed_at = ?
		 WHERE id = ? AND completed_at IS NULL AND broken_at IS NULL`,
		fmtTime(now), id,
	)
	return err
}

// BreakCommitment stamps the terminal broken state. No-op if already resolved.
func (s *Store) BreakCommitment(id int64, now time.Time) error {
	_, err := s.db.Exec(
		`UPDATE commitments SET broken_at = ?
		 WHERE id = ? AND completed_at IS NULL AND broken_at IS NULL`,
		fmtTime(now), id,
	)
	return err
}

func (s *Store) DeleteCommitment(id int64) error {
	_, err := s.db.Exec(`DELETE FROM commitments WHERE id = ?`, id)
	return err
}
