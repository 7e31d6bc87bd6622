package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// AppendHistory records one completed focus interval. History is the sole
// source of truth for time-based progress; there is no update or delete.
func (s *Store) AppendHistory(taskID *int64, durationMinutes int, endedAt time.Time) (*HistoryEntry, error) {
	res, err := s.db.Exec(
		`INSERT INTO pomodoro_history (task_id, duration_minutes, ended_at) VALUES (?, ?, ?)`,
		int64PtrArg(taskID), durationMinutes, fmtTime(endedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetHistoryEntry(id)
}

func scanHistoryEntry(row interface{ Scan(...any) error }) (*HistoryEntry, error) {
	e := &HistoryEntry{}
	var taskID sql.NullInt64
	var endedAt string
	if err := row.Scan(&e.ID, &taskID, &e.DurationMinutes, &endedAt); err != nil {
		return nil, err
	}
	e.TaskID = nullInt64Ptr(taskID)
	e.EndedAt = parseTime(endedAt)
	return e, nil
}

func (s *Store) GetHistoryEntry(id int64) (*HistoryEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, task_id, duration_minutes, ended_at FROM pomodoro_history WHERE id = ?`, id,
	)
	e, err := scanHistoryEntry(row)
	if err != nil {
		return nil, fmt.Errorf("get history entry %d: %w", id, err)
	}
	return e, nil
}

func (s *Store) ListHistory(f HistoryFilter) ([]HistoryEntry, error) {
	query := `SELECT id, task_id, duration_minutes, ended_at FROM pomodoro_history WHERE 1=1`
	var args []any

	if len(f.TaskIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.TaskIDs)), ",")
		query += ` AND task_id IN (` + placeholders + `)`
		for _, id := range f.TaskIDs {
			args = append(args, id)
		}
	}
	if f.From != nil {
		query += ` AND ended_at >= ?`
		args = append(args, fmtTime(*f.From))
	}
	if f.To != nil {
		query += ` AND ended_at < ?`
		args = append(args, fmtTime(*f.To))
	}
	query += ` ORDER BY ended_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		e, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// GetDailyFocus aggregates focus minutes per calendar day for charts and the
// weekly report.
func (s *Store) GetDailyFocus(from, to time.Time) ([]DailyFocus, error) {
	rows, err := s.db.Query(`
		SELECT date(ended_at) AS day, COALESCE(SUM(duration_minutes), 0), COUNT(*)
		FROM pomodoro_history
		WHERE ended_at >= ? AND ended_at < ?
		GROUP BY day
		ORDER BY day`,
		fmtTime(from), fmtTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("daily focus: %w", err)
	}
	defer rows.Close()

	var days []DailyFocus
	for rows.Next() {
		var d DailyFocus
		if err := rows.Scan(&d.Date, &d.Minutes, &d.Sessions); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// GetTodayFocus returns total focus minutes logged today.
func (s *Store) GetTodayFocus(now time.Time) (int64, error) {
	day := now.UTC().Format("2006-01-02")
	var total sql.NullInt64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM pomodoro_history
		WHERE date(ended_at) = ?`, day,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
