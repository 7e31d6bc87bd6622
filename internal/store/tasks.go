package store

import (
	"database/sql"
	"fmt"
	"time"
)

const taskCols = `id, text, total_poms, completed_poms, completed, project_id, tags,
	priority, focus_minutes, break_minutes, due_date, is_template, recurring_days,
	recurring_end, is_active, stop_on_project_completion, template_id, created_at`

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Store) CreateTask(t *Task) (*Task, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO tasks (text, total_poms, completed_poms, completed, project_id,
		 tags, priority, focus_minutes, break_minutes, due_date, is_template,
		 recurring_days, recurring_end, is_active, stop_on_project_completion,
		 template_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Text, t.TotalPoms, t.CompletedPoms, boolInt(t.Completed),
		int64PtrArg(t.ProjectID), t.Tags, t.Priority,
		intPtrArg(t.FocusMinutes), intPtrArg(t.BreakMinutes), fmtTimePtr(t.DueDate),
		boolInt(t.IsTemplate), t.RecurringDays, fmtTimePtr(t.RecurringEnd),
		boolInt(t.IsActive), boolInt(t.StopOnProjectCompletion),
		int64PtrArg(t.TemplateID), fmtTime(t.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

func scanTask(row interface{ Scan(...any) error }) (*Task, error) {
	t := &Task{}
	var completed, isTemplate, isActive, stopOnDone int
	var projectID, templateID sql.NullInt64
	var focusMin, breakMin sql.NullInt64
	var dueDate, recurringEnd sql.NullString
	var createdAt string
	err := row.Scan(&t.ID, &t.Text, &t.TotalPoms, &t.CompletedPoms, &completed,
		&projectID, &t.Tags, &t.Priority, &focusMin, &breakMin, &dueDate,
		&isTemplate, &t.RecurringDays, &recurringEnd, &isActive, &stopOnDone,
		&templateID, &createdAt)
	if err != nil {
		return nil, err
	}
	t.Completed = completed == 1
	t.IsTemplate = isTemplate == 1
	t.IsActive = isActive == 1
	t.StopOnProjectCompletion = stopOnDone == 1
	t.ProjectID = nullInt64Ptr(projectID)
	t.TemplateID = nullInt64Ptr(templateID)
	t.FocusMinutes = nullIntPtr(focusMin)
	t.BreakMinutes = nullIntPtr(breakMin)
	t.DueDate = parseNullTime(dueDate)
	t.RecurringEnd = parseNullTime(recurringEnd)
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func (s *Store) GetTask(id int64) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *Store) listTasks(query string, args ...any) ([]Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ListTasks returns concrete (non-template) tasks.
func (s *Store) ListTasks() ([]Task, error) {
	return s.listTasks(`SELECT ` + taskCols + ` FROM tasks WHERE is_template = 0 ORDER BY priority DESC, id`)
}

// ListProjectTasks returns concrete tasks linked to one project.
func (s *Store) ListProjectTasks(projectID int64) ([]Task, error) {
	return s.listTasks(`SELECT `+taskCols+` FROM tasks WHERE is_template = 0 AND project_id = ? ORDER BY id`, projectID)
}

// ListTemplates returns recurring task templates.
func (s *Store) ListTemplates() ([]Task, error) {
	return s.listTasks(`SELECT ` + taskCols + ` FROM tasks WHERE is_template = 1 ORDER BY id`)
}

func (s *Store) UpdateTask(t *Task) error {
	_, err := s.db.Exec(
		`UPDATE tasks SET text = ?, total_poms = ?, completed_poms = ?, completed = ?,
		 project_id = ?, tags = ?, priority = ?, focus_minutes = ?, break_minutes = ?,
		 due_date = ?, recurring_days = ?, recurring_end = ?, is_active = ?,
		 stop_on_project_completion = ?
		 WHERE id = ?`,
		t.Text, t.TotalPoms, t.CompletedPoms, boolInt(t.Completed),
		int64PtrArg(t.ProjectID), t.Tags, t.Priority,
		intPtrArg(t.FocusMinutes), intPtrArg(t.BreakMinutes), fmtTimePtr(t.DueDate),
		t.RecurringDays, fmtTimePtr(t.RecurringEnd), boolInt(t.IsActive),
		boolInt(t.StopOnProjectCompletion), t.ID,
	)
	return err
}

// SetTaskCompleted toggles the explicit completion flag (stopwatch tasks and
// manual checkoffs).
func (s *Store) SetTaskCompleted(id int64, done bool) error {
	_, err := s.db.Exec(`UPDATE tasks SET completed = ? WHERE id = ?`, boolInt(done), id)
	return err
}

// IncrementTaskPoms bumps completed_poms after a finished focus interval.
func (s *Store) IncrementTaskPoms(id int64) error {
	_, err := s.db.Exec(`UPDATE tasks SET completed_poms = completed_poms + 1 WHERE id = ?`, id)
	return err
}

// PostponeTask pushes the due date forward by one day. Tasks with no due
// date get tomorrow.
func (s *Store) PostponeTask(id int64, now time.Time) error {
	t, err := s.GetTask(id)
	if err != nil {
		return err
	}
	base := now
	if t.DueDate != nil {
		base = *t.DueDate
	}
	next := base.AddDate(0, 0, 1)
	_, err = s.db.Exec(`UPDATE tasks SET due_date = ? WHERE id = ?`, fmtTime(next), id)
	return err
}

// DuplicateTask copies a task with progress reset.
func (s *Store) DuplicateTask(id int64) (*Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	dup := *t
	dup.ID = 0
	dup.CompletedPoms = 0
	dup.Completed = false
	dup.CreatedAt = time.Now().UTC()
	return s.CreateTask(&dup)
}

// DeleteTask removes a task. History rows keep existing with a nulled task
// reference; aggregation excludes them from then on.
func (s *Store) DeleteTask(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// HasInstanceOn reports whether a template already spawned an instance due
// on the given calendar day.
func (s *Store) HasInstanceOn(templateID int64, day time.Time) (bool, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM tasks WHERE template_id = ? AND due_date >= ? AND due_date < ?`,
		templateID, fmtTime(dayStart), fmtTime(dayEnd),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check instance: %w", err)
	}
	return n > 0, nil
}
