package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

func (s *Store) CreateTask(userID string, t Task) (*Task, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	var completedAt any
	if t.CompletedAt != nil {
		completedAt = t.CompletedAt.UTC().Format(time.RFC3339)
	}
	res, err := s.db.Exec(
		`INSERT INTO tasks (user_id, description, category, duration, scheduled_time, date, completed, completed_at, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, t.Description, t.Category, t.Duration, t.ScheduledTime, t.Date, boolToInt(t.Completed), completedAt, t.Notes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(userID, id)
}

func (s *Store) GetTask(userID string, id int64) (*Task, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, description, category, duration, scheduled_time, date, completed, completed_at, notes, created_at
		 FROM tasks WHERE user_id = ? AND id = ?`, userID, id,
	)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// ListTasks returns the user's tasks, optionally filtered to a single
// calendar day.
func (s *Store) ListTasks(userID, date string) ([]Task, error) {
	query := `SELECT id, user_id, description, category, duration, scheduled_time, date, completed, completed_at, notes, created_at
		 FROM tasks WHERE user_id = ?`
	args := []any{userID}
	if date != "" {
		query += ` AND date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY date, scheduled_time, id`
	return s.listTasks(query, args...)
}

// ListTasksBetween returns tasks with from <= date <= to (inclusive).
func (s *Store) ListTasksBetween(userID, from, to string) ([]Task, error) {
	return s.listTasks(
		`SELECT id, user_id, description, category, duration, scheduled_time, date, completed, completed_at, notes, created_at
		 FROM tasks WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date, scheduled_time, id`,
		userID, from, to,
	)
}

// CountCompletedOn reports how many of the user's tasks dated the given
// day are completed.
func (s *Store) CountCompletedOn(userID, date string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM tasks WHERE user_id = ? AND date = ? AND completed = 1`,
		userID, date,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return n, nil
}

// UpdateTask applies a partial merge and returns the merged record.
// Updating an absent id returns an error wrapping sql.ErrNoRows.
func (s *Store) UpdateTask(userID string, id int64, patch TaskPatch) (*Task, error) {
	var sets []string
	var args []any

	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Duration != nil {
		set("duration", *patch.Duration)
	}
	if patch.ScheduledTime != nil {
		set("scheduled_time", *patch.ScheduledTime)
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	if patch.Completed != nil {
		set("completed", boolToInt(*patch.Completed))
		if patch.CompletedAt != nil {
			set("completed_at", patch.CompletedAt.UTC().Format(time.RFC3339))
		} else {
			set("completed_at", nil)
		}
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}

	if len(sets) > 0 {
		args = append(args, userID, id)
		res, err := s.db.Exec(
			`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE user_id = ? AND id = ?`,
			args...,
		)
		if err != nil {
			return nil, fmt.Errorf("update task %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, fmt.Errorf("update task %d: %w", id, sql.ErrNoRows)
		}
	}
	return s.GetTask(userID, id)
}

// DeleteTask removes a task by id. Deleting an absent id is not an error.
func (s *Store) DeleteTask(userID string, id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var completed int
	var completedAt sql.NullString
	var createdAt string
	err := row.Scan(&t.ID, &t.UserID, &t.Description, &t.Category, &t.Duration, &t.ScheduledTime,
		&t.Date, &completed, &completedAt, &t.Notes, &createdAt)
	if err != nil {
		return nil, err
	}
	t.Completed = completed == 1
	if completedAt.Valid {
		at, _ := time.Parse(time.RFC3339, completedAt.String)
		t.CompletedAt = &at
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
