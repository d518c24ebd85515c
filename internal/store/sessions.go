package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateSession appends one entry to the session ledger. Sessions are
// never updated afterwards.
func (s *Store) CreateSession(userID string, sess TimeSession) (*TimeSession, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	var startedAt, completedAt any
	if sess.StartedAt != nil {
		startedAt = sess.StartedAt.UTC().Format(time.RFC3339)
	}
	if sess.CompletedAt != nil {
		completedAt = sess.CompletedAt.UTC().Format(time.RFC3339)
	}
	res, err := s.db.Exec(
		`INSERT INTO time_sessions (user_id, task_id, category, description, duration, date, started_at, completed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, sess.TaskID, sess.Category, sess.Description, sess.Duration, sess.Date, startedAt, completedAt, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSession(userID, id)
}

func (s *Store) GetSession(userID string, id int64) (*TimeSession, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, task_id, category, description, duration, date, started_at, completed_at, created_at
		 FROM time_sessions WHERE user_id = ? AND id = ?`, userID, id,
	)
	sess, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	return sess, nil
}

// ListSessionsSince returns all sessions with date >= from.
func (s *Store) ListSessionsSince(userID, from string) ([]TimeSession, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, task_id, category, description, duration, date, started_at, completed_at, created_at
		 FROM time_sessions WHERE user_id = ? AND date >= ? ORDER BY date, id`,
		userID, from,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []TimeSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// SumDurationsSince aggregates session minutes per category for sessions
// with date >= from.
func (s *Store) SumDurationsSince(userID, from string) (Stats, error) {
	rows, err := s.db.Query(
		`SELECT category, COALESCE(SUM(duration), 0)
		 FROM time_sessions WHERE user_id = ? AND date >= ?
		 GROUP BY category`,
		userID, from,
	)
	if err != nil {
		return nil, fmt.Errorf("sum session durations: %w", err)
	}
	defer rows.Close()

	stats := Stats{}
	for rows.Next() {
		var category string
		var minutes int
		if err := rows.Scan(&category, &minutes); err != nil {
			return nil, err
		}
		stats[category] = minutes
	}
	return stats, rows.Err()
}

// DeleteSessionsSince removes every session with date >= from and
// reports how many were dropped.
func (s *Store) DeleteSessionsSince(userID, from string) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM time_sessions WHERE user_id = ? AND date >= ?`,
		userID, from,
	)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanSession(row rowScanner) (*TimeSession, error) {
	sess := &TimeSession{}
	var taskID sql.NullInt64
	var startedAt, completedAt sql.NullString
	var createdAt string
	err := row.Scan(&sess.ID, &sess.UserID, &taskID, &sess.Category, &sess.Description,
		&sess.Duration, &sess.Date, &startedAt, &completedAt, &createdAt)
	if err != nil {
		return nil, err
	}
	if taskID.Valid {
		sess.TaskID = &taskID.Int64
	}
	if startedAt.Valid {
		at, _ := time.Parse(time.RFC3339, startedAt.String)
		sess.StartedAt = &at
	}
	if completedAt.Valid {
		at, _ := time.Parse(time.RFC3339, completedAt.String)
		sess.CompletedAt = &at
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return sess, nil
}
