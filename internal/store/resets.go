package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateReset appends one weekly-reset audit record.
func (s *Store) CreateReset(userID, resetDate, previousStats string) (*WeeklyReset, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO weekly_resets (user_id, reset_date, previous_stats, created_at) VALUES (?, ?, ?, ?)`,
		userID, resetDate, previousStats, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert weekly reset: %w", err)
	}
	id, _ := res.LastInsertId()
	r := &WeeklyReset{ID: id, UserID: userID, ResetDate: resetDate, PreviousStats: previousStats}
	r.CreatedAt, _ = time.Parse(time.RFC3339, now)
	return r, nil
}

// GetResetOn returns the reset performed on the given date, or nil when
// none exists.
func (s *Store) GetResetOn(userID, resetDate string) (*WeeklyReset, error) {
	r := &WeeklyReset{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, user_id, reset_date, previous_stats, created_at
		 FROM weekly_resets WHERE user_id = ? AND reset_date = ? ORDER BY id LIMIT 1`,
		userID, resetDate,
	).Scan(&r.ID, &r.UserID, &r.ResetDate, &r.PreviousStats, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reset on %s: %w", resetDate, err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return r, nil
}

func (s *Store) ListResets(userID string) ([]WeeklyReset, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, reset_date, previous_stats, created_at
		 FROM weekly_resets WHERE user_id = ? ORDER BY reset_date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list resets: %w", err)
	}
	defer rows.Close()

	var resets []WeeklyReset
	for rows.Next() {
		var r WeeklyReset
		var createdAt string
		if err := rows.Scan(&r.ID, &r.UserID, &r.ResetDate, &r.PreviousStats, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		resets = append(resets, r)
	}
	return resets, rows.Err()
}
