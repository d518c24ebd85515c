package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetStreak returns the user's streak record, or a zero streak when none
// exists yet.
func (s *Store) GetStreak(userID string) (*UserStreak, error) {
	st := &UserStreak{}
	var lastActivity sql.NullString
	var createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT user_id, current_streak, longest_streak, last_activity_date, total_practice_days, created_at, updated_at
		 FROM user_streaks WHERE user_id = ?`, userID,
	).Scan(&st.UserID, &st.CurrentStreak, &st.LongestStreak, &lastActivity, &st.TotalPracticeDays, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &UserStreak{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get streak: %w", err)
	}
	if lastActivity.Valid {
		st.LastActivityDate = lastActivity.String
	}
	st.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	st.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return st, nil
}

// SaveStreak upserts the streak record.
func (s *Store) SaveStreak(userID string, st UserStreak) error {
	now := time.Now().UTC().Format(time.RFC3339)
	var lastActivity any
	if st.LastActivityDate != "" {
		lastActivity = st.LastActivityDate
	}
	_, err := s.db.Exec(
		`INSERT INTO user_streaks (user_id, current_streak, longest_streak, last_activity_date, total_practice_days, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   current_streak = excluded.current_streak,
		   longest_streak = excluded.longest_streak,
		   last_activity_date = excluded.last_activity_date,
		   total_practice_days = excluded.total_practice_days,
		   updated_at = excluded.updated_at`,
		userID, st.CurrentStreak, st.LongestStreak, lastActivity, st.TotalPracticeDays, now, now,
	)
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}
