package store

import (
	"fmt"
	"time"
)

// MotivationFor picks the message shown on the given day. Selection is
// deterministic: day-of-month modulo the active pool size.
func (s *Store) MotivationFor(userID string, day time.Time) (string, error) {
	active, err := s.ListMotivations(userID, true)
	if err != nil {
		return "", err
	}
	if len(active) == 0 {
		return "🎯 Today is a great day to practice!", nil
	}
	return active[day.Day()%len(active)].Message, nil
}

func (s *Store) ListMotivations(userID string, activeOnly bool) ([]DailyMotivation, error) {
	query := `SELECT id, user_id, message, is_active, created_at FROM daily_motivations WHERE user_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("list motivations: %w", err)
	}
	defer rows.Close()

	var motivations []DailyMotivation
	for rows.Next() {
		var m DailyMotivation
		var active int
		var createdAt string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Message, &active, &createdAt); err != nil {
			return nil, err
		}
		m.IsActive = active == 1
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		motivations = append(motivations, m)
	}
	return motivations, rows.Err()
}

func (s *Store) AddMotivation(userID, message string) (*DailyMotivation, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO daily_motivations (user_id, message, is_active, created_at) VALUES (?, ?, 1, ?)`,
		userID, message, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert motivation: %w", err)
	}
	id, _ := res.LastInsertId()
	m := &DailyMotivation{ID: id, UserID: userID, Message: message, IsActive: true}
	m.CreatedAt, _ = time.Parse(time.RFC3339, now)
	return m, nil
}

// DeleteMotivation removes a message by id. Absent ids are a no-op.
func (s *Store) DeleteMotivation(userID string, id int64) error {
	_, err := s.db.Exec(`DELETE FROM daily_motivations WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete motivation %d: %w", id, err)
	}
	return nil
}
