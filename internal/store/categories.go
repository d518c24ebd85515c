package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateCategory(userID string, c Category) (*Category, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO categories (id, user_id, name, icon, color, weekly_goal, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, userID, c.Name, c.Icon, c.Color, c.WeeklyGoal, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return s.GetCategory(userID, c.ID)
}

func (s *Store) GetCategory(userID, id string) (*Category, error) {
	c := &Category{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, user_id, name, icon, color, weekly_goal, created_at FROM categories WHERE user_id = ? AND id = ?`,
		userID, id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Color, &c.WeeklyGoal, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get category %q: %w", id, err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

func (s *Store) ListCategories(userID string) ([]Category, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, name, icon, color, weekly_goal, created_at FROM categories WHERE user_id = ? ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var createdAt string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Color, &c.WeeklyGoal, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) UpdateCategory(userID, id, name, icon, color string, weeklyGoal float64) error {
	_, err := s.db.Exec(
		`UPDATE categories SET name = ?, icon = ?, color = ?, weekly_goal = ? WHERE user_id = ? AND id = ?`,
		name, icon, color, weeklyGoal, userID, id,
	)
	return err
}
