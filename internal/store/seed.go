package store

import (
	"fmt"
	"time"
)

// EnsureDefaults bootstraps an empty database for the given user: default
// categories, a starter task plan for today, settings, a zero streak and
// the motivational message pool. Each table is seeded only when its count
// for the user is zero, so calling this on every startup is safe.
func (s *Store) EnsureDefaults(userID string, today time.Time) error {
	date := today.Format("2006-01-02")

	n, err := s.countFor("categories", userID)
	if err != nil {
		return err
	}
	if n == 0 {
		if err := s.seedCategories(userID); err != nil {
			return err
		}
	}

	n, err = s.countFor("tasks", userID)
	if err != nil {
		return err
	}
	if n == 0 {
		if err := s.seedTasks(userID, date); err != nil {
			return err
		}
	}

	n, err = s.countFor("user_settings", userID)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.UpdateSettings(userID, SettingsPatch{}); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}

	n, err = s.countFor("user_streaks", userID)
	if err != nil {
		return err
	}
	if n == 0 {
		if err := s.SaveStreak(userID, UserStreak{UserID: userID}); err != nil {
			return fmt.Errorf("seed streak: %w", err)
		}
	}

	n, err = s.countFor("daily_motivations", userID)
	if err != nil {
		return err
	}
	if n == 0 {
		if err := s.seedMotivations(userID); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) countFor(table, userID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (s *Store) seedCategories(userID string) error {
	defaults := []Category{
		{ID: "az204", Name: "AZ-204", Icon: "💻", Color: "#3498db", WeeklyGoal: 5},
		{ID: "conducting", Name: "Conducting", Icon: "🎼", Color: "#2ecc71", WeeklyGoal: 2},
		{ID: "ear_training", Name: "Ear Training", Icon: "👂", Color: "#f39c12", WeeklyGoal: 1},
		{ID: "music_theory", Name: "Music Theory", Icon: "🎵", Color: "#9b59b6", WeeklyGoal: 2},
		{ID: "viola", Name: "Viola", Icon: "🎻", Color: "#e74c3c", WeeklyGoal: 3},
	}
	for _, c := range defaults {
		if _, err := s.CreateCategory(userID, c); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}
	return nil
}

func (s *Store) seedTasks(userID, date string) error {
	defaults := []Task{
		{Description: "Scales with position changes", Category: "viola", Duration: 10, ScheduledTime: "06:30"},
		{Description: "Technique work or repertoire", Category: "viola", Duration: 15, ScheduledTime: "06:40"},
		{Description: "Sight reading", Category: "viola", Duration: 5, ScheduledTime: "06:55"},
		{Description: "AZ-204 practice modules", Category: "az204", Duration: 30, ScheduledTime: "07:00"},
		{Description: "Hands-on Azure lab", Category: "az204", Duration: 45, ScheduledTime: "20:00"},
		{Description: "Orchestral score reading", Category: "conducting", Duration: 20, ScheduledTime: "20:45"},
	}
	for _, t := range defaults {
		t.Date = date
		if _, err := s.CreateTask(userID, t); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}
	return nil
}

func (s *Store) seedMotivations(userID string) error {
	messages := []string{
		"🎯 Every small step brings you closer to your goal. Today is a great day to practice!",
		"🎼 Music and technology meet in you. Keep building both!",
		"💪 You have the experience and the determination. This is your moment!",
		"🎻 Every scale you practice makes you a better musician. Consistency is key!",
		"☁️ The certification is waiting. Each concept learned brings it closer.",
		"🎵 Conducting that youth orchestra is inspiring. You are shaping lives!",
		"🌟 Balancing family, work and dreams is hard, and you are doing it.",
		"🔥 Your streak is growing. Don't break it today!",
		"🎯 Small moments, big results. Every minute counts!",
		"💫 You are an example of perseverance. Keep going!",
	}
	for _, msg := range messages {
		if _, err := s.AddMotivation(userID, msg); err != nil {
			return fmt.Errorf("seed motivations: %w", err)
		}
	}
	return nil
}
