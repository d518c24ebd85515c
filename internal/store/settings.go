package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func defaultSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:               userID,
		SoundEnabled:         true,
		NotificationsEnabled: true,
		AutoStartNext:        false,
		Theme:                "default",
	}
}

// GetSettings returns the user's settings, falling back to defaults when
// no row exists yet.
func (s *Store) GetSettings(userID string) (*UserSettings, error) {
	us := &UserSettings{}
	var sound, notif, auto int
	var updatedAt string
	err := s.db.QueryRow(
		`SELECT user_id, sound_enabled, notifications_enabled, auto_start_next, theme, updated_at
		 FROM user_settings WHERE user_id = ?`, userID,
	).Scan(&us.UserID, &sound, &notif, &auto, &us.Theme, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultSettings(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	us.SoundEnabled = sound == 1
	us.NotificationsEnabled = notif == 1
	us.AutoStartNext = auto == 1
	us.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return us, nil
}

// UpdateSettings merges the patch over the stored settings and upserts
// the result.
func (s *Store) UpdateSettings(userID string, patch SettingsPatch) (*UserSettings, error) {
	current, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}
	if patch.SoundEnabled != nil {
		current.SoundEnabled = *patch.SoundEnabled
	}
	if patch.NotificationsEnabled != nil {
		current.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.AutoStartNext != nil {
		current.AutoStartNext = *patch.AutoStartNext
	}
	if patch.Theme != nil {
		current.Theme = *patch.Theme
	}
	current.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(
		`INSERT INTO user_settings (user_id, sound_enabled, notifications_enabled, auto_start_next, theme, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   sound_enabled = excluded.sound_enabled,
		   notifications_enabled = excluded.notifications_enabled,
		   auto_start_next = excluded.auto_start_next,
		   theme = excluded.theme,
		   updated_at = excluded.updated_at`,
		userID, boolToInt(current.SoundEnabled), boolToInt(current.NotificationsEnabled),
		boolToInt(current.AutoStartNext), current.Theme, current.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert settings: %w", err)
	}
	return current, nil
}
