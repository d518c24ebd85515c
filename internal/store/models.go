package store

import "time"

// Category is a practice area with a weekly hour goal. Categories are
// referenced from tasks and sessions by id; the reference is advisory,
// not a foreign key.
type Category struct {
	ID         string
	UserID     string
	Name       string
	Icon       string
	Color      string
	WeeklyGoal float64 // hours per week
	CreatedAt  time.Time
}

type Task struct {
	ID            int64
	UserID        string
	Description   string
	Category      string
	Duration      int // minutes
	ScheduledTime string // HH:MM, empty when unscheduled
	Date          string // YYYY-MM-DD, local calendar day
	Completed     bool
	CompletedAt   *time.Time
	Notes         string
	CreatedAt     time.Time
}

// TaskPatch is a partial update applied to a task. Nil fields are left
// unchanged.
type TaskPatch struct {
	Description   *string
	Category      *string
	Duration      *int
	ScheduledTime *string
	Date          *string
	Completed     *bool
	CompletedAt   *time.Time
	Notes         *string
}

// TimeSession is one immutable ledger entry recording a completed
// practice interval. Sessions are the source of truth for weekly stats;
// editing or deleting the originating task never touches them.
type TimeSession struct {
	ID          int64
	UserID      string
	TaskID      *int64
	Category    string
	Description string
	Duration    int // minutes
	Date        string // YYYY-MM-DD
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}

type UserSettings struct {
	UserID               string
	SoundEnabled         bool
	NotificationsEnabled bool
	AutoStartNext        bool
	Theme                string // default, dark, light
	UpdatedAt            time.Time
}

// SettingsPatch is a partial update to user settings.
type SettingsPatch struct {
	SoundEnabled         *bool
	NotificationsEnabled *bool
	AutoStartNext        *bool
	Theme                *string
}

type UserStreak struct {
	UserID            string
	CurrentStreak     int
	LongestStreak     int
	LastActivityDate  string // YYYY-MM-DD, empty before first activity
	TotalPracticeDays int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WeeklyReset is one audit record of a performed weekly reset. The
// previous stats snapshot is stored as JSON.
type WeeklyReset struct {
	ID            int64
	UserID        string
	ResetDate     string // YYYY-MM-DD
	PreviousStats string // JSON category -> minutes
	CreatedAt     time.Time
}

type DailyMotivation struct {
	ID        int64
	UserID    string
	Message   string
	IsActive  bool
	CreatedAt time.Time
}

// Stats maps a category id to practiced minutes.
type Stats map[string]int
