// Package export implements the JSON interchange format: importing task
// plans into the store, generating editable week templates, and
// serializing current state back out (plus a CSV dump of the session
// ledger). Unknown JSON fields are ignored on import.
package export

import (
	"github.com/dferrer/studyflow/internal/store"
)

// Import payload types.
const (
	TypeSingleDay = "single-day"
	TypeFullWeek  = "full-week"
)

// Payload is the interchange document for imports, templates and week
// exports.
type Payload struct {
	Type       string         `json:"type"`
	Date       string         `json:"date,omitempty"`
	WeekStart  string         `json:"weekStart,omitempty"`
	WeekEnd    string         `json:"weekEnd,omitempty"`
	ExportDate string         `json:"exportDate,omitempty"`
	Tasks      []TaskRecord   `json:"tasks,omitempty"`
	Categories []CategoryItem `json:"categories,omitempty"`
}

type TaskRecord struct {
	ID            int64  `json:"id,omitempty"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Duration      int    `json:"duration"`
	ScheduledTime string `json:"scheduled_time,omitempty"`
	Date          string `json:"date,omitempty"`
	Completed     bool   `json:"completed"`
	CompletedAt   string `json:"completed_at,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type CategoryItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Icon       string  `json:"icon,omitempty"`
	Color      string  `json:"color,omitempty"`
	WeeklyGoal float64 `json:"weekly_goal"`
}

func taskRecord(t store.Task) TaskRecord {
	r := TaskRecord{
		ID:            t.ID,
		Description:   t.Description,
		Category:      t.Category,
		Duration:      t.Duration,
		ScheduledTime: t.ScheduledTime,
		Date:          t.Date,
		Completed:     t.Completed,
		Notes:         t.Notes,
	}
	if t.CompletedAt != nil {
		r.CompletedAt = t.CompletedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return r
}

func categoryItem(c store.Category) CategoryItem {
	return CategoryItem{
		ID:         c.ID,
		Name:       c.Name,
		Icon:       c.Icon,
		Color:      c.Color,
		WeeklyGoal: c.WeeklyGoal,
	}
}
