package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dferrer/studyflow/internal/store"
	"github.com/dferrer/studyflow/internal/week"
)

// Week serializes an in-memory week view as a re-importable full-week
// payload. It is a formatting operation only; nothing is read from or
// written to the store.
func Week(v *week.View, categories []store.Category, now time.Time) ([]byte, error) {
	p := Payload{
		Type:       TypeFullWeek,
		WeekStart:  v.StartDate,
		WeekEnd:    v.EndDate,
		ExportDate: now.UTC().Format(time.RFC3339),
	}
	for _, day := range v.Days {
		for _, t := range day.Tasks {
			p.Tasks = append(p.Tasks, taskRecord(t))
		}
	}
	for _, c := range categories {
		p.Categories = append(p.Categories, categoryItem(c))
	}
	return json.MarshalIndent(p, "", "  ")
}

// Backup is the full-state export document.
type Backup struct {
	ExportDate string             `json:"exportDate"`
	Categories []CategoryItem     `json:"categories"`
	Tasks      []TaskRecord       `json:"tasks"`
	Sessions   []SessionRecord    `json:"sessions"`
	Streak     *store.UserStreak  `json:"streak,omitempty"`
}

type SessionRecord struct {
	ID          int64  `json:"id"`
	TaskID      *int64 `json:"task_id,omitempty"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// All serializes the given snapshot of tasks, categories, sessions and
// streak into a single backup document.
func All(tasks []store.Task, categories []store.Category, sessions []store.TimeSession, streak *store.UserStreak, now time.Time) ([]byte, error) {
	b := Backup{
		ExportDate: now.UTC().Format(time.RFC3339),
		Streak:     streak,
	}
	for _, c := range categories {
		b.Categories = append(b.Categories, categoryItem(c))
	}
	for _, t := range tasks {
		b.Tasks = append(b.Tasks, taskRecord(t))
	}
	for _, s := range sessions {
		b.Sessions = append(b.Sessions, SessionRecord{
			ID:          s.ID,
			TaskID:      s.TaskID,
			Category:    s.Category,
			Description: s.Description,
			Duration:    s.Duration,
			Date:        s.Date,
		})
	}
	return json.MarshalIndent(b, "", "  ")
}

// WriteFile marshals data to path with 0644 permissions.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
