package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dferrer/studyflow/internal/store"
)

// Result summarizes an import attempt.
type Result struct {
	Success  bool
	Message  string
	Imported int
}

// Import merges a JSON payload into the store. Categories are inserted
// only when their id is not already present; existing ones are never
// overwritten. Tasks missing a description, category or positive
// duration are silently skipped. For single-day payloads the payload
// date overrides each task's own date.
//
// Malformed JSON yields a failure Result, not an error. A storage error
// partway through returns the partial count in the Result alongside the
// error; imports are a loop of independent writes, not a transaction.
func Import(s *store.Store, userID string, raw []byte) (*Result, error) {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return &Result{Success: false, Message: "Invalid JSON: " + err.Error()}, nil
	}

	existing := map[string]bool{}
	categories, err := s.ListCategories(userID)
	if err != nil {
		return &Result{Success: false, Message: "Import failed: " + err.Error()}, err
	}
	for _, c := range categories {
		existing[c.ID] = true
	}

	for _, item := range payload.Categories {
		if item.ID == "" || existing[item.ID] {
			continue
		}
		if _, err := s.CreateCategory(userID, store.Category{
			ID:         item.ID,
			Name:       item.Name,
			Icon:       item.Icon,
			Color:      item.Color,
			WeeklyGoal: item.WeeklyGoal,
		}); err != nil {
			return &Result{Success: false, Message: "Import failed: " + err.Error()}, err
		}
		existing[item.ID] = true
	}

	imported := 0
	today := time.Now().Format("2006-01-02")
	for _, rec := range payload.Tasks {
		if rec.Description == "" || rec.Category == "" || rec.Duration <= 0 {
			continue
		}

		date := rec.Date
		if payload.Type == TypeSingleDay && payload.Date != "" {
			date = payload.Date
		}
		if date == "" {
			date = today
		}

		task := store.Task{
			Description:   rec.Description,
			Category:      rec.Category,
			Duration:      rec.Duration,
			ScheduledTime: rec.ScheduledTime,
			Date:          date,
			Completed:     rec.Completed,
			Notes:         rec.Notes,
		}
		if rec.CompletedAt != "" {
			if at, err := time.Parse(time.RFC3339, rec.CompletedAt); err == nil {
				task.CompletedAt = &at
			}
		}

		if _, err := s.CreateTask(userID, task); err != nil {
			return &Result{
				Success:  false,
				Message:  fmt.Sprintf("Import stopped after %d tasks: %v", imported, err),
				Imported: imported,
			}, err
		}
		imported++
	}

	return &Result{
		Success:  true,
		Message:  fmt.Sprintf("Imported %d tasks", imported),
		Imported: imported,
	}, nil
}
