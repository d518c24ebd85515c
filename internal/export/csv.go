package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/dferrer/studyflow/internal/store"
)

// SessionsCSV writes the session ledger to a CSV file, one row per
// recorded practice interval.
func SessionsCSV(sessions []store.TimeSession, categories map[string]*store.Category, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Date", "Category", "Description", "Duration (min)", "Completed At"}); err != nil {
		return err
	}

	for _, s := range sessions {
		categoryName := s.Category
		if c, ok := categories[s.Category]; ok {
			categoryName = c.Name
		}
		completedStr := ""
		if s.CompletedAt != nil {
			completedStr = s.CompletedAt.Local().Format(time.RFC3339)
		}

		row := []string{
			fmt.Sprintf("%d", s.ID),
			s.Date,
			categoryName,
			s.Description,
			fmt.Sprintf("%d", s.Duration),
			completedStr,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
