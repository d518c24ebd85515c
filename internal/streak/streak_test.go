package streak

import (
	"testing"
	"time"

	"github.com/dferrer/studyflow/internal/store"
)

const testUser = "local-user"

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testTracker(t *testing.T, s *store.Store, at time.Time) *Tracker {
	t.Helper()
	tr := NewTracker(s)
	tr.now = func() time.Time { return at }
	return tr
}

// completeTask inserts a completed task for the given date.
func completeTask(t *testing.T, s *store.Store, date string) {
	t.Helper()
	task, err := s.CreateTask(testUser, store.Task{
		Description: "practice",
		Category:    "viola",
		Duration:    30,
		Date:        date,
	})
	if err != nil {
		t.Fatal(err)
	}
	completed := true
	if _, err := s.UpdateTask(testUser, task.ID, store.TaskPatch{Completed: &completed}); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateNoCompletionsIsNoop(t *testing.T) {
	s := newTestStore(t)
	tr := testTracker(t, s, time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local))

	if err := tr.Update(testUser); err != nil {
		t.Fatal(err)
	}
	st, _ := s.GetStreak(testUser)
	if st.CurrentStreak != 0 || st.LastActivityDate != "" {
		t.Fatalf("streak moved without any completion: %+v", st)
	}
}

func TestUpdateFirstDay(t *testing.T) {
	s := newTestStore(t)
	tr := testTracker(t, s, time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local))
	completeTask(t, s, "2026-08-31")

	if err := tr.Update(testUser); err != nil {
		t.Fatal(err)
	}
	st, _ := s.GetStreak(testUser)
	if st.CurrentStreak != 1 || st.LongestStreak != 1 || st.TotalPracticeDays != 1 {
		t.Fatalf("unexpected first-day streak: %+v", st)
	}
	if st.LastActivityDate != "2026-08-31" {
		t.Fatalf("last activity = %q", st.LastActivityDate)
	}
}

func TestUpdateConsecutiveDayExtends(t *testing.T) {
	s := newTestStore(t)
	s.SaveStreak(testUser, store.UserStreak{
		CurrentStreak:     3,
		LongestStreak:     3,
		LastActivityDate:  "2026-08-30",
		TotalPracticeDays: 5,
	})
	tr := testTracker(t, s, time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local))
	completeTask(t, s, "2026-08-31")

	if err := tr.Update(testUser); err != nil {
		t.Fatal(err)
	}
	st, _ := s.GetStreak(testUser)
	if st.CurrentStreak != 4 || st.LongestStreak != 4 || st.TotalPracticeDays != 6 {
		t.Fatalf("unexpected streak after extension: %+v", st)
	}
}

func TestUpdateGapResets(t *testing.T) {
	s := newTestStore(t)
	s.SaveStreak(testUser, store.UserStreak{
		CurrentStreak:     7,
		LongestStreak:     7,
		LastActivityDate:  "2026-08-27", // three days ago
		TotalPracticeDays: 10,
	})
	tr := testTracker(t, s, time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local))
	completeTask(t, s, "2026-08-31")

	if err := tr.Update(testUser); err != nil {
		t.Fatal(err)
	}
	st, _ := s.GetStreak(testUser)
	if st.CurrentStreak != 1 {
		t.Fatalf("streak should restart at 1, got %d", st.CurrentStreak)
	}
	if st.LongestStreak != 7 {
		t.Fatalf("longest streak must survive a reset, got %d", st.LongestStreak)
	}
	if st.TotalPracticeDays != 11 {
		t.Fatalf("total practice days = %d, want 11", st.TotalPracticeDays)
	}
}

func TestUpdateSameDayCountsOnce(t *testing.T) {
	s := newTestStore(t)
	tr := testTracker(t, s, time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local))
	completeTask(t, s, "2026-08-31")

	if err := tr.Update(testUser); err != nil {
		t.Fatal(err)
	}
	completeTask(t, s, "2026-08-31")
	if err := tr.Update(testUser); err != nil {
		t.Fatal(err)
	}

	st, _ := s.GetStreak(testUser)
	if st.CurrentStreak != 1 || st.TotalPracticeDays != 1 {
		t.Fatalf("same-day update double-counted: %+v", st)
	}
}
