package tracker

import (
	"testing"
	"time"

	"github.com/dferrer/studyflow/internal/store"
)

const testUser = "local-user"

func newTestService(t *testing.T, at time.Time) *Service {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	svc := NewService(s, testUser)
	svc.setClock(func() time.Time { return at })
	return svc
}

func TestInjectedClockReachesEngines(t *testing.T) {
	// A date pinned far from the real wall clock: streak and stats must
	// still see the completion, or the clocks have diverged.
	at := time.Date(2026, 1, 7, 8, 0, 0, 0, time.Local)
	svc := newTestService(t, at)

	task, _ := svc.Store.CreateTask(testUser, store.Task{
		Description: "Scales", Category: "viola", Duration: 30, Date: "2026-01-07",
	})
	if _, err := svc.SetCompleted(task.ID, true); err != nil {
		t.Fatal(err)
	}

	st, _ := svc.Store.GetStreak(testUser)
	if st.CurrentStreak != 1 || st.LastActivityDate != "2026-01-07" {
		t.Fatalf("streak tracker on a different clock: %+v", st)
	}
	stats, err := svc.Weeks.Stats(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if stats["viola"] != 30 {
		t.Fatalf("weekly engine on a different clock: %d", stats["viola"])
	}
}

func TestStartupSeedsAndIsIdempotent(t *testing.T) {
	svc := newTestService(t, time.Date(2026, 8, 26, 8, 0, 0, 0, time.Local))

	if err := svc.Startup(); err != nil {
		t.Fatal(err)
	}
	if err := svc.Startup(); err != nil {
		t.Fatal(err)
	}

	cats, _ := svc.Store.ListCategories(testUser)
	if len(cats) != 5 {
		t.Fatalf("expected 5 seeded categories, got %d", len(cats))
	}
	tasks, err := svc.TodayTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 6 {
		t.Fatalf("expected 6 seeded tasks for today, got %d", len(tasks))
	}
}

func TestSetCompletedRecordsOneSession(t *testing.T) {
	at := time.Date(2026, 8, 26, 8, 0, 0, 0, time.Local)
	svc := newTestService(t, at)

	task, _ := svc.Store.CreateTask(testUser, store.Task{
		Description: "Scales", Category: "viola", Duration: 30, Date: "2026-08-26",
	})

	got, err := svc.SetCompleted(task.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed || got.CompletedAt == nil {
		t.Fatalf("task not marked complete: %+v", got)
	}

	sessions, _ := svc.Store.ListSessionsSince(testUser, "2026-08-24")
	if len(sessions) != 1 {
		t.Fatalf("expected exactly one session, got %d", len(sessions))
	}
	if sessions[0].Duration != 30 || sessions[0].Category != "viola" {
		t.Fatalf("unexpected session: %+v", sessions[0])
	}
	if sessions[0].TaskID == nil || *sessions[0].TaskID != task.ID {
		t.Fatal("session not linked to its task")
	}

	st, _ := svc.Store.GetStreak(testUser)
	if st.CurrentStreak != 1 {
		t.Fatalf("streak not advanced: %+v", st)
	}
}

func TestUncompleteKeepsLedger(t *testing.T) {
	svc := newTestService(t, time.Date(2026, 8, 26, 8, 0, 0, 0, time.Local))
	task, _ := svc.Store.CreateTask(testUser, store.Task{
		Description: "Scales", Category: "viola", Duration: 30, Date: "2026-08-26",
	})

	svc.SetCompleted(task.ID, true)
	got, err := svc.SetCompleted(task.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed {
		t.Fatal("task should be uncompleted")
	}

	// The recorded practice stays: stats never go backwards.
	sessions, _ := svc.Store.ListSessionsSince(testUser, "2026-08-24")
	if len(sessions) != 1 {
		t.Fatalf("ledger changed on uncomplete: %d sessions", len(sessions))
	}
	stats, _ := svc.Weeks.Stats(testUser)
	if stats["viola"] != 30 {
		t.Fatalf("stats lost minutes: %d", stats["viola"])
	}
}

func TestStatsUnaffectedByTaskEditAndDelete(t *testing.T) {
	svc := newTestService(t, time.Date(2026, 8, 26, 8, 0, 0, 0, time.Local))
	task, _ := svc.Store.CreateTask(testUser, store.Task{
		Description: "Scales", Category: "viola", Duration: 30, Date: "2026-08-26",
	})
	svc.SetCompleted(task.ID, true)

	longer := 90
	if _, err := svc.Store.UpdateTask(testUser, task.ID, store.TaskPatch{Duration: &longer}); err != nil {
		t.Fatal(err)
	}
	stats, _ := svc.Weeks.Stats(testUser)
	if stats["viola"] != 30 {
		t.Fatalf("editing the task changed recorded stats: %d", stats["viola"])
	}

	if err := svc.Store.DeleteTask(testUser, task.ID); err != nil {
		t.Fatal(err)
	}
	stats, _ = svc.Weeks.Stats(testUser)
	if stats["viola"] != 30 {
		t.Fatalf("deleting the task changed recorded stats: %d", stats["viola"])
	}
}

func TestCompleteFromTimerGuardsDoneTasks(t *testing.T) {
	svc := newTestService(t, time.Date(2026, 8, 26, 8, 0, 0, 0, time.Local))
	task, _ := svc.Store.CreateTask(testUser, store.Task{
		Description: "Scales", Category: "viola", Duration: 30, Date: "2026-08-26",
	})

	if err := svc.CompleteFromTimer(task.ID); err != nil {
		t.Fatal(err)
	}
	// A second firing for the same task must not double-record.
	if err := svc.CompleteFromTimer(task.ID); err != nil {
		t.Fatal(err)
	}

	sessions, _ := svc.Store.ListSessionsSince(testUser, "2026-08-24")
	if len(sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions))
	}
}

func TestStartTaskTimer(t *testing.T) {
	svc := newTestService(t, time.Now())
	defer svc.Timer.Stop()

	task := store.Task{ID: 42, Duration: 25}
	svc.StartTaskTimer(task)

	st := svc.Timer.State()
	if !st.Running || st.Total != 25*60 {
		t.Fatalf("timer not started: %+v", st)
	}
	if st.TaskID == nil || *st.TaskID != 42 {
		t.Fatalf("task id not carried: %+v", st.TaskID)
	}
}

func TestMotivationStableWithinDay(t *testing.T) {
	svc := newTestService(t, time.Date(2026, 8, 26, 8, 0, 0, 0, time.Local))
	if err := svc.Startup(); err != nil {
		t.Fatal(err)
	}

	a, err := svc.Motivation()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := svc.Motivation()
	if a == "" || a != b {
		t.Fatalf("motivation should be stable within a day: %q vs %q", a, b)
	}
}
