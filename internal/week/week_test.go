package week

import (
	"encoding/json"
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

func testEngine(t *testing.T, at time.Time) (*Engine, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	e := NewEngine(s)
	e.now = func() time.Time { return at }
	return e, s
}

// ============================================================
// Monday resolution
// ============================================================

func TestMonday(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday", time.Date(2026, 8, 24, 15, 30, 0, 0, time.Local), "2026-08-24"},
		{"wednesday", time.Date(2026, 8, 26, 0, 0, 0, 0, time.Local), "2026-08-24"},
		{"saturday", time.Date(2026, 8, 29, 23, 59, 0, 0, time.Local), "2026-08-24"},
		// Sunday belongs to the week that began six days earlier,
		// never to the week about to start.
		{"sunday", time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local), "2026-08-24"},
		{"across month boundary", time.Date(2026, 9, 2, 0, 0, 0, 0, time.Local), "2026-08-31"},
		{"across year boundary", time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), "2025-12-29"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MondayString(tc.in)
			if got != tc.want {
				t.Fatalf("Monday(%s) = %s, want %s", tc.in.Format(DateFormat), got, tc.want)
			}
		})
	}
}

func TestMondayEverydayMapsIntoSameWeek(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		if got := MondayString(day); got != "2026-08-24" {
			t.Fatalf("day %d of the week resolved to %s", i, got)
		}
	}
}

// ============================================================
// View building
// ============================================================

func TestBuildBucketsAndSorts(t *testing.T) {
	tasks := []store.Task{
		{ID: 1, Description: "late", Date: "2026-08-24", ScheduledTime: "20:00", Duration: 30, Category: "viola", Completed: true},
		{ID: 2, Description: "early", Date: "2026-08-24", ScheduledTime: "06:30", Duration: 10, Category: "viola", Completed: true},
		{ID: 3, Description: "unscheduled", Date: "2026-08-24", Duration: 15, Category: "az204"},
		{ID: 4, Description: "thursday", Date: "2026-08-27", ScheduledTime: "07:00", Duration: 45, Category: "az204"},
		{ID: 5, Description: "outside", Date: "2026-09-01", Duration: 5, Category: "viola"},
	}

	v, err := Build("2026-08-24", tasks)
	if err != nil {
		t.Fatal(err)
	}

	if len(v.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(v.Days))
	}
	if v.StartDate != "2026-08-24" || v.EndDate != "2026-08-30" {
		t.Fatalf("unexpected range %s..%s", v.StartDate, v.EndDate)
	}
	if v.Days[0].DayName != "Monday" || v.Days[6].DayName != "Sunday" {
		t.Fatalf("unexpected day names: %s..%s", v.Days[0].DayName, v.Days[6].DayName)
	}

	mon := v.Days[0]
	if len(mon.Tasks) != 3 {
		t.Fatalf("expected 3 Monday tasks, got %d", len(mon.Tasks))
	}
	// Unscheduled first, then by time ascending
	if mon.Tasks[0].ID != 3 || mon.Tasks[1].ID != 2 || mon.Tasks[2].ID != 1 {
		t.Fatalf("unexpected Monday order: %d %d %d", mon.Tasks[0].ID, mon.Tasks[1].ID, mon.Tasks[2].ID)
	}

	// Day totals count everything scheduled, pending included
	if mon.TotalMinutes != 55 {
		t.Fatalf("expected 55 scheduled minutes, got %d", mon.TotalMinutes)
	}
	if mon.CategoryStats["viola"] != 40 || mon.CategoryStats["az204"] != 15 {
		t.Fatalf("unexpected category split: %+v", mon.CategoryStats)
	}

	if len(v.Days[3].Tasks) != 1 || v.Days[3].Tasks[0].ID != 4 {
		t.Fatalf("thursday bucket wrong: %+v", v.Days[3].Tasks)
	}

	// The out-of-range task lands nowhere
	for _, d := range v.Days {
		for _, task := range d.Tasks {
			if task.ID == 5 {
				t.Fatal("task outside the week leaked into a bucket")
			}
		}
	}
}

func TestBuildBadStartDate(t *testing.T) {
	if _, err := Build("not-a-date", nil); err == nil {
		t.Fatal("expected a parse error")
	}
}

// ============================================================
// Engine
// ============================================================

func TestEngineStatsCurrentWeekOnly(t *testing.T) {
	wed := time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local)
	e, s := testEngine(t, wed)

	s.CreateSession(testUser, store.TimeSession{Category: "viola", Duration: 30, Date: "2026-08-24"})
	s.CreateSession(testUser, store.TimeSession{Category: "viola", Duration: 45, Date: "2026-08-26"})
	s.CreateSession(testUser, store.TimeSession{Category: "viola", Duration: 99, Date: "2026-08-20"}) // last week

	stats, err := e.Stats(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if stats["viola"] != 75 {
		t.Fatalf("expected 75 minutes this week, got %d", stats["viola"])
	}
}

func TestEngineResetSnapshotsAndClears(t *testing.T) {
	mon := time.Date(2026, 8, 24, 6, 0, 0, 0, time.Local)
	e, s := testEngine(t, mon)

	task, _ := s.CreateTask(testUser, store.Task{Description: "x", Category: "viola", Duration: 30, Date: "2026-08-24"})
	completed := true
	s.UpdateTask(testUser, task.ID, store.TaskPatch{Completed: &completed})
	s.CreateSession(testUser, store.TimeSession{Category: "viola", Duration: 30, Date: "2026-08-24"})

	if err := e.Reset(testUser); err != nil {
		t.Fatal(err)
	}

	// Stats cleared
	stats, _ := e.Stats(testUser)
	if stats["viola"] != 0 {
		t.Fatalf("expected cleared stats, got %d", stats["viola"])
	}

	// Snapshot captured
	r, err := s.GetResetOn(testUser, "2026-08-24")
	if err != nil {
		t.Fatal(err)
	}
	if r == nil {
		t.Fatal("expected a reset record")
	}
	var snap map[string]int
	if err := json.Unmarshal([]byte(r.PreviousStats), &snap); err != nil {
		t.Fatalf("snapshot is not JSON: %v", err)
	}
	if snap["viola"] != 30 {
		t.Fatalf("snapshot minutes = %d, want 30", snap["viola"])
	}

	// Tasks and their completed flags untouched
	got, _ := s.GetTask(testUser, task.ID)
	if !got.Completed {
		t.Fatal("reset must not clear task completion")
	}
}

func TestCheckAndResetOnlyMonday(t *testing.T) {
	tue := time.Date(2026, 8, 25, 6, 0, 0, 0, time.Local)
	e, s := testEngine(t, tue)
	s.CreateSession(testUser, store.TimeSession{Category: "viola", Duration: 30, Date: "2026-08-25"})

	if err := e.CheckAndReset(testUser); err != nil {
		t.Fatal(err)
	}
	stats, _ := e.Stats(testUser)
	if stats["viola"] != 30 {
		t.Fatal("non-Monday check must not reset")
	}
}

func TestCheckAndResetOncePerDay(t *testing.T) {
	mon := time.Date(2026, 8, 24, 6, 0, 0, 0, time.Local)
	e, s := testEngine(t, mon)
	s.CreateSession(testUser, store.TimeSession{Category: "viola", Duration: 30, Date: "2026-08-24"})

	if err := e.CheckAndReset(testUser); err != nil {
		t.Fatal(err)
	}
	if err := e.CheckAndReset(testUser); err != nil {
		t.Fatal(err)
	}

	resets, _ := s.ListResets(testUser)
	if len(resets) != 1 {
		t.Fatalf("expected exactly one reset record, got %d", len(resets))
	}
}

func TestViewFor(t *testing.T) {
	e, s := testEngine(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.Local))
	s.CreateTask(testUser, store.Task{Description: "a", Category: "viola", Duration: 10, Date: "2026-08-24"})
	s.CreateTask(testUser, store.Task{Description: "b", Category: "viola", Duration: 10, Date: "2026-08-30"})
	s.CreateTask(testUser, store.Task{Description: "next week", Category: "viola", Duration: 10, Date: "2026-08-31"})

	v, err := e.ViewFor(testUser, "2026-08-24")
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, d := range v.Days {
		total += len(d.Tasks)
	}
	if total != 2 {
		t.Fatalf("expected 2 tasks in the week view, got %d", total)
	}
}
