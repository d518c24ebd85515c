package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dferrer/studyflow/internal/store"
	"github.com/dferrer/studyflow/internal/timer"
	"github.com/dferrer/studyflow/internal/tracker"
)

func newTestService(t *testing.T) *tracker.Service {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	svc := tracker.NewService(s, "local-user")
	t.Cleanup(func() {
		svc.Timer.Stop()
		s.Close()
	})
	return svc
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// runCmd executes a command returned by a model and hands back its message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

// ============================================================
// Today view
// ============================================================

func sampleTasks() []store.Task {
	return []store.Task{
		{ID: 1, Description: "Scales", Category: "viola", Duration: 10, Date: todayString()},
		{ID: 2, Description: "Lab", Category: "az204", Duration: 45, Date: todayString()},
	}
}

func TestTodayCursorMoves(t *testing.T) {
	svc := newTestService(t)
	m := newTodayModel(svc)
	m, _ = m.update(todayDataMsg{tasks: sampleTasks()})

	m, _ = m.update(keyPress('j'))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	// Does not run past the end
	m, _ = m.update(keyPress('j'))
	if m.cursor != 1 {
		t.Fatalf("cursor ran past the end: %d", m.cursor)
	}
	m, _ = m.update(keyPress('k'))
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}
	m, _ = m.update(keyPress('k'))
	if m.cursor != 0 {
		t.Fatalf("cursor ran past the start: %d", m.cursor)
	}
}

func TestTodayCursorClampsOnReload(t *testing.T) {
	svc := newTestService(t)
	m := newTodayModel(svc)
	m, _ = m.update(todayDataMsg{tasks: sampleTasks()})
	m, _ = m.update(keyPress('j'))

	// Reload with fewer tasks than the cursor position
	m, _ = m.update(todayDataMsg{tasks: sampleTasks()[:1]})
	if m.cursor != 0 {
		t.Fatalf("cursor not clamped: %d", m.cursor)
	}
}

func TestTodayToggleCompletesTask(t *testing.T) {
	svc := newTestService(t)
	task, _ := svc.Store.CreateTask(svc.UserID, store.Task{
		Description: "Scales", Category: "viola", Duration: 10, Date: todayString(),
	})

	m := newTodayModel(svc)
	m, _ = m.update(todayDataMsg{tasks: []store.Task{*task}})

	_, cmd := m.update(keyPress('c'))
	msg := runCmd(t, cmd)

	toggled, ok := msg.(taskToggledMsg)
	if !ok {
		t.Fatalf("expected taskToggledMsg, got %T", msg)
	}
	if toggled.err != nil {
		t.Fatal(toggled.err)
	}
	if !toggled.task.Completed {
		t.Fatal("task should be completed")
	}

	got, _ := svc.Store.GetTask(svc.UserID, task.ID)
	if !got.Completed {
		t.Fatal("completion not persisted")
	}
}

func TestTodayStartTimerFromTask(t *testing.T) {
	svc := newTestService(t)
	task, _ := svc.Store.CreateTask(svc.UserID, store.Task{
		Description: "Scales", Category: "viola", Duration: 25, Date: todayString(),
	})

	m := newTodayModel(svc)
	m, _ = m.update(todayDataMsg{tasks: []store.Task{*task}})
	_, cmd := m.update(keyPress('s'))
	runCmd(t, cmd)

	st := svc.Timer.State()
	if !st.Running || st.Total != 25*60 {
		t.Fatalf("timer not started from task: %+v", st)
	}
}

func TestTodayDeleteTask(t *testing.T) {
	svc := newTestService(t)
	task, _ := svc.Store.CreateTask(svc.UserID, store.Task{
		Description: "Scales", Category: "viola", Duration: 10, Date: todayString(),
	})

	m := newTodayModel(svc)
	m, _ = m.update(todayDataMsg{tasks: []store.Task{*task}})
	_, cmd := m.update(keyPress('d'))
	msg := runCmd(t, cmd)

	if _, ok := msg.(taskDeletedMsg); !ok {
		t.Fatalf("expected taskDeletedMsg, got %T", msg)
	}
	if tasks, _ := svc.Store.ListTasks(svc.UserID, ""); len(tasks) != 0 {
		t.Fatalf("task not deleted: %d remain", len(tasks))
	}
}

func TestTodayNewTaskOpensForm(t *testing.T) {
	svc := newTestService(t)
	m := newTodayModel(svc)
	m.setSize(100, 40)
	m, _ = m.update(todayDataMsg{categories: []store.Category{{ID: "viola", Name: "Viola"}}})

	m, _ = m.update(keyPress('n'))
	if !m.formActive {
		t.Fatal("form should be active after n")
	}

	// esc closes it again
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.formActive {
		t.Fatal("esc should close the form")
	}
}

func TestTodayViewRendersTasks(t *testing.T) {
	svc := newTestService(t)
	m := newTodayModel(svc)
	m.setSize(100, 40)
	m, _ = m.update(todayDataMsg{
		tasks:      sampleTasks(),
		motivation: "Keep going!",
	})

	out := m.view()
	if !strings.Contains(out, "Scales") || !strings.Contains(out, "Keep going!") {
		t.Fatalf("view missing content:\n%s", out)
	}
}

// ============================================================
// Week view
// ============================================================

func TestShiftWeek(t *testing.T) {
	if got := shiftWeek("2026-08-24", 7); got != "2026-08-31" {
		t.Fatalf("next week = %s", got)
	}
	if got := shiftWeek("2026-08-24", -7); got != "2026-08-17" {
		t.Fatalf("prev week = %s", got)
	}
	// Garbage stays put instead of panicking
	if got := shiftWeek("garbage", 7); got != "garbage" {
		t.Fatalf("bad input = %s", got)
	}
}

func TestWeekNavigation(t *testing.T) {
	svc := newTestService(t)
	m := newWeekModel(svc)
	start := m.startDate

	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyRight})
	if m.startDate != shiftWeek(start, 7) {
		t.Fatalf("right arrow did not advance: %s", m.startDate)
	}
	if cmd == nil {
		t.Fatal("navigation should reload")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.startDate != start {
		t.Fatalf("left arrow did not go back: %s", m.startDate)
	}
}

func TestWeekLoadBuildsSevenDays(t *testing.T) {
	svc := newTestService(t)
	m := newWeekModel(svc)

	msg := runCmd(t, m.load())
	data, ok := msg.(weekDataMsg)
	if !ok {
		t.Fatalf("expected weekDataMsg, got %T", msg)
	}
	if len(data.grid.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(data.grid.Days))
	}
}

// ============================================================
// Stats view
// ============================================================

func TestStatsLoadAndRender(t *testing.T) {
	svc := newTestService(t)
	svc.Store.CreateCategory(svc.UserID, store.Category{
		ID: "viola", Name: "Viola", Icon: "🎻", Color: "#e74c3c", WeeklyGoal: 3,
	})
	svc.Store.CreateSession(svc.UserID, store.TimeSession{
		Category: "viola", Duration: 90, Date: todayString(),
	})

	m := newStatsModel(svc)
	m.setSize(100, 40)

	msg := runCmd(t, m.load())
	data, ok := msg.(statsDataMsg)
	if !ok {
		t.Fatalf("expected statsDataMsg, got %T", msg)
	}
	if data.stats["viola"] != 90 {
		t.Fatalf("stats = %v", data.stats)
	}

	m, _ = m.update(data)
	out := m.view()
	if !strings.Contains(out, "Viola") {
		t.Fatalf("view missing category:\n%s", out)
	}
	if !strings.Contains(out, "1.5 / 3h") {
		t.Fatalf("view missing goal progress:\n%s", out)
	}
}

// ============================================================
// Timer view
// ============================================================

func TestTimerViewStartPauseStop(t *testing.T) {
	svc := newTestService(t)
	m := newTimerViewModel(svc)
	m.setSize(100, 40)

	m, _ = m.update(keyPress('s'))
	if st := svc.Timer.State(); !st.Running || st.Total != defaultSessionMinutes*60 {
		t.Fatalf("s did not start a default session: %+v", st)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeySpace})
	if st := svc.Timer.State(); st.Running {
		t.Fatal("space did not pause")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeySpace})
	if st := svc.Timer.State(); !st.Running {
		t.Fatal("space did not resume")
	}

	m, _ = m.update(keyPress('+'))
	if st := svc.Timer.State(); st.Total != (defaultSessionMinutes+5)*60 {
		t.Fatalf("+ did not extend: %+v", st)
	}

	m, cmd := m.update(keyPress('x'))
	runCmd(t, cmd)
	if st := svc.Timer.State(); st.Running || st.Total != 0 {
		t.Fatalf("x did not stop: %+v", st)
	}
	_ = m
}

func TestTimerViewResolvesTaskName(t *testing.T) {
	svc := newTestService(t)
	task, _ := svc.Store.CreateTask(svc.UserID, store.Task{
		Description: "Scales", Category: "viola", Duration: 25, Date: todayString(),
	})

	m := newTimerViewModel(svc)
	m.setSize(100, 40)
	svc.StartTaskTimer(*task)

	m, _ = m.update(timerStateMsg(svc.Timer.State()))
	if m.taskName != "Scales" {
		t.Fatalf("task name = %q", m.taskName)
	}
	if !strings.Contains(m.view(), "Scales") {
		t.Fatal("view missing task name")
	}
}

// ============================================================
// Settings view
// ============================================================

func TestSettingsSaveEmitsSavedMsg(t *testing.T) {
	svc := newTestService(t)
	m := newSettingsModel(svc)

	msg := runCmd(t, m.load())
	data, ok := msg.(settingsDataMsg)
	if !ok {
		t.Fatalf("expected settingsDataMsg, got %T", msg)
	}
	m, _ = m.update(data)

	*m.formSound = false
	msg = runCmd(t, m.save())
	saved, ok := msg.(settingsSavedMsg)
	if !ok {
		t.Fatalf("expected settingsSavedMsg, got %T", msg)
	}
	if saved.settings.SoundEnabled {
		t.Fatal("sound setting not saved")
	}

	got, _ := svc.Store.GetSettings(svc.UserID)
	if got.SoundEnabled {
		t.Fatal("setting not persisted")
	}
}

// ============================================================
// App wiring
// ============================================================

func TestAppTabSwitching(t *testing.T) {
	svc := newTestService(t)
	app := NewApp(svc, time.Minute)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app = model.(App)

	model, _ = app.Update(keyPress('3'))
	app = model.(App)
	if app.activeView != viewStats {
		t.Fatalf("activeView = %v, want stats", app.activeView)
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewTimer {
		t.Fatalf("tab should advance to timer, got %v", app.activeView)
	}
}

func TestAppQuit(t *testing.T) {
	svc := newTestService(t)
	app := NewApp(svc, time.Minute)

	_, cmd := app.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Fatalf("expected quit message, got %v", msg)
	}
}

func TestAppTimerCompletionRefreshes(t *testing.T) {
	svc := newTestService(t)
	app := NewApp(svc, time.Minute)

	done := timer.State{Running: false, Remaining: 0, Total: 300}
	_, cmd := app.Update(timerStateMsg(done))
	if cmd == nil {
		t.Fatal("completion should trigger reloads")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 00m"},
		{90, "1h 30m"},
	}
	for _, tc := range cases {
		if got := formatMinutes(tc.in); got != tc.want {
			t.Fatalf("formatMinutes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := formatHours(90); got != "1.5h" {
		t.Fatalf("formatHours(90) = %q", got)
	}
	if got := formatHours(0); got != "0.0h" {
		t.Fatalf("formatHours(0) = %q", got)
	}
}
