package tui

import (
	"fmt"
	"time"

	"github.com/dferrer/studyflow/internal/store"
	"github.com/dferrer/studyflow/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewWeek
	viewStats
	viewTimer
	viewSettings
)

var viewNames = []string{"Today", "Week", "Stats", "Timer", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// refreshMsg fires on the polling interval to re-read today's tasks and
// weekly stats.
type refreshMsg time.Time

// timerStateMsg carries a published timer snapshot.
type timerStateMsg timer.State

// effectMsg carries a fire-and-forget side effect (chime, notification)
// emitted by the timer from its own goroutine.
type effectMsg struct {
	text  string
	chime bool
}

type taskToggledMsg struct {
	task *store.Task
	err  error
}

type taskCreatedMsg struct {
	task *store.Task
}

type taskDeletedMsg struct {
	id int64
}

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct {
	message string
	isError bool
}

// --- Helpers ---

func formatMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

func formatHours(minutes int) string {
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}

func todayString() string {
	return time.Now().Format("2006-01-02")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
