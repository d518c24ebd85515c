package week

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dferrer/studyflow/internal/store"
)

// Engine derives weekly figures for one user. Stats always come from the
// session ledger, never from task durations, so task edits and the weekly
// reset cannot corrupt history.
type Engine struct {
	store *store.Store
	now   func() time.Time
}

func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s, now: time.Now}
}

// SetClock overrides the engine's time source so callers that inject a
// clock can keep dated reads and writes on the same day.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Stats sums session minutes per category for the current ISO week.
func (e *Engine) Stats(userID string) (store.Stats, error) {
	return e.store.SumDurationsSince(userID, MondayString(e.now()))
}

// ViewFor loads the user's tasks for the week starting at the given
// Monday and buckets them into the 7-day view.
func (e *Engine) ViewFor(userID, startDate string) (*View, error) {
	start, err := time.ParseInLocation(DateFormat, startDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse week start: %w", err)
	}
	end := start.AddDate(0, 0, 6).Format(DateFormat)

	tasks, err := e.store.ListTasksBetween(userID, startDate, end)
	if err != nil {
		return nil, err
	}
	return Build(startDate, tasks)
}

// Reset snapshots the current weekly stats into an audit record, then
// clears this week's sessions. Task records and their completed flags are
// left untouched; the reset is a ledger operation only.
func (e *Engine) Reset(userID string) error {
	stats, err := e.Stats(userID)
	if err != nil {
		return err
	}

	snapshot, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats snapshot: %w", err)
	}

	today := e.now().Format(DateFormat)
	if _, err := e.store.CreateReset(userID, today, string(snapshot)); err != nil {
		return err
	}

	_, err = e.store.DeleteSessionsSince(userID, MondayString(e.now()))
	return err
}

// CheckAndReset performs the weekly reset at most once per Monday. On any
// other weekday, or when a reset already exists for today, it is a no-op.
func (e *Engine) CheckAndReset(userID string) error {
	now := e.now()
	if now.Weekday() != time.Monday {
		return nil
	}

	today := now.Format(DateFormat)
	existing, err := e.store.GetResetOn(userID, today)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return e.Reset(userID)
}
