// Package tracker wires the store, aggregation engine, streak tracker
// and timer into the application-level operations the UI and CLI call.
package tracker

import (
	"time"

	"github.com/dferrer/studyflow/internal/store"
	"github.com/dferrer/studyflow/internal/streak"
	"github.com/dferrer/studyflow/internal/timer"
	"github.com/dferrer/studyflow/internal/week"
)

type Service struct {
	Store  *store.Store
	Weeks  *week.Engine
	Streak *streak.Tracker
	Timer  *timer.Timer
	UserID string

	now func() time.Time
}

func NewService(s *store.Store, userID string) *Service {
	svc := &Service{
		Store:  s,
		Weeks:  week.NewEngine(s),
		Streak: streak.NewTracker(s),
		Timer:  timer.New(),
		UserID: userID,
		now:    time.Now,
	}
	svc.Timer.OnComplete(func(taskID *int64) {
		if taskID != nil {
			// Best effort: a failed write surfaces on the next refresh.
			_ = svc.CompleteFromTimer(*taskID)
		}
	})
	return svc
}

// setClock pushes one time source into the service and the engines it
// owns. Dated task writes, streak transitions and weekly stats all have
// to agree on what "today" is.
func (svc *Service) setClock(now func() time.Time) {
	svc.now = now
	svc.Weeks.SetClock(now)
	svc.Streak.SetClock(now)
}

// Startup seeds defaults and performs the Monday reset check. Run once
// when the app opens.
func (svc *Service) Startup() error {
	if err := svc.Store.EnsureDefaults(svc.UserID, svc.now()); err != nil {
		return err
	}
	return svc.Weeks.CheckAndReset(svc.UserID)
}

// SetCompleted toggles a task's completed flag. Completing appends
// exactly one TimeSession to the ledger and advances the streak;
// un-completing only clears the task flags, never the ledger.
func (svc *Service) SetCompleted(taskID int64, completed bool) (*store.Task, error) {
	now := svc.now()
	patch := store.TaskPatch{Completed: &completed}
	if completed {
		patch.CompletedAt = &now
	}

	task, err := svc.Store.UpdateTask(svc.UserID, taskID, patch)
	if err != nil {
		return nil, err
	}

	if completed {
		if _, err := svc.Store.CreateSession(svc.UserID, store.TimeSession{
			TaskID:      &task.ID,
			Category:    task.Category,
			Description: task.Description,
			Duration:    task.Duration,
			Date:        task.Date,
			StartedAt:   &now,
			CompletedAt: &now,
		}); err != nil {
			return task, err
		}
		if err := svc.Streak.Update(svc.UserID); err != nil {
			return task, err
		}
	}
	return task, nil
}

// CompleteFromTimer marks a task done when its countdown finishes,
// guarding against tasks already completed by hand.
func (svc *Service) CompleteFromTimer(taskID int64) error {
	task, err := svc.Store.GetTask(svc.UserID, taskID)
	if err != nil {
		return err
	}
	if task.Completed {
		return nil
	}
	_, err = svc.SetCompleted(taskID, true)
	return err
}

// StartTaskTimer launches the countdown for a task's planned duration.
func (svc *Service) StartTaskTimer(task store.Task) {
	id := task.ID
	svc.Timer.Start(task.Duration, &id)
}

// TodayTasks returns the tasks scheduled for the current calendar day.
func (svc *Service) TodayTasks() ([]store.Task, error) {
	return svc.Store.ListTasks(svc.UserID, svc.now().Format(week.DateFormat))
}

// Motivation returns today's deterministic motivational message.
func (svc *Service) Motivation() (string, error) {
	return svc.Store.MotivationFor(svc.UserID, svc.now())
}
