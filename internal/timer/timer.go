// Package timer implements the countdown engine. Remaining time is
// always recomputed from the wall-clock start instant, never decremented
// per tick, so the displayed time stays accurate across missed or delayed
// ticks.
package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/dferrer/studyflow/internal/notify"
)

// State is the timer snapshot published to subscribers. Total == 0 means
// idle; Running == false with Total > 0 means paused (or just completed).
type State struct {
	Running   bool
	Remaining int // seconds
	Total     int // seconds
	TaskID    *int64
	StartedAt time.Time
}

// CompleteFunc receives the associated task id when a countdown runs out.
type CompleteFunc func(taskID *int64)

type Timer struct {
	mu      sync.Mutex
	state   State
	startAt time.Time
	stop    chan struct{}
	subs    []chan State

	interval time.Duration
	now      func() time.Time

	onComplete CompleteFunc
	chime      notify.Chime
	notifier   notify.Notifier
}

func New() *Timer {
	return &Timer{
		interval: time.Second,
		now:      time.Now,
	}
}

// OnComplete registers the completion callback. It fires exactly once per
// completed countdown, never on pause or stop.
func (t *Timer) OnComplete(fn CompleteFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onComplete = fn
}

// SetSinks installs the completion side-effect sinks.
func (t *Timer) SetSinks(chime notify.Chime, notifier notify.Notifier) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.chime = chime
	t.notifier = notifier
}

// Start cancels any running countdown and begins a new one.
func (t *Timer) Start(durationMinutes int, taskID *int64) {
	t.startSeconds(durationMinutes*60, taskID)
}

func (t *Timer) startSeconds(total int, taskID *int64) {
	t.mu.Lock()
	t.cancelLocked()

	started := t.now()
	t.state = State{
		Running:   true,
		Remaining: total,
		Total:     total,
		TaskID:    taskID,
		StartedAt: started,
	}
	t.startAt = started

	stop := make(chan struct{})
	t.stop = stop
	t.publishLocked()
	t.mu.Unlock()

	go t.run(stop)
}

func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if t.tick() {
				return
			}
		}
	}
}

// tick recomputes remaining time from the wall clock. It reports true
// when the countdown is over and the tick loop should end.
func (t *Timer) tick() bool {
	t.mu.Lock()
	if !t.state.Running {
		t.mu.Unlock()
		return true
	}

	remaining := t.state.Total - int(t.now().Sub(t.startAt)/time.Second)
	if remaining < 0 {
		remaining = 0
	}
	t.state.Remaining = remaining

	if remaining > 0 {
		t.publishLocked()
		t.mu.Unlock()
		return false
	}

	// Completed: leave Total in place for progress display.
	t.state.Running = false
	t.cancelLocked()
	taskID := t.state.TaskID
	minutes := t.state.Total / 60
	chime, notifier, onComplete := t.chime, t.notifier, t.onComplete
	t.publishLocked()
	t.mu.Unlock()

	if chime != nil {
		chime.Play()
	}
	if notifier != nil {
		notifier.Notify("🎯 Session complete!",
			fmt.Sprintf("You finished %d minutes of practice. Great work!", minutes))
	}
	if onComplete != nil {
		onComplete(taskID)
	}
	return true
}

// Pause freezes the countdown, preserving the remaining time as of the
// pause instant.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.state.Running {
		return
	}

	remaining := t.state.Total - int(t.now().Sub(t.startAt)/time.Second)
	if remaining < 0 {
		remaining = 0
	}
	t.state.Remaining = remaining
	t.state.Running = false
	t.cancelLocked()
	t.publishLocked()
}

// Resume restarts a paused countdown with the remaining time as the new
// total. The wall-clock origin restarts here; sub-second drift is
// immaterial at this granularity.
func (t *Timer) Resume() {
	t.mu.Lock()
	if t.state.Running || t.state.Remaining <= 0 {
		t.mu.Unlock()
		return
	}
	remaining := t.state.Remaining
	taskID := t.state.TaskID
	t.mu.Unlock()

	t.startSeconds(remaining, taskID)
}

// Stop cancels the countdown and returns to idle. The completion callback
// does not fire.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.state = State{}
	t.publishLocked()
}

// AddTime extends both the remaining and total time, in any state. The
// wall-clock origin is untouched, so a running countdown keeps computing
// correctly against the grown total.
func (t *Timer) AddTime(minutes int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	secs := minutes * 60
	t.state.Remaining += secs
	t.state.Total += secs
	t.publishLocked()
}

// State returns the current snapshot.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Progress reports completion as a percentage, 0 when idle.
func (t *Timer) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Total == 0 {
		return 0
	}
	return float64(t.state.Total-t.state.Remaining) / float64(t.state.Total) * 100
}

// Subscribe registers a state listener. The latest state is replayed
// immediately; on every change the buffered channel holds the newest
// snapshot, dropping any stale unread one. The returned func cancels the
// subscription.
func (t *Timer) Subscribe() (<-chan State, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch := make(chan State, 1)
	ch <- t.state
	t.subs = append(t.subs, ch)

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, sub := range t.subs {
			if sub == ch {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

func (t *Timer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) publishLocked() {
	for _, ch := range t.subs {
		select {
		case <-ch:
		default:
		}
		ch <- t.state
	}
}

// FormatTime renders seconds as MM:SS.
func FormatTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
