// Package streak maintains the consecutive-practice-day counters.
package streak

import (
	"time"

	"github.com/dferrer/studyflow/internal/store"
)

const dateFormat = "2006-01-02"

// Tracker transitions the user's streak record on task completions.
type Tracker struct {
	store *store.Store
	now   func() time.Time
}

func NewTracker(s *store.Store) *Tracker {
	return &Tracker{store: s, now: time.Now}
}

// SetClock overrides the tracker's time source so callers that inject a
// clock can keep dated reads and writes on the same day.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// Update advances the streak if at least one of today's tasks is
// completed. The transition counts each calendar day once, so repeated
// calls on the same day never double-count:
//
//	last activity yesterday  -> streak+1
//	last activity today      -> unchanged
//	anything else            -> streak reset to 1
func (t *Tracker) Update(userID string) error {
	now := t.now()
	today := now.Format(dateFormat)
	yesterday := now.AddDate(0, 0, -1).Format(dateFormat)

	n, err := t.store.CountCompletedOn(userID, today)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	st, err := t.store.GetStreak(userID)
	if err != nil {
		return err
	}

	switch st.LastActivityDate {
	case yesterday:
		st.CurrentStreak++
	case today:
		// Already counted today.
	default:
		st.CurrentStreak = 1
	}

	if st.CurrentStreak > st.LongestStreak {
		st.LongestStreak = st.CurrentStreak
	}
	if st.LastActivityDate != today {
		st.TotalPracticeDays++
	}
	st.LastActivityDate = today

	return t.store.SaveStreak(userID, *st)
}
