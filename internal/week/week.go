// Package week computes weekly aggregates from the session ledger and
// builds the 7-day calendar view. All date math is calendar arithmetic on
// local dates (time.Date + AddDate), never epoch offsets, so week
// boundaries stay stable across timezone transitions.
package week

import (
	"sort"
	"time"

	"github.com/dferrer/studyflow/internal/store"
)

// DateFormat is the calendar-day format used throughout the store.
const DateFormat = "2006-01-02"

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Monday returns the Monday of t's ISO week as a date-only time in t's
// location. Sundays resolve to the Monday six days prior.
func Monday(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	wd := d.Weekday()
	if wd == time.Sunday {
		return d.AddDate(0, 0, -6)
	}
	return d.AddDate(0, 0, -int(wd-time.Monday))
}

// MondayString is Monday rendered as YYYY-MM-DD.
func MondayString(t time.Time) string {
	return Monday(t).Format(DateFormat)
}

// DayView is one bucket of the 7-day calendar.
type DayView struct {
	Date          string
	DayName       string
	Tasks         []store.Task
	TotalMinutes  int
	CategoryStats store.Stats
}

// View is a Monday-through-Sunday calendar of tasks.
type View struct {
	StartDate string
	EndDate   string
	Days      []DayView
}

// Build constructs the 7-day view starting at the given Monday date from
// an already-loaded task slice. Tasks within a day sort by scheduled time
// ascending, with unscheduled tasks first.
func Build(startDate string, tasks []store.Task) (*View, error) {
	start, err := time.ParseInLocation(DateFormat, startDate, time.Local)
	if err != nil {
		return nil, err
	}

	v := &View{
		StartDate: startDate,
		EndDate:   start.AddDate(0, 0, 6).Format(DateFormat),
	}

	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format(DateFormat)

		var dayTasks []store.Task
		for _, t := range tasks {
			if t.Date == date {
				dayTasks = append(dayTasks, t)
			}
		}
		sort.SliceStable(dayTasks, func(a, b int) bool {
			return dayTasks[a].ScheduledTime < dayTasks[b].ScheduledTime
		})

		// Day totals cover everything scheduled, done or not. Only the
		// session ledger reports what actually happened.
		total := 0
		stats := store.Stats{}
		for _, t := range dayTasks {
			total += t.Duration
			stats[t.Category] += t.Duration
		}

		v.Days = append(v.Days, DayView{
			Date:          date,
			DayName:       dayNames[i],
			Tasks:         dayTasks,
			TotalMinutes:  total,
			CategoryStats: stats,
		})
	}
	return v, nil
}
