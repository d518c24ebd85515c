package export

import (
	"fmt"
	"time"

	"github.com/dferrer/studyflow/internal/week"
)

// WeekTemplate builds a full-week payload with two sample tasks per day
// (a practice slot and a study slot) for the user to download, edit and
// re-import. The template covers the week of the upcoming Monday: on a
// Sunday that is tomorrow, on any other day the current week's Monday.
func WeekTemplate(now time.Time) *Payload {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var monday time.Time
	if day.Weekday() == time.Sunday {
		monday = day.AddDate(0, 0, 1)
	} else {
		monday = week.Monday(day)
	}

	dayNames := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	p := &Payload{Type: TypeFullWeek}
	for i := 0; i < 7; i++ {
		date := monday.AddDate(0, 0, i).Format(week.DateFormat)
		p.Tasks = append(p.Tasks,
			TaskRecord{
				Description:   fmt.Sprintf("Morning practice - %s", dayNames[i]),
				Category:      "viola",
				Duration:      30,
				ScheduledTime: "07:00",
				Date:          date,
			},
			TaskRecord{
				Description:   fmt.Sprintf("Study session - %s", dayNames[i]),
				Category:      "az204",
				Duration:      45,
				ScheduledTime: "20:00",
				Date:          date,
			},
		)
	}
	return p
}
