package allocation

import (
	"time"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

// Week anchors allocation dates to the Monday of a calendar week.
type Week struct {
	Monday time.Time
}

// WeekOf returns the week containing t, starting Monday 00:00 in t's location.
func WeekOf(t time.Time) Week {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return Week{Monday: time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())}
}

// Next returns the following week.
func (w Week) Next() Week {
	return Week{Monday: w.Monday.AddDate(0, 0, 7)}
}

// Date returns the calendar date of day within the week.
func (w Week) Date(day models.Weekday) time.Time {
	idx := day.Index()
	if idx < 0 {
		return time.Time{}
	}
	return w.Monday.AddDate(0, 0, idx)
}
