package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Weekday is a working day name as stored on allocation records.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Weekdays lists the bookable days in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// Valid reports whether the weekday is one of Monday..Friday.
func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// Index returns the zero-based offset from Monday, or -1 for unknown days.
func (d Weekday) Index() int {
	for i, day := range Weekdays {
		if day == d {
			return i
		}
	}
	return -1
}

// ParseWeekday accepts full names and three-letter abbreviations in any case.
func ParseWeekday(raw string) (Weekday, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, day := range Weekdays {
		name := strings.ToLower(string(day))
		if value == name || value == name[:3] {
			return day, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", raw)
}

// DayPair is one of the two fixed project-room patterns.
type DayPair string

const (
	MonWed DayPair = "Mon_Wed"
	TueThu DayPair = "Tue_Thu"
)

// Days returns the two weekdays covered by the pair.
func (p DayPair) Days() []Weekday {
	switch p {
	case MonWed:
		return []Weekday{Monday, Wednesday}
	case TueThu:
		return []Weekday{Tuesday, Thursday}
	default:
		return nil
	}
}

// Alternate returns the opposite pair used by the overflow pass.
func (p DayPair) Alternate() DayPair {
	if p == MonWed {
		return TueThu
	}
	return MonWed
}

// Position returns the index of day within the pair, or -1 when the pair does not cover it.
func (p DayPair) Position(day Weekday) int {
	for i, d := range p.Days() {
		if d == day {
			return i
		}
	}
	return -1
}

// PairOf returns the pair covering day. Friday belongs to no pair.
func PairOf(day Weekday) (DayPair, bool) {
	for _, pair := range []DayPair{MonWed, TueThu} {
		if pair.Position(day) >= 0 {
			return pair, true
		}
	}
	return "", false
}

// Valid reports whether the pair is a known pattern.
func (p DayPair) Valid() bool {
	return p == MonWed || p == TueThu
}

// ParseDayPair accepts the canonical identifiers and the legacy form labels.
func ParseDayPair(raw string) (DayPair, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mon_wed", "monday & wednesday", "monday_wednesday":
		return MonWed, nil
	case "tue_thu", "tuesday & thursday", "tuesday_thursday":
		return TueThu, nil
	}
	return "", fmt.Errorf("unknown day pair %q", raw)
}

// WeekdayList is an ordered set of weekdays persisted as a postgres text array.
type WeekdayList []Weekday

// Value implements driver.Valuer.
func (l WeekdayList) Value() (driver.Value, error) {
	arr := make(pq.StringArray, len(l))
	for i, day := range l {
		arr[i] = string(day)
	}
	return arr.Value()
}

// Scan implements sql.Scanner.
func (l *WeekdayList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("scan weekday list: %w", err)
	}
	out := make(WeekdayList, 0, len(arr))
	for _, raw := range arr {
		out = append(out, Weekday(raw))
	}
	*l = out
	return nil
}

// Contains reports whether day is in the list.
func (l WeekdayList) Contains(day Weekday) bool {
	for _, d := range l {
		if d == day {
			return true
		}
	}
	return false
}
