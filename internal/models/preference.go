package models

import (
	"strings"
	"time"
)

// TeamPreference is a team's request for a project room on a day pair.
type TeamPreference struct {
	ID             string    `db:"id" json:"id"`
	TeamName       string    `db:"team_name" json:"team_name"`
	ContactPerson  string    `db:"contact_person" json:"contact_person"`
	TeamSize       int       `db:"team_size" json:"team_size"`
	PreferredDays  DayPair   `db:"preferred_days" json:"preferred_days"`
	SubmissionTime time.Time `db:"submission_time" json:"submission_time"`
}

// OasisPreference is an individual's request for one to five Oasis days.
type OasisPreference struct {
	ID             string      `db:"id" json:"id"`
	PersonName     string      `db:"person_name" json:"person_name"`
	PreferredDays  WeekdayList `db:"preferred_days" json:"preferred_days"`
	SubmissionTime time.Time   `db:"submission_time" json:"submission_time"`
}

// NormalizeName produces the case-insensitive key used for team and person uniqueness.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
