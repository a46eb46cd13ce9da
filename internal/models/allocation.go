package models

import "time"

// WeeklyAllocation books a project room for a team on one day. A placed team
// holds two records, one per day of its pair, naming the same room.
type WeeklyAllocation struct {
	ID          string     `db:"id" json:"id"`
	TeamName    string     `db:"team_name" json:"team_name"`
	RoomName    string     `db:"room_name" json:"room_name"`
	DayOfWeek   Weekday    `db:"day_of_week" json:"day_of_week"`
	Date        time.Time  `db:"allocation_date" json:"date"`
	TeamSize    int        `db:"team_size" json:"team_size"`
	Overflow    bool       `db:"overflow" json:"overflow"`
	Confirmed   bool       `db:"confirmed" json:"confirmed"`
	ConfirmedAt *time.Time `db:"confirmed_at" json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// OasisAllocation grants a person a desk in the Oasis on one day.
type OasisAllocation struct {
	ID          string     `db:"id" json:"id"`
	PersonName  string     `db:"person_name" json:"person_name"`
	DayOfWeek   Weekday    `db:"day_of_week" json:"day_of_week"`
	Date        time.Time  `db:"allocation_date" json:"date"`
	Confirmed   bool       `db:"confirmed" json:"confirmed"`
	ConfirmedAt *time.Time `db:"confirmed_at" json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// ArchiveCounts reports how many rows a period reset moved per collection.
// Each reset is also kept in period_resets.
type ArchiveCounts struct {
	TeamPreferences   int64     `db:"team_preferences" json:"team_preferences"`
	OasisPreferences  int64     `db:"oasis_preferences" json:"oasis_preferences"`
	WeeklyAllocations int64     `db:"weekly_allocations" json:"weekly_allocations"`
	OasisAllocations  int64     `db:"oasis_allocations" json:"oasis_allocations"`
	ArchivedAt        time.Time `db:"archived_at" json:"archived_at"`
}

// ArchivedTeamPreference is a team preference from a closed period.
type ArchivedTeamPreference struct {
	TeamPreference
	ArchivedAt time.Time `db:"archived_at" json:"archived_at"`
}

// ArchivedOasisPreference is an Oasis preference from a closed period.
type ArchivedOasisPreference struct {
	OasisPreference
	ArchivedAt time.Time `db:"archived_at" json:"archived_at"`
}

// ArchivedWeeklyAllocation is a room booking from a closed period.
type ArchivedWeeklyAllocation struct {
	WeeklyAllocation
	ArchivedAt time.Time `db:"archived_at" json:"archived_at"`
}

// ArchivedOasisAllocation is an Oasis booking from a closed period.
type ArchivedOasisAllocation struct {
	OasisAllocation
	ArchivedAt time.Time `db:"archived_at" json:"archived_at"`
}
