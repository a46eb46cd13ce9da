package dto

import (
	"time"

	"github.com/noah-isme/room-allocation-api/internal/allocation"
	"github.com/noah-isme/room-allocation-api/internal/models"
)

// SubmitTeamPreferenceRequest registers a team's day-pair request.
type SubmitTeamPreferenceRequest struct {
	TeamName      string `json:"team_name" validate:"required,min=2,max=50,teamname"`
	ContactPerson string `json:"contact_person" validate:"required,min=2,max=50,personname"`
	TeamSize      int    `json:"team_size" validate:"required,min=3,max=6"`
	PreferredDays string `json:"preferred_days" validate:"required,daypair"`
}

// SubmitOasisPreferenceRequest registers a person's Oasis days.
type SubmitOasisPreferenceRequest struct {
	PersonName    string   `json:"person_name" validate:"required,min=2,max=50,personname"`
	PreferredDays []string `json:"preferred_days" validate:"required,min=1,max=5,dive,weekday"`
}

// RunAllocationRequest starts an allocation run. Kind defaults to all.
type RunAllocationRequest struct {
	Kind  string `json:"kind" validate:"omitempty,oneof=rooms oasis all"`
	Async bool   `json:"async"`
}

// AdhocOasisRequest books one extra Oasis day outside a run.
type AdhocOasisRequest struct {
	PersonName string `json:"person_name" validate:"required,min=2,max=50,personname"`
	Day        string `json:"day" validate:"required,weekday"`
}

// UpdateWeeklyAllocationRequest edits a room booking. Nil fields are left
// unchanged. Room and day pair changes move every record of the team.
type UpdateWeeklyAllocationRequest struct {
	RoomName  *string `json:"room_name" validate:"omitempty,min=1,max=50"`
	DayPair   *string `json:"day_pair" validate:"omitempty,daypair"`
	Confirmed *bool   `json:"confirmed"`
}

// UpdateOasisAllocationRequest moves an Oasis booking to another day or
// toggles its confirmation. Nil fields are left unchanged.
type UpdateOasisAllocationRequest struct {
	Day       *string `json:"day" validate:"omitempty,weekday"`
	Confirmed *bool   `json:"confirmed"`
}

// DeletedAllocations reports a removed team booking.
type DeletedAllocations struct {
	TeamName string `json:"team_name"`
	Deleted  int64  `json:"deleted"`
}

// RoomRunResult summarizes a project-room run.
type RoomRunResult struct {
	WeekOf      time.Time                 `json:"week_of"`
	PlacedTeams int                       `json:"placed_teams"`
	Overflowed  int                       `json:"overflowed_teams"`
	Unplaced    []string                  `json:"unplaced"`
	Priorities  map[string]float64        `json:"priority_scores"`
	Allocations []models.WeeklyAllocation `json:"allocations"`
}

// OasisRunResult summarizes an Oasis run.
type OasisRunResult struct {
	WeekOf      time.Time                `json:"week_of"`
	Usage       map[models.Weekday]int   `json:"usage"`
	Unallocated []string                 `json:"unallocated"`
	Allocations []models.OasisAllocation `json:"allocations"`
}

// RunResult is the synchronous answer to RunAllocationRequest.
type RunResult struct {
	Kind  string          `json:"kind"`
	Rooms *RoomRunResult  `json:"rooms,omitempty"`
	Oasis *OasisRunResult `json:"oasis,omitempty"`
}

// RunAccepted acknowledges a queued run.
type RunAccepted struct {
	RunID string `json:"run_id"`
	Kind  string `json:"kind"`
	State string `json:"state"`
}

// OasisAvailability reports the Oasis seats left per weekday.
type OasisAvailability struct {
	Capacity  int                    `json:"capacity"`
	Remaining map[models.Weekday]int `json:"remaining"`
}

// ArchiveListing is one page of archived records of a single kind.
type ArchiveListing struct {
	Kind    string      `json:"kind"`
	Total   int         `json:"total"`
	Records interface{} `json:"records"`
}

// SystemStatus describes the fixed capacities and the last period reset.
type SystemStatus struct {
	Rooms             allocation.Catalog    `json:"project_rooms"`
	TotalRoomCapacity int                   `json:"total_project_room_capacity"`
	OasisCapacity     int                   `json:"oasis_capacity"`
	Weekdays          []models.Weekday      `json:"weekdays"`
	LastReset         *models.ArchiveCounts `json:"last_reset"`
}
