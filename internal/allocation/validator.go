package allocation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

// Report is the serializable result of auditing an allocation set.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Summary  Summary  `json:"summary"`
}

// Summary counts what the audited allocation set contains.
type Summary struct {
	TotalProjectAllocations int                    `json:"total_project_allocations"`
	TotalOasisAllocations   int                    `json:"total_oasis_allocations"`
	UniqueTeams             int                    `json:"unique_teams"`
	UniquePeople            int                    `json:"unique_people"`
	RoomsUsed               int                    `json:"rooms_used"`
	OasisDailyUsage         map[models.Weekday]int `json:"oasis_daily_usage"`
}

// Validator re-checks stored or proposed allocations. It keeps no state
// between calls.
type Validator struct {
	catalog  Catalog
	capacity int
}

// NewValidator audits against DefaultCatalog and OasisDailyCapacity unless overridden.
func NewValidator(opts ...Option) *Validator {
	o := buildOptions(opts)
	return &Validator{catalog: o.catalog, capacity: o.capacity}
}

// Validate checks room double-booking, Oasis capacity and duplicate Oasis
// bookings. Every problem becomes a report entry; it never fails.
func (v *Validator) Validate(weekly []models.WeeklyAllocation, oasis []models.OasisAllocation) Report {
	report := Report{Errors: []string{}, Warnings: []string{}}

	v.checkRooms(weekly, &report)
	v.checkOasis(oasis, &report)

	report.Valid = len(report.Errors) == 0
	report.Summary = v.summarize(weekly, oasis)
	return report
}

type roomDay struct {
	room string
	day  models.Weekday
}

func (v *Validator) checkRooms(weekly []models.WeeklyAllocation, report *Report) {
	teams := make(map[roomDay][]string)
	sizes := make(map[roomDay]int)
	roomsByTeam := make(map[string]map[string]struct{})
	display := make(map[string]string)
	unknownRooms := make(map[string]struct{})

	for _, alloc := range weekly {
		key := roomDay{room: alloc.RoomName, day: alloc.DayOfWeek}
		teams[key] = appendDistinct(teams[key], alloc.TeamName)
		sizes[key] += alloc.TeamSize

		team := models.NormalizeName(alloc.TeamName)
		if roomsByTeam[team] == nil {
			roomsByTeam[team] = make(map[string]struct{})
			display[team] = alloc.TeamName
		}
		roomsByTeam[team][alloc.RoomName] = struct{}{}

		if _, ok := v.catalog.Capacity(alloc.RoomName); !ok {
			unknownRooms[alloc.RoomName] = struct{}{}
		}
	}

	keys := make([]roomDay, 0, len(teams))
	for key := range teams {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].room != keys[j].room {
			return keys[i].room < keys[j].room
		}
		if a, b := keys[i].day.Index(), keys[j].day.Index(); a != b {
			return a < b
		}
		return keys[i].day < keys[j].day
	})

	for _, key := range keys {
		names := teams[key]
		if len(names) > 1 {
			report.Errors = append(report.Errors, fmt.Sprintf("Room conflict: %s on %s assigned to multiple teams: %s",
				key.room, key.day, strings.Join(names, ", ")))
			continue
		}
		// sizes are only recorded by the allocator; zero means unknown
		if capacity, ok := v.catalog.Capacity(key.room); ok && sizes[key] > capacity {
			report.Errors = append(report.Errors, fmt.Sprintf("Room capacity exceeded: %s on %s holds %d people (max %d)",
				key.room, key.day, sizes[key], capacity))
		}
	}

	teamKeys := make([]string, 0, len(roomsByTeam))
	for team, rooms := range roomsByTeam {
		if len(rooms) > 1 {
			teamKeys = append(teamKeys, team)
		}
	}
	sort.Strings(teamKeys)
	for _, team := range teamKeys {
		report.Warnings = append(report.Warnings, fmt.Sprintf("Team %s is split across rooms: %s",
			display[team], strings.Join(sortedKeys(roomsByTeam[team]), ", ")))
	}
	for _, room := range sortedKeys(unknownRooms) {
		report.Warnings = append(report.Warnings, fmt.Sprintf("Unknown room %q is not in the room catalog", room))
	}
}

func (v *Validator) checkOasis(oasis []models.OasisAllocation, report *Report) {
	people := make(map[models.Weekday][]string)
	for _, alloc := range oasis {
		people[alloc.DayOfWeek] = append(people[alloc.DayOfWeek], alloc.PersonName)
	}

	for _, day := range sortedDays(people) {
		names := people[day]
		seen := make(map[string]int, len(names))
		var duplicates []string
		for _, name := range names {
			key := models.NormalizeName(name)
			seen[key]++
			if seen[key] == 2 {
				duplicates = append(duplicates, name)
			}
		}
		if len(seen) > v.capacity {
			report.Errors = append(report.Errors, fmt.Sprintf("Oasis capacity exceeded on %s: %d people (max %d)",
				day, len(seen), v.capacity))
		}
		if len(duplicates) > 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("Duplicate Oasis allocations on %s: %s",
				day, strings.Join(duplicates, ", ")))
		}
	}
}

func (v *Validator) summarize(weekly []models.WeeklyAllocation, oasis []models.OasisAllocation) Summary {
	teams := make(map[string]struct{})
	rooms := make(map[string]struct{})
	for _, alloc := range weekly {
		teams[models.NormalizeName(alloc.TeamName)] = struct{}{}
		rooms[alloc.RoomName] = struct{}{}
	}
	people := make(map[string]struct{})
	usage := make(map[models.Weekday]int)
	for _, alloc := range oasis {
		people[models.NormalizeName(alloc.PersonName)] = struct{}{}
		usage[alloc.DayOfWeek]++
	}
	return Summary{
		TotalProjectAllocations: len(weekly),
		TotalOasisAllocations:   len(oasis),
		UniqueTeams:             len(teams),
		UniquePeople:            len(people),
		RoomsUsed:               len(rooms),
		OasisDailyUsage:         usage,
	}
}

func appendDistinct(list []string, value string) []string {
	for _, existing := range list {
		if models.NormalizeName(existing) == models.NormalizeName(value) {
			return list
		}
	}
	return append(list, value)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// sortedDays orders known weekdays first, then any unknown labels alphabetically.
func sortedDays(m map[models.Weekday][]string) []models.Weekday {
	out := make([]models.Weekday, 0, len(m))
	for day := range m {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Index(), out[j].Index()
		if a < 0 && b < 0 {
			return out[i] < out[j]
		}
		if a < 0 || b < 0 {
			return b < 0
		}
		return a < b
	})
	return out
}
