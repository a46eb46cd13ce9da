package allocation

import (
	"time"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

// RoomAllocator places teams into project rooms for a whole day pair.
type RoomAllocator struct {
	opts options
}

// NewRoomAllocator builds an allocator over DefaultCatalog unless overridden.
func NewRoomAllocator(opts ...Option) *RoomAllocator {
	return &RoomAllocator{opts: buildOptions(opts)}
}

// Catalog returns the rooms the allocator scans.
func (a *RoomAllocator) Catalog() Catalog {
	return a.opts.catalog
}

// Allocate assigns every team it can to one room on both days of a pair and
// returns the names of teams left without a room. Teams are tried on their
// requested pair first; leftovers are retried on the alternate pair against
// the rooms already taken in this run. A team is never placed on one day only.
func (a *RoomAllocator) Allocate(prefs []models.TeamPreference) ([]models.WeeklyAllocation, []string) {
	allocations := []models.WeeklyAllocation{}
	unplaced := []string{}
	if len(prefs) == 0 {
		return allocations, unplaced
	}

	run := roomRun{
		ledger:  newRoomLedger(a.opts.catalog),
		week:    a.opts.week(),
		created: a.opts.now().UTC(),
	}

	groups := make(map[models.DayPair][]models.TeamPreference, 2)
	for _, pref := range prefs {
		if !pref.PreferredDays.Valid() {
			unplaced = append(unplaced, pref.TeamName)
			continue
		}
		groups[pref.PreferredDays] = append(groups[pref.PreferredDays], pref)
	}

	var pending []models.TeamPreference
	for _, pair := range []models.DayPair{models.MonWed, models.TueThu} {
		group := groups[pair]
		rankTeams(group, a.opts.shuffler)
		for _, team := range group {
			placed, ok := run.place(team, pair, false)
			if !ok {
				pending = append(pending, team)
				continue
			}
			allocations = append(allocations, placed...)
		}
	}

	for _, team := range pending {
		placed, ok := run.place(team, team.PreferredDays.Alternate(), true)
		if !ok {
			unplaced = append(unplaced, team.TeamName)
			continue
		}
		allocations = append(allocations, placed...)
	}

	return allocations, unplaced
}

type roomRun struct {
	ledger  *roomLedger
	week    Week
	created time.Time
}

func (r *roomRun) place(team models.TeamPreference, pair models.DayPair, overflow bool) ([]models.WeeklyAllocation, bool) {
	days := pair.Days()
	room, ok := r.ledger.find(team.TeamSize, days)
	if !ok {
		return nil, false
	}
	out := make([]models.WeeklyAllocation, 0, len(days))
	for _, day := range days {
		r.ledger.occupy(room, day, team.TeamName, team.TeamSize)
		out = append(out, models.WeeklyAllocation{
			TeamName:  team.TeamName,
			RoomName:  room.Name,
			DayOfWeek: day,
			Date:      r.week.Date(day),
			TeamSize:  team.TeamSize,
			Overflow:  overflow,
			CreatedAt: r.created,
		})
	}
	return out, true
}

type slotKey struct {
	room string
	day  models.Weekday
}

type occupant struct {
	team string
	size int
}

// roomLedger tracks the occupant of every (room, day). Occupancy is
// exclusive: a held room-day has no remaining capacity for another team,
// even when seats are left over. Validator reports a shared room-day as a
// conflict, so the allocator never produces one.
type roomLedger struct {
	catalog Catalog
	used    map[slotKey]occupant
}

func newRoomLedger(catalog Catalog) *roomLedger {
	return &roomLedger{catalog: catalog, used: make(map[slotKey]occupant)}
}

func (l *roomLedger) remaining(room Room, day models.Weekday) int {
	if _, taken := l.used[slotKey{room: room.Name, day: day}]; taken {
		return 0
	}
	return room.Capacity
}

func (l *roomLedger) find(size int, days []models.Weekday) (Room, bool) {
	if size <= 0 || len(days) == 0 {
		return Room{}, false
	}
	for _, room := range l.catalog {
		if room.Capacity < size {
			continue
		}
		fits := true
		for _, day := range days {
			if l.remaining(room, day) < size {
				fits = false
				break
			}
		}
		if fits {
			return room, true
		}
	}
	return Room{}, false
}

func (l *roomLedger) occupy(room Room, day models.Weekday, team string, size int) {
	l.used[slotKey{room: room.Name, day: day}] = occupant{team: team, size: size}
}
