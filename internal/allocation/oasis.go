package allocation

import (
	"time"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

// OasisAllocator hands out Oasis days. Everyone gets a first day before
// anyone gets a second one.
type OasisAllocator struct {
	opts options
}

// NewOasisAllocator builds an allocator with the fixed daily capacity unless overridden.
func NewOasisAllocator(opts ...Option) *OasisAllocator {
	return &OasisAllocator{opts: buildOptions(opts)}
}

// Capacity returns the per-day headcount limit.
func (a *OasisAllocator) Capacity() int {
	return a.opts.capacity
}

type oasisPerson struct {
	name string
	days []models.Weekday
	held map[models.Weekday]struct{}
}

func (p *oasisPerson) wantsMore() bool {
	return len(p.held) > 0 && len(p.held) < len(p.days)
}

type oasisRun struct {
	capacity int
	shuffler Shuffler
	week     Week
	created  time.Time
	byDay    map[models.Weekday][]models.OasisAllocation
}

func (r *oasisRun) hasRoom(day models.Weekday) bool {
	return len(r.byDay[day]) < r.capacity
}

func (r *oasisRun) assign(p *oasisPerson, day models.Weekday) {
	r.byDay[day] = append(r.byDay[day], models.OasisAllocation{
		PersonName: p.name,
		DayOfWeek:  day,
		Date:       r.week.Date(day),
		CreatedAt:  r.created,
	})
	p.held[day] = struct{}{}
}

// firstDayPass gives each listed person at most one day, trying their days
// in random order, and returns the people it could not place.
func (r *oasisRun) firstDayPass(people []*oasisPerson) []*oasisPerson {
	var left []*oasisPerson
	for _, p := range people {
		days := append([]models.Weekday(nil), p.days...)
		r.shuffler.Shuffle(len(days), func(i, j int) { days[i], days[j] = days[j], days[i] })
		placed := false
		for _, day := range days {
			if r.hasRoom(day) {
				r.assign(p, day)
				placed = true
				break
			}
		}
		if !placed {
			left = append(left, p)
		}
	}
	return left
}

// bonusPass grants at most one extra preferred day per person and reports
// whether anything was granted.
func (r *oasisRun) bonusPass(people []*oasisPerson) bool {
	var eligible []*oasisPerson
	for _, p := range people {
		if p.wantsMore() {
			eligible = append(eligible, p)
		}
	}
	r.shuffler.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })

	granted := false
	for _, p := range eligible {
		for _, day := range p.days {
			if _, ok := p.held[day]; ok {
				continue
			}
			if r.hasRoom(day) {
				r.assign(p, day)
				granted = true
				break
			}
		}
	}
	return granted
}

// Allocate runs the first-day pass, up to four retry passes for people still
// without a day, then up to four bonus passes topping up extra preferred days.
// The result is grouped by weekday; order carries no meaning.
func (a *OasisAllocator) Allocate(prefs []models.OasisPreference) []models.OasisAllocation {
	result := []models.OasisAllocation{}
	if len(prefs) == 0 {
		return result
	}

	run := &oasisRun{
		capacity: a.opts.capacity,
		shuffler: a.opts.shuffler,
		week:     a.opts.week(),
		created:  a.opts.now().UTC(),
		byDay:    make(map[models.Weekday][]models.OasisAllocation, len(models.Weekdays)),
	}

	people := make([]*oasisPerson, 0, len(prefs))
	for _, pref := range prefs {
		people = append(people, &oasisPerson{
			name: pref.PersonName,
			days: distinctWeekdays(pref.PreferredDays),
			held: make(map[models.Weekday]struct{}),
		})
	}

	waiting := append([]*oasisPerson(nil), people...)
	run.shuffler.Shuffle(len(waiting), func(i, j int) { waiting[i], waiting[j] = waiting[j], waiting[i] })
	waiting = run.firstDayPass(waiting)

	for pass := 0; pass < maxAdditionalPasses && len(waiting) > 0; pass++ {
		before := len(waiting)
		waiting = run.firstDayPass(waiting)
		if len(waiting) == before {
			break
		}
	}

	for pass := 0; pass < maxAdditionalPasses; pass++ {
		if !run.bonusPass(people) {
			break
		}
	}

	for _, day := range models.Weekdays {
		result = append(result, run.byDay[day]...)
	}
	return result
}

// DailyAvailability returns the remaining Oasis capacity per weekday, floored at zero.
func (a *OasisAllocator) DailyAvailability(existing []models.OasisAllocation) map[models.Weekday]int {
	counts := make(map[models.Weekday]int, len(models.Weekdays))
	for _, alloc := range existing {
		if alloc.DayOfWeek.Valid() {
			counts[alloc.DayOfWeek]++
		}
	}
	availability := make(map[models.Weekday]int, len(models.Weekdays))
	for _, day := range models.Weekdays {
		availability[day] = max(0, a.opts.capacity-counts[day])
	}
	return availability
}

// CanAddPersonToDay reports whether day is a weekday with spare capacity.
func (a *OasisAllocator) CanAddPersonToDay(day models.Weekday, existing []models.OasisAllocation) bool {
	if !day.Valid() {
		return false
	}
	return a.DailyAvailability(existing)[day] > 0
}

// AddAdhoc builds a single out-of-band allocation for the caller to persist.
// It refuses full or unknown days and people who already hold the day.
func (a *OasisAllocator) AddAdhoc(person string, day models.Weekday, existing []models.OasisAllocation) (models.OasisAllocation, bool) {
	if !a.CanAddPersonToDay(day, existing) {
		return models.OasisAllocation{}, false
	}
	key := models.NormalizeName(person)
	for _, alloc := range existing {
		if alloc.DayOfWeek == day && models.NormalizeName(alloc.PersonName) == key {
			return models.OasisAllocation{}, false
		}
	}
	return models.OasisAllocation{
		PersonName: person,
		DayOfWeek:  day,
		Date:       a.opts.week().Date(day),
		CreatedAt:  a.opts.now().UTC(),
	}, true
}

func distinctWeekdays(days []models.Weekday) []models.Weekday {
	seen := make(map[models.Weekday]struct{}, len(days))
	out := make([]models.Weekday, 0, len(days))
	for _, day := range days {
		if !day.Valid() {
			continue
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	return out
}
