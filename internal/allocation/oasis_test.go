package allocation

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

func oasisPref(name string, days ...models.Weekday) models.OasisPreference {
	return models.OasisPreference{PersonName: name, PreferredDays: models.WeekdayList(days)}
}

func daysByPerson(allocs []models.OasisAllocation) map[string][]models.Weekday {
	out := map[string][]models.Weekday{}
	for _, alloc := range allocs {
		out[alloc.PersonName] = append(out[alloc.PersonName], alloc.DayOfWeek)
	}
	return out
}

func perDay(allocs []models.OasisAllocation) map[models.Weekday]int {
	out := map[models.Weekday]int{}
	for _, alloc := range allocs {
		out[alloc.DayOfWeek]++
	}
	return out
}

func TestOasisAllocatorCapsSingleDayDemand(t *testing.T) {
	prefs := make([]models.OasisPreference, 0, 15)
	for i := 0; i < 15; i++ {
		prefs = append(prefs, oasisPref(fmt.Sprintf("Person %02d", i), models.Monday))
	}

	allocs := NewOasisAllocator(WithSeed(5), WithClock(fixedClock)).Allocate(prefs)

	counts := perDay(allocs)
	assert.Equal(t, 11, counts[models.Monday])
	assert.Len(t, counts, 1, "nobody asked for another day")
	assert.Equal(t, 11, len(daysByPerson(allocs)), "four people receive nothing")
}

func TestOasisAllocatorEveryoneGetsADayBeforeExtras(t *testing.T) {
	prefs := make([]models.OasisPreference, 0, 20)
	for i := 0; i < 20; i++ {
		prefs = append(prefs, oasisPref(fmt.Sprintf("Person %02d", i), models.Monday, models.Tuesday, models.Wednesday))
	}

	for seed := int64(1); seed <= 25; seed++ {
		allocs := NewOasisAllocator(WithSeed(seed), WithClock(fixedClock)).Allocate(prefs)

		byPerson := daysByPerson(allocs)
		assert.Len(t, byPerson, 20, "seed %d: every person holds at least one day", seed)
		assert.Len(t, allocs, 33, "seed %d: spare capacity is topped up", seed)
		for day, count := range perDay(allocs) {
			assert.LessOrEqual(t, count, OasisDailyCapacity, "seed %d: %s", seed, day)
		}
	}
}

func TestOasisAllocatorGuaranteeUnderSlack(t *testing.T) {
	prefs := make([]models.OasisPreference, 0, 55)
	for i := 0; i < 55; i++ {
		day := models.Weekdays[i%len(models.Weekdays)]
		prefs = append(prefs, oasisPref(fmt.Sprintf("Person %02d", i), day))
	}

	allocs := NewOasisAllocator(WithSeed(17), WithClock(fixedClock)).Allocate(prefs)

	assert.Len(t, daysByPerson(allocs), 55)
	for _, day := range models.Weekdays {
		assert.Equal(t, 11, perDay(allocs)[day])
	}
}

func TestOasisAllocatorGrantsAllPreferredDaysWhenFree(t *testing.T) {
	allocs := NewOasisAllocator(WithSeed(2), WithClock(fixedClock)).Allocate([]models.OasisPreference{
		oasisPref("Solo", models.Weekdays...),
		oasisPref("Pair", models.Tuesday, models.Friday),
	})

	byPerson := daysByPerson(allocs)
	assert.ElementsMatch(t, models.Weekdays, byPerson["Solo"])
	assert.ElementsMatch(t, []models.Weekday{models.Tuesday, models.Friday}, byPerson["Pair"])
}

func TestOasisAllocatorOnlyGrantsPreferredDays(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		r := rand.New(rand.NewSource(seed))
		prefs := randomOasisPrefs(r, 10+r.Intn(40))
		wanted := map[string]models.WeekdayList{}
		for _, pref := range prefs {
			wanted[pref.PersonName] = pref.PreferredDays
		}

		allocs := NewOasisAllocator(WithSeed(seed), WithClock(fixedClock)).Allocate(prefs)

		seen := map[string]struct{}{}
		for _, alloc := range allocs {
			assert.True(t, wanted[alloc.PersonName].Contains(alloc.DayOfWeek), "seed %d: %s got unrequested %s", seed, alloc.PersonName, alloc.DayOfWeek)
			key := alloc.PersonName + "|" + string(alloc.DayOfWeek)
			_, dup := seen[key]
			assert.False(t, dup, "seed %d: duplicate %s", seed, key)
			seen[key] = struct{}{}
		}
		for day, count := range perDay(allocs) {
			assert.LessOrEqual(t, count, OasisDailyCapacity, "seed %d: %s over capacity", seed, day)
		}
		report := NewValidator().Validate(nil, allocs)
		assert.True(t, report.Valid, "seed %d: %v", seed, report.Errors)
	}
}

func TestOasisAllocatorEmptyInput(t *testing.T) {
	allocs := NewOasisAllocator().Allocate(nil)
	assert.NotNil(t, allocs)
	assert.Empty(t, allocs)
}

func TestOasisAllocatorIgnoresUnknownAndRepeatedDays(t *testing.T) {
	allocs := NewOasisAllocator(WithSeed(4), WithClock(fixedClock)).Allocate([]models.OasisPreference{
		oasisPref("Messy", models.Monday, models.Weekday("Saturday"), models.Monday),
	})
	require.Len(t, allocs, 1)
	assert.Equal(t, models.Monday, allocs[0].DayOfWeek)
	assert.Equal(t, time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC), allocs[0].Date)
}

func TestOasisAllocatorDeterministicWithSeed(t *testing.T) {
	prefs := randomOasisPrefs(rand.New(rand.NewSource(8)), 40)
	first := NewOasisAllocator(WithSeed(21), WithClock(fixedClock)).Allocate(prefs)
	second := NewOasisAllocator(WithSeed(21), WithClock(fixedClock)).Allocate(prefs)
	assert.Equal(t, first, second)
}

func TestOasisDailyAvailability(t *testing.T) {
	existing := make([]models.OasisAllocation, 0, 15)
	for i := 0; i < 3; i++ {
		existing = append(existing, models.OasisAllocation{PersonName: fmt.Sprintf("M%d", i), DayOfWeek: models.Monday})
	}
	for i := 0; i < 12; i++ {
		existing = append(existing, models.OasisAllocation{PersonName: fmt.Sprintf("T%d", i), DayOfWeek: models.Tuesday})
	}

	availability := NewOasisAllocator().DailyAvailability(existing)

	assert.Equal(t, map[models.Weekday]int{
		models.Monday:    8,
		models.Tuesday:   0,
		models.Wednesday: 11,
		models.Thursday:  11,
		models.Friday:    11,
	}, availability)
}

func TestOasisCanAddPersonToDay(t *testing.T) {
	allocator := NewOasisAllocator(WithOasisCapacity(1))
	existing := []models.OasisAllocation{{PersonName: "Ana", DayOfWeek: models.Wednesday}}

	assert.False(t, allocator.CanAddPersonToDay(models.Wednesday, existing))
	assert.True(t, allocator.CanAddPersonToDay(models.Thursday, existing))
	assert.False(t, allocator.CanAddPersonToDay(models.Weekday("Saturday"), existing))
}

func TestOasisAddAdhoc(t *testing.T) {
	allocator := NewOasisAllocator(WithClock(fixedClock))
	existing := []models.OasisAllocation{{PersonName: "Dana Reyes", DayOfWeek: models.Tuesday}}

	_, ok := allocator.AddAdhoc("Dana Reyes", models.Tuesday, existing)
	assert.False(t, ok, "person already holds the day")

	_, ok = allocator.AddAdhoc("  dana reyes ", models.Tuesday, existing)
	assert.False(t, ok, "names compare case-insensitively")

	alloc, ok := allocator.AddAdhoc("Dana Reyes", models.Friday, existing)
	require.True(t, ok)
	assert.Equal(t, "Dana Reyes", alloc.PersonName)
	assert.Equal(t, models.Friday, alloc.DayOfWeek)
	assert.Equal(t, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC), alloc.Date)
	assert.False(t, alloc.Confirmed)
	assert.Equal(t, referenceNow, alloc.CreatedAt)
}

func TestOasisAddAdhocRejectsFullDay(t *testing.T) {
	existing := make([]models.OasisAllocation, 0, OasisDailyCapacity)
	for i := 0; i < OasisDailyCapacity; i++ {
		existing = append(existing, models.OasisAllocation{PersonName: fmt.Sprintf("P%d", i), DayOfWeek: models.Thursday})
	}
	_, ok := NewOasisAllocator().AddAdhoc("Late Comer", models.Thursday, existing)
	assert.False(t, ok)
}

func randomOasisPrefs(r *rand.Rand, n int) []models.OasisPreference {
	prefs := make([]models.OasisPreference, 0, n)
	for i := 0; i < n; i++ {
		days := append([]models.Weekday(nil), models.Weekdays...)
		r.Shuffle(len(days), func(a, b int) { days[a], days[b] = days[b], days[a] })
		prefs = append(prefs, oasisPref(fmt.Sprintf("Person %02d", i), days[:1+r.Intn(MaxPreferredDays)]...))
	}
	return prefs
}
