package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

func TestPriorityCompare(t *testing.T) {
	base := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

	assert.Negative(t, Priority{Size: 6, Submitted: base}.Compare(Priority{Size: 4, Submitted: base.Add(-time.Hour)}))
	assert.Positive(t, Priority{Size: 3}.Compare(Priority{Size: 5}))
	assert.Negative(t, Priority{Size: 4, Submitted: base}.Compare(Priority{Size: 4, Submitted: base.Add(time.Minute)}))
	assert.Zero(t, Priority{Size: 4, Submitted: base}.Compare(Priority{Size: 4, Submitted: base}))
	assert.Negative(t, Priority{Size: 4}.Compare(Priority{Size: 4, Submitted: base}), "missing time ranks first")
}

func TestPriorityScoreMatchesOrdering(t *testing.T) {
	base := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	large := Priority{Size: 5, Submitted: base.Add(72 * time.Hour)}
	small := Priority{Size: 4, Submitted: base}
	earlier := Priority{Size: 4, Submitted: base.Add(-time.Hour)}

	assert.Greater(t, large.Score(), small.Score())
	assert.Greater(t, earlier.Score(), small.Score())
	assert.Equal(t, 40.0, Priority{Size: 4}.Score())
}

func TestRankTeamsKeepsSizeOrder(t *testing.T) {
	teams := []models.TeamPreference{
		{TeamName: "three", TeamSize: 3},
		{TeamName: "six", TeamSize: 6},
		{TeamName: "four", TeamSize: 4},
		{TeamName: "five", TeamSize: 5},
	}
	rankTeams(teams, seededShuffler(9))

	names := make([]string, 0, len(teams))
	for _, team := range teams {
		names = append(names, team.TeamName)
	}
	assert.Equal(t, []string{"six", "five", "four", "three"}, names)
}

func TestWeekOf(t *testing.T) {
	monday := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday, WeekOf(time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)).Monday)
	assert.Equal(t, monday, WeekOf(time.Date(2025, time.January, 10, 23, 59, 0, 0, time.UTC)).Monday)
	assert.Equal(t, monday, WeekOf(time.Date(2025, time.January, 12, 12, 0, 0, 0, time.UTC)).Monday, "sunday belongs to the week that started monday")
	assert.Equal(t, monday.AddDate(0, 0, 7), WeekOf(monday).Next().Monday)
	assert.Equal(t, monday.AddDate(0, 0, 4), WeekOf(monday).Date(models.Friday))
	assert.True(t, WeekOf(monday).Date(models.Weekday("Sunday")).IsZero())
}

func TestParseDayPair(t *testing.T) {
	for raw, want := range map[string]models.DayPair{
		"Mon_Wed":            models.MonWed,
		"tue_thu":            models.TueThu,
		"Monday & Wednesday": models.MonWed,
		"Tuesday & Thursday": models.TueThu,
	} {
		got, err := models.ParseDayPair(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := models.ParseDayPair("Wed_Fri")
	assert.Error(t, err)
	assert.Equal(t, models.TueThu, models.MonWed.Alternate())
	assert.Equal(t, models.MonWed, models.TueThu.Alternate())
}

func TestParseWeekday(t *testing.T) {
	day, err := models.ParseWeekday(" fri ")
	require.NoError(t, err)
	assert.Equal(t, models.Friday, day)
	_, err = models.ParseWeekday("Saturday")
	assert.Error(t, err)
}
