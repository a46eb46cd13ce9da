package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

func TestArchiveRepositoryArchiveAndReset(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewArchiveRepository(db)

	at := time.Date(2025, time.January, 10, 18, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	for i, table := range []string{"team_preferences", "oasis_preferences", "weekly_allocations", "oasis_allocations"} {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO "+table+"_archive")).
			WithArgs(at).
			WillReturnResult(sqlmock.NewResult(0, int64(i+2)))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + table)).
			WillReturnResult(sqlmock.NewResult(0, int64(i+2)))
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO period_resets")).
		WithArgs(int64(2), int64(3), int64(4), int64(5), at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	counts, err := repo.ArchiveAndReset(context.Background(), at)
	require.NoError(t, err)
	assert.Equal(t, models.ArchiveCounts{
		TeamPreferences:   2,
		OasisPreferences:  3,
		WeeklyAllocations: 4,
		OasisAllocations:  5,
		ArchivedAt:        at,
	}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveRepositoryRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewArchiveRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO team_preferences_archive")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM team_preferences")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO oasis_preferences_archive")).WillReturnError(errors.New("relation missing"))
	mock.ExpectRollback()

	_, err := repo.ArchiveAndReset(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oasis_preferences")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveRepositoryLastReset(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewArchiveRepository(db)

	at := time.Date(2025, time.January, 10, 18, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM period_resets ORDER BY archived_at DESC LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"team_preferences", "oasis_preferences", "weekly_allocations", "oasis_allocations", "archived_at"}).
			AddRow(4, 12, 8, 20, at))

	last, err := repo.LastReset(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, int64(8), last.WeeklyAllocations)
	assert.Equal(t, at, last.ArchivedAt)

	mock.ExpectQuery("SELECT (.+) FROM period_resets").WillReturnRows(sqlmock.NewRows([]string{"archived_at"}))
	last, err = repo.LastReset(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last, "no reset yet")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveRepositoryListArchivedWeekly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewArchiveRepository(db)

	at := time.Date(2025, time.January, 10, 18, 0, 0, 0, time.UTC)
	day := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+), archived_at FROM weekly_allocations_archive ORDER BY archived_at DESC").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_name", "room_name", "day_of_week", "allocation_date", "team_size", "overflow", "confirmed", "confirmed_at", "created_at", "archived_at"}).
			AddRow("w-1", "Falcons", "Room A", "Monday", day, 5, false, true, nil, at, at))

	rows, err := repo.ListArchivedWeekly(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Falcons", rows[0].TeamName)
	assert.Equal(t, models.Monday, rows[0].DayOfWeek)
	assert.Equal(t, at, rows[0].ArchivedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveRepositoryListArchivedOasisPreferences(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewArchiveRepository(db)

	at := time.Date(2025, time.January, 10, 18, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM oasis_preferences_archive").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "person_name", "preferred_days", "submission_time", "archived_at"}).
			AddRow("p-1", "Ana", "{Monday,Friday}", at, at))

	rows, err := repo.ListArchivedOasisPreferences(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.WeekdayList{models.Monday, models.Friday}, rows[0].PreferredDays)

	mock.ExpectQuery("FROM oasis_allocations_archive").WillReturnError(errors.New("relation missing"))
	_, err = repo.ListArchivedOasis(context.Background(), 10)
	assert.ErrorContains(t, err, "oasis_allocations")

	mock.ExpectQuery("FROM team_preferences_archive").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_name", "contact_person", "team_size", "preferred_days", "submission_time", "archived_at"}).
			AddRow("t-1", "Falcons", "Ana", 5, "Mon_Wed", at, at))
	teams, err := repo.ListArchivedTeams(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, models.MonWed, teams[0].PreferredDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}
