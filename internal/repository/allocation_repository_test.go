package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

var weeklyRowColumns = []string{"id", "team_name", "room_name", "day_of_week", "allocation_date", "team_size", "overflow", "confirmed", "confirmed_at", "created_at"}

func TestAllocationRepositoryReplaceWeeklyIsAtomic(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	allocs := []models.WeeklyAllocation{
		{TeamName: "Falcons", RoomName: "Room A", DayOfWeek: models.Monday, TeamSize: 5},
		{TeamName: "Falcons", RoomName: "Room A", DayOfWeek: models.Wednesday, TeamSize: 5},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_allocations")).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO weekly_allocations").
		WithArgs(sqlmock.AnyArg(), "Falcons", "Room A", "Monday", sqlmock.AnyArg(), 5, false, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO weekly_allocations").
		WithArgs(sqlmock.AnyArg(), "Falcons", "Room A", "Wednesday", sqlmock.AnyArg(), 5, false, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceWeekly(context.Background(), allocs))
	assert.NotEmpty(t, allocs[0].ID)
	assert.NotEqual(t, allocs[0].ID, allocs[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepositoryReplaceWeeklyRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_allocations")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO weekly_allocations").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ReplaceWeekly(context.Background(), []models.WeeklyAllocation{{TeamName: "Owls", RoomName: "Room C", DayOfWeek: models.Tuesday}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Owls")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepositoryReplaceOasisWithEmptySetClears(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM oasis_allocations")).WillReturnResult(sqlmock.NewResult(0, 9))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceOasis(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepositoryListWeekly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	date := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(weeklyRowColumns).
		AddRow("w-1", "Falcons", "Room A", "Monday", date, 5, false, true, date, date)
	mock.ExpectQuery(regexp.QuoteMeta("FROM weekly_allocations ORDER BY allocation_date")).WillReturnRows(rows)

	allocs, err := repo.ListWeekly(context.Background())
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, models.Monday, allocs[0].DayOfWeek)
	assert.True(t, allocs[0].Confirmed)
	require.NotNil(t, allocs[0].ConfirmedAt)
}

func TestAllocationRepositoryFindWeeklyMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM weekly_allocations WHERE id = $1")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(weeklyRowColumns))

	_, err := repo.FindWeekly(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAllocationRepositoryUpdateWeekly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	tuesday := time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC)
	thursday := time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE weekly_allocations").
		WithArgs("Room B", "Tuesday", tuesday, true, sqlmock.AnyArg(), "w-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE weekly_allocations").
		WithArgs("Room B", "Thursday", thursday, false, nil, "w-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	now := time.Now().UTC()
	require.NoError(t, repo.UpdateWeekly(context.Background(), []models.WeeklyAllocation{
		{ID: "w-1", RoomName: "Room B", DayOfWeek: models.Tuesday, Date: tuesday, Confirmed: true, ConfirmedAt: &now},
		{ID: "w-2", RoomName: "Room B", DayOfWeek: models.Thursday, Date: thursday},
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepositoryUpdateWeeklyRollsBackOnMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE weekly_allocations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE weekly_allocations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdateWeekly(context.Background(), []models.WeeklyAllocation{{ID: "w-1"}, {ID: "gone"}})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepositoryDeleteWeekly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_allocations WHERE id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := repo.DeleteWeekly(context.Background(), []string{"w-1", "w-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepositoryInsertUpdateAndDeleteOasis(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAllocationRepository(db)

	friday := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO oasis_allocations").
		WithArgs(sqlmock.AnyArg(), "Dana", "Friday", sqlmock.AnyArg(), false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE oasis_allocations").
		WithArgs("Friday", friday, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM oasis_allocations WHERE id = $1")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM oasis_allocations WHERE id = $1")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	alloc := &models.OasisAllocation{PersonName: "Dana", DayOfWeek: models.Friday}
	require.NoError(t, repo.InsertOasis(context.Background(), alloc))
	now := time.Now().UTC()
	alloc.Date = friday
	alloc.Confirmed = true
	alloc.ConfirmedAt = &now
	require.NoError(t, repo.UpdateOasis(context.Background(), alloc))
	require.NoError(t, repo.DeleteOasis(context.Background(), alloc.ID))
	assert.ErrorIs(t, repo.DeleteOasis(context.Background(), "gone"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
