package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

type archivedTable struct {
	name    string
	columns string
}

var (
	teamPreferencesTable  = archivedTable{name: "team_preferences", columns: "id, team_name, contact_person, team_size, preferred_days, submission_time"}
	oasisPreferencesTable = archivedTable{name: "oasis_preferences", columns: "id, person_name, preferred_days, submission_time"}
	weeklyTable           = archivedTable{name: "weekly_allocations", columns: weeklyColumns}
	oasisTable            = archivedTable{name: "oasis_allocations", columns: oasisColumns}
)

// archivedTables lists the live tables in the order they are archived.
var archivedTables = []archivedTable{teamPreferencesTable, oasisPreferencesTable, weeklyTable, oasisTable}

const insertPeriodReset = `INSERT INTO period_resets (team_preferences, oasis_preferences, weekly_allocations, oasis_allocations, archived_at)
	VALUES (:team_preferences, :oasis_preferences, :weekly_allocations, :oasis_allocations, :archived_at)`

// ArchiveRepository moves a finished period into the archive tables.
type ArchiveRepository struct {
	db *sqlx.DB
}

// NewArchiveRepository constructs the repository.
func NewArchiveRepository(db *sqlx.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// ArchiveAndReset copies every live row into its *_archive table stamped
// with archivedAt, then clears the live tables. It is all or nothing.
func (r *ArchiveRepository) ArchiveAndReset(ctx context.Context, archivedAt time.Time) (counts models.ArchiveCounts, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("begin archive: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	moved := make([]int64, len(archivedTables))
	for i, table := range archivedTables {
		copyQuery := fmt.Sprintf(`INSERT INTO %[1]s_archive (%[2]s, archived_at) SELECT %[2]s, $1 FROM %[1]s`, table.name, table.columns)
		res, execErr := tx.ExecContext(ctx, copyQuery, archivedAt)
		if execErr != nil {
			err = fmt.Errorf("archive %s: %w", table.name, execErr)
			return counts, err
		}
		if moved[i], err = res.RowsAffected(); err != nil {
			err = fmt.Errorf("archive %s rows: %w", table.name, err)
			return counts, err
		}
		if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table.name)); err != nil {
			err = fmt.Errorf("clear %s: %w", table.name, err)
			return counts, err
		}
	}

	result := models.ArchiveCounts{
		TeamPreferences:   moved[0],
		OasisPreferences:  moved[1],
		WeeklyAllocations: moved[2],
		OasisAllocations:  moved[3],
		ArchivedAt:        archivedAt,
	}
	if _, err = tx.NamedExecContext(ctx, insertPeriodReset, result); err != nil {
		return counts, fmt.Errorf("record period reset: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return counts, fmt.Errorf("commit archive: %w", err)
	}
	return result, nil
}

// LastReset returns the most recent period reset, or nil when none happened yet.
func (r *ArchiveRepository) LastReset(ctx context.Context) (*models.ArchiveCounts, error) {
	const query = `SELECT team_preferences, oasis_preferences, weekly_allocations, oasis_allocations, archived_at
		FROM period_resets ORDER BY archived_at DESC LIMIT 1`
	var last models.ArchiveCounts
	if err := r.db.GetContext(ctx, &last, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load last reset: %w", err)
	}
	return &last, nil
}

// ListArchivedTeams returns archived team preferences, newest period first.
func (r *ArchiveRepository) ListArchivedTeams(ctx context.Context, limit int) ([]models.ArchivedTeamPreference, error) {
	return listArchived[models.ArchivedTeamPreference](ctx, r.db, teamPreferencesTable, "team_name", limit)
}

// ListArchivedOasisPreferences returns archived Oasis preferences, newest period first.
func (r *ArchiveRepository) ListArchivedOasisPreferences(ctx context.Context, limit int) ([]models.ArchivedOasisPreference, error) {
	return listArchived[models.ArchivedOasisPreference](ctx, r.db, oasisPreferencesTable, "person_name", limit)
}

// ListArchivedWeekly returns archived room bookings, newest period first.
func (r *ArchiveRepository) ListArchivedWeekly(ctx context.Context, limit int) ([]models.ArchivedWeeklyAllocation, error) {
	return listArchived[models.ArchivedWeeklyAllocation](ctx, r.db, weeklyTable, "allocation_date, room_name", limit)
}

// ListArchivedOasis returns archived Oasis bookings, newest period first.
func (r *ArchiveRepository) ListArchivedOasis(ctx context.Context, limit int) ([]models.ArchivedOasisAllocation, error) {
	return listArchived[models.ArchivedOasisAllocation](ctx, r.db, oasisTable, "allocation_date, person_name", limit)
}

func listArchived[T any](ctx context.Context, db *sqlx.DB, table archivedTable, order string, limit int) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s, archived_at FROM %s_archive ORDER BY archived_at DESC, %s LIMIT $1`, table.columns, table.name, order)
	rows := []T{}
	if err := db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list %s archive: %w", table.name, err)
	}
	return rows, nil
}
