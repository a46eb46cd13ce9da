package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

const (
	weeklyColumns = `id, team_name, room_name, day_of_week, allocation_date, team_size, overflow, confirmed, confirmed_at, created_at`
	oasisColumns  = `id, person_name, day_of_week, allocation_date, confirmed, confirmed_at, created_at`

	insertWeekly = `INSERT INTO weekly_allocations (` + weeklyColumns + `)
		VALUES (:id, :team_name, :room_name, :day_of_week, :allocation_date, :team_size, :overflow, :confirmed, :confirmed_at, :created_at)`
	insertOasis = `INSERT INTO oasis_allocations (` + oasisColumns + `)
		VALUES (:id, :person_name, :day_of_week, :allocation_date, :confirmed, :confirmed_at, :created_at)`
)

// AllocationRepository persists weekly room and Oasis allocations.
type AllocationRepository struct {
	db *sqlx.DB
}

// NewAllocationRepository constructs the repository.
func NewAllocationRepository(db *sqlx.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// ListWeekly returns stored room allocations ordered by date then room.
func (r *AllocationRepository) ListWeekly(ctx context.Context) ([]models.WeeklyAllocation, error) {
	query := `SELECT ` + weeklyColumns + ` FROM weekly_allocations ORDER BY allocation_date, room_name, team_name`
	allocs := []models.WeeklyAllocation{}
	if err := r.db.SelectContext(ctx, &allocs, query); err != nil {
		return nil, fmt.Errorf("list weekly allocations: %w", err)
	}
	return allocs, nil
}

// ListOasis returns stored Oasis allocations ordered by date then person.
func (r *AllocationRepository) ListOasis(ctx context.Context) ([]models.OasisAllocation, error) {
	query := `SELECT ` + oasisColumns + ` FROM oasis_allocations ORDER BY allocation_date, person_name`
	allocs := []models.OasisAllocation{}
	if err := r.db.SelectContext(ctx, &allocs, query); err != nil {
		return nil, fmt.Errorf("list oasis allocations: %w", err)
	}
	return allocs, nil
}

// ReplaceWeekly swaps the whole weekly allocation set inside one transaction.
func (r *AllocationRepository) ReplaceWeekly(ctx context.Context, allocs []models.WeeklyAllocation) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace weekly allocations: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM weekly_allocations`); err != nil {
		return fmt.Errorf("clear weekly allocations: %w", err)
	}
	for i := range allocs {
		prepareWeekly(&allocs[i])
		if _, err = tx.NamedExecContext(ctx, insertWeekly, allocs[i]); err != nil {
			return fmt.Errorf("insert weekly allocation for %s: %w", allocs[i].TeamName, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit weekly allocations: %w", err)
	}
	return nil
}

// ReplaceOasis swaps the whole Oasis allocation set inside one transaction.
func (r *AllocationRepository) ReplaceOasis(ctx context.Context, allocs []models.OasisAllocation) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace oasis allocations: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM oasis_allocations`); err != nil {
		return fmt.Errorf("clear oasis allocations: %w", err)
	}
	for i := range allocs {
		prepareOasis(&allocs[i])
		if _, err = tx.NamedExecContext(ctx, insertOasis, allocs[i]); err != nil {
			return fmt.Errorf("insert oasis allocation for %s: %w", allocs[i].PersonName, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit oasis allocations: %w", err)
	}
	return nil
}

// InsertOasis stores one ad-hoc Oasis allocation.
func (r *AllocationRepository) InsertOasis(ctx context.Context, alloc *models.OasisAllocation) error {
	prepareOasis(alloc)
	if _, err := r.db.NamedExecContext(ctx, insertOasis, alloc); err != nil {
		return fmt.Errorf("insert oasis allocation: %w", err)
	}
	return nil
}

// FindWeekly loads one room allocation. Missing rows surface as sql.ErrNoRows.
func (r *AllocationRepository) FindWeekly(ctx context.Context, id string) (*models.WeeklyAllocation, error) {
	query := `SELECT ` + weeklyColumns + ` FROM weekly_allocations WHERE id = $1`
	var alloc models.WeeklyAllocation
	if err := r.db.GetContext(ctx, &alloc, query, id); err != nil {
		return nil, err
	}
	return &alloc, nil
}

// UpdateWeekly writes the editable fields of the given room allocations in
// one transaction. A missing row aborts the batch with sql.ErrNoRows.
func (r *AllocationRepository) UpdateWeekly(ctx context.Context, allocs []models.WeeklyAllocation) (err error) {
	const query = `UPDATE weekly_allocations
		SET room_name = :room_name, day_of_week = :day_of_week, allocation_date = :allocation_date,
			confirmed = :confirmed, confirmed_at = :confirmed_at
		WHERE id = :id`
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update weekly allocations: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i := range allocs {
		res, execErr := tx.NamedExecContext(ctx, query, allocs[i])
		if execErr != nil {
			err = fmt.Errorf("update weekly allocation %s: %w", allocs[i].ID, execErr)
			return err
		}
		if err = expectAffected(res, "update weekly allocation"); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit weekly allocation update: %w", err)
	}
	return nil
}

// DeleteWeekly removes the given room allocations and reports how many rows went.
func (r *AllocationRepository) DeleteWeekly(ctx context.Context, ids []string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weekly_allocations WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("delete weekly allocations: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete weekly allocations rows: %w", err)
	}
	return deleted, nil
}

// FindOasis loads one Oasis allocation. Missing rows surface as sql.ErrNoRows.
func (r *AllocationRepository) FindOasis(ctx context.Context, id string) (*models.OasisAllocation, error) {
	query := `SELECT ` + oasisColumns + ` FROM oasis_allocations WHERE id = $1`
	var alloc models.OasisAllocation
	if err := r.db.GetContext(ctx, &alloc, query, id); err != nil {
		return nil, err
	}
	return &alloc, nil
}

// UpdateOasis writes the day and confirmation of an Oasis allocation.
func (r *AllocationRepository) UpdateOasis(ctx context.Context, alloc *models.OasisAllocation) error {
	const query = `UPDATE oasis_allocations
		SET day_of_week = :day_of_week, allocation_date = :allocation_date, confirmed = :confirmed, confirmed_at = :confirmed_at
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, alloc)
	if err != nil {
		return fmt.Errorf("update oasis allocation: %w", err)
	}
	return expectAffected(res, "update oasis allocation")
}

// DeleteOasis removes one Oasis allocation. Missing rows surface as sql.ErrNoRows.
func (r *AllocationRepository) DeleteOasis(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM oasis_allocations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete oasis allocation: %w", err)
	}
	return expectAffected(res, "delete oasis allocation")
}

func prepareWeekly(alloc *models.WeeklyAllocation) {
	if alloc.ID == "" {
		alloc.ID = uuid.NewString()
	}
	if alloc.CreatedAt.IsZero() {
		alloc.CreatedAt = time.Now().UTC()
	}
}

func prepareOasis(alloc *models.OasisAllocation) {
	if alloc.ID == "" {
		alloc.ID = uuid.NewString()
	}
	if alloc.CreatedAt.IsZero() {
		alloc.CreatedAt = time.Now().UTC()
	}
}

func expectAffected(res sql.Result, action string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", action, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
