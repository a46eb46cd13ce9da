package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

// PreferenceRepository persists team and Oasis preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository constructs the repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// CreateTeam inserts a team preference, assigning an id when missing.
func (r *PreferenceRepository) CreateTeam(ctx context.Context, pref *models.TeamPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	if pref.SubmissionTime.IsZero() {
		pref.SubmissionTime = time.Now().UTC()
	}
	const query = `INSERT INTO team_preferences (id, team_name, contact_person, team_size, preferred_days, submission_time)
		VALUES (:id, :team_name, :contact_person, :team_size, :preferred_days, :submission_time)`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("create team preference: %w", err)
	}
	return nil
}

// CreateOasis inserts an Oasis preference, assigning an id when missing.
func (r *PreferenceRepository) CreateOasis(ctx context.Context, pref *models.OasisPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	if pref.SubmissionTime.IsZero() {
		pref.SubmissionTime = time.Now().UTC()
	}
	const query = `INSERT INTO oasis_preferences (id, person_name, preferred_days, submission_time)
		VALUES (:id, :person_name, :preferred_days, :submission_time)`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("create oasis preference: %w", err)
	}
	return nil
}

// ListTeams returns every team preference in submission order.
func (r *PreferenceRepository) ListTeams(ctx context.Context) ([]models.TeamPreference, error) {
	const query = `SELECT id, team_name, contact_person, team_size, preferred_days, submission_time
		FROM team_preferences ORDER BY submission_time, id`
	prefs := []models.TeamPreference{}
	if err := r.db.SelectContext(ctx, &prefs, query); err != nil {
		return nil, fmt.Errorf("list team preferences: %w", err)
	}
	return prefs, nil
}

// ListOasis returns every Oasis preference in submission order.
func (r *PreferenceRepository) ListOasis(ctx context.Context) ([]models.OasisPreference, error) {
	const query = `SELECT id, person_name, preferred_days, submission_time
		FROM oasis_preferences ORDER BY submission_time, id`
	prefs := []models.OasisPreference{}
	if err := r.db.SelectContext(ctx, &prefs, query); err != nil {
		return nil, fmt.Errorf("list oasis preferences: %w", err)
	}
	return prefs, nil
}

// TeamExists reports whether a team with the same normalized name is stored.
func (r *PreferenceRepository) TeamExists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM team_preferences WHERE lower(btrim(team_name)) = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, models.NormalizeName(name)); err != nil {
		return false, fmt.Errorf("check team preference: %w", err)
	}
	return exists, nil
}

// PersonExists reports whether a person with the same normalized name is stored.
func (r *PreferenceRepository) PersonExists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM oasis_preferences WHERE lower(btrim(person_name)) = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, models.NormalizeName(name)); err != nil {
		return false, fmt.Errorf("check oasis preference: %w", err)
	}
	return exists, nil
}
