package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/room-allocation-api/internal/dto"
	"github.com/noah-isme/room-allocation-api/internal/models"
	appErrors "github.com/noah-isme/room-allocation-api/pkg/errors"
)

// uniqueViolation is the postgres SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

type preferenceRepository interface {
	CreateTeam(ctx context.Context, pref *models.TeamPreference) error
	CreateOasis(ctx context.Context, pref *models.OasisPreference) error
	ListTeams(ctx context.Context) ([]models.TeamPreference, error)
	ListOasis(ctx context.Context) ([]models.OasisPreference, error)
	TeamExists(ctx context.Context, name string) (bool, error)
	PersonExists(ctx context.Context, name string) (bool, error)
}

// PreferenceService validates and stores submitted preferences.
type PreferenceService struct {
	repo      preferenceRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPreferenceService builds the service.
func NewPreferenceService(repo preferenceRepository, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerAllocationValidations(validate)
	return &PreferenceService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// WithClock overrides the submission clock.
func (s *PreferenceService) WithClock(now func() time.Time) *PreferenceService {
	if now != nil {
		s.now = now
	}
	return s
}

// SubmitTeam stores a team's day-pair request. Team names are unique case-insensitively.
func (s *PreferenceService) SubmitTeam(ctx context.Context, req dto.SubmitTeamPreferenceRequest) (*models.TeamPreference, error) {
	req.TeamName = strings.TrimSpace(req.TeamName)
	req.ContactPerson = strings.TrimSpace(req.ContactPerson)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid team preference")
	}
	pair, err := models.ParseDayPair(req.PreferredDays)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "preferred_days must be Mon_Wed or Tue_Thu")
	}

	exists, err := s.repo.TeamExists(ctx, req.TeamName)
	if err != nil {
		return nil, internalError(err, "failed to check team preference")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("team %q has already submitted a preference", req.TeamName))
	}

	pref := &models.TeamPreference{
		TeamName:       req.TeamName,
		ContactPerson:  req.ContactPerson,
		TeamSize:       req.TeamSize,
		PreferredDays:  pair,
		SubmissionTime: s.now().UTC(),
	}
	if err := s.repo.CreateTeam(ctx, pref); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("team %q has already submitted a preference", req.TeamName))
		}
		return nil, internalError(err, "failed to store team preference")
	}

	s.logger.Info("team preference submitted",
		zap.String("team", pref.TeamName),
		zap.Int("size", pref.TeamSize),
		zap.String("days", string(pref.PreferredDays)),
	)
	return pref, nil
}

// SubmitOasis stores a person's Oasis days. Day names may be abbreviated but must be distinct.
func (s *PreferenceService) SubmitOasis(ctx context.Context, req dto.SubmitOasisPreferenceRequest) (*models.OasisPreference, error) {
	req.PersonName = strings.TrimSpace(req.PersonName)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid oasis preference")
	}

	days := make(models.WeekdayList, 0, len(req.PreferredDays))
	for _, raw := range req.PreferredDays {
		day, err := models.ParseWeekday(raw)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "preferred_days must be weekdays")
		}
		if days.Contains(day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("preferred_days lists %s more than once", day))
		}
		days = append(days, day)
	}

	exists, err := s.repo.PersonExists(ctx, req.PersonName)
	if err != nil {
		return nil, internalError(err, "failed to check oasis preference")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%q has already submitted an oasis preference", req.PersonName))
	}

	pref := &models.OasisPreference{
		PersonName:     req.PersonName,
		PreferredDays:  days,
		SubmissionTime: s.now().UTC(),
	}
	if err := s.repo.CreateOasis(ctx, pref); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%q has already submitted an oasis preference", req.PersonName))
		}
		return nil, internalError(err, "failed to store oasis preference")
	}

	s.logger.Info("oasis preference submitted", zap.String("person", pref.PersonName), zap.Int("days", len(days)))
	return pref, nil
}

// ListTeams returns every stored team preference.
func (s *PreferenceService) ListTeams(ctx context.Context) ([]models.TeamPreference, error) {
	prefs, err := s.repo.ListTeams(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list team preferences")
	}
	return prefs, nil
}

// ListOasis returns every stored Oasis preference.
func (s *PreferenceService) ListOasis(ctx context.Context) ([]models.OasisPreference, error) {
	prefs, err := s.repo.ListOasis(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list oasis preferences")
	}
	return prefs, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
