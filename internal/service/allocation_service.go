package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/noah-isme/room-allocation-api/internal/allocation"
	"github.com/noah-isme/room-allocation-api/internal/dto"
	"github.com/noah-isme/room-allocation-api/internal/models"
	"github.com/noah-isme/room-allocation-api/internal/repository"
	"github.com/noah-isme/room-allocation-api/pkg/cache"
	appErrors "github.com/noah-isme/room-allocation-api/pkg/errors"
	"github.com/noah-isme/room-allocation-api/pkg/jobs"
	"github.com/noah-isme/room-allocation-api/pkg/tracing"
)

// Run kinds accepted by Run and RunAsync.
const (
	KindRooms = "rooms"
	KindOasis = "oasis"
	KindAll   = "all"
)

const (
	runStatusSuccess = "success"
	runStatusFailed  = "failed"
	runStatusLocked  = "locked"

	adhocBooked    = "booked"
	adhocFull      = "full"
	adhocDuplicate = "duplicate"

	// RunJobType identifies allocation runs on the background queue.
	RunJobType = "allocation.run"
)

var (
	availabilityCacheKey = cache.Key("availability")
	validationCacheKey   = cache.Key("validation")
)

type allocationPreferenceSource interface {
	ListTeams(ctx context.Context) ([]models.TeamPreference, error)
	ListOasis(ctx context.Context) ([]models.OasisPreference, error)
}

type allocationStore interface {
	ListWeekly(ctx context.Context) ([]models.WeeklyAllocation, error)
	ListOasis(ctx context.Context) ([]models.OasisAllocation, error)
	ReplaceWeekly(ctx context.Context, allocs []models.WeeklyAllocation) error
	ReplaceOasis(ctx context.Context, allocs []models.OasisAllocation) error
	InsertOasis(ctx context.Context, alloc *models.OasisAllocation) error
	FindWeekly(ctx context.Context, id string) (*models.WeeklyAllocation, error)
	UpdateWeekly(ctx context.Context, allocs []models.WeeklyAllocation) error
	DeleteWeekly(ctx context.Context, ids []string) (int64, error)
	FindOasis(ctx context.Context, id string) (*models.OasisAllocation, error)
	UpdateOasis(ctx context.Context, alloc *models.OasisAllocation) error
	DeleteOasis(ctx context.Context, id string) error
}

type runLocker interface {
	Acquire(ctx context.Context) (repository.Release, error)
}

type runQueue interface {
	Enqueue(job jobs.Job) (string, error)
	Status(id string) (jobs.Status, bool)
}

// AllocationServiceConfig tunes the engine the service drives.
type AllocationServiceConfig struct {
	// Seed fixes tie-breaking between equal-priority candidates; zero uses entropy.
	Seed     int64
	NextWeek bool
	CacheTTL time.Duration
	Now      func() time.Time
}

// AllocationService runs the room and Oasis allocators against stored
// preferences and manages the resulting bookings.
type AllocationService struct {
	prefs     allocationPreferenceSource
	store     allocationStore
	lock      runLocker
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	queue     runQueue
	cfg       AllocationServiceConfig
}

// NewAllocationService builds the service.
func NewAllocationService(prefs allocationPreferenceSource, store allocationStore, lock runLocker, cacheSvc *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg AllocationServiceConfig) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	registerAllocationValidations(validate)
	return &AllocationService{
		prefs:     prefs,
		store:     store,
		lock:      lock,
		cache:     cacheSvc,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// AttachQueue enables RunAsync. The queue's handler should be HandleJob.
func (s *AllocationService) AttachQueue(queue runQueue) {
	s.queue = queue
}

func (s *AllocationService) engineOptions() []allocation.Option {
	return []allocation.Option{
		allocation.WithSeed(s.cfg.Seed),
		allocation.WithClock(s.cfg.Now),
		allocation.WithNextWeek(s.cfg.NextWeek),
	}
}

func (s *AllocationService) week() allocation.Week {
	week := allocation.WeekOf(s.cfg.Now())
	if s.cfg.NextWeek {
		week = week.Next()
	}
	return week
}

// Run executes one kind of run, or both under a single lock for KindAll.
func (s *AllocationService) Run(ctx context.Context, kind string) (*dto.RunResult, error) {
	kind, err := s.normalizeKind(kind)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, kind)
	if err != nil {
		return nil, err
	}
	defer s.release(release)

	result := &dto.RunResult{Kind: kind}
	if kind == KindRooms || kind == KindAll {
		if result.Rooms, err = s.runRooms(ctx); err != nil {
			return nil, err
		}
	}
	if kind == KindOasis || kind == KindAll {
		if result.Oasis, err = s.runOasis(ctx); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// RunAsync queues a run and returns its id for RunStatus.
func (s *AllocationService) RunAsync(ctx context.Context, kind string) (*dto.RunAccepted, error) {
	kind, err := s.normalizeKind(kind)
	if err != nil {
		return nil, err
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrServiceUnavailable, "background runs are not enabled")
	}
	id, err := s.queue.Enqueue(jobs.Job{Type: RunJobType, Payload: kind})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, "failed to queue allocation run")
	}
	s.logger.Info("allocation run queued", zap.String("run_id", id), zap.String("kind", kind))
	return &dto.RunAccepted{RunID: id, Kind: kind, State: string(jobs.StateQueued)}, nil
}

// RunStatus reports a queued run.
func (s *AllocationService) RunStatus(ctx context.Context, id string) (*jobs.Status, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation run not found")
	}
	status, ok := s.queue.Status(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation run not found")
	}
	return &status, nil
}

// HandleJob is the queue handler for RunAsync jobs.
func (s *AllocationService) HandleJob(ctx context.Context, job jobs.Job) (interface{}, error) {
	kind, ok := job.Payload.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T for %s", job.Payload, job.Type)
	}
	return s.Run(ctx, kind)
}

func (s *AllocationService) normalizeKind(kind string) (string, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = KindAll
	}
	if err := s.validator.Struct(dto.RunAllocationRequest{Kind: kind}); err != nil {
		return "", validationError(err, "kind must be rooms, oasis or all")
	}
	return kind, nil
}

func (s *AllocationService) runRooms(ctx context.Context) (result *dto.RoomRunResult, err error) {
	ctx, span := tracing.Start(ctx, "allocation.rooms")
	start := time.Now()
	defer func() {
		tracing.End(span, err)
		s.observeRun(KindRooms, err, time.Since(start))
	}()

	prefs, err := s.prefs.ListTeams(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load team preferences")
	}

	priorities := make(map[string]float64, len(prefs))
	for _, pref := range prefs {
		priorities[pref.TeamName] = allocation.PriorityOf(pref).Score()
	}

	allocs, unplaced := allocation.NewRoomAllocator(s.engineOptions()...).Allocate(prefs)
	if err = s.store.ReplaceWeekly(ctx, allocs); err != nil {
		return nil, internalError(err, "failed to store weekly allocations")
	}
	s.invalidate(ctx)

	placed := make(map[string]bool)
	for _, alloc := range allocs {
		placed[alloc.TeamName] = placed[alloc.TeamName] || alloc.Overflow
	}
	overflowed := 0
	for _, overflow := range placed {
		if overflow {
			overflowed++
		}
	}

	span.SetAttributes(
		attribute.Int("allocation.teams", len(prefs)),
		attribute.Int("allocation.placed", len(placed)),
		attribute.Int("allocation.unplaced", len(unplaced)),
	)
	s.metrics.SetRoomOutcome(len(placed), len(unplaced))
	s.logger.Info("room allocation completed",
		zap.Int("teams", len(prefs)),
		zap.Int("placed", len(placed)),
		zap.Int("overflowed", overflowed),
		zap.Strings("unplaced", unplaced),
	)

	return &dto.RoomRunResult{
		WeekOf:      s.week().Monday,
		PlacedTeams: len(placed),
		Overflowed:  overflowed,
		Unplaced:    unplaced,
		Priorities:  priorities,
		Allocations: allocs,
	}, nil
}

func (s *AllocationService) runOasis(ctx context.Context) (result *dto.OasisRunResult, err error) {
	ctx, span := tracing.Start(ctx, "allocation.oasis")
	start := time.Now()
	defer func() {
		tracing.End(span, err)
		s.observeRun(KindOasis, err, time.Since(start))
	}()

	prefs, err := s.prefs.ListOasis(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load oasis preferences")
	}

	allocs := allocation.NewOasisAllocator(s.engineOptions()...).Allocate(prefs)
	if err = s.store.ReplaceOasis(ctx, allocs); err != nil {
		return nil, internalError(err, "failed to store oasis allocations")
	}
	s.invalidate(ctx)

	usage := make(map[models.Weekday]int, len(models.Weekdays))
	for _, day := range models.Weekdays {
		usage[day] = 0
	}
	holders := make(map[string]struct{})
	for _, alloc := range allocs {
		usage[alloc.DayOfWeek]++
		holders[models.NormalizeName(alloc.PersonName)] = struct{}{}
	}
	unallocated := []string{}
	for _, pref := range prefs {
		if _, ok := holders[models.NormalizeName(pref.PersonName)]; !ok {
			unallocated = append(unallocated, pref.PersonName)
		}
	}

	span.SetAttributes(
		attribute.Int("allocation.people", len(prefs)),
		attribute.Int("allocation.bookings", len(allocs)),
		attribute.Int("allocation.unallocated", len(unallocated)),
	)
	s.metrics.SetOasisOutcome(usage, len(holders))
	fields := []zap.Field{zap.Int("people", len(prefs)), zap.Int("bookings", len(allocs)), zap.Int("unallocated", len(unallocated))}
	for _, day := range models.Weekdays {
		fields = append(fields, zap.Int(strings.ToLower(string(day)), usage[day]))
	}
	s.logger.Info("oasis allocation completed", fields...)

	return &dto.OasisRunResult{
		WeekOf:      s.week().Monday,
		Usage:       usage,
		Unallocated: unallocated,
		Allocations: allocs,
	}, nil
}

func (s *AllocationService) observeRun(kind string, err error, duration time.Duration) {
	status := runStatusSuccess
	if err != nil {
		status = runStatusFailed
		s.logger.Error("allocation run failed", zap.String("kind", kind), zap.Error(err))
	}
	s.metrics.ObserveAllocationRun(kind, status, duration)
}

func (s *AllocationService) acquire(ctx context.Context, kind string) (repository.Release, error) {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrLockHeld) {
			s.metrics.ObserveAllocationRun(kind, runStatusLocked, 0)
		}
		return nil, lockError(err)
	}
	return release, nil
}

func lockError(err error) *appErrors.Error {
	if errors.Is(err, repository.ErrLockHeld) {
		return appErrors.Clone(appErrors.ErrAllocationLocked, "an allocation run is already in progress")
	}
	return appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, "failed to acquire allocation lock")
}

func (s *AllocationService) release(release repository.Release) {
	// the run may have been cancelled; the lease must still be returned
	if err := release(context.Background()); err != nil {
		s.logger.Warn("failed to release allocation lock", zap.Error(err))
	}
}

func (s *AllocationService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, availabilityCacheKey, validationCacheKey)
}

// Validate audits the stored allocations.
func (s *AllocationService) Validate(ctx context.Context) (*allocation.Report, error) {
	var report allocation.Report
	if hit, _ := s.cache.Get(ctx, validationCacheKey, &report); hit {
		return &report, nil
	}

	weekly, err := s.store.ListWeekly(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load weekly allocations")
	}
	oasis, err := s.store.ListOasis(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load oasis allocations")
	}

	report = allocation.NewValidator().Validate(weekly, oasis)
	_ = s.cache.Set(ctx, validationCacheKey, report, s.cfg.CacheTTL)
	if !report.Valid {
		s.logger.Warn("stored allocations are invalid", zap.Strings("errors", report.Errors))
	}
	return &report, nil
}

// Availability returns the Oasis seats left per weekday.
func (s *AllocationService) Availability(ctx context.Context) (*dto.OasisAvailability, error) {
	var availability dto.OasisAvailability
	if hit, _ := s.cache.Get(ctx, availabilityCacheKey, &availability); hit {
		return &availability, nil
	}

	existing, err := s.store.ListOasis(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load oasis allocations")
	}
	allocator := allocation.NewOasisAllocator(s.engineOptions()...)
	availability = dto.OasisAvailability{
		Capacity:  allocator.Capacity(),
		Remaining: allocator.DailyAvailability(existing),
	}
	_ = s.cache.Set(ctx, availabilityCacheKey, availability, s.cfg.CacheTTL)
	return &availability, nil
}

// AddAdhocOasis books one extra Oasis day for a person outside a run.
func (s *AllocationService) AddAdhocOasis(ctx context.Context, req dto.AdhocOasisRequest) (*models.OasisAllocation, error) {
	req.PersonName = strings.TrimSpace(req.PersonName)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid ad-hoc oasis request")
	}
	day, err := models.ParseWeekday(req.Day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "day must be a weekday")
	}

	release, err := s.acquire(ctx, "adhoc")
	if err != nil {
		return nil, err
	}
	defer s.release(release)

	existing, err := s.store.ListOasis(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load oasis allocations")
	}

	allocator := allocation.NewOasisAllocator(s.engineOptions()...)
	if !allocator.CanAddPersonToDay(day, existing) {
		s.metrics.RecordAdhoc(adhocFull)
		return nil, appErrors.Clone(appErrors.ErrCapacityReached, fmt.Sprintf("the oasis is full on %s", day))
	}
	alloc, ok := allocator.AddAdhoc(req.PersonName, day, existing)
	if !ok {
		s.metrics.RecordAdhoc(adhocDuplicate)
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s already holds an oasis seat on %s", req.PersonName, day))
	}

	if err := s.store.InsertOasis(ctx, &alloc); err != nil {
		return nil, internalError(err, "failed to store oasis allocation")
	}
	s.invalidate(ctx)
	s.metrics.RecordAdhoc(adhocBooked)
	s.logger.Info("ad-hoc oasis booking added", zap.String("person", alloc.PersonName), zap.String("day", string(day)))
	return &alloc, nil
}

// UpdateWeekly edits a room booking. A room or day pair change applies to
// every record of the team so a team never ends up split across rooms or
// days; confirmation applies to the addressed record only. The edit is
// rejected when the resulting set would fail validation.
func (s *AllocationService) UpdateWeekly(ctx context.Context, id string, req dto.UpdateWeeklyAllocationRequest) (*models.WeeklyAllocation, *allocation.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, validationError(err, "invalid allocation update")
	}
	if req.RoomName == nil && req.DayPair == nil && req.Confirmed == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "nothing to update")
	}

	var room string
	if req.RoomName != nil {
		room = strings.TrimSpace(*req.RoomName)
		if _, ok := allocation.DefaultCatalog.Capacity(room); !ok {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown room %q", room))
		}
	}
	var pair models.DayPair
	if req.DayPair != nil {
		parsed, err := models.ParseDayPair(*req.DayPair)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "day_pair must be Mon_Wed or Tue_Thu")
		}
		pair = parsed
	}

	release, err := s.acquire(ctx, "update")
	if err != nil {
		return nil, nil, err
	}
	defer s.release(release)

	current, err := s.findWeekly(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	weekly, err := s.store.ListWeekly(ctx)
	if err != nil {
		return nil, nil, internalError(err, "failed to load weekly allocations")
	}

	team := models.NormalizeName(current.TeamName)
	proposed := make([]models.WeeklyAllocation, 0, len(weekly))
	var changed []models.WeeklyAllocation
	var updated models.WeeklyAllocation
	moved := false
	for _, alloc := range weekly {
		next := alloc
		if models.NormalizeName(alloc.TeamName) == team {
			if room != "" {
				next.RoomName = room
			}
			if pair != "" {
				if next.DayOfWeek, next.Date, err = s.moveToPair(alloc, pair); err != nil {
					return nil, nil, err
				}
			}
			moved = moved || next.RoomName != alloc.RoomName || next.DayOfWeek != alloc.DayOfWeek
		}
		if alloc.ID == current.ID {
			s.applyConfirmation(&next.Confirmed, &next.ConfirmedAt, req.Confirmed)
			updated = next
		}
		if next != alloc {
			changed = append(changed, next)
		}
		proposed = append(proposed, next)
	}
	if updated.ID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "weekly allocation not found")
	}

	if moved {
		report := allocation.NewValidator().Validate(proposed, nil)
		if !report.Valid {
			return nil, &report, appErrors.Clone(appErrors.ErrConflict, "update would produce an invalid allocation")
		}
	}
	if len(changed) == 0 {
		return &updated, nil, nil
	}

	if err := s.store.UpdateWeekly(ctx, changed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "weekly allocation not found")
		}
		return nil, nil, internalError(err, "failed to update weekly allocation")
	}
	s.invalidate(ctx)
	s.logger.Info("weekly allocation updated",
		zap.String("id", updated.ID),
		zap.String("team", updated.TeamName),
		zap.String("room", updated.RoomName),
		zap.String("day", string(updated.DayOfWeek)),
		zap.Int("records", len(changed)),
		zap.Bool("confirmed", updated.Confirmed),
	)
	return &updated, nil, nil
}

// moveToPair maps a record onto the same position of another day pair,
// keeping it in the record's own week.
func (s *AllocationService) moveToPair(alloc models.WeeklyAllocation, pair models.DayPair) (models.Weekday, time.Time, error) {
	from, ok := models.PairOf(alloc.DayOfWeek)
	if !ok {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is booked on %s, which belongs to no day pair", alloc.TeamName, alloc.DayOfWeek))
	}
	day := pair.Days()[from.Position(alloc.DayOfWeek)]
	week := s.week()
	if !alloc.Date.IsZero() {
		week = allocation.WeekOf(alloc.Date)
	}
	return day, week.Date(day), nil
}

func (s *AllocationService) applyConfirmation(confirmed *bool, at **time.Time, requested *bool) {
	if requested == nil || *requested == *confirmed {
		return
	}
	*confirmed = *requested
	*at = nil
	if *requested {
		now := s.cfg.Now().UTC()
		*at = &now
	}
}

func (s *AllocationService) findWeekly(ctx context.Context, id string) (*models.WeeklyAllocation, error) {
	alloc, err := s.store.FindWeekly(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "weekly allocation not found")
		}
		return nil, internalError(err, "failed to load weekly allocation")
	}
	return alloc, nil
}

// DeleteWeekly removes the addressed booking together with the rest of its
// team's records, freeing the room on both days of the pair.
func (s *AllocationService) DeleteWeekly(ctx context.Context, id string) (*dto.DeletedAllocations, error) {
	release, err := s.acquire(ctx, "delete")
	if err != nil {
		return nil, err
	}
	defer s.release(release)

	current, err := s.findWeekly(ctx, id)
	if err != nil {
		return nil, err
	}
	weekly, err := s.store.ListWeekly(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load weekly allocations")
	}
	ids := []string{current.ID}
	for _, alloc := range weekly {
		if alloc.ID != current.ID && models.NormalizeName(alloc.TeamName) == models.NormalizeName(current.TeamName) {
			ids = append(ids, alloc.ID)
		}
	}

	deleted, err := s.store.DeleteWeekly(ctx, ids)
	if err != nil {
		return nil, internalError(err, "failed to delete weekly allocation")
	}
	s.invalidate(ctx)
	s.logger.Info("weekly allocation deleted", zap.String("team", current.TeamName), zap.Int64("records", deleted))
	return &dto.DeletedAllocations{TeamName: current.TeamName, Deleted: deleted}, nil
}

// UpdateOasis moves an Oasis booking to another day or toggles its
// confirmation. A move is rejected when the day is full or the person
// already holds it.
func (s *AllocationService) UpdateOasis(ctx context.Context, id string, req dto.UpdateOasisAllocationRequest) (*models.OasisAllocation, *allocation.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, validationError(err, "invalid oasis update")
	}
	if req.Day == nil && req.Confirmed == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "nothing to update")
	}
	var day models.Weekday
	if req.Day != nil {
		parsed, err := models.ParseWeekday(*req.Day)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "day must be a weekday")
		}
		day = parsed
	}

	release, err := s.acquire(ctx, "update")
	if err != nil {
		return nil, nil, err
	}
	defer s.release(release)

	current, err := s.store.FindOasis(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "oasis allocation not found")
		}
		return nil, nil, internalError(err, "failed to load oasis allocation")
	}

	updated := *current
	s.applyConfirmation(&updated.Confirmed, &updated.ConfirmedAt, req.Confirmed)
	if day != "" && day != current.DayOfWeek {
		week := s.week()
		if !current.Date.IsZero() {
			week = allocation.WeekOf(current.Date)
		}
		updated.DayOfWeek = day
		updated.Date = week.Date(day)

		existing, err := s.store.ListOasis(ctx)
		if err != nil {
			return nil, nil, internalError(err, "failed to load oasis allocations")
		}
		proposed := make([]models.OasisAllocation, 0, len(existing))
		for _, alloc := range existing {
			if alloc.ID == updated.ID {
				alloc = updated
			}
			proposed = append(proposed, alloc)
		}
		report := allocation.NewValidator().Validate(nil, proposed)
		if !report.Valid {
			return nil, &report, appErrors.Clone(appErrors.ErrConflict, "update would produce an invalid allocation")
		}
	}
	if updated == *current {
		return current, nil, nil
	}

	if err := s.store.UpdateOasis(ctx, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "oasis allocation not found")
		}
		return nil, nil, internalError(err, "failed to update oasis allocation")
	}
	s.invalidate(ctx)
	s.logger.Info("oasis allocation updated",
		zap.String("id", updated.ID),
		zap.String("person", updated.PersonName),
		zap.String("day", string(updated.DayOfWeek)),
		zap.Bool("confirmed", updated.Confirmed),
	)
	return &updated, nil, nil
}

// DeleteOasis removes one Oasis booking.
func (s *AllocationService) DeleteOasis(ctx context.Context, id string) error {
	release, err := s.acquire(ctx, "delete")
	if err != nil {
		return err
	}
	defer s.release(release)

	if err := s.store.DeleteOasis(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "oasis allocation not found")
		}
		return internalError(err, "failed to delete oasis allocation")
	}
	s.invalidate(ctx)
	s.logger.Info("oasis allocation deleted", zap.String("id", id))
	return nil
}

// ListWeekly returns the stored room bookings.
func (s *AllocationService) ListWeekly(ctx context.Context) ([]models.WeeklyAllocation, error) {
	allocs, err := s.store.ListWeekly(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list weekly allocations")
	}
	return allocs, nil
}

// ListOasis returns the stored Oasis bookings.
func (s *AllocationService) ListOasis(ctx context.Context) ([]models.OasisAllocation, error) {
	allocs, err := s.store.ListOasis(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list oasis allocations")
	}
	return allocs, nil
}
