package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/room-allocation-api/internal/allocation"
	"github.com/noah-isme/room-allocation-api/internal/dto"
	"github.com/noah-isme/room-allocation-api/internal/models"
	appErrors "github.com/noah-isme/room-allocation-api/pkg/errors"
)

// Archive kinds accepted by ListArchive.
const (
	ArchiveWeekly           = "weekly"
	ArchiveOasis            = "oasis"
	ArchiveTeamPreferences  = "team_preferences"
	ArchiveOasisPreferences = "oasis_preferences"

	defaultArchiveLimit = 500
	maxArchiveLimit     = 5000
)

type archiveStore interface {
	ArchiveAndReset(ctx context.Context, archivedAt time.Time) (models.ArchiveCounts, error)
	LastReset(ctx context.Context) (*models.ArchiveCounts, error)
	ListArchivedTeams(ctx context.Context, limit int) ([]models.ArchivedTeamPreference, error)
	ListArchivedOasisPreferences(ctx context.Context, limit int) ([]models.ArchivedOasisPreference, error)
	ListArchivedWeekly(ctx context.Context, limit int) ([]models.ArchivedWeeklyAllocation, error)
	ListArchivedOasis(ctx context.Context, limit int) ([]models.ArchivedOasisAllocation, error)
}

// ArchiveService closes an allocation period: live preferences and
// allocations move to the archive tables and the live tables are emptied.
type ArchiveService struct {
	repo   archiveStore
	lock   runLocker
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
}

// NewArchiveService builds the service. It shares the run lock with AllocationService.
func NewArchiveService(repo archiveStore, lock runLocker, cacheSvc *CacheService, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveService{repo: repo, lock: lock, cache: cacheSvc, logger: logger, now: time.Now}
}

// WithClock overrides the archive timestamp source.
func (s *ArchiveService) WithClock(now func() time.Time) *ArchiveService {
	if now != nil {
		s.now = now
	}
	return s
}

// Reset archives and clears every live collection in one transaction.
func (s *ArchiveService) Reset(ctx context.Context) (*models.ArchiveCounts, error) {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, lockError(err)
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			s.logger.Warn("failed to release allocation lock", zap.Error(err))
		}
	}()

	counts, err := s.repo.ArchiveAndReset(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error("archive and reset failed", zap.Error(err))
		return nil, internalError(err, "failed to archive allocation period")
	}
	_ = s.cache.Invalidate(ctx, availabilityCacheKey, validationCacheKey)

	s.logger.Info("allocation period archived",
		zap.Int64("team_preferences", counts.TeamPreferences),
		zap.Int64("oasis_preferences", counts.OasisPreferences),
		zap.Int64("weekly_allocations", counts.WeeklyAllocations),
		zap.Int64("oasis_allocations", counts.OasisAllocations),
	)
	return &counts, nil
}

// ListArchive returns archived records of one kind, newest period first. A
// non-positive limit uses the default page size.
func (s *ArchiveService) ListArchive(ctx context.Context, kind string, limit int) (*dto.ArchiveListing, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch {
	case limit <= 0:
		limit = defaultArchiveLimit
	case limit > maxArchiveLimit:
		limit = maxArchiveLimit
	}

	var (
		records interface{}
		total   int
		err     error
	)
	switch kind {
	case ArchiveWeekly:
		var rows []models.ArchivedWeeklyAllocation
		rows, err = s.repo.ListArchivedWeekly(ctx, limit)
		records, total = rows, len(rows)
	case ArchiveOasis:
		var rows []models.ArchivedOasisAllocation
		rows, err = s.repo.ListArchivedOasis(ctx, limit)
		records, total = rows, len(rows)
	case ArchiveTeamPreferences:
		var rows []models.ArchivedTeamPreference
		rows, err = s.repo.ListArchivedTeams(ctx, limit)
		records, total = rows, len(rows)
	case ArchiveOasisPreferences:
		var rows []models.ArchivedOasisPreference
		rows, err = s.repo.ListArchivedOasisPreferences(ctx, limit)
		records, total = rows, len(rows)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("kind must be one of %s, %s, %s, %s",
			ArchiveWeekly, ArchiveOasis, ArchiveTeamPreferences, ArchiveOasisPreferences))
	}
	if err != nil {
		return nil, internalError(err, "failed to list archive")
	}
	return &dto.ArchiveListing{Kind: kind, Total: total, Records: records}, nil
}

// Status reports the room catalog, the Oasis capacity and the last period reset.
func (s *ArchiveService) Status(ctx context.Context) (*dto.SystemStatus, error) {
	last, err := s.repo.LastReset(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load last reset")
	}
	rooms := allocation.NewRoomAllocator().Catalog()
	return &dto.SystemStatus{
		Rooms:             rooms,
		TotalRoomCapacity: rooms.TotalCapacity(),
		OasisCapacity:     allocation.NewOasisAllocator().Capacity(),
		Weekdays:          models.Weekdays,
		LastReset:         last,
	}, nil
}
