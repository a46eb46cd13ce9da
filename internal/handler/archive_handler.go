package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/room-allocation-api/internal/dto"
	"github.com/noah-isme/room-allocation-api/internal/models"
	appErrors "github.com/noah-isme/room-allocation-api/pkg/errors"
	"github.com/noah-isme/room-allocation-api/pkg/response"
)

type archiveService interface {
	Reset(ctx context.Context) (*models.ArchiveCounts, error)
	ListArchive(ctx context.Context, kind string, limit int) (*dto.ArchiveListing, error)
	Status(ctx context.Context) (*dto.SystemStatus, error)
}

// ArchiveHandler exposes the period reset, archive and status endpoints.
type ArchiveHandler struct {
	service archiveService
}

// NewArchiveHandler constructs the handler.
func NewArchiveHandler(service archiveService) *ArchiveHandler {
	return &ArchiveHandler{service: service}
}

// Reset godoc
// @Summary Archive and clear the current allocation period
// @Tags Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Router /allocations/reset [post]
func (h *ArchiveHandler) Reset(c *gin.Context) {
	counts, err := h.service.Reset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts)
}

// ListArchive godoc
// @Summary List archived records of past periods
// @Tags Allocations
// @Produce json
// @Param kind query string true "weekly, oasis, team_preferences or oasis_preferences"
// @Param limit query int false "Maximum rows, newest first"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /allocations/archive [get]
func (h *ArchiveHandler) ListArchive(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	listing, err := h.service.ListArchive(c.Request.Context(), c.Query("kind"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, listing.Records, map[string]interface{}{"kind": listing.Kind, "total": listing.Total})
}

// Status godoc
// @Summary Room catalog, Oasis capacity and last period reset
// @Tags Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /allocations/status [get]
func (h *ArchiveHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}
