package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/room-allocation-api/internal/allocation"
	"github.com/noah-isme/room-allocation-api/internal/dto"
	"github.com/noah-isme/room-allocation-api/internal/models"
	appErrors "github.com/noah-isme/room-allocation-api/pkg/errors"
	"github.com/noah-isme/room-allocation-api/pkg/jobs"
	"github.com/noah-isme/room-allocation-api/pkg/response"
)

type allocationService interface {
	Run(ctx context.Context, kind string) (*dto.RunResult, error)
	RunAsync(ctx context.Context, kind string) (*dto.RunAccepted, error)
	RunStatus(ctx context.Context, id string) (*jobs.Status, error)
	ListWeekly(ctx context.Context) ([]models.WeeklyAllocation, error)
	ListOasis(ctx context.Context) ([]models.OasisAllocation, error)
	UpdateWeekly(ctx context.Context, id string, req dto.UpdateWeeklyAllocationRequest) (*models.WeeklyAllocation, *allocation.Report, error)
	AddAdhocOasis(ctx context.Context, req dto.AdhocOasisRequest) (*models.OasisAllocation, error)
	DeleteWeekly(ctx context.Context, id string) (*dto.DeletedAllocations, error)
	UpdateOasis(ctx context.Context, id string, req dto.UpdateOasisAllocationRequest) (*models.OasisAllocation, *allocation.Report, error)
	DeleteOasis(ctx context.Context, id string) error
	Availability(ctx context.Context) (*dto.OasisAvailability, error)
	Validate(ctx context.Context) (*allocation.Report, error)
}

// AllocationHandler exposes /allocations endpoints.
type AllocationHandler struct {
	service allocationService
}

// NewAllocationHandler constructs the handler.
func NewAllocationHandler(service allocationService) *AllocationHandler {
	return &AllocationHandler{service: service}
}

// Run godoc
// @Summary Run the room and/or Oasis allocation
// @Description Replaces the stored allocations of the chosen kind. With async=true the run is queued and 202 returns its id.
// @Tags Allocations
// @Accept json
// @Produce json
// @Param payload body dto.RunAllocationRequest false "Run options"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Router /allocations/run [post]
func (h *AllocationHandler) Run(c *gin.Context) {
	var req dto.RunAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid run payload"))
		return
	}

	if req.Async {
		accepted, err := h.service.RunAsync(c.Request.Context(), req.Kind)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, accepted)
		return
	}

	result, err := h.service.Run(c.Request.Context(), req.Kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// RunStatus godoc
// @Summary Status of a queued allocation run
// @Tags Allocations
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /allocations/runs/{id} [get]
func (h *AllocationHandler) RunStatus(c *gin.Context) {
	status, err := h.service.RunStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// ListWeekly godoc
// @Summary List project-room allocations
// @Tags Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /allocations/weekly [get]
func (h *AllocationHandler) ListWeekly(c *gin.Context) {
	allocs, err := h.service.ListWeekly(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocs, map[string]interface{}{"total": len(allocs)})
}

// UpdateWeekly godoc
// @Summary Move or confirm a project-room allocation
// @Description Room and day pair changes apply to both days of the team. Rejected with 409 and the validation findings in meta when the edit would double-book a room.
// @Tags Allocations
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param payload body dto.UpdateWeeklyAllocationRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /allocations/weekly/{id} [patch]
func (h *AllocationHandler) UpdateWeekly(c *gin.Context) {
	var req dto.UpdateWeeklyAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	alloc, report, err := h.service.UpdateWeekly(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if report != nil {
			response.Error(c, err, map[string]interface{}{"validation": report})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alloc)
}

// ListOasis godoc
// @Summary List Oasis allocations
// @Tags Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /allocations/oasis [get]
func (h *AllocationHandler) ListOasis(c *gin.Context) {
	allocs, err := h.service.ListOasis(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocs, map[string]interface{}{"total": len(allocs)})
}

// AddAdhocOasis godoc
// @Summary Book an extra Oasis day
// @Tags Allocations
// @Accept json
// @Produce json
// @Param payload body dto.AdhocOasisRequest true "Person and day"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /allocations/oasis/adhoc [post]
func (h *AllocationHandler) AddAdhocOasis(c *gin.Context) {
	var req dto.AdhocOasisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid ad-hoc payload"))
		return
	}
	alloc, err := h.service.AddAdhocOasis(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, alloc)
}

// UpdateOasis godoc
// @Summary Move or confirm an Oasis allocation
// @Description Rejected with 409 and the validation findings in meta when the new day is full or already booked by the person.
// @Tags Allocations
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param payload body dto.UpdateOasisAllocationRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /allocations/oasis/{id} [patch]
func (h *AllocationHandler) UpdateOasis(c *gin.Context) {
	var req dto.UpdateOasisAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid oasis allocation payload"))
		return
	}
	alloc, report, err := h.service.UpdateOasis(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if report != nil {
			response.Error(c, err, map[string]interface{}{"validation": report})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alloc)
}

// DeleteWeekly godoc
// @Summary Remove a team's project-room allocation
// @Description Deletes both days of the team the addressed record belongs to.
// @Tags Allocations
// @Produce json
// @Param id path string true "Allocation ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Router /allocations/weekly/{id} [delete]
func (h *AllocationHandler) DeleteWeekly(c *gin.Context) {
	deleted, err := h.service.DeleteWeekly(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, deleted)
}

// DeleteOasis godoc
// @Summary Remove an Oasis allocation
// @Tags Allocations
// @Param id path string true "Allocation ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Router /allocations/oasis/{id} [delete]
func (h *AllocationHandler) DeleteOasis(c *gin.Context) {
	if err := h.service.DeleteOasis(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Availability godoc
// @Summary Oasis seats left per weekday
// @Tags Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /allocations/oasis/availability [get]
func (h *AllocationHandler) Availability(c *gin.Context) {
	availability, err := h.service.Availability(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, availability)
}

// Validate godoc
// @Summary Audit the stored allocations
// @Tags Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /allocations/validation [get]
func (h *AllocationHandler) Validate(c *gin.Context) {
	report, err := h.service.Validate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}
