package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/room-allocation-api/internal/dto"
	"github.com/noah-isme/room-allocation-api/internal/models"
	appErrors "github.com/noah-isme/room-allocation-api/pkg/errors"
	"github.com/noah-isme/room-allocation-api/pkg/response"
)

type preferenceService interface {
	SubmitTeam(ctx context.Context, req dto.SubmitTeamPreferenceRequest) (*models.TeamPreference, error)
	SubmitOasis(ctx context.Context, req dto.SubmitOasisPreferenceRequest) (*models.OasisPreference, error)
	ListTeams(ctx context.Context) ([]models.TeamPreference, error)
	ListOasis(ctx context.Context) ([]models.OasisPreference, error)
}

// PreferenceHandler exposes /preferences endpoints.
type PreferenceHandler struct {
	service preferenceService
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(service preferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

// SubmitTeam godoc
// @Summary Submit a team's project-room preference
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.SubmitTeamPreferenceRequest true "Team preference"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /preferences/teams [post]
func (h *PreferenceHandler) SubmitTeam(c *gin.Context) {
	var req dto.SubmitTeamPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team preference payload"))
		return
	}
	pref, err := h.service.SubmitTeam(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pref)
}

// ListTeams godoc
// @Summary List team preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /preferences/teams [get]
func (h *PreferenceHandler) ListTeams(c *gin.Context) {
	prefs, err := h.service.ListTeams(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, map[string]interface{}{"total": len(prefs)})
}

// SubmitOasis godoc
// @Summary Submit a person's Oasis preference
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.SubmitOasisPreferenceRequest true "Oasis preference"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /preferences/oasis [post]
func (h *PreferenceHandler) SubmitOasis(c *gin.Context) {
	var req dto.SubmitOasisPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid oasis preference payload"))
		return
	}
	pref, err := h.service.SubmitOasis(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pref)
}

// ListOasis godoc
// @Summary List Oasis preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /preferences/oasis [get]
func (h *PreferenceHandler) ListOasis(c *gin.Context) {
	prefs, err := h.service.ListOasis(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, map[string]interface{}{"total": len(prefs)})
}
