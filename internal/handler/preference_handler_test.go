package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-allocation-api/internal/dto"
	"github.com/noah-isme/room-allocation-api/internal/models"
	appErrors "github.com/noah-isme/room-allocation-api/pkg/errors"
)

type preferenceServiceMock struct {
	teamReq  dto.SubmitTeamPreferenceRequest
	oasisReq dto.SubmitOasisPreferenceRequest
	err      error
}

func (m *preferenceServiceMock) SubmitTeam(ctx context.Context, req dto.SubmitTeamPreferenceRequest) (*models.TeamPreference, error) {
	m.teamReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.TeamPreference{ID: "t-1", TeamName: req.TeamName, TeamSize: req.TeamSize}, nil
}

func (m *preferenceServiceMock) SubmitOasis(ctx context.Context, req dto.SubmitOasisPreferenceRequest) (*models.OasisPreference, error) {
	m.oasisReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.OasisPreference{ID: "p-1", PersonName: req.PersonName}, nil
}

func (m *preferenceServiceMock) ListTeams(ctx context.Context) ([]models.TeamPreference, error) {
	return []models.TeamPreference{{ID: "t-1"}, {ID: "t-2"}}, m.err
}

func (m *preferenceServiceMock) ListOasis(ctx context.Context) ([]models.OasisPreference, error) {
	return nil, m.err
}

func newPreferenceRouter(svc *preferenceServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPreferenceHandler(svc)
	r := gin.New()
	r.POST("/preferences/teams", h.SubmitTeam)
	r.GET("/preferences/teams", h.ListTeams)
	r.POST("/preferences/oasis", h.SubmitOasis)
	r.GET("/preferences/oasis", h.ListOasis)
	return r
}

func TestPreferenceHandlerSubmitTeam(t *testing.T) {
	svc := &preferenceServiceMock{}
	w := serve(newPreferenceRouter(svc), http.MethodPost, "/preferences/teams",
		`{"team_name":"Falcons","contact_person":"Ana","team_size":5,"preferred_days":"Mon_Wed"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Falcons", svc.teamReq.TeamName)
	assert.Equal(t, 5, svc.teamReq.TeamSize)
	assert.Equal(t, "Mon_Wed", svc.teamReq.PreferredDays)
}

func TestPreferenceHandlerSubmitTeamBadJSON(t *testing.T) {
	w := serve(newPreferenceRouter(&preferenceServiceMock{}), http.MethodPost, "/preferences/teams", `{"team_size":"five"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestPreferenceHandlerSubmitOasisConflict(t *testing.T) {
	svc := &preferenceServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "already submitted")}
	w := serve(newPreferenceRouter(svc), http.MethodPost, "/preferences/oasis", `{"person_name":"Ana","preferred_days":["Mon","Fri"]}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, []string{"Mon", "Fri"}, svc.oasisReq.PreferredDays)
}

func TestPreferenceHandlerLists(t *testing.T) {
	r := newPreferenceRouter(&preferenceServiceMock{})

	w := serve(r, http.MethodGet, "/preferences/teams", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	w = serve(r, http.MethodGet, "/preferences/oasis", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}
