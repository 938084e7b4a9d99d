package controllers

import (
	"log/slog"
	"net/http"

	"ourhour/internal/delivery/http/helpers"
	"ourhour/internal/domain"
)

// CommunitySuccessResponse is the success envelope for POST /communities/{id}/join.
type CommunitySuccessResponse struct {
	Data  *domain.Community `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CommunitiesSuccessResponse is the success envelope for GET /communities.
type CommunitiesSuccessResponse struct {
	Data  []domain.Community `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type CommunityController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
}

func NewCommunityController(logger *slog.Logger, svc domain.CatalogService) *CommunityController {
	return &CommunityController{
		Logger:  logger,
		Service: svc,
	}
}

// ListCommunities godoc
// @Summary List communities
// @Tags communities
// @Produce json
// @Param q query string false "Name or description substring"
// @Param category query string false "Community category; All or empty means any"
// @Success 200 {object} controllers.CommunitiesSuccessResponse
// @Router /communities [get]
func (c *CommunityController) ListCommunities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := c.Service.ListCommunities(r.Context(), q.Get("q"), q.Get("category"))
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// JoinCommunity godoc
// @Summary Join a community
// @Description Joining a community twice is a no-op.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Community ID"
// @Success 200 {object} controllers.CommunitySuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /communities/{id}/join [post]
func (c *CommunityController) JoinCommunity(w http.ResponseWriter, r *http.Request) {
	community, err := c.Service.JoinCommunity(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, community)
}
