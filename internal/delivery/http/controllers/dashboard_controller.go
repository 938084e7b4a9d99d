package controllers

import (
	"log/slog"
	"net/http"

	"ourhour/internal/delivery/http/helpers"
	"ourhour/internal/domain"
)

type DashboardController struct {
	Logger  *slog.Logger
	Service domain.DashboardService
}

func NewDashboardController(logger *slog.Logger, svc domain.DashboardService) *DashboardController {
	return &DashboardController{
		Logger:  logger,
		Service: svc,
	}
}

// AttendeeStats godoc
// @Summary Attendee dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is domain.AttendeeStats"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /dashboard/attendee [get]
func (c *DashboardController) AttendeeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.AttendeeStats(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// HostStats godoc
// @Summary Host dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is domain.HostStats"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /dashboard/host [get]
func (c *DashboardController) HostStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.HostStats(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// AdminStats godoc
// @Summary Platform-wide dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is domain.AdminStats"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /dashboard/admin [get]
func (c *DashboardController) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.AdminStats(r.Context())
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
