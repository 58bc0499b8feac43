package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/trailpaw/custody-api/internal/errors"
	"github.com/trailpaw/custody-api/internal/services"
)

// DashboardHandler serves the staff dashboard counts.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetStats returns the queue counts for the caller's organization.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.GetStats(org, time.Now())
	if err != nil {
		apierrors.InternalError(c, "Failed to load dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
