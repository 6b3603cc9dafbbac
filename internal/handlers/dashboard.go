package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearcove/task-tracker-api/internal/dto"
	apierrors "github.com/clearcove/task-tracker-api/internal/errors"
	"github.com/clearcove/task-tracker-api/internal/middleware"
	"github.com/clearcove/task-tracker-api/internal/scope"
	"github.com/clearcove/task-tracker-api/internal/services"
)

// DashboardHandler coordinates dashboard HTTP handlers.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns statistics, chart series and recent tasks over the
// caller's visible task set.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	sc := scope.Resolve(scope.FromUser(user))
	data, err := h.dashboardService.Organization(sc)
	if err != nil {
		apierrors.StoreFailure(c, "Failed to build dashboard", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(*data))
}

// GetUserDashboard returns the same dashboard shape restricted to tasks
// assigned to the caller.
func (h *DashboardHandler) GetUserDashboard(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	data, err := h.dashboardService.Personal(user.ID)
	if err != nil {
		apierrors.StoreFailure(c, "Failed to build dashboard", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardResponse(*data))
}
