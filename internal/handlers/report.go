package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/clearcove/task-tracker-api/internal/errors"
	"github.com/clearcove/task-tracker-api/internal/middleware"
	"github.com/clearcove/task-tracker-api/internal/scope"
	"github.com/clearcove/task-tracker-api/internal/services"
)

// ReportHandler coordinates CSV export HTTP handlers.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ExportTasks streams a CSV of every task visible to the caller.
func (h *ReportHandler) ExportTasks(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	sc := scope.Resolve(scope.FromUser(user))
	data, err := h.reportService.ExportTasks(sc)
	if err != nil {
		apierrors.StoreFailure(c, "Failed to export tasks", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="tasks_report.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportUsers streams a CSV of every visible user with their assigned-task
// totals.
func (h *ReportHandler) ExportUsers(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	sc := scope.Resolve(scope.FromUser(user))
	data, err := h.reportService.ExportUsers(sc)
	if err != nil {
		apierrors.StoreFailure(c, "Failed to export users", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="users_report.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
