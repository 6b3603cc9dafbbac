package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clearcove/task-tracker-api/internal/dto"
	apierrors "github.com/clearcove/task-tracker-api/internal/errors"
	"github.com/clearcove/task-tracker-api/internal/middleware"
	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/scope"
	"github.com/clearcove/task-tracker-api/internal/services"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks visible to the current user, optionally
// narrowed by status, with a status summary over the full visible set.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var status *models.TaskStatus
	if raw := c.Query("status"); raw != "" {
		s := models.TaskStatus(raw)
		status = &s
	}

	sc := scope.Resolve(scope.FromUser(user))
	tasks, summary, err := h.taskService.ListTasks(sc, status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:         dto.ToTaskDTOs(tasks),
		StatusSummary: dto.ToStatusSummaryDTO(summary),
	})
}

// GetTask returns a task by ID. Tasks outside the caller's visibility are
// reported as not found.
func (h *TaskHandler) GetTask(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	sc := scope.Resolve(scope.FromUser(user))
	task, err := h.taskService.GetTask(sc, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// taskPayload is the request shape shared by create and update.
type taskPayload struct {
	Title       string                        `json:"title"`
	Description string                        `json:"description"`
	Priority    models.TaskPriority           `json:"priority"`
	DueDate     *time.Time                    `json:"due_date"`
	AssignedTo  []services.AssigneeRef        `json:"assigned_to"`
	Attachments []string                      `json:"attachments"`
	Checklist   []services.ChecklistItemInput `json:"todo_checklist"`
}

// CreateTask creates a task in the caller's organization.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req taskPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(user, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Attachments: req.Attachments,
		Checklist:   req.Checklist,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task. Empty fields are left
// unchanged.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req taskPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sc := scope.Resolve(scope.FromUser(user))
	task, err := h.taskService.UpdateTask(sc, user, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Attachments: req.Attachments,
		Checklist:   req.Checklist,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	sc := scope.Resolve(scope.FromUser(user))
	if err := h.taskService.DeleteTask(sc, user, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// UpdateStatus sets a task's status directly. Completion cascades to the
// checklist.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type StatusRequest struct {
		Status models.TaskStatus `json:"status"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateStatus(user, taskID, req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateChecklist replaces a task's checklist and re-derives progress and
// status from the new items.
func (h *TaskHandler) UpdateChecklist(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type ChecklistRequest struct {
		Checklist []services.ChecklistItemInput `json:"todo_checklist"`
	}

	var req ChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.ReplaceChecklist(user, taskID, req.Checklist)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskForbidden):
		apierrors.Forbidden(c, "Not authorized to modify this task")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "Title is required")
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, "Invalid status value")
	case errors.Is(err, services.ErrNoOrganization):
		apierrors.BadRequest(c, "You must belong to an organization")
	case errors.Is(err, services.ErrAssigneesRequired):
		apierrors.BadRequest(c, "assigned_to must be a list of users")
	case errors.Is(err, services.ErrCrossOrganizationAssignment):
		apierrors.Forbidden(c, "Assignees must belong to your organization")
	default:
		apierrors.StoreFailure(c, "", err)
	}
}
