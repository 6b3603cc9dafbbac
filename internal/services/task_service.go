package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/repository"
	"github.com/clearcove/task-tracker-api/internal/scope"
)

var (
	ErrTaskNotFound                = errors.New("task not found")
	ErrTaskForbidden               = errors.New("not authorized to modify this task")
	ErrTitleRequired               = errors.New("title is required")
	ErrInvalidStatus               = errors.New("unknown task status")
	ErrNoOrganization              = errors.New("user does not belong to an organization")
	ErrAssigneesRequired           = errors.New("assignees must be supplied as a list")
	ErrCrossOrganizationAssignment = errors.New("users must belong to the same organization")
)

// taskPreloads is the full relation set returned by single-task operations.
var taskPreloads = []string{"CreatedBy", "Assignments", "Assignments.User", "Checklist", "Attachments"}

// TaskService owns task CRUD, the status/progress lifecycle and assignment
// validation.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// AssigneeRef is one candidate assignee as supplied by the caller. The
// organization ID is a client echo and is never trusted: membership is
// re-derived from the store during validation.
type AssigneeRef struct {
	UserID         uint64 `json:"user_id" binding:"required"`
	OrganizationID uint64 `json:"org_id"`
}

// ChecklistItemInput is one checklist entry as supplied by the caller.
type ChecklistItemInput struct {
	Text      string `json:"text" binding:"required"`
	Completed bool   `json:"completed"`
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssignedTo  []AssigneeRef
	Attachments []string
	Checklist   []ChecklistItemInput
}

// UpdateTaskInput represents a partial task update. Empty or absent values
// leave the corresponding field unchanged; this falsy-skip behavior is
// deliberate and relied upon by clients.
type UpdateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssignedTo  []AssigneeRef
	Attachments []string
	Checklist   []ChecklistItemInput
}

// StatusCounts holds per-status totals with every canonical status present.
type StatusCounts struct {
	All        int64
	Pending    int64
	InProgress int64
	Completed  int64
}

// PriorityCounts holds per-priority totals with every canonical priority present.
type PriorityCounts struct {
	Low    int64
	Medium int64
	High   int64
}

// ListTasks returns the tasks visible under the scope, optionally narrowed
// by status, together with a status summary computed under the same scope.
func (s *TaskService) ListTasks(sc scope.Scope, status *models.TaskStatus) ([]models.Task, StatusCounts, error) {
	filter := repository.TaskFilter{Scope: sc, Status: status}

	tasks, err := s.taskRepo.List(filter, "Assignments", "Assignments.User", "Checklist")
	if err != nil {
		return nil, StatusCounts{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	// The summary ignores the status narrowing but shares the scope filter,
	// so counts always describe the same visible set as an unfiltered list.
	summary, err := s.StatusCounts(repository.TaskFilter{Scope: sc})
	if err != nil {
		return nil, StatusCounts{}, err
	}

	return tasks, summary, nil
}

// GetTask returns a task by ID within the scope, fully populated. Tasks
// outside the scope are reported as not found, never as forbidden.
func (s *TaskService) GetTask(sc scope.Scope, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindInScope(sc, taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a task in the actor's organization. The actor must be
// an organization admin (enforced at the route); assignees are validated
// against the actor's organization.
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if actor.OrganizationID == nil {
		return nil, ErrNoOrganization
	}
	// Creation requires an explicit assignee list; an empty one is fine but
	// an absent one is a malformed request. Updates treat absent as skip.
	if input.AssignedTo == nil {
		return nil, ErrAssigneesRequired
	}

	assigneeIDs, err := s.validateAssignment(input.AssignedTo, actor)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		DueDate:        input.DueDate,
		OrganizationID: *actor.OrganizationID,
		CreatedByID:    actor.ID,
		Checklist:      buildChecklist(0, input.Checklist),
		Attachments:    buildAttachments(0, input.Attachments),
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.taskRepo.ReplaceAssignees(task.ID, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to assign users to task: %w", err)
	}

	return s.reload(task.ID)
}

// UpdateTask applies a partial update to a task within the scope. Omitted
// and empty fields retain their prior values.
func (s *TaskService) UpdateTask(sc scope.Scope, actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindInScope(sc, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != "" {
		task.Title = input.Title
	}
	if input.Description != "" {
		task.Description = input.Description
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if input.AssignedTo != nil {
		assigneeIDs, err := s.validateAssignment(input.AssignedTo, actor)
		if err != nil {
			return nil, err
		}
		if err := s.taskRepo.ReplaceAssignees(task.ID, assigneeIDs); err != nil {
			return nil, fmt.Errorf("failed to update assignees: %w", err)
		}
	}

	// Checklist supplied through the generic update is stored as-is; the
	// progress/status derivation belongs to the checklist entry point only.
	if input.Checklist != nil {
		if err := s.taskRepo.ReplaceChecklist(task.ID, buildChecklist(task.ID, input.Checklist)); err != nil {
			return nil, fmt.Errorf("failed to update checklist: %w", err)
		}
	}
	if input.Attachments != nil {
		attachments := buildAttachments(task.ID, input.Attachments)
		if err := s.taskRepo.ReplaceAttachments(task.ID, attachments); err != nil {
			return nil, fmt.Errorf("failed to update attachments: %w", err)
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.reload(task.ID)
}

// DeleteTask removes a task. The fetch runs through the same scope as reads
// and the actor must hold admin rank.
func (s *TaskService) DeleteTask(sc scope.Scope, actor *models.User, taskID uint64) error {
	task, err := s.taskRepo.FindInScope(sc, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !actor.HasAdminRank() {
		return ErrTaskForbidden
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// UpdateStatus sets a task's status directly. Allowed for assignees and for
// admin rank. Completing a task cascades one way: every checklist item is
// marked completed and progress is pinned to 100. Other statuses are stored
// as-is with no checklist side effects.
func (s *TaskService) UpdateStatus(actor *models.User, taskID uint64, status models.TaskStatus) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !task.IsAssignedTo(actor.ID) && !actor.HasAdminRank() {
		return nil, ErrTaskForbidden
	}

	if status != "" {
		if !validStatus(status) {
			return nil, ErrInvalidStatus
		}
		task.Status = status
	}

	if task.Status == models.TaskStatusCompleted {
		if err := s.taskRepo.CompleteChecklist(task.ID); err != nil {
			return nil, fmt.Errorf("failed to complete checklist: %w", err)
		}
		task.Progress = 100
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return s.reload(task.ID)
}

// ReplaceChecklist replaces a task's checklist wholesale and re-derives
// progress and status from the new items. Allowed for assignees and for
// admin rank. The derivation always runs and overrides any previously set
// status; it never triggers the reverse status-to-checklist cascade.
func (s *TaskService) ReplaceChecklist(actor *models.User, taskID uint64, items []ChecklistItemInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !task.IsAssignedTo(actor.ID) && !actor.HasAdminRank() {
		return nil, ErrTaskForbidden
	}

	if err := s.taskRepo.ReplaceChecklist(task.ID, buildChecklist(task.ID, items)); err != nil {
		return nil, fmt.Errorf("failed to replace checklist: %w", err)
	}

	task.Progress = checklistProgress(items)
	task.Status = statusForProgress(task.Progress)

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.reload(task.ID)
}

// StatusCounts returns per-status totals under the filter with every
// canonical status present, merged over the store's sparse grouped counts.
func (s *TaskService) StatusCounts(filter repository.TaskFilter) (StatusCounts, error) {
	grouped, err := s.taskRepo.GroupCountByStatus(filter)
	if err != nil {
		return StatusCounts{}, fmt.Errorf("failed to count tasks by status: %w", err)
	}

	counts := StatusCounts{
		Pending:    grouped[models.TaskStatusPending],
		InProgress: grouped[models.TaskStatusInProgress],
		Completed:  grouped[models.TaskStatusCompleted],
	}
	counts.All = counts.Pending + counts.InProgress + counts.Completed
	return counts, nil
}

// PriorityCounts returns per-priority totals under the filter with every
// canonical priority present.
func (s *TaskService) PriorityCounts(filter repository.TaskFilter) (PriorityCounts, error) {
	grouped, err := s.taskRepo.GroupCountByPriority(filter)
	if err != nil {
		return PriorityCounts{}, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	return PriorityCounts{
		Low:    grouped[models.TaskPriorityLow],
		Medium: grouped[models.TaskPriorityMedium],
		High:   grouped[models.TaskPriorityHigh],
	}, nil
}

// validateAssignment checks that every candidate belongs to the actor's
// organization and returns the deduplicated user IDs to store. Membership
// is resolved from the store; the organization ID echoed on each candidate
// is discarded.
func (s *TaskService) validateAssignment(candidates []AssigneeRef, actor *models.User) ([]uint64, error) {
	if actor.OrganizationID == nil {
		return nil, ErrNoOrganization
	}

	userIDs := make([]uint64, 0, len(candidates))
	seen := make(map[uint64]struct{}, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.UserID]; ok {
			continue
		}
		seen[c.UserID] = struct{}{}
		userIDs = append(userIDs, c.UserID)
	}

	if len(userIDs) == 0 {
		return userIDs, nil
	}

	count, err := s.taskRepo.CountUsersInOrganization(userIDs, *actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify assignees: %w", err)
	}
	if count != int64(len(userIDs)) {
		return nil, ErrCrossOrganizationAssignment
	}

	return userIDs, nil
}

func (s *TaskService) reload(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}

// checklistProgress derives the completion percentage of a checklist:
// round(100 * completed / total), 0 for an empty list.
func checklistProgress(items []ChecklistItemInput) int {
	if len(items) == 0 {
		return 0
	}

	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(items)) * 100))
}

func validStatus(status models.TaskStatus) bool {
	for _, s := range models.TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// statusForProgress derives a status from a progress value.
func statusForProgress(progress int) models.TaskStatus {
	switch {
	case progress == 100:
		return models.TaskStatusCompleted
	case progress > 0:
		return models.TaskStatusInProgress
	default:
		return models.TaskStatusPending
	}
}

func buildChecklist(taskID uint64, items []ChecklistItemInput) []models.ChecklistItem {
	if len(items) == 0 {
		return nil
	}
	checklist := make([]models.ChecklistItem, len(items))
	for i, item := range items {
		checklist[i] = models.ChecklistItem{
			TaskID:    taskID,
			Position:  i,
			Text:      item.Text,
			Completed: item.Completed,
		}
	}
	return checklist
}

func buildAttachments(taskID uint64, urls []string) []models.TaskAttachment {
	if len(urls) == 0 {
		return nil
	}
	attachments := make([]models.TaskAttachment, len(urls))
	for i, url := range urls {
		attachments[i] = models.TaskAttachment{TaskID: taskID, URL: url}
	}
	return attachments
}
