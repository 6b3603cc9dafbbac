package dto

import (
	"time"

	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// ChecklistItemDTO represents a checklist entry in API responses
type ChecklistItemDTO struct {
	ID        uint64 `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// AttachmentDTO represents a task attachment in API responses
type AttachmentDTO struct {
	ID  uint64 `json:"id"`
	URL string `json:"url"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                 uint64              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Priority           models.TaskPriority `json:"priority"`
	Status             models.TaskStatus   `json:"status"`
	Progress           int                 `json:"progress"`
	DueDate            *time.Time          `json:"due_date"`
	OrganizationID     uint64              `json:"organization_id"`
	CreatedByID        uint64              `json:"created_by_id"`
	CreatedBy          *UserDTO            `json:"created_by,omitempty"`
	AssignedTo         []UserDTO           `json:"assigned_to"`
	Checklist          []ChecklistItemDTO  `json:"todo_checklist"`
	Attachments        []AttachmentDTO     `json:"attachments"`
	CompletedTodoCount int                 `json:"completed_todo_count"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// TaskSummaryDTO represents a task in dashboard and recent lists (minimal data)
type TaskSummaryDTO struct {
	ID        uint64              `json:"id"`
	Title     string              `json:"title"`
	Status    models.TaskStatus   `json:"status"`
	Priority  models.TaskPriority `json:"priority"`
	DueDate   *time.Time          `json:"due_date"`
	CreatedAt time.Time           `json:"created_at"`
}

// StatusSummaryDTO carries per-status task counts alongside list responses
type StatusSummaryDTO struct {
	All        int64 `json:"all"`
	Pending    int64 `json:"pendingTasks"`
	InProgress int64 `json:"inProgressTasks"`
	Completed  int64 `json:"completedTasks"`
}

// TaskListResponse represents the task list payload
type TaskListResponse struct {
	Tasks         []TaskDTO        `json:"tasks"`
	StatusSummary StatusSummaryDTO `json:"statusSummary"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
	}
}

// ToTaskDTO converts a task model to DTO
func ToTaskDTO(task models.Task) TaskDTO {
	assignees := make([]UserDTO, len(task.Assignments))
	for i, a := range task.Assignments {
		assignees[i] = ToUserDTO(a.User)
	}

	checklist := make([]ChecklistItemDTO, len(task.Checklist))
	completed := 0
	for i, item := range task.Checklist {
		checklist[i] = ChecklistItemDTO{
			ID:        item.ID,
			Text:      item.Text,
			Completed: item.Completed,
		}
		if item.Completed {
			completed++
		}
	}

	attachments := make([]AttachmentDTO, len(task.Attachments))
	for i, att := range task.Attachments {
		attachments[i] = AttachmentDTO{ID: att.ID, URL: att.URL}
	}

	dto := TaskDTO{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		Priority:           task.Priority,
		Status:             task.Status,
		Progress:           task.Progress,
		DueDate:            task.DueDate,
		OrganizationID:     task.OrganizationID,
		CreatedByID:        task.CreatedByID,
		AssignedTo:         assignees,
		Checklist:          checklist,
		Attachments:        attachments,
		CompletedTodoCount: completed,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
	if task.CreatedBy.ID != 0 {
		creator := ToUserDTO(task.CreatedBy)
		dto.CreatedBy = &creator
	}
	return dto
}

// ToTaskDTOs converts a slice of task models to DTOs
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToTaskSummaryDTOs converts task models to minimal summaries
func ToTaskSummaryDTOs(tasks []models.Task) []TaskSummaryDTO {
	dtos := make([]TaskSummaryDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = TaskSummaryDTO{
			ID:        task.ID,
			Title:     task.Title,
			Status:    task.Status,
			Priority:  task.Priority,
			DueDate:   task.DueDate,
			CreatedAt: task.CreatedAt,
		}
	}
	return dtos
}

// ToStatusSummaryDTO converts service status counts to the list summary
func ToStatusSummaryDTO(counts services.StatusCounts) StatusSummaryDTO {
	return StatusSummaryDTO{
		All:        counts.All,
		Pending:    counts.Pending,
		InProgress: counts.InProgress,
		Completed:  counts.Completed,
	}
}
