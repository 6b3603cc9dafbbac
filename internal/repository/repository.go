package repository

import (
	"time"

	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/scope"
)

// TaskFilter holds the visibility scope plus optional extra constraints for
// task queries. The same filter values feed lists, single fetches and
// aggregations so the visible set can never drift between endpoints.
type TaskFilter struct {
	Scope          scope.Scope
	Status         *models.TaskStatus
	AssignedUserID *uint64
}

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	// Create persists a new task with its checklist, attachments and
	// assignments.
	Create(task *models.Task) error

	// FindByID finds a task by bare ID with optional preloading.
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindInScope finds a task by ID within the given visibility scope.
	// Out-of-scope tasks are reported as not found.
	FindInScope(sc scope.Scope, id uint64, preload ...string) (*models.Task, error)

	// List retrieves all tasks matching the filter, newest first.
	List(filter TaskFilter, preload ...string) ([]models.Task, error)

	// Update persists the task's own columns, leaving associations alone.
	Update(task *models.Task) error

	// Delete removes a task together with its assignments, checklist and
	// attachments.
	Delete(id uint64) error

	// ReplaceAssignees replaces the task's assignee set.
	ReplaceAssignees(taskID uint64, userIDs []uint64) error

	// ReplaceChecklist replaces the task's checklist with the given ordered
	// items (TaskID and Position already set).
	ReplaceChecklist(taskID uint64, items []models.ChecklistItem) error

	// CompleteChecklist marks every checklist item of the task completed.
	CompleteChecklist(taskID uint64) error

	// ReplaceAttachments replaces the task's attachment list.
	ReplaceAttachments(taskID uint64, attachments []models.TaskAttachment) error

	// Count counts tasks matching the filter.
	Count(filter TaskFilter) (int64, error)

	// GroupCountByStatus returns per-status counts under the filter. Only
	// statuses present in the store appear; callers zero-fill.
	GroupCountByStatus(filter TaskFilter) (map[models.TaskStatus]int64, error)

	// GroupCountByPriority returns per-priority counts under the filter.
	// Only priorities present in the store appear; callers zero-fill.
	GroupCountByPriority(filter TaskFilter) (map[models.TaskPriority]int64, error)

	// Recent returns the most recently created tasks under the filter,
	// projected to summary columns.
	Recent(filter TaskFilter, limit int) ([]models.Task, error)

	// OverdueCount counts not-completed tasks due before the given time.
	OverdueCount(filter TaskFilter, now time.Time) (int64, error)

	// CountUsersInOrganization counts how many of the given user IDs belong
	// to the organization, per the stored user records.
	CountUsersInOrganization(userIDs []uint64, organizationID uint64) (int64, error)
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user.
	Create(user *models.User) error

	// FindByID finds a user by ID.
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email.
	FindByEmail(email string) (*models.User, error)

	// List returns all users visible under the scope.
	List(sc scope.Scope) ([]models.User, error)

	// ListByOrganization returns the users of an organization.
	ListByOrganization(organizationID uint64) ([]models.User, error)

	// Update updates a user.
	Update(user *models.User) error

	// Delete soft deletes a user.
	Delete(id uint64) error
}

// OrganizationRepository defines the interface for organization data access.
type OrganizationRepository interface {
	// Create creates a new organization.
	Create(org *models.Organization) error

	// FindByID finds an organization by ID, preloading the given relations.
	FindByID(id uint64, preload ...string) (*models.Organization, error)

	// FindByInviteCode finds an organization by invite code.
	FindByInviteCode(code string) (*models.Organization, error)

	// Update updates an organization.
	Update(org *models.Organization) error
}
