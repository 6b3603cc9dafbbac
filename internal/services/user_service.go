package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/repository"
	"github.com/clearcove/task-tracker-api/internal/scope"
)

// UserService handles user administration and member listings.
type UserService struct {
	userRepo    repository.UserRepository
	taskService *TaskService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, taskService *TaskService) *UserService {
	return &UserService{
		userRepo:    userRepo,
		taskService: taskService,
	}
}

// List returns the users visible under the scope.
func (s *UserService) List(sc scope.Scope) ([]models.User, error) {
	users, err := s.userRepo.List(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// MemberWithTaskCounts pairs an organization member with the per-status
// totals of their assigned tasks.
type MemberWithTaskCounts struct {
	User   models.User
	Counts StatusCounts
}

// OrganizationMembers lists the members of the actor's organization, each
// annotated with assigned-task counts under the organization filter.
func (s *UserService) OrganizationMembers(actor *models.User) ([]MemberWithTaskCounts, error) {
	if actor.OrganizationID == nil {
		return nil, ErrNoOrganization
	}

	users, err := s.userRepo.ListByOrganization(*actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization members: %w", err)
	}

	orgScope := scope.Scope{
		Kind:           scope.OrganizationWide,
		UserID:         actor.ID,
		OrganizationID: *actor.OrganizationID,
	}

	members := make([]MemberWithTaskCounts, len(users))
	for i, u := range users {
		userID := u.ID
		counts, err := s.taskService.StatusCounts(repository.TaskFilter{
			Scope:          orgScope,
			AssignedUserID: &userID,
		})
		if err != nil {
			return nil, err
		}
		members[i] = MemberWithTaskCounts{User: u, Counts: counts}
	}

	return members, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Delete removes a user account.
func (s *UserService) Delete(id uint64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
