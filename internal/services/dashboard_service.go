package services

import (
	"fmt"
	"time"

	"github.com/clearcove/task-tracker-api/internal/constants"
	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/repository"
	"github.com/clearcove/task-tracker-api/internal/scope"
)

// Statistics is the headline block of a dashboard.
type Statistics struct {
	TotalTasks     int64
	PendingTasks   int64
	CompletedTasks int64
	OverdueTasks   int64
}

// DashboardData aggregates everything a dashboard view needs. The same
// composition serves the organization dashboard (scope filter) and the
// personal dashboard (assigned-to-self filter).
type DashboardData struct {
	Statistics     Statistics
	Distribution   StatusCounts
	PriorityLevels PriorityCounts
	RecentTasks    []models.Task
}

// DashboardService composes the aggregation queries for dashboard views.
type DashboardService struct {
	taskRepo    repository.TaskRepository
	taskService *TaskService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(taskRepo repository.TaskRepository, taskService *TaskService) *DashboardService {
	return &DashboardService{
		taskRepo:    taskRepo,
		taskService: taskService,
	}
}

// Organization builds the dashboard for the resolved scope. Every number
// and the recent list run under the identical filter.
func (s *DashboardService) Organization(sc scope.Scope) (*DashboardData, error) {
	return s.build(repository.TaskFilter{Scope: sc})
}

// Personal builds the dashboard over tasks assigned to the user, with no
// organization constraint and regardless of rank.
func (s *DashboardService) Personal(userID uint64) (*DashboardData, error) {
	filter := repository.TaskFilter{
		// The visibility predicate here is purely "assigned to me"; the
		// unrestricted scope carries no filter of its own.
		Scope:          scope.Scope{Kind: scope.Unrestricted, UserID: userID},
		AssignedUserID: &userID,
	}
	return s.build(filter)
}

func (s *DashboardService) build(filter repository.TaskFilter) (*DashboardData, error) {
	distribution, err := s.taskService.StatusCounts(filter)
	if err != nil {
		return nil, err
	}

	priorities, err := s.taskService.PriorityCounts(filter)
	if err != nil {
		return nil, err
	}

	overdue, err := s.taskRepo.OverdueCount(filter, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	recent, err := s.taskRepo.Recent(filter, constants.RecentTaskLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent tasks: %w", err)
	}

	return &DashboardData{
		Statistics: Statistics{
			TotalTasks:     distribution.All,
			PendingTasks:   distribution.Pending,
			CompletedTasks: distribution.Completed,
			OverdueTasks:   overdue,
		},
		Distribution:   distribution,
		PriorityLevels: priorities,
		RecentTasks:    recent,
	}, nil
}
