package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/clearcove/task-tracker-api/internal/repository"
	"github.com/clearcove/task-tracker-api/internal/scope"
)

// ReportService produces CSV exports of tasks and members.
type ReportService struct {
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	taskService *TaskService
}

// NewReportService creates a new ReportService.
func NewReportService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, taskService *TaskService) *ReportService {
	return &ReportService{
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		taskService: taskService,
	}
}

// ExportTasks renders every task visible under the scope as CSV.
func (s *ReportService) ExportTasks(sc scope.Scope) ([]byte, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{Scope: sc}, "Assignments", "Assignments.User")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for export: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Task ID", "Title", "Description", "Priority", "Status", "Progress", "Due Date", "Assigned To"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for _, task := range tasks {
		dueDate := ""
		if task.DueDate != nil {
			dueDate = task.DueDate.Format("2006-01-02")
		}

		assignees := make([]string, 0, len(task.Assignments))
		for _, a := range task.Assignments {
			assignees = append(assignees, a.User.Name)
		}

		record := []string{
			strconv.FormatUint(task.ID, 10),
			task.Title,
			task.Description,
			string(task.Priority),
			string(task.Status),
			strconv.Itoa(task.Progress),
			dueDate,
			strings.Join(assignees, ", "),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportUsers renders every visible user as CSV, each row carrying the
// per-status totals of the tasks assigned to that user under the scope.
func (s *ReportService) ExportUsers(sc scope.Scope) ([]byte, error) {
	users, err := s.userRepo.List(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for export: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"User ID", "Name", "Email", "Total Tasks", "Pending", "In Progress", "Completed"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for _, user := range users {
		userID := user.ID
		counts, err := s.taskService.StatusCounts(repository.TaskFilter{
			Scope:          sc,
			AssignedUserID: &userID,
		})
		if err != nil {
			return nil, err
		}

		record := []string{
			strconv.FormatUint(user.ID, 10),
			user.Name,
			user.Email,
			strconv.FormatInt(counts.All, 10),
			strconv.FormatInt(counts.Pending, 10),
			strconv.FormatInt(counts.InProgress, 10),
			strconv.FormatInt(counts.Completed, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.Bytes(), nil
}
