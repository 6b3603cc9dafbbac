package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/scope"
)

// GormTaskRepository is a GORM implementation of TaskRepository.
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// query builds the base task query for a filter.
func (r *GormTaskRepository) query(filter TaskFilter) *gorm.DB {
	q := r.db.Model(&models.Task{}).Scopes(filter.Scope.TaskFilter)

	if filter.Status != nil {
		q = q.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssignedUserID != nil {
		q = q.Scopes(scope.AssignedTo(*filter.AssignedUserID))
	}

	return q
}

// applyPreload attaches the requested preloads; the checklist is always
// loaded in position order.
func applyPreload(q *gorm.DB, preload []string) *gorm.DB {
	for _, p := range preload {
		if p == "Checklist" {
			q = q.Preload(p, func(db *gorm.DB) *gorm.DB {
				return db.Order("checklist_items.position ASC")
			})
			continue
		}
		q = q.Preload(p)
	}
	return q
}

// Create persists a new task with its checklist, attachments and assignments.
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by bare ID with optional preloading.
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	if err := applyPreload(r.db, preload).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindInScope finds a task by ID within the visibility scope. A task outside
// the scope yields gorm.ErrRecordNotFound, indistinguishable from absence.
func (r *GormTaskRepository) FindInScope(sc scope.Scope, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	q := r.db.Model(&models.Task{}).Scopes(sc.TaskFilter).Where("tasks.id = ?", id)
	if err := applyPreload(q, preload).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves all tasks matching the filter, newest first.
func (r *GormTaskRepository) List(filter TaskFilter, preload ...string) ([]models.Task, error) {
	var tasks []models.Task
	q := applyPreload(r.query(filter), preload).Order("tasks.created_at DESC")
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists the task's own columns, leaving associations alone.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// Delete removes a task and its dependent rows.
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.ChecklistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

// ReplaceAssignees replaces the task's assignee set.
func (r *GormTaskRepository) ReplaceAssignees(taskID uint64, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		if len(userIDs) == 0 {
			return nil
		}

		assignments := make([]models.TaskAssignment, len(userIDs))
		for i, userID := range userIDs {
			assignments[i] = models.TaskAssignment{TaskID: taskID, UserID: userID}
		}
		return tx.Create(&assignments).Error
	})
}

// ReplaceChecklist replaces the task's checklist with the given ordered items.
func (r *GormTaskRepository) ReplaceChecklist(taskID uint64, items []models.ChecklistItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.ChecklistItem{}).Error; err != nil {
			return err
		}

		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// ReplaceAttachments replaces the task's attachment list.
func (r *GormTaskRepository) ReplaceAttachments(taskID uint64, attachments []models.TaskAttachment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAttachment{}).Error; err != nil {
			return err
		}

		if len(attachments) == 0 {
			return nil
		}
		return tx.Create(&attachments).Error
	})
}

// CompleteChecklist marks every checklist item of the task completed.
func (r *GormTaskRepository) CompleteChecklist(taskID uint64) error {
	return r.db.Model(&models.ChecklistItem{}).
		Where("task_id = ?", taskID).
		Update("completed", true).Error
}

// Count counts tasks matching the filter.
func (r *GormTaskRepository) Count(filter TaskFilter) (int64, error) {
	var count int64
	err := r.query(filter).Count(&count).Error
	return count, err
}

// GroupCountByStatus returns per-status counts under the filter.
func (r *GormTaskRepository) GroupCountByStatus(filter TaskFilter) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}

	err := r.query(filter).
		Select("tasks.status AS status, COUNT(*) AS count").
		Group("tasks.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// GroupCountByPriority returns per-priority counts under the filter.
func (r *GormTaskRepository) GroupCountByPriority(filter TaskFilter) (map[models.TaskPriority]int64, error) {
	var rows []struct {
		Priority models.TaskPriority
		Count    int64
	}

	err := r.query(filter).
		Select("tasks.priority AS priority, COUNT(*) AS count").
		Group("tasks.priority").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskPriority]int64, len(rows))
	for _, row := range rows {
		counts[row.Priority] = row.Count
	}
	return counts, nil
}

// Recent returns the most recently created tasks under the filter, projected
// to summary columns only.
func (r *GormTaskRepository) Recent(filter TaskFilter, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.query(filter).
		Select("tasks.id, tasks.title, tasks.status, tasks.priority, tasks.due_date, tasks.created_at").
		Order("tasks.created_at DESC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// OverdueCount counts not-completed tasks due before the given time.
func (r *GormTaskRepository) OverdueCount(filter TaskFilter, now time.Time) (int64, error) {
	var count int64
	err := r.query(filter).
		Where("tasks.status <> ?", models.TaskStatusCompleted).
		Where("tasks.due_date IS NOT NULL AND tasks.due_date < ?", now).
		Count(&count).Error
	return count, err
}

// CountUsersInOrganization counts how many of the given user IDs belong to
// the organization per the stored user records. This is the server-side
// membership check for assignment validation; client-asserted organization
// ids are never consulted.
func (r *GormTaskRepository) CountUsersInOrganization(userIDs []uint64, organizationID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("users.organization_id = ? AND users.id IN ?", organizationID, userIDs).
		Count(&count).Error
	return count, err
}
