package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses is the closed set of statuses, used to zero-fill aggregations.
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// TaskPriorities is the closed set of priorities, used to zero-fill aggregations.
var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

type Task struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Priority       TaskPriority   `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	Status         TaskStatus     `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Progress       int            `gorm:"not null;default:0" json:"progress"`
	DueDate        *time.Time     `gorm:"index" json:"due_date"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	CreatedByID    uint64         `gorm:"not null;index" json:"created_by_id"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedBy    User             `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Organization Organization     `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Assignments  []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
	Checklist    []ChecklistItem  `gorm:"foreignKey:TaskID" json:"checklist,omitempty"`
	Attachments  []TaskAttachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}

// IsAssignedTo reports whether the user appears in the task's assignee set.
// Assignments must be preloaded.
func (t *Task) IsAssignedTo(userID uint64) bool {
	for _, a := range t.Assignments {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// ChecklistItem is one sub-item of a task's ordered checklist.
type ChecklistItem struct {
	ID        uint64 `gorm:"primarykey" json:"-"`
	TaskID    uint64 `gorm:"not null;index" json:"-"`
	Position  int    `gorm:"not null" json:"-"`
	Text      string `gorm:"type:text;not null" json:"text"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`
}

// TaskAttachment is a URL reference to an uploaded file. Upload itself is
// handled by an external collaborator; only the link is stored here.
type TaskAttachment struct {
	ID     uint64 `gorm:"primarykey" json:"-"`
	TaskID uint64 `gorm:"not null;index" json:"-"`
	URL    string `gorm:"type:varchar(1024);not null" json:"url"`
}
