package models

import "time"

// TaskStatus is the workflow label of a task. The API does not restrict it to the
// constants below; they are the labels the board UI uses.
type TaskStatus string

const (
	StatusToDo           TaskStatus = "To Do"
	StatusWorkInProgress TaskStatus = "Work In Progress"
	StatusUnderReview    TaskStatus = "Under Review"
	StatusCompleted      TaskStatus = "Completed"
)

// TaskPriority is the priority label of a task.
type TaskPriority string

const (
	PriorityUrgent  TaskPriority = "Urgent"
	PriorityHigh    TaskPriority = "High"
	PriorityMedium  TaskPriority = "Medium"
	PriorityLow     TaskPriority = "Low"
	PriorityBacklog TaskPriority = "Backlog"
)

// Relations that can be eager-loaded alongside a task.
const (
	RelationAuthor      = "Author"
	RelationAssignee    = "Assignee"
	RelationComments    = "Comments"
	RelationAttachments = "Attachments"
)

// Task represents a unit of work inside a project.
// Optional columns are pointers so that absence is stored as NULL.
type Task struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	Title          string        `json:"title" gorm:"not null"`
	Description    *string       `json:"description"`
	Status         *TaskStatus   `json:"status"`
	Priority       *TaskPriority `json:"priority"`
	Tags           *string       `json:"tags"`
	StartDate      *time.Time    `json:"startDate" gorm:"column:start_date"`
	DueDate        *time.Time    `json:"dueDate" gorm:"column:due_date"`
	Points         *int          `json:"points"`
	ProjectID      uint          `json:"projectId" gorm:"column:project_id;not null;index"`
	AuthorUserID   uint          `json:"authorUserId" gorm:"column:author_user_id;not null;index"`
	AssignedUserID *uint         `json:"assignedUserId" gorm:"column:assigned_user_id;index"`

	Project     *Project     `json:"-" gorm:"foreignKey:ProjectID;references:ID"`
	Author      *User        `json:"author,omitempty" gorm:"foreignKey:AuthorUserID;references:ID"`
	Assignee    *User        `json:"assignee,omitempty" gorm:"foreignKey:AssignedUserID;references:ID"`
	Comments    []Comment    `json:"comments,omitempty" gorm:"foreignKey:TaskID"`
	Attachments []Attachment `json:"attachments,omitempty" gorm:"foreignKey:TaskID"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// InvolvesUser reports whether the user authored or is assigned to the task.
func (t Task) InvolvesUser(userID uint) bool {
	if t.AuthorUserID == userID {
		return true
	}
	return t.AssignedUserID != nil && *t.AssignedUserID == userID
}
