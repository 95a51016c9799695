// internal/domain/models/task.go
package models

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskFinished   TaskStatus = "finished"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskProcessing, TaskFinished:
		return true
	}
	return false
}

// TaskPriority ranks tasks.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task lives at users/{uid}/todos/{id}.
type Task struct {
	ID         string       `bson:"_id" json:"id"`
	Title      string       `bson:"title" json:"title"`
	Notes      string       `bson:"notes,omitempty" json:"notes,omitempty"`
	DueDate    *time.Time   `bson:"due_date,omitempty" json:"due_date,omitempty"`
	ReminderAt *time.Time   `bson:"reminder_at,omitempty" json:"reminder_at,omitempty"`
	Priority   TaskPriority `bson:"priority" json:"priority"`
	Status     TaskStatus   `bson:"status" json:"status"`
	CreatedAt  time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `bson:"updated_at" json:"updated_at"`
}

// StatusChange lives at users/{uid}/todos/{taskId}/history/{id}. FromStatus
// is nil for the record written when the task is created.
type StatusChange struct {
	ID         string      `bson:"_id" json:"id"`
	FromStatus *TaskStatus `bson:"from_status" json:"from_status"`
	ToStatus   TaskStatus  `bson:"to_status" json:"to_status"`
	ChangedAt  time.Time   `bson:"changed_at" json:"changed_at"`
}
