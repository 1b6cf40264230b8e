package models

import "time"

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is one of the known statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work created by AssignedBy and optionally delegated to
// AssignedTo. StartDate never exceeds EndDate; the invariant is enforced on
// create and on every date-changing update.
type Task struct {
	ID         string
	Name       string
	Details    string
	StartDate  time.Time
	EndDate    time.Time
	AssignedTo *string
	AssignedBy string
	Status     TaskStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
