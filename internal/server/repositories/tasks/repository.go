// Package tasks declares the repository contract for durable task records.
package tasks

import (
	"context"
	"time"

	"taskdesk/internal/server/models"
)

// Filter narrows a task listing. Nil fields are ignored. Date boundaries are
// inclusive: StartFrom filters start_date >=, EndTo filters end_date <=.
type Filter struct {
	Status     *models.TaskStatus
	StartFrom  *time.Time
	EndTo      *time.Time
	AssignedTo *string
	AssignedBy *string
}

// Change is a partial update; nil fields are left untouched. Updating only
// the supplied columns gives last-writer-wins per field when creator and
// assignee race.
type Change struct {
	Name       *string
	Details    *string
	StartDate  *time.Time
	EndDate    *time.Time
	AssignedTo *string
	Status     *models.TaskStatus
}

// Empty reports whether the change touches nothing.
func (c Change) Empty() bool {
	return c.Name == nil && c.Details == nil && c.StartDate == nil &&
		c.EndDate == nil && c.AssignedTo == nil && c.Status == nil
}

// Repository defines persistence operations over task records.
type Repository interface {
	// Create inserts a new task and returns it with storage timestamps set.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// FindByID returns the task with the given id, or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// Find returns tasks matching the filter, newest first.
	Find(ctx context.Context, filter Filter) ([]*models.Task, error)

	// Update applies the non-nil fields of change and returns the resulting
	// task, or common.ErrorNotFound if the task is gone.
	Update(ctx context.Context, id string, change Change) (*models.Task, error)

	// Delete removes the task, or returns common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
}
