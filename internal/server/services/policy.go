package services

import (
	"fmt"
	"time"

	"taskdesk/internal/common"
	"taskdesk/internal/server/models"
	"taskdesk/internal/server/repositories/tasks"
)

// Task authorization is a pure decision over (actor, task, requested change).
// The creator (assignedBy) holds full mutation rights; the assignee may only
// move the status. Nobody else may touch the task.

func isCreator(actorID string, task *models.Task) bool {
	return task.AssignedBy == actorID
}

func isAssignee(actorID string, task *models.Task) bool {
	return task.AssignedTo != nil && *task.AssignedTo == actorID
}

func touchesBeyondStatus(change tasks.Change) bool {
	return change.Name != nil || change.Details != nil || change.StartDate != nil ||
		change.EndDate != nil || change.AssignedTo != nil
}

// authorizeUpdate decides whether actor may apply change to task.
func authorizeUpdate(actorID string, task *models.Task, change tasks.Change) error {
	creator := isCreator(actorID, task)
	assignee := isAssignee(actorID, task)

	if !creator && !assignee {
		return fmt.Errorf("%w: you don't have permission to update this task", common.ErrorForbidden)
	}
	if !creator && touchesBeyondStatus(change) {
		return fmt.Errorf("%w: you can only update the status of this task", common.ErrorForbidden)
	}
	return nil
}

// authorizeDelete allows only the creator to delete a task.
func authorizeDelete(actorID string, task *models.Task) error {
	if !isCreator(actorID, task) {
		return fmt.Errorf("%w: you don't have permission to delete this task", common.ErrorForbidden)
	}
	return nil
}

// authorizeAssign allows only the creator to (re)assign a task.
func authorizeAssign(actorID string, task *models.Task) error {
	if !isCreator(actorID, task) {
		return fmt.Errorf("%w: you don't have permission to assign this task", common.ErrorForbidden)
	}
	return nil
}

// resolveDateRange returns the start/end pair the task would have after the
// change, falling back to the existing value for the side not supplied.
func resolveDateRange(task *models.Task, change tasks.Change) (time.Time, time.Time) {
	start, end := task.StartDate, task.EndDate
	if change.StartDate != nil {
		start = *change.StartDate
	}
	if change.EndDate != nil {
		end = *change.EndDate
	}
	return start, end
}

func validateDateRange(start, end time.Time) error {
	if start.After(end) {
		return fmt.Errorf("%w: end date cannot be before start date", common.ErrorValidation)
	}
	return nil
}
