package httpapi

import (
	"time"

	"taskdesk/internal/server/models"
)

// taskView is the wire representation of a task.
type taskView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Details    string    `json:"details"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	AssignedTo *string   `json:"assignedTo"`
	AssignedBy string    `json:"assignedBy"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newTaskView(task *models.Task) taskView {
	return taskView{
		ID:         task.ID,
		Name:       task.Name,
		Details:    task.Details,
		StartDate:  task.StartDate,
		EndDate:    task.EndDate,
		AssignedTo: task.AssignedTo,
		AssignedBy: task.AssignedBy,
		Status:     string(task.Status),
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
}

func newTaskViews(tasks []*models.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t))
	}
	return views
}
