package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/common"
	"taskdesk/internal/logging"
	"taskdesk/internal/server/models"
	"taskdesk/internal/server/repositories/repomanager"
	"taskdesk/internal/server/repositories/tasks"
)

// CreateTaskInput carries the fields of a task-creation request. AssignedTo
// is optional; when present it must reference an existing user.
type CreateTaskInput struct {
	Name       string
	Details    string
	StartDate  time.Time
	EndDate    time.Time
	AssignedTo *string
}

// ListFilter narrows a task listing at the service boundary.
type ListFilter struct {
	Status    *models.TaskStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// TaskService orchestrates task CRUD over the repositories and applies the
// creator/assignee authorization policy before any mutation.
type TaskService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *TaskService {
	return &TaskService{db: db, repos: repos, logger: logger.With("module", "task_service")}
}

// Create validates the input and inserts a task with the actor as creator.
func (s *TaskService) Create(ctx context.Context, actorID string, in CreateTaskInput) (*models.Task, error) {
	if anyBlank(in.Name, in.Details) || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: please provide all required task details", common.ErrorValidation)
	}
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	if in.AssignedTo != nil {
		if err := s.requireUser(ctx, *in.AssignedTo); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Details:    in.Details,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		AssignedTo: in.AssignedTo,
		AssignedBy: actorID,
		Status:     models.TaskStatusPending,
	}
	created, err := s.repos.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return created, nil
}

// List returns tasks matching the optional filters. Date boundaries are
// inclusive: StartDate filters start_date >=, EndDate filters end_date <=.
func (s *TaskService) List(ctx context.Context, filter ListFilter) ([]*models.Task, error) {
	if filter.Status != nil && !models.ValidTaskStatus(*filter.Status) {
		return nil, fmt.Errorf("%w: unknown task status %q", common.ErrorValidation, *filter.Status)
	}
	return s.find(ctx, tasks.Filter{
		Status:    filter.Status,
		StartFrom: filter.StartDate,
		EndTo:     filter.EndDate,
	})
}

// MyTasks returns tasks assigned to the actor.
func (s *TaskService) MyTasks(ctx context.Context, actorID string) ([]*models.Task, error) {
	return s.find(ctx, tasks.Filter{AssignedTo: &actorID})
}

// CreatedByMe returns tasks the actor created.
func (s *TaskService) CreatedByMe(ctx context.Context, actorID string) ([]*models.Task, error) {
	return s.find(ctx, tasks.Filter{AssignedBy: &actorID})
}

// Get returns a single task by id.
func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repos.Tasks(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: task not found", common.ErrorNotFound)
		}
		return nil, fmt.Errorf("error searching task: %w", err)
	}
	return task, nil
}

// Update applies a partial change under the authorization policy: the
// creator may change any field, the assignee only the status. Date changes
// are re-validated against the pair the task would end up with.
func (s *TaskService) Update(ctx context.Context, actorID, id string, change tasks.Change) (*models.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeUpdate(actorID, task, change); err != nil {
		return nil, err
	}
	if change.Status != nil && !models.ValidTaskStatus(*change.Status) {
		return nil, fmt.Errorf("%w: unknown task status %q", common.ErrorValidation, *change.Status)
	}
	if change.StartDate != nil || change.EndDate != nil {
		if err := validateDateRange(resolveDateRange(task, change)); err != nil {
			return nil, err
		}
	}
	if change.AssignedTo != nil {
		if err := s.requireUser(ctx, *change.AssignedTo); err != nil {
			return nil, err
		}
	}

	updated, err := s.repos.Tasks(s.db).Update(ctx, id, change)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: task not found", common.ErrorNotFound)
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return updated, nil
}

// Delete removes a task; creator-only.
func (s *TaskService) Delete(ctx context.Context, actorID, id string) error {
	task, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeDelete(actorID, task); err != nil {
		return err
	}
	if err := s.repos.Tasks(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: task not found", common.ErrorNotFound)
		}
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

// Assign sets the assignee; creator-only, and the target user must exist.
func (s *TaskService) Assign(ctx context.Context, actorID, id, userID string) (*models.Task, error) {
	if anyBlank(userID) {
		return nil, fmt.Errorf("%w: please provide a user ID to assign the task", common.ErrorValidation)
	}
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeAssign(actorID, task); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	updated, err := s.repos.Tasks(s.db).Update(ctx, id, tasks.Change{AssignedTo: &userID})
	if err != nil {
		return nil, fmt.Errorf("error assigning task: %w", err)
	}
	return updated, nil
}

// --- helpers below ---

func (s *TaskService) find(ctx context.Context, filter tasks.Filter) ([]*models.Task, error) {
	result, err := s.repos.Tasks(s.db).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return result, nil
}

func (s *TaskService) requireUser(ctx context.Context, userID string) error {
	if _, err := s.repos.Users(s.db).FindByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: assigned user not found", common.ErrorNotFound)
		}
		return fmt.Errorf("error searching user: %w", err)
	}
	return nil
}
