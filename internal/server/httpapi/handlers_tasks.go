package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskdesk/internal/common"
	"taskdesk/internal/server/models"
	"taskdesk/internal/server/repositories/tasks"
	"taskdesk/internal/server/services"
)

type createTaskRequest struct {
	Name       string  `json:"name"`
	Details    string  `json:"details"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	AssignedTo *string `json:"assignedTo"`
}

type updateTaskRequest struct {
	Name       *string `json:"name"`
	Details    *string `json:"details"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
	AssignedTo *string `json:"assignedTo"`
	Status     *string `json:"status"`
}

type assignTaskRequest struct {
	UserID string `json:"userId"`
}

// parseDate accepts RFC 3339 timestamps and bare dates ("2024-05-01").
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", common.ErrorValidation, value)
	}
	return t, nil
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	in := services.CreateTaskInput{
		Name:       req.Name,
		Details:    req.Details,
		AssignedTo: req.AssignedTo,
	}
	var err error
	if req.StartDate != "" {
		if in.StartDate, err = parseDate(req.StartDate); err != nil {
			respondError(w, err)
			return
		}
	}
	if req.EndDate != "" {
		if in.EndDate, err = parseDate(req.EndDate); err != nil {
			respondError(w, err)
			return
		}
	}

	task, err := s.tasks.Create(r.Context(), principal.UserID, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, newTaskView(task), "Task created successfully")
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var filter services.ListFilter

	if v := r.URL.Query().Get("status"); v != "" {
		status := models.TaskStatus(v)
		filter.Status = &status
	}
	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respondError(w, err)
			return
		}
		filter.StartDate = &t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			respondError(w, err)
			return
		}
		filter.EndDate = &t
	}

	result, err := s.tasks.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newTaskViews(result), "Tasks retrieved successfully")
}

func (s *Server) handleMyTasks(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	result, err := s.tasks.MyTasks(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newTaskViews(result), "Your tasks retrieved successfully")
}

func (s *Server) handleCreatedByMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	result, err := s.tasks.CreatedByMe(r.Context(), principal.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newTaskViews(result), "Tasks created by you retrieved successfully")
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newTaskView(task), "Task retrieved successfully")
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	change := tasks.Change{
		Name:       req.Name,
		Details:    req.Details,
		AssignedTo: req.AssignedTo,
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			respondError(w, err)
			return
		}
		change.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			respondError(w, err)
			return
		}
		change.EndDate = &t
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		change.Status = &status
	}

	task, err := s.tasks.Update(r.Context(), principal.UserID, chi.URLParam(r, "id"), change)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newTaskView(task), "Task updated successfully")
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	if err := s.tasks.Delete(r.Context(), principal.UserID, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil, "Task deleted successfully")
}

func (s *Server) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	var req assignTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	task, err := s.tasks.Assign(r.Context(), principal.UserID, chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newTaskView(task), "Task assigned successfully")
}
