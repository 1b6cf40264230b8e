package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskdesk/internal/common"
)

type apiResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

type apiError struct {
	Error string `json:"error"`
}

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Data: data, Message: message})
}

// respondError maps the error taxonomy onto HTTP status codes. Anything not
// in the taxonomy is an internal error and its detail stays server-side.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, common.ErrorValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrInvalidOtp):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrorForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, common.ErrorExternalService):
		status, message = http.StatusServiceUnavailable, err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{Error: message})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(apiError{Error: message})
}
