package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/repository"
)

type apiError struct {
	Code   int               `json:"code"`
	Status string            `json:"status"`
	Fields map[string]string `json:"fields,omitempty"`
}

type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

func writeRawJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if status >= 400 {
		writeRawJSON(w, status, apiResponse{
			Status:  "error",
			Message: "",
			Data:    payload,
			Error: &apiError{
				Code:   status,
				Status: http.StatusText(status),
			},
		})
		return
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "ok",
		Message: "",
		Data:    payload,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "error",
		Message: message,
		Data:    nil,
		Error: &apiError{
			Code:   status,
			Status: http.StatusText(status),
		},
	})
}

func writeErrorWithErr(w http.ResponseWriter, status int, message string, err error) {
	if err == nil {
		writeError(w, status, message)
		return
	}
	if message == "" {
		writeError(w, status, err.Error())
		return
	}
	writeError(w, status, message+": "+err.Error())
}

// writeServiceError maps errors coming out of services and repositories to
// a status code. Field errors carry their per-field reasons.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeRawJSON(w, http.StatusUnprocessableEntity, apiResponse{
			Status:  "error",
			Message: verr.Error(),
			Error: &apiError{
				Code:   http.StatusUnprocessableEntity,
				Status: http.StatusText(http.StatusUnprocessableEntity),
				Fields: verr.Fields,
			},
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrConflict):
		writeErrorWithErr(w, http.StatusConflict, "", err)
	default:
		writeErrorWithErr(w, http.StatusInternalServerError, "", err)
	}
}
