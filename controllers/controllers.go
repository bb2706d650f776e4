package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"bartr_server/services"
)

// errorResponse is the JSON error envelope every handler returns on failure.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps service errors onto HTTP statuses: missing
// resources to 404, access violations to 403, bad input to 400, lifecycle
// precondition failures to 409, everything else to 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotParticipant), errors.Is(err, services.ErrNotReceiver):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrSelfTarget),
		errors.Is(err, services.ErrInvalidDirection),
		errors.Is(err, services.ErrEmptyContent):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInsufficientCredits),
		errors.Is(err, services.ErrAlreadyStaked),
		errors.Is(err, services.ErrChatDisabled),
		errors.Is(err, services.ErrBothMustSubmit),
		errors.Is(err, services.ErrMatchCompleted),
		errors.Is(err, services.ErrRequestResolved):
		respondError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("❌ Internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Internal Server Error",
			Details: err.Error(),
		})
	}
}
