package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"bartr_server/middleware"
	"bartr_server/services"
)

// RequestController handles direct collaboration requests outside the
// swipe flow.
type RequestController struct {
	Service *services.RequestService
}

// CreateRequestHandler sends a pending request to another user.
func (c *RequestController) CreateRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var request struct {
		ReceiverID string `json:"receiverId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.ReceiverID == "" {
		respondError(w, http.StatusBadRequest, "receiverId is required")
		return
	}

	pending, err := c.Service.CreateRequest(r.Context(), userID, request.ReceiverID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	log.Printf("📩 Request %s sent from %s to %s", pending.RequestID, userID, request.ReceiverID)
	respondJSON(w, http.StatusCreated, pending)
}

// ResolveRequestHandler lets the receiver accept or reject a pending
// request. Accepting creates a match.
func (c *RequestController) ResolveRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	requestID := mux.Vars(r)["requestId"]

	var request struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	match, err := c.Service.ResolveRequest(r.Context(), requestID, userID, request.Action)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response := map[string]interface{}{"success": true, "action": request.Action}
	if match != nil {
		response["matchId"] = match.MatchID
	}
	respondJSON(w, http.StatusOK, response)
}

// ListRequestsHandler returns incoming or outgoing pending requests with
// counterpart profiles attached.
func (c *RequestController) ListRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	listType := r.URL.Query().Get("type")
	if listType == "" {
		listType = "incoming"
	}

	requests, err := c.Service.ListRequests(r.Context(), userID, listType)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}
