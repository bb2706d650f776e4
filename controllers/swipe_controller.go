package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"bartr_server/middleware"
	"bartr_server/services"
)

// SwipeController records swipe decisions and reports mutual matches.
type SwipeController struct {
	Service *services.SwipeService
}

// RecordSwipeHandler stores a like or pass and creates a match when the
// like is mutual.
func (c *SwipeController) RecordSwipeHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var request struct {
		TargetID  string `json:"targetId"`
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.TargetID == "" {
		respondError(w, http.StatusBadRequest, "targetId is required")
		return
	}

	result, err := c.Service.RecordSwipe(r.Context(), userID, request.TargetID, request.Direction)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if result.MatchCreated {
		log.Printf("💖 Mutual like! Match %s created for %s and %s", result.MatchID, userID, request.TargetID)
	}
	respondJSON(w, http.StatusOK, result)
}

// GetSwipeHandler returns the caller's stored swipe for a target, if any.
func (c *SwipeController) GetSwipeHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	targetID := r.URL.Query().Get("targetId")
	if targetID == "" {
		respondError(w, http.StatusBadRequest, "targetId is required")
		return
	}

	swipe, err := c.Service.GetSwipe(r.Context(), userID, targetID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if swipe == nil {
		respondError(w, http.StatusNotFound, "no swipe recorded for this target")
		return
	}
	respondJSON(w, http.StatusOK, swipe)
}
