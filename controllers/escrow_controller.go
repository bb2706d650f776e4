package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"bartr_server/middleware"
	"bartr_server/services"
)

// EscrowController drives the credit lifecycle of a match: staking,
// work submission, and settlement.
type EscrowController struct {
	Escrow      *services.EscrowService
	Submissions *services.SubmissionService
}

// StakeHandler locks the caller's stake into the match. Chat opens once
// both sides have staked.
func (c *EscrowController) StakeHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	matchID := mux.Vars(r)["matchId"]

	match, err := c.Escrow.Stake(r.Context(), matchID, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	log.Printf("💰 User %s staked on match %s (chatEnabled=%v)", userID, matchID, match.IsChatEnabled)
	respondJSON(w, http.StatusOK, match)
}

// SubmitHandler records the caller's completed work for the match.
func (c *EscrowController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	matchID := mux.Vars(r)["matchId"]

	var request struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := c.Submissions.Submit(r.Context(), matchID, userID, request.Content)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ConfirmHandler settles the match: both stakes return to their owners
// with the completion bonus on top.
func (c *EscrowController) ConfirmHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	matchID := mux.Vars(r)["matchId"]

	match, err := c.Escrow.ConfirmCompletion(r.Context(), matchID, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	log.Printf("🎉 Match %s completed, confirmed by %s", matchID, userID)
	respondJSON(w, http.StatusOK, match)
}

// GetSubmissionsHandler returns the work submitted on a match.
func (c *EscrowController) GetSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	matchID := mux.Vars(r)["matchId"]

	submissions, err := c.Submissions.GetSubmissions(r.Context(), matchID, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"submissions": submissions})
}
