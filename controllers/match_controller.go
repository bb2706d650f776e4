package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"bartr_server/middleware"
	"bartr_server/services"
)

// MatchController serves the caller's matches.
type MatchController struct {
	Service *services.MatchService
}

// GetMatchesHandler returns all of the caller's matches with partner
// profiles and last messages attached.
func (c *MatchController) GetMatchesHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	matches, err := c.Service.GetMatchesWithProfiles(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// GetMatchHandler returns a single match the caller participates in.
func (c *MatchController) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	matchID := mux.Vars(r)["matchId"]

	match, err := c.Service.GetMatchForUser(r.Context(), matchID, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}
