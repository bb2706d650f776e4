package controllers

import (
	"net/http"

	"bartr_server/middleware"
	"bartr_server/services"
)

// AIMatchController serves skill-based partner recommendations.
type AIMatchController struct {
	Service *services.AIMatchService
}

// RecommendationsHandler returns ranked match candidates for the caller,
// scored by skill complementarity.
func (c *AIMatchController) RecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	candidates, err := c.Service.RankMatches(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"matches": candidates})
}
