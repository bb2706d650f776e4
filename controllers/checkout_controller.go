package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"bartr_server/middleware"
	"bartr_server/services"
)

// CheckoutController handles credit purchases through Stripe Checkout.
type CheckoutController struct {
	Service *services.CheckoutService
}

// CreateSessionHandler opens a checkout session for the requested amount
// and returns the redirect URL.
func (c *CheckoutController) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var request struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		respondError(w, http.StatusBadRequest, "Origin header is required")
		return
	}

	url, err := c.Service.CreateSession(r.Context(), userID, request.Amount, origin)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	log.Printf("🛒 Checkout session created for user %s (amount=%d)", userID, request.Amount)
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// VerifySessionHandler confirms a completed checkout and credits the
// buyer exactly once.
func (c *CheckoutController) VerifySessionHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := c.Service.VerifySession(r.Context(), userID, sessionID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
