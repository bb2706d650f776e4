package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"bartr_server/middleware"
	"bartr_server/services"
)

// UserProfileController serves the caller's own profile and the browse feed.
type UserProfileController struct {
	Service *services.UserProfileService
}

// GetProfileHandler returns the authenticated user's profile, creating an
// empty one on first touch.
func (c *UserProfileController) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := c.Service.EnsureProfile(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfileHandler applies a partial update to the caller's profile.
func (c *UserProfileController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var update services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := c.Service.UpdateUserProfile(r.Context(), userID, update)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	log.Printf("✅ Profile updated for user: %s", userID)
	respondJSON(w, http.StatusOK, profile)
}

// BrowseUsersHandler returns every other user's profile for the swipe deck.
func (c *UserProfileController) BrowseUsersHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	users, err := c.Service.BrowseUsers(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
