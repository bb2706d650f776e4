package controllers

import (
	"encoding/json"
	"net/http"

	"bartr_server/services"
)

// S3Controller issues presigned URLs for chat file attachments.
type S3Controller struct {
	Service *services.S3Service
}

// GeneratePresignedURLHandler returns a short-lived upload URL and the
// object key the client should reference in its file message.
func (c *S3Controller) GeneratePresignedURLHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID  string `json:"matchId"`
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.MatchID == "" || request.FileName == "" {
		respondError(w, http.StatusBadRequest, "matchId and fileName are required")
		return
	}

	url, key, err := c.Service.GenerateUploadURL(request.MatchID, request.FileName, request.FileType)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// GenerateReadURLHandler returns a short-lived download URL for a stored
// attachment.
func (c *S3Controller) GenerateReadURLHandler(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := c.Service.GenerateReadURL(key)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
