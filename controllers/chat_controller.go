package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"bartr_server/middleware"
	"bartr_server/models"
	"bartr_server/services"
)

// ChatController serves message history and accepts new messages over HTTP.
// Realtime delivery happens on the socket layer.
type ChatController struct {
	Service *services.ChatService
}

// GetMessagesHandler returns a match's messages, oldest first.
func (c *ChatController) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	matchID := mux.Vars(r)["matchId"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	messages, err := c.Service.GetMessages(r.Context(), matchID, userID, limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// SendMessageHandler stores a text or file message on a chat-enabled match.
func (c *ChatController) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	matchID := mux.Vars(r)["matchId"]

	var request struct {
		Content  string `json:"content"`
		FileURL  string `json:"fileUrl"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var err error
	var message *models.Message
	if request.FileURL != "" {
		message, err = c.Service.SendFileMessage(r.Context(), matchID, userID,
			request.Content, request.FileURL, request.FileName)
	} else {
		message, err = c.Service.SendMessage(r.Context(), matchID, userID, request.Content)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, message)
}
