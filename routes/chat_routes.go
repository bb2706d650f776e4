package routes

import (
	"bartr_server/controllers"
	"bartr_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes registers message routes under `/api/matches/{matchId}/messages`
func RegisterChatRoutes(router *mux.Router, chatService *services.ChatService) {
	controller := &controllers.ChatController{Service: chatService}

	chatRouter := router.PathPrefix("/matches/{matchId}/messages").Subrouter()
	chatRouter.HandleFunc("", controller.GetMessagesHandler).Methods("GET")
	chatRouter.HandleFunc("", controller.SendMessageHandler).Methods("POST")
}
