package routes

import (
	"bartr_server/controllers"
	"bartr_server/services"

	"github.com/gorilla/mux"
)

// RegisterAIMatchRoutes registers recommendation routes under `/api/ai-matches`
func RegisterAIMatchRoutes(router *mux.Router, aiMatchService *services.AIMatchService) {
	controller := &controllers.AIMatchController{Service: aiMatchService}

	aiRouter := router.PathPrefix("/ai-matches").Subrouter()
	aiRouter.HandleFunc("", controller.RecommendationsHandler).Methods("GET")
}
