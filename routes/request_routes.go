package routes

import (
	"bartr_server/controllers"
	"bartr_server/services"

	"github.com/gorilla/mux"
)

// RegisterRequestRoutes registers pending request routes under `/api/requests`
func RegisterRequestRoutes(router *mux.Router, requestService *services.RequestService) {
	controller := &controllers.RequestController{Service: requestService}

	requestRouter := router.PathPrefix("/requests").Subrouter()
	requestRouter.HandleFunc("", controller.CreateRequestHandler).Methods("POST")
	requestRouter.HandleFunc("", controller.ListRequestsHandler).Methods("GET") // ✅ ?type=incoming|pending
	requestRouter.HandleFunc("/{requestId}", controller.ResolveRequestHandler).Methods("PATCH")
}
