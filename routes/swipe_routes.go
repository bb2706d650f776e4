package routes

import (
	"bartr_server/controllers"
	"bartr_server/services"

	"github.com/gorilla/mux"
)

// RegisterSwipeRoutes registers swipe-related routes under `/api/swipes`
func RegisterSwipeRoutes(router *mux.Router, swipeService *services.SwipeService) {
	controller := &controllers.SwipeController{Service: swipeService}

	swipeRouter := router.PathPrefix("/swipes").Subrouter()
	swipeRouter.HandleFunc("", controller.RecordSwipeHandler).Methods("POST") // ✅ Like or pass
	swipeRouter.HandleFunc("", controller.GetSwipeHandler).Methods("GET")     // ✅ ?targetId=
}
