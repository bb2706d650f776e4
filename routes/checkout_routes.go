package routes

import (
	"bartr_server/controllers"
	"bartr_server/services"

	"github.com/gorilla/mux"
)

// RegisterCheckoutRoutes registers credit purchase routes under `/api/checkout`
func RegisterCheckoutRoutes(router *mux.Router, checkoutService *services.CheckoutService) {
	controller := &controllers.CheckoutController{Service: checkoutService}

	checkoutRouter := router.PathPrefix("/checkout").Subrouter()
	checkoutRouter.HandleFunc("/session", controller.CreateSessionHandler).Methods("POST")
	checkoutRouter.HandleFunc("/verify", controller.VerifySessionHandler).Methods("GET") // ✅ ?session_id=
}
