package routes

import (
	"bartr_server/controllers"
	"bartr_server/services"

	"github.com/gorilla/mux"
)

// RegisterCronRoutes registers scheduler-facing routes under `/api/cron`.
// These authenticate with a shared secret header, not a user token.
func RegisterCronRoutes(router *mux.Router, escrowService *services.EscrowService, cronSecret string) {
	controller := &controllers.CronController{Escrow: escrowService, Secret: cronSecret}

	cronRouter := router.PathPrefix("/api/cron").Subrouter()
	cronRouter.HandleFunc("/expire-matches", controller.ExpireMatchesHandler).Methods("POST")
}
