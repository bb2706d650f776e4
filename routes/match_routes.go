package routes

import (
	"bartr_server/controllers"
	"bartr_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes registers match lifecycle routes under `/api/matches`
func RegisterMatchRoutes(
	router *mux.Router,
	matchService *services.MatchService,
	escrowService *services.EscrowService,
	submissionService *services.SubmissionService,
) {
	matchController := &controllers.MatchController{Service: matchService}
	escrowController := &controllers.EscrowController{Escrow: escrowService, Submissions: submissionService}

	matchRouter := router.PathPrefix("/matches").Subrouter()
	matchRouter.HandleFunc("", matchController.GetMatchesHandler).Methods("GET")
	matchRouter.HandleFunc("/{matchId}", matchController.GetMatchHandler).Methods("GET")

	// Escrow lifecycle: stake -> submit -> confirm
	matchRouter.HandleFunc("/{matchId}/stake", escrowController.StakeHandler).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/submit", escrowController.SubmitHandler).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/confirm", escrowController.ConfirmHandler).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/submissions", escrowController.GetSubmissionsHandler).Methods("GET")
}
