package routes

import (
	"bartr_server/controllers"
	"bartr_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes registers profile and browse routes under `/api/profile` and `/api/users`
func RegisterUserProfileRoutes(router *mux.Router, userProfileService *services.UserProfileService) {
	controller := &controllers.UserProfileController{Service: userProfileService}

	profileRouter := router.PathPrefix("/profile").Subrouter()
	profileRouter.HandleFunc("", controller.GetProfileHandler).Methods("GET")
	profileRouter.HandleFunc("", controller.UpdateProfileHandler).Methods("PATCH")

	userRouter := router.PathPrefix("/users").Subrouter()
	userRouter.HandleFunc("/browse", controller.BrowseUsersHandler).Methods("GET") // ✅ Swipe deck
}
