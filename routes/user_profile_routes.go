package routes

import (
	"trekmate_server/controllers"
	"trekmate_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for user profile operations under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()

	profileRouter.HandleFunc("", controller.CreateUserProfile).Methods("POST")
	profileRouter.HandleFunc("/by-user/{userId}", controller.GetUserProfileByUserID).Methods("GET")
	profileRouter.HandleFunc("/{profileId}", controller.GetUserProfileByID).Methods("GET")
	profileRouter.HandleFunc("/{profileId}", controller.UpdateUserProfile).Methods("PATCH")
	profileRouter.HandleFunc("/{profileId}/verify", controller.VerifyUser).Methods("POST")
}
