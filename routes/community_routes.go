package routes

import (
	"trekmate_server/controllers"
	"trekmate_server/services"

	"github.com/gorilla/mux"
)

// RegisterCommunityRoutes sets up the session facade routes under /api/community
func RegisterCommunityRoutes(r *mux.Router, communityService *services.CommunityService, ledgerService *services.XPLedgerService) {
	controller := controllers.NewCommunityController(communityService, ledgerService)

	communityRouter := r.PathPrefix("/api/community").Subrouter()

	communityRouter.HandleFunc("/xp", controller.AwardXP).Methods("POST")
	communityRouter.HandleFunc("/users/{userId}/snapshot", controller.GetSnapshot).Methods("GET")
	communityRouter.HandleFunc("/users/{userId}/profile", controller.RefreshProfile).Methods("GET")
	communityRouter.HandleFunc("/profiles/{profileId}/groups", controller.RefreshGroups).Methods("GET")
	communityRouter.HandleFunc("/profiles/{profileId}/xp/history", controller.GetXPHistory).Methods("GET")
}
