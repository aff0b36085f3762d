package routes

import (
	"trekmate_server/controllers"
	"trekmate_server/services"

	"github.com/gorilla/mux"
)

// RegisterTripGroupRoutes sets up the group lifecycle routes under /api/groups
func RegisterTripGroupRoutes(r *mux.Router, tripGroupService *services.TripGroupService) {
	controller := controllers.NewTripGroupController(tripGroupService)

	groupRouter := r.PathPrefix("/api/groups").Subrouter()

	groupRouter.HandleFunc("", controller.GetPublicGroups).Methods("GET")
	groupRouter.HandleFunc("", controller.CreateGroup).Methods("POST")
	groupRouter.HandleFunc("/invite/{code}", controller.GetGroupByInviteCode).Methods("GET")
	groupRouter.HandleFunc("/requests/{membershipId}/approve", controller.ApproveJoinRequest).Methods("POST")
	groupRouter.HandleFunc("/requests/{membershipId}/reject", controller.RejectJoinRequest).Methods("POST")
	groupRouter.HandleFunc("/{groupId}", controller.GetGroup).Methods("GET")
	groupRouter.HandleFunc("/{groupId}/join", controller.RequestToJoinGroup).Methods("POST")
	groupRouter.HandleFunc("/{groupId}/leave", controller.LeaveGroup).Methods("POST")
	groupRouter.HandleFunc("/{groupId}/status", controller.UpdateGroupStatus).Methods("PATCH")
}
