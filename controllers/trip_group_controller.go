package controllers

import (
	"net/http"
	"strconv"

	"trekmate_server/services"

	"github.com/gorilla/mux"
)

// TripGroupController handles the group lifecycle and membership endpoints
type TripGroupController struct {
	TripGroupService *services.TripGroupService
}

// NewTripGroupController creates a new instance of TripGroupController
func NewTripGroupController(tripGroupService *services.TripGroupService) *TripGroupController {
	return &TripGroupController{TripGroupService: tripGroupService}
}

type createGroupPayload struct {
	CreatorProfileID string `json:"creatorProfileId" validate:"required"`
	services.CreateGroupInput
}

func (c *TripGroupController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var payload createGroupPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	group, err := c.TripGroupService.CreateGroup(r.Context(), payload.CreatorProfileID, payload.CreateGroupInput)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Group created successfully",
		"group":   group,
	})
}

// GetPublicGroups lists open public groups, with optional trek/date/
// availability filters, ordered by planned date.
func (c *TripGroupController) GetPublicGroups(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := services.GroupFilters{
		TrekSlug:      query.Get("trek"),
		DateFrom:      query.Get("from"),
		DateTo:        query.Get("to"),
		Status:        query.Get("status"),
		AvailableOnly: query.Get("availableOnly") == "true",
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	groups, err := c.TripGroupService.GetPublicGroups(r.Context(), filters, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

func (c *TripGroupController) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	group, err := c.TripGroupService.GetGroup(r.Context(), groupID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

// GetGroupByInviteCode resolves a private group from its invite code
func (c *TripGroupController) GetGroupByInviteCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	group, err := c.TripGroupService.GetGroupByInviteCode(r.Context(), code)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

type membershipActionPayload struct {
	ProfileID string `json:"profileId" validate:"required"`
}

func (c *TripGroupController) RequestToJoinGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var payload membershipActionPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	membership, err := c.TripGroupService.RequestToJoinGroup(r.Context(), groupID, payload.ProfileID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Join request submitted",
		"membership": membership,
	})
}

func (c *TripGroupController) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var payload membershipActionPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if err := c.TripGroupService.LeaveGroup(r.Context(), groupID, payload.ProfileID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Left group"})
}

type decideRequestPayload struct {
	ProfileID string `json:"profileId" validate:"required"` // the deciding creator
}

func (c *TripGroupController) ApproveJoinRequest(w http.ResponseWriter, r *http.Request) {
	membershipID := mux.Vars(r)["membershipId"]

	var payload decideRequestPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	membership, err := c.TripGroupService.ApproveJoinRequest(r.Context(), membershipID, payload.ProfileID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Join request approved",
		"membership": membership,
	})
}

func (c *TripGroupController) RejectJoinRequest(w http.ResponseWriter, r *http.Request) {
	membershipID := mux.Vars(r)["membershipId"]

	var payload decideRequestPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	membership, err := c.TripGroupService.RejectJoinRequest(r.Context(), membershipID, payload.ProfileID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Join request rejected",
		"membership": membership,
	})
}

type updateStatusPayload struct {
	ProfileID string `json:"profileId" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

func (c *TripGroupController) UpdateGroupStatus(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var payload updateStatusPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	group, err := c.TripGroupService.UpdateGroupStatus(r.Context(), groupID, payload.ProfileID, payload.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Group status updated",
		"group":   group,
	})
}
