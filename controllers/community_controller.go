package controllers

import (
	"net/http"
	"strconv"

	"trekmate_server/models"
	"trekmate_server/services"

	"github.com/gorilla/mux"
)

// CommunityController exposes the session facade: the snapshot the community
// screens render, explicit refresh endpoints, and the XP pass-through.
type CommunityController struct {
	CommunityService *services.CommunityService
	LedgerService    *services.XPLedgerService
}

// NewCommunityController creates a new instance of CommunityController
func NewCommunityController(communityService *services.CommunityService, ledgerService *services.XPLedgerService) *CommunityController {
	return &CommunityController{CommunityService: communityService, LedgerService: ledgerService}
}

// GetSnapshot returns the full community view for an auth identity, creating
// the profile on first interaction.
func (c *CommunityController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	displayName := r.URL.Query().Get("displayName")

	snapshot, err := c.CommunityService.GetSnapshot(r.Context(), userID, displayName)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// RefreshProfile re-fetches just the profile for an auth identity
func (c *CommunityController) RefreshProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.CommunityService.RefreshProfile(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// RefreshGroups re-fetches the three group collections for a profile id
func (c *CommunityController) RefreshGroups(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]

	groups, err := c.CommunityService.RefreshGroups(r.Context(), profileID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

type awardXPPayload struct {
	ProfileID     string `json:"profileId" validate:"required"`
	Action        string `json:"action" validate:"required"`
	ReferenceID   string `json:"referenceId"`
	ReferenceType string `json:"referenceType"`
}

// AwardXP grants the fixed reward for an action and returns the updated
// profile for the caller to adopt as its new snapshot.
func (c *CommunityController) AwardXP(w http.ResponseWriter, r *http.Request) {
	var payload awardXPPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	profile, transaction, err := c.CommunityService.AwardXP(r.Context(), payload.ProfileID,
		models.XPAction(payload.Action), payload.ReferenceID, payload.ReferenceType)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "XP awarded",
		"profile":     profile,
		"transaction": transaction, // nil when the ledger append was lost
	})
}

// GetXPHistory returns a profile's ledger rows, newest first
func (c *CommunityController) GetXPHistory(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	transactions, err := c.LedgerService.ListTransactions(r.Context(), profileID, int32(limit))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"transactions": transactions})
}
