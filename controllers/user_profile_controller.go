package controllers

import (
	"net/http"

	"trekmate_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles requests related to user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

func (c *UserProfileController) CreateUserProfile(w http.ResponseWriter, r *http.Request) {
	var input services.CreateProfileInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	profile, err := c.UserProfileService.AddUserProfile(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Profile created successfully",
		"profile": profile,
	})
}

// GetUserProfileByID handles fetching a user profile by profile id
func (c *UserProfileController) GetUserProfileByID(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]

	profile, err := c.UserProfileService.GetUserProfile(r.Context(), profileID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// GetUserProfileByUserID handles fetching a profile by the external auth id
func (c *UserProfileController) GetUserProfileByUserID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.UserProfileService.GetUserProfileByUserID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateUserProfile handles profile edits. Ledger-owned fields are refused.
func (c *UserProfileController) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]

	var updates map[string]interface{}
	if !decodeJSON(w, r, &updates) {
		return
	}

	profile, err := c.UserProfileService.UpdateUserProfile(r.Context(), profileID, updates)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

type verifyUserPayload struct {
	Method string `json:"method" validate:"required,oneof=booking id phone"`
}

// VerifyUser marks a profile as verified via the supplied method
func (c *UserProfileController) VerifyUser(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]

	var payload verifyUserPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	profile, err := c.UserProfileService.VerifyUser(r.Context(), profileID, payload.Method)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile verified successfully",
		"profile": profile,
	})
}
