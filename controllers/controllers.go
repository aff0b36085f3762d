package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"trekmate_server/services"

	"github.com/go-playground/validator/v10"
)

// validate checks request payload struct tags before anything hits a service.
var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps the service error kinds onto HTTP statuses: refusals keep
// their code and message for user-facing handling, not-found maps to 404, and
// faults are logged and surfaced generically.
func respondError(w http.ResponseWriter, err error) {
	if refusal, ok := services.AsRefusal(err); ok {
		respondJSON(w, refusalStatus(refusal.Code), map[string]string{
			"error":   refusal.Code,
			"message": refusal.Message,
		})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return
	}
	log.Printf("❌ Internal error: %v", err)
	respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
}

func refusalStatus(code string) int {
	switch code {
	case services.RefusalLevelTooLow, services.RefusalCommunityLocked,
		services.RefusalNotGroupCreator, services.RefusalCreatorCannotLeave:
		return http.StatusForbidden
	case services.RefusalInvalidStatus, services.RefusalInvalidAction,
		services.RefusalImmutableField:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_payload"})
		return false
	}
	return true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_payload"})
		return false
	}
	if err := validate.Struct(payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid_payload",
			"message": err.Error(),
		})
		return false
	}
	return true
}
