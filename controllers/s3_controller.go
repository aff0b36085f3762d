package controllers

import (
	"net/http"

	"trekmate_server/services"
)

// S3Controller hands out presigned URLs for photo upload and display
type S3Controller struct {
	S3Service *services.S3Service
}

// NewS3Controller creates a new instance of S3Controller
func NewS3Controller(s3Service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: s3Service}
}

type uploadURLPayload struct {
	FileName string `json:"fileName" validate:"required"`
	FileType string `json:"fileType" validate:"required"`
	Kind     string `json:"kind" validate:"required,oneof=profile group"`
}

// GenerateUploadURL returns a presigned PUT URL plus the object key to store
// on the profile or group.
func (c *S3Controller) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	var payload uploadURLPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	prefix := services.ProfilePhotoPrefix
	if payload.Kind == "group" {
		prefix = services.GroupPhotoPrefix
	}

	url, key, err := c.S3Service.GenerateUploadURL(r.Context(), prefix, payload.FileName, payload.FileType)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// GenerateReadURL returns a presigned GET URL for a stored photo key
func (c *S3Controller) GenerateReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_payload", "message": "key is required"})
		return
	}

	url, err := c.S3Service.GenerateReadURL(r.Context(), key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"readUrl": url})
}
