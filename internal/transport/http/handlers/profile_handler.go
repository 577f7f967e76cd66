package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vmitrev/amora/internal/service"
	"github.com/vmitrev/amora/internal/transport/http/middleware"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Browse lists all profiles except the caller's own, newest first.
func (h *ProfileHandler) Browse(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profiles, err := h.profileService.Browse(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("browse profiles failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Error loading profiles")
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid profile ID")
		return
	}

	profile, err := h.profileService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile does not exist")
		} else {
			log.Error().Err(err).Msg("get profile failed")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Error loading profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("get own profile failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Error loading profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var update service.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	profile, err := h.profileService.Update(r.Context(), userID, update)
	if err != nil {
		log.Error().Err(err).Msg("update profile failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Error saving profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile": profile,
		"status":  Status{Level: StatusSuccess, Message: "Profile saved"},
	})
}

// AddPhoto uploads one photo (multipart field "photo") to the caller's profile.
func (h *ProfileHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "A photo file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILE", "Could not read photo")
		return
	}

	profile, err := h.profileService.AddPhoto(r.Context(), userID, header.Filename, data)
	if err != nil {
		var uploadErr *service.UploadError
		if errors.As(err, &uploadErr) {
			writeError(w, http.StatusBadGateway, "UPLOAD_FAILED", "Photo upload failed, try again")
		} else {
			log.Error().Err(err).Msg("add photo failed")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Error saving photo")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile": profile,
		"status":  Status{Level: StatusSuccess, Message: "Photo added"},
	})
}
