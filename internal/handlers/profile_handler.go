package handlers

import (
	"errors"
	"io"
	"net/http"

	"alphaDash/internal/models"
	"alphaDash/internal/services"
)

type ProfileHandler struct {
	Service *services.ProfileService
}

func (h *ProfileHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Dashboard(currentSession(r))
	if err != nil {
		failure(w, err, "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	alpha, err := h.Service.Profile(r.Context(), currentSession(r))
	if err != nil {
		failure(w, err, "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, alpha)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSkillsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		failure(w, err, "Failed to update profile")
		return
	}
	alpha, err := h.Service.UpdateSkills(r.Context(), currentSession(r), req.Skills)
	if err != nil {
		failure(w, err, "Failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, alpha)
}

// UploadAvatar accepts multipart field "avatar".
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxAvatarSize+(1<<20))
	if err := r.ParseMultipartForm(services.MaxAvatarSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "avatar must be at most 5MB")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxAvatarSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read avatar")
		return
	}

	url, err := h.Service.UploadAvatar(r.Context(), currentSession(r), header.Filename, data)
	if err != nil {
		failure(w, err, "Failed to upload avatar")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userAvatar": url})
}
