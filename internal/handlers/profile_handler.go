package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/devconnector/backend/internal/middleware"
	"github.com/devconnector/backend/internal/models"
	"github.com/devconnector/backend/internal/services"
	"github.com/devconnector/backend/internal/validation"
)

const storeTimeout = 10 * time.Second

type ProfileHandler struct {
	profiles services.ProfileService
	accounts services.AccountService
}

func NewProfileHandler(profiles services.ProfileService, accounts services.AccountService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, accounts: accounts}
}

// GetMyProfile returns the authenticated caller's profile.
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewMessageResponse("No token, authorization denied"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusBadRequest, models.NewMessageResponse("There is no profile for this user"))
			return
		}
		log.Error().Err(err).Str("user", userID).Msg("get my profile")
		writeServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// ListProfiles returns every profile. Public.
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	profiles, err := h.profiles.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list profiles")
		writeServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// GetProfileByUser returns the profile owned by the user id in the path.
// Public. A malformed or unknown id is reported the same way: not found.
func (h *ProfileHandler) GetProfileByUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, targetID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusBadRequest, models.NewMessageResponse("Profile not found"))
			return
		}
		log.Error().Err(err).Str("user", targetID).Msg("get profile by user")
		writeServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// UpsertProfile creates the caller's profile on first submission and patches
// it in place afterwards. Only supplied fields are written.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewMessageResponse("No token, authorization denied"))
		return
	}

	var req models.UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewMessageResponse("Invalid request body"))
		return
	}
	if fieldErrs := validation.Check(&req); len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(fieldErrs))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.profiles.Upsert(ctx, userID, &req)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("upsert profile")
		writeServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// DeleteAccount removes the caller's posts, profile and account record.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewMessageResponse("No token, authorization denied"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	if err := h.accounts.DeleteAccount(ctx, userID); err != nil {
		log.Error().Err(err).Str("user", userID).Msg("delete account")
		writeServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, models.NewMessageResponse("User deleted"))
}

// AddExperience prepends a work-history entry to the caller's profile.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewMessageResponse("No token, authorization denied"))
		return
	}

	var req models.AddExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewMessageResponse("Invalid request body"))
		return
	}
	if fieldErrs := validation.Check(&req); len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(fieldErrs))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.profiles.AddExperience(ctx, userID, &req)
	if err != nil {
		h.writeProfileError(w, err, userID, "add experience")
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// DeleteExperience removes the entry with the given id; an unknown id leaves
// the profile unchanged and still returns it.
func (h *ProfileHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewMessageResponse("No token, authorization denied"))
		return
	}
	expID := chi.URLParam(r, "expID")

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.profiles.RemoveExperience(ctx, userID, expID)
	if err != nil {
		h.writeProfileError(w, err, userID, "delete experience")
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// AddEducation prepends a schooling entry to the caller's profile.
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewMessageResponse("No token, authorization denied"))
		return
	}

	var req models.AddEducationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewMessageResponse("Invalid request body"))
		return
	}
	if fieldErrs := validation.Check(&req); len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(fieldErrs))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.profiles.AddEducation(ctx, userID, &req)
	if err != nil {
		h.writeProfileError(w, err, userID, "add education")
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewMessageResponse("No token, authorization denied"))
		return
	}
	eduID := chi.URLParam(r, "eduID")

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.profiles.RemoveEducation(ctx, userID, eduID)
	if err != nil {
		h.writeProfileError(w, err, userID, "delete education")
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) writeProfileError(w http.ResponseWriter, err error, userID, op string) {
	if errors.Is(err, services.ErrProfileNotFound) {
		writeJSON(w, http.StatusBadRequest, models.NewMessageResponse("There is no profile for this user"))
		return
	}
	log.Error().Err(err).Str("user", userID).Msg(op)
	writeServerError(w)
}
