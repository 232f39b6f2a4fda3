package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/devconnector/backend/internal/middleware"
	"github.com/devconnector/backend/internal/models"
	"github.com/devconnector/backend/internal/services"
	"github.com/devconnector/backend/internal/validation"
)

type AuthHandler struct {
	users         services.UserService
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthHandler(users services.UserService, jwtSecret string, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{
		users:         users,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
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

	user, err := h.users.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			writeJSON(w, http.StatusBadRequest, models.NewMessageResponse("User already exists"))
			return
		}
		log.Error().Err(err).Msg("register user")
		writeServerError(w)
		return
	}

	token, err := h.generateToken(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("generate token")
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: *user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
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

	user, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrInvalidPassword) {
			writeJSON(w, http.StatusBadRequest, models.NewMessageResponse("Invalid credentials"))
			return
		}
		log.Error().Err(err).Msg("login user")
		writeServerError(w)
		return
	}

	token, err := h.generateToken(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("generate token")
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: *user})
}

// CurrentUser returns the authenticated caller's account record.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewMessageResponse("No token, authorization denied"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSON(w, http.StatusBadRequest, models.NewMessageResponse("User not found"))
			return
		}
		log.Error().Err(err).Str("user", userID).Msg("get current user")
		writeServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) generateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(h.jwtExpiration).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
