package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"payment-dashboard/internal/models"
	"payment-dashboard/internal/services"
)

type authenticator interface {
	Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error)
}

type tokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
}

type AuthHandler struct {
	users  authenticator
	tokens tokenIssuer
	logger zerolog.Logger
}

func NewAuthHandler(users authenticator, tokens tokenIssuer, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login validates credentials and issues a session token. The response never
// distinguishes an unknown username from a wrong password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.Warn().Str("username", req.Username).Msg("Login failed")
			respondWithError(w, http.StatusUnauthorized, "authentication_failed", "Invalid credentials")
			return
		}
		h.logger.Error().Err(err).Msg("Login error")
		respondWithError(w, http.StatusInternalServerError, "internal_error", "Failed to process login")
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		h.logger.Error().Err(err).Msg("Token generation failed")
		respondWithError(w, http.StatusInternalServerError, "token_generation_failed", "Failed to generate token")
		return
	}

	respondWithJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: token,
		User:        user,
	})
}
