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

type userService interface {
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type UserHandler struct {
	users  userService
	logger zerolog.Logger
}

func NewUserHandler(users userService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// GetUsers lists user summaries. Password hashes are never serialized.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list users")
		respondWithError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch users")
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.users.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "validation_failed", err.Error())
		case errors.Is(err, services.ErrDuplicateUser):
			respondWithError(w, http.StatusConflict, "user_exists", err.Error())
		default:
			h.logger.Error().Err(err).Msg("User creation failed")
			respondWithError(w, http.StatusInternalServerError, "creation_failed", "Failed to create user")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}
