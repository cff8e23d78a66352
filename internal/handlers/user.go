package handlers

import (
	"context"
	"net/http"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/middleware"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserService is what UserHandler needs for sign-up and login
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Identity, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
}

// ProfileService is what UserHandler needs for profiles
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error)
	CurrentUser(ctx context.Context, identity *models.Identity) (map[string]any, error)
}

// UserHandler handles account and profile HTTP requests
type UserHandler struct {
	userService    UserService
	profileService ProfileService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, profileService ProfileService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		profileService: profileService,
	}
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Username *string `json:"username" validate:"omitempty,min=3,max=30"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the body of PUT /auth/profile. Other fields are ignored.
type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=30"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

type registerResponse struct {
	Message string           `json:"message"`
	User    *models.Identity `json:"user"`
}

// Register handles POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err, "Invalid register request")
		return
	}

	identity, err := h.userService.Register(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Username: req.Username,
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to register user")
		return
	}

	log.Info().Str("user_id", identity.ID).Msg("User registered")

	respondJSON(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User:    identity,
	})
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err, "Invalid login request")
		return
	}

	session, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err, "Failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, Response{Message: "Login successful", Data: session})
}

// GetProfile handles GET /auth/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get profile")
		return
	}

	respondJSON(w, http.StatusOK, Response{Data: profile})
}

// CurrentUser handles GET /auth/current-user
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		respondError(w, "Authorization token missing", http.StatusUnauthorized)
		return
	}

	user, err := h.profileService.CurrentUser(r.Context(), identity)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get current user")
		return
	}

	respondJSON(w, http.StatusOK, Response{Data: user})
}

// GetProfileByUsername handles GET /auth/profile/{username}
func (h *UserHandler) GetProfileByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.profileService.GetProfileByUsername(r.Context(), username)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get profile by username")
		return
	}

	respondJSON(w, http.StatusOK, Response{Data: profile})
}

// UpdateProfile handles PUT /auth/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err, "Invalid profile update")
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), userID, models.ProfileUpdate{
		Username: req.Username,
		FullName: req.FullName,
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to update profile")
		return
	}

	log.Info().Str("user_id", userID).Msg("Profile updated")

	respondJSON(w, http.StatusOK, Response{Message: "Profile updated successfully", Data: profile})
}
