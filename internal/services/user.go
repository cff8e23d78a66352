package services

import (
	"context"
	"strings"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"

	"github.com/rs/zerolog/log"
)

// RegisterInput holds the fields accepted at sign-up
type RegisterInput struct {
	Email    string
	Password string
	FullName *string
	Username *string
}

// UserService handles registration and login
type UserService struct {
	provider IdentityProvider
	profiles ProfileStore
}

// NewUserService creates a new user service
func NewUserService(provider IdentityProvider, profiles ProfileStore) *UserService {
	return &UserService{
		provider: provider,
		profiles: profiles,
	}
}

// Register creates the identity with the provider, then its profile row.
// A profile failure after the identity exists is returned as *RegistrationError.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.Identity, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, invalidInput("email and password are required")
	}

	identity, err := s.provider.SignUp(ctx, email, in.Password)
	if err != nil {
		registrationsTotal.WithLabelValues("provider_error").Inc()
		return nil, err
	}

	profile := &models.Profile{
		UserID:   identity.ID,
		Username: trimmed(in.Username),
		FullName: trimmed(in.FullName),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		registrationsTotal.WithLabelValues("profile_error").Inc()
		log.Error().
			Err(err).
			Str("user_id", identity.ID).
			Msg("Profile creation failed after sign-up")
		return identity, &RegistrationError{UserID: identity.ID, Err: fromRepository(err, "profile")}
	}

	registrationsTotal.WithLabelValues("ok").Inc()
	return identity, nil
}

// Login signs a user in with email and password
func (s *UserService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalidInput("email and password are required")
	}

	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// trimmed returns nil for absent or blank values
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
