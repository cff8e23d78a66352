package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// ProfileService handles profile reads and self-service updates
type ProfileService struct {
	profiles ProfileStore
	cache    ProfileCache
}

// NewProfileService creates a new profile service; cache may be nil
func NewProfileService(profiles ProfileStore, cache ProfileCache) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		cache:    cache,
	}
}

// GetProfile returns the profile of a user
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fromRepository(err, "profile")
	}
	return profile, nil
}

// GetProfileByUsername returns the public profile with the given username
func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalidInput("username is required")
	}

	if s.cache != nil {
		if profile, err := s.cache.GetByUsername(ctx, username); err == nil {
			return profile, nil
		}
	}

	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, fromRepository(err, "profile")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, profile); err != nil {
			log.Warn().Err(err).Str("username", username).Msg("Failed to cache profile")
		}
	}
	return profile, nil
}

// UpdateProfile changes the caller's own username and full name.
// Role flags are not writable here.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	if upd.Username == nil && upd.FullName == nil {
		return nil, invalidInput("nothing to update: username or full_name is required")
	}
	if upd.Username != nil {
		v := strings.TrimSpace(*upd.Username)
		if v == "" {
			return nil, invalidInput("username cannot be empty")
		}
		upd.Username = &v
	}
	if upd.FullName != nil {
		v := strings.TrimSpace(*upd.FullName)
		upd.FullName = &v
	}

	prev, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fromRepository(err, "profile")
	}

	profile, err := s.profiles.Update(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username is already taken", ErrConflict)
		}
		return nil, fromRepository(err, "profile")
	}

	s.invalidate(ctx, prev, profile)
	return profile, nil
}

// CurrentUser merges the identity with the caller's profile, profile fields winning
func (s *ProfileService) CurrentUser(ctx context.Context, identity *models.Identity) (map[string]any, error) {
	user := map[string]any{
		"id":    identity.ID,
		"email": identity.Email,
	}
	if identity.CreatedAt != nil {
		user["created_at"] = identity.CreatedAt
	}

	profile, err := s.profiles.GetByUserID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return user, nil
		}
		return nil, err
	}

	user["user_id"] = profile.UserID
	user["username"] = profile.Username
	user["full_name"] = profile.FullName
	user["is_tutor"] = profile.IsTutor
	user["is_admin"] = profile.IsAdmin
	user["created_at"] = profile.CreatedAt
	return user, nil
}

// invalidate drops cached entries for every username the profiles carried
func (s *ProfileService) invalidate(ctx context.Context, profiles ...*models.Profile) {
	if s.cache == nil {
		return
	}
	var usernames []string
	for _, p := range profiles {
		if p != nil && p.Username != nil {
			usernames = append(usernames, *p.Username)
		}
	}
	if err := s.cache.Invalidate(ctx, usernames...); err != nil {
		log.Warn().Err(err).Strs("usernames", usernames).Msg("Failed to invalidate cached profiles")
	}
}
