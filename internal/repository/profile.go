package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const profileColumns = `user_id, username, full_name, is_tutor, is_admin, created_at`

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile; role flags and created_at come from column defaults
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, username, full_name)
		VALUES ($1, $2, $3)
		RETURNING is_tutor, is_admin, created_at
	`
	err := r.db.QueryRow(ctx, query, profile.UserID, profile.Username, profile.FullName).Scan(
		&profile.IsTutor, &profile.IsAdmin, &profile.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create profile: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByUserID retrieves a profile by its owning user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetByUsername retrieves a profile by username
func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`
	profile, err := scanProfile(r.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by username: %w", err)
	}
	return profile, nil
}

// Update writes the non-nil fields of upd and returns the updated profile
func (r *ProfileRepository) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET username = COALESCE($2, username),
		    full_name = COALESCE($3, full_name)
		WHERE user_id = $1
		RETURNING ` + profileColumns
	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID, upd.Username, upd.FullName))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to update profile: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// SetTutor marks the user as a tutor
func (r *ProfileRepository) SetTutor(ctx context.Context, userID string) (*models.Profile, error) {
	query := `UPDATE profiles SET is_tutor = TRUE WHERE user_id = $1 RETURNING ` + profileColumns
	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to set tutor flag: %w", err)
	}
	return profile, nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.UserID, &p.Username, &p.FullName, &p.IsTutor, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
