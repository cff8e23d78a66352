package services

import (
	"context"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/repository"
)

// ProfileStore persists profiles
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error)
	SetTutor(ctx context.Context, userID string) (*models.Profile, error)
}

// ProfileCache caches public profile lookups
type ProfileCache interface {
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Set(ctx context.Context, profile *models.Profile) error
	Invalidate(ctx context.Context, usernames ...string) error
}

// IdentityProvider creates and signs in users
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*models.Identity, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
}

// PostStore persists posts
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter repository.PostFilter) ([]*models.PostRow, error)
}

// CommentStore persists comments
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.CommentView, error)
}

// LikeStore persists likes
type LikeStore interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, postID, userID string) (int64, error)
	ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.Like, error)
}

// SlotStore persists tutoring slots
type SlotStore interface {
	Create(ctx context.Context, slot *models.TutorSlot) error
	GetByID(ctx context.Context, id string) (*models.TutorSlot, error)
	List(ctx context.Context) ([]*models.SlotView, error)
	DeleteIfEmpty(ctx context.Context, id, tutorID string) (bool, error)
}

// BookingStore persists bookings
type BookingStore interface {
	Book(ctx context.Context, booking *models.TutorBooking) error
	ListByTutor(ctx context.Context, tutorID string) ([]*models.BookingView, error)
}
