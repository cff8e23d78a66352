package repository

import (
	"context"
	"fmt"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
)

// LikeRepository handles database operations for likes
type LikeRepository struct {
	db DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a like. Repeated likes by the same user are stored as separate rows.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (id, post_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, like.ID, like.PostID, like.UserID, like.CreatedAt)
	if err != nil {
		if isInvalidID(err) || isForeignKeyViolation(err) {
			return fmt.Errorf("post not found: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Delete removes every like of postID by userID and reports how many were removed
func (r *LikeRepository) Delete(ctx context.Context, postID, userID string) (int64, error) {
	query := `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, postID, userID)
	if err != nil {
		if isInvalidID(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to delete like: %w", err)
	}
	return result.RowsAffected(), nil
}

// ListByPostIDs retrieves the likes of several posts
func (r *LikeRepository) ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.Like, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, post_id, user_id, created_at
		FROM likes
		WHERE post_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get likes: %w", err)
	}
	defer rows.Close()

	var likes []*models.Like
	for rows.Next() {
		var like models.Like
		if err := rows.Scan(&like.ID, &like.PostID, &like.UserID, &like.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		likes = append(likes, &like)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating likes: %w", err)
	}

	return likes, nil
}
