package repository

import (
	"context"
	"fmt"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
)

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.Content, comment.CreatedAt,
	)
	if err != nil {
		if isInvalidID(err) || isForeignKeyViolation(err) {
			return fmt.Errorf("post not found: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByPostIDs retrieves the comments of several posts with their authors, oldest first
func (r *CommentRepository) ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.CommentView, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, pr.full_name
		FROM comments c
		LEFT JOIN profiles pr ON pr.user_id = c.user_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.created_at ASC, c.id ASC
	`
	rows, err := r.db.Query(ctx, query, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.CommentView
	for rows.Next() {
		var c models.CommentView
		err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.Author.FullName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
