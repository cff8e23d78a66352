package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
)

// PostFilter selects a page of the feed
type PostFilter struct {
	Search string // case-insensitive substring of content, empty for all
	Limit  int
	Offset int
}

// PostRepository handles database operations for posts
type PostRepository struct {
	db DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, user_id, content, image, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, post.ID, post.UserID, post.Content, post.Image, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// Delete deletes a post by ID; deleting a missing post is not an error
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		if isInvalidID(err) {
			return nil
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// List retrieves posts with their authors, newest first
func (r *PostRepository) List(ctx context.Context, filter PostFilter) ([]*models.PostRow, error) {
	query := `
		SELECT p.id, p.user_id, p.content, p.image, p.created_at, pr.full_name
		FROM posts p
		LEFT JOIN profiles pr ON pr.user_id = p.user_id
		WHERE $1 = '' OR p.content ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, escapeLike(filter.Search), filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.PostRow
	for rows.Next() {
		var post models.PostRow
		err := rows.Scan(
			&post.ID, &post.UserID, &post.Content, &post.Image, &post.CreatedAt,
			&post.Author.FullName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
