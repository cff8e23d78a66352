package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/media"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/repository"

	"github.com/google/uuid"
)

// SocialService handles likes, comments and admin post management
type SocialService struct {
	profiles ProfileStore
	posts    PostStore
	comments CommentStore
	likes    LikeStore
	images   media.ImageStore
}

// NewSocialService creates a new social service; images defaults to storing them as sent
func NewSocialService(
	profiles ProfileStore,
	posts PostStore,
	comments CommentStore,
	likes LikeStore,
	images media.ImageStore,
) *SocialService {
	if images == nil {
		images = media.PassthroughStore{}
	}
	return &SocialService{
		profiles: profiles,
		posts:    posts,
		comments: comments,
		likes:    likes,
		images:   images,
	}
}

// Like records a like of the post by the user. Repeated likes are not deduplicated.
func (s *SocialService) Like(ctx context.Context, postID, userID string) (*models.Like, error) {
	like := &models.Like{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.likes.Create(ctx, like); err != nil {
		return nil, fromRepository(err, "post")
	}
	socialActionsTotal.WithLabelValues("like").Inc()
	return like, nil
}

// Unlike removes the user's likes of the post; removing nothing is not an error
func (s *SocialService) Unlike(ctx context.Context, postID, userID string) error {
	if _, err := s.likes.Delete(ctx, postID, userID); err != nil {
		return err
	}
	socialActionsTotal.WithLabelValues("unlike").Inc()
	return nil
}

// Comment adds a comment to the post
func (s *SocialService) Comment(ctx context.Context, postID, userID, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, invalidInput("comment content is required")
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fromRepository(err, "post")
	}
	socialActionsTotal.WithLabelValues("comment").Inc()
	return comment, nil
}

// CreatePost publishes a post. Only admins may post.
func (s *SocialService) CreatePost(ctx context.Context, userID, content string, image *string) (*models.Post, error) {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalidInput("post content is required")
	}

	post := &models.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if image != nil && strings.TrimSpace(*image) != "" {
		stored, err := s.images.Store(ctx, strings.TrimSpace(*image))
		if err != nil {
			if errors.Is(err, media.ErrInvalidImage) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return nil, err
		}
		post.Image = &stored
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	socialActionsTotal.WithLabelValues("create_post").Inc()
	return post, nil
}

// DeletePost removes a post. Only admins may delete; a missing post is not an error.
func (s *SocialService) DeletePost(ctx context.Context, userID, postID string) error {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	socialActionsTotal.WithLabelValues("delete_post").Inc()
	return nil
}

// requireAdmin fails with ErrForbidden unless the user's profile is an admin.
// A user without a profile is not an admin.
func (s *SocialService) requireAdmin(ctx context.Context, userID string) error {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: admin role required", ErrForbidden)
		}
		return err
	}
	if !profile.IsAdmin {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}
