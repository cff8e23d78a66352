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

// FeedService is what FeedHandler needs to list posts
type FeedService interface {
	ListFeed(ctx context.Context, q services.FeedQuery) ([]*models.PostView, error)
}

// SocialService is what FeedHandler needs for feed writes
type SocialService interface {
	Like(ctx context.Context, postID, userID string) (*models.Like, error)
	Unlike(ctx context.Context, postID, userID string) error
	Comment(ctx context.Context, postID, userID, content string) (*models.Comment, error)
	CreatePost(ctx context.Context, userID, content string, image *string) (*models.Post, error)
	DeletePost(ctx context.Context, userID, postID string) error
}

// FeedHandler handles feed, like, comment and post HTTP requests
type FeedHandler struct {
	feedService   FeedService
	socialService SocialService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService FeedService, socialService SocialService) *FeedHandler {
	return &FeedHandler{
		feedService:   feedService,
		socialService: socialService,
	}
}

// CommentRequest is the body of POST /auth/comment/{postId}
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CreatePostRequest is the body of POST /auth/create-post
type CreatePostRequest struct {
	Content string  `json:"content"`
	Image   *string `json:"image"`
}

// GetFeed handles GET /auth/feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	posts, err := h.feedService.ListFeed(r.Context(), services.FeedQuery{
		ViewerID: middleware.GetUserID(r.Context()),
		Page:     services.ParsePage(query.Get("page")),
		Filter:   query.Get("filter"),
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to get feed")
		return
	}

	respondJSON(w, http.StatusOK, Response{Data: posts})
}

// Like handles POST /auth/like/{postId}
func (h *FeedHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "postId")

	like, err := h.socialService.Like(r.Context(), postID, userID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to like post")
		return
	}

	respondJSON(w, http.StatusCreated, Response{Message: "Post liked", Data: like})
}

// Unlike handles DELETE /auth/like/{postId}
func (h *FeedHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "postId")

	if err := h.socialService.Unlike(r.Context(), postID, userID); err != nil {
		respondServiceError(w, r, err, "Failed to unlike post")
		return
	}

	respondJSON(w, http.StatusOK, Response{Message: "Post unliked"})
}

// Comment handles POST /auth/comment/{postId}
func (h *FeedHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "postId")

	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err, "Invalid comment request")
		return
	}

	comment, err := h.socialService.Comment(r.Context(), postID, userID, req.Content)
	if err != nil {
		respondServiceError(w, r, err, "Failed to add comment")
		return
	}

	respondJSON(w, http.StatusCreated, Response{Message: "Comment added", Data: comment})
}

// CreatePost handles POST /auth/create-post
func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err, "Invalid create post request")
		return
	}

	post, err := h.socialService.CreatePost(r.Context(), userID, req.Content, req.Image)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create post")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("post_id", post.ID).
		Msg("Post created")

	respondJSON(w, http.StatusCreated, Response{Message: "Post created successfully", Data: post})
}

// DeletePost handles DELETE /auth/delete-post/{postId}
func (h *FeedHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "postId")

	if err := h.socialService.DeletePost(r.Context(), userID, postID); err != nil {
		respondServiceError(w, r, err, "Failed to delete post")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("post_id", postID).
		Msg("Post deleted")

	respondJSON(w, http.StatusOK, Response{Message: "Post deleted successfully"})
}
