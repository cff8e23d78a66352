package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/media"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSocial(store *memStore) *SocialService {
	return NewSocialService(store, postStore{store}, commentStore{store}, likeStore{store}, nil)
}

type fakeImages struct {
	stored string
	err    error
}

func (f *fakeImages) Store(ctx context.Context, image string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.stored = image
	return "https://cdn.example.com/posts/1.png", nil
}

func TestSocialService_LikeAndUnlike(t *testing.T) {
	store := newMemStore()
	svc := newSocial(store)
	ctx := context.Background()

	like, err := svc.Like(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "p1", like.PostID)
	assert.NotEmpty(t, like.ID)

	// duplicates are kept
	_, err = svc.Like(ctx, "p1", "u1")
	require.NoError(t, err)
	assert.Len(t, store.likes, 2)

	require.NoError(t, svc.Unlike(ctx, "p1", "u1"))
	assert.Empty(t, store.likes)

	// unliking again is still a success
	require.NoError(t, svc.Unlike(ctx, "p1", "u1"))
}

func TestSocialService_MissingPost(t *testing.T) {
	store := newMemStore()
	store.err = fmt.Errorf("post not found: %w", repository.ErrNotFound)
	svc := newSocial(store)
	ctx := context.Background()

	_, err := svc.Like(ctx, "not-a-post", "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Comment(ctx, "not-a-post", "u1", "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSocialService_Comment(t *testing.T) {
	store := newMemStore()
	svc := newSocial(store)

	_, err := svc.Comment(context.Background(), "p1", "u1", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.comments)

	comment, err := svc.Comment(context.Background(), "p1", "u1", "nice post")
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Content)
	assert.False(t, comment.CreatedAt.IsZero())
	assert.Len(t, store.comments, 1)
}

func TestSocialService_CreatePostRequiresAdmin(t *testing.T) {
	store := newMemStore()
	store.addProfile("student", "Student", false, false)
	svc := newSocial(store)

	_, err := svc.CreatePost(context.Background(), "student", "hello", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreatePost(context.Background(), "no-profile", "hello", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Empty(t, store.posts)
}

func TestSocialService_CreatePost(t *testing.T) {
	store := newMemStore()
	store.addProfile("admin", "Admin", false, true)
	images := &fakeImages{}
	svc := NewSocialService(store, postStore{store}, commentStore{store}, likeStore{store}, images)

	_, err := svc.CreatePost(context.Background(), "admin", "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	post, err := svc.CreatePost(context.Background(), "admin", "hello", strPtr("data:image/png;base64,AAAA"))
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", images.stored)
	require.NotNil(t, post.Image)
	assert.Equal(t, "https://cdn.example.com/posts/1.png", *post.Image)
	require.Len(t, store.posts, 1)
	assert.Equal(t, "admin", store.posts[0].UserID)
}

func TestSocialService_CreatePostImageErrors(t *testing.T) {
	store := newMemStore()
	store.addProfile("admin", "Admin", false, true)

	bad := NewSocialService(store, postStore{store}, commentStore{store}, likeStore{store},
		&fakeImages{err: media.ErrInvalidImage})
	_, err := bad.CreatePost(context.Background(), "admin", "hello", strPtr("data:nope"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	down := NewSocialService(store, postStore{store}, commentStore{store}, likeStore{store},
		&fakeImages{err: errors.New("failed to upload image: timeout")})
	_, err = down.CreatePost(context.Background(), "admin", "hello", strPtr("data:image/png;base64,AAAA"))
	assert.EqualError(t, err, "failed to upload image: timeout")
	assert.Empty(t, store.posts)
}

func TestSocialService_DeletePost(t *testing.T) {
	store := newMemStore()
	store.addProfile("admin", "Admin", false, true)
	store.addProfile("student", "Student", false, false)
	svc := newSocial(store)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "admin", "hello", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeletePost(ctx, "student", post.ID), ErrForbidden)
	assert.Len(t, store.posts, 1)

	require.NoError(t, svc.DeletePost(ctx, "admin", post.ID))
	assert.Empty(t, store.posts)

	// deleting a missing post is not distinguished from success
	require.NoError(t, svc.DeletePost(ctx, "admin", "missing"))
}
