package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/config"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

// FeedQuery selects a feed page. ViewerID is empty for anonymous callers.
type FeedQuery struct {
	ViewerID string
	Page     int
	Filter   string
}

// FeedService composes feed pages
type FeedService struct {
	posts    PostStore
	comments CommentStore
	likes    LikeStore
	pageSize int
	exact    bool
}

// NewFeedService creates a new feed service
func NewFeedService(posts PostStore, comments CommentStore, likes LikeStore, cfg config.FeedConfig) *FeedService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &FeedService{
		posts:    posts,
		comments: comments,
		likes:    likes,
		pageSize: pageSize,
		exact:    cfg.ExactPageSize,
	}
}

// ParsePage reads a 1-based page number; anything unusable means page 1
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// normalizeFilter drops the "null" and "undefined" strings some clients send for no filter
func normalizeFilter(raw string) string {
	if raw == "null" || raw == "undefined" {
		return ""
	}
	return raw
}

// pageBounds returns the offset and row count of a page.
// The row range is [(page-1)*size, page*size] inclusive unless exact paging is on.
func (s *FeedService) pageBounds(page int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	offset = (page - 1) * s.pageSize
	limit = s.pageSize + 1
	if s.exact {
		limit = s.pageSize
	}
	return offset, limit
}

// ListFeed returns a page of posts, newest first, with comments and likes attached
func (s *FeedService) ListFeed(ctx context.Context, q FeedQuery) ([]*models.PostView, error) {
	offset, limit := s.pageBounds(q.Page)

	rows, err := s.posts.List(ctx, repository.PostFilter{
		Search: normalizeFilter(q.Filter),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		feedPageSize.Observe(0)
		return []*models.PostView{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var (
		comments []*models.CommentView
		likes    []*models.Like
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = s.comments.ListByPostIDs(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		likes, err = s.likes.ListByPostIDs(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]*models.PostView, len(rows))
	byID := make(map[string]*models.PostView, len(rows))
	for i, row := range rows {
		views[i] = &models.PostView{
			PostRow:  *row,
			Comments: []models.CommentView{},
			Likes:    []models.LikeRef{},
		}
		if q.ViewerID != "" {
			liked := false
			views[i].LikedByUser = &liked
		}
		byID[row.ID] = views[i]
	}

	for _, c := range comments {
		if v, ok := byID[c.PostID]; ok {
			v.Comments = append(v.Comments, *c)
		}
	}
	for _, l := range likes {
		v, ok := byID[l.PostID]
		if !ok {
			continue
		}
		v.Likes = append(v.Likes, models.LikeRef{UserID: l.UserID})
		v.LikeCount++
		if q.ViewerID != "" && l.UserID == q.ViewerID {
			*v.LikedByUser = true
		}
	}

	feedPageSize.Observe(float64(len(views)))
	return views, nil
}
