package service

import (
	"context"

	"chirp/apperr"
	"chirp/models"
	"chirp/store"
)

// Timeline assembles a viewer's feed from their own posts and the posts of
// everyone they follow.
type Timeline struct {
	follows store.Follows
	posts   *Posts
}

func NewTimeline(follows store.Follows, posts *Posts) *Timeline {
	return &Timeline{follows: follows, posts: posts}
}

func (t *Timeline) Get(ctx context.Context, viewerID string, page int) (*models.PostPage, error) {
	following, err := t.follows.Following(ctx, viewerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	authors := append([]string{viewerID}, following...)
	return t.posts.ListByAuthors(ctx, authors, page)
}
