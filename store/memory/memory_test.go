package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirp/models"
	"chirp/store"
)

func TestCreateUserConflicts(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.CreateUser(ctx, &models.User{Username: "alice", Email: "a@x.com"}))

	err := s.CreateUser(ctx, &models.User{Username: "alice2", Email: "a@x.com"})
	assert.ErrorIs(t, err, store.ErrConflict)

	err = s.CreateUser(ctx, &models.User{Username: "alice", Email: "b@x.com"})
	assert.ErrorIs(t, err, store.ErrConflict)

	// Uniqueness is case-sensitive, as stored.
	assert.NoError(t, s.CreateUser(ctx, &models.User{Username: "Alice", Email: "A@x.com"}))
}

func TestCreatePostRechecksContent(t *testing.T) {
	s := New()

	err := s.CreatePost(context.Background(), &models.Post{AuthorID: "a", Content: strings.Repeat("x", 281)})
	assert.ErrorIs(t, err, models.ErrContentLength)

	err = s.CreatePost(context.Background(), &models.Post{AuthorID: "a", Content: "   "})
	assert.ErrorIs(t, err, models.ErrContentLength)
}

func TestListPostsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := 0; i < 25; i++ {
		author := "a"
		if i%5 == 0 {
			author = "b"
		}
		require.NoError(t, s.CreatePost(ctx, &models.Post{AuthorID: author, Content: "post"}))
	}
	require.NoError(t, s.CreatePost(ctx, &models.Post{AuthorID: "c", Content: "other"}))

	page, total, err := s.ListPosts(ctx, []string{"a", "b"}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	require.Len(t, page, 20)
	for i := 1; i < len(page); i++ {
		assert.Greater(t, page[i-1].ID, page[i].ID)
	}

	page, _, err = s.ListPosts(ctx, []string{"a", "b"}, 20, 20)
	require.NoError(t, err)
	assert.Len(t, page, 5)

	page, total, err = s.ListPosts(ctx, []string{"nobody"}, 0, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, page)
}

func TestToggleLikeKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := &models.Post{AuthorID: "a", Content: "hi"}
	require.NoError(t, s.CreatePost(ctx, p))

	for _, u := range []string{"u1", "u2", "u3"} {
		_, err := s.ToggleLike(ctx, p.ID, u)
		require.NoError(t, err)
	}
	got, err := s.ToggleLike(ctx, p.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u3"}, got.Likes)

	_, err = s.ToggleLike(ctx, "missing", "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestToggleFollow(t *testing.T) {
	ctx := context.Background()
	s := New()

	on, err := s.ToggleFollow(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, on)

	following, _ := s.Following(ctx, "a")
	followers, _ := s.Followers(ctx, "b")
	assert.Equal(t, []string{"b"}, following)
	assert.Equal(t, []string{"a"}, followers)

	back, _ := s.Following(ctx, "b")
	assert.Empty(t, back)

	on, err = s.ToggleFollow(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, on)

	following, _ = s.Following(ctx, "a")
	assert.Empty(t, following)
}
