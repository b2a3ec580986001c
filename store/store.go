// Package store declares the persistence contracts for users, posts and the
// follow graph. Implementations live in subpackages.
package store

import (
	"context"
	"errors"

	"chirp/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type Users interface {
	// CreateUser assigns ID and timestamps. ErrConflict when the username or
	// email is taken.
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UsersByIDs returns the users that exist among ids, in no particular order.
	UsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)
}

type Posts interface {
	// CreatePost assigns ID and timestamps. Content is re-checked with
	// models.CheckContent before writing.
	CreatePost(ctx context.Context, p *models.Post) error
	PostByID(ctx context.Context, id string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	// ToggleLike adds userID to the post's likes or removes it when present,
	// as one atomic update, and returns the updated post.
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
	// ListPosts returns posts by any of authorIDs, newest first, and the total
	// number of matching posts.
	ListPosts(ctx context.Context, authorIDs []string, skip, limit int) ([]models.Post, int64, error)
}

type Follows interface {
	// ToggleFollow removes the edge when present and creates it otherwise. It
	// reports whether the edge exists afterwards.
	ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error)
	// Followers and Following return user ids in edge creation order.
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)
}

type Store interface {
	Users
	Posts
	Follows
	Close(ctx context.Context) error
}
