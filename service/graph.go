package service

import (
	"context"

	"chirp/apperr"
	"chirp/models"
	"chirp/store"
)

type FollowResult struct {
	Following bool            `json:"following"`
	User      *models.Profile `json:"user"`
}

// Graph manages directed follow edges.
type Graph struct {
	users   store.Users
	follows store.Follows
	joins   joiner
}

func NewGraph(users store.Users, follows store.Follows) *Graph {
	return &Graph{
		users:   users,
		follows: follows,
		joins:   joiner{users: users, follows: follows},
	}
}

// ToggleFollow follows targetID on behalf of callerID, or unfollows when the
// edge already exists, and returns the target's updated profile.
func (g *Graph) ToggleFollow(ctx context.Context, callerID, targetID string) (*FollowResult, error) {
	if callerID == targetID {
		return nil, apperr.Invalid("userId", "You cannot follow yourself")
	}
	target, err := g.users.UserByID(ctx, targetID)
	if err != nil {
		return nil, storeErr(err, "User")
	}

	following, err := g.follows.ToggleFollow(ctx, callerID, target.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	profile, err := g.joins.profile(ctx, target)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &FollowResult{Following: following, User: profile}, nil
}

func (g *Graph) Followers(ctx context.Context, userID string) ([]models.UserSummary, error) {
	return g.list(ctx, userID, g.follows.Followers)
}

func (g *Graph) Following(ctx context.Context, userID string) ([]models.UserSummary, error) {
	return g.list(ctx, userID, g.follows.Following)
}

func (g *Graph) list(ctx context.Context, userID string, edges func(context.Context, string) ([]string, error)) ([]models.UserSummary, error) {
	if _, err := g.users.UserByID(ctx, userID); err != nil {
		return nil, storeErr(err, "User")
	}
	ids, err := edges(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out, err := g.joins.summaries(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
