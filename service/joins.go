package service

import (
	"context"

	"chirp/models"
	"chirp/store"
)

// joiner attaches user summaries to posts and profiles at read time.
type joiner struct {
	users   store.Users
	follows store.Follows
}

func (j joiner) lookup(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	out := make(map[string]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := j.users.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

// summaries resolves ids in order, skipping users that no longer exist.
func (j joiner) summaries(ctx context.Context, ids []string) ([]models.UserSummary, error) {
	found, err := j.lookup(ctx, ids)
	if err != nil {
		return nil, err
	}
	return pick(found, ids), nil
}

func pick(found map[string]models.UserSummary, ids []string) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if s, ok := found[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (j joiner) postViews(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	var ids []string
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
		ids = append(ids, p.Likes...)
	}
	found, err := j.lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		author, ok := found[p.AuthorID]
		if !ok {
			author = models.UserSummary{ID: p.AuthorID}
		}
		views = append(views, models.PostView{
			ID:        p.ID,
			Author:    author,
			Content:   p.Content,
			Image:     p.Image,
			Likes:     pick(found, p.Likes),
			LikeCount: len(p.Likes),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return views, nil
}

func (j joiner) postView(ctx context.Context, p *models.Post) (*models.PostView, error) {
	views, err := j.postViews(ctx, []models.Post{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (j joiner) profile(ctx context.Context, u *models.User) (*models.Profile, error) {
	followerIDs, err := j.follows.Followers(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	followingIDs, err := j.follows.Following(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	found, err := j.lookup(ctx, append(append([]string{}, followerIDs...), followingIDs...))
	if err != nil {
		return nil, err
	}
	followers := pick(found, followerIDs)
	following := pick(found, followingIDs)

	return &models.Profile{
		User:           *u,
		Followers:      followers,
		Following:      following,
		FollowerCount:  len(followers),
		FollowingCount: len(following),
	}, nil
}
