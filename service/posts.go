package service

import (
	"context"

	"chirp/apperr"
	"chirp/models"
	"chirp/store"
)

// Posts creates, reads, deletes and likes posts.
type Posts struct {
	posts store.Posts
	joins joiner
}

func NewPosts(users store.Users, posts store.Posts) *Posts {
	return &Posts{posts: posts, joins: joiner{users: users}}
}

func (p *Posts) Create(ctx context.Context, authorID, content, image string) (*models.PostView, error) {
	content, err := ValidateContent(content)
	if err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: authorID, Content: content, Image: image}
	if err := p.posts.CreatePost(ctx, post); err != nil {
		return nil, storeErr(err, "Post")
	}
	return p.view(ctx, post)
}

func (p *Posts) Get(ctx context.Context, postID string) (*models.PostView, error) {
	post, err := p.posts.PostByID(ctx, postID)
	if err != nil {
		return nil, storeErr(err, "Post")
	}
	return p.view(ctx, post)
}

// Delete hard-removes a post. Only its author may delete it.
func (p *Posts) Delete(ctx context.Context, postID, callerID string) error {
	post, err := p.posts.PostByID(ctx, postID)
	if err != nil {
		return storeErr(err, "Post")
	}
	if post.AuthorID != callerID {
		return apperr.Forbidden("Not authorized to delete this post")
	}
	return storeErr(p.posts.DeletePost(ctx, postID), "Post")
}

func (p *Posts) ToggleLike(ctx context.Context, postID, callerID string) (*models.PostView, error) {
	post, err := p.posts.ToggleLike(ctx, postID, callerID)
	if err != nil {
		return nil, storeErr(err, "Post")
	}
	return p.view(ctx, post)
}

// ListByAuthors returns one page of posts by any of authorIDs, newest first.
func (p *Posts) ListByAuthors(ctx context.Context, authorIDs []string, page int) (*models.PostPage, error) {
	page = pageOrFirst(page)

	posts, total, err := p.posts.ListPosts(ctx, authorIDs, models.Offset(page), models.PageSize)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views, err := p.joins.postViews(ctx, posts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.PostPage{
		Posts:       views,
		CurrentPage: page,
		TotalPages:  models.TotalPages(total),
		TotalPosts:  total,
	}, nil
}

func (p *Posts) ListByAuthor(ctx context.Context, authorID string, page int) (*models.PostPage, error) {
	return p.ListByAuthors(ctx, []string{authorID}, page)
}

func (p *Posts) view(ctx context.Context, post *models.Post) (*models.PostView, error) {
	v, err := p.joins.postView(ctx, post)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return v, nil
}
