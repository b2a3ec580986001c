// Package service implements accounts, the follow graph, posts and the
// timeline on top of the store contracts. Every returned error is an
// *apperr.Error.
package service

import (
	"errors"

	"chirp/apperr"
	"chirp/auth"
	"chirp/models"
	"chirp/store"
)

type Services struct {
	Accounts *Accounts
	Graph    *Graph
	Posts    *Posts
	Timeline *Timeline
}

func New(st store.Store, issuer *auth.Issuer, bcryptCost int) *Services {
	posts := NewPosts(st, st)
	return &Services{
		Accounts: NewAccounts(st, st, issuer, bcryptCost),
		Graph:    NewGraph(st, st),
		Posts:    posts,
		Timeline: NewTimeline(st, posts),
	}
}

// storeErr translates a store error. what names the entity for not-found
// messages, e.g. "Post".
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, store.ErrConflict):
		return apperr.Conflict("User already exists with this email or username")
	case errors.Is(err, models.ErrContentLength):
		return apperr.Invalid("content", models.ErrContentLength.Error())
	default:
		return apperr.Internal(err)
	}
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
