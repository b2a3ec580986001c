package service

import (
	"context"
	"errors"
	"time"

	"chirp/apperr"
	"chirp/auth"
	"chirp/models"
	"chirp/store"
)

const invalidCredentials = "Invalid email or password"

type Registration struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

// Session is returned by register and login.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      *models.Profile `json:"user"`
}

// Accounts is the credential store: registration, login and profiles.
type Accounts struct {
	users  store.Users
	joins  joiner
	issuer *auth.Issuer
	cost   int

	// dummyHash is compared against when the email is unknown so that a
	// missing account costs the same as a wrong password.
	dummyHash string
}

func NewAccounts(users store.Users, follows store.Follows, issuer *auth.Issuer, bcryptCost int) *Accounts {
	dummy, _ := auth.HashPassword("chirp-dummy-password", bcryptCost)
	return &Accounts{
		users:     users,
		joins:     joiner{users: users, follows: follows},
		issuer:    issuer,
		cost:      bcryptCost,
		dummyHash: dummy,
	}
}

func (a *Accounts) Register(ctx context.Context, r Registration) (*Session, error) {
	if err := r.normalize(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(r.Password, a.cost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u := &models.User{
		Username:    r.Username,
		Email:       r.Email,
		Password:    hash,
		DisplayName: r.DisplayName,
	}
	if err := a.users.CreateUser(ctx, u); err != nil {
		return nil, storeErr(err, "User")
	}
	return a.session(ctx, u)
}

func (a *Accounts) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.CheckPassword(a.dummyHash, password)
			return nil, apperr.Unauthorized(invalidCredentials)
		}
		return nil, apperr.Internal(err)
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, apperr.Unauthorized(invalidCredentials)
	}
	return a.session(ctx, u)
}

func (a *Accounts) session(ctx context.Context, u *models.User) (*Session, error) {
	token, exp, err := a.issuer.Issue(u.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	profile, err := a.joins.profile(ctx, u)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: profile}, nil
}

// Profile returns the user with follower and following summaries joined.
func (a *Accounts) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	u, err := a.users.UserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User")
	}
	profile, err := a.joins.profile(ctx, u)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return profile, nil
}

// CheckEditable fails with Forbidden unless the caller owns the profile.
func (a *Accounts) CheckEditable(callerID, targetID string) error {
	if callerID == "" || callerID != targetID {
		return apperr.Forbidden("Not authorized to update this profile")
	}
	return nil
}

func (a *Accounts) UpdateProfile(ctx context.Context, callerID, targetID string, upd models.ProfileUpdate) (*models.Profile, error) {
	if err := a.CheckEditable(callerID, targetID); err != nil {
		return nil, err
	}
	if err := NormalizeProfileUpdate(&upd); err != nil {
		return nil, err
	}
	if upd.Empty() {
		return a.Profile(ctx, targetID)
	}

	u, err := a.users.UpdateUser(ctx, targetID, upd)
	if err != nil {
		return nil, storeErr(err, "User")
	}
	profile, err := a.joins.profile(ctx, u)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return profile, nil
}
