// Package memory is an in-process implementation of store.Store. It is safe
// for concurrent use and backs tests and local development.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"chirp/models"
	"chirp/store"
)

type postRecord struct {
	post models.Post
	seq  uint64
}

type edge struct {
	follower string
	followee string
}

type Store struct {
	mu         sync.RWMutex
	seq        uint64
	users      map[string]models.User
	byEmail    map[string]string
	byUsername map[string]string
	posts      map[string]postRecord
	follows    []edge
	now        func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:      make(map[string]models.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
		posts:      make(map[string]postRecord),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) nextIDLocked() (string, uint64) {
	s.seq++
	return fmt.Sprintf("%024x", s.seq), s.seq
}

// Users ------------------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return fmt.Errorf("email %s: %w", u.Email, store.ErrConflict)
	}
	if _, ok := s.byUsername[u.Username]; ok {
		return fmt.Errorf("username %s: %w", u.Username, store.ErrConflict)
	}

	u.ID, _ = s.nextIDLocked()
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt

	s.users[u.ID] = *u
	s.byEmail[u.Email] = u.ID
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *Store) UserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	return &u, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, store.ErrNotFound)
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) UsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	if upd.DisplayName != nil {
		u.DisplayName = *upd.DisplayName
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.ProfilePicture != nil {
		u.ProfilePicture = *upd.ProfilePicture
	}
	if upd.CoverPicture != nil {
		u.CoverPicture = *upd.CoverPicture
	}
	u.UpdatedAt = s.now()
	s.users[id] = u
	return &u, nil
}

// Posts ------------------------------------------------------------------------

func (s *Store) CreatePost(_ context.Context, p *models.Post) error {
	if err := models.CheckContent(p.Content); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var seq uint64
	p.ID, seq = s.nextIDLocked()
	p.Content = strings.TrimSpace(p.Content)
	p.Likes = []string{}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt

	s.posts[p.ID] = postRecord{post: clonePost(*p), seq: seq}
	return nil
}

func (s *Store) PostByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, store.ErrNotFound)
	}
	p := clonePost(rec.post)
	return &p, nil
}

func (s *Store) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, store.ErrNotFound)
	}
	delete(s.posts, id)
	return nil
}

func (s *Store) ToggleLike(_ context.Context, postID, userID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", postID, store.ErrNotFound)
	}

	if i := slices.Index(rec.post.Likes, userID); i >= 0 {
		rec.post.Likes = slices.Delete(rec.post.Likes, i, i+1)
	} else {
		rec.post.Likes = append(rec.post.Likes, userID)
	}
	rec.post.UpdatedAt = s.now()
	s.posts[postID] = rec

	p := clonePost(rec.post)
	return &p, nil
}

func (s *Store) ListPosts(_ context.Context, authorIDs []string, skip, limit int) ([]models.Post, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authors := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}

	var matched []postRecord
	for _, rec := range s.posts {
		if authors[rec.post.AuthorID] {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.post.CreatedAt.Equal(b.post.CreatedAt) {
			return a.post.CreatedAt.After(b.post.CreatedAt)
		}
		return a.seq > b.seq
	})

	total := int64(len(matched))
	if skip >= len(matched) {
		return []models.Post{}, total, nil
	}
	end := len(matched)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}

	out := make([]models.Post, 0, end-skip)
	for _, rec := range matched[skip:end] {
		out = append(out, clonePost(rec.post))
	}
	return out, total, nil
}

// Follows ----------------------------------------------------------------------

func (s *Store) ToggleFollow(_ context.Context, followerID, followeeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.follows {
		if e.follower == followerID && e.followee == followeeID {
			s.follows = slices.Delete(s.follows, i, i+1)
			return false, nil
		}
	}
	s.follows = append(s.follows, edge{follower: followerID, followee: followeeID})
	return true, nil
}

func (s *Store) Followers(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{}
	for _, e := range s.follows {
		if e.followee == userID {
			out = append(out, e.follower)
		}
	}
	return out, nil
}

func (s *Store) Following(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{}
	for _, e := range s.follows {
		if e.follower == userID {
			out = append(out, e.followee)
		}
	}
	return out, nil
}

func clonePost(p models.Post) models.Post {
	p.Likes = slices.Clone(p.Likes)
	if p.Likes == nil {
		p.Likes = []string{}
	}
	return p
}
