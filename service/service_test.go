package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirp/apperr"
	"chirp/auth"
	"chirp/models"
	"chirp/store/memory"
)

func newTestServices(t *testing.T) (*Services, *auth.Issuer) {
	t.Helper()
	issuer := auth.NewIssuer([]byte("test-secret-0123456789"), time.Hour)
	return New(memory.New(), issuer, 4), issuer
}

func register(t *testing.T, s *Services, username string) *Session {
	t.Helper()
	sess, err := s.Accounts.Register(context.Background(), Registration{
		Username:    username,
		Email:       username + "@x.com",
		Password:    "secret1",
		DisplayName: strings.ToUpper(username[:1]) + username[1:],
	})
	require.NoError(t, err)
	return sess
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.As(err).Kind, "error: %v", err)
}

func TestRegisterLoginScenario(t *testing.T) {
	ctx := context.Background()
	s, issuer := newTestServices(t)

	sess, err := s.Accounts.Register(ctx, Registration{
		Username:    "alice",
		Email:       "a@x.com",
		Password:    "secret1",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	assert.Equal(t, "alice", sess.User.Username)
	assert.NotEqual(t, "secret1", sess.User.Password)

	id, err := issuer.Authenticate(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, id)

	_, err = s.Accounts.Register(ctx, Registration{
		Username:    "alice2",
		Email:       "a@x.com",
		Password:    "secret1",
		DisplayName: "Alice",
	})
	requireKind(t, err, apperr.KindConflict)

	_, err = s.Accounts.Login(ctx, "a@x.com", "wrong-password")
	requireKind(t, err, apperr.KindUnauthorized)

	_, err = s.Accounts.Login(ctx, "nobody@x.com", "secret1")
	requireKind(t, err, apperr.KindUnauthorized)
	assert.Equal(t, invalidCredentials, err.Error())

	again, err := s.Accounts.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID)

	_, err = s.Posts.Create(ctx, sess.User.ID, "hello world", "")
	require.NoError(t, err)

	page, err := s.Timeline.Get(ctx, sess.User.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "hello world", page.Posts[0].Content)
	assert.Equal(t, "alice", page.Posts[0].Author.Username)
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestServices(t)

	_, err := s.Accounts.Register(context.Background(), Registration{
		Username:    "a!",
		Email:       "not-an-email",
		Password:    "123",
		DisplayName: "  ",
	})
	requireKind(t, err, apperr.KindValidation)

	var fields []string
	for _, f := range apperr.As(err).Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"username", "email", "password", "displayName"}, fields)
}

func TestRegisterRejectsDisplayFormEmail(t *testing.T) {
	s, _ := newTestServices(t)

	_, err := s.Accounts.Register(context.Background(), Registration{
		Username:    "alice",
		Email:       "Alice <a@x.com>",
		Password:    "secret1",
		DisplayName: "Alice",
	})
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "email", apperr.As(err).Fields[0].Field)
}

func TestDuplicateUsernameConflicts(t *testing.T) {
	s, _ := newTestServices(t)
	register(t, s, "alice")

	_, err := s.Accounts.Register(context.Background(), Registration{
		Username:    "alice",
		Email:       "other@x.com",
		Password:    "secret1",
		DisplayName: "Other",
	})
	requireKind(t, err, apperr.KindConflict)
}

func TestPostRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	alice := register(t, s, "alice")

	created, err := s.Posts.Create(ctx, alice.User.ID, "  just setting up  ", "")
	require.NoError(t, err)

	got, err := s.Posts.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "just setting up", got.Content)
	assert.Empty(t, got.Image)
	assert.Equal(t, alice.User.ID, got.Author.ID)
	assert.Empty(t, got.Likes)
}

func TestPostContentBoundary(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	alice := register(t, s, "alice")

	_, err := s.Posts.Create(ctx, alice.User.ID, strings.Repeat("a", models.MaxContentLength), "")
	require.NoError(t, err)

	_, err = s.Posts.Create(ctx, alice.User.ID, strings.Repeat("a", models.MaxContentLength+1), "")
	requireKind(t, err, apperr.KindValidation)

	_, err = s.Posts.Create(ctx, alice.User.ID, strings.Repeat("é", models.MaxContentLength), "")
	require.NoError(t, err, "length is counted in characters")

	_, err = s.Posts.Create(ctx, alice.User.ID, " \n\t ", "")
	requireKind(t, err, apperr.KindValidation)
}

func TestGetMissingPost(t *testing.T) {
	s, _ := newTestServices(t)

	_, err := s.Posts.Get(context.Background(), "missing")
	requireKind(t, err, apperr.KindNotFound)
	assert.Equal(t, "Post not found", err.Error())
}

func TestDeleteAuthorization(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")

	post, err := s.Posts.Create(ctx, alice.User.ID, "mine", "")
	require.NoError(t, err)

	err = s.Posts.Delete(ctx, post.ID, bob.User.ID)
	requireKind(t, err, apperr.KindForbidden)

	_, err = s.Posts.Get(ctx, post.ID)
	require.NoError(t, err, "post must survive a forbidden delete")

	require.NoError(t, s.Posts.Delete(ctx, post.ID, alice.User.ID))
	_, err = s.Posts.Get(ctx, post.ID)
	requireKind(t, err, apperr.KindNotFound)

	err = s.Posts.Delete(ctx, post.ID, alice.User.ID)
	requireKind(t, err, apperr.KindNotFound)
}

func TestToggleLikeIsIdempotentPerPair(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")

	post, err := s.Posts.Create(ctx, alice.User.ID, "like me", "")
	require.NoError(t, err)

	liked, err := s.Posts.ToggleLike(ctx, post.ID, bob.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.LikeCount)
	require.Len(t, liked.Likes, 1)
	assert.Equal(t, "bob", liked.Likes[0].Username)

	own, err := s.Posts.ToggleLike(ctx, post.ID, alice.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, own.LikeCount)

	unliked, err := s.Posts.ToggleLike(ctx, post.ID, bob.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unliked.LikeCount)

	_, err = s.Posts.ToggleLike(ctx, "missing", bob.User.ID)
	requireKind(t, err, apperr.KindNotFound)
}

func TestListByAuthorPagination(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	alice := register(t, s, "alice")

	for i := 0; i < 25; i++ {
		_, err := s.Posts.Create(ctx, alice.User.ID, "post", "")
		require.NoError(t, err)
	}

	first, err := s.Posts.ListByAuthor(ctx, alice.User.ID, 1)
	require.NoError(t, err)
	assert.Len(t, first.Posts, models.PageSize)
	assert.Equal(t, 2, first.TotalPages)
	assert.EqualValues(t, 25, first.TotalPosts)

	second, err := s.Posts.ListByAuthor(ctx, alice.User.ID, 2)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 5)
	assert.Equal(t, 2, second.CurrentPage)
	assert.Equal(t, 2, second.TotalPages)

	third, err := s.Posts.ListByAuthor(ctx, alice.User.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, third.Posts)

	clamped, err := s.Posts.ListByAuthor(ctx, alice.User.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.CurrentPage)
	assert.Equal(t, first.Posts[0].ID, clamped.Posts[0].ID)
}

func TestTimelineIncludesFollowees(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")
	carol := register(t, s, "carol")

	empty, err := s.Timeline.Get(ctx, alice.User.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)
	assert.Equal(t, 0, empty.TotalPages)

	_, err = s.Posts.Create(ctx, bob.User.ID, "from bob", "")
	require.NoError(t, err)
	_, err = s.Posts.Create(ctx, carol.User.ID, "from carol", "")
	require.NoError(t, err)
	_, err = s.Posts.Create(ctx, alice.User.ID, "from alice", "")
	require.NoError(t, err)

	_, err = s.Graph.ToggleFollow(ctx, alice.User.ID, bob.User.ID)
	require.NoError(t, err)

	page, err := s.Timeline.Get(ctx, alice.User.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "from alice", page.Posts[0].Content)
	assert.Equal(t, "from bob", page.Posts[1].Content)
}

func TestToggleFollow(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")

	res, err := s.Graph.ToggleFollow(ctx, alice.User.ID, bob.User.ID)
	require.NoError(t, err)
	assert.True(t, res.Following)
	assert.Equal(t, 1, res.User.FollowerCount)
	assert.Equal(t, "alice", res.User.Followers[0].Username)

	following, err := s.Graph.Following(ctx, alice.User.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.User.ID, following[0].ID)

	followers, err := s.Graph.Followers(ctx, bob.User.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.User.ID, followers[0].ID)

	res, err = s.Graph.ToggleFollow(ctx, alice.User.ID, bob.User.ID)
	require.NoError(t, err)
	assert.False(t, res.Following)
	assert.Zero(t, res.User.FollowerCount)
	assert.Empty(t, res.User.Followers)

	back, err := s.Accounts.Profile(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Zero(t, back.FollowingCount)
}

func TestToggleFollowRejections(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	alice := register(t, s, "alice")

	_, err := s.Graph.ToggleFollow(ctx, alice.User.ID, alice.User.ID)
	requireKind(t, err, apperr.KindValidation)

	_, err = s.Graph.ToggleFollow(ctx, alice.User.ID, "missing")
	requireKind(t, err, apperr.KindNotFound)

	_, err = s.Graph.Followers(ctx, "missing")
	requireKind(t, err, apperr.KindNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")

	name, bio := "  Alice L.  ", "hi"
	profile, err := s.Accounts.UpdateProfile(ctx, alice.User.ID, alice.User.ID, models.ProfileUpdate{
		DisplayName: &name,
		Bio:         &bio,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", profile.DisplayName)
	assert.Equal(t, "hi", profile.Bio)
	assert.Equal(t, "alice", profile.Username)

	_, err = s.Accounts.UpdateProfile(ctx, bob.User.ID, alice.User.ID, models.ProfileUpdate{Bio: &bio})
	requireKind(t, err, apperr.KindForbidden)

	long := strings.Repeat("b", models.MaxBioLength+1)
	_, err = s.Accounts.UpdateProfile(ctx, alice.User.ID, alice.User.ID, models.ProfileUpdate{Bio: &long})
	requireKind(t, err, apperr.KindValidation)

	unchanged, err := s.Accounts.UpdateProfile(ctx, alice.User.ID, alice.User.ID, models.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "hi", unchanged.Bio)
}

func TestProfileJoinsAuthorAfterRename(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	alice := register(t, s, "alice")

	post, err := s.Posts.Create(ctx, alice.User.ID, "before rename", "")
	require.NoError(t, err)

	name := "Renamed"
	_, err = s.Accounts.UpdateProfile(ctx, alice.User.ID, alice.User.ID, models.ProfileUpdate{DisplayName: &name})
	require.NoError(t, err)

	got, err := s.Posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Author.DisplayName)
}
