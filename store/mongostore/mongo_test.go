package mongostore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"chirp/models"
	"chirp/store"
)

func TestUsers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("by id found", func(mt *mtest.T) {
		s := New(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "chirp.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "alice"},
			{Key: "email", Value: "a@x.com"},
			{Key: "displayName", Value: "Alice"},
			{Key: "password", Value: "hash"},
		}))

		u, err := s.UserByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), u.ID)
		assert.Equal(mt, "alice", u.Username)
		assert.Equal(mt, "hash", u.Password)
	})

	mt.Run("by id missing", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "chirp.users", mtest.FirstBatch))

		_, err := s.UserByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		s := New(mt.DB)

		_, err := s.UserByID(context.Background(), "not-an-object-id")
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("create conflict on existing", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "chirp.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "a@x.com"},
		}))

		err := s.CreateUser(context.Background(), &models.User{Username: "alice", Email: "a@x.com"})
		assert.ErrorIs(mt, err, store.ErrConflict)
	})

	mt.Run("create conflict on duplicate key", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "chirp.users", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
		)

		err := s.CreateUser(context.Background(), &models.User{Username: "alice", Email: "a@x.com"})
		assert.ErrorIs(mt, err, store.ErrConflict)
	})

	mt.Run("create", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "chirp.users", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		u := &models.User{Username: "alice", Email: "a@x.com"}
		require.NoError(mt, s.CreateUser(context.Background(), u))
		assert.True(mt, primitive.IsValidObjectID(u.ID))
		assert.False(mt, u.CreatedAt.IsZero())
	})
}

func TestPosts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create rejects long content before writing", func(mt *mtest.T) {
		s := New(mt.DB)
		err := s.CreatePost(context.Background(), &models.Post{
			AuthorID: primitive.NewObjectID().Hex(),
			Content:  strings.Repeat("x", 281),
		})
		assert.ErrorIs(mt, err, models.ErrContentLength)
	})

	mt.Run("create returns the stored timestamp", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := &models.Post{AuthorID: primitive.NewObjectID().Hex(), Content: "hello"}
		require.NoError(mt, s.CreatePost(context.Background(), p))

		stored := primitive.NewDateTimeFromTime(p.CreatedAt).Time().UTC()
		assert.True(mt, p.CreatedAt.Equal(stored), "created %v, stored %v", p.CreatedAt, stored)
		assert.Equal(mt, p.CreatedAt, p.UpdatedAt)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := s.DeletePost(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("toggle like returns updated post", func(mt *mtest.T) {
		s := New(mt.DB)
		postID := primitive.NewObjectID()
		author := primitive.NewObjectID()
		liker := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: postID},
				{Key: "author", Value: author},
				{Key: "content", Value: "hello"},
				{Key: "likes", Value: bson.A{liker}},
				{Key: "createdAt", Value: time.Now()},
			}},
		})

		p, err := s.ToggleLike(context.Background(), postID.Hex(), liker.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, []string{liker.Hex()}, p.Likes)
		assert.Equal(mt, author.Hex(), p.AuthorID)
	})

	mt.Run("list", func(mt *mtest.T) {
		s := New(mt.DB)
		author := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "chirp.posts", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: 1},
				{Key: "n", Value: int32(25)},
			}),
			mtest.CreateCursorResponse(0, "chirp.posts", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "author", Value: author}, {Key: "content", Value: "a"}},
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "author", Value: author}, {Key: "content", Value: "b"}},
			),
		)

		posts, total, err := s.ListPosts(context.Background(), []string{author.Hex()}, 20, 20)
		require.NoError(mt, err)
		assert.EqualValues(mt, 25, total)
		require.Len(mt, posts, 2)
		assert.Equal(mt, "a", posts[0].Content)
		assert.Empty(mt, posts[0].Likes)
	})

	mt.Run("list without authors", func(mt *mtest.T) {
		s := New(mt.DB)

		posts, total, err := s.ListPosts(context.Background(), nil, 0, 20)
		require.NoError(mt, err)
		assert.Zero(mt, total)
		assert.Empty(mt, posts)
	})
}

func TestFollows(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	a, b := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	mt.Run("unfollow existing edge", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		following, err := s.ToggleFollow(context.Background(), a, b)
		require.NoError(mt, err)
		assert.False(mt, following)
	})

	mt.Run("follow new edge", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateSuccessResponse(),
		)

		following, err := s.ToggleFollow(context.Background(), a, b)
		require.NoError(mt, err)
		assert.True(mt, following)
	})

	mt.Run("racing insert still follows", func(mt *mtest.T) {
		s := New(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
		)

		following, err := s.ToggleFollow(context.Background(), a, b)
		require.NoError(mt, err)
		assert.True(mt, following)
	})

	mt.Run("list following", func(mt *mtest.T) {
		s := New(mt.DB)
		followee := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "chirp.follows", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "followee", Value: followee}},
		))

		ids, err := s.Following(context.Background(), a)
		require.NoError(mt, err)
		assert.Equal(mt, []string{followee.Hex()}, ids)
	})
}
