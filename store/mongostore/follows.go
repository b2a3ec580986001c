package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type followDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Follower  primitive.ObjectID `bson:"follower"`
	Followee  primitive.ObjectID `bson:"followee"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (s *Store) ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	follower, err := objectID("user", followerID)
	if err != nil {
		return false, err
	}
	followee, err := objectID("user", followeeID)
	if err != nil {
		return false, err
	}

	pair := bson.M{"follower": follower, "followee": followee}
	res, err := s.follows.DeleteOne(ctx, pair)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	_, err = s.follows.InsertOne(ctx, followDoc{
		ID:        primitive.NewObjectID(),
		Follower:  follower,
		Followee:  followee,
		CreatedAt: s.now(),
	})
	if err != nil {
		// A concurrent toggle inserted the same pair first; the edge exists.
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, fmt.Errorf("insert follow: %w", err)
	}
	return true, nil
}

func (s *Store) Followers(ctx context.Context, userID string) ([]string, error) {
	return s.edges(ctx, "followee", "follower", userID)
}

func (s *Store) Following(ctx context.Context, userID string) ([]string, error) {
	return s.edges(ctx, "follower", "followee", userID)
}

// edges lists the far end of every edge whose near end is userID, oldest first.
func (s *Store) edges(ctx context.Context, near, far, userID string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []string{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{far: 1})
	cursor, err := s.follows.Find(ctx, bson.M{near: oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("find follows: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode follows: %w", err)
	}

	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if id, ok := d[far].(primitive.ObjectID); ok {
			out = append(out, id.Hex())
		}
	}
	return out, nil
}
