package mongostore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chirp/models"
)

type postDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Author    primitive.ObjectID   `bson:"author"`
	Content   string               `bson:"content"`
	Image     string               `bson:"image"`
	Likes     []primitive.ObjectID `bson:"likes"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (d postDoc) model() *models.Post {
	return &models.Post{
		ID:        d.ID.Hex(),
		AuthorID:  d.Author.Hex(),
		Content:   d.Content,
		Image:     d.Image,
		Likes:     hexIDs(d.Likes),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	if err := models.CheckContent(p.Content); err != nil {
		return err
	}
	author, err := objectID("user", p.AuthorID)
	if err != nil {
		return err
	}

	now := s.now()
	doc := postDoc{
		ID:        primitive.NewObjectID(),
		Author:    author,
		Content:   strings.TrimSpace(p.Content),
		Image:     p.Image,
		Likes:     []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	*p = *doc.model()
	return nil
}

func (s *Store) PostByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := objectID("post", id)
	if err != nil {
		return nil, err
	}

	var doc postDoc
	if err := s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err, "post", id)
	}
	return doc.model(), nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	oid, err := objectID("post", id)
	if err != nil {
		return err
	}

	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "post", id)
	}
	return nil
}

// ToggleLike flips membership of userID in the likes array with a single
// pipeline update, so concurrent toggles on one post never lose a write.
func (s *Store) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	oid, err := objectID("post", postID)
	if err != nil {
		return nil, err
	}
	uid, err := objectID("user", userID)
	if err != nil {
		return nil, err
	}

	likes := bson.D{{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{uid, likes}}},
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: likes},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", uid}}}},
				}}},
				bson.D{{Key: "$concatArrays", Value: bson.A{likes, bson.A{uid}}}},
			}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}

	var doc postDoc
	err = s.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, notFound(err, "post", postID)
	}
	return doc.model(), nil
}

func (s *Store) ListPosts(ctx context.Context, authorIDs []string, skip, limit int) ([]models.Post, int64, error) {
	authors := objectIDs(authorIDs)
	if len(authors) == 0 {
		return []models.Post{}, 0, nil
	}
	filter := bson.M{"author": bson.M{"$in": authors}}

	total, err := s.posts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cursor, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode posts: %w", err)
	}

	out := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.model())
	}
	return out, total, nil
}
