package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chirp/models"
	"chirp/store"
)

type userDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"username"`
	Email          string             `bson:"email"`
	Password       string             `bson:"password"`
	DisplayName    string             `bson:"displayName"`
	Bio            string             `bson:"bio"`
	ProfilePicture string             `bson:"profilePicture"`
	CoverPicture   string             `bson:"coverPicture"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		Email:          d.Email,
		Password:       d.Password,
		DisplayName:    d.DisplayName,
		Bio:            d.Bio,
		ProfilePicture: d.ProfilePicture,
		CoverPicture:   d.CoverPicture,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	var existing userDoc
	err := s.users.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": u.Email},
		bson.M{"username": u.Username},
	}}).Decode(&existing)
	if err == nil {
		return fmt.Errorf("user %s: %w", u.Username, store.ErrConflict)
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("find user: %w", err)
	}

	now := s.now()
	doc := userDoc{
		ID:             primitive.NewObjectID(),
		Username:       u.Username,
		Email:          u.Email,
		Password:       u.Password,
		DisplayName:    u.DisplayName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		CoverPicture:   u.CoverPicture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", u.Username, store.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID("user", id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err, "user", id)
	}
	return doc.model(), nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, notFound(err, "user", email)
	}
	return doc.model(), nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []models.User{}, nil
	}

	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]models.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.model())
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	oid, err := objectID("user", id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": s.now()}
	if upd.DisplayName != nil {
		set["displayName"] = *upd.DisplayName
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.ProfilePicture != nil {
		set["profilePicture"] = *upd.ProfilePicture
	}
	if upd.CoverPicture != nil {
		set["coverPicture"] = *upd.CoverPicture
	}

	var doc userDoc
	err = s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return doc.model(), nil
}
