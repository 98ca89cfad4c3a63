package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/model"
	"github.com/sakif/donation-hub/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore is the users collection.
type UserStore struct {
	coll *mongo.Collection
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	doc := userDoc{
		ID:       primitive.NewObjectID(),
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
		Avatar:   user.Avatar,
		Date:     now(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("user", "email")
		}
		return fmt.Errorf("mongo: inserting user: %w", err)
	}
	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.Date
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := objectID("user", id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, fmt.Errorf("mongo: finding user: %w", notFound(err, "User not found"))
	}
	return doc.model(), nil
}
