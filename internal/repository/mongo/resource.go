package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/model"
	"github.com/sakif/donation-hub/internal/repository"
)

var _ repository.ResourceRepository = (*ResourceStore)(nil)

// ResourceStore is the resources collection.
type ResourceStore struct {
	coll *mongo.Collection
}

func (s *ResourceStore) Create(ctx context.Context, res *model.Resource) error {
	res.ID = primitive.NewObjectID().Hex()
	res.CreatedAt = now()

	doc, err := resourceDocument(res)
	if err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: inserting resource: %w", err)
	}
	return nil
}

func (s *ResourceStore) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	oid, err := objectID("resource", id)
	if err != nil {
		return nil, err
	}
	var doc resourceDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("mongo: finding resource %s: %w", id, notFound(err, "No such resource exists"))
	}
	res := doc.model()
	return &res, nil
}

func (s *ResourceStore) List(ctx context.Context, f repository.ResourceFilter) ([]model.Resource, error) {
	filter, err := resourceFilter(f)
	if err != nil {
		return nil, err
	}

	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: listing resources: %w", err)
	}
	var docs []resourceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding resources: %w", err)
	}

	resources := make([]model.Resource, 0, len(docs))
	for i := range docs {
		resources = append(resources, docs[i].model())
	}
	return resources, nil
}

// Update sets the mutable fields only; owner and date are left alone.
func (s *ResourceStore) Update(ctx context.Context, res *model.Resource) error {
	oid, err := objectID("resource", res.ID)
	if err != nil {
		return err
	}
	result, err := s.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":    res.Name,
		"qtty":    res.Quantity,
		"pincode": res.Pincode,
		"city":    res.City,
		"state":   res.State,
		"country": res.Country,
		"phone":   res.Phone,
	}})
	if err != nil {
		return fmt.Errorf("mongo: updating resource %s: %w", res.ID, err)
	}
	if result.MatchedCount == 0 {
		return apperror.NotFound("No such resource exists")
	}
	return nil
}

func (s *ResourceStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID("resource", id)
	if err != nil {
		return err
	}
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo: deleting resource %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return apperror.NotFound("No such resource exists")
	}
	return nil
}

func resourceFilter(f repository.ResourceFilter) (bson.M, error) {
	filter := bson.M{}
	if f.UserID != "" {
		user, err := objectID("user", f.UserID)
		if err != nil {
			return nil, err
		}
		filter["user"] = user
	}
	if f.City != "" {
		filter["city"] = f.City
	}
	if f.State != "" {
		filter["state"] = f.State
	}
	if f.Country != "" {
		filter["country"] = f.Country
	}
	return filter, nil
}
