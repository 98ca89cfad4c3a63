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

var _ repository.BlogRepository = (*BlogStore)(nil)

// BlogStore is the blogs collection. Likes and comments live inside the blog
// document.
type BlogStore struct {
	coll *mongo.Collection
}

func (s *BlogStore) Create(ctx context.Context, blog *model.Blog) error {
	blog.ID = primitive.NewObjectID().Hex()
	blog.CreatedAt = now()

	doc, err := blogDocument(blog)
	if err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: inserting blog: %w", err)
	}
	return nil
}

func (s *BlogStore) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	oid, err := objectID("blog", id)
	if err != nil {
		return nil, err
	}

	var doc blogDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("mongo: finding blog %s: %w", id, notFound(err, "Blog not found"))
	}
	blog := doc.model()
	return &blog, nil
}

func (s *BlogStore) List(ctx context.Context) ([]model.Blog, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: listing blogs: %w", err)
	}
	var docs []blogDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decoding blogs: %w", err)
	}

	blogs := make([]model.Blog, 0, len(docs))
	for i := range docs {
		blogs = append(blogs, docs[i].model())
	}
	return blogs, nil
}

// Save replaces the whole document. Concurrent saves of the same blog are
// last-write-wins.
func (s *BlogStore) Save(ctx context.Context, blog *model.Blog) error {
	doc, err := blogDocument(blog)
	if err != nil {
		return err
	}
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("mongo: replacing blog %s: %w", blog.ID, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("Blog not found")
	}
	return nil
}

func (s *BlogStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID("blog", id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo: deleting blog %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("Blog not found")
	}
	return nil
}
