// Package mongo implements the repository interfaces on MongoDB, the
// production store. Each model maps to one collection; blogs keep their likes
// and comments embedded, so a Save is a single-document replace.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sakif/donation-hub/internal/apperror"
)

const (
	usersCollection     = "users"
	blogsCollection     = "blogs"
	resourcesCollection = "resources"
)

// Store owns the client connection and hands out the per-collection stores.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to uri, checks the primary is reachable and ensures indexes.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}

	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: pinging: %w", err)
	}
	return nil
}

// Close disconnects the client, waiting for in-flight operations up to ctx.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Users() *UserStore {
	return &UserStore{coll: s.db.Collection(usersCollection)}
}

func (s *Store) Blogs() *BlogStore {
	return &BlogStore{coll: s.db.Collection(blogsCollection)}
}

func (s *Store) Resources() *ResourceStore {
	return &ResourceStore{coll: s.db.Collection(resourcesCollection)}
}

// ensureIndexes makes email unique so two concurrent registrations cannot
// both succeed, and indexes the resource fields List filters on.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: creating users.email index: %w", err)
	}

	_, err = s.db.Collection(resourcesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "country", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongo: creating resources indexes: %w", err)
	}
	return nil
}

func objectID(resource, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperror.InvalidID(resource, id)
	}
	return oid, nil
}

// now returns the current time at the millisecond precision BSON dates keep,
// so a value assigned on insert equals the value read back.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func notFound(err error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound(msg)
	}
	return err
}
