package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/model"
	"github.com/sakif/donation-hub/internal/repository"
)

func TestObjectID_Malformed(t *testing.T) {
	for _, id := range []string{"", "abc", "507f1f77bcf86cd79943901z", "cvhnb3ho2vqtb2g7d5m0"} {
		_, err := objectID("blog", id)
		assert.True(t, errors.Is(err, apperror.ErrInvalidID), "id %q", id)
	}

	oid := primitive.NewObjectID()
	got, err := objectID("blog", oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

func TestBlogDocument_AssignsChildIDs(t *testing.T) {
	user := primitive.NewObjectID().Hex()
	blog := &model.Blog{ID: primitive.NewObjectID().Hex(), Heading: "h"}
	blog.AddLike(user)
	blog.AddComment(model.Comment{UserID: user, Text: "hello", Name: "Ann"})

	doc, err := blogDocument(blog)
	require.NoError(t, err)

	require.Len(t, doc.Likes, 1)
	require.Len(t, doc.Comments, 1)
	assert.Equal(t, doc.Likes[0].ID.Hex(), blog.Likes[0].ID, "assigned id must be visible on the model")
	assert.Equal(t, doc.Comments[0].ID.Hex(), blog.Comments[0].ID)
	assert.False(t, blog.Comments[0].CreatedAt.IsZero())
	assert.Equal(t, user, doc.Likes[0].User.Hex())

	back := doc.model()
	assert.Equal(t, blog.ID, back.ID)
	assert.Equal(t, blog.Likes, back.Likes)
	assert.Equal(t, "hello", back.Comments[0].Text)
}

func TestBlogDocument_EmptyListsStayArrays(t *testing.T) {
	blog := &model.Blog{ID: primitive.NewObjectID().Hex()}

	doc, err := blogDocument(blog)
	require.NoError(t, err)

	// Mongoose stores [] for an empty array, never null.
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	likes := bson.Raw(raw).Lookup("likes")
	assert.Equal(t, bson.TypeArray, likes.Type)

	assert.NotNil(t, blog.Likes)
	assert.NotNil(t, blog.Comments)
}

func TestBlogDocument_RejectsForeignUserID(t *testing.T) {
	blog := &model.Blog{ID: primitive.NewObjectID().Hex()}
	blog.AddLike("not-an-object-id")

	_, err := blogDocument(blog)
	assert.True(t, errors.Is(err, apperror.ErrInvalidID))
}

func TestResourceDocument_RoundTrip(t *testing.T) {
	res := &model.Resource{
		ID:        primitive.NewObjectID().Hex(),
		Name:      "Oxygen",
		Quantity:  "3",
		Pincode:   "110001",
		City:      "Central Delhi",
		State:     "Delhi",
		Country:   "India",
		Phone:     "12345",
		UserID:    primitive.NewObjectID().Hex(),
		CreatedAt: now(),
	}

	doc, err := resourceDocument(res)
	require.NoError(t, err)
	assert.Equal(t, *res, doc.model())
}

func TestResourceFilter(t *testing.T) {
	user := primitive.NewObjectID()

	f, err := resourceFilter(repository.ResourceFilter{UserID: user.Hex(), State: "Delhi"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"user": user, "state": "Delhi"}, f)

	f, err = resourceFilter(repository.ResourceFilter{})
	require.NoError(t, err)
	assert.Empty(t, f)

	_, err = resourceFilter(repository.ResourceFilter{UserID: "nope"})
	assert.True(t, errors.Is(err, apperror.ErrInvalidID))
}

func TestNow_MillisecondPrecision(t *testing.T) {
	ts := now()
	assert.Equal(t, ts, ts.Truncate(time.Millisecond))
	assert.Equal(t, time.UTC, ts.Location())
}
