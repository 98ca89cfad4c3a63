package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/model"
)

func createTestBlog(t *testing.T, b *BlogDB, heading string) *model.Blog {
	t.Helper()
	blog := &model.Blog{Image: "https://img/x.png", Text: "body", Heading: heading}
	require.NoError(t, b.Create(context.Background(), blog))
	return blog
}

func TestBlogCreateAndGet(t *testing.T) {
	b := newTestDB(t).Blogs()
	created := createTestBlog(t, b, "Stay safe")

	got, err := b.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Stay safe", got.Heading)
	assert.NotNil(t, got.Likes, "likes must be an empty list, not null")
	assert.NotNil(t, got.Comments)
	assert.Empty(t, got.Likes)
}

func TestBlogGet_Errors(t *testing.T) {
	b := newTestDB(t).Blogs()

	_, err := b.GetByID(context.Background(), newID())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = b.GetByID(context.Background(), "xyz")
	assert.True(t, errors.Is(err, apperror.ErrInvalidID))
}

func TestBlogSave_PreservesOrderAndAssignsIDs(t *testing.T) {
	b := newTestDB(t).Blogs()
	blog := createTestBlog(t, b, "Vaccines")

	blog.AddLike("u1")
	blog.AddLike("u2")
	blog.AddComment(model.Comment{UserID: "u1", Text: "older", Name: "One"})
	blog.AddComment(model.Comment{UserID: "u2", Text: "newer", Name: "Two"})
	require.NoError(t, b.Save(context.Background(), blog))

	for _, l := range blog.Likes {
		assert.NotEmpty(t, l.ID, "Save must assign like ids")
	}

	got, err := b.GetByID(context.Background(), blog.ID)
	require.NoError(t, err)

	require.Len(t, got.Likes, 2)
	assert.Equal(t, "u2", got.Likes[0].UserID)
	assert.Equal(t, blog.Likes[0].ID, got.Likes[0].ID)

	require.Len(t, got.Comments, 2)
	assert.Equal(t, "newer", got.Comments[0].Text)
	assert.False(t, got.Comments[0].CreatedAt.IsZero())

	// Remove a like and save again: the stored list must shrink.
	got.RemoveLike("u2")
	require.NoError(t, b.Save(context.Background(), got))

	again, err := b.GetByID(context.Background(), blog.ID)
	require.NoError(t, err)
	require.Len(t, again.Likes, 1)
	assert.Equal(t, "u1", again.Likes[0].UserID)
}

func TestBlogSave_Missing(t *testing.T) {
	b := newTestDB(t).Blogs()

	err := b.Save(context.Background(), &model.Blog{ID: newID(), Heading: "ghost"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestBlogList(t *testing.T) {
	b := newTestDB(t).Blogs()

	empty, err := b.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first := createTestBlog(t, b, "first")
	second := createTestBlog(t, b, "second")
	second.AddLike("u9")
	require.NoError(t, b.Save(context.Background(), second))

	blogs, err := b.List(context.Background())
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	assert.Equal(t, first.ID, blogs[0].ID)
	assert.Empty(t, blogs[0].Likes)
	assert.Len(t, blogs[1].Likes, 1, "children must be attached to the right blog")
}

func TestBlogDelete(t *testing.T) {
	b := newTestDB(t).Blogs()
	blog := createTestBlog(t, b, "bye")
	blog.AddComment(model.Comment{UserID: "u1", Text: "hi"})
	require.NoError(t, b.Save(context.Background(), blog))

	require.NoError(t, b.Delete(context.Background(), blog.ID))

	_, err := b.GetByID(context.Background(), blog.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.True(t, errors.Is(b.Delete(context.Background(), blog.ID), apperror.ErrNotFound))

	var n int
	require.NoError(t, b.conn.QueryRow(`SELECT COUNT(*) FROM blog_comments`).Scan(&n))
	assert.Zero(t, n, "comments of a deleted blog must be removed")
}
