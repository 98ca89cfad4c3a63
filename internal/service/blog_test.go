package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/auth"
	"github.com/sakif/donation-hub/internal/model"
)

var (
	admin  = auth.Identity{ID: "id-user-1", Email: "admin@example.com"}
	reader = auth.Identity{ID: "id-user-2", Email: "reader@example.com"}
)

func newTestBlogService(t *testing.T) (*BlogService, *fakeBlogRepo, *fakeUserRepo) {
	t.Helper()
	blogs := newFakeBlogRepo()
	users := newFakeUserRepo()
	for _, u := range []model.User{
		{ID: admin.ID, Name: "Admin", Email: admin.Email, Avatar: "//a"},
		{ID: reader.ID, Name: "Reader", Email: reader.Email, Avatar: "//r"},
	} {
		users.users[u.ID] = u
	}
	return NewBlogService(blogs, users, []string{"admin@example.com", ""}, testLogger()), blogs, users
}

func seedBlog(t *testing.T, blogs *fakeBlogRepo) string {
	t.Helper()
	b := &model.Blog{Image: "i", Text: "t", Heading: "h"}
	require.NoError(t, blogs.Create(context.Background(), b))
	return b.ID
}

func TestBlogCreate_AdminOnly(t *testing.T) {
	svc, _, _ := newTestBlogService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, reader, "i", "t", "h")
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	assert.Equal(t, "User not Authorised", err.Error())

	list, err := svc.Create(ctx, admin, "i", "t", "h")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "h", list[0].Heading)
}

func TestBlogCreate_ValidatesBeforeAdminCheck(t *testing.T) {
	svc, _, _ := newTestBlogService(t)

	_, err := svc.Create(context.Background(), reader, "", "", "")
	require.True(t, errors.Is(err, apperror.ErrValidation))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Len(t, appErr.Details, 3)
	assert.Equal(t, "image is required", appErr.Details[0].Msg)
}

func TestBlogGet(t *testing.T) {
	svc, blogs, _ := newTestBlogService(t)
	id := seedBlog(t, blogs)

	b, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, b.ID)

	for _, missing := range []string{"id-404", "garbage"} {
		_, err := svc.Get(context.Background(), missing)
		assert.True(t, errors.Is(err, apperror.ErrNotFound), missing)
		assert.Equal(t, "No such Blog exists", err.Error())
	}
}

func TestBlogDelete(t *testing.T) {
	svc, blogs, _ := newTestBlogService(t)
	id := seedBlog(t, blogs)
	ctx := context.Background()

	_, err := svc.Delete(ctx, reader, id)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))

	_, err = svc.Delete(ctx, admin, "bad")
	assert.Equal(t, "Blog not found", err.Error())

	list, err := svc.Delete(ctx, admin, id)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBlogDelete_MissingBlogListsTheRest(t *testing.T) {
	svc, blogs, _ := newTestBlogService(t)
	id := seedBlog(t, blogs)
	ctx := context.Background()

	list, err := svc.Delete(ctx, admin, "id-404")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	// Deleting twice behaves the same as deleting once.
	_, err = svc.Delete(ctx, admin, id)
	require.NoError(t, err)
	list, err = svc.Delete(ctx, admin, id)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBlogLike_Twice(t *testing.T) {
	svc, blogs, _ := newTestBlogService(t)
	id := seedBlog(t, blogs)
	ctx := context.Background()

	likes, err := svc.Like(ctx, reader, id)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, reader.ID, likes[0].UserID)
	assert.NotEmpty(t, likes[0].ID)

	_, err = svc.Like(ctx, reader, id)
	assert.True(t, errors.Is(err, apperror.ErrBadRequest))
	assert.Equal(t, "Blog already liked", err.Error())

	stored, _ := blogs.GetByID(ctx, id)
	assert.Len(t, stored.Likes, 1, "like count must not change")
}

func TestBlogLike_NewestFirst(t *testing.T) {
	svc, blogs, _ := newTestBlogService(t)
	id := seedBlog(t, blogs)
	ctx := context.Background()

	_, err := svc.Like(ctx, reader, id)
	require.NoError(t, err)
	likes, err := svc.Like(ctx, admin, id)
	require.NoError(t, err)

	require.Len(t, likes, 2)
	assert.Equal(t, admin.ID, likes[0].UserID)
}

func TestBlogUnlike(t *testing.T) {
	svc, blogs, _ := newTestBlogService(t)
	id := seedBlog(t, blogs)
	ctx := context.Background()

	_, err := svc.Unlike(ctx, reader, id)
	assert.Equal(t, "Blog was not liked", err.Error())

	_, err = svc.Like(ctx, reader, id)
	require.NoError(t, err)
	likes, err := svc.Unlike(ctx, reader, id)
	require.NoError(t, err)
	assert.Empty(t, likes)

	_, err = svc.Unlike(ctx, reader, "id-404")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestBlogComment(t *testing.T) {
	svc, blogs, _ := newTestBlogService(t)
	id := seedBlog(t, blogs)
	ctx := context.Background()

	_, err := svc.Comment(ctx, reader, id, "  ")
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = svc.Comment(ctx, reader, id, "first")
	require.NoError(t, err)
	comments, err := svc.Comment(ctx, admin, id, "second")
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "Admin", comments[0].Name)
	assert.Equal(t, "//a", comments[0].Avatar)
	assert.Equal(t, reader.ID, comments[1].UserID)

	_, err = svc.Comment(ctx, reader, "id-404", "x")
	assert.Equal(t, "Blog not found", err.Error())
}

func TestBlogDeleteComment(t *testing.T) {
	svc, blogs, _ := newTestBlogService(t)
	id := seedBlog(t, blogs)
	ctx := context.Background()

	comments, err := svc.Comment(ctx, reader, id, "mine")
	require.NoError(t, err)
	commentID := comments[0].ID

	_, err = svc.DeleteComment(ctx, admin, id, commentID)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized), "only the author may delete")

	_, err = svc.DeleteComment(ctx, reader, id, "id-nope")
	assert.Equal(t, "Comment does not exist", err.Error())

	_, err = svc.DeleteComment(ctx, reader, "id-404", commentID)
	assert.Equal(t, "Blog not found", err.Error())

	comments, err = svc.DeleteComment(ctx, reader, id, commentID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestBlogDeleteComment_RemovesByCommentID(t *testing.T) {
	svc, blogs, _ := newTestBlogService(t)
	id := seedBlog(t, blogs)
	ctx := context.Background()

	_, err := svc.Comment(ctx, reader, id, "older")
	require.NoError(t, err)
	comments, err := svc.Comment(ctx, reader, id, "newer")
	require.NoError(t, err)
	older := comments[1].ID

	comments, err = svc.DeleteComment(ctx, reader, id, older)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "newer", comments[0].Text)
}
