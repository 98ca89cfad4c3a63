package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlog_AddLikePrepends(t *testing.T) {
	b := &Blog{}
	b.AddLike("u1")
	b.AddLike("u2")

	assert.Len(t, b.Likes, 2)
	assert.Equal(t, "u2", b.Likes[0].UserID)
	assert.True(t, b.LikedBy("u1"))
	assert.False(t, b.LikedBy("u3"))
}

func TestBlog_RemoveLike(t *testing.T) {
	b := &Blog{Likes: []Like{{ID: "a", UserID: "u1"}, {ID: "b", UserID: "u2"}, {ID: "c", UserID: "u3"}}}

	assert.True(t, b.RemoveLike("u2"))
	assert.Equal(t, []Like{{ID: "a", UserID: "u1"}, {ID: "c", UserID: "u3"}}, b.Likes)

	assert.False(t, b.RemoveLike("u2"), "second removal should report no like")
}

func TestBlog_RemoveLikeDoesNotAliasCaller(t *testing.T) {
	orig := []Like{{UserID: "u1"}, {UserID: "u2"}}
	b := &Blog{Likes: orig}

	b.RemoveLike("u1")

	// The full slice expression in RemoveLike forces a copy, so the
	// caller's backing array must be untouched.
	assert.Equal(t, "u1", orig[0].UserID)
}

func TestBlog_Comments(t *testing.T) {
	b := &Blog{}
	b.AddComment(Comment{ID: "c1", UserID: "u1", Text: "first"})
	b.AddComment(Comment{ID: "c2", UserID: "u1", Text: "second"})

	assert.Equal(t, "c2", b.Comments[0].ID)

	c := b.FindComment("c1")
	if assert.NotNil(t, c) {
		assert.Equal(t, "first", c.Text)
	}
	assert.Nil(t, b.FindComment("missing"))

	// Removal is by comment ID, not by author: removing c1 must keep c2
	// even though both belong to u1.
	assert.True(t, b.RemoveComment("c1"))
	assert.Len(t, b.Comments, 1)
	assert.Equal(t, "c2", b.Comments[0].ID)
	assert.False(t, b.RemoveComment("c1"))
}
