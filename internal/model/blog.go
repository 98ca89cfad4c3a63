package model

import "time"

// Blog is an informative post published by an admin.
// Likes and Comments are embedded and ordered newest first.
type Blog struct {
	ID        string    `json:"_id"`
	Image     string    `json:"image"`
	Text      string    `json:"text"`
	Heading   string    `json:"heading"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"date"`
}

// Like records that a user liked a blog. A blog holds at most one Like per user.
type Like struct {
	ID     string `json:"_id"`
	UserID string `json:"user"`
}

// Comment is a user's remark on a blog. Name and Avatar are copied from the
// author at comment time.
type Comment struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// LikedBy reports whether userID already liked the blog.
func (b *Blog) LikedBy(userID string) bool {
	return b.likeIndex(userID) >= 0
}

// AddLike prepends a Like for userID.
func (b *Blog) AddLike(userID string) {
	b.Likes = append([]Like{{UserID: userID}}, b.Likes...)
}

// RemoveLike drops the first Like by userID. It reports false if there was none.
func (b *Blog) RemoveLike(userID string) bool {
	i := b.likeIndex(userID)
	if i < 0 {
		return false
	}
	b.Likes = append(b.Likes[:i:i], b.Likes[i+1:]...)
	return true
}

func (b *Blog) likeIndex(userID string) int {
	for i, l := range b.Likes {
		if l.UserID == userID {
			return i
		}
	}
	return -1
}

// AddComment prepends c.
func (b *Blog) AddComment(c Comment) {
	b.Comments = append([]Comment{c}, b.Comments...)
}

// FindComment returns the comment with the given ID, or nil.
func (b *Blog) FindComment(commentID string) *Comment {
	for i := range b.Comments {
		if b.Comments[i].ID == commentID {
			return &b.Comments[i]
		}
	}
	return nil
}

// RemoveComment drops the comment with the given ID.
func (b *Blog) RemoveComment(commentID string) bool {
	for i := range b.Comments {
		if b.Comments[i].ID == commentID {
			b.Comments = append(b.Comments[:i:i], b.Comments[i+1:]...)
			return true
		}
	}
	return false
}
