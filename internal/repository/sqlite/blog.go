package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/model"
	"github.com/sakif/donation-hub/internal/repository"
)

var _ repository.BlogRepository = (*BlogDB)(nil)

// BlogDB stores blogs with their likes and comments.
//
// The pool has a single connection, so no method may hold *sql.Rows open
// while issuing another query; each result set is drained and closed first.
type BlogDB struct {
	conn *sql.DB
}

func (b *BlogDB) Create(ctx context.Context, blog *model.Blog) error {
	blog.ID = newID()
	blog.CreatedAt = time.Now().UTC()

	return b.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO blogs (id, image, text, heading, created_at) VALUES (?, ?, ?, ?, ?)`,
			blog.ID, blog.Image, blog.Text, blog.Heading, blog.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting blog: %w", err)
		}
		return writeChildren(ctx, tx, blog)
	})
}

func (b *BlogDB) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	if err := parseID("blog", id); err != nil {
		return nil, err
	}

	var blog model.Blog
	err := b.conn.QueryRowContext(ctx,
		`SELECT id, image, text, heading, created_at FROM blogs WHERE id = ?`, id,
	).Scan(&blog.ID, &blog.Image, &blog.Text, &blog.Heading, &blog.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Blog not found")
		}
		return nil, fmt.Errorf("sqlite: getting blog %s: %w", id, err)
	}

	blogs := []model.Blog{blog}
	if err := b.attachChildren(ctx, blogs, `WHERE blog_id = ?`, id); err != nil {
		return nil, err
	}
	return &blogs[0], nil
}

func (b *BlogDB) List(ctx context.Context) ([]model.Blog, error) {
	rows, err := b.conn.QueryContext(ctx,
		`SELECT id, image, text, heading, created_at FROM blogs ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing blogs: %w", err)
	}

	blogs := []model.Blog{}
	for rows.Next() {
		var blog model.Blog
		if err := rows.Scan(&blog.ID, &blog.Image, &blog.Text, &blog.Heading, &blog.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite: scanning blog row: %w", err)
		}
		blogs = append(blogs, blog)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("sqlite: iterating blogs: %w", err)
	}
	rows.Close()

	if err := b.attachChildren(ctx, blogs, ""); err != nil {
		return nil, err
	}
	return blogs, nil
}

// Save replaces the blog's fields and rewrites its likes and comments.
func (b *BlogDB) Save(ctx context.Context, blog *model.Blog) error {
	if err := parseID("blog", blog.ID); err != nil {
		return err
	}

	return b.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE blogs SET image = ?, text = ?, heading = ? WHERE id = ?`,
			blog.Image, blog.Text, blog.Heading, blog.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating blog %s: %w", blog.ID, err)
		}
		if err := expectOneRow(result, "Blog not found"); err != nil {
			return err
		}
		if err := deleteChildren(ctx, tx, blog.ID); err != nil {
			return err
		}
		return writeChildren(ctx, tx, blog)
	})
}

func (b *BlogDB) Delete(ctx context.Context, id string) error {
	if err := parseID("blog", id); err != nil {
		return err
	}

	return b.inTx(ctx, func(tx *sql.Tx) error {
		if err := deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("sqlite: deleting blog %s: %w", id, err)
		}
		return expectOneRow(result, "Blog not found")
	})
}

func (b *BlogDB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := b.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

func deleteChildren(ctx context.Context, tx *sql.Tx, blogID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM blog_likes WHERE blog_id = ?`, blogID); err != nil {
		return fmt.Errorf("sqlite: clearing likes of blog %s: %w", blogID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM blog_comments WHERE blog_id = ?`, blogID); err != nil {
		return fmt.Errorf("sqlite: clearing comments of blog %s: %w", blogID, err)
	}
	return nil
}

// writeChildren inserts likes and comments in slice order; ids and comment
// dates are filled in when missing.
func writeChildren(ctx context.Context, tx *sql.Tx, blog *model.Blog) error {
	for i := range blog.Likes {
		l := &blog.Likes[i]
		if l.ID == "" {
			l.ID = newID()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO blog_likes (id, blog_id, user_id, position) VALUES (?, ?, ?, ?)`,
			l.ID, blog.ID, l.UserID, i,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting like: %w", err)
		}
	}

	for i := range blog.Comments {
		c := &blog.Comments[i]
		if c.ID == "" {
			c.ID = newID()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO blog_comments (id, blog_id, user_id, text, name, avatar, created_at, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, blog.ID, c.UserID, c.Text, c.Name, c.Avatar, c.CreatedAt, i,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting comment: %w", err)
		}
	}

	if blog.Likes == nil {
		blog.Likes = []model.Like{}
	}
	if blog.Comments == nil {
		blog.Comments = []model.Comment{}
	}
	return nil
}

// attachChildren loads likes and comments for blogs with two queries and
// distributes them by blog id. where/args restrict the child queries.
func (b *BlogDB) attachChildren(ctx context.Context, blogs []model.Blog, where string, args ...any) error {
	index := make(map[string]*model.Blog, len(blogs))
	for i := range blogs {
		blogs[i].Likes = []model.Like{}
		blogs[i].Comments = []model.Comment{}
		index[blogs[i].ID] = &blogs[i]
	}
	if len(blogs) == 0 {
		return nil
	}

	rows, err := b.conn.QueryContext(ctx,
		`SELECT id, blog_id, user_id FROM blog_likes `+where+` ORDER BY blog_id, position`, args...)
	if err != nil {
		return fmt.Errorf("sqlite: loading likes: %w", err)
	}
	for rows.Next() {
		var l model.Like
		var blogID string
		if err := rows.Scan(&l.ID, &blogID, &l.UserID); err != nil {
			rows.Close()
			return fmt.Errorf("sqlite: scanning like: %w", err)
		}
		if blog, ok := index[blogID]; ok {
			blog.Likes = append(blog.Likes, l)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("sqlite: iterating likes: %w", err)
	}
	rows.Close()

	rows, err = b.conn.QueryContext(ctx,
		`SELECT id, blog_id, user_id, text, name, avatar, created_at
		 FROM blog_comments `+where+` ORDER BY blog_id, position`, args...)
	if err != nil {
		return fmt.Errorf("sqlite: loading comments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c model.Comment
		var blogID string
		if err := rows.Scan(&c.ID, &blogID, &c.UserID, &c.Text, &c.Name, &c.Avatar, &c.CreatedAt); err != nil {
			return fmt.Errorf("sqlite: scanning comment: %w", err)
		}
		if blog, ok := index[blogID]; ok {
			blog.Comments = append(blog.Comments, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating comments: %w", err)
	}
	return nil
}
