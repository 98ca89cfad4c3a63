package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/auth"
	"github.com/sakif/donation-hub/internal/model"
	"github.com/sakif/donation-hub/internal/repository"
	"github.com/sakif/donation-hub/internal/validation"
)

const (
	msgBlogNotFound    = "Blog not found"
	msgNoSuchBlog      = "No such Blog exists"
	msgAlreadyLiked    = "Blog already liked"
	msgNotLiked        = "Blog was not liked"
	msgCommentNotFound = "Comment does not exist"
)

// BlogService manages blogs and the likes and comments embedded in them.
//
// Likes and comments are read-modify-write on the whole blog: load, change
// the slice, Save. Two concurrent writers on the same blog race and the last
// Save wins.
type BlogService struct {
	blogs  repository.BlogRepository
	users  repository.UserRepository
	admins map[string]struct{}
	logger *slog.Logger
}

// NewBlogService creates a BlogService. Only callers whose token email is in
// adminEmails may create or delete blogs.
func NewBlogService(
	blogs repository.BlogRepository,
	users repository.UserRepository,
	adminEmails []string,
	logger *slog.Logger,
) *BlogService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.TrimSpace(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &BlogService{blogs: blogs, users: users, admins: admins, logger: logger}
}

// IsAdmin reports whether the caller may publish and delete blogs.
func (s *BlogService) IsAdmin(caller auth.Identity) bool {
	_, ok := s.admins[caller.Email]
	return ok
}

func (s *BlogService) List(ctx context.Context) ([]model.Blog, error) {
	blogs, err := s.blogs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/blog: listing: %w", err)
	}
	return blogs, nil
}

// Get returns one blog. A malformed id reads the same as a missing one.
func (s *BlogService) Get(ctx context.Context, id string) (*model.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		if isLookupMiss(err) {
			return nil, apperror.NotFound(msgNoSuchBlog)
		}
		return nil, fmt.Errorf("service/blog: getting %s: %w", id, err)
	}
	return blog, nil
}

// Create validates the input before the admin check, then stores the blog and
// returns the full list.
func (s *BlogService) Create(ctx context.Context, caller auth.Identity, image, text, heading string) ([]model.Blog, error) {
	if err := validation.New().
		Required("image", image, "image is required").
		Required("text", text, "Text is required").
		Required("heading", heading, "heading is required").
		Err(); err != nil {
		return nil, err
	}
	if !s.IsAdmin(caller) {
		return nil, apperror.Unauthorized(msgNotAuthorised)
	}

	blog := &model.Blog{Image: image, Text: text, Heading: heading}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("service/blog: creating: %w", err)
	}

	s.logger.Info("blog created", slog.String("blogID", blog.ID), slog.String("by", caller.ID))

	return s.List(ctx)
}

// Delete removes a blog and returns the remaining list. Deleting a blog
// that does not exist is not an error; only an id the store cannot parse is.
func (s *BlogService) Delete(ctx context.Context, caller auth.Identity, id string) ([]model.Blog, error) {
	if !s.IsAdmin(caller) {
		return nil, apperror.Unauthorized(msgNotAuthorised)
	}

	err := s.blogs.Delete(ctx, id)
	switch {
	case err == nil:
		s.logger.Info("blog deleted", slog.String("blogID", id), slog.String("by", caller.ID))
	case errors.Is(err, apperror.ErrNotFound):
		s.logger.Debug("blog already gone", slog.String("blogID", id))
	case errors.Is(err, apperror.ErrInvalidID):
		return nil, apperror.NotFound(msgBlogNotFound)
	default:
		return nil, fmt.Errorf("service/blog: deleting %s: %w", id, err)
	}

	return s.List(ctx)
}

// Like adds the caller's like at the front and returns the like list.
func (s *BlogService) Like(ctx context.Context, caller auth.Identity, id string) ([]model.Like, error) {
	blog, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog.LikedBy(caller.ID) {
		return nil, apperror.BadRequest(msgAlreadyLiked)
	}

	blog.AddLike(caller.ID)
	if err := s.save(ctx, blog); err != nil {
		return nil, err
	}
	return blog.Likes, nil
}

// Unlike removes the caller's like and returns the like list.
func (s *BlogService) Unlike(ctx context.Context, caller auth.Identity, id string) ([]model.Like, error) {
	blog, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !blog.RemoveLike(caller.ID) {
		return nil, apperror.BadRequest(msgNotLiked)
	}

	if err := s.save(ctx, blog); err != nil {
		return nil, err
	}
	return blog.Likes, nil
}

// Comment prepends a comment signed with the caller's current name and
// avatar, and returns the comment list.
func (s *BlogService) Comment(ctx context.Context, caller auth.Identity, id, text string) ([]model.Comment, error) {
	if err := validation.New().Required("text", text, "Text is required").Err(); err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		if isLookupMiss(err) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("service/blog: loading author %s: %w", caller.ID, err)
	}

	blog, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	blog.AddComment(model.Comment{
		UserID: caller.ID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
	})
	if err := s.save(ctx, blog); err != nil {
		return nil, err
	}
	return blog.Comments, nil
}

// DeleteComment removes one of the caller's comments and returns the
// comment list.
func (s *BlogService) DeleteComment(ctx context.Context, caller auth.Identity, blogID, commentID string) ([]model.Comment, error) {
	blog, err := s.load(ctx, blogID)
	if err != nil {
		return nil, err
	}

	comment := blog.FindComment(commentID)
	if comment == nil {
		return nil, apperror.NotFound(msgCommentNotFound)
	}
	if comment.UserID != caller.ID {
		return nil, apperror.Unauthorized(msgNotAuthorised)
	}

	blog.RemoveComment(commentID)
	if err := s.save(ctx, blog); err != nil {
		return nil, err
	}
	return blog.Comments, nil
}

func (s *BlogService) load(ctx context.Context, id string) (*model.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		if isLookupMiss(err) {
			return nil, apperror.NotFound(msgBlogNotFound)
		}
		return nil, fmt.Errorf("service/blog: loading %s: %w", id, err)
	}
	return blog, nil
}

func (s *BlogService) save(ctx context.Context, blog *model.Blog) error {
	if err := s.blogs.Save(ctx, blog); err != nil {
		if isLookupMiss(err) {
			// deleted between load and save
			return apperror.NotFound(msgBlogNotFound)
		}
		return fmt.Errorf("service/blog: saving %s: %w", blog.ID, err)
	}
	return nil
}
