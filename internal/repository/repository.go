// Package repository declares the storage contracts the service layer
// depends on. Implementations live in the sqlite and mongo subpackages.
//
// Error contract for every implementation:
//   - a lookup that matches nothing returns apperror.ErrNotFound
//   - an id the store cannot parse returns apperror.ErrInvalidID
//   - a duplicate user email returns apperror.ErrConflict
package repository

import (
	"context"

	"github.com/sakif/donation-hub/internal/model"
)

type UserRepository interface {
	// Create assigns ID and CreatedAt.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type BlogRepository interface {
	// Create assigns ID and CreatedAt.
	Create(ctx context.Context, blog *model.Blog) error
	GetByID(ctx context.Context, id string) (*model.Blog, error)
	// List returns every blog, oldest first.
	List(ctx context.Context) ([]model.Blog, error)
	// Save replaces the stored blog, including its likes and comments, with
	// blog. Likes and comments without an ID get one. Last write wins.
	Save(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, id string) error
}

// ResourceFilter narrows List. Empty fields match everything.
type ResourceFilter struct {
	UserID  string
	City    string
	State   string
	Country string
}

type ResourceRepository interface {
	// Create assigns ID and CreatedAt.
	Create(ctx context.Context, resource *model.Resource) error
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	// List returns matching resources, oldest first.
	List(ctx context.Context, filter ResourceFilter) ([]model.Resource, error)
	// Update overwrites the mutable fields (everything but ID, UserID and
	// CreatedAt).
	Update(ctx context.Context, resource *model.Resource) error
	Delete(ctx context.Context, id string) error
}
