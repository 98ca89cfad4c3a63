package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/geo"
	"github.com/sakif/donation-hub/internal/model"
	"github.com/sakif/donation-hub/internal/repository"
)

// =========================================================================
// FAKES
// =========================================================================
//
// In-memory implementations of the repository interfaces. They follow the
// same error contract as the real stores: ids start with "id-" or are
// rejected as malformed, misses return apperror.ErrNotFound.

var errDatabaseDown = errors.New("database down")

func checkID(kind, id string) error {
	if !strings.HasPrefix(id, "id-") {
		return apperror.InvalidID(kind, id)
	}
	return nil
}

type fakeUserRepo struct {
	users     map[string]model.User
	nextID    int
	createErr error // simulates a failure (or an index conflict) on Create
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	u.ID = fmt.Sprintf("id-user-%d", f.nextID)
	u.CreatedAt = time.Now()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("User not found")
}

type fakeBlogRepo struct {
	blogs  map[string]model.Blog
	order  []string
	nextID int
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: make(map[string]model.Blog)}
}

// copyBlog detaches the slices so callers cannot mutate stored state.
func copyBlog(b model.Blog) model.Blog {
	b.Likes = append([]model.Like{}, b.Likes...)
	b.Comments = append([]model.Comment{}, b.Comments...)
	return b
}

func (f *fakeBlogRepo) newID() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeBlogRepo) Create(_ context.Context, b *model.Blog) error {
	b.ID = f.newID()
	b.CreatedAt = time.Now()
	f.blogs[b.ID] = copyBlog(*b)
	f.order = append(f.order, b.ID)
	return nil
}

func (f *fakeBlogRepo) GetByID(_ context.Context, id string) (*model.Blog, error) {
	if err := checkID("blog", id); err != nil {
		return nil, err
	}
	b, ok := f.blogs[id]
	if !ok {
		return nil, apperror.NotFound("Blog not found")
	}
	b = copyBlog(b)
	return &b, nil
}

func (f *fakeBlogRepo) List(_ context.Context) ([]model.Blog, error) {
	out := []model.Blog{}
	for _, id := range f.order {
		if b, ok := f.blogs[id]; ok {
			out = append(out, copyBlog(b))
		}
	}
	return out, nil
}

func (f *fakeBlogRepo) Save(_ context.Context, b *model.Blog) error {
	if _, ok := f.blogs[b.ID]; !ok {
		return apperror.NotFound("Blog not found")
	}
	for i := range b.Likes {
		if b.Likes[i].ID == "" {
			b.Likes[i].ID = f.newID()
		}
	}
	for i := range b.Comments {
		if b.Comments[i].ID == "" {
			b.Comments[i].ID = f.newID()
		}
	}
	f.blogs[b.ID] = copyBlog(*b)
	return nil
}

func (f *fakeBlogRepo) Delete(_ context.Context, id string) error {
	if err := checkID("blog", id); err != nil {
		return err
	}
	if _, ok := f.blogs[id]; !ok {
		return apperror.NotFound("Blog not found")
	}
	delete(f.blogs, id)
	return nil
}

type fakeResourceRepo struct {
	resources map[string]model.Resource
	order     []string
	nextID    int
	updates   int
	deletes   int
}

func newFakeResourceRepo() *fakeResourceRepo {
	return &fakeResourceRepo{resources: make(map[string]model.Resource)}
}

func (f *fakeResourceRepo) Create(_ context.Context, r *model.Resource) error {
	f.nextID++
	r.ID = fmt.Sprintf("id-res-%d", f.nextID)
	r.CreatedAt = time.Now()
	f.resources[r.ID] = *r
	f.order = append(f.order, r.ID)
	return nil
}

func (f *fakeResourceRepo) GetByID(_ context.Context, id string) (*model.Resource, error) {
	if err := checkID("resource", id); err != nil {
		return nil, err
	}
	r, ok := f.resources[id]
	if !ok {
		return nil, apperror.NotFound("No such resource exists")
	}
	return &r, nil
}

func (f *fakeResourceRepo) List(_ context.Context, filter repository.ResourceFilter) ([]model.Resource, error) {
	out := []model.Resource{}
	for _, id := range f.order {
		r, ok := f.resources[id]
		if !ok {
			continue
		}
		if filter.UserID != "" && r.UserID != filter.UserID ||
			filter.City != "" && r.City != filter.City ||
			filter.State != "" && r.State != filter.State ||
			filter.Country != "" && r.Country != filter.Country {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeResourceRepo) Update(_ context.Context, r *model.Resource) error {
	old, ok := f.resources[r.ID]
	if !ok {
		return apperror.NotFound("No such resource exists")
	}
	f.updates++
	r.UserID, r.CreatedAt = old.UserID, old.CreatedAt
	f.resources[r.ID] = *r
	return nil
}

func (f *fakeResourceRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.resources[id]; !ok {
		return apperror.NotFound("No such resource exists")
	}
	f.deletes++
	delete(f.resources, id)
	return nil
}

// fakeLocator knows a fixed set of pincodes.
type fakeLocator struct {
	places map[string]geo.Location
	calls  int
}

func newFakeLocator() *fakeLocator {
	return &fakeLocator{places: map[string]geo.Location{
		"110001": {City: "Central Delhi", State: "Delhi", Country: "India"},
		"110002": {City: "Central Delhi", State: "Delhi", Country: "India"},
		"400001": {City: "Mumbai", State: "Maharashtra", Country: "India"},
		"411001": {City: "Pune", State: "Maharashtra", Country: "India"},
	}}
}

func (f *fakeLocator) Lookup(_ context.Context, pincode string) (*geo.Location, error) {
	f.calls++
	loc, ok := f.places[pincode]
	if !ok {
		return nil, fmt.Errorf("%w: %q not recognised", geo.ErrIncorrectPincode, pincode)
	}
	return &loc, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// firstMsg returns the message of the first entry of a validation error list.
func firstMsg(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || len(appErr.Details) == 0 {
		t.Fatalf("expected a validation error list, got %v", err)
	}
	return appErr.Details[0].Msg
}
