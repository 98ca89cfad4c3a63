package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/geo"
	"github.com/sakif/donation-hub/internal/model"
	"github.com/sakif/donation-hub/internal/repository"
	"github.com/sakif/donation-hub/internal/validation"
)

const (
	msgNoSuchResource  = "No such resource exists"
	msgResourceBadID   = "Resource not Found"
	msgPincodeRequired = "Pincode is required"
)

// Filter dimensions accepted by ResourceService.Filter.
const (
	FilterByCity    = "city"
	FilterByState   = "state"
	FilterByCountry = "country"
)

// Locator resolves a pincode to a place. *geo.Client implements it.
type Locator interface {
	Lookup(ctx context.Context, pincode string) (*geo.Location, error)
}

// ResourceInput is the client-supplied part of a resource. City, state and
// country are never taken from the client.
type ResourceInput struct {
	Name     string
	Quantity string
	Pincode  string
	Phone    string
}

// ResourceService manages donation listings.
type ResourceService struct {
	resources repository.ResourceRepository
	locator   Locator
	logger    *slog.Logger
}

func NewResourceService(resources repository.ResourceRepository, locator Locator, logger *slog.Logger) *ResourceService {
	return &ResourceService{resources: resources, locator: locator, logger: logger}
}

// Add validates in, resolves its pincode and stores it owned by ownerID. It
// returns all of the owner's resources. Nothing is stored when the pincode
// does not resolve.
func (s *ResourceService) Add(ctx context.Context, ownerID string, in ResourceInput) ([]model.Resource, error) {
	if err := validateResource(in); err != nil {
		return nil, err
	}
	loc, err := s.locate(ctx, in.Pincode)
	if err != nil {
		return nil, err
	}

	res := &model.Resource{UserID: ownerID}
	apply(res, in, loc)
	if err := s.resources.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("service/resource: creating: %w", err)
	}

	s.logger.Info("resource added", slog.String("resourceID", res.ID), slog.String("owner", ownerID))

	return s.listOwned(ctx, ownerID)
}

// Update replaces the caller's resource id with in. Existence and ownership
// are checked before anything is written.
func (s *ResourceService) Update(ctx context.Context, ownerID, id string, in ResourceInput) ([]model.Resource, error) {
	if err := validateResource(in); err != nil {
		return nil, err
	}
	loc, err := s.locate(ctx, in.Pincode)
	if err != nil {
		return nil, err
	}

	res, err := s.loadOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	apply(res, in, loc)
	if err := s.resources.Update(ctx, res); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound(msgNoSuchResource)
		}
		return nil, fmt.Errorf("service/resource: updating %s: %w", id, err)
	}

	s.logger.Info("resource updated", slog.String("resourceID", id), slog.String("owner", ownerID))

	return s.listOwned(ctx, ownerID)
}

// DeleteOwned deletes the caller's resource and returns what they have left.
func (s *ResourceService) DeleteOwned(ctx context.Context, ownerID, id string) ([]model.Resource, error) {
	if err := s.Delete(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.listOwned(ctx, ownerID)
}

// Delete deletes the caller's resource.
func (s *ResourceService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.loadOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.resources.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound(msgNoSuchResource)
		}
		return fmt.Errorf("service/resource: deleting %s: %w", id, err)
	}

	s.logger.Info("resource deleted", slog.String("resourceID", id), slog.String("owner", ownerID))
	return nil
}

// List returns every resource.
func (s *ResourceService) List(ctx context.Context) ([]model.Resource, error) {
	resources, err := s.resources.List(ctx, repository.ResourceFilter{})
	if err != nil {
		return nil, fmt.Errorf("service/resource: listing: %w", err)
	}
	return resources, nil
}

// Filter returns the resources in the same city, state or country as pincode.
// An unknown filterBy is not an error: it yields nil and no lookup result is
// used.
func (s *ResourceService) Filter(ctx context.Context, filterBy, pincode string) ([]model.Resource, error) {
	if err := validation.New().Required("pincode", pincode, msgPincodeRequired).Err(); err != nil {
		return nil, err
	}
	loc, err := s.locate(ctx, pincode)
	if err != nil {
		return nil, err
	}

	var (
		f     repository.ResourceFilter
		value string
	)
	switch filterBy {
	case FilterByCity:
		f.City, value = loc.City, loc.City
	case FilterByState:
		f.State, value = loc.State, loc.State
	case FilterByCountry:
		f.Country, value = loc.Country, loc.Country
	default:
		return nil, nil
	}
	// An empty filter field matches everything, so a locality the upstream
	// left blank must match nothing instead.
	if value == "" {
		s.logger.Warn("pincode has no locality for filter",
			slog.String("pincode", pincode),
			slog.String("filterBy", filterBy),
		)
		return []model.Resource{}, nil
	}

	resources, err := s.resources.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service/resource: filtering by %s: %w", filterBy, err)
	}
	return resources, nil
}

func (s *ResourceService) loadOwned(ctx context.Context, ownerID, id string) (*model.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrInvalidID):
			return nil, apperror.BadRequest(msgResourceBadID)
		case errors.Is(err, apperror.ErrNotFound):
			return nil, apperror.NotFound(msgNoSuchResource)
		}
		return nil, fmt.Errorf("service/resource: loading %s: %w", id, err)
	}
	if !res.OwnedBy(ownerID) {
		return nil, apperror.Unauthorized(msgNotAuthorised)
	}
	return res, nil
}

func (s *ResourceService) listOwned(ctx context.Context, ownerID string) ([]model.Resource, error) {
	resources, err := s.resources.List(ctx, repository.ResourceFilter{UserID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("service/resource: listing for %s: %w", ownerID, err)
	}
	return resources, nil
}

func (s *ResourceService) locate(ctx context.Context, pincode string) (*geo.Location, error) {
	loc, err := s.locator.Lookup(ctx, strings.TrimSpace(pincode))
	if err != nil {
		if errors.Is(err, geo.ErrIncorrectPincode) {
			return nil, errorList(msgIncorrectPincode)
		}
		return nil, fmt.Errorf("service/resource: locating pincode: %w", err)
	}
	return loc, nil
}

func validateResource(in ResourceInput) error {
	return validation.New().
		Required("name", in.Name, "Name is required").
		Required("qtty", in.Quantity, "Quantity is required").
		Required("pincode", in.Pincode, msgPincodeRequired).
		Required("phone", in.Phone, "Phone Number is required").
		Err()
}

func apply(res *model.Resource, in ResourceInput, loc *geo.Location) {
	res.Name = in.Name
	res.Quantity = in.Quantity
	res.Pincode = strings.TrimSpace(in.Pincode)
	res.Phone = in.Phone
	res.City = loc.City
	res.State = loc.State
	res.Country = loc.Country
}
