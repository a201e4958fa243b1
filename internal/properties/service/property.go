package service

import (
	"context"
	"errors"

	properrors "staywise/internal/properties/errors"
	"staywise/internal/properties/repository"
	"staywise/internal/properties/validator"
	"staywise/pkg/config"
	apperrors "staywise/pkg/errors"
	"staywise/pkg/model"
	"staywise/pkg/sanitizer"
)

// PropertyService manages the public catalog and its administrative edits.
type PropertyService interface {
	Create(ctx context.Context, identity model.Identity, property *model.Property) (*model.Property, error)
	GetByID(ctx context.Context, id string) (*model.Property, error)
	List(ctx context.Context, filter model.PropertyFilter, page, limit int) ([]model.Property, int64, error)
	Update(ctx context.Context, id string, update *model.PropertyUpdate) (*model.Property, error)
}

type propertyService struct {
	repo      repository.PropertyRepository
	validator *validator.PropertyValidator
	cfg       *config.Config
}

func NewPropertyService(repo repository.PropertyRepository, validator *validator.PropertyValidator, cfg *config.Config) PropertyService {
	return &propertyService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, identity model.Identity, property *model.Property) (*model.Property, error) {
	property.Title = sanitizer.NormalizeTitle(property.Title)
	property.Location = sanitizer.NormalizeLocation(property.Location)
	property.Description = sanitizer.TrimAndNormalize(property.Description)

	// New listings belong to the requesting admin and start available.
	property.ID = ""
	property.OwnerID = identity.UserID
	property.IsAvailable = true

	if err := s.validator.ValidateCreate(property); err != nil {
		s.cfg.Log.Warn("Property validation failed", "error", err)
		return nil, apperrors.Validation("Invalid property input", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, property); err != nil {
		return nil, apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created", "property_id", property.ID, "owner_id", property.OwnerID)
	return property, nil
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*model.Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(id, err)
	}
	return property, nil
}

func (s *propertyService) List(ctx context.Context, filter model.PropertyFilter, page, limit int) ([]model.Property, int64, error) {
	filter.Location = sanitizer.NormalizeLocation(filter.Location)

	properties, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list properties", err)
	}
	return properties, total, nil
}

func (s *propertyService) Update(ctx context.Context, id string, update *model.PropertyUpdate) (*model.Property, error) {
	update.Title = sanitizer.NormalizeTitle(update.Title)
	update.Description = sanitizer.TrimAndNormalize(update.Description)

	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Property update validation failed", "error", err)
		return nil, apperrors.Validation("Invalid property update", map[string]any{"error": err.Error()})
	}

	property, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, mapRepoError(id, err)
	}

	s.cfg.Log.Info("Property updated", "property_id", id)
	return property, nil
}

func mapRepoError(id string, err error) error {
	switch {
	case errors.Is(err, properrors.ErrNotFound), errors.Is(err, properrors.ErrInvalidID):
		return apperrors.NotFoundWithID("Property", id)
	default:
		return apperrors.Internal("Property lookup failed", err)
	}
}
