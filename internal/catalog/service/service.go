package service

import (
	"context"
	"errors"
	"sync"

	catalogerrors "pawmarket/internal/catalog/errors"
	"pawmarket/internal/catalog/repository"
	"pawmarket/internal/catalog/validator"
	"pawmarket/pkg/config"
	apperrors "pawmarket/pkg/errors"
	"pawmarket/pkg/model"
	"pawmarket/pkg/sanitizer"
)

type CatalogService interface {
	Create(ctx context.Context, svc *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	FindActiveByID(ctx context.Context, id string) (*model.Service, error)
	GetAll(ctx context.Context, category model.ServiceCategory, activeOnly bool, limit int, offset int64) ([]*model.Service, int64, error)
	Update(ctx context.Context, id string, updates *model.ServiceUpdate) error
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	repo      repository.ServiceRepository
	validator *validator.ServiceValidator
	cfg       *config.Config
}

func NewCatalogService(repo repository.ServiceRepository, validator *validator.ServiceValidator, cfg *config.Config) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *catalogService) Create(ctx context.Context, svc *model.Service) error {
	s.sanitize(svc)
	if err := s.validator.Validate(svc); err != nil {
		s.cfg.Log.Warn("Service validation failed", "error", err)
		return apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		s.cfg.Log.Error("Failed to create service", "error", err)
		return apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service created", "id", svc.ID, "name", svc.Name, "category", svc.Category)
	return nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}
	return svc, nil
}

// FindActiveByID is the lookup the booking admission path depends on:
// inactive services are reported as not found.
func (s *catalogService) FindActiveByID(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	svc, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}
	return svc, nil
}

func (s *catalogService) GetAll(ctx context.Context, category model.ServiceCategory, activeOnly bool, limit int, offset int64) ([]*model.Service, int64, error) {
	var count int64
	var services []*model.Service
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, category, activeOnly)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count services", "error", errCount)
			errCount = apperrors.Internal("Failed to count services", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		services, errFind = s.repo.FindAll(ctx, category, activeOnly, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list services", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve services", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return services, count, nil
}

func (s *catalogService) Update(ctx context.Context, id string, updates *model.ServiceUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Service ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapLookupError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Service update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update service", "id", id, "error", err)
		return apperrors.Internal("Failed to update service", err)
	}

	s.cfg.Log.Info("Service updated", "id", id)
	return nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Service ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Service", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid service ID format")
		}
		return apperrors.Internal("Failed to delete service", err)
	}

	s.cfg.Log.Info("Service deleted", "id", id)
	return nil
}

func mapLookupError(err error, id string) error {
	if errors.Is(err, catalogerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Service", id)
	}
	if errors.Is(err, catalogerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid service ID format")
	}
	return apperrors.Internal("Failed to retrieve service", err)
}

func (s *catalogService) sanitize(svc *model.Service) {
	svc.Name = sanitizer.NormalizeName(svc.Name)
	svc.Description = sanitizer.NormalizeFreeText(svc.Description)
	svc.Image = sanitizer.TrimAndNormalize(svc.Image)
}

func (s *catalogService) merge(existing *model.Service, updates *model.ServiceUpdate) *model.Service {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.Category != "" {
		merged.Category = updates.Category
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.DurationMin != nil {
		merged.DurationMin = *updates.DurationMin
	}
	if updates.Image != "" {
		merged.Image = updates.Image
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	return &merged
}
