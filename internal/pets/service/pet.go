package service

import (
	"context"
	"errors"
	"sync"

	petserrors "pawmarket/internal/pets/errors"
	"pawmarket/internal/pets/repository"
	"pawmarket/internal/pets/validator"
	"pawmarket/pkg/config"
	apperrors "pawmarket/pkg/errors"
	"pawmarket/pkg/model"
	"pawmarket/pkg/sanitizer"
)

// PetsService is owner-scoped end to end: every operation takes the owner's
// customer ID and a pet belonging to someone else behaves as if it does not
// exist.
type PetsService interface {
	Create(ctx context.Context, ownerID string, pet *model.Pet) error
	GetByID(ctx context.Context, ownerID, petID string) (*model.Pet, error)
	FindActiveOwnedByID(ctx context.Context, petID, ownerID string) (*model.Pet, error)
	List(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Pet, int64, error)
	Update(ctx context.Context, ownerID, petID string, updates *model.PetUpdate) error
	Deactivate(ctx context.Context, ownerID, petID string) error
}

type petsService struct {
	repo      repository.PetRepository
	validator *validator.PetValidator
	cfg       *config.Config
}

func NewPetsService(repo repository.PetRepository, validator *validator.PetValidator, cfg *config.Config) PetsService {
	return &petsService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *petsService) Create(ctx context.Context, ownerID string, pet *model.Pet) error {
	if ownerID == "" {
		return apperrors.InvalidInput("Owner ID cannot be empty")
	}

	pet.OwnerID = ownerID
	pet.Active = true
	s.sanitize(pet)

	if err := s.validator.Validate(pet); err != nil {
		s.cfg.Log.Warn("Pet validation failed", "error", err)
		return apperrors.Validation("Pet validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, pet); err != nil {
		s.cfg.Log.Error("Failed to create pet", "error", err)
		return apperrors.Internal("Failed to create pet", err)
	}

	s.cfg.Log.Info("Pet created", "id", pet.ID, "owner_id", ownerID, "species", pet.Species)
	return nil
}

func (s *petsService) GetByID(ctx context.Context, ownerID, petID string) (*model.Pet, error) {
	if petID == "" {
		return nil, apperrors.InvalidInput("Pet ID cannot be empty")
	}

	pet, err := s.repo.FindOwnedByID(ctx, petID, ownerID)
	if err != nil {
		return nil, mapLookupError(err, petID)
	}
	return pet, nil
}

// FindActiveOwnedByID is the lookup the booking admission path depends on:
// an inactive pet, like someone else's pet, is reported as not found.
func (s *petsService) FindActiveOwnedByID(ctx context.Context, petID, ownerID string) (*model.Pet, error) {
	if petID == "" {
		return nil, apperrors.InvalidInput("Pet ID cannot be empty")
	}

	pet, err := s.repo.FindActiveOwnedByID(ctx, petID, ownerID)
	if err != nil {
		return nil, mapLookupError(err, petID)
	}
	return pet, nil
}

func (s *petsService) List(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Pet, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	var count int64
	var pets []*model.Pet
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByOwner(ctx, ownerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count pets", "owner_id", ownerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count pets", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		pets, errFind = s.repo.FindByOwner(ctx, ownerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list pets", "owner_id", ownerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve pets", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return pets, count, nil
}

func (s *petsService) Update(ctx context.Context, ownerID, petID string, updates *model.PetUpdate) error {
	if petID == "" {
		return apperrors.InvalidInput("Pet ID cannot be empty")
	}

	existing, err := s.repo.FindOwnedByID(ctx, petID, ownerID)
	if err != nil {
		return mapLookupError(err, petID)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Pet update validation failed", "id", petID, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Pet validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, petID, ownerID, merged); err != nil {
		s.cfg.Log.Error("Failed to update pet", "id", petID, "error", err)
		return apperrors.Internal("Failed to update pet", err)
	}

	s.cfg.Log.Info("Pet updated", "id", petID, "owner_id", ownerID)
	return nil
}

func (s *petsService) Deactivate(ctx context.Context, ownerID, petID string) error {
	if petID == "" {
		return apperrors.InvalidInput("Pet ID cannot be empty")
	}

	if err := s.repo.Deactivate(ctx, petID, ownerID); err != nil {
		if errors.Is(err, petserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Pet", petID)
		}
		if errors.Is(err, petserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid pet ID format")
		}
		return apperrors.Internal("Failed to deactivate pet", err)
	}

	s.cfg.Log.Info("Pet deactivated", "id", petID, "owner_id", ownerID)
	return nil
}

func mapLookupError(err error, id string) error {
	if errors.Is(err, petserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Pet", id)
	}
	if errors.Is(err, petserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid pet ID format")
	}
	return apperrors.Internal("Failed to retrieve pet", err)
}

func (s *petsService) sanitize(pet *model.Pet) {
	pet.Name = sanitizer.NormalizeName(pet.Name)
	pet.Breed = sanitizer.TrimAndNormalize(pet.Breed)
	pet.Color = sanitizer.TrimAndNormalize(pet.Color)
	pet.Allergies = sanitizer.NormalizeAllergies(pet.Allergies)
}

func (s *petsService) merge(existing *model.Pet, updates *model.PetUpdate) *model.Pet {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Species != "" {
		merged.Species = updates.Species
	}
	if updates.Breed != "" {
		merged.Breed = updates.Breed
	}
	if updates.Age != nil {
		merged.Age = *updates.Age
	}
	if updates.WeightKg != nil {
		merged.WeightKg = *updates.WeightKg
	}
	if updates.Gender != "" {
		merged.Gender = updates.Gender
	}
	if updates.Color != "" {
		merged.Color = updates.Color
	}
	if updates.Allergies != nil {
		merged.Allergies = *updates.Allergies
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	return &merged
}
