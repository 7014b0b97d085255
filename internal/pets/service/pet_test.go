package service

import (
	"context"
	"testing"
	"time"

	petserrors "pawmarket/internal/pets/errors"
	"pawmarket/internal/pets/validator"
	"pawmarket/pkg/config"
	apperrors "pawmarket/pkg/errors"
	"pawmarket/pkg/logger"
	"pawmarket/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwnerID = "507f1f77bcf86cd799439011"
	testPetID   = "507f1f77bcf86cd799439013"
)

type mockPetRepository struct {
	createFunc              func(ctx context.Context, pet *model.Pet) error
	findOwnedByIDFunc       func(ctx context.Context, petID, ownerID string) (*model.Pet, error)
	findActiveOwnedByIDFunc func(ctx context.Context, petID, ownerID string) (*model.Pet, error)
	findByOwnerFunc         func(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Pet, error)
	countByOwnerFunc        func(ctx context.Context, ownerID string) (int64, error)
	updateFunc              func(ctx context.Context, petID, ownerID string, pet *model.Pet) error
	deactivateFunc          func(ctx context.Context, petID, ownerID string) error
}

func (m *mockPetRepository) Create(ctx context.Context, pet *model.Pet) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, pet)
	}
	pet.ID = testPetID
	return nil
}

func (m *mockPetRepository) FindOwnedByID(ctx context.Context, petID, ownerID string) (*model.Pet, error) {
	if m.findOwnedByIDFunc != nil {
		return m.findOwnedByIDFunc(ctx, petID, ownerID)
	}
	return nil, petserrors.ErrNotFound
}

func (m *mockPetRepository) FindActiveOwnedByID(ctx context.Context, petID, ownerID string) (*model.Pet, error) {
	if m.findActiveOwnedByIDFunc != nil {
		return m.findActiveOwnedByIDFunc(ctx, petID, ownerID)
	}
	return nil, petserrors.ErrNotFound
}

func (m *mockPetRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Pet, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID, limit, offset)
	}
	return []*model.Pet{}, nil
}

func (m *mockPetRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	if m.countByOwnerFunc != nil {
		return m.countByOwnerFunc(ctx, ownerID)
	}
	return 0, nil
}

func (m *mockPetRepository) Update(ctx context.Context, petID, ownerID string, pet *model.Pet) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, petID, ownerID, pet)
	}
	return nil
}

func (m *mockPetRepository) Deactivate(ctx context.Context, petID, ownerID string) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, petID, ownerID)
	}
	return nil
}

func newTestPets(repo *mockPetRepository) PetsService {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	return NewPetsService(repo, validator.NewPetValidator(log), cfg)
}

func TestCreate_OwnerComesFromCaller(t *testing.T) {
	var created *model.Pet
	repo := &mockPetRepository{
		createFunc: func(ctx context.Context, pet *model.Pet) error {
			created = pet
			pet.ID = testPetID
			return nil
		},
	}

	svc := newTestPets(repo)
	pet := &model.Pet{
		OwnerID: "507f1f77bcf86cd799439099", // ignored
		Name:    "Rex",
		Species: model.SpeciesDog,
		Breed:   "Labrador",
		Age:     3,
		Active:  false,
	}
	err := svc.Create(context.Background(), testOwnerID, pet)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, testOwnerID, created.OwnerID)
	assert.True(t, created.Active)
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestPets(&mockPetRepository{})

	err := svc.Create(context.Background(), testOwnerID, &model.Pet{
		Name:    "Rex",
		Species: "dinosaur",
		Breed:   "Labrador",
	})

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, 422, appErr.StatusCode())
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestFindActiveOwnedByID_InactiveLooksMissing(t *testing.T) {
	repo := &mockPetRepository{
		findActiveOwnedByIDFunc: func(ctx context.Context, petID, ownerID string) (*model.Pet, error) {
			return nil, petserrors.ErrNotFound
		},
	}

	svc := newTestPets(repo)
	_, err := svc.FindActiveOwnedByID(context.Background(), testPetID, testOwnerID)

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, 404, appErr.StatusCode())
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestGetByID_ScopedToOwner(t *testing.T) {
	var askedOwner string
	repo := &mockPetRepository{
		findOwnedByIDFunc: func(ctx context.Context, petID, ownerID string) (*model.Pet, error) {
			askedOwner = ownerID
			return nil, petserrors.ErrNotFound
		},
	}

	svc := newTestPets(repo)
	_, err := svc.GetByID(context.Background(), testOwnerID, testPetID)

	require.Error(t, err)
	assert.Equal(t, testOwnerID, askedOwner)
	assert.Equal(t, 404, apperrors.AsAppError(err).StatusCode())
}

func TestUpdate_MergesOnlyProvidedFields(t *testing.T) {
	existing := &model.Pet{
		ID:      testPetID,
		OwnerID: testOwnerID,
		Name:    "Rex",
		Species: model.SpeciesDog,
		Breed:   "Labrador",
		Age:     3,
		Active:  true,
	}

	var updated *model.Pet
	repo := &mockPetRepository{
		findOwnedByIDFunc: func(ctx context.Context, petID, ownerID string) (*model.Pet, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, petID, ownerID string, pet *model.Pet) error {
			updated = pet
			return nil
		},
	}

	svc := newTestPets(repo)
	newAge := 4
	err := svc.Update(context.Background(), testOwnerID, testPetID, &model.PetUpdate{Age: &newAge})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 4, updated.Age)
	assert.Equal(t, "Rex", updated.Name)
	assert.Equal(t, model.SpeciesDog, updated.Species)
	assert.True(t, updated.Active)
}

func TestDeactivate_NotFoundForOtherOwnersPet(t *testing.T) {
	repo := &mockPetRepository{
		deactivateFunc: func(ctx context.Context, petID, ownerID string) error {
			return petserrors.ErrNotFound
		},
	}

	svc := newTestPets(repo)
	err := svc.Deactivate(context.Background(), testOwnerID, testPetID)

	require.Error(t, err)
	assert.Equal(t, 404, apperrors.AsAppError(err).StatusCode())
}

func TestList_ReturnsCountAndPage(t *testing.T) {
	repo := &mockPetRepository{
		countByOwnerFunc: func(ctx context.Context, ownerID string) (int64, error) {
			return 3, nil
		},
		findByOwnerFunc: func(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Pet, error) {
			return []*model.Pet{{ID: testPetID, Name: "Rex"}}, nil
		},
	}

	svc := newTestPets(repo)
	pets, total, err := svc.List(context.Background(), testOwnerID, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, pets, 1)
}
