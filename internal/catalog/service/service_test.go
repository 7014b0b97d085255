package service

import (
	"context"
	"testing"
	"time"

	catalogerrors "pawmarket/internal/catalog/errors"
	"pawmarket/internal/catalog/validator"
	"pawmarket/pkg/config"
	apperrors "pawmarket/pkg/errors"
	"pawmarket/pkg/logger"
	"pawmarket/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockServiceRepository struct {
	createFunc         func(ctx context.Context, svc *model.Service) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Service, error)
	findActiveByIDFunc func(ctx context.Context, id string) (*model.Service, error)
	findAllFunc        func(ctx context.Context, category model.ServiceCategory, activeOnly bool, limit int, offset int64) ([]*model.Service, error)
	countFunc          func(ctx context.Context, category model.ServiceCategory, activeOnly bool) (int64, error)
	updateFunc         func(ctx context.Context, id string, svc *model.Service) error
	deleteFunc         func(ctx context.Context, id string) error
}

func (m *mockServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, svc)
	}
	svc.ID = "507f1f77bcf86cd799439012"
	return nil
}

func (m *mockServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockServiceRepository) FindActiveByID(ctx context.Context, id string) (*model.Service, error) {
	if m.findActiveByIDFunc != nil {
		return m.findActiveByIDFunc(ctx, id)
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockServiceRepository) FindAll(ctx context.Context, category model.ServiceCategory, activeOnly bool, limit int, offset int64) ([]*model.Service, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, category, activeOnly, limit, offset)
	}
	return []*model.Service{}, nil
}

func (m *mockServiceRepository) Count(ctx context.Context, category model.ServiceCategory, activeOnly bool) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, category, activeOnly)
	}
	return 0, nil
}

func (m *mockServiceRepository) Update(ctx context.Context, id string, svc *model.Service) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, svc)
	}
	return nil
}

func (m *mockServiceRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestCatalog(repo *mockServiceRepository) CatalogService {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Service: "test"})
	cfg := &config.Config{Log: log, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	return NewCatalogService(repo, validator.NewServiceValidator(log), cfg)
}

func TestFindActiveByID_InactiveLooksMissing(t *testing.T) {
	repo := &mockServiceRepository{
		findActiveByIDFunc: func(ctx context.Context, id string) (*model.Service, error) {
			return nil, catalogerrors.ErrNotFound
		},
	}

	svc := newTestCatalog(repo)
	_, err := svc.FindActiveByID(context.Background(), "507f1f77bcf86cd799439012")

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestFindActiveByID_InvalidID(t *testing.T) {
	repo := &mockServiceRepository{
		findActiveByIDFunc: func(ctx context.Context, id string) (*model.Service, error) {
			return nil, catalogerrors.ErrInvalidID
		},
	}

	svc := newTestCatalog(repo)
	_, err := svc.FindActiveByID(context.Background(), "not-an-id")

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestCatalog(&mockServiceRepository{})

	err := svc.Create(context.Background(), &model.Service{
		Name:        "X", // too short
		Description: "Basic wash",
		Category:    model.CategoryGrooming,
		DurationMin: 30,
	})

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, 422, appErr.StatusCode())
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestCreate_DurationBelowMinimumRejected(t *testing.T) {
	svc := newTestCatalog(&mockServiceRepository{})

	err := svc.Create(context.Background(), &model.Service{
		Name:        "Quick Brush",
		Description: "A very quick brush",
		Category:    model.CategoryGrooming,
		DurationMin: 10,
	})

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestUpdate_MergesOnlyProvidedFields(t *testing.T) {
	existing := &model.Service{
		ID:          "507f1f77bcf86cd799439012",
		Name:        "Full Grooming",
		Description: "Wash, cut and dry",
		Category:    model.CategoryGrooming,
		Price:       50,
		DurationMin: 60,
		Active:      true,
	}

	var updated *model.Service
	repo := &mockServiceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Service, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, id string, svc *model.Service) error {
			updated = svc
			return nil
		},
	}

	svc := newTestCatalog(repo)
	newPrice := 65.0
	err := svc.Update(context.Background(), existing.ID, &model.ServiceUpdate{Price: &newPrice})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 65.0, updated.Price)
	assert.Equal(t, "Full Grooming", updated.Name)
	assert.Equal(t, 60, updated.DurationMin)
	assert.True(t, updated.Active)
}

func TestGetAll_ReturnsCount(t *testing.T) {
	repo := &mockServiceRepository{
		countFunc: func(ctx context.Context, category model.ServiceCategory, activeOnly bool) (int64, error) {
			return 7, nil
		},
		findAllFunc: func(ctx context.Context, category model.ServiceCategory, activeOnly bool, limit int, offset int64) ([]*model.Service, error) {
			return []*model.Service{{ID: "507f1f77bcf86cd799439012", Name: "Full Grooming"}}, nil
		},
	}

	svc := newTestCatalog(repo)
	services, total, err := svc.GetAll(context.Background(), model.CategoryGrooming, true, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, services, 1)
}
