package service

import (
	"context"
	"testing"
	"time"

	"pawmarket/internal/bookings/validator"
	"pawmarket/pkg/config"
	mongotx "pawmarket/pkg/db/mongo"
	apperrors "pawmarket/pkg/errors"
	"pawmarket/pkg/logger"
	"pawmarket/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	testCustomerID = "507f1f77bcf86cd799439011"
	testServiceID  = "507f1f77bcf86cd799439012"
	testPetID      = "507f1f77bcf86cd799439013"
	testBookingID  = "507f1f77bcf86cd799439014"
	otherCustomer  = "507f1f77bcf86cd799439099"
)

// Mock repositories for testing

type mockBookingRepository struct {
	createFunc                 func(ctx context.Context, booking *model.Booking) error
	findByIDFunc               func(ctx context.Context, id string) (*model.Booking, error)
	findByCustomerFunc         func(ctx context.Context, customerID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error)
	countByCustomerFunc        func(ctx context.Context, customerID string, status model.BookingStatus) (int64, error)
	findOccupyingByPetFunc     func(ctx context.Context, petID string) ([]*model.Booking, error)
	findOccupyingByServiceFunc func(ctx context.Context, serviceID string, windowStart, windowEnd time.Time) ([]*model.Booking, error)
	updateFunc                 func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = testBookingID
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindByCustomer(ctx context.Context, customerID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByCustomerFunc != nil {
		return m.findByCustomerFunc(ctx, customerID, status, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByCustomer(ctx context.Context, customerID string, status model.BookingStatus) (int64, error) {
	if m.countByCustomerFunc != nil {
		return m.countByCustomerFunc(ctx, customerID, status)
	}
	return 0, nil
}

func (m *mockBookingRepository) FindOccupyingByPet(ctx context.Context, petID string) ([]*model.Booking, error) {
	if m.findOccupyingByPetFunc != nil {
		return m.findOccupyingByPetFunc(ctx, petID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindOccupyingByService(ctx context.Context, serviceID string, windowStart, windowEnd time.Time) ([]*model.Booking, error) {
	if m.findOccupyingByServiceFunc != nil {
		return m.findOccupyingByServiceFunc(ctx, serviceID, windowStart, windowEnd)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, booking)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockSlotLockRepository struct {
	createFunc func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
}

func (m *mockSlotLockRepository) Create(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockSlotLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

type mockCatalog struct {
	findActiveByIDFunc func(ctx context.Context, id string) (*model.Service, error)
}

func (m *mockCatalog) FindActiveByID(ctx context.Context, id string) (*model.Service, error) {
	if m.findActiveByIDFunc != nil {
		return m.findActiveByIDFunc(ctx, id)
	}
	return &model.Service{ID: id, Name: "Full Grooming", DurationMin: 60, Price: 50, Active: true}, nil
}

type mockPetDirectory struct {
	findActiveOwnedByIDFunc func(ctx context.Context, petID, ownerID string) (*model.Pet, error)
}

func (m *mockPetDirectory) FindActiveOwnedByID(ctx context.Context, petID, ownerID string) (*model.Pet, error) {
	if m.findActiveOwnedByIDFunc != nil {
		return m.findActiveOwnedByIDFunc(ctx, petID, ownerID)
	}
	return &model.Pet{ID: petID, OwnerID: ownerID, Name: "Rex", Active: true}, nil
}

type mockNotifier struct {
	createdFunc   func(ctx context.Context, booking *model.Booking, svc *model.Service, pet *model.Pet, customerEmail string) error
	cancelledFunc func(ctx context.Context, booking *model.Booking, customerEmail string) error
}

func (m *mockNotifier) BookingCreated(ctx context.Context, booking *model.Booking, svc *model.Service, pet *model.Pet, customerEmail string) error {
	if m.createdFunc != nil {
		return m.createdFunc(ctx, booking, svc, pet, customerEmail)
	}
	return nil
}

func (m *mockNotifier) BookingCancelled(ctx context.Context, booking *model.Booking, customerEmail string) error {
	if m.cancelledFunc != nil {
		return m.cancelledFunc(ctx, booking, customerEmail)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
		BusinessOpen:    "09:00",
		BusinessClose:   "18:00",
		SlotIntervalMin: 30,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
	}
}

func newTestService(repo *mockBookingRepository, lockRepo *mockSlotLockRepository, catalog *mockCatalog, pets *mockPetDirectory, notifier *mockNotifier, now time.Time) *bookingService {
	cfg := testConfig()
	if repo == nil {
		repo = &mockBookingRepository{}
	}
	if lockRepo == nil {
		lockRepo = &mockSlotLockRepository{}
	}
	if catalog == nil {
		catalog = &mockCatalog{}
	}
	if pets == nil {
		pets = &mockPetDirectory{}
	}
	if notifier == nil {
		notifier = &mockNotifier{}
	}
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		pets:      pets,
		notifier:  notifier,
		validator: validator.NewBookingValidator(cfg.Log),
		cfg:       cfg,
		now:       func() time.Time { return now },
	}
}

func newBookingRequest(start time.Time) *model.Booking {
	return &model.Booking{
		CustomerID: testCustomerID,
		ServiceID:  testServiceID,
		PetID:      testPetID,
		StartTime:  start,
	}
}

func occupying(id string, start time.Time, durationMin int) *model.Booking {
	return &model.Booking{
		ID:          id,
		CustomerID:  testCustomerID,
		ServiceID:   testServiceID,
		PetID:       testPetID,
		StartTime:   start,
		DurationMin: durationMin,
		Status:      model.BookingConfirmed,
	}
}

func TestCreate_FreezesPriceAndDuration(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, b *model.Booking) error {
			created = b
			b.ID = testBookingID
			return nil
		},
	}
	catalog := &mockCatalog{
		findActiveByIDFunc: func(ctx context.Context, id string) (*model.Service, error) {
			return &model.Service{ID: id, DurationMin: 90, Price: 75.5, Active: true}, nil
		},
	}

	svc := newTestService(repo, nil, catalog, nil, nil, now)
	booking := newBookingRequest(now.Add(24 * time.Hour))

	err := svc.Create(context.Background(), booking, "rex@example.com")
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, 90, created.DurationMin)
	assert.Equal(t, 75.5, created.TotalPrice)
	assert.Equal(t, model.BookingPending, created.Status)
	assert.Equal(t, model.PaymentPending, created.PaymentStatus)
	assert.Equal(t, testBookingID, booking.ID)
}

func TestCreate_ServiceNotFound(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	catalog := &mockCatalog{
		findActiveByIDFunc: func(ctx context.Context, id string) (*model.Service, error) {
			return nil, apperrors.NotFoundWithID("Service", id)
		},
	}

	svc := newTestService(nil, nil, catalog, nil, nil, now)
	err := svc.Create(context.Background(), newBookingRequest(now.Add(24*time.Hour)), "")

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, 404, appErr.StatusCode())
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestCreate_PetNotFound(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	pets := &mockPetDirectory{
		findActiveOwnedByIDFunc: func(ctx context.Context, petID, ownerID string) (*model.Pet, error) {
			return nil, apperrors.NotFoundWithID("Pet", petID)
		},
	}

	svc := newTestService(nil, nil, nil, pets, nil, now)
	err := svc.Create(context.Background(), newBookingRequest(now.Add(24*time.Hour)), "")

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestCreate_StartMustBeFuture(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newTestService(nil, nil, nil, nil, nil, now)

	tests := []struct {
		name  string
		start time.Time
	}{
		{"in the past", now.Add(-time.Hour)},
		{"exactly now", now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), newBookingRequest(tt.start), "")
			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, 400, appErr.StatusCode())
			assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
		})
	}
}

func TestCreate_OverlapDetection(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	// Existing booking occupies 10:00-11:00.
	existing := occupying("507f1f77bcf86cd799439021", day.Add(10*time.Hour), 60)

	repo := &mockBookingRepository{
		findOccupyingByPetFunc: func(ctx context.Context, petID string) ([]*model.Booking, error) {
			return []*model.Booking{existing}, nil
		},
	}
	catalog := &mockCatalog{
		findActiveByIDFunc: func(ctx context.Context, id string) (*model.Service, error) {
			return &model.Service{ID: id, DurationMin: 60, Price: 50, Active: true}, nil
		},
	}

	tests := []struct {
		name     string
		start    time.Time
		conflict bool
	}{
		{"halfway into existing", day.Add(10*time.Hour + 30*time.Minute), true},
		{"identical interval", day.Add(10 * time.Hour), true},
		{"new contains existing start", day.Add(9*time.Hour + 30*time.Minute), true},
		{"starts exactly at existing end", day.Add(11 * time.Hour), false},
		{"ends exactly at existing start", day.Add(9 * time.Hour), false},
		{"well clear", day.Add(14 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(repo, nil, catalog, nil, nil, now)
			err := svc.Create(context.Background(), newBookingRequest(tt.start), "")

			if tt.conflict {
				require.Error(t, err)
				appErr := apperrors.AsAppError(err)
				assert.Equal(t, 400, appErr.StatusCode())
				assert.Equal(t, apperrors.CodeConflict, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreate_ContainedBookingConflicts(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	// Existing 30-minute booking sits inside the requested 3-hour window.
	existing := occupying("507f1f77bcf86cd799439022", day.Add(10*time.Hour), 30)

	repo := &mockBookingRepository{
		findOccupyingByPetFunc: func(ctx context.Context, petID string) ([]*model.Booking, error) {
			return []*model.Booking{existing}, nil
		},
	}
	catalog := &mockCatalog{
		findActiveByIDFunc: func(ctx context.Context, id string) (*model.Service, error) {
			return &model.Service{ID: id, DurationMin: 180, Price: 120, Active: true}, nil
		},
	}

	svc := newTestService(repo, nil, catalog, nil, nil, now)
	err := svc.Create(context.Background(), newBookingRequest(day.Add(9*time.Hour)), "")

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestCreate_SlotLockHeldByAnotherRequest(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	lockRepo := &mockSlotLockRepository{
		createFunc: func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
			return nil, mongo.WriteException{
				WriteErrors: mongo.WriteErrors{{Code: 11000}},
			}
		},
	}

	svc := newTestService(nil, lockRepo, nil, nil, nil, now)
	err := svc.Create(context.Background(), newBookingRequest(now.Add(24*time.Hour)), "")

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, 400, appErr.StatusCode())
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestCreate_SlotLockExpiryFollowsServiceClock(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	var acquired *model.SlotLock
	lockRepo := &mockSlotLockRepository{
		createFunc: func(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
			acquired = lock
			return lock, nil
		},
	}

	svc := newTestService(nil, lockRepo, nil, nil, nil, now)
	err := svc.Create(context.Background(), newBookingRequest(now.Add(24*time.Hour)), "")
	require.NoError(t, err)

	require.NotNil(t, acquired)
	assert.True(t, acquired.ExpiresAt.Equal(now.Add(10*time.Second)),
		"lock TTL must be anchored to the injected clock, got %v", acquired.ExpiresAt)
}

func TestCreate_NotifierFailureDoesNotFailAdmission(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	notified := make(chan error, 1)
	notifier := &mockNotifier{
		createdFunc: func(ctx context.Context, booking *model.Booking, svc *model.Service, pet *model.Pet, customerEmail string) error {
			err := assert.AnError
			notified <- err
			return err
		},
	}

	svc := newTestService(nil, nil, nil, nil, notifier, now)
	err := svc.Create(context.Background(), newBookingRequest(now.Add(24*time.Hour)), "rex@example.com")

	require.NoError(t, err)
	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("expected notification attempt")
	}
}

func TestGetByID_ScopedToCustomer(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	stored := occupying(testBookingID, now.Add(24*time.Hour), 60)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
	}

	svc := newTestService(repo, nil, nil, nil, nil, now)

	booking, err := svc.GetByID(context.Background(), testCustomerID, testBookingID)
	require.NoError(t, err)
	assert.Equal(t, testBookingID, booking.ID)

	_, err = svc.GetByID(context.Background(), otherCustomer, testBookingID)
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		start      time.Time
		status     model.BookingStatus
		wantErr    bool
		wantStatus int
	}{
		{"well before cutoff", now.Add(48 * time.Hour), model.BookingConfirmed, false, 0},
		{"one minute past cutoff", now.Add(2*time.Hour + time.Minute), model.BookingPending, false, 0},
		{"exactly at cutoff", now.Add(2 * time.Hour), model.BookingPending, true, 400},
		{"inside cutoff", now.Add(time.Hour), model.BookingConfirmed, true, 400},
		{"already completed", now.Add(48 * time.Hour), model.BookingCompleted, true, 400},
		{"already cancelled", now.Add(48 * time.Hour), model.BookingCancelled, true, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := occupying(testBookingID, tt.start, 60)
			stored.Status = tt.status

			var updated *model.Booking
			repo := &mockBookingRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					return stored, nil
				},
				updateFunc: func(ctx context.Context, id string, b *model.Booking) (*mongo.UpdateResult, error) {
					updated = b
					return &mongo.UpdateResult{MatchedCount: 1}, nil
				},
			}

			svc := newTestService(repo, nil, nil, nil, nil, now)
			booking, err := svc.Cancel(context.Background(), testCustomerID, testBookingID, "")

			if tt.wantErr {
				require.Error(t, err)
				appErr := apperrors.AsAppError(err)
				assert.Equal(t, tt.wantStatus, appErr.StatusCode())
				assert.Nil(t, updated)
			} else {
				require.NoError(t, err)
				assert.Equal(t, model.BookingCancelled, booking.Status)
				require.NotNil(t, updated)
				assert.Equal(t, model.BookingCancelled, updated.Status)
			}
		})
	}
}

func TestUpdate_StatusTransitions(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		from    model.BookingStatus
		to      model.BookingStatus
		wantErr bool
	}{
		{"pending to confirmed", model.BookingPending, model.BookingConfirmed, false},
		{"confirmed to in-progress", model.BookingConfirmed, model.BookingInProgress, false},
		{"in-progress to completed", model.BookingInProgress, model.BookingCompleted, false},
		{"pending to completed skips ahead", model.BookingPending, model.BookingCompleted, false},
		{"confirmed to no-show", model.BookingConfirmed, model.BookingNoShow, false},
		{"in-progress back to pending", model.BookingInProgress, model.BookingPending, true},
		{"completed to confirmed", model.BookingCompleted, model.BookingConfirmed, true},
		{"cancelled to confirmed", model.BookingCancelled, model.BookingConfirmed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := occupying(testBookingID, now.Add(24*time.Hour), 60)
			stored.Status = tt.from

			var updated *model.Booking
			repo := &mockBookingRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					return stored, nil
				},
				updateFunc: func(ctx context.Context, id string, b *model.Booking) (*mongo.UpdateResult, error) {
					updated = b
					return &mongo.UpdateResult{MatchedCount: 1}, nil
				},
			}

			svc := newTestService(repo, nil, nil, nil, nil, now)
			err := svc.Update(context.Background(), testCustomerID, testBookingID, &model.BookingUpdate{Status: tt.to})

			if tt.wantErr {
				require.Error(t, err)
				appErr := apperrors.AsAppError(err)
				assert.Equal(t, 400, appErr.StatusCode())
			} else {
				require.NoError(t, err)
				require.NotNil(t, updated)
				assert.Equal(t, tt.to, updated.Status)
				if tt.to == model.BookingCompleted {
					require.NotNil(t, updated.CompletedAt)
					assert.Equal(t, now.UTC().Truncate(time.Millisecond), *updated.CompletedAt)
				}
			}
		})
	}
}

func TestList_InvalidStatusFilter(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newTestService(nil, nil, nil, nil, nil, now)

	_, _, err := svc.List(context.Background(), testCustomerID, "archived", 10, 0)
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
}

func TestList_ReturnsCountAndPage(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	repo := &mockBookingRepository{
		countByCustomerFunc: func(ctx context.Context, customerID string, status model.BookingStatus) (int64, error) {
			return 42, nil
		},
		findByCustomerFunc: func(ctx context.Context, customerID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error) {
			return []*model.Booking{occupying(testBookingID, now.Add(24*time.Hour), 60)}, nil
		},
	}

	svc := newTestService(repo, nil, nil, nil, nil, now)
	bookings, total, err := svc.List(context.Background(), testCustomerID, model.BookingConfirmed, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	assert.Len(t, bookings, 1)
}
