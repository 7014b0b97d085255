package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "pawmarket/internal/bookings/errors"
	"pawmarket/internal/bookings/repository"
	"pawmarket/internal/bookings/validator"
	"pawmarket/pkg/config"
	apperrors "pawmarket/pkg/errors"
	"pawmarket/pkg/model"
	"pawmarket/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceCatalog resolves bookable services. Inactive and unknown
// services are both reported as not found.
type ServiceCatalog interface {
	FindActiveByID(ctx context.Context, id string) (*model.Service, error)
}

// PetDirectory resolves a customer's active pets. Pets owned by someone
// else look exactly like missing pets to the caller.
type PetDirectory interface {
	FindActiveOwnedByID(ctx context.Context, petID, ownerID string) (*model.Pet, error)
}

// NotificationPublisher emits booking lifecycle events. Publishing happens
// after the booking is committed; failures are logged and swallowed so a
// broker outage never fails an admission.
type NotificationPublisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking, svc *model.Service, pet *model.Pet, customerEmail string) error
	BookingCancelled(ctx context.Context, booking *model.Booking, customerEmail string) error
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking, customerEmail string) error
	GetByID(ctx context.Context, customerID, id string) (*model.Booking, error)
	List(ctx context.Context, customerID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, customerID, id string, updates *model.BookingUpdate) error
	Cancel(ctx context.Context, customerID, id string, customerEmail string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	catalog   ServiceCatalog
	pets      PetDirectory
	notifier  NotificationPublisher
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	catalog ServiceCatalog,
	pets PetDirectory,
	notifier NotificationPublisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		pets:      pets,
		notifier:  notifier,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking, customerEmail string) error {
	s.applyDefaults(booking)
	s.sanitize(booking)

	svc, err := s.catalog.FindActiveByID(ctx, booking.ServiceID)
	if err != nil {
		return err
	}

	pet, err := s.pets.FindActiveOwnedByID(ctx, booking.PetID, booking.CustomerID)
	if err != nil {
		return err
	}

	// Price and duration are frozen from the catalog at admission; later
	// catalog edits never touch existing bookings.
	booking.DurationMin = svc.DurationMin
	booking.TotalPrice = svc.Price

	if !booking.StartTime.After(s.now()) {
		return apperrors.InvalidInput("start_time must be in the future")
	}

	if err := s.validate(booking); err != nil {
		return err
	}

	// Advisory lock keyed by pet and start instant so two concurrent
	// admissions for the same slot serialize at the store.
	lockID, err := s.acquireSlotLock(ctx, booking.PetID, booking.StartTime)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"customer_id", booking.CustomerID,
		"service_id", booking.ServiceID,
		"pet_id", booking.PetID,
		"start_time", booking.StartTime,
	)

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.BookingCreated(notifyCtx, booking, svc, pet, customerEmail); err != nil {
			s.cfg.Log.Error("Failed to publish booking created notification",
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}()

	return nil
}

func (s *bookingService) GetByID(ctx context.Context, customerID, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findOwned(ctx, customerID, id)
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, customerID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, int64, error) {
	if status != "" && !validStatus(status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status filter: %s", status))
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByCustomer(ctx, customerID, status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "customer_id", customerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByCustomer(ctx, customerID, status, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "customer_id", customerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, customerID, id string, updates *model.BookingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.findOwned(ctx, customerID, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	if updates.Status != "" {
		if !existing.CanTransition(updates.Status) {
			return apperrors.InvalidInput(fmt.Sprintf(
				"cannot transition booking from %s to %s", existing.Status, updates.Status,
			))
		}
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return apperrors.Internal("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id, "status", merged.Status)
	return nil
}

func (s *bookingService) Cancel(ctx context.Context, customerID, id string, customerEmail string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findOwned(ctx, customerID, id)
	if err != nil {
		return nil, err
	}

	if !booking.CanCancel(s.now()) {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"booking can no longer be cancelled: cancellations require %s notice before the start time",
			model.CancellationNotice,
		))
	}

	booking.Status = model.BookingCancelled
	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "customer_id", customerID)

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.BookingCancelled(notifyCtx, booking, customerEmail); err != nil {
			s.cfg.Log.Error("Failed to publish booking cancelled notification",
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}()

	return booking, nil
}

// --- Helpers ---

func (s *bookingService) findOwned(ctx context.Context, customerID, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	// Another customer's booking is indistinguishable from a missing one.
	if booking.CustomerID != customerID {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}

	return booking, nil
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.SpecialRequests = sanitizer.NormalizeFreeText(b.SpecialRequests)
	b.Notes = sanitizer.NormalizeFreeText(b.Notes)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.BookingPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = model.PaymentPending
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = model.PaymentCash
	}
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.Status != "" {
		merged.Status = updates.Status
		if updates.Status == model.BookingCompleted {
			completedAt := s.now().UTC().Truncate(time.Millisecond)
			merged.CompletedAt = &completedAt
		}
	}
	if updates.SpecialRequests != nil {
		merged.SpecialRequests = *updates.SpecialRequests
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}
	if updates.PaymentStatus != "" {
		merged.PaymentStatus = updates.PaymentStatus
	}
	if updates.PaymentMethod != "" {
		merged.PaymentMethod = updates.PaymentMethod
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifyNoConflict rejects the booking if any occupying booking for the
// same pet overlaps its half-open interval. Touching endpoints do not
// overlap.
func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOccupyingByPet(ctx, booking.PetID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if overlaps(b.StartTime, b.EndTime(), booking.StartTime, booking.EndTime()) {
			return apperrors.SlotConflict(fmt.Sprintf(
				"Requested time overlaps an existing booking for this pet (%s - %s)",
				b.StartTime.Format(time.RFC3339),
				b.EndTime().Format(time.RFC3339),
			))
		}
	}
	return nil
}

func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

func validStatus(status model.BookingStatus) bool {
	switch status {
	case model.BookingPending, model.BookingConfirmed, model.BookingInProgress,
		model.BookingCompleted, model.BookingCancelled, model.BookingNoShow:
		return true
	}
	return false
}

// acquireSlotLock creates an advisory lock to prevent concurrent booking
// creation for the same pet and start instant. Returns the lock ID if
// successful, or a conflict error if the lock already exists.
func (s *bookingService) acquireSlotLock(ctx context.Context, petID string, startTime time.Time) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%d", petID, startTime.Unix())

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: s.now().Add(10 * time.Second), // Auto-expire after 10 seconds
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.SlotConflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
