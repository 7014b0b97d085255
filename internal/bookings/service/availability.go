package service

import (
	"context"
	"fmt"
	"time"

	"pawmarket/internal/bookings/repository"
	"pawmarket/pkg/config"
	apperrors "pawmarket/pkg/errors"
	"pawmarket/pkg/model"
)

const dateLayout = "2006-01-02"

// AvailabilityService enumerates open slots for a service on a given day.
// Candidates are laid out on a fixed grid inside business hours and a
// candidate survives only if no occupying booking for the service overlaps
// it. Conflict scope here is the service, not the pet: the checker asks
// "is the provider free", the admission path asks "is the pet free".
type AvailabilityService interface {
	AvailableSlots(ctx context.Context, serviceID string, date string) ([]model.TimeSlot, error)
}

type availabilityService struct {
	repo    repository.BookingRepository
	catalog ServiceCatalog
	cfg     *config.Config
}

func NewAvailabilityService(repo repository.BookingRepository, catalog ServiceCatalog, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		repo:    repo,
		catalog: catalog,
		cfg:     cfg,
	}
}

func (s *availabilityService) AvailableSlots(ctx context.Context, serviceID string, date string) ([]model.TimeSlot, error) {
	if serviceID == "" {
		return nil, apperrors.InvalidInput("service_id is required")
	}

	svc, err := s.catalog.FindActiveByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	loc := s.cfg.OperatingLocation()
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid date %q, must be YYYY-MM-DD", date))
	}

	open, err := atTimeOfDay(day, s.cfg.BusinessOpen)
	if err != nil {
		return nil, apperrors.Internal("Invalid business hours configuration", err)
	}
	close, err := atTimeOfDay(day, s.cfg.BusinessClose)
	if err != nil {
		return nil, apperrors.Internal("Invalid business hours configuration", err)
	}

	occupying, err := s.repo.FindOccupyingByService(ctx, serviceID, open, close)
	if err != nil {
		s.cfg.Log.Error("Failed to load occupying bookings",
			"service_id", serviceID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	duration := time.Duration(svc.DurationMin) * time.Minute
	interval := time.Duration(s.cfg.SlotIntervalMin) * time.Minute

	slots := []model.TimeSlot{}
	for start := open; !start.Add(duration).After(close); start = start.Add(interval) {
		end := start.Add(duration)
		if !anyOverlap(occupying, start, end) {
			slots = append(slots, model.TimeSlot{StartTime: start, EndTime: end})
		}
	}

	s.cfg.Log.Debug("Availability computed",
		"service_id", serviceID,
		"date", date,
		"occupying", len(occupying),
		"free_slots", len(slots),
	)
	return slots, nil
}

func anyOverlap(bookings []*model.Booking, start, end time.Time) bool {
	for _, b := range bookings {
		if overlaps(b.StartTime, b.EndTime(), start, end) {
			return true
		}
	}
	return false
}

// atTimeOfDay anchors an HH:MM wall-clock time onto the given day.
func atTimeOfDay(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
