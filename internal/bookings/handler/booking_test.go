package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "pawmarket/pkg/errors"
	"pawmarket/pkg/logger"
	"pawmarket/pkg/middleware"
	"pawmarket/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock services for testing

type mockBookingService struct {
	createFunc  func(ctx context.Context, booking *model.Booking, customerEmail string) error
	getByIDFunc func(ctx context.Context, customerID, id string) (*model.Booking, error)
	cancelFunc  func(ctx context.Context, customerID, id string, customerEmail string) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking, customerEmail string) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking, customerEmail)
	}
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, customerID, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, customerID, id)
	}
	return &model.Booking{ID: id, CustomerID: customerID}, nil
}

func (m *mockBookingService) List(ctx context.Context, customerID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Update(ctx context.Context, customerID, id string, updates *model.BookingUpdate) error {
	return nil
}

func (m *mockBookingService) Cancel(ctx context.Context, customerID, id string, customerEmail string) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, customerID, id, customerEmail)
	}
	return &model.Booking{ID: id, Status: model.BookingCancelled}, nil
}

type mockAvailabilityService struct {
	availableSlotsFunc func(ctx context.Context, serviceID string, date string) ([]model.TimeSlot, error)
}

func (m *mockAvailabilityService) AvailableSlots(ctx context.Context, serviceID string, date string) ([]model.TimeSlot, error) {
	if m.availableSlotsFunc != nil {
		return m.availableSlotsFunc(ctx, serviceID, date)
	}
	return []model.TimeSlot{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	})
}

func withIdentity(r *http.Request, customerID, email string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.CustomerIDKey, customerID)
	if email != "" {
		ctx = context.WithValue(ctx, middleware.CustomerEmailKey, email)
	}
	return r.WithContext(ctx)
}

func TestCreate_IdentityComesFromContextNotPayload(t *testing.T) {
	var received *model.Booking
	var receivedEmail string
	mockService := &mockBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking, customerEmail string) error {
			received = booking
			receivedEmail = customerEmail
			booking.ID = "507f1f77bcf86cd799439014"
			return nil
		},
	}

	handler := NewBookingHandler(mockService, &mockAvailabilityService{}, testLogger())

	// The payload claims to be someone else; the gateway identity wins.
	body := `{"customer_id":"507f1f77bcf86cd799439099","service_id":"507f1f77bcf86cd799439012","pet_id":"507f1f77bcf86cd799439013","start_time":"2026-03-11T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req = withIdentity(req, "507f1f77bcf86cd799439011", "rex@example.com")
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	if received.CustomerID != "507f1f77bcf86cd799439011" {
		t.Errorf("expected gateway customer ID, got %s", received.CustomerID)
	}
	if receivedEmail != "rex@example.com" {
		t.Errorf("expected gateway email, got %s", receivedEmail)
	}
}

func TestCreate_SlotConflictMapsTo400WithConflictCode(t *testing.T) {
	mockService := &mockBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking, customerEmail string) error {
			return apperrors.SlotConflict("Requested time overlaps an existing booking for this pet")
		},
	}

	handler := NewBookingHandler(mockService, &mockAvailabilityService{}, testLogger())

	body := `{"service_id":"507f1f77bcf86cd799439012","pet_id":"507f1f77bcf86cd799439013","start_time":"2026-03-11T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req = withIdentity(req, "507f1f77bcf86cd799439011", "")
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, resp.Code)
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	handler := NewBookingHandler(&mockBookingService{}, &mockAvailabilityService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	req = withIdentity(req, "507f1f77bcf86cd799439011", "")
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestSlots_PassesQueryParameters(t *testing.T) {
	var receivedServiceID, receivedDate string
	availability := &mockAvailabilityService{
		availableSlotsFunc: func(ctx context.Context, serviceID string, date string) ([]model.TimeSlot, error) {
			receivedServiceID = serviceID
			receivedDate = date
			start := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
			return []model.TimeSlot{{StartTime: start, EndTime: start.Add(time.Hour)}}, nil
		},
	}

	handler := NewBookingHandler(&mockBookingService{}, availability, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/slots?service_id=507f1f77bcf86cd799439012&date=2026-03-11", nil)
	req = withIdentity(req, "507f1f77bcf86cd799439011", "")
	w := httptest.NewRecorder()

	handler.Slots(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if receivedServiceID != "507f1f77bcf86cd799439012" {
		t.Errorf("unexpected service_id: %s", receivedServiceID)
	}
	if receivedDate != "2026-03-11" {
		t.Errorf("unexpected date: %s", receivedDate)
	}
}

func TestCancel_NotFoundForOtherCustomersBooking(t *testing.T) {
	mockService := &mockBookingService{
		cancelFunc: func(ctx context.Context, customerID, id string, customerEmail string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}

	handler := NewBookingHandler(mockService, &mockAvailabilityService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/507f1f77bcf86cd799439014/cancel", nil)
	req = withIdentity(req, "507f1f77bcf86cd799439011", "")
	w := httptest.NewRecorder()

	handler.Cancel(w, req, httprouter.Params{{Key: "id", Value: "507f1f77bcf86cd799439014"}})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
