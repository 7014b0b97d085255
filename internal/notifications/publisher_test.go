package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"pawmarket/pkg/kafka"
	"pawmarket/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProducer struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
	closeFunc   func() error
	published   []kafka.Message
	closed      bool
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

func (m *mockProducer) Close() error {
	m.closed = true
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func testBooking() (*model.Booking, *model.Service, *model.Pet) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	booking := &model.Booking{
		ID:          "507f1f77bcf86cd799439020",
		CustomerID:  "507f1f77bcf86cd799439011",
		ServiceID:   "507f1f77bcf86cd799439012",
		PetID:       "507f1f77bcf86cd799439013",
		StartTime:   start,
		DurationMin: 60,
		TotalPrice:  45.0,
		Status:      model.BookingPending,
		CreatedAt:   start.Add(-24 * time.Hour),
	}
	svc := &model.Service{ID: booking.ServiceID, Name: "Full Grooming"}
	pet := &model.Pet{ID: booking.PetID, Name: "Rex"}
	return booking, svc, pet
}

func TestPublisher_BookingCreatedReachesBothTopics(t *testing.T) {
	customer := &mockProducer{}
	operator := &mockProducer{}
	p := &publisher{customer: customer, operator: operator}

	booking, svc, pet := testBooking()
	err := p.BookingCreated(context.Background(), booking, svc, pet, "owner@example.com")
	require.NoError(t, err)

	require.Len(t, customer.published, 1)
	require.Len(t, operator.published, 1)
	assert.Equal(t, booking.ID, customer.published[0].Key)
	assert.Equal(t, EventBookingCreated, customer.published[0].GetEventType())
}

func TestPublisher_OperatorSendHappensWhenCustomerSendFails(t *testing.T) {
	customer := &mockProducer{
		publishFunc: func(ctx context.Context, msg kafka.Message) error {
			return errors.New("broker unreachable")
		},
	}
	operator := &mockProducer{}
	p := &publisher{customer: customer, operator: operator}

	booking, svc, pet := testBooking()
	err := p.BookingCreated(context.Background(), booking, svc, pet, "owner@example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer topic")
	require.Len(t, operator.published, 1, "operator send must not depend on the customer send")
}

func TestPublisher_BothSendFailuresAreReported(t *testing.T) {
	customer := &mockProducer{
		publishFunc: func(ctx context.Context, msg kafka.Message) error {
			return errors.New("customer broker down")
		},
	}
	operator := &mockProducer{
		publishFunc: func(ctx context.Context, msg kafka.Message) error {
			return errors.New("operator broker down")
		},
	}
	p := &publisher{customer: customer, operator: operator}

	booking, _, _ := testBooking()
	err := p.BookingCancelled(context.Background(), booking, "owner@example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer topic")
	assert.Contains(t, err.Error(), "operator topic")
}

func TestPublisher_CloseClosesBothProducers(t *testing.T) {
	customer := &mockProducer{
		closeFunc: func() error { return errors.New("flush failed") },
	}
	operator := &mockProducer{}
	p := &publisher{customer: customer, operator: operator}

	err := p.Close()

	require.Error(t, err)
	assert.True(t, customer.closed)
	assert.True(t, operator.closed, "operator producer must be closed even when the customer close fails")
}
