package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"pawmarket/pkg/kafka"
	"pawmarket/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	sendFunc func(to, subject, body string) error
	sent     []sentMail
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *mockSender) Send(to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	if m.sendFunc != nil {
		return m.sendFunc(to, subject, body)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Service: "test"})
}

func createdMessage(t *testing.T) kafka.Message {
	t.Helper()
	return kafka.NewMessage().
		WithKey("507f1f77bcf86cd799439014").
		WithEventType(EventBookingCreated).
		WithSource(Source).
		WithSchemaVersion(SchemaVersion).
		WithValue(BookingCreatedEvent{
			BookingID:     "507f1f77bcf86cd799439014",
			CustomerID:    "507f1f77bcf86cd799439011",
			CustomerEmail: "jamie@example.com",
			ServiceID:     "507f1f77bcf86cd799439012",
			ServiceName:   "Full Grooming",
			PetID:         "507f1f77bcf86cd799439013",
			PetName:       "Rex",
			StartTime:     time.Date(2026, 11, 3, 10, 0, 0, 0, time.UTC),
			EndTime:       time.Date(2026, 11, 3, 11, 0, 0, 0, time.UTC),
			DurationMin:   60,
			TotalPrice:    50,
			Status:        "pending",
		}).
		Build()
}

func TestCustomerWorker_MailsTheEventCustomer(t *testing.T) {
	sender := &mockSender{}
	worker := NewCustomerWorker(sender, testLogger())

	err := worker.Handle(context.Background(), createdMessage(t))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jamie@example.com", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].subject, "Full Grooming")
	assert.Contains(t, sender.sent[0].body, "507f1f77bcf86cd799439014")
	assert.Contains(t, sender.sent[0].body, "60 minutes")
}

func TestOperatorWorker_MailsTheOperatorInbox(t *testing.T) {
	sender := &mockSender{}
	worker := NewOperatorWorker(sender, "operations@pawmarket.local", testLogger())

	err := worker.Handle(context.Background(), createdMessage(t))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "operations@pawmarket.local", sender.sent[0].to)
}

func TestWorker_CancelledEvent(t *testing.T) {
	sender := &mockSender{}
	worker := NewCustomerWorker(sender, testLogger())

	msg := kafka.NewMessage().
		WithKey("507f1f77bcf86cd799439014").
		WithEventType(EventBookingCancelled).
		WithSource(Source).
		WithValue(BookingCancelledEvent{
			BookingID:     "507f1f77bcf86cd799439014",
			CustomerEmail: "jamie@example.com",
			StartTime:     time.Date(2026, 11, 3, 10, 0, 0, 0, time.UTC),
			CancelledAt:   time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC),
		}).
		Build()

	err := worker.Handle(context.Background(), msg)

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].subject, "cancelled")
}

func TestWorker_UnknownEventTypeIsDropped(t *testing.T) {
	sender := &mockSender{}
	worker := NewCustomerWorker(sender, testLogger())

	msg := kafka.NewMessage().
		WithKey("507f1f77bcf86cd799439014").
		WithEventType("booking.rescheduled").
		WithRawValue([]byte(`{}`)).
		Build()

	err := worker.Handle(context.Background(), msg)

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestWorker_MalformedPayloadIsPermanent(t *testing.T) {
	sender := &mockSender{}
	worker := NewCustomerWorker(sender, testLogger())

	msg := kafka.NewMessage().
		WithKey("507f1f77bcf86cd799439014").
		WithEventType(EventBookingCreated).
		WithRawValue([]byte(`{not json`)).
		Build()

	err := worker.Handle(context.Background(), msg)

	require.Error(t, err)
	var busErr *kafka.BusError
	require.True(t, errors.As(err, &busErr))
	assert.Equal(t, kafka.ErrorTypePermanent, busErr.Type)
	assert.Empty(t, sender.sent)
}

func TestWorker_SenderFailureIsTransient(t *testing.T) {
	sender := &mockSender{
		sendFunc: func(to, subject, body string) error {
			return errors.New("connection refused")
		},
	}
	worker := NewCustomerWorker(sender, testLogger())

	err := worker.Handle(context.Background(), createdMessage(t))

	require.Error(t, err)
	var busErr *kafka.BusError
	require.True(t, errors.As(err, &busErr))
	assert.Equal(t, kafka.ErrorTypeTransient, busErr.Type)
}
