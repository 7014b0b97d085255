package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawmarket/pkg/kafka"
	"pawmarket/pkg/model"
)

// eventProducer is the slice of kafka.Producer the publisher needs.
type eventProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// publisher fans booking lifecycle events out to the customer and operator
// topics. Messages are keyed by booking ID so events for one booking stay
// ordered within a partition. The two sends are independent: a failure on
// one topic never suppresses the attempt on the other.
type publisher struct {
	customer eventProducer
	operator eventProducer
}

type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking, svc *model.Service, pet *model.Pet, customerEmail string) error
	BookingCancelled(ctx context.Context, booking *model.Booking, customerEmail string) error
	Close() error
}

func NewPublisher(customer, operator *kafka.Producer) Publisher {
	return &publisher{
		customer: customer,
		operator: operator,
	}
}

func (p *publisher) BookingCreated(ctx context.Context, booking *model.Booking, svc *model.Service, pet *model.Pet, customerEmail string) error {
	event := BookingCreatedEvent{
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		CustomerEmail: customerEmail,
		ServiceID:     booking.ServiceID,
		ServiceName:   svc.Name,
		PetID:         booking.PetID,
		PetName:       pet.Name,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime(),
		DurationMin:   booking.DurationMin,
		TotalPrice:    booking.TotalPrice,
		Status:        string(booking.Status),
		CreatedAt:     booking.CreatedAt,
	}

	return p.fanOut(ctx, booking.ID, EventBookingCreated, event)
}

func (p *publisher) BookingCancelled(ctx context.Context, booking *model.Booking, customerEmail string) error {
	event := BookingCancelledEvent{
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		CustomerEmail: customerEmail,
		ServiceID:     booking.ServiceID,
		PetID:         booking.PetID,
		StartTime:     booking.StartTime,
		CancelledAt:   time.Now().UTC(),
	}

	return p.fanOut(ctx, booking.ID, EventBookingCancelled, event)
}

func (p *publisher) fanOut(ctx context.Context, bookingID, eventType string, event any) error {
	msg := kafka.NewMessage().
		WithKey(bookingID).
		WithEventType(eventType).
		WithSource(Source).
		WithSchemaVersion(SchemaVersion).
		WithValue(event).
		Build()

	var customerErr, operatorErr error
	if err := p.customer.Publish(ctx, msg); err != nil {
		customerErr = fmt.Errorf("publish %s to customer topic: %w", eventType, err)
	}
	if err := p.operator.Publish(ctx, msg); err != nil {
		operatorErr = fmt.Errorf("publish %s to operator topic: %w", eventType, err)
	}
	return errors.Join(customerErr, operatorErr)
}

func (p *publisher) Close() error {
	return errors.Join(p.customer.Close(), p.operator.Close())
}
