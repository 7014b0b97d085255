package notifications

import (
	"context"
	"fmt"

	"pawmarket/internal/notifications/email"
	"pawmarket/pkg/kafka"
	"pawmarket/pkg/logger"
)

// Worker turns bus events into emails. The same handler serves both the
// customer and operator consumers; the recipient function decides who gets
// the mail.
type Worker struct {
	sender    email.Sender
	recipient func(customerEmail string) string
	log       *logger.Logger
}

// NewCustomerWorker mails the customer named in the event.
func NewCustomerWorker(sender email.Sender, log *logger.Logger) *Worker {
	return &Worker{
		sender:    sender,
		recipient: func(customerEmail string) string { return customerEmail },
		log:       log,
	}
}

// NewOperatorWorker mails the operator inbox regardless of the event's
// customer.
func NewOperatorWorker(sender email.Sender, operatorEmail string, log *logger.Logger) *Worker {
	return &Worker{
		sender:    sender,
		recipient: func(string) string { return operatorEmail },
		log:       log,
	}
}

// Handle implements kafka.MessageHandler. Unknown event types are dropped
// without error so schema additions never poison the consumer group.
func (w *Worker) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.GetEventType() {
	case EventBookingCreated:
		return w.handleCreated(msg)
	case EventBookingCancelled:
		return w.handleCancelled(msg)
	default:
		w.log.Warn("dropping unknown event type",
			"event_type", msg.GetEventType(),
			"event_id", msg.GetEventID(),
			"topic", msg.Topic,
		)
		return nil
	}
}

func (w *Worker) handleCreated(msg kafka.Message) error {
	var event BookingCreatedEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("decode booking.created event", err)
	}

	subject := fmt.Sprintf("Booking confirmed: %s for %s", event.ServiceName, event.PetName)
	body := fmt.Sprintf(
		"Your booking is confirmed.\r\n\r\n"+
			"Service: %s\r\n"+
			"Pet: %s\r\n"+
			"Start: %s\r\n"+
			"Duration: %d minutes\r\n"+
			"Price: %.2f\r\n\r\n"+
			"Booking reference: %s\r\n",
		event.ServiceName,
		event.PetName,
		event.StartTime.Format("Mon, 02 Jan 2006 15:04 MST"),
		event.DurationMin,
		event.TotalPrice,
		event.BookingID,
	)

	to := w.recipient(event.CustomerEmail)
	if err := w.sender.Send(to, subject, body); err != nil {
		w.log.Error("failed to send booking created email",
			"booking_id", event.BookingID,
			"error", err,
		)
		return kafka.NewTransientError("send booking created email", err)
	}

	w.log.Info("booking created email sent", "booking_id", event.BookingID, "to", to)
	return nil
}

func (w *Worker) handleCancelled(msg kafka.Message) error {
	var event BookingCancelledEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("decode booking.cancelled event", err)
	}

	subject := fmt.Sprintf("Booking cancelled: %s", event.BookingID)
	body := fmt.Sprintf(
		"The booking scheduled for %s has been cancelled.\r\n\r\n"+
			"Booking reference: %s\r\n",
		event.StartTime.Format("Mon, 02 Jan 2006 15:04 MST"),
		event.BookingID,
	)

	to := w.recipient(event.CustomerEmail)
	if err := w.sender.Send(to, subject, body); err != nil {
		w.log.Error("failed to send booking cancelled email",
			"booking_id", event.BookingID,
			"error", err,
		)
		return kafka.NewTransientError("send booking cancelled email", err)
	}

	w.log.Info("booking cancelled email sent", "booking_id", event.BookingID, "to", to)
	return nil
}
