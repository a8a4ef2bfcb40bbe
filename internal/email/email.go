package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Domenick1991/aviaapp/internal/kafka"
	"github.com/Domenick1991/aviaapp/internal/log"
)

// Sender turns events into customer notifications. Delivery is a log
// line for now.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		return fmt.Errorf("%s for booking %s has no recipient", event.Type, event.BookingID)
	}
	attrs := []slog.Attr{
		slog.String("to", event.Email),
		slog.String("type", event.Type),
		log.ID("booking_id", event.BookingID),
		log.ID("flight_id", event.FlightID),
	}
	if event.PassengerID != nil {
		attrs = append(attrs, log.ID("passenger_id", *event.PassengerID))
	}
	log.Info(ctx, "send email", attrs...)
	return nil
}

func (s *Sender) SendFlightNotice(ctx context.Context, event kafka.FlightEvent) error {
	log.Info(ctx, "notify booked customers",
		slog.String("type", event.Type),
		log.ID("flight_id", event.FlightID),
	)
	return nil
}

// Handle decodes a raw event and dispatches it. Malformed or unknown
// events are logged and skipped so one bad record cannot stall the consumer.
func (s *Sender) Handle(ctx context.Context, value []byte) error {
	decoded, err := kafka.Decode(value)
	if err != nil {
		log.Warn(ctx, "skipping event", log.Err(err))
		return nil
	}
	switch e := decoded.(type) {
	case *kafka.BookingEvent:
		return s.Send(ctx, *e)
	case *kafka.FlightEvent:
		return s.SendFlightNotice(ctx, *e)
	}
	return nil
}
