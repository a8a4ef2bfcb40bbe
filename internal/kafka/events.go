package kafka

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	EventBookingCreated     = "booking_created"
	EventBookingCancelled   = "booking_cancelled"
	EventPassengerCancelled = "passenger_cancelled"
	EventFlightCancelled    = "flight_cancelled"
)

type BookingEvent struct {
	Type        string     `json:"type"`
	BookingID   uuid.UUID  `json:"booking_id"`
	FlightID    uuid.UUID  `json:"flight_id"`
	PassengerID *uuid.UUID `json:"passenger_id,omitempty"`
	Email       string     `json:"email,omitempty"`
	Price       string     `json:"price,omitempty"`
	Passengers  int        `json:"passengers,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

type FlightEvent struct {
	Type       string    `json:"type"`
	FlightID   uuid.UUID `json:"flight_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

var ErrUnknownEvent = errors.New("unknown event type")

// Decode returns a *BookingEvent or a *FlightEvent depending on the
// payload's type field.
func Decode(value []byte) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(value, &head); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	switch head.Type {
	case EventBookingCreated, EventBookingCancelled, EventPassengerCancelled:
		var e BookingEvent
		if err := json.Unmarshal(value, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return &e, nil
	case EventFlightCancelled:
		var e FlightEvent
		if err := json.Unmarshal(value, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEvent, head.Type)
	}
}
