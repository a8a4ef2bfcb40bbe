package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Contact struct {
	PhoneNumber    string
	Country        string
	City           string
	BillingAddress string
	PostalCode     string
}

type Booking struct {
	ID          uuid.UUID
	Contact     Contact
	FlightID    uuid.UUID
	CabinClass  CabinClass
	BookedAt    time.Time
	Price       decimal.Decimal
	IsCancelled bool
	BookedBy    string
	Passengers  []Passenger

	// Flight is only populated by queries that resolve the route.
	Flight *Flight
}

type Passenger struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	FirstName   string
	LastName    string
	IsCancelled bool
	CancelledAt *time.Time
}

// AllPassengersCancelled reports whether every passenger is cancelled.
// A booking without passengers is not considered cancelled.
func AllPassengersCancelled(passengers []Passenger) bool {
	if len(passengers) == 0 {
		return false
	}
	for _, p := range passengers {
		if !p.IsCancelled {
			return false
		}
	}
	return true
}
