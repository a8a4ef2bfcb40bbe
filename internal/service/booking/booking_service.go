package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/Domenick1991/aviaapp/internal/kafka"
	"github.com/Domenick1991/aviaapp/internal/log"
	"github.com/Domenick1991/aviaapp/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	BookFlight(ctx context.Context, input BookFlightInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID) error
	CancelPassenger(ctx context.Context, passengerID uuid.UUID) error
	GetByEmail(ctx context.Context, email string) ([]domain.Booking, error)
}

type Flights interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
}

type CabinClasses interface {
	Get(ctx context.Context, id int) (*domain.CabinClass, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type PassengerInput struct {
	FirstName string
	LastName  string
}

type BookFlightInput struct {
	Contact      domain.Contact
	CabinClassID int
	FlightID     uuid.UUID
	Passengers   []PassengerInput
	// BookedBy is the authenticated identity making the booking.
	BookedBy string
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            Flights
	cabins             CabinClasses
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithProducer(producer Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights Flights,
	cabins CabinClasses,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		flights:  flights,
		cabins:   cabins,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// BookFlight prices the booking from the flight's base price and the cabin
// class markup, then stores it with its passengers in one transaction.
func (s *BookingService) BookFlight(ctx context.Context, input BookFlightInput) (*domain.Booking, error) {
	if len(input.Passengers) == 0 {
		return nil, domain.NewValidationError("at least one passenger is required")
	}
	if strings.TrimSpace(input.BookedBy) == "" {
		return nil, domain.NewValidationError("booking identity is required")
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	cabin, err := s.cabins.Get(ctx, input.CabinClassID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:         uuid.New(),
		Contact:    input.Contact,
		FlightID:   flight.ID,
		CabinClass: *cabin,
		BookedAt:   s.now().UTC(),
		Price:      domain.RoundMoney(domain.ComputePrice(flight.Price, cabin.PricePercent)),
		BookedBy:   input.BookedBy,
		Passengers: make([]domain.Passenger, len(input.Passengers)),
		Flight:     flight,
	}
	for i, p := range input.Passengers {
		booking.Passengers[i] = domain.Passenger{
			ID:        uuid.New(),
			BookingID: booking.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
		}
	}

	err = s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
		if err := tx.Insert(ctx, booking); err != nil {
			return err
		}
		return tx.InsertPassengers(ctx, booking.ID, booking.Passengers)
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "flight booked",
		log.ID("booking_id", booking.ID),
		log.ID("flight_id", booking.FlightID),
		slog.Int("passengers", len(booking.Passengers)),
	)
	s.publish(ctx, kafka.BookingEvent{
		Type:       kafka.EventBookingCreated,
		BookingID:  booking.ID,
		FlightID:   booking.FlightID,
		Email:      booking.BookedBy,
		Price:      booking.Price.StringFixed(2),
		Passengers: len(booking.Passengers),
		OccurredAt: booking.BookedAt,
	})
	return booking, nil
}

// CancelBooking cancels the booking and every passenger on it. All
// passengers share one cancellation timestamp.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID) error {
	at := s.now().UTC()
	var booking *domain.Booking
	err := s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
		var err error
		if booking, err = tx.GetForUpdate(ctx, bookingID); err != nil {
			return err
		}
		if err := tx.MarkCancelled(ctx, bookingID); err != nil {
			return err
		}
		return tx.MarkPassengersCancelled(ctx, bookingID, at)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, kafka.BookingEvent{
		Type:       kafka.EventBookingCancelled,
		BookingID:  bookingID,
		FlightID:   booking.FlightID,
		Email:      booking.BookedBy,
		OccurredAt: at,
	})
	return nil
}

// CancelPassenger cancels one passenger. When no active passenger is left
// the booking is cancelled too.
func (s *BookingService) CancelPassenger(ctx context.Context, passengerID uuid.UUID) error {
	at := s.now().UTC()
	var (
		booking          *domain.Booking
		bookingCancelled bool
	)
	err := s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
		passenger, err := tx.GetPassenger(ctx, passengerID)
		if err != nil {
			return err
		}
		// locks the booking so concurrent cancellations of its
		// passengers see each other
		if booking, err = tx.GetForUpdate(ctx, passenger.BookingID); err != nil {
			return err
		}
		if err := tx.MarkPassengerCancelled(ctx, passengerID, at); err != nil {
			return err
		}

		for i := range booking.Passengers {
			if booking.Passengers[i].ID == passengerID {
				booking.Passengers[i].IsCancelled = true
				booking.Passengers[i].CancelledAt = &at
			}
		}
		if booking.IsCancelled || !domain.AllPassengersCancelled(booking.Passengers) {
			return nil
		}
		bookingCancelled = true
		return tx.MarkCancelled(ctx, booking.ID)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, kafka.BookingEvent{
		Type:        kafka.EventPassengerCancelled,
		BookingID:   booking.ID,
		FlightID:    booking.FlightID,
		PassengerID: &passengerID,
		Email:       booking.BookedBy,
		OccurredAt:  at,
	})
	if bookingCancelled {
		s.publish(ctx, kafka.BookingEvent{
			Type:       kafka.EventBookingCancelled,
			BookingID:  booking.ID,
			FlightID:   booking.FlightID,
			Email:      booking.BookedBy,
			OccurredAt: at,
		})
	}
	return nil
}

// GetByEmail lists the bookings made by email, skipping cancelled flights.
func (s *BookingService) GetByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return s.bookings.ListByBookedBy(ctx, email)
}

// publish is best effort: the booking is already committed.
func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	key := event.BookingID.String()
	err := s.producer.Publish(ctx, s.bookingTopic, key, event)
	if err == nil && s.notificationsTopic != "" {
		err = s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	if err != nil {
		log.Warn(ctx, "failed to publish booking event",
			slog.String("type", event.Type),
			log.ID("booking_id", event.BookingID),
			log.Err(err),
		)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
