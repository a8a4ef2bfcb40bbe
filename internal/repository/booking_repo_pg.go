package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	// WithinTx runs fn in one transaction. fn's error rolls everything back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error
	ListByBookedBy(ctx context.Context, email string) ([]domain.Booking, error)
}

// BookingTx is the set of booking writes that must happen atomically.
type BookingTx interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	InsertPassengers(ctx context.Context, bookingID uuid.UUID, passengers []domain.Passenger) error
	// GetForUpdate loads a booking with its passengers and locks the booking row.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetPassenger(ctx context.Context, id uuid.UUID) (*domain.Passenger, error)
	MarkCancelled(ctx context.Context, bookingID uuid.UUID) error
	MarkPassengersCancelled(ctx context.Context, bookingID uuid.UUID, at time.Time) error
	MarkPassengerCancelled(ctx context.Context, passengerID uuid.UUID, at time.Time) error
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &pgBookingTx{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const selectPassengers = `SELECT id, booking_id, first_name, last_name, is_cancelled, cancelled_at FROM passengers`

func scanPassengers(rows pgx.Rows) ([]domain.Passenger, error) {
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FirstName, &p.LastName, &p.IsCancelled, &p.CancelledAt); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

// ListByBookedBy returns the bookings made by email on flights that are not
// cancelled, newest first, with route and passengers resolved.
func (r *PGBookingRepository) ListByBookedBy(ctx context.Context, email string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.phone_number, b.country, b.city, b.billing_address, b.postal_code,
	b.cabin_class_id, cc.name, cc.price_percent, b.booked_at, b.price, b.is_cancelled, b.booked_by,
	`+flightFields+`
`+flightJoins+`
JOIN bookings b ON b.flight_id = f.id
JOIN cabin_classes cc ON cc.id = b.cabin_class_id
WHERE b.booked_by = $1 AND NOT f.is_cancelled
ORDER BY b.booked_at DESC, b.id`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var (
			b domain.Booking
			f domain.Flight
		)
		err := rows.Scan(append([]any{
			&b.ID, &b.Contact.PhoneNumber, &b.Contact.Country, &b.Contact.City, &b.Contact.BillingAddress, &b.Contact.PostalCode,
			&b.CabinClass.ID, &b.CabinClass.Name, &b.CabinClass.PricePercent, &b.BookedAt, &b.Price, &b.IsCancelled, &b.BookedBy,
		}, flightDest(&f)...)...)
		if err != nil {
			return nil, err
		}
		b.FlightID = f.ID
		b.Flight = &f
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	ids := make([]uuid.UUID, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	prows, err := r.db.Query(ctx, selectPassengers+` WHERE booking_id = ANY($1) ORDER BY booking_id, position`, ids)
	if err != nil {
		return nil, err
	}
	passengers, err := scanPassengers(prows)
	if err != nil {
		return nil, err
	}

	byBooking := make(map[uuid.UUID][]domain.Passenger, len(bookings))
	for _, p := range passengers {
		byBooking[p.BookingID] = append(byBooking[p.BookingID], p)
	}
	for i := range bookings {
		bookings[i].Passengers = byBooking[bookings[i].ID]
		if bookings[i].Passengers == nil {
			bookings[i].Passengers = []domain.Passenger{}
		}
	}
	return bookings, nil
}

type pgBookingTx struct {
	q querier
}

func (t *pgBookingTx) Insert(ctx context.Context, b *domain.Booking) error {
	_, err := t.q.Exec(ctx, `INSERT INTO bookings (id, phone_number, country, city, billing_address, postal_code,
		flight_id, cabin_class_id, booked_at, price, is_cancelled, booked_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.Contact.PhoneNumber, b.Contact.Country, b.Contact.City, b.Contact.BillingAddress, b.Contact.PostalCode,
		b.FlightID, b.CabinClass.ID, b.BookedAt, b.Price, b.IsCancelled, b.BookedBy)
	return err
}

func (t *pgBookingTx) InsertPassengers(ctx context.Context, bookingID uuid.UUID, passengers []domain.Passenger) error {
	for i, p := range passengers {
		_, err := t.q.Exec(ctx, `INSERT INTO passengers (id, booking_id, position, first_name, last_name, is_cancelled, cancelled_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, bookingID, i, p.FirstName, p.LastName, p.IsCancelled, p.CancelledAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *pgBookingTx) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	err := t.q.QueryRow(ctx, `SELECT id, phone_number, country, city, billing_address, postal_code,
		flight_id, cabin_class_id, booked_at, price, is_cancelled, booked_by
		FROM bookings WHERE id = $1 FOR UPDATE`, id).
		Scan(&b.ID, &b.Contact.PhoneNumber, &b.Contact.Country, &b.Contact.City, &b.Contact.BillingAddress, &b.Contact.PostalCode,
			&b.FlightID, &b.CabinClass.ID, &b.BookedAt, &b.Price, &b.IsCancelled, &b.BookedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("booking %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := t.q.Query(ctx, selectPassengers+` WHERE booking_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	if b.Passengers, err = scanPassengers(rows); err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *pgBookingTx) GetPassenger(ctx context.Context, id uuid.UUID) (*domain.Passenger, error) {
	var p domain.Passenger
	err := t.q.QueryRow(ctx, selectPassengers+` WHERE id = $1`, id).
		Scan(&p.ID, &p.BookingID, &p.FirstName, &p.LastName, &p.IsCancelled, &p.CancelledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("passenger %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *pgBookingTx) MarkCancelled(ctx context.Context, bookingID uuid.UUID) error {
	_, err := t.q.Exec(ctx, `UPDATE bookings SET is_cancelled = TRUE WHERE id = $1`, bookingID)
	return err
}

// MarkPassengersCancelled stamps every passenger of the booking with the
// same cancellation time.
func (t *pgBookingTx) MarkPassengersCancelled(ctx context.Context, bookingID uuid.UUID, at time.Time) error {
	_, err := t.q.Exec(ctx, `UPDATE passengers SET is_cancelled = TRUE, cancelled_at = $2 WHERE booking_id = $1`, bookingID, at)
	return err
}

func (t *pgBookingTx) MarkPassengerCancelled(ctx context.Context, passengerID uuid.UUID, at time.Time) error {
	_, err := t.q.Exec(ctx, `UPDATE passengers SET is_cancelled = TRUE, cancelled_at = $2 WHERE id = $1`, passengerID, at)
	return err
}

var (
	_ BookingRepository = (*PGBookingRepository)(nil)
	_ BookingTx         = (*pgBookingTx)(nil)
)
