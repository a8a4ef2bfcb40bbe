package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/Domenick1991/aviaapp/internal/test/dbcontainer"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAirport(t *testing.T, pool *pgxpool.Pool, country, city, airport, code string) domain.Airport {
	t.Helper()
	ctx := context.Background()
	a := domain.Airport{ID: uuid.New(), Name: airport, Code: code,
		City: domain.City{ID: uuid.New(), Name: city, Country: domain.Country{Name: country}}}

	err := pool.QueryRow(ctx, `INSERT INTO countries (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id`, uuid.New(), country).
		Scan(&a.City.Country.ID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO cities (id, name, country_id) VALUES ($1, $2, $3)`, a.City.ID, city, a.City.Country.ID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO airports (id, name, code, city_id) VALUES ($1, $2, $3, $4)`, a.ID, airport, code, a.City.ID)
	require.NoError(t, err)
	return a
}

func TestIntegration_FlightAndBookingLifecycle(t *testing.T) {
	pool := dbcontainer.New(t, 2*time.Minute)
	ctx := context.Background()

	flights := NewFlightRepository(pool)
	bookings := NewBookingRepository(pool)
	cabins := NewCabinClassRepository(pool)

	cdg := seedAirport(t, pool, "France", "Paris", "Charles de Gaulle", "CDG")
	fco := seedAirport(t, pool, "Italy", "Rome", "Fiumicino", "FCO")

	day := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	flight := domain.Flight{
		ID: uuid.New(), From: cdg, To: fco,
		DepartureAt: day.Add(9 * time.Hour), ArrivalAt: day.Add(11 * time.Hour),
		Price: decimal.RequireFromString("100.00"), Aircraft: "A320",
	}
	require.NoError(t, flights.Create(ctx, &flight))

	n, err := flights.CreateMany(ctx, []domain.Flight{
		{ID: uuid.New(), From: fco, To: cdg, DepartureAt: day.AddDate(0, 0, 1), ArrivalAt: day.AddDate(0, 0, 1).Add(2 * time.Hour),
			Price: decimal.RequireFromString("80.50"), Aircraft: "E190"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := flights.GetByID(ctx, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.From.City.Name)
	assert.True(t, flight.Price.Equal(got.Price))

	candidates, err := flights.ListForSearch(ctx, domain.Departure, cdg.City.Country.ID, day)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, flight.ID, candidates[0].ID)

	all, err := flights.ListByDateRange(ctx, domain.MinDate, domain.MaxDate)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	business, err := cabins.GetByID(ctx, 3)
	require.NoError(t, err)

	booking := domain.Booking{
		ID: uuid.New(), FlightID: flight.ID, CabinClass: *business,
		Contact:  domain.Contact{PhoneNumber: "+33", Country: "France", City: "Paris", BillingAddress: "1 rue", PostalCode: "75001"},
		BookedAt: time.Now().UTC(), Price: domain.ComputePrice(flight.Price, business.PricePercent), BookedBy: "jane@example.com",
	}
	passengers := []domain.Passenger{
		{ID: uuid.New(), FirstName: "Jane", LastName: "Doe"},
		{ID: uuid.New(), FirstName: "John", LastName: "Doe"},
	}
	require.NoError(t, bookings.WithinTx(ctx, func(ctx context.Context, tx BookingTx) error {
		if err := tx.Insert(ctx, &booking); err != nil {
			return err
		}
		return tx.InsertPassengers(ctx, booking.ID, passengers)
	}))

	list, err := bookings.ListByBookedBy(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, decimal.RequireFromString("150").Equal(list[0].Price))
	assert.Equal(t, "John", list[0].Passengers[1].FirstName)
	assert.Equal(t, "FCO", list[0].Flight.To.Code)

	at := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, bookings.WithinTx(ctx, func(ctx context.Context, tx BookingTx) error {
		if err := tx.MarkCancelled(ctx, booking.ID); err != nil {
			return err
		}
		return tx.MarkPassengersCancelled(ctx, booking.ID, at)
	}))
	require.NoError(t, bookings.WithinTx(ctx, func(ctx context.Context, tx BookingTx) error {
		b, err := tx.GetForUpdate(ctx, booking.ID)
		require.NoError(t, err)
		assert.True(t, b.IsCancelled)
		for _, p := range b.Passengers {
			assert.True(t, p.IsCancelled)
			require.NotNil(t, p.CancelledAt)
			assert.True(t, at.Equal(*p.CancelledAt))
		}
		return nil
	}))

	// past flights with bookings are kept
	removed, err := flights.DeleteOutdated(ctx, day.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
	_, err = flights.GetByID(ctx, flight.ID)
	assert.NoError(t, err)

	require.NoError(t, flights.Cancel(ctx, flight.ID))
	list, err = bookings.ListByBookedBy(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, flights.Delete(ctx, flight.ID))
	assert.ErrorIs(t, flights.Delete(ctx, flight.ID), domain.ErrNotFound)
}
