package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlightRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewFlightRepository(pool)
	assert.NotNil(t, repo)
}

var flightRowColumns = []string{
	"id", "departure_at", "arrival_at", "price", "aircraft", "is_cancelled",
	"from_id", "from_name", "from_code", "from_city_id", "from_city", "from_country_id", "from_country",
	"to_id", "to_name", "to_code", "to_city_id", "to_city", "to_country_id", "to_country",
}

func testFlight(departure time.Time) domain.Flight {
	fr := domain.Country{ID: uuid.New(), Name: "France"}
	it := domain.Country{ID: uuid.New(), Name: "Italy"}
	return domain.Flight{
		ID: uuid.New(),
		From: domain.Airport{ID: uuid.New(), Name: "Charles de Gaulle", Code: "CDG",
			City: domain.City{ID: uuid.New(), Name: "Paris", Country: fr}},
		To: domain.Airport{ID: uuid.New(), Name: "Fiumicino", Code: "FCO",
			City: domain.City{ID: uuid.New(), Name: "Rome", Country: it}},
		DepartureAt: departure,
		ArrivalAt:   departure.Add(2 * time.Hour),
		Price:       decimal.RequireFromString("149.90"),
		Aircraft:    "A320",
	}
}

func flightRowValues(f domain.Flight) []any {
	return []any{
		f.ID, f.DepartureAt, f.ArrivalAt, f.Price, f.Aircraft, f.IsCancelled,
		f.From.ID, f.From.Name, f.From.Code, f.From.City.ID, f.From.City.Name, f.From.City.Country.ID, f.From.City.Country.Name,
		f.To.ID, f.To.Name, f.To.Code, f.To.City.ID, f.To.City.Name, f.To.City.Country.ID, f.To.City.Country.Name,
	}
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestPGFlightRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		want := testFlight(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))

		mock.ExpectQuery(`(?s)FROM flights f.*WHERE f.id = \$1`).
			WithArgs(want.ID).
			WillReturnRows(mock.NewRows(flightRowColumns).AddRow(flightRowValues(want)...))

		got, err := repo.GetByID(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, "CDG", got.From.Code)
		assert.Equal(t, "Rome", got.To.City.Name)
		assert.Equal(t, "Italy", got.To.City.Country.Name)
		assert.True(t, want.Price.Equal(got.Price))
	})

	t.Run("missing", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		id := uuid.New()

		mock.ExpectQuery(`WHERE f.id = \$1`).
			WithArgs(id).
			WillReturnRows(mock.NewRows(flightRowColumns))

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPGFlightRepository_ListByDateRange(t *testing.T) {
	mock := newMockPool(t)
	repo := NewFlightRepository(mock)

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	f1 := testFlight(from.Add(8 * time.Hour))
	f2 := testFlight(from.Add(32 * time.Hour))

	mock.ExpectQuery(`WHERE f.departure_at::date >= \$1::date AND f.arrival_at::date <= \$2::date`).
		WithArgs(from, to).
		WillReturnRows(mock.NewRows(flightRowColumns).
			AddRow(flightRowValues(f1)...).
			AddRow(flightRowValues(f2)...))

	flights, err := repo.ListByDateRange(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, flights, 2)
	assert.Equal(t, f1.ID, flights[0].ID)
	assert.Equal(t, f2.ID, flights[1].ID)
}

func TestPGFlightRepository_ListForSearch(t *testing.T) {
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	country := uuid.New()

	testCases := []struct {
		side    domain.RouteSide
		pattern string
	}{
		{domain.Departure, `NOT f.is_cancelled AND f.arrival_at::date = \$2::date AND co_from.id = \$1`},
		{domain.Arrival, `NOT f.is_cancelled AND f.arrival_at::date = \$2::date AND co_to.id = \$1`},
	}

	for _, tc := range testCases {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		mock.ExpectQuery(tc.pattern).
			WithArgs(country, day).
			WillReturnRows(mock.NewRows(flightRowColumns).AddRow(flightRowValues(testFlight(day))...))

		flights, err := repo.ListForSearch(context.Background(), tc.side, country, day)
		require.NoError(t, err)
		assert.Len(t, flights, 1)
	}

	_, err := NewFlightRepository(newMockPool(t)).ListForSearch(context.Background(), domain.RouteSide(0), country, day)
	assert.Error(t, err)
}

func TestPGFlightRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewFlightRepository(mock)
	f := testFlight(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))

	mock.ExpectExec(`INSERT INTO flights`).
		WithArgs(f.ID, f.From.ID, f.To.ID, f.DepartureAt, f.ArrivalAt, pgxmock.AnyArg(), "A320", false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), &f))
}

func TestPGFlightRepository_CreateMany(t *testing.T) {
	mock := newMockPool(t)
	repo := NewFlightRepository(mock)
	day := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	flights := []domain.Flight{testFlight(day), testFlight(day), testFlight(day)}

	mock.ExpectCopyFrom(pgx.Identifier{"flights"}, flightColumns).WillReturnResult(3)

	n, err := repo.CreateMany(context.Background(), flights)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestPGFlightRepository_CheckViolation(t *testing.T) {
	ctx := context.Background()
	rejected := &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "chk_flights_price"}

	t.Run("copy", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		f := testFlight(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
		f.Price = decimal.NewFromInt(-1)
		e := mock.ExpectCopyFrom(pgx.Identifier{"flights"}, flightColumns)
		e.WillReturnError(rejected)

		n, err := repo.CreateMany(ctx, []domain.Flight{f})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Zero(t, n)
	})

	t.Run("insert", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		f := testFlight(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
		mock.ExpectExec(`INSERT INTO flights`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(rejected)
		assert.ErrorIs(t, repo.Create(ctx, &f), domain.ErrValidation)
	})

	t.Run("update", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		f := testFlight(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
		mock.ExpectExec(`UPDATE flights SET departure_at`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(rejected)
		assert.ErrorIs(t, repo.Update(ctx, &f), domain.ErrValidation)
	})
}

func TestPGFlightRepository_Mutations(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("update", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		f := testFlight(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
		mock.ExpectExec(`UPDATE flights SET departure_at`).
			WithArgs(f.ID, f.DepartureAt, f.ArrivalAt, f.Aircraft, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.Update(ctx, &f))
	})

	t.Run("update missing", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		f := testFlight(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
		mock.ExpectExec(`UPDATE flights SET departure_at`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.Update(ctx, &f), domain.ErrNotFound)
	})

	t.Run("cancel", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		mock.ExpectExec(`UPDATE flights SET is_cancelled = TRUE`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.Cancel(ctx, id))
	})

	t.Run("delete missing", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		mock.ExpectExec(`DELETE FROM flights WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.Delete(ctx, id), domain.ErrNotFound)
	})

	t.Run("delete db error", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewFlightRepository(mock)
		boom := errors.New("connection reset")
		mock.ExpectExec(`DELETE FROM flights WHERE id = \$1`).
			WithArgs(id).
			WillReturnError(boom)
		assert.ErrorIs(t, repo.Delete(ctx, id), boom)
	})
}

func TestPGFlightRepository_DeleteOutdated(t *testing.T) {
	mock := newMockPool(t)
	repo := NewFlightRepository(mock)
	today := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM flights f\s+WHERE f.departure_at::date < \$1::date\s+AND NOT EXISTS`).
		WithArgs(today).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := repo.DeleteOutdated(context.Background(), today)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}
