package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Flight, error)
	ListForSearch(ctx context.Context, side domain.RouteSide, countryID uuid.UUID, arrivalDay time.Time) ([]domain.Flight, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	CreateMany(ctx context.Context, flights []domain.Flight) (int64, error)
	Update(ctx context.Context, flight *domain.Flight) error
	Cancel(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOutdated(ctx context.Context, today time.Time) (int64, error)
}

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightFields = `f.id, f.departure_at, f.arrival_at, f.price, f.aircraft, f.is_cancelled,
	ap_from.id, ap_from.name, ap_from.code, ci_from.id, ci_from.name, co_from.id, co_from.name,
	ap_to.id, ap_to.name, ap_to.code, ci_to.id, ci_to.name, co_to.id, co_to.name`

const flightJoins = `FROM flights f
JOIN airports ap_from ON ap_from.id = f.airport_from_id
JOIN cities ci_from ON ci_from.id = ap_from.city_id
JOIN countries co_from ON co_from.id = ci_from.country_id
JOIN airports ap_to ON ap_to.id = f.airport_to_id
JOIN cities ci_to ON ci_to.id = ap_to.city_id
JOIN countries co_to ON co_to.id = ci_to.country_id`

const selectFlights = "SELECT " + flightFields + "\n" + flightJoins

var flightColumns = []string{"id", "airport_from_id", "airport_to_id", "departure_at", "arrival_at", "price", "aircraft", "is_cancelled"}

// flightDest lists scan targets matching flightFields.
func flightDest(f *domain.Flight) []any {
	return []any{
		&f.ID, &f.DepartureAt, &f.ArrivalAt, &f.Price, &f.Aircraft, &f.IsCancelled,
		&f.From.ID, &f.From.Name, &f.From.Code, &f.From.City.ID, &f.From.City.Name, &f.From.City.Country.ID, &f.From.City.Country.Name,
		&f.To.ID, &f.To.Name, &f.To.Code, &f.To.City.ID, &f.To.City.Name, &f.To.City.Country.ID, &f.To.City.Country.Name,
	}
}

func scanFlight(row scanner) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(flightDest(&f)...); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) queryFlights(ctx context.Context, sql string, args ...any) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Flight, error) {
	return r.queryFlights(ctx, selectFlights+`
WHERE f.departure_at::date >= $1::date AND f.arrival_at::date <= $2::date
ORDER BY f.departure_at, f.id`, from, to)
}

// ListForSearch returns non-cancelled flights arriving on arrivalDay whose
// departure (or arrival) airport lies in countryID.
func (r *PGFlightRepository) ListForSearch(ctx context.Context, side domain.RouteSide, countryID uuid.UUID, arrivalDay time.Time) ([]domain.Flight, error) {
	var countryColumn string
	switch side {
	case domain.Departure:
		countryColumn = "co_from.id"
	case domain.Arrival:
		countryColumn = "co_to.id"
	default:
		return nil, fmt.Errorf("unknown route side %d", side)
	}
	return r.queryFlights(ctx, selectFlights+`
WHERE NOT f.is_cancelled AND f.arrival_at::date = $2::date AND `+countryColumn+` = $1
ORDER BY f.departure_at, f.id`, countryID, arrivalDay)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, selectFlights+`
WHERE f.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError("flight %s not found", id)
	}
	return f, err
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	_, err := r.db.Exec(ctx, `INSERT INTO flights (id, airport_from_id, airport_to_id, departure_at, arrival_at, price, aircraft, is_cancelled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.From.ID, f.To.ID, f.DepartureAt, f.ArrivalAt, f.Price, f.Aircraft, f.IsCancelled)
	switch {
	case isForeignKeyViolation(err):
		return domain.NewNotFoundError("airport %s or %s not found", f.From.ID, f.To.ID)
	case isCheckViolation(err):
		return domain.NewValidationError("flight %s violates a constraint: %s", f.ID, err)
	}
	return err
}

// CreateMany bulk-loads flights with COPY.
func (r *PGFlightRepository) CreateMany(ctx context.Context, flights []domain.Flight) (int64, error) {
	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"flights"}, flightColumns,
		pgx.CopyFromSlice(len(flights), func(i int) ([]any, error) {
			f := flights[i]
			return []any{f.ID, f.From.ID, f.To.ID, f.DepartureAt, f.ArrivalAt, f.Price, f.Aircraft, f.IsCancelled}, nil
		}))
	switch {
	case isForeignKeyViolation(err):
		return 0, domain.NewNotFoundError("batch references an unknown airport")
	case isCheckViolation(err):
		return 0, domain.NewValidationError("batch violates a constraint: %s", err)
	}
	return n, err
}

func (r *PGFlightRepository) Update(ctx context.Context, f *domain.Flight) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET departure_at = $2, arrival_at = $3, aircraft = $4, price = $5 WHERE id = $1`,
		f.ID, f.DepartureAt, f.ArrivalAt, f.Aircraft, f.Price)
	if isCheckViolation(err) {
		return domain.NewValidationError("flight %s violates a constraint: %s", f.ID, err)
	}
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.NewNotFoundError("flight %s not found", f.ID)
	}
	return nil
}

func (r *PGFlightRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET is_cancelled = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.NewNotFoundError("flight %s not found", id)
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.NewNotFoundError("flight %s not found", id)
	}
	return nil
}

// DeleteOutdated removes flights departing before today that have no bookings.
func (r *PGFlightRepository) DeleteOutdated(ctx context.Context, today time.Time) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM flights f
		WHERE f.departure_at::date < $1::date
		AND NOT EXISTS (SELECT 1 FROM bookings b WHERE b.flight_id = f.id)`, today)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
