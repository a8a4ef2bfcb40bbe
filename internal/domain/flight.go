package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Country struct {
	ID   uuid.UUID
	Name string
}

type City struct {
	ID      uuid.UUID
	Name    string
	Country Country
}

type Airport struct {
	ID   uuid.UUID
	Name string
	Code string
	City City
}

type Flight struct {
	ID          uuid.UUID
	From        Airport
	To          Airport
	DepartureAt time.Time
	ArrivalAt   time.Time
	Price       decimal.Decimal
	Aircraft    string
	IsCancelled bool
}

// CheckSchedule fails when the departure date is after the arrival date.
// Only UTC calendar dates are compared, time of day is ignored.
func (f *Flight) CheckSchedule() error {
	dep, arr := DateOf(f.DepartureAt), DateOf(f.ArrivalAt)
	if dep.After(arr) {
		return NewValidationError("departure date %s is after arrival date %s",
			dep.Format(time.DateOnly), arr.Format(time.DateOnly))
	}
	return nil
}

// Validate checks the schedule and that the base price is not negative.
func (f *Flight) Validate() error {
	if f.Price.IsNegative() {
		return NewValidationError("price must not be negative, got %s", f.Price)
	}
	return f.CheckSchedule()
}

// CabinClass is reference data: a fare tier adding PricePercent percent
// to the flight base price.
type CabinClass struct {
	ID           int
	Name         string
	PricePercent int
}

// RouteSide selects the end of a flight a search predicate applies to.
type RouteSide int

const (
	Departure RouteSide = iota + 1
	Arrival
)

// LocationFilter narrows a route end to a country and optionally a city
// or an airport. The airport, when set, is the most specific and wins
// over the city.
type LocationFilter struct {
	CountryID uuid.UUID
	CityID    uuid.NullUUID
	AirportID uuid.NullUUID
}

func (l LocationFilter) Matches(a Airport) bool {
	if a.City.Country.ID != l.CountryID {
		return false
	}
	if l.AirportID.Valid {
		return a.ID == l.AirportID.UUID
	}
	if l.CityID.Valid {
		return a.City.ID == l.CityID.UUID
	}
	return true
}
