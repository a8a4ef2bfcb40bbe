package api

import (
	"time"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/google/uuid"
)

type airportView struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Code    string    `json:"code"`
	City    string    `json:"city"`
	Country string    `json:"country"`
}

type flightView struct {
	ID          uuid.UUID   `json:"id"`
	From        airportView `json:"from"`
	To          airportView `json:"to"`
	DepartureAt string      `json:"departure_at"`
	ArrivalAt   string      `json:"arrival_at"`
	Price       string      `json:"price"`
	Aircraft    string      `json:"aircraft"`
	IsCancelled bool        `json:"is_cancelled"`
}

type flightPageView struct {
	Items      []flightView `json:"items"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}

type cabinClassView struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PricePercent int    `json:"price_percent"`
}

type contactView struct {
	PhoneNumber    string `json:"phone_number"`
	Country        string `json:"country"`
	City           string `json:"city"`
	BillingAddress string `json:"billing_address"`
	PostalCode     string `json:"postal_code"`
}

type passengerView struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IsCancelled bool      `json:"is_cancelled"`
	CancelledAt *string   `json:"cancelled_at,omitempty"`
}

type bookingView struct {
	ID          uuid.UUID       `json:"id"`
	Contact     contactView     `json:"contact"`
	FlightID    uuid.UUID       `json:"flight_id"`
	Flight      *flightView     `json:"flight,omitempty"`
	CabinClass  cabinClassView  `json:"cabin_class"`
	BookedAt    string          `json:"booked_at"`
	Price       string          `json:"price"`
	IsCancelled bool            `json:"is_cancelled"`
	BookedBy    string          `json:"booked_by"`
	Passengers  []passengerView `json:"passengers"`
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toAirportView(a domain.Airport) airportView {
	return airportView{ID: a.ID, Name: a.Name, Code: a.Code, City: a.City.Name, Country: a.City.Country.Name}
}

func toFlightView(f domain.Flight) flightView {
	return flightView{
		ID:          f.ID,
		From:        toAirportView(f.From),
		To:          toAirportView(f.To),
		DepartureAt: timestamp(f.DepartureAt),
		ArrivalAt:   timestamp(f.ArrivalAt),
		Price:       f.Price.StringFixed(2),
		Aircraft:    f.Aircraft,
		IsCancelled: f.IsCancelled,
	}
}

func toFlightViews(flights []domain.Flight) []flightView {
	views := make([]flightView, len(flights))
	for i, f := range flights {
		views[i] = toFlightView(f)
	}
	return views
}

func toCabinClassView(c domain.CabinClass) cabinClassView {
	return cabinClassView{ID: c.ID, Name: c.Name, PricePercent: c.PricePercent}
}

func toBookingView(b domain.Booking) bookingView {
	v := bookingView{
		ID: b.ID,
		Contact: contactView{
			PhoneNumber:    b.Contact.PhoneNumber,
			Country:        b.Contact.Country,
			City:           b.Contact.City,
			BillingAddress: b.Contact.BillingAddress,
			PostalCode:     b.Contact.PostalCode,
		},
		FlightID:    b.FlightID,
		CabinClass:  toCabinClassView(b.CabinClass),
		BookedAt:    timestamp(b.BookedAt),
		Price:       b.Price.StringFixed(2),
		IsCancelled: b.IsCancelled,
		BookedBy:    b.BookedBy,
		Passengers:  make([]passengerView, len(b.Passengers)),
	}
	if b.Flight != nil {
		f := toFlightView(*b.Flight)
		v.Flight = &f
	}
	for i, p := range b.Passengers {
		pv := passengerView{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, IsCancelled: p.IsCancelled}
		if p.CancelledAt != nil {
			at := timestamp(*p.CancelledAt)
			pv.CancelledAt = &at
		}
		v.Passengers[i] = pv
	}
	return v
}
