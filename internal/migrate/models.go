package migrate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type gCountry struct {
	ID   uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name string    `gorm:"not null;uniqueIndex"`
}

func (gCountry) TableName() string {
	return "countries"
}

type gCity struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name      string    `gorm:"not null"`
	CountryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Country   gCountry  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (gCity) TableName() string {
	return "cities"
}

type gAirport struct {
	ID     uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name   string    `gorm:"not null"`
	Code   string    `gorm:"type:char(3);not null;uniqueIndex"`
	CityID uuid.UUID `gorm:"type:uuid;not null;index"`
	City   gCity     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (gAirport) TableName() string {
	return "airports"
}

type gCabinClass struct {
	ID           int    `gorm:"primaryKey;autoIncrement:false"`
	Name         string `gorm:"not null;uniqueIndex"`
	PricePercent int    `gorm:"not null;check:price_percent >= 0"`
}

func (gCabinClass) TableName() string {
	return "cabin_classes"
}

type gFlight struct {
	ID            uuid.UUID       `gorm:"primaryKey;type:uuid"`
	AirportFromID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AirportFrom   gAirport        `gorm:"foreignKey:AirportFromID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	AirportToID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AirportTo     gAirport        `gorm:"foreignKey:AirportToID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	DepartureAt   time.Time       `gorm:"not null;index"`
	ArrivalAt     time.Time       `gorm:"not null;index"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null;check:price >= 0"`
	Aircraft      string          `gorm:"not null"`
	IsCancelled   bool            `gorm:"not null;default:false"`
}

func (gFlight) TableName() string {
	return "flights"
}

// Deleting a flight removes its bookings, and a booking its passengers.
type gBooking struct {
	ID             uuid.UUID       `gorm:"primaryKey;type:uuid"`
	PhoneNumber    string          `gorm:"not null"`
	Country        string          `gorm:"not null"`
	City           string          `gorm:"not null"`
	BillingAddress string          `gorm:"not null"`
	PostalCode     string          `gorm:"not null"`
	FlightID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Flight         gFlight         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CabinClassID   int             `gorm:"not null"`
	CabinClass     gCabinClass     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	BookedAt       time.Time       `gorm:"not null"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	IsCancelled    bool            `gorm:"not null;default:false"`
	BookedBy       string          `gorm:"not null;index"`
}

func (gBooking) TableName() string {
	return "bookings"
}

type gPassenger struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	BookingID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Booking     gBooking  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Position    int       `gorm:"not null"`
	FirstName   string    `gorm:"not null"`
	LastName    string    `gorm:"not null"`
	IsCancelled bool      `gorm:"not null;default:false"`
	CancelledAt *time.Time
}

func (gPassenger) TableName() string {
	return "passengers"
}
