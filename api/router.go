package api

import (
	"github.com/Domenick1991/aviaapp/internal/service/booking"
	"github.com/Domenick1991/aviaapp/internal/service/cabins"
	"github.com/Domenick1991/aviaapp/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const BasePath = "/api/v1"

// NewRouter builds the REST surface. Extra routes such as API docs are
// added by the caller on the returned engine.
func NewRouter(flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase, cabinSvc cabins.CabinClassUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	v1 := router.Group(BasePath)
	NewFlightHandler(flightSvc).Register(v1.Group("/flights"))
	NewCabinClassHandler(cabinSvc).Register(v1.Group("/cabin-classes"))
	NewBookingHandler(bookingSvc).Register(v1)
	return router
}
