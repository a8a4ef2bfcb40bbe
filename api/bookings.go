package api

import (
	"net/http"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/Domenick1991/aviaapp/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type contactRequest struct {
	PhoneNumber    string `json:"phone_number" binding:"required,max=32"`
	Country        string `json:"country" binding:"required"`
	City           string `json:"city" binding:"required"`
	BillingAddress string `json:"billing_address"`
	PostalCode     string `json:"postal_code"`
}

type passengerRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}

// An empty passenger list is left to the service so the rule lives in one place.
type createBookingRequest struct {
	FlightID     uuid.UUID          `json:"flight_id" binding:"required"`
	CabinClassID int                `json:"cabin_class_id" binding:"required"`
	Contact      contactRequest     `json:"contact"`
	Passengers   []passengerRequest `json:"passengers" binding:"dive"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the booking routes. Every route requires the caller identity.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	bookings := router.Group("/bookings", requireIdentity())
	bookings.POST("", h.create)
	bookings.GET("", h.listMine)
	bookings.POST("/:id/cancel", h.cancel)

	passengers := router.Group("/passengers", requireIdentity())
	passengers.POST("/:id/cancel", h.cancelPassenger)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	input := booking.BookFlightInput{
		Contact: domain.Contact{
			PhoneNumber:    req.Contact.PhoneNumber,
			Country:        req.Contact.Country,
			City:           req.Contact.City,
			BillingAddress: req.Contact.BillingAddress,
			PostalCode:     req.Contact.PostalCode,
		},
		CabinClassID: req.CabinClassID,
		FlightID:     req.FlightID,
		Passengers:   make([]booking.PassengerInput, len(req.Passengers)),
		BookedBy:     identity(c),
	}
	for i, p := range req.Passengers {
		input.Passengers[i] = booking.PassengerInput{FirstName: p.FirstName, LastName: p.LastName}
	}

	created, err := h.service.BookFlight(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingView(*created))
}

func (h *BookingHandler) listMine(c *gin.Context) {
	bookings, err := h.service.GetByEmail(c.Request.Context(), identity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]bookingView, len(bookings))
	for i, b := range bookings {
		views[i] = toBookingView(b)
	}
	c.JSON(http.StatusOK, views)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.CancelBooking(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) cancelPassenger(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.CancelPassenger(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
