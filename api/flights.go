package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/Domenick1991/aviaapp/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type listFlightsQuery struct {
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,max=1000000"`
	PageSize int    `form:"page_size" binding:"omitempty,max=500"`
}

type locationRequest struct {
	CountryID uuid.UUID  `json:"country_id" binding:"required"`
	CityID    *uuid.UUID `json:"city_id"`
	AirportID *uuid.UUID `json:"airport_id"`
}

func (l locationRequest) filter() domain.LocationFilter {
	f := domain.LocationFilter{CountryID: l.CountryID}
	if l.CityID != nil {
		f.CityID = uuid.NullUUID{UUID: *l.CityID, Valid: true}
	}
	if l.AirportID != nil {
		f.AirportID = uuid.NullUUID{UUID: *l.AirportID, Valid: true}
	}
	return f
}

type searchFlightsRequest struct {
	From         locationRequest `json:"from"`
	To           locationRequest `json:"to"`
	Date         string          `json:"date" binding:"required,datetime=2006-01-02"`
	CabinClassID int             `json:"cabin_class_id" binding:"required"`
}

type createFlightRequest struct {
	FromAirportID uuid.UUID        `json:"from_airport_id" binding:"required"`
	ToAirportID   uuid.UUID        `json:"to_airport_id" binding:"required"`
	DepartureAt   *time.Time       `json:"departure_at" binding:"required"`
	ArrivalAt     *time.Time       `json:"arrival_at" binding:"required"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	Aircraft      string           `json:"aircraft" binding:"required,max=64"`
}

func (r createFlightRequest) newFlight() flights.NewFlight {
	return flights.NewFlight{
		FromAirportID: r.FromAirportID,
		ToAirportID:   r.ToAirportID,
		DepartureAt:   r.DepartureAt.UTC(),
		ArrivalAt:     r.ArrivalAt.UTC(),
		Price:         *r.Price,
		Aircraft:      r.Aircraft,
	}
}

type createFlightsRequest struct {
	Flights []createFlightRequest `json:"flights" binding:"required,dive"`
}

// updateFlightRequest leaves a field unchanged when it is null or absent.
type updateFlightRequest struct {
	DepartureAt *time.Time       `json:"departure_at"`
	ArrivalAt   *time.Time       `json:"arrival_at"`
	Aircraft    *string          `json:"aircraft" binding:"omitempty,max=64"`
	Price       *decimal.Decimal `json:"price"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.POST("/batch", h.createMany)
	router.POST("/search", h.search)
	router.DELETE("/outdated", h.deleteOutdated)
	router.GET("/:id", h.get)
	router.PATCH("/:id", h.update)
	router.DELETE("/:id", h.delete)
	router.POST("/:id/cancel", h.cancel)
}

func (h *FlightHandler) list(c *gin.Context) {
	var q listFlightsQuery
	if !bindQuery(c, &q) {
		return
	}

	query := flights.ListQuery{Page: q.Page, PageSize: q.PageSize}
	if q.DateFrom != "" {
		from, _ := time.Parse(time.DateOnly, q.DateFrom)
		query.DateFrom = domain.Some(from)
	}
	if q.DateTo != "" {
		to, _ := time.Parse(time.DateOnly, q.DateTo)
		query.DateTo = domain.Some(to)
	}

	page, err := h.service.ListByDateRange(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flightPageView{
		Items:      toFlightViews(page.Items),
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
	})
}

func (h *FlightHandler) search(c *gin.Context) {
	var req searchFlightsRequest
	if !bindJSON(c, &req) {
		return
	}
	date, _ := time.Parse(time.DateOnly, req.Date)

	found, err := h.service.Search(c.Request.Context(), flights.SearchQuery{
		From:         req.From.filter(),
		To:           req.To.filter(),
		Date:         date,
		CabinClassID: req.CabinClassID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightViews(found))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightView(*flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if !bindJSON(c, &req) {
		return
	}
	flight, err := h.service.Add(c.Request.Context(), req.newFlight())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightView(*flight))
}

func (h *FlightHandler) createMany(c *gin.Context) {
	var req createFlightsRequest
	if !bindJSON(c, &req) {
		return
	}
	batch := make([]flights.NewFlight, len(req.Flights))
	for i, r := range req.Flights {
		batch[i] = r.newFlight()
	}

	n, err := h.service.AddMany(c.Request.Context(), batch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, countResponse{Count: n})
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req updateFlightRequest
	if !bindJSON(c, &req) {
		return
	}

	flight, err := h.service.Update(c.Request.Context(), id, flights.FlightUpdate{
		DepartureAt: domain.OptionalFromPtr(utc(req.DepartureAt)),
		ArrivalAt:   domain.OptionalFromPtr(utc(req.ArrivalAt)),
		Aircraft:    domain.OptionalFromPtr(req.Aircraft),
		Price:       domain.OptionalFromPtr(req.Price),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightView(*flight))
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) deleteOutdated(c *gin.Context) {
	n, err := h.service.DeleteOutdated(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, countResponse{Count: n})
}
