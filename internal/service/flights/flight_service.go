package flights

import (
	"context"
	"time"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/Domenick1991/aviaapp/internal/kafka"
	"github.com/Domenick1991/aviaapp/internal/log"
	"github.com/Domenick1991/aviaapp/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 20

type FlightUseCase interface {
	ListByDateRange(ctx context.Context, q ListQuery) (*Page, error)
	Search(ctx context.Context, q SearchQuery) ([]domain.Flight, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	Add(ctx context.Context, in NewFlight) (*domain.Flight, error)
	AddMany(ctx context.Context, in []NewFlight) (int64, error)
	Update(ctx context.Context, id uuid.UUID, in FlightUpdate) (*domain.Flight, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
	DeleteOutdated(ctx context.Context) (int64, error)
}

type FlightCache interface {
	GetFlight(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	SetFlight(ctx context.Context, f *domain.Flight) error
	DeleteFlight(ctx context.Context, id uuid.UUID) error
}

type CabinClasses interface {
	Get(ctx context.Context, id int) (*domain.CabinClass, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// ListQuery selects flights departing on or after DateFrom and arriving on
// or before DateTo. Absent bounds are open. Page is 1-based.
type ListQuery struct {
	DateFrom domain.Optional[time.Time]
	DateTo   domain.Optional[time.Time]
	Page     int
	PageSize int
}

type Page struct {
	Items      []domain.Flight
	TotalCount int
	Page       int
	PageSize   int
}

type SearchQuery struct {
	From         domain.LocationFilter
	To           domain.LocationFilter
	Date         time.Time
	CabinClassID int
}

type NewFlight struct {
	FromAirportID uuid.UUID
	ToAirportID   uuid.UUID
	DepartureAt   time.Time
	ArrivalAt     time.Time
	Price         decimal.Decimal
	Aircraft      string
}

func (n NewFlight) flight() domain.Flight {
	return domain.Flight{
		ID:          uuid.New(),
		From:        domain.Airport{ID: n.FromAirportID},
		To:          domain.Airport{ID: n.ToAirportID},
		DepartureAt: n.DepartureAt.UTC(),
		ArrivalAt:   n.ArrivalAt.UTC(),
		Price:       n.Price,
		Aircraft:    n.Aircraft,
	}
}

// FlightUpdate replaces only the fields that are set.
type FlightUpdate struct {
	DepartureAt domain.Optional[time.Time]
	ArrivalAt   domain.Optional[time.Time]
	Aircraft    domain.Optional[string]
	Price       domain.Optional[decimal.Decimal]
}

type FlightService struct {
	repo               repository.FlightRepository
	cabins             CabinClasses
	cache              FlightCache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	pageSize           int
	now                func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithCache(cache FlightCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

// WithProducer publishes flight events to eventsTopic.
func WithProducer(producer Producer, eventsTopic string) FlightServiceOption {
	return func(s *FlightService) {
		s.producer = producer
		s.eventsTopic = eventsTopic
	}
}

func WithNotificationsTopic(topic string) FlightServiceOption {
	return func(s *FlightService) {
		s.notificationsTopic = topic
	}
}

func WithDefaultPageSize(size int) FlightServiceOption {
	return func(s *FlightService) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) {
		s.now = now
	}
}

func NewFlightService(repo repository.FlightRepository, cabins CabinClasses, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{
		repo:     repo,
		cabins:   cabins,
		pageSize: defaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) ListByDateRange(ctx context.Context, q ListQuery) (*Page, error) {
	from := q.DateFrom.Or(domain.MinDate)
	to := q.DateTo.Or(domain.MaxDate)

	flights, err := s.repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = s.pageSize
	}

	items := []domain.Flight{}
	// the bound keeps (page-1)*size from overflowing
	if page-1 <= len(flights)/size {
		if skip := (page - 1) * size; skip < len(flights) {
			items = flights[skip:min(skip+size, len(flights))]
		}
	}
	return &Page{Items: items, TotalCount: len(flights), Page: page, PageSize: size}, nil
}

// Search intersects flights leaving q.From with flights reaching q.To, both
// arriving on q.Date, and prices them for the requested cabin class.
func (s *FlightService) Search(ctx context.Context, q SearchQuery) ([]domain.Flight, error) {
	departing, err := s.candidates(ctx, domain.Departure, q.From, q.Date)
	if err != nil {
		return nil, err
	}
	arriving, err := s.candidates(ctx, domain.Arrival, q.To, q.Date)
	if err != nil {
		return nil, err
	}

	cabin, err := s.cabins.Get(ctx, q.CabinClassID)
	if err != nil {
		return nil, err
	}

	arrivingIDs := make(map[uuid.UUID]struct{}, len(arriving))
	for _, f := range arriving {
		arrivingIDs[f.ID] = struct{}{}
	}

	matched := make([]domain.Flight, 0)
	for _, f := range departing {
		if _, ok := arrivingIDs[f.ID]; !ok {
			continue
		}
		f.Price = domain.ComputePrice(f.Price, cabin.PricePercent)
		matched = append(matched, f)
	}
	return matched, nil
}

func (s *FlightService) candidates(ctx context.Context, side domain.RouteSide, filter domain.LocationFilter, day time.Time) ([]domain.Flight, error) {
	flights, err := s.repo.ListForSearch(ctx, side, filter.CountryID, day)
	if err != nil {
		return nil, err
	}
	matched := flights[:0]
	for _, f := range flights {
		airport := f.From
		if side == domain.Arrival {
			airport = f.To
		}
		if filter.Matches(airport) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

func (s *FlightService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlight(ctx, id)
		if err != nil {
			log.Warn(ctx, "flight cache read failed", log.ID("flight_id", id), log.Err(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlight(ctx, f); err != nil {
			log.Warn(ctx, "flight cache write failed", log.ID("flight_id", id), log.Err(err))
		}
	}
	return f, nil
}

func (s *FlightService) Add(ctx context.Context, in NewFlight) (*domain.Flight, error) {
	f := in.flight()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if in.FromAirportID == in.ToAirportID {
		return nil, domain.NewValidationError("departure and arrival airport are the same: %s", in.FromAirportID)
	}

	if err := s.repo.Create(ctx, &f); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, f.ID)
}

// AddMany stores the batch as given, without the checks Add performs.
func (s *FlightService) AddMany(ctx context.Context, in []NewFlight) (int64, error) {
	if len(in) == 0 {
		return 0, nil
	}
	batch := make([]domain.Flight, len(in))
	for i, n := range in {
		batch[i] = n.flight()
	}
	return s.repo.CreateMany(ctx, batch)
}

func (s *FlightService) Update(ctx context.Context, id uuid.UUID, in FlightUpdate) (*domain.Flight, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.IsCancelled {
		return nil, domain.NewInvalidStateError("flight %s is cancelled and cannot be updated", id)
	}

	f.DepartureAt = in.DepartureAt.Or(f.DepartureAt).UTC()
	f.ArrivalAt = in.ArrivalAt.Or(f.ArrivalAt).UTC()
	f.Aircraft = in.Aircraft.Or(f.Aircraft)
	f.Price = in.Price.Or(f.Price)
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

// Cancel flags the flight. Existing bookings are left as they are.
func (s *FlightService) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Cancel(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)

	event := kafka.FlightEvent{Type: kafka.EventFlightCancelled, FlightID: id, OccurredAt: s.now().UTC()}
	if err := s.publish(ctx, id.String(), event); err != nil {
		log.Warn(ctx, "failed to publish flight event", log.ID("flight_id", id), log.Err(err))
	}
	return nil
}

// DeleteOutdated removes flights that departed before today and were never booked.
func (s *FlightService) DeleteOutdated(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteOutdated(ctx, domain.DateOf(s.now()))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info(ctx, "deleted outdated flights", log.Count(n))
	}
	return n, nil
}

func (s *FlightService) evict(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteFlight(ctx, id); err != nil {
		log.Warn(ctx, "flight cache eviction failed", log.ID("flight_id", id), log.Err(err))
	}
}

func (s *FlightService) publish(ctx context.Context, key string, event any) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

var _ FlightUseCase = (*FlightService)(nil)
