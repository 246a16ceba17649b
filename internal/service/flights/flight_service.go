package flights

import (
	"context"
	"log"
	"time"

	"github.com/DavidMoa26/flights/internal/cache"
	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/DavidMoa26/flights/internal/repository"
)

type FlightUseCase interface {
	Search(ctx context.Context, params domain.FlightSearch) ([]domain.Flight, int, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	PopularRoutes(ctx context.Context, limit int) ([]domain.RouteStats, error)
}

type Cache interface {
	GetFlightPage(ctx context.Context, key string) ([]domain.Flight, int, error)
	SetFlightPage(ctx context.Context, key string, flights []domain.Flight, total int) error
	InvalidateFlights(ctx context.Context) error
}

type CreateFlightInput struct {
	FlightNumber  string    `json:"flight_number"`
	Airline       string    `json:"airline"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	PriceCents    int64     `json:"price_cents"`
	TotalSeats    int       `json:"total_seats"`
	Aircraft      string    `json:"aircraft"`
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewFlightService(repo repository.FlightRepository, c Cache) *FlightService {
	return &FlightService{repo: repo, cache: c}
}

func (s *FlightService) Search(ctx context.Context, params domain.FlightSearch) ([]domain.Flight, int, error) {
	key := cache.SearchKey(params)
	if s.cache != nil {
		if cached, total, err := s.cache.GetFlightPage(ctx, key); err == nil && cached != nil {
			return cached, total, nil
		}
	}

	flights, total, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlightPage(ctx, key, flights, total); err != nil {
			log.Printf("cache flights page: %v", err)
		}
	}
	return flights, total, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if err := validateFlightInput(input); err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		FlightNumber:  input.FlightNumber,
		Airline:       input.Airline,
		Origin:        input.Origin,
		Destination:   input.Destination,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
		PriceCents:    input.PriceCents,
		TotalSeats:    input.TotalSeats,
		Aircraft:      input.Aircraft,
		Status:        domain.FlightStatusScheduled,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Printf("invalidate flights cache: %v", err)
		}
	}
	return flight, nil
}

func (s *FlightService) PopularRoutes(ctx context.Context, limit int) ([]domain.RouteStats, error) {
	return s.repo.PopularRoutes(ctx, limit)
}

func validateFlightInput(input CreateFlightInput) error {
	switch {
	case input.FlightNumber == "":
		return &domain.ValidationError{Field: "flight_number", Reason: "is required"}
	case input.Airline == "":
		return &domain.ValidationError{Field: "airline", Reason: "is required"}
	case input.Origin == "":
		return &domain.ValidationError{Field: "origin", Reason: "is required"}
	case input.Destination == "":
		return &domain.ValidationError{Field: "destination", Reason: "is required"}
	case input.DepartureTime.IsZero() || input.ArrivalTime.IsZero():
		return &domain.ValidationError{Field: "departure_time", Reason: "departure and arrival times are required"}
	case !input.ArrivalTime.After(input.DepartureTime):
		return &domain.ValidationError{Field: "arrival_time", Reason: "must be after departure time"}
	case input.PriceCents <= 0:
		return &domain.ValidationError{Field: "price", Reason: "must be positive"}
	case input.TotalSeats <= 0:
		return &domain.ValidationError{Field: "total_seats", Reason: "must be positive"}
	}
	return nil
}

var _ FlightUseCase = (*FlightService)(nil)
