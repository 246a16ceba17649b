package booking

import (
	"context"
	"errors"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/DavidMoa26/flights/internal/kafka"
	"github.com/DavidMoa26/flights/internal/reference"
	"github.com/DavidMoa26/flights/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// maxAttempts bounds the internal retries for reference collisions and
// transaction conflicts. Anything still failing after that surfaces typed.
const maxAttempts = 3

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Cancel(ctx context.Context, ref string) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref string) (*domain.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	List(ctx context.Context, status domain.BookingStatus, page, limit int) ([]domain.Booking, int, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	FlightID        int64  `json:"flight_id" validate:"required"`
	PassengerName   string `json:"passenger_name" validate:"required"`
	PassengerEmail  string `json:"passenger_email" validate:"required,email"`
	PassengerPhone  string `json:"passenger_phone" validate:"required"`
	Passengers      int    `json:"passengers" validate:"gte=1,lte=9"`
	SpecialRequests string `json:"special_requests"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	validate           *validator.Validate
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(bookings repository.BookingRepository, cache Cache, producer Producer, bookingTopic string, opts ...BookingServiceOption) *BookingService {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	service := &BookingService{
		bookings:     bookings,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		validate:     v,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create validates the input and runs the atomic reserve-and-insert through
// the repository. Reference collisions get a fresh reference and another
// attempt; transaction conflicts retry the whole operation with backoff.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		booking := &domain.Booking{
			Reference:       reference.New(),
			FlightID:        input.FlightID,
			PassengerName:   input.PassengerName,
			PassengerEmail:  input.PassengerEmail,
			PassengerPhone:  input.PassengerPhone,
			Passengers:      input.Passengers,
			SpecialRequests: input.SpecialRequests,
		}

		err := s.bookings.Create(ctx, booking)
		if err == nil {
			s.afterWrite(ctx, kafka.EventBookingCreated, booking)
			return booking, nil
		}
		if errors.Is(err, domain.ErrDuplicateReference) {
			lastErr = err
			continue
		}
		if errors.Is(err, domain.ErrTransactionConflict) {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// Cancel flips the booking to cancelled and restores its seats. Cancelling
// twice fails with ErrAlreadyCancelled and leaves availability untouched.
func (s *BookingService) Cancel(ctx context.Context, ref string) (*domain.Booking, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		booking, err := s.bookings.Cancel(ctx, ref)
		if err == nil {
			s.afterWrite(ctx, kafka.EventBookingCancelled, booking)
			return booking, nil
		}
		if errors.Is(err, domain.ErrTransactionConflict) {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

func (s *BookingService) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	return s.bookings.GetByReference(ctx, ref)
}

func (s *BookingService) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return s.bookings.ListByEmail(ctx, email)
}

func (s *BookingService) List(ctx context.Context, status domain.BookingStatus, page, limit int) ([]domain.Booking, int, error) {
	return s.bookings.List(ctx, status, page, limit)
}

func (s *BookingService) validateInput(input CreateBookingInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &domain.ValidationError{Field: fe.Field(), Reason: reasonFor(fe)}
	}
	return &domain.ValidationError{Reason: err.Error()}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gte", "lte":
		return "must be between 1 and 9"
	default:
		return "is invalid"
	}
}

// afterWrite publishes the event and drops cached flight listings. Both are
// best effort; the booking itself is already committed.
func (s *BookingService) afterWrite(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Printf("invalidate flights cache: %v", err)
		}
	}
	if s.producer == nil || s.bookingTopic == "" {
		return
	}

	event := kafka.BookingEvent{
		ID:              uuid.NewString(),
		Type:            eventType,
		Reference:       booking.Reference,
		FlightID:        booking.FlightID,
		PassengerName:   booking.PassengerName,
		PassengerEmail:  booking.PassengerEmail,
		Passengers:      booking.Passengers,
		TotalPriceCents: booking.TotalPriceCents,
		Status:          string(booking.Status),
		OccurredAt:      time.Now(),
	}
	if booking.Flight != nil {
		event.FlightNumber = booking.Flight.FlightNumber
	}

	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		log.Printf("publish %s for booking %s: %v", eventType, booking.Reference, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
			log.Printf("publish notification for booking %s: %v", booking.Reference, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
