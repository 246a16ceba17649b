package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/DavidMoa26/flights/internal/domain"
	"github.com/DavidMoa26/flights/internal/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, ref string) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, status domain.BookingStatus, page, limit int) ([]domain.Booking, int, error) {
	args := m.Called(ctx, status, page, limit)
	return args.Get(0).([]domain.Booking), args.Int(1), args.Error(2)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		FlightID:       4,
		PassengerName:  "John Doe",
		PassengerEmail: "john.doe@example.com",
		PassengerPhone: "+1-555-0100",
		Passengers:     2,
	}
}

func TestBookingService_Create_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events")

	ctx := context.Background()
	input := validInput()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
		b := args.Get(1).(*domain.Booking)
		b.ID = 1
		b.Status = domain.BookingStatusConfirmed
		b.TotalPriceCents = 59998
	}).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).Return(nil).Once()

	created, err := service.Create(ctx, input)

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, domain.BookingStatusConfirmed, created.Status)
	assert.Equal(t, input.FlightID, created.FlightID)
	assert.Equal(t, int64(59998), created.TotalPriceCents)
	assert.True(t, reference.Valid(created.Reference), "reference %q should match the format", created.Reference)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_Create_ValidationErrors(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(*CreateBookingInput)
		field  string
	}{
		{"zero passengers", func(in *CreateBookingInput) { in.Passengers = 0 }, "passengers"},
		{"ten passengers", func(in *CreateBookingInput) { in.Passengers = 10 }, "passengers"},
		{"missing name", func(in *CreateBookingInput) { in.PassengerName = "" }, "passenger_name"},
		{"missing phone", func(in *CreateBookingInput) { in.PassengerPhone = "" }, "passenger_phone"},
		{"missing email", func(in *CreateBookingInput) { in.PassengerEmail = "" }, "passenger_email"},
		{"malformed email", func(in *CreateBookingInput) { in.PassengerEmail = "not-an-email" }, "passenger_email"},
		{"missing flight id", func(in *CreateBookingInput) { in.FlightID = 0 }, "flight_id"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			created, err := service.Create(ctx, input)

			assert.Nil(t, created)
			var validationErr *domain.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}

	// validation failures never reach storage
	mockRepo.AssertNotCalled(t, "Create")
}

func TestBookingService_Create_InsufficientSeats(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, nil, mockProducer, "booking-events")

	ctx := context.Background()
	seatsErr := &domain.InsufficientSeatsError{Available: 1, Requested: 2}
	mockRepo.On("Create", ctx, mock.Anything).Return(seatsErr).Once()

	created, err := service.Create(ctx, validInput())

	assert.Nil(t, created)
	var got *domain.InsufficientSeatsError
	assert.ErrorAs(t, err, &got)
	assert.Equal(t, 1, got.Available)
	assert.Equal(t, 2, got.Requested)

	mockRepo.AssertExpectations(t)
	mockProducer.AssertNotCalled(t, "Publish")
}

func TestBookingService_Create_FlightNotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.Anything).Return(domain.ErrFlightNotFound).Once()

	created, err := service.Create(ctx, validInput())

	assert.Nil(t, created)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Create_FlightNotBookable(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.Anything).Return(domain.ErrFlightNotBookable).Once()

	created, err := service.Create(ctx, validInput())

	assert.Nil(t, created)
	assert.ErrorIs(t, err, domain.ErrFlightNotBookable)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Create_RetriesOnDuplicateReference(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()

	var refs []string
	mockRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		refs = append(refs, args.Get(1).(*domain.Booking).Reference)
	}).Return(domain.ErrDuplicateReference).Once()
	mockRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		refs = append(refs, args.Get(1).(*domain.Booking).Reference)
	}).Return(nil).Once()

	created, err := service.Create(ctx, validInput())

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Len(t, refs, 2)
	assert.NotEqual(t, refs[0], refs[1], "a collision should get a fresh reference")
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Create_SurfacesDuplicateAfterRetries(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateReference).Times(maxAttempts)

	created, err := service.Create(ctx, validInput())

	assert.Nil(t, created)
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Create_RetriesOnConflict(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.Anything).Return(domain.ErrTransactionConflict).Once()
	mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	created, err := service.Create(ctx, validInput())

	assert.NoError(t, err)
	assert.NotNil(t, created)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Create_SurfacesConflictAfterRetries(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.Anything).Return(domain.ErrTransactionConflict).Times(maxAttempts)

	created, err := service.Create(ctx, validInput())

	assert.Nil(t, created)
	assert.ErrorIs(t, err, domain.ErrTransactionConflict)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Cancel_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCache := &MockCache{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, mockCache, mockProducer, "booking-events",
		WithNotificationsTopic("booking-notifications"))

	ctx := context.Background()
	cancelled := &domain.Booking{
		ID:         1,
		Reference:  "FBMJ3K2L1XQZ",
		FlightID:   4,
		Passengers: 2,
		Status:     domain.BookingStatusCancelled,
	}

	mockRepo.On("Cancel", ctx, "FBMJ3K2L1XQZ").Return(cancelled, nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", "FBMJ3K2L1XQZ", mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-notifications", "FBMJ3K2L1XQZ", mock.Anything).Return(nil).Once()

	got, err := service.Cancel(ctx, "FBMJ3K2L1XQZ")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, got.Status)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_Cancel_AlreadyCancelled(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, nil, mockProducer, "booking-events")

	ctx := context.Background()
	mockRepo.On("Cancel", ctx, "FBMJ3K2L1XQZ").Return(nil, domain.ErrAlreadyCancelled).Once()

	got, err := service.Cancel(ctx, "FBMJ3K2L1XQZ")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	mockRepo.AssertExpectations(t)
	mockProducer.AssertNotCalled(t, "Publish")
}

func TestBookingService_Cancel_NotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, nil, nil, "")

	ctx := context.Background()
	mockRepo.On("Cancel", ctx, "FBNOPE000").Return(nil, domain.ErrBookingNotFound).Once()

	got, err := service.Cancel(ctx, "FBNOPE000")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_Create_PublishFailureDoesNotFailBooking(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, nil, mockProducer, "booking-events")

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking-events", mock.Anything, mock.Anything).
		Return(errors.New("broker unavailable")).Once()

	created, err := service.Create(ctx, validInput())

	assert.NoError(t, err)
	assert.NotNil(t, created)
	mockRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}
