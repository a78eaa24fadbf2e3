package booking

import (
	"context"
	"testing"
	"time"

	"github.com/pvaldes/travelbooking/internal/apperr"
	"github.com/pvaldes/travelbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) AggregateByPackage(ctx context.Context, start, end time.Time) ([]domain.ReportRow, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReportRow), args.Error(1)
}

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Package), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var testUser = domain.Claims{UserID: "user-1", Email: "user@example.com"}

func intPtr(v int) *int { return &v }

func TestBookingService_CreateBooking_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCatalog := &MockCatalogClient{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, mockCatalog, mockProducer, "booking_events")
	ctx := context.Background()

	mockCatalog.On("GetPackage", ctx, "pkg-1").Return(&domain.Package{ID: "pkg-1", Price: 100}, nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{
		PackageID:    "pkg-1",
		TravelDate:   "2026-09-15",
		Participants: intPtr(2),
	}, testUser)

	require.NoError(t, err)
	assert.Equal(t, 200.0, booking.TotalAmount)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, "user-1", booking.UserID)
	assert.Equal(t, "user@example.com", booking.UserEmail)
	assert.NotEmpty(t, booking.ID)
	mockRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_DefaultsToOneParticipant(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCatalog := &MockCatalogClient{}
	service := NewBookingService(mockRepo, mockCatalog, nil, "")
	ctx := context.Background()

	mockCatalog.On("GetPackage", ctx, "pkg-1").Return(&domain.Package{ID: "pkg-1", Price: 250}, nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{
		PackageID:  "pkg-1",
		TravelDate: "2026-09-15T00:00:00Z",
	}, testUser)

	require.NoError(t, err)
	assert.Equal(t, 1, booking.Participants)
	assert.Equal(t, 250.0, booking.TotalAmount)
}

func TestBookingService_CreateBooking_ValidationFailsFast(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCatalog := &MockCatalogClient{}
	service := NewBookingService(mockRepo, mockCatalog, nil, "")

	tests := []struct {
		name  string
		input CreateBookingInput
	}{
		{"missing package_id", CreateBookingInput{TravelDate: "2026-09-15"}},
		{"missing travel_date", CreateBookingInput{PackageID: "pkg-1"}},
		{"zero participants", CreateBookingInput{PackageID: "pkg-1", TravelDate: "2026-09-15", Participants: intPtr(0)}},
		{"negative participants", CreateBookingInput{PackageID: "pkg-1", TravelDate: "2026-09-15", Participants: intPtr(-2)}},
		{"bad travel_date", CreateBookingInput{PackageID: "pkg-1", TravelDate: "next tuesday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateBooking(context.Background(), tt.input, testUser)
			assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
		})
	}

	// Malformed input never reaches the network or the store.
	mockCatalog.AssertNotCalled(t, "GetPackage")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestBookingService_CreateBooking_PackageNotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCatalog := &MockCatalogClient{}
	service := NewBookingService(mockRepo, mockCatalog, nil, "")
	ctx := context.Background()

	mockCatalog.On("GetPackage", ctx, "ghost").Return(nil, apperr.ErrNotFound).Once()

	_, err := service.CreateBooking(ctx, CreateBookingInput{
		PackageID:  "ghost",
		TravelDate: "2026-09-15",
	}, testUser)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestBookingService_CreateBooking_CatalogUnavailable(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCatalog := &MockCatalogClient{}
	service := NewBookingService(mockRepo, mockCatalog, nil, "")
	ctx := context.Background()

	mockCatalog.On("GetPackage", ctx, "pkg-1").Return(nil, apperr.ErrDependencyUnavailable).Once()

	_, err := service.CreateBooking(ctx, CreateBookingInput{
		PackageID:  "pkg-1",
		TravelDate: "2026-09-15",
	}, testUser)

	// No write without a successful dependency check.
	assert.ErrorIs(t, err, apperr.ErrDependencyUnavailable)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestBookingService_CancelBooking_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, &MockCatalogClient{}, mockProducer, "booking_events")
	ctx := context.Background()

	current := &domain.Booking{ID: "bk-1", UserID: "user-1", Status: domain.BookingStatusPending}
	cancelled := &domain.Booking{ID: "bk-1", UserID: "user-1", Status: domain.BookingStatusCancelled}

	mockRepo.On("GetByID", ctx, "bk-1").Return(current, nil).Once()
	mockRepo.On("UpdateStatus", ctx, "bk-1", domain.BookingStatusCancelled).Return(cancelled, nil).Once()
	mockProducer.On("Publish", ctx, "booking_events", "bk-1", mock.Anything).Return(nil).Once()

	updated, err := service.CancelBooking(ctx, "bk-1", "user-1")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, updated.Status)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_CancelBooking_NotOwnerLooksLikeNotFound(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, &MockCatalogClient{}, nil, "")
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "bk-1").Return(&domain.Booking{
		ID:     "bk-1",
		UserID: "someone-else",
		Status: domain.BookingStatusPending,
	}, nil).Once()

	_, errNotOwner := service.CancelBooking(ctx, "bk-1", "user-1")

	mockRepo.On("GetByID", ctx, "ghost").Return(nil, apperr.ErrNotFound).Once()
	_, errMissing := service.CancelBooking(ctx, "ghost", "user-1")

	// The two failures are indistinguishable, so booking IDs can't be probed.
	assert.ErrorIs(t, errNotOwner, apperr.ErrNotFound)
	assert.ErrorIs(t, errMissing, apperr.ErrNotFound)
	mockRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestBookingService_CancelBooking_CancelledIsTerminal(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, &MockCatalogClient{}, nil, "")
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "bk-1").Return(&domain.Booking{
		ID:     "bk-1",
		UserID: "user-1",
		Status: domain.BookingStatusCancelled,
	}, nil).Once()

	_, err := service.CancelBooking(ctx, "bk-1", "user-1")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
	mockRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestBookingService_Report_SortsAndEnriches(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCatalog := &MockCatalogClient{}
	service := NewBookingService(mockRepo, mockCatalog, nil, "")
	ctx := context.Background()

	rows := []domain.ReportRow{
		{PackageID: "pkg-low", TotalBookings: 1, TotalParticipants: 1, TotalRevenue: 100},
		{PackageID: "pkg-high", TotalBookings: 3, TotalParticipants: 7, TotalRevenue: 900},
	}
	mockRepo.On("AggregateByPackage", ctx, mock.Anything, mock.Anything).Return(rows, nil).Once()
	mockCatalog.On("GetPackage", ctx, "pkg-high").Return(&domain.Package{
		ID: "pkg-high", Name: "Patagonia Trek", Location: "El Chaltén",
	}, nil).Once()
	// A package deleted since its bookings degrades the row, not the report.
	mockCatalog.On("GetPackage", ctx, "pkg-low").Return(nil, apperr.ErrNotFound).Once()

	report, err := service.Report(ctx, "2026-01-01", "2026-12-31")

	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "pkg-high", report[0].PackageID)
	assert.Equal(t, "Patagonia Trek", report[0].PackageName)
	assert.Equal(t, "El Chaltén", report[0].PackageLocation)
	assert.Equal(t, "pkg-low", report[1].PackageID)
	assert.Equal(t, "Unknown", report[1].PackageName)
	assert.Equal(t, "Unknown", report[1].PackageLocation)
}

func TestBookingService_Report_InclusiveEndDate(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, &MockCatalogClient{}, nil, "")
	ctx := context.Background()

	var gotEnd time.Time
	mockRepo.On("AggregateByPackage", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotEnd = args.Get(2).(time.Time) }).
		Return([]domain.ReportRow{}, nil).Once()

	_, err := service.Report(ctx, "2026-01-01", "2026-01-31")

	require.NoError(t, err)
	// A booking late on the end date still falls inside the window.
	assert.True(t, gotEnd.After(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)))
	assert.True(t, gotEnd.Before(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBookingService_Report_InvalidDates(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo, &MockCatalogClient{}, nil, "")

	tests := []struct {
		name       string
		start, end string
	}{
		{"missing start", "", "2026-01-31"},
		{"missing end", "2026-01-01", ""},
		{"bad start", "January", "2026-01-31"},
		{"bad end", "2026-01-01", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Report(context.Background(), tt.start, tt.end)
			assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
		})
	}

	mockRepo.AssertNotCalled(t, "AggregateByPackage")
}

func TestBookingService_CreateBooking_PublishFailureDoesNotFailCreate(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockCatalog := &MockCatalogClient{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockRepo, mockCatalog, mockProducer, "booking_events")
	ctx := context.Background()

	mockCatalog.On("GetPackage", ctx, "pkg-1").Return(&domain.Package{ID: "pkg-1", Price: 100}, nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "booking_events", mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	booking, err := service.CreateBooking(ctx, CreateBookingInput{
		PackageID:  "pkg-1",
		TravelDate: "2026-09-15",
	}, testUser)

	require.NoError(t, err)
	assert.NotNil(t, booking)
}
