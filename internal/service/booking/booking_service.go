package booking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pvaldes/travelbooking/internal/apperr"
	"github.com/pvaldes/travelbooking/internal/domain"
	"github.com/pvaldes/travelbooking/internal/kafka"
	"github.com/pvaldes/travelbooking/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput, user domain.Claims) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
	Report(ctx context.Context, startDate, endDate string) ([]domain.ReportRow, error)
}

// CatalogClient resolves packages owned by the catalog service. The booking
// store never holds package data; it is read across the service boundary on
// every create and report.
type CatalogClient interface {
	GetPackage(ctx context.Context, id string) (*domain.Package, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	PackageID    string `json:"package_id"`
	TravelDate   string `json:"travel_date"`
	Participants *int   `json:"participants"`
	Notes        string `json:"notes"`
}

type BookingService struct {
	bookings    repository.BookingRepository
	catalog     CatalogClient
	producer    Producer
	eventsTopic string
}

func NewBookingService(bookings repository.BookingRepository, catalog CatalogClient, producer Producer, eventsTopic string) *BookingService {
	return &BookingService{
		bookings:    bookings,
		catalog:     catalog,
		producer:    producer,
		eventsTopic: eventsTopic,
	}
}

// CreateBooking validates, checks the package against the catalog service,
// then persists. The write never happens without a successful dependency
// check; the price read is accepted as possibly stale by the time the write
// lands (no cross-service lock).
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput, user domain.Claims) (*domain.Booking, error) {
	if input.PackageID == "" || input.TravelDate == "" {
		return nil, fmt.Errorf("package_id and travel_date are required: %w", apperr.ErrInvalidRequest)
	}
	if input.Participants != nil && *input.Participants <= 0 {
		return nil, fmt.Errorf("participants must be a positive integer: %w", apperr.ErrInvalidRequest)
	}
	travelDate, err := parseISODate(input.TravelDate)
	if err != nil {
		return nil, fmt.Errorf("invalid travel_date format, use ISO format: %w", apperr.ErrInvalidRequest)
	}

	pkg, err := s.catalog.GetPackage(ctx, input.PackageID)
	if err != nil {
		return nil, err
	}

	participants := 1
	if input.Participants != nil {
		participants = *input.Participants
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		ID:           uuid.NewString(),
		PackageID:    pkg.ID,
		UserID:       user.UserID,
		UserEmail:    user.Email,
		BookingDate:  now,
		TravelDate:   travelDate,
		Participants: participants,
		TotalAmount:  pkg.Price * float64(participants),
		Status:       domain.BookingStatusPending,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// CancelBooking transitions a booking to cancelled. A missing booking and a
// booking owned by someone else fail identically, so callers cannot probe
// for other users' booking IDs. Cancelled is terminal.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID || current.Status == domain.BookingStatusCancelled {
		return nil, apperr.ErrNotFound
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_cancelled", updated)
	return updated, nil
}

// Report aggregates bookings in [startDate, endDate] by package and enriches
// each group with catalog metadata. An unresolvable package degrades its row
// to "Unknown" instead of failing the report.
func (s *BookingService) Report(ctx context.Context, startDate, endDate string) ([]domain.ReportRow, error) {
	if startDate == "" || endDate == "" {
		return nil, fmt.Errorf("start_date and end_date are required: %w", apperr.ErrInvalidRequest)
	}
	start, err := parseISODate(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid date format, use ISO format: %w", apperr.ErrInvalidRequest)
	}
	end, err := parseISODate(endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid date format, use ISO format: %w", apperr.ErrInvalidRequest)
	}
	// Date-only bounds mean whole days: the window is inclusive.
	if endDate == end.Format("2006-01-02") {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	rows, err := s.bookings.AggregateByPackage(ctx, start, end)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalRevenue > rows[j].TotalRevenue
	})

	for i := range rows {
		pkg, err := s.catalog.GetPackage(ctx, rows[i].PackageID)
		if err != nil {
			rows[i].PackageName = "Unknown"
			rows[i].PackageLocation = "Unknown"
			continue
		}
		rows[i].PackageName = pkg.Name
		rows[i].PackageLocation = pkg.Location
	}
	return rows, nil
}

// publish is best effort: a dead broker must not fail the booking operation.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		PackageID:    booking.PackageID,
		UserEmail:    booking.UserEmail,
		Participants: booking.Participants,
		TotalAmount:  booking.TotalAmount,
		Status:       string(booking.Status),
		TravelDate:   booking.TravelDate,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.ID, event); err != nil {
		slog.Warn("failed to publish booking event", "event", eventType, "booking_id", booking.ID, "error", err)
	}
}

func parseISODate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", value)
}

var _ BookingUseCase = (*BookingService)(nil)
