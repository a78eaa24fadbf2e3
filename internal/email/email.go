package email

import (
	"context"
	"log/slog"

	"github.com/pvaldes/travelbooking/internal/kafka"
)

// Sender delivers booking notifications. The transport is a stub: real
// delivery is an operational concern wired in deployment.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	slog.Info("sending booking notification",
		"to", event.UserEmail,
		"event", event.Type,
		"booking_id", event.BookingID,
		"package_id", event.PackageID)
	return nil
}
