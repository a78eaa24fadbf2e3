package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking lives in the booking service's own store. Cancellation is a status
// transition, never a physical delete: history is kept.
type Booking struct {
	ID           string        `bson:"id" json:"id"`
	PackageID    string        `bson:"package_id" json:"package_id"`
	UserID       string        `bson:"user_id" json:"user_id"`
	UserEmail    string        `bson:"user_email" json:"user_email"`
	BookingDate  time.Time     `bson:"booking_date" json:"booking_date"`
	TravelDate   time.Time     `bson:"travel_date" json:"travel_date"`
	Participants int           `bson:"participants" json:"participants"`
	TotalAmount  float64       `bson:"total_amount" json:"total_amount"`
	Status       BookingStatus `bson:"status" json:"status"`
	Notes        string        `bson:"notes" json:"notes"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}
