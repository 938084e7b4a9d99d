package domain

import (
	"context"
	"time"
)

// PaymentStatus tracks the (simulated) payment for a booking.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// BookingStatus is the lifecycle of a reservation. Cancelled is terminal.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingAttended  BookingStatus = "attended"
)

// Feedback is left by an attendee after the event.
type Feedback struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// Booking links a user and an event. Amount is fixed at booking time.
// swagger:model Booking
type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	EventID       string        `json:"event_id"`
	Tickets       int           `json:"tickets"`
	Amount        int64         `json:"amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentID     string        `json:"payment_id,omitempty"`
	BookingDate   time.Time     `json:"booking_date"`
	Status        BookingStatus `json:"status"`
	CheckInTime   *time.Time    `json:"check_in_time,omitempty"`
	Feedback      *Feedback     `json:"feedback,omitempty"`
}

// BookingRequest is the input for reserving seats.
type BookingRequest struct {
	EventID string `json:"event_id" validate:"required"`
	Tickets int    `json:"tickets" validate:"min=1"`
}

// BookingWithEvent pairs a booking with the event it resolves to.
type BookingWithEvent struct {
	Booking Booking `json:"booking"`
	Event   Event   `json:"event"`
}

// BookingRepository stores bookings.
type BookingRepository interface {
	Create(ctx context.Context, b Booking) error
	GetByID(ctx context.Context, id string) (Booking, error)
	Replace(ctx context.Context, b Booking) error
	ListByUserID(ctx context.Context, userID string) ([]Booking, error)
	List(ctx context.Context) ([]Booking, error)
}
