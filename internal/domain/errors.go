package domain

import "errors"

// Sentinel errors shared by services and delivery.
var (
	ErrNotFound          = errors.New("not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrCommunityNotFound = errors.New("community not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrDuplicateID       = errors.New("record with this id already exists")
)

// Session and identity errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrNoActiveSession    = errors.New("no active session")
	ErrForbidden          = errors.New("action not permitted for this role")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

// Booking errors.
var (
	ErrNoAvailableSpots = errors.New("no available spots")
	ErrBookingNotActive = errors.New("booking is not in an active state")
	ErrEventNotBookable = errors.New("event is not open for booking")
)

var ErrValidation = errors.New("validation error")
