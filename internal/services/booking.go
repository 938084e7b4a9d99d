package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"ourhour/internal/domain"
)

type bookingService struct {
	// mu serializes the read-check-replace of event seat counts.
	mu       sync.Mutex
	bookings domain.BookingRepository
	events   domain.EventRepository
	session  domain.SessionService
	email    domain.EmailService
	now      func() time.Time
	logger   *slog.Logger
}

// NewBookingService reserves seats for the session user. email may be nil.
func NewBookingService(
	bookings domain.BookingRepository,
	events domain.EventRepository,
	session domain.SessionService,
	email domain.EmailService,
	logger *slog.Logger,
) domain.BookingService {
	return &bookingService{
		bookings: bookings,
		events:   events,
		session:  session,
		email:    email,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *bookingService) Book(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	u, ok := s.session.CurrentUser()
	if !ok {
		return domain.Booking{}, domain.ErrNoActiveSession
	}
	if err := domain.ValidateStruct(req); err != nil {
		return domain.Booking{}, err
	}

	s.mu.Lock()
	event, booking, err := s.reserve(ctx, u, req)
	s.mu.Unlock()
	if err != nil {
		return domain.Booking{}, err
	}

	if _, err := s.session.UpdateProfile(ctx, domain.ProfileUpdate{AddBookings: []string{booking.ID}}); err != nil {
		s.logger.Warn("failed to record booking on profile", "booking_id", booking.ID, "error", err)
	}
	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"event_id", event.ID,
		"user_id", u.ID,
		"tickets", booking.Tickets,
	)
	s.sendConfirmation(ctx, u, event, booking)
	return booking, nil
}

func (s *bookingService) reserve(ctx context.Context, u *domain.User, req domain.BookingRequest) (domain.Event, domain.Booking, error) {
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return domain.Event{}, domain.Booking{}, fmt.Errorf("check event: %w", err)
	}
	now := s.now()
	if event.StatusAt(now) != domain.EventUpcoming {
		return domain.Event{}, domain.Booking{}, domain.ErrEventNotBookable
	}
	if event.AvailableSpots() < req.Tickets {
		return domain.Event{}, domain.Booking{}, domain.ErrNoAvailableSpots
	}

	booking := domain.Booking{
		ID:            uuid.NewString(),
		UserID:        u.ID,
		EventID:       event.ID,
		Tickets:       req.Tickets,
		Amount:        int64(req.Tickets) * event.Pricing.Amount,
		PaymentStatus: domain.PaymentConfirmed,
		BookingDate:   now,
		Status:        domain.BookingConfirmed,
	}
	if event.Pricing.Type == domain.PricingPaid {
		booking.PaymentStatus = domain.PaymentPending
		booking.PaymentID = "pay_" + uuid.NewString()
	}

	event.Booked += req.Tickets
	event.Analytics.Bookings += int64(req.Tickets)
	event.Analytics.Revenue += booking.Amount
	event.UpdatedAt = now
	if err := s.events.Replace(ctx, event); err != nil {
		return domain.Event{}, domain.Booking{}, fmt.Errorf("failed to save event: %w", err)
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return domain.Event{}, domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return event, booking, nil
}

func (s *bookingService) sendConfirmation(ctx context.Context, u *domain.User, e domain.Event, b domain.Booking) {
	if s.email == nil {
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:      u.Email,
		Name:       u.Name,
		BookingID:  b.ID,
		EventTitle: e.Title,
		Venue:      e.Location.Venue,
		City:       e.Location.City,
		StartsAt:   e.Schedule.Start.Format("Mon, 02 Jan 2006 15:04 MST"),
		Tickets:    b.Tickets,
		Amount:     domain.FormatPrice(b.Amount, e.Pricing.Currency),
	}
	if err := s.email.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.Warn("failed to send booking confirmation", "booking_id", b.ID, "error", err)
	}
}

// ownBooking loads a booking of the current user. Other users' bookings are reported as missing.
func (s *bookingService) ownBooking(ctx context.Context, id string) (domain.Booking, error) {
	u, ok := s.session.CurrentUser()
	if !ok {
		return domain.Booking{}, domain.ErrNoActiveSession
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.UserID != u.ID {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

// Cancel releases the seats of a confirmed booking. Cancelled is terminal.
func (s *bookingService) Cancel(ctx context.Context, bookingID string) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.ownBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Status != domain.BookingConfirmed {
		return domain.Booking{}, domain.ErrBookingNotActive
	}

	event, err := s.events.GetByID(ctx, b.EventID)
	switch {
	case err == nil:
		event.Booked = max(0, event.Booked-b.Tickets)
		event.Analytics.Bookings = max(0, event.Analytics.Bookings-int64(b.Tickets))
		event.Analytics.Revenue = max(0, event.Analytics.Revenue-b.Amount)
		event.UpdatedAt = s.now()
		if err := s.events.Replace(ctx, event); err != nil {
			return domain.Booking{}, fmt.Errorf("failed to save event: %w", err)
		}
	case !errors.Is(err, domain.ErrEventNotFound):
		return domain.Booking{}, fmt.Errorf("check event: %w", err)
	}

	b.Status = domain.BookingCancelled
	switch b.PaymentStatus {
	case domain.PaymentConfirmed:
		if b.Amount > 0 {
			b.PaymentStatus = domain.PaymentRefunded
		}
	case domain.PaymentPending:
		b.PaymentStatus = domain.PaymentFailed
	}
	if err := s.bookings.Replace(ctx, b); err != nil {
		return domain.Booking{}, fmt.Errorf("failed to save booking: %w", err)
	}
	s.logger.Info("booking cancelled", "booking_id", b.ID, "event_id", b.EventID)
	return b, nil
}

// MarkAttended checks a confirmed booking in.
func (s *bookingService) MarkAttended(ctx context.Context, bookingID string) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.ownBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Status != domain.BookingConfirmed {
		return domain.Booking{}, domain.ErrBookingNotActive
	}
	now := s.now()
	b.Status = domain.BookingAttended
	b.CheckInTime = &now
	if err := s.bookings.Replace(ctx, b); err != nil {
		return domain.Booking{}, fmt.Errorf("failed to save booking: %w", err)
	}
	if event, err := s.events.GetByID(ctx, b.EventID); err == nil {
		event.Analytics.CheckIns += int64(b.Tickets)
		if err := s.events.Replace(ctx, event); err != nil {
			s.logger.Warn("failed to record check-in", "event_id", event.ID, "error", err)
		}
	}
	return b, nil
}

// LeaveFeedback attaches a rating to an attended booking, replacing earlier feedback.
func (s *bookingService) LeaveFeedback(ctx context.Context, bookingID string, feedback domain.Feedback) (domain.Booking, error) {
	if err := domain.ValidateStruct(feedback); err != nil {
		return domain.Booking{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.ownBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Status != domain.BookingAttended {
		return domain.Booking{}, domain.ErrBookingNotActive
	}
	b.Feedback = &feedback
	if err := s.bookings.Replace(ctx, b); err != nil {
		return domain.Booking{}, fmt.Errorf("failed to save booking: %w", err)
	}
	return b, nil
}

// MyBookings lists the current user's bookings with their events. Bookings whose event no
// longer resolves are left out.
func (s *bookingService) MyBookings(ctx context.Context) ([]domain.BookingWithEvent, error) {
	u, ok := s.session.CurrentUser()
	if !ok {
		return nil, domain.ErrNoActiveSession
	}
	list, err := s.bookings.ListByUserID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	out := make([]domain.BookingWithEvent, 0, len(list))
	for _, b := range list {
		e, err := s.events.GetByID(ctx, b.EventID)
		if errors.Is(err, domain.ErrEventNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load event %s: %w", b.EventID, err)
		}
		out = append(out, domain.BookingWithEvent{Booking: b, Event: e})
	}
	return out, nil
}
