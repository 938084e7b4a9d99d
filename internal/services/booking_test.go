package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ourhour/internal/domain"
	"ourhour/internal/repository/memory"
)

func newBookingEnv(t *testing.T) (*catalogEnv, *bookingService) {
	t.Helper()
	env := newCatalogEnv(t)
	svc := NewBookingService(env.store.Bookings(), env.store.Events(), env.session, env.deps.email, discardLogger()).(*bookingService)
	svc.now = func() time.Time { return catalogNow }
	return env, svc
}

func TestBookingService_Book(t *testing.T) {
	ctx := context.Background()

	t.Run("requires session", func(t *testing.T) {
		_, svc := newBookingEnv(t)
		_, err := svc.Book(ctx, domain.BookingRequest{EventID: "1", Tickets: 1})
		assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	})

	tests := []struct {
		name    string
		req     domain.BookingRequest
		wantErr error
	}{
		{name: "zero tickets", req: domain.BookingRequest{EventID: "1", Tickets: 0}, wantErr: domain.ErrValidation},
		{name: "missing event", req: domain.BookingRequest{EventID: "404", Tickets: 1}, wantErr: domain.ErrEventNotFound},
		{name: "past event", req: domain.BookingRequest{EventID: "3", Tickets: 1}, wantErr: domain.ErrEventNotBookable},
		{name: "over capacity", req: domain.BookingRequest{EventID: "1", Tickets: 11}, wantErr: domain.ErrNoAvailableSpots},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, svc := newBookingEnv(t)
			env.login(t, "a@example.com")
			_, err := svc.Book(ctx, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("paid event", func(t *testing.T) {
		env, svc := newBookingEnv(t)
		u := env.login(t, "a@example.com")

		b, err := svc.Book(ctx, domain.BookingRequest{EventID: "1", Tickets: 10})
		require.NoError(t, err)
		assert.Equal(t, u.ID, b.UserID)
		assert.Equal(t, int64(25000), b.Amount)
		assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
		assert.NotEmpty(t, b.PaymentID)
		assert.Equal(t, domain.BookingConfirmed, b.Status)

		e, _ := env.store.Events().GetByID(ctx, "1")
		assert.Equal(t, 100, e.Booked)
		assert.True(t, e.IsSoldOut())
		assert.Equal(t, int64(25000), e.Analytics.Revenue)

		current, _ := env.session.CurrentUser()
		assert.Contains(t, current.Bookings, b.ID)

		require.Len(t, env.deps.email.bookings, 1)
		assert.Equal(t, "₹25,000", env.deps.email.bookings[0].Amount)

		_, err = svc.Book(ctx, domain.BookingRequest{EventID: "1", Tickets: 1})
		assert.ErrorIs(t, err, domain.ErrNoAvailableSpots)
	})

	t.Run("free event confirms payment", func(t *testing.T) {
		env, svc := newBookingEnv(t)
		env.login(t, "a@example.com")
		b, err := svc.Book(ctx, domain.BookingRequest{EventID: "2", Tickets: 2})
		require.NoError(t, err)
		assert.Zero(t, b.Amount)
		assert.Equal(t, domain.PaymentConfirmed, b.PaymentStatus)
	})
}

func TestBookingService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	env, svc := newBookingEnv(t)
	env.login(t, "a@example.com")

	b, err := svc.Book(ctx, domain.BookingRequest{EventID: "2", Tickets: 3})
	require.NoError(t, err)

	_, err = svc.LeaveFeedback(ctx, b.ID, domain.Feedback{Rating: 5})
	require.ErrorIs(t, err, domain.ErrBookingNotActive)

	attended, err := svc.MarkAttended(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAttended, attended.Status)
	require.NotNil(t, attended.CheckInTime)

	_, err = svc.LeaveFeedback(ctx, b.ID, domain.Feedback{Rating: 9})
	require.ErrorIs(t, err, domain.ErrValidation)

	rated, err := svc.LeaveFeedback(ctx, b.ID, domain.Feedback{Rating: 4, Comment: "Loved the wheel session"})
	require.NoError(t, err)
	assert.Equal(t, 4, rated.Feedback.Rating)

	_, err = svc.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotActive)

	e, _ := env.store.Events().GetByID(ctx, "2")
	assert.Equal(t, int64(3), e.Analytics.CheckIns)
}

func TestBookingService_Cancel(t *testing.T) {
	ctx := context.Background()
	env, svc := newBookingEnv(t)
	env.login(t, "a@example.com")

	b, err := svc.Book(ctx, domain.BookingRequest{EventID: "1", Tickets: 4})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)
	assert.Equal(t, domain.PaymentFailed, cancelled.PaymentStatus)

	e, _ := env.store.Events().GetByID(ctx, "1")
	assert.Equal(t, 90, e.Booked)
	assert.Zero(t, e.Analytics.Revenue)

	_, err = svc.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotActive)

	_, err = svc.Cancel(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingService_OtherUsersBookingsAreHidden(t *testing.T) {
	ctx := context.Background()
	env, svc := newBookingEnv(t)
	env.login(t, "a@example.com")
	b, err := svc.Book(ctx, domain.BookingRequest{EventID: "2", Tickets: 1})
	require.NoError(t, err)

	env.login(t, "b@example.com")
	_, err = svc.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	mine, err := svc.MyBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestBookingService_MyBookings(t *testing.T) {
	ctx := context.Background()
	env, svc := newBookingEnv(t)

	_, err := svc.MyBookings(ctx)
	require.ErrorIs(t, err, domain.ErrNoActiveSession)

	u := env.login(t, "a@example.com")
	_, err = svc.Book(ctx, domain.BookingRequest{EventID: "2", Tickets: 1})
	require.NoError(t, err)
	// A booking whose event has vanished is skipped.
	require.NoError(t, env.store.Bookings().Create(ctx, domain.Booking{ID: "orphan", UserID: u.ID, EventID: "gone", BookingDate: catalogNow}))

	mine, err := svc.MyBookings(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "2", mine[0].Event.ID)
}

func TestBookingService_ConcurrentBookingsUnderLatency(t *testing.T) {
	ctx := context.Background()
	store, err := memory.NewCatalog(catalogFixture(), memory.SeedCommunities(catalogNow))
	require.NoError(t, err)
	deps := newSessionDeps()
	session := deps.openWith(SessionOptions{Latency: 40 * time.Millisecond})
	u, err := session.Login(ctx, "a@example.com", "x")
	require.NoError(t, err)
	svc := NewBookingService(store.Bookings(), store.Events(), session, deps.email, discardLogger()).(*bookingService)
	svc.now = func() time.Time { return catalogNow }

	errs := make([]error, 3)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Book(ctx, domain.BookingRequest{EventID: "1", Tickets: 1})
		}()
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "booking %d", i)
	}

	mine, err := store.Bookings().ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	var bookingIDs []string
	for _, b := range mine {
		bookingIDs = append(bookingIDs, b.ID)
	}
	current, ok := session.CurrentUser()
	require.True(t, ok)
	assert.ElementsMatch(t, bookingIDs, current.Bookings)
	assert.False(t, session.State().Updating)
}
