package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"ourhour/internal/delivery/http/helpers"
	"ourhour/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeCatalogService implements domain.CatalogService for handler tests.
type fakeCatalogService struct {
	err error

	page        domain.EventPage
	events      []domain.Event
	event       domain.Event
	counts      []domain.CategoryCount
	communities []domain.Community
	community   domain.Community

	lastCriteria   domain.Criteria
	lastPage       domain.PaginationParams
	lastText       string
	lastID         string
	lastInput      domain.CreateEventInput
	lastCommunityQ string
	lastCommunityC string
}

func (f *fakeCatalogService) Browse(_ context.Context, c domain.Criteria, p domain.PaginationParams) (domain.EventPage, error) {
	f.lastCriteria, f.lastPage = c, p
	return f.page, f.err
}

func (f *fakeCatalogService) Search(_ context.Context, text string) ([]domain.Event, error) {
	f.lastText = text
	return f.events, f.err
}

func (f *fakeCatalogService) Recommend(context.Context) ([]domain.Event, error) {
	return f.events, f.err
}

func (f *fakeCatalogService) GetEvent(_ context.Context, id string) (domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeCatalogService) FeaturedEvents(context.Context) ([]domain.Event, error) {
	return f.events, f.err
}

func (f *fakeCatalogService) UpcomingEvents(context.Context) ([]domain.Event, error) {
	return f.events, f.err
}

func (f *fakeCatalogService) CategoryCounts(context.Context) ([]domain.CategoryCount, error) {
	return f.counts, f.err
}

func (f *fakeCatalogService) ToggleLike(_ context.Context, id string) (domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeCatalogService) CreateEvent(_ context.Context, in domain.CreateEventInput) (domain.Event, error) {
	f.lastInput = in
	return f.event, f.err
}

func (f *fakeCatalogService) CancelEvent(_ context.Context, id string) (domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeCatalogService) ListCommunities(_ context.Context, q, category string) ([]domain.Community, error) {
	f.lastCommunityQ, f.lastCommunityC = q, category
	return f.communities, f.err
}

func (f *fakeCatalogService) JoinCommunity(_ context.Context, id string) (domain.Community, error) {
	f.lastID = id
	return f.community, f.err
}

// fakeSessionService implements domain.SessionService. Successful calls move it to authenticated.
type fakeSessionService struct {
	state     domain.SessionState
	err       error
	logoutErr error

	lastEmail, lastPassword, lastName string
	lastRole                          domain.Role
	lastUpdate                        domain.ProfileUpdate
}

func (f *fakeSessionService) State() domain.SessionState { return f.state }

func (f *fakeSessionService) CurrentUser() (*domain.User, bool) {
	return f.state.User, f.state.IsAuthenticated()
}

func (f *fakeSessionService) signIn(email string) (*domain.User, error) {
	if f.err != nil {
		f.state = domain.SessionState{Status: domain.SessionUnauthenticated}
		return nil, f.err
	}
	u := &domain.User{ID: "u-1", Email: email, Name: "John Doe", Role: domain.RoleUser}
	f.state = domain.SessionState{User: u, Token: "token-u-1", Status: domain.SessionAuthenticated}
	return u, nil
}

func (f *fakeSessionService) Login(_ context.Context, email, password string) (*domain.User, error) {
	f.lastEmail, f.lastPassword = email, password
	return f.signIn(email)
}

func (f *fakeSessionService) Register(_ context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	f.lastEmail, f.lastPassword, f.lastName, f.lastRole = email, password, name, role
	return f.signIn(email)
}

func (f *fakeSessionService) Logout(context.Context) error {
	f.state = domain.SessionState{Status: domain.SessionUnauthenticated}
	return f.logoutErr
}

func (f *fakeSessionService) UpdateProfile(_ context.Context, u domain.ProfileUpdate) (*domain.User, error) {
	f.lastUpdate = u
	if f.err != nil {
		return nil, f.err
	}
	u.Apply(f.state.User)
	return f.state.User, nil
}

// fakeBookingService implements domain.BookingService.
type fakeBookingService struct {
	err      error
	booking  domain.Booking
	bookings []domain.BookingWithEvent

	lastRequest  domain.BookingRequest
	lastID       string
	lastFeedback domain.Feedback
}

func (f *fakeBookingService) Book(_ context.Context, req domain.BookingRequest) (domain.Booking, error) {
	f.lastRequest = req
	return f.booking, f.err
}

func (f *fakeBookingService) Cancel(_ context.Context, id string) (domain.Booking, error) {
	f.lastID = id
	return f.booking, f.err
}

func (f *fakeBookingService) MarkAttended(_ context.Context, id string) (domain.Booking, error) {
	f.lastID = id
	return f.booking, f.err
}

func (f *fakeBookingService) LeaveFeedback(_ context.Context, id string, fb domain.Feedback) (domain.Booking, error) {
	f.lastID, f.lastFeedback = id, fb
	return f.booking, f.err
}

func (f *fakeBookingService) MyBookings(context.Context) ([]domain.BookingWithEvent, error) {
	return f.bookings, f.err
}

// fakeDashboardService implements domain.DashboardService.
type fakeDashboardService struct {
	err      error
	attendee domain.AttendeeStats
	host     domain.HostStats
	admin    domain.AdminStats
}

func (f *fakeDashboardService) AttendeeStats(context.Context) (domain.AttendeeStats, error) {
	return f.attendee, f.err
}

func (f *fakeDashboardService) HostStats(context.Context) (domain.HostStats, error) {
	return f.host, f.err
}

func (f *fakeDashboardService) AdminStats(context.Context) (domain.AdminStats, error) {
	return f.admin, f.err
}

// decodeEnvelope decodes the response envelope and, when dest is non-nil, its data field.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.Nil(t, envelope.Error, "success response must have error nil")
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}
