package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ourhour/internal/domain"
	"ourhour/internal/repository/memory"
)

var sessionNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type sessionDeps struct {
	store  *fakeKV
	creds  *memory.CredentialRepository
	issuer *fakeTokenIssuer
	email  *fakeEmailService
}

func newSessionDeps() *sessionDeps {
	return &sessionDeps{
		store:  newFakeKV(),
		creds:  memory.NewCredentialRepository(),
		issuer: &fakeTokenIssuer{},
		email:  &fakeEmailService{},
	}
}

func (d *sessionDeps) open(t *testing.T) domain.SessionService {
	t.Helper()
	return d.openWith(SessionOptions{})
}

func (d *sessionDeps) openWith(opts SessionOptions) domain.SessionService {
	opts.Now = func() time.Time { return sessionNow }
	opts.Email = d.email
	return NewSessionService(context.Background(), d.store, d.creds, &fakePasswordHasher{}, d.issuer, opts, discardLogger())
}

func TestSession_StartsUnauthenticatedWithEmptyStorage(t *testing.T) {
	s := newSessionDeps().open(t)
	st := s.State()
	assert.Equal(t, domain.SessionUnauthenticated, st.Status)
	assert.Nil(t, st.User)
	_, ok := s.CurrentUser()
	assert.False(t, ok)
}

func TestSession_LoginRoleInference(t *testing.T) {
	tests := []struct {
		email string
		role  domain.Role
		name  string
	}{
		{email: "host@example.com", role: domain.RoleHost, name: "Event Host"},
		{email: "admin@example.com", role: domain.RoleAdmin, name: "Admin User"},
		{email: "priya@example.com", role: domain.RoleUser, name: "John Doe"},
		{email: "hostess@example.com", role: domain.RoleUser, name: "John Doe"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			d := newSessionDeps()
			s := d.open(t)
			u, err := s.Login(context.Background(), tt.email, "x")
			require.NoError(t, err)
			assert.Equal(t, tt.role, u.Role)
			assert.Equal(t, tt.name, u.Name)
			assert.Equal(t, tt.email, u.Email)
			assert.True(t, u.Verified)
			assert.Equal(t, []string{string(tt.role)}, d.issuer.roles)
			assert.True(t, s.State().IsAuthenticated())
		})
	}
}

func TestSession_LoginIsDeterministicPerEmail(t *testing.T) {
	s := newSessionDeps().open(t)
	a, err := s.Login(context.Background(), "Dev@Example.com ", "pw")
	require.NoError(t, err)
	b, err := s.Login(context.Background(), "dev@example.com", "other")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "dev@example.com", a.Email)
}

func TestSession_LoginValidation(t *testing.T) {
	s := newSessionDeps().open(t)
	_, err := s.Login(context.Background(), "not-an-email", "pw")
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.Login(context.Background(), "a@example.com", "")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.SessionUnauthenticated, s.State().Status)
}

func TestSession_RoundTripThroughStorage(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()
	s := d.open(t)
	u, err := s.Login(ctx, "host@example.com", "x")
	require.NoError(t, err)
	token := s.State().Token

	fresh := d.open(t)
	st := fresh.State()
	require.Equal(t, domain.SessionAuthenticated, st.Status)
	assert.Equal(t, u.ID, st.User.ID)
	assert.Equal(t, u.Email, st.User.Email)
	assert.Equal(t, u.Role, st.User.Role)
	assert.Equal(t, token, st.Token)
}

func TestSession_LogoutClearsCleanly(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()
	s := d.open(t)
	_, err := s.Login(ctx, "a@example.com", "x")
	require.NoError(t, err)
	require.Equal(t, 2, d.store.keys())

	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, domain.SessionUnauthenticated, s.State().Status)
	assert.Zero(t, d.store.keys())

	fresh := d.open(t)
	assert.Equal(t, domain.SessionUnauthenticated, fresh.State().Status)
	assert.Zero(t, d.store.keys())

	// Logging out twice is fine.
	require.NoError(t, fresh.Logout(ctx))
}

func TestSession_LogoutStorageFailureStillSignsOut(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()
	s := d.open(t)
	_, err := s.Login(ctx, "a@example.com", "x")
	require.NoError(t, err)

	d.store.deleteErr = errors.New("locked")
	require.Error(t, s.Logout(ctx))
	assert.Equal(t, domain.SessionUnauthenticated, s.State().Status)
}

func TestSession_CorruptStorageIsCleared(t *testing.T) {
	user, _ := json.Marshal(domain.NewUser("u1", "a@example.com", "A", domain.RoleUser, sessionNow))
	tests := []struct {
		name string
		data map[string]string
	}{
		{name: "token only", data: map[string]string{domain.AuthTokenKey: "tok"}},
		{name: "user only", data: map[string]string{domain.UserDataKey: string(user)}},
		{name: "bad json", data: map[string]string{domain.AuthTokenKey: "tok", domain.UserDataKey: "{not json"}},
		{name: "user without id", data: map[string]string{domain.AuthTokenKey: "tok", domain.UserDataKey: `{"email":"a@example.com"}`}},
		{name: "empty token", data: map[string]string{domain.AuthTokenKey: "", domain.UserDataKey: string(user)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newSessionDeps()
			for k, v := range tt.data {
				d.store.data[k] = v
			}
			s := d.open(t)
			assert.Equal(t, domain.SessionUnauthenticated, s.State().Status)
			assert.Zero(t, d.store.keys())
		})
	}
}

func TestSession_UnreadableStorage(t *testing.T) {
	d := newSessionDeps()
	d.store.getErr = errors.New("io error")
	s := d.open(t)
	assert.Equal(t, domain.SessionUnauthenticated, s.State().Status)
}

func TestSession_Register(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()
	s := d.open(t)

	u, err := s.Register(ctx, "Neha@Example.com", "s3cretpass", " Neha ", domain.RoleHost)
	require.NoError(t, err)
	assert.Equal(t, "neha@example.com", u.Email)
	assert.Equal(t, "Neha", u.Name)
	assert.Equal(t, domain.RoleHost, u.Role)
	assert.False(t, u.Verified)
	assert.Empty(t, u.Interests)
	assert.Empty(t, u.Communities)
	assert.Empty(t, u.EventsCreated)
	assert.Empty(t, u.Bookings)
	assert.NotEmpty(t, u.ID)
	assert.True(t, s.State().IsAuthenticated())

	require.Len(t, d.email.welcome, 1)
	assert.Equal(t, "neha@example.com", d.email.welcome[0].Email)

	_, err = s.Register(ctx, "neha@example.com", "anotherpass", "Neha 2", domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Equal(t, u.ID, s.State().User.ID)
}

func TestSession_RegisterDefaultsRoleAndValidates(t *testing.T) {
	ctx := context.Background()
	s := newSessionDeps().open(t)

	u, err := s.Register(ctx, "a@example.com", "longenough", "A", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)

	_, err = s.Register(ctx, "b@example.com", "short", "B", domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.Register(ctx, "c@example.com", "longenough", "  ", domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSession_RegisterRejectsAdminRole(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()
	s := d.open(t)

	_, err := s.Register(ctx, "mallory@example.com", "password123", "Mallory", domain.RoleAdmin)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.SessionUnauthenticated, s.State().Status)
	assert.Zero(t, d.store.keys())
	_, err = d.creds.GetByEmail(ctx, "mallory@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSession_RegisteredCredentialsAreVerified(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()
	s := d.open(t)
	registered, err := s.Register(ctx, "ravi@example.com", "correct-horse", "Ravi", domain.RoleUser)
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx))

	_, err = s.Login(ctx, "ravi@example.com", "wrong-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, domain.SessionUnauthenticated, s.State().Status)

	u, err := s.Login(ctx, "ravi@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.Equal(t, "Ravi", u.Name)
}

func TestSession_WelcomeEmailFailureDoesNotFailRegister(t *testing.T) {
	d := newSessionDeps()
	d.email.err = errors.New("smtp down")
	s := d.open(t)
	_, err := s.Register(context.Background(), "a@example.com", "longenough", "A", domain.RoleUser)
	require.NoError(t, err)
}

func TestSession_PersistFailureLeavesNoHalfSession(t *testing.T) {
	d := newSessionDeps()
	d.store.setErrFor = domain.UserDataKey
	s := d.open(t)

	_, err := s.Login(context.Background(), "a@example.com", "x")
	require.Error(t, err)
	assert.Equal(t, domain.SessionUnauthenticated, s.State().Status)
	assert.Zero(t, d.store.keys())
}

func TestSession_TokenIssueFailure(t *testing.T) {
	d := newSessionDeps()
	d.issuer.err = errors.New("no key")
	s := d.open(t)
	_, err := s.Login(context.Background(), "a@example.com", "x")
	require.Error(t, err)
	assert.False(t, s.State().IsAuthenticated())
	assert.False(t, s.State().IsLoading())
	assert.Equal(t, domain.SessionUnauthenticated, s.State().Status)
}

func TestSession_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()
	s := d.open(t)

	name := "Anything"
	_, err := s.UpdateProfile(ctx, domain.ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, domain.ErrNoActiveSession)
	assert.Equal(t, domain.SessionUnauthenticated, s.State().Status)
	assert.Zero(t, d.store.keys())

	_, err = s.Login(ctx, "a@example.com", "x")
	require.NoError(t, err)
	tokenBefore := d.store.data[domain.AuthTokenKey]

	bio := "Runs the Pune Go meetup"
	interests := []string{"go", "cloud"}
	u, err := s.UpdateProfile(ctx, domain.ProfileUpdate{Bio: &bio, Interests: &interests})
	require.NoError(t, err)
	assert.Equal(t, bio, u.Bio)
	assert.Equal(t, interests, u.Interests)
	assert.Equal(t, sessionNow, u.UpdatedAt)
	assert.Equal(t, tokenBefore, d.store.data[domain.AuthTokenKey])

	fresh := d.open(t)
	assert.Equal(t, bio, fresh.State().User.Bio)
	assert.Equal(t, domain.SessionAuthenticated, fresh.State().Status)
}

func TestSession_UpdateProfilePersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()
	s := d.open(t)
	_, err := s.Login(ctx, "a@example.com", "x")
	require.NoError(t, err)

	d.store.setErrFor = domain.UserDataKey
	bio := "new"
	_, err = s.UpdateProfile(ctx, domain.ProfileUpdate{Bio: &bio})
	require.Error(t, err)
	st := s.State()
	assert.Equal(t, domain.SessionAuthenticated, st.Status)
	assert.NotEqual(t, "new", st.User.Bio)
}

func TestSession_LoadingDuringLatency(t *testing.T) {
	d := newSessionDeps()
	s := d.openWith(SessionOptions{Latency: 50 * time.Millisecond})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Login(context.Background(), "a@example.com", "x")
	}()

	require.Eventually(t, func() bool { return s.State().IsLoading() }, time.Second, time.Millisecond)
	assert.False(t, s.State().IsAuthenticated())
	<-done
	assert.True(t, s.State().IsAuthenticated())
}

func TestSession_ProfileUpdateKeepsIdentityAuthenticated(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()
	s := d.openWith(SessionOptions{Latency: 80 * time.Millisecond})
	_, err := s.Login(ctx, "a@example.com", "x")
	require.NoError(t, err)

	bio := "new"
	done := make(chan error, 1)
	go func() {
		_, err := s.UpdateProfile(ctx, domain.ProfileUpdate{Bio: &bio})
		done <- err
	}()

	require.Eventually(t, func() bool { return s.State().Updating }, time.Second, time.Millisecond)
	st := s.State()
	assert.True(t, st.IsAuthenticated())
	assert.True(t, st.IsLoading())
	_, ok := s.CurrentUser()
	assert.True(t, ok)

	require.NoError(t, <-done)
	st = s.State()
	assert.False(t, st.Updating)
	assert.Equal(t, domain.SessionAuthenticated, st.Status)
	assert.Equal(t, "new", st.User.Bio)
}

func TestSession_ConcurrentProfileUpdatesCompose(t *testing.T) {
	ctx := context.Background()
	d := newSessionDeps()
	s := d.openWith(SessionOptions{Latency: 20 * time.Millisecond})
	_, err := s.Login(ctx, "a@example.com", "x")
	require.NoError(t, err)

	bio, location := "Go meetup organizer", "Pune, India"
	updates := []domain.ProfileUpdate{
		{Bio: &bio, AddBookings: []string{"b1"}},
		{Location: &location, AddBookings: []string{"b2"}},
	}
	var wg sync.WaitGroup
	for _, update := range updates {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateProfile(ctx, update)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	fresh := d.open(t)
	u := fresh.State().User
	require.NotNil(t, u)
	assert.Equal(t, bio, u.Bio)
	assert.Equal(t, location, u.Location)
	assert.ElementsMatch(t, []string{"b1", "b2"}, u.Bookings)
}

func TestSession_ConcurrentLoginsLastWriteWins(t *testing.T) {
	d := newSessionDeps()
	s := d.openWith(SessionOptions{Latency: 5 * time.Millisecond})

	var wg sync.WaitGroup
	for _, email := range []string{"a@example.com", "b@example.com", "host@example.com"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Login(context.Background(), email, "x")
		}()
	}
	wg.Wait()

	st := s.State()
	require.Equal(t, domain.SessionAuthenticated, st.Status)
	fresh := d.open(t)
	assert.Equal(t, st.User.ID, fresh.State().User.ID)
	assert.Equal(t, st.Token, fresh.State().Token)
}

func TestSession_StateIsACopy(t *testing.T) {
	s := newSessionDeps().open(t)
	_, err := s.Login(context.Background(), "a@example.com", "x")
	require.NoError(t, err)

	st := s.State()
	st.User.Name = "mutated"
	assert.NotEqual(t, "mutated", s.State().User.Name)
}
