package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"ourhour/internal/domain"
)

const (
	mockAvatar   = "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg"
	mockBio      = "Tech enthusiast and event organizer"
	mockLocation = "Mumbai, India"
)

// SessionOptions tunes the session container.
type SessionOptions struct {
	// TokenExpiry is the lifetime of issued session tokens.
	TokenExpiry time.Duration
	// Latency simulates the backend round trip of login and register. Profile updates wait half
	// of it. Login and register report loading while waiting; profile updates only set Updating.
	Latency time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// Email, when set, receives a welcome message on register.
	Email domain.EmailService
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type registerInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Name     string `validate:"required,max=100"`
}

type sessionService struct {
	mu          sync.Mutex
	state       domain.SessionState
	updating    int
	store       domain.KeyValueStore
	credentials domain.CredentialRepository
	hasher      domain.PasswordHasher
	issuer      domain.TokenIssuer
	opts        SessionOptions
	logger      *slog.Logger
}

// NewSessionService builds the container and restores the persisted session from store.
// A partial or corrupt persisted pair is cleared and the container starts unauthenticated.
func NewSessionService(
	ctx context.Context,
	store domain.KeyValueStore,
	credentials domain.CredentialRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	opts SessionOptions,
	logger *slog.Logger,
) domain.SessionService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TokenExpiry <= 0 {
		opts.TokenExpiry = 24 * time.Hour
	}
	s := &sessionService{
		state:       domain.SessionState{Status: domain.SessionLoading},
		store:       store,
		credentials: credentials,
		hasher:      hasher,
		issuer:      issuer,
		opts:        opts,
		logger:      logger,
	}
	s.restore(ctx)
	return s
}

func (s *sessionService) restore(ctx context.Context) {
	token, hasToken, tokenErr := s.store.Get(ctx, domain.AuthTokenKey)
	raw, hasUser, userErr := s.store.Get(ctx, domain.UserDataKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := errors.Join(tokenErr, userErr); err != nil {
		s.logger.Warn("session storage unreadable, starting signed out", "error", err)
		s.clearLocked(ctx)
		return
	}
	if !hasToken && !hasUser {
		s.state = domain.SessionState{Status: domain.SessionUnauthenticated}
		return
	}
	var u domain.User
	if !hasToken || !hasUser || token == "" || json.Unmarshal([]byte(raw), &u) != nil || u.ID == "" {
		s.logger.Warn("discarding corrupt persisted session", "has_token", hasToken, "has_user", hasUser)
		s.clearLocked(ctx)
		return
	}
	s.state = domain.SessionState{User: &u, Token: token, Status: domain.SessionAuthenticated}
	s.logger.Info("session restored", "user_id", u.ID, "role", u.Role)
}

func (s *sessionService) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.User = st.User.Clone()
	return st
}

func (s *sessionService) CurrentUser() (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != domain.SessionAuthenticated || s.state.User == nil {
		return nil, false
	}
	return s.state.User.Clone(), true
}

// Login verifies a registered credential when one exists for email. Unknown emails get a
// synthesized profile whose role is inferred from the reserved host@ and admin@ addresses.
func (s *sessionService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if err := domain.ValidateStruct(loginInput{Email: email, Password: password}); err != nil {
		return nil, err
	}

	prev := s.beginLoading()
	s.wait(s.opts.Latency)

	u, err := s.resolveLogin(ctx, email, password)
	if err != nil {
		s.endLoading(prev)
		return nil, err
	}
	if err := s.establish(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return u.Clone(), nil
}

func (s *sessionService) resolveLogin(ctx context.Context, email, password string) (*domain.User, error) {
	cred, err := s.credentials.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return mockUser(email, s.opts.Now()), nil
	case err != nil:
		return nil, fmt.Errorf("failed to look up credentials: %w", err)
	}
	if err := s.hasher.Compare(cred.PasswordHash, cred.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return cred.User, nil
}

// Register creates a credential and signs the new user in.
func (s *sessionService) Register(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := domain.ValidateStruct(registerInput{Email: email, Password: password, Name: name}); err != nil {
		return nil, err
	}
	role = domain.ParseRole(string(role))
	if !role.SelfAssignable() {
		return nil, fmt.Errorf("%w: role %q cannot be chosen at registration", domain.ErrValidation, role)
	}

	prev := s.beginLoading()
	s.wait(s.opts.Latency)

	u := domain.NewUser(uuid.NewString(), email, name, role, s.opts.Now())
	if err := s.createCredential(ctx, u, password); err != nil {
		s.endLoading(prev)
		return nil, err
	}
	if err := s.establish(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)

	if s.opts.Email != nil {
		if err := s.opts.Email.SendWelcome(ctx, &domain.WelcomeEmailData{Email: u.Email, Name: u.Name, Role: u.Role}); err != nil {
			s.logger.Warn("failed to send welcome email", "user_id", u.ID, "error", err)
		}
	}
	return u.Clone(), nil
}

func (s *sessionService) createCredential(ctx context.Context, u *domain.User, password string) error {
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.credentials.Create(ctx, &domain.Credential{Email: u.Email, PasswordHash: hash, Salt: salt, User: u}); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	return nil
}

// Logout clears both persisted keys. The container ends unauthenticated even when storage fails.
func (s *sessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var userID string
	if s.state.User != nil {
		userID = s.state.User.ID
	}
	err := s.clearLocked(ctx)
	s.logger.Info("user logged out", "user_id", userID)
	return err
}

// UpdateProfile merges update into the current user and rewrites the user record. The token is
// left untouched.
func (s *sessionService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	if _, ok := s.CurrentUser(); !ok {
		return nil, domain.ErrNoActiveSession
	}

	s.setUpdating(1)
	s.wait(s.opts.Latency / 2)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.setUpdatingLocked(-1)
	if s.state.Status != domain.SessionAuthenticated || s.state.User == nil {
		// Logged out or replaced while waiting.
		return nil, domain.ErrNoActiveSession
	}
	// Merge into the identity as it is now so concurrent updates compose.
	u := s.state.User.Clone()
	update.Apply(u)
	u.UpdatedAt = s.opts.Now()

	raw, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.store.Set(ctx, domain.UserDataKey, string(raw)); err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}
	s.state.User = u
	return u.Clone(), nil
}

func (s *sessionService) setUpdating(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setUpdatingLocked(delta)
}

func (s *sessionService) setUpdatingLocked(delta int) {
	s.updating += delta
	s.state.Updating = s.updating > 0
}

// establish issues a token and persists token then user. A failed write clears both keys so the
// store never holds half a session.
func (s *sessionService) establish(ctx context.Context, u *domain.User) error {
	token, err := s.issuer.Issue(u.ID, u.Email, []string{string(u.Role)}, s.opts.TokenExpiry)
	if err != nil {
		return s.abandon(ctx, fmt.Errorf("failed to issue token: %w", err))
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return s.abandon(ctx, fmt.Errorf("failed to encode user: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, domain.AuthTokenKey, token); err != nil {
		s.clearLocked(ctx)
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.store.Set(ctx, domain.UserDataKey, string(raw)); err != nil {
		s.clearLocked(ctx)
		return fmt.Errorf("failed to persist user: %w", err)
	}
	s.state = domain.SessionState{User: u.Clone(), Token: token, Status: domain.SessionAuthenticated, Updating: s.updating > 0}
	return nil
}

// abandon ends a login or register that failed before anything was written, leaving the container
// signed out instead of loading.
func (s *sessionService) abandon(ctx context.Context, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked(ctx)
	return err
}

// clearLocked deletes both keys and resets to unauthenticated. Caller holds mu.
func (s *sessionService) clearLocked(ctx context.Context) error {
	err := errors.Join(
		s.store.Delete(ctx, domain.AuthTokenKey),
		s.store.Delete(ctx, domain.UserDataKey),
	)
	if err != nil {
		s.logger.Error("failed to clear persisted session", "error", err)
	}
	s.state = domain.SessionState{Status: domain.SessionUnauthenticated, Updating: s.updating > 0}
	return err
}

func (s *sessionService) beginLoading() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.Status
	if prev == domain.SessionLoading {
		// A concurrent call is pending; whichever finishes last wins.
		prev = domain.SessionUnauthenticated
		if s.state.User != nil {
			prev = domain.SessionAuthenticated
		}
	}
	s.state.Status = domain.SessionLoading
	return prev
}

func (s *sessionService) endLoading(prev domain.SessionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status == domain.SessionLoading {
		s.state.Status = prev
	}
}

func (s *sessionService) wait(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// mockUser synthesizes the profile handed out for unregistered emails. The ID is derived from the
// email so repeated logins resolve to the same user.
func mockUser(email string, now time.Time) *domain.User {
	local, _, _ := strings.Cut(email, "@")
	role := domain.RoleUser
	name := "John Doe"
	var created []string
	switch local {
	case "host":
		role, name, created = domain.RoleHost, "Event Host", []string{"1", "2", "3"}
	case "admin":
		role, name = domain.RoleAdmin, "Admin User"
	}
	u := domain.NewUser(uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(), email, name, role, now)
	u.Avatar = mockAvatar
	u.Bio = mockBio
	u.Location = mockLocation
	u.Interests = []string{"technology", "networking", "startups"}
	u.Communities = []string{"1", "2"}
	if created != nil {
		u.EventsCreated = created
	}
	u.Verified = true
	return u
}
