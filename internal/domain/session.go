package domain

import "context"

// Persisted session layout: both keys are written together and cleared together.
const (
	AuthTokenKey = "ourhour_auth_token"
	UserDataKey  = "ourhour_user_data"
)

// SessionStatus is the state of the single-slot session container.
type SessionStatus string

const (
	SessionUninitialized   SessionStatus = "uninitialized"
	SessionLoading         SessionStatus = "loading"
	SessionAuthenticated   SessionStatus = "authenticated"
	SessionUnauthenticated SessionStatus = "unauthenticated"
)

// SessionState is a snapshot of the session container.
// swagger:model SessionState
type SessionState struct {
	User   *User         `json:"user"`
	Token  string        `json:"token,omitempty"`
	Status SessionStatus `json:"status"`

	// Updating is set while a profile write is pending. The identity stays authenticated.
	Updating bool `json:"updating,omitempty"`
}

// IsAuthenticated is false while loading, even if a previous identity is still held.
func (s SessionState) IsAuthenticated() bool {
	return s.Status == SessionAuthenticated
}

// IsLoading reports whether an operation is in flight.
func (s SessionState) IsLoading() bool {
	return s.Updating || s.Status == SessionLoading || s.Status == SessionUninitialized
}

// KeyValueStore is the local key-value storage the session persists to.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// SessionService holds the current identity and writes it through to storage.
type SessionService interface {
	State() SessionState
	CurrentUser() (*User, bool)
	Login(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, email, password, name string, role Role) (*User, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error)
}
