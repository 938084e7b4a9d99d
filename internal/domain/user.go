package domain

import (
	"context"
	"slices"
	"strings"
	"time"
)

// Role is the closed set of account roles. It gates which actions the UI offers; it is not a
// security boundary.
type Role string

const (
	RoleUser  Role = "user"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

// ParseRole normalizes s and falls back to RoleUser for empty or unknown values.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleHost:
		return RoleHost
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// SelfAssignable reports whether a new account may pick the role when registering.
func (r Role) SelfAssignable() bool {
	return r == RoleUser || r == RoleHost
}

// CanHost reports whether the role may create and cancel events.
func (r Role) CanHost() bool {
	return r == RoleHost || r == RoleAdmin
}

// User represents an account identity.
// swagger:model User
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Avatar        string    `json:"avatar,omitempty"`
	Bio           string    `json:"bio"`
	Location      string    `json:"location"`
	Role          Role      `json:"role"`
	Interests     []string  `json:"interests"`
	Communities   []string  `json:"communities"`
	EventsCreated []string  `json:"events_created"`
	Bookings      []string  `json:"bookings"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewUser returns a freshly registered user with zeroed relations.
func NewUser(id, email, name string, role Role, createdAt time.Time) *User {
	return &User{
		ID:            id,
		Email:         email,
		Name:          name,
		Role:          role,
		Interests:     []string{},
		Communities:   []string{},
		EventsCreated: []string{},
		Bookings:      []string{},
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Interests = slices.Clone(u.Interests)
	cp.Communities = slices.Clone(u.Communities)
	cp.EventsCreated = slices.Clone(u.EventsCreated)
	cp.Bookings = slices.Clone(u.Bookings)
	return &cp
}

// ProfileUpdate is a partial user. Nil fields are left untouched. Identity and role are not
// updatable through a profile change.
type ProfileUpdate struct {
	Name          *string   `json:"name,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Avatar        *string   `json:"avatar,omitempty"`
	Bio           *string   `json:"bio,omitempty"`
	Location      *string   `json:"location,omitempty"`
	Interests     *[]string `json:"interests,omitempty"`
	Communities   *[]string `json:"communities,omitempty"`
	EventsCreated *[]string `json:"events_created,omitempty"`
	Bookings      *[]string `json:"bookings,omitempty"`

	// Add* fields append ids missing from the list held at apply time, so concurrent
	// additions do not overwrite each other.
	AddCommunities   []string `json:"-"`
	AddEventsCreated []string `json:"-"`
	AddBookings      []string `json:"-"`
}

// Apply merges the update into u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = strings.TrimSpace(strings.ToLower(*p.Email))
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.Interests != nil {
		u.Interests = slices.Clone(*p.Interests)
	}
	if p.Communities != nil {
		u.Communities = slices.Clone(*p.Communities)
	}
	if p.EventsCreated != nil {
		u.EventsCreated = slices.Clone(*p.EventsCreated)
	}
	if p.Bookings != nil {
		u.Bookings = slices.Clone(*p.Bookings)
	}
	u.Communities = appendMissing(u.Communities, p.AddCommunities)
	u.EventsCreated = appendMissing(u.EventsCreated, p.AddEventsCreated)
	u.Bookings = appendMissing(u.Bookings, p.AddBookings)
}

func appendMissing(list, ids []string) []string {
	for _, id := range ids {
		if !slices.Contains(list, id) {
			list = append(list, id)
		}
	}
	return list
}

// Credential is a registered email/password pair together with the profile it unlocks.
type Credential struct {
	Email        string
	PasswordHash string
	Salt         string
	User         *User
}

// CredentialRepository stores registered credentials keyed by normalized email.
type CredentialRepository interface {
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	Create(ctx context.Context, c *Credential) error
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}
