package domain

import (
	"context"
	"slices"
	"time"
)

// Community is a named group of users.
// swagger:model Community
type Community struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Avatar      string    `json:"avatar,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	MemberCount int       `json:"member_count"`
	Members     []string  `json:"members"`
	Admins      []string  `json:"admins"`
	Events      []string  `json:"events"`
	IsPrivate   bool      `json:"is_private"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the community.
func (c Community) Clone() Community {
	c.Members = slices.Clone(c.Members)
	c.Admins = slices.Clone(c.Admins)
	c.Events = slices.Clone(c.Events)
	return c
}

// HasMember reports whether userID is listed as a member.
func (c Community) HasMember(userID string) bool {
	return slices.Contains(c.Members, userID)
}

// AllCommunityCategories is the sentinel category meaning "no category filter".
const AllCommunityCategories = "All"

// CommunityRepository is the read/replace contract of the catalog store for communities.
type CommunityRepository interface {
	List(ctx context.Context) ([]Community, error)
	GetByID(ctx context.Context, id string) (Community, error)
	Replace(ctx context.Context, c Community) error
}
