package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"ourhour/internal/domain"
)

// Catalog is the in-process store of events, communities and bookings. It is seeded once at
// startup and mutated only by whole-record replacement. Every read returns deep copies.
type Catalog struct {
	mu          sync.RWMutex
	events      []domain.Event
	eventIdx    map[string]int
	communities []domain.Community
	commIdx     map[string]int
	bookings    []domain.Booking
	bookingIdx  map[string]int
}

// NewCatalog builds a store over the given seed data. Duplicate IDs are rejected.
func NewCatalog(events []domain.Event, communities []domain.Community) (*Catalog, error) {
	c := &Catalog{
		eventIdx:   make(map[string]int, len(events)),
		commIdx:    make(map[string]int, len(communities)),
		bookingIdx: make(map[string]int),
	}
	for _, e := range events {
		if _, ok := c.eventIdx[e.ID]; ok {
			return nil, fmt.Errorf("seed event %s: %w", e.ID, domain.ErrDuplicateID)
		}
		c.eventIdx[e.ID] = len(c.events)
		c.events = append(c.events, e.Clone())
	}
	for _, cm := range communities {
		if _, ok := c.commIdx[cm.ID]; ok {
			return nil, fmt.Errorf("seed community %s: %w", cm.ID, domain.ErrDuplicateID)
		}
		c.commIdx[cm.ID] = len(c.communities)
		c.communities = append(c.communities, cm.Clone())
	}
	return c, nil
}

// Events returns the event repository view of the catalog.
func (c *Catalog) Events() domain.EventRepository { return eventRepo{c} }

// Communities returns the community repository view of the catalog.
func (c *Catalog) Communities() domain.CommunityRepository { return communityRepo{c} }

// Bookings returns the booking repository view of the catalog.
func (c *Catalog) Bookings() domain.BookingRepository { return bookingRepo{c} }

type eventRepo struct{ c *Catalog }

func (r eventRepo) List(ctx context.Context) ([]domain.Event, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	out := make([]domain.Event, len(r.c.events))
	for i, e := range r.c.events {
		out[i] = e.Clone()
	}
	return out, nil
}

func (r eventRepo) GetByID(ctx context.Context, id string) (domain.Event, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	i, ok := r.c.eventIdx[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return r.c.events[i].Clone(), nil
}

func (r eventRepo) Create(ctx context.Context, e domain.Event) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.eventIdx[e.ID]; ok {
		return domain.ErrDuplicateID
	}
	r.c.eventIdx[e.ID] = len(r.c.events)
	r.c.events = append(r.c.events, e.Clone())
	return nil
}

// Replace swaps the stored record with the same ID. Unknown IDs are reported as not found.
func (r eventRepo) Replace(ctx context.Context, e domain.Event) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	i, ok := r.c.eventIdx[e.ID]
	if !ok {
		return domain.ErrEventNotFound
	}
	r.c.events[i] = e.Clone()
	return nil
}

type communityRepo struct{ c *Catalog }

func (r communityRepo) List(ctx context.Context) ([]domain.Community, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	out := make([]domain.Community, len(r.c.communities))
	for i, cm := range r.c.communities {
		out[i] = cm.Clone()
	}
	return out, nil
}

func (r communityRepo) GetByID(ctx context.Context, id string) (domain.Community, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	i, ok := r.c.commIdx[id]
	if !ok {
		return domain.Community{}, domain.ErrCommunityNotFound
	}
	return r.c.communities[i].Clone(), nil
}

func (r communityRepo) Replace(ctx context.Context, cm domain.Community) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	i, ok := r.c.commIdx[cm.ID]
	if !ok {
		return domain.ErrCommunityNotFound
	}
	r.c.communities[i] = cm.Clone()
	return nil
}

type bookingRepo struct{ c *Catalog }

func (r bookingRepo) Create(ctx context.Context, b domain.Booking) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.bookingIdx[b.ID]; ok {
		return domain.ErrDuplicateID
	}
	r.c.bookingIdx[b.ID] = len(r.c.bookings)
	r.c.bookings = append(r.c.bookings, b)
	return nil
}

func (r bookingRepo) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	i, ok := r.c.bookingIdx[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return r.c.bookings[i], nil
}

func (r bookingRepo) Replace(ctx context.Context, b domain.Booking) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	i, ok := r.c.bookingIdx[b.ID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	r.c.bookings[i] = b
	return nil
}

// ListByUserID returns the user's bookings, newest first.
func (r bookingRepo) ListByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	var out []domain.Booking
	for _, b := range r.c.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Booking) int {
		return cmp.Compare(b.BookingDate.UnixNano(), a.BookingDate.UnixNano())
	})
	return out, nil
}

func (r bookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	return slices.Clone(r.c.bookings), nil
}
