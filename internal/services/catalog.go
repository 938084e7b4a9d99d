package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"ourhour/internal/domain"
)

type catalogService struct {
	events         domain.EventRepository
	communities    domain.CommunityRepository
	session        domain.SessionService
	tracer         trace.Tracer
	now            func() time.Time
	contextTimeout time.Duration
	logger         *slog.Logger
}

// NewCatalogService exposes the query engine over the catalog store. Write-like actions require
// an active session.
func NewCatalogService(
	events domain.EventRepository,
	communities domain.CommunityRepository,
	session domain.SessionService,
	timeout time.Duration,
	logger *slog.Logger,
) domain.CatalogService {
	return &catalogService{
		events:         events,
		communities:    communities,
		session:        session,
		tracer:         otel.Tracer("ourhour/catalog"),
		now:            time.Now,
		contextTimeout: timeout,
		logger:         logger,
	}
}

func (s *catalogService) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func()) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	if s.contextTimeout <= 0 {
		return ctx, func() { span.End() }
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	return ctx, func() {
		cancel()
		span.End()
	}
}

func (s *catalogService) Browse(ctx context.Context, criteria domain.Criteria, page domain.PaginationParams) (domain.EventPage, error) {
	ctx, end := s.start(ctx, "catalog.browse",
		attribute.String("sort_by", string(criteria.SortBy)),
		attribute.String("category", string(criteria.Category)),
	)
	defer end()

	all, err := s.events.List(ctx)
	if err != nil {
		return domain.EventPage{}, fmt.Errorf("failed to list events: %w", err)
	}
	matched := SortEvents(FilterEvents(all, criteria), criteria.SortBy)
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("events.matched", len(matched)))
	return domain.EventPage{Events: Paginate(matched, page), Total: len(matched)}, nil
}

func (s *catalogService) Search(ctx context.Context, text string) ([]domain.Event, error) {
	ctx, end := s.start(ctx, "catalog.search")
	defer end()

	all, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return SearchEvents(all, text), nil
}

// Recommend uses the session user's interests when someone is signed in.
func (s *catalogService) Recommend(ctx context.Context) ([]domain.Event, error) {
	ctx, end := s.start(ctx, "catalog.recommend")
	defer end()

	all, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	var interests []string
	if u, ok := s.session.CurrentUser(); ok {
		interests = u.Interests
	}
	return RecommendEvents(all, interests), nil
}

func (s *catalogService) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	ctx, end := s.start(ctx, "catalog.get_event", attribute.String("event.id", id))
	defer end()
	return s.events.GetByID(ctx, id)
}

func (s *catalogService) FeaturedEvents(ctx context.Context) ([]domain.Event, error) {
	all, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return FeaturedEvents(all, s.now()), nil
}

func (s *catalogService) UpcomingEvents(ctx context.Context) ([]domain.Event, error) {
	all, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return UpcomingEvents(all, s.now()), nil
}

func (s *catalogService) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	all, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return CategoryCounts(all), nil
}

// ToggleLike flips the like flag and adjusts the counter by one, never below zero.
func (s *catalogService) ToggleLike(ctx context.Context, id string) (domain.Event, error) {
	ctx, end := s.start(ctx, "catalog.toggle_like", attribute.String("event.id", id))
	defer end()

	if _, ok := s.session.CurrentUser(); !ok {
		return domain.Event{}, domain.ErrNoActiveSession
	}
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if e.IsLiked {
		e.IsLiked = false
		e.Likes = max(0, e.Likes-1)
	} else {
		e.IsLiked = true
		e.Likes++
	}
	if err := s.events.Replace(ctx, e); err != nil {
		return domain.Event{}, fmt.Errorf("failed to save event: %w", err)
	}
	return e, nil
}

// CreateEvent publishes an event hosted by the current user. Only hosts and admins may create.
func (s *catalogService) CreateEvent(ctx context.Context, input domain.CreateEventInput) (domain.Event, error) {
	ctx, end := s.start(ctx, "catalog.create_event")
	defer end()

	u, ok := s.session.CurrentUser()
	if !ok {
		return domain.Event{}, domain.ErrNoActiveSession
	}
	if !u.Role.CanHost() {
		return domain.Event{}, domain.ErrForbidden
	}
	if err := domain.ValidateStruct(input); err != nil {
		return domain.Event{}, err
	}
	if _, known := domain.ParseCategory(string(input.Category)); !known {
		return domain.Event{}, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, input.Category)
	}

	var community domain.Community
	if input.Community != "" {
		c, err := s.communities.GetByID(ctx, input.Community)
		if err != nil {
			return domain.Event{}, err
		}
		community = c
	}

	now := s.now()
	e := eventFromInput(input, u, uuid.NewString(), now)
	if err := domain.ValidateEvent(e); err != nil {
		return domain.Event{}, err
	}
	if err := s.events.Create(ctx, e); err != nil {
		return domain.Event{}, fmt.Errorf("failed to create event: %w", err)
	}
	if community.ID != "" {
		community.Events = append(community.Events, e.ID)
		community.UpdatedAt = now
		if err := s.communities.Replace(ctx, community); err != nil {
			s.logger.Warn("failed to link event to community", "event_id", e.ID, "community_id", community.ID, "error", err)
		}
	}

	if _, err := s.session.UpdateProfile(ctx, domain.ProfileUpdate{AddEventsCreated: []string{e.ID}}); err != nil {
		s.logger.Warn("failed to record created event on profile", "event_id", e.ID, "error", err)
	}
	s.logger.Info("event created", "event_id", e.ID, "host_id", u.ID, "category", e.Category)
	return e, nil
}

func eventFromInput(in domain.CreateEventInput, host *domain.User, id string, now time.Time) domain.Event {
	pricing := domain.Pricing{Type: domain.PricingFree, Currency: strings.ToUpper(in.Currency)}
	if in.Price > 0 {
		pricing.Type = domain.PricingPaid
		pricing.Amount = in.Price
	}
	if pricing.Currency == "" {
		pricing.Currency = domain.DefaultCurrency
	}
	return domain.Event{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Images:      slices.Clone(in.Images),
		Host: domain.HostRef{
			ID:       host.ID,
			Name:     host.Name,
			Avatar:   host.Avatar,
			Verified: host.Verified,
		},
		Schedule: domain.Schedule{Start: in.Start, End: in.End},
		Location: domain.Location{
			Venue:       in.Venue,
			Address:     in.Address,
			City:        in.City,
			Coordinates: in.Coordinates,
		},
		Pricing:   pricing,
		Capacity:  in.Capacity,
		Tags:      slices.Clone(in.Tags),
		Community: in.Community,
		Status:    domain.EventUpcoming,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CancelEvent marks an event cancelled. Hosts may cancel their own events, admins any event.
func (s *catalogService) CancelEvent(ctx context.Context, id string) (domain.Event, error) {
	ctx, end := s.start(ctx, "catalog.cancel_event", attribute.String("event.id", id))
	defer end()

	u, ok := s.session.CurrentUser()
	if !ok {
		return domain.Event{}, domain.ErrNoActiveSession
	}
	if !u.Role.CanHost() {
		return domain.Event{}, domain.ErrForbidden
	}
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if u.Role != domain.RoleAdmin && e.Host.ID != u.ID && !slices.Contains(u.EventsCreated, e.ID) {
		return domain.Event{}, domain.ErrForbidden
	}
	if e.Status == domain.EventCancelled {
		return e, nil
	}
	e.Status = domain.EventCancelled
	e.UpdatedAt = s.now()
	if err := s.events.Replace(ctx, e); err != nil {
		return domain.Event{}, fmt.Errorf("failed to save event: %w", err)
	}
	s.logger.Info("event cancelled", "event_id", e.ID, "by", u.ID)
	return e, nil
}

func (s *catalogService) ListCommunities(ctx context.Context, query, category string) ([]domain.Community, error) {
	all, err := s.communities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	return FilterCommunities(all, query, category), nil
}

// JoinCommunity adds the current user to a community. Joining again changes nothing.
func (s *catalogService) JoinCommunity(ctx context.Context, id string) (domain.Community, error) {
	ctx, end := s.start(ctx, "catalog.join_community", attribute.String("community.id", id))
	defer end()

	u, ok := s.session.CurrentUser()
	if !ok {
		return domain.Community{}, domain.ErrNoActiveSession
	}
	c, err := s.communities.GetByID(ctx, id)
	if err != nil {
		return domain.Community{}, err
	}
	if !c.HasMember(u.ID) {
		c.Members = append(c.Members, u.ID)
		c.MemberCount++
		c.UpdatedAt = s.now()
		if err := s.communities.Replace(ctx, c); err != nil {
			return domain.Community{}, fmt.Errorf("failed to save community: %w", err)
		}
	}
	if !slices.Contains(u.Communities, c.ID) {
		if _, err := s.session.UpdateProfile(ctx, domain.ProfileUpdate{AddCommunities: []string{c.ID}}); err != nil && !errors.Is(err, domain.ErrNoActiveSession) {
			return domain.Community{}, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return c, nil
}
