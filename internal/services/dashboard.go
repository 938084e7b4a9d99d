package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"ourhour/internal/domain"
)

const topHostEvents = 3

type dashboardService struct {
	events      domain.EventRepository
	communities domain.CommunityRepository
	bookings    domain.BookingRepository
	session     domain.SessionService
	now         func() time.Time
}

// NewDashboardService computes role dashboards from the catalog store and the session.
func NewDashboardService(
	events domain.EventRepository,
	communities domain.CommunityRepository,
	bookings domain.BookingRepository,
	session domain.SessionService,
) domain.DashboardService {
	return &dashboardService{
		events:      events,
		communities: communities,
		bookings:    bookings,
		session:     session,
		now:         time.Now,
	}
}

func (s *dashboardService) AttendeeStats(ctx context.Context) (domain.AttendeeStats, error) {
	u, ok := s.session.CurrentUser()
	if !ok {
		return domain.AttendeeStats{}, domain.ErrNoActiveSession
	}
	mine, err := s.bookings.ListByUserID(ctx, u.ID)
	if err != nil {
		return domain.AttendeeStats{}, fmt.Errorf("failed to list bookings: %w", err)
	}
	events, err := s.events.List(ctx)
	if err != nil {
		return domain.AttendeeStats{}, fmt.Errorf("failed to list events: %w", err)
	}
	byID := make(map[string]domain.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	now := s.now()
	stats := domain.AttendeeStats{CommunitiesJoined: len(u.Communities)}
	for _, b := range mine {
		switch b.Status {
		case domain.BookingAttended:
			stats.EventsAttended++
			stats.TotalSpent += b.Amount
		case domain.BookingConfirmed:
			stats.TotalSpent += b.Amount
			if e, ok := byID[b.EventID]; ok && e.StatusAt(now) == domain.EventUpcoming {
				stats.UpcomingEvents++
			}
		}
	}
	for _, e := range events {
		if e.IsLiked {
			stats.FavoriteEvents++
		}
	}
	return stats, nil
}

func (s *dashboardService) HostStats(ctx context.Context) (domain.HostStats, error) {
	u, ok := s.session.CurrentUser()
	if !ok {
		return domain.HostStats{}, domain.ErrNoActiveSession
	}
	if !u.Role.CanHost() {
		return domain.HostStats{}, domain.ErrForbidden
	}
	events, err := s.events.List(ctx)
	if err != nil {
		return domain.HostStats{}, fmt.Errorf("failed to list events: %w", err)
	}

	now := s.now()
	var stats domain.HostStats
	var hosted []domain.Event
	for _, e := range events {
		if e.Host.ID != u.ID && !slices.Contains(u.EventsCreated, e.ID) {
			continue
		}
		hosted = append(hosted, e)
		stats.TotalBookings += e.Booked
		stats.TotalRevenue += e.Analytics.Revenue
		if e.StatusAt(now) == domain.EventUpcoming {
			stats.UpcomingEvents++
		}
	}
	stats.EventsCreated = len(hosted)
	top := SortEvents(hosted, domain.SortPopularity)
	stats.TopEvents = top[:min(topHostEvents, len(top))]
	return stats, nil
}

func (s *dashboardService) AdminStats(ctx context.Context) (domain.AdminStats, error) {
	u, ok := s.session.CurrentUser()
	if !ok {
		return domain.AdminStats{}, domain.ErrNoActiveSession
	}
	if u.Role != domain.RoleAdmin {
		return domain.AdminStats{}, domain.ErrForbidden
	}
	events, err := s.events.List(ctx)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("failed to list events: %w", err)
	}
	communities, err := s.communities.List(ctx)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("failed to list communities: %w", err)
	}

	stats := domain.AdminStats{TotalEvents: len(events), TotalCommunities: len(communities)}
	hosts := make(map[string]struct{})
	for _, e := range events {
		stats.TotalBookings += e.Booked
		stats.TotalRevenue += e.Analytics.Revenue
		hosts[e.Host.ID] = struct{}{}
	}
	stats.ActiveHosts = len(hosts)
	counts := CategoryCounts(events)
	slices.SortStableFunc(counts, func(a, b domain.CategoryCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	stats.PopularCategories = counts
	return stats, nil
}
