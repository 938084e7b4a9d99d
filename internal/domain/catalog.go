package domain

import "context"

// EventPage is one page of a browse result.
type EventPage struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}

// CategoryCount is the number of catalog events in a category.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// CatalogService exposes the query engine over the catalog store plus the write-like actions
// gated by the session.
type CatalogService interface {
	Browse(ctx context.Context, criteria Criteria, page PaginationParams) (EventPage, error)
	Search(ctx context.Context, text string) ([]Event, error)
	Recommend(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	FeaturedEvents(ctx context.Context) ([]Event, error)
	UpcomingEvents(ctx context.Context) ([]Event, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	ToggleLike(ctx context.Context, id string) (Event, error)
	CreateEvent(ctx context.Context, input CreateEventInput) (Event, error)
	CancelEvent(ctx context.Context, id string) (Event, error)
	ListCommunities(ctx context.Context, query, category string) ([]Community, error)
	JoinCommunity(ctx context.Context, id string) (Community, error)
}

// BookingService reserves seats for the current session user.
type BookingService interface {
	Book(ctx context.Context, req BookingRequest) (Booking, error)
	Cancel(ctx context.Context, bookingID string) (Booking, error)
	MarkAttended(ctx context.Context, bookingID string) (Booking, error)
	LeaveFeedback(ctx context.Context, bookingID string, feedback Feedback) (Booking, error)
	MyBookings(ctx context.Context) ([]BookingWithEvent, error)
}

// AttendeeStats summarizes the current user's activity.
type AttendeeStats struct {
	EventsAttended    int   `json:"events_attended"`
	UpcomingEvents    int   `json:"upcoming_events"`
	TotalSpent        int64 `json:"total_spent"`
	FavoriteEvents    int   `json:"favorite_events"`
	CommunitiesJoined int   `json:"communities_joined"`
}

// HostStats summarizes the events hosted by the current user.
type HostStats struct {
	EventsCreated  int     `json:"events_created"`
	TotalBookings  int     `json:"total_bookings"`
	TotalRevenue   int64   `json:"total_revenue"`
	UpcomingEvents int     `json:"upcoming_events"`
	TopEvents      []Event `json:"top_events"`
}

// AdminStats summarizes the whole catalog.
type AdminStats struct {
	TotalEvents       int             `json:"total_events"`
	TotalBookings     int             `json:"total_bookings"`
	TotalRevenue      int64           `json:"total_revenue"`
	TotalCommunities  int             `json:"total_communities"`
	ActiveHosts       int             `json:"active_hosts"`
	PopularCategories []CategoryCount `json:"popular_categories"`
}

// DashboardService computes the role-based dashboards.
type DashboardService interface {
	AttendeeStats(ctx context.Context) (AttendeeStats, error)
	HostStats(ctx context.Context) (HostStats, error)
	AdminStats(ctx context.Context) (AdminStats, error)
}
