package domain

import (
	"context"
	"math"
	"slices"
	"time"
)

// Category is the fixed enumeration of event categories.
type Category string

const (
	CategoryConferences   Category = "conferences"
	CategoryWorkshops     Category = "workshops"
	CategoryCompetitions  Category = "competitions"
	CategoryExhibitions   Category = "exhibitions"
	CategoryEntertainment Category = "entertainment"
	CategorySeminars      Category = "seminars"
	CategoryChildren      Category = "children"
	CategoryNetworking    Category = "networking"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryConferences,
	CategoryWorkshops,
	CategoryCompetitions,
	CategoryExhibitions,
	CategoryEntertainment,
	CategorySeminars,
	CategoryChildren,
	CategoryNetworking,
}

// ParseCategory returns the category for s and whether s names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, slices.Contains(Categories, c)
}

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// PricingType distinguishes free from paid events.
type PricingType string

const (
	PricingFree PricingType = "free"
	PricingPaid PricingType = "paid"
)

// DefaultCurrency is used when an event does not name one.
const DefaultCurrency = "INR"

// Pricing holds the ticket price in whole currency units.
type Pricing struct {
	Type     PricingType `json:"type" validate:"required,oneof=free paid"`
	Amount   int64       `json:"amount" validate:"min=0"`
	Currency string      `json:"currency" validate:"omitempty,len=3"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// Location describes where an event takes place.
type Location struct {
	Venue       string      `json:"venue" validate:"required"`
	Address     string      `json:"address"`
	City        string      `json:"city" validate:"required"`
	Coordinates Coordinates `json:"coordinates"`
}

// Schedule holds the start and end timestamps of an event.
type Schedule struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
}

// HostRef is a denormalized reference to the user hosting an event.
type HostRef struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Avatar   string `json:"avatar,omitempty"`
	Verified bool   `json:"verified"`
}

// EventAnalytics is a reporting snapshot; it is not authoritative state.
type EventAnalytics struct {
	Views    int64 `json:"views" validate:"min=0"`
	Bookings int64 `json:"bookings" validate:"min=0"`
	Revenue  int64 `json:"revenue" validate:"min=0"`
	CheckIns int64 `json:"check_ins" validate:"min=0"`
}

// Event is the catalog's unit of record.
// swagger:model Event
type Event struct {
	ID          string         `json:"id" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Category    Category       `json:"category" validate:"required,oneof=conferences workshops competitions exhibitions entertainment seminars children networking"`
	Images      []string       `json:"images"`
	Host        HostRef        `json:"host"`
	Schedule    Schedule       `json:"datetime"`
	Location    Location       `json:"location"`
	Pricing     Pricing        `json:"pricing"`
	Capacity    int            `json:"capacity" validate:"min=0"`
	Booked      int            `json:"booked" validate:"min=0,ltefield=Capacity"`
	Tags        []string       `json:"tags"`
	Community   string         `json:"community,omitempty"`
	Status      EventStatus    `json:"status" validate:"required,oneof=upcoming ongoing completed cancelled"`
	Likes       int            `json:"likes" validate:"min=0"`
	IsLiked     bool           `json:"is_liked"`
	Featured    bool           `json:"featured"`
	Analytics   EventAnalytics `json:"analytics"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Clone returns a deep copy so callers never share slices with the catalog.
func (e Event) Clone() Event {
	e.Images = slices.Clone(e.Images)
	e.Tags = slices.Clone(e.Tags)
	return e
}

// Popularity is likes plus booked seats, the basis of popularity and relevance ordering.
func (e Event) Popularity() int {
	return e.Likes + e.Booked
}

// AvailableSpots returns the remaining capacity, never negative.
func (e Event) AvailableSpots() int {
	return max(0, e.Capacity-e.Booked)
}

// IsSoldOut reports whether every seat is taken.
func (e Event) IsSoldOut() bool {
	return e.Booked >= e.Capacity
}

// StatusAt derives the display status from the schedule. A cancelled event stays cancelled.
func (e Event) StatusAt(now time.Time) EventStatus {
	if e.Status == EventCancelled {
		return EventCancelled
	}
	switch {
	case now.Before(e.Schedule.Start):
		return EventUpcoming
	case !now.After(e.Schedule.End):
		return EventOngoing
	default:
		return EventCompleted
	}
}

// EventMetrics are the derived reporting figures shown on dashboards.
type EventMetrics struct {
	ConversionRate    float64 `json:"conversion_rate"`
	FillRate          float64 `json:"fill_rate"`
	RevenuePerBooking float64 `json:"revenue_per_booking"`
	PopularityScore   float64 `json:"popularity_score"`
}

// Metrics computes conversion, fill rate, revenue per booking and popularity score.
// Percentages are rounded to two decimals.
func (e Event) Metrics() EventMetrics {
	var m EventMetrics
	if e.Capacity > 0 && e.Analytics.Views > 0 {
		m.ConversionRate = round2(float64(e.Booked) / float64(e.Analytics.Views) * 100)
	}
	if e.Capacity > 0 {
		m.FillRate = round2(float64(e.Booked) / float64(e.Capacity) * 100)
	}
	if e.Booked > 0 {
		m.RevenuePerBooking = float64(e.Analytics.Revenue) / float64(e.Booked)
	}
	m.PopularityScore = float64(e.Likes+e.Booked) + float64(e.Analytics.Views)/10
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateEventInput is what a host supplies when publishing an event.
type CreateEventInput struct {
	Title       string      `json:"title" validate:"required,min=3"`
	Description string      `json:"description"`
	Category    Category    `json:"category" validate:"required"`
	Images      []string    `json:"images"`
	Start       time.Time   `json:"start" validate:"required"`
	End         time.Time   `json:"end" validate:"required,gtfield=Start"`
	Venue       string      `json:"venue" validate:"required"`
	Address     string      `json:"address"`
	City        string      `json:"city" validate:"required"`
	Coordinates Coordinates `json:"coordinates"`
	Price       int64       `json:"price" validate:"min=0"`
	Currency    string      `json:"currency"`
	Capacity    int         `json:"capacity" validate:"min=1"`
	Tags        []string    `json:"tags"`
	Community   string      `json:"community"`
}

// EventRepository is the read/replace contract of the catalog store for events.
type EventRepository interface {
	List(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id string) (Event, error)
	Create(ctx context.Context, e Event) error
	Replace(ctx context.Context, e Event) error
}
