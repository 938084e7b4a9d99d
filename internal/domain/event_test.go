package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() Event {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	return Event{
		ID:       "e1",
		Title:    "Go Meetup",
		Category: CategoryNetworking,
		Host:     HostRef{ID: "h1", Name: "Gophers"},
		Schedule: Schedule{Start: start, End: start.Add(3 * time.Hour)},
		Location: Location{Venue: "Hub", City: "Pune"},
		Pricing:  Pricing{Type: PricingPaid, Amount: 500, Currency: "INR"},
		Capacity: 100,
		Booked:   40,
		Status:   EventUpcoming,
		Likes:    10,
		Tags:     []string{"go"},
		Analytics: EventAnalytics{
			Views:   2000,
			Revenue: 20000,
		},
	}
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Event)
		wantErr bool
	}{
		{name: "valid", mutate: func(e *Event) {}},
		{name: "end before start", mutate: func(e *Event) { e.Schedule.End = e.Schedule.Start.Add(-time.Hour) }, wantErr: true},
		{name: "overbooked", mutate: func(e *Event) { e.Booked = e.Capacity + 1 }, wantErr: true},
		{name: "unknown category", mutate: func(e *Event) { e.Category = "sports" }, wantErr: true},
		{name: "free with amount", mutate: func(e *Event) { e.Pricing.Type = PricingFree }, wantErr: true},
		{name: "paid without amount", mutate: func(e *Event) { e.Pricing.Amount = 0 }, wantErr: true},
		{name: "free and zero", mutate: func(e *Event) { e.Pricing = Pricing{Type: PricingFree} }},
		{name: "negative likes", mutate: func(e *Event) { e.Likes = -1 }, wantErr: true},
		{name: "missing city", mutate: func(e *Event) { e.Location.City = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(&e)
			err := ValidateEvent(e)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEvent_Clone(t *testing.T) {
	e := validEvent()
	cp := e.Clone()
	cp.Tags[0] = "rust"
	assert.Equal(t, "go", e.Tags[0])
}

func TestEvent_Spots(t *testing.T) {
	e := validEvent()
	assert.Equal(t, 60, e.AvailableSpots())
	assert.False(t, e.IsSoldOut())

	e.Booked = e.Capacity
	assert.Equal(t, 0, e.AvailableSpots())
	assert.True(t, e.IsSoldOut())
	assert.Equal(t, 100, e.Popularity()-e.Likes)
}

func TestEvent_StatusAt(t *testing.T) {
	e := validEvent()
	assert.Equal(t, EventUpcoming, e.StatusAt(e.Schedule.Start.Add(-time.Minute)))
	assert.Equal(t, EventOngoing, e.StatusAt(e.Schedule.Start))
	assert.Equal(t, EventOngoing, e.StatusAt(e.Schedule.End))
	assert.Equal(t, EventCompleted, e.StatusAt(e.Schedule.End.Add(time.Second)))

	e.Status = EventCancelled
	assert.Equal(t, EventCancelled, e.StatusAt(e.Schedule.Start))
}

func TestEvent_Metrics(t *testing.T) {
	m := validEvent().Metrics()
	assert.InDelta(t, 2.0, m.ConversionRate, 1e-9)
	assert.InDelta(t, 40.0, m.FillRate, 1e-9)
	assert.InDelta(t, 500.0, m.RevenuePerBooking, 1e-9)
	assert.InDelta(t, 250.0, m.PopularityScore, 1e-9)

	empty := Event{}.Metrics()
	assert.Zero(t, empty.FillRate)
	assert.Zero(t, empty.RevenuePerBooking)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("workshops")
	assert.True(t, ok)
	assert.Equal(t, CategoryWorkshops, c)

	_, ok = ParseCategory("sports")
	assert.False(t, ok)
}
