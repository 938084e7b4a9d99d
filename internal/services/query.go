package services

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"ourhour/internal/domain"
)

// RecommendLimit caps the size of a recommendation list.
const RecommendLimit = 10

const (
	interestMatchBonus = 100
	featuredBonus      = 50
)

// FilterEvents returns the events satisfying every non-empty predicate of c, in input order.
// The input slice is never modified.
func FilterEvents(events []domain.Event, c domain.Criteria) []domain.Event {
	query := strings.ToLower(strings.TrimSpace(c.Query))
	location := strings.ToLower(strings.TrimSpace(c.Location))
	start, end, useDates := c.DateRange.Bounds()

	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if query != "" && !matchesText(e, query) {
			continue
		}
		if c.Category != "" && e.Category != c.Category {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(e.Location.Address), location) {
			continue
		}
		if c.City != "" && e.Location.City != c.City {
			continue
		}
		if useDates && (e.Schedule.Start.Before(start) || e.Schedule.Start.After(end)) {
			continue
		}
		if c.PriceRange != nil && (e.Pricing.Amount < c.PriceRange.Min || e.Pricing.Amount > c.PriceRange.Max) {
			continue
		}
		if c.FeaturedOnly && !e.Featured {
			continue
		}
		out = append(out, e)
	}
	return out
}

// matchesText reports whether the lowercased needle occurs in the title, description, host name
// or any tag.
func matchesText(e domain.Event, needle string) bool {
	if strings.Contains(strings.ToLower(e.Title), needle) ||
		strings.Contains(strings.ToLower(e.Description), needle) ||
		strings.Contains(strings.ToLower(e.Host.Name), needle) {
		return true
	}
	return slices.ContainsFunc(e.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), needle)
	})
}

// SortEvents returns a stably sorted copy of events. Unknown keys sort by relevance.
func SortEvents(events []domain.Event, key domain.SortKey) []domain.Event {
	out := slices.Clone(events)
	switch key {
	case domain.SortDate:
		slices.SortStableFunc(out, func(a, b domain.Event) int {
			return a.Schedule.Start.Compare(b.Schedule.Start)
		})
	case domain.SortPrice:
		slices.SortStableFunc(out, func(a, b domain.Event) int {
			return cmp.Compare(a.Pricing.Amount, b.Pricing.Amount)
		})
	case domain.SortPopularity:
		slices.SortStableFunc(out, func(a, b domain.Event) int {
			return cmp.Compare(b.Popularity(), a.Popularity())
		})
	default:
		slices.SortStableFunc(out, compareRelevance)
	}
	return out
}

// compareRelevance puts featured events first, then orders by popularity descending.
func compareRelevance(a, b domain.Event) int {
	if a.Featured != b.Featured {
		if a.Featured {
			return -1
		}
		return 1
	}
	return cmp.Compare(b.Popularity(), a.Popularity())
}

// SearchEvents applies only the free-text predicate. Empty or whitespace text returns every event.
func SearchEvents(events []domain.Event, text string) []domain.Event {
	if strings.TrimSpace(text) == "" {
		return slices.Clone(events)
	}
	return FilterEvents(events, domain.Criteria{Query: text})
}

// RecommendEvents ranks upcoming events by popularity, interest overlap and featured status and
// returns at most RecommendLimit of them.
func RecommendEvents(events []domain.Event, interests []string) []domain.Event {
	type scored struct {
		event domain.Event
		score int
	}
	candidates := make([]scored, 0, len(events))
	for _, e := range events {
		if e.Status != domain.EventUpcoming {
			continue
		}
		candidates = append(candidates, scored{event: e, score: recommendationScore(e, interests)})
	}
	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(candidates) > RecommendLimit {
		candidates = candidates[:RecommendLimit]
	}
	out := make([]domain.Event, len(candidates))
	for i, c := range candidates {
		out[i] = c.event
	}
	return out
}

func recommendationScore(e domain.Event, interests []string) int {
	score := e.Popularity()
	for _, tag := range e.Tags {
		if slices.Contains(interests, tag) {
			score += interestMatchBonus
		}
	}
	if e.Featured {
		score += featuredBonus
	}
	return score
}

// EventsByCategory returns the events in category c, in input order.
func EventsByCategory(events []domain.Event, c domain.Category) []domain.Event {
	return FilterEvents(events, domain.Criteria{Category: c})
}

// FeaturedEvents returns featured events that have not started yet at now.
func FeaturedEvents(events []domain.Event, now time.Time) []domain.Event {
	var out []domain.Event
	for _, e := range events {
		if e.Featured && e.StatusAt(now) == domain.EventUpcoming {
			out = append(out, e)
		}
	}
	return out
}

// UpcomingEvents returns events that have not started yet at now, soonest first.
func UpcomingEvents(events []domain.Event, now time.Time) []domain.Event {
	var out []domain.Event
	for _, e := range events {
		if e.StatusAt(now) == domain.EventUpcoming {
			out = append(out, e)
		}
	}
	return SortEvents(out, domain.SortDate)
}

// CategoryCounts returns the number of events per category in display order, including empty
// categories.
func CategoryCounts(events []domain.Event) []domain.CategoryCount {
	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, e := range events {
		counts[e.Category]++
	}
	out := make([]domain.CategoryCount, len(domain.Categories))
	for i, c := range domain.Categories {
		out[i] = domain.CategoryCount{Category: c, Count: counts[c]}
	}
	return out
}

// Paginate returns the page of events described by p. Out of range pages are empty.
func Paginate(events []domain.Event, p domain.PaginationParams) []domain.Event {
	if p.PageSize <= 0 {
		return events
	}
	off := p.Offset()
	if off >= len(events) {
		return []domain.Event{}
	}
	return events[off:min(off+p.PageSize, len(events))]
}

// FilterCommunities matches query against name and description and category exactly.
// An empty category or "All" does not narrow the result.
func FilterCommunities(communities []domain.Community, query, category string) []domain.Community {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Community, 0, len(communities))
	for _, cm := range communities {
		if q != "" && !strings.Contains(strings.ToLower(cm.Name), q) && !strings.Contains(strings.ToLower(cm.Description), q) {
			continue
		}
		if category != "" && category != domain.AllCommunityCategories && cm.Category != category {
			continue
		}
		out = append(out, cm)
	}
	return out
}
