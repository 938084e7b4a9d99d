package helpers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"ourhour/internal/domain"
)

// ParseCriteria reads event filter criteria from the query string.
//
// Unknown categories are dropped rather than rejected. A price range is applied only when at
// least one of min_price and max_price parses; a missing bound is open.
func ParseCriteria(r *http.Request) domain.Criteria {
	q := r.URL.Query()
	c := domain.Criteria{
		Query:    q.Get("q"),
		Location: q.Get("location"),
		City:     q.Get("city"),
		DateRange: domain.DateRange{
			Start: q.Get("start"),
			End:   q.Get("end"),
		},
		SortBy: domain.ParseSortKey(q.Get("sort")),
	}
	if cat, ok := domain.ParseCategory(q.Get("category")); ok {
		c.Category = cat
	}
	if b, err := strconv.ParseBool(q.Get("featured")); err == nil {
		c.FeaturedOnly = b
	}
	c.PriceRange = parsePriceRange(q.Get("min_price"), q.Get("max_price"))
	return c
}

func parsePriceRange(minS, maxS string) *domain.PriceRange {
	lo, loErr := strconv.ParseInt(strings.TrimSpace(minS), 10, 64)
	hi, hiErr := strconv.ParseInt(strings.TrimSpace(maxS), 10, 64)
	if loErr != nil && hiErr != nil {
		return nil
	}
	pr := &domain.PriceRange{Min: 0, Max: math.MaxInt64}
	if loErr == nil {
		pr.Min = lo
	}
	if hiErr == nil {
		pr.Max = hi
	}
	return pr
}
