package service

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// Sort keys accepted by Search.  The French spellings are the keys the
// web client has always sent; the English ones are aliases.
const (
	SortDistance  = "distance"
	SortRating    = "note"
	SortPopular   = "popularite"
	SortPriceAsc  = "prix_asc"
	SortPriceDesc = "prix_desc"
	SortCapacity  = "capacite"
)

var sortAliases = map[string]string{
	"rating":     SortRating,
	"popularity": SortPopular,
	"price_asc":  SortPriceAsc,
	"price_desc": SortPriceDesc,
	"capacity":   SortCapacity,
}

// SearchQuery defines filters, ordering and pagination for Search.  Nil
// pointers and empty strings disable the corresponding filter.
type SearchQuery struct {
	Name        string
	CuisineType string
	MinRating   *float64
	MinPrice    *float64
	MaxPrice    *float64
	MinCapacity *int
	MaxCapacity *int
	OpenNow     bool
	Latitude    *float64
	Longitude   *float64
	RadiusKm    *float64
	Sort        string
	Page        int // 1-based; values below 1 mean the first page
	PageSize    int // 0 returns every match
}

// HasOrigin reports whether both coordinates were supplied.
func (q SearchQuery) HasOrigin() bool { return q.Latitude != nil && q.Longitude != nil }

// SearchHit is a matching restaurant with its distance from the query
// origin.  Distance is nil when the query carried no coordinates.
type SearchHit struct {
	Restaurant model.Restaurant
	Distance   *float64
}

// SearchResult is one page of hits plus the number of matches before
// pagination.
type SearchResult struct {
	Hits  []SearchHit
	Total int
}

// Search filters, orders and paginates a snapshot of restaurants.  It
// never modifies the input slice.
func Search(restaurants []model.Restaurant, q SearchQuery, now time.Time) SearchResult {
	name := strings.ToLower(strings.TrimSpace(q.Name))
	cuisine := strings.ToLower(strings.TrimSpace(q.CuisineType))
	origin := q.HasOrigin()

	hits := make([]SearchHit, 0, len(restaurants))
	for _, r := range restaurants {
		if name != "" && !strings.Contains(strings.ToLower(r.Name), name) {
			continue
		}
		if cuisine != "" && !strings.Contains(strings.ToLower(r.CuisineType), cuisine) {
			continue
		}
		if q.MinRating != nil && r.Rating < *q.MinRating {
			continue
		}
		if !inRange(r.AveragePrice, q.MinPrice, q.MaxPrice) {
			continue
		}
		if !inRange(r.TotalCapacity, q.MinCapacity, q.MaxCapacity) {
			continue
		}
		hit := SearchHit{Restaurant: r}
		if origin {
			d := Haversine(*q.Latitude, *q.Longitude, r.Latitude, r.Longitude)
			if q.RadiusKm != nil && !(d <= *q.RadiusKm) {
				continue
			}
			hit.Distance = &d
		}
		if q.OpenNow && !isOpen(r.OpenTime, r.CloseTime, now) {
			continue
		}
		hits = append(hits, hit)
	}

	if less := comparator(q.Sort, origin); less != nil {
		slices.SortStableFunc(hits, less)
	}

	return SearchResult{Hits: paginate(hits, q.Page, q.PageSize), Total: len(hits)}
}

// inRange reports whether v satisfies the inclusive bounds.  A nil value
// fails as soon as any bound is set.
func inRange[T cmp.Ordered](v, lo, hi *T) bool {
	if lo == nil && hi == nil {
		return true
	}
	if v == nil {
		return false
	}
	if lo != nil && *v < *lo {
		return false
	}
	if hi != nil && *v > *hi {
		return false
	}
	return true
}

// comparator returns the ordering for key, or nil to keep input order.
func comparator(key string, origin bool) func(a, b SearchHit) int {
	key = strings.ToLower(strings.TrimSpace(key))
	if alias, ok := sortAliases[key]; ok {
		key = alias
	}
	switch key {
	case SortDistance:
		if !origin {
			return nil
		}
		return func(a, b SearchHit) int { return cmp.Compare(*a.Distance, *b.Distance) }
	case SortRating:
		return func(a, b SearchHit) int { return cmp.Compare(b.Restaurant.Rating, a.Restaurant.Rating) }
	case SortPopular:
		return func(a, b SearchHit) int { return cmp.Compare(b.Restaurant.ReviewCount, a.Restaurant.ReviewCount) }
	case SortPriceAsc:
		return func(a, b SearchHit) int { return compareNilLast(a.Restaurant.AveragePrice, b.Restaurant.AveragePrice, false) }
	case SortPriceDesc:
		return func(a, b SearchHit) int { return compareNilLast(a.Restaurant.AveragePrice, b.Restaurant.AveragePrice, true) }
	case SortCapacity:
		return func(a, b SearchHit) int { return compareNilLast(a.Restaurant.TotalCapacity, b.Restaurant.TotalCapacity, true) }
	}
	return nil
}

// compareNilLast orders non-nil values ascending (or descending) and
// places nil values after all of them.
func compareNilLast[T cmp.Ordered](a, b *T, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if desc {
		return cmp.Compare(*b, *a)
	}
	return cmp.Compare(*a, *b)
}

func paginate(hits []SearchHit, page, size int) []SearchHit {
	if size <= 0 {
		return hits
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(hits) {
		return []SearchHit{}
	}
	end := min(start+size, len(hits))
	return hits[start:end]
}
