package biz

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Wassit-app/backend/internal/pkg/cache"
	apperrors "github.com/Wassit-app/backend/internal/pkg/errors"
	"github.com/Wassit-app/backend/internal/pkg/geo"
	"github.com/Wassit-app/backend/internal/pkg/logger"
)

const (
	// DefaultSearchRadiusKm bounds results when the caller gives no radius.
	DefaultSearchRadiusKm = 10.0
	MinSearchRadiusKm     = 0.1
	MaxSearchRadiusKm     = 50.0

	DefaultSearchPage  = 1
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

// SearchQuery is a normalized location search request.
type SearchQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Category  *Category
	MinPrice  *float64
	MaxPrice  *float64
	Page      int
	Limit     int
}

// Normalize fills defaults for fields the caller left unset (zero).
// Values the caller did supply are left alone for Validate to judge.
func (q *SearchQuery) Normalize() {
	if q.RadiusKm == 0 {
		q.RadiusKm = DefaultSearchRadiusKm
	}
	if q.Page == 0 {
		q.Page = DefaultSearchPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultSearchLimit
	}
}

// Validate rejects malformed queries before any storage access.
// Out-of-range values are errors, not clamped.
func (q *SearchQuery) Validate() error {
	if !geo.IsValid(q.Latitude, q.Longitude) {
		return apperrors.New(apperrors.ErrInvalidCoordinates)
	}
	if q.RadiusKm < MinSearchRadiusKm || q.RadiusKm > MaxSearchRadiusKm {
		return apperrors.New(apperrors.ErrInvalidSearchQuery,
			fmt.Sprintf("radiusKm must be between %v and %v", MinSearchRadiusKm, MaxSearchRadiusKm))
	}
	if q.Page < 1 {
		return apperrors.New(apperrors.ErrInvalidSearchQuery, "page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > MaxSearchLimit {
		return apperrors.New(apperrors.ErrInvalidSearchQuery,
			fmt.Sprintf("limit must be between 1 and %d", MaxSearchLimit))
	}
	if q.MinPrice != nil && *q.MinPrice < 0 {
		return apperrors.New(apperrors.ErrInvalidSearchQuery, "minPrice must not be negative")
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return apperrors.New(apperrors.ErrInvalidSearchQuery, "maxPrice must not be negative")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return apperrors.New(apperrors.ErrInvalidSearchQuery, "minPrice must not exceed maxPrice")
	}
	return nil
}

// cacheKey derives the cache key from every field that shapes the
// result set, price bounds included.
func (q *SearchQuery) cacheKey() string {
	category := "all"
	if q.Category != nil {
		category = string(*q.Category)
	}
	minPrice, maxPrice := "any", "any"
	if q.MinPrice != nil {
		minPrice = fmt.Sprint(*q.MinPrice)
	}
	if q.MaxPrice != nil {
		maxPrice = fmt.Sprint(*q.MaxPrice)
	}
	return cache.Key("mealsByLocation",
		q.Latitude, q.Longitude, q.RadiusKm,
		category, minPrice, maxPrice,
		q.Page, q.Limit,
	)
}

// SearchResult is one meal in a search response, with the computed
// distance from the query point.
type SearchResult struct {
	Meal       Meal     `json:"meal"`
	Chef       ChefInfo `json:"chef"`
	DistanceKm float64  `json:"distanceKm"`
}

// SearchParams echoes the effective query back to the caller.
type SearchParams struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	RadiusKm  float64  `json:"radiusKm"`
	Category  *string  `json:"category,omitempty"`
	MinPrice  *float64 `json:"minPrice,omitempty"`
	MaxPrice  *float64 `json:"maxPrice,omitempty"`
}

// SearchPage is a page of search results plus the metadata to rebuild
// the full ordered set across pages.
type SearchPage struct {
	Meals        []*SearchResult `json:"meals"`
	Pagination   Pagination      `json:"pagination"`
	SearchParams SearchParams    `json:"searchParams"`
}

// SearchUseCase runs location-based meal searches. Results are served
// from cache when a fresh entry exists for the exact same query.
type SearchUseCase struct {
	repo  MealRepo
	store cache.Store
	ttl   time.Duration
	log   *logger.Logger
}

func NewSearchUseCase(repo MealRepo, store cache.Store, cacheTTL time.Duration, log *logger.Logger) *SearchUseCase {
	if cacheTTL <= 0 {
		cacheTTL = 300 * time.Second
	}
	return &SearchUseCase{repo: repo, store: store, ttl: cacheTTL, log: log}
}

// SearchByLocation returns available meals from chefs within the query
// radius, nearest first.
//
// The storage layer answers only the indexable predicates (availability,
// category, price); the geographic filter runs here. Candidates are
// pulled in full, distance-filtered, sorted, then paginated in memory,
// so total counts reflect the post-distance set rather than the raw
// candidate set.
func (uc *SearchUseCase) SearchByLocation(ctx context.Context, query SearchQuery) (*SearchPage, error) {
	query.Normalize()
	if err := query.Validate(); err != nil {
		// Invalid queries never reach the cache or storage.
		return nil, err
	}

	return cache.GetOrCompute(ctx, uc.store, uc.log, query.cacheKey(), uc.ttl, func(ctx context.Context) (*SearchPage, error) {
		return uc.search(ctx, query)
	})
}

func (uc *SearchUseCase) search(ctx context.Context, query SearchQuery) (*SearchPage, error) {
	filter := ListFilter{
		AvailableOnly: true,
		Category:      query.Category,
		MinPrice:      query.MinPrice,
		MaxPrice:      query.MaxPrice,
	}
	candidates, err := uc.repo.ListWithChef(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	origin := geo.Coordinate{Latitude: query.Latitude, Longitude: query.Longitude}

	results := make([]*SearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		chef := candidate.Chef
		// Chefs without a stored location are unreachable by a
		// geographic search and are silently excluded.
		if chef.Latitude == nil || chef.Longitude == nil {
			continue
		}
		distance := geo.DistanceKm(origin, geo.Coordinate{
			Latitude:  *chef.Latitude,
			Longitude: *chef.Longitude,
		})
		if distance > query.RadiusKm {
			continue
		}
		results = append(results, &SearchResult{
			Meal:       candidate.Meal,
			Chef:       chef,
			DistanceKm: geo.Round2(distance),
		})
	}

	// Nearest first; meal ID breaks ties so pages are stable across
	// identical queries.
	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return results[i].Meal.ID < results[j].Meal.ID
	})

	total := int64(len(results))
	start := (query.Page - 1) * query.Limit
	end := start + query.Limit
	if start > len(results) {
		start = len(results)
	}
	if end > len(results) {
		end = len(results)
	}

	var category *string
	if query.Category != nil {
		s := string(*query.Category)
		category = &s
	}

	return &SearchPage{
		Meals:      results[start:end],
		Pagination: buildPagination(query.Page, query.Limit, total),
		SearchParams: SearchParams{
			Latitude:  query.Latitude,
			Longitude: query.Longitude,
			RadiusKm:  query.RadiusKm,
			Category:  category,
			MinPrice:  query.MinPrice,
			MaxPrice:  query.MaxPrice,
		},
	}, nil
}
