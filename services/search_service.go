package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/snap-point/directory-api/cache"
	"github.com/snap-point/directory-api/types"
)

var (
	// ErrProviderRequired is returned when no places provider is given.
	ErrProviderRequired = errors.New("places provider required")

	// ErrCacheRequired is returned when no result cache is given.
	ErrCacheRequired = errors.New("result cache required")
)

// PlacesProvider is the outbound places-search integration.
type PlacesProvider interface {
	TextSearch(ctx context.Context, q types.ProviderQuery) ([]types.PlaceResult, error)
	Details(ctx context.Context, placeID string) (*types.PlaceDetails, error)
	PhotoURL(photoReference string, maxWidth int) string
}

// SearchService answers business searches: it validates the request, serves
// repeats from the result cache and otherwise queries the provider, ranks the
// results and caches the formatted response.
type SearchService struct {
	provider      PlacesProvider
	results       *cache.Cache[*types.SearchResponse]
	detailsStore  DetailsStore
	detailWorkers int
	detailPool    *ants.Pool
	maxResults    int
	logger        *slog.Logger
}

// Option configures a SearchService.
type Option func(*SearchService) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *SearchService) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDetailsStore enables the persistent read-through cache for business
// details.
func WithDetailsStore(store DetailsStore) Option {
	return func(s *SearchService) error {
		s.detailsStore = store
		return nil
	}
}

// WithDetailWorkers sets the worker pool size used by
// GetBusinessDetailsBatch. Default is 4.
func WithDetailWorkers(n int) Option {
	return func(s *SearchService) error {
		if n > 0 {
			s.detailWorkers = n
		}
		return nil
	}
}

// WithMaxResults overrides the number of businesses kept per response.
// Default is MaxResults.
func WithMaxResults(n int) Option {
	return func(s *SearchService) error {
		if n > 0 {
			s.maxResults = n
		}
		return nil
	}
}

// NewSearchService creates a new search service. The caller owns the cache
// and is responsible for starting and closing its sweeper.
func NewSearchService(provider PlacesProvider, results *cache.Cache[*types.SearchResponse], opts ...Option) (*SearchService, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if results == nil {
		return nil, ErrCacheRequired
	}

	s := &SearchService{
		provider:      provider,
		results:       results,
		detailWorkers: 4,
		maxResults:    MaxResults,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(s.detailWorkers)
	if err != nil {
		return nil, err
	}
	s.detailPool = pool

	return s, nil
}

// Release frees the details worker pool. The service should not be used
// after calling Release.
func (s *SearchService) Release() {
	if s.detailPool != nil {
		s.detailPool.Release()
	}
}

// Search runs a business search. Validation failures are returned before the
// cache or the provider is consulted; provider failures are never cached.
func (s *SearchService) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Category != "" && !req.Category.Known() {
		s.logger.Warn("unknown category, using default place types", "category", req.Category)
	}

	key := CacheKey(req)
	if cached, ok := s.results.Get(key); ok {
		s.logger.Debug("search cache hit", "key", key)
		if cached.Unit != req.Unit.Normalize() {
			return reformat(cached, req.Unit), nil
		}
		return cached, nil
	}

	query, err := BuildProviderQuery(req)
	if err != nil {
		return nil, err
	}

	raw, err := s.provider.TextSearch(ctx, query)
	if err != nil {
		s.logger.Error("places search failed", "query", query.Text, "err", err)
		return nil, err
	}

	businesses := BuildBusinesses(raw, req)
	businesses = RankBusinesses(businesses, req, s.maxResults)
	resp := FormatResponse(businesses, req.Unit)

	s.results.Set(key, resp)
	s.logger.Info("search completed", "query", query.Text, "results", resp.Count)

	return resp, nil
}

// reformat re-selects the presented distance of a cached response for a
// different unit. The cache key excludes the unit, so a response stored for
// miles may be served to a kilometers request.
func reformat(cached *types.SearchResponse, unit types.Unit) *types.SearchResponse {
	unit = unit.Normalize()
	out := &types.SearchResponse{
		Businesses: make([]types.BusinessResult, len(cached.Businesses)),
		Count:      cached.Count,
		Unit:       unit,
	}
	for i, b := range cached.Businesses {
		b.DistanceUnit = unit
		if unit == types.UnitKilometers {
			b.Distance = b.DistanceKm
		} else {
			b.Distance = b.DistanceMiles
		}
		out.Businesses[i] = b
	}
	return out
}
