package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openlot/propfinder/api/internal/cache"
	"github.com/openlot/propfinder/api/internal/geo"
	"github.com/openlot/propfinder/api/internal/logger"
	"github.com/openlot/propfinder/api/internal/models"
	"github.com/openlot/propfinder/api/internal/repository"
	"github.com/openlot/propfinder/api/internal/scoring"
)

// Filter validation bounds.
const (
	MaxRadiusMiles = 50.0
	MinLimit       = 1
	MaxLimit       = 100
	DefaultLimit   = 20
)

// searchCachePrefix keys all cached search results; mutations invalidate the
// whole prefix.
const searchCachePrefix = "properties_search"

// Service-level errors
var (
	ErrInvalidFilter    = errors.New("invalid search filter")
	ErrInvalidProperty  = errors.New("invalid property")
	ErrPropertyNotFound = errors.New("property not found")
)

// SearchFilter holds the optional search predicates. It is used only to build
// the store query and the cache key; it is never persisted.
type SearchFilter struct {
	ZipCode      *string
	MinPrice     *float64
	MaxPrice     *float64
	MinSize      *int
	MaxSize      *int
	Bedrooms     *int
	BathroomsMin *float64
	PropertyType *string
	RadiusMiles  *float64
	MinScore     *float64
	Skip         int
	Limit        int
}

// Validate rejects out-of-range filter values. Called before any store or
// cache access; invalid values are never silently clamped.
func (f *SearchFilter) Validate() error {
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fmt.Errorf("%w: min_price must be non-negative", ErrInvalidFilter)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return fmt.Errorf("%w: max_price must be non-negative", ErrInvalidFilter)
	}
	if f.MinSize != nil && *f.MinSize < 0 {
		return fmt.Errorf("%w: min_size must be non-negative", ErrInvalidFilter)
	}
	if f.MaxSize != nil && *f.MaxSize < 0 {
		return fmt.Errorf("%w: max_size must be non-negative", ErrInvalidFilter)
	}
	if f.Bedrooms != nil && *f.Bedrooms < 0 {
		return fmt.Errorf("%w: bedrooms must be non-negative", ErrInvalidFilter)
	}
	if f.BathroomsMin != nil && *f.BathroomsMin < 0 {
		return fmt.Errorf("%w: bathrooms must be non-negative", ErrInvalidFilter)
	}
	if f.RadiusMiles != nil && (*f.RadiusMiles < 0 || *f.RadiusMiles > MaxRadiusMiles) {
		return fmt.Errorf("%w: radius_miles must be between 0 and %v", ErrInvalidFilter, MaxRadiusMiles)
	}
	if f.MinScore != nil && (*f.MinScore < 0 || *f.MinScore > 100) {
		return fmt.Errorf("%w: min_score must be between 0 and 100", ErrInvalidFilter)
	}
	if f.Skip < 0 {
		return fmt.Errorf("%w: skip must be non-negative", ErrInvalidFilter)
	}
	if f.Limit < MinLimit || f.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between %d and %d", ErrInvalidFilter, MinLimit, MaxLimit)
	}
	return nil
}

// cacheParams maps the filter to named cache-key parameters. Absent values
// are dropped by the key builder, so two equal filter sets always share a key.
// The requesting user is deliberately excluded: cache entries are shared and
// favorite annotation is applied after retrieval.
func (f *SearchFilter) cacheParams() map[string]interface{} {
	return map[string]interface{}{
		"zip_code":      f.ZipCode,
		"min_price":     f.MinPrice,
		"max_price":     f.MaxPrice,
		"min_size":      f.MinSize,
		"max_size":      f.MaxSize,
		"bedrooms":      f.Bedrooms,
		"bathrooms":     f.BathroomsMin,
		"property_type": f.PropertyType,
		"radius_miles":  f.RadiusMiles,
		"min_score":     f.MinScore,
		"skip":          f.Skip,
		"limit":         f.Limit,
	}
}

func (f *SearchFilter) storeQuery() repository.SearchQuery {
	return repository.SearchQuery{
		ZipCode:      f.ZipCode,
		MinPrice:     f.MinPrice,
		MaxPrice:     f.MaxPrice,
		MinSize:      f.MinSize,
		MaxSize:      f.MaxSize,
		Bedrooms:     f.Bedrooms,
		BathroomsMin: f.BathroomsMin,
		PropertyType: f.PropertyType,
		MinScore:     f.MinScore,
		Skip:         f.Skip,
		Limit:        f.Limit,
	}
}

// PropertySnapshot is a property as returned to clients, annotated with
// whether the requesting user has favorited it. IsFavorited is applied after
// cache retrieval and is never part of what the shared cache stores as truth.
type PropertySnapshot struct {
	models.Property
	IsFavorited bool `json:"is_favorited"`
}

// CreatePropertyInput carries the raw listing attributes for ingestion.
// EstimatedRent and the profitability score are derived, not supplied.
type CreatePropertyInput struct {
	Address      string
	City         string
	State        string
	ZipCode      string
	PropertyType string
	ImageURL     *string
	YearBuilt    *int
	Lat          *float64
	Lng          *float64
	Price        float64
	Bathrooms    float64
	SizeSqft     int
	Bedrooms     int
}

// PropertyService defines the property search and ingestion operations.
type PropertyService interface {
	// Search returns property snapshots matching the filter, ordered by
	// profitability score descending, annotated with favorite status for
	// the requesting user (userID may be nil for anonymous requests).
	// Returns ErrInvalidFilter before touching store or cache when the
	// filter is out of range.
	Search(ctx context.Context, filter SearchFilter, userID *int64) ([]PropertySnapshot, error)

	// GetByID returns a single annotated property snapshot.
	// Returns ErrPropertyNotFound when no such property exists.
	GetByID(ctx context.Context, id int64, userID *int64) (*PropertySnapshot, error)

	// Create ingests a listing, computing its estimated rent and
	// profitability score exactly once, and invalidates cached searches.
	Create(ctx context.Context, input CreatePropertyInput) (*models.Property, error)
}

// propertyService is the concrete implementation of PropertyService.
type propertyService struct {
	repo      repository.PropertyRepository
	favorites repository.FavoriteRepository
	cache     cache.Cache
	cacheTTL  time.Duration
	log       *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService. cacheTTL is
// the lifetime of cached search results.
func NewPropertyService(
	repo repository.PropertyRepository,
	favorites repository.FavoriteRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) PropertyService {
	return &propertyService{
		repo:      repo,
		favorites: favorites,
		cache:     c,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// Search implements the search pipeline: validate, cache lookup, store query
// with score ordering and pagination, radius post-filter, cache store, and
// finally per-user favorite annotation.
func (s *propertyService) Search(ctx context.Context, filter SearchFilter, userID *int64) ([]PropertySnapshot, error) {
	if err := filter.Validate(); err != nil {
		s.log.Warn("Rejected search filter", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	key := cache.Key(searchCachePrefix, filter.cacheParams())

	snapshots, hit := s.cachedSnapshots(ctx, key)
	if !hit {
		var err error
		snapshots, err = s.queryAndFilter(ctx, filter)
		if err != nil {
			return nil, err
		}
		s.storeSnapshots(ctx, key, snapshots)
	}

	if userID != nil {
		if err := s.annotateFavorites(ctx, snapshots, *userID); err != nil {
			return nil, err
		}
	}

	s.log.Info("Property search completed", map[string]interface{}{
		"cache_hit": hit,
		"count":     len(snapshots),
	})

	return snapshots, nil
}

// cachedSnapshots attempts a cache read. Any cache failure, including a
// corrupt entry, degrades to a miss — the cache is best-effort.
func (s *propertyService) cachedSnapshots(ctx context.Context, key string) ([]PropertySnapshot, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("Cache read failed, falling back to store", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var snapshots []PropertySnapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		s.log.Warn("Discarding corrupt cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	return snapshots, true
}

// storeSnapshots writes search results to the cache. Write failures are
// logged and swallowed.
func (s *propertyService) storeSnapshots(ctx context.Context, key string, snapshots []PropertySnapshot) {
	data, err := json.Marshal(snapshots)
	if err != nil {
		s.log.Warn("Failed to serialize search results for cache", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	if err := s.cache.Put(ctx, key, data, s.cacheTTL); err != nil {
		s.log.Warn("Cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// queryAndFilter runs the store query and applies the radius post-filter.
// Pagination happens in the store query, before the radius filter: the page
// bounds the candidate set and radius filtering can only shrink it.
func (s *propertyService) queryAndFilter(ctx context.Context, filter SearchFilter) ([]PropertySnapshot, error) {
	properties, err := s.repo.Search(ctx, filter.storeQuery())
	if err != nil {
		s.log.Error("Property store query failed", err, nil)
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}

	if filter.RadiusMiles != nil && *filter.RadiusMiles > 0 && filter.ZipCode != nil && len(properties) > 0 {
		properties, err = s.applyRadiusFilter(ctx, properties, *filter.ZipCode, *filter.RadiusMiles)
		if err != nil {
			return nil, err
		}
	}

	snapshots := make([]PropertySnapshot, 0, len(properties))
	for _, p := range properties {
		snapshots = append(snapshots, PropertySnapshot{Property: p})
	}
	return snapshots, nil
}

// applyRadiusFilter keeps only properties within radiusMiles of the reference
// point for the zip code. The reference is the first property row with that
// zip and non-null coordinates; when none exists the filter is a no-op.
// Properties without coordinates are excluded once a reference is found.
func (s *propertyService) applyRadiusFilter(ctx context.Context, properties []models.Property, zipCode string, radiusMiles float64) ([]models.Property, error) {
	ref, err := s.repo.FindZipReference(ctx, zipCode)
	if err != nil {
		s.log.Error("Zip reference lookup failed", err, map[string]interface{}{
			"zip_code": zipCode,
		})
		return nil, fmt.Errorf("failed to resolve radius reference point: %w", err)
	}
	if ref == nil || !ref.HasCoordinates() {
		s.log.Debug("No radius reference point for zip, skipping radius filter", map[string]interface{}{
			"zip_code": zipCode,
		})
		return properties, nil
	}

	filtered := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if !p.HasCoordinates() {
			continue
		}
		distance := geo.DistanceMiles(*ref.Lat, *ref.Lng, *p.Lat, *p.Lng)
		if distance <= radiusMiles {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// annotateFavorites marks each snapshot with the requesting user's favorite
// status. The annotation is applied after cache retrieval so cache entries
// stay shareable across users.
func (s *propertyService) annotateFavorites(ctx context.Context, snapshots []PropertySnapshot, userID int64) error {
	favoriteIDs, err := s.favorites.PropertyIDsByUser(ctx, userID)
	if err != nil {
		s.log.Error("Favorite lookup failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	for i := range snapshots {
		_, ok := favoriteIDs[snapshots[i].ID]
		snapshots[i].IsFavorited = ok
	}
	return nil
}

// GetByID returns a single property annotated with favorite status.
func (s *propertyService) GetByID(ctx context.Context, id int64, userID *int64) (*PropertySnapshot, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Property lookup failed", err, map[string]interface{}{
			"property_id": id,
		})
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	snapshot := &PropertySnapshot{Property: *property}
	if userID != nil {
		favorite, err := s.favorites.Find(ctx, *userID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check favorite status: %w", err)
		}
		snapshot.IsFavorited = favorite != nil
	}

	return snapshot, nil
}

// Create ingests a listing. The rent estimate and profitability score are
// computed here, exactly once; reads never recompute them.
func (s *propertyService) Create(ctx context.Context, input CreatePropertyInput) (*models.Property, error) {
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", ErrInvalidProperty)
	}
	if input.SizeSqft <= 0 {
		return nil, fmt.Errorf("%w: size_sqft must be positive", ErrInvalidProperty)
	}
	if input.Bedrooms < 0 {
		return nil, fmt.Errorf("%w: bedrooms must be non-negative", ErrInvalidProperty)
	}
	if input.Bathrooms < 0 {
		return nil, fmt.Errorf("%w: bathrooms must be non-negative", ErrInvalidProperty)
	}

	rent := scoring.EstimateMonthlyRent(input.Price, input.SizeSqft, input.Bedrooms)
	score := scoring.CalculateProfitabilityScore(input.Price, input.SizeSqft, &rent, input.YearBuilt, input.PropertyType)

	property := &models.Property{
		Address:            input.Address,
		City:               input.City,
		State:              input.State,
		ZipCode:            input.ZipCode,
		PropertyType:       input.PropertyType,
		ImageURL:           input.ImageURL,
		YearBuilt:          input.YearBuilt,
		Lat:                input.Lat,
		Lng:                input.Lng,
		Price:              input.Price,
		Bathrooms:          input.Bathrooms,
		SizeSqft:           input.SizeSqft,
		Bedrooms:           input.Bedrooms,
		EstimatedRent:      &rent,
		ProfitabilityScore: score,
	}

	if err := s.repo.Create(ctx, property); err != nil {
		s.log.Error("Property insert failed", err, nil)
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	// Cached searches are stale once the table changes; best-effort clear.
	if n, err := s.cache.DeletePattern(ctx, searchCachePrefix+":*"); err != nil {
		s.log.Warn("Search cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
	} else if n > 0 {
		s.log.Debug("Invalidated cached searches", map[string]interface{}{
			"entries": n,
		})
	}

	s.log.Info("Property created", map[string]interface{}{
		"property_id": property.ID,
		"score":       property.ProfitabilityScore,
	})

	return property, nil
}
