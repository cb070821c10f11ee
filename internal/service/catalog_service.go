package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/H7KZ/Kreditozrouti-sub000/internal/models"
	appErrors "github.com/H7KZ/Kreditozrouti-sub000/pkg/errors"
)

const facetCacheKeyPrefix = "catalog:facets"

// courseCatalog is the catalog persistence surface used by the service.
type courseCatalog interface {
	Search(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Facets(ctx context.Context, semester string, year int) (*models.CourseFacets, error)
}

// CatalogService serves course search, lookup and facet aggregation.
type CatalogService struct {
	repo            courseCatalog
	cache           *CacheService
	metrics         *MetricsService
	facetTTL        time.Duration
	defaultPageSize int
	maxPageSize     int
	logger          *zap.SugaredLogger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(repo courseCatalog, cache *CacheService, metrics *MetricsService, facetTTL time.Duration, defaultPageSize, maxPageSize int, logger *zap.SugaredLogger) *CatalogService {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &CatalogService{
		repo:            repo,
		cache:           cache,
		metrics:         metrics,
		facetTTL:        facetTTL,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger,
	}
}

// Search returns a catalog page for the given filter.
func (s *CatalogService) Search(ctx context.Context, filter models.CourseFilter) ([]models.Course, models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = s.defaultPageSize
	}
	if filter.PageSize > s.maxPageSize {
		filter.PageSize = s.maxPageSize
	}

	start := time.Now()
	courses, total, err := s.repo.Search(ctx, filter)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("catalog_search", time.Since(start))
	}
	if err != nil {
		return nil, models.Pagination{}, appErrors.Wrap(err, "SEARCH_FAILED", 500, "Failed to search courses")
	}

	pagination := models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	}
	return courses, pagination, nil
}

// GetCourse loads one course with nested units and slots.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, "COURSE_LOOKUP_FAILED", 500, "Failed to load course")
	}
	return course, nil
}

// Facets returns filter facet counts, served from cache when possible. The
// returned flag reports whether the cache was hit.
func (s *CatalogService) Facets(ctx context.Context, semester string, year int) (*models.CourseFacets, bool, error) {
	key := facetCacheKey(semester, year)

	var cached models.CourseFacets
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	facets, err := s.repo.Facets(ctx, semester, year)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("catalog_facets", time.Since(start))
	}
	if err != nil {
		return nil, false, appErrors.Wrap(err, "FACETS_FAILED", 500, "Failed to aggregate facets")
	}

	if err := s.cache.Set(ctx, key, facets, s.facetTTL); err != nil && s.logger != nil {
		s.logger.Warnw("facet cache write failed", "key", key, "error", err)
	}
	return facets, false, nil
}

// WarmFacets recomputes and caches facets for a semester. Used by the
// scheduled warm job so the first request after expiry stays fast.
func (s *CatalogService) WarmFacets(ctx context.Context, semester string, year int) error {
	facets, err := s.repo.Facets(ctx, semester, year)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, facetCacheKey(semester, year), facets, s.facetTTL)
}

// InvalidateFacets drops all cached facet payloads.
func (s *CatalogService) InvalidateFacets(ctx context.Context) error {
	return s.cache.Invalidate(ctx, facetCacheKeyPrefix+":*")
}

func facetCacheKey(semester string, year int) string {
	return fmt.Sprintf("%s:%s:%d", facetCacheKeyPrefix, semester, year)
}
