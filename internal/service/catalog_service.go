package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/redisclient"
	"storefront/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrProductNotFound is returned when a product is neither upstream nor curated.
var ErrProductNotFound = errors.New("product not found")

// sharedLoadTimeout bounds a remote catalog load shared by concurrent callers.
const sharedLoadTimeout = 30 * time.Second

// Where a product listing came from.
const (
	SourceLive     = "live"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// ProductSource is the remote catalog.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id models.ProductID) (models.Product, error)
}

// ProductCache holds the last good product list.
type ProductCache interface {
	CachedProducts(ctx context.Context) ([]models.Product, error)
	CacheProducts(ctx context.Context, products []models.Product, ttl time.Duration) error
	InvalidateProducts(ctx context.Context) error
}

// Listing is a product list together with its origin.
type Listing struct {
	Products []models.Product `json:"products"`
	Source   string           `json:"source"`
}

// CatalogService loads products from the cache, then the remote API, and
// falls back to the curated list when the remote API is unavailable.
type CatalogService struct {
	source   ProductSource
	cache    ProductCache
	cacheTTL time.Duration
	group    singleflight.Group
	logger   *zap.Logger
}

// NewCatalogService creates a catalog service. cache may be nil.
func NewCatalogService(source ProductSource, cache ProductCache, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// Products returns the full catalog. It never fails: when neither the cache
// nor the remote API answers, the curated list is served.
func (s *CatalogService) Products(ctx context.Context) Listing {
	ctx, span := util.StartSpan(ctx, "CatalogService.Products")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.CachedProducts(ctx)
		if err == nil {
			util.CatalogLoadsTotal.WithLabelValues(SourceCache).Inc()
			return Listing{Products: cached, Source: SourceCache}
		}
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			s.logger.Warn("Product cache read failed", zap.Error(err))
		}
	}

	products, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("Remote catalog unavailable, serving curated products", zap.Error(err))
		util.CatalogLoadsTotal.WithLabelValues(SourceFallback).Inc()
		return Listing{Products: catalog.CuratedProducts(), Source: SourceFallback}
	}

	util.CatalogLoadsTotal.WithLabelValues(SourceLive).Inc()
	return Listing{Products: products, Source: SourceLive}
}

// load fetches from the remote API and refills the cache. Concurrent callers
// share one request, which runs on a context detached from the caller that
// started it and bounded by sharedLoadTimeout.
func (s *CatalogService) load(ctx context.Context) ([]models.Product, error) {
	v, err, _ := s.group.Do("products", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		products, err := s.source.ListProducts(loadCtx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.CacheProducts(loadCtx, products, s.cacheTTL); err != nil {
				s.logger.Warn("Failed to cache products", zap.Error(err))
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Product), nil
}

// Browse returns the catalog narrowed by criteria.
func (s *CatalogService) Browse(ctx context.Context, criteria models.FilterCriteria) Listing {
	listing := s.Products(ctx)
	listing.Products = catalog.ApplyFilters(listing.Products, criteria)
	return listing
}

// Product looks id up remotely, then in the curated list.
func (s *CatalogService) Product(ctx context.Context, id models.ProductID) (models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Product")
	defer span.End()

	product, err := s.source.GetProduct(ctx, id)
	if err == nil {
		return product, nil
	}

	if curated, ok := catalog.FindCurated(id); ok {
		s.logger.Debug("Serving curated product",
			zap.String("product_id", string(id)),
			zap.NamedError("remote_error", err))
		return curated, nil
	}
	return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// Refresh drops the cached list and reloads it from the remote API.
func (s *CatalogService) Refresh(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.Refresh")
	defer span.End()

	if s.cache != nil {
		if err := s.cache.InvalidateProducts(ctx); err != nil {
			return fmt.Errorf("failed to invalidate product cache: %w", err)
		}
	}

	products, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload catalog: %w", err)
	}

	s.logger.Info("Catalog refreshed", zap.Int("products", len(products)))
	return nil
}
