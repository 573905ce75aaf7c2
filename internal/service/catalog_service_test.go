package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/redisclient"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	products []models.Product
	err      error
	calls    int32
	release  chan struct{}
	byID     map[models.ProductID]models.Product
}

func (f *fakeSource) ListProducts(ctx context.Context) ([]models.Product, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeSource) GetProduct(_ context.Context, id models.ProductID) (models.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return models.Product{}, errors.New("upstream returned 404")
}

type fakeCache struct {
	mu          sync.Mutex
	products    []models.Product
	readErr     error
	ttl         time.Duration
	invalidated int
}

func (f *fakeCache) CachedProducts(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.products == nil {
		return nil, redisclient.ErrCacheMiss
	}
	return f.products, nil
}

func (f *fakeCache) CacheProducts(_ context.Context, products []models.Product, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = products
	f.ttl = ttl
	return nil
}

func (f *fakeCache) InvalidateProducts(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = nil
	f.invalidated++
	return nil
}

func liveProducts() []models.Product {
	return []models.Product{
		{ID: "10", Name: "Heirloom Tomato", Price: decimal.RequireFromString("1.25"), Category: models.CategoryVegetables, Vegan: true},
		{ID: "11", Name: "Goat Cheese", Price: decimal.RequireFromString("6.00"), Category: models.CategoryDairy},
	}
}

func TestCatalogService_LiveThenCache(t *testing.T) {
	source := &fakeSource{products: liveProducts()}
	cache := &fakeCache{}
	svc := NewCatalogService(source, cache, time.Minute)
	ctx := context.Background()

	listing := svc.Products(ctx)
	assert.Equal(t, SourceLive, listing.Source)
	assert.Len(t, listing.Products, 2)
	assert.Equal(t, time.Minute, cache.ttl)

	listing = svc.Products(ctx)
	assert.Equal(t, SourceCache, listing.Source)
	assert.Len(t, listing.Products, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&source.calls))
}

func TestCatalogService_FallbackToCurated(t *testing.T) {
	svc := NewCatalogService(&fakeSource{err: errors.New("connection refused")}, nil, time.Minute)

	listing := svc.Products(context.Background())
	assert.Equal(t, SourceFallback, listing.Source)
	require.Len(t, listing.Products, 8)
	assert.Equal(t, "Organic Avocado", listing.Products[0].Name)
}

func TestCatalogService_CacheErrorFallsThrough(t *testing.T) {
	source := &fakeSource{products: liveProducts()}
	svc := NewCatalogService(source, &fakeCache{readErr: errors.New("redis down")}, time.Minute)

	listing := svc.Products(context.Background())
	assert.Equal(t, SourceLive, listing.Source)
}

func TestCatalogService_EmptyCatalogIsLive(t *testing.T) {
	svc := NewCatalogService(&fakeSource{products: []models.Product{}}, nil, time.Minute)

	listing := svc.Products(context.Background())
	assert.Equal(t, SourceLive, listing.Source)
	assert.NotNil(t, listing.Products)
	assert.Empty(t, listing.Products)
}

func TestCatalogService_Browse(t *testing.T) {
	svc := NewCatalogService(&fakeSource{products: liveProducts()}, nil, time.Minute)

	listing := svc.Browse(context.Background(), models.FilterCriteria{
		Category:     models.CategoryAll,
		DietaryFlags: []models.DietaryFlag{models.FlagVegan},
	})
	require.Len(t, listing.Products, 1)
	assert.Equal(t, "Heirloom Tomato", listing.Products[0].Name)

	listing = svc.Browse(context.Background(), models.FilterCriteria{SearchQuery: "CHEESE"})
	require.Len(t, listing.Products, 1)
	assert.Equal(t, models.ProductID("11"), listing.Products[0].ID)
}

func TestCatalogService_Product(t *testing.T) {
	source := &fakeSource{byID: map[models.ProductID]models.Product{"10": liveProducts()[0]}}
	svc := NewCatalogService(source, nil, time.Minute)
	ctx := context.Background()

	p, err := svc.Product(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, "Heirloom Tomato", p.Name)

	p, err = svc.Product(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Organic Greek Yogurt", p.Name)

	_, err = svc.Product(ctx, "999")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_Refresh(t *testing.T) {
	source := &fakeSource{products: liveProducts()}
	cache := &fakeCache{products: []models.Product{{ID: "old"}}}
	svc := NewCatalogService(source, cache, time.Minute)
	ctx := context.Background()

	assert.Equal(t, SourceCache, svc.Products(ctx).Source)

	require.NoError(t, svc.Refresh(ctx))
	assert.Equal(t, 1, cache.invalidated)
	assert.Len(t, cache.products, 2)

	source.err = errors.New("timeout")
	assert.Error(t, svc.Refresh(ctx))
}

func TestCatalogService_ConcurrentLoadsShareOneRequest(t *testing.T) {
	source := &fakeSource{products: liveProducts(), release: make(chan struct{})}
	svc := NewCatalogService(source, nil, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, SourceLive, svc.Products(context.Background()).Source)
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&source.calls) == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(source.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&source.calls))
}

func TestCatalogService_LoadSurvivesCallerCancel(t *testing.T) {
	source := &fakeSource{products: liveProducts(), release: make(chan struct{})}
	cache := &fakeCache{}
	svc := NewCatalogService(source, cache, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Listing, 1)
	go func() { done <- svc.Products(ctx) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&source.calls) == 1 }, time.Second, time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)
	close(source.release)

	listing := <-done
	assert.Equal(t, SourceLive, listing.Source)
	assert.Len(t, listing.Products, len(liveProducts()))

	cached, err := cache.CachedProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, cached, len(liveProducts()))
}
