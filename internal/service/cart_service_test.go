package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup map[models.ProductID]models.Product

func (f fakeLookup) Product(_ context.Context, id models.ProductID) (models.Product, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

type recordingPublisher struct {
	mu      sync.Mutex
	items   []*models.CartItemEvent
	cleared []*models.CartClearedEvent
	err     error
}

func (r *recordingPublisher) PublishCartItemAdded(_ context.Context, e *models.CartItemEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, e)
	return r.err
}

func (r *recordingPublisher) PublishCartItemRemoved(_ context.Context, e *models.CartItemEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, e)
	return r.err
}

func (r *recordingPublisher) PublishCartQuantityUpdated(_ context.Context, e *models.CartItemEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, e)
	return r.err
}

func (r *recordingPublisher) PublishCartCleared(_ context.Context, e *models.CartClearedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared = append(r.cleared, e)
	return r.err
}

func newCartService(t *testing.T, events EventPublisher) *CartService {
	t.Helper()
	lookup := fakeLookup{
		"1": {ID: "1", Name: "Organic Avocado", ImageURL: "a.jpg", Price: decimal.RequireFromString("2.99")},
		"2": {ID: "2", Name: "Organic Kale Bunch", Price: decimal.RequireFromString("3.49")},
	}
	store := cart.NewStore(context.Background(), cart.NewMemoryStorage(), "")
	return NewCartService(store, lookup, events)
}

func TestCartService_AddProduct(t *testing.T) {
	events := &recordingPublisher{}
	svc := newCartService(t, events)
	ctx := context.Background()

	state, err := svc.AddProduct(ctx, "1", 2)
	require.NoError(t, err)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Organic Avocado", state.Items[0].Name)
	assert.Equal(t, "a.jpg", state.Items[0].ImageURL)
	assert.True(t, state.TotalPrice.Equal(decimal.RequireFromString("5.98")))

	require.Len(t, events.items, 1)
	e := events.items[0]
	assert.Equal(t, models.EventTypeCartItemAdded, e.EventType)
	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, models.ProductID("1"), e.ProductID)
	assert.Equal(t, 2, e.Quantity)
	assert.True(t, e.UnitPrice.Equal(decimal.RequireFromString("2.99")))
	assert.Equal(t, 2, e.TotalItems)
	assert.True(t, e.TotalPrice.Equal(decimal.RequireFromString("5.98")))
}

func TestCartService_AddProductRejected(t *testing.T) {
	events := &recordingPublisher{}
	svc := newCartService(t, events)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "404", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.AddProduct(ctx, "1", 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	assert.True(t, svc.Cart().Equal(models.EmptyCart()))
	assert.Empty(t, events.items)
}

func TestCartService_RemoveUpdateClear(t *testing.T) {
	events := &recordingPublisher{}
	svc := newCartService(t, events)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "1", 2)
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, "2", 1)
	require.NoError(t, err)

	state := svc.UpdateQuantity(ctx, "2", 4)
	assert.Equal(t, 6, state.TotalItems)
	last := events.items[len(events.items)-1]
	assert.Equal(t, models.EventTypeCartQuantityUpdated, last.EventType)
	assert.Equal(t, 4, last.Quantity)

	state = svc.RemoveItem(ctx, "1")
	assert.Equal(t, 4, state.TotalItems)
	last = events.items[len(events.items)-1]
	assert.Equal(t, models.EventTypeCartItemRemoved, last.EventType)
	assert.Equal(t, 2, last.Quantity)
	assert.True(t, last.UnitPrice.Equal(decimal.RequireFromString("2.99")))

	published := len(events.items)
	svc.RemoveItem(ctx, "1")
	svc.UpdateQuantity(ctx, "1", 3)
	assert.Len(t, events.items, published)

	state = svc.Clear(ctx)
	assert.Empty(t, state.Items)
	require.Len(t, events.cleared, 1)
	assert.Equal(t, 4, events.cleared[0].ItemsDropped)
}

func TestCartService_PublishFailureDoesNotFailMutation(t *testing.T) {
	svc := newCartService(t, &recordingPublisher{err: errors.New("broker down")})

	state, err := svc.AddProduct(context.Background(), "2", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.TotalItems)
}

func TestCartService_WithoutEvents(t *testing.T) {
	svc := newCartService(t, nil)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "1", 1)
	require.NoError(t, err)
	svc.UpdateQuantity(ctx, "1", 2)
	svc.RemoveItem(ctx, "1")
	state := svc.Clear(ctx)
	assert.True(t, state.Equal(models.EmptyCart()))
}

func TestCartService_MergedAddReportsSnapshotPrice(t *testing.T) {
	events := &recordingPublisher{}
	svc := newCartService(t, events)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "1", 1)
	require.NoError(t, err)

	repriced := models.Product{ID: "1", Name: "Organic Avocado", Price: decimal.RequireFromString("9.99")}
	state, err := svc.AddItem(ctx, repriced, 1)
	require.NoError(t, err)
	assert.True(t, state.TotalPrice.Equal(decimal.RequireFromString("5.98")))

	require.Len(t, events.items, 2)
	assert.True(t, events.items[1].UnitPrice.Equal(decimal.RequireFromString("2.99")))
}

func TestCartService_ConcurrentRemovePublishesOnce(t *testing.T) {
	events := &recordingPublisher{}
	svc := newCartService(t, events)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "1", 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.RemoveItem(ctx, "1")
		}()
	}
	wg.Wait()

	removed := 0
	for _, e := range events.items {
		if e.EventType == models.EventTypeCartItemRemoved {
			removed++
		}
	}
	assert.Equal(t, 1, removed)
	assert.Empty(t, svc.Cart().Items)
}
