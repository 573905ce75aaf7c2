package service

import (
	"context"
	"time"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher receives cart events.
type EventPublisher interface {
	PublishCartItemAdded(ctx context.Context, event *models.CartItemEvent) error
	PublishCartItemRemoved(ctx context.Context, event *models.CartItemEvent) error
	PublishCartQuantityUpdated(ctx context.Context, event *models.CartItemEvent) error
	PublishCartCleared(ctx context.Context, event *models.CartClearedEvent) error
}

// ProductLookup resolves a product id to its current catalog entry.
type ProductLookup interface {
	Product(ctx context.Context, id models.ProductID) (models.Product, error)
}

// CartService exposes the cart store to the HTTP layer.
type CartService struct {
	store    *cart.Store
	products ProductLookup
	events   EventPublisher
	logger   *zap.Logger
}

// NewCartService creates a cart service. events may be nil.
func NewCartService(store *cart.Store, products ProductLookup, events EventPublisher) *CartService {
	return &CartService{
		store:    store,
		products: products,
		events:   events,
		logger:   util.GetLogger(),
	}
}

// Cart returns the current cart.
func (s *CartService) Cart() models.CartState {
	return s.store.State()
}

// AddProduct looks productID up in the catalog and adds it. Name, image and
// price are captured as they are right now.
func (s *CartService) AddProduct(ctx context.Context, productID models.ProductID, quantity int) (models.CartState, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddProduct")
	defer span.End()

	if quantity < cart.MinQuantity || quantity > cart.MaxQuantity {
		return s.store.AddItem(ctx, models.Product{ID: productID}, quantity)
	}

	product, err := s.products.Product(ctx, productID)
	if err != nil {
		return s.store.State(), err
	}
	return s.AddItem(ctx, product, quantity)
}

// AddItem adds quantity units of an already resolved product.
func (s *CartService) AddItem(ctx context.Context, product models.Product, quantity int) (models.CartState, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	state, err := s.store.AddItem(ctx, product, quantity)
	if err != nil {
		s.logger.Info("Cart add rejected",
			zap.String("product_id", string(product.ID)),
			zap.Int("quantity", quantity),
			zap.Error(err))
		return state, err
	}

	s.logger.Info("Added to cart",
		zap.String("product_id", string(product.ID)),
		zap.Int("quantity", quantity),
		zap.Int("total_items", state.TotalItems))

	if s.events != nil {
		event := s.itemEvent(models.EventTypeCartItemAdded, state, product.ID, quantity)
		if idx := state.IndexOf(product.ID); idx >= 0 {
			event.UnitPrice = state.Items[idx].UnitPrice
		}
		if err := s.events.PublishCartItemAdded(ctx, event); err != nil {
			s.logger.Error("Failed to publish CartItemAdded event", zap.Error(err))
		}
	}
	return state, nil
}

// RemoveItem drops the line item for id.
func (s *CartService) RemoveItem(ctx context.Context, id models.ProductID) models.CartState {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem")
	defer span.End()

	state, removed, ok := s.store.Take(ctx, id)
	if !ok || s.events == nil {
		return state
	}

	event := s.itemEvent(models.EventTypeCartItemRemoved, state, id, removed.Quantity)
	event.UnitPrice = removed.UnitPrice
	if err := s.events.PublishCartItemRemoved(ctx, event); err != nil {
		s.logger.Error("Failed to publish CartItemRemoved event", zap.Error(err))
	}
	return state
}

// UpdateQuantity sets the quantity for id.
func (s *CartService) UpdateQuantity(ctx context.Context, id models.ProductID, quantity int) models.CartState {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()

	state := s.store.UpdateQuantity(ctx, id, quantity)

	idx := state.IndexOf(id)
	if idx < 0 || s.events == nil {
		return state
	}

	item := state.Items[idx]
	event := s.itemEvent(models.EventTypeCartQuantityUpdated, state, id, item.Quantity)
	event.UnitPrice = item.UnitPrice
	if err := s.events.PublishCartQuantityUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish CartQuantityUpdated event", zap.Error(err))
	}
	return state
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) models.CartState {
	ctx, span := util.StartSpan(ctx, "CartService.Clear")
	defer span.End()

	dropped := s.store.State().TotalItems
	state := s.store.Clear(ctx)
	s.logger.Info("Cart cleared", zap.Int("items_dropped", dropped))

	if s.events != nil {
		event := &models.CartClearedEvent{
			BaseEvent:    newBaseEvent(models.EventTypeCartCleared),
			ItemsDropped: dropped,
		}
		if err := s.events.PublishCartCleared(ctx, event); err != nil {
			s.logger.Error("Failed to publish CartCleared event", zap.Error(err))
		}
	}
	return state
}

func (s *CartService) itemEvent(eventType string, state models.CartState, id models.ProductID, quantity int) *models.CartItemEvent {
	return &models.CartItemEvent{
		BaseEvent:  newBaseEvent(eventType),
		ProductID:  id,
		Quantity:   quantity,
		TotalItems: state.TotalItems,
		TotalPrice: state.TotalPrice,
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
