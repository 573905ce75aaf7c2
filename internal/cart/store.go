package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidQuantity = errors.New("quantity out of range")
	ErrInvalidProduct  = errors.New("product id is required")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// Bounds on the quantity a single line item may hold.
const (
	MinQuantity = 1
	MaxQuantity = 9999
)

// Store owns the shopping cart. Every mutation is serialized by one lock and
// writes the whole state back to storage before returning.
//
// Storage failures are logged and counted; the in-memory cart stays
// authoritative for the session.
type Store struct {
	mu      sync.Mutex
	storage Storage
	key     string
	state   models.CartState
	logger  *zap.Logger
}

// NewStore restores the cart saved under key, or starts empty when nothing
// usable is stored. An empty key selects DefaultStorageKey.
func NewStore(ctx context.Context, storage Storage, key string) *Store {
	if key == "" {
		key = DefaultStorageKey
	}

	s := &Store{
		storage: storage,
		key:     key,
		logger:  util.GetLogger(),
	}
	s.state = s.restore(ctx)
	util.CartItems.Set(float64(s.state.TotalItems))
	return s
}

func (s *Store) restore(ctx context.Context) models.CartState {
	data, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		s.logger.Error("Failed to load cart from storage", zap.String("key", s.key), zap.Error(err))
		util.CartRestoreFailuresTotal.WithLabelValues("read_error").Inc()
		return models.EmptyCart()
	}
	if data == nil {
		return models.EmptyCart()
	}

	state, repaired, err := Unmarshal(data)
	if err != nil {
		s.logger.Warn("Ignoring unreadable saved cart", zap.String("key", s.key), zap.Error(err))
		util.CartRestoreFailuresTotal.WithLabelValues("malformed").Inc()
		return models.EmptyCart()
	}
	if repaired {
		s.logger.Warn("Saved cart totals disagreed with its items, recomputed",
			zap.String("key", s.key),
			zap.Int("total_items", state.TotalItems),
			zap.String("total_price", state.TotalPrice.String()))
	}

	s.logger.Info("Cart restored",
		zap.Int("line_items", len(state.Items)),
		zap.Int("total_items", state.TotalItems))
	return state
}

// State returns a snapshot of the cart.
func (s *Store) State() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// AddItem adds quantity units of product. An existing line item for the same
// product keeps its snapshot fields and only grows its quantity. The line
// item may not grow past MaxQuantity.
func (s *Store) AddItem(ctx context.Context, product models.Product, quantity int) (models.CartState, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		util.CartRejectedTotal.WithLabelValues("invalid_quantity").Inc()
		return s.State(), fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if product.ID == "" {
		util.CartRejectedTotal.WithLabelValues("invalid_product").Inc()
		return s.State(), ErrInvalidProduct
	}
	if product.Price.IsNegative() {
		util.CartRejectedTotal.WithLabelValues("invalid_price").Inc()
		return s.State(), fmt.Errorf("%w: product %s", ErrInvalidPrice, product.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	qty := decimal.NewFromInt(int64(quantity))

	if idx := next.IndexOf(product.ID); idx >= 0 {
		item := &next.Items[idx]
		if item.Quantity > MaxQuantity-quantity {
			util.CartRejectedTotal.WithLabelValues("invalid_quantity").Inc()
			return s.state.Clone(), fmt.Errorf("%w: product %s would hold %d, max %d",
				ErrInvalidQuantity, product.ID, item.Quantity+quantity, MaxQuantity)
		}
		item.Quantity += quantity
		next.TotalItems += quantity
		next.TotalPrice = next.TotalPrice.Add(item.UnitPrice.Mul(qty))
	} else {
		next.Items = append(next.Items, models.CartLineItem{
			ProductID: product.ID,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			UnitPrice: product.Price,
			Quantity:  quantity,
		})
		next.TotalItems += quantity
		next.TotalPrice = next.TotalPrice.Add(product.Price.Mul(qty))
	}

	s.commit(ctx, next, "add")
	return next.Clone(), nil
}

// RemoveItem drops the line item for id. Unknown ids leave the cart as is.
func (s *Store) RemoveItem(ctx context.Context, id models.ProductID) models.CartState {
	state, _, _ := s.Take(ctx, id)
	return state
}

// Take is RemoveItem that also reports the line item it dropped. ok is false
// when id was not in the cart.
func (s *Store) Take(ctx context.Context, id models.ProductID) (state models.CartState, removed models.CartLineItem, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.state.IndexOf(id)
	if idx < 0 {
		return s.state.Clone(), models.CartLineItem{}, false
	}

	removed = s.state.Items[idx]
	next := models.CartState{
		Items:      make([]models.CartLineItem, 0, len(s.state.Items)-1),
		TotalItems: s.state.TotalItems - removed.Quantity,
		TotalPrice: s.state.TotalPrice.Sub(removed.Subtotal()),
	}
	next.Items = append(next.Items, s.state.Items[:idx]...)
	next.Items = append(next.Items, s.state.Items[idx+1:]...)

	s.commit(ctx, next, "remove")
	return next.Clone(), removed, true
}

// UpdateQuantity sets the quantity for id, clamped to
// [MinQuantity, MaxQuantity]. Unknown ids leave the cart as is.
func (s *Store) UpdateQuantity(ctx context.Context, id models.ProductID, quantity int) models.CartState {
	if clamped := clampQuantity(quantity); clamped != quantity {
		s.logger.Debug("Clamping cart quantity",
			zap.String("product_id", string(id)),
			zap.Int("requested", quantity),
			zap.Int("clamped", clamped))
		quantity = clamped
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.state.IndexOf(id)
	if idx < 0 {
		return s.state.Clone()
	}

	next := s.state.Clone()
	item := &next.Items[idx]
	delta := quantity - item.Quantity
	item.Quantity = quantity
	next.TotalItems += delta
	next.TotalPrice = next.TotalPrice.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(delta))))

	s.commit(ctx, next, "update_quantity")
	return next.Clone()
}

// Clear empties the cart and deletes the saved copy; an absent key restores
// as the empty cart.
func (s *Store) Clear(ctx context.Context) models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := models.EmptyCart()
	s.state = next
	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	util.CartItems.Set(0)

	if err := s.storage.RemoveItem(ctx, s.key); err != nil {
		util.CartPersistFailuresTotal.Inc()
		s.logger.Error("Failed to delete saved cart",
			zap.String("key", s.key),
			zap.Error(err))
	}
	return next.Clone()
}

func clampQuantity(quantity int) int {
	if quantity < MinQuantity {
		return MinQuantity
	}
	if quantity > MaxQuantity {
		return MaxQuantity
	}
	return quantity
}

// commit installs next and persists it. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next models.CartState, action string) {
	s.state = next
	util.CartMutationsTotal.WithLabelValues(action).Inc()
	util.CartItems.Set(float64(next.TotalItems))

	data, err := Marshal(next)
	if err == nil {
		err = s.storage.SetItem(ctx, s.key, data)
	}
	if err != nil {
		util.CartPersistFailuresTotal.Inc()
		s.logger.Error("Failed to save cart to storage",
			zap.String("key", s.key),
			zap.String("action", action),
			zap.Error(err))
	}
}
