package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/models"
)

var (
	ErrMalformedState = errors.New("malformed cart state")
)

// Marshal serializes the cart into its persisted JSON layout.
func Marshal(state models.CartState) ([]byte, error) {
	if state.Items == nil {
		state.Items = []models.CartLineItem{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// Unmarshal parses persisted JSON and checks the line items are well formed.
// Totals that disagree with the items are recomputed; the second return value
// reports whether that happened.
func Unmarshal(data []byte) (models.CartState, bool, error) {
	var state models.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.CartState{}, false, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	if state.Items == nil {
		state.Items = []models.CartLineItem{}
	}

	seen := make(map[models.ProductID]struct{}, len(state.Items))
	for _, item := range state.Items {
		if item.ProductID == "" {
			return models.CartState{}, false, fmt.Errorf("%w: line item without product id", ErrMalformedState)
		}
		if item.Quantity < MinQuantity || item.Quantity > MaxQuantity {
			return models.CartState{}, false, fmt.Errorf("%w: product %s has quantity %d", ErrMalformedState, item.ProductID, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return models.CartState{}, false, fmt.Errorf("%w: product %s has negative price", ErrMalformedState, item.ProductID)
		}
		if _, dup := seen[item.ProductID]; dup {
			return models.CartState{}, false, fmt.Errorf("%w: duplicate product %s", ErrMalformedState, item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
	}

	if state.Consistent() {
		return state, false, nil
	}
	state.TotalItems, state.TotalPrice = state.Recalculate()
	return state, true, nil
}
