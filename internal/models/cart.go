package models

import "github.com/shopspring/decimal"

// CartLineItem is one product in the cart. Name, ImageURL and UnitPrice are
// copied when the product is first added and never re-synced.
type CartLineItem struct {
	ProductID ProductID       `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns UnitPrice × Quantity.
func (i CartLineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartState is the persisted cart. TotalItems and TotalPrice are kept in step
// with Items on every mutation.
type CartState struct {
	Items      []CartLineItem  `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// EmptyCart returns the initial cart state.
func EmptyCart() CartState {
	return CartState{
		Items:      []CartLineItem{},
		TotalItems: 0,
		TotalPrice: decimal.Zero,
	}
}

// IndexOf returns the position of the line item for id, or -1.
func (s CartState) IndexOf(id ProductID) int {
	for i := range s.Items {
		if s.Items[i].ProductID == id {
			return i
		}
	}
	return -1
}

// Recalculate folds the line items from scratch.
func (s CartState) Recalculate() (totalItems int, totalPrice decimal.Decimal) {
	totalPrice = decimal.Zero
	for _, item := range s.Items {
		totalItems += item.Quantity
		totalPrice = totalPrice.Add(item.Subtotal())
	}
	return totalItems, totalPrice
}

// Consistent reports whether the stored totals match the fold.
func (s CartState) Consistent() bool {
	items, price := s.Recalculate()
	return items == s.TotalItems && price.Equal(s.TotalPrice)
}

// Clone returns a copy that shares nothing mutable with s.
func (s CartState) Clone() CartState {
	items := make([]CartLineItem, len(s.Items))
	copy(items, s.Items)
	return CartState{
		Items:      items,
		TotalItems: s.TotalItems,
		TotalPrice: s.TotalPrice,
	}
}

// Equal compares two states by value.
func (s CartState) Equal(other CartState) bool {
	if len(s.Items) != len(other.Items) ||
		s.TotalItems != other.TotalItems ||
		!s.TotalPrice.Equal(other.TotalPrice) {
		return false
	}
	for i := range s.Items {
		a, b := s.Items[i], other.Items[i]
		if a.ProductID != b.ProductID || a.Name != b.Name || a.ImageURL != b.ImageURL ||
			a.Quantity != b.Quantity || !a.UnitPrice.Equal(b.UnitPrice) {
			return false
		}
	}
	return true
}
