package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, matching the persisted cart layout.
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductID identifies a product. Integer ids from upstream are kept in base 10.
type ProductID string

// Category of a product. Values outside the known set pass through unchanged.
type Category string

// Known categories
const (
	CategoryFruits     Category = "fruits"
	CategoryVegetables Category = "vegetables"
	CategoryDairy      Category = "dairy"
	CategoryGrains     Category = "grains"
	CategoryMeat       Category = "meat"
	CategoryOther      Category = "other"

	// CategoryAll is the filter sentinel matching every category.
	CategoryAll Category = "all"
)

// KnownCategories lists the categories the storefront renders as facets.
var KnownCategories = []Category{
	CategoryFruits,
	CategoryVegetables,
	CategoryDairy,
	CategoryGrains,
	CategoryMeat,
	CategoryOther,
}

// IsKnown reports whether c is one of KnownCategories.
func (c Category) IsKnown() bool {
	for _, known := range KnownCategories {
		if c == known {
			return true
		}
	}
	return false
}

// DietaryFlag names a boolean product attribute used as a filter predicate.
type DietaryFlag string

// Dietary flags
const (
	FlagOrganic    DietaryFlag = "organic"
	FlagVegan      DietaryFlag = "vegan"
	FlagGlutenFree DietaryFlag = "glutenFree"
	FlagLocal      DietaryFlag = "local"
)

// ParseDietaryFlag maps user input onto a DietaryFlag.
func ParseDietaryFlag(s string) (DietaryFlag, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "organic":
		return FlagOrganic, true
	case "vegan":
		return FlagVegan, true
	case "glutenfree", "gluten-free", "gluten_free":
		return FlagGlutenFree, true
	case "local":
		return FlagLocal, true
	}
	return "", false
}

// Nutrition per serving. Nil fields are unknown.
type Nutrition struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Fiber    *float64 `json:"fiber,omitempty"`
}

// Product is the canonical catalog record. It is never mutated once built.
type Product struct {
	ID          ProductID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    Category        `json:"category"`
	Organic     bool            `json:"organic"`
	Vegan       bool            `json:"vegan"`
	GlutenFree  bool            `json:"glutenFree"`
	Local       bool            `json:"local"`
	Nutrition   *Nutrition      `json:"nutrition,omitempty"`
	Sourcing    string          `json:"sourcing,omitempty"`
	StorageTips string          `json:"storageTips,omitempty"`
}

// HasFlag reports whether the product carries the dietary flag.
// Unknown flags are false.
func (p Product) HasFlag(flag DietaryFlag) bool {
	switch flag {
	case FlagOrganic:
		return p.Organic
	case FlagVegan:
		return p.Vegan
	case FlagGlutenFree:
		return p.GlutenFree
	case FlagLocal:
		return p.Local
	}
	return false
}

// FilterCriteria drives the catalog view.
type FilterCriteria struct {
	Category     Category      `json:"category"`
	DietaryFlags []DietaryFlag `json:"dietaryFlags"`
	SearchQuery  string        `json:"searchQuery"`
}

// DefaultCriteria matches every product.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Category: CategoryAll}
}

// User is the authenticated account as reported by the remote API.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// AuthStatus is handed to components that gate actions on a session.
type AuthStatus struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	User            *User `json:"user,omitempty"`
}

// Username returns the logged in username or "".
func (a AuthStatus) Username() string {
	if a.User == nil {
		return ""
	}
	return a.User.Username
}

// Recipe is a community contributed recipe.
type Recipe struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Image             string   `json:"image"`
	Dietary           []string `json:"dietary"`
	Ingredients       []string `json:"ingredients"`
	Instructions      []string `json:"instructions"`
	CreatedByUsername string   `json:"created_by_username,omitempty"`
}
