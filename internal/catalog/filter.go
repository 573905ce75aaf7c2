package catalog

import (
	"strings"

	"storefront/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ApplyFilters returns the products matching every predicate in criteria, in
// input order. A nil products slice means the catalog has not loaded yet and
// yields nil; a loaded catalog always yields a non-nil slice.
//
// Neither products nor its elements are modified.
func ApplyFilters(products []models.Product, criteria models.FilterCriteria) []models.Product {
	if products == nil {
		return nil
	}

	flags := uniqueFlags(criteria.DietaryFlags)

	// Caser keeps state between calls, so each filter run gets its own.
	lower := cases.Lower(language.Und)
	query := lower.String(criteria.SearchQuery)

	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !matchesCategory(p, criteria.Category) {
			continue
		}
		if !matchesFlags(p, flags) {
			continue
		}
		if query != "" && !matchesQuery(lower, p, query) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Matches reports whether a single product passes criteria.
func Matches(p models.Product, criteria models.FilterCriteria) bool {
	return len(ApplyFilters([]models.Product{p}, criteria)) == 1
}

func matchesCategory(p models.Product, category models.Category) bool {
	if category == "" || category == models.CategoryAll {
		return true
	}
	return p.Category == category
}

func matchesFlags(p models.Product, flags []models.DietaryFlag) bool {
	for _, flag := range flags {
		if !p.HasFlag(flag) {
			return false
		}
	}
	return true
}

func matchesQuery(lower cases.Caser, p models.Product, query string) bool {
	return strings.Contains(lower.String(p.Name), query) ||
		strings.Contains(lower.String(p.Description), query)
}

func uniqueFlags(flags []models.DietaryFlag) []models.DietaryFlag {
	if len(flags) < 2 {
		return flags
	}
	seen := make(map[models.DietaryFlag]struct{}, len(flags))
	out := make([]models.DietaryFlag, 0, len(flags))
	for _, f := range flags {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
