package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kaleAndBeef() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Organic Kale", Category: "vegetables", Organic: true, Vegan: true},
		{ID: "2", Name: "Grass-Fed Beef", Category: "meat", Organic: true, Vegan: false},
	}
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestApplyFilters_DietaryFlag(t *testing.T) {
	criteria := models.FilterCriteria{
		Category:     models.CategoryAll,
		DietaryFlags: []models.DietaryFlag{models.FlagVegan},
	}

	got := ApplyFilters(kaleAndBeef(), criteria)
	assert.Equal(t, []string{"Organic Kale"}, names(got))
}

func TestApplyFilters_SearchIsCaseInsensitive(t *testing.T) {
	criteria := models.FilterCriteria{Category: models.CategoryAll, SearchQuery: "kale"}
	assert.Equal(t, []string{"Organic Kale"}, names(ApplyFilters(kaleAndBeef(), criteria)))

	criteria.SearchQuery = "BEEF"
	assert.Equal(t, []string{"Grass-Fed Beef"}, names(ApplyFilters(kaleAndBeef(), criteria)))
}

func TestApplyFilters_SearchMatchesDescription(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "Quinoa", Description: "Protein-packed ancient GRAIN"},
		{ID: "2", Name: "Honey"},
	}
	got := ApplyFilters(products, models.FilterCriteria{SearchQuery: "grain"})
	assert.Equal(t, []string{"Quinoa"}, names(got))
}

func TestApplyFilters_CategoryIsExact(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "a", Category: "fruits"},
		{ID: "2", Name: "b", Category: "Fruits"},
		{ID: "3", Name: "c", Category: "exotic"},
	}

	assert.Equal(t, []string{"a"}, names(ApplyFilters(products, models.FilterCriteria{Category: "fruits"})))
	assert.Equal(t, []string{"c"}, names(ApplyFilters(products, models.FilterCriteria{Category: "exotic"})))
	assert.Len(t, ApplyFilters(products, models.DefaultCriteria()), 3)
}

func TestApplyFilters_AllFlagsRequired(t *testing.T) {
	products := CuratedProducts()
	criteria := models.FilterCriteria{
		Category:     models.CategoryAll,
		DietaryFlags: []models.DietaryFlag{models.FlagVegan, models.FlagLocal, models.FlagVegan},
	}

	got := ApplyFilters(products, criteria)
	assert.Equal(t, []string{"Organic Avocado", "Organic Kale Bunch", "Organic Strawberries", "Organic Bell Peppers"}, names(got))
}

func TestApplyFilters_EmptyVersusNotLoaded(t *testing.T) {
	assert.Nil(t, ApplyFilters(nil, models.DefaultCriteria()))

	got := ApplyFilters(kaleAndBeef(), models.FilterCriteria{SearchQuery: "tofu"})
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = ApplyFilters([]models.Product{}, models.DefaultCriteria())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplyFilters_MissingTextIsEmpty(t *testing.T) {
	products := []models.Product{{ID: "1"}}
	assert.Empty(t, ApplyFilters(products, models.FilterCriteria{SearchQuery: "x"}))
	assert.Len(t, ApplyFilters(products, models.FilterCriteria{}), 1)
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	products := CuratedProducts()
	before := CuratedProducts()

	_ = ApplyFilters(products, models.FilterCriteria{Category: "fruits", SearchQuery: "ORGANIC"})
	assert.Equal(t, before, products)
}

// matchesByHand restates the conjunction directly.
func matchesByHand(p models.Product, c models.FilterCriteria) bool {
	if c.Category != models.CategoryAll && c.Category != "" && p.Category != c.Category {
		return false
	}
	for _, f := range c.DietaryFlags {
		if !p.HasFlag(f) {
			return false
		}
	}
	if c.SearchQuery == "" {
		return true
	}
	q := strings.ToLower(c.SearchQuery)
	return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q)
}

func TestApplyFilters_ConjunctionAndOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	categories := []models.Category{"fruits", "vegetables", "meat", "other"}
	flags := []models.DietaryFlag{models.FlagOrganic, models.FlagVegan, models.FlagGlutenFree, models.FlagLocal}
	words := []string{"Kale", "apple", "Rice", "honey", ""}

	products := make([]models.Product, 0, 60)
	for i := 0; i < 60; i++ {
		products = append(products, models.Product{
			ID:          models.ProductID(fmt.Sprint(i)),
			Name:        words[rng.Intn(len(words))] + " item",
			Description: words[rng.Intn(len(words))],
			Category:    categories[rng.Intn(len(categories))],
			Organic:     rng.Intn(2) == 0,
			Vegan:       rng.Intn(2) == 0,
			GlutenFree:  rng.Intn(2) == 0,
			Local:       rng.Intn(2) == 0,
		})
	}

	for round := 0; round < 200; round++ {
		c := models.FilterCriteria{Category: models.CategoryAll}
		if rng.Intn(2) == 0 {
			c.Category = categories[rng.Intn(len(categories))]
		}
		for _, f := range flags {
			if rng.Intn(3) == 0 {
				c.DietaryFlags = append(c.DietaryFlags, f)
			}
		}
		c.SearchQuery = strings.ToUpper(words[rng.Intn(len(words))])

		got := ApplyFilters(products, c)

		want := make([]models.ProductID, 0)
		for _, p := range products {
			assert.Equal(t, matchesByHand(p, c), Matches(p, c))
			if matchesByHand(p, c) {
				want = append(want, p.ID)
			}
		}
		gotIDs := make([]models.ProductID, 0, len(got))
		for _, p := range got {
			gotIDs = append(gotIDs, p.ID)
		}
		assert.Equal(t, want, gotIDs)
	}
}
