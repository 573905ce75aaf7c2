package catalog

import (
	"encoding/json"
	"testing"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestNormalizeProduct_AlternateFieldNames(t *testing.T) {
	record := json.RawMessage(`{
		"id": 12,
		"name": "Organic Kale Bunch",
		"price": "3.49",
		"image_url": "https://img.example/kale.jpg",
		"category": "vegetables",
		"organic": true,
		"vegan": true,
		"gluten_free": true,
		"nutrition": {"calories": 33, "protein": "2.9", "fat": null, "fiber": -1}
	}`)

	p, err := NormalizeProduct(record)
	require.NoError(t, err)

	assert.Equal(t, models.ProductID("12"), p.ID)
	assert.Equal(t, "Organic Kale Bunch", p.Name)
	assert.Equal(t, "", p.Description)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("3.49")))
	assert.Equal(t, "https://img.example/kale.jpg", p.ImageURL)
	assert.Equal(t, models.CategoryVegetables, p.Category)
	assert.True(t, p.GlutenFree)
	assert.False(t, p.Local)

	require.NotNil(t, p.Nutrition)
	require.NotNil(t, p.Nutrition.Calories)
	assert.Equal(t, 33.0, *p.Nutrition.Calories)
	assert.Equal(t, 2.9, *p.Nutrition.Protein)
	assert.Nil(t, p.Nutrition.Carbs)
	assert.Nil(t, p.Nutrition.Fat)
	assert.Nil(t, p.Nutrition.Fiber)
}

func TestNormalizeProduct_ImagePrecedence(t *testing.T) {
	p, err := NormalizeProduct(json.RawMessage(`{"id":"a","image":"c","image_url":"b","imageUrl":"a"}`))
	require.NoError(t, err)
	assert.Equal(t, "a", p.ImageURL)

	p, err = NormalizeProduct(json.RawMessage(`{"id":"a","image":"c"}`))
	require.NoError(t, err)
	assert.Equal(t, "c", p.ImageURL)
}

func TestNormalizeProduct_UnknownCategoryPassesThrough(t *testing.T) {
	p, err := NormalizeProduct(json.RawMessage(`{"id":"x","category":"seafood"}`))
	require.NoError(t, err)
	assert.Equal(t, models.Category("seafood"), p.Category)
	assert.False(t, p.Category.IsKnown())
}

func TestNormalizeProduct_Rejects(t *testing.T) {
	_, err := NormalizeProduct(json.RawMessage(`{"name":"no id"}`))
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = NormalizeProduct(json.RawMessage(`{"id":"  "}`))
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = NormalizeProduct(json.RawMessage(`{"id":1,"price":-2}`))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NormalizeProduct(json.RawMessage(`{"id":1,"price":"cheap"}`))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NormalizeProduct(json.RawMessage(`{"id":1.5}`))
	assert.Error(t, err)
}

func TestNormalizeProducts_SkipsBadRecords(t *testing.T) {
	payload := []byte(`[{"id":1,"name":"A","price":1},{"name":"B"},{"id":3,"name":"C","price":-1},{"id":"4","name":"D"}]`)

	products, err := NormalizeProducts(payload)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)

	require.Len(t, products, 2)
	assert.Equal(t, models.ProductID("1"), products[0].ID)
	assert.Equal(t, models.ProductID("4"), products[1].ID)
	assert.True(t, products[1].Price.IsZero())
}

func TestNormalizeProducts_ResultsEnvelope(t *testing.T) {
	products, err := NormalizeProducts([]byte(`{"count":1,"results":[{"id":9,"name":"Honey","price":7.99}]}`))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Honey", products[0].Name)

	_, err = NormalizeProducts([]byte(`{"detail":"nope"}`))
	assert.ErrorIs(t, err, ErrUnknownLayout)

	_, err = NormalizeProducts([]byte(`"text"`))
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestNormalizeProducts_EmptyListIsLoaded(t *testing.T) {
	products, err := NormalizeProducts([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestCuratedProducts(t *testing.T) {
	products := CuratedProducts()
	require.Len(t, products, 8)

	seen := map[models.ProductID]bool{}
	for _, p := range products {
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
		assert.False(t, p.Price.IsNegative())
		assert.True(t, p.Category.IsKnown())
	}

	products[0].Name = "changed"
	assert.Equal(t, "Organic Avocado", CuratedProducts()[0].Name)

	p, ok := FindCurated("5")
	require.True(t, ok)
	assert.Equal(t, "Local Honey", p.Name)

	_, ok = FindCurated("99")
	assert.False(t, ok)
}
