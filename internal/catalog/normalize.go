package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

var (
	ErrMissingID     = errors.New("record has no id")
	ErrInvalidPrice  = errors.New("record has an invalid price")
	ErrUnknownLayout = errors.New("payload is neither a list nor a results envelope")
)

// rawProduct accepts every field spelling the upstream API has used.
type rawProduct struct {
	ID              json.RawMessage `json:"id"`
	Name            *string         `json:"name"`
	ProductName     *string         `json:"product_name"`
	Description     *string         `json:"description"`
	Price           json.RawMessage `json:"price"`
	ImageURL        string          `json:"imageUrl"`
	ImageURLSnake   string          `json:"image_url"`
	Image           string          `json:"image"`
	Category        string          `json:"category"`
	Organic         *bool           `json:"organic"`
	Vegan           *bool           `json:"vegan"`
	GlutenFree      *bool           `json:"glutenFree"`
	GlutenFreeSnake *bool           `json:"gluten_free"`
	Local           *bool           `json:"local"`
	Nutrition       *rawNutrition   `json:"nutrition"`
	Sourcing        string          `json:"sourcing"`
	StorageTips     string          `json:"storageTips"`
	StorageSnake    string          `json:"storage_tips"`
}

type rawNutrition struct {
	Calories json.RawMessage `json:"calories"`
	Protein  json.RawMessage `json:"protein"`
	Carbs    json.RawMessage `json:"carbs"`
	Fat      json.RawMessage `json:"fat"`
	Fiber    json.RawMessage `json:"fiber"`
}

// SplitRecords accepts a JSON array or a paginated {"results": [...]}
// envelope and returns the individual records.
func SplitRecords(payload []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, ErrUnknownLayout
	}

	switch trimmed[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return records, nil
	case '{':
		var envelope struct {
			Results *[]json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		if envelope.Results == nil {
			return nil, ErrUnknownLayout
		}
		return *envelope.Results, nil
	}
	return nil, ErrUnknownLayout
}

// NormalizeProducts converts an upstream payload into canonical products.
// Records that cannot be normalized are skipped; their errors are combined
// into the returned error while the valid products are still returned.
func NormalizeProducts(payload []byte) ([]models.Product, error) {
	records, err := SplitRecords(payload)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(records))
	var skipped error
	for i, record := range records {
		p, err := NormalizeProduct(record)
		if err != nil {
			skipped = multierr.Append(skipped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		products = append(products, p)
	}
	return products, skipped
}

// NormalizeProduct converts one upstream record.
func NormalizeProduct(record json.RawMessage) (models.Product, error) {
	var raw rawProduct
	if err := json.Unmarshal(record, &raw); err != nil {
		return models.Product{}, fmt.Errorf("decode product: %w", err)
	}

	id, err := ParseID(raw.ID)
	if err != nil {
		return models.Product{}, err
	}

	price, err := parsePrice(raw.Price)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s: %w", id, err)
	}

	p := models.Product{
		ID:          models.ProductID(id),
		Name:        firstString(raw.Name, raw.ProductName),
		Description: firstString(raw.Description),
		Price:       price,
		ImageURL:    firstNonEmpty(raw.ImageURL, raw.ImageURLSnake, raw.Image),
		Category:    models.Category(strings.TrimSpace(raw.Category)),
		Organic:     firstBool(raw.Organic),
		Vegan:       firstBool(raw.Vegan),
		GlutenFree:  firstBool(raw.GlutenFree, raw.GlutenFreeSnake),
		Local:       firstBool(raw.Local),
		Sourcing:    raw.Sourcing,
		StorageTips: firstNonEmpty(raw.StorageTips, raw.StorageSnake),
	}
	if raw.Nutrition != nil {
		p.Nutrition = &models.Nutrition{
			Calories: parseAmount(raw.Nutrition.Calories),
			Protein:  parseAmount(raw.Nutrition.Protein),
			Carbs:    parseAmount(raw.Nutrition.Carbs),
			Fat:      parseAmount(raw.Nutrition.Fat),
			Fiber:    parseAmount(raw.Nutrition.Fiber),
		}
	}
	return p, nil
}

// ParseID reads an id given as a JSON string or integer.
func ParseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrMissingID
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode id: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", ErrMissingID
		}
		return s, nil
	}

	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return "", fmt.Errorf("decode id %s: %w", raw, err)
	}
	return strconv.FormatInt(n, 10), nil
}

func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}

	var price decimal.Decimal
	if err := price.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidPrice, raw)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidPrice, raw)
	}
	return price, nil
}

// parseAmount returns nil for absent, unparsable or negative amounts.
func parseAmount(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil || d.IsNegative() {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

func firstString(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstBool(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}
