package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	opListProducts = "list_products"
	opGetProduct   = "get_product"
)

// ListProducts fetches the catalog and normalizes it. Records that fail
// normalization are logged and dropped; the rest are returned. A response
// whose records all fail is an error, an empty list is not.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	body, err := c.do(ctx, opListProducts, http.MethodGet, "products", nil)
	if err != nil {
		return nil, err
	}

	products, err := catalog.NormalizeProducts(body)
	if products == nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	if err != nil {
		skipped := multierr.Errors(err)
		util.NormalizationSkippedTotal.Add(float64(len(skipped)))
		c.logger.Warn("Dropped malformed product records",
			zap.Int("skipped", len(skipped)),
			zap.Int("kept", len(products)),
			zap.Error(err))
		if len(products) == 0 {
			return nil, fmt.Errorf("no usable products in response: %w", err)
		}
	}
	return products, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id models.ProductID) (models.Product, error) {
	body, err := c.do(ctx, opGetProduct, http.MethodGet, "products/"+url.PathEscape(string(id)), nil)
	if err != nil {
		return models.Product{}, err
	}

	product, err := catalog.NormalizeProduct(body)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	return product, nil
}
