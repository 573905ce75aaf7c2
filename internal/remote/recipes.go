package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

const (
	opListRecipes  = "list_recipes"
	opGetRecipe    = "get_recipe"
	opCreateRecipe = "create_recipe"
	opUpdateRecipe = "update_recipe"
	opDeleteRecipe = "delete_recipe"
)

type rawRecipe struct {
	ID                json.RawMessage `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Image             string          `json:"image"`
	ImageURL          string          `json:"imageUrl"`
	ImageURLSnake     string          `json:"image_url"`
	Dietary           []string        `json:"dietary"`
	Ingredients       []string        `json:"ingredients"`
	Instructions      []string        `json:"instructions"`
	CreatedByUsername string          `json:"created_by_username"`
}

// recipePayload is the body sent on create and update.
type recipePayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Dietary      []string `json:"dietary"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

func newRecipePayload(r models.Recipe) recipePayload {
	return recipePayload{
		Title:        r.Title,
		Description:  r.Description,
		Image:        r.Image,
		Dietary:      nonNil(r.Dietary),
		Ingredients:  nonNil(r.Ingredients),
		Instructions: nonNil(r.Instructions),
	}
}

func decodeRecipe(record []byte) (models.Recipe, error) {
	var raw rawRecipe
	if err := json.Unmarshal(record, &raw); err != nil {
		return models.Recipe{}, fmt.Errorf("decode recipe: %w", err)
	}
	id, err := catalog.ParseID(raw.ID)
	if err != nil {
		return models.Recipe{}, err
	}

	image := raw.Image
	for _, alt := range []string{raw.ImageURL, raw.ImageURLSnake} {
		if image == "" {
			image = alt
		}
	}

	return models.Recipe{
		ID:                id,
		Title:             raw.Title,
		Description:       raw.Description,
		Image:             image,
		Dietary:           nonNil(raw.Dietary),
		Ingredients:       nonNil(raw.Ingredients),
		Instructions:      nonNil(raw.Instructions),
		CreatedByUsername: raw.CreatedByUsername,
	}, nil
}

// ListRecipes fetches every recipe. Undecodable entries are skipped.
func (c *Client) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	body, err := c.do(ctx, opListRecipes, http.MethodGet, "recipes", nil)
	if err != nil {
		return nil, err
	}

	records, err := catalog.SplitRecords(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	recipes := make([]models.Recipe, 0, len(records))
	for _, record := range records {
		recipe, err := decodeRecipe(record)
		if err != nil {
			continue
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// GetRecipe fetches one recipe by id.
func (c *Client) GetRecipe(ctx context.Context, id string) (models.Recipe, error) {
	body, err := c.do(ctx, opGetRecipe, http.MethodGet, "recipes/"+url.PathEscape(id), nil)
	if err != nil {
		return models.Recipe{}, err
	}
	return decodeRecipe(body)
}

// CreateRecipe stores a new recipe and returns it as saved upstream.
func (c *Client) CreateRecipe(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	body, err := c.do(ctx, opCreateRecipe, http.MethodPost, "recipes", newRecipePayload(recipe))
	if err != nil {
		return models.Recipe{}, err
	}
	return decodeRecipe(body)
}

// UpdateRecipe replaces the recipe with the given id.
func (c *Client) UpdateRecipe(ctx context.Context, id string, recipe models.Recipe) (models.Recipe, error) {
	body, err := c.do(ctx, opUpdateRecipe, http.MethodPut, "recipes/"+url.PathEscape(id), newRecipePayload(recipe))
	if err != nil {
		return models.Recipe{}, err
	}
	return decodeRecipe(body)
}

// DeleteRecipe removes the recipe with the given id.
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	_, err := c.do(ctx, opDeleteRecipe, http.MethodDelete, "recipes/"+url.PathEscape(id), nil)
	return err
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
