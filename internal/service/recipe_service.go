package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/models"
	"storefront/internal/remote"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// DefaultRecipeImage is used when a recipe is saved without an image.
const DefaultRecipeImage = "https://images.unsplash.com/photo-1495521821757-a1efb6729352?w=500&auto=format"

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrNotAuthenticated = errors.New("you must be logged in to create or edit recipes")
	ErrNotRecipeOwner   = errors.New("only the author can change this recipe")
	ErrInvalidRecipe    = errors.New("recipe needs a title and a description")
)

// RecipeClient is the remote recipe API.
type RecipeClient interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id string) (models.Recipe, error)
	CreateRecipe(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, recipe models.Recipe) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

// RecipeListing is a recipe list together with its origin.
type RecipeListing struct {
	Recipes []models.Recipe `json:"recipes"`
	Source  string          `json:"source"`
}

// RecipeService serves community recipes with a bundled fallback set.
type RecipeService struct {
	client RecipeClient
	logger *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(client RecipeClient) *RecipeService {
	return &RecipeService{client: client, logger: util.GetLogger()}
}

// List returns every recipe, or the featured set when the API is down.
func (s *RecipeService) List(ctx context.Context) RecipeListing {
	ctx, span := util.StartSpan(ctx, "RecipeService.List")
	defer span.End()

	recipes, err := s.client.ListRecipes(ctx)
	if err != nil {
		s.logger.Warn("Remote recipes unavailable, serving featured recipes", zap.Error(err))
		return RecipeListing{Recipes: featuredSummaries(), Source: SourceFallback}
	}
	return RecipeListing{Recipes: recipes, Source: SourceLive}
}

// Get returns one recipe. Numeric ids are stored upstream; other ids name
// featured recipes.
func (s *RecipeService) Get(ctx context.Context, id string) (models.Recipe, error) {
	ctx, span := util.StartSpan(ctx, "RecipeService.Get")
	defer span.End()

	if isNumericID(id) {
		recipe, err := s.client.GetRecipe(ctx, id)
		if err == nil {
			return recipe, nil
		}
		if !remote.IsNotFound(err) {
			s.logger.Warn("Failed to load recipe", zap.String("recipe_id", id), zap.Error(err))
		}
	}

	if recipe, ok := findFeatured(id); ok {
		return recipe, nil
	}
	return models.Recipe{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
}

// Create saves a new recipe authored by the logged in user.
func (s *RecipeService) Create(ctx context.Context, auth models.AuthStatus, recipe models.Recipe) (models.Recipe, error) {
	ctx, span := util.StartSpan(ctx, "RecipeService.Create")
	defer span.End()

	if !auth.IsAuthenticated {
		return models.Recipe{}, ErrNotAuthenticated
	}
	recipe, err := prepareRecipe(recipe)
	if err != nil {
		return models.Recipe{}, err
	}

	created, err := s.client.CreateRecipe(ctx, recipe)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("failed to save recipe: %w", err)
	}
	s.logger.Info("Recipe created", zap.String("recipe_id", created.ID), zap.String("username", auth.Username()))
	return created, nil
}

// Update replaces a recipe the caller authored.
func (s *RecipeService) Update(ctx context.Context, auth models.AuthStatus, id string, recipe models.Recipe) (models.Recipe, error) {
	ctx, span := util.StartSpan(ctx, "RecipeService.Update")
	defer span.End()

	if err := s.authorize(ctx, auth, id); err != nil {
		return models.Recipe{}, err
	}
	recipe, err := prepareRecipe(recipe)
	if err != nil {
		return models.Recipe{}, err
	}

	updated, err := s.client.UpdateRecipe(ctx, id, recipe)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("failed to save recipe: %w", err)
	}
	return updated, nil
}

// Delete removes a recipe the caller authored.
func (s *RecipeService) Delete(ctx context.Context, auth models.AuthStatus, id string) error {
	ctx, span := util.StartSpan(ctx, "RecipeService.Delete")
	defer span.End()

	if err := s.authorize(ctx, auth, id); err != nil {
		return err
	}
	if err := s.client.DeleteRecipe(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	s.logger.Info("Recipe deleted", zap.String("recipe_id", id), zap.String("username", auth.Username()))
	return nil
}

// authorize checks that auth may change the stored recipe id.
func (s *RecipeService) authorize(ctx context.Context, auth models.AuthStatus, id string) error {
	if !auth.IsAuthenticated {
		return ErrNotAuthenticated
	}

	existing, err := s.client.GetRecipe(ctx, id)
	if remote.IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to load recipe %s: %w", id, err)
	}

	if existing.CreatedByUsername != "" && existing.CreatedByUsername != auth.Username() {
		return ErrNotRecipeOwner
	}
	return nil
}

// prepareRecipe validates r and fills in defaults.
func prepareRecipe(r models.Recipe) (models.Recipe, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if r.Title == "" || r.Description == "" {
		return models.Recipe{}, ErrInvalidRecipe
	}
	if strings.TrimSpace(r.Image) == "" {
		r.Image = DefaultRecipeImage
	}
	r.Ingredients = compact(r.Ingredients)
	r.Instructions = compact(r.Instructions)
	r.Dietary = compact(r.Dietary)
	return r, nil
}

// compact drops blank entries left over from form rows.
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isNumericID(id string) bool {
	_, err := strconv.ParseInt(id, 10, 64)
	return err == nil
}
