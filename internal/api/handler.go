package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/remote"
	"storefront/internal/service"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CatalogService is what the handler needs from the catalog.
type CatalogService interface {
	Browse(ctx context.Context, criteria models.FilterCriteria) service.Listing
	Product(ctx context.Context, id models.ProductID) (models.Product, error)
}

// CartService is what the handler needs from the cart.
type CartService interface {
	Cart() models.CartState
	AddProduct(ctx context.Context, id models.ProductID, quantity int) (models.CartState, error)
	RemoveItem(ctx context.Context, id models.ProductID) models.CartState
	UpdateQuantity(ctx context.Context, id models.ProductID, quantity int) models.CartState
	Clear(ctx context.Context) models.CartState
}

// RecipeService is what the handler needs from recipes.
type RecipeService interface {
	List(ctx context.Context) service.RecipeListing
	Get(ctx context.Context, id string) (models.Recipe, error)
	Create(ctx context.Context, auth models.AuthStatus, recipe models.Recipe) (models.Recipe, error)
	Update(ctx context.Context, auth models.AuthStatus, id string, recipe models.Recipe) (models.Recipe, error)
	Delete(ctx context.Context, auth models.AuthStatus, id string) error
}

// AuthService is what the handler needs from the session.
type AuthService interface {
	Login(ctx context.Context, username, password string) service.AuthResult
	Register(ctx context.Context, username, password string) service.AuthResult
	Logout(ctx context.Context) service.AuthResult
	Status() models.AuthStatus
}

// Handler contains HTTP handlers
type Handler struct {
	catalog CatalogService
	cart    CartService
	recipes RecipeService
	auth    AuthService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog CatalogService, cart CartService, recipes RecipeService, auth AuthService) *Handler {
	return &Handler{
		catalog: catalog,
		cart:    cart,
		recipes: recipes,
		auth:    auth,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.PATCH("/cart/items/:id", h.updateCartItem)
		v1.DELETE("/cart/items/:id", h.removeCartItem)
		v1.DELETE("/cart", h.clearCart)

		v1.GET("/recipes", h.listRecipes)
		v1.POST("/recipes", h.createRecipe)
		v1.GET("/recipes/:id", h.getRecipe)
		v1.PUT("/recipes/:id", h.updateRecipe)
		v1.DELETE("/recipes/:id", h.deleteRecipe)

		v1.POST("/auth/login", h.login)
		v1.POST("/auth/register", h.register)
		v1.POST("/auth/logout", h.logout)
		v1.GET("/auth/user", h.currentUser)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listProducts handles GET /products?category=&diet=&q=
func (h *Handler) listProducts(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid filter",
			"details": err.Error(),
		})
		return
	}

	listing := h.catalog.Browse(c.Request.Context(), criteria)
	c.JSON(http.StatusOK, gin.H{
		"products": listing.Products,
		"count":    len(listing.Products),
		"source":   listing.Source,
	})
}

func parseCriteria(c *gin.Context) (models.FilterCriteria, error) {
	criteria := models.DefaultCriteria()
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		criteria.Category = models.Category(category)
	}
	criteria.SearchQuery = c.Query("q")

	for _, value := range c.QueryArray("diet") {
		for _, name := range strings.Split(value, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			flag, ok := models.ParseDietaryFlag(name)
			if !ok {
				return criteria, errors.New("unknown dietary flag: " + name)
			}
			criteria.DietaryFlags = append(criteria.DietaryFlags, flag)
		}
	}
	return criteria, nil
}

// getProduct handles GET /products/:id
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalog.Product(c.Request.Context(), models.ProductID(c.Param("id")))
	if err != nil {
		writeError(c, "Product not found", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.Cart())
}

// AddCartItemRequest is the body of POST /cart/items
type AddCartItemRequest struct {
	ProductID json.RawMessage `json:"productId" binding:"required"`
	Quantity  *int            `json:"quantity,omitempty"`
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	id, err := catalog.ParseID(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid product ID",
			"details": err.Error(),
		})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	state, err := h.cart.AddProduct(c.Request.Context(), models.ProductID(id), quantity)
	if err != nil {
		writeError(c, "Failed to add to cart", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// UpdateCartItemRequest is the body of PATCH /cart/items/:id
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) updateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	state := h.cart.UpdateQuantity(c.Request.Context(), models.ProductID(c.Param("id")), *req.Quantity)
	c.JSON(http.StatusOK, state)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.RemoveItem(c.Request.Context(), models.ProductID(c.Param("id"))))
}

func (h *Handler) clearCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.Clear(c.Request.Context()))
}

func (h *Handler) listRecipes(c *gin.Context) {
	listing := h.recipes.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"recipes": listing.Recipes,
		"count":   len(listing.Recipes),
		"source":  listing.Source,
	})
}

func (h *Handler) getRecipe(c *gin.Context) {
	recipe, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Recipe not found", err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *Handler) createRecipe(c *gin.Context) {
	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	created, err := h.recipes.Create(c.Request.Context(), h.auth.Status(), recipe)
	if err != nil {
		writeError(c, "Failed to save recipe", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateRecipe(c *gin.Context) {
	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.recipes.Update(c.Request.Context(), h.auth.Status(), c.Param("id"), recipe)
	if err != nil {
		writeError(c, "Failed to save recipe", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteRecipe(c *gin.Context) {
	if err := h.recipes.Delete(c.Request.Context(), h.auth.Status(), c.Param("id")); err != nil {
		writeError(c, "Failed to delete recipe", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CredentialsRequest is the body of the login and register routes
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	h.authenticate(c, h.auth.Login, http.StatusUnauthorized)
}

func (h *Handler) register(c *gin.Context) {
	h.authenticate(c, h.auth.Register, http.StatusBadRequest)
}

func (h *Handler) authenticate(c *gin.Context, action func(context.Context, string, string) service.AuthResult, failure int) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result := action(c.Request.Context(), req.Username, req.Password)
	if !result.Success {
		c.JSON(failure, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, h.auth.Logout(c.Request.Context()))
}

func (h *Handler) currentUser(c *gin.Context) {
	c.JSON(http.StatusOK, h.auth.Status())
}

// writeError maps service errors onto HTTP status codes.
func writeError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	var upstream *remote.StatusError

	switch {
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrRecipeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotRecipeOwner):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidRecipe),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, cart.ErrInvalidPrice):
		status = http.StatusBadRequest
	case errors.As(err, &upstream):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
