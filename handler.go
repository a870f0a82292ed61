package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/media2net-app/mihaelafitness/internal/config"
	"github.com/media2net-app/mihaelafitness/internal/nutrition"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

/* ─── Store interfaces ────────────────────────────────────────────────── */

type ingredientStore interface {
	ListIngredients(ctx context.Context, f store.IngredientFilter) ([]nutrition.Ingredient, error)
	GetIngredient(ctx context.Context, id string) (nutrition.Ingredient, error)
	CreateIngredient(ctx context.Context, ing nutrition.Ingredient) (nutrition.Ingredient, error)
	UpdateIngredient(ctx context.Context, id string, p store.IngredientPatch) (nutrition.Ingredient, error)
	DeleteIngredient(ctx context.Context, id string) error
	BulkImport(ctx context.Context, entries []nutrition.Ingredient, mode store.ImportMode) store.ImportResult
}

type planStore interface {
	ListPlans(ctx context.Context) ([]store.PlanSummary, error)
	GetPlan(ctx context.Context, id string) (store.NutritionPlan, error)
	CreatePlan(ctx context.Context, in store.PlanInput) (store.NutritionPlan, error)
	UpdatePlan(ctx context.Context, id string, in store.PlanInput) (store.NutritionPlan, error)
	UpdateWeekMenu(ctx context.Context, id string, menu nutrition.WeekMenu) error
	DeletePlan(ctx context.Context, id string) error
}

type customerStore interface {
	ListCustomers(ctx context.Context) ([]store.Customer, error)
	GetCustomer(ctx context.Context, id string) (store.Customer, error)
	CreateCustomer(ctx context.Context, p store.CustomerPatch) (store.Customer, error)
	UpdateCustomer(ctx context.Context, id string, p store.CustomerPatch) (store.Customer, error)
	AssignPlan(ctx context.Context, customerID, planID string, start *store.DateOnly) (store.Customer, error)
}

type userStore interface {
	UserByUsername(ctx context.Context, username string) (store.User, error)
	UserByID(ctx context.Context, id int) (store.User, error)
}

// Handler holds shared dependencies (stores, config) for all route handlers.
type Handler struct {
	ingredients ingredientStore
	plans       planStore
	customers   customerStore
	users       userStore

	jwtSecret     []byte
	sessionTTL    time.Duration
	secureCookie  bool
	openAIKey     string
	openAIBaseURL string // Base URL for OpenAI API (overridable for tests)
}

// newHandler wires every store interface to the same Postgres store.
func newHandler(st *store.Store, cfg config.Config) *Handler {
	return &Handler{
		ingredients:   st,
		plans:         st,
		customers:     st,
		users:         st,
		jwtSecret:     []byte(cfg.JWTSecret),
		sessionTTL:    cfg.SessionTTL,
		secureCookie:  gin.Mode() == gin.ReleaseMode,
		openAIKey:     cfg.OpenAIKey,
		openAIBaseURL: cfg.OpenAIBaseURL,
	}
}

/* ─── Error helpers ───────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// storeError maps a store failure to a response. Not-found and duplicate
// errors get their own status; anything else is logged and reported as a
// fixed message so driver errors never reach the client.
func storeError(c *gin.Context, fn string, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		apiError(c, http.StatusNotFound, what+" not found")
	case errors.Is(err, store.ErrDuplicateName):
		apiError(c, http.StatusConflict, what+" with this name already exists")
	default:
		requestLogger(c).Errorf("[%s] %v", fn, err)
		apiError(c, http.StatusInternalServerError, "failed to process "+what)
	}
}

/* ─── Routes ──────────────────────────────────────────────────────────── */

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.POST("/api/logout", h.logout)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())

	api.GET("/me", h.me)

	api.GET("/ingredients", h.listIngredients)
	api.POST("/ingredients", h.createIngredient)
	api.POST("/ingredients/bulk-import", h.bulkImportIngredients)
	api.POST("/ingredients/suggest", h.suggestIngredient)
	api.GET("/ingredients/:id", h.getIngredient)
	api.PATCH("/ingredients/:id", h.patchIngredient)
	api.DELETE("/ingredients/:id", h.deleteIngredient)

	api.GET("/nutrition-plans", h.listPlans)
	api.POST("/nutrition-plans", h.createPlan)
	api.GET("/nutrition-plans/:id", h.getPlan)
	api.PUT("/nutrition-plans/:id", h.updatePlan)
	api.DELETE("/nutrition-plans/:id", h.deletePlan)
	api.GET("/nutrition-plans/:id/totals", h.getPlanTotals)
	api.GET("/nutrition-plans/:id/days/:day/totals", h.getPlanDayTotals)
	api.PATCH("/nutrition-plans/:id/meals/:day/:meal/items/:index", h.patchMealItem)

	api.POST("/calculate-macros", h.calculateMacros)
	api.POST("/meals/parse", h.parseMeal)

	api.GET("/customers", h.listCustomers)
	api.POST("/customers", h.createCustomer)
	api.GET("/customers/:id", h.getCustomer)
	api.PATCH("/customers/:id", h.patchCustomer)
	api.PUT("/customers/:id/nutrition-plan", h.assignCustomerPlan)
	api.GET("/customers/:id/nutrition-plan", h.getCustomerPlan)
	api.GET("/customers/:id/targets", h.getCustomerTargets)
}

// loadMatcher builds a matcher over the current catalog. Totals are always
// computed against the live catalog, never a stored snapshot.
func (h *Handler) loadMatcher(c *gin.Context) (*nutrition.Matcher, error) {
	catalog, err := h.ingredients.ListIngredients(c.Request.Context(), store.IngredientFilter{})
	if err != nil {
		return nil, err
	}
	return nutrition.NewMatcher(catalog), nil
}

// logWarnings records unmatched and mis-united ingredients; they are also
// returned to the caller in the response body.
func logWarnings(c *gin.Context, fn string, warnings []nutrition.Warning) {
	log := requestLogger(c)
	for _, w := range warnings {
		log.WithFields(logrus.Fields{
			"kind":       w.Kind,
			"ingredient": w.Ingredient,
			"day":        w.Day,
			"meal":       w.Meal,
		}).Warnf("[%s] %s", fn, w.Kind)
	}
}
