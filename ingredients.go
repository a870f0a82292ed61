package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

// listIngredients returns the catalog, optionally filtered by ?q= and ?category=.
func (h *Handler) listIngredients(c *gin.Context) {
	items, err := h.ingredients.ListIngredients(c.Request.Context(), store.IngredientFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		storeError(c, "listIngredients", err, "ingredients")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getIngredient(c *gin.Context) {
	ing, err := h.ingredients.GetIngredient(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, "getIngredient", err, "ingredient")
		return
	}
	c.JSON(http.StatusOK, ing)
}

// createIngredient adds a catalog entry. Name and a recognised per-basis are
// required; legacy TYPE: aliases are folded into the basis.
func (h *Handler) createIngredient(c *gin.Context) {
	var body nutrition.Ingredient
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if strings.TrimSpace(body.Per) == "" && len(nutrition.LegacyAliases(body)) == 0 {
		apiError(c, http.StatusBadRequest, "per is required")
		return
	}

	ing := nutrition.PrepareImport(body)
	if msg := validateIngredient(ing); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	created, err := h.ingredients.CreateIngredient(c.Request.Context(), ing)
	if err != nil {
		storeError(c, "createIngredient", err, "ingredient")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// patchIngredient updates only the fields present in the body.
func (h *Handler) patchIngredient(c *gin.Context) {
	var patch store.IngredientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		apiError(c, http.StatusBadRequest, "name cannot be empty")
		return
	}
	if patch.Per != nil {
		if _, ok := nutrition.ParseServingBasis(*patch.Per); !ok {
			apiError(c, http.StatusBadRequest, "per is not a recognised serving basis")
			return
		}
	}
	for _, v := range []*float64{patch.Calories, patch.Protein, patch.Carbs, patch.Fat, patch.Fiber, patch.Sugar} {
		if v != nil && *v < 0 {
			apiError(c, http.StatusBadRequest, "nutrition values cannot be negative")
			return
		}
	}

	updated, err := h.ingredients.UpdateIngredient(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		storeError(c, "patchIngredient", err, "ingredient")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteIngredient(c *gin.Context) {
	if err := h.ingredients.DeleteIngredient(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, "deleteIngredient", err, "ingredient")
		return
	}
	c.Status(http.StatusNoContent)
}

// bulkImportIngredients imports a list of entries. Individual failures are
// reported in the result and never abort the batch.
func (h *Handler) bulkImportIngredients(c *gin.Context) {
	var req bulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Mode == "" {
		req.Mode = store.ImportSkipExisting
	}
	if !req.Mode.Valid() {
		apiError(c, http.StatusBadRequest, "mode must be skip-existing, update-existing or upsert")
		return
	}
	if len(req.Ingredients) == 0 {
		apiError(c, http.StatusBadRequest, "ingredients must not be empty")
		return
	}

	entries := make([]nutrition.Ingredient, 0, len(req.Ingredients))
	var rejected []string
	for _, raw := range req.Ingredients {
		ing := nutrition.PrepareImport(raw)
		if msg := validateIngredient(ing); msg != "" && ing.Name != "" {
			rejected = append(rejected, ing.Name+": "+msg)
			continue
		}
		entries = append(entries, ing)
	}

	res := h.ingredients.BulkImport(c.Request.Context(), entries, req.Mode)
	res.Errors = append(res.Errors, rejected...)
	requestLogger(c).WithField("mode", req.Mode).Infof("[bulkImportIngredients] created=%d updated=%d skipped=%d errors=%d",
		res.Created, res.Updated, res.Skipped, len(res.Errors))
	c.JSON(http.StatusOK, res)
}

// validateIngredient returns a message describing the first problem, or "".
// Entries without a name are left to the store, which reports them per item.
func validateIngredient(ing nutrition.Ingredient) string {
	if _, ok := nutrition.ParseServingBasis(ing.Per); !ok {
		return "per is not a recognised serving basis"
	}
	for _, v := range []float64{ing.Calories, ing.Protein, ing.Carbs, ing.Fat, ing.Fiber, ing.Sugar} {
		if v < 0 {
			return "nutrition values cannot be negative"
		}
	}
	return ""
}
