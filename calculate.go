package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
)

// calculateMacros resolves a list of ingredient lines ("150g Banana",
// "<id>|2 Egg") against the catalog. POST /api/calculate-macros
func (h *Handler) calculateMacros(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Ingredients) == 0 {
		apiError(c, http.StatusBadRequest, "ingredients must not be empty")
		return
	}

	var tokens []nutrition.Token
	for _, line := range req.Ingredients {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if t, ok := nutrition.ParseToken(line); ok {
			tokens = append(tokens, t)
		}
	}

	m, err := h.loadMatcher(c)
	if err != nil {
		storeError(c, "calculateMacros", err, "ingredients")
		return
	}
	items, totals, warnings := nutrition.CalculateItems(tokens, m)
	logWarnings(c, "calculateMacros", warnings)

	c.JSON(http.StatusOK, calculateResponse{Items: items, Totals: totals, Warnings: warnings})
}

// parseMeal previews how a meal description splits into tokens, for the
// text-import screen. POST /api/meals/parse
func (h *Handler) parseMeal(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	parsed := nutrition.ParseMealDetailed(req.Text)
	c.JSON(http.StatusOK, parseResponse{ParsedMeal: parsed, Normalized: nutrition.FormatMeal(parsed.Tokens)})
}
