package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

/* ─── CRUD ───────────────────────────────────────────────────────────── */

// listPlans returns plan summaries without week menus.
func (h *Handler) listPlans(c *gin.Context) {
	plans, err := h.plans.ListPlans(c.Request.Context())
	if err != nil {
		storeError(c, "listPlans", err, "nutrition plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *Handler) getPlan(c *gin.Context) {
	plan, err := h.plans.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, "getPlan", err, "nutrition plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handler) createPlan(c *gin.Context) {
	var in store.PlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if msg := validatePlanInput(in); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	plan, err := h.plans.CreatePlan(c.Request.Context(), in)
	if err != nil {
		storeError(c, "createPlan", err, "nutrition plan")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// updatePlan replaces the provided fields; omitted fields keep their value.
func (h *Handler) updatePlan(c *gin.Context) {
	var in store.PlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		apiError(c, http.StatusBadRequest, "name cannot be empty")
		return
	}
	if msg := validatePlanInput(in); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	plan, err := h.plans.UpdatePlan(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		storeError(c, "updatePlan", err, "nutrition plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handler) deletePlan(c *gin.Context) {
	if err := h.plans.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, "deletePlan", err, "nutrition plan")
		return
	}
	c.Status(http.StatusNoContent)
}

// validatePlanInput rejects negative targets and unknown day keys.
func validatePlanInput(in store.PlanInput) string {
	if in.Calories != nil && *in.Calories < 0 {
		return "calories cannot be negative"
	}
	for _, v := range []*float64{in.Protein, in.Carbs, in.Fat} {
		if v != nil && *v < 0 {
			return "macro targets cannot be negative"
		}
	}
	if in.WeekMenu != nil {
		for day := range *in.WeekMenu {
			if !nutrition.ValidDay(day) {
				return "week_menu has an unknown day: " + day
			}
		}
	}
	return ""
}

/* ─── Totals ─────────────────────────────────────────────────────────── */

// getPlanTotals recomputes the week against the current catalog.
// GET /api/nutrition-plans/:id/totals
func (h *Handler) getPlanTotals(c *gin.Context) {
	plan, err := h.plans.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, "getPlanTotals", err, "nutrition plan")
		return
	}
	m, err := h.loadMatcher(c)
	if err != nil {
		storeError(c, "getPlanTotals", err, "ingredients")
		return
	}

	totals := nutrition.AggregateWeek(plan.WeekMenu, m)
	logWarnings(c, "getPlanTotals", totals.Warnings)
	c.JSON(http.StatusOK, totals)
}

// getPlanDayTotals computes one day. GET /api/nutrition-plans/:id/days/:day/totals
func (h *Handler) getPlanDayTotals(c *gin.Context) {
	day := strings.ToLower(c.Param("day"))
	if !nutrition.ValidDay(day) {
		apiError(c, http.StatusBadRequest, "day must be monday..sunday")
		return
	}
	plan, err := h.plans.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, "getPlanDayTotals", err, "nutrition plan")
		return
	}
	m, err := h.loadMatcher(c)
	if err != nil {
		storeError(c, "getPlanDayTotals", err, "ingredients")
		return
	}

	totals := nutrition.AggregateDay(day, plan.WeekMenu[day], m)
	logWarnings(c, "getPlanDayTotals", totals.Warnings)
	c.JSON(http.StatusOK, totals)
}

/* ─── Meal item edit ─────────────────────────────────────────────────── */

// patchMealItem rewrites the amount of one token in a meal slot, leaving the
// rest of the description untouched, and returns the slot's new totals.
// PATCH /api/nutrition-plans/:id/meals/:day/:meal/items/:index
func (h *Handler) patchMealItem(c *gin.Context) {
	day := strings.ToLower(c.Param("day"))
	meal := c.Param("meal")
	if !nutrition.ValidDay(day) {
		apiError(c, http.StatusBadRequest, "day must be monday..sunday")
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "index must be an integer")
		return
	}
	var body mealItemPatch
	if err := c.ShouldBindJSON(&body); err != nil || body.Quantity == nil {
		apiError(c, http.StatusBadRequest, "quantity is required")
		return
	}

	plan, err := h.plans.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, "patchMealItem", err, "nutrition plan")
		return
	}
	entry, ok := plan.WeekMenu[day][meal]
	if !ok || entry.Empty() {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	text, err := nutrition.SetQuantity(entry.Ingredients, index, *body.Quantity)
	switch {
	case errors.Is(err, nutrition.ErrInvalidQuantity):
		apiError(c, http.StatusBadRequest, "quantity must be positive")
		return
	case errors.Is(err, nutrition.ErrIndexOutOfRange):
		apiError(c, http.StatusNotFound, "item not found")
		return
	case err != nil:
		requestLogger(c).Errorf("[patchMealItem] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to update meal")
		return
	}

	entry.Ingredients = text
	plan.WeekMenu[day][meal] = entry
	if err := h.plans.UpdateWeekMenu(c.Request.Context(), plan.ID, plan.WeekMenu); err != nil {
		storeError(c, "patchMealItem", err, "nutrition plan")
		return
	}

	m, err := h.loadMatcher(c)
	if err != nil {
		storeError(c, "patchMealItem", err, "ingredients")
		return
	}
	parsed := nutrition.ParseMealDetailed(text)
	items, total, warnings := nutrition.CalculateItems(parsed.Tokens, m)
	for i := range warnings {
		warnings[i].Day, warnings[i].Meal = day, meal
	}
	logWarnings(c, "patchMealItem", warnings)

	c.JSON(http.StatusOK, mealItemResponse{
		Day:      day,
		Meal:     meal,
		Entry:    entry,
		Totals:   nutrition.MealTotals{Meal: meal, Recipe: parsed.Recipe, Items: items, Totals: total},
		Warnings: warnings,
	})
}
