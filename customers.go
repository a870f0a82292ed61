package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

var validSexes = map[string]bool{"male": true, "female": true}

func (h *Handler) listCustomers(c *gin.Context) {
	cs, err := h.customers.ListCustomers(c.Request.Context())
	if err != nil {
		storeError(c, "listCustomers", err, "customers")
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (h *Handler) getCustomer(c *gin.Context) {
	cu, err := h.customers.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, "getCustomer", err, "customer")
		return
	}
	c.JSON(http.StatusOK, cu)
}

func (h *Handler) createCustomer(c *gin.Context) {
	var p store.CustomerPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if msg := validateCustomerPatch(p); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	cu, err := h.customers.CreateCustomer(c.Request.Context(), p)
	if err != nil {
		storeError(c, "createCustomer", err, "customer")
		return
	}
	c.JSON(http.StatusCreated, cu)
}

// patchCustomer updates only the profile fields present in the body.
func (h *Handler) patchCustomer(c *gin.Context) {
	var p store.CustomerPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		apiError(c, http.StatusBadRequest, "name cannot be empty")
		return
	}
	if msg := validateCustomerPatch(p); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	cu, err := h.customers.UpdateCustomer(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		storeError(c, "patchCustomer", err, "customer")
		return
	}
	c.JSON(http.StatusOK, cu)
}

func validateCustomerPatch(p store.CustomerPatch) string {
	if p.Sex != nil && !validSexes[*p.Sex] {
		return "sex must be male or female"
	}
	if p.ActivityLevel != nil {
		if _, ok := activityMultipliers[*p.ActivityLevel]; !ok {
			return "activity_level must be sedentary, light, moderate, active or very_active"
		}
	}
	if p.Goal != nil {
		if _, ok := goalAdjustments[*p.Goal]; !ok {
			return "goal must be lose, maintain or gain"
		}
	}
	if p.DateOfBirth != nil {
		if _, err := store.ParseDate(*p.DateOfBirth); err != nil {
			return "date_of_birth must be YYYY-MM-DD"
		}
	}
	if p.HeightCM != nil && (*p.HeightCM <= 0 || *p.HeightCM > 300) {
		return "height_cm is out of range"
	}
	if p.WeightKG != nil && (*p.WeightKG <= 0 || *p.WeightKG > 500) {
		return "weight_kg is out of range"
	}
	return ""
}

/* ─── Plan assignment & portal ───────────────────────────────────────── */

// assignCustomerPlan links a plan to a customer. An empty plan_id clears it.
// PUT /api/customers/:id/nutrition-plan
func (h *Handler) assignCustomerPlan(c *gin.Context) {
	var req assignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var start *store.DateOnly
	if req.StartDate != "" {
		d, err := store.ParseDate(req.StartDate)
		if err != nil {
			apiError(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		start = &d
	} else if req.PlanID != "" {
		d := store.DateOnly{Time: currentMonday(time.Now())}
		start = &d
	}

	cu, err := h.customers.AssignPlan(c.Request.Context(), c.Param("id"), req.PlanID, start)
	if err != nil {
		storeError(c, "assignCustomerPlan", err, "customer or nutrition plan")
		return
	}
	c.JSON(http.StatusOK, cu)
}

// getCustomerPlan is the client-portal view: the assigned plan with its week
// totals recomputed against the current catalog.
// GET /api/customers/:id/nutrition-plan
func (h *Handler) getCustomerPlan(c *gin.Context) {
	cu, err := h.customers.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, "getCustomerPlan", err, "customer")
		return
	}
	if cu.NutritionPlanID == nil {
		apiError(c, http.StatusNotFound, "customer has no nutrition plan")
		return
	}
	plan, err := h.plans.GetPlan(c.Request.Context(), *cu.NutritionPlanID)
	if err != nil {
		storeError(c, "getCustomerPlan", err, "nutrition plan")
		return
	}
	m, err := h.loadMatcher(c)
	if err != nil {
		storeError(c, "getCustomerPlan", err, "ingredients")
		return
	}

	now := time.Now()
	totals := nutrition.AggregateWeek(plan.WeekMenu, m)
	logWarnings(c, "getCustomerPlan", totals.Warnings)

	resp := customerPlanResponse{
		Customer: cu,
		Plan:     plan,
		Totals:   totals,
		WeekOf:   store.DateOnly{Time: currentMonday(now)},
		Today:    strings.ToLower(now.Weekday().String()),
	}
	if cu.PlanStartDate != nil && !now.Before(cu.PlanStartDate.Time) {
		resp.PlanWeek = int(now.Sub(cu.PlanStartDate.Time).Hours()/24/7) + 1
	}
	c.JSON(http.StatusOK, resp)
}

// getCustomerTargets derives daily targets from the customer profile.
// Returns 422 while the profile is incomplete.
func (h *Handler) getCustomerTargets(c *gin.Context) {
	cu, err := h.customers.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, "getCustomerTargets", err, "customer")
		return
	}
	targets, ok := computeTargets(&cu, time.Now())
	if !ok {
		apiError(c, http.StatusUnprocessableEntity,
			"profile incomplete: sex, date_of_birth, height_cm, weight_kg and activity_level are required")
		return
	}
	c.JSON(http.StatusOK, targets)
}
