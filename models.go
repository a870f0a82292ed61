package main

import (
	"github.com/media2net-app/mihaelafitness/internal/nutrition"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

/* ─── Auth ───────────────────────────────────────────────────────────── */

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID int    `json:"user_id"`
}

/* ─── Ingredients ────────────────────────────────────────────────────── */

// bulkImportRequest is the body of POST /api/ingredients/bulk-import.
// Mode defaults to skip-existing.
type bulkImportRequest struct {
	Ingredients []nutrition.Ingredient `json:"ingredients"`
	Mode        store.ImportMode       `json:"mode"`
}

/* ─── Calculation ────────────────────────────────────────────────────── */

type calculateRequest struct {
	Ingredients []string `json:"ingredients"`
}

// calculateResponse lists each line's contribution. Unmatched lines appear
// with zero macros and a warning.
type calculateResponse struct {
	Items    []nutrition.ItemResult `json:"items"`
	Totals   nutrition.Macros       `json:"totals"`
	Warnings []nutrition.Warning    `json:"warnings"`
}

type parseRequest struct {
	Text string `json:"text"`
}

// parseResponse is the token preview plus the tokens written back in
// canonical form ("150g Banana, 2 Eggs").
type parseResponse struct {
	nutrition.ParsedMeal
	Normalized string `json:"normalized"`
}

/* ─── Plans ──────────────────────────────────────────────────────────── */

type mealItemPatch struct {
	Quantity *float64 `json:"quantity"`
}

// mealItemResponse returns the rewritten meal text and its recomputed totals.
type mealItemResponse struct {
	Day      string               `json:"day"`
	Meal     string               `json:"meal"`
	Entry    nutrition.MealEntry  `json:"entry"`
	Totals   nutrition.MealTotals `json:"totals"`
	Warnings []nutrition.Warning  `json:"warnings"`
}

/* ─── Customers ──────────────────────────────────────────────────────── */

type assignPlanRequest struct {
	PlanID    string `json:"plan_id"`
	StartDate string `json:"start_date"`
}

// customerPlanResponse is the client-portal view of an assigned plan.
type customerPlanResponse struct {
	Customer store.Customer       `json:"customer"`
	Plan     store.NutritionPlan  `json:"plan"`
	Totals   nutrition.WeekTotals `json:"totals"`
	WeekOf   store.DateOnly       `json:"week_of"`
	Today    string               `json:"today"`
	PlanWeek int                  `json:"plan_week,omitempty"`
}

// macroTargets are the daily targets derived from a customer profile.
type macroTargets struct {
	BMR      int     `json:"bmr"`
	TDEE     int     `json:"tdee"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Goal     string  `json:"goal"`
}
