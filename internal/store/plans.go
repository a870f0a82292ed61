package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
)

const planColumns = `id, name, description, calories, protein, carbs, fat, week_menu, created_at, updated_at`

// NutritionPlan is a week menu plus its macro targets. Meal slots are stored
// as JSON under week_menu, keyed by day then meal type.
type NutritionPlan struct {
	ID          string             `json:"id" db:"id"`
	Name        string             `json:"name" db:"name"`
	Description string             `json:"description" db:"description"`
	Calories    int                `json:"calories" db:"calories"`
	Protein     float64            `json:"protein" db:"protein"`
	Carbs       float64            `json:"carbs" db:"carbs"`
	Fat         float64            `json:"fat" db:"fat"`
	WeekMenu    nutrition.WeekMenu `json:"week_menu" db:"week_menu"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" db:"updated_at"`
}

// PlanSummary is a plan without its menu, for list views.
type PlanSummary struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Calories    int       `json:"calories" db:"calories"`
	Protein     float64   `json:"protein" db:"protein"`
	Carbs       float64   `json:"carbs" db:"carbs"`
	Fat         float64   `json:"fat" db:"fat"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PlanInput is the writable part of a plan. On update, nil fields keep their
// stored value.
type PlanInput struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Calories    *int                `json:"calories"`
	Protein     *float64            `json:"protein"`
	Carbs       *float64            `json:"carbs"`
	Fat         *float64            `json:"fat"`
	WeekMenu    *nutrition.WeekMenu `json:"week_menu"`
}

// ListPlans returns every plan without menus, most recently edited first.
func (s *Store) ListPlans(ctx context.Context) ([]PlanSummary, error) {
	plans, err := queryMany[PlanSummary](ctx, s,
		`SELECT id, name, description, calories, protein, carbs, fat, updated_at
		 FROM nutrition_plans ORDER BY updated_at DESC, id`, nil)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// ListPlansWithMenus loads every plan including menus, for maintenance passes.
func (s *Store) ListPlansWithMenus(ctx context.Context) ([]NutritionPlan, error) {
	plans, err := queryMany[NutritionPlan](ctx, s,
		"SELECT "+planColumns+" FROM nutrition_plans ORDER BY name, id", nil)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// GetPlan loads one plan with its menu.
func (s *Store) GetPlan(ctx context.Context, id string) (NutritionPlan, error) {
	p, err := queryOne[NutritionPlan](ctx, s,
		"SELECT "+planColumns+" FROM nutrition_plans WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		return p, fmt.Errorf("get plan %s: %w", id, err)
	}
	return p, nil
}

// CreatePlan inserts a plan. Name must be set by the caller.
func (s *Store) CreatePlan(ctx context.Context, in PlanInput) (NutritionPlan, error) {
	menu := nutrition.WeekMenu{}
	if in.WeekMenu != nil {
		menu = *in.WeekMenu
	}
	menuJSON, err := json.Marshal(menu)
	if err != nil {
		return NutritionPlan{}, fmt.Errorf("encode week menu: %w", err)
	}

	p, err := queryOne[NutritionPlan](ctx, s,
		`INSERT INTO nutrition_plans (id, name, description, calories, protein, carbs, fat, week_menu)
		 VALUES (@id, @name, @description, @calories, @protein, @carbs, @fat, @week_menu::jsonb)
		 RETURNING `+planColumns,
		pgx.NamedArgs{
			"id":          NewID(),
			"name":        deref(in.Name, ""),
			"description": deref(in.Description, ""),
			"calories":    deref(in.Calories, 0),
			"protein":     deref(in.Protein, 0),
			"carbs":       deref(in.Carbs, 0),
			"fat":         deref(in.Fat, 0),
			"week_menu":   string(menuJSON),
		})
	if err != nil {
		return p, fmt.Errorf("create plan: %w", err)
	}
	return p, nil
}

// UpdatePlan replaces the provided fields, keeping the rest (COALESCE).
func (s *Store) UpdatePlan(ctx context.Context, id string, in PlanInput) (NutritionPlan, error) {
	var menuJSON *string
	if in.WeekMenu != nil {
		b, err := json.Marshal(*in.WeekMenu)
		if err != nil {
			return NutritionPlan{}, fmt.Errorf("encode week menu: %w", err)
		}
		str := string(b)
		menuJSON = &str
	}

	p, err := queryOne[NutritionPlan](ctx, s,
		`UPDATE nutrition_plans SET
			name        = COALESCE(@name, name),
			description = COALESCE(@description, description),
			calories    = COALESCE(@calories::int, calories),
			protein     = COALESCE(@protein::float8, protein),
			carbs       = COALESCE(@carbs::float8, carbs),
			fat         = COALESCE(@fat::float8, fat),
			week_menu   = COALESCE(@week_menu::jsonb, week_menu),
			updated_at  = now()
		 WHERE id = @id
		 RETURNING `+planColumns,
		pgx.NamedArgs{
			"id":          id,
			"name":        in.Name,
			"description": in.Description,
			"calories":    in.Calories,
			"protein":     in.Protein,
			"carbs":       in.Carbs,
			"fat":         in.Fat,
			"week_menu":   menuJSON,
		})
	if err != nil {
		return p, fmt.Errorf("update plan %s: %w", id, err)
	}
	return p, nil
}

// UpdateWeekMenu stores a whole menu, used after a single-token edit.
func (s *Store) UpdateWeekMenu(ctx context.Context, id string, menu nutrition.WeekMenu) error {
	b, err := json.Marshal(menu)
	if err != nil {
		return fmt.Errorf("encode week menu: %w", err)
	}
	if err := s.exec(ctx,
		"UPDATE nutrition_plans SET week_menu = @week_menu::jsonb, updated_at = now() WHERE id = @id",
		pgx.NamedArgs{"id": id, "week_menu": string(b)}); err != nil {
		return fmt.Errorf("update week menu %s: %w", id, err)
	}
	return nil
}

// DeletePlan removes a plan; customers assigned to it are unassigned by the
// foreign key's ON DELETE SET NULL.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	if err := s.exec(ctx, "DELETE FROM nutrition_plans WHERE id = @id", pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("delete plan %s: %w", id, err)
	}
	return nil
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
