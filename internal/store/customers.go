package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, name, email, sex, date_of_birth, height_cm, weight_kg, activity_level, goal, nutrition_plan_id, plan_start_date, created_at`

// Customer is a coaching client. Profile fields are nullable; targets are
// only computed once they are all present.
type Customer struct {
	ID              string     `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	Sex             *string    `json:"sex" db:"sex"`
	DateOfBirth     *DateOnly  `json:"date_of_birth" db:"date_of_birth"`
	HeightCM        *float64   `json:"height_cm" db:"height_cm"`
	WeightKG        *float64   `json:"weight_kg" db:"weight_kg"`
	ActivityLevel   *string    `json:"activity_level" db:"activity_level"`
	Goal            *string    `json:"goal" db:"goal"`
	NutritionPlanID *string    `json:"nutrition_plan_id" db:"nutrition_plan_id"`
	PlanStartDate   *DateOnly  `json:"plan_start_date" db:"plan_start_date"`
	CreatedAt       *time.Time `json:"created_at" db:"created_at"`
}

// CustomerPatch carries a partial customer update; nil means unchanged.
// Dates are YYYY-MM-DD strings.
type CustomerPatch struct {
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	Sex           *string  `json:"sex"`
	DateOfBirth   *string  `json:"date_of_birth"`
	HeightCM      *float64 `json:"height_cm"`
	WeightKG      *float64 `json:"weight_kg"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
}

// ListCustomers returns every customer ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]Customer, error) {
	cs, err := queryMany[Customer](ctx, s,
		"SELECT "+customerColumns+" FROM customers ORDER BY lower(name), id", nil)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return cs, nil
}

// GetCustomer loads one customer.
func (s *Store) GetCustomer(ctx context.Context, id string) (Customer, error) {
	c, err := queryOne[Customer](ctx, s,
		"SELECT "+customerColumns+" FROM customers WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		return c, fmt.Errorf("get customer %s: %w", id, err)
	}
	return c, nil
}

// CreateCustomer inserts a customer from the provided fields.
func (s *Store) CreateCustomer(ctx context.Context, p CustomerPatch) (Customer, error) {
	c, err := queryOne[Customer](ctx, s,
		`INSERT INTO customers (id, name, email, sex, date_of_birth, height_cm, weight_kg, activity_level, goal)
		 VALUES (@id, @name, @email, @sex, @date_of_birth::date, @height_cm::float8, @weight_kg::float8, @activity_level, @goal)
		 RETURNING `+customerColumns,
		pgx.NamedArgs{
			"id":             NewID(),
			"name":           strings.TrimSpace(deref(p.Name, "")),
			"email":          strings.TrimSpace(deref(p.Email, "")),
			"sex":            p.Sex,
			"date_of_birth":  p.DateOfBirth,
			"height_cm":      p.HeightCM,
			"weight_kg":      p.WeightKG,
			"activity_level": p.ActivityLevel,
			"goal":           p.Goal,
		})
	if err != nil {
		return c, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

// UpdateCustomer writes only the fields the caller sent.
func (s *Store) UpdateCustomer(ctx context.Context, id string, p CustomerPatch) (Customer, error) {
	setClauses := []string{}
	args := pgx.NamedArgs{"id": id}

	if p.Name != nil {
		setClauses = append(setClauses, "name = @name")
		args["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		setClauses = append(setClauses, "email = @email")
		args["email"] = strings.TrimSpace(*p.Email)
	}
	if p.Sex != nil {
		setClauses = append(setClauses, "sex = @sex")
		args["sex"] = *p.Sex
	}
	if p.DateOfBirth != nil {
		setClauses = append(setClauses, "date_of_birth = @dateOfBirth::date")
		args["dateOfBirth"] = *p.DateOfBirth
	}
	if p.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *p.HeightCM
	}
	if p.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *p.WeightKG
	}
	if p.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = *p.ActivityLevel
	}
	if p.Goal != nil {
		setClauses = append(setClauses, "goal = @goal")
		args["goal"] = *p.Goal
	}
	if len(setClauses) == 0 {
		return s.GetCustomer(ctx, id)
	}

	c, err := queryOne[Customer](ctx, s,
		"UPDATE customers SET "+strings.Join(setClauses, ", ")+" WHERE id = @id RETURNING "+customerColumns,
		args)
	if err != nil {
		return c, fmt.Errorf("update customer %s: %w", id, err)
	}
	return c, nil
}

// AssignPlan links a customer to a plan from start. An empty planID clears
// the assignment. Unknown customer or plan ids return ErrNotFound.
func (s *Store) AssignPlan(ctx context.Context, customerID, planID string, start *DateOnly) (Customer, error) {
	var planArg, startArg *string
	if planID != "" {
		var exists bool
		err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM nutrition_plans WHERE id = $1)", planID).Scan(&exists)
		if err != nil {
			return Customer{}, fmt.Errorf("check plan %s: %w", planID, translate(err))
		}
		if !exists {
			return Customer{}, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
		}
		planArg = &planID
		if start != nil {
			str := start.String()
			startArg = &str
		}
	}

	c, err := queryOne[Customer](ctx, s,
		`UPDATE customers SET nutrition_plan_id = @plan_id, plan_start_date = @start::date
		 WHERE id = @id RETURNING `+customerColumns,
		pgx.NamedArgs{"id": customerID, "plan_id": planArg, "start": startArg})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c, fmt.Errorf("customer %s: %w", customerID, err)
		}
		return c, fmt.Errorf("assign plan: %w", err)
	}
	return c, nil
}
