package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
)

const ingredientColumns = `id, name, name_localized, per, calories, protein, carbs, fat, fiber, sugar, category, aliases`

// IngredientFilter narrows ListIngredients. Empty fields match everything.
type IngredientFilter struct {
	Query    string
	Category string
}

// IngredientPatch carries the fields of a partial update; nil means unchanged.
type IngredientPatch struct {
	Name          *string   `json:"name"`
	NameLocalized *string   `json:"name_localized"`
	Per           *string   `json:"per"`
	Calories      *float64  `json:"calories"`
	Protein       *float64  `json:"protein"`
	Carbs         *float64  `json:"carbs"`
	Fat           *float64  `json:"fat"`
	Fiber         *float64  `json:"fiber"`
	Sugar         *float64  `json:"sugar"`
	Category      *string   `json:"category"`
	Aliases       *[]string `json:"aliases"`
}

// Empty reports whether the patch changes nothing.
func (p IngredientPatch) Empty() bool {
	return p.Name == nil && p.NameLocalized == nil && p.Per == nil &&
		p.Calories == nil && p.Protein == nil && p.Carbs == nil && p.Fat == nil &&
		p.Fiber == nil && p.Sugar == nil && p.Category == nil && p.Aliases == nil
}

// ListIngredients returns the catalog ordered by lower(name), id. Matching
// relies on this order for deterministic tie-breaks.
func (s *Store) ListIngredients(ctx context.Context, f IngredientFilter) ([]nutrition.Ingredient, error) {
	where := []string{"TRUE"}
	args := pgx.NamedArgs{}
	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, "(name ILIKE @q OR name_localized ILIKE @q)")
		args["q"] = "%" + q + "%"
	}
	if f.Category != "" {
		where = append(where, "category = @category")
		args["category"] = f.Category
	}

	items, err := queryMany[nutrition.Ingredient](ctx, s,
		"SELECT "+ingredientColumns+" FROM ingredients WHERE "+strings.Join(where, " AND ")+
			" ORDER BY lower(name), id", args)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

// GetIngredient loads one entry by id.
func (s *Store) GetIngredient(ctx context.Context, id string) (nutrition.Ingredient, error) {
	ing, err := queryOne[nutrition.Ingredient](ctx, s,
		"SELECT "+ingredientColumns+" FROM ingredients WHERE id = @id",
		pgx.NamedArgs{"id": id})
	if err != nil {
		return ing, fmt.Errorf("get ingredient %s: %w", id, err)
	}
	ing.Normalize()
	return ing, nil
}

// FindIngredientByName looks up an entry by case-insensitive name.
func (s *Store) FindIngredientByName(ctx context.Context, name string) (nutrition.Ingredient, error) {
	ing, err := queryOne[nutrition.Ingredient](ctx, s,
		"SELECT "+ingredientColumns+" FROM ingredients WHERE lower(name) = lower(@name)",
		pgx.NamedArgs{"name": strings.TrimSpace(name)})
	if err != nil {
		return ing, err
	}
	ing.Normalize()
	return ing, nil
}

// CreateIngredient inserts an entry with a fresh id and returns the stored row.
func (s *Store) CreateIngredient(ctx context.Context, ing nutrition.Ingredient) (nutrition.Ingredient, error) {
	args := ingredientArgs(ing)
	args["id"] = NewID()
	created, err := queryOne[nutrition.Ingredient](ctx, s,
		`INSERT INTO ingredients (`+ingredientColumns+`)
		 VALUES (@id, @name, @name_localized, @per, @calories, @protein, @carbs, @fat, @fiber, @sugar, @category, @aliases)
		 RETURNING `+ingredientColumns, args)
	if err != nil {
		return created, fmt.Errorf("create ingredient %q: %w", ing.Name, err)
	}
	created.Normalize()
	return created, nil
}

// UpdateIngredient writes only the fields present in the patch.
func (s *Store) UpdateIngredient(ctx context.Context, id string, p IngredientPatch) (nutrition.Ingredient, error) {
	setClauses := []string{}
	args := pgx.NamedArgs{"id": id}
	set := func(column string, value any) {
		setClauses = append(setClauses, column+" = @"+column)
		args[column] = value
	}

	if p.Name != nil {
		set("name", strings.TrimSpace(*p.Name))
	}
	if p.NameLocalized != nil {
		set("name_localized", *p.NameLocalized)
	}
	if p.Per != nil {
		set("per", *p.Per)
	}
	if p.Calories != nil {
		set("calories", *p.Calories)
	}
	if p.Protein != nil {
		set("protein", *p.Protein)
	}
	if p.Carbs != nil {
		set("carbs", *p.Carbs)
	}
	if p.Fat != nil {
		set("fat", *p.Fat)
	}
	if p.Fiber != nil {
		set("fiber", *p.Fiber)
	}
	if p.Sugar != nil {
		set("sugar", *p.Sugar)
	}
	if p.Category != nil {
		set("category", *p.Category)
	}
	if p.Aliases != nil {
		set("aliases", textArray(*p.Aliases))
	}
	if len(setClauses) == 0 {
		return s.GetIngredient(ctx, id)
	}

	updated, err := queryOne[nutrition.Ingredient](ctx, s,
		"UPDATE ingredients SET "+strings.Join(setClauses, ", ")+", updated_at = now()"+
			" WHERE id = @id RETURNING "+ingredientColumns, args)
	if err != nil {
		return updated, fmt.Errorf("update ingredient %s: %w", id, err)
	}
	updated.Normalize()
	return updated, nil
}

// DeleteIngredient removes an entry. Plans that reference it by id fall back
// to name matching on their next read.
func (s *Store) DeleteIngredient(ctx context.Context, id string) error {
	if err := s.exec(ctx, "DELETE FROM ingredients WHERE id = @id", pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("delete ingredient %s: %w", id, err)
	}
	return nil
}

// replaceIngredient overwrites every mutable column of an existing entry.
func (s *Store) replaceIngredient(ctx context.Context, id string, ing nutrition.Ingredient) error {
	args := ingredientArgs(ing)
	args["id"] = id
	err := s.exec(ctx,
		`UPDATE ingredients SET name = @name, name_localized = @name_localized, per = @per,
		 calories = @calories, protein = @protein, carbs = @carbs, fat = @fat, fiber = @fiber,
		 sugar = @sugar, category = @category, aliases = @aliases, updated_at = now()
		 WHERE id = @id`, args)
	if err != nil {
		return fmt.Errorf("replace ingredient %s: %w", id, err)
	}
	return nil
}

/* ─── Bulk import ─────────────────────────────────────────────────────── */

// ImportMode decides what BulkImport does with names already in the catalog.
type ImportMode string

const (
	ImportSkipExisting   ImportMode = "skip-existing"
	ImportUpdateExisting ImportMode = "update-existing"
	ImportUpsert         ImportMode = "upsert"
)

// Valid reports whether m is a known mode.
func (m ImportMode) Valid() bool {
	return m == ImportSkipExisting || m == ImportUpdateExisting || m == ImportUpsert
}

// ImportResult counts what BulkImport did. Errors holds one message per
// failed entry; a failure never stops the batch.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// BulkImport applies entries one at a time:
//   - skip-existing creates new names and leaves existing ones alone;
//   - update-existing overwrites existing names and skips new ones;
//   - upsert does both.
func (s *Store) BulkImport(ctx context.Context, entries []nutrition.Ingredient, mode ImportMode) ImportResult {
	res := ImportResult{Errors: []string{}}
	for i, ing := range entries {
		if strings.TrimSpace(ing.Name) == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("entry %d: name is required", i))
			continue
		}

		existing, err := s.FindIngredientByName(ctx, ing.Name)
		found := err == nil
		if err != nil && !errors.Is(err, ErrNotFound) {
			s.log.WithField("ingredient", ing.Name).Errorf("[BulkImport] lookup failed: %v", err)
			res.Errors = append(res.Errors, fmt.Sprintf("%s: lookup failed", ing.Name))
			continue
		}

		switch {
		case found && mode == ImportSkipExisting, !found && mode == ImportUpdateExisting:
			res.Skipped++
		case found:
			if err := s.replaceIngredient(ctx, existing.ID, ing); err != nil {
				s.log.WithField("ingredient", ing.Name).Errorf("[BulkImport] update failed: %v", err)
				res.Errors = append(res.Errors, fmt.Sprintf("%s: update failed", ing.Name))
				continue
			}
			res.Updated++
		default:
			if _, err := s.CreateIngredient(ctx, ing); err != nil {
				s.log.WithField("ingredient", ing.Name).Errorf("[BulkImport] create failed: %v", err)
				res.Errors = append(res.Errors, fmt.Sprintf("%s: create failed", ing.Name))
				continue
			}
			res.Created++
		}
	}
	return res
}

func ingredientArgs(ing nutrition.Ingredient) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":           strings.TrimSpace(ing.Name),
		"name_localized": ing.NameLocalized,
		"per":            ing.Per,
		"calories":       ing.Calories,
		"protein":        ing.Protein,
		"carbs":          ing.Carbs,
		"fat":            ing.Fat,
		"fiber":          ing.Fiber,
		"sugar":          ing.Sugar,
		"category":       ing.Category,
		"aliases":        textArray(ing.Aliases),
	}
}

// textArray keeps a nil slice from being written as NULL.
func textArray(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}
