package nutrition

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// Ingredient is one catalog entry. Macro fields are expressed per Basis, never
// implicitly per 100g unless the basis says so.
type Ingredient struct {
	ID            string       `json:"id" db:"id"`
	Name          string       `json:"name" db:"name"`
	NameLocalized string       `json:"name_localized" db:"name_localized"`
	Per           string       `json:"per" db:"per"`
	Calories      float64      `json:"calories" db:"calories"`
	Protein       float64      `json:"protein" db:"protein"`
	Carbs         float64      `json:"carbs" db:"carbs"`
	Fat           float64      `json:"fat" db:"fat"`
	Fiber         float64      `json:"fiber" db:"fiber"`
	Sugar         float64      `json:"sugar" db:"sugar"`
	Category      string       `json:"category" db:"category"`
	Aliases       []string     `json:"aliases" db:"aliases"`
	Basis         ServingBasis `json:"basis" db:"-"`
}

// ServingBasis returns the parsed basis, deriving it from Per when unset.
func (i *Ingredient) ServingBasis() ServingBasis {
	if i.Basis.Kind != "" {
		return i.Basis
	}
	b, _ := ParseServingBasis(i.Per)
	return b
}

// Normalize fills Basis from Per.
func (i *Ingredient) Normalize() {
	i.Basis, _ = ParseServingBasis(i.Per)
}

// Token is one parsed segment of a meal description.
type Token struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	IngredientID string  `json:"ingredient_id,omitempty"`

	segment int
}

// Macros holds nutrition values. Calories are whole numbers; the rest one decimal.
type Macros struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
}

// Add returns the field-wise sum, rounded to one decimal to drop float noise.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  round(m.Protein+o.Protein, 1),
		Carbs:    round(m.Carbs+o.Carbs, 1),
		Fat:      round(m.Fat+o.Fat, 1),
		Fiber:    round(m.Fiber+o.Fiber, 1),
		Sugar:    round(m.Sugar+o.Sugar, 1),
	}
}

// Div divides every field by n (used for daily averages).
func (m Macros) Div(n int) Macros {
	if n <= 0 {
		return Macros{}
	}
	d := float64(n)
	return Macros{
		Calories: int(round(float64(m.Calories)/d, 0)),
		Protein:  round(m.Protein/d, 1),
		Carbs:    round(m.Carbs/d, 1),
		Fat:      round(m.Fat/d, 1),
		Fiber:    round(m.Fiber/d, 1),
		Sugar:    round(m.Sugar/d, 1),
	}
}

// round rounds half away from zero at the given decimal places. The epsilon
// absorbs binary representation error so 0.45 rounds to 0.5, not 0.4.
func round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p+math.Copysign(1e-9, x)) / p
}

/* ─── Plan structures ────────────────────────────────────────────────── */

// MealEntry is a single meal slot. It is stored either as a bare string of
// ingredient tokens or as {ingredients, cookingInstructions}; it marshals back
// to whichever shape it was read from.
type MealEntry struct {
	Ingredients         string `json:"ingredients"`
	CookingInstructions string `json:"cookingInstructions,omitempty"`

	structured bool
}

// NewMealEntry builds a string-form meal slot.
func NewMealEntry(ingredients string) MealEntry {
	return MealEntry{Ingredients: ingredients}
}

// UnmarshalJSON accepts a JSON string, an object, or null.
func (m *MealEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = MealEntry{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = MealEntry{Ingredients: s}
		return nil
	}

	type alias MealEntry
	var aux alias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = MealEntry(aux)
	m.structured = true
	return nil
}

// MarshalJSON writes the string form unless the entry was read as an object
// or carries cooking instructions.
func (m MealEntry) MarshalJSON() ([]byte, error) {
	if !m.structured && m.CookingInstructions == "" {
		return json.Marshal(m.Ingredients)
	}
	type alias MealEntry
	return json.Marshal(alias(m))
}

// Empty reports whether the slot holds no ingredient text.
func (m MealEntry) Empty() bool {
	return strings.TrimSpace(m.Ingredients) == ""
}

// DayMenu maps a meal type ("breakfast", "lunch", ...) to its entry.
type DayMenu map[string]MealEntry

// WeekMenu maps a lowercase day name to that day's meals.
type WeekMenu map[string]DayMenu

// Days lists the canonical day keys in week order.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// MealTypes lists the canonical meal slots in serving order.
var MealTypes = []string{"breakfast", "morning-snack", "lunch", "afternoon-snack", "dinner", "evening-snack"}

// ValidDay reports whether day is one of Days.
func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}
