package nutrition

import "sort"

// Warning kinds returned alongside totals.
const (
	WarnUnmatched    = "unmatched_ingredient"
	WarnUnitConflict = "unit_conflict"
	WarnZeroQuantity = "zero_quantity"
)

// maxSuggestions caps the "did you mean" list on an unmatched warning.
const maxSuggestions = 3

// Warning reports a token that contributed zero (unmatched or a zero amount)
// or whose unit disagrees with the matched entry's basis.
type Warning struct {
	Kind        string   `json:"kind"`
	Day         string   `json:"day,omitempty"`
	Meal        string   `json:"meal,omitempty"`
	Ingredient  string   `json:"ingredient"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ItemResult is the contribution of one token.
type ItemResult struct {
	Ingredient   string  `json:"ingredient"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
	Matched      bool    `json:"matched"`
	IngredientID string  `json:"ingredient_id,omitempty"`
	MatchedName  string  `json:"matched_name,omitempty"`
	Macros       Macros  `json:"macros"`
}

// MealTotals is one meal slot of a day.
type MealTotals struct {
	Meal   string       `json:"meal"`
	Recipe string       `json:"recipe,omitempty"`
	Items  []ItemResult `json:"items"`
	Totals Macros       `json:"totals"`
}

// DayTotals sums every non-empty meal slot of a day.
type DayTotals struct {
	Day      string       `json:"day"`
	Meals    []MealTotals `json:"meals"`
	Totals   Macros       `json:"totals"`
	Warnings []Warning    `json:"warnings"`
	HasData  bool         `json:"has_data"`
}

// WeekTotals holds the seven days in canonical order.
type WeekTotals struct {
	Days         []DayTotals `json:"days"`
	Totals       Macros      `json:"totals"`
	DailyAverage Macros      `json:"daily_average"`
	Warnings     []Warning   `json:"warnings"`
}

// CalculateItems resolves and scales each token. Unmatched tokens contribute
// zero and produce a warning; so do unit/basis conflicts.
func CalculateItems(tokens []Token, m *Matcher) ([]ItemResult, Macros, []Warning) {
	items := make([]ItemResult, 0, len(tokens))
	warnings := []Warning{}
	var total Macros

	for _, t := range tokens {
		item := ItemResult{Ingredient: t.Name, Amount: t.Quantity, Unit: t.Unit}
		if t.Quantity <= 0 {
			warnings = append(warnings, Warning{Kind: WarnZeroQuantity, Ingredient: t.Name})
		}
		entry, ok := m.MatchToken(t)
		if !ok {
			warnings = append(warnings, Warning{
				Kind:        WarnUnmatched,
				Ingredient:  t.Name,
				Suggestions: m.Suggest(t.Name, maxSuggestions),
			})
			items = append(items, item)
			continue
		}

		item.Matched = true
		item.IngredientID = entry.ID
		item.MatchedName = entry.Name
		item.Macros = Calculate(entry, t.Quantity, t.Unit)
		if UnitConflicts(entry.ServingBasis(), t.Unit) {
			warnings = append(warnings, Warning{Kind: WarnUnitConflict, Ingredient: t.Name})
		}
		total = total.Add(item.Macros)
		items = append(items, item)
	}
	return items, total, warnings
}

// AggregateDay computes the totals of one day's menu.
func AggregateDay(name string, day DayMenu, m *Matcher) DayTotals {
	out := DayTotals{Day: name, Meals: []MealTotals{}, Warnings: []Warning{}}
	for _, meal := range mealOrder(day) {
		entry := day[meal]
		if entry.Empty() {
			continue
		}
		parsed := ParseMealDetailed(entry.Ingredients)
		items, total, warnings := CalculateItems(parsed.Tokens, m)
		for _, w := range warnings {
			w.Day, w.Meal = name, meal
			out.Warnings = append(out.Warnings, w)
		}
		out.Meals = append(out.Meals, MealTotals{Meal: meal, Recipe: parsed.Recipe, Items: items, Totals: total})
		out.Totals = out.Totals.Add(total)
		if len(items) > 0 {
			out.HasData = true
		}
	}
	return out
}

// AggregateWeek computes every canonical day plus the week sum and the daily
// average over days that have at least one token.
func AggregateWeek(menu WeekMenu, m *Matcher) WeekTotals {
	out := WeekTotals{Days: make([]DayTotals, 0, len(Days)), Warnings: []Warning{}}
	withData := 0
	for _, d := range Days {
		dt := AggregateDay(d, menu[d], m)
		out.Days = append(out.Days, dt)
		out.Totals = out.Totals.Add(dt.Totals)
		out.Warnings = append(out.Warnings, dt.Warnings...)
		if dt.HasData {
			withData++
		}
	}
	out.DailyAverage = out.Totals.Div(withData)
	return out
}

// mealOrder lists a day's meal keys: canonical slots first, then any other
// keys alphabetically.
func mealOrder(day DayMenu) []string {
	known := make(map[string]bool, len(MealTypes))
	out := make([]string, 0, len(day))
	for _, mt := range MealTypes {
		known[mt] = true
		if _, ok := day[mt]; ok {
			out = append(out, mt)
		}
	}
	var extra []string
	for k := range day {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
