package nutrition

import (
	"fmt"
	"math"
	"sort"
)

// Catalog issue kinds reported by AuditCatalog.
const (
	IssueUnparsedBasis = "unparsed_basis"
	IssueDuplicateName = "duplicate_name"
	IssueEnergy        = "energy_mismatch"
	IssueLegacyAlias   = "legacy_alias"
	IssueNegativeValue = "negative_value"
)

// Energy check thresholds: stated calories may differ from 4p+4c+9f by this
// fraction and this absolute amount before an entry is flagged.
const (
	energyTolerance    = 0.25
	energyMinAbsoluteK = 20
)

// CatalogIssue is one finding about a catalog entry.
type CatalogIssue struct {
	Kind         string `json:"kind"`
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name"`
	Detail       string `json:"detail"`
}

// AuditCatalog checks every entry for the inconsistencies the repair scripts
// used to chase: unreadable bases, case-insensitive duplicate names, calories
// that disagree with the macros, and leftover TYPE: aliases.
func AuditCatalog(catalog []Ingredient) []CatalogIssue {
	issues := []CatalogIssue{}
	byName := map[string][]Ingredient{}

	for _, e := range catalog {
		add := func(kind, detail string) {
			issues = append(issues, CatalogIssue{Kind: kind, IngredientID: e.ID, Name: e.Name, Detail: detail})
		}

		if b, ok := ParseServingBasis(e.Per); !ok {
			add(IssueUnparsedBasis, fmt.Sprintf("per %q read as %s", e.Per, b))
		}
		if e.Calories < 0 || e.Protein < 0 || e.Carbs < 0 || e.Fat < 0 || e.Fiber < 0 || e.Sugar < 0 {
			add(IssueNegativeValue, "a macro value is negative")
		}
		if derived, off := EnergyMismatch(e); off {
			add(IssueEnergy, fmt.Sprintf("calories %.0f but macros give %.0f", e.Calories, derived))
		}
		if legacy := LegacyAliases(e); len(legacy) > 0 {
			add(IssueLegacyAlias, fmt.Sprintf("aliases %v", legacy))
		}
		key := normalizeName(e.Name)
		byName[key] = append(byName[key], e)
	}

	keys := make([]string, 0, len(byName))
	for k, group := range byName {
		if len(group) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		group := byName[k]
		for _, e := range group[1:] {
			issues = append(issues, CatalogIssue{
				Kind:         IssueDuplicateName,
				IngredientID: e.ID,
				Name:         e.Name,
				Detail:       fmt.Sprintf("same name as %s", group[0].ID),
			})
		}
	}
	return issues
}

// EnergyMismatch compares stated calories with 4 kcal/g protein and carbs and
// 9 kcal/g fat.
func EnergyMismatch(e Ingredient) (derived float64, off bool) {
	derived = 4*e.Protein + 4*e.Carbs + 9*e.Fat
	diff := math.Abs(e.Calories - derived)
	ref := math.Max(e.Calories, derived)
	if ref == 0 {
		return derived, false
	}
	return derived, diff > energyMinAbsoluteK && diff/ref > energyTolerance
}

// PlanIssue is one plan token that produced a warning.
type PlanIssue struct {
	PlanID   string `json:"plan_id"`
	PlanName string `json:"plan_name"`
	Warning
}

// AuditPlan recomputes a plan's week and returns its warnings as issues.
func AuditPlan(id, name string, menu WeekMenu, m *Matcher) []PlanIssue {
	week := AggregateWeek(menu, m)
	out := make([]PlanIssue, 0, len(week.Warnings))
	for _, w := range week.Warnings {
		out = append(out, PlanIssue{PlanID: id, PlanName: name, Warning: w})
	}
	return out
}

// UnitFix is a token whose id should be re-pointed to a better-suited entry.
type UnitFix struct {
	Day   string `json:"day"`
	Meal  string `json:"meal"`
	Index int    `json:"index"`
	Token string `json:"token"`
	From  string `json:"from"`
	To    string `json:"to"`
	ToID  string `json:"to_id"`
}

// RepairUnits finds every token whose matched entry conflicts with its unit
// and rewrites it to the entry MatchForUnit prefers. The returned menu is a
// copy; fixes lists what changed. Tokens without a better entry are left as is.
func RepairUnits(menu WeekMenu, m *Matcher) (WeekMenu, []UnitFix) {
	out := make(WeekMenu, len(menu))
	fixes := []UnitFix{}

	days := make([]string, 0, len(menu))
	for d := range menu {
		days = append(days, d)
	}
	sort.Strings(days)

	for _, d := range days {
		dayCopy := make(DayMenu, len(menu[d]))
		for _, meal := range mealOrder(menu[d]) {
			entry := menu[d][meal]
			text := entry.Ingredients
			for i, tok := range ParseMeal(text) {
				cur, ok := m.MatchToken(tok)
				if !ok || !UnitConflicts(cur.ServingBasis(), tok.Unit) {
					continue
				}
				alt, ok := m.MatchForUnit(cur.Name, tok.Unit)
				if !ok || alt.ID == cur.ID {
					continue
				}
				rewritten, err := ReplaceTokenID(text, i, alt.ID, alt.Name)
				if err != nil {
					continue
				}
				fixes = append(fixes, UnitFix{Day: d, Meal: meal, Index: i, Token: FormatToken(tok), From: cur.Name, To: alt.Name, ToID: alt.ID})
				text = rewritten
			}
			entry.Ingredients = text
			dayCopy[meal] = entry
		}
		out[d] = dayCopy
	}
	return out, fixes
}
