package nutrition

import (
	"reflect"
	"strings"
	"testing"
)

func TestPrepareImport(t *testing.T) {
	cases := []struct {
		name        string
		in          Ingredient
		wantName    string
		wantPer     string
		wantAliases []string
		wantBasis   BasisKind
	}{
		{
			"legacy type alias sets basis",
			Ingredient{Name: "  boiled   egg ", Aliases: []string{"TYPE:piece", "Egg", "egg"}},
			"Boiled Egg", "1", []string{"Egg"}, BasisPiece,
		},
		{
			"explicit per wins over legacy alias",
			Ingredient{Name: "Toast", Per: "100g", Aliases: []string{"type:slice"}},
			"Toast", "100g", []string{}, BasisGrams,
		},
		{
			"mixed case name kept",
			Ingredient{Name: "McVitie's Digestive", Per: "1 piece", Aliases: []string{"", "McVitie's Digestive", "Digestive"}},
			"McVitie's Digestive", "1 piece", []string{"Digestive"}, BasisPiece,
		},
		{
			"empty per defaults to 100g",
			Ingredient{Name: "Quinoa"},
			"Quinoa", "100g", []string{}, BasisGrams,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PrepareImport(tc.in)
			if got.Name != tc.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tc.wantName)
			}
			if got.Per != tc.wantPer {
				t.Errorf("Per = %q, want %q", got.Per, tc.wantPer)
			}
			if !reflect.DeepEqual(got.Aliases, tc.wantAliases) {
				t.Errorf("Aliases = %v, want %v", got.Aliases, tc.wantAliases)
			}
			if got.Basis.Kind != tc.wantBasis {
				t.Errorf("Basis = %v, want %v", got.Basis, tc.wantBasis)
			}
		})
	}
}

func TestEnergyMismatch(t *testing.T) {
	cases := []struct {
		name string
		e    Ingredient
		want bool
	}{
		{"banana consistent", *banana(), false},
		{"egg consistent", *egg(), false},
		{"per-piece values typed per 100g", Ingredient{Calories: 70, Protein: 12.6, Carbs: 0.7, Fat: 9.5}, true},
		{"small absolute gap ignored", Ingredient{Calories: 10, Protein: 0.5, Carbs: 0.5}, false},
		{"all zero", Ingredient{}, false},
	}
	for _, tc := range cases {
		if _, got := EnergyMismatch(tc.e); got != tc.want {
			t.Errorf("%s: EnergyMismatch = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAuditCatalog(t *testing.T) {
	catalog := []Ingredient{
		{ID: "a", Name: "Banana", Per: "100g", Calories: 89, Protein: 1.1, Carbs: 22.8, Fat: 0.3},
		{ID: "b", Name: "banana", Per: "100g", Calories: 89, Protein: 1.1, Carbs: 22.8, Fat: 0.3},
		{ID: "c", Name: "Mystery Bar", Per: "1 bar", Calories: 200, Protein: 10, Carbs: 25, Fat: 7},
		{ID: "d", Name: "Egg", Per: "1", Calories: 70, Protein: 6, Carbs: 0.6, Fat: 5, Aliases: []string{"TYPE:piece"}},
		{ID: "e", Name: "Broken", Per: "100g", Calories: 500, Protein: 1},
	}

	kinds := map[string][]string{}
	for _, is := range AuditCatalog(catalog) {
		kinds[is.Kind] = append(kinds[is.Kind], is.IngredientID)
	}

	want := map[string][]string{
		IssueDuplicateName: {"b"},
		IssueUnparsedBasis: {"c"},
		IssueLegacyAlias:   {"d"},
		IssueEnergy:        {"e"},
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("issues = %v, want %v", kinds, want)
	}
}

func TestAuditPlan(t *testing.T) {
	m := NewMatcher(testCatalog())
	issues := AuditPlan("p1", "Cut", WeekMenu{
		"tuesday": {"snack": NewMealEntry("1 Unicorn Dust, 100g Egg")},
	}, m)
	if len(issues) != 2 {
		t.Fatalf("issues = %+v, want 2", issues)
	}
	if issues[0].Kind != WarnUnmatched || issues[1].Kind != WarnUnitConflict || issues[0].PlanID != "p1" {
		t.Errorf("unexpected issues %+v", issues)
	}
}

func TestRepairUnits(t *testing.T) {
	m := NewMatcher(testCatalog())
	menu := WeekMenu{
		"monday": {
			"breakfast": NewMealEntry("100g egg00000000000000000000001|Egg, 150g Banana"),
			"lunch":     MealEntry{Ingredients: "2 Egg", CookingInstructions: "Boil"},
		},
	}

	fixed, fixes := RepairUnits(menu, m)

	if len(fixes) != 1 {
		t.Fatalf("fixes = %+v, want 1", fixes)
	}
	f := fixes[0]
	if f.Day != "monday" || f.Meal != "breakfast" || f.Index != 0 || f.ToID != "egg00000000000000000000002" {
		t.Errorf("unexpected fix %+v", f)
	}
	got := fixed["monday"]["breakfast"].Ingredients
	if !strings.HasPrefix(got, "100g egg00000000000000000000002|Egg (per 100g)") || !strings.HasSuffix(got, ", 150g Banana") {
		t.Errorf("breakfast rewritten to %q", got)
	}
	if fixed["monday"]["lunch"].CookingInstructions != "Boil" {
		t.Error("untouched meal lost its instructions")
	}
	if menu["monday"]["breakfast"].Ingredients == got {
		t.Error("input menu was modified")
	}
}
