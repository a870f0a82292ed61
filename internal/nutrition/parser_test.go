package nutrition

import (
	"strings"
	"testing"
)

const testID = "abcdefghijklmnopqrstuvwxyz"

func TestParseMeal(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []Token
	}{
		{"empty", "", []Token{}},
		{"whitespace only", "   ", []Token{}},
		{
			"comma separated",
			"150g Banana, 2 Eggs, 1 tbsp Honey",
			[]Token{
				{Name: "Banana", Quantity: 150, Unit: "g"},
				{Name: "Eggs", Quantity: 2, Unit: "piece"},
				{Name: "Honey", Quantity: 1, Unit: "tbsp"},
			},
		},
		{
			"plus separated",
			"50g Oats + 200ml Milk",
			[]Token{
				{Name: "Oats", Quantity: 50, Unit: "g"},
				{Name: "Milk", Quantity: 200, Unit: "ml"},
			},
		},
		{
			"comma wins over plus",
			"50g Oats + Honey, 1 Apple",
			[]Token{
				{Name: "Oats + Honey", Quantity: 50, Unit: "g"},
				{Name: "Apple", Quantity: 1, Unit: "piece"},
			},
		},
		{"single token", "2 large Eggs", []Token{{Name: "Eggs", Quantity: 2, Unit: "large"}}},
		{"decimal", "1.5 slices Bread", []Token{{Name: "Bread", Quantity: 1.5, Unit: "slices"}}},
		{"unit is lowercased", "30G Almonds", []Token{{Name: "Almonds", Quantity: 30, Unit: "g"}}},
		{"unicode fraction", "½ Avocado", []Token{{Name: "Avocado", Quantity: 0.5, Unit: "piece"}}},
		{"mixed fraction", "1½ scoops Whey", []Token{{Name: "Whey", Quantity: 1.5, Unit: "scoops"}}},
		{"no quantity", "Salt to taste", []Token{{Name: "Salt to taste", Quantity: 1, Unit: "piece"}}},
		{"unit prefix stripped", "whole Wheat Wrap", []Token{{Name: "Wheat Wrap", Quantity: 1, Unit: "piece"}}},
		{"bare unit kept", "150g, 2 Eggs", []Token{
			{Name: "g", Quantity: 150, Unit: "piece"},
			{Name: "Eggs", Quantity: 2, Unit: "piece"},
		}},
		{"zero quantity", "0g Salt", []Token{{Name: "Salt", Quantity: 0, Unit: "g"}}},
		{"grams spelled out", "150 grams Chicken", []Token{{Name: "Chicken", Quantity: 150, Unit: "grams"}}},
		{"gr", "80gr Rice", []Token{{Name: "Rice", Quantity: 80, Unit: "gr"}}},
		{"pcs", "3 pcs Sushi", []Token{{Name: "Sushi", Quantity: 3, Unit: "pcs"}}},
		{"gr prefix of a word", "2 Grapes", []Token{{Name: "Grapes", Quantity: 2, Unit: "piece"}}},
		{"empty segments dropped", "1 Apple, , ,2 Pears", []Token{
			{Name: "Apple", Quantity: 1, Unit: "piece"},
			{Name: "Pears", Quantity: 2, Unit: "piece"},
		}},
		{
			"catalog id stripped",
			"150g " + testID + "|Banana",
			[]Token{{Name: "Banana", Quantity: 150, Unit: "g", IngredientID: testID}},
		},
		{
			"id without quantity",
			testID + "|Salt",
			[]Token{{Name: "Salt", Quantity: 1, Unit: "piece", IngredientID: testID}},
		},
		{
			"recipe marker",
			"[RECIPE:Overnight Oats] 50g Oats, 100g Yogurt",
			[]Token{
				{Name: "Oats", Quantity: 50, Unit: "g"},
				{Name: "Yogurt", Quantity: 100, Unit: "g"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseMeal(tc.text)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d tokens %+v, want %d", len(got), got, len(tc.want))
			}
			for i := range got {
				g, w := got[i], tc.want[i]
				if g.Name != w.Name || g.Quantity != w.Quantity || g.Unit != w.Unit || g.IngredientID != w.IngredientID {
					t.Errorf("token %d = %+v, want %+v", i, g, w)
				}
			}
		})
	}
}

// TestParseMeal_CommaCount checks that a comma-separated meal yields one
// token per non-empty segment.
func TestParseMeal_CommaCount(t *testing.T) {
	inputs := [][]string{
		{"150g Banana"},
		{"150g Banana", "2 Eggs"},
		{"150g Banana", "", "2 Eggs", "  "},
		{"1 tbsp Honey", "30g " + testID + "|Whey", "Salt", "½ Avocado"},
		{"150g", "2 Eggs"},
		{"0g Salt", " 200ml", "1 Apple"},
	}
	for _, segs := range inputs {
		text := strings.Join(segs, ",")
		want := 0
		for _, s := range segs {
			if strings.TrimSpace(s) != "" {
				want++
			}
		}
		if got := len(ParseMeal(text)); got != want {
			t.Errorf("ParseMeal(%q) returned %d tokens, want %d", text, got, want)
		}
	}
}

func TestParseMealDetailed(t *testing.T) {
	p := ParseMealDetailed("[RECIPE: Protein Shake ] 1 scoop Whey + 300ml Milk")
	if p.Recipe != "Protein Shake" {
		t.Errorf("Recipe = %q, want %q", p.Recipe, "Protein Shake")
	}
	if p.Delimiter != "+" {
		t.Errorf("Delimiter = %q, want +", p.Delimiter)
	}
	if len(p.Tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(p.Tokens))
	}
}

func TestParseToken(t *testing.T) {
	tok, ok := ParseToken("30g " + testID + "|Whey Protein")
	if !ok {
		t.Fatal("expected ok")
	}
	if tok.IngredientID != testID || tok.Name != "Whey Protein" || tok.Quantity != 30 || tok.Unit != "g" {
		t.Errorf("unexpected token %+v", tok)
	}
	if _, ok := ParseToken("  "); ok {
		t.Error("expected blank segment to be rejected")
	}
}
