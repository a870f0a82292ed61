package nutrition

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatToken(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Name: "Banana", Quantity: 150, Unit: "g", IngredientID: testID}, "150g " + testID + "|Banana"},
		{Token{Name: "Milk", Quantity: 250, Unit: "ml"}, "250ml Milk"},
		{Token{Name: "Honey", Quantity: 2, Unit: "tbsp"}, "2 tbsp Honey"},
		{Token{Name: "Eggs", Quantity: 2, Unit: "piece"}, "2 Eggs"},
		{Token{Name: "Oats", Quantity: 1.0 / 3, Unit: "g"}, "0.33g Oats"},
	}
	for _, tc := range cases {
		if got := FormatToken(tc.tok); got != tc.want {
			t.Errorf("FormatToken(%+v) = %q, want %q", tc.tok, got, tc.want)
		}
	}
}

func TestSetQuantity(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		index    int
		quantity float64
		want     string
	}{
		{
			"keeps id and name",
			"150g " + testID + "|Banana, 2 Eggs",
			0, 200,
			"200g " + testID + "|Banana, 2 Eggs",
		},
		{
			"second token keeps spacing",
			"150g " + testID + "|Banana, 2 Eggs",
			1, 3,
			"150g " + testID + "|Banana, 3 Eggs",
		},
		{
			"recipe marker and plus delimiter",
			"[RECIPE:Shake] 1 scoop " + testID + "|Whey + 300ml Milk",
			1, 250,
			"[RECIPE:Shake] 1 scoop " + testID + "|Whey + 250ml Milk",
		},
		{
			"id-first segment gains an amount",
			testID + "|Salt",
			0, 2,
			"2 " + testID + "|Salt",
		},
		{
			"dropped segments are skipped",
			"150g, 2 Eggs",
			0, 4,
			"150g, 4 Eggs",
		},
		{"fraction replaced", "½ Avocado", 0, 1, "1 Avocado"},
		{"unit kept with space", "2 tbsp Honey", 0, 1.5, "1.5 tbsp Honey"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SetQuantity(tc.text, tc.index, tc.quantity)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSetQuantity_SmallestAmount(t *testing.T) {
	got, err := SetQuantity("150g "+testID+"|Banana", 0, 0.005)
	if err != nil {
		t.Fatal(err)
	}
	tok := ParseMeal(got)[0]
	if tok.Quantity != 0.01 || tok.Name != "Banana" || tok.IngredientID != testID {
		t.Errorf("re-parsed %q as %+v", got, tok)
	}
}

func TestSetQuantity_Errors(t *testing.T) {
	if _, err := SetQuantity("150g Banana", 0, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity: got %v, want ErrInvalidQuantity", err)
	}
	// Rounds to 0 in the written form.
	if _, err := SetQuantity("150g Banana", 0, 0.001); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("sub-precision quantity: got %v, want ErrInvalidQuantity", err)
	}
	if _, err := SetQuantity("150g Banana", 0, -5); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative quantity: got %v, want ErrInvalidQuantity", err)
	}
	if _, err := SetQuantity("150g Banana", 1, 10); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("index 1: got %v, want ErrIndexOutOfRange", err)
	}
	if _, err := SetQuantity("", 0, 10); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("empty meal: got %v, want ErrIndexOutOfRange", err)
	}
}

// TestSetQuantity_RoundTrip edits every token of an id-qualified meal and
// checks the id|name suffix survives and re-parses to the same id.
func TestSetQuantity_RoundTrip(t *testing.T) {
	other := "0123456789abcdefghijklmnop"
	text := "150g " + testID + "|Banana, 2 " + other + "|Egg, 1 tbsp Honey"

	for i, before := range ParseMeal(text) {
		edited, err := SetQuantity(text, i, 42)
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		after := ParseMeal(edited)[i]
		if after.Quantity != 42 {
			t.Errorf("token %d quantity = %v, want 42", i, after.Quantity)
		}
		if after.IngredientID != before.IngredientID || after.Name != before.Name || after.Unit != before.Unit {
			t.Errorf("token %d changed: before %+v after %+v", i, before, after)
		}
		if before.IngredientID != "" {
			suffix := before.IngredientID + "|" + before.Name
			if !strings.Contains(edited, suffix) {
				t.Errorf("token %d: %q lost suffix %q", i, edited, suffix)
			}
		}
	}
}

func TestReplaceTokenID(t *testing.T) {
	got, err := ReplaceTokenID("100g Egg, 1 Toast", 0, testID, "Egg (per 100g)")
	if err != nil {
		t.Fatal(err)
	}
	want := "100g " + testID + "|Egg (per 100g), 1 Toast"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := ReplaceTokenID("100g Egg", 3, testID, "Egg"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("got %v, want ErrIndexOutOfRange", err)
	}
}
