package nutrition

import "strings"

// Gram estimates used when a token's unit has to be converted onto a gram/ml basis.
// pieceGrams is an approximation, not derived from catalog data.
const (
	pieceGrams      = 50
	teaspoonGrams   = 5
	tablespoonGrams = 15
	cupGrams        = 240
)

// canonicalUnit folds plural and size words onto the unit they behave as.
func canonicalUnit(unit string) string {
	switch u := strings.ToLower(strings.TrimSpace(unit)); u {
	case "", "piece", "pieces", "whole", "small", "medium", "large", "pc", "pcs":
		return "piece"
	case "slices":
		return "slice"
	case "scoops":
		return "scoop"
	case "gram", "grams", "gr":
		return "g"
	case "cups":
		return "cup"
	default:
		return u
	}
}

// Multiplier returns how many basis units the token amount represents.
func Multiplier(basis ServingBasis, quantity float64, unit string) float64 {
	u := canonicalUnit(unit)
	switch basis.Kind {
	case BasisScoop:
		if u == "scoop" {
			return quantity
		}
		return quantity / basis.Amount
	case BasisPiece:
		return quantity
	case BasisGrams, BasisMilliliters:
		amount := basis.Amount
		if amount <= 0 {
			amount = defaultBasisAmount
		}
		return gramsFor(quantity, u) / amount
	case BasisTablespoon:
		switch u {
		case "tsp":
			return quantity / 3
		case "g", "ml":
			return quantity / tablespoonGrams
		}
		return quantity
	case BasisCup:
		if u == "g" || u == "ml" {
			return quantity / cupGrams
		}
		return quantity
	default:
		// Slice and handful bases count items; gram amounts cannot be converted
		// and are reported by UnitConflicts.
		return quantity
	}
}

// gramsFor converts a token amount to grams (or ml) for a measured basis.
func gramsFor(quantity float64, unit string) float64 {
	switch unit {
	case "g", "ml":
		return quantity
	case "piece", "slice":
		return quantity * pieceGrams
	case "tsp":
		return quantity * teaspoonGrams
	case "tbsp":
		return quantity * tablespoonGrams
	case "scoop":
		return quantity * defaultScoopGrams
	case "cup":
		return quantity * cupGrams
	default:
		return quantity
	}
}

// UnitConflicts reports whether a token unit and an entry basis disagree on
// what is being counted: grams against a per-piece entry, or pieces against a
// per-100g entry. The amount is still converted; the caller decides whether
// to warn or to look for a better entry.
func UnitConflicts(basis ServingBasis, unit string) bool {
	u := canonicalUnit(unit)
	switch basis.Kind {
	case BasisPiece, BasisSlice, BasisHandful:
		return u == "g" || u == "ml" || u == "tsp" || u == "tbsp"
	case BasisGrams, BasisMilliliters:
		return u == "piece" || u == "slice"
	}
	return false
}

// Calculate scales an entry's macros to the token amount. A nil entry (an
// unmatched ingredient) contributes zero.
func Calculate(entry *Ingredient, quantity float64, unit string) Macros {
	if entry == nil {
		return Macros{}
	}
	m := Multiplier(entry.ServingBasis(), quantity, unit)
	return Macros{
		Calories: int(round(entry.Calories*m, 0)),
		Protein:  round(entry.Protein*m, 1),
		Carbs:    round(entry.Carbs*m, 1),
		Fat:      round(entry.Fat*m, 1),
		Fiber:    round(entry.Fiber*m, 1),
		Sugar:    round(entry.Sugar*m, 1),
	}
}
