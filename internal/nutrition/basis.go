package nutrition

import (
	"regexp"
	"strconv"
	"strings"
)

// BasisKind identifies what an ingredient's stored macro values are measured against.
type BasisKind string

const (
	BasisGrams       BasisKind = "grams"
	BasisMilliliters BasisKind = "milliliters"
	BasisPiece       BasisKind = "piece"
	BasisSlice       BasisKind = "slice"
	BasisCup         BasisKind = "cup"
	BasisHandful     BasisKind = "handful"
	BasisTablespoon  BasisKind = "tablespoon"
	BasisScoop       BasisKind = "scoop"
)

// defaultBasisAmount applies when a gram/ml basis carries no usable number ("100g" convention).
const defaultBasisAmount = 100

// defaultScoopGrams applies to "1 scoop" entries without a "(30g)" parenthetical.
const defaultScoopGrams = 30

// ServingBasis is the structured form of an ingredient's `per` string.
// Amount is the gram/ml quantity for Grams, Milliliters and Scoop; count bases use 1.
type ServingBasis struct {
	Kind   BasisKind `json:"kind"`
	Amount float64   `json:"amount"`
}

func Grams(n float64) ServingBasis       { return ServingBasis{Kind: BasisGrams, Amount: n} }
func Milliliters(n float64) ServingBasis { return ServingBasis{Kind: BasisMilliliters, Amount: n} }
func ScoopGrams(n float64) ServingBasis  { return ServingBasis{Kind: BasisScoop, Amount: n} }
func Piece() ServingBasis                { return ServingBasis{Kind: BasisPiece, Amount: 1} }

var (
	leadingNumberRe = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)
	scoopGramsRe    = regexp.MustCompile(`\((\d+(?:\.\d+)?)\s*g\)`)
	pieceBasisRe    = regexp.MustCompile(`^1\s*(piece|unit|egg)$`)
	countBasisRe    = regexp.MustCompile(`^1\s*(slice|cup|handful|tablespoon|tbsp)s?$`)
	measuredBasisRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(g|gr|gram|grams|ml)$`)
)

// ParseServingBasis converts a catalog `per` string into a ServingBasis.
// ok is false when the string was not recognised and the 100g default (or the
// leading number as grams) was assumed; audits report those entries.
func ParseServingBasis(per string) (basis ServingBasis, ok bool) {
	p := strings.ToLower(strings.Join(strings.Fields(per), " "))
	switch {
	case p == "":
		return Grams(defaultBasisAmount), false
	case strings.Contains(p, "scoop"):
		if m := scoopGramsRe.FindStringSubmatch(p); m != nil {
			if g, err := strconv.ParseFloat(m[1], 64); err == nil && g > 0 {
				return ScoopGrams(g), true
			}
		}
		return ScoopGrams(defaultScoopGrams), false
	case p == "1" || pieceBasisRe.MatchString(p):
		return Piece(), true
	}

	if m := countBasisRe.FindStringSubmatch(p); m != nil {
		switch m[1] {
		case "slice":
			return ServingBasis{Kind: BasisSlice, Amount: 1}, true
		case "cup":
			return ServingBasis{Kind: BasisCup, Amount: 1}, true
		case "handful":
			return ServingBasis{Kind: BasisHandful, Amount: 1}, true
		default:
			return ServingBasis{Kind: BasisTablespoon, Amount: 1}, true
		}
	}

	if m := measuredBasisRe.FindStringSubmatch(p); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		if n <= 0 {
			return Grams(defaultBasisAmount), false
		}
		if m[2] == "ml" {
			return Milliliters(n), true
		}
		return Grams(n), true
	}

	return Grams(leadingAmount(p)), false
}

// leadingAmount returns the leading number of a `per` string, or 100 when absent.
func leadingAmount(per string) float64 {
	m := leadingNumberRe.FindStringSubmatch(per)
	if m == nil {
		return defaultBasisAmount
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil || n <= 0 {
		return defaultBasisAmount
	}
	return n
}

// String renders the basis in the catalog's `per` vocabulary.
func (b ServingBasis) String() string {
	amount := strconv.FormatFloat(b.Amount, 'f', -1, 64)
	switch b.Kind {
	case BasisGrams:
		return amount + "g"
	case BasisMilliliters:
		return amount + "ml"
	case BasisScoop:
		return "1 scoop (" + amount + "g)"
	case BasisPiece:
		return "1"
	case "":
		return ""
	default:
		return "1 " + string(b.Kind)
	}
}

// BasisFromKind builds a basis from a legacy TYPE:<kind> alias value.
func BasisFromKind(kind string) (ServingBasis, bool) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "piece", "pieces", "unit", "egg":
		return Piece(), true
	case "slice":
		return ServingBasis{Kind: BasisSlice, Amount: 1}, true
	case "cup":
		return ServingBasis{Kind: BasisCup, Amount: 1}, true
	case "handful":
		return ServingBasis{Kind: BasisHandful, Amount: 1}, true
	case "tablespoon", "tbsp":
		return ServingBasis{Kind: BasisTablespoon, Amount: 1}, true
	case "scoop":
		return ScoopGrams(defaultScoopGrams), true
	case "grams", "gram", "g", "100g":
		return Grams(defaultBasisAmount), true
	case "ml", "milliliters", "100ml":
		return Milliliters(defaultBasisAmount), true
	}
	return ServingBasis{}, false
}
