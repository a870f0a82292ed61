package nutrition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrIndexOutOfRange is returned when a token index does not exist in a meal.
	ErrIndexOutOfRange = errors.New("token index out of range")
	// ErrInvalidQuantity is returned for zero or negative amounts.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// FormatToken renders a token in meal-description form: "150g id|Banana",
// "2 tbsp Honey", "2 Eggs".
func FormatToken(t Token) string {
	var b strings.Builder
	b.WriteString(formatQuantity(t.Quantity))
	switch unit := strings.ToLower(t.Unit); unit {
	case "g", "ml":
		b.WriteString(unit)
	case "", "piece":
	default:
		b.WriteString(" " + unit)
	}
	b.WriteString(" ")
	if t.IngredientID != "" {
		b.WriteString(t.IngredientID + "|")
	}
	b.WriteString(t.Name)
	return b.String()
}

// FormatMeal joins tokens with ", ".
func FormatMeal(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = FormatToken(t)
	}
	return strings.Join(parts, ", ")
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(round(q, 2), 'f', -1, 64)
}

// SetQuantity rewrites the amount of the index-th token of a meal description.
// Only the quantity characters change: the unit, any "<id>|<name>" suffix, the
// recipe marker and the delimiters are kept byte-for-byte.
func SetQuantity(text string, index int, quantity float64) (string, error) {
	// The written form has two decimals; anything that rounds to 0 would not
	// read back as the same token.
	if !(round(quantity, 2) > 0) {
		return "", ErrInvalidQuantity
	}
	parsed := ParseMealDetailed(text)
	if index < 0 || index >= len(parsed.Tokens) {
		return "", fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(parsed.Tokens))
	}

	prefixLen := len(text) - len(bodyOf(text))
	prefix, body := text[:prefixLen], text[prefixLen:]
	segments := splitSegments(body, parsed.Delimiter)

	seg := parsed.Tokens[index].segment
	segments[seg] = replaceQuantity(segments[seg], quantity)
	return prefix + strings.Join(segments, parsed.Delimiter), nil
}

// ReplaceTokenID swaps (or adds) the catalog id of the index-th token, keeping
// its amount and unit. Used by the unit repair pass.
func ReplaceTokenID(text string, index int, id, name string) (string, error) {
	parsed := ParseMealDetailed(text)
	if index < 0 || index >= len(parsed.Tokens) {
		return "", fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(parsed.Tokens))
	}
	prefixLen := len(text) - len(bodyOf(text))
	prefix, body := text[:prefixLen], text[prefixLen:]
	segments := splitSegments(body, parsed.Delimiter)

	tok := parsed.Tokens[index]
	tok.IngredientID = id
	tok.Name = name
	seg := tok.segment
	lead := segments[seg][:len(segments[seg])-len(strings.TrimLeft(segments[seg], " \t"))]
	segments[seg] = lead + FormatToken(tok)
	return prefix + strings.Join(segments, parsed.Delimiter), nil
}

func bodyOf(text string) string {
	_, body := splitRecipeMarker(text)
	return body
}

// replaceQuantity substitutes the leading amount of a raw segment, or prefixes
// one when the segment had none.
func replaceQuantity(segment string, quantity float64) string {
	q := formatQuantity(quantity)
	trimmed := strings.TrimLeft(segment, " \t")
	lead := segment[:len(segment)-len(trimmed)]
	// An id-first segment ("clx...|Salt") has no amount even if the id starts with digits.
	if idLoc := ingredientIDRe.FindStringSubmatchIndex(trimmed); idLoc != nil && idLoc[2] == 0 {
		return lead + q + " " + trimmed
	}
	loc := quantityRe.FindStringSubmatchIndex(segment)
	if loc == nil {
		return lead + q + " " + trimmed
	}
	return segment[:loc[2]] + q + segment[loc[3]:]
}
