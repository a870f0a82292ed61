package nutrition

import (
	"regexp"
	"strconv"
	"strings"
)

// unitPattern is the set of units a meal token may declare. Matching is
// case-insensitive; the captured unit is lowercased.
const unitPattern = `g|grams?|gr|ml|tsp|tbsp|scoops?|whole|small|medium|large|pieces?|pcs?|slices?`

var (
	recipeMarkerRe = regexp.MustCompile(`^\s*\[RECIPE:([^\]]*)\]\s*`)
	ingredientIDRe = regexp.MustCompile(`(?:^|\s)([A-Za-z0-9]{26})\|`)
	quantityRe     = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?(?:\s*[½¼¾])?|[½¼¾])`)
	tokenRe        = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?(?:\s*[½¼¾])?|[½¼¾])\s*(?:(` + unitPattern + `)\b)?\s*(.+)$`)
	unitPrefixRe   = regexp.MustCompile(`(?i)^(?:` + unitPattern + `)\b\.?\s*`)
	bareUnitRe     = regexp.MustCompile(`(?i)^(?:` + unitPattern + `)$`)
)

var fractions = map[rune]float64{'½': 0.5, '¼': 0.25, '¾': 0.75}

// ParsedMeal is a meal description split into tokens, with enough layout
// information to write an edited version back.
type ParsedMeal struct {
	Recipe    string  `json:"recipe,omitempty"`
	Delimiter string  `json:"delimiter,omitempty"`
	Tokens    []Token `json:"tokens"`
}

// ParseMeal converts a free-text ingredient list ("150g Banana, 2 Eggs") into
// tokens. Empty input yields an empty slice.
func ParseMeal(text string) []Token {
	return ParseMealDetailed(text).Tokens
}

// ParseMealDetailed is ParseMeal plus the recipe marker and the delimiter used.
func ParseMealDetailed(text string) ParsedMeal {
	recipe, body := splitRecipeMarker(text)
	delim := delimiterOf(body)
	out := ParsedMeal{Recipe: recipe, Delimiter: delim, Tokens: []Token{}}
	if strings.TrimSpace(body) == "" {
		return out
	}

	for i, segment := range splitSegments(body, delim) {
		tok, ok := parseToken(segment)
		if !ok {
			continue
		}
		tok.segment = i
		out.Tokens = append(out.Tokens, tok)
	}
	return out
}

// ParseToken parses a single segment such as "30g clx...|Whey Protein".
func ParseToken(segment string) (Token, bool) {
	return parseToken(segment)
}

func parseToken(segment string) (Token, bool) {
	id, rest := stripIngredientID(segment)
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return Token{}, false
	}

	if m := tokenRe.FindStringSubmatch(rest); m != nil {
		// "150g" alone: the regex backtracks and reads the unit as the name.
		// The token is kept so the segment count holds; Match never resolves it.
		name := strings.TrimSpace(m[3])
		unit := strings.ToLower(m[2])
		if unit == "" {
			unit = "piece"
		}
		q, ok := parseQuantity(m[1])
		if ok && name != "" {
			return Token{Name: name, Quantity: q, Unit: unit, IngredientID: id}, true
		}
	}

	name := strings.TrimSpace(unitPrefixRe.ReplaceAllString(rest, ""))
	if name == "" {
		return Token{}, false
	}
	return Token{Name: name, Quantity: 1, Unit: "piece", IngredientID: id}, true
}

// parseQuantity reads "150", "1.5", "½" or "1½". Zero is a valid read.
func parseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	var frac float64
	for r, v := range fractions {
		if strings.ContainsRune(s, r) {
			frac = v
			s = strings.TrimSpace(strings.ReplaceAll(s, string(r), ""))
			break
		}
	}
	if s == "" {
		return frac, frac > 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n + frac, true
}

// stripIngredientID removes an embedded "<26 alphanumerics>|" catalog id.
func stripIngredientID(segment string) (id, rest string) {
	loc := ingredientIDRe.FindStringSubmatchIndex(segment)
	if loc == nil {
		return "", segment
	}
	id = segment[loc[2]:loc[3]]
	// Drop the id and its pipe but keep the separating whitespace.
	rest = segment[:loc[2]] + segment[loc[3]+1:]
	return id, rest
}

func splitRecipeMarker(text string) (recipe, body string) {
	m := recipeMarkerRe.FindStringSubmatchIndex(text)
	if m == nil {
		return "", text
	}
	return strings.TrimSpace(text[m[2]:m[3]]), text[m[1]:]
}

// delimiterOf picks comma first, then plus; "" means a single token.
func delimiterOf(body string) string {
	switch {
	case strings.Contains(body, ","):
		return ","
	case strings.Contains(body, "+"):
		return "+"
	}
	return ""
}

func splitSegments(body, delim string) []string {
	if delim == "" {
		return []string{body}
	}
	return strings.Split(body, delim)
}
