package nutrition

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// suggestThreshold is the minimum similarity for a name to be offered as a suggestion.
const suggestThreshold = 0.5

// Matcher resolves free-text ingredient names against a catalog snapshot.
// The catalog order is the tie-break order for containment matches.
type Matcher struct {
	catalog []Ingredient
	byID    map[string]int
	names   []string // normalised primary names, parallel to catalog
}

// NewMatcher indexes a catalog. The slice is copied; later edits to the
// caller's slice are not seen.
func NewMatcher(catalog []Ingredient) *Matcher {
	m := &Matcher{
		catalog: make([]Ingredient, len(catalog)),
		byID:    make(map[string]int, len(catalog)),
		names:   make([]string, len(catalog)),
	}
	copy(m.catalog, catalog)
	for i := range m.catalog {
		if m.catalog[i].Basis.Kind == "" {
			m.catalog[i].Normalize()
		}
		if id := m.catalog[i].ID; id != "" {
			m.byID[strings.ToLower(id)] = i
		}
		m.names[i] = normalizeName(m.catalog[i].Name)
	}
	return m
}

// Match finds the catalog entry for name: exact (case and accent insensitive)
// on name, localized name or alias first, then containment in either direction.
func (m *Matcher) Match(name string) (*Ingredient, bool) {
	q := normalizeName(name)
	if q == "" || bareUnitRe.MatchString(strings.TrimSpace(name)) {
		return nil, false
	}

	for i := range m.catalog {
		if m.exact(i, q) {
			return &m.catalog[i], true
		}
	}
	for i, n := range m.names {
		if n == "" {
			continue
		}
		if strings.Contains(n, q) || strings.Contains(q, n) {
			return &m.catalog[i], true
		}
	}
	return nil, false
}

func (m *Matcher) exact(i int, q string) bool {
	if m.names[i] == q {
		return true
	}
	e := &m.catalog[i]
	if e.NameLocalized != "" && normalizeName(e.NameLocalized) == q {
		return true
	}
	for _, a := range e.Aliases {
		if normalizeName(a) == q {
			return true
		}
	}
	return false
}

// MatchToken resolves a token, preferring its embedded catalog id.
func (m *Matcher) MatchToken(t Token) (*Ingredient, bool) {
	if t.IngredientID != "" {
		if i, ok := m.byID[strings.ToLower(t.IngredientID)]; ok {
			return &m.catalog[i], true
		}
	}
	return m.Match(t.Name)
}

// MatchForUnit is Match followed by unit repair: when the entry found is
// counted per piece but the token is in grams (or the reverse), an entry with
// the same base name and a compatible basis is returned instead, if one exists.
func (m *Matcher) MatchForUnit(name, unit string) (*Ingredient, bool) {
	e, ok := m.Match(name)
	if !ok {
		return nil, false
	}
	if !UnitConflicts(e.ServingBasis(), unit) {
		return e, true
	}
	if alt := m.alternative(e, unit); alt != nil {
		return alt, true
	}
	return e, true
}

func (m *Matcher) alternative(e *Ingredient, unit string) *Ingredient {
	base := baseName(e.Name)
	for i := range m.catalog {
		c := &m.catalog[i]
		if c.ID == e.ID && c.Name == e.Name {
			continue
		}
		if baseName(c.Name) != base {
			continue
		}
		if !UnitConflicts(c.ServingBasis(), unit) {
			return c
		}
	}
	return nil
}

// Suggest returns up to n catalog names closest to name by edit distance.
func (m *Matcher) Suggest(name string, n int) []string {
	q := normalizeName(name)
	if q == "" || n <= 0 {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}
	var hits []scored
	for i, cand := range m.names {
		if s := similarity(q, cand); s >= suggestThreshold {
			hits = append(hits, scored{m.catalog[i].Name, s})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })

	out := make([]string, 0, n)
	for _, h := range hits {
		if len(out) == n {
			break
		}
		out = append(out, h.name)
	}
	return out
}

// similarity is 1 - distance/max(len), in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// normalizeName lowercases, strips diacritics and folds whitespace, so
// "Jalapeño  Pepper" and "jalapeno pepper" compare equal.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(b.String()))), " ")
}

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	leadingCountRe  = regexp.MustCompile(`^\d+(?:\.\d+)?\s*`)
	per100Re        = regexp.MustCompile(`\bper\s*\d+\s*(?:g|ml)\b`)
)

// baseName reduces "1 Egg (large)" and "Egg per 100g" to "egg".
func baseName(s string) string {
	n := normalizeName(s)
	n = parentheticalRe.ReplaceAllString(n, " ")
	n = per100Re.ReplaceAllString(n, " ")
	n = leadingCountRe.ReplaceAllString(strings.TrimSpace(n), "")
	n = strings.Join(strings.Fields(n), " ")
	return strings.TrimSuffix(n, "s")
}
