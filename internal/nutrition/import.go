package nutrition

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// legacyTypePrefix marks aliases that were used to carry the serving basis
// before it had its own column.
const legacyTypePrefix = "TYPE:"

var titleCaser = cases.Title(language.English)

// PrepareImport cleans an entry before it is written to the catalog: the name
// is trimmed (and title-cased when it is all lowercase), duplicate and legacy
// TYPE: aliases are dropped, and a TYPE: alias fills an empty `per`.
func PrepareImport(in Ingredient) Ingredient {
	out := in
	out.Name = strings.Join(strings.Fields(in.Name), " ")
	if out.Name != "" && out.Name == strings.ToLower(out.Name) && hasLetter(out.Name) {
		out.Name = titleCaser.String(out.Name)
	}
	out.Per = strings.TrimSpace(in.Per)

	seen := map[string]bool{}
	out.Aliases = []string{}
	for _, a := range in.Aliases {
		a = strings.TrimSpace(a)
		if kind, ok := legacyKind(a); ok {
			if b, known := BasisFromKind(kind); known && out.Per == "" {
				out.Per = b.String()
			}
			continue
		}
		key := normalizeName(a)
		if a == "" || seen[key] || key == normalizeName(out.Name) {
			continue
		}
		seen[key] = true
		out.Aliases = append(out.Aliases, a)
	}

	if out.Per == "" {
		out.Per = Grams(defaultBasisAmount).String()
	}
	out.Normalize()
	return out
}

// LegacyAliases returns the TYPE: aliases still present on an entry.
func LegacyAliases(in Ingredient) []string {
	var out []string
	for _, a := range in.Aliases {
		if _, ok := legacyKind(a); ok {
			out = append(out, a)
		}
	}
	return out
}

func legacyKind(alias string) (string, bool) {
	a := strings.TrimSpace(alias)
	if len(a) < len(legacyTypePrefix) || !strings.EqualFold(a[:len(legacyTypePrefix)], legacyTypePrefix) {
		return "", false
	}
	return a[len(legacyTypePrefix):], true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
