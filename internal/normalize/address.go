package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// AbbrevRules handles street-type abbreviation expansion
type AbbrevRules struct {
	rules []abbrevRule
}

type abbrevRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// defaultAbbrevs covers the street types seen on Swiss addresses
var defaultAbbrevs = map[string]string{
	"STR":  "STRASSE",
	"STRA": "STRASSE",
	"G":    "GASSE",
	"CH":   "CHEMIN",
	"AV":   "AVENUE",
	"AVE":  "AVENUE",
	"BD":   "BOULEVARD",
	"BLVD": "BOULEVARD",
	"PL":   "PLACE",
	"RTE":  "ROUTE",
	"IMP":  "IMPASSE",
	"SQ":   "SQUARE",
	"P.ZA": "PIAZZA",
	"PZA":  "PIAZZA",
	"V.LE": "VIALE",
	"C.SO": "CORSO",
	"CP":   "CASE POSTALE",
	"PF":   "POSTFACH",
	"ST":   "SAINT",
	"STE":  "SAINTE",
}

// NewAbbrevRules creates the default abbreviation rules
func NewAbbrevRules() *AbbrevRules {
	return NewAbbrevRulesFrom(defaultAbbrevs)
}

// NewAbbrevRulesFrom builds rules from an abbreviation -> expansion map.
// Longer abbreviations are applied first.
func NewAbbrevRulesFrom(m map[string]string) *AbbrevRules {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	ar := &AbbrevRules{}
	for _, k := range keys {
		// an optional trailing dot belongs to the abbreviation
		re := regexp.MustCompile(`(^|\s)` + regexp.QuoteMeta(k) + `\.?(\s|$)`)
		ar.rules = append(ar.rules, abbrevRule{pattern: re, replacement: "${1}" + m[k] + "${2}"})
	}
	return ar
}

// Expand applies abbreviation rules to upper-cased text
func (ar *AbbrevRules) Expand(text string) string {
	result := text
	for _, r := range ar.rules {
		// ReplaceAll does not revisit the shared separator, so run to a fixpoint
		for {
			next := r.pattern.ReplaceAllString(result, r.replacement)
			if next == result {
				break
			}
			result = next
		}
	}
	return result
}

var reSpaces = regexp.MustCompile(`\s+`)

var defaultRules = NewAbbrevRules()

// CanonicalAddress upper-cases, turns hyphens and commas into spaces,
// collapses whitespace and expands street abbreviations.
func CanonicalAddress(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", ",", " ").Replace(s)
	s = reSpaces.ReplaceAllString(s, " ")
	// compound German forms: "BAHNHOFSTR." -> "BAHNHOFSTRASSE"
	s = reCompoundStr.ReplaceAllString(s, "${1}STRASSE$2")
	return strings.TrimSpace(defaultRules.Expand(s))
}

var reCompoundStr = regexp.MustCompile(`(\pL{2,})STR\.?(\s|$)`)
