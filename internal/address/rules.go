package address

import (
	"regexp"
	"strconv"
	"strings"
)

// TitleWords is the vocabulary recognised as a salutation, matched
// case-insensitively against a whole line or a single token.
var TitleWords = []string{"FRAU", "HERR", "MADAME", "MONSIEUR", "MR", "MS", "M", "MME"}

var reTitle = regexp.MustCompile(`(?i)^\s*(` + strings.Join(TitleWords, "|") + `)\s*$`)

// PostalPattern matches the first token of a locality line: 4-digit code with
// an optional 2-digit suffix ("1000", "1000-01", "100001").
var PostalPattern = regexp.MustCompile(`^(\d{4})(?:[-\s]?(\d{2}))?$`)

// First token and remainder of a locality line
var reLocality = regexp.MustCompile(`(?s)^(\S+)(?:\s+(.*))?$`)

// Street name words: letters, apostrophes, dots and hyphens
const nameWords = `[\p{L}'’.-]+(?:\s+[\p{L}'’.-]+)*`

var (
	rePoBox = regexp.MustCompile(`(?i)^\s*(?:P\.O\.\s*Box|Postfach|Case\s+Postale|Casella\s+Postale|CP)\s+(\d{1,4})\s*$`)

	reHouseNumber = regexp.MustCompile(`(?i)^\s*(?P<street>.+?)\s*` +
		`(?P<number>[1-9]\d{0,3}(?:\s*(?:(?:bis|ter|quater|quinquies)|[A-Za-z]))?(?:/[1-9]\d{0,3})?)\s*$`)

	reStreetFR = regexp.MustCompile(`(?i)^\s*(?:rue|route|rte|chemin|chem|ch|avenue|av|boulevard|bd|quai|place|pl|allée|allee|impasse|passage|promenade|sentier)\.?\s+` +
		nameWords + `\s*$`)

	reStreetDE = regexp.MustCompile(`(?i)^\s*` + nameWords +
		`\s+(?:strasse|str\.?|gasse|weg|platz|allee|ufer|ring|quai|promenade)\s*$`)

	reStreetIT = regexp.MustCompile(`(?i)^\s*(?:via|viale|vicolo|piazza|largo|salita|corso)\.?\s+` +
		nameWords + `\s*$`)
)

// LineRule is one entry of the ordered street / PO-box classifier. Classify
// receives the regexp submatches and the trimmed line.
type LineRule struct {
	Name     string
	Pattern  *regexp.Regexp
	Classify func(match []string, line string) AddressLine
}

// LocationRules are tried in order against each candidate line; the first
// matching rule decides the AddressLine variant.
var LocationRules = []LineRule{
	{
		Name:    "po-box",
		Pattern: rePoBox,
		Classify: func(_ []string, line string) AddressLine {
			return PoBox{BoxNumber: line}
		},
	},
	{
		Name:    "house-number",
		Pattern: reHouseNumber,
		Classify: func(m []string, _ string) AddressLine {
			return Street{
				Street:      strings.TrimSpace(m[reHouseNumber.SubexpIndex("street")]),
				HouseNumber: strings.TrimSpace(m[reHouseNumber.SubexpIndex("number")]),
			}
		},
	},
	{Name: "street-fr", Pattern: reStreetFR, Classify: streetOnly},
	{Name: "street-de", Pattern: reStreetDE, Classify: streetOnly},
	{Name: "street-it", Pattern: reStreetIT, Classify: streetOnly},
}

func streetOnly(_ []string, line string) AddressLine {
	return Street{Street: line}
}

// RuleNames lists the location rules in priority order
func RuleNames() []string {
	names := make([]string, 0, len(LocationRules))
	for _, r := range LocationRules {
		names = append(names, r.Name)
	}
	return names
}

// IsTitle reports whether s is exactly one salutation word
func IsTitle(s string) bool {
	return reTitle.MatchString(s)
}

// classifyLocation runs the location rules over line and returns the first
// classification together with the name of the rule that fired.
func classifyLocation(line string) (AddressLine, string, bool) {
	for _, rule := range LocationRules {
		if m := rule.Pattern.FindStringSubmatch(line); m != nil {
			return rule.Classify(m, line), rule.Name, true
		}
	}
	return nil, "", false
}

// parsePostal splits a locality line into postal code and city. ok is false
// when the first token is not a postal code.
func parsePostal(line string) (postal PostalCode, city string, ok bool) {
	parts := reLocality.FindStringSubmatch(strings.TrimSpace(line))
	if parts == nil {
		return PostalCode{}, "", false
	}
	m := PostalPattern.FindStringSubmatch(parts[1])
	if m == nil {
		return PostalCode{}, "", false
	}

	code, _ := strconv.Atoi(m[1])
	postal = PostalCode{Code: code}
	if m[2] != "" {
		suffix, _ := strconv.Atoi(m[2])
		postal.Suffix = &suffix
	}
	return postal, strings.TrimSpace(parts[2]), true
}
