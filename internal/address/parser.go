package address

import (
	"strings"

	"github.com/addrfmt/internal/debug"
)

// countryDistance is how many lines after the name line the country line
// normally sits (name, street, locality, country).
const countryDistance = 3

// Parse converts a raw six-line address into a structured record. It never
// fails: lines that match nothing end up as complements or are dropped.
func Parse(raw UnstructuredAddress) StructuredAddress {
	return ParseDebug(false, raw)
}

// ParseDebug is Parse with optional debug output
func ParseDebug(localDebug bool, raw UnstructuredAddress) StructuredAddress {
	section := "parse " + raw.id
	debug.Header(localDebug, section)
	defer debug.Footer(localDebug, section)

	lines := compact(raw.lines)
	debug.Record(localDebug, raw.id, "%d non-blank lines %q", len(lines), lines)

	title, nameIdx := extractTitleLine(lines)
	var name nameParts
	if nameIdx < len(lines) {
		name = splitName(lines[nameIdx])
	}
	if name.title != "" && title == "" {
		title = name.title
	}
	debug.Record(localDebug, raw.id, "title=%q lastname=%q firstname=%q", title, name.lastname, name.firstname)

	c := classify(localDebug, raw.id, lines[min(nameIdx+1, len(lines)):])
	country := resolveCountry(lines, nameIdx+countryDistance+c.complements)
	debug.Record(localDebug, raw.id, "complements absorbed=%d country=%q", c.complements, country)

	return StructuredAddress{
		ID:           raw.id,
		Title:        optional(title),
		Name:         optional(strings.TrimSpace(name.lastname + " " + name.firstname)),
		Lastname:     optional(name.lastname),
		Firstname:    optional(name.firstname),
		Compl1:       optional(c.compl1),
		Compl2:       optional(c.compl2),
		Address:      c.address,
		Postal:       c.postal,
		City:         c.city,
		Country:      country,
		IBAN:         raw.iban,
		AccountOwner: raw.accountOwner,
	}
}

// compact trims the raw lines and drops blank ones, keeping order
func compact(raw [LineCount]string) []string {
	lines := make([]string, 0, LineCount)
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// extractTitleLine returns the dedicated title line, if any, and the index of
// the name line.
func extractTitleLine(lines []string) (string, int) {
	if len(lines) > 0 && IsTitle(lines[0]) {
		return lines[0], 1
	}
	return "", 0
}

type nameParts struct {
	title     string
	lastname  string
	firstname string
}

func splitName(line string) nameParts {
	tokens := strings.Fields(line)
	token := func(i int) string {
		if i < len(tokens) {
			return tokens[i]
		}
		return ""
	}

	if IsTitle(token(0)) {
		return nameParts{title: token(0), lastname: token(1), firstname: token(2)}
	}
	return nameParts{lastname: token(0), firstname: token(1)}
}

// classification is the outcome of the forward pass over the lines that
// follow the name line.
type classification struct {
	address     AddressLine
	postal      PostalCode
	city        string
	compl1      string
	compl2      string
	complements int
}

// classify runs the single forward pass. The postal-code check runs before
// the street / PO-box check on every line.
func classify(localDebug bool, id string, lines []string) classification {
	c := classification{address: Street{}}
	locationFound := false

	for _, line := range lines {
		// a bare postal code without city leaves the locality open
		if c.city == "" {
			if postal, city, ok := parsePostal(line); ok {
				c.postal, c.city = postal, city
				debug.Record(localDebug, id, "Locality line %q: postal=%s city=%q", line, postal, city)
				continue
			}
		}

		if !locationFound {
			if addr, rule, ok := classifyLocation(line); ok {
				c.address, locationFound = addr, true
				debug.Record(localDebug, id, "Location line %q matched %s", line, rule)
				continue
			}
		}

		switch {
		case c.compl1 == "":
			c.compl1 = line
			c.complements++
		case c.compl2 == "":
			c.compl2 = line
			c.complements++
		default:
			debug.Record(localDebug, id, "Dropping unclassified line %q", line)
			continue
		}
		debug.Record(localDebug, id, "Complement line %q", line)
	}
	return c
}

// resolveCountry reads the country from a fixed position, falling back to
// DefaultCountry when that position is missing or blank.
func resolveCountry(lines []string, idx int) string {
	if idx < len(lines) {
		return countryOrDefault(lines[idx])
	}
	return DefaultCountry
}
