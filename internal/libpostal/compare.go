package libpostal

import (
	"strings"

	postal "github.com/openvenues/gopostal/parser"

	"github.com/addrfmt/internal/address"
	"github.com/addrfmt/internal/normalize"
)

// Difference is one field where libpostal disagrees with the rule parser
type Difference struct {
	Label     string `json:"label"`
	Parsed    string `json:"parsed"`
	Libpostal string `json:"libpostal"`
}

// Components maps libpostal labels to values. Repeated labels are joined
// with a space.
type Components map[string]string

// Labeler turns a free-form address into labelled components
type Labeler func(addr string) Components

// Parse runs libpostal over addr
func Parse(addr string) Components {
	out := Components{}
	for _, c := range postal.ParseAddress(addr) {
		if prev, ok := out[c.Label]; ok {
			out[c.Label] = prev + " " + c.Value
			continue
		}
		out[c.Label] = c.Value
	}
	return out
}

// Compare parses the raw lines with libpostal and reports disagreements
// with s. It is advisory only.
func Compare(s address.StructuredAddress, raw address.UnstructuredAddress) []Difference {
	return CompareWith(Parse, s, raw)
}

// CompareWith is Compare with a custom labeler
func CompareWith(label Labeler, s address.StructuredAddress, raw address.UnstructuredAddress) []Difference {
	var lines []string
	for _, l := range raw.Lines() {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	got := label(strings.Join(lines, ", "))

	want := Components{"city": s.City}
	if s.Postal.Code != 0 {
		want["postcode"] = s.Postal.String()
	}
	switch a := s.Address.(type) {
	case address.PoBox:
		want["po_box"] = a.BoxNumber
	case address.Street:
		want["road"] = a.Street
		want["house_number"] = a.HouseNumber
	}

	var diffs []Difference
	for _, key := range []string{"road", "house_number", "po_box", "postcode", "city"} {
		w, okW := want[key]
		g := got[key]
		if !okW && g == "" {
			continue
		}
		if !equalFold(w, g) {
			diffs = append(diffs, Difference{Label: key, Parsed: w, Libpostal: g})
		}
	}
	return diffs
}

// equalFold compares the canonical forms, so "Obere Str." matches
// libpostal's "obere strasse" and "1000-01" matches "1000 01"
func equalFold(a, b string) bool {
	return normalize.CanonicalAddress(a) == normalize.CanonicalAddress(b)
}
