package normalize

import (
	"testing"
)

func TestCanonicalAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "  Rue du Lac  ", "RUE DU LAC"},
		{"separate str", "Obere Str.", "OBERE STRASSE"},
		{"compound str", "Bahnhofstr. 3", "BAHNHOFSTRASSE 3"},
		{"compound already full", "Bahnhofstrasse", "BAHNHOFSTRASSE"},
		{"french chemin", "Ch. des Roses", "CHEMIN DES ROSES"},
		{"avenue", "av de la Gare", "AVENUE DE LA GARE"},
		{"italian piazza", "P.za Grande", "PIAZZA GRANDE"},
		{"po box", "CP 12", "CASE POSTALE 12"},
		{"hyphen postcode", "1000-01", "1000 01"},
		{"abbreviation inside word untouched", "Chalet", "CHALET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanonicalAddress(tt.input)
			if result != tt.expected {
				t.Errorf("CanonicalAddress(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestAbbrevRulesExpand(t *testing.T) {
	rules := NewAbbrevRulesFrom(map[string]string{"RD": "ROAD"})

	tests := []struct {
		input    string
		expected string
	}{
		{"MAIN RD", "MAIN ROAD"},
		{"RD RD", "ROAD ROAD"},
		{"ROAD", "ROAD"},
		{"RD. 4", "ROAD 4"},
	}

	for _, tt := range tests {
		if got := rules.Expand(tt.input); got != tt.expected {
			t.Errorf("Expand(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
