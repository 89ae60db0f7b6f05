package address

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRaw(t *testing.T, id string, lines []string, opts ...Option) UnstructuredAddress {
	t.Helper()
	raw, err := NewUnstructuredAddress(id, lines, opts...)
	require.NoError(t, err)
	return raw
}

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		lines        []string
		wantTitle    *string
		wantLastname *string
		wantFirst    *string
		wantName     *string
		wantCompl1   *string
		wantCompl2   *string
		wantAddress  AddressLine
		wantPostal   PostalCode
		wantCity     string
		wantCountry  string
	}{
		{
			name:         "street with number and locality",
			lines:        []string{"M. Jean Dupont", "Rue du Lac 12", "1003 Lausanne", "CH"},
			wantLastname: str("M."),
			wantFirst:    str("Jean"),
			wantName:     str("M. Jean"),
			wantCompl1:   str("CH"),
			wantAddress:  Street{Street: "Rue du Lac", HouseNumber: "12"},
			wantPostal:   PostalCode{Code: 1003},
			wantCity:     "Lausanne",
			wantCountry:  "CH",
		},
		{
			name:         "po box",
			lines:        []string{"Muster AG", "Postfach 45", "8001 Zürich"},
			wantLastname: str("Muster"),
			wantFirst:    str("AG"),
			wantName:     str("Muster AG"),
			wantAddress:  PoBox{BoxNumber: "Postfach 45"},
			wantPostal:   PostalCode{Code: 8001},
			wantCity:     "Zürich",
			wantCountry:  "CH",
		},
		{
			name:        "all blank",
			lines:       []string{"", " ", "", "\t", "", ""},
			wantAddress: Street{},
			wantCity:    "",
			wantCountry: "CH",
		},
		{
			name:         "postal code with suffix and french street without number",
			lines:        []string{"Dupont Marie", "Avenue de la Gare", "1000-01 Lausanne"},
			wantLastname: str("Dupont"),
			wantFirst:    str("Marie"),
			wantName:     str("Dupont Marie"),
			wantAddress:  Street{Street: "Avenue de la Gare"},
			wantPostal:   PostalCode{Code: 1000, Suffix: num(1)},
			wantCity:     "Lausanne",
			wantCountry:  "CH",
		},
		{
			name:         "dedicated title line and ordinal house number",
			lines:        []string{"Madame", "Rochat Anne", "Chemin des Vignes 3 bis", "1110 Morges"},
			wantTitle:    str("Madame"),
			wantLastname: str("Rochat"),
			wantFirst:    str("Anne"),
			wantName:     str("Rochat Anne"),
			wantAddress:  Street{Street: "Chemin des Vignes", HouseNumber: "3 bis"},
			wantPostal:   PostalCode{Code: 1110},
			wantCity:     "Morges",
			wantCountry:  "CH",
		},
		{
			name:         "title token on the name line",
			lines:        []string{"Herr Muster Hans", "Untere Gasse", "3011 Bern"},
			wantTitle:    str("Herr"),
			wantLastname: str("Muster"),
			wantFirst:    str("Hans"),
			wantName:     str("Muster Hans"),
			wantAddress:  Street{Street: "Untere Gasse"},
			wantPostal:   PostalCode{Code: 3011},
			wantCity:     "Bern",
			wantCountry:  "CH",
		},
		{
			name:         "italian street",
			lines:        []string{"Rossi Mario", "Via Cantonale", "6900 Lugano"},
			wantLastname: str("Rossi"),
			wantFirst:    str("Mario"),
			wantName:     str("Rossi Mario"),
			wantAddress:  Street{Street: "Via Cantonale"},
			wantPostal:   PostalCode{Code: 6900},
			wantCity:     "Lugano",
			wantCountry:  "CH",
		},
		{
			name:         "two complements shift the country line",
			lines:        []string{"Müller Hans", "c/o Weber", "Abteilung Einkauf", "Bahnhofstrasse 10", "8001 Zürich", "DE"},
			wantLastname: str("Müller"),
			wantFirst:    str("Hans"),
			wantName:     str("Müller Hans"),
			wantCompl1:   str("c/o Weber"),
			wantCompl2:   str("Abteilung Einkauf"),
			wantAddress:  Street{Street: "Bahnhofstrasse", HouseNumber: "10"},
			wantPostal:   PostalCode{Code: 8001},
			wantCity:     "Zürich",
			wantCountry:  "DE",
		},
		{
			name:         "third unclassified line is dropped",
			lines:        []string{"Favre Luc", "Etage", "Büro", "Empfang"},
			wantLastname: str("Favre"),
			wantFirst:    str("Luc"),
			wantName:     str("Favre Luc"),
			wantCompl1:   str("Etage"),
			wantCompl2:   str("Büro"),
			wantAddress:  Street{},
			wantCity:     "",
			wantCountry:  "CH",
		},
		{
			name:         "only the first locality line counts",
			lines:        []string{"Favre Luc", "1000 Lausanne", "2000 Neuchâtel"},
			wantLastname: str("Favre"),
			wantFirst:    str("Luc"),
			wantName:     str("Favre Luc"),
			wantCompl1:   str("2000 Neuchâtel"),
			wantAddress:  Street{},
			wantPostal:   PostalCode{Code: 1000},
			wantCity:     "Lausanne",
			wantCountry:  "CH",
		},
		{
			name:         "bare postal code keeps the locality open",
			lines:        []string{"Favre Luc", "1000", "1003 Lausanne"},
			wantLastname: str("Favre"),
			wantFirst:    str("Luc"),
			wantName:     str("Favre Luc"),
			wantAddress:  Street{},
			wantPostal:   PostalCode{Code: 1003},
			wantCity:     "Lausanne",
			wantCountry:  "CH",
		},
		{
			name:         "blank lines are compacted",
			lines:        []string{"  ", "Dupont Marie", "", "Rue du Lac 12", "\t", "1003 Lausanne"},
			wantLastname: str("Dupont"),
			wantFirst:    str("Marie"),
			wantName:     str("Dupont Marie"),
			wantAddress:  Street{Street: "Rue du Lac", HouseNumber: "12"},
			wantPostal:   PostalCode{Code: 1003},
			wantCity:     "Lausanne",
			wantCountry:  "CH",
		},
		{
			name:         "lastname only still yields a name",
			lines:        []string{"Dupont"},
			wantLastname: str("Dupont"),
			wantName:     str("Dupont"),
			wantAddress:  Street{},
			wantCountry:  "CH",
		},
		{
			name:        "title line alone",
			lines:       []string{"Monsieur"},
			wantTitle:   str("Monsieur"),
			wantAddress: Street{},
			wantCountry: "CH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(mustRaw(t, "id-1", tt.lines))

			assert.Equal(t, "id-1", got.ID)
			assert.Equal(t, tt.wantTitle, got.Title, "title")
			assert.Equal(t, tt.wantLastname, got.Lastname, "lastname")
			assert.Equal(t, tt.wantFirst, got.Firstname, "firstname")
			assert.Equal(t, tt.wantName, got.Name, "name")
			assert.Equal(t, tt.wantCompl1, got.Compl1, "compl1")
			assert.Equal(t, tt.wantCompl2, got.Compl2, "compl2")
			assert.Equal(t, tt.wantAddress, got.Address, "address")
			assert.Equal(t, tt.wantPostal, got.Postal, "postal")
			assert.Equal(t, tt.wantCity, got.City, "city")
			assert.Equal(t, tt.wantCountry, got.Country, "country")
		})
	}
}

func TestParseLocationRules(t *testing.T) {
	tests := []struct {
		line string
		want AddressLine
	}{
		{"Hauptstrasse 12a", Street{Street: "Hauptstrasse", HouseNumber: "12a"}},
		{"Route de Genève 45/2", Street{Street: "Route de Genève", HouseNumber: "45/2"}},
		{"Rue des Alpes 7 ter", Street{Street: "Rue des Alpes", HouseNumber: "7 ter"}},
		{"Case Postale 12", PoBox{BoxNumber: "Case Postale 12"}},
		{"P.O. Box 7", PoBox{BoxNumber: "P.O. Box 7"}},
		{"casella postale 1234", PoBox{BoxNumber: "casella postale 1234"}},
		{"CP 3", PoBox{BoxNumber: "CP 3"}},
		{"Ch. des Roses", Street{Street: "Ch. des Roses"}},
		{"Obere Str.", Street{Street: "Obere Str."}},
		{"Piazza Grande", Street{Street: "Piazza Grande"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Parse(mustRaw(t, "x", []string{"Name Vorname", tt.line}))
			assert.Equal(t, tt.want, got.Address)
			assert.Nil(t, got.Compl1)
		})
	}
}

func TestParsePassthrough(t *testing.T) {
	raw := mustRaw(t, "p1", []string{"Dupont Marie"},
		WithIBAN("CH93 0076 2011 6238 5295 7"), WithAccountOwner("  Marie Dupont "))

	got := Parse(raw)
	require.NotNil(t, got.IBAN)
	require.NotNil(t, got.AccountOwner)
	assert.Equal(t, "CH93 0076 2011 6238 5295 7", *got.IBAN)
	assert.Equal(t, "  Marie Dupont ", *got.AccountOwner)

	got = Parse(mustRaw(t, "p2", nil))
	assert.Nil(t, got.IBAN)
	assert.Nil(t, got.AccountOwner)
}

func TestParseTotalAndIdempotent(t *testing.T) {
	inputs := [][]string{
		nil,
		{"Herr"},
		{"Herr", "Frau"},
		{"MME Dupont Marie Claire", "Quai du Mont-Blanc", "1201 Genève", "Suisse", "extra", "more"},
		{"1000 Lausanne", "1000 Lausanne", "1000 Lausanne"},
		{"Postfach 1", "Postfach 2", "Postfach 3", "Postfach 4", "Postfach 5", "Postfach 6"},
		{"a", "b", "c", "d", "e", "f"},
		{"   ", "", "Weg", "9999-99", "CP 12345", "Ring"},
	}

	for _, lines := range inputs {
		got := Parse(mustRaw(t, "t", lines))
		assert.Equal(t, "t", got.ID)
		assert.NotEmpty(t, got.Country)
		assert.NotNil(t, got.Address)
		assert.Equal(t, got, got.Normalized(), "normalizing a parser result must be a no-op for %q", lines)
		if got.Postal.Code == 0 {
			assert.Empty(t, got.City)
		}
	}
}

func TestStructuredAddressJSON(t *testing.T) {
	got := Parse(mustRaw(t, "j1", []string{"Muster AG", "Postfach 45", "1000-01 Lausanne"}))

	data, err := json.Marshal(got)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "j1", decoded["id"])
	assert.Equal(t, float64(100001), decoded["postal_long"])
	assert.Nil(t, decoded["title"])

	line, ok := decoded["address"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "po_box", line["kind"])
	assert.Equal(t, "Postfach 45", line["box_number"])
}
