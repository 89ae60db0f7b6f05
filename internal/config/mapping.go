package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Mapping describes the tables the batch formatter reads from and writes to
type Mapping struct {
	Raw       RawTable       `toml:"raw"`
	Formatted FormattedTable `toml:"formatted"`
	Link      LinkTable      `toml:"link"`
}

// RawTable is the source table holding unstructured addresses
type RawTable struct {
	Name         string   `toml:"name"`
	ID           string   `toml:"id"`
	Lines        []string `toml:"lines"`
	IBAN         string   `toml:"iban"`
	AccountOwner string   `toml:"account_owner"`
}

// FormattedTable is the sink table for structured addresses. ID is a
// generated key column; OldID stores the source identifier.
type FormattedTable struct {
	Name    string   `toml:"name"`
	ID      string   `toml:"id"`
	OldID   string   `toml:"old_id"`
	Columns []Column `toml:"columns"`
}

// Column maps one logical structured field onto a database column. Value
// forces a constant, Default replaces a blank field; a nil Default leaves the
// column NULL while "" writes an empty string. The value "@today" resolves to
// the current date at write time.
type Column struct {
	Field    string  `toml:"field"`
	Name     string  `toml:"column"`
	Type     string  `toml:"type"`
	Required bool    `toml:"required"`
	Value    string  `toml:"value"`
	Default  *string `toml:"default"`
}

// LinkTable holds a foreign key that must point at the new formatted row
type LinkTable struct {
	Name         string `toml:"name"`
	IDOriginal   string `toml:"id_original"`
	IDReferenced string `toml:"id_referenced"`
}

// Fields a formatted column may draw from
var structuredFields = map[string]bool{
	"title": true, "name": true, "lastname": true, "firstname": true,
	"compl1": true, "compl2": true, "street": true, "houseNumber": true,
	"poBoxNumber": true, "postalCode": true, "postalCodeSuffix": true,
	"postalCodeLong": true, "city": true, "country": true, "iban": true,
	"accountOwner": true,
}

// LoadMapping decodes and validates a TOML mapping file
func LoadMapping(path string) (*Mapping, error) {
	var m Mapping
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("failed to decode mapping %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mapping %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks that every table names the columns the formatter relies on
func (m *Mapping) Validate() error {
	if m.Raw.Name == "" || m.Raw.ID == "" {
		return fmt.Errorf("raw table needs a name and an id column")
	}
	if len(m.Raw.Lines) == 0 || len(m.Raw.Lines) > 6 {
		return fmt.Errorf("raw table needs between 1 and 6 line columns, got %d", len(m.Raw.Lines))
	}

	f := m.Formatted
	if f.Name == "" || f.ID == "" || f.OldID == "" {
		return fmt.Errorf("formatted table needs a name, an id and an old_id column")
	}
	seen := map[string]Column{}
	for _, c := range f.Columns {
		if c.Name == "" {
			return fmt.Errorf("formatted column for field %q has no column name", c.Field)
		}
		if c.Field != "" && !structuredFields[c.Field] {
			return fmt.Errorf("formatted column %s: unknown field %q", c.Name, c.Field)
		}
		if c.Field == "" && c.Value == "" && c.Required {
			return fmt.Errorf("formatted column %s is required but has neither field nor value", c.Name)
		}
		if c.Field != "" {
			seen[c.Field] = c
		}
	}
	for _, req := range []string{"city", "country"} {
		c, ok := seen[req]
		if !ok {
			return fmt.Errorf("formatted table is missing the %s column", req)
		}
		if !isTextType(c.Type) {
			return fmt.Errorf("formatted column %s must be a text type, got %q", c.Name, c.Type)
		}
	}
	if _, ok := seen["postalCode"]; !ok {
		if _, ok := seen["postalCodeLong"]; !ok {
			return fmt.Errorf("formatted table is missing a postal code column")
		}
	}

	if m.Link.Name != "" && (m.Link.IDOriginal == "" || m.Link.IDReferenced == "") {
		return fmt.Errorf("link table %s needs id_original and id_referenced", m.Link.Name)
	}
	return nil
}

func isTextType(t string) bool {
	t = strings.ToLower(strings.TrimSpace(t))
	return t == "" || t == "text" || strings.HasPrefix(t, "varchar") || strings.HasPrefix(t, "character varying")
}

// Literal returns a pointer to v for Column.Default
func Literal(v string) *string {
	return &v
}

// DefaultMapping mirrors the payment-relation layout the formatter was
// first written for.
func DefaultMapping() *Mapping {
	return &Mapping{
		Raw: RawTable{
			Name:         "fcf_demands",
			ID:           "iddemand",
			Lines:        []string{"receiver1", "receiver2", "receiver3", "receiver4", "receiver5"},
			IBAN:         "iban",
			AccountOwner: "accntholder",
		},
		Formatted: FormattedTable{
			Name:  "addresses_formatted",
			ID:    "id_fpr_payrel",
			OldID: "old_tbl_id",
			Columns: []Column{
				{Field: "name", Name: "fpr_account_owner_name", Type: "varchar(70)"},
				{Field: "compl1", Name: "fpr_account_owner_address_line1", Type: "varchar(70)"},
				{Field: "compl2", Name: "fpr_account_owner_address_line2", Type: "varchar(70)"},
				{Field: "street", Name: "fpr_street", Type: "varchar(70)"},
				{Field: "houseNumber", Name: "fpr_building_number", Type: "varchar(16)"},
				{Field: "postalCodeLong", Name: "fpr_post_code", Type: "numeric(6,0)"},
				{Field: "city", Name: "fpr_town_name", Type: "varchar(35)"},
				{Field: "country", Name: "fpr_account_owner_address_country", Type: "varchar(2)", Default: Literal("CH")},
				{Field: "iban", Name: "fpr_account_no", Type: "varchar(40)", Default: Literal("")},
				{Field: "accountOwner", Name: "fpr_account_owner_declared", Type: "varchar(70)"},
				{Name: "fpr_currency", Type: "varchar(3)", Value: "CHF"},
				{Name: "fpr_state", Type: "varchar(10)", Required: true, Value: "ACTIVE"},
				{Name: "fpr_validity_start", Type: "date", Required: true, Value: "@today"},
			},
		},
		Link: LinkTable{
			Name:         "fcf_temp_demands",
			IDOriginal:   "iddemand",
			IDReferenced: "pay_addr_id",
		},
	}
}
