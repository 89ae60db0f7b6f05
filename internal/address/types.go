package address

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// LineCount is the fixed size of the raw line buffer
const LineCount = 6

// DefaultCountry is used when no country line can be located
const DefaultCountry = "CH"

var (
	// ErrMissingID is returned when an input record has no identifier
	ErrMissingID = errors.New("address: missing identifier")
	// ErrTooManyLines is returned when more than LineCount lines are supplied
	ErrTooManyLines = errors.New("address: too many lines")
)

// UnstructuredAddress is one raw input row: an identifier, exactly six loosely
// ordered text lines and two passthrough fields.
type UnstructuredAddress struct {
	id           string
	lines        [LineCount]string
	iban         *string
	accountOwner *string
}

// Option sets an optional passthrough field on an UnstructuredAddress
type Option func(*UnstructuredAddress)

// WithIBAN carries an IBAN through to the structured record unmodified
func WithIBAN(iban string) Option {
	return func(u *UnstructuredAddress) {
		u.iban = &iban
	}
}

// WithAccountOwner carries the declared account owner through unmodified
func WithAccountOwner(owner string) Option {
	return func(u *UnstructuredAddress) {
		u.accountOwner = &owner
	}
}

// NewUnstructuredAddress builds an input record. Missing lines are blank-filled.
func NewUnstructuredAddress(id string, lines []string, opts ...Option) (UnstructuredAddress, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return UnstructuredAddress{}, ErrMissingID
	}
	if len(lines) > LineCount {
		return UnstructuredAddress{}, fmt.Errorf("%w: got %d, want at most %d", ErrTooManyLines, len(lines), LineCount)
	}

	u := UnstructuredAddress{id: id}
	copy(u.lines[:], lines)
	for _, opt := range opts {
		opt(&u)
	}
	return u, nil
}

// ID returns the record identifier
func (u UnstructuredAddress) ID() string { return u.id }

// Lines returns a copy of the six raw lines
func (u UnstructuredAddress) Lines() [LineCount]string { return u.lines }

// IBAN returns the passthrough IBAN, nil when not supplied
func (u UnstructuredAddress) IBAN() *string { return u.iban }

// AccountOwner returns the passthrough account owner, nil when not supplied
func (u UnstructuredAddress) AccountOwner() *string { return u.accountOwner }

// AddressLine is the single physical-location line of an address. It is
// either a Street or a PoBox; handle both with a type switch.
type AddressLine interface {
	addressLine()
	String() string
}

// Street is a street name with an optional house number
type Street struct {
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
}

// PoBox is a postal delivery box
type PoBox struct {
	BoxNumber string `json:"box_number"`
}

func (Street) addressLine() {}
func (PoBox) addressLine()  {}

func (s Street) String() string {
	return strings.TrimSpace(s.Street + " " + s.HouseNumber)
}

func (p PoBox) String() string { return p.BoxNumber }

// PostalCode is a 4-digit code with an optional 2-digit extension
type PostalCode struct {
	Code   int  `json:"code"`
	Suffix *int `json:"suffix"`
}

// Long folds the code and its suffix into a single number (code*100 + suffix)
func (p PostalCode) Long() int {
	suffix := 0
	if p.Suffix != nil {
		suffix = *p.Suffix
	}
	return p.Code*100 + suffix
}

func (p PostalCode) String() string {
	if p.Suffix == nil {
		return fmt.Sprintf("%04d", p.Code)
	}
	return fmt.Sprintf("%04d-%02d", p.Code, *p.Suffix)
}

// StructuredAddress is the parser output. Nil pointers mean "absent".
type StructuredAddress struct {
	ID           string      `json:"id"`
	Title        *string     `json:"title"`
	Name         *string     `json:"name"`
	Lastname     *string     `json:"lastname"`
	Firstname    *string     `json:"firstname"`
	Compl1       *string     `json:"compl1"`
	Compl2       *string     `json:"compl2"`
	Address      AddressLine `json:"-"`
	Postal       PostalCode  `json:"postal"`
	City         string      `json:"city"`
	Country      string      `json:"country"`
	IBAN         *string     `json:"iban"`
	AccountOwner *string     `json:"account_owner"`
}

// Normalized re-applies field normalization. Applying it to a parser result
// returns an equal record.
func (s StructuredAddress) Normalized() StructuredAddress {
	out := s
	out.Title = optional(deref(s.Title))
	out.Name = optional(deref(s.Name))
	out.Lastname = optional(deref(s.Lastname))
	out.Firstname = optional(deref(s.Firstname))
	out.Compl1 = optional(deref(s.Compl1))
	out.Compl2 = optional(deref(s.Compl2))
	out.City = strings.TrimSpace(s.City)
	out.Country = countryOrDefault(s.Country)
	if out.Address == nil {
		out.Address = Street{}
	}
	return out
}

type addressLineJSON struct {
	Kind        string `json:"kind"`
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
	BoxNumber   string `json:"box_number,omitempty"`
}

// MarshalJSON encodes the address line with a "kind" discriminator
func (s StructuredAddress) MarshalJSON() ([]byte, error) {
	type plain StructuredAddress
	var line addressLineJSON
	switch a := s.Address.(type) {
	case PoBox:
		line = addressLineJSON{Kind: "po_box", BoxNumber: a.BoxNumber}
	case Street:
		line = addressLineJSON{Kind: "street", Street: a.Street, HouseNumber: a.HouseNumber}
	case nil:
		line = addressLineJSON{Kind: "street"}
	}
	return json.Marshal(struct {
		plain
		Address addressLineJSON `json:"address"`
		LongZip int             `json:"postal_long"`
	}{plain(s), line, s.Postal.Long()})
}

// optional trims v and returns nil when nothing is left
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func countryOrDefault(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return DefaultCountry
	}
	return v
}
