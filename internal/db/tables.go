package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/addrfmt/internal/address"
	"github.com/addrfmt/internal/config"
)

// todayToken in a column value resolves to the current date
const todayToken = "@today"

// selectRawSQL selects id, six line cells, iban and account owner. Unmapped
// cells are selected as NULL so every row has the same shape.
func selectRawSQL(t config.RawTable, limit int) string {
	cols := make([]string, 0, address.LineCount+3)
	cols = append(cols, pq.QuoteIdentifier(t.ID))
	for i := 0; i < address.LineCount; i++ {
		if i < len(t.Lines) && t.Lines[i] != "" {
			cols = append(cols, pq.QuoteIdentifier(t.Lines[i]))
		} else {
			cols = append(cols, fmt.Sprintf("NULL AS line%d", i+1))
		}
	}
	cols = append(cols, optionalColumn(t.IBAN, "iban"), optionalColumn(t.AccountOwner, "account_owner"))

	sql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), pq.QuoteIdentifier(t.Name))
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	return sql
}

func optionalColumn(name, alias string) string {
	if name == "" {
		return "NULL AS " + alias
	}
	return pq.QuoteIdentifier(name)
}

// createFormattedSQL creates the sink table with a generated key
func createFormattedSQL(t config.FormattedTable) string {
	defs := []string{
		pq.QuoteIdentifier(t.ID) + " bigserial PRIMARY KEY",
		pq.QuoteIdentifier(t.OldID) + " varchar(64)",
	}
	for _, c := range t.Columns {
		typ := c.Type
		if typ == "" {
			typ = "text"
		}
		def := pq.QuoteIdentifier(c.Name) + " " + typ
		if c.Required {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", pq.QuoteIdentifier(t.Name), strings.Join(defs, ",\n\t"))
}

// insertFormattedSQL returns a named-parameter INSERT; bind names are
// old_id and c0..cN in column order.
func insertFormattedSQL(t config.FormattedTable) string {
	names := []string{pq.QuoteIdentifier(t.OldID)}
	binds := []string{":old_id"}
	for i, c := range t.Columns {
		names = append(names, pq.QuoteIdentifier(c.Name))
		binds = append(binds, ":"+bindName(i))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(t.Name), strings.Join(names, ", "), strings.Join(binds, ", "))
}

// insertArgs resolves every mapped column for one structured record
func insertArgs(t config.FormattedTable, s address.StructuredAddress, now time.Time) map[string]interface{} {
	fields := RowFields(s)
	args := map[string]interface{}{"old_id": s.ID}
	for i, c := range t.Columns {
		args[bindName(i)] = columnValue(c, fields, now)
	}
	return args
}

func bindName(i int) string {
	return fmt.Sprintf("c%d", i)
}

func columnValue(c config.Column, fields map[string]interface{}, now time.Time) interface{} {
	if c.Value != "" {
		return resolveLiteral(c.Value, now)
	}
	v := fields[c.Field]
	if isBlank(v) && c.Default != nil {
		return resolveLiteral(*c.Default, now)
	}
	if isBlank(v) && c.Field != "city" {
		return nil
	}
	return v
}

func resolveLiteral(v string, now time.Time) string {
	if v == todayToken {
		return now.Format("2006-01-02")
	}
	return v
}

func isBlank(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

// RowFields flattens a structured record into the logical fields a
// formatted column can reference. Absent values are nil.
func RowFields(s address.StructuredAddress) map[string]interface{} {
	fields := map[string]interface{}{
		"title":          ptr(s.Title),
		"name":           ptr(s.Name),
		"lastname":       ptr(s.Lastname),
		"firstname":      ptr(s.Firstname),
		"compl1":         ptr(s.Compl1),
		"compl2":         ptr(s.Compl2),
		"postalCode":     s.Postal.Code,
		"postalCodeLong": s.Postal.Long(),
		"city":           s.City,
		"country":        s.Country,
		"iban":           ptr(s.IBAN),
		"accountOwner":   ptr(s.AccountOwner),
	}
	if s.Postal.Suffix != nil {
		fields["postalCodeSuffix"] = *s.Postal.Suffix
	}

	switch a := s.Address.(type) {
	case address.PoBox:
		fields["poBoxNumber"] = a.BoxNumber
	case address.Street:
		fields["street"] = a.Street
		fields["houseNumber"] = a.HouseNumber
	}
	return fields
}

func ptr(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// updateLinkSQL points the link table at the newest formatted row created
// for $1
func updateLinkSQL(link config.LinkTable, ref config.FormattedTable) string {
	return fmt.Sprintf(`UPDATE %s
SET %s = (
	SELECT MAX(t.%s)
	FROM %s t
	WHERE t.%s = $1
)
WHERE CAST(%s AS text) = $1`,
		pq.QuoteIdentifier(link.Name), pq.QuoteIdentifier(link.IDReferenced),
		pq.QuoteIdentifier(ref.ID), pq.QuoteIdentifier(ref.Name), pq.QuoteIdentifier(ref.OldID),
		pq.QuoteIdentifier(link.IDOriginal))
}
