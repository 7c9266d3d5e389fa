package world

import (
	"strconv"
	"strings"
)

// FKRefTableName reports whether col is a foreign-key-shaped column name
// (ends in "id" or "_id", case-insensitive, excluding the literal name
// "id") and, if so, the table name the suffix implies: the column with
// its trailing "id"/"_id" stripped.
func FKRefTableName(col string) (refTable string, ok bool) {
	lower := strings.ToLower(col)
	if lower == "id" {
		return "", false
	}
	switch {
	case strings.HasSuffix(lower, "_id"):
		return col[:len(col)-3], true
	case strings.HasSuffix(lower, "id"):
		return col[:len(col)-2], true
	default:
		return "", false
	}
}

// DeriveForeignKeys inspects fields for FK-shaped columns and returns the
// discovered foreign keys, materialising each referenced table in w if it
// doesn't already exist.
func (w *World) DeriveForeignKeys(fields []Field) []ForeignKey {
	var fks []ForeignKey
	for _, f := range fields {
		refTable, ok := FKRefTableName(f.Name)
		if !ok {
			continue
		}
		refID, err := strconv.Atoi(strings.TrimSpace(f.Value))
		if err != nil {
			continue
		}
		if refTable == "" {
			continue
		}
		refTableID := w.AddTable(refTable)
		fks = append(fks, ForeignKey{Column: f.Name, RefTableID: refTableID, RefID: refID})
	}
	return fks
}

// PayloadID derives a payload's identity: the value of a field literally
// named "id" (case-insensitive) if it parses as an int, else the first
// field's integer value, else the fallback (typically len(payloads)+1).
func PayloadID(fields []Field, fallback int) int {
	for _, f := range fields {
		if strings.EqualFold(f.Name, "id") {
			if v, err := strconv.Atoi(strings.TrimSpace(f.Value)); err == nil {
				return v
			}
			break
		}
	}
	if len(fields) > 0 {
		if v, err := strconv.Atoi(strings.TrimSpace(fields[0].Value)); err == nil {
			return v
		}
	}
	return fallback
}
