package world

import "strings"

// Field is one {name, value} pair of a payload, in INSERT/schema order.
type Field struct {
	Name  string
	Value string
}

// ForeignKey is a discovered reference from a payload field to another
// table's row: a column whose name ends in "id"/"_id" (excluding the
// literal name "id") and whose value parses as an integer.
type ForeignKey struct {
	Column     string
	RefTableID int
	RefID      int
}

// Payload is one ingested relational tuple instance.
type Payload struct {
	ID          int
	TableID     int
	Fields      []Field
	ForeignKeys []ForeignKey
	RawData     string

	X, Y   int
	Placed bool
}

// BuildRawData renders fields as the canonical "name=value, name=value, …"
// display string.
func BuildRawData(fields []Field) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		sb.WriteString(f.Value)
	}
	return sb.String()
}

// FieldValue returns the value of the first field matching name
// case-insensitively.
func (p *Payload) FieldValue(name string) (string, bool) {
	for _, f := range p.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}
