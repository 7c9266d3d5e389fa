package world

import "strings"

// Table is a relational table discovered during ingest or load. Name
// preserves the original case; lookups always go through the lowercased
// key so "Album" and "album" resolve to the same table.
type Table struct {
	ID      int
	Name    string
	Columns []string
}

func tableKey(name string) string {
	return strings.ToLower(name)
}
