// Package spatial implements spec.md §4.7: the tolerant single-predicate
// query grammar ("SELECT <anything> FROM <table> WHERE <col>=<value>")
// and its two execution variants, ExecuteQuery and ExecuteQueryFocus.
package spatial

import (
	"regexp"
	"strconv"
	"strings"

	"myco/internal/mycoerr"
	"myco/internal/world"
)

// Query is a parsed single-predicate query.
type Query struct {
	Table  string
	Column string
	Value  string
}

// Kind classifies a Query's predicate (spec.md §4.7).
type Kind int

const (
	// FieldQuery matches a payload field by name and exact-case value.
	FieldQuery Kind = iota
	// FKQuery matches payloads whose foreign key references the row
	// identified by Column/Value in another table.
	FKQuery
	// PKQuery matches a payload by its own id.
	PKQuery
)

// queryRe recognises the tolerant grammar: SELECT <anything> FROM <table>
// WHERE <col> = <value>, case-insensitive keywords, with an optionally
// quoted value.
var queryRe = regexp.MustCompile(`(?is)^\s*select\s+.+?\s+from\s+([A-Za-z_][\w]*)\s+where\s+([A-Za-z_][\w.]*)\s*=\s*(.+?)\s*;?\s*$`)

// Parse parses text against the tolerant grammar. Quoted values (single
// or double) have their quotes stripped.
func Parse(text string) (Query, error) {
	m := queryRe.FindStringSubmatch(text)
	if m == nil {
		return Query{}, mycoerr.New(mycoerr.KindParse, "spatial: not a recognisable single-predicate query")
	}
	col := m[2]
	if i := strings.LastIndexByte(col, '.'); i >= 0 {
		col = col[i+1:]
	}
	return Query{
		Table:  m[1],
		Column: col,
		Value:  unquoteValue(strings.TrimSpace(m[3])),
	}, nil
}

func unquoteValue(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// classify determines q's predicate kind against w. For an FK/PK query,
// refTableID and targetID identify the row Column/Value points at;
// isInt reports whether Value parsed as an int at all (PK matching
// needs this even when the column isn't FK-shaped).
func classify(w *world.World, q Query) (kind Kind, refTableID, targetID int, isInt bool) {
	targetID, err := strconv.Atoi(strings.TrimSpace(q.Value))
	isInt = err == nil
	if !isInt {
		return FieldQuery, 0, 0, false
	}

	lowerCol := strings.ToLower(q.Column)
	if lowerCol == "id" {
		return PKQuery, 0, targetID, true
	}

	refTable, fkShaped := world.FKRefTableName(q.Column)
	if !fkShaped {
		return FieldQuery, 0, targetID, true
	}

	if strings.EqualFold(q.Column, q.Table+"id") || strings.EqualFold(q.Column, q.Table+"_id") {
		return PKQuery, 0, targetID, true
	}

	refTableID, ok := w.FindTable(refTable)
	if !ok {
		return FieldQuery, 0, targetID, true
	}
	return FKQuery, refTableID, targetID, true
}
