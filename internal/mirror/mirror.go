// Package mirror renders a world.World's tables and payloads as MySQL
// DDL/DML and replays them against a live MySQL instance (SPEC_FULL.md
// §6.3's "myco mirror" subcommand) — a supplemental debug aid, not part
// of the core ingest/query contract.
package mirror

import (
	"fmt"
	"strconv"
	"strings"

	"myco/internal/world"
)

// Statements renders CREATE TABLE and INSERT statements for every table
// and payload in w, in table-declaration order. Every column is
// declared TEXT: the world model carries field values as unparsed
// strings, so mirroring preserves that rather than guessing a narrower
// MySQL type.
func Statements(w *world.World) []string {
	var stmts []string
	for _, t := range w.Tables {
		stmts = append(stmts, createTableStatement(t))
	}
	for _, t := range w.Tables {
		for _, p := range w.Payloads {
			if p.TableID != t.ID {
				continue
			}
			stmts = append(stmts, insertStatement(t, p))
		}
	}
	return stmts
}

func createTableStatement(t *world.Table) string {
	cols := t.Columns
	if len(cols) == 0 {
		cols = []string{"id"}
	}
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("`%s` TEXT", escapeIdent(c))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (\n  %s\n);", escapeIdent(t.Name), strings.Join(defs, ",\n  "))
}

func insertStatement(t *world.Table, p *world.Payload) string {
	names := make([]string, len(p.Fields))
	values := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		names[i] = fmt.Sprintf("`%s`", escapeIdent(f.Name))
		values[i] = sqlLiteral(f.Value)
	}
	return fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s);",
		escapeIdent(t.Name), strings.Join(names, ", "), strings.Join(values, ", "))
}

// sqlLiteral renders a field's text value as a MySQL literal. "NULL" is
// internal/ingest's sentinel for a SQL NULL value (see
// internal/sqlengine/exec's cellFromFieldValue for the same rule) and is
// emitted unquoted; a value that parses as a number is emitted bare so
// numeric columns round-trip without quoting; everything else is a
// quoted, escaped string.
func sqlLiteral(v string) string {
	if v == "NULL" {
		return "NULL"
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func escapeIdent(s string) string {
	return strings.ReplaceAll(s, "`", "``")
}
