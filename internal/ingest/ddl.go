// Package ingest implements spec.md §4.4 (the tolerant SQL ingest
// parser) and §4.5 (the carrier placement simulator). CREATE TABLE and
// INSERT statements are recognised; everything else is ignored, per the
// parser's recovery-oriented design.
package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"myco/internal/mycoerr"
	"myco/internal/world"
)

// ParseSQL populates w with tables and (unplaced) payloads discovered in
// buf. An empty file, or a file containing no recognisable INSERT, is a
// fatal Parse error; any other malformed statement is skipped silently.
func ParseSQL(w *world.World, buf string) error {
	if strings.TrimSpace(buf) == "" {
		return mycoerr.New(mycoerr.KindParse, "ingest: empty SQL input")
	}

	stmts := splitStatements(buf)
	p := parser.New()

	sawInsert := false
	for _, stmt := range stmts {
		switch firstKeyword(stmt) {
		case "CREATE":
			processCreateTable(w, p, stmt)
		case "INSERT":
			if processInsert(w, p, stmt) {
				sawInsert = true
			}
		}
	}

	if !sawInsert {
		return mycoerr.New(mycoerr.KindParse, "ingest: no recognisable INSERT statements found")
	}
	return nil
}

var identWordRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)

func firstKeyword(stmt string) string {
	s := strings.TrimSpace(stmt)
	m := identWordRe.FindString(s)
	return strings.ToUpper(m)
}

// processCreateTable parses a single CREATE TABLE statement via the TiDB
// SQL parser (the same library and convert-from-AST idiom used by
// internal/parser/mysql/parser.go) and registers the table and its
// column list. Parse failures are swallowed — ingest never errors on an
// individual malformed statement.
func processCreateTable(w *world.World, p *parser.Parser, stmt string) {
	nodes, _, err := p.Parse(stmt, "", "")
	if err != nil {
		return
	}
	for _, node := range nodes {
		create, ok := node.(*ast.CreateTableStmt)
		if !ok {
			continue
		}
		tableID := w.AddTable(create.Table.Name.O)
		cols := make([]string, 0, len(create.Cols))
		for _, col := range create.Cols {
			cols = append(cols, col.Name.Name.O)
		}
		if t := w.Table(tableID); t != nil {
			t.Columns = cols
		}
	}
}

// insertTargetRe extracts the table name and optional column list from
// "INSERT INTO <name> [(cols)] VALUES ...", honouring backtick/quote
// identifier quoting and dotted identifiers (schema.table -> table) per
// spec.md §4.4's tokenizing rules.
var insertTargetRe = regexp.MustCompile(`(?is)^\s*insert\s+into\s+([` + "`" + `"\w.]+)\s*(?:\(([^)]*)\))?\s*values`)

// processInsert parses one INSERT statement. The target table/column
// list are pulled with a small dedicated regex (spec.md's grammar here is
// deliberately simpler than general SQL and not worth forcing through a
// TableRefsClause AST walk); the VALUES tuples themselves are parsed by
// the TiDB parser so that quoting/escaping/number literals are handled by
// a real SQL tokenizer rather than a second hand-rolled one.
func processInsert(w *world.World, p *parser.Parser, stmt string) bool {
	m := insertTargetRe.FindStringSubmatch(stmt)
	if m == nil {
		return false
	}
	tableName := unquoteIdent(m[1])
	var explicitCols []string
	if strings.TrimSpace(m[2]) != "" {
		for _, c := range strings.Split(m[2], ",") {
			explicitCols = append(explicitCols, unquoteIdent(strings.TrimSpace(c)))
		}
	}

	nodes, _, err := p.Parse(stmt, "", "")
	if err != nil {
		return false
	}

	any := false
	for _, node := range nodes {
		insert, ok := node.(*ast.InsertStmt)
		if !ok {
			continue
		}

		tableID := w.AddTable(tableName)
		columns := explicitCols
		if len(columns) == 0 {
			if t := w.Table(tableID); t != nil && len(t.Columns) > 0 {
				columns = t.Columns
			}
		}

		for _, row := range insert.Lists {
			if len(columns) > 0 && len(row) != len(columns) {
				// Row arity mismatch against the declared/explicit column
				// list: drop the row, per spec.md §4.4.
				continue
			}
			cols := columns
			if len(cols) == 0 {
				cols = syntheticColumns(len(row))
			}
			fields := make([]world.Field, len(row))
			for i, expr := range row {
				fields[i] = world.Field{Name: cols[i], Value: exprToText(expr)}
			}
			addPayload(w, tableID, fields)
			any = true
		}
	}
	return any
}

func syntheticColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = fmt.Sprintf("col%d", i)
	}
	return cols
}

func addPayload(w *world.World, tableID int, fields []world.Field) {
	id := world.PayloadID(fields, len(w.Payloads)+1)
	p := &world.Payload{
		ID:      id,
		TableID: tableID,
		Fields:  fields,
		RawData: world.BuildRawData(fields),
		X:       -1,
		Y:       -1,
	}
	p.ForeignKeys = w.DeriveForeignKeys(fields)
	w.AddPayload(p)
}

// unquoteIdent strips backtick/double-quote quoting and keeps only the
// part after the last '.' of a dotted identifier.
func unquoteIdent(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '`' && s[len(s)-1] == '`') || (s[0] == '"' && s[len(s)-1] == '"') {
			s = s[1 : len(s)-1]
		}
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return strings.Trim(s, "`\"")
}

// exprToText renders a VALUES literal to its display text, unquoting SQL
// string literals the same way internal/parser/mysql/parser.go's
// exprToString does (via the TiDB restore context), and normalising
// NULL to an empty-looking literal "NULL" passed through as text.
func exprToText(expr ast.ExprNode) string {
	if v, ok := expr.(*ast.ValueExpr); ok {
		return valueExprText(v)
	}
	var sb strings.Builder
	ctx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := expr.Restore(ctx); err != nil {
		return ""
	}
	return strings.TrimSpace(sb.String())
}

func valueExprText(v *ast.ValueExpr) string {
	switch val := v.GetValue().(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		var sb strings.Builder
		ctx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
		if err := v.Restore(ctx); err == nil {
			return strings.Trim(strings.TrimSpace(sb.String()), "'")
		}
		return fmt.Sprintf("%v", val)
	}
}
