// Package exec interprets a parsed SQL-subset statement (spec.md §4.8)
// against a world.World, implementing joins, subqueries, CTEs,
// UNION/UNION ALL, DISTINCT, GROUP BY/HAVING, ORDER BY, LIMIT/OFFSET,
// aggregates, and the built-in scalar functions.
package exec

import (
	"fmt"
	"sort"
	"strings"

	"myco/internal/mycoerr"
	"myco/internal/sqlengine/ast"
	"myco/internal/sqlengine/parser"
	"myco/internal/world"
)

// Execute parses and runs text against w. focus may be nil.
func Execute(w *world.World, text string, focus *Focus) (*ResultSet, error) {
	stmt, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	ctx := &Context{w: w, focus: focus, ctes: make(map[string]*ResultSet)}
	return ctx.execStatement(stmt)
}

func (ctx *Context) execStatement(stmt *ast.Statement) (*ResultSet, error) {
	for _, cte := range stmt.CTEs {
		rs, err := ctx.execSelectExpr(cte.Select)
		if err != nil {
			return nil, err
		}
		ctx.ctes[strings.ToLower(cte.Name)] = rs
	}
	return ctx.execSelectExpr(stmt.Select)
}

func (ctx *Context) execSelectExpr(sel ast.SelectExpr) (*ResultSet, error) {
	acc, err := ctx.execSelectCore(sel.Core)
	if err != nil {
		return nil, err
	}
	for _, part := range sel.Parts {
		rs2, err := ctx.execSelectCore(part.Core)
		if err != nil {
			return nil, err
		}
		if len(rs2.Columns) != len(acc.Columns) {
			return nil, mycoerr.New(mycoerr.KindSchema, "sqlengine: UNION parts have different column counts")
		}
		acc.Rows = append(acc.Rows, rs2.Rows...)
		if !part.All {
			acc.Rows = dedupeRows(acc.Rows)
		}
	}
	return acc, nil
}

func (ctx *Context) execSelectCore(core ast.SelectCore) (*ResultSet, error) {
	hasStar := false
	hasAggregate := false
	for _, item := range core.Items {
		if item.Star {
			hasStar = true
		}
		if item.Func != nil && isAggregateName(item.Func.Name) {
			hasAggregate = true
		}
	}
	if hasStar && len(core.GroupBy) > 0 {
		return nil, mycoerr.New(mycoerr.KindSchema, "sqlengine: SELECT * with GROUP BY is not allowed")
	}
	if hasAggregate && len(core.GroupBy) == 0 {
		return nil, mycoerr.New(mycoerr.KindSchema, "sqlengine: aggregate functions require GROUP BY")
	}

	rows, err := ctx.resolveFrom(core.From)
	if err != nil {
		return nil, err
	}

	for _, j := range core.Joins {
		rightRows, err := ctx.resolveFrom(ast.FromClause{Table: j.Table, Alias: j.Alias})
		if err != nil {
			return nil, err
		}
		rows = performJoin(rows, rightRows, j)
	}

	if core.Where != nil {
		filtered := rows[:0:0]
		for _, r := range rows {
			cell, err := ctx.eval(core.Where, r)
			if err != nil {
				return nil, err
			}
			if truthy(cell) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	var groups [][]*Row
	var reps []*Row
	if len(core.GroupBy) > 0 {
		groups, reps = groupRows(rows, core.GroupBy)
		if core.Having != nil {
			var fg [][]*Row
			var fr []*Row
			for i, g := range groups {
				cell, err := ctx.evalHaving(core.Having, g, reps[i])
				if err != nil {
					return nil, err
				}
				if truthy(cell) {
					fg = append(fg, g)
					fr = append(fr, reps[i])
				}
			}
			groups, reps = fg, fr
		}
	} else {
		for _, r := range rows {
			groups = append(groups, []*Row{r})
			reps = append(reps, r)
		}
	}

	outCols, outRows, err := ctx.project(core.Items, groups, reps)
	if err != nil {
		return nil, err
	}

	if core.Distinct {
		outRows = dedupeRows(outRows)
	}

	if len(core.OrderBy) > 0 {
		sortRows(outRows, outCols, core.OrderBy)
	}

	outRows = applyLimitOffset(outRows, core.Limit, core.Offset)

	return &ResultSet{Columns: outCols, Rows: outRows}, nil
}

func (ctx *Context) evalHaving(expr ast.Expr, group []*Row, rep *Row) (Cell, error) {
	ctx.currentGroup = group
	defer func() { ctx.currentGroup = nil }()
	return ctx.eval(expr, rep)
}

func (ctx *Context) resolveFrom(fc ast.FromClause) ([]*Row, error) {
	if fc.Sub != nil {
		rs, err := ctx.execSelectExpr(*fc.Sub)
		if err != nil {
			return nil, err
		}
		return retagRows(rs, fc.Alias), nil
	}
	if cte, ok := ctx.ctes[strings.ToLower(fc.Table)]; ok {
		return retagRows(cte, fc.Alias), nil
	}
	tableID, ok := ctx.w.FindTable(fc.Table)
	if !ok {
		return nil, mycoerr.New(mycoerr.KindSchema, fmt.Sprintf("sqlengine: unknown table %q", fc.Table))
	}
	t := ctx.w.Table(tableID)
	var rows []*Row
	for _, p := range ctx.w.Payloads {
		if p.TableID != tableID {
			continue
		}
		if ctx.focus != nil {
			if !p.Placed {
				continue
			}
			dx := float64(p.X - ctx.focus.X)
			dy := float64(p.Y - ctx.focus.Y)
			if dx*dx+dy*dy > float64(ctx.focus.Radius*ctx.focus.Radius) {
				continue
			}
		}
		rows = append(rows, buildTableRow(t.Name, fc.Alias, p))
	}
	return rows, nil
}

func retagRows(rs *ResultSet, alias string) []*Row {
	out := make([]*Row, len(rs.Rows))
	for i, r := range rs.Rows {
		nr := newRow()
		for _, e := range r.order {
			nr.addColumn(e.name, e.cell, alias)
		}
		out[i] = nr
	}
	return out
}

func buildTableRow(tableName, alias string, p *world.Payload) *Row {
	row := newRow()
	hasID := false
	for _, f := range p.Fields {
		if strings.EqualFold(f.Name, "id") {
			hasID = true
		}
		row.addColumn(f.Name, cellFromFieldValue(f.Value), tableName, alias)
	}
	if !hasID {
		row.addColumn("id", numCell(float64(p.ID)), tableName, alias)
	}
	return row
}

func groupRows(rows []*Row, groupBy []string) ([][]*Row, []*Row) {
	var order []string
	buckets := make(map[string][]*Row)
	for _, r := range rows {
		key := groupKey(r, groupBy)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], r)
	}
	groups := make([][]*Row, 0, len(order))
	reps := make([]*Row, 0, len(order))
	for _, k := range order {
		g := buckets[k]
		groups = append(groups, g)
		reps = append(reps, g[0])
	}
	return groups, reps
}

// groupKey is the pipe-joined group-by column values (spec.md §4.8),
// with the literal "NULL" standing in for a null cell.
func groupKey(r *Row, cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		cell, ok := r.get(c)
		if !ok || cell.IsNull {
			parts[i] = "NULL"
		} else {
			parts[i] = cell.Text
		}
	}
	return strings.Join(parts, "|")
}

func dedupeRows(rows []*Row) []*Row {
	seen := make(map[string]bool, len(rows))
	out := rows[:0:0]
	for _, r := range rows {
		k := rowKey(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func rowKey(r *Row) string {
	parts := make([]string, len(r.order))
	for i, e := range r.order {
		if e.cell.IsNull {
			parts[i] = "NULL"
		} else {
			parts[i] = e.cell.Text
		}
	}
	return strings.Join(parts, "|")
}

// sortRows implements ORDER BY: always lexicographic string comparison,
// even over numeric-looking values (spec.md §9's frozen Open Question —
// no numeric promotion at this stage).
func sortRows(rows []*Row, cols []string, keys []ast.OrderKey) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			vi := orderValue(rows[i], cols, k)
			vj := orderValue(rows[j], cols, k)
			if vi == vj {
				continue
			}
			if k.Desc {
				return vi > vj
			}
			return vi < vj
		}
		return false
	})
}

func orderValue(r *Row, cols []string, k ast.OrderKey) string {
	if k.Pos > 0 && k.Pos <= len(cols) {
		if c, ok := r.get(cols[k.Pos-1]); ok {
			return c.Text
		}
		return ""
	}
	if c, ok := r.get(k.Name); ok {
		return c.Text
	}
	return ""
}

func applyLimitOffset(rows []*Row, limit, offset int) []*Row {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
