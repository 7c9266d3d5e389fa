package exec

import (
	"fmt"
	"strings"

	"myco/internal/sqlengine/ast"
)

// project evaluates core.Items once per group (a single-row group when
// there is no GROUP BY), returning the resolved output columns and rows.
func (ctx *Context) project(items []ast.SelectItem, groups [][]*Row, reps []*Row) ([]string, []*Row, error) {
	var cols []string
	rows := make([]*Row, 0, len(reps))

	for gi, rep := range reps {
		group := groups[gi]
		out := newRow()

		for idx, item := range items {
			if item.Star {
				for _, e := range rep.order {
					out.addColumn(e.name, e.cell)
				}
				continue
			}
			name, cell, err := ctx.evalSelectItem(item, group, rep, idx)
			if err != nil {
				return nil, nil, err
			}
			out.addColumn(name, cell)
		}

		if cols == nil {
			cols = make([]string, len(out.order))
			for i, e := range out.order {
				cols[i] = e.name
			}
		}
		rows = append(rows, out)
	}

	if cols == nil {
		cols = []string{}
	}
	return cols, rows, nil
}

func (ctx *Context) evalSelectItem(item ast.SelectItem, group []*Row, rep *Row, idx int) (string, Cell, error) {
	if item.Func != nil {
		var cell Cell
		var err error
		if isAggregateName(item.Func.Name) {
			cell, err = evalAggregate(ctx, *item.Func, group)
		} else {
			cell, err = ctx.evalFuncCall(*item.Func, rep)
		}
		if err != nil {
			return "", Cell{}, err
		}
		name := item.Alias
		if name == "" {
			name = funcColName(*item.Func)
		}
		return name, cell, nil
	}

	cell, err := ctx.eval(item.Expr, rep)
	if err != nil {
		return "", Cell{}, err
	}
	name := item.Alias
	if name == "" {
		name = defaultColName(item.Expr, idx)
	}
	return name, cell, nil
}

func funcColName(call ast.FuncCall) string {
	if call.Star {
		return call.Name + "(*)"
	}
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		args[i] = defaultColName(a, i)
	}
	return call.Name + "(" + strings.Join(args, ", ") + ")"
}

// defaultColName derives a column name for an unaliased select item:
// the bare identifier (qualifier dropped) for an ast.Ident, the literal
// text (or "NULL") for an ast.Literal, otherwise the positional name
// "col<idx+1>".
func defaultColName(e ast.Expr, idx int) string {
	switch v := e.(type) {
	case ast.Ident:
		if i := strings.LastIndexByte(v.Name, '.'); i >= 0 {
			return v.Name[i+1:]
		}
		return v.Name
	case ast.Literal:
		if v.IsNull {
			return "NULL"
		}
		return v.Text
	default:
		return fmt.Sprintf("col%d", idx+1)
	}
}
