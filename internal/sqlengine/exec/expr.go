package exec

import (
	"strings"

	"myco/internal/mycoerr"
	"myco/internal/sqlengine/ast"
)

// eval evaluates e against row, using ctx.outer as a fallback scope for
// correlated subqueries and ctx.currentGroup when e reaches an aggregate
// function call from within a HAVING clause.
func (ctx *Context) eval(e ast.Expr, row *Row) (Cell, error) {
	switch v := e.(type) {
	case ast.Literal:
		return cellFromLiteral(v), nil
	case ast.Ident:
		if c, ok := row.get(v.Name); ok {
			return c, nil
		}
		if ctx.outer != nil {
			if c, ok := ctx.outer.get(v.Name); ok {
				return c, nil
			}
		}
		return Cell{IsNull: true}, nil
	case ast.Star:
		return Cell{}, mycoerr.New(mycoerr.KindParse, "sqlengine: \"*\" is only valid as a COUNT(*) argument")
	case ast.FuncCallExpr:
		return ctx.evalFuncCall(v.Call, row)
	case ast.And:
		l, err := ctx.eval(v.Left, row)
		if err != nil {
			return Cell{}, err
		}
		if !truthy(l) {
			return boolCell(false), nil
		}
		r, err := ctx.eval(v.Right, row)
		if err != nil {
			return Cell{}, err
		}
		return boolCell(truthy(r)), nil
	case ast.Or:
		l, err := ctx.eval(v.Left, row)
		if err != nil {
			return Cell{}, err
		}
		if truthy(l) {
			return boolCell(true), nil
		}
		r, err := ctx.eval(v.Right, row)
		if err != nil {
			return Cell{}, err
		}
		return boolCell(truthy(r)), nil
	case ast.Not:
		c, err := ctx.eval(v.Operand, row)
		if err != nil {
			return Cell{}, err
		}
		return boolCell(!truthy(c)), nil
	case ast.Compare:
		return ctx.evalCompare(v, row)
	case ast.Between:
		return ctx.evalBetween(v, row)
	case ast.InList:
		return ctx.evalInList(v, row)
	case ast.InSubquery:
		return ctx.evalInSubquery(v, row)
	case ast.Like:
		return ctx.evalLike(v, row)
	case ast.Regexp:
		return ctx.evalRegexp(v, row)
	case ast.Exists:
		return ctx.evalExists(v, row)
	case ast.IsNull:
		c, err := ctx.eval(v.Operand, row)
		if err != nil {
			return Cell{}, err
		}
		return boolCell(c.IsNull != v.Negate), nil
	default:
		return Cell{}, mycoerr.New(mycoerr.KindParse, "sqlengine: unsupported expression")
	}
}

// evalCompare implements spec.md §4.8's two-valued null propagation: any
// null operand makes the comparison false, with no three-valued unknown
// state surfaced to WHERE/HAVING.
func (ctx *Context) evalCompare(v ast.Compare, row *Row) (Cell, error) {
	l, err := ctx.eval(v.Left, row)
	if err != nil {
		return Cell{}, err
	}
	r, err := ctx.eval(v.Right, row)
	if err != nil {
		return Cell{}, err
	}
	if l.IsNull || r.IsNull {
		return boolCell(false), nil
	}
	switch v.Op {
	case ast.OpEQ:
		return boolCell(cellsEqual(l, r)), nil
	case ast.OpNEQ:
		return boolCell(!cellsEqual(l, r)), nil
	case ast.OpLT:
		return boolCell(compareCells(l, r) < 0), nil
	case ast.OpLTE:
		return boolCell(compareCells(l, r) <= 0), nil
	case ast.OpGT:
		return boolCell(compareCells(l, r) > 0), nil
	case ast.OpGTE:
		return boolCell(compareCells(l, r) >= 0), nil
	default:
		return boolCell(false), nil
	}
}

func (ctx *Context) evalBetween(v ast.Between, row *Row) (Cell, error) {
	c, err := ctx.eval(v.Operand, row)
	if err != nil {
		return Cell{}, err
	}
	lo, err := ctx.eval(v.Low, row)
	if err != nil {
		return Cell{}, err
	}
	hi, err := ctx.eval(v.High, row)
	if err != nil {
		return Cell{}, err
	}
	if c.IsNull || lo.IsNull || hi.IsNull {
		return boolCell(v.Negate), nil
	}
	in := compareCells(c, lo) >= 0 && compareCells(c, hi) <= 0
	return boolCell(in != v.Negate), nil
}

func (ctx *Context) evalInList(v ast.InList, row *Row) (Cell, error) {
	c, err := ctx.eval(v.Operand, row)
	if err != nil {
		return Cell{}, err
	}
	if c.IsNull {
		return boolCell(v.Negate), nil
	}
	found := false
	for _, ve := range v.Values {
		vc, err := ctx.eval(ve, row)
		if err != nil {
			return Cell{}, err
		}
		if cellsEqual(c, vc) {
			found = true
			break
		}
	}
	return boolCell(found != v.Negate), nil
}

func (ctx *Context) evalInSubquery(v ast.InSubquery, row *Row) (Cell, error) {
	c, err := ctx.eval(v.Operand, row)
	if err != nil {
		return Cell{}, err
	}
	if c.IsNull {
		return boolCell(v.Negate), nil
	}
	child := &Context{w: ctx.w, focus: ctx.focus, ctes: ctx.ctes, outer: row}
	rs, err := child.execSelectExpr(v.Sub)
	if err != nil {
		return Cell{}, err
	}
	found := false
	if len(rs.Columns) > 0 {
		col := rs.Columns[0]
		for _, r := range rs.Rows {
			vc, ok := r.get(col)
			if ok && cellsEqual(c, vc) {
				found = true
				break
			}
		}
	}
	return boolCell(found != v.Negate), nil
}

func (ctx *Context) evalExists(v ast.Exists, row *Row) (Cell, error) {
	child := &Context{w: ctx.w, focus: ctx.focus, ctes: ctx.ctes, outer: row}
	rs, err := child.execSelectExpr(v.Sub)
	if err != nil {
		return Cell{}, err
	}
	return boolCell(len(rs.Rows) > 0), nil
}

// evalFuncCall dispatches either an aggregate (only valid within a
// GROUP BY/HAVING evaluation, via ctx.currentGroup) or one of the
// built-in scalar functions.
func (ctx *Context) evalFuncCall(call ast.FuncCall, row *Row) (Cell, error) {
	if ctx.currentGroup != nil && isAggregateName(call.Name) {
		return evalAggregate(ctx, call, ctx.currentGroup)
	}
	if isAggregateName(call.Name) {
		return Cell{}, mycoerr.New(mycoerr.KindSchema, "sqlengine: aggregate function used outside GROUP BY context")
	}

	args := make([]Cell, len(call.Args))
	for i, a := range call.Args {
		c, err := ctx.eval(a, row)
		if err != nil {
			return Cell{}, err
		}
		args[i] = c
	}

	switch strings.ToUpper(call.Name) {
	case "LOWER":
		if err := requireArgs(call.Name, args, 1); err != nil {
			return Cell{}, err
		}
		if args[0].IsNull {
			return Cell{IsNull: true}, nil
		}
		return Cell{Text: strings.ToLower(args[0].Text)}, nil
	case "UPPER":
		if err := requireArgs(call.Name, args, 1); err != nil {
			return Cell{}, err
		}
		if args[0].IsNull {
			return Cell{IsNull: true}, nil
		}
		return Cell{Text: strings.ToUpper(args[0].Text)}, nil
	case "LENGTH":
		if err := requireArgs(call.Name, args, 1); err != nil {
			return Cell{}, err
		}
		if args[0].IsNull {
			return Cell{IsNull: true}, nil
		}
		return numCell(float64(len(args[0].Text))), nil
	case "CONCAT":
		var sb strings.Builder
		for _, a := range args {
			if a.IsNull {
				return Cell{IsNull: true}, nil
			}
			sb.WriteString(a.Text)
		}
		return Cell{Text: sb.String()}, nil
	case "SUBSTRING", "SUBSTR":
		return evalSubstring(args)
	default:
		return Cell{}, mycoerr.New(mycoerr.KindParse, "sqlengine: unknown function "+call.Name)
	}
}

func requireArgs(name string, args []Cell, n int) error {
	if len(args) != n {
		return mycoerr.New(mycoerr.KindArgument, "sqlengine: "+name+" expects exactly one argument")
	}
	return nil
}

// evalSubstring implements SUBSTRING(str, start[, length]) with 1-based
// inclusive start (clamped to 1) and a negative/omitted length meaning
// "to the end of the string".
func evalSubstring(args []Cell) (Cell, error) {
	if len(args) != 2 && len(args) != 3 {
		return Cell{}, mycoerr.New(mycoerr.KindArgument, "sqlengine: SUBSTRING expects 2 or 3 arguments")
	}
	if args[0].IsNull {
		return Cell{IsNull: true}, nil
	}
	s := args[0].Text
	start := int(args[1].Num)
	if start < 1 {
		start = 1
	}
	if start > len(s) {
		return Cell{Text: ""}, nil
	}
	length := len(s) - (start - 1)
	if len(args) == 3 && args[2].Num >= 0 {
		length = int(args[2].Num)
	}
	end := start - 1 + length
	if end > len(s) {
		end = len(s)
	}
	if end < start-1 {
		end = start - 1
	}
	return Cell{Text: s[start-1 : end]}, nil
}
