package exec

import (
	"strings"

	"myco/internal/mycoerr"
	"myco/internal/sqlengine/ast"
)

func isAggregateName(name string) bool {
	switch strings.ToUpper(name) {
	case "COUNT", "SUM", "AVG", "MIN", "MAX":
		return true
	default:
		return false
	}
}

// evalAggregate evaluates an aggregate function call over one GROUP BY
// bucket (spec.md §4.8's aggregate semantics).
func evalAggregate(ctx *Context, call ast.FuncCall, rows []*Row) (Cell, error) {
	name := strings.ToUpper(call.Name)

	if name == "COUNT" && call.Star {
		return numCell(float64(len(rows))), nil
	}
	if len(call.Args) != 1 {
		return Cell{}, mycoerr.New(mycoerr.KindArgument, "sqlengine: "+call.Name+" expects exactly one argument")
	}

	vals := make([]Cell, 0, len(rows))
	for _, r := range rows {
		c, err := ctx.eval(call.Args[0], r)
		if err != nil {
			return Cell{}, err
		}
		vals = append(vals, c)
	}

	switch name {
	case "COUNT":
		n := 0
		for _, c := range vals {
			if !c.IsNull {
				n++
			}
		}
		return numCell(float64(n)), nil
	case "SUM":
		sum := 0.0
		for _, c := range vals {
			if !c.IsNull && c.HasNum {
				sum += c.Num
			}
		}
		return numCell(sum), nil
	case "AVG":
		sum, n := 0.0, 0
		for _, c := range vals {
			if !c.IsNull && c.HasNum {
				sum += c.Num
				n++
			}
		}
		if n == 0 {
			return numCell(0), nil
		}
		return numCell(sum / float64(n)), nil
	case "MIN":
		var best *Cell
		for i, c := range vals {
			if c.IsNull {
				continue
			}
			if best == nil || compareCells(c, *best) < 0 {
				best = &vals[i]
			}
		}
		if best == nil {
			return Cell{IsNull: true}, nil
		}
		return *best, nil
	case "MAX":
		var best *Cell
		for i, c := range vals {
			if c.IsNull {
				continue
			}
			if best == nil || compareCells(c, *best) > 0 {
				best = &vals[i]
			}
		}
		if best == nil {
			return Cell{IsNull: true}, nil
		}
		return *best, nil
	default:
		return Cell{}, mycoerr.New(mycoerr.KindParse, "sqlengine: unknown aggregate "+call.Name)
	}
}
