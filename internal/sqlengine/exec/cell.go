package exec

import (
	"strconv"
	"strings"

	"myco/internal/sqlengine/ast"
)

// Cell is one value in a Row (spec.md §4.8's row model): the original
// text, an is_null flag, and a numeric value when the text parses as
// one.
type Cell struct {
	Text   string
	IsNull bool
	Num    float64
	HasNum bool
}

// cellFromFieldValue builds a Cell from a world.Field's text value. The
// literal text "NULL" is how internal/ingest renders a SQL NULL literal
// (ast.ValueExpr.GetValue() == nil), so it's treated as this cell's null
// sentinel rather than a literal four-letter string.
func cellFromFieldValue(v string) Cell {
	if v == "NULL" {
		return Cell{IsNull: true}
	}
	c := Cell{Text: v}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		c.Num, c.HasNum = n, true
	}
	return c
}

func cellFromLiteral(lit ast.Literal) Cell {
	if lit.IsNull {
		return Cell{IsNull: true}
	}
	return cellFromFieldValue(lit.Text)
}

func numCell(n float64) Cell {
	return Cell{Text: strconv.FormatFloat(n, 'g', -1, 64), Num: n, HasNum: true}
}

func boolCell(b bool) Cell {
	if b {
		return Cell{Text: "true", Num: 1, HasNum: true}
	}
	return Cell{Text: "false", Num: 0, HasNum: true}
}

// truthy reports a cell's boolean value: null and empty-string cells are
// false, a numeric cell is false only at zero, anything else is true.
func truthy(c Cell) bool {
	if c.IsNull {
		return false
	}
	if c.HasNum {
		return c.Num != 0
	}
	return c.Text != ""
}

func cellsEqual(a, b Cell) bool {
	if a.IsNull || b.IsNull {
		return false
	}
	if a.HasNum && b.HasNum {
		return a.Num == b.Num
	}
	return a.Text == b.Text
}

// compareCells orders two non-null cells: numeric ordering when both
// sides parsed as numbers, lexicographic otherwise. Callers decide what
// a null operand means for their particular operator.
func compareCells(a, b Cell) int {
	if a.HasNum && b.HasNum {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.Text, b.Text)
}
