package exec

import "myco/internal/sqlengine/ast"

// performJoin combines leftRows and rightRows per join's kind, matching
// rows with matchJoinCond when an ON clause is present and treating a
// join with no ON as a full cross product (spec.md §4.8 join semantics).
func performJoin(leftRows, rightRows []*Row, join ast.Join) []*Row {
	switch join.Kind {
	case ast.CrossJoin:
		return crossProduct(leftRows, rightRows)
	case ast.LeftJoin:
		return outerJoin(leftRows, rightRows, join, false)
	case ast.RightJoin:
		return outerJoin(rightRows, leftRows, join, true)
	default: // ast.InnerJoin
		var out []*Row
		for _, l := range leftRows {
			for _, r := range rightRows {
				if !join.HasOn || matchJoinCond(l, r, join) {
					out = append(out, combine(l, r))
				}
			}
		}
		return out
	}
}

func crossProduct(leftRows, rightRows []*Row) []*Row {
	out := make([]*Row, 0, len(leftRows)*len(rightRows))
	for _, l := range leftRows {
		for _, r := range rightRows {
			out = append(out, combine(l, r))
		}
	}
	return out
}

// outerJoin drives the join from primary against secondary: every
// primary row is emitted, matched against secondary rows when HasOn,
// padding with a null-shaped secondary row when nothing matches.
// swapped marks primary as the join's right-hand side: the ON condition
// is then checked with the secondary row as its left half, and combine()
// merges left-then-right, so a RIGHT JOIN still projects left-then-right
// as SQL expects.
func outerJoin(primary, secondary []*Row, join ast.Join, swapped bool) []*Row {
	var nullSecondary *Row
	if len(secondary) > 0 {
		nullSecondary = nullRowLike(secondary[0])
	} else {
		nullSecondary = newRow()
	}

	var out []*Row
	for _, p := range primary {
		matched := false
		for _, s := range secondary {
			l, r := p, s
			if swapped {
				l, r = s, p
			}
			if !join.HasOn || matchJoinCond(l, r, join) {
				matched = true
				out = append(out, combine(l, r))
			}
		}
		if !matched {
			if swapped {
				out = append(out, combine(nullSecondary, p))
			} else {
				out = append(out, combine(p, nullSecondary))
			}
		}
	}
	return out
}

func combine(l, r *Row) *Row {
	nr := newRow()
	nr.mergeFrom(l)
	nr.mergeFrom(r)
	return nr
}

func matchJoinCond(l, r *Row, join ast.Join) bool {
	lc, ok1 := l.get(join.LeftCol)
	rc, ok2 := r.get(join.RightCol)
	if !ok1 || !ok2 {
		return false
	}
	return cellsEqual(lc, rc)
}
