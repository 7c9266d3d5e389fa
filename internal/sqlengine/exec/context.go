package exec

import "myco/internal/world"

// Focus restricts a FROM table's rows to payloads within radius of
// (X,Y) (spec.md §4.8 "FROM table" semantics, db_execute_sql's
// use_focus/focus_x/focus_y/radius parameters).
type Focus struct {
	X, Y, Radius int
}

// ResultSet is the output of executing a select_expr: an ordered column
// list plus the matching rows.
type ResultSet struct {
	Columns []string
	Rows    []*Row
}

// Context carries execution state through one statement: the world
// being queried, an optional focus filter, resolved CTEs (by
// lowercased name), the outer row for correlated subqueries, and the
// current GROUP BY bucket when evaluating a HAVING expression.
type Context struct {
	w            *world.World
	focus        *Focus
	ctes         map[string]*ResultSet
	outer        *Row
	currentGroup []*Row
}
