package exec

import "strings"

type entry struct {
	name string
	cell Cell
}

// Row is a case-insensitive mapping from names to Cells (spec.md §4.8's
// row model). order holds the row's display columns in table-then-
// column insertion order, each already resolved to its Cell — this is
// what makes "SELECT *" over a join produce a stable column order even
// when two source tables share a bare column name.
type Row struct {
	cells map[string]Cell
	order []entry
}

func newRow() *Row {
	return &Row{cells: make(map[string]Cell)}
}

func (r *Row) get(name string) (Cell, bool) {
	c, ok := r.cells[strings.ToLower(name)]
	return c, ok
}

// Text returns name's display text, or "" with ok=false if name isn't a
// column on this row or holds a null cell. It lets callers outside this
// package (the query-result renderer) read a ResultSet's rows without
// reaching into Row's unexported fields.
func (r *Row) Text(name string) (string, bool) {
	c, ok := r.get(name)
	if !ok || c.IsNull {
		return "", false
	}
	return c.Text, true
}

func (r *Row) setKey(key string, c Cell) {
	r.cells[strings.ToLower(key)] = c
}

// addColumn registers c under name plus any non-empty qualifier (e.g.
// table name, alias), as "<qualifier>.<name>", and appends it to the
// row's display order.
func (r *Row) addColumn(name string, c Cell, qualifiers ...string) {
	r.setKey(name, c)
	for _, q := range qualifiers {
		if q != "" {
			r.setKey(q+"."+name, c)
		}
	}
	r.order = append(r.order, entry{name: name, cell: c})
}

// mergeFrom absorbs other's keys and display columns into r (used when
// building a joined row from its left/right halves).
func (r *Row) mergeFrom(other *Row) {
	for k, v := range other.cells {
		r.cells[k] = v
	}
	r.order = append(r.order, other.order...)
}

// nullRowLike returns a row with the same display columns as sample,
// every cell null — the unmatched side of an outer join.
func nullRowLike(sample *Row) *Row {
	nr := newRow()
	for k := range sample.cells {
		nr.cells[k] = Cell{IsNull: true}
	}
	for _, e := range sample.order {
		nr.order = append(nr.order, entry{name: e.name, cell: Cell{IsNull: true}})
	}
	return nr
}
