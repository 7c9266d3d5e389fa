package world

import "myco/internal/grid"

// World is the single owner of all placement state; everything else
// (cell occupancy, positional lookup) is an index into it.
type World struct {
	Width, Height int

	Tables      []*Table
	tableLookup map[string]int

	Payloads []*Payload

	// CellPayload holds, for each cell y*Width+x, the index into Payloads
	// occupying it, or -1 if empty.
	CellPayload []int

	// PayloadPositions maps (tableID,id) to the cell a placed payload
	// occupies.
	PayloadPositions map[uint64]Pos

	TablePheromones []grid.Field
	DataDensity     grid.Field
	Mycelium        grid.Field
}

// Pos is a grid coordinate.
type Pos struct {
	X, Y int
}

// New creates an empty world of the given dimensions. Per-table
// pheromone fields, the data-density field, and the mycelium field are
// all zero-initialised at these dimensions.
func New(width, height int) *World {
	w := &World{
		Width:            width,
		Height:           height,
		tableLookup:      make(map[string]int),
		PayloadPositions: make(map[uint64]Pos),
	}
	if width > 0 && height > 0 {
		w.DataDensity = grid.New(width, height)
		w.Mycelium = grid.New(width, height)
	}
	w.resetCellPayload()
	return w
}

func (w *World) resetCellPayload() {
	n := w.Width * w.Height
	w.CellPayload = make([]int, n)
	for i := range w.CellPayload {
		w.CellPayload[i] = -1
	}
}

// AddTable registers name if not already present (case-insensitive) and
// returns its table_id. When a new table is created after the world has
// non-zero dimensions, a fresh zero pheromone field is appended so that
// len(Tables) == len(TablePheromones) is preserved.
func (w *World) AddTable(name string) int {
	key := tableKey(name)
	if id, ok := w.tableLookup[key]; ok {
		return id
	}
	id := len(w.Tables)
	w.Tables = append(w.Tables, &Table{ID: id, Name: name})
	w.tableLookup[key] = id
	if w.Width > 0 && w.Height > 0 {
		w.TablePheromones = append(w.TablePheromones, grid.New(w.Width, w.Height))
	}
	return id
}

// FindTable looks up a table id by case-insensitive name.
func (w *World) FindTable(name string) (int, bool) {
	id, ok := w.tableLookup[tableKey(name)]
	return id, ok
}

// Table returns the table with the given id, or nil if out of range.
func (w *World) Table(id int) *Table {
	if id < 0 || id >= len(w.Tables) {
		return nil
	}
	return w.Tables[id]
}

func positionKey(tableID, id int) uint64 {
	return uint64(uint32(tableID))<<32 | uint64(uint32(id))
}

// AddPayload appends p to the payload list and returns its index.
func (w *World) AddPayload(p *Payload) int {
	idx := len(w.Payloads)
	w.Payloads = append(w.Payloads, p)
	return idx
}

// Place marks the payload at idx as occupying (x,y): it updates
// CellPayload, PayloadPositions, DataDensity, and the owning table's
// pheromone field. The caller is responsible for ensuring the cell is
// free.
func (w *World) Place(idx, x, y int) {
	p := w.Payloads[idx]
	p.X, p.Y, p.Placed = x, y, true
	w.CellPayload[y*w.Width+x] = idx
	w.PayloadPositions[positionKey(p.TableID, p.ID)] = Pos{X: x, Y: y}
	if w.DataDensity.Width > 0 {
		w.DataDensity.Set(x, y, 1.0)
	}
	if p.TableID >= 0 && p.TableID < len(w.TablePheromones) {
		w.TablePheromones[p.TableID].Add(x, y, 1.0)
	}
}

// IsFree reports whether (x,y) has no payload placed on it.
func (w *World) IsFree(x, y int) bool {
	return w.CellPayload[y*w.Width+x] < 0
}

// PositionOf returns the placed position of (tableID,id), if any.
func (w *World) PositionOf(tableID, id int) (Pos, bool) {
	pos, ok := w.PayloadPositions[positionKey(tableID, id)]
	return pos, ok
}

// RebuildIndexes recomputes CellPayload and PayloadPositions from the
// authoritative (x,y,placed) state on each payload — used after MYCO1
// load, mirroring the "World is the single owner" rule in spec.md §9.
func (w *World) RebuildIndexes() {
	w.resetCellPayload()
	w.PayloadPositions = make(map[uint64]Pos)
	for i, p := range w.Payloads {
		if !p.Placed || p.X < 0 || p.Y < 0 {
			p.Placed = false
			continue
		}
		p.Placed = true
		w.CellPayload[p.Y*w.Width+p.X] = i
		w.PayloadPositions[positionKey(p.TableID, p.ID)] = Pos{X: p.X, Y: p.Y}
	}
}
