package spatial

import (
	"myco/internal/world"
)

// ExecuteQuery runs q against w (spec.md §4.7). Unknown tables yield an
// empty result, never an error.
func ExecuteQuery(w *world.World, q Query, radius int) []*world.Payload {
	tableID, ok := w.FindTable(q.Table)
	if !ok {
		return nil
	}

	kind, refTableID, targetID, isInt := classify(w, q)

	if kind == FKQuery {
		if pos, ok := w.PositionOf(refTableID, targetID); ok {
			var hits []*world.Payload
			forEachInBox(w, pos.X, pos.Y, radius, func(p *world.Payload) {
				if p.TableID == tableID && hasFK(p, refTableID, targetID) {
					hits = append(hits, p)
				}
			})
			if len(hits) > 0 {
				return hits
			}
		}
	}

	var hits []*world.Payload
	for _, p := range w.Payloads {
		if p.TableID != tableID {
			continue
		}
		if matches(p, q, isInt, targetID) {
			hits = append(hits, p)
		}
	}
	return hits
}

// ExecuteQueryFocus runs q against w restricted to the radius-wide
// bounding box around (cx,cy), with no full-table fallback (spec.md
// §4.7). For any query, ExecuteQueryFocus's result is always a subset
// of ExecuteQuery(w, q, radius) when ExecuteQuery falls through to its
// own full-table scan, since that scan is unrestricted.
func ExecuteQueryFocus(w *world.World, q Query, cx, cy, radius int) []*world.Payload {
	tableID, ok := w.FindTable(q.Table)
	if !ok {
		return nil
	}

	kind, refTableID, targetID, isInt := classify(w, q)

	var fkHits []*world.Payload
	var fallbackHits []*world.Payload
	forEachInBox(w, cx, cy, radius, func(p *world.Payload) {
		if p.TableID != tableID {
			return
		}
		if kind == FKQuery && hasFK(p, refTableID, targetID) {
			fkHits = append(fkHits, p)
		}
		if matches(p, q, isInt, targetID) {
			fallbackHits = append(fallbackHits, p)
		}
	})
	if len(fkHits) > 0 {
		return fkHits
	}
	return fallbackHits
}

func matches(p *world.Payload, q Query, isInt bool, targetID int) bool {
	if isInt && p.ID == targetID {
		return true
	}
	if v, ok := p.FieldValue(q.Column); ok && v == q.Value {
		return true
	}
	return false
}

func hasFK(p *world.Payload, refTableID, refID int) bool {
	for _, fk := range p.ForeignKeys {
		if fk.RefTableID == refTableID && fk.RefID == refID {
			return true
		}
	}
	return false
}

// forEachInBox visits every placed payload whose cell falls in the
// radius-wide box centred on (cx,cy), clipped to the grid bounds.
func forEachInBox(w *world.World, cx, cy, radius int, fn func(p *world.Payload)) {
	minX, maxX := clamp(cx-radius, 0, w.Width-1), clamp(cx+radius, 0, w.Width-1)
	minY, maxY := clamp(cy-radius, 0, w.Height-1), clamp(cy+radius, 0, w.Height-1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			idx := w.CellPayload[y*w.Width+x]
			if idx < 0 {
				continue
			}
			fn(w.Payloads[idx])
		}
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
