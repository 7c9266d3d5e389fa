package ingest

import (
	"math"

	"myco/internal/grid"
	"myco/internal/mycoerr"
	"myco/internal/rngx"
	"myco/internal/world"
)

// Config controls one carrier simulation run (spec.md §4.5).
type Config struct {
	AgentCount int
	Steps      int
	Seed       uint32
	SpawnX     float64
	SpawnY     float64
}

// DefaultConfig returns a config spawning agents at the grid centre.
func DefaultConfig(w *world.World, agentCount, steps int, seed uint32) Config {
	return Config{
		AgentCount: agentCount,
		Steps:      steps,
		Seed:       seed,
		SpawnX:     float64(w.Width) / 2,
		SpawnY:     float64(w.Height) / 2,
	}
}

type carrier struct {
	x, y       float64
	payloadIdx int // -1 when idle
}

// accumulatorParams mirrors the reference implementation's pheromone
// accumulator diffusion rate; the accumulator itself never influences
// placement decisions (spec.md §4.5) — it exists purely so an external
// analysis pass has a diffused field to read.
var accumulatorParams = grid.Params{Evaporation: 0.02, Diffusion: 0.15}

// Simulate runs the deterministic carrier placement pass over w's
// unplaced payloads. Identical (seed, AgentCount, Steps, spawn) and
// identical prior ingest always yields bitwise-identical placement.
func Simulate(w *world.World, cfg Config) error {
	var pending []int
	for i, p := range w.Payloads {
		if !p.Placed {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	rng := rngx.New(cfg.Seed)
	agents := make([]carrier, cfg.AgentCount)
	for i := range agents {
		agents[i] = carrier{x: cfg.SpawnX, y: cfg.SpawnY, payloadIdx: -1}
	}

	var accum grid.Field
	if w.Width > 0 && w.Height > 0 {
		accum = grid.New(w.Width, w.Height)
	}

	pendingHead := 0
	for step := 0; step < cfg.Steps; step++ {
		for ai := range agents {
			a := &agents[ai]
			if a.payloadIdx < 0 {
				if pendingHead >= len(pending) {
					continue
				}
				a.payloadIdx = pending[pendingHead]
				pendingHead++
			}

			payload := w.Payloads[a.payloadIdx]
			tx, ty, hadTarget := targetFor(w, payload, cfg.SpawnX, cfg.SpawnY)

			dx, dy := tx-a.x, ty-a.y
			dist := math.Hypot(dx, dy)

			if dist > 0.001 {
				nx, ny := dx/dist, dy/dist
				jitter := rng.Uniform(-0.35, 0.35)
				a.x += nx + jitter
				a.y += ny + jitter
			} else {
				a.x += rng.Uniform(-1, 1)
				a.y += rng.Uniform(-1, 1)
			}

			cx := clampInt(roundHalfAwayFromZero(a.x), 0, w.Width-1)
			cy := clampInt(roundHalfAwayFromZero(a.y), 0, w.Height-1)

			var allow bool
			if hadTarget {
				allow = dist <= 2.5
			} else {
				allow = rng.Uniform(0, 1) < 0.1
			}

			if allow {
				if ex, ey, found := findFreeIn5x5(w, cx, cy); found {
					w.Place(a.payloadIdx, ex, ey)
					a.payloadIdx = -1
				}
			}
		}

		if accum.Width > 0 {
			for _, f := range w.TablePheromones {
				addFieldInto(accum, f)
			}
			accum = grid.DiffuseAndEvaporate(accum, accumulatorParams)
		}
	}

	return fallbackPlace(w, rng)
}

// targetFor resolves the carrier's target cell: the position of the
// first foreign-key reference that's already placed, else the spawn
// point.
func targetFor(w *world.World, p *world.Payload, spawnX, spawnY float64) (tx, ty float64, hadTarget bool) {
	for _, fk := range p.ForeignKeys {
		if pos, ok := w.PositionOf(fk.RefTableID, fk.RefID); ok {
			return float64(pos.X), float64(pos.Y), true
		}
	}
	return spawnX, spawnY, false
}

func findFreeIn5x5(w *world.World, cx, cy int) (int, int, bool) {
	for dy := -2; dy <= 2; dy++ {
		y := cy + dy
		if y < 0 || y >= w.Height {
			continue
		}
		for dx := -2; dx <= 2; dx++ {
			x := cx + dx
			if x < 0 || x >= w.Width {
				continue
			}
			if w.IsFree(x, y) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

func fallbackPlace(w *world.World, rng *rngx.RNG) error {
	var unplaced []int
	for i, p := range w.Payloads {
		if !p.Placed {
			unplaced = append(unplaced, i)
		}
	}
	if len(unplaced) == 0 {
		return nil
	}

	var free []world.Pos
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if w.IsFree(x, y) {
				free = append(free, world.Pos{X: x, Y: y})
			}
		}
	}
	if len(free) < len(unplaced) {
		return mycoerr.New(mycoerr.KindCapacity, "ingest: not enough free cells to place all payloads")
	}

	for _, idx := range unplaced {
		pick := rng.UniformInt(0, len(free)-1)
		pos := free[pick]
		free[pick] = free[len(free)-1]
		free = free[:len(free)-1]
		w.Place(idx, pos.X, pos.Y)
	}
	return nil
}

func addFieldInto(dst, src grid.Field) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			dst.Add(x, y, src.At(x, y))
		}
	}
}

func clampInt(v, lo, hi int) int {
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

func roundHalfAwayFromZero(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}
