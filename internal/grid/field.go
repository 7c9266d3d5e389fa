// Package grid provides the 2-D float fields the rest of the engine is
// built on: per-table pheromone density, the shared data-density field,
// and the diffuse-and-evaporate operator the carrier simulator applies to
// its pheromone accumulator (which never feeds back into placement).
package grid

import "fmt"

// Field is an immutable-dimension, row-major W×H container of float64
// values. Index (x,y) maps to data[y*Width+x]; out-of-range access is a
// program error, not a recoverable condition.
type Field struct {
	Width  int
	Height int
	data   []float64
}

// New returns a zero-initialised field of the given dimensions.
func New(width, height int) Field {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%d", width, height))
	}
	return Field{Width: width, Height: height, data: make([]float64, width*height)}
}

func (f Field) index(x, y int) int {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		panic(fmt.Sprintf("grid: out of range access (%d,%d) on %dx%d field", x, y, f.Width, f.Height))
	}
	return y*f.Width + x
}

// At returns the value at (x,y).
func (f Field) At(x, y int) float64 {
	return f.data[f.index(x, y)]
}

// Set writes the value at (x,y).
func (f Field) Set(x, y int, v float64) {
	f.data[f.index(x, y)] = v
}

// Add increments the value at (x,y) by delta.
func (f Field) Add(x, y int, delta float64) {
	i := f.index(x, y)
	f.data[i] += delta
}

// Len reports the total number of cells (Width*Height).
func (f Field) Len() int {
	return len(f.data)
}

// Clone returns an independent copy of the field.
func (f Field) Clone() Field {
	out := New(f.Width, f.Height)
	copy(out.data, f.data)
	return out
}

// Params controls one diffuse-and-evaporate step.
type Params struct {
	Evaporation float64
	Diffusion   float64
}

// wrap folds a coordinate into [0,n) toroidally; n must be positive.
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// DiffuseAndEvaporate performs one Jacobi-style diffusion/evaporation
// step over a toroidal (wrapping) boundary and returns a freshly
// allocated field — it never mutates f. The new value of each cell is
// (1-e) * ((1-d)*v + d*avg4), where avg4 is the mean of the four
// cardinal neighbours, wrapped around the grid edges.
func DiffuseAndEvaporate(f Field, p Params) Field {
	out := New(f.Width, f.Height)
	if f.Width == 0 || f.Height == 0 {
		return out
	}
	for y := 0; y < f.Height; y++ {
		up := wrap(y-1, f.Height)
		down := wrap(y+1, f.Height)
		for x := 0; x < f.Width; x++ {
			left := wrap(x-1, f.Width)
			right := wrap(x+1, f.Width)
			v := f.At(x, y)
			avg4 := (f.At(x, up) + f.At(x, down) + f.At(left, y) + f.At(right, y)) / 4.0
			blended := (1-p.Diffusion)*v + p.Diffusion*avg4
			out.Set(x, y, (1-p.Evaporation)*blended)
		}
	}
	return out
}
