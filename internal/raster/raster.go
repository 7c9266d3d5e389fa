// Package raster implements the optional PPM (P3) cluster dump (spec.md
// §6.2): a scaled-up visualisation of which cells are occupied and by
// which table, written in the plain-ASCII PPM P3 format. No example repo
// does image/raster output, and the format itself is nine fixed RGB
// triples over a row-major grid — stdlib bufio is the right and only
// reasonable tool (see DESIGN.md).
package raster

import (
	"bufio"
	"fmt"
	"io"

	"myco/internal/mycoerr"
	"myco/internal/world"
)

// palette holds the fixed 9-colour palette: index 0 is the empty-cell
// colour, index 1+(table_id mod 8) is used for an occupied cell.
var palette = [9][3]int{
	{30, 30, 30},
	{220, 60, 60},
	{60, 200, 90},
	{70, 120, 220},
	{220, 200, 60},
	{200, 80, 200},
	{60, 200, 200},
	{200, 140, 60},
	{160, 160, 160},
}

// Dump writes a PPM P3 rendering of w to out, painting each grid cell as
// a scale x scale block. A scale below 1 is treated as 1.
func Dump(w *world.World, out io.Writer, scale int) error {
	if scale < 1 {
		scale = 1
	}

	bw := bufio.NewWriter(out)
	fmt.Fprintln(bw, "P3")
	fmt.Fprintf(bw, "%d %d\n", w.Width*scale, w.Height*scale)
	fmt.Fprintln(bw, "255")

	for y := 0; y < w.Height; y++ {
		for sy := 0; sy < scale; sy++ {
			for x := 0; x < w.Width; x++ {
				r, g, b := colourFor(w, x, y)
				for sx := 0; sx < scale; sx++ {
					fmt.Fprintf(bw, "%d %d %d\n", r, g, b)
				}
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return mycoerr.Wrap(mycoerr.KindIO, "raster: write failed", err)
	}
	return nil
}

func colourFor(w *world.World, x, y int) (r, g, b int) {
	idx := w.CellPayload[y*w.Width+x]
	if idx < 0 {
		c := palette[0]
		return c[0], c[1], c[2]
	}
	tableID := w.Payloads[idx].TableID
	c := palette[1+((tableID%8+8)%8)]
	return c[0], c[1], c[2]
}
