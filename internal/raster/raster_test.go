package raster

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myco/internal/world"
)

func TestDumpHeader(t *testing.T) {
	w := world.New(2, 3)
	var buf bytes.Buffer
	require.NoError(t, Dump(w, &buf, 2))

	sc := bufio.NewScanner(&buf)
	require.True(t, sc.Scan())
	assert.Equal(t, "P3", sc.Text())
	require.True(t, sc.Scan())
	assert.Equal(t, "4 6", sc.Text())
	require.True(t, sc.Scan())
	assert.Equal(t, "255", sc.Text())
}

func TestDumpPaintsOccupiedCellInTableColour(t *testing.T) {
	w := world.New(2, 2)
	tableID := w.AddTable("Track")
	w.AddPayload(&world.Payload{ID: 1, TableID: tableID})
	w.Place(0, 0, 0)

	var buf bytes.Buffer
	require.NoError(t, Dump(w, &buf, 1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// Header is 3 lines; the first pixel row starts at index 3 and
	// corresponds to cell (0,0), which is occupied by table 0.
	assert.Equal(t, formatRGB(palette[1]), lines[3])
}

func TestDumpEmptyCellUsesPaletteZero(t *testing.T) {
	w := world.New(1, 1)
	var buf bytes.Buffer
	require.NoError(t, Dump(w, &buf, 1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, formatRGB(palette[0]), lines[3])
}

func formatRGB(c [3]int) string {
	return strconv.Itoa(c[0]) + " " + strconv.Itoa(c[1]) + " " + strconv.Itoa(c[2])
}
