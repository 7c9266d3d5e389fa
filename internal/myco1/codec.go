// Package myco1 implements the MYCO1 text persistence format (spec.md
// §4.6, §6.1): saving and loading a world.World, preserving tables,
// schemas, payloads, fields, and foreign keys.
package myco1

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"myco/internal/mycoerr"
	"myco/internal/world"
)

const magic = "MYCO1"

// Save writes w to out in the MYCO1 format.
func Save(w *world.World, out io.Writer) error {
	bw := bufio.NewWriter(out)

	fmt.Fprintln(bw, magic)
	fmt.Fprintf(bw, "%d %d\n", w.Width, w.Height)

	fmt.Fprintf(bw, "tables %d\n", len(w.Tables))
	for _, t := range w.Tables {
		fmt.Fprintf(bw, "%d\t%s\n", t.ID, escape(t.Name))
	}

	fmt.Fprintf(bw, "columns %d\n", len(w.Tables))
	for _, t := range w.Tables {
		fmt.Fprintf(bw, "%d\t%d", t.ID, len(t.Columns))
		for _, c := range t.Columns {
			fmt.Fprintf(bw, "\t%s", escape(c))
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintf(bw, "payloads %d\n", len(w.Payloads))
	for _, p := range w.Payloads {
		x, y := p.X, p.Y
		if !p.Placed {
			x, y = -1, -1
		}
		fmt.Fprintf(bw, "%d %d %d %d %d %d %d\n",
			p.ID, p.TableID, x, y, len(p.Fields), len(p.ForeignKeys), len(p.RawData))
		fmt.Fprintln(bw, escape(p.RawData))
		for _, f := range p.Fields {
			fmt.Fprintf(bw, "%s\t%s\n", escape(f.Name), escape(f.Value))
		}
		for _, fk := range p.ForeignKeys {
			fmt.Fprintf(bw, "%d %d %s\n", fk.RefTableID, fk.RefID, escape(fk.Column))
		}
	}

	if err := bw.Flush(); err != nil {
		return mycoerr.Wrap(mycoerr.KindIO, "myco1: write failed", err)
	}
	return nil
}

type lineReader struct {
	sc *bufio.Scanner
}

func newLineReader(in io.Reader) *lineReader {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &lineReader{sc: sc}
}

func (r *lineReader) next() (string, bool) {
	if !r.sc.Scan() {
		return "", false
	}
	return r.sc.Text(), true
}

// Load reads a MYCO1 file from in and rebuilds a world.World, including
// its cell occupancy and positional indexes from the authoritative
// (x,y,placed) state recorded per payload. Unknown tokens between the
// tables and payloads sections (the columns block in particular) are
// tolerated, and a raw_len mismatch never fails the load.
func Load(in io.Reader) (*world.World, error) {
	r := newLineReader(in)

	line, ok := r.next()
	if !ok || strings.TrimSpace(line) != magic {
		return nil, mycoerr.New(mycoerr.KindParse, "myco1: missing MYCO1 header")
	}

	line, ok = r.next()
	if !ok {
		return nil, mycoerr.New(mycoerr.KindParse, "myco1: missing dimensions line")
	}
	var width, height int
	if _, err := fmt.Sscanf(line, "%d %d", &width, &height); err != nil {
		return nil, mycoerr.Wrap(mycoerr.KindParse, "myco1: invalid dimensions line", err)
	}
	w := world.New(width, height)

	line, ok = r.next()
	if !ok || !strings.HasPrefix(line, "tables ") {
		return nil, mycoerr.New(mycoerr.KindParse, "myco1: missing tables section")
	}
	ntables := 0
	fmt.Sscanf(line, "tables %d", &ntables)
	for i := 0; i < ntables; i++ {
		l, ok := r.next()
		if !ok {
			break
		}
		parts := strings.SplitN(l, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		w.AddTable(unescape(parts[1]))
	}

	line, ok = r.next()
	if !ok {
		return w, nil
	}
	if strings.HasPrefix(line, "columns ") {
		ncols := 0
		fmt.Sscanf(line, "columns %d", &ncols)
		for i := 0; i < ncols; i++ {
			l, ok := r.next()
			if !ok {
				break
			}
			loadColumnsLine(w, l)
		}
		line, ok = r.next()
		if !ok {
			return w, nil
		}
	}

	for !strings.HasPrefix(line, "payloads ") {
		l, ok := r.next()
		if !ok {
			w.RebuildIndexes()
			return w, nil
		}
		line = l
	}

	npayloads := 0
	fmt.Sscanf(line, "payloads %d", &npayloads)
	for i := 0; i < npayloads; i++ {
		if !loadPayload(r, w) {
			break
		}
	}

	w.RebuildIndexes()
	return w, nil
}

func loadColumnsLine(w *world.World, l string) {
	parts := strings.Split(l, "\t")
	if len(parts) < 2 {
		return
	}
	tableID, err := strconv.Atoi(parts[0])
	if err != nil {
		return
	}
	count, _ := strconv.Atoi(parts[1])
	cols := make([]string, 0, count)
	for j := 0; j < count && 2+j < len(parts); j++ {
		cols = append(cols, unescape(parts[2+j]))
	}
	if t := w.Table(tableID); t != nil {
		t.Columns = cols
	}
}

func loadPayload(r *lineReader, w *world.World) bool {
	header, ok := r.next()
	if !ok {
		return false
	}
	var id, tableID, x, y, nf, nfk, rawLen int
	fmt.Sscanf(header, "%d %d %d %d %d %d %d", &id, &tableID, &x, &y, &nf, &nfk, &rawLen)

	rawLine, ok := r.next()
	if !ok {
		return false
	}
	raw := unescape(rawLine)

	fields := make([]world.Field, 0, nf)
	for j := 0; j < nf; j++ {
		l, ok := r.next()
		if !ok {
			break
		}
		parts := strings.SplitN(l, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		fields = append(fields, world.Field{Name: unescape(parts[0]), Value: unescape(parts[1])})
	}

	fks := make([]world.ForeignKey, 0, nfk)
	for j := 0; j < nfk; j++ {
		l, ok := r.next()
		if !ok {
			break
		}
		parts := strings.SplitN(l, " ", 3)
		if len(parts) != 3 {
			continue
		}
		refTable, err1 := strconv.Atoi(parts[0])
		refID, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		fks = append(fks, world.ForeignKey{RefTableID: refTable, RefID: refID, Column: unescape(parts[2])})
	}

	w.AddPayload(&world.Payload{
		ID:          id,
		TableID:     tableID,
		Fields:      fields,
		ForeignKeys: fks,
		RawData:     raw,
		X:           x,
		Y:           y,
		Placed:      x >= 0 && y >= 0,
	})
	return true
}
