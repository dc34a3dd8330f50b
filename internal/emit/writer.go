package emit

import "riptide/internal/source"

// writer accumulates the generated JavaScript and tracks the output
// position so marks can pair it with an original position.
type writer struct {
	sf      *source.File
	buf     []byte
	line    int // 0-based generated line
	col     int // 0-based generated column, in bytes
	mapping bool
	segs    []segment
}

// segment pairs a generated position with the original position it was
// emitted from. All fields are 0-based.
type segment struct {
	genLine, genCol int
	srcLine, srcCol int
}

func newWriter(sf *source.File, mapping bool) *writer {
	return &writer{
		sf:      sf,
		buf:     make([]byte, 0, len(sf.Content)),
		mapping: mapping,
	}
}

func (w *writer) bytes() []byte { return w.buf }

// mark records that the next bytes correspond to the source at off.
// Repeated marks at one generated position keep the first.
func (w *writer) mark(off uint32) {
	if !w.mapping {
		return
	}
	if n := len(w.segs); n > 0 {
		if last := &w.segs[n-1]; last.genLine == w.line && last.genCol == w.col {
			return
		}
	}
	lc := w.sf.LineColAt(off)
	w.segs = append(w.segs, segment{
		genLine: w.line,
		genCol:  w.col,
		srcLine: int(lc.Line) - 1,
		srcCol:  int(lc.Col) - 1,
	})
}

func (w *writer) track(chunk []byte) {
	for _, c := range chunk {
		if c == '\n' {
			w.line++
			w.col = 0
		} else {
			w.col++
		}
	}
}

func (w *writer) writeString(s string) {
	if s == "" {
		return
	}
	n := len(w.buf)
	w.buf = append(w.buf, s...)
	w.track(w.buf[n:])
}

func (w *writer) writeByte(c byte) {
	w.buf = append(w.buf, c)
	if c == '\n' {
		w.line++
		w.col = 0
	} else {
		w.col++
	}
}

// copyRange copies the source bytes [start, end) into the output.
func (w *writer) copyRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(w.sf.Content) {
		end = len(w.sf.Content)
	}
	if start >= end {
		return
	}
	chunk := w.sf.Content[start:end]
	w.buf = append(w.buf, chunk...)
	w.track(chunk)
}

// copySpan copies the bytes a span covers.
func (w *writer) copySpan(sp source.Span) {
	if sp.Empty() || sp.File != w.sf.ID {
		return
	}
	w.copyRange(int(sp.Start), int(sp.End))
}
