package emit

import "encoding/json"

// sourceMap is the version-3 format consumed by browsers and bundlers.
type sourceMap struct {
	Version  int      `json:"version"`
	File     string   `json:"file,omitempty"`
	Sources  []string `json:"sources"`
	Names    []string `json:"names"`
	Mappings string   `json:"mappings"`
}

// sourceMap renders the recorded segments as a version-3 map.
func (w *writer) sourceMap(src, outName string) ([]byte, error) {
	return json.Marshal(&sourceMap{
		Version:  3,
		File:     outName,
		Sources:  []string{src},
		Names:    []string{},
		Mappings: encodeMappings(w.segs),
	})
}

const vlqChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// appendVLQ encodes v as base64 VLQ: the value is shifted left one bit
// with the sign in the low bit, then written in little-endian groups of
// five bits with a continuation flag on every group but the last.
func appendVLQ(dst []byte, v int) []byte {
	u := uint32(v) << 1
	if v < 0 {
		u = uint32(-v)<<1 | 1
	}
	for {
		digit := u & 0x1f
		u >>= 5
		if u != 0 {
			digit |= 0x20
		}
		dst = append(dst, vlqChars[digit])
		if u == 0 {
			return dst
		}
	}
}

// encodeMappings renders segments in generation order: generated lines
// separated by semicolons, segments on a line by commas, each segment
// holding generated column, source index, source line and source
// column as deltas from the previous segment.
func encodeMappings(segs []segment) string {
	var out []byte
	line, prevGenCol := 0, 0
	prevSrcLine, prevSrcCol := 0, 0
	lineHasSeg := false
	for _, s := range segs {
		for line < s.genLine {
			out = append(out, ';')
			line++
			prevGenCol = 0
			lineHasSeg = false
		}
		if lineHasSeg {
			out = append(out, ',')
		}
		out = appendVLQ(out, s.genCol-prevGenCol)
		out = appendVLQ(out, 0) // a single source file
		out = appendVLQ(out, s.srcLine-prevSrcLine)
		out = appendVLQ(out, s.srcCol-prevSrcCol)
		prevGenCol = s.genCol
		prevSrcLine = s.srcLine
		prevSrcCol = s.srcCol
		lineHasSeg = true
	}
	return string(out)
}
