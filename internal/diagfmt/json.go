package diagfmt

import (
	"encoding/json"
	"io"

	"riptide/internal/diag"
	"riptide/internal/source"
)

// LocationJSON is a resolved source position for machine consumers.
type LocationJSON struct {
	File      string `json:"file"`
	Offset    uint32 `json:"offset"`
	EndOffset uint32 `json:"end_offset"`
	Line      uint32 `json:"line,omitempty"`
	Col       uint32 `json:"col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

type FixEditJSON struct {
	Location LocationJSON `json:"location"`
	NewText  string       `json:"new_text"`
}

type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Category string        `json:"category"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
	Fixes    []FixJSON     `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the top-level payload of --format=json.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Dropped     int              `json:"dropped,omitempty"`
}

// BuildDiagnosticsOutput converts a bag into the JSON payload without
// writing it, so callers can embed it into larger documents.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag == nil {
		return out
	}
	for _, d := range bag.Items() {
		if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
			out.Dropped++
			continue
		}
		switch d.Severity {
		case diag.SevError:
			out.Errors++
		case diag.SevWarning:
			out.Warnings++
		}
		jd := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Category: d.Code.Category(),
			Message:  d.Message,
			Location: makeLocation(fs, d.Primary, opts),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				jd.Notes = append(jd.Notes, NoteJSON{
					Message:  n.Msg,
					Location: makeLocation(fs, n.Span, opts),
				})
			}
		}
		if opts.IncludeFixes {
			for _, f := range d.Fixes {
				jf := FixJSON{Title: f.Title}
				for _, e := range f.Edits {
					loc := makeLocation(fs, e.Span, opts)
					if loc == nil {
						continue
					}
					jf.Edits = append(jf.Edits, FixEditJSON{Location: *loc, NewText: e.NewText})
				}
				jd.Fixes = append(jd.Fixes, jf)
			}
		}
		out.Diagnostics = append(out.Diagnostics, jd)
	}
	out.Dropped += bag.Dropped()
	return out
}

// JSON writes the diagnostics payload as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out := BuildDiagnosticsOutput(bag, fs, opts)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func makeLocation(fs *source.FileSet, sp source.Span, opts JSONOpts) *LocationJSON {
	if fs == nil || sp == (source.Span{}) || int(sp.File) >= fs.Len() {
		return nil
	}
	file := fs.Get(sp.File)
	loc := &LocationJSON{
		File:      file.FormatPath(opts.PathMode.formatMode(), fs.BaseDir()),
		Offset:    sp.Start,
		EndOffset: sp.End,
	}
	if opts.IncludePositions {
		start, end := fs.Resolve(sp)
		loc.Line, loc.Col = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}
