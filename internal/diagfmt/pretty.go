package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"riptide/internal/diag"
	"riptide/internal/source"
)

// Pretty renders diagnostics in a human-readable form. It walks
// bag.Items() in order (callers are expected to bag.Sort() first) and
// prints, per diagnostic:
//
//	<path>:<line>:<col>: <SEV> [<CODE>]: <message>
//	  <source line>
//	  ^~~~
//
// followed by notes and fix titles when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := prettyPrinter{w: w, fs: fs, opts: opts}
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "... and %d more diagnostics not shown\n", dropped)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p *prettyPrinter) diagnostic(d diag.Diagnostic) {
	p.header(d.Severity, d.Code, d.Primary, d.Message)
	p.context(d.Primary)
	if p.opts.ShowNotes {
		for _, note := range d.Notes {
			p.noteHeader(note)
			p.context(note.Span)
		}
	}
	if p.opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(p.w, "  fix: %s\n", fix.Title)
		}
	}
}

func (p *prettyPrinter) header(sev diag.Severity, code diag.Code, sp source.Span, msg string) {
	loc := p.location(sp)
	label := sev.String()
	codeID := code.ID()
	if p.opts.Color {
		label = severityColor(sev).Sprint(label)
		codeID = color.New(color.Faint).Sprint(codeID)
	}
	line := fmt.Sprintf("%s: %s [%s]: %s", loc, label, codeID, msg)
	fmt.Fprintln(p.w, p.truncate(line))
}

func (p *prettyPrinter) noteHeader(note diag.Note) {
	loc := p.location(note.Span)
	label := "note"
	if p.opts.Color {
		label = color.New(color.FgCyan).Sprint(label)
	}
	fmt.Fprintf(p.w, "  %s: %s: %s\n", loc, label, note.Msg)
}

// context prints the first source line the span covers with a caret
// run underneath.
func (p *prettyPrinter) context(sp source.Span) {
	if p.fs == nil || sp == (source.Span{}) || int(sp.File) >= p.fs.Len() {
		return
	}
	file := p.fs.Get(sp.File)
	start, end := p.fs.Resolve(sp)
	text := file.GetLine(start.Line)
	if text == "" && start.Line == 0 {
		return
	}
	display := strings.ReplaceAll(text, "\t", " ")
	fmt.Fprintf(p.w, "  %s\n", p.truncate(display))

	caretStart := int(start.Col) - 1
	caretLen := 1
	if end.Line == start.Line && int(end.Col) > int(start.Col) {
		caretLen = int(end.Col) - int(start.Col)
	} else if end.Line > start.Line {
		// multi-line span underlines to the end of the first line
		if rest := len(display) - caretStart; rest > 0 {
			caretLen = rest
		}
	}
	if caretStart < 0 {
		caretStart = 0
	}
	if caretStart > len(display) {
		caretStart = len(display)
	}
	marker := "^" + strings.Repeat("~", max(caretLen-1, 0))
	if p.opts.Color {
		marker = color.New(color.FgRed, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(p.w, "  %s%s\n", strings.Repeat(" ", caretStart), marker)
}

func (p *prettyPrinter) location(sp source.Span) string {
	if p.fs == nil || int(sp.File) >= p.fs.Len() {
		return fmt.Sprintf("<unknown>:%d", sp.Start)
	}
	file := p.fs.Get(sp.File)
	start, _ := p.fs.Resolve(sp)
	path := file.FormatPath(p.opts.PathMode.formatMode(), p.fs.BaseDir())
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

func (p *prettyPrinter) truncate(line string) string {
	if p.opts.Width <= 0 {
		return line
	}
	if runewidth.StringWidth(line) <= p.opts.Width {
		return line
	}
	if p.opts.Width <= 3 {
		return runewidth.Truncate(line, p.opts.Width, "")
	}
	return runewidth.Truncate(line, p.opts.Width-3, "...")
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
