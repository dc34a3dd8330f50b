package diag

import (
	"riptide/internal/source"
)

// Note attaches secondary context to a diagnostic, e.g. the declaration site
// of a duplicated symbol.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a single text replacement in source coordinates. OldText,
// when set, is the text the span is expected to cover; appliers use it
// to reject edits against stale buffers.
type FixEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix is a suggested correction, data-only so it can be serialised.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is one finding of the pipeline. Severity, code, message and the
// primary span are mandatory; notes and fixes are optional extras.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}
