package fix

import (
	"riptide/internal/diag"
	"riptide/internal/source"
)

// InsertText builds a fix inserting text at a zero-width position.
func InsertText(title string, file source.FileID, at uint32, text string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{
			Span:    source.Span{File: file, Start: at, End: at},
			NewText: text,
		}},
	}
}

// ReplaceSpan builds a fix replacing the text covered by span. The
// expect guard, when non-empty, must match the current content.
func ReplaceSpan(title string, span source.Span, expect, text string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{
			Span:    span,
			NewText: text,
			OldText: expect,
		}},
	}
}

// DeleteSpan builds a fix removing the text covered by span.
func DeleteSpan(title string, span source.Span, expect string) diag.Fix {
	return ReplaceSpan(title, span, expect, "")
}

// WrapWith surrounds span with prefix and suffix insertions.
func WrapWith(title string, span source.Span, prefix, suffix string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{
			{
				Span:    source.Span{File: span.File, Start: span.Start, End: span.Start},
				NewText: prefix,
			},
			{
				Span:    source.Span{File: span.File, Start: span.End, End: span.End},
				NewText: suffix,
			},
		},
	}
}
