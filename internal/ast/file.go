package ast

import "riptide/internal/source"

// File is the root node of one parsed source file.
type File struct {
	Span  source.Span
	Items []ItemID
}

// Files stores file nodes.
type Files struct {
	arena Arena[File]
}

// New allocates a file node and returns its id.
func (f *Files) New(span source.Span, items []ItemID) FileID {
	return FileID(f.arena.Allocate(File{Span: span, Items: items}))
}

// Get returns the file node for id, or nil when id is NoFileID.
func (f *Files) Get(id FileID) *File {
	return f.arena.Get(uint32(id))
}

// Len reports the number of stored files.
func (f *Files) Len() int { return f.arena.Len() }
