package ast

import "riptide/internal/source"

// ImportSpec is one entry of a named import clause. For `a as b` the
// imported name is a and the local name is b; for a plain `a` both
// fields hold the same string and the same span.
type ImportSpec struct {
	Imported     source.StringID
	ImportedSpan source.Span
	Local        source.StringID
	LocalSpan    source.Span
}

// ImportDecl is the payload of an import item.
//
// Exactly one of the clause forms is populated: Specs for
// `import { ... } from "m"`, Namespace for `import * as ns from "m"`,
// neither for a bare `import "m";`.
type ImportDecl struct {
	Specs         []ImportSpec
	Namespace     source.StringID
	NamespaceSpan source.Span
	Module        source.StringID
	ModuleSpan    source.Span
}

// HasNamespace reports whether the declaration binds a namespace name.
func (d *ImportDecl) HasNamespace() bool { return d.Namespace != source.NoStringID }

// IsBare reports whether the declaration binds nothing.
func (d *ImportDecl) IsBare() bool { return len(d.Specs) == 0 && !d.HasNamespace() }

// NewImport allocates an import item.
func (it *Items) NewImport(span source.Span, decl ImportDecl) ItemID {
	payload := PayloadID(it.imports.Allocate(decl))
	return it.new(ItemImport, span, false, payload)
}

// Import returns the payload of an import item.
func (it *Items) Import(id ItemID) (*ImportDecl, bool) {
	item := it.Get(id)
	if item == nil || item.Kind != ItemImport {
		return nil, false
	}
	return it.imports.Get(uint32(item.Payload)), true
}

// ExportSpec is one entry of an `export { ... };` list. For `a as b`
// the local name is a and the exported name is b.
type ExportSpec struct {
	Local        source.StringID
	LocalSpan    source.Span
	Exported     source.StringID
	ExportedSpan source.Span
}

// ExportList is the payload of an export-list item.
type ExportList struct {
	Specs []ExportSpec
}

// NewExport allocates an export-list item.
func (it *Items) NewExport(span source.Span, list ExportList) ItemID {
	payload := PayloadID(it.exports.Allocate(list))
	return it.new(ItemExport, span, false, payload)
}

// Export returns the payload of an export-list item.
func (it *Items) Export(id ItemID) (*ExportList, bool) {
	item := it.Get(id)
	if item == nil || item.Kind != ItemExport {
		return nil, false
	}
	return it.exports.Get(uint32(item.Payload)), true
}
