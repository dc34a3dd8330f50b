// Package ast defines the arena-backed syntax tree produced by the
// parser and consumed by the binder, checker and emitter.
//
// Nodes are stored in append-only arenas and referenced by typed
// 1-based IDs, so a whole file parses into a handful of flat slices
// with no per-node allocation. Each node kind keeps its fields in a
// per-kind payload arena; the header (kind, span, payload id) stays
// uniform across kinds.
package ast

import "riptide/internal/source"

// Hints sizes the arenas up front. Zero values are fine; arenas grow
// on demand.
type Hints struct {
	Files int
	Items int
	Stmts int
	Exprs int
	Types int
}

// DefaultHints suits a typical single source file.
func DefaultHints() Hints {
	return Hints{Files: 1, Items: 16, Stmts: 128, Exprs: 512, Types: 64}
}

// Builder aggregates every arena for one parse. All node constructors
// hang off its component aggregates; identifiers and literal texts are
// interned through StringsInterner.
type Builder struct {
	Files Files
	Items Items
	Stmts Stmts
	Exprs Exprs
	Types Types
	Funcs Funcs

	StringsInterner *source.Interner
}

// NewBuilder creates a builder with pre-sized arenas. A nil strings
// interner gets replaced by a fresh one.
func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if strings == nil {
		strings = source.NewInterner()
	}
	b := &Builder{StringsInterner: strings}
	b.Files.arena.Reserve(hints.Files)
	b.Items.arena.Reserve(hints.Items)
	b.Stmts.arena.Reserve(hints.Stmts)
	b.Exprs.arena.Reserve(hints.Exprs)
	b.Types.arena.Reserve(hints.Types)
	return b
}

// Intern is a shorthand for interning through the builder.
func (b *Builder) Intern(s string) source.StringID {
	return b.StringsInterner.Intern(s)
}

// Text resolves an interned string, returning "" for NoStringID.
func (b *Builder) Text(id source.StringID) string {
	if id == source.NoStringID {
		return ""
	}
	return b.StringsInterner.MustLookup(id)
}
