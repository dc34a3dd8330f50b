package project

import (
	"errors"
	"strings"
	"unicode"

	"riptide/internal/source"
)

// ImportMeta is one import edge of a module: the canonical name of the
// imported module and the span of the specifier for graph diagnostics.
type ImportMeta struct {
	Path string
	Span source.Span
}

// ModuleMeta describes one module of the project: a single source file
// plus its import edges and content hashes.
type ModuleMeta struct {
	Name string // manifest name, or the canonical path when absent
	Path string // canonical module path: "a/b"
	Dir  string // canonical directory part of Path, "" at the root
	File string // filesystem path of the source file

	Span    source.Span // span of the whole file
	Imports []ImportMeta

	ContentHash Digest // hash of the file content (from FileSet)
	ModuleHash  Digest // aggregate hash including dependency hashes
}

// IsValidModuleIdent reports whether name is usable as a module name:
// '/'-separated non-empty ASCII identifier segments.
func IsValidModuleIdent(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if !validIdentSegment(seg) {
			return false
		}
	}
	return true
}

func validIdentSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for i, r := range seg {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var errInvalidModulePath = errors.New("invalid module path")

// NormalizeModulePath canonicalizes a module path (the file's own path
// or an import specifier) to the "a/b" form: the .ts extension and any
// leading "./" are dropped, backslashes become '/', and empty, "." and
// ".." segments are rejected. Resolution against the filesystem is the
// caller's concern; this is a purely lexical identity.
func NormalizeModulePath(path string) (string, error) {
	path = strings.TrimSuffix(path, ".ts")
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimPrefix(path, "./")
	for path != "" && path[0] == '/' {
		path = path[1:]
	}
	if path == "" {
		return "", errInvalidModulePath
	}
	segments := strings.Split(path, "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return "", errInvalidModulePath
		}
	}
	return strings.Join(segments, "/"), nil
}

// CanonicalSpecifier maps an import specifier as written in source to
// the module identity it names. Specifiers that do not canonicalize
// (escapes, empty) return ok=false; the graph reports those as missing
// modules rather than hard errors.
func CanonicalSpecifier(spec string) (string, bool) {
	norm, err := NormalizeModulePath(spec)
	if err != nil {
		return "", false
	}
	return norm, true
}

// DirOf returns the directory part of a canonical module path.
func DirOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return ""
}
