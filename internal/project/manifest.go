package project

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// BuildConfig is the [build] section of riptide.toml. Zero values mean
// "not set"; DefaultBuildConfig fills the defaults.
type BuildConfig struct {
	Target         string `toml:"target"`
	Strictness     string `toml:"strictness"`
	EmitOnError    *bool  `toml:"emit_on_error"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Jobs           int    `toml:"jobs"`
	OutDir         string `toml:"out_dir"`
}

// ModuleEntry is one [[modules]] entry: a named module rooted at a
// source file path relative to the project root.
type ModuleEntry struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Manifest is a parsed riptide.toml.
type Manifest struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Build   BuildConfig   `toml:"build"`
	Modules []ModuleEntry `toml:"modules"`
}

// DefaultBuildConfig returns the build settings used when riptide.toml
// does not override them.
func DefaultBuildConfig() BuildConfig {
	emit := true
	return BuildConfig{
		Target:         "esnext",
		Strictness:     "permissive",
		EmitOnError:    &emit,
		MaxDiagnostics: 256,
		Jobs:           runtime.GOMAXPROCS(0),
	}
}

// EmitOnErrorValue resolves the optional emit_on_error key (default true).
func (b BuildConfig) EmitOnErrorValue() bool {
	if b.EmitOnError == nil {
		return true
	}
	return *b.EmitOnError
}

// ValidStrictness reports whether s names a known strictness level.
func ValidStrictness(s string) bool {
	return s == "permissive" || s == "strict"
}

// ValidTarget reports whether s names a known emission target.
func ValidTarget(s string) bool {
	return s == "es5" || s == "es2017" || s == "esnext"
}

// LoadManifest parses riptide.toml at path and applies defaults for
// unset build keys.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(m.Project.Name) == "" {
		return nil, fmt.Errorf("%s: missing [project].name", path)
	}

	defaults := DefaultBuildConfig()
	if !meta.IsDefined("build", "target") || m.Build.Target == "" {
		m.Build.Target = defaults.Target
	}
	if !meta.IsDefined("build", "strictness") || m.Build.Strictness == "" {
		m.Build.Strictness = defaults.Strictness
	}
	if m.Build.EmitOnError == nil {
		m.Build.EmitOnError = defaults.EmitOnError
	}
	if !meta.IsDefined("build", "max_diagnostics") || m.Build.MaxDiagnostics <= 0 {
		m.Build.MaxDiagnostics = defaults.MaxDiagnostics
	}
	if m.Build.Jobs <= 0 {
		m.Build.Jobs = defaults.Jobs
	}

	if !ValidStrictness(m.Build.Strictness) {
		return nil, fmt.Errorf("%s: invalid [build].strictness %q (permissive|strict)", path, m.Build.Strictness)
	}
	if !ValidTarget(m.Build.Target) {
		return nil, fmt.Errorf("%s: invalid [build].target %q (es5|es2017|esnext)", path, m.Build.Target)
	}

	for i, entry := range m.Modules {
		name := strings.TrimSpace(entry.Name)
		if name != "" && !IsValidModuleIdent(name) {
			return nil, fmt.Errorf("%s: invalid module name %q", path, name)
		}
		if strings.TrimSpace(entry.Path) == "" {
			return nil, fmt.Errorf("%s: module entry %d missing path", path, i)
		}
		m.Modules[i].Name = name
	}
	return &m, nil
}
