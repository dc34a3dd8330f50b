package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "riptide.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeManifest(t, `
[project]
name = "demo"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Project.Name != "demo" {
		t.Errorf("name = %q", m.Project.Name)
	}
	if m.Build.Target != "esnext" {
		t.Errorf("target = %q, want esnext", m.Build.Target)
	}
	if m.Build.Strictness != "permissive" {
		t.Errorf("strictness = %q, want permissive", m.Build.Strictness)
	}
	if !m.Build.EmitOnErrorValue() {
		t.Error("emit_on_error should default to true")
	}
	if m.Build.MaxDiagnostics != 256 {
		t.Errorf("max_diagnostics = %d, want 256", m.Build.MaxDiagnostics)
	}
	if m.Build.Jobs <= 0 {
		t.Errorf("jobs = %d, want > 0", m.Build.Jobs)
	}
}

func TestLoadManifestFull(t *testing.T) {
	path := writeManifest(t, `
[project]
name = "demo"

[build]
target = "es5"
strictness = "strict"
emit_on_error = false
max_diagnostics = 32
jobs = 2
out_dir = "dist"

[[modules]]
name = "util"
path = "src/util.ts"
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Build.Target != "es5" || m.Build.Strictness != "strict" {
		t.Errorf("build = %+v", m.Build)
	}
	if m.Build.EmitOnErrorValue() {
		t.Error("emit_on_error = true, want false")
	}
	if m.Build.MaxDiagnostics != 32 || m.Build.Jobs != 2 || m.Build.OutDir != "dist" {
		t.Errorf("build = %+v", m.Build)
	}
	if len(m.Modules) != 1 || m.Modules[0].Name != "util" || m.Modules[0].Path != "src/util.ts" {
		t.Errorf("modules = %+v", m.Modules)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing project name", content: `[build]` + "\n" + `target = "es5"`},
		{name: "bad strictness", content: "[project]\nname = \"x\"\n[build]\nstrictness = \"pedantic\""},
		{name: "bad target", content: "[project]\nname = \"x\"\n[build]\ntarget = \"es3\""},
		{name: "bad module name", content: "[project]\nname = \"x\"\n[[modules]]\nname = \"1bad\"\npath = \"a.ts\""},
		{name: "module without path", content: "[project]\nname = \"x\"\n[[modules]]\nname = \"ok\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)
			if _, err := LoadManifest(path); err == nil {
				t.Error("LoadManifest succeeded, want error")
			}
		})
	}
}
