package generator

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func parsePackage(t *testing.T, filename, code string) *ast.Package {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, code, 0)
	if err != nil {
		t.Fatalf("parse %s: %v", filename, err)
	}
	return &ast.Package{Name: file.Name.Name, Files: map[string]*ast.File{filename: file}}
}

func TestFindDescriptorsSimpleVar(t *testing.T) {
	pkg := parsePackage(t, "widgets.go", `
package widgets

import "github.com/riftlab/deferblock"

var widgetDesc = deferblock.NewDescriptor("widget", deferblock.Templates{}, nil)
`)

	g := New(Options{})
	descs := g.findDescriptors(pkg)
	if len(descs) != 1 {
		t.Fatalf("len(descs) = %d, want 1", len(descs))
	}
	if descs[0].VarName != "widgetDesc" || descs[0].Label != "widget" {
		t.Errorf("descs[0] = %+v, want {VarName: widgetDesc, Label: widget}", descs[0])
	}
}

func TestFindDescriptorsMethodChain(t *testing.T) {
	pkg := parsePackage(t, "widgets.go", `
package widgets

import "github.com/riftlab/deferblock"

var dashboardDesc = deferblock.NewDescriptor("dashboard", deferblock.Templates{}, nil).
	OnImmediate(deferblock.Main).
	OnIdle(deferblock.Prefetch).
	OnSettled(nil)
`)

	g := New(Options{})
	descs := g.findDescriptors(pkg)
	if len(descs) != 1 {
		t.Fatalf("len(descs) = %d, want 1", len(descs))
	}
	if descs[0].VarName != "dashboardDesc" || descs[0].Label != "dashboard" {
		t.Errorf("descs[0] = %+v, want {VarName: dashboardDesc, Label: dashboard}", descs[0])
	}
}

func TestFindDescriptorsIgnoresUnrelatedVars(t *testing.T) {
	pkg := parsePackage(t, "widgets.go", `
package widgets

var count = 5
var name = computeName()

func computeName() string { return "x" }
`)

	g := New(Options{})
	descs := g.findDescriptors(pkg)
	if len(descs) != 0 {
		t.Fatalf("len(descs) = %d, want 0, got %+v", len(descs), descs)
	}
}

func TestFindDescriptorsMultipleInOneFile(t *testing.T) {
	pkg := parsePackage(t, "widgets.go", `
package widgets

import "github.com/riftlab/deferblock"

var firstDesc = deferblock.NewDescriptor("first", deferblock.Templates{}, nil)
var secondDesc = deferblock.NewDescriptor("second", deferblock.Templates{}, nil)
`)

	g := New(Options{})
	descs := g.findDescriptors(pkg)
	if len(descs) != 2 {
		t.Fatalf("len(descs) = %d, want 2", len(descs))
	}
	if descs[0].Label != "first" || descs[1].Label != "second" {
		t.Errorf("descs = %+v, want source order [first second]", descs)
	}
}

func TestGenerateWritesManifest(t *testing.T) {
	dir := t.TempDir()
	src := `package widgets

import "github.com/riftlab/deferblock"

var widgetDesc = deferblock.NewDescriptor("widget", deferblock.Templates{}, nil)
`
	if err := os.WriteFile(filepath.Join(dir, "widgets.go"), []byte(src), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	g := New(Options{})
	if err := g.Generate(dir); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, manifestFilename))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if !strings.Contains(string(out), "widgetDesc") {
		t.Errorf("manifest = %s, want to contain widgetDesc", out)
	}
	if !strings.Contains(string(out), "var Descriptors") {
		t.Errorf("manifest = %s, want a Descriptors var", out)
	}
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	src := `package widgets

import "github.com/riftlab/deferblock"

var widgetDesc = deferblock.NewDescriptor("widget", deferblock.Templates{}, nil)
`
	if err := os.WriteFile(filepath.Join(dir, "widgets.go"), []byte(src), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	g := New(Options{DryRun: true})
	if err := g.Generate(dir); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, manifestFilename)); !os.IsNotExist(err) {
		t.Error("expected no manifest file under DryRun")
	}
}

func TestCleanRemovesManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, manifestFilename)
	if err := os.WriteFile(path, []byte("package widgets\n"), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "widgets.go"), []byte("package widgets\n"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	g := New(Options{})
	if err := g.Clean(dir); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected manifest file to be removed")
	}
}

func TestCleanOnMissingDirectoryIsNotAnError(t *testing.T) {
	g := New(Options{})
	if err := g.Clean(filepath.Join(t.TempDir(), "does-not-exist")); err != nil {
		t.Errorf("Clean() on a missing directory should be a no-op, got error: %v", err)
	}
}
