package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestVersionCommandPrintsVersion(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := out.String(); got == "" {
		t.Error("expected version output, got empty string")
	}
}

func TestGenerateCommandWritesManifest(t *testing.T) {
	dir := t.TempDir()
	src := `package widgets

import "github.com/riftlab/deferblock"

var widgetDesc = deferblock.NewDescriptor("widget", deferblock.Templates{}, nil)
`
	if err := os.WriteFile(filepath.Join(dir, "widgets.go"), []byte(src), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	root := newRootCmd()
	root.SetArgs([]string{"generate", dir})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "deferblock_gen.go")); err != nil {
		t.Errorf("expected manifest to be written: %v", err)
	}

	root = newRootCmd()
	root.SetArgs([]string{"clean", dir})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "deferblock_gen.go")); !os.IsNotExist(err) {
		t.Error("expected clean to remove the manifest")
	}
}
