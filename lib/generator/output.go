package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"text/template"
)

// generateManifest writes pkgPath/deferblock_gen.go aggregating descs
// into a Descriptors slice.
func (g *Generator) generateManifest(pkgPath, pkgName string, descs []*DescriptorInfo) error {
	outputFile := filepath.Join(pkgPath, manifestFilename)

	fmt.Printf("generating %s\n", outputFile)
	if g.opts.DryRun {
		return nil
	}

	code, err := g.renderManifest(pkgName, descs)
	if err != nil {
		return fmt.Errorf("render manifest: %w", err)
	}

	formatted, err := format.Source(code)
	if err != nil {
		if writeErr := os.WriteFile(outputFile+".unformatted", code, 0644); writeErr == nil {
			fmt.Printf("  wrote unformatted code to %s.unformatted for debugging\n", outputFile)
		}
		return fmt.Errorf("format source: %w", err)
	}

	return os.WriteFile(outputFile, formatted, 0644)
}

func (g *Generator) renderManifest(pkgName string, descs []*DescriptorInfo) ([]byte, error) {
	tmpl, err := template.New("manifest").Parse(manifestTemplate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Package     string
		Descriptors []*DescriptorInfo
	}{
		Package:     pkgName,
		Descriptors: descs,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const manifestTemplate = `// Code generated by deferblock generate. DO NOT EDIT.

package {{.Package}}

import "github.com/riftlab/deferblock"

// Descriptors lists every defer-block descriptor declared in this
// package, in source order, so a host can register them all at once:
//
//	registry.Add({{.Package}}.Descriptors...)
var Descriptors = []*deferblock.Descriptor{
	{{- range .Descriptors}}
	{{.VarName}}, // {{.Label}} ({{.SourceFile}})
	{{- end}}
}
`
