// Package generator discovers defer-block descriptors declared in a
// package and emits a manifest aggregating them, so a host application
// can register every descriptor in a package with one Registry.Add call
// instead of naming each package-level var by hand.
package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// genSuffix marks a file as generated by this package, the same way the
// teacher marked generated component glue with "_hx.go".
const genSuffix = "_gen.go"

// manifestFilename is the fixed name of the manifest this package writes
// per package directory — one file, not one per descriptor, since
// descriptors are package-level vars rather than generated types.
const manifestFilename = "deferblock_gen.go"

// Options configures the generator.
type Options struct {
	DryRun bool
}

// Generator discovers descriptors and writes their manifest files.
type Generator struct {
	opts Options
	fset *token.FileSet
}

// New creates a new generator.
func New(opts Options) *Generator {
	return &Generator{
		opts: opts,
		fset: token.NewFileSet(),
	}
}

// Generate writes one manifest file per package matched by patterns,
// aggregating every package-level *deferblock.Descriptor var it finds.
func (g *Generator) Generate(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}
	for _, pkg := range packages {
		if err := g.generatePackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}
	return nil
}

// Clean removes manifest files previously written by Generate.
func (g *Generator) Clean(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}
	for _, pkg := range packages {
		if err := g.cleanPackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}
	return nil
}

// findPackages resolves package patterns to directory paths. A "/..."
// pattern expands to every directory under its root containing at least one
// non-test Go file; any other pattern is passed through unchecked.
func (g *Generator) findPackages(patterns []string) ([]string, error) {
	var packages []string

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			packages = append(packages, pattern)
			continue
		}

		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}

		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") || base == "vendor" || base == "testdata" {
				return filepath.SkipDir
			}

			entries, err := os.ReadDir(path)
			if err != nil {
				return nil
			}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".go") && !strings.HasSuffix(entry.Name(), "_test.go") {
					packages = append(packages, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return packages, nil
}

// generatePackage parses pkgPath's non-test, non-generated Go files and
// writes a manifest for every package that declares at least one
// descriptor.
func (g *Generator) generatePackage(pkgPath string) error {
	pkgs, err := parser.ParseDir(g.fset, pkgPath, func(info os.FileInfo) bool {
		name := info.Name()
		return !strings.HasSuffix(name, "_test.go") && !strings.HasSuffix(name, genSuffix)
	}, parser.ParseComments)
	if err != nil {
		return err
	}

	for pkgName, pkg := range pkgs {
		descs := g.findDescriptors(pkg)
		if len(descs) == 0 {
			continue
		}
		if err := g.generateManifest(pkgPath, pkgName, descs); err != nil {
			return err
		}
	}
	return nil
}

// cleanPackage removes manifest files from a package directory.
func (g *Generator) cleanPackage(pkgPath string) error {
	entries, err := os.ReadDir(pkgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() != manifestFilename {
			continue
		}
		path := filepath.Join(pkgPath, entry.Name())
		fmt.Printf("removing %s\n", path)
		if !g.opts.DryRun {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// DescriptorInfo names one discovered descriptor var.
type DescriptorInfo struct {
	SourceFile string
	VarName    string
	Label      string // the name literal passed to deferblock.NewDescriptor
}

// findDescriptors scans every top-level var declaration in pkg for one
// whose initializer is (a possibly method-chained) call rooted at
// deferblock.NewDescriptor, in source order for reproducible manifests.
func (g *Generator) findDescriptors(pkg *ast.Package) []*DescriptorInfo {
	var found []*DescriptorInfo

	filenames := make([]string, 0, len(pkg.Files))
	for name := range pkg.Files {
		filenames = append(filenames, name)
	}
	sort.Strings(filenames)

	for _, filename := range filenames {
		file := pkg.Files[filename]
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.VAR {
				continue
			}
			for _, spec := range genDecl.Specs {
				valueSpec, ok := spec.(*ast.ValueSpec)
				if !ok || len(valueSpec.Names) != 1 || len(valueSpec.Values) != 1 {
					continue
				}
				call := newDescriptorCall(valueSpec.Values[0])
				if call == nil || len(call.Args) == 0 {
					continue
				}
				lit, ok := call.Args[0].(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					continue
				}
				found = append(found, &DescriptorInfo{
					SourceFile: filepath.Base(filename),
					VarName:    valueSpec.Names[0].Name,
					Label:      strings.Trim(lit.Value, `"`),
				})
			}
		}
	}

	return found
}

// newDescriptorCall walks a chain of method calls (desc.OnImmediate(...).
// OnSettled(...)) down to the root call, returning it if that root is
// deferblock.NewDescriptor. Returns nil for any other expression shape.
func newDescriptorCall(expr ast.Expr) *ast.CallExpr {
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return nil
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return nil
	}
	if sel.Sel.Name == "NewDescriptor" {
		if pkgIdent, ok := sel.X.(*ast.Ident); ok && pkgIdent.Name == "deferblock" {
			return call
		}
		return nil
	}
	return newDescriptorCall(sel.X)
}
