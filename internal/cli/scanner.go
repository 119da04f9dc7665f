package cli

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/paramkit/pkg/annotations"
	"github.com/toyz/paramkit/pkg/params"
)

// RawAnnotation is an unparsed //param:: comment and where it was found
type RawAnnotation struct {
	Text     string
	Location annotations.SourceLocation
}

// AnnotatedMethod is a method whose doc comment carries //param:: lines
type AnnotatedMethod struct {
	Key         params.MethodKey
	ParamNames  []string
	ParamTypes  []params.TypeRef
	Annotations []RawAnnotation
}

// Stray is a //param:: comment attached to something that is not a method
type Stray struct {
	Name     string
	Location annotations.SourceLocation
}

// ScanResult holds everything found in the loaded packages
type ScanResult struct {
	Packages []string
	Methods  []AnnotatedMethod
	Strays   []Stray
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo

// PackageScanner loads packages with go/packages and collects annotated methods
type PackageScanner struct {
	dir string
}

// NewPackageScanner creates a scanner resolving patterns relative to dir
func NewPackageScanner(dir string) *PackageScanner {
	return &PackageScanner{dir: dir}
}

// Scan loads the packages matching patterns. Package load errors are returned
// joined into a single error after the scan so one broken package does not
// hide the rest.
func (s *PackageScanner) Scan(patterns []string) (*ScanResult, error) {
	cfg := &packages.Config{Mode: loadMode, Dir: s.dir, Tests: false}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	result := &ScanResult{}
	var loadErrs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e)
		}
		if pkg.TypesInfo == nil {
			continue
		}
		result.Packages = append(result.Packages, pkg.PkgPath)
		for _, file := range pkg.Syntax {
			s.scanFile(pkg, file, result)
		}
	}

	sort.Slice(result.Methods, func(i, j int) bool {
		return result.Methods[i].Key.String() < result.Methods[j].Key.String()
	})

	if len(loadErrs) > 0 {
		return result, &LoadError{Errors: loadErrs}
	}
	return result, nil
}

func (s *PackageScanner) scanFile(pkg *packages.Package, file *ast.File, result *ScanResult) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			raw := collect(pkg.Fset, d.Doc)
			if len(raw) == 0 {
				continue
			}
			if d.Recv == nil || len(d.Recv.List) == 0 {
				result.Strays = append(result.Strays, Stray{Name: d.Name.Name, Location: raw[0].Location})
				continue
			}
			fn, ok := pkg.TypesInfo.Defs[d.Name].(*types.Func)
			if !ok {
				continue
			}
			sig := fn.Type().(*types.Signature)
			owner := ownerName(sig.Recv().Type())
			result.Methods = append(result.Methods, newMethod(pkg, owner, d.Name.Name, sig, raw))

		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				iface, ok := ts.Type.(*ast.InterfaceType)
				if !ok {
					continue
				}
				s.scanInterface(pkg, ts, iface, result)
			}
		}
	}
}

// scanInterface collects annotated methods declared on an interface type
func (s *PackageScanner) scanInterface(pkg *packages.Package, ts *ast.TypeSpec, iface *ast.InterfaceType, result *ScanResult) {
	owner := pkg.PkgPath + "." + ts.Name.Name
	for _, field := range iface.Methods.List {
		raw := collect(pkg.Fset, field.Doc)
		if len(raw) == 0 || len(field.Names) == 0 {
			continue
		}
		for _, name := range field.Names {
			fn, ok := pkg.TypesInfo.Defs[name].(*types.Func)
			if !ok {
				continue
			}
			result.Methods = append(result.Methods, newMethod(pkg, owner, name.Name, fn.Type().(*types.Signature), raw))
		}
	}
}

func newMethod(pkg *packages.Package, owner, name string, sig *types.Signature, raw []RawAnnotation) AnnotatedMethod {
	m := AnnotatedMethod{
		Key:         params.MethodKey{Owner: owner, Method: name},
		ParamNames:  make([]string, 0, sig.Params().Len()),
		ParamTypes:  make([]params.TypeRef, 0, sig.Params().Len()),
		Annotations: raw,
	}
	for i := 0; i < sig.Params().Len(); i++ {
		v := sig.Params().At(i)
		m.ParamNames = append(m.ParamNames, v.Name())
		m.ParamTypes = append(m.ParamTypes, params.NamedType(typeString(v.Type())))
	}
	return m
}

// typeString prints types the way reflect.Type.String does, qualified by
// package name rather than import path
func typeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Name() })
}

// ownerName returns "<pkgpath>.<Type>" for a receiver, pointer stripped
func ownerName(t types.Type) string {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return t.String()
	}
	obj := named.Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func collect(fset *token.FileSet, doc *ast.CommentGroup) []RawAnnotation {
	if doc == nil {
		return nil
	}
	var raw []RawAnnotation
	for _, c := range doc.List {
		if !annotations.IsAnnotation(c.Text) {
			continue
		}
		pos := fset.Position(c.Pos())
		raw = append(raw, RawAnnotation{
			Text: c.Text,
			Location: annotations.SourceLocation{
				File:   pos.Filename,
				Line:   pos.Line,
				Column: pos.Column,
			},
		})
	}
	return raw
}

// LoadError collects per-package load and type-check errors
type LoadError struct {
	Errors []error
}

func (e *LoadError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more package errors)", e.Errors[0], len(e.Errors)-1)
}

func (e *LoadError) Unwrap() []error {
	return e.Errors
}
