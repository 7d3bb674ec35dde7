package internalcheck

import (
	"fmt"
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

func loadPublic(t *testing.T, mode packages.LoadMode) []*packages.Package {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{Mode: mode}, cvPattern)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	var public []*packages.Package
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			t.Fatalf("%s: %v", pkg.PkgPath, pkg.Errors)
		}
		if strings.Contains(pkg.PkgPath, "/internal") {
			continue
		}
		public = append(public, pkg)
	}
	if len(public) == 0 {
		t.Fatal("no public packages loaded")
	}
	return public
}

func TestNoUnsafePointerInPublicAPI(t *testing.T) {
	pkgs := loadPublic(t, packages.NeedName|packages.NeedTypes)

	var findings []string
	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			if !obj.Exported() {
				continue
			}
			where := pkg.PkgPath + "." + name
			if named, ok := obj.Type().(*types.Named); ok && !isAlias(obj) {
				if hasUnsafe(named.Underlying(), map[types.Type]bool{}) {
					findings = append(findings, where)
				}
				for i := 0; i < named.NumMethods(); i++ {
					m := named.Method(i)
					if m.Exported() && hasUnsafe(m.Type(), map[types.Type]bool{}) {
						findings = append(findings, fmt.Sprintf("%s.%s", where, m.Name()))
					}
				}
				continue
			}
			if hasUnsafe(obj.Type(), map[types.Type]bool{}) {
				findings = append(findings, where)
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("unsafe.Pointer in public API:\n%s", strings.Join(findings, "\n"))
	}
}

func isAlias(obj types.Object) bool {
	tn, ok := obj.(*types.TypeName)
	return ok && tn.IsAlias()
}

// hasUnsafe walks the exported surface of typ. Named types from other
// packages are checked where they are declared.
func hasUnsafe(typ types.Type, seen map[types.Type]bool) bool {
	if seen[typ] {
		return false
	}
	seen[typ] = true

	switch tt := typ.(type) {
	case *types.Basic:
		return tt.Kind() == types.UnsafePointer
	case *types.Pointer:
		return hasUnsafe(tt.Elem(), seen)
	case *types.Slice:
		return hasUnsafe(tt.Elem(), seen)
	case *types.Array:
		return hasUnsafe(tt.Elem(), seen)
	case *types.Map:
		return hasUnsafe(tt.Key(), seen) || hasUnsafe(tt.Elem(), seen)
	case *types.Chan:
		return hasUnsafe(tt.Elem(), seen)
	case *types.Signature:
		return hasUnsafe(tt.Params(), seen) || hasUnsafe(tt.Results(), seen)
	case *types.Tuple:
		for i := 0; i < tt.Len(); i++ {
			if hasUnsafe(tt.At(i).Type(), seen) {
				return true
			}
		}
	case *types.Struct:
		for i := 0; i < tt.NumFields(); i++ {
			if f := tt.Field(i); f.Exported() && hasUnsafe(f.Type(), seen) {
				return true
			}
		}
	case *types.Interface:
		for i := 0; i < tt.NumMethods(); i++ {
			if hasUnsafe(tt.Method(i).Type(), seen) {
				return true
			}
		}
	}
	return false
}
