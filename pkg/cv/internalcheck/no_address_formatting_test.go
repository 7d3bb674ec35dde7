package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

func TestNoAddressFormatting(t *testing.T) {
	pkgs := loadPublic(t, packages.NeedSyntax|packages.NeedTypes|packages.NeedTypesInfo|packages.NeedFiles|packages.NeedName)

	var findings []string

	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			fset := pkg.Fset
			ast.Inspect(file, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}

				selector, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}

				obj := pkg.TypesInfo.Uses[selector.Sel]
				if obj == nil || obj.Pkg() == nil {
					return true
				}

				formatIdx, ok := formatIndex(obj.Pkg().Path(), obj.Name())
				if !ok || len(call.Args) <= formatIdx {
					return true
				}

				lit, ok := call.Args[formatIdx].(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					return true
				}

				value, err := strconv.Unquote(lit.Value)
				if err != nil {
					return true
				}

				if containsAddressVerb(value) {
					pos := fset.Position(lit.Pos())
					findings = append(findings, fmt.Sprintf("%s: avoid %%p and %%x, they print native addresses", pos))
				}

				return true
			})
		}
	}

	if len(findings) > 0 {
		t.Fatalf("address formatting policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func formatIndex(pkgPath, name string) (int, bool) {
	switch pkgPath {
	case "fmt":
		switch name {
		case "Errorf", "Printf", "Sprintf":
			return 0, true
		case "Fprintf":
			return 1, true
		}
	case "log":
		switch name {
		case "Printf", "Fatalf", "Panicf":
			return 0, true
		}
	}
	return 0, false
}

func containsAddressVerb(s string) bool {
	for _, verb := range []string{"%x", "%X", "%p", "%#x", "%#p"} {
		if strings.Contains(s, verb) {
			return true
		}
	}
	return false
}

func TestContainsAddressVerb(t *testing.T) {
	for s, want := range map[string]bool{
		"core: invalid size %dx%d": false,
		"handle %p":                true,
		"addr=%#x":                 true,
		"100%% done":               false,
	} {
		if got := containsAddressVerb(s); got != want {
			t.Errorf("containsAddressVerb(%q) = %v, want %v", s, got, want)
		}
	}
}
