package internalcheck

import (
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const (
	modulePath  = "github.com/hsiuhsiu/opencv-go"
	cvPattern   = modulePath + "/pkg/cv/..."
	backendPath = modulePath + "/pkg/cv/internal/backend"
)

// TestOnlyBackendImportsC checks every file, including those excluded by the
// current build tags, so the opencv-tagged sources are covered by a plain
// go test.
func TestOnlyBackendImportsC(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedFiles}

	pkgs, err := packages.Load(cfg, cvPattern)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var findings []string
	sawBackendCgo := false
	fset := token.NewFileSet()

	for _, pkg := range pkgs {
		files := append(append([]string{}, pkg.GoFiles...), pkg.IgnoredFiles...)
		for _, path := range files {
			if !strings.HasSuffix(path, ".go") {
				continue
			}
			file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", path, err)
			}
			for _, imp := range file.Imports {
				p, _ := strconv.Unquote(imp.Path.Value)
				if p != "C" {
					continue
				}
				if pkg.PkgPath == backendPath {
					sawBackendCgo = true
					continue
				}
				findings = append(findings, fset.Position(imp.Pos()).String()+": cgo outside internal/backend")
			}
		}
	}

	if !sawBackendCgo {
		t.Fatalf("no cgo file found in %s; the check is not seeing tagged files", backendPath)
	}
	if len(findings) > 0 {
		t.Fatalf("cgo boundary violation:\n%s", strings.Join(findings, "\n"))
	}
}
