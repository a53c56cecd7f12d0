// Where: internal/architecture/sources_test.go
// What: Shared source scanning for architecture guard tests.
// Why: Parse non-test internal sources once per test with a consistent view of packages.
package architecture

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"
	"testing"
)

const internalImportPrefix = "github.com/poruru-code/fndeploy/internal/"

// sourceFile is one non-test Go file under internal/.
type sourceFile struct {
	rel  string
	pkg  string
	file *ast.File
}

func (s sourceFile) imports() []string {
	out := make([]string, 0, len(s.file.Imports))
	for _, imp := range s.file.Imports {
		out = append(out, strings.Trim(imp.Path.Value, "\""))
	}
	return out
}

func parseInternalSources(t *testing.T, mode parser.Mode) ([]sourceFile, *token.FileSet) {
	t.Helper()
	internalRoot := resolveInternalRoot(t)
	fset := token.NewFileSet()
	var sources []sourceFile

	err := filepath.WalkDir(internalRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(internalRoot, path)
		if err != nil {
			return err
		}
		file, err := parser.ParseFile(fset, path, nil, mode)
		if err != nil {
			return err
		}
		sources = append(sources, sourceFile{
			rel:  filepath.ToSlash(rel),
			pkg:  filepath.ToSlash(filepath.Dir(rel)),
			file: file,
		})
		return nil
	})
	if err != nil {
		t.Fatalf("scan internal packages: %v", err)
	}
	return sources, fset
}

func resolveInternalRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return filepath.Clean(filepath.Join(wd, ".."))
}

// internalPackage strips the module prefix; ok is false for external imports.
func internalPackage(importPath string) (string, bool) {
	if !strings.HasPrefix(importPath, internalImportPrefix) {
		return "", false
	}
	return strings.TrimPrefix(importPath, internalImportPrefix), true
}

func topLayer(pkg string) string {
	return strings.Split(pkg, "/")[0]
}

func importAliases(file *ast.File) map[string]string {
	aliases := map[string]string{}
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		alias := pathpkg.Base(importPath)
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			alias = imp.Name.Name
		}
		aliases[alias] = importPath
	}
	return aliases
}
