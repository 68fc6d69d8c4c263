// Package resolver implements lime's local-import resolution: normalizing
// a module name, searching an ordered list of candidate paths, and caching
// parsed modules so re-importing the same name is free (spec §4.6, §8's
// "Idempotent imports" property).
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/limelang/limec/ast"
	"github.com/limelang/limec/diag"
	"github.com/limelang/limec/lexer"
	"github.com/limelang/limec/parser"
)

const moduleExt = ".lime"

// Resolver resolves import module names to parsed *ast.Program values,
// caching by normalized name so a module is only ever read and parsed once.
type Resolver struct {
	searchDirs []string
	cache      map[string]*ast.Program
}

// New returns a Resolver that additionally searches extraDirs, after the
// default candidates, when a name doesn't resolve against
// tests/<name>.lime, ./<name>.lime or <name>.lime.
func New(extraDirs []string) *Resolver {
	return &Resolver{
		searchDirs: extraDirs,
		cache:      make(map[string]*ast.Program),
	}
}

// normalize strips a trailing ".lime" suffix from a raw import literal.
func normalize(name string) string {
	return strings.TrimSuffix(name, moduleExt)
}

// candidates returns the ordered list of file paths to probe for name.
func (r *Resolver) candidates(name string) []string {
	paths := []string{
		filepath.Join("tests", name+moduleExt),
		"./" + name + moduleExt,
		name + moduleExt,
	}
	for _, dir := range r.searchDirs {
		paths = append(paths, filepath.Join(dir, name+moduleExt))
	}
	return paths
}

// Resolve returns the parsed *ast.Program for the module named by the raw
// import literal rawName, lexing and parsing it on first use and serving
// the cached result on every subsequent call for the same normalized name.
func (r *Resolver) Resolve(rawName string) (*ast.Program, *diag.Bag, error) {
	name := normalize(rawName)
	if prog, ok := r.cache[name]; ok {
		return prog, nil, nil
	}

	var src []byte
	var readErr error
	var found string
	for _, path := range r.candidates(name) {
		b, err := os.ReadFile(path)
		if err == nil {
			src, found = b, path
			break
		}
		readErr = err
	}
	if found == "" {
		return nil, nil, fmt.Errorf("could not resolve module %q: tried %s (last error: %v)",
			name, strings.Join(r.candidates(name), ", "), readErr)
	}

	l := lexer.New(string(src))
	p := parser.New(l)
	prog := p.ParseProgram()

	if p.Errors.Len() > 0 {
		bag := &diag.Bag{}
		bag.Add(diag.StageCompile, 0, 0, "module %q reported %d parse error(s)", name, p.Errors.Len())
		bag.Merge(p.Errors)
		return nil, bag, fmt.Errorf("module %q has parse errors", name)
	}

	r.cache[name] = prog
	return prog, nil, nil
}
