package codegen

import (
	"strings"

	"github.com/limelang/limec/ast"
	"github.com/limelang/limec/diag"
)

// genImport lowers the module named by stmt, per spec §4.6: normalize and
// resolve through the Resolver (which itself caches parsed modules so a
// name is only ever read and parsed once), then — unless this generator has
// already lowered that module's symbols once before — walk its top-level
// statements through the same function/import dispatch Generate uses,
// injecting the resulting bindings into the root scope.
//
// Functions always bind into the module (root) scope regardless of where
// the import statement textually appears, a deliberate simplification of
// spec §4.6's "caller's scope" wording for the case of an import nested
// inside a function body: lime function declarations are only ever legal
// at the top level (spec §9, open question 6), so an imported module's
// functions have nowhere meaningful to live but the module scope either way.
func (g *Generator) genImport(stmt *ast.ImportStatement) {
	prog, subErrors, err := g.resolver.Resolve(stmt.Module)
	if err != nil {
		g.Errors.Add(diag.StageCompile, stmt.Token.Line, stmt.Token.Column,
			"failed to import module %q: %s", stmt.Module, err)
		if subErrors != nil {
			g.Errors.Merge(subErrors)
		}
		return
	}
	key := strings.TrimSuffix(stmt.Module, ".lime")
	if g.loweredImports[key] {
		// Already resolved and lowered once, possibly from the resolver's
		// own parse cache on this second call; either way its symbols are
		// already bound into the root scope.
		return
	}
	g.loweredImports[key] = true

	for _, s := range prog.Statements {
		switch inner := s.(type) {
		case *ast.FunctionStatement:
			g.genFunction(inner)
		case *ast.ImportStatement:
			g.genImport(inner)
		default:
			g.Errors.Add(diag.StageCompile, 0, 0, "unexpected top-level statement %T in module %q", s, stmt.Module)
		}
	}
}
