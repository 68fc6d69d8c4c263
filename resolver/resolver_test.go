package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

// TestResolveIdempotentImport verifies that resolving the same module name
// twice yields the cached *ast.Program on the second call and never
// re-reads the file, the "idempotent imports" property of spec §8.
func TestResolveIdempotentImport(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "mathutil.lime")
	src := `fn square(n:int) -> int {
	return n * n;
}
`
	if err := os.WriteFile(modPath, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	r := New([]string{dir})

	prog1, bag1, err := r.Resolve("mathutil")
	if err != nil {
		t.Fatalf("first resolve failed: %s", err)
	}
	if bag1 != nil {
		t.Fatalf("expected no error bag on first resolve, got %+v", bag1.All())
	}
	if len(prog1.Statements) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(prog1.Statements))
	}

	// Remove the backing file: a genuine cache hit must not need it again.
	if err := os.Remove(modPath); err != nil {
		t.Fatal(err)
	}

	prog2, bag2, err := r.Resolve("mathutil")
	if err != nil {
		t.Fatalf("second (cached) resolve failed: %s", err)
	}
	if bag2 != nil {
		t.Fatalf("expected no error bag on cached resolve, got %+v", bag2.All())
	}
	if prog2 != prog1 {
		t.Fatalf("expected the cached resolve to return the same *ast.Program pointer")
	}
}

// TestResolveMissingModule verifies that an unresolvable import name
// reports an error rather than panicking.
func TestResolveMissingModule(t *testing.T) {
	r := New(nil)
	if _, _, err := r.Resolve("doesnotexist"); err == nil {
		t.Fatal("expected an error for an unresolvable module")
	}
}

// TestResolveNormalizesExtension verifies that an import literal with an
// explicit ".lime" suffix resolves to the same cache entry as one without.
func TestResolveNormalizesExtension(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "util.lime")
	if err := os.WriteFile(modPath, []byte("fn noop() -> void {\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := New([]string{dir})
	prog1, _, err := r.Resolve("util.lime")
	if err != nil {
		t.Fatalf("resolve with extension failed: %s", err)
	}
	prog2, _, err := r.Resolve("util")
	if err != nil {
		t.Fatalf("resolve without extension failed: %s", err)
	}
	if prog1 != prog2 {
		t.Fatal("expected both import spellings to hit the same cache entry")
	}
}
