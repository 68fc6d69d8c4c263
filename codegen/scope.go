package codegen

import "tinygo.org/x/go-llvm"

// binding pairs a storage location (an alloca slot, a global, or a function
// value) with its LLVM type, the value stored at every Scope entry per
// spec §3's symbol environment.
type binding struct {
	Storage llvm.Value
	Type    llvm.Type
}

// Scope is one link in the lexically scoped symbol environment: a local
// name->binding map plus a pointer to the enclosing scope. The module
// scope is the root (parent == nil); each function body and each
// for-statement introduces a child. Lookup walks outward and returns the
// first hit, exactly per spec §4.3.
type Scope struct {
	name    string
	records map[string]binding
	parent  *Scope
}

// NewScope returns a fresh, empty Scope named name, with the given parent
// (nil for the root/module scope).
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{name: name, records: make(map[string]binding), parent: parent}
}

// Define writes name -> (storage, typ) into s's local map, overwriting any
// prior local entry for the same name (spec §4.3: "overwriting any prior
// entry").
func (s *Scope) Define(name string, storage llvm.Value, typ llvm.Type) {
	s.records[name] = binding{Storage: storage, Type: typ}
}

// Lookup searches s's local map, then recurses into the parent chain,
// returning the first hit.
func (s *Scope) Lookup(name string) (binding, bool) {
	if b, ok := s.records[name]; ok {
		return b, true
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	return binding{}, false
}

// LookupLocal checks only s's own map, used by Let-statement rebind logic
// (spec §4.6: "if bound [...] in the current scope").
func (s *Scope) LookupLocal(name string) (binding, bool) {
	b, ok := s.records[name]
	return b, ok
}
