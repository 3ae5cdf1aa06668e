package interpreter

import "sort"

// EnvID addresses a scope in an Arena. Closures hold an EnvID rather than
// a copy of the scope, so assignments made through one alias are seen by
// every other.
type EnvID int

// GlobalEnv is the root scope. It is created with the arena and never
// released.
const GlobalEnv EnvID = 0

const noParent EnvID = -1

type scope struct {
	values   map[string]Value
	parent   EnvID
	captured bool // referenced by a closure; must outlive its block
	exited   bool // its block or call has finished
}

// Arena stores every live scope. A scope's parent always has a smaller
// index than the scope itself, which keeps the chain acyclic and lets
// finished scopes be popped off the top like a stack.
type Arena struct {
	scopes []scope
}

func NewArena() *Arena {
	return &Arena{
		scopes: []scope{{values: map[string]Value{}, parent: noParent}},
	}
}

// Push creates an empty child scope of parent and returns its handle.
func (a *Arena) Push(parent EnvID) EnvID {
	a.scopes = append(a.scopes, scope{values: map[string]Value{}, parent: parent})
	return EnvID(len(a.scopes) - 1)
}

// Capture pins id so Release never reclaims it.
func (a *Arena) Capture(id EnvID) {
	a.scopes[id].captured = true
}

// Release marks id as finished, then pops finished, uncaptured scopes
// from the top of the arena.
func (a *Arena) Release(id EnvID) {
	if id == GlobalEnv {
		return
	}
	a.scopes[id].exited = true
	for n := len(a.scopes) - 1; n > int(GlobalEnv); n-- {
		top := a.scopes[n]
		if !top.exited || top.captured {
			break
		}
		a.scopes = a.scopes[:n]
	}
}

// Len reports how many scopes are currently held, the globals included.
func (a *Arena) Len() int { return len(a.scopes) }

// Define binds name in id itself, shadowing any outer binding.
func (a *Arena) Define(id EnvID, name string, v Value) {
	a.scopes[id].values[name] = v
}

// Get looks name up in id and then in each enclosing scope.
func (a *Arena) Get(id EnvID, name string) (Value, bool) {
	for cur := id; cur != noParent; cur = a.scopes[cur].parent {
		if v, ok := a.scopes[cur].values[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Assign updates the nearest existing binding of name. It reports false
// when no scope in the chain declares name.
func (a *Arena) Assign(id EnvID, name string, v Value) bool {
	for cur := id; cur != noParent; cur = a.scopes[cur].parent {
		if _, ok := a.scopes[cur].values[name]; ok {
			a.scopes[cur].values[name] = v
			return true
		}
	}
	return false
}

// Names returns the names bound directly in id, sorted.
func (a *Arena) Names(id EnvID) []string {
	vals := a.scopes[id].values
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
