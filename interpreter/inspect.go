package interpreter

// GlobalsSnapshot returns a copy of the global bindings, builtins included
// (sorted usage is caller-side).
func (i *Interpreter) GlobalsSnapshot() map[string]Value {
	names := i.envs.Names(GlobalEnv)
	out := make(map[string]Value, len(names))
	for _, name := range names {
		out[name], _ = i.envs.Get(GlobalEnv, name)
	}
	return out
}

// FuncNames returns sorted names of globals bound to user functions.
func (i *Interpreter) FuncNames() []string {
	var names []string
	for _, name := range i.envs.Names(GlobalEnv) {
		v, _ := i.envs.Get(GlobalEnv, name)
		if _, ok := v.Fn.(*Function); ok && v.Kind == ValCallable {
			names = append(names, name)
		}
	}
	return names
}

// ScopeCount reports how many scopes the arena currently holds.
func (i *Interpreter) ScopeCount() int { return i.envs.Len() }
