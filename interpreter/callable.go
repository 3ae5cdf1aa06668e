package interpreter

import (
	"fmt"

	"quill/ast"
)

// Callable is anything a call expression can invoke.
type Callable interface {
	Name() string
	Arity() int
	Call(i *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user-declared function closed over the scope it was
// declared in.
type Function struct {
	Decl    *ast.FunctionDecl
	Closure EnvID
}

func (f *Function) Name() string   { return f.Decl.Name }
func (f *Function) Arity() int     { return len(f.Decl.Params) }
func (f *Function) String() string { return fmt.Sprintf("<function %s>", f.Decl.Name) }

// Call runs the body in a fresh scope whose parent is the closure, not the
// caller's scope.
func (f *Function) Call(i *Interpreter, args []Value) (Value, error) {
	env := i.envs.Push(f.Closure)
	for idx, name := range f.Decl.Params {
		i.envs.Define(env, name, args[idx])
	}

	res, err := i.execBlock(f.Decl.Body, env)
	if err != nil {
		return Value{}, err
	}
	if res.kind == flowReturn {
		return res.value, nil
	}
	return NoneValue(), nil
}

// BuiltinFunc implements a host-provided callable. Returned errors become
// runtime errors at the call site.
type BuiltinFunc func(args []Value) (Value, error)

type Builtin struct {
	name  string
	arity int
	fn    BuiltinFunc
}

func NewBuiltin(name string, arity int, fn BuiltinFunc) *Builtin {
	return &Builtin{name: name, arity: arity, fn: fn}
}

func (b *Builtin) Name() string   { return b.name }
func (b *Builtin) Arity() int     { return b.arity }
func (b *Builtin) String() string { return fmt.Sprintf("<builtin %s>", b.name) }

func (b *Builtin) Call(_ *Interpreter, args []Value) (Value, error) {
	return b.fn(args)
}
