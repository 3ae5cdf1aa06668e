package interpreter

import (
	"fmt"
	"io"
	"os"

	"quill/ast"
)

// DefaultMaxCallDepth bounds nested user function calls.
const DefaultMaxCallDepth = 1024

type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
)

// flow is what executing a statement produces besides an error: either
// fall through to the next statement or unwind to the enclosing call.
type flow struct {
	kind  flowKind
	value Value
}

var normal = flow{kind: flowNormal}

type Interpreter struct {
	envs *Arena
	env  EnvID

	out io.Writer

	filename string
	lines    []string

	callStack []string

	divisionScale int32
	maxDepth      int
}

type Option func(*Interpreter)

// WithOutput sends print output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

func WithDivisionScale(scale int) Option {
	return func(i *Interpreter) {
		if scale >= 0 {
			i.divisionScale = int32(scale)
		}
	}
}

func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxDepth = depth
		}
	}
}

func NewWithSource(filename string, source string, opts ...Option) *Interpreter {
	i := &Interpreter{
		envs:          NewArena(),
		env:           GlobalEnv,
		out:           os.Stdout,
		filename:      filename,
		lines:         splitLinesPreserve(source),
		callStack:     []string{},
		divisionScale: DefaultDivisionScale,
		maxDepth:      DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func New(opts ...Option) *Interpreter { return NewWithSource("", "", opts...) }

// Define binds name in the global scope.
func (i *Interpreter) Define(name string, v Value) {
	i.envs.Define(GlobalEnv, name, v)
}

// DefineBuiltin registers a host function in the global scope.
func (i *Interpreter) DefineBuiltin(name string, arity int, fn BuiltinFunc) {
	i.Define(name, CallableValue(NewBuiltin(name, arity, fn)))
}

// Run executes a program against the global scope. The first runtime
// error stops execution and is returned as a *RuntimeError; globals
// defined before it remain.
func (i *Interpreter) Run(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if _, err := i.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execStmt(s ast.Stmt) (flow, error) {
	switch stmt := s.(type) {
	case *ast.ExprStmt:
		_, err := i.evalExpr(stmt.Expr)
		return normal, err

	case *ast.PrintStmt:
		val, err := i.evalExpr(stmt.Value)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(i.out, val.String())
		return normal, nil

	case *ast.VarStmt:
		val := NoneValue()
		if stmt.Init != nil {
			v, err := i.evalExpr(stmt.Init)
			if err != nil {
				return normal, err
			}
			val = v
		}
		i.envs.Define(i.env, stmt.Name, val)
		return normal, nil

	case *ast.BlockStmt:
		return i.execBlock(stmt.Stmts, i.envs.Push(i.env))

	case *ast.IfStmt:
		cond, err := i.evalExpr(stmt.Condition)
		if err != nil {
			return normal, err
		}
		if cond.Truthy() {
			return i.execStmt(stmt.Then)
		}
		if stmt.Else != nil {
			return i.execStmt(stmt.Else)
		}
		return normal, nil

	case *ast.WhileStmt:
		for {
			cond, err := i.evalExpr(stmt.Condition)
			if err != nil {
				return normal, err
			}
			if !cond.Truthy() {
				return normal, nil
			}
			res, err := i.execStmt(stmt.Body)
			if err != nil || res.kind == flowReturn {
				return res, err
			}
		}

	case *ast.FunctionDecl:
		i.envs.Capture(i.env)
		fn := &Function{Decl: stmt, Closure: i.env}
		i.envs.Define(i.env, stmt.Name, CallableValue(fn))
		return normal, nil

	case *ast.ReturnStmt:
		if len(i.callStack) == 0 {
			return normal, i.runtimeErr(stmt.GetSpan(), "return", "Can't return from top-level code.")
		}
		val := NoneValue()
		if stmt.Value != nil {
			v, err := i.evalExpr(stmt.Value)
			if err != nil {
				return normal, err
			}
			val = v
		}
		return flow{kind: flowReturn, value: val}, nil

	default:
		span, _ := ast.SpanOf(s)
		return normal, i.runtimeErr(span, "", fmt.Sprintf("Unsupported statement %s.", s.NodeKind()))
	}
}

// execBlock runs stmts with env as the current scope, restoring the
// previous scope and releasing env afterwards.
func (i *Interpreter) execBlock(stmts []ast.Stmt, env EnvID) (flow, error) {
	prev := i.env
	i.env = env
	defer func() {
		i.env = prev
		i.envs.Release(env)
	}()

	for _, s := range stmts {
		res, err := i.execStmt(s)
		if err != nil || res.kind == flowReturn {
			return res, err
		}
	}
	return normal, nil
}

func (i *Interpreter) evalExpr(e ast.Expr) (Value, error) {
	switch expr := e.(type) {
	case *ast.NoneLiteral:
		return NoneValue(), nil

	case *ast.BoolLiteral:
		return BoolValue(expr.Value), nil

	case *ast.StringLiteral:
		return StringValue(expr.Value), nil

	case *ast.DecimalLiteral:
		return DecimalValue(expr.Value), nil

	case *ast.IntegerLiteral:
		return IntegerValue(expr.Value), nil

	case *ast.Grouping:
		return i.evalExpr(expr.Inner)

	case *ast.Variable:
		v, ok := i.envs.Get(i.env, expr.Name)
		if !ok {
			return Value{}, i.undefined(expr.S, expr.Name)
		}
		return v, nil

	case *ast.AssignExpr:
		val, err := i.evalExpr(expr.Value)
		if err != nil {
			return Value{}, err
		}
		if !i.envs.Assign(i.env, expr.Name, val) {
			return Value{}, i.undefined(expr.S, expr.Name)
		}
		return val, nil

	case *ast.UnaryExpr:
		right, err := i.evalExpr(expr.Right)
		if err != nil {
			return Value{}, err
		}
		if expr.Op == "!" {
			return BoolValue(!right.Truthy()), nil
		}
		v, err := negate(right)
		if err != nil {
			return Value{}, i.runtimeErr(expr.S, expr.Op, err.Error())
		}
		return v, nil

	case *ast.LogicalExpr:
		left, err := i.evalExpr(expr.Left)
		if err != nil {
			return Value{}, err
		}
		if expr.Op == "or" {
			if left.Truthy() {
				return left, nil
			}
		} else if !left.Truthy() {
			return left, nil
		}
		return i.evalExpr(expr.Right)

	case *ast.BinaryExpr:
		return i.evalBinary(expr)

	case *ast.CallExpr:
		return i.evalCall(expr)

	default:
		span, _ := ast.SpanOf(e)
		return Value{}, i.runtimeErr(span, "", fmt.Sprintf("Unsupported expression %s.", e.NodeKind()))
	}
}

func (i *Interpreter) undefined(span ast.Span, name string) error {
	return i.runtimeErr(span, name, fmt.Sprintf("Undefined variable '%s'.", name))
}

func (i *Interpreter) evalBinary(expr *ast.BinaryExpr) (Value, error) {
	left, err := i.evalExpr(expr.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := i.evalExpr(expr.Right)
	if err != nil {
		return Value{}, err
	}

	var v Value
	switch expr.Op {
	case "==":
		return BoolValue(valuesEqual(left, right)), nil
	case "!=":
		return BoolValue(!valuesEqual(left, right)), nil
	case "<", "<=", ">", ">=":
		v, err = compare(expr.Op, left, right)
	default:
		v, err = arithmetic(expr.Op, left, right, i.divisionScale)
	}
	if err != nil {
		return Value{}, i.runtimeErr(expr.S, expr.Op, err.Error())
	}
	return v, nil
}

func (i *Interpreter) evalCall(call *ast.CallExpr) (Value, error) {
	callee, err := i.evalExpr(call.Callee)
	if err != nil {
		return Value{}, err
	}

	args := make([]Value, 0, len(call.Args))
	for _, a := range call.Args {
		v, err := i.evalExpr(a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	if callee.Kind != ValCallable {
		return Value{}, i.runtimeErr(call.S, ")", "Can only call functions.")
	}
	fn := callee.Fn
	if len(args) != fn.Arity() {
		return Value{}, i.runtimeErr(call.S, ")",
			fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}

	if _, ok := fn.(*Builtin); ok {
		v, err := fn.Call(i, args)
		if err != nil {
			return Value{}, i.runtimeErr(call.S, ")", err.Error())
		}
		return v, nil
	}

	if len(i.callStack) >= i.maxDepth {
		return Value{}, i.runtimeErr(call.S, ")", "Stack overflow.")
	}
	i.callStack = append(i.callStack, fn.Name())
	defer func() {
		i.callStack = i.callStack[:len(i.callStack)-1]
	}()
	return fn.Call(i, args)
}
