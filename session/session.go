// Package session drives one or more runs of quill source against a
// shared interpreter and reports what happened in a form a command line
// front end can act on.
package session

import (
	"errors"
	"io"
	"sort"
	"time"

	"github.com/cockroachdb/apd/v3"

	"quill/config"
	"quill/diag"
	"quill/interpreter"
	"quill/lexer"
	"quill/parser"
)

type Status int

const (
	StatusOK Status = iota
	StatusStaticError
	StatusRuntimeError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusStaticError:
		return "static error"
	case StatusRuntimeError:
		return "runtime error"
	default:
		return "unknown"
	}
}

// ExitCode maps a status to the sysexits-style code a script run exits
// with.
func (s Status) ExitCode() int {
	switch s {
	case StatusStaticError:
		return 65
	case StatusRuntimeError:
		return 70
	default:
		return 0
	}
}

// Result describes one run. Err is the underlying error, a diag.List for
// static errors or an *interpreter.RuntimeError, and is nil on success.
type Result struct {
	Diagnostics []diag.Diagnostic
	Output      []string
	Status      Status
	Err         error
}

type Session struct {
	interp *interpreter.Interpreter
	out    *lineRecorder

	interpOpts []interpreter.Option
	clock      bool
	now        func() time.Time
}

type Option func(*Session)

// WithStdout streams printed lines to w as they are produced, in addition
// to recording them in the Result.
func WithStdout(w io.Writer) Option {
	return func(s *Session) { s.out.tee = w }
}

// WithConfig applies the interpreter and builtin settings of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		s.interpOpts = append(s.interpOpts,
			interpreter.WithDivisionScale(cfg.Interpreter.DivisionScale),
			interpreter.WithMaxCallDepth(cfg.Interpreter.MaxCallDepth),
		)
		s.clock = cfg.Builtins.ClockEnabled()
	}
}

// WithClock replaces the time source behind clock().
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithoutClock leaves clock() undefined, which makes every run
// deterministic.
func WithoutClock() Option {
	return func(s *Session) { s.clock = false }
}

func New(opts ...Option) *Session {
	s := &Session{
		out:   &lineRecorder{},
		clock: true,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Reset discards every global binding and starts over with a fresh
// interpreter.
func (s *Session) Reset() {
	opts := append([]interpreter.Option{interpreter.WithOutput(s.out)}, s.interpOpts...)
	s.interp = interpreter.New(opts...)
	if s.clock {
		s.interp.DefineBuiltin("clock", 0, s.clockBuiltin)
	}
}

// Interpreter exposes the underlying interpreter for introspection.
func (s *Session) Interpreter() *interpreter.Interpreter { return s.interp }

func (s *Session) clockBuiltin([]interpreter.Value) (interpreter.Value, error) {
	return interpreter.DecimalValue(apd.New(s.now().UnixMilli(), -3)), nil
}

// Run lexes, parses and evaluates src. Nothing is evaluated when there is
// any lexical or syntax error. Globals from earlier runs stay visible. A
// runtime error stops the run, but output printed and globals defined or
// assigned before it are kept.
func (s *Session) Run(name, src string) Result {
	s.out.reset()

	lx := lexer.New(src)
	p := parser.New(lx)
	stmts, _ := p.ParseProgram()

	static := append(diag.List{}, lx.Errors()...)
	static = append(static, p.Errors()...)
	if len(static) > 0 {
		sort.SliceStable(static, func(a, b int) bool {
			if static[a].Line != static[b].Line {
				return static[a].Line < static[b].Line
			}
			return static[a].Col < static[b].Col
		})
		return Result{Diagnostics: static, Status: StatusStaticError, Err: static}
	}

	s.interp.SetSource(name, src)
	err := s.interp.Run(stmts)
	s.out.flush()

	res := Result{Output: s.out.lines, Status: StatusOK}
	if err != nil {
		res.Status = StatusRuntimeError
		res.Err = err
		var rerr *interpreter.RuntimeError
		if errors.As(err, &rerr) {
			res.Diagnostics = []diag.Diagnostic{rerr.Diagnostic()}
		} else {
			res.Diagnostics = []diag.Diagnostic{{Kind: diag.Runtime, Message: err.Error()}}
		}
	}
	return res
}

// Run evaluates src in a fresh session.
func Run(src string) Result {
	return New().Run("<input>", src)
}
