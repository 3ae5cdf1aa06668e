// Package diag holds the diagnostic record shared by the lexer, parser
// and interpreter, so a driver can collect every problem from a run in one
// ordered list.
package diag

import (
	"fmt"
	"strings"
)

type Kind int

const (
	Lexical Kind = iota
	Syntax
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem. Where is the offending lexeme and is
// empty for lexical errors; AtEnd marks a syntax error found at end of input.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Col     int
	Where   string
	AtEnd   bool
	Message string
}

func (d Diagnostic) Error() string {
	switch {
	case d.AtEnd:
		return fmt.Sprintf("[line %d] Error at end: %s", d.Line, d.Message)
	case d.Where == "":
		return fmt.Sprintf("[line %d] Error: %s", d.Line, d.Message)
	default:
		return fmt.Sprintf("[line %d] Error at '%s': %s", d.Line, d.Where, d.Message)
	}
}

// List aggregates diagnostics into a single error value.
type List []Diagnostic

func (l List) Error() string {
	parts := make([]string, 0, len(l))
	for _, d := range l {
		parts = append(parts, d.Error())
	}
	return strings.Join(parts, "\n")
}

// Err returns nil for an empty list so callers can write `if err != nil`.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
