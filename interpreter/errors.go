package interpreter

import (
	"fmt"
	"strings"

	"quill/ast"
	"quill/diag"
)

// RuntimeError stops evaluation. Where is the lexeme of the offending
// token; Line holds the source text of the line it sits on, when known.
// File is the chunk name given to SetSource.
type RuntimeError struct {
	File  string
	Span  ast.Span
	Where string
	Msg   string
	Line  string
	Stack []string
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Diagnostic().Error())

	if e.File != "" && e.Span.Line > 0 {
		b.WriteString(fmt.Sprintf("\n  --> %s:%d:%d", e.File, e.Span.Line, e.Span.Col))
	}

	if e.Line != "" && e.Span.Line > 0 {
		prefix := fmt.Sprintf("  %d | ", e.Span.Line)
		b.WriteString("\n" + prefix + e.Line + "\n")
		caret := len(prefix) + e.Span.Col - 1
		if caret < 0 {
			caret = 0
		}
		b.WriteString(strings.Repeat(" ", caret) + "^")
	}

	for _, fn := range e.Stack {
		b.WriteString(fmt.Sprintf("\n  at %s()", fn))
	}
	return b.String()
}

// Diagnostic is the one-line form used in a driver's result.
func (e *RuntimeError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Kind:    diag.Runtime,
		Line:    e.Span.Line,
		Col:     e.Span.Col,
		Where:   e.Where,
		Message: e.Msg,
	}
}

func (i *Interpreter) runtimeErr(span ast.Span, where, msg string) error {
	lineText := ""
	if span.Line > 0 && span.Line-1 < len(i.lines) {
		lineText = i.lines[span.Line-1]
	}

	stack := make([]string, 0, len(i.callStack))
	for idx := len(i.callStack) - 1; idx >= 0; idx-- {
		stack = append(stack, i.callStack[idx])
	}

	return &RuntimeError{
		File:  i.filename,
		Span:  span,
		Where: where,
		Msg:   msg,
		Line:  lineText,
		Stack: stack,
	}
}

func splitLinesPreserve(src string) []string {
	if src == "" {
		return []string{}
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	return strings.Split(src, "\n")
}
