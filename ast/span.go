package ast

type Span struct {
	Line int
	Col  int
}

// Node is implemented by every expression and statement.
type Node interface {
	NodeKind() string
	GetSpan() Span
	String() string
}

type HasSpan interface {
	GetSpan() Span
}

func SpanOf(n any) (Span, bool) {
	if n == nil {
		return Span{}, false
	}
	hs, ok := n.(HasSpan)
	if !ok {
		return Span{}, false
	}
	return hs.GetSpan(), true
}
