package ast

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Expr is the closed set of expression nodes; the unexported marker keeps
// other packages from adding variants the evaluator does not know about.
type Expr interface {
	Node
	exprNode()
}

type NoneLiteral struct {
	S Span
}

func (n *NoneLiteral) NodeKind() string { return "NoneLiteral" }
func (n *NoneLiteral) exprNode()        {}
func (n *NoneLiteral) GetSpan() Span    { return n.S }
func (n *NoneLiteral) String() string   { return "None" }

type BoolLiteral struct {
	S     Span
	Value bool
}

func (b *BoolLiteral) NodeKind() string { return "BoolLiteral" }
func (b *BoolLiteral) exprNode()        {}
func (b *BoolLiteral) GetSpan() Span    { return b.S }
func (b *BoolLiteral) String() string {
	if b.Value {
		return "Bool(true)"
	}
	return "Bool(false)"
}

type StringLiteral struct {
	S     Span
	Value string
}

func (s *StringLiteral) NodeKind() string { return "StringLiteral" }
func (s *StringLiteral) exprNode()        {}
func (s *StringLiteral) GetSpan() Span    { return s.S }
func (s *StringLiteral) String() string   { return fmt.Sprintf("String(%q)", s.Value) }

// DecimalLiteral keeps the scale written in the source, so 3.50 stays 3.50.
type DecimalLiteral struct {
	S     Span
	Value *apd.Decimal
}

func (d *DecimalLiteral) NodeKind() string { return "DecimalLiteral" }
func (d *DecimalLiteral) exprNode()        {}
func (d *DecimalLiteral) GetSpan() Span    { return d.S }
func (d *DecimalLiteral) String() string   { return fmt.Sprintf("Decimal(%s)", d.Value.Text('f')) }

type IntegerLiteral struct {
	S     Span
	Value *apd.BigInt
}

func (n *IntegerLiteral) NodeKind() string { return "IntegerLiteral" }
func (n *IntegerLiteral) exprNode()        {}
func (n *IntegerLiteral) GetSpan() Span    { return n.S }
func (n *IntegerLiteral) String() string   { return fmt.Sprintf("Integer(%s)", n.Value.String()) }

type Grouping struct {
	S     Span
	Inner Expr
}

func (g *Grouping) NodeKind() string { return "Grouping" }
func (g *Grouping) exprNode()        {}
func (g *Grouping) GetSpan() Span    { return g.S }
func (g *Grouping) String() string   { return fmt.Sprintf("Group(%s)", g.Inner.String()) }

type UnaryExpr struct {
	S     Span
	Op    string
	Right Expr
}

func (u *UnaryExpr) NodeKind() string { return "UnaryExpr" }
func (u *UnaryExpr) exprNode()        {}
func (u *UnaryExpr) GetSpan() Span    { return u.S }
func (u *UnaryExpr) String() string {
	return fmt.Sprintf("Unary(%s %s)", u.Op, u.Right.String())
}

// BinaryExpr covers arithmetic, comparison and equality operators.
// S is the span of the operator token.
type BinaryExpr struct {
	S     Span
	Left  Expr
	Op    string
	Right Expr
}

func (b *BinaryExpr) NodeKind() string { return "BinaryExpr" }
func (b *BinaryExpr) exprNode()        {}
func (b *BinaryExpr) GetSpan() Span    { return b.S }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("Binary(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// LogicalExpr is "and" / "or"; kept apart from BinaryExpr because the
// right operand is evaluated lazily.
type LogicalExpr struct {
	S     Span
	Left  Expr
	Op    string
	Right Expr
}

func (l *LogicalExpr) NodeKind() string { return "LogicalExpr" }
func (l *LogicalExpr) exprNode()        {}
func (l *LogicalExpr) GetSpan() Span    { return l.S }
func (l *LogicalExpr) String() string {
	return fmt.Sprintf("Logical(%s %s %s)", l.Left.String(), l.Op, l.Right.String())
}

type Variable struct {
	S    Span
	Name string
}

func (v *Variable) NodeKind() string { return "Variable" }
func (v *Variable) exprNode()        {}
func (v *Variable) GetSpan() Span    { return v.S }
func (v *Variable) String() string   { return fmt.Sprintf("Var(%s)", v.Name) }

type AssignExpr struct {
	S     Span
	Name  string
	Value Expr
}

func (a *AssignExpr) NodeKind() string { return "AssignExpr" }
func (a *AssignExpr) exprNode()        {}
func (a *AssignExpr) GetSpan() Span    { return a.S }
func (a *AssignExpr) String() string {
	return fmt.Sprintf("Assign(%s = %s)", a.Name, a.Value.String())
}

// CallExpr's span points at the closing paren, which is where arity and
// "not callable" errors are reported.
type CallExpr struct {
	S      Span
	Callee Expr
	Args   []Expr
}

func (c *CallExpr) NodeKind() string { return "CallExpr" }
func (c *CallExpr) exprNode()        {}
func (c *CallExpr) GetSpan() Span    { return c.S }
func (c *CallExpr) String() string {
	parts := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("Call(%s, [%s])", c.Callee.String(), strings.Join(parts, ", "))
}
