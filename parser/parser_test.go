package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"quill/ast"
	"quill/diag"
	"quill/lexer"
	"quill/parser"
)

// parse runs the parser on input and fails the test on any error.
func parse(t *testing.T, input string) []ast.Stmt {
	t.Helper()
	p := parser.New(lexer.New(input))
	stmts, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse errors:\n%v", err)
	}
	return stmts
}

// parseErrors runs the parser and returns the recorded syntax errors.
func parseErrors(t *testing.T, input string) diag.List {
	t.Helper()
	p := parser.New(lexer.New(input))
	_, err := p.ParseProgram()
	if err == nil {
		t.Fatalf("expected parse errors for %q", input)
	}
	return p.Errors()
}

func exprOf(t *testing.T, stmt ast.Stmt) ast.Expr {
	t.Helper()
	es, ok := stmt.(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", stmt)
	}
	return es.Expr
}

func TestParser_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3;", "Binary(Integer(1) + Binary(Integer(2) * Integer(3)))"},
		{"1 - 2 - 3;", "Binary(Binary(Integer(1) - Integer(2)) - Integer(3))"},
		{"2 * 3 ^ 2;", "Binary(Integer(2) * Binary(Integer(3) ^ Integer(2)))"},
		{"2 ^ 3 ^ 2;", "Binary(Binary(Integer(2) ^ Integer(3)) ^ Integer(2))"},
		{"-2 ^ 2;", "Binary(Unary(- Integer(2)) ^ Integer(2))"},
		{"7 % 3 * 2;", "Binary(Binary(Integer(7) % Integer(3)) * Integer(2))"},
		{"1 < 2 == true;", "Binary(Binary(Integer(1) < Integer(2)) == Bool(true))"},
		{"!!x;", "Unary(! Unary(! Var(x)))"},
		{"a or b and c;", "Logical(Var(a) or Logical(Var(b) and Var(c)))"},
		{"a == b or c != d;", "Logical(Binary(Var(a) == Var(b)) or Binary(Var(c) != Var(d)))"},
		{"(1 + 2) * 3;", "Binary(Group(Binary(Integer(1) + Integer(2))) * Integer(3))"},
		{"1.50 + none;", "Binary(Decimal(1.50) + None)"},
		{`"s" * "t";`, `Binary(String("s") * String("t"))`},
	}
	for _, tt := range tests {
		stmts := parse(t, tt.input)
		if len(stmts) != 1 {
			t.Fatalf("%q: got %d statements", tt.input, len(stmts))
		}
		if got := exprOf(t, stmts[0]).String(); got != tt.want {
			t.Errorf("%q:\n got  %s\n want %s", tt.input, got, tt.want)
		}
	}
}

func TestParser_AssignmentIsRightAssociative(t *testing.T) {
	stmts := parse(t, "a = b = 3;")
	assign, ok := exprOf(t, stmts[0]).(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected *ast.AssignExpr, got %T", exprOf(t, stmts[0]))
	}
	if assign.Name != "a" {
		t.Fatalf("outer target: got %q", assign.Name)
	}
	inner, ok := assign.Value.(*ast.AssignExpr)
	if !ok || inner.Name != "b" {
		t.Fatalf("inner assignment: got %s", assign.Value)
	}
}

func TestParser_InvalidAssignmentTargetIsRecovered(t *testing.T) {
	p := parser.New(lexer.New("(a) = 1; 1 + 2 = 3; print 4;"))
	stmts, err := p.ParseProgram()
	if err == nil {
		t.Fatal("expected an error")
	}
	errs := p.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	for _, e := range errs {
		if e.Message != "Invalid assignment target." || e.Where != "=" {
			t.Errorf("got %+v", e)
		}
	}
	// no statements were dropped
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(stmts))
	}
}

func TestParser_ChainedCalls(t *testing.T) {
	stmts := parse(t, "f(1)(2, 3)();")
	got := exprOf(t, stmts[0]).String()
	want := "Call(Call(Call(Var(f), [Integer(1)]), [Integer(2), Integer(3)]), [])"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	call := exprOf(t, stmts[0]).(*ast.CallExpr)
	if call.S.Col != 12 {
		t.Fatalf("call span should point at the closing paren, got col %d", call.S.Col)
	}
}

func TestParser_Statements(t *testing.T) {
	src := `
var a;
var b = 2;
print a;
{ var c = 1; print c; }
if (a) print 1; else print 2;
if (b) { print 3; }
while (a < 10) a = a + 1;
function add(x, y) { return x + y; }
function noop() { return; }
`
	stmts := parse(t, src)
	got := make([]string, 0, len(stmts))
	for _, s := range stmts {
		got = append(got, s.String())
	}
	want := []string{
		"VarDecl(a)",
		"VarDecl(b = Integer(2))",
		"Print(Var(a))",
		"Block[VarDecl(c = Integer(1)); Print(Var(c))]",
		"If(Var(a), Print(Integer(1)), else Print(Integer(2)))",
		"If(Var(b), Block[Print(Integer(3))])",
		"While(Binary(Var(a) < Integer(10)), ExprStmt(Assign(a = Binary(Var(a) + Integer(1)))))",
		"Function(add(x, y), [Return(Binary(Var(x) + Var(y)))])",
		"Function(noop(), [Return()])",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_ForDesugaring(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			"for (var i = 0; i < 3; i = i + 1) print i;",
			"Block[VarDecl(i = Integer(0)); While(Binary(Var(i) < Integer(3)), Block[Print(Var(i)); ExprStmt(Assign(i = Binary(Var(i) + Integer(1))))])]",
		},
		{
			"for (;;) print 1;",
			"While(Bool(true), Print(Integer(1)))",
		},
		{
			"for (i = 0; i < 1;) print i;",
			"Block[ExprStmt(Assign(i = Integer(0))); While(Binary(Var(i) < Integer(1)), Print(Var(i)))]",
		},
	}
	for _, tt := range tests {
		stmts := parse(t, tt.input)
		if len(stmts) != 1 {
			t.Fatalf("%q: got %d statements", tt.input, len(stmts))
		}
		if got := stmts[0].String(); got != tt.want {
			t.Errorf("%q:\n got  %s\n want %s", tt.input, got, tt.want)
		}
	}
}

func TestParser_MultipleErrorsReported(t *testing.T) {
	src := `var = 1;
print 1
var ok = 2;
print (3;
print ok;`
	p := parser.New(lexer.New(src))
	stmts, err := p.ParseProgram()
	if err == nil {
		t.Fatal("expected errors")
	}

	got := []string{}
	for _, e := range p.Errors() {
		got = append(got, e.Error())
	}
	want := []string{
		"[line 1] Error at '=': Expect variable name.",
		"[line 3] Error at 'var': Expect ';' after value.",
		"[line 4] Error at ';': Expect ')' after expression.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	// the missing ';' on line 2 is reported at 'var', so synchronizing
	// discards that declaration; parsing resumes at the next boundary
	var names []string
	for _, s := range stmts {
		names = append(names, s.String())
	}
	if diff := cmp.Diff([]string{"Print(Var(ok))"}, names); diff != "" {
		t.Fatalf("recovered statements mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_ErrorAtEnd(t *testing.T) {
	errs := parseErrors(t, "print 1 +")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if got := errs[0].Error(); got != "[line 1] Error at end: Expect expression." {
		t.Fatalf("got %q", got)
	}
}

func TestParser_ErrorsInsideBlocks(t *testing.T) {
	errs := parseErrors(t, "{ print ; print 2; var 3; }\nprint 4")
	want := []string{
		"Expect expression.",
		"Expect variable name.",
		"Expect ';' after value.",
	}
	var got []string
	for _, e := range errs {
		got = append(got, e.Message)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestParser_ReservedWordsAreNotExpressions(t *testing.T) {
	errs := parseErrors(t, "print this;")
	if errs[0].Where != "this" {
		t.Fatalf("got %+v", errs[0])
	}
}
