package parser

import (
	"errors"

	"github.com/cockroachdb/apd/v3"

	"quill/ast"
	"quill/diag"
	"quill/lexer"
)

// Parser is a recursive-descent parser that pulls tokens from a lexer on
// demand. Syntax errors do not stop it: each one is recorded and the
// parser skips to the next statement boundary before carrying on.
type Parser struct {
	lx   *lexer.Lexer
	cur  lexer.Token
	prev lexer.Token

	errs diag.List
}

func New(lx *lexer.Lexer) *Parser {
	p := &Parser{lx: lx}
	p.cur = lx.NextToken()
	return p
}

func (p *Parser) next() {
	p.prev = p.cur
	if p.cur.Type != lexer.EOF {
		p.cur = p.lx.NextToken()
	}
}

func (p *Parser) check(tt lexer.TokenType) bool { return p.cur.Type == tt }

// match consumes the current token when its type is one of types.
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.cur.Type == tt {
			p.next()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt lexer.TokenType, msg string) (lexer.Token, error) {
	if p.cur.Type == tt {
		tok := p.cur
		p.next()
		return tok, nil
	}
	return lexer.Token{}, p.errAt(p.cur, msg)
}

func sp(tok lexer.Token) ast.Span { return ast.Span{Line: tok.Line, Col: tok.Col} }

// Errors returns the syntax errors recorded so far.
func (p *Parser) Errors() diag.List { return p.errs }

// ParseProgram parses declarations until EOF. The returned error is a
// diag.List holding every syntax error; the statements that did parse are
// returned either way.
func (p *Parser) ParseProgram() ([]ast.Stmt, error) {
	stmts := []ast.Stmt{}
	for !p.check(lexer.EOF) {
		if stmt, ok := p.declaration(); ok {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errs.Err()
}

// declaration parses one declaration, recovering on error.
func (p *Parser) declaration() (ast.Stmt, bool) {
	stmt, err := p.parseDeclaration()
	if err != nil {
		p.record(err)
		p.synchronize()
		return nil, false
	}
	return stmt, true
}

func (p *Parser) parseDeclaration() (ast.Stmt, error) {
	switch p.cur.Type {
	case lexer.FUNCTION:
		p.next()
		return p.parseFunctionDecl()
	case lexer.VAR:
		p.next()
		return p.parseVarDecl()
	default:
		return p.parseStmt()
	}
}

// synchronize discards tokens until just past a ';' or just before a
// token that starts a declaration or statement.
func (p *Parser) synchronize() {
	p.next()
	for !p.check(lexer.EOF) {
		if p.prev.Type == lexer.SEMICOLON {
			return
		}
		switch p.cur.Type {
		case lexer.CLASS, lexer.FUNCTION, lexer.VAR, lexer.FOR, lexer.DO,
			lexer.IF, lexer.WHILE, lexer.PRINT, lexer.RETURN:
			return
		}
		p.next()
	}
}

func (p *Parser) parseFunctionDecl() (ast.Stmt, error) {
	nameTok, err := p.consume(lexer.IDENT, "Expect function name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.LPAREN, "Expect '(' after function name."); err != nil {
		return nil, err
	}

	params := []string{}
	if !p.check(lexer.RPAREN) {
		for {
			param, err := p.consume(lexer.IDENT, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param.Lexeme)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(lexer.RPAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.LBRACE, "Expect '{' before function body."); err != nil {
		return nil, err
	}

	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{S: sp(nameTok), Name: nameTok.Lexeme, Params: params, Body: body}, nil
}

func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	nameTok, err := p.consume(lexer.IDENT, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var init ast.Expr
	if p.match(lexer.ASSIGN) {
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.VarStmt{S: sp(nameTok), Name: nameTok.Lexeme, Init: init}, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.cur.Type {
	case lexer.FOR:
		return p.parseFor()
	case lexer.IF:
		return p.parseIf()
	case lexer.PRINT:
		return p.parsePrint()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.LBRACE:
		lb := p.cur
		p.next()
		body, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{S: sp(lb), Stmts: body}, nil
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parsePrint() (ast.Stmt, error) {
	printTok := p.cur
	p.next()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{S: sp(printTok), Value: expr}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	retTok := p.cur
	p.next()

	var value ast.Expr
	if !p.check(lexer.SEMICOLON) {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		value = v
	}
	if _, err := p.consume(lexer.SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{S: sp(retTok), Value: value}, nil
}

func (p *Parser) parseExprStmt() (ast.Stmt, error) {
	startTok := p.cur
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{S: sp(startTok), Expr: expr}, nil
}

// parseCondition reads "(" expr ")" after if/while.
func (p *Parser) parseCondition(keyword string) (ast.Expr, error) {
	if _, err := p.consume(lexer.LPAREN, "Expect '(' after '"+keyword+"'."); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RPAREN, "Expect ')' after "+keyword+" condition."); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	ifTok := p.cur
	p.next()
	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}

	thenBranch, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Stmt
	if p.match(lexer.ELSE) {
		elseBranch, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{S: sp(ifTok), Condition: cond, Then: thenBranch, Else: elseBranch}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	wTok := p.cur
	p.next()
	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{S: sp(wTok), Condition: cond, Body: body}, nil
}

// parseFor desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
//
// with a missing condition defaulting to true.
func (p *Parser) parseFor() (ast.Stmt, error) {
	forTok := p.cur
	p.next()
	if _, err := p.consume(lexer.LPAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	switch {
	case p.match(lexer.SEMICOLON):
	case p.match(lexer.VAR):
		init, err = p.parseVarDecl()
	default:
		init, err = p.parseExprStmt()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.check(lexer.SEMICOLON) {
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var incr ast.Expr
	if !p.check(lexer.RPAREN) {
		incr, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.RPAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	span := sp(forTok)
	if incr != nil {
		body = &ast.BlockStmt{S: span, Stmts: []ast.Stmt{body, &ast.ExprStmt{S: incr.GetSpan(), Expr: incr}}}
	}
	if cond == nil {
		cond = &ast.BoolLiteral{S: span, Value: true}
	}
	body = &ast.WhileStmt{S: span, Condition: cond, Body: body}
	if init != nil {
		body = &ast.BlockStmt{S: span, Stmts: []ast.Stmt{init, body}}
	}
	return body, nil
}

// parseBlockBody parses declarations up to the closing brace; the
// opening brace has already been consumed. Errors inside the block are
// recovered here so one bad statement does not discard its neighbours.
func (p *Parser) parseBlockBody() ([]ast.Stmt, error) {
	block := []ast.Stmt{}
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		if stmt, ok := p.declaration(); ok {
			block = append(block, stmt)
		}
	}
	if _, err := p.consume(lexer.RBRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return block, nil
}

// expr = assignment
func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseAssignment() }

// assignment = IDENT "=" assignment | or
func (p *Parser) parseAssignment() (ast.Expr, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.ASSIGN) {
		return expr, nil
	}

	eqTok := p.cur
	p.next()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if v, ok := expr.(*ast.Variable); ok {
		return &ast.AssignExpr{S: v.S, Name: v.Name, Value: value}, nil
	}
	// reported, but the parser is not confused, so no synchronize
	p.record(p.errAt(eqTok, "Invalid assignment target."))
	return expr, nil
}

// or = and ( "or" and )*
func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.OR) {
		opTok := p.cur
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{S: sp(opTok), Left: left, Op: "or", Right: right}
	}
	return left, nil
}

// and = equality ( "and" equality )*
func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.AND) {
		opTok := p.cur
		p.next()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{S: sp(opTok), Left: left, Op: "and", Right: right}
	}
	return left, nil
}

// binaryLevel parses operand ( op operand )* for one left-associative
// precedence level.
func (p *Parser) binaryLevel(operand func() (ast.Expr, error), ops ...lexer.TokenType) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for isOneOf(p.cur.Type, ops...) {
		opTok := p.cur
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{S: sp(opTok), Left: left, Op: opTok.Lexeme, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.binaryLevel(p.parseComparison, lexer.EQ, lexer.NEQ)
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	return p.binaryLevel(p.parseTerm, lexer.LT, lexer.LTE, lexer.GT, lexer.GTE)
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.binaryLevel(p.parseFactor, lexer.PLUS, lexer.MINUS)
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	return p.binaryLevel(p.parseExponent, lexer.STAR, lexer.SLASH, lexer.PERCENT)
}

func (p *Parser) parseExponent() (ast.Expr, error) {
	return p.binaryLevel(p.parseUnary, lexer.CARET)
}

func isOneOf(t lexer.TokenType, list ...lexer.TokenType) bool {
	for _, x := range list {
		if t == x {
			return true
		}
	}
	return false
}

// unary = ( "!" | "-" ) unary | call
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.check(lexer.BANG) || p.check(lexer.MINUS) {
		opTok := p.cur
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{S: sp(opTok), Op: opTok.Lexeme, Right: right}, nil
	}
	return p.parseCall()
}

// call = primary ( "(" args? ")" )*
func (p *Parser) parseCall() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.LPAREN) {
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	args := []ast.Expr{}
	if !p.check(lexer.RPAREN) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(lexer.RPAREN, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{S: sp(paren), Callee: callee, Args: args}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur
	switch tok.Type {
	case lexer.FALSE:
		p.next()
		return &ast.BoolLiteral{S: sp(tok), Value: false}, nil

	case lexer.TRUE:
		p.next()
		return &ast.BoolLiteral{S: sp(tok), Value: true}, nil

	case lexer.NONE:
		p.next()
		return &ast.NoneLiteral{S: sp(tok)}, nil

	case lexer.DECIMAL:
		p.next()
		return &ast.DecimalLiteral{S: sp(tok), Value: tok.Literal.(*apd.Decimal)}, nil

	case lexer.INTEGER:
		p.next()
		return &ast.IntegerLiteral{S: sp(tok), Value: tok.Literal.(*apd.BigInt)}, nil

	case lexer.STRING:
		p.next()
		return &ast.StringLiteral{S: sp(tok), Value: tok.Literal.(string)}, nil

	case lexer.IDENT:
		p.next()
		return &ast.Variable{S: sp(tok), Name: tok.Lexeme}, nil

	case lexer.LPAREN:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.RPAREN, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{S: sp(tok), Inner: inner}, nil

	default:
		return nil, p.errAt(tok, "Expect expression.")
	}
}

func (p *Parser) record(err error) {
	var d diag.Diagnostic
	if errors.As(err, &d) {
		p.errs = append(p.errs, d)
		return
	}
	p.errs = append(p.errs, diag.Diagnostic{Kind: diag.Syntax, Line: p.cur.Line, Col: p.cur.Col, Message: err.Error()})
}

func (p *Parser) errAt(tok lexer.Token, msg string) error {
	d := diag.Diagnostic{Kind: diag.Syntax, Line: tok.Line, Col: tok.Col, Message: msg}
	if tok.Type == lexer.EOF {
		d.AtEnd = true
	} else {
		d.Where = tok.Lexeme
	}
	return d
}
