package lexer

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"quill/diag"
)

type Lexer struct {
	input []rune
	pos   int
	line  int
	col   int

	errs diag.List
}

func New(input string) *Lexer {
	return &Lexer{
		input: []rune(input),
		line:  1,
		col:   1,
	}
}

// Errors returns the lexical errors reported so far, in source order.
func (l *Lexer) Errors() diag.List { return l.errs }

// Tokens scans the remaining input and returns every token, EOF included.
func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.input) }

func (l *Lexer) advance() rune {
	if l.atEnd() {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// match consumes the next rune when it equals want.
func (l *Lexer) match(want rune) bool {
	if l.atEnd() || l.input[l.pos] != want {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) errorAt(line, col int, msg string) {
	l.errs = append(l.errs, diag.Diagnostic{Kind: diag.Lexical, Line: line, Col: col, Message: msg})
}

// NextToken returns the next token. Malformed input is recorded in
// Errors and skipped, so the stream always reaches EOF.
func (l *Lexer) NextToken() Token {
	for {
		// skip whitespace and comments; newlines only bump the line counter
		for !l.atEnd() {
			ch := l.peek()
			if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
				l.advance()
				continue
			}
			if ch == '#' {
				for !l.atEnd() && l.peek() != '\n' {
					l.advance()
				}
				continue
			}
			break
		}

		if l.atEnd() {
			return Token{Type: EOF, Line: l.line, Col: l.col}
		}
		if tok, ok := l.scan(); ok {
			return tok
		}
	}
}

func (l *Lexer) scan() (Token, bool) {
	start := l.pos
	startLine := l.line
	startCol := l.col
	ch := l.advance()

	emit := func(tt TokenType) (Token, bool) {
		return Token{Type: tt, Lexeme: string(l.input[start:l.pos]), Line: startLine, Col: startCol}, true
	}

	switch ch {
	case '(':
		return emit(LPAREN)
	case ')':
		return emit(RPAREN)
	case '{':
		return emit(LBRACE)
	case '}':
		return emit(RBRACE)
	case ',':
		return emit(COMMA)
	case '.':
		return emit(DOT)
	case ';':
		return emit(SEMICOLON)
	case '+':
		return emit(PLUS)
	case '-':
		return emit(MINUS)
	case '*':
		return emit(STAR)
	case '/':
		return emit(SLASH)
	case '%':
		return emit(PERCENT)
	case '^':
		return emit(CARET)
	case '!':
		if l.match('=') {
			return emit(NEQ)
		}
		return emit(BANG)
	case '=':
		if l.match('=') {
			return emit(EQ)
		}
		return emit(ASSIGN)
	case '<':
		if l.match('=') {
			return emit(LTE)
		}
		return emit(LT)
	case '>':
		if l.match('=') {
			return emit(GTE)
		}
		return emit(GT)
	case '"':
		return l.scanString(start, startLine, startCol)
	}

	if isDigit(ch) {
		return l.scanNumber(start, startLine, startCol)
	}
	if isAlpha(ch) || ch == '_' {
		for isAlphaNum(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		return emit(LookupIdent(string(l.input[start:l.pos])))
	}

	l.errorAt(startLine, startCol, fmt.Sprintf("Unexpected character '%c'.", ch))
	return Token{}, false
}

// scanString reads up to the closing quote. There are no escape
// sequences and the literal may span lines.
func (l *Lexer) scanString(start, startLine, startCol int) (Token, bool) {
	for !l.atEnd() && l.peek() != '"' {
		l.advance()
	}
	if l.atEnd() {
		l.errorAt(startLine, startCol, "Unterminated string.")
		return Token{}, false
	}
	l.advance()
	return Token{
		Type:    STRING,
		Lexeme:  string(l.input[start:l.pos]),
		Literal: string(l.input[start+1 : l.pos-1]),
		Line:    startLine,
		Col:     startCol,
	}, true
}

// scanNumber produces a DECIMAL when a '.' is followed by a digit and an
// INTEGER otherwise. Decimals keep the scale written in the source.
func (l *Lexer) scanNumber(start, startLine, startCol int) (Token, bool) {
	for isDigit(l.peek()) {
		l.advance()
	}
	tt := INTEGER
	if l.peek() == '.' && isDigit(l.peekNext()) {
		tt = DECIMAL
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	lex := string(l.input[start:l.pos])
	tok := Token{Type: tt, Lexeme: lex, Line: startLine, Col: startCol}
	if tt == DECIMAL {
		d, _, err := apd.NewFromString(lex)
		if err != nil {
			l.errorAt(startLine, startCol, fmt.Sprintf("Invalid number '%s'.", lex))
			return Token{}, false
		}
		tok.Literal = d
		return tok, true
	}

	n, ok := new(apd.BigInt).SetString(lex, 10)
	if !ok {
		l.errorAt(startLine, startCol, fmt.Sprintf("Invalid number '%s'.", lex))
		return Token{}, false
	}
	tok.Literal = n
	return tok, true
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlphaNum(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
