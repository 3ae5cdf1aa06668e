package lexer

import "fmt"

type TokenType string

const (
	EOF TokenType = "EOF"

	IDENT   TokenType = "IDENT"
	DECIMAL TokenType = "DECIMAL"
	INTEGER TokenType = "INTEGER"
	STRING  TokenType = "STRING"

	LPAREN    TokenType = "LPAREN"
	RPAREN    TokenType = "RPAREN"
	LBRACE    TokenType = "LBRACE"
	RBRACE    TokenType = "RBRACE"
	COMMA     TokenType = "COMMA"
	DOT       TokenType = "DOT"
	SEMICOLON TokenType = "SEMICOLON"

	PLUS    TokenType = "PLUS"
	MINUS   TokenType = "MINUS"
	STAR    TokenType = "STAR"
	SLASH   TokenType = "SLASH"
	PERCENT TokenType = "PERCENT"
	CARET   TokenType = "CARET"

	BANG   TokenType = "BANG"
	NEQ    TokenType = "NEQ"
	ASSIGN TokenType = "ASSIGN"
	EQ     TokenType = "EQ"
	LT     TokenType = "LT"
	LTE    TokenType = "LTE"
	GT     TokenType = "GT"
	GTE    TokenType = "GTE"

	AND      TokenType = "AND"
	CLASS    TokenType = "CLASS"
	DO       TokenType = "DO"
	ELSE     TokenType = "ELSE"
	FALSE    TokenType = "FALSE"
	FOR      TokenType = "FOR"
	FUNCTION TokenType = "FUNCTION"
	IF       TokenType = "IF"
	NONE     TokenType = "NONE"
	OR       TokenType = "OR"
	PRINT    TokenType = "PRINT"
	RETURN   TokenType = "RETURN"
	SUPER    TokenType = "SUPER"
	THIS     TokenType = "THIS"
	TRUE     TokenType = "TRUE"
	VAR      TokenType = "VAR"
	WHILE    TokenType = "WHILE"
)

// Token is immutable once produced. Literal holds *apd.Decimal for
// DECIMAL, *apd.BigInt for INTEGER and string for STRING; nil otherwise.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
	Col     int
}

func (t Token) String() string {
	switch t.Type {
	case STRING:
		return fmt.Sprintf("%s(%q) @ %d:%d", t.Type, t.Literal, t.Line, t.Col)
	case IDENT, DECIMAL, INTEGER:
		return fmt.Sprintf("%s(%s) @ %d:%d", t.Type, t.Lexeme, t.Line, t.Col)
	default:
		return fmt.Sprintf("%s @ %d:%d", t.Type, t.Line, t.Col)
	}
}

var keywords = map[string]TokenType{
	"and":      AND,
	"class":    CLASS,
	"do":       DO,
	"else":     ELSE,
	"false":    FALSE,
	"for":      FOR,
	"function": FUNCTION,
	"if":       IF,
	"none":     NONE,
	"or":       OR,
	"print":    PRINT,
	"return":   RETURN,
	"super":    SUPER,
	"this":     THIS,
	"true":     TRUE,
	"var":      VAR,
	"while":    WHILE,
}

// LookupIdent re-tags an identifier as a keyword when it is one.
// Keywords are case-sensitive.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}
