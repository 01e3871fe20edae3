// lexer.go — scanner for Lox source text.
//
// The scanner is byte-based: Lox tokens are all ASCII, and non-ASCII bytes
// inside string literals pass through untouched. Every token records the
// 1-based line and 0-based column where it starts so later passes can report
// locations without re-scanning.
//
// Scan errors (unexpected character, unterminated string) do not stop the
// pass. Each is collected and the scanner resynchronizes — by skipping one
// character, or to end of input for an unterminated string — so a single run
// surfaces every lexical problem in the file.
package lox

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LPAREN    // "("
	RPAREN    // ")"
	LBRACE    // "{"
	RBRACE    // "}"
	COMMA     // ","
	DOT       // "."
	SEMICOLON // ";"
	COLON     // ":"
	QUESTION  // "?"

	// Operators
	MINUS
	PLUS
	SLASH
	STAR
	BANG
	BANG_EQ
	ASSIGN // "="
	EQ     // "=="
	GREATER
	GREATER_EQ
	LESS
	LESS_EQ

	// Literals & identifiers
	IDENT
	STRING
	NUMBER

	// Keywords
	AND
	BREAK
	CLASS
	ELSE
	FALSE
	FOR
	FUN
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for NUMBER/STRING/TRUE/FALSE literals
	Line    int         // 1-based
	Col     int         // 0-based column of the first character
}

// keywords map
var keywords = map[string]TokenType{
	"and":    AND,
	"break":  BREAK,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUN,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// Lexer scans a Lox source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token
	errs   []error

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
	}
}

// ScanTokens tokenizes src and returns the tokens (EOF included) along with
// every scan error encountered.
func ScanTokens(src string) ([]Token, []error) {
	return NewLexer(src).Scan()
}

// Scan tokenizes the entire source. The token slice always ends with an EOF
// token; errs is non-empty if any lexical error occurred.
func (l *Lexer) Scan() ([]Token, []error) {
	for !l.isAtEnd() {
		l.start = l.cur
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.scanToken()
	}
	l.start = l.cur
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.addToken(EOF, nil)
	return l.tokens, l.errs
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) match(expected byte) bool {
	if b, ok := l.peek(); ok && b == expected {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
}

func (l *Lexer) err(line, col int, msg string) {
	l.errs = append(l.errs, &LexError{Line: line, Col: col, Msg: msg})
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func (l *Lexer) scanToken() {
	ch, _ := l.advance()

	switch ch {
	case ' ', '\r', '\t', '\n':
		return
	case '(':
		l.addToken(LPAREN, nil)
	case ')':
		l.addToken(RPAREN, nil)
	case '{':
		l.addToken(LBRACE, nil)
	case '}':
		l.addToken(RBRACE, nil)
	case ',':
		l.addToken(COMMA, nil)
	case '.':
		l.addToken(DOT, nil)
	case ';':
		l.addToken(SEMICOLON, nil)
	case ':':
		l.addToken(COLON, nil)
	case '?':
		l.addToken(QUESTION, nil)
	case '-':
		l.addToken(MINUS, nil)
	case '+':
		l.addToken(PLUS, nil)
	case '*':
		l.addToken(STAR, nil)
	case '!':
		if l.match('=') {
			l.addToken(BANG_EQ, nil)
		} else {
			l.addToken(BANG, nil)
		}
	case '=':
		if l.match('=') {
			l.addToken(EQ, nil)
		} else {
			l.addToken(ASSIGN, nil)
		}
	case '<':
		if l.match('=') {
			l.addToken(LESS_EQ, nil)
		} else {
			l.addToken(LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.addToken(GREATER_EQ, nil)
		} else {
			l.addToken(GREATER, nil)
		}
	case '/':
		switch {
		case l.match('/'):
			l.lineComment()
		case l.match('*'):
			l.blockComment()
		default:
			l.addToken(SLASH, nil)
		}
	case '"':
		l.scanString()
	default:
		switch {
		case isDigit(ch):
			l.scanNumber()
		case isAlpha(ch):
			l.scanIdentifier()
		default:
			// Recover by dropping the one offending character.
			l.err(l.tokStartLine, l.tokStartCol, fmt.Sprintf("Unexpected character %q.", ch))
		}
	}
}

// scanString reads until the closing '"'. Lox strings have no escape
// sequences and may span multiple lines. An unterminated string is reported
// at the line the string started on.
func (l *Lexer) scanString() {
	for {
		b, ok := l.peek()
		if !ok {
			l.err(l.tokStartLine, l.tokStartCol, "Unterminated string.")
			return
		}
		if b == '"' {
			break
		}
		l.advance()
	}
	// consume the closing '"'
	l.advance()
	l.addToken(STRING, l.src[l.start+1:l.cur-1])
}

// scanNumber parses digits with an optional fractional part. A '.' counts
// only when followed by a digit, so "12." scans as NUMBER DOT.
func (l *Lexer) scanNumber() {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}

	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance() // consume '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}

	lex := l.src[l.start:l.cur]
	v, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		l.err(l.tokStartLine, l.tokStartCol, fmt.Sprintf("Invalid number literal %q.", lex))
		return
	}
	l.addToken(NUMBER, v)
}

// scanIdentifier greedily reads an identifier, then checks the keyword table
// (maximal munch: "orchid" is IDENT, not OR followed by "chid").
func (l *Lexer) scanIdentifier() {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	lex := l.src[l.start:l.cur]
	if tt, ok := keywords[lex]; ok {
		switch tt {
		case TRUE:
			l.addToken(tt, true)
		case FALSE:
			l.addToken(tt, false)
		default:
			l.addToken(tt, nil)
		}
		return
	}
	l.addToken(IDENT, lex)
}

func (l *Lexer) lineComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// blockComment supports nesting. Like strings, an unterminated comment is
// reported at the position it started on.
func (l *Lexer) blockComment() {
	depth := 1
	for depth > 0 {
		b, ok := l.peek()
		if !ok {
			l.err(l.tokStartLine, l.tokStartCol, "Unterminated block comment.")
			return
		}
		if b == '*' {
			if b2, ok2 := l.peekN(1); ok2 && b2 == '/' {
				l.advance()
				l.advance()
				depth--
				continue
			}
		}
		if b == '/' {
			if b2, ok2 := l.peekN(1); ok2 && b2 == '*' {
				l.advance()
				l.advance()
				depth++
				continue
			}
		}
		l.advance()
	}
}
