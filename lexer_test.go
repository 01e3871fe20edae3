package lox

import (
	"strings"
	"testing"
)

func scanOK(t *testing.T, src string) []Token {
	t.Helper()
	toks, errs := ScanTokens(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected scan errors: %v\nsource: %q", errs, src)
	}
	return toks
}

func wantTypes(t *testing.T, src string, types ...TokenType) []Token {
	t.Helper()
	toks := scanOK(t, src)
	if len(toks) != len(types)+1 {
		t.Fatalf("token count: got %d, want %d (+EOF)\ntokens: %v", len(toks), len(types)+1, toks)
	}
	for i, tt := range types {
		if toks[i].Type != tt {
			t.Fatalf("token %d: got %v (%q), want %v", i, toks[i].Type, toks[i].Lexeme, tt)
		}
	}
	if last := toks[len(toks)-1]; last.Type != EOF {
		t.Fatalf("last token: got %v, want EOF", last.Type)
	}
	return toks
}

func Test_Lexer_Single_And_Double_Char_Tokens(t *testing.T) {
	wantTypes(t, "(){},.;:?-+/*",
		LPAREN, RPAREN, LBRACE, RBRACE, COMMA, DOT, SEMICOLON, COLON, QUESTION,
		MINUS, PLUS, SLASH, STAR)
	wantTypes(t, "! != = == > >= < <=",
		BANG, BANG_EQ, ASSIGN, EQ, GREATER, GREATER_EQ, LESS, LESS_EQ)
	// Maximal munch: "===" is "==" then "=".
	wantTypes(t, "===", EQ, ASSIGN)
	wantTypes(t, "!==", BANG_EQ, ASSIGN)
}

func Test_Lexer_Keywords_Vs_Identifiers(t *testing.T) {
	wantTypes(t, "and break class else false for fun if nil or print return super this true var while",
		AND, BREAK, CLASS, ELSE, FALSE, FOR, FUN, IF, NIL, OR, PRINT,
		RETURN, SUPER, THIS, TRUE, VAR, WHILE)
	// Prefix matches are still identifiers.
	toks := wantTypes(t, "orchid classy fortune _x var2", IDENT, IDENT, IDENT, IDENT, IDENT)
	if toks[0].Lexeme != "orchid" {
		t.Fatalf("lexeme: got %q, want %q", toks[0].Lexeme, "orchid")
	}
}

func Test_Lexer_Boolean_Literals(t *testing.T) {
	toks := wantTypes(t, "true false", TRUE, FALSE)
	if toks[0].Literal != true || toks[1].Literal != false {
		t.Fatalf("boolean literals: got %v, %v", toks[0].Literal, toks[1].Literal)
	}
}

func Test_Lexer_Numbers(t *testing.T) {
	toks := wantTypes(t, "0 123 45.67 0.5", NUMBER, NUMBER, NUMBER, NUMBER)
	want := []float64{0, 123, 45.67, 0.5}
	for i, w := range want {
		if got := toks[i].Literal.(float64); got != w {
			t.Fatalf("number %d: got %v, want %v", i, got, w)
		}
	}
	// A trailing dot is not part of the number.
	wantTypes(t, "12.", NUMBER, DOT)
	wantTypes(t, "12.foo", NUMBER, DOT, IDENT)
	// No leading-dot numbers.
	wantTypes(t, ".5", DOT, NUMBER)
}

func Test_Lexer_Strings(t *testing.T) {
	toks := wantTypes(t, `"hello world"`, STRING)
	if got := toks[0].Literal.(string); got != "hello world" {
		t.Fatalf("string literal: got %q", got)
	}
	// Strings may span lines; the token reports its starting line.
	toks = scanOK(t, "\"first\nsecond\"")
	if got := toks[0].Literal.(string); got != "first\nsecond" {
		t.Fatalf("multi-line string: got %q", got)
	}
	if toks[0].Line != 1 {
		t.Fatalf("multi-line string line: got %d, want 1", toks[0].Line)
	}
	wantTypes(t, `""`, STRING)
}

func Test_Lexer_Unterminated_String(t *testing.T) {
	_, errs := ScanTokens("var s = \"oops;\nprint s;")
	if len(errs) == 0 {
		t.Fatal("want error for unterminated string")
	}
	le, ok := errs[0].(*LexError)
	if !ok {
		t.Fatalf("want *LexError, got %T", errs[0])
	}
	if !strings.Contains(le.Msg, "Unterminated string") {
		t.Fatalf("message: got %q", le.Msg)
	}
	if le.Line != 1 {
		t.Fatalf("error reported at line %d, want the opening quote's line 1", le.Line)
	}
}

func Test_Lexer_Comments(t *testing.T) {
	wantTypes(t, "1 // the rest is ignored ! @ #\n2", NUMBER, NUMBER)
	wantTypes(t, "// only a comment")
	wantTypes(t, "1 /* inline */ 2", NUMBER, NUMBER)
	wantTypes(t, "1 /* spans\nlines */ 2", NUMBER, NUMBER)
	// Block comments nest.
	wantTypes(t, "1 /* outer /* inner */ still outer */ 2", NUMBER, NUMBER)
}

func Test_Lexer_Unterminated_Block_Comment(t *testing.T) {
	_, errs := ScanTokens("1 /* never closed")
	if len(errs) == 0 {
		t.Fatal("want error for unterminated block comment")
	}
}

func Test_Lexer_Unexpected_Character_Recovers(t *testing.T) {
	toks, errs := ScanTokens("1 @ 2 # 3")
	if len(errs) != 2 {
		t.Fatalf("want 2 errors, got %d: %v", len(errs), errs)
	}
	// Scanning continues past the bad characters.
	var nums int
	for _, tok := range toks {
		if tok.Type == NUMBER {
			nums++
		}
	}
	if nums != 3 {
		t.Fatalf("want 3 number tokens after recovery, got %d", nums)
	}
}

func Test_Lexer_Line_And_Column_Tracking(t *testing.T) {
	toks := scanOK(t, "var a;\n  a = 1;")
	// toks: var a ; a = 1 ; EOF
	if toks[0].Line != 1 || toks[0].Col != 0 {
		t.Fatalf("var: line %d col %d", toks[0].Line, toks[0].Col)
	}
	if toks[3].Line != 2 || toks[3].Col != 2 {
		t.Fatalf("a on line 2: line %d col %d", toks[3].Line, toks[3].Col)
	}
}
