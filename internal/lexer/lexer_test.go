package lexer

import (
	"testing"

	"github.com/loxlang/lox/internal/token"
)

func TestScanPunctuationAndOperators(t *testing.T) {
	input := `( ) { } [ ] , . - + ; * % ^ \ : ! != = == < <= > >= /`

	want := []token.Type{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.LEFT_BRACKET, token.RIGHT_BRACKET, token.COMMA, token.DOT,
		token.MINUS, token.PLUS, token.SEMICOLON, token.STAR, token.PERCENT,
		token.CARET, token.BACKSLASH, token.COLON, token.BANG, token.BANG_EQUAL,
		token.EQUAL, token.EQUAL_EQUAL, token.LESS, token.LESS_EQUAL,
		token.GREATER, token.GREATER_EQUAL, token.SLASH, token.EOF,
	}

	toks := New(input, "").Scan()
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestScanStringEscapes(t *testing.T) {
	lx := New(`"a\nb\t\"c\""`, "")
	toks := lx.Scan()
	if lx.Errors().HasErrors() {
		t.Fatalf("unexpected lex errors: %s", lx.Errors().String())
	}
	if toks[0].Type != token.STRING {
		t.Fatalf("expected STRING, got %s", toks[0].Type)
	}
	want := "a\nb\t\"c\""
	if toks[0].Literal != want {
		t.Errorf("got literal %q, want %q", toks[0].Literal, want)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	lx := New(`"abc`, "test.lox")
	lx.Scan()
	if !lx.Errors().HasErrors() {
		t.Fatal("expected an unterminated-string error")
	}
}

func TestScanNumbers(t *testing.T) {
	toks := New("123 45.67 0", "").Scan()
	want := []string{"123", "45.67", "0"}
	for i, w := range want {
		if toks[i].Type != token.NUMBER || toks[i].Lexeme != w {
			t.Errorf("token %d: got %s %q, want NUMBER %q", i, toks[i].Type, toks[i].Lexeme, w)
		}
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := New("var class this super myVar2", "").Scan()
	want := []token.Type{token.VAR, token.CLASS, token.THIS, token.SUPER, token.IDENTIFIER, token.EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestScanSkipsLineComments(t *testing.T) {
	toks := New("1 // a comment\n2", "").Scan()
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3: %v", len(toks), toks)
	}
	if toks[0].Lexeme != "1" || toks[1].Lexeme != "2" {
		t.Errorf("unexpected tokens: %v", toks)
	}
}
