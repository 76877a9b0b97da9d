package lambda

import (
	"errors"
	"testing"
)

func TestTokenizeSimple(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"λx.x", "[Lambda(x) Dot LowerVar(x)]"},
		{`\x.x`, "[Lambda(x) Dot LowerVar(x)]"},
		{"λ x.x", "[Lambda(x) Dot LowerVar(x)]"},
		{"(λx.x) y", "[LParen Lambda(x) Dot LowerVar(x) RParen LowerVar(y)]"},
		{"λx y", "[Lambda(x) LowerVar(y)]"},
		{"x1y", "[LowerVar(x1y)]"},
		{"λy1.y", "[Lambda(y1) Dot LowerVar(y)]"},
		{"(λx^(A -> B).x) : (A -> B)",
			"[LParen Lambda(x) Hat LParen UpperVar(A) Arrow UpperVar(B) RParen Dot LowerVar(x) RParen Colon LParen UpperVar(A) Arrow UpperVar(B) RParen]"},
		{"  \t ", "[]"},
	}

	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Errorf("Tokenize(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got := FormatTokens(tokens); got != tt.want {
			t.Errorf("Tokenize(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestTokenizeLambdaStopsBeforeDelimiters(t *testing.T) {
	// The bound name ends at '(' and '^' without consuming them.
	tokens, err := Tokenize("λf(f)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := FormatTokens(tokens), "[Lambda(f) LParen LowerVar(f) RParen]"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	tokens, err = Tokenize("λx^A.x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := FormatTokens(tokens), "[Lambda(x) Hat UpperVar(A) Dot LowerVar(x)]"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  LexErrorKind
		char  rune
		pos   int
	}{
		{"a$b", InvalidCharacter, '$', 2},
		{"λx.x $", InvalidCharacter, '$', 6},
		{"λx.", TrailingDot, 0, 3},
		{"λx.   ", TrailingDot, 0, 3},
		{"λx. : A", TrailingDot, 0, 3},
		{"A - B", InvalidArrow, 0, 3},
		{"A -", InvalidArrow, 0, 3},
		{"λ.x", EmptyVariableName, 0, 2},
		{"λ(x)", EmptyVariableName, 0, 2},
		{"λ", EmptyLambdaVariable, 0, 1},
		{"λ   ", EmptyLambdaVariable, 0, 1},
		{"λX.x", InvalidVariableName, 0, 2},
		{"λ1.x", InvalidVariableName, 0, 2},
		{"λx$.x", InvalidLambdaVariableChar, '$', 3},
	}

	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Errorf("Tokenize(%q): expected *LexError, got %v", tt.input, err)
			continue
		}
		if lexErr.Kind != tt.kind || lexErr.Pos != tt.pos || lexErr.Char != tt.char {
			t.Errorf("Tokenize(%q) = %v %q at %d, want %v %q at %d",
				tt.input, lexErr.Kind, lexErr.Char, lexErr.Pos, tt.kind, tt.char, tt.pos)
		}
	}
}

func TestLexErrorMessages(t *testing.T) {
	_, err := Tokenize("a$b")
	if err == nil || err.Error() != "Invalid character: '$' at pos: 2" {
		t.Errorf("unexpected message: %v", err)
	}
	_, err = Tokenize("λx.")
	if err == nil || err.Error() != "Trailing dot at pos: 3" {
		t.Errorf("unexpected message: %v", err)
	}
}
