package lambda

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

type TokenKind int

const (
	TokenLambda TokenKind = iota
	TokenLParen
	TokenRParen
	TokenLowerVar
	TokenUpperVar
	TokenArrow
	TokenHat
	TokenColon
	TokenDot
)

func (k TokenKind) String() string {
	switch k {
	case TokenLambda:
		return "Lambda"
	case TokenLParen:
		return "LParen"
	case TokenRParen:
		return "RParen"
	case TokenLowerVar:
		return "LowerVar"
	case TokenUpperVar:
		return "UpperVar"
	case TokenArrow:
		return "Arrow"
	case TokenHat:
		return "Hat"
	case TokenColon:
		return "Colon"
	case TokenDot:
		return "Dot"
	default:
		return "Unknown"
	}
}

// Token is a single lexical unit. Text holds the name for Lambda, LowerVar
// and UpperVar tokens and is empty otherwise.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

// FormatTokens renders a token sequence for diagnostics.
func FormatTokens(tokens []Token) string {
	return "[" + strings.Join(lo.Map(tokens, func(t Token, _ int) string { return t.String() }), " ") + "]"
}

type LexErrorKind int

const (
	EmptyVariableName LexErrorKind = iota
	InvalidCharacter
	InvalidVariableName
	InvalidLambdaVariableChar
	EmptyLambdaVariable
	InvalidArrow
	TrailingDot
)

func (k LexErrorKind) String() string {
	switch k {
	case EmptyVariableName:
		return "EmptyVariableName"
	case InvalidCharacter:
		return "InvalidCharacter"
	case InvalidVariableName:
		return "InvalidVariableName"
	case InvalidLambdaVariableChar:
		return "InvalidLambdaVariableChar"
	case EmptyLambdaVariable:
		return "EmptyLambdaVariable"
	case InvalidArrow:
		return "InvalidArrow"
	case TrailingDot:
		return "TrailingDot"
	default:
		return "Unknown"
	}
}

// LexError reports a malformed character stream. Pos is the 1-based rune
// offset of the offending character; Char is only set for the kinds that
// name a character.
type LexError struct {
	Kind LexErrorKind
	Char rune
	Pos  int
}

func (e *LexError) Error() string {
	switch e.Kind {
	case EmptyVariableName:
		return fmt.Sprintf("Empty variable name at pos: %d", e.Pos)
	case InvalidCharacter:
		return fmt.Sprintf("Invalid character: '%c' at pos: %d", e.Char, e.Pos)
	case InvalidVariableName:
		return fmt.Sprintf("Invalid variable name at pos: %d", e.Pos)
	case InvalidLambdaVariableChar:
		return fmt.Sprintf("Invalid lambda variable character: '%c' at pos: %d", e.Char, e.Pos)
	case EmptyLambdaVariable:
		return fmt.Sprintf("Empty lambda variable at pos: %d", e.Pos)
	case InvalidArrow:
		return fmt.Sprintf("Invalid type arrow at pos: %d", e.Pos)
	case TrailingDot:
		return fmt.Sprintf("Trailing dot at pos: %d", e.Pos)
	default:
		return fmt.Sprintf("lex error at pos: %d", e.Pos)
	}
}

func isLambdaMarker(ch rune) bool {
	return ch == '\\' || ch == 'λ'
}

func isASCIILower(ch rune) bool {
	return ch >= 'a' && ch <= 'z'
}

func isASCIILetter(ch rune) bool {
	return isASCIILower(ch) || (ch >= 'A' && ch <= 'Z')
}

func isAlphanumeric(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

type lexer struct {
	input  []rune
	pos    int
	tokens []Token
}

// Tokenize scans one line of input into a flat token sequence.
func Tokenize(input string) ([]Token, error) {
	l := &lexer{input: []rune(input)}
	l.tokens = make([]Token, 0, len(l.input))
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) peek() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *lexer) emit(kind TokenKind, text string) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text})
}

func (l *lexer) run() error {
	for l.pos < len(l.input) {
		start := l.pos
		ch := l.input[l.pos]
		l.pos++

		switch {
		case isLambdaMarker(ch):
			name, err := l.lambdaName(start)
			if err != nil {
				return err
			}
			l.emit(TokenLambda, name)
		case ch == '(':
			l.emit(TokenLParen, "")
		case ch == ')':
			l.emit(TokenRParen, "")
		case ch == '^':
			l.emit(TokenHat, "")
		case ch == ':':
			l.emit(TokenColon, "")
		case ch == '-':
			if next, ok := l.peek(); ok && next == '>' {
				l.pos++
				l.emit(TokenArrow, "")
				continue
			}
			return &LexError{Kind: InvalidArrow, Pos: start + 1}
		case ch == '.':
			if err := l.dot(start); err != nil {
				return err
			}
		case isASCIILetter(ch):
			for l.pos < len(l.input) && isAlphanumeric(l.input[l.pos]) {
				l.pos++
			}
			name := string(l.input[start:l.pos])
			if isASCIILower(ch) {
				l.emit(TokenLowerVar, name)
			} else {
				l.emit(TokenUpperVar, name)
			}
		case unicode.IsSpace(ch) || unicode.IsControl(ch):
		default:
			return &LexError{Kind: InvalidCharacter, Char: ch, Pos: start + 1}
		}
	}
	return nil
}

// lambdaName reads the bound variable following a lambda marker at index
// marker. Leading whitespace is skipped; the name ends at whitespace or at
// one of . ( \ λ ^, which is left for the main loop.
func (l *lexer) lambdaName(marker int) (string, error) {
	var name []rune
	for {
		ch, ok := l.peek()
		if !ok {
			break
		}
		if ch == '.' || ch == '(' || ch == '^' || isLambdaMarker(ch) {
			if len(name) == 0 {
				return "", &LexError{Kind: EmptyVariableName, Pos: l.pos + 1}
			}
			break
		}
		if unicode.IsSpace(ch) {
			if len(name) > 0 {
				break
			}
			l.pos++
			continue
		}
		if isASCIILower(ch) {
			name = append(name, ch)
			l.pos++
			continue
		}
		if isAlphanumeric(ch) {
			if len(name) == 0 {
				return "", &LexError{Kind: InvalidVariableName, Pos: l.pos + 1}
			}
			name = append(name, ch)
			l.pos++
			continue
		}
		return "", &LexError{Kind: InvalidLambdaVariableChar, Char: ch, Pos: l.pos + 1}
	}
	if len(name) == 0 {
		return "", &LexError{Kind: EmptyLambdaVariable, Pos: marker + 1}
	}
	return string(name), nil
}

// dot emits a Dot token if something other than whitespace or a colon
// follows it.
func (l *lexer) dot(at int) error {
	for {
		ch, ok := l.peek()
		if !ok || ch == ':' {
			return &LexError{Kind: TrailingDot, Pos: at + 1}
		}
		if unicode.IsSpace(ch) {
			l.pos++
			continue
		}
		l.emit(TokenDot, "")
		return nil
	}
}
