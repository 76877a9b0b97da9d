package lambda

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

type ParseErrorKind int

const (
	EmptyExpression ParseErrorKind = iota
	InvalidExpression
	UnexpectedRParen
	UnclosedLParen
	NoAbstractionBody
	NoTypeHat
	InvalidType
	ArrowBeforeType
	NoType
	TypeSyntaxOutsideType
	TooManyColons
	JudgementTooShort
	EmptyJudgement
	ExprSyntaxOutsideExpr
)

var parseErrorText = map[ParseErrorKind]string{
	EmptyExpression:       "Empty expression",
	InvalidExpression:     "Invalid expression",
	UnexpectedRParen:      "Unexpected right parenthesis",
	UnclosedLParen:        "Unclosed left parenthesis",
	NoAbstractionBody:     "Missing abstraction body",
	NoTypeHat:             "Missing type hat",
	InvalidType:           "Invalid type",
	ArrowBeforeType:       "Arrow before type",
	NoType:                "Missing type",
	TypeSyntaxOutsideType: "Type syntax outside type found",
	TooManyColons:         "Too many colons",
	JudgementTooShort:     "Judgement too short. Should be at least 3 tokens long",
	EmptyJudgement:        "Empty judgement",
	ExprSyntaxOutsideExpr: "Expression syntax outside expression",
}

func (k ParseErrorKind) String() string {
	if s, ok := parseErrorText[k]; ok {
		return s
	}
	return "Unknown parse error"
}

// ParseError reports a grammar violation.
type ParseError struct {
	Kind ParseErrorKind
}

func (e *ParseError) Error() string {
	return e.Kind.String()
}

func parseErr(kind ParseErrorKind) error {
	return &ParseError{Kind: kind}
}

// Mode selects the untyped or the simply typed grammar.
type Mode int

const (
	Untyped Mode = iota
	Typed
)

func (m Mode) String() string {
	if m == Typed {
		return "typed"
	}
	return "untyped"
}

// Parser turns token sequences into trees. It works on index ranges of the
// token slice: an abstraction body is delimited first and then parsed
// recursively, so the body extends as far right as the grammar allows.
type Parser struct {
	mode Mode
}

func NewParser(mode Mode) *Parser {
	return &Parser{mode: mode}
}

func (p *Parser) Mode() Mode {
	return p.mode
}

// ParseExpr parses a whole token sequence as one expression.
func (p *Parser) ParseExpr(tokens []Token) (Expr, error) {
	var items []Expr

	for i := 0; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case TokenLambda:
			abs, end, err := p.parseAbs(tokens, i)
			if err != nil {
				return nil, err
			}
			items = append(items, abs)
			i = end

		case TokenLowerVar:
			items = append(items, Var{Name: tokens[i].Text})

		case TokenLParen:
			end, err := matchParen(tokens, i)
			if err != nil {
				return nil, err
			}
			inner, err := p.ParseExpr(tokens[i+1 : end])
			if err != nil {
				return nil, err
			}
			items = append(items, inner)
			i = end

		case TokenRParen:
			return nil, parseErr(UnexpectedRParen)

		case TokenDot:
			// Everything after a free-standing dot is one sub-expression.
			rest, err := p.ParseExpr(tokens[i+1:])
			if err != nil {
				return nil, err
			}
			items = append(items, rest)
			i = len(tokens)

		default:
			return nil, parseErr(TypeSyntaxOutsideType)
		}
	}

	if len(items) == 0 {
		return nil, parseErr(EmptyExpression)
	}
	// Juxtaposition is left associative: a b c = (a b) c.
	return lo.Reduce(items[1:], func(fun Expr, arg Expr, _ int) Expr {
		return App{Fun: fun, Arg: arg}
	}, items[0]), nil
}

// parseAbs parses the abstraction whose Lambda token sits at start and
// returns it with the index of its last token.
func (p *Parser) parseAbs(tokens []Token, start int) (Expr, int, error) {
	name := tokens[start].Text
	next := start + 1
	if next >= len(tokens) {
		return nil, 0, parseErr(NoAbstractionBody)
	}

	var annot Type
	if p.mode == Typed {
		if tokens[next].Kind != TokenHat {
			return nil, 0, parseErr(NoTypeHat)
		}
		typeEnd, err := annotationEnd(tokens, next+1)
		if err != nil {
			return nil, 0, err
		}
		annot, err = p.ParseType(tokens[next+1 : typeEnd+1])
		if err != nil {
			return nil, 0, err
		}
		next = typeEnd + 1
		if next >= len(tokens) {
			return nil, 0, parseErr(NoAbstractionBody)
		}
	}

	end := bodyEnd(tokens, next)
	if end >= len(tokens) {
		return nil, 0, parseErr(NoAbstractionBody)
	}
	body, err := p.ParseExpr(tokens[next : end+1])
	if err != nil {
		return nil, 0, err
	}
	return Abs{Arg: name, Type: annot, Body: body}, end, nil
}

// bodyEnd returns the index of the last token of an abstraction body that
// starts at start. A leading dot claims the rest of the sequence; otherwise
// the body stops at the first depth-0 variable or at the parenthesis that
// closes back to depth 0. It returns len(tokens) if neither is found.
func bodyEnd(tokens []Token, start int) int {
	if tokens[start].Kind == TokenDot {
		return len(tokens) - 1
	}
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth == 0 {
				return i
			}
		case TokenLowerVar:
			if depth == 0 {
				return i
			}
		}
	}
	return len(tokens)
}

// annotationEnd returns the index of the last token of the type annotation
// following a hat: a single token, or a balanced parenthesised group.
func annotationEnd(tokens []Token, start int) (int, error) {
	if start >= len(tokens) {
		return 0, parseErr(NoType)
	}
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		case TokenArrow:
			if depth == 0 {
				return 0, parseErr(InvalidType)
			}
		}
		if depth == 0 {
			return i, nil
		}
	}
	return 0, parseErr(UnclosedLParen)
}

// matchParen returns the index of the RParen closing the LParen at open.
func matchParen(tokens []Token, open int) (int, error) {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, parseErr(UnclosedLParen)
}

// ParseType parses operands joined by arrows. Arrows associate to the right:
// A -> B -> C = A -> (B -> C).
func (p *Parser) ParseType(tokens []Token) (Type, error) {
	var items []Type
	wantOperand := true

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case TokenUpperVar:
			if !wantOperand {
				return nil, parseErr(InvalidType)
			}
			items = append(items, TypeVar{Name: tok.Text})
			wantOperand = false

		case TokenLParen:
			if !wantOperand {
				return nil, parseErr(InvalidType)
			}
			end, err := matchParen(tokens, i)
			if err != nil {
				return nil, err
			}
			inner, err := p.ParseType(tokens[i+1 : end])
			if err != nil {
				return nil, err
			}
			items = append(items, inner)
			wantOperand = false
			i = end

		case TokenArrow:
			if len(items) == 0 {
				return nil, parseErr(ArrowBeforeType)
			}
			if wantOperand {
				return nil, parseErr(InvalidType)
			}
			wantOperand = true

		case TokenRParen:
			return nil, parseErr(UnexpectedRParen)

		default:
			return nil, parseErr(ExprSyntaxOutsideExpr)
		}
	}

	if len(items) == 0 {
		return nil, parseErr(NoType)
	}
	if wantOperand {
		return nil, parseErr(InvalidType)
	}
	last := len(items) - 1
	return lo.ReduceRight(items[:last], func(to Type, from Type, _ int) Type {
		return FuncType{From: from, To: to}
	}, items[last]), nil
}

// ParseJudgement splits tokens on their single colon into an expression and
// its declared type.
func (p *Parser) ParseJudgement(tokens []Token) (Judgement, error) {
	if len(tokens) == 0 {
		return Judgement{}, parseErr(EmptyJudgement)
	}
	if len(tokens) < 3 {
		return Judgement{}, parseErr(JudgementTooShort)
	}
	isColon := func(t Token) bool { return t.Kind == TokenColon }
	switch lo.CountBy(tokens, isColon) {
	case 0:
		return Judgement{}, parseErr(NoType)
	case 1:
	default:
		return Judgement{}, parseErr(TooManyColons)
	}

	colon := slices.IndexFunc(tokens, isColon)
	lhs, rhs := tokens[:colon], tokens[colon+1:]
	if len(lhs) == 0 {
		return Judgement{}, parseErr(EmptyExpression)
	}
	if len(rhs) == 0 {
		return Judgement{}, parseErr(NoType)
	}

	expr, err := p.ParseExpr(lhs)
	if err != nil {
		return Judgement{}, err
	}
	typ, err := p.ParseType(rhs)
	if err != nil {
		return Judgement{}, err
	}
	return Judgement{Expr: expr, Type: typ}, nil
}

// Parse tokenizes and parses an untyped lambda expression.
func Parse(input string) (Expr, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return NewParser(Untyped).ParseExpr(tokens)
}

// ParseTyped tokenizes and parses a typed lambda expression.
func ParseTyped(input string) (Expr, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return NewParser(Typed).ParseExpr(tokens)
}

// ParseJudgement tokenizes and parses a typed judgement such as
// (λx^A.x) : (A -> A).
func ParseJudgement(input string) (Judgement, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return Judgement{}, err
	}
	return NewParser(Typed).ParseJudgement(tokens)
}
