// Package typecheck validates typed judgements by naming consistency.
//
// The check is structural: every expression variable must be bound by an
// abstraction, and every base type named in the declared type must appear in
// some annotation of the expression. It does not compare argument types with
// parameter types, and it does not derive the type of the expression.
package typecheck

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v2"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/slices"

	"github.com/vic/golambda/pkg/lambda"
)

// tracer traces with key 'golambda.typecheck'.
func tracer() tracing.Trace {
	return tracing.Select("golambda.typecheck")
}

type ErrorKind int

const (
	UnknownType ErrorKind = iota
	MismatchedTypes
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownType:
		return "UnknownType"
	case MismatchedTypes:
		return "MismatchedTypes"
	default:
		return "Unknown"
	}
}

// Error names the offending variables (UnknownType) or the base type missing
// from the annotations (MismatchedTypes).
type Error struct {
	Kind  ErrorKind
	Names []string
}

func (e *Error) Error() string {
	names := strings.Join(e.Names, ", ")
	if e.Kind == MismatchedTypes {
		return fmt.Sprintf("Mismatched types, unknown type: %s", names)
	}
	return fmt.Sprintf("Unknown type: %s", names)
}

// Check returns nil if j passes the naming checks.
func Check(j lambda.Judgement) error {
	free := lambda.FreeVars(j.Expr)
	if free.Size() > 0 {
		names := free.Slice()
		slices.Sort(names)
		return &Error{Kind: UnknownType, Names: names}
	}

	annotated := AnnotationNames(j.Expr)
	tracer().Debugf("annotation types: %v", annotated)
	return checkDeclared(j.Type, annotated)
}

// AnnotationNames collects the base type names used in any abstraction
// annotation of e.
func AnnotationNames(e lambda.Expr) *set.Set[string] {
	names := set.New[string](0)
	var walk func(lambda.Expr)
	walk = func(e lambda.Expr) {
		switch t := e.(type) {
		case lambda.App:
			walk(t.Fun)
			walk(t.Arg)
		case lambda.Abs:
			if t.Type != nil {
				collectTypeNames(t.Type, names)
			}
			walk(t.Body)
		}
	}
	walk(e)
	return names
}

func collectTypeNames(t lambda.Type, names *set.Set[string]) {
	switch ty := t.(type) {
	case lambda.TypeVar:
		names.Insert(ty.Name)
	case lambda.FuncType:
		collectTypeNames(ty.From, names)
		collectTypeNames(ty.To, names)
	}
}

func checkDeclared(t lambda.Type, known *set.Set[string]) error {
	switch ty := t.(type) {
	case lambda.TypeVar:
		if !known.Contains(ty.Name) {
			return &Error{Kind: MismatchedTypes, Names: []string{ty.Name}}
		}
	case lambda.FuncType:
		if err := checkDeclared(ty.From, known); err != nil {
			return err
		}
		return checkDeclared(ty.To, known)
	}
	return nil
}
