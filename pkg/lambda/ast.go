package lambda

import (
	"strings"

	"github.com/hashicorp/go-set/v2"
)

// Expr represents a lambda calculus expression. Its String method is the
// canonical serializer: parsing the output yields an equal tree.
type Expr interface {
	isExpr()
	String() string
}

// Var represents a variable usage.
type Var struct {
	Name string
}

func (Var) isExpr() {}

func (v Var) String() string {
	return v.Name
}

// Abs represents an abstraction (lambda). Type is nil for untyped terms.
type Abs struct {
	Arg  string
	Type Type
	Body Expr
}

func (Abs) isExpr() {}

func (a Abs) String() string {
	var b strings.Builder
	b.WriteString("λ")
	b.WriteString(a.Arg)
	if a.Type != nil {
		b.WriteString("^")
		b.WriteString(a.Type.String())
	}
	b.WriteString(".")
	b.WriteString(a.Body.String())
	return b.String()
}

// App represents an application.
type App struct {
	Fun Expr
	Arg Expr
}

func (App) isExpr() {}

// String keeps the function bare only when it is a variable and wraps an
// argument that is itself an application or abstraction.
func (a App) String() string {
	var b strings.Builder
	if _, ok := a.Fun.(Var); ok {
		b.WriteString(a.Fun.String())
	} else {
		b.WriteString("(" + a.Fun.String() + ")")
	}
	b.WriteString(" ")
	switch a.Arg.(type) {
	case App, Abs:
		b.WriteString("(" + a.Arg.String() + ")")
	default:
		b.WriteString(a.Arg.String())
	}
	return b.String()
}

// Type represents a simple type.
type Type interface {
	isType()
	String() string
}

// TypeVar is a named base type such as A.
type TypeVar struct {
	Name string
}

func (TypeVar) isType() {}

func (t TypeVar) String() string {
	return t.Name
}

// FuncType is the function type From -> To. It always prints parenthesised.
type FuncType struct {
	From Type
	To   Type
}

func (FuncType) isType() {}

func (f FuncType) String() string {
	return "(" + f.From.String() + " -> " + f.To.String() + ")"
}

// Judgement asserts that Expr has Type in the empty context.
type Judgement struct {
	Expr Expr
	Type Type
}

func (j Judgement) String() string {
	return "(" + j.Expr.String() + ") : " + j.Type.String()
}

// Equal reports whether two expressions are structurally identical,
// including bound names and annotations.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)
		return ok && x.Name == y.Name
	case App:
		y, ok := b.(App)
		return ok && Equal(x.Fun, y.Fun) && Equal(x.Arg, y.Arg)
	case Abs:
		y, ok := b.(Abs)
		return ok && x.Arg == y.Arg && EqualType(x.Type, y.Type) && Equal(x.Body, y.Body)
	default:
		return a == nil && b == nil
	}
}

// EqualType reports whether two types are structurally identical. Two nil
// types are equal.
func EqualType(a, b Type) bool {
	switch x := a.(type) {
	case TypeVar:
		y, ok := b.(TypeVar)
		return ok && x.Name == y.Name
	case FuncType:
		y, ok := b.(FuncType)
		return ok && EqualType(x.From, y.From) && EqualType(x.To, y.To)
	default:
		return a == nil && b == nil
	}
}

// EqualJudgement compares both halves of two judgements structurally.
func EqualJudgement(a, b Judgement) bool {
	return Equal(a.Expr, b.Expr) && EqualType(a.Type, b.Type)
}

// FreeVars returns the names occurring in e that no enclosing abstraction
// binds.
func FreeVars(e Expr) *set.Set[string] {
	free := set.New[string](0)
	collectFree(e, free, set.New[string](0))
	return free
}

func collectFree(e Expr, free, bound *set.Set[string]) {
	switch t := e.(type) {
	case Var:
		if !bound.Contains(t.Name) {
			free.Insert(t.Name)
		}
	case App:
		collectFree(t.Fun, free, bound)
		collectFree(t.Arg, free, bound)
	case Abs:
		// Only the binder that introduced the name may remove it again.
		if bound.Insert(t.Arg) {
			collectFree(t.Body, free, bound)
			bound.Remove(t.Arg)
		} else {
			collectFree(t.Body, free, bound)
		}
	}
}

// IsFree reports whether name occurs free in e.
func IsFree(name string, e Expr) bool {
	return FreeVars(e).Contains(name)
}

// Names returns every variable name in e, bound or free, including binders.
func Names(e Expr) *set.Set[string] {
	names := set.New[string](0)
	var walk func(Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case Var:
			names.Insert(t.Name)
		case App:
			walk(t.Fun)
			walk(t.Arg)
		case Abs:
			names.Insert(t.Arg)
			walk(t.Body)
		}
	}
	walk(e)
	return names
}

// AlphaEquivalent reports whether a and b are equal up to renaming of bound
// variables. Free variables must match by name; annotations must match
// exactly.
func AlphaEquivalent(a, b Expr) bool {
	return alphaEqual(a, b, make(map[string]int), make(map[string]int), 0)
}

func alphaEqual(a, b Expr, envA, envB map[string]int, depth int) bool {
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)
		if !ok {
			return false
		}
		ia, boundA := envA[x.Name]
		ib, boundB := envB[y.Name]
		if boundA || boundB {
			return boundA && boundB && ia == ib
		}
		return x.Name == y.Name
	case App:
		y, ok := b.(App)
		return ok && alphaEqual(x.Fun, y.Fun, envA, envB, depth) && alphaEqual(x.Arg, y.Arg, envA, envB, depth)
	case Abs:
		y, ok := b.(Abs)
		if !ok || !EqualType(x.Type, y.Type) {
			return false
		}
		oldA, hadA := envA[x.Arg]
		oldB, hadB := envB[y.Arg]
		envA[x.Arg] = depth
		envB[y.Arg] = depth
		eq := alphaEqual(x.Body, y.Body, envA, envB, depth+1)
		restore(envA, x.Arg, oldA, hadA)
		restore(envB, y.Arg, oldB, hadB)
		return eq
	default:
		return a == nil && b == nil
	}
}

func restore(env map[string]int, name string, old int, had bool) {
	if had {
		env[name] = old
	} else {
		delete(env, name)
	}
}
