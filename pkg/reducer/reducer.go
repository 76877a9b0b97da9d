// Package reducer rewrites lambda expressions to beta-normal form in normal
// order with capture-avoiding substitution.
//
// Substitution stops at an abstraction that rebinds the substituted name:
// (λx.λx.x) a reduces to λx.x. Substituting under the shadowing binder, which
// would give λx.a, is deliberately not done.
package reducer

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-set/v2"
	"github.com/npillmayer/schuko/tracing"

	"github.com/vic/golambda/pkg/lambda"
)

// DefaultMaxSteps bounds the number of reduce invocations per call.
const DefaultMaxSteps = 10000

// tracer traces with key 'golambda.reducer'.
func tracer() tracing.Trace {
	return tracing.Select("golambda.reducer")
}

type ErrorKind int

const (
	ReductionOutOfBounds ErrorKind = iota
	BetaReductionOnNonAbstraction
)

func (k ErrorKind) String() string {
	switch k {
	case ReductionOutOfBounds:
		return "ReductionOutOfBounds"
	case BetaReductionOnNonAbstraction:
		return "BetaReductionOnNonAbstraction"
	default:
		return "Unknown"
	}
}

// Error reports an aborted reduction. Limit is the step ceiling that was in
// force.
type Error struct {
	Kind  ErrorKind
	Limit int
}

func (e *Error) Error() string {
	switch e.Kind {
	case ReductionOutOfBounds:
		return fmt.Sprintf("Reduction out of bounds, more than %d reduction steps", e.Limit)
	case BetaReductionOnNonAbstraction:
		return "Beta reduction on non abstraction"
	default:
		return "reduction failed"
	}
}

// Stats holds statistics of the last reduction.
type Stats struct {
	Steps            uint64
	BetaReductions   uint64
	AlphaConversions uint64
}

// Reducer rewrites expressions to beta-normal form in normal order. All of
// its counters are reset by Reduce, so a Reducer must not be shared between
// concurrent calls; create one per goroutine.
type Reducer struct {
	maxSteps int

	steps int
	fresh int
	used  *set.Set[string]

	statBeta  uint64
	statAlpha uint64

	trace traceBuffer
}

type Option func(*Reducer)

// WithMaxSteps overrides DefaultMaxSteps. Non-positive values are ignored.
func WithMaxSteps(n int) Option {
	return func(r *Reducer) {
		if n > 0 {
			r.maxSteps = n
		}
	}
}

// WithTrace records up to capacity rewrite events per call.
func WithTrace(capacity int) Option {
	return func(r *Reducer) {
		r.EnableTrace(capacity)
	}
}

func New(opts ...Option) *Reducer {
	r := &Reducer{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce reduces e with a fresh Reducer and the default step ceiling.
func Reduce(e lambda.Expr) (lambda.Expr, error) {
	return New().Reduce(e)
}

// Reduce rewrites e to normal form. The argument of an application is only
// reduced when the function part does not reduce to an abstraction, so terms
// that discard a divergent argument still terminate.
func (r *Reducer) Reduce(e lambda.Expr) (lambda.Expr, error) {
	r.reset(e)
	res, err := r.reduce(e)
	if err != nil {
		tracer().Debugf("reduction aborted after %d steps: %v", r.steps, err)
		return nil, err
	}
	tracer().Debugf("normal form after %d steps (%d beta, %d alpha)", r.steps, r.statBeta, r.statAlpha)
	return res, nil
}

// Stats returns the counters of the last Reduce call.
func (r *Reducer) Stats() Stats {
	return Stats{
		Steps:            uint64(r.steps),
		BetaReductions:   r.statBeta,
		AlphaConversions: r.statAlpha,
	}
}

func (r *Reducer) MaxSteps() int {
	return r.maxSteps
}

func (r *Reducer) reset(e lambda.Expr) {
	r.steps = 0
	r.fresh = 1
	r.used = lambda.Names(e)
	r.statBeta = 0
	r.statAlpha = 0
	r.trace.reset()
}

func (r *Reducer) reduce(e lambda.Expr) (lambda.Expr, error) {
	r.steps++
	if r.steps > r.maxSteps {
		return nil, &Error{Kind: ReductionOutOfBounds, Limit: r.maxSteps}
	}

	switch t := e.(type) {
	case lambda.App:
		fun, err := r.reduce(t.Fun)
		if err != nil {
			return nil, err
		}
		if _, ok := fun.(lambda.Abs); ok {
			contracted, err := r.beta(fun, t.Arg)
			if err != nil {
				return nil, err
			}
			return r.reduce(contracted)
		}
		arg, err := r.reduce(t.Arg)
		if err != nil {
			return nil, err
		}
		return lambda.App{Fun: fun, Arg: arg}, nil

	case lambda.Abs:
		body, err := r.reduce(t.Body)
		if err != nil {
			return nil, err
		}
		return lambda.Abs{Arg: t.Arg, Type: t.Type, Body: body}, nil

	default:
		return e, nil
	}
}

// beta contracts the redex (fun arg). fun must be an abstraction.
func (r *Reducer) beta(fun, arg lambda.Expr) (lambda.Expr, error) {
	abs, ok := fun.(lambda.Abs)
	if !ok {
		return nil, &Error{Kind: BetaReductionOnNonAbstraction, Limit: r.maxSteps}
	}
	r.statBeta++
	r.trace.record(TraceEvent{Step: r.steps, Rule: RuleBeta, Name: abs.Arg})
	return r.Substitute(abs.Body, abs.Arg, arg), nil
}

// Substitute replaces the free occurrences of name in e with repl. Binders
// that would capture a free variable of repl are renamed first. Renaming
// draws fresh names from r; the names of e and repl are registered first so a
// fresh name never collides with either, even after an earlier Reduce call.
func (r *Reducer) Substitute(e lambda.Expr, name string, repl lambda.Expr) lambda.Expr {
	if r.used == nil {
		r.reset(e)
	}
	for _, n := range lambda.Names(e).Slice() {
		r.used.Insert(n)
	}
	for _, n := range lambda.Names(repl).Slice() {
		r.used.Insert(n)
	}
	return r.substitute(e, name, repl, lambda.FreeVars(repl))
}

func (r *Reducer) substitute(e lambda.Expr, name string, repl lambda.Expr, replFree *set.Set[string]) lambda.Expr {
	switch t := e.(type) {
	case lambda.Var:
		if t.Name == name {
			return repl
		}
		return t

	case lambda.App:
		return lambda.App{
			Fun: r.substitute(t.Fun, name, repl, replFree),
			Arg: r.substitute(t.Arg, name, repl, replFree),
		}

	case lambda.Abs:
		if t.Arg == name {
			// name is rebound here, nothing below refers to the outer one.
			return t
		}
		if replFree.Contains(t.Arg) {
			arg, body := r.alpha(t.Arg, t.Body)
			return lambda.Abs{Arg: arg, Type: t.Type, Body: r.substitute(body, name, repl, replFree)}
		}
		return lambda.Abs{Arg: t.Arg, Type: t.Type, Body: r.substitute(t.Body, name, repl, replFree)}

	default:
		return e
	}
}

// alpha renames the binder old to a fresh name throughout body.
func (r *Reducer) alpha(old string, body lambda.Expr) (string, lambda.Expr) {
	fresh := r.freshName(old)
	r.statAlpha++
	r.trace.record(TraceEvent{Step: r.steps, Rule: RuleAlpha, Name: old, Fresh: fresh})
	tracer().Debugf("alpha: %s -> %s", old, fresh)
	renamed := lambda.Var{Name: fresh}
	return fresh, r.substitute(body, old, renamed, set.From([]string{fresh}))
}

// freshName appends the next counter value to base, skipping names that
// already occur in the term being reduced.
func (r *Reducer) freshName(base string) string {
	for {
		name := base + strconv.Itoa(r.fresh)
		r.fresh++
		if r.used.Insert(name) {
			return name
		}
	}
}
