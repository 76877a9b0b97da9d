package driver

import (
	"fmt"
	"time"

	"github.com/vic/golambda/pkg/lambda"
	"github.com/vic/golambda/pkg/typecheck"
)

// BenchReport holds the wall time of each stage over Iterations runs.
// TypeCheck is zero in untyped mode and Reduce is zero when reduction is
// disabled.
type BenchReport struct {
	Input      string
	Iterations int
	Tokenize   time.Duration
	Parse      time.Duration
	TypeCheck  time.Duration
	Reduce     time.Duration
	Combined   time.Duration
}

// PerOp returns the mean time per iteration of d.
func (b BenchReport) PerOp(d time.Duration) time.Duration {
	if b.Iterations == 0 {
		return 0
	}
	return d / time.Duration(b.Iterations)
}

// Bench times each stage on input. The input must pass the full pipeline
// once before any timing starts.
func (p *Pipeline) Bench(input string, iterations int) (BenchReport, error) {
	if iterations <= 0 {
		return BenchReport{}, fmt.Errorf("bench: iterations must be positive, got %d", iterations)
	}
	if _, err := p.Process(0, input); err != nil {
		return BenchReport{}, err
	}

	tokens, _ := lambda.Tokenize(input)
	report := BenchReport{Input: input, Iterations: iterations}
	typed := p.cfg.Mode == lambda.Typed

	var expr lambda.Expr
	var j lambda.Judgement
	if typed {
		j, _ = p.parser.ParseJudgement(tokens)
		expr = j.Expr
	} else {
		expr, _ = p.parser.ParseExpr(tokens)
	}

	report.Tokenize = timeIt(iterations, func() { _, _ = lambda.Tokenize(input) })
	report.Parse = timeIt(iterations, func() {
		if typed {
			_, _ = p.parser.ParseJudgement(tokens)
		} else {
			_, _ = p.parser.ParseExpr(tokens)
		}
	})
	if typed {
		report.TypeCheck = timeIt(iterations, func() { _ = typecheck.Check(j) })
	}
	if p.cfg.Reduce {
		r := p.newReducer()
		report.Reduce = timeIt(iterations, func() { _, _ = r.Reduce(expr) })
	}
	report.Combined = timeIt(iterations, func() { _, _ = p.Process(0, input) })
	return report, nil
}

func timeIt(iterations int, fn func()) time.Duration {
	// warm up
	for i := 0; i < iterations/10; i++ {
		fn()
	}
	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn()
	}
	return time.Since(start)
}
