package driver

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/vic/golambda/pkg/lambda"
	"github.com/vic/golambda/pkg/reducer"
	"github.com/vic/golambda/pkg/typecheck"
)

// tracer traces with key 'golambda.driver'.
func tracer() tracing.Trace {
	return tracing.Select("golambda.driver")
}

// Stage names a step of the per-line pipeline as it appears in reports.
type Stage string

const (
	StageTokenize  Stage = "tokenizing"
	StageParse     Stage = "parsing"
	StageReparse   Stage = "reparsing"
	StageTypeCheck Stage = "type checking"
	StageReduce    Stage = "reducing"
)

// StageError wraps a core error with the construct, stage and 1-based line
// it occurred on. Line 0 means the input did not come from a numbered
// source.
type StageError struct {
	Construct string
	Stage     Stage
	Line      int
	Err       error
}

func (e *StageError) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("Invalid %s [%v] caught during %s!", e.Construct, e.Err, e.Stage)
	}
	return fmt.Sprintf("Invalid %s [%v] caught during %s on line %d!", e.Construct, e.Err, e.Stage, e.Line)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RoundTripError reports that re-parsing the canonical text of a tree gave a
// different tree.
type RoundTripError struct {
	First  string
	Second string
}

func (e *RoundTripError) Error() string {
	return fmt.Sprintf("'%s' is not equal to '%s' after reparse", e.Second, e.First)
}

// Result is the outcome of one successfully processed line.
type Result struct {
	Line   int
	Input  string
	Parsed string
	Output string
	Stats  reducer.Stats
	Trace  []reducer.TraceEvent
}

// Pipeline runs tokenize, parse, round-trip check, type check and reduce
// over single lines. It holds no per-line state and is safe for concurrent
// use.
type Pipeline struct {
	cfg    Config
	parser *lambda.Parser
}

func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg, parser: lambda.NewParser(cfg.Mode)}
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

func (p *Pipeline) newReducer() *reducer.Reducer {
	opts := []reducer.Option{reducer.WithMaxSteps(p.cfg.MaxSteps)}
	if p.cfg.Trace > 0 {
		opts = append(opts, reducer.WithTrace(p.cfg.Trace))
	}
	return reducer.New(opts...)
}

func (p *Pipeline) fail(stage Stage, line int, err error) error {
	tracer().Debugf("line %d: %s failed: %v", line, stage, err)
	return &StageError{Construct: p.cfg.Construct(), Stage: stage, Line: line, Err: err}
}

// Process runs the pipeline over one line of input.
func (p *Pipeline) Process(line int, input string) (*Result, error) {
	if p.parser.Mode() == lambda.Typed {
		return p.processJudgement(line, input)
	}
	return p.processExpr(line, input)
}

func (p *Pipeline) processExpr(line int, input string) (*Result, error) {
	tokens, err := lambda.Tokenize(input)
	if err != nil {
		return nil, p.fail(StageTokenize, line, err)
	}
	expr, err := p.parser.ParseExpr(tokens)
	if err != nil {
		return nil, p.fail(StageParse, line, err)
	}

	text := expr.String()
	tokens, err = lambda.Tokenize(text)
	if err != nil {
		return nil, p.fail(StageReparse, line, err)
	}
	again, err := p.parser.ParseExpr(tokens)
	if err != nil {
		return nil, p.fail(StageReparse, line, err)
	}
	if !lambda.Equal(expr, again) {
		return nil, p.fail(StageReparse, line, &RoundTripError{First: text, Second: again.String()})
	}

	res := &Result{Line: line, Input: input, Parsed: text, Output: text}
	if !p.cfg.Reduce {
		return res, nil
	}
	r := p.newReducer()
	normal, err := r.Reduce(again)
	if err != nil {
		return nil, p.fail(StageReduce, line, err)
	}
	res.Output = normal.String()
	res.Stats = r.Stats()
	res.Trace = r.TraceSnapshot()
	tracer().Debugf("line %d: %s => %s", line, text, res.Output)
	return res, nil
}

func (p *Pipeline) processJudgement(line int, input string) (*Result, error) {
	tokens, err := lambda.Tokenize(input)
	if err != nil {
		return nil, p.fail(StageTokenize, line, err)
	}
	j, err := p.parser.ParseJudgement(tokens)
	if err != nil {
		return nil, p.fail(StageParse, line, err)
	}

	text := j.String()
	tokens, err = lambda.Tokenize(text)
	if err != nil {
		return nil, p.fail(StageReparse, line, err)
	}
	again, err := p.parser.ParseJudgement(tokens)
	if err != nil {
		return nil, p.fail(StageReparse, line, err)
	}
	if !lambda.EqualJudgement(j, again) {
		return nil, p.fail(StageReparse, line, &RoundTripError{First: text, Second: again.String()})
	}

	if err := typecheck.Check(again); err != nil {
		return nil, p.fail(StageTypeCheck, line, err)
	}

	res := &Result{Line: line, Input: input, Parsed: text, Output: text}
	if !p.cfg.Reduce {
		return res, nil
	}
	r := p.newReducer()
	normal, err := r.Reduce(again.Expr)
	if err != nil {
		return nil, p.fail(StageReduce, line, err)
	}
	res.Output = lambda.Judgement{Expr: normal, Type: again.Type}.String()
	res.Stats = r.Stats()
	res.Trace = r.TraceSnapshot()
	tracer().Debugf("line %d: %s => %s", line, text, res.Output)
	return res, nil
}

// ReadLines splits r into lines without their terminators.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}
