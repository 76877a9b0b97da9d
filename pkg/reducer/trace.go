package reducer

import "fmt"

type RuleKind int

const (
	RuleUnknown RuleKind = iota
	RuleBeta
	RuleAlpha
)

func (k RuleKind) String() string {
	switch k {
	case RuleBeta:
		return "beta"
	case RuleAlpha:
		return "alpha"
	default:
		return "unknown"
	}
}

// TraceEvent is one rewrite. Name is the binder involved; Fresh is the
// replacement name of an alpha conversion.
type TraceEvent struct {
	Step  int
	Rule  RuleKind
	Name  string
	Fresh string
}

func (e TraceEvent) String() string {
	if e.Rule == RuleAlpha {
		return fmt.Sprintf("#%d alpha %s -> %s", e.Step, e.Name, e.Fresh)
	}
	return fmt.Sprintf("#%d %s %s", e.Step, e.Rule, e.Name)
}

// traceBuffer keeps the first cap events of a reduction.
type traceBuffer struct {
	buf []TraceEvent
	cap int
	idx int
	on  bool
}

func (t *traceBuffer) reset() {
	t.idx = 0
}

func (t *traceBuffer) record(ev TraceEvent) {
	if !t.on || t.idx >= t.cap {
		return
	}
	t.buf[t.idx] = ev
	t.idx++
}

// EnableTrace starts recording up to capacity events per Reduce call.
func (r *Reducer) EnableTrace(capacity int) {
	if capacity <= 0 {
		capacity = 1
	}
	r.trace.buf = make([]TraceEvent, capacity)
	r.trace.cap = capacity
	r.trace.idx = 0
	r.trace.on = true
}

func (r *Reducer) DisableTrace() {
	r.trace.on = false
}

// TraceSnapshot returns a copy of the events recorded by the last call, or
// nil if tracing is off.
func (r *Reducer) TraceSnapshot() []TraceEvent {
	if !r.trace.on {
		return nil
	}
	res := make([]TraceEvent, r.trace.idx)
	copy(res, r.trace.buf[:r.trace.idx])
	return res
}
