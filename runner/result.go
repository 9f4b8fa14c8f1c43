package runner

import (
	"fmt"
	"sort"
	"time"

	"github.com/hydrasdr/compat433/compare"
	"github.com/hydrasdr/compat433/types"
)

// ProtocolResult collects the outcomes of one protocol group.
type ProtocolResult struct {
	ID       string
	Outcomes []types.Outcome
}

// countWhere returns how many outcomes satisfy the predicate.
func (p *ProtocolResult) countWhere(pred func(types.Classification) bool) int {
	n := 0
	for _, o := range p.Outcomes {
		if pred(o.Class) {
			n++
		}
	}
	return n
}

// Pass returns the number of exact passes.
func (p *ProtocolResult) Pass() int {
	return p.countWhere(func(c types.Classification) bool { return c == types.ClassPass })
}

// Extra returns the number of extra-decode passes.
func (p *ProtocolResult) Extra() int {
	return p.countWhere(func(c types.Classification) bool { return c == types.ClassExtra })
}

// MismatchOrFail returns the number of content mismatches and structural
// failures.
func (p *ProtocolResult) MismatchOrFail() int {
	return p.countWhere(func(c types.Classification) bool {
		return c == types.ClassMismatch || c == types.ClassFail
	})
}

// MissingOrNoOutput returns the number of missing decodes and silent cases.
func (p *ProtocolResult) MissingOrNoOutput() int {
	return p.countWhere(func(c types.Classification) bool {
		return c == types.ClassMissingDecode || c == types.ClassNoOutput
	})
}

// ErrorOrMissingInput returns the number of operational failures.
func (p *ProtocolResult) ErrorOrMissingInput() int {
	return p.countWhere(func(c types.Classification) bool {
		return c == types.ClassError || c == types.ClassMissingInput
	})
}

// RunResult is the aggregate of a whole comparison run. It is created empty,
// folded into as each case completes, and then consumed read-only by the
// report renderer. The runner is the single owner; there is no concurrent
// mutation. If case execution is ever parallelized, fold must become the
// sole synchronization point.
type RunResult struct {
	Protocols      map[string]*ProtocolResult
	Totals         map[types.Classification]int
	FalsePositives compare.FalsePositiveTally
	RunID          string
	SuiteSize      int // number of reference files discovered
	Duration       time.Duration
}

// NewRunResult returns an empty aggregate.
func NewRunResult() *RunResult {
	totals := make(map[types.Classification]int, len(types.Classifications()))
	for _, c := range types.Classifications() {
		totals[c] = 0
	}
	return &RunResult{
		Protocols:      make(map[string]*ProtocolResult),
		Totals:         totals,
		FalsePositives: compare.NewFalsePositiveTally(),
	}
}

// fold appends one outcome to its protocol group and bumps the matching
// global counter. An unrecognized classification is still counted, as a
// fail, so every processed outcome lands in exactly one bucket.
func (r *RunResult) fold(protocol string, outcome types.Outcome) {
	p, ok := r.Protocols[protocol]
	if !ok {
		p = &ProtocolResult{ID: protocol}
		r.Protocols[protocol] = p
	}
	p.Outcomes = append(p.Outcomes, outcome)

	class := outcome.Class
	if !class.Known() {
		class = types.ClassFail
	}
	r.Totals[class]++
}

// Total returns the number of scored cases.
func (r *RunResult) Total() int {
	n := 0
	for _, count := range r.Totals {
		n += count
	}
	return n
}

// EffectivePass counts exact passes plus extra decodes; extras carry correct
// data and differ only in duplicate sensitivity.
func (r *RunResult) EffectivePass() int {
	return r.Totals[types.ClassPass] + r.Totals[types.ClassExtra]
}

// ContentFailures counts the confirmed disagreements that fail CI.
func (r *RunResult) ContentFailures() int {
	return r.Totals[types.ClassMismatch] + r.Totals[types.ClassFail] + r.Totals[types.ClassMissingDecode]
}

// EffectivePassRate returns the effective pass percentage, or zero for an
// empty run.
func (r *RunResult) EffectivePassRate() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return 100 * float64(r.EffectivePass()) / float64(total)
}

// SortedProtocols returns the protocol groups in stable name order.
func (r *RunResult) SortedProtocols() []*ProtocolResult {
	names := make([]string, 0, len(r.Protocols))
	for name := range r.Protocols {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*ProtocolResult, 0, len(names))
	for _, name := range names {
		out = append(out, r.Protocols[name])
	}
	return out
}

// String renders the console summary printed at the end of a run.
func (r *RunResult) String() string {
	return fmt.Sprintf(
		"=== RESULTS: %d exact pass, %d extra decode, %d mismatch, %d missing decode, %d other fail, %d no output, %d errors (%.1fs) ===\n"+
			"=== Effective pass rate: %.1f%% ===",
		r.Totals[types.ClassPass],
		r.Totals[types.ClassExtra],
		r.Totals[types.ClassMismatch],
		r.Totals[types.ClassMissingDecode],
		r.Totals[types.ClassFail],
		r.Totals[types.ClassNoOutput],
		r.Totals[types.ClassError],
		r.Duration.Seconds(),
		r.EffectivePassRate(),
	)
}
