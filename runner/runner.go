// Package runner drives test cases through the decoder and folds their
// outcomes into a run aggregate.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrasdr/compat433/compare"
	"github.com/hydrasdr/compat433/corpus"
	"github.com/hydrasdr/compat433/decoder"
	"github.com/hydrasdr/compat433/logging"
	"github.com/hydrasdr/compat433/metrics"
	"github.com/hydrasdr/compat433/types"
)

// progressInterval is how many cases pass between progress log lines.
const progressInterval = 100

// Decoder abstracts the executable under test so the runner can be
// exercised with a fake in tests.
type Decoder interface {
	Run(ctx context.Context, input, protocol, configFile string) (stdout, stderr []byte, exitCode int)
	Timeout() time.Duration
}

var _ Decoder = (*decoder.Decoder)(nil)

// Config holds configuration for creating a new runner.
type Config struct {
	Log          log.Logger
	Decoder      Decoder
	Cases        []types.TestCase
	IgnoreFields []string            // stripped from both sequences before comparison
	FirstLine    bool                // compare only the first record of each sequence
	SuiteConfig  *corpus.SuiteConfig // optional; provides group skips
	FileLogger   *logging.FileLogger // optional; stores raw output of non-passing cases
	// SuiteSize is the reference-file count quoted in the report metadata,
	// including ignore-marked cases dropped at discovery. Zero means
	// len(Cases).
	SuiteSize int
}

// Runner processes test cases one at a time in discovery order.
type Runner struct {
	log          log.Logger
	dec          Decoder
	cases        []types.TestCase
	ignoreFields []string
	firstLine    bool
	suiteConfig  *corpus.SuiteConfig
	fileLogger   *logging.FileLogger
	suiteSize    int
	runID        string
	tracer       trace.Tracer
}

// NewRunner creates a runner instance.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Decoder == nil {
		return nil, fmt.Errorf("decoder is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.SuiteSize == 0 {
		cfg.SuiteSize = len(cfg.Cases)
	}

	return &Runner{
		log:          cfg.Log,
		dec:          cfg.Decoder,
		cases:        cfg.Cases,
		ignoreFields: cfg.IgnoreFields,
		firstLine:    cfg.FirstLine,
		suiteConfig:  cfg.SuiteConfig,
		fileLogger:   cfg.FileLogger,
		suiteSize:    cfg.SuiteSize,
		tracer:       otel.Tracer("case runner"),
	}, nil
}

// Run processes every case sequentially and returns the aggregate. Cases
// are isolated: a timeout or error in one never aborts the run. The only
// returned errors are context cancellation of the whole run.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	if r.fileLogger != nil {
		r.runID = r.fileLogger.GetRunID()
	} else {
		r.runID = uuid.New().String()
	}

	start := time.Now()
	r.log.Debug("Running comparison", "run_id", r.runID, "cases", len(r.cases))

	result := NewRunResult()
	result.SuiteSize = r.suiteSize

	for idx, tc := range r.cases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run canceled after %d cases: %w", idx, err)
		}

		if r.suiteConfig.Skips(tc.Protocol) {
			r.log.Debug("Skipping case in excluded group", "protocol", tc.Protocol, "test", tc.Name)
			continue
		}

		outcome := r.runCase(ctx, tc, result.FalsePositives)
		result.fold(tc.Protocol, outcome)
		metrics.RecordOutcome(r.runID, tc.Protocol, outcome.Class)

		if (idx+1)%progressInterval == 0 {
			r.log.Info("Progress", "done", idx+1, "total", len(r.cases), "elapsed", time.Since(start).Round(time.Second))
		}
	}

	result.Duration = time.Since(start)
	result.RunID = r.runID
	return result, nil
}

// RunID returns the identifier of the current or last run.
func (r *Runner) RunID() string {
	return r.runID
}

// runCase walks one test case through the full state machine and always
// produces exactly one outcome. Raw decoder output is kept as an artifact
// for every case that did not pass; cases scored before the decoder ran
// have no output and produce no artifact files.
func (r *Runner) runCase(ctx context.Context, tc types.TestCase, tally compare.FalsePositiveTally) types.Outcome {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("case %s/%s", tc.Protocol, tc.Name))
	defer span.End()

	outcome, stdout, stderr := r.scoreCase(ctx, tc, tally)

	if outcome.Class != types.ClassPass && r.fileLogger != nil {
		if err := r.fileLogger.SaveCaseOutput(tc.Protocol, tc.Name, stdout, stderr); err != nil {
			r.log.Error("Failed to save case output", "test", tc.Name, "err", err)
		}
	}
	return outcome
}

// scoreCase classifies one test case and returns the raw decoder streams
// alongside the outcome.
func (r *Runner) scoreCase(ctx context.Context, tc types.TestCase, tally compare.FalsePositiveTally) (types.Outcome, []byte, []byte) {
	if tc.InputPath == "" {
		return types.Outcome{Test: tc.Name, Class: types.ClassMissingInput, Detail: "No input file"}, nil, nil
	}

	refData, err := os.ReadFile(tc.RefPath)
	if err != nil {
		return types.Outcome{Test: tc.Name, Class: types.ClassError,
			Detail: fmt.Sprintf("Invalid reference JSON: %v", err)}, nil, nil
	}
	expected, err := compare.ParseReference(refData)
	if err != nil {
		return types.Outcome{Test: tc.Name, Class: types.ClassError,
			Detail: fmt.Sprintf("Invalid reference JSON: %v", err)}, nil, nil
	}
	expected = compare.RemoveFields(expected, r.ignoreFields)

	stdout, stderr, exitCode := r.dec.Run(ctx, tc.InputPath, tc.Override, tc.ConfigFile)

	switch exitCode {
	case decoder.ExitTimeout:
		return types.Outcome{Test: tc.Name, Class: types.ClassError,
			Detail: fmt.Sprintf("Timeout (%s)", r.dec.Timeout())}, stdout, stderr
	case decoder.ExitLaunchFailure:
		return types.Outcome{Test: tc.Name, Class: types.ClassError,
			Detail: "Launch failed: " + stripansi.Strip(string(stderr))}, stdout, stderr
	}

	actual := compare.ParseOutput(stdout)
	actual, fpCount := compare.Filter(actual, expected, tally)
	actual = compare.RemoveFields(actual, r.ignoreFields)

	if r.firstLine {
		// Smoke mode: check only the first decode. An empty sequence is
		// padded with a placeholder so the comparison stays record-level.
		if len(actual) == 0 {
			actual = []types.Record{{}}
		}
		if len(expected) == 0 {
			expected = []types.Record{{}}
		}
		expected = expected[:1]
		actual = actual[:1]
	}

	if len(actual) == 0 && len(expected) > 0 {
		detail := "No matching output"
		if fpCount > 0 {
			detail += fmt.Sprintf(" (%d false positive(s))", fpCount)
		}
		return types.Outcome{Test: tc.Name, Class: types.ClassNoOutput, Detail: detail}, stdout, stderr
	}

	class, detail := compare.Compare(expected, actual)
	return types.Outcome{Test: tc.Name, Class: class, Detail: detail}, stdout, stderr
}
