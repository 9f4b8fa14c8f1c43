// Package compat orchestrates a compatibility run: corpus discovery, case
// execution, aggregation, report rendering and exit-code signaling.
package compat

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hydrasdr/compat433/corpus"
	"github.com/hydrasdr/compat433/decoder"
	"github.com/hydrasdr/compat433/exitcodes"
	"github.com/hydrasdr/compat433/logging"
	"github.com/hydrasdr/compat433/metrics"
	"github.com/hydrasdr/compat433/reporting"
	"github.com/hydrasdr/compat433/runner"
	"github.com/hydrasdr/compat433/types"
)

// Compat drives one comparison run end to end.
type Compat struct {
	config  *Config
	version string
	scanner *corpus.Scanner
	result  *runner.RunResult
}

// New creates the orchestrator and its collaborators.
func New(config *Config, version string) (*Compat, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating compat run with config",
		"decoder", config.DecoderPath,
		"testDir", config.TestDir,
		"configDir", config.ConfigDir,
		"ignoreFields", config.IgnoreFields,
		"firstLine", config.FirstLine,
		"timeout", config.Timeout)

	scanner, err := corpus.NewScanner(corpus.Config{
		Log:       config.Log,
		TestDir:   config.TestDir,
		ConfigDir: config.ConfigDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create corpus scanner: %w", err)
	}

	return &Compat{
		config:  config,
		version: version,
		scanner: scanner,
	}, nil
}

// Result returns the aggregate of the last run, or nil before any run.
func (c *Compat) Result() *runner.RunResult {
	return c.result
}

// Run executes the whole comparison once. It returns a CompatFailureError
// when the run finishes with content-confirmed disagreements, a
// RuntimeError for operational failures, and nil on full agreement.
func (c *Compat) Run(ctx context.Context) error {
	cases, suiteSize, err := c.scanner.Discover()
	if err != nil {
		return NewRuntimeError(err)
	}
	c.config.Log.Info("Found reference files", "count", suiteSize, "cases", len(cases), "dir", c.config.TestDir)

	dec, err := decoder.New(decoder.Config{
		Log:     c.config.Log,
		Binary:  c.config.DecoderPath,
		Timeout: c.config.Timeout,
	})
	if err != nil {
		return NewRuntimeError(err)
	}

	runID := uuid.New().String()
	fileLogger, err := logging.NewFileLogger(c.config.Log, c.config.LogDir, runID)
	if err != nil {
		// Artifacts are a convenience; a failure here must not stop scoring.
		c.config.Log.Error("Failed to create artifact logger, continuing without", "err", err)
		fileLogger = nil
	}

	caseRunner, err := runner.NewRunner(runner.Config{
		Log:          c.config.Log,
		Decoder:      dec,
		Cases:        cases,
		IgnoreFields: c.config.IgnoreFields,
		FirstLine:    c.config.FirstLine,
		SuiteConfig:  c.config.SuiteConfig,
		FileLogger:   fileLogger,
		SuiteSize:    suiteSize,
	})
	if err != nil {
		return NewRuntimeError(err)
	}

	result, err := caseRunner.Run(ctx)
	if err != nil {
		return NewRuntimeError(err)
	}
	c.result = result

	c.recordRunMetrics(result)

	builder := reporting.NewReportBuilder()
	data := builder.Build(result, reporting.Meta{
		DecoderPath:   c.config.DecoderPath,
		TestDir:       c.config.TestDir,
		IgnoredFields: c.config.IgnoreFields,
	})
	sink := reporting.NewMarkdownSink(c.config.Output)
	if err := sink.Write(data); err != nil {
		return NewRuntimeError(err)
	}
	if c.config.Output != "" {
		c.config.Log.Info("Report written", "path", c.config.Output)
	}

	c.printResultsTable(result)
	fmt.Println(result.String())
	c.config.Log.Info("Comparison run completed", "run_id", result.RunID,
		"total", result.Total(), "effective_pass", result.EffectivePass(),
		"content_failures", result.ContentFailures())

	if failures := result.ContentFailures(); failures > 0 {
		return NewCompatFailureError(fmt.Sprintf(
			"%d of %d cases disagree with the reference (%d mismatch, %d other fail, %d missing decode)",
			failures, result.Total(),
			result.Totals[types.ClassMismatch], result.Totals[types.ClassFail], result.Totals[types.ClassMissingDecode]))
	}
	return nil
}

// recordRunMetrics publishes run totals and the false-positive tally.
func (c *Compat) recordRunMetrics(result *runner.RunResult) {
	metrics.RecordRun(result.RunID, result.Total(), result.EffectivePass(),
		result.ContentFailures(), result.Duration)
	for model, entry := range result.FalsePositives {
		metrics.RecordFalsePositive(result.RunID, model, entry.Count)
	}
}

// printResultsTable prints the per-protocol results to the console.
func (c *Compat) printResultsTable(result *runner.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Protocol Compatibility Results (%s)", formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Protocol", "Tests", "Pass", "Extra", "Mismatch", "Missing", "Error",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Protocol", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Pass", Align: text.AlignRight},
		{Name: "Extra", Align: text.AlignRight},
		{Name: "Mismatch", Align: text.AlignRight},
		{Name: "Missing", Align: text.AlignRight},
		{Name: "Error", Align: text.AlignRight},
	})

	for _, p := range result.SortedProtocols() {
		t.AppendRow(table.Row{
			p.ID,
			len(p.Outcomes),
			p.Pass(),
			p.Extra(),
			p.MismatchOrFail(),
			p.MissingOrNoOutput(),
			p.ErrorOrMissingInput(),
		})
	}

	t.AppendFooter(table.Row{
		"Total",
		result.Total(),
		result.Totals[types.ClassPass],
		result.Totals[types.ClassExtra],
		result.Totals[types.ClassMismatch] + result.Totals[types.ClassFail],
		result.Totals[types.ClassMissingDecode] + result.Totals[types.ClassNoOutput],
		result.Totals[types.ClassError] + result.Totals[types.ClassMissingInput],
	})

	t.Render()
}

// ExitCode maps a Run error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitcodes.Success
	case IsCompatFailureError(err):
		return exitcodes.CompatFailure
	default:
		return exitcodes.RuntimeErr
	}
}
