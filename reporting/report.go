// Package reporting turns a completed run aggregate into the compatibility
// report document. It holds no decision logic; every number is derived
// read-only from the aggregate so the tables are reproducible.
package reporting

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/hydrasdr/compat433/runner"
	"github.com/hydrasdr/compat433/types"
)

// SummaryRow is one line of the outcome summary table.
type SummaryRow struct {
	Class       types.Classification
	Label       string
	Description string
	Count       int
	Percent     float64
}

// OutcomeDetail is one reportable case outcome within a protocol group.
type OutcomeDetail struct {
	Test   string
	Class  types.Classification
	Detail string
}

// ProtocolSummary is one row of the per-protocol results table plus the
// outcome lists the narrative sections draw from.
type ProtocolSummary struct {
	Name     string
	Tests    int
	Pass     int
	Extra    int
	Mismatch int // mismatch + fail
	Missing  int // missing_decode + no_output
	Errors   int // error + missing_input

	Extras   []OutcomeDetail // extra-decode outcomes
	Failures []OutcomeDetail // mismatch, fail and missing_decode outcomes
	NoOutput []OutcomeDetail
}

// FalsePositiveRow is one row of the false-positives table.
type FalsePositiveRow struct {
	Model    string
	Count    int
	Expected []string
}

// ReportData contains everything a sink needs to render the report.
type ReportData struct {
	RunID         string
	Date          time.Time
	Executable    string
	TestDir       string
	SuiteSize     int
	Duration      time.Duration
	IgnoredFields []string

	Summary           []SummaryRow // zero-count rows omitted
	Total             int
	ExactPass         int
	ExtraPass         int
	EffectivePass     int
	EffectivePassRate float64
	ExactPassRate     float64

	Protocols      []ProtocolSummary
	FalsePositives []FalsePositiveRow

	Errors         int
	Mismatches     int
	MissingDecodes int
}

// HasExtras reports whether any protocol produced extra decodes.
func (d *ReportData) HasExtras() bool {
	for _, p := range d.Protocols {
		if len(p.Extras) > 0 {
			return true
		}
	}
	return false
}

// HasFailures reports whether any protocol has detailed failures.
func (d *ReportData) HasFailures() bool {
	for _, p := range d.Protocols {
		if len(p.Failures) > 0 {
			return true
		}
	}
	return false
}

// HasNoOutput reports whether any protocol has silent cases.
func (d *ReportData) HasNoOutput() bool {
	for _, p := range d.Protocols {
		if len(p.NoOutput) > 0 {
			return true
		}
	}
	return false
}

// summaryOrder fixes the row order and wording of the summary table.
var summaryOrder = []struct {
	class       types.Classification
	label       string
	description string
}{
	{types.ClassPass, "PASS (exact)", "Output matches reference exactly"},
	{types.ClassExtra, "PASS (extra decode)", "Correct data + extra duplicate decode(s)"},
	{types.ClassMissingDecode, "FAIL (missing decode)", "Fewer decodes than expected"},
	{types.ClassMismatch, "FAIL (value mismatch)", "Field values differ from reference"},
	{types.ClassFail, "FAIL (other)", "Structural mismatch"},
	{types.ClassNoOutput, "No output", "No matching decoder output"},
	{types.ClassError, "Error", "Timeout or launch failure"},
	{types.ClassMissingInput, "Missing input", "No .cu8/.ook file for reference"},
}

// Meta carries run metadata that does not live in the aggregate.
type Meta struct {
	DecoderPath   string
	TestDir       string
	IgnoredFields []string
}

// ReportBuilder constructs ReportData from a run aggregate.
type ReportBuilder struct{}

// NewReportBuilder creates a report builder.
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{}
}

// Build derives the full report data from a completed run.
func (rb *ReportBuilder) Build(result *runner.RunResult, meta Meta) *ReportData {
	data := &ReportData{
		RunID:          result.RunID,
		Date:           time.Now(),
		Executable:     filepath.Base(meta.DecoderPath),
		TestDir:        meta.TestDir,
		SuiteSize:      result.SuiteSize,
		Duration:       result.Duration,
		IgnoredFields:  dedupeSorted(meta.IgnoredFields),
		Total:          result.Total(),
		ExactPass:      result.Totals[types.ClassPass],
		ExtraPass:      result.Totals[types.ClassExtra],
		EffectivePass:  result.EffectivePass(),
		Errors:         result.Totals[types.ClassError],
		Mismatches:     result.Totals[types.ClassMismatch],
		MissingDecodes: result.Totals[types.ClassMissingDecode],
	}

	if data.Total > 0 {
		data.EffectivePassRate = 100 * float64(data.EffectivePass) / float64(data.Total)
		data.ExactPassRate = 100 * float64(data.ExactPass) / float64(data.Total)
	}

	for _, row := range summaryOrder {
		count := result.Totals[row.class]
		if count == 0 {
			continue
		}
		percent := 0.0
		if data.Total > 0 {
			percent = 100 * float64(count) / float64(data.Total)
		}
		data.Summary = append(data.Summary, SummaryRow{
			Class:       row.class,
			Label:       row.label,
			Description: row.description,
			Count:       count,
			Percent:     percent,
		})
	}

	for _, p := range result.SortedProtocols() {
		data.Protocols = append(data.Protocols, buildProtocolSummary(p))
	}

	data.FalsePositives = buildFalsePositives(result)

	return data
}

func buildProtocolSummary(p *runner.ProtocolResult) ProtocolSummary {
	summary := ProtocolSummary{
		Name:     p.ID,
		Tests:    len(p.Outcomes),
		Pass:     p.Pass(),
		Extra:    p.Extra(),
		Mismatch: p.MismatchOrFail(),
		Missing:  p.MissingOrNoOutput(),
		Errors:   p.ErrorOrMissingInput(),
	}

	for _, o := range p.Outcomes {
		detail := OutcomeDetail{Test: o.Test, Class: o.Class, Detail: o.Detail}
		switch o.Class {
		case types.ClassExtra:
			summary.Extras = append(summary.Extras, detail)
		case types.ClassMismatch, types.ClassFail, types.ClassMissingDecode:
			summary.Failures = append(summary.Failures, detail)
		case types.ClassNoOutput:
			summary.NoOutput = append(summary.NoOutput, detail)
		}
	}
	return summary
}

// buildFalsePositives returns tally rows sorted by descending count, then
// by model name so the table is deterministic.
func buildFalsePositives(result *runner.RunResult) []FalsePositiveRow {
	rows := make([]FalsePositiveRow, 0, len(result.FalsePositives))
	for model, entry := range result.FalsePositives {
		rows = append(rows, FalsePositiveRow{
			Model:    model,
			Count:    entry.Count,
			Expected: entry.ExpectedModels(),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Model < rows[j].Model
	})
	return rows
}

func dedupeSorted(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
