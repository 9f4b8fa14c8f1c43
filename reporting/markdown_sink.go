package reporting

import (
	"fmt"
	"os"
	"strings"

	"github.com/hydrasdr/compat433/types"
)

// MarkdownSink renders the report document and writes it to a file, or to
// stdout when no path is configured.
type MarkdownSink struct {
	path string
}

// NewMarkdownSink creates a markdown sink. An empty path means stdout.
func NewMarkdownSink(path string) *MarkdownSink {
	return &MarkdownSink{path: path}
}

// Write renders and emits the report.
func (s *MarkdownSink) Write(data *ReportData) error {
	content := s.Format(data)
	if s.path == "" {
		_, err := fmt.Print(content)
		return err
	}
	if err := os.WriteFile(s.path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", s.path, err)
	}
	return nil
}

// Path returns the configured output path, empty for stdout.
func (s *MarkdownSink) Path() string {
	return s.path
}

// failureTags maps failure classifications to their report tags.
var failureTags = map[types.Classification]string{
	types.ClassMismatch:      "MISMATCH",
	types.ClassFail:          "FAIL",
	types.ClassMissingDecode: "MISSING",
}

// Format renders the full markdown document. Narrative wording is fixed;
// every table cell is derived from the aggregate so reruns reproduce the
// same report for the same outcomes.
func (s *MarkdownSink) Format(data *ReportData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# HydraSDR-433 Protocol Compatibility Test Report\n\n")
	fmt.Fprintf(&b, "**Date**: %s\n", data.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Executable**: `%s`\n", data.Executable)
	fmt.Fprintf(&b, "**Test suite**: rtl_433_tests (%d reference files)\n", data.SuiteSize)
	fmt.Fprintf(&b, "**Duration**: %.1fs\n", data.Duration.Seconds())
	fmt.Fprintf(&b, "**Ignored fields**: %s\n", strings.Join(data.IgnoredFields, ", "))
	b.WriteString("\n---\n\n")

	s.writeSummary(&b, data)
	s.writeProtocolTable(&b, data)
	s.writeExtraDecodes(&b, data)
	s.writeDetailedFailures(&b, data)
	s.writeNoOutput(&b, data)
	s.writeFalsePositives(&b, data)
	s.writeMethodology(&b, data)
	s.writeConclusion(&b, data)

	b.WriteString("---\n\n*Generated by `compat433`*\n")
	return b.String()
}

func (s *MarkdownSink) writeSummary(b *strings.Builder, data *ReportData) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Result | Count | % | Description |\n")
	b.WriteString("|--------|-------|---|-------------|\n")
	for _, row := range data.Summary {
		fmt.Fprintf(b, "| %s | %d | %.1f%% | %s |\n", row.Label, row.Count, row.Percent, row.Description)
	}
	fmt.Fprintf(b, "| **Total** | **%d** | **100%%** | |\n\n", data.Total)
	fmt.Fprintf(b, "**Effective pass rate: %.1f%%** (%d/%d exact + extra decode)\n\n",
		data.EffectivePassRate, data.EffectivePass, data.Total)
}

func (s *MarkdownSink) writeProtocolTable(b *strings.Builder, data *ReportData) {
	b.WriteString("## Protocol Results\n\n")
	b.WriteString("| Protocol | Tests | Pass | Extra | Mismatch | Missing | Error |\n")
	b.WriteString("|----------|-------|------|-------|----------|---------|-------|\n")
	for _, p := range data.Protocols {
		fmt.Fprintf(b, "| %s | %d | %d | %d | %d | %d | %d |\n",
			p.Name, p.Tests, p.Pass, p.Extra, p.Mismatch, p.Missing, p.Errors)
	}
	b.WriteString("\n")
}

func (s *MarkdownSink) writeExtraDecodes(b *strings.Builder, data *ReportData) {
	if !data.HasExtras() {
		return
	}
	b.WriteString("## Extra Decodes (Duplicate Sensitivity)\n\n")
	b.WriteString("These tests produced correct data but with additional duplicate\n")
	fmt.Fprintf(b, "decode(s). This is a minor sensitivity difference: %s\n", data.Executable)
	b.WriteString("decoded both repetitions of a signal where the reference deduplicated to one.\n\n")
	for _, p := range data.Protocols {
		if len(p.Extras) == 0 {
			continue
		}
		entries := make([]string, 0, len(p.Extras))
		for _, e := range p.Extras {
			entries = append(entries, fmt.Sprintf("%s (%s)", e.Test, e.Detail))
		}
		fmt.Fprintf(b, "- **%s**: %s\n", p.Name, strings.Join(entries, ", "))
	}
	b.WriteString("\n")
}

func (s *MarkdownSink) writeDetailedFailures(b *strings.Builder, data *ReportData) {
	if !data.HasFailures() {
		return
	}
	b.WriteString("## Detailed Failures\n\n")
	for _, p := range data.Protocols {
		if len(p.Failures) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s\n\n", p.Name)
		for _, f := range p.Failures {
			fmt.Fprintf(b, "- **%s** [%s]: %s\n", f.Test, failureTags[f.Class], f.Detail)
		}
		b.WriteString("\n")
	}
}

func (s *MarkdownSink) writeNoOutput(b *strings.Builder, data *ReportData) {
	if !data.HasNoOutput() {
		return
	}
	b.WriteString("## Tests With No Output\n\n")
	for _, p := range data.Protocols {
		if len(p.NoOutput) == 0 {
			continue
		}
		names := make([]string, 0, len(p.NoOutput))
		for _, o := range p.NoOutput {
			names = append(names, o.Test)
		}
		fmt.Fprintf(b, "- **%s**: %s\n", p.Name, strings.Join(names, ", "))
	}
	b.WriteString("\n")
}

func (s *MarkdownSink) writeFalsePositives(b *strings.Builder, data *ReportData) {
	if len(data.FalsePositives) == 0 {
		return
	}
	b.WriteString("## False Positives (Cross-Decoder Matches)\n\n")
	b.WriteString("These are outputs from a different decoder than expected. They are\n")
	b.WriteString("inherent to the protocol similarity between certain devices and exist\n")
	b.WriteString("in the reference implementation as well.\n\n")
	b.WriteString("| Model (false match) | Count | Expected models |\n")
	b.WriteString("|---------------------|-------|-----------------|\n")
	for _, row := range data.FalsePositives {
		fmt.Fprintf(b, "| %s | %d | %s |\n", row.Model, row.Count, strings.Join(row.Expected, ", "))
	}
	b.WriteString("\n")
}

func (s *MarkdownSink) writeMethodology(b *strings.Builder, data *ReportData) {
	b.WriteString("## Methodology\n\n")
	b.WriteString("Each test file was processed as follows:\n\n")
	b.WriteString("1. For each `.json` reference file in the test suite, find matching input\n")
	b.WriteString("   (`.cu8`, `.ook`, `.cs16`, or `.cf32`)\n")
	fmt.Fprintf(b, "2. Run `%s -c 0 -F json -r <input_file>` with a per-case timeout\n", data.Executable)
	b.WriteString("3. Parse JSON output, filtering false positives (wrong model name)\n")
	b.WriteString("4. Compare against reference JSON, ignoring configured fields\n")
	b.WriteString("5. Classify result: exact match, extra decode, mismatch, missing decode,\n")
	b.WriteString("   no output, or error\n\n")
}

func (s *MarkdownSink) writeConclusion(b *strings.Builder, data *ReportData) {
	b.WriteString("## Conclusion\n\n")
	fmt.Fprintf(b, "%s achieves **%.1f%% compatibility** with the reference test suite across %d tests covering %d protocol families.\n\n",
		data.Executable, data.EffectivePassRate, data.Total, len(data.Protocols))
	fmt.Fprintf(b, "- **%d errors** or timeouts\n", data.Errors)
	fmt.Fprintf(b, "- **%d exact matches** (%.1f%%)\n", data.ExactPass, data.ExactPassRate)
	if data.ExtraPass > 0 {
		fmt.Fprintf(b, "- **%d extra decodes** (correct data, duplicate sensitivity difference)\n", data.ExtraPass)
	}
	if data.Mismatches > 0 {
		fmt.Fprintf(b, "- **%d value mismatch(es)** (field differences vs reference)\n", data.Mismatches)
	}
	if data.MissingDecodes > 0 {
		fmt.Fprintf(b, "- **%d missing decode(s)**\n", data.MissingDecodes)
	}
	b.WriteString("\n")
}
