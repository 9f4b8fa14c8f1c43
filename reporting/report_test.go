package reporting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrasdr/compat433/compare"
	"github.com/hydrasdr/compat433/runner"
	"github.com/hydrasdr/compat433/types"
)

func sampleResult() *runner.RunResult {
	result := runner.NewRunResult()
	result.RunID = "run-1"
	result.SuiteSize = 6
	result.Duration = 2 * time.Second

	result.Protocols = map[string]*runner.ProtocolResult{
		"acurite": {ID: "acurite", Outcomes: []types.Outcome{
			{Test: "t1", Class: types.ClassPass},
			{Test: "t2", Class: types.ClassExtra, Detail: "+1 extra decode(s) (expected 1, got 2)"},
		}},
		"oregon": {ID: "oregon", Outcomes: []types.Outcome{
			{Test: "t3", Class: types.ClassMismatch, Detail: "Line 1: val: 1 -> 2"},
			{Test: "t4", Class: types.ClassMissingDecode, Detail: "-1 missing decode(s) (expected 2, got 1)"},
			{Test: "t5", Class: types.ClassNoOutput, Detail: "No matching output"},
			{Test: "t6", Class: types.ClassError, Detail: "Timeout (30s)"},
		}},
	}
	result.Totals[types.ClassPass] = 1
	result.Totals[types.ClassExtra] = 1
	result.Totals[types.ClassMismatch] = 1
	result.Totals[types.ClassMissingDecode] = 1
	result.Totals[types.ClassNoOutput] = 1
	result.Totals[types.ClassError] = 1

	result.FalsePositives["Interlogix-Security"] = &compare.FalsePositiveEntry{
		Count:    2,
		Expected: map[string]struct{}{"Acurite-609TXC": {}},
	}
	result.FalsePositives["TPMS-Toyota"] = &compare.FalsePositiveEntry{
		Count:    1,
		Expected: map[string]struct{}{"Oregon-v1": {}},
	}
	return result
}

func sampleMeta() Meta {
	return Meta{
		DecoderPath:   "/usr/local/bin/hydra_433",
		TestDir:       "tests",
		IgnoredFields: []string{"time", "mic", "time"},
	}
}

func TestBuildSummaryOmitsZeroRows(t *testing.T) {
	data := NewReportBuilder().Build(sampleResult(), sampleMeta())

	// fail and missing_input are zero and must not appear.
	require.Len(t, data.Summary, 6)
	for _, row := range data.Summary {
		assert.NotEqual(t, types.ClassFail, row.Class)
		assert.NotEqual(t, types.ClassMissingInput, row.Class)
	}
	assert.Equal(t, "PASS (exact)", data.Summary[0].Label)
	assert.Equal(t, 1, data.Summary[0].Count)
	assert.InDelta(t, 16.67, data.Summary[0].Percent, 0.01)
}

func TestBuildTotalsAndRates(t *testing.T) {
	data := NewReportBuilder().Build(sampleResult(), sampleMeta())

	assert.Equal(t, 6, data.Total)
	assert.Equal(t, 1, data.ExactPass)
	assert.Equal(t, 1, data.ExtraPass)
	assert.Equal(t, 2, data.EffectivePass)
	assert.InDelta(t, 33.33, data.EffectivePassRate, 0.01)
	assert.InDelta(t, 16.67, data.ExactPassRate, 0.01)
	assert.Equal(t, 1, data.Errors)
	assert.Equal(t, 1, data.Mismatches)
	assert.Equal(t, 1, data.MissingDecodes)
	assert.Equal(t, "hydra_433", data.Executable)
}

func TestBuildIgnoredFieldsDeduped(t *testing.T) {
	data := NewReportBuilder().Build(sampleResult(), sampleMeta())
	assert.Equal(t, []string{"mic", "time"}, data.IgnoredFields)
}

func TestBuildProtocolSummaries(t *testing.T) {
	data := NewReportBuilder().Build(sampleResult(), sampleMeta())

	require.Len(t, data.Protocols, 2)
	acurite, oregon := data.Protocols[0], data.Protocols[1]

	assert.Equal(t, "acurite", acurite.Name)
	assert.Equal(t, 2, acurite.Tests)
	assert.Equal(t, 1, acurite.Pass)
	assert.Equal(t, 1, acurite.Extra)
	require.Len(t, acurite.Extras, 1)
	assert.Equal(t, "t2", acurite.Extras[0].Test)

	assert.Equal(t, "oregon", oregon.Name)
	assert.Equal(t, 1, oregon.Mismatch)
	assert.Equal(t, 2, oregon.Missing)
	assert.Equal(t, 1, oregon.Errors)
	// Failures hold mismatch and missing_decode, not no_output.
	require.Len(t, oregon.Failures, 2)
	assert.Equal(t, "t3", oregon.Failures[0].Test)
	assert.Equal(t, "t4", oregon.Failures[1].Test)
	require.Len(t, oregon.NoOutput, 1)
	assert.Equal(t, "t5", oregon.NoOutput[0].Test)
}

func TestBuildFalsePositivesSorted(t *testing.T) {
	data := NewReportBuilder().Build(sampleResult(), sampleMeta())

	require.Len(t, data.FalsePositives, 2)
	// Higher count first.
	assert.Equal(t, "Interlogix-Security", data.FalsePositives[0].Model)
	assert.Equal(t, 2, data.FalsePositives[0].Count)
	assert.Equal(t, []string{"Acurite-609TXC"}, data.FalsePositives[0].Expected)
	assert.Equal(t, "TPMS-Toyota", data.FalsePositives[1].Model)
}

func TestBuildEmptyRun(t *testing.T) {
	data := NewReportBuilder().Build(runner.NewRunResult(), Meta{DecoderPath: "bin"})

	assert.Zero(t, data.Total)
	assert.Zero(t, data.EffectivePassRate)
	assert.Empty(t, data.Summary)
	assert.Empty(t, data.Protocols)
}

func TestFormatMarkdownSections(t *testing.T) {
	data := NewReportBuilder().Build(sampleResult(), sampleMeta())
	out := NewMarkdownSink("").Format(data)

	assert.Contains(t, out, "# HydraSDR-433 Protocol Compatibility Test Report")
	assert.Contains(t, out, "**Executable**: `hydra_433`")
	assert.Contains(t, out, "**Test suite**: rtl_433_tests (6 reference files)")
	assert.Contains(t, out, "**Ignored fields**: mic, time")

	assert.Contains(t, out, "| PASS (exact) | 1 | 16.7% | Output matches reference exactly |")
	assert.Contains(t, out, "| **Total** | **6** | **100%** | |")
	assert.Contains(t, out, "**Effective pass rate: 33.3%** (2/6 exact + extra decode)")

	assert.Contains(t, out, "| acurite | 2 | 1 | 1 | 0 | 0 | 0 |")
	assert.Contains(t, out, "| oregon | 4 | 0 | 0 | 1 | 2 | 1 |")

	assert.Contains(t, out, "## Extra Decodes (Duplicate Sensitivity)")
	assert.Contains(t, out, "- **acurite**: t2 (+1 extra decode(s) (expected 1, got 2))")

	assert.Contains(t, out, "## Detailed Failures")
	assert.Contains(t, out, "### oregon")
	assert.Contains(t, out, "- **t3** [MISMATCH]: Line 1: val: 1 -> 2")
	assert.Contains(t, out, "- **t4** [MISSING]: -1 missing decode(s) (expected 2, got 1)")

	assert.Contains(t, out, "## Tests With No Output")
	assert.Contains(t, out, "- **oregon**: t5")

	assert.Contains(t, out, "## False Positives (Cross-Decoder Matches)")
	assert.Contains(t, out, "| Interlogix-Security | 2 | Acurite-609TXC |")

	assert.Contains(t, out, "## Methodology")
	assert.Contains(t, out, "Run `hydra_433 -c 0 -F json -r <input_file>`")

	assert.Contains(t, out, "## Conclusion")
	assert.Contains(t, out, "hydra_433 achieves **33.3% compatibility**")
	assert.Contains(t, out, "*Generated by `compat433`*")
}

func TestFormatOmitsEmptySections(t *testing.T) {
	result := runner.NewRunResult()
	result.Protocols["acurite"] = &runner.ProtocolResult{
		ID:       "acurite",
		Outcomes: []types.Outcome{{Test: "t1", Class: types.ClassPass}},
	}
	result.Totals[types.ClassPass] = 1

	out := NewMarkdownSink("").Format(NewReportBuilder().Build(result, Meta{DecoderPath: "bin"}))

	assert.NotContains(t, out, "## Extra Decodes")
	assert.NotContains(t, out, "## Detailed Failures")
	assert.NotContains(t, out, "## Tests With No Output")
	assert.NotContains(t, out, "## False Positives")
}

func TestMarkdownSinkWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	sink := NewMarkdownSink(path)
	assert.Equal(t, path, sink.Path())

	data := NewReportBuilder().Build(sampleResult(), sampleMeta())
	require.NoError(t, sink.Write(data))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# HydraSDR-433 Protocol Compatibility Test Report")
}
