package types

import (
	"reflect"
)

// Classification represents the possible outcomes of a single test case
type Classification string

const (
	ClassPass          Classification = "pass"
	ClassExtra         Classification = "extra"
	ClassMissingDecode Classification = "missing_decode"
	ClassMismatch      Classification = "mismatch"
	ClassFail          Classification = "fail"
	ClassNoOutput      Classification = "no_output"
	ClassError         Classification = "error"
	ClassMissingInput  Classification = "missing_input"
)

// Classifications returns all known classifications in report order.
func Classifications() []Classification {
	return []Classification{
		ClassPass,
		ClassExtra,
		ClassMissingDecode,
		ClassMismatch,
		ClassFail,
		ClassNoOutput,
		ClassError,
		ClassMissingInput,
	}
}

// Known reports whether c is one of the defined classifications.
func (c Classification) Known() bool {
	switch c {
	case ClassPass, ClassExtra, ClassMissingDecode, ClassMismatch,
		ClassFail, ClassNoOutput, ClassError, ClassMissingInput:
		return true
	}
	return false
}

// IsContentFailure reports whether c is a content-confirmed disagreement.
// Only these contribute to the process exit code; no_output and error are
// reported but do not fail CI.
func (c Classification) IsContentFailure() bool {
	return c == ClassMismatch || c == ClassFail || c == ClassMissingDecode
}

// Record is one structured decode event: an arbitrary JSON object keyed by
// field name. Values are whatever encoding/json produces (string, float64,
// bool, nil, nested maps and slices).
type Record map[string]any

// Model returns the record's model field, if present. Non-string model
// values are not expected but tolerated by callers via the second return.
func (r Record) Model() (string, bool) {
	v, ok := r["model"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Equal reports whether two records carry exactly the same fields and values.
func (r Record) Equal(other Record) bool {
	return reflect.DeepEqual(r, other)
}

// Outcome is the scored result for one test case. Outcomes are append-only
// facts; they are never mutated once folded into a run result.
type Outcome struct {
	Test   string
	Class  Classification
	Detail string
}

// TestCase is one reference-file/input-sample pairing to be exercised.
// Protocol and Name are derived once during corpus discovery and never
// re-derived afterwards.
type TestCase struct {
	Protocol string // protocol-group identifier (top-level directory name)
	Name     string // test name (reference file basename without extension)
	RefPath  string // path to the NDJSON reference file
	// InputPath is the resolved sample file, or empty if none of the
	// candidate extensions exist next to the reference file.
	InputPath string
	// Override is a literal protocol-selector token passed to the decoder
	// with -R. Mutually exclusive with ConfigFile.
	Override string
	// ConfigFile is a decoder configuration file resolved against the
	// config directory; it takes priority over Override.
	ConfigFile string
}
