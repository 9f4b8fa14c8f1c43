// Package compare implements the comparison core: sequence classification,
// field-level diffing, record normalization and false-positive filtering.
// It is deliberately free of I/O; everything operates on parsed record
// sequences.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hydrasdr/compat433/types"
)

// maxDiffLines bounds how many differing lines are included in a mismatch
// detail string, so reports stay readable for badly diverging cases.
const maxDiffLines = 3

// Compare classifies the actual sequence against the expected one.
//
// An exact element-wise match is a pass. When lengths differ, a multiset
// match is attempted in the direction of the difference: all-expected-found
// in a longer actual is "extra" (duplicate decodes, functionally correct),
// all-actual-found in a longer expected is "missing_decode", and anything
// else is "fail". Equal-length sequences with differing records produce a
// "mismatch" with a bounded field-level diff.
func Compare(expected, actual []types.Record) (types.Classification, string) {
	if sequencesEqual(expected, actual) {
		return types.ClassPass, ""
	}

	if len(expected) != len(actual) {
		if len(actual) > len(expected) {
			if allMatched(expected, actual) {
				nExtra := len(actual) - len(expected)
				return types.ClassExtra, fmt.Sprintf("+%d extra decode(s) (expected %d, got %d)",
					nExtra, len(expected), len(actual))
			}
		}

		if len(actual) < len(expected) {
			if allMatched(actual, expected) {
				nMissing := len(expected) - len(actual)
				return types.ClassMissingDecode, fmt.Sprintf("-%d missing decode(s) (expected %d, got %d)",
					nMissing, len(expected), len(actual))
			}
		}

		return types.ClassFail, fmt.Sprintf("Line count: expected %d, got %d", len(expected), len(actual))
	}

	// Same line count, walk pairwise and diff fields.
	var diffs []string
	for i := range expected {
		exp, act := expected[i], actual[i]
		if exp.Equal(act) {
			continue
		}
		diffs = append(diffs, fmt.Sprintf("Line %d: %s", i+1, diffRecords(exp, act)))
	}

	if len(diffs) == 0 {
		// Unreachable given the exact-equality check above, but keep the
		// classification total.
		return types.ClassPass, ""
	}
	if len(diffs) > maxDiffLines {
		diffs = diffs[:maxDiffLines]
	}
	return types.ClassMismatch, strings.Join(diffs, "; ")
}

// sequencesEqual reports element-wise equality of two sequences.
func sequencesEqual(a, b []types.Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// allMatched reports whether every record in needles has a distinct equal
// counterpart in haystack. Matching is greedy first-fit; each haystack
// element is consumable at most once. Because matching is by exact value
// equality, consumption order does not change the yes/no result.
func allMatched(needles, haystack []types.Record) bool {
	unmatched := make([]types.Record, len(needles))
	copy(unmatched, needles)

	for _, hay := range haystack {
		for i, needle := range unmatched {
			if needle.Equal(hay) {
				unmatched = append(unmatched[:i], unmatched[i+1:]...)
				break
			}
		}
	}
	return len(unmatched) == 0
}

// diffRecords renders the field-level difference between two records as a
// single line. Field names are walked in sorted order for determinism.
func diffRecords(exp, act types.Record) string {
	keys := make(map[string]struct{}, len(exp)+len(act))
	for k := range exp {
		keys[k] = struct{}{}
	}
	for k := range act {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var fieldDiffs []string
	for _, k := range sorted {
		expVal, inExp := exp[k]
		actVal, inAct := act[k]
		switch {
		case !inExp:
			fieldDiffs = append(fieldDiffs, fmt.Sprintf("+%s=%v", k, actVal))
		case !inAct:
			fieldDiffs = append(fieldDiffs, fmt.Sprintf("-%s=%v", k, expVal))
		case !valuesEqual(expVal, actVal):
			fieldDiffs = append(fieldDiffs, fmt.Sprintf("%s: %v -> %v", k, expVal, actVal))
		}
	}
	return strings.Join(fieldDiffs, "; ")
}

func valuesEqual(a, b any) bool {
	return types.Record{"v": a}.Equal(types.Record{"v": b})
}
