package compare

import (
	"fmt"
	"sort"

	"github.com/hydrasdr/compat433/types"
)

// FalsePositiveEntry tracks one unexpected model across the whole run.
type FalsePositiveEntry struct {
	Count    int
	Expected map[string]struct{} // models that were expected when this one fired
}

// FalsePositiveTally accumulates false positives keyed by the unexpected
// model name. It grows monotonically; nothing is ever removed.
type FalsePositiveTally map[string]*FalsePositiveEntry

// NewFalsePositiveTally returns an empty tally.
func NewFalsePositiveTally() FalsePositiveTally {
	return make(FalsePositiveTally)
}

// add increments the count for model and union-adds the expected-model set.
func (t FalsePositiveTally) add(model string, expected map[string]struct{}) {
	entry, ok := t[model]
	if !ok {
		entry = &FalsePositiveEntry{Expected: make(map[string]struct{})}
		t[model] = entry
	}
	entry.Count++
	for m := range expected {
		entry.Expected[m] = struct{}{}
	}
}

// ExpectedModels returns the sorted expected-model set for one entry.
func (e *FalsePositiveEntry) ExpectedModels() []string {
	models := make([]string, 0, len(e.Expected))
	for m := range e.Expected {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// Filter reroutes cross-decoder false positives out of the actual sequence.
//
// A record carrying a model field that is absent from the set of models
// present in the expected sequence is dropped and tallied instead of being
// compared; two physically similar protocols firing on the same signal must
// not be scored as a content mismatch. Records without a model field, or any
// record when the expected sequence is empty, always pass through.
//
// Returns the surviving records and the number filtered from this sequence.
func Filter(records, expected []types.Record, tally FalsePositiveTally) ([]types.Record, int) {
	if len(expected) == 0 {
		return records, 0
	}

	expectedModels := make(map[string]struct{}, len(expected))
	for _, rec := range expected {
		model := ""
		if v, ok := rec["model"]; ok {
			model = fmt.Sprint(v)
		}
		expectedModels[model] = struct{}{}
	}

	kept := records[:0]
	filtered := 0
	for _, rec := range records {
		if v, ok := rec["model"]; ok {
			model := fmt.Sprint(v)
			if _, expected := expectedModels[model]; !expected {
				filtered++
				tally.add(model, expectedModels)
				continue
			}
		}
		kept = append(kept, rec)
	}
	return kept, filtered
}
