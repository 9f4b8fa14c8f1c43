package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrasdr/compat433/types"
)

func TestFilterReroutesUnexpectedModel(t *testing.T) {
	tally := NewFalsePositiveTally()
	expected := []types.Record{rec("model", "X")}
	records := []types.Record{rec("model", "Y")}

	kept, filtered := Filter(records, expected, tally)

	assert.Empty(t, kept)
	assert.Equal(t, 1, filtered)

	require.Contains(t, tally, "Y")
	assert.Equal(t, 1, tally["Y"].Count)
	assert.Equal(t, []string{"X"}, tally["Y"].ExpectedModels())
}

func TestFilterKeepsExpectedModels(t *testing.T) {
	tally := NewFalsePositiveTally()
	expected := []types.Record{rec("model", "X"), rec("model", "Z")}
	records := []types.Record{rec("model", "Z", "id", 7.0), rec("model", "X")}

	kept, filtered := Filter(records, expected, tally)

	assert.Len(t, kept, 2)
	assert.Zero(t, filtered)
	assert.Empty(t, tally)
}

func TestFilterSkipsRecordsWithoutModel(t *testing.T) {
	tally := NewFalsePositiveTally()
	expected := []types.Record{rec("model", "X")}
	records := []types.Record{rec("id", 1.0)}

	kept, filtered := Filter(records, expected, tally)

	assert.Len(t, kept, 1)
	assert.Zero(t, filtered)
	assert.Empty(t, tally)
}

func TestFilterNoopWhenExpectedEmpty(t *testing.T) {
	tally := NewFalsePositiveTally()
	records := []types.Record{rec("model", "Y")}

	kept, filtered := Filter(records, nil, tally)

	assert.Len(t, kept, 1)
	assert.Zero(t, filtered)
	assert.Empty(t, tally)
}

func TestFilterTallyAccumulatesAcrossCases(t *testing.T) {
	tally := NewFalsePositiveTally()

	_, n1 := Filter([]types.Record{rec("model", "Y")}, []types.Record{rec("model", "X")}, tally)
	_, n2 := Filter([]types.Record{rec("model", "Y"), rec("model", "Y")}, []types.Record{rec("model", "Z")}, tally)

	assert.Equal(t, 1, n1)
	assert.Equal(t, 2, n2)

	require.Contains(t, tally, "Y")
	assert.Equal(t, 3, tally["Y"].Count)
	// Expected sets union across cases.
	assert.Equal(t, []string{"X", "Z"}, tally["Y"].ExpectedModels())
}
