package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	data := []byte(`{"model":"X","id":1}

{"model":"X","id":2}
`)
	seq, err := ParseReference(data)
	require.NoError(t, err)
	require.Len(t, seq, 2)
	assert.Equal(t, "X", seq[0]["model"])
	assert.Equal(t, 2.0, seq[1]["id"])
}

func TestParseReferenceRejectsMalformedLine(t *testing.T) {
	data := []byte(`{"model":"X"}
not json at all
`)
	_, err := ParseReference(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseOutputDropsMalformedLines(t *testing.T) {
	data := []byte(`{"model":"X"}
Detected OOK package
{"model":"Y"}
`)
	seq := ParseOutput(data)
	require.Len(t, seq, 2)
	assert.Equal(t, "X", seq[0]["model"])
	assert.Equal(t, "Y", seq[1]["model"])
}

func TestParseOutputEmpty(t *testing.T) {
	assert.Empty(t, ParseOutput(nil))
	assert.Empty(t, ParseOutput([]byte("\n\n")))
}
