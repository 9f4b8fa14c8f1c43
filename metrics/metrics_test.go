package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrToLabel(t *testing.T) {
	assert.Equal(t, "nil", errToLabel(nil))
	assert.Equal(t, "file_not_found", errToLabel(errors.New("file not found")))
	assert.Equal(t, "dial_tcp_connection_refused", errToLabel(errors.New("dial tcp: connection refused")))
}
