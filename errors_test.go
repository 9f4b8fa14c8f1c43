package compat

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hydrasdr/compat433/exitcodes"
)

func TestRuntimeError(t *testing.T) {
	cause := errors.New("corpus dir missing")
	err := NewRuntimeError(cause)

	assert.True(t, IsRuntimeError(err))
	assert.False(t, IsCompatFailureError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "runtime error")

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsRuntimeError(wrapped))
}

func TestCompatFailureError(t *testing.T) {
	err := NewCompatFailureError("3 of 10 cases disagree with the reference")

	assert.True(t, IsCompatFailureError(err))
	assert.False(t, IsRuntimeError(err))
	assert.Contains(t, err.Error(), "compatibility failure")

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsCompatFailureError(wrapped))
}

func TestIsErrorNil(t *testing.T) {
	assert.False(t, IsRuntimeError(nil))
	assert.False(t, IsCompatFailureError(nil))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitcodes.Success, ExitCode(nil))
	assert.Equal(t, exitcodes.CompatFailure, ExitCode(NewCompatFailureError("disagreement")))
	assert.Equal(t, exitcodes.RuntimeErr, ExitCode(NewRuntimeError(errors.New("boom"))))
	assert.Equal(t, exitcodes.RuntimeErr, ExitCode(errors.New("untyped")))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m3s", formatDuration(2*time.Minute+3*time.Second))
}
