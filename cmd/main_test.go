package main

import (
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", log.LevelTrace},
		{"debug", log.LevelDebug},
		{"info", log.LevelInfo},
		{"warn", log.LevelWarn},
		{"error", log.LevelError},
		{"crit", log.LevelCrit},
		{"  INFO ", log.LevelInfo}, // case and whitespace tolerant
	}
	for _, tt := range tests {
		lvl, err := levelFromString(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, lvl, tt.in)
	}
}

func TestLevelFromStringRejectsUnknown(t *testing.T) {
	_, err := levelFromString("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
}
