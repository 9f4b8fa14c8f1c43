// Package logging stores per-run artifacts: the raw decoder output for
// every case that did not pass, so failures can be inspected without
// re-running the suite.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"
)

// FileLogger writes case artifacts under <baseDir>/testrun-<runID>/.
type FileLogger struct {
	log     log.Logger
	baseDir string
	runID   string
	dir     string
}

// NewFileLogger creates the run directory and returns a logger bound to it.
func NewFileLogger(logger log.Logger, baseDir, runID string) (*FileLogger, error) {
	if logger == nil {
		logger = log.New()
	}
	dir := filepath.Join(baseDir, "testrun-"+runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", dir, err)
	}
	return &FileLogger{
		log:     logger,
		baseDir: baseDir,
		runID:   runID,
		dir:     dir,
	}, nil
}

// GetRunID returns the run identifier this logger is bound to.
func (l *FileLogger) GetRunID() string {
	return l.runID
}

// Dir returns the run artifact directory.
func (l *FileLogger) Dir() string {
	return l.dir
}

// SaveCaseOutput stores the raw decoder stdout and stderr for one case.
// Stderr is stripped of ANSI escapes first; decoders colorize diagnostics
// when they think they own a terminal. Empty streams produce no file.
func (l *FileLogger) SaveCaseOutput(protocol, test string, stdout, stderr []byte) error {
	caseDir := filepath.Join(l.dir, protocol)
	if err := os.MkdirAll(caseDir, 0755); err != nil {
		return fmt.Errorf("failed to create case directory %s: %w", caseDir, err)
	}

	if len(stdout) > 0 {
		path := filepath.Join(caseDir, test+".out")
		if err := os.WriteFile(path, stdout, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if len(stderr) > 0 {
		clean := stripansi.Strip(string(stderr))
		path := filepath.Join(caseDir, test+".err")
		if err := os.WriteFile(path, []byte(clean), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	l.log.Debug("Saved case output", "protocol", protocol, "test", test)
	return nil
}
