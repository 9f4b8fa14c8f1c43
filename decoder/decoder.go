// Package decoder invokes the signal-decoding executable under test and
// captures its output.
package decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Sentinel exit codes reported alongside real process exit codes. The
// runner keys its error outcomes off these.
const (
	ExitTimeout       = -1 // process exceeded the per-case timeout and was killed
	ExitLaunchFailure = -2 // process could not be started at all
)

// DefaultTimeout bounds a single decoder invocation.
const DefaultTimeout = 30 * time.Second

// Config contains decoder configuration.
type Config struct {
	Log     log.Logger
	Binary  string // path to the decoder executable
	Timeout time.Duration
}

// Decoder shells out to the executable under test with a bounded timeout.
type Decoder struct {
	log     log.Logger
	binary  string
	timeout time.Duration
}

// New creates a decoder wrapper.
func New(cfg Config) (*Decoder, error) {
	if cfg.Binary == "" {
		return nil, errors.New("decoder binary is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Decoder{
		log:     cfg.Log,
		binary:  cfg.Binary,
		timeout: cfg.Timeout,
	}, nil
}

// Timeout returns the configured per-invocation timeout.
func (d *Decoder) Timeout() time.Duration {
	return d.timeout
}

// Run replays one sample file through the decoder in JSON output mode and
// returns raw stdout, raw stderr and the exit code. A timeout kills the
// process and yields ExitTimeout; a failure to start yields
// ExitLaunchFailure with the cause on the stderr return.
func (d *Decoder) Run(ctx context.Context, input, protocol, configFile string) ([]byte, []byte, int) {
	args := []string{"-c", "0"}
	if protocol != "" {
		args = append(args, "-R", protocol)
	}
	if configFile != "" {
		args = append(args, "-c", configFile)
	}
	args = append(args, "-F", "json", "-r", input)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.log.Debug("Running decoder", "command", cmd.String(), "timeout", d.timeout)

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		d.log.Warn("Decoder timed out", "input", input, "timeout", d.timeout)
		return stdout.Bytes(), stderr.Bytes(), ExitTimeout
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// A non-zero decoder exit is not fatal to scoring; stdout may
			// still hold usable records.
			return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode()
		}
		d.log.Error("Decoder failed to launch", "binary", d.binary, "err", err)
		return stdout.Bytes(), []byte(fmt.Sprintf("%v", err)), ExitLaunchFailure
	}

	return stdout.Bytes(), stderr.Bytes(), 0
}
