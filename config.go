package compat

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/hydrasdr/compat433/corpus"
	"github.com/hydrasdr/compat433/flags"
)

// Config holds the application configuration
type Config struct {
	DecoderPath  string
	TestDir      string
	ConfigDir    string
	IgnoreFields []string
	Output       string // markdown report path; empty means stdout
	FirstLine    bool
	Timeout      time.Duration
	LogDir       string
	Serve        bool
	SuiteConfig  *corpus.SuiteConfig // optional; nil when no --config given
	Log          log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	decoderPath := ctx.String(flags.Decoder.Name)
	if decoderPath == "" {
		return nil, errors.New("decoder executable is required")
	}
	absDecoder, err := filepath.Abs(decoderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for decoder '%s': %w", decoderPath, err)
	}

	testDir := ctx.String(flags.TestDir.Name)
	absTestDir, err := filepath.Abs(testDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for test directory '%s': %w", testDir, err)
	}

	configDir := ctx.String(flags.ConfigDir.Name)
	absConfigDir, err := filepath.Abs(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for config directory '%s': %w", configDir, err)
	}

	logDir := ctx.String(flags.LogDir.Name)
	if logDir == "" {
		logDir = "logs"
	}
	logDir, err = filepath.Abs(logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", logDir, err)
	}

	cfg := &Config{
		DecoderPath:  absDecoder,
		TestDir:      absTestDir,
		ConfigDir:    absConfigDir,
		IgnoreFields: ctx.StringSlice(flags.IgnoreField.Name),
		Output:       ctx.String(flags.Output.Name),
		FirstLine:    ctx.Bool(flags.FirstLine.Name),
		Timeout:      ctx.Duration(flags.Timeout.Name),
		LogDir:       logDir,
		Serve:        ctx.Bool(flags.Serve.Name),
		Log:          logger,
	}

	// Merge the optional suite config under the CLI flags.
	if path := ctx.String(flags.SuiteConfig.Name); path != "" {
		suiteCfg, err := corpus.LoadSuiteConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load suite config: %w", err)
		}
		cfg.SuiteConfig = suiteCfg
		cfg.IgnoreFields = append(cfg.IgnoreFields, suiteCfg.IgnoreFields...)
		if suiteCfg.Timeout != 0 && !ctx.IsSet(flags.Timeout.Name) {
			cfg.Timeout = suiteCfg.Timeout
		}
	}

	return cfg, nil
}
