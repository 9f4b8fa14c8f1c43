package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	compat "github.com/hydrasdr/compat433"
	"github.com/hydrasdr/compat433/flags"
	"github.com/hydrasdr/compat433/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "compat433"
	app.Usage = "HydraSDR-433 Protocol Compatibility Tester"
	app.Description = "compat433 replays captured sample files through a decoder and scores its output against the rtl_433 reference corpus"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		if err == nil {
			return
		}
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
			return
		}
		// Map typed runtime/compat failures onto their exit codes
		cli.HandleExitCoder(cli.Exit(err.Error(), compat.ExitCode(err)))
	}

	// Start telemetry
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer otelShutdown()

	// Start server
	svc := service.New()
	svc.Start(context.Background())
	defer svc.Shutdown()

	// Start CLI
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

// levelFromString parses a --log.level value into a handler level.
func levelFromString(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return log.LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

func run(ctx *cli.Context) error {
	logLevel, err := levelFromString(ctx.String(flags.LogLevel.Name))
	if err != nil {
		return compat.NewRuntimeError(fmt.Errorf("invalid log level: %w", err))
	}
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, logLevel, true))
	log.SetDefault(logger)

	cfg, err := compat.NewConfig(ctx, logger)
	if err != nil {
		return compat.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	c, err := compat.New(cfg, Version)
	if err != nil {
		return compat.NewRuntimeError(err)
	}

	runErr := c.Run(ctx.Context)

	if cfg.Serve {
		logger.Info("Run complete, serving metrics until interrupted")
		<-ctx.Context.Done()
	}
	return runErr
}
