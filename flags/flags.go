package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "COMPAT433"

func prefixEnvVar(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	Decoder = &cli.StringFlag{
		Name:     "decoder",
		Aliases:  []string{"d"},
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVar("DECODER"),
		Usage:    "Path to the decoder executable under test (eg. 'hydrasdr_433')",
	}
	TestDir = &cli.StringFlag{
		Name:    "testdir",
		Aliases: []string{"t"},
		Value:   "tests",
		EnvVars: prefixEnvVar("TESTDIR"),
		Usage:   "Path to the reference corpus directory",
	}
	ConfigDir = &cli.StringFlag{
		Name:    "configdir",
		Aliases: []string{"C"},
		Value:   "conf",
		EnvVars: prefixEnvVar("CONFIGDIR"),
		Usage:   "Directory against which protocol-marker config names resolve",
	}
	IgnoreField = &cli.StringSliceFlag{
		Name:    "ignore-field",
		Aliases: []string{"I"},
		Value:   cli.NewStringSlice("time"),
		EnvVars: prefixEnvVar("IGNORE_FIELD"),
		Usage:   "Field to strip from records before comparison (repeatable, default: time)",
	}
	Output = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "",
		EnvVars: prefixEnvVar("OUTPUT"),
		Usage:   "Write the markdown report to this file instead of stdout",
	}
	FirstLine = &cli.BoolFlag{
		Name:    "first-line",
		Value:   false,
		EnvVars: prefixEnvVar("FIRST_LINE"),
		Usage:   "Only compare the first output record of each case (smoke mode)",
	}
	Timeout = &cli.DurationFlag{
		Name:    "timeout",
		Value:   30 * time.Second,
		EnvVars: prefixEnvVar("TIMEOUT"),
		Usage:   "Per-case decoder timeout",
	}
	SuiteConfig = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: prefixEnvVar("CONFIG"),
		Usage:   "Optional YAML suite config (ignore fields, timeout, group skips)",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: prefixEnvVar("LOGDIR"),
		Usage:   "Directory for per-run artifacts (raw decoder output of failing cases)",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: prefixEnvVar("LOG_LEVEL"),
		Usage:   "Log level (trace, debug, info, warn, error, crit)",
	}
	Serve = &cli.BoolFlag{
		Name:    "serve",
		Value:   false,
		EnvVars: prefixEnvVar("SERVE"),
		Usage:   "Keep the healthz/metrics servers up after the run until interrupted",
	}
)

var requiredFlags = []cli.Flag{
	Decoder,
}

var optionalFlags = []cli.Flag{
	TestDir,
	ConfigDir,
	IgnoreField,
	Output,
	FirstLine,
	Timeout,
	SuiteConfig,
	LogDir,
	LogLevel,
	Serve,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
