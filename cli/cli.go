// Package cli wires the command surface: profile resolution, backend
// selection and the run/benchmark entry points.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/snowbench/snowbench/adapters"
	"github.com/snowbench/snowbench/bench"
	"github.com/snowbench/snowbench/core"
	"github.com/snowbench/snowbench/format"
)

const defaultProfile = "prod"

// Exit codes, stable for scripting.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitConfig  = 2
	ExitConnect = 3
	ExitExec    = 4
)

// Options carry process-level dependencies into the command tree.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the CLI and maps the failure class onto an exit code, so
// scripts can tell configuration, connection and execution failures apart.
func Run(ctx context.Context, args []string, opts Options) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	command := NewRootCommand(opts)
	command.SetArgs(args)
	command.SetOut(opts.Stdout)
	command.SetErr(opts.Stderr)

	if err := command.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(opts.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	return ExitOK
}

func NewRootCommand(opts Options) *cobra.Command {
	var verbose bool

	command := &cobra.Command{
		Use:           "snowbench",
		Short:         "compare Snowflake client backends on your own queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(opts.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	command.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	command.AddCommand(newRunCommand(opts))
	command.AddCommand(newBenchmarkCommand(opts))

	return command
}

// exitCode classifies an error into the exit-code taxonomy.
func exitCode(err error) int {
	var connectErr *core.ConnectError
	if errors.As(err, &connectErr) {
		return ExitConnect
	}

	var execErr *core.ExecError
	if errors.As(err, &execErr) {
		return ExitExec
	}

	switch {
	case errors.Is(err, core.ErrProfileNotFound),
		errors.Is(err, core.ErrMissingAuth),
		errors.Is(err, core.ErrAmbiguousAuth),
		errors.Is(err, core.ErrInvalidIterations),
		errors.Is(err, core.ErrShapeMismatch),
		errors.Is(err, adapters.ErrUnknownBackend):
		return ExitConfig
	}

	return ExitUsage
}

// resolveProfile loads the config file and resolves the named profile.
func resolveProfile(configPath, profileName string) (*core.Profile, error) {
	config, err := core.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if profileName == "" {
		profileName = defaultProfile
	}

	return config.Resolve(profileName)
}

func newFormatter(name string) (core.Formatter, error) {
	switch name {
	case "", "table":
		return format.NewTable(), nil
	case "csv":
		return format.NewCSV(), nil
	case "json":
		return format.NewJSON(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (supported: table, csv, json)", name)
	}
}

func newBenchRunner(out io.Writer) *bench.Runner {
	return bench.NewRunner(
		bench.WithLogger(slog.Default()),
		bench.WithIterationCallback(func(iteration int, took time.Duration, rows int) {
			if iteration == 0 {
				fmt.Fprintf(out, "Iteration %d: %s (%d rows)\n", iteration+1, bench.FmtDur(took), rows)
				return
			}
			fmt.Fprintf(out, "Iteration %d: %s\n", iteration+1, bench.FmtDur(took))
		}),
	)
}
