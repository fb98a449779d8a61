package main

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"addonlint/internal/version"
)

// newRootCmd assembles the CLI: subcommands, persistent flags and the
// tracing lifecycle.
func newRootCmd() *cobra.Command {
	var cleanups []func()
	finish := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	}

	root := &cobra.Command{
		Use:   "addonlint",
		Short: "Security and compatibility validator for Mozilla add-ons",
		Long: `addonlint checks add-on scripts and markup for unsafe DOM usage,
privileged API misuse and APIs removed in specific Gecko versions.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra skips PersistentPostRun when RunE fails; flush anyway.
			atFinalize(finish)
			stopProfiles, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			cleanups = append(cleanups, stopProfiles)
			cleanup, err := setupTracing(cmd)
			if err != nil {
				finish()
				return err
			}
			cleanups = append(cleanups, cleanup)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			finish()
		},
	}

	root.AddCommand(newValidateCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newAppVersionsCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics kept per file (0 = unlimited)")
	flags.String("trace", "", "write trace events to a file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "ring buffer capacity for ring mode")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	return root
}

var (
	finalizeOnce sync.Once
	finalizeMu   sync.Mutex
	finalizers   []func()
)

// atFinalize queues f for cobra's finalize phase, which also runs after a
// failed RunE. cobra keeps finalize hooks in a global list, so a single
// hook drains this queue instead of every root command adding its own.
func atFinalize(f func()) {
	finalizeOnce.Do(func() { cobra.OnFinalize(runFinalizers) })
	finalizeMu.Lock()
	finalizers = append(finalizers, f)
	finalizeMu.Unlock()
}

func runFinalizers() {
	finalizeMu.Lock()
	fns := finalizers
	finalizers = nil
	finalizeMu.Unlock()
	for _, f := range fns {
		f()
	}
}

// main builds the root command and runs it with a context cancelled on
// interrupt. Any error exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the global --color flag.
func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	}
	return isTerminal(os.Stdout), nil
}
