package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"glsllayout/internal/version"
)

// cliState is shared by every subcommand of one invocation.
type cliState struct {
	config       projectConfig
	traceCleanup func()
	profCleanup  func()
	useColor     bool
}

func newRootCmd() (*cobra.Command, *cliState) {
	st := &cliState{}
	root := &cobra.Command{
		Use:           "glsllayout",
		Short:         "GLSL memory layout calculator",
		Long:          "glsllayout computes alignment, size, member offsets and Vulkan formats for GLSL types and interface blocks under the scalar, std430 and std140 rules.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.prepare(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			st.finish()
		},
	}

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.String("rule", "", "layout rule (scalar|std430|std140); overrides rules declared in files")
	flags.Int("jobs", 0, "files evaluated in parallel (0 = GOMAXPROCS)")
	flags.String("ui", "auto", "progress UI (auto|on|off)")
	flags.Bool("no-cache", false, "do not read or write the layout cache")
	flags.String("trace", "", "trace output path (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(newTypeCmd(st))
	root.AddCommand(newTableCmd(st))
	root.AddCommand(newStructCmd(st))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCacheCmd())
	return root, st
}

func (st *cliState) prepare(cmd *cobra.Command) error {
	colorFlag, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch colorFlag {
	case "on":
		st.useColor = true
	case "off":
		st.useColor = false
	case "auto":
		st.useColor = isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	color.NoColor = !st.useColor

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, _, err := loadProjectConfig(wd)
	if err != nil {
		return err
	}
	st.config = cfg

	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	profCleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	st.profCleanup = profCleanup
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	st.traceCleanup = cleanup
	return nil
}

// finish is idempotent: cobra skips PersistentPostRun when RunE fails, so
// main calls it again.
func (st *cliState) finish() {
	if st.traceCleanup != nil {
		st.traceCleanup()
		st.traceCleanup = nil
	}
	if st.profCleanup != nil {
		st.profCleanup()
		st.profCleanup = nil
	}
}

func main() {
	root, st := newRootCmd()
	started := time.Now()
	err := root.Execute()
	st.finish()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
	}
	if quiet, _ := root.PersistentFlags().GetBool("quiet"); !quiet {
		if timings, _ := root.PersistentFlags().GetBool("timings"); timings {
			fmt.Fprintf(os.Stderr, "wall %.1f ms\n", toMillis(time.Since(started)))
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func terminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
