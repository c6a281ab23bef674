package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glsllayout/internal/prof"
)

// setupProfiling starts the profilers named by --cpu-profile, --mem-profile
// and --runtime-trace. The returned cleanup may run more than once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	for name, dst := range map[string]*string{
		"cpu-profile":   &opts.CPUPath,
		"mem-profile":   &opts.MemPath,
		"runtime-trace": &opts.TracePath,
	} {
		v, err := flags.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read --%s: %w", name, err)
		}
		*dst = v
	}

	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
		}
	}, nil
}
