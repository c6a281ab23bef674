package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"glsllayout/internal/cache"
	"glsllayout/internal/observ"
	"glsllayout/internal/pipeline"
	"glsllayout/internal/report"
)

const cacheApp = "glsllayout"

func newStructCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "struct <file|dir>...",
		Short: "Lay out the structs declared in block files",
		Long: `Lay out every struct declared in the given block files and print member
offsets, alignments, sizes and array strides. Directories are searched
recursively for *.toml files.`,
		Example: `  glsllayout struct shaders/blocks
  glsllayout struct --rule std140 camera.toml`,
		Args: cobra.MinimumNArgs(1),
		RunE: st.runStruct,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func (st *cliState) runStruct(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	quiet, _ := flags.GetBool("quiet")
	timings, _ := flags.GetBool("timings")
	noCache, _ := flags.GetBool("no-cache")
	uiValue, _ := flags.GetString("ui")

	format, err := st.resolveFormat(cmd)
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	rule, forced, err := st.resolveRule(cmd)
	if err != nil {
		return err
	}
	jobs, err := st.resolveJobs(cmd)
	if err != nil {
		return err
	}
	files, err := pipeline.ExpandInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no block files found")
	}

	stderr := cmd.ErrOrStderr()
	req := pipeline.Request{
		Files:     files,
		Rule:      rule,
		ForceRule: forced,
		Jobs:      jobs,
	}
	if !noCache {
		c, err := cache.Open(cacheApp)
		if err != nil {
			if !quiet {
				fmt.Fprintf(stderr, "warning: layout cache disabled: %v\n", err)
			}
		} else {
			req.Cache = c
		}
	}
	if timings {
		req.Timer = observ.NewTimer()
	}

	var res pipeline.Result
	if shouldUseTUI(mode, len(files)) {
		res, err = runWithUI(cmd.Context(), "glsllayout struct", req)
	} else {
		res, err = pipeline.Run(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	ok := make([]report.FileLayouts, 0, len(res.Files))
	for _, f := range res.Files {
		if f.Err != nil {
			fmt.Fprintln(stderr, f.Err)
			continue
		}
		ok = append(ok, report.FileLayouts{Path: f.Path, Rule: f.Rule, Cached: f.Cached, Layouts: f.Layouts})
	}
	if err := st.writeLayouts(cmd.OutOrStdout(), format, ok); err != nil {
		return err
	}

	if timings && !quiet {
		fmt.Fprint(stderr, req.Timer.Summary())
	}
	if failed := res.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(res.Files))
	}
	return nil
}

func (st *cliState) writeLayouts(out io.Writer, format outputFormat, files []report.FileLayouts) error {
	if format == formatJSON {
		return report.WriteLayoutsJSON(out, files)
	}
	if len(files) == 0 {
		return nil
	}
	return report.WriteLayouts(out, files, report.Options{Color: st.useColor, Width: terminalWidth(os.Stdout)})
}
