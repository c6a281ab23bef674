package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"glsllayout/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// buildInfo collects the ldflags metadata; commit and date are only
// filled when requested and read "unknown" when the build left them empty.
func buildInfo(withCommit, withDate bool) versionPayload {
	known := func(s string) string {
		if s = strings.TrimSpace(s); s == "" {
			return "unknown"
		}
		return s
	}
	p := versionPayload{Tool: "glsllayout", Version: strings.TrimSpace(version.Version)}
	if p.Version == "" {
		p.Version = "dev"
	}
	if withCommit {
		p.GitCommit = known(version.GitCommit)
	}
	if withDate {
		p.BuildDate = known(version.BuildDate)
	}
	return p
}

func newVersionCmd() *cobra.Command {
	var (
		format           string
		withCommit, date bool
		full             bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show glsllayout build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := buildInfo(withCommit || full, date || full)
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			case "pretty":
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}

			v := p.Version
			if v == version.Version {
				v = version.Pretty()
			}
			fmt.Fprintf(out, "%s %s\n", p.Tool, v)
			if p.GitCommit != "" {
				fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
			}
			if p.BuildDate != "" {
				fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&withCommit, "hash", false, "include git commit hash")
	cmd.Flags().BoolVar(&date, "date", false, "include build timestamp")
	cmd.Flags().BoolVar(&full, "full", false, "include every recorded piece of build metadata")
	return cmd
}
