package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"glsllayout/glsl"
	"glsllayout/internal/pipeline"
)

type projectConfig struct {
	Defaults defaultsConfig `toml:"defaults"`
}

type defaultsConfig struct {
	Rule   string `toml:"rule"`
	Jobs   int    `toml:"jobs"`
	Format string `toml:"format"`
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, pipeline.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectConfig returns the zero config when no glsllayout.toml exists
// above startDir.
func loadProjectConfig(startDir string) (projectConfig, string, error) {
	path, ok, err := findConfig(startDir)
	if err != nil || !ok {
		return projectConfig{}, "", err
	}
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, path, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, path, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return projectConfig{}, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

func (c projectConfig) validate() error {
	if c.Defaults.Rule != "" {
		if _, err := glsl.ParseRule(c.Defaults.Rule); err != nil {
			return fmt.Errorf("defaults.rule: %w", err)
		}
	}
	if c.Defaults.Jobs < 0 {
		return fmt.Errorf("defaults.jobs must not be negative, got %d", c.Defaults.Jobs)
	}
	if c.Defaults.Format != "" {
		if _, err := parseOutputFormat(c.Defaults.Format); err != nil {
			return fmt.Errorf("defaults.format: %w", err)
		}
	}
	return nil
}

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatJSON   outputFormat = "json"
)

func parseOutputFormat(value string) (outputFormat, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "pretty":
		return formatPretty, nil
	case "json":
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be pretty or json)", value)
	}
}

// resolveRule picks the default rule for a run. A --rule given on the
// command line overrides rules declared inside block files; a configured
// default does not.
func (st *cliState) resolveRule(cmd *cobra.Command) (glsl.Rule, bool, error) {
	flags := cmd.Flags()
	if flags.Changed("rule") {
		value, err := flags.GetString("rule")
		if err != nil {
			return 0, false, err
		}
		rule, err := glsl.ParseRule(value)
		if err != nil {
			return 0, false, fmt.Errorf("invalid --rule: %w", err)
		}
		return rule, true, nil
	}
	if st.config.Defaults.Rule != "" {
		rule, err := glsl.ParseRule(st.config.Defaults.Rule)
		return rule, false, err
	}
	return glsl.RuleBase, false, nil
}

func (st *cliState) resolveJobs(cmd *cobra.Command) (int, error) {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return 0, err
	}
	if cmd.Flags().Changed("jobs") {
		if jobs < 0 {
			return 0, fmt.Errorf("invalid --jobs value %d", jobs)
		}
		return jobs, nil
	}
	return st.config.Defaults.Jobs, nil
}

func (st *cliState) resolveFormat(cmd *cobra.Command) (outputFormat, error) {
	value, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", err
	}
	if !cmd.Flags().Changed("format") && st.config.Defaults.Format != "" {
		value = st.config.Defaults.Format
	}
	return parseOutputFormat(value)
}
