package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glsllayout/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the layout cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cache.Open(cacheApp)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cache.Open(cacheApp)
			if err != nil {
				return err
			}
			if err := c.DropAll(); err != nil {
				return fmt.Errorf("failed to clean %q: %w", c.Dir(), err)
			}
			if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", c.Dir())
			}
			return nil
		},
	})
	return cmd
}
